package fsm

// CollectTransitionStatistics scans encodedTags (the append-only
// sequence of tags-list indices produced by the walker, one per field
// occurrence) from end to start in consecutive pairs, counting each
// edge's occurrences and each tag's total incoming-edge count.
//
// The sequence is walked back to front because decoding processes it in
// the reverse of the order it was written: the last entry appended is
// the first symbol a decoder sees. That first-decoded entry seeds the
// state machine's initial state, so its incoming-transition count is
// forced to at least one even if nothing in the stream ever transitions
// into it.
func CollectTransitionStatistics(encodedTags []int, tagInfos []EncodedTagInfo) {
	if len(encodedTags) == 0 {
		return
	}

	prevPos := encodedTags[len(encodedTags)-1]
	for i := len(encodedTags) - 1; i > 0; i-- {
		pos := encodedTags[i-1]

		d := tagInfos[prevPos].dest(uint32(pos))
		d.NumTransitions++
		tagInfos[pos].NumIncomingTransitions++

		prevPos = pos
	}

	initial := encodedTags[len(encodedTags)-1]
	if tagInfos[initial].NumIncomingTransitions == 0 {
		tagInfos[initial].NumIncomingTransitions = 1
	}
}

package fsm

import "sort"

// noopRef records a tag's NoOp-to-public-list state so ComputeBaseIndices
// can assign it a base once the public list exists.
type noopRef struct {
	TagIndex uint32
	StatePos uint32
}

// CreateStateMachine builds the full two-tier state machine for a
// stream's encoded-tag sequence: private lists for tags with hot
// outgoing edges, a shared public list for everything else, and base
// indices resolving every state's reachable child block.
//
// tagInfos is mutated in place (Base, StateMachinePos, PublicListNoopPos,
// and each DestInfo's Pos are all assigned here); it must have been
// initialized with NewTagInfos and have zero-value transition counts
// until CollectTransitionStatistics has run.
func CreateStateMachine(tagInfos []EncodedTagInfo, encodedTags []int, maxTransition, minCountForState uint32) []StateInfo {
	if len(encodedTags) == 0 {
		return []StateInfo{newState(Invalid, 0)}
	}

	CollectTransitionStatistics(encodedTags, tagInfos)

	// Mark edges hot enough to earn a private-list slot, and pre-subtract
	// their weight from the destination's public-list incoming count.
	for i := range tagInfos {
		for dest, d := range tagInfos[i].DestInfo {
			if d.NumTransitions >= minCountForState {
				tagInfos[dest].NumIncomingTransitions -= d.NumTransitions
				d.included = true
			}
		}
	}

	var (
		stateMachine    []StateInfo
		publicListNoops []noopRef
		noopBase        []uint32
	)

	for tagID := range tagInfos {
		tagInfo := &tagInfos[tagID]
		sz := uint32(len(tagInfo.DestInfo))

		pq := newPriorityQueue()
		var excluded priorityEntry
		haveExcluded := false
		numExcludedTransitions := uint32(0)

		for dest, d := range tagInfo.DestInfo {
			if d.included || d.NumTransitions == tagInfos[dest].NumIncomingTransitions {
				if !d.included {
					tagInfos[dest].NumIncomingTransitions -= d.NumTransitions
				}
				pq.push(priorityEntry{DestIndex: dest, NumTransitions: d.NumTransitions})
			} else {
				numExcludedTransitions += d.NumTransitions
				excluded = priorityEntry{DestIndex: dest, NumTransitions: d.NumTransitions}
				haveExcluded = true
			}
		}

		numStates := uint32(pq.Len())
		if numStates == 0 {
			continue
		}
		if numStates+1 == sz && haveExcluded {
			// Only one destination would be left for the public list:
			// folding it into the private list beats a one-element NoOp.
			numStates++
			pq.push(excluded)
			tagInfos[excluded.DestIndex].NumIncomingTransitions -= excluded.NumTransitions
		}
		if numStates != sz {
			pq.push(priorityEntry{DestIndex: Invalid, NumTransitions: numExcludedTransitions})
			numStates++
		}

		tagInfo.Base = uint32(len(stateMachine))

		noopNodes := uint32(0)
		if numStates > maxTransition+1 {
			noopNodes = (numStates - 2) / maxTransition
		}
		numStates += noopNodes

		prevState := uint32(len(stateMachine)) + numStates
		for uint32(len(stateMachine)) < prevState {
			stateMachine = append(stateMachine, newState(Invalid, Invalid))
		}

		blockSize := (numStates-1)%(maxTransition+1) + 1
		noopBase = noopBase[:0]

		for {
			totalWeight := uint32(0)
			for i := uint32(0); i < blockSize; i++ {
				top := pq.pop()
				totalWeight += top.NumTransitions
				nodeIndex := top.DestIndex
				prevState--

				switch {
				case nodeIndex == Invalid:
					stateMachine[prevState] = newState(Invalid, Invalid)
					tagInfo.PublicListNoopPos = prevState
					publicListNoops = append(publicListNoops, noopRef{TagIndex: uint32(tagID), StatePos: prevState})

				case nodeIndex >= uint32(len(tagInfos)):
					base := noopBase[nodeIndex-uint32(len(tagInfos))]
					stateMachine[prevState] = newState(Invalid, base)
					linkCanonicalSource(stateMachine, base, maxTransition, prevState)

				default:
					stateMachine[prevState] = newState(nodeIndex, Invalid)
					tagInfo.dest(nodeIndex).Pos = prevState
				}
			}

			if pq.Len() == 0 {
				break
			}

			pq.push(priorityEntry{DestIndex: uint32(len(tagInfos)) + uint32(len(noopBase)), NumTransitions: totalWeight})
			noopBase = append(noopBase, prevState)
			blockSize = maxTransition + 1
		}
	}

	publicListBase := uint32(len(stateMachine))
	buildPublicList(tagInfos, &stateMachine, maxTransition)

	computeBaseIndices(tagInfos, stateMachine, publicListNoops, publicListBase, maxTransition)

	return stateMachine
}

// linkCanonicalSource points every state in the block starting at base
// back to noopPos, the NoOp state that covers that block.
func linkCanonicalSource(stateMachine []StateInfo, base, maxTransition, noopPos uint32) {
	for j := uint32(0); j <= maxTransition; j++ {
		if j+base >= uint32(len(stateMachine)) {
			break
		}
		stateMachine[j+base].CanonicalSource = noopPos
	}
}

// buildPublicList lays out the shared tail of the state array from the
// surviving num_incoming_transitions weights, using the same
// block-and-NoOp scheme as the private lists.
func buildPublicList(tagInfos []EncodedTagInfo, stateMachine *[]StateInfo, maxTransition uint32) {
	pq := newPriorityQueue()
	for i := range tagInfos {
		if tagInfos[i].NumIncomingTransitions != 0 {
			pq.push(priorityEntry{DestIndex: uint32(i), NumTransitions: tagInfos[i].NumIncomingTransitions})
		}
	}

	numStates := uint32(pq.Len())
	if numStates == 0 {
		return
	}

	noopNodes := uint32(0)
	if numStates > maxTransition+1 {
		noopNodes = (numStates - 2) / maxTransition
	}
	numStates += noopNodes

	sm := *stateMachine
	prevNode := uint32(len(sm)) + numStates
	for uint32(len(sm)) < prevNode {
		sm = append(sm, newState(Invalid, Invalid))
	}

	blockSize := (numStates-1)%(maxTransition+1) + 1
	var noopBase []uint32

	for {
		totalWeight := uint32(0)
		for i := uint32(0); i < blockSize; i++ {
			top := pq.pop()
			totalWeight += top.NumTransitions
			nodeIndex := top.DestIndex
			prevNode--

			if nodeIndex >= uint32(len(tagInfos)) {
				base := noopBase[nodeIndex-uint32(len(tagInfos))]
				sm[prevNode] = newState(Invalid, base)
				linkCanonicalSource(sm, base, maxTransition, prevNode)
			} else {
				sm[prevNode] = newState(nodeIndex, Invalid)
				tagInfos[nodeIndex].StateMachinePos = prevNode
			}
		}

		if pq.Len() == 0 {
			break
		}

		pq.push(priorityEntry{DestIndex: uint32(len(tagInfos)) + uint32(len(noopBase)), NumTransitions: totalWeight})
		noopBase = append(noopBase, prevNode)
		blockSize = maxTransition + 1
	}

	*stateMachine = sm
}

// computeBaseIndices assigns Base to every state that still needs one:
// public-list NoOps (forwarding a tag's cold destinations) and tags that
// never earned a private list of their own. See BaseIndexSolver in
// spec §4.6: base is the smallest state offset from which every
// remaining destination is reachable, one byte at a time, by walking
// the canonical-source tree.
func computeBaseIndices(tagInfos []EncodedTagInfo, stateMachine []StateInfo, publicListNoops []noopRef, publicListBase, maxTransition uint32) {
	resolve := func(destInfo map[uint32]*DestInfo, destOf func(uint32) uint32) uint32 {
		base := Invalid
		minPos := Invalid

		// The climb below carries `base` as a running accumulator across
		// iterations and relies on public-list transitions always going
		// from lower to higher indices (transpose_encoder.cc's
		// ComputeBaseIndices documents this assumption explicitly), so
		// destinations must be visited in ascending pos order, not
		// whatever order the map happens to give.
		type destPos struct {
			dest uint32
			pos  uint32
		}

		var pending []destPos
		for dest, d := range destInfo {
			if d.Pos != Invalid {
				continue
			}
			pending = append(pending, destPos{dest: dest, pos: destOf(dest)})
		}

		sort.Slice(pending, func(i, j int) bool { return pending[i].pos < pending[j].pos })

		for _, dp := range pending {
			pos := dp.pos

			for base > pos || pos-base > maxTransition {
				if base > pos {
					var cs uint32
					if base == Invalid {
						cs = stateMachine[pos].CanonicalSource
					} else {
						cs = stateMachine[base].CanonicalSource
						minPos = min(minPos, cs)
						cs = stateMachine[cs].CanonicalSource
					}
					if cs == Invalid {
						base = publicListBase
					} else {
						base = stateMachine[cs].Base
					}
				} else {
					pos = stateMachine[pos].CanonicalSource
				}
			}

			minPos = min(minPos, pos)
		}

		return minPos
	}

	stateMachinePos := func(dest uint32) uint32 { return tagInfos[dest].StateMachinePos }

	for _, ref := range publicListNoops {
		minPos := resolve(tagInfos[ref.TagIndex].DestInfo, stateMachinePos)
		if minPos == Invalid {
			panic("fsm: no outgoing transition from a public NoOp")
		}
		stateMachine[ref.StatePos].Base = minPos
	}

	for i := range tagInfos {
		if tagInfos[i].Base != Invalid {
			continue
		}
		if minPos := resolve(tagInfos[i].DestInfo, stateMachinePos); minPos != Invalid {
			tagInfos[i].Base = minPos
		}
	}
}

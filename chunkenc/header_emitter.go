package chunkenc

import (
	"github.com/chunkenc/transpose/format"
	"github.com/chunkenc/transpose/fsm"
	"github.com/chunkenc/transpose/node"
	"github.com/chunkenc/transpose/streamio"
	"github.com/chunkenc/transpose/wire"
)

// bufferIndex keys the lookup from a state's (NodeId, BufferType) to its
// contiguous buffer_pos, used to emit the header's buffer-indices list.
type bufferIndex struct {
	nodeID node.NodeId
	bt     format.BufferType
}

func buildBufferIndex(buffers []emittedBuffer) map[bufferIndex]int {
	idx := make(map[bufferIndex]int, len(buffers))
	for _, b := range buffers {
		idx[bufferIndex{nodeID: b.nodeID, bt: b.bufferType}] = b.pos
	}

	return idx
}

// applyFirstTagSafetyTweak forces the tag that seeds the initial decode
// state to have at least two dest_info entries, so neither the header's
// base emission nor the transition emitter treats its outgoing edge as
// implicit: the decoder needs an explicit first transition to tell
// end-of-stream from continuation.
func applyFirstTagSafetyTweak(tagInfos []fsm.EncodedTagInfo, encodedTags []int) {
	if len(encodedTags) == 0 {
		return
	}

	first := encodedTags[len(encodedTags)-1]
	info := &tagInfos[first]
	if len(info.DestInfo) != 1 {
		return
	}

	var onlyKey uint32
	for k := range info.DestInfo {
		onlyKey = k
	}

	info.DestInfo[onlyKey+1] = &fsm.DestInfo{NumTransitions: 0, Pos: fsm.Invalid}
}

// headerEmitter assembles the uncompressed header bytes described in
// spec §4.8 from the finalized state machine, tag bookkeeping, and
// buffer placement.
type headerEmitter struct{}

func newHeaderEmitter() *headerEmitter {
	return &headerEmitter{}
}

// WriteHeader writes the full uncompressed header to out.
func (headerEmitter) WriteHeader(
	out streamio.Writer,
	bucketLens []int,
	buffers []emittedBuffer,
	stateMachine []fsm.StateInfo,
	tagInfos []fsm.EncodedTagInfo,
	tagsList []node.EncodedTag,
	encodedTags []int,
) bool {
	bufIdx := buildBufferIndex(buffers)

	out.WriteVarint32(uint32(len(bucketLens)))
	out.WriteVarint32(uint32(len(buffers)))

	for _, l := range bucketLens {
		out.WriteVarint32(uint32(l))
	}
	for _, b := range buffers {
		out.WriteVarint32(uint32(b.uncompressedSz))
	}

	out.WriteVarint32(uint32(len(stateMachine)))

	var subtypes []byte
	var bufferIndices []int

	for _, s := range stateMachine {
		if s.EtagIndex == fsm.Invalid {
			out.WriteVarint32(uint32(node.NoOp))
			continue
		}

		et := tagsList[s.EtagIndex]

		switch et.Subtype {
		case node.LengthDelimitedStartOfSubmessage:
			out.WriteVarint32(uint32(node.StartOfSubmessage))
			continue

		case node.LengthDelimitedEndOfSubmessage:
			out.WriteVarint32(wire.Rebase(et.Node.Tag))
			continue
		}

		if et.Node.Tag == 0 {
			out.WriteVarint32(uint32(et.Node.Parent))
			if et.Node.Parent == node.NonProto {
				if pos, ok := bufIdx[bufferIndex{nodeID: et.Node, bt: format.BufferNonProto}]; ok {
					bufferIndices = append(bufferIndices, pos)
				}
			}
			continue
		}

		out.WriteVarint32(et.Node.Tag)

		wt := wire.WireType(et.Node.Tag)
		switch {
		case wt == wire.Varint:
			subtypes = append(subtypes, byte(et.Subtype))
			if et.Subtype >= node.Varint1 {
				if pos, ok := bufIdx[bufferIndex{nodeID: et.Node, bt: format.BufferVarint}]; ok {
					bufferIndices = append(bufferIndices, pos)
				}
			}

		case wt == wire.LengthDelimited: // LengthDelimitedString, the only remaining case here.
			subtypes = append(subtypes, byte(et.Subtype))
			if pos, ok := bufIdx[bufferIndex{nodeID: et.Node, bt: format.BufferString}]; ok {
				bufferIndices = append(bufferIndices, pos)
			}

		case wt == wire.Fixed32:
			if pos, ok := bufIdx[bufferIndex{nodeID: et.Node, bt: format.BufferFixed32}]; ok {
				bufferIndices = append(bufferIndices, pos)
			}

		case wt == wire.Fixed64:
			if pos, ok := bufIdx[bufferIndex{nodeID: et.Node, bt: format.BufferFixed64}]; ok {
				bufferIndices = append(bufferIndices, pos)
			}
		}
	}

	for _, s := range stateMachine {
		base := fsm.Invalid
		single := false

		if s.EtagIndex == fsm.Invalid {
			base = s.Base
		} else {
			info := &tagInfos[s.EtagIndex]
			base = info.Base
			single = len(info.DestInfo) == 1
		}

		switch {
		case base == fsm.Invalid:
			out.WriteVarint32(0)
		case single:
			out.WriteVarint32(base + uint32(len(stateMachine)))
		default:
			out.WriteVarint32(base)
		}
	}

	out.Write(subtypes)

	for _, pos := range bufferIndices {
		out.WriteVarint32(uint32(pos))
	}

	firstTagPos := uint32(0)
	if len(encodedTags) > 0 {
		firstTag := uint32(encodedTags[len(encodedTags)-1])
		for i, s := range stateMachine {
			if s.EtagIndex == firstTag {
				firstTagPos = uint32(i)
				break
			}
		}
	}
	out.WriteVarint32(firstTagPos)

	return true
}

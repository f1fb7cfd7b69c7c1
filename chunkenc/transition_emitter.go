package chunkenc

import (
	"github.com/chunkenc/transpose/fsm"
	"github.com/chunkenc/transpose/streamio"
)

// transitionEmitter walks encodedTags end-to-start (decode order),
// turning each edge into zero or more single-byte state offsets and
// packing runs of up to three trailing zero bytes into one byte's count
// field, per spec §4.9.
type transitionEmitter struct {
	maxTransition uint32
	lastByte      byte
	hasLast       bool
}

func newTransitionEmitter(maxTransition uint32) *transitionEmitter {
	return &transitionEmitter{maxTransition: maxTransition}
}

// WriteTransitions emits the full packed transition stream for
// encodedTags into w.
func (e *transitionEmitter) WriteTransitions(
	w streamio.Writer,
	stateMachine []fsm.StateInfo,
	tagInfos []fsm.EncodedTagInfo,
	encodedTags []int,
) bool {
	if len(encodedTags) == 0 {
		return true
	}

	first := uint32(encodedTags[len(encodedTags)-1])
	currentBase := tagInfos[first].Base

	for i := len(encodedTags) - 1; i > 0; i-- {
		prev := uint32(encodedTags[i])
		tag := uint32(encodedTags[i-1])

		prevInfo := &tagInfos[prev]

		if len(prevInfo.DestInfo) != 1 {
			pos, ok := e.targetState(prevInfo, tag, &tagInfos[tag], stateMachine, &currentBase, w)
			if !ok {
				return false
			}

			if !e.emitTransition(w, stateMachine, currentBase, pos) {
				return false
			}
		}

		currentBase = tagInfos[tag].Base
	}

	if e.hasLast {
		if !w.Write([]byte{e.lastByte}) {
			return false
		}
	}

	return true
}

// targetState resolves the state-index of tag as seen from prevInfo,
// routing through prevInfo's public-list NoOp (and emitting the
// transition into it) when tag has no private-list slot of its own.
func (e *transitionEmitter) targetState(
	prevInfo *fsm.EncodedTagInfo,
	tag uint32,
	tagInfo *fsm.EncodedTagInfo,
	stateMachine []fsm.StateInfo,
	currentBase *uint32,
	w streamio.Writer,
) (uint32, bool) {
	if d, ok := prevInfo.DestInfo[tag]; ok && d.Pos != fsm.Invalid {
		return d.Pos, true
	}

	if prevInfo.PublicListNoopPos != fsm.Invalid {
		if !e.emitTransition(w, stateMachine, *currentBase, prevInfo.PublicListNoopPos) {
			return 0, false
		}
		*currentBase = stateMachine[prevInfo.PublicListNoopPos].Base
	}

	return tagInfo.StateMachinePos, true
}

// emitTransition encodes a transition from currentBase to pos as one
// byte per canonical-source-tree level, walking up until pos is within
// max_transition of a reachable base, then packs the resulting bytes
// into w in root-to-leaf order.
func (e *transitionEmitter) emitTransition(w streamio.Writer, stateMachine []fsm.StateInfo, currentBase, pos uint32) bool {
	var stack [32]byte
	n := 0

	for !(pos >= currentBase && pos-currentBase <= e.maxTransition) {
		parent := stateMachine[pos].CanonicalSource
		if parent == fsm.Invalid {
			panic("chunkenc: transition has no reachable canonical source")
		}

		if n >= len(stack) {
			panic("chunkenc: transition encoding exceeded canonical-source depth bound")
		}

		stack[n] = byte(pos - stateMachine[parent].Base)
		n++
		pos = parent
	}

	stack[n] = byte(pos - currentBase)
	n++

	for i := n - 1; i >= 0; i-- {
		if !e.pushByte(w, stack[i]) {
			return false
		}
	}

	return true
}

func (e *transitionEmitter) pushByte(w streamio.Writer, b byte) bool {
	if b == 0 && e.hasLast && e.lastByte&0x3 < 3 {
		e.lastByte++
		return true
	}

	if e.hasLast {
		if !w.Write([]byte{e.lastByte}) {
			return false
		}
	}

	e.lastByte = b << 2
	e.hasLast = true

	return true
}

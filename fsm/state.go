package fsm

// StateInfo is one slot of the constructed state machine.
type StateInfo struct {
	// EtagIndex is the encoded-tag index this state represents, or
	// Invalid for a NoOp state that only forwards to a child block.
	EtagIndex uint32
	// Base is the first state-index of the block reachable from this
	// state, or Invalid if this state has no outgoing block (it is a
	// leaf, i.e. a regular non-NoOp state).
	Base uint32
	// CanonicalSource is the NoOp state that covers this state: the
	// parent pointer of the canonical-source tree, used to walk up when
	// a destination cannot be reached in one byte from the current base.
	CanonicalSource uint32
}

func newState(etagIndex, base uint32) StateInfo {
	return StateInfo{EtagIndex: etagIndex, Base: base, CanonicalSource: Invalid}
}

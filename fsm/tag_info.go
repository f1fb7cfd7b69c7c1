package fsm

import "github.com/chunkenc/transpose/node"

// DestInfo tracks one outgoing edge from an encoded-tag slot: how many
// times it was taken, and where its destination lives in the source's
// private list (Invalid if the edge never earned a private-list slot).
type DestInfo struct {
	NumTransitions uint32
	Pos            uint32

	// included marks an edge chosen for the source's private list before
	// the block-construction pass has assigned it a real Pos.
	included bool
}

// EncodedTagInfo is the state machine's bookkeeping for one tags-list
// slot: its outgoing edges, how many edges point into it, and where it
// ended up in the constructed state machine.
type EncodedTagInfo struct {
	Node    node.NodeId
	Subtype node.Subtype

	DestInfo               map[uint32]*DestInfo
	NumIncomingTransitions uint32

	// StateMachinePos is this tag's state-index in the public list, or
	// Invalid if it never needed one (all its incoming edges route
	// through senders' private lists).
	StateMachinePos uint32

	// PublicListNoopPos is the state-index of the NoOp this tag created
	// to forward its cold destinations into the public list, or Invalid.
	PublicListNoopPos uint32

	// Base is the first state-index of this tag's private block. A tag
	// without a private list gets a base inside the public list instead;
	// it stays Invalid only when none of its destinations resolves to a
	// state.
	Base uint32
}

// NewTagInfos builds one EncodedTagInfo per entry of tagsList, indices
// aligned so tagInfos[i] describes tagsList[i].
func NewTagInfos(tagsList []node.EncodedTag) []EncodedTagInfo {
	infos := make([]EncodedTagInfo, len(tagsList))
	for i, t := range tagsList {
		infos[i] = EncodedTagInfo{
			Node:              t.Node,
			Subtype:           t.Subtype,
			DestInfo:          make(map[uint32]*DestInfo),
			StateMachinePos:   Invalid,
			PublicListNoopPos: Invalid,
			Base:              Invalid,
		}
	}

	return infos
}

func (t *EncodedTagInfo) dest(index uint32) *DestInfo {
	d, ok := t.DestInfo[index]
	if !ok {
		d = &DestInfo{Pos: Invalid}
		t.DestInfo[index] = d
	}

	return d
}

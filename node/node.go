package node

import (
	"github.com/chunkenc/transpose/format"
	"github.com/chunkenc/transpose/streamio"
)

// Node owns everything the walker and buffer emitter need for one
// distinct NodeId: the MessageId this position was assigned, one
// backward-written data buffer per buffer type (created lazily), and a
// table from subtype to this node's encoded-tag index for each subtype
// actually seen.
type Node struct {
	ID        NodeId
	MessageID MessageId

	buffers      [format.BufferTypeCount]*streamio.BackwardWriter
	encodedTagAt [numSubtypes]int32 // sentinel invalidTagPos until assigned
}

const invalidTagPos = -1

func newNode(id NodeId, messageID MessageId) *Node {
	n := &Node{ID: id, MessageID: messageID}
	for i := range n.encodedTagAt {
		n.encodedTagAt[i] = invalidTagPos
	}

	return n
}

// Buffer returns this node's backward-writer for the given buffer type,
// creating it on first reference.
func (n *Node) Buffer(bt format.BufferType) *streamio.BackwardWriter {
	if n.buffers[bt] == nil {
		n.buffers[bt] = streamio.NewBackwardWriter()
	}

	return n.buffers[bt]
}

// HasBuffer reports whether Buffer has ever been called for bt.
func (n *Node) HasBuffer(bt format.BufferType) bool {
	return n.buffers[bt] != nil
}

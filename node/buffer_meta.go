package node

import (
	"github.com/chunkenc/transpose/format"
	"github.com/chunkenc/transpose/streamio"
)

// BufferMeta pairs a node's backward-written buffer with the NodeId that
// owns it, in the order the buffer was first referenced. The buffer
// emitter groups these by buffer type, sorts each group, and streams
// them into compression buckets.
type BufferMeta struct {
	NodeID NodeId
	Writer *streamio.BackwardWriter
}

// Buffer returns n's backward-writer for bt, creating it and recording
// it in this type's emission-order list on first reference.
func (r *Registry) Buffer(n *Node, bt format.BufferType) *streamio.BackwardWriter {
	isNew := !n.HasBuffer(bt)
	w := n.Buffer(bt)
	if isNew {
		r.buffersByType[bt] = append(r.buffersByType[bt], BufferMeta{NodeID: n.ID, Writer: w})
	}

	return w
}

// BuffersByType returns the buffers of type bt in the order they were
// first referenced. The slice is owned by the Registry.
func (r *Registry) BuffersByType(bt format.BufferType) []BufferMeta {
	return r.buffersByType[bt]
}

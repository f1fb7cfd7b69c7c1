// Package node implements the tree of proto message locations the
// transposed encoding is organized around: MessageId identifies a
// distinct message type location, NodeId pairs a parent MessageId with a
// raw proto tag, and Registry lazily allocates a Node (its data buffers
// and subtype-to-encoded-tag table) the first time a NodeId is seen.
package node

// MessageId identifies a distinct proto message type location in the
// tree of nested messages, process-wide and monotonically increasing.
// Reserved values never collide with the user-assigned sequence, which
// starts strictly above the reserved block.
type MessageId uint32

const (
	Root MessageId = iota
	NonProto
	StartOfMessage
	StartOfSubmessage
	NoOp

	firstUserMessageId
)

// Allocator hands out user MessageIds starting strictly above the
// reserved block, one per distinct NodeId, on first reference.
type Allocator struct {
	next MessageId
}

// NewAllocator returns an Allocator ready to assign the first user id.
func NewAllocator() *Allocator {
	return &Allocator{next: firstUserMessageId}
}

// Next returns the next unused MessageId and advances the allocator.
func (a *Allocator) Next() MessageId {
	id := a.next
	a.next++
	return id
}

package node

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/chunkenc/transpose/format"
)

// Registry lazily allocates a Node per distinct NodeId and a dense,
// stable tags-list slot per distinct (Node, Subtype) pair. It mirrors
// the collision package's hash-then-verify lookup shape: entries are
// grouped by the xxHash64 of their NodeId, then compared for exact
// equality, so a hash collision degrades to a short linear scan instead
// of silently aliasing two distinct nodes.
type Registry struct {
	buckets       map[uint64][]*Node
	allocator     *Allocator
	tagsList      []EncodedTag
	buffersByType [format.BufferTypeCount][]BufferMeta
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		buckets:   make(map[uint64][]*Node),
		allocator: NewAllocator(),
	}
}

func hashNodeId(id NodeId) uint64 {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(id.Parent))
	binary.LittleEndian.PutUint32(buf[4:8], id.Tag)
	return xxhash.Sum64(buf[:8])
}

// GetOrCreate returns the Node for id, creating it (and assigning it the
// next MessageId) on first reference.
func (r *Registry) GetOrCreate(id NodeId) *Node {
	h := hashNodeId(id)
	for _, n := range r.buckets[h] {
		if n.ID == id {
			return n
		}
	}

	n := newNode(id, r.allocator.Next())
	r.buckets[h] = append(r.buckets[h], n)

	return n
}

// GetOrCreateReserved returns the Node for id, one of the fixed marker
// positions (start-of-message, non-proto), assigning it mid directly
// instead of drawing from the allocator. Safe to call repeatedly;
// subsequent calls return the cached Node from the first call.
func (r *Registry) GetOrCreateReserved(id NodeId, mid MessageId) *Node {
	h := hashNodeId(id)
	for _, n := range r.buckets[h] {
		if n.ID == id {
			return n
		}
	}

	n := newNode(id, mid)
	r.buckets[h] = append(r.buckets[h], n)

	return n
}

// GetPosInTagsList returns the dense encoded-tag index for (n, subtype),
// assigning a new one on first reference and caching it on n thereafter.
func (r *Registry) GetPosInTagsList(n *Node, subtype Subtype) int {
	if pos := n.encodedTagAt[subtype]; pos != invalidTagPos {
		return int(pos)
	}

	pos := len(r.tagsList)
	r.tagsList = append(r.tagsList, EncodedTag{Node: n.ID, Subtype: subtype})
	n.encodedTagAt[subtype] = int32(pos)

	return pos
}

// TagsList returns the accumulated dense tags list. The slice is owned
// by the Registry and must not be mutated by callers.
func (r *Registry) TagsList() []EncodedTag {
	return r.tagsList
}

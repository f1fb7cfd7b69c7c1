package chunkenc

import (
	"github.com/chunkenc/transpose/format"
	"github.com/chunkenc/transpose/node"
	"github.com/chunkenc/transpose/streamio"
	"github.com/chunkenc/transpose/wire"
)

// maxRecursionDepth caps how many levels of nested length-delimited
// submessages the walker will recurse into before treating the
// innermost one as an opaque string.
const maxRecursionDepth = 100

// startOfMessageNodeID and nonProtoNodeID are the two tag-0 marker
// positions: every proto record gets one start-of-message edge before
// its first field, and every non-proto record shares the single
// non-proto data node.
var (
	startOfMessageNodeID = node.NodeId{Parent: node.StartOfMessage, Tag: 0}
	nonProtoNodeID       = node.NodeId{Parent: node.NonProto, Tag: 0}
)

// walker recursively decodes one record's canonical proto bytes,
// appending one encoded-tag index per field occurrence to encodedTags
// and prepending each field's value bytes to its node's data buffer.
//
// Re-parsing here trusts that wire.IsCanonicalProto already accepted
// the top-level record (and, transitively, every submessage this walk
// recurses into): a malformed read at this stage is a programming
// invariant violation, not a data error, so it panics rather than
// threading an error return through every call.
type walker struct {
	reg         *node.Registry
	encodedTags []int
}

func newWalker(reg *node.Registry, encodedTags []int) *walker {
	return &walker{reg: reg, encodedTags: encodedTags}
}

func (w *walker) appendTag(n *node.Node, subtype node.Subtype) {
	idx := w.reg.GetPosInTagsList(n, subtype)
	w.encodedTags = append(w.encodedTags, idx)
}

// walk decodes data as the body of a message (or group) whose fields'
// NodeIds are parented at parent, at nesting depth depth.
func (w *walker) walk(data []byte, parent node.MessageId, depth int) {
	pos := 0
	var groupStack []node.MessageId

	for pos < len(data) {
		tag, n := mustReadVarint32(data, pos)
		pos += n

		switch wire.WireType(tag) {
		case wire.Varint:
			w.walkVarint(data, &pos, parent, tag)

		case wire.Fixed32:
			w.walkFixed(data, &pos, parent, tag, format.BufferFixed32, 4)

		case wire.Fixed64:
			w.walkFixed(data, &pos, parent, tag, format.BufferFixed64, 8)

		case wire.LengthDelimited:
			w.walkLengthDelimited(data, &pos, parent, tag, depth)

		case wire.StartGroup:
			n := w.reg.GetOrCreate(node.NodeId{Parent: parent, Tag: tag})
			w.appendTag(n, node.Trivial)

			groupStack = append(groupStack, parent)
			parent = n.MessageID
			depth++

		case wire.EndGroup:
			if len(groupStack) == 0 {
				panic("chunkenc: end-group with no matching start after validation")
			}

			n := w.reg.GetOrCreate(node.NodeId{Parent: parent, Tag: tag})
			w.appendTag(n, node.Trivial)

			parent = groupStack[len(groupStack)-1]
			groupStack = groupStack[:len(groupStack)-1]
			depth--

		default:
			panic("chunkenc: unreachable wire type after validation")
		}
	}

	if len(groupStack) != 0 {
		panic("chunkenc: unclosed group after validation")
	}
}

func (w *walker) walkVarint(data []byte, pos *int, parent node.MessageId, tag uint32) {
	start := *pos
	_, n := mustReadVarint64(data, start)
	raw := data[start : start+n]
	*pos = start + n

	nd := w.reg.GetOrCreate(node.NodeId{Parent: parent, Tag: tag})

	if len(raw) == 1 && raw[0] <= node.MaxVarintInline {
		w.appendTag(nd, node.VarintInlineSubtype(raw[0]))
		return
	}

	cleared := make([]byte, len(raw))
	for i, b := range raw {
		cleared[i] = b &^ 0x80
	}
	w.reg.Buffer(nd, format.BufferVarint).Write(cleared)
	w.appendTag(nd, node.VarintLenSubtype(len(raw)))
}

func (w *walker) walkFixed(data []byte, pos *int, parent node.MessageId, tag uint32, bt format.BufferType, size int) {
	start := *pos
	if start+size > len(data) {
		panic("chunkenc: truncated fixed-width field after validation")
	}
	raw := data[start : start+size]
	*pos = start + size

	nd := w.reg.GetOrCreate(node.NodeId{Parent: parent, Tag: tag})
	w.reg.Buffer(nd, bt).Write(raw)
	w.appendTag(nd, node.Trivial)
}

func (w *walker) walkLengthDelimited(data []byte, pos *int, parent node.MessageId, tag uint32, depth int) {
	start := *pos
	length, n := mustReadVarint32(data, start)
	start += n
	if start+int(length) > len(data) {
		panic("chunkenc: truncated length-delimited field after validation")
	}
	payload := data[start : start+int(length)]
	*pos = start + int(length)

	nd := w.reg.GetOrCreate(node.NodeId{Parent: parent, Tag: tag})

	if len(payload) == 0 || depth >= maxRecursionDepth || !wire.IsCanonicalProto(payload) {
		w.writeLengthDelimitedString(nd, payload)
		w.appendTag(nd, node.LengthDelimitedString)

		return
	}

	w.appendTag(nd, node.LengthDelimitedStartOfSubmessage)
	w.walk(payload, nd.MessageID, depth+1)
	w.appendTag(nd, node.LengthDelimitedEndOfSubmessage)
}

func (w *walker) writeLengthDelimitedString(nd *node.Node, payload []byte) {
	buf := w.reg.Buffer(nd, format.BufferString)

	var lenBuf [wire.MaxVarint32Len]byte
	n := streamio.PutUvarint32(lenBuf[:], uint32(len(payload)))

	// One Write keeps the length prefix ahead of the payload; two separate
	// Writes to the backward writer would come out in reverse order.
	field := make([]byte, 0, n+len(payload))
	field = append(field, lenBuf[:n]...)
	field = append(field, payload...)
	buf.Write(field)
}

func mustReadVarint32(data []byte, off int) (uint32, int) {
	v, n, ok := wire.ReadCanonicalVarint32(data, off)
	if !ok {
		panic("chunkenc: re-parse of a validated record failed (varint32)")
	}

	return v, n
}

func mustReadVarint64(data []byte, off int) (uint64, int) {
	v, n, ok := wire.ReadCanonicalVarint64(data, off)
	if !ok {
		panic("chunkenc: re-parse of a validated record failed (varint64)")
	}

	return v, n
}

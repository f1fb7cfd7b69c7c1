package streamio

// BackwardWriter is the prepend-only consumed interface of spec §6 and
// Design Note §9: data buffers are built in reverse of the order their
// bytes are logically needed at decode time, so writes are prepended
// rather than appended.
//
// Implemented as a singly-linked list of immutable blocks grown at the
// head: each Write pushes a new block in front of the previous head.
// Close walks the list from head (most recently written, i.e. logically
// first) to tail (earliest written, i.e. logically last) and
// concatenates them in that order.
type BackwardWriter struct {
	head   *block
	length int64
	closed bool
}

type block struct {
	data []byte
	next *block
}

// NewBackwardWriter returns an empty BackwardWriter.
func NewBackwardWriter() *BackwardWriter {
	return &BackwardWriter{}
}

// Write prepends data to everything written so far. The byte order
// within data itself is preserved; only the relative order between
// separate Write calls is reversed.
func (bw *BackwardWriter) Write(data []byte) bool {
	if bw.closed {
		return false
	}

	if len(data) == 0 {
		return true
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	bw.head = &block{data: cp, next: bw.head}
	bw.length += int64(len(data))

	return true
}

// Pos returns the total number of bytes written so far.
func (bw *BackwardWriter) Pos() int64 {
	return bw.length
}

// Empty reports whether nothing has been written.
func (bw *BackwardWriter) Empty() bool {
	return bw.head == nil
}

// Close finalizes the writer and returns the concatenated bytes in
// logical (decode) order: the last Write first, the first Write last.
// The writer must not be used afterwards.
func (bw *BackwardWriter) Close() []byte {
	out := make([]byte, 0, bw.length)
	for b := bw.head; b != nil; b = b.next {
		out = append(out, b.data...)
	}

	bw.closed = true
	bw.head = nil

	return out
}

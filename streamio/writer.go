package streamio

import (
	"encoding/binary"

	"github.com/chunkenc/transpose/internal/pool"
)

// Writer is the forward-appending consumed interface of spec §6. It
// backs the header, the transition block, and each compressor's input
// accumulation surface.
type Writer interface {
	Write(data []byte) bool
	WriteVarint32(v uint32) bool
	WriteVarint64(v uint64) bool
	Pos() int64
}

// BufferWriter is a Writer backed by a pooled, growable byte buffer.
type BufferWriter struct {
	buf *pool.ByteBuffer
}

var _ Writer = (*BufferWriter)(nil)

// NewBufferWriter returns a Writer with a freshly pooled buffer.
func NewBufferWriter() *BufferWriter {
	return &BufferWriter{buf: pool.Get()}
}

func (w *BufferWriter) Write(data []byte) bool {
	w.buf.MustWrite(data)
	return true
}

func (w *BufferWriter) WriteVarint32(v uint32) bool {
	return w.WriteVarint64(uint64(v))
}

func (w *BufferWriter) WriteVarint64(v uint64) bool {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.MustWrite(tmp[:n])

	return true
}

// Pos returns the number of bytes written so far.
func (w *BufferWriter) Pos() int64 {
	return int64(w.buf.Len())
}

// Bytes returns the accumulated bytes. Valid until the next Reset.
func (w *BufferWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// Reset empties the buffer, retaining its capacity for reuse.
func (w *BufferWriter) Reset() {
	w.buf.Reset()
}

// Release returns the underlying buffer to the pool. The writer must
// not be used afterwards.
func (w *BufferWriter) Release() {
	pool.Put(w.buf)
	w.buf = nil
}

// PutUvarint32 writes the canonical (minimal) varint encoding of v into
// dst and returns the number of bytes written. Used by callers that need
// the encoded bytes without a Writer, e.g. to size a buffer before
// writing.
func PutUvarint32(dst []byte, v uint32) int {
	return binary.PutUvarint(dst, uint64(v))
}

// PutUvarint64 writes the canonical (minimal) varint encoding of v into
// dst and returns the number of bytes written.
func PutUvarint64(dst []byte, v uint64) int {
	return binary.PutUvarint(dst, v)
}

// VarintLen32 returns the number of bytes required to encode v as a
// varint, without allocating.
func VarintLen32(v uint32) int {
	return VarintLen64(uint64(v))
}

// VarintLen64 returns the number of bytes required to encode v as a varint.
func VarintLen64(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}

	return n
}

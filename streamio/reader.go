// Package streamio implements the small reader/writer abstractions the
// transpose chunk encoder is built on: a pull-based Reader over an
// in-memory record, a bounded LimitingReader view, a forward-appending
// Writer, and a prepend-only BackwardWriter.
package streamio

import "encoding/binary"

// Reader is the consumed interface described in spec §6. The encoder
// never streams from disk mid-record: every record arrives as a
// complete []byte, so Reader is a cursor over that slice. Pull always
// succeeds as long as the cursor has not reached the end; it exists so
// call sites read the same as a true streaming reader would.
type Reader interface {
	// Pull reports whether at least one more byte is available.
	Pull() bool
	// ReadByte consumes and returns the next byte.
	ReadByte() (byte, bool)
	// ReadVarint32 consumes a (not necessarily canonical) varint and
	// returns it truncated to 32 bits.
	ReadVarint32() (uint32, bool)
	// ReadVarint64 consumes a (not necessarily canonical) varint.
	ReadVarint64() (uint64, bool)
	// Skip advances the cursor by n bytes without copying them out.
	Skip(n int64) bool
	// CopyTo copies exactly n bytes to w, advancing the cursor.
	CopyTo(w Writer, n int64) bool
	// Seek moves the cursor to an absolute position.
	Seek(pos int64) bool
	// Size returns the total number of bytes available to this reader.
	Size() int64
	// Pos returns the current cursor position.
	Pos() int64
	// Healthy reports whether the reader has not yet failed.
	Healthy() bool
}

// SliceReader is a Reader over an in-memory byte slice.
type SliceReader struct {
	data    []byte
	pos     int64
	healthy bool
}

var _ Reader = (*SliceReader)(nil)

// NewSliceReader creates a Reader positioned at the start of data.
func NewSliceReader(data []byte) *SliceReader {
	return &SliceReader{data: data, healthy: true}
}

func (r *SliceReader) Pull() bool {
	return r.healthy && r.pos < int64(len(r.data))
}

func (r *SliceReader) ReadByte() (byte, bool) {
	if !r.Pull() {
		return 0, false
	}
	b := r.data[r.pos]
	r.pos++

	return b, true
}

func (r *SliceReader) ReadVarint32() (uint32, bool) {
	v, ok := r.ReadVarint64()
	return uint32(v), ok
}

func (r *SliceReader) ReadVarint64() (uint64, bool) {
	if !r.healthy {
		return 0, false
	}

	v, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		r.healthy = false
		return 0, false
	}

	r.pos += int64(n)

	return v, true
}

func (r *SliceReader) Skip(n int64) bool {
	if n < 0 || r.pos+n > int64(len(r.data)) {
		r.healthy = false
		return false
	}

	r.pos += n

	return true
}

func (r *SliceReader) CopyTo(w Writer, n int64) bool {
	if n < 0 || r.pos+n > int64(len(r.data)) {
		r.healthy = false
		return false
	}

	if !w.Write(r.data[r.pos : r.pos+n]) {
		r.healthy = false
		return false
	}

	r.pos += n

	return true
}

func (r *SliceReader) Seek(pos int64) bool {
	if pos < 0 || pos > int64(len(r.data)) {
		return false
	}

	r.pos = pos

	return true
}

func (r *SliceReader) Size() int64    { return int64(len(r.data)) }
func (r *SliceReader) Pos() int64     { return r.pos }
func (r *SliceReader) Healthy() bool  { return r.healthy }

// Remaining returns the unread tail of the underlying slice without
// advancing the cursor.
func (r *SliceReader) Remaining() []byte {
	return r.data[r.pos:]
}

// LimitingReader restricts consumption of an underlying Reader to the
// sub-range [start, start+limit): a read never goes past the limit,
// even if the underlying reader has more bytes after it.
type LimitingReader struct {
	src   Reader
	start int64
	limit int64
}

var _ Reader = (*LimitingReader)(nil)

// NewLimitingReader returns a view of src restricted to n bytes
// starting at src's current position.
func NewLimitingReader(src Reader, n int64) *LimitingReader {
	return &LimitingReader{src: src, start: src.Pos(), limit: n}
}

func (r *LimitingReader) remaining() int64 {
	return r.limit - (r.src.Pos() - r.start)
}

func (r *LimitingReader) Pull() bool {
	return r.remaining() > 0 && r.src.Pull()
}

func (r *LimitingReader) ReadByte() (byte, bool) {
	if r.remaining() <= 0 {
		return 0, false
	}

	return r.src.ReadByte()
}

func (r *LimitingReader) ReadVarint32() (uint32, bool) {
	v, ok := r.ReadVarint64()
	return uint32(v), ok
}

func (r *LimitingReader) ReadVarint64() (uint64, bool) {
	// Varints are read byte-by-byte through ReadByte so the limit is
	// enforced even mid-varint.
	var v uint64
	var shift uint
	for {
		b, ok := r.ReadByte()
		if !ok {
			return 0, false
		}

		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, true
		}

		shift += 7
		if shift >= 64 {
			return 0, false
		}
	}
}

func (r *LimitingReader) Skip(n int64) bool {
	if n > r.remaining() {
		return false
	}

	return r.src.Skip(n)
}

func (r *LimitingReader) CopyTo(w Writer, n int64) bool {
	if n > r.remaining() {
		return false
	}

	return r.src.CopyTo(w, n)
}

func (r *LimitingReader) Seek(pos int64) bool {
	if pos < 0 || pos > r.limit {
		return false
	}

	return r.src.Seek(r.start + pos)
}

func (r *LimitingReader) Size() int64   { return r.limit }
func (r *LimitingReader) Pos() int64    { return r.src.Pos() - r.start }
func (r *LimitingReader) Healthy() bool { return r.src.Healthy() }

package compress

import (
	"github.com/chunkenc/transpose/format"
	"github.com/chunkenc/transpose/internal/pool"
	"github.com/chunkenc/transpose/streamio"
)

// Compressor accumulates a bucket's bytes and compresses the whole
// thing on EncodeAndClose, mirroring spec §6's Compressor consumed
// interface: reset(options), writer(), encode_and_close(out).
//
// Unlike the stateless Codec implementations above, a Compressor holds
// a pooled accumulation buffer across its lifetime and is meant to be
// reused: call Reset between buckets instead of allocating a new one.
type Compressor struct {
	codec Codec
	kind  format.CompressionType
	buf   *pool.ByteBuffer
	stats CompressionStats
}

// NewCompressor returns a Compressor pinned to kind, identifying itself
// as target in any error CreateCodec returns. The zero value is not
// usable; always construct through this function or Reset.
func NewCompressor(kind format.CompressionType, target string) (*Compressor, error) {
	c := &Compressor{}
	if err := c.Reset(kind, target); err != nil {
		return nil, err
	}

	return c, nil
}

// Reset discards any accumulated input and rebinds the compressor to
// kind, reusing its pooled buffer. target names what this compressor
// instance is for ("bucket", "header", "transitions"), surfaced in the
// error if kind is invalid.
func (c *Compressor) Reset(kind format.CompressionType, target string) error {
	codec, err := CreateCodec(kind, target)
	if err != nil {
		return err
	}

	c.codec = codec
	c.kind = kind
	if c.buf == nil {
		c.buf = pool.GetBucket()
	} else {
		c.buf.Reset()
	}

	return nil
}

// Writer returns the streamio.Writer that accumulates this bucket's
// uncompressed bytes. Valid until the next EncodeAndClose or Reset.
func (c *Compressor) Writer() streamio.Writer {
	return (*bucketWriter)(c)
}

// EncodeAndClose compresses everything written since the last Reset
// and appends the result to out. It returns false if compression
// fails; out is left unmodified in that case. The compressor's
// accumulation buffer is released to the pool and must not be used
// again without calling Reset.
func (c *Compressor) EncodeAndClose(out streamio.Writer) bool {
	originalSize := c.buf.Len()

	compressed, err := c.codec.Compress(c.buf.Bytes())
	pool.PutBucket(c.buf)
	c.buf = nil

	if err != nil {
		return false
	}

	c.stats = CompressionStats{
		Algorithm:      c.kind,
		OriginalSize:   int64(originalSize),
		CompressedSize: int64(len(compressed)),
	}
	c.stats.Ratio = c.stats.CompressionRatio()

	return out.Write(compressed)
}

// Type reports the compression algorithm this compressor is bound to.
func (c *Compressor) Type() format.CompressionType {
	return c.kind
}

// Stats reports the outcome of the most recent EncodeAndClose. Before
// any call it is the zero CompressionStats.
func (c *Compressor) Stats() CompressionStats {
	return c.stats
}

// bucketWriter adapts Compressor's accumulation buffer to streamio.Writer.
type bucketWriter Compressor

func (w *bucketWriter) Write(data []byte) bool {
	w.buf.MustWrite(data)
	return true
}

func (w *bucketWriter) WriteVarint32(v uint32) bool {
	return w.WriteVarint64(uint64(v))
}

func (w *bucketWriter) WriteVarint64(v uint64) bool {
	var tmp [10]byte
	n := streamio.PutUvarint64(tmp[:], v)
	w.buf.MustWrite(tmp[:n])

	return true
}

func (w *bucketWriter) Pos() int64 {
	return int64(w.buf.Len())
}

package chunkenc

import (
	"sort"

	"github.com/chunkenc/transpose/compress"
	"github.com/chunkenc/transpose/errs"
	"github.com/chunkenc/transpose/format"
	"github.com/chunkenc/transpose/node"
	"github.com/chunkenc/transpose/streamio"
)

// nonprotoLengthsBufferType marks the emittedBuffer entry synthesized
// for the nonproto_lengths bucket, which has a length but, unlike every
// other buffer, no buffer_pos: it sits one past the valid BufferType
// range so it can never collide with a real (NodeId, BufferType) key.
const nonprotoLengthsBufferType = format.BufferType(format.BufferTypeCount)

// emittedBuffer is one buffer's final placement: its contiguous
// emission-order position (absent for nonproto_lengths, which has no
// buffer_pos) and the size of its closed bytes.
type emittedBuffer struct {
	nodeID         node.NodeId
	bufferType     format.BufferType
	pos            int
	uncompressedSz int
}

// bucketResult is one closed compression bucket's compressed size, for
// the header's bucket_length table.
type bucketResult struct {
	compressedLen int
}

// Stats reports per-bucket compression outcomes, in bucket-close order.
func (e *bufferEmitter) Stats() []compress.CompressionStats {
	return e.stats
}

// bufferEmitter streams a Registry's per-type buffer buckets into
// bucket_size-limited compression buckets, in the fixed buffer-type
// order, followed by the nonproto_lengths buffer forced into its own
// final bucket.
type bufferEmitter struct {
	cfg  *config
	comp *compress.Compressor

	buffers []emittedBuffer
	buckets []bucketResult
	stats   []compress.CompressionStats
}

func newBufferEmitter(cfg *config) (*bufferEmitter, error) {
	comp, err := compress.NewCompressor(cfg.compressionType, "bucket")
	if err != nil {
		return nil, err
	}

	return &bufferEmitter{cfg: cfg, comp: comp}, nil
}

// sortEntry pairs a BufferMeta with the fields used to order it within
// its buffer-type bucket: descending by size, ties broken by ascending
// (parent_message_id, tag).
type sortEntry struct {
	meta node.BufferMeta
	size int
}

func sortBuffers(metas []node.BufferMeta) []sortEntry {
	entries := make([]sortEntry, len(metas))
	for i, m := range metas {
		entries[i] = sortEntry{meta: m, size: int(m.Writer.Pos())}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.size != b.size {
			return a.size > b.size
		}
		if a.meta.NodeID.Parent != b.meta.NodeID.Parent {
			return a.meta.NodeID.Parent < b.meta.NodeID.Parent
		}

		return a.meta.NodeID.Tag < b.meta.NodeID.Tag
	})

	return entries
}

// WriteBuffers emits every buffer-type bucket of reg, in fixed type
// order, into data, followed by nonproto_lengths (if non-empty) as a
// forced final bucket. It returns the per-buffer emission metadata and
// per-bucket compressed lengths the header needs.
func (e *bufferEmitter) WriteBuffers(reg *node.Registry, nonprotoLengths *streamio.BackwardWriter, data streamio.Writer) error {
	pos := 0

	for bt := format.BufferType(0); bt < format.BufferType(format.BufferTypeCount); bt++ {
		entries := sortBuffers(reg.BuffersByType(bt))
		if err := e.closeBucket(data); err != nil {
			return err
		}

		for _, ent := range entries {
			if e.wouldOverflow(ent.size) {
				if err := e.closeBucket(data); err != nil {
					return err
				}
			}

			closed := ent.meta.Writer.Close()
			if !e.comp.Writer().Write(closed) {
				return errs.ErrBufferWriteFailed
			}

			e.buffers = append(e.buffers, emittedBuffer{
				nodeID:         ent.meta.NodeID,
				bufferType:     bt,
				pos:            pos,
				uncompressedSz: ent.size,
			})
			pos++
		}
	}

	if err := e.closeBucket(data); err != nil {
		return err
	}

	if !nonprotoLengths.Empty() {
		sz := int(nonprotoLengths.Pos())
		closed := nonprotoLengths.Close()
		if !e.comp.Writer().Write(closed) {
			return errs.ErrBufferWriteFailed
		}

		if err := e.closeBucket(data); err != nil {
			return err
		}

		// nonproto_lengths has a length (counted in the header's
		// buffer_length table) but no buffer_pos: nothing in the state
		// machine ever references it by index.
		e.buffers = append(e.buffers, emittedBuffer{
			bufferType:     nonprotoLengthsBufferType,
			pos:            -1,
			uncompressedSz: sz,
		})
	}

	return nil
}

// wouldOverflow reports whether writing nextSize more bytes to the
// current bucket would push it past the configured bucket size. A
// bucket that hasn't been written to yet never overflows; NONE
// compression disables the limit entirely (one bucket per type run).
func (e *bufferEmitter) wouldOverflow(nextSize int) bool {
	if e.cfg.compressionType == format.CompressionNone {
		return false
	}
	if e.comp.Writer().Pos() == 0 {
		return false
	}

	return e.comp.Writer().Pos()+int64(nextSize) > int64(e.cfg.bucketSize)
}

// closeBucket flushes the compressor's accumulated input into data as
// one bucket, if anything has been written to it since the last close.
func (e *bufferEmitter) closeBucket(data streamio.Writer) error {
	if e.comp.Writer().Pos() == 0 {
		return nil
	}

	before := data.Pos()
	if !e.comp.EncodeAndClose(data) {
		return errs.ErrCompressorFailed
	}

	e.buckets = append(e.buckets, bucketResult{compressedLen: int(data.Pos() - before)})
	e.stats = append(e.stats, e.comp.Stats())

	return e.comp.Reset(e.cfg.compressionType, "bucket")
}

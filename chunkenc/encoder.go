// Package chunkenc implements the transposed chunk encoder: it accepts
// a sequence of records, walks each canonical proto record's tags into
// per-field data buffers and an append-only encoded-tag sequence,
// builds a finite-state machine over the transitions between
// consecutive tags, and emits the whole thing as one compressed chunk.
package chunkenc

import (
	"fmt"

	"github.com/chunkenc/transpose/compress"
	"github.com/chunkenc/transpose/errs"
	"github.com/chunkenc/transpose/format"
	"github.com/chunkenc/transpose/fsm"
	"github.com/chunkenc/transpose/internal/options"
	"github.com/chunkenc/transpose/node"
	"github.com/chunkenc/transpose/streamio"
	"github.com/chunkenc/transpose/wire"
)

// Encoder accumulates records and, on EncodeAndClose, emits a single
// transposed chunk. It is single-threaded, not reentrant, and owned by
// its caller; see Reset for returning it to an empty state.
type Encoder struct {
	cfg *config

	reg             *node.Registry
	encodedTags     []int
	nonprotoLengths *streamio.BackwardWriter

	numRecords      uint64
	decodedDataSize uint64

	healthy bool
	closed  bool

	lastStats []compress.CompressionStats
}

// NewEncoder returns an empty Encoder configured by opts.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	e := &Encoder{cfg: cfg}
	e.resetState()

	return e, nil
}

func (e *Encoder) resetState() {
	e.reg = node.NewRegistry()
	e.encodedTags = nil
	e.nonprotoLengths = streamio.NewBackwardWriter()
	e.numRecords = 0
	e.decodedDataSize = 0
	e.healthy = true
	e.closed = false
	e.lastStats = nil
}

// CompressionStats reports the compression outcome of every bucket
// written by the most recent EncodeAndClose (data buckets first, then
// the header, then the transition block), in the order they were
// compressed; the chunk itself places the header first. Empty
// until the first successful EncodeAndClose after construction or
// Reset.
func (e *Encoder) CompressionStats() []compress.CompressionStats {
	return e.lastStats
}

// Reset returns the encoder to an empty state, discarding all
// accumulated records.
func (e *Encoder) Reset() {
	e.resetState()
}

// AddRecord appends one record. data is treated as a canonical proto
// message if it parses as one; otherwise it is stored verbatim on the
// non-proto path. Returns an error and marks the encoder unhealthy if a
// resource limit is exceeded.
func (e *Encoder) AddRecord(data []byte) error {
	if e.closed {
		return errs.ErrEncoderClosed
	}
	if !e.healthy {
		return errs.ErrEncoderUnhealthy
	}

	if e.numRecords+1 > e.cfg.maxNumRecords {
		e.healthy = false
		return errs.ErrResourceExhausted
	}

	recordSize := uint64(len(data))
	newSize := e.decodedDataSize + recordSize
	if newSize < e.decodedDataSize {
		e.healthy = false
		return fmt.Errorf("%w: %w", errs.ErrResourceExhausted, errs.ErrRecordTooLarge)
	}

	if wire.IsCanonicalProto(data) {
		e.addProto(data)
	} else {
		e.addNonProto(data)
	}

	e.numRecords++
	e.decodedDataSize = newSize

	return nil
}

// AddRecords appends the records obtained by slicing concat at the
// offsets in limits, which must be non-decreasing (equal neighbours
// yield an empty record) and bounded by len(concat). The first record spans concat[0:limits[0]], the second
// concat[limits[0]:limits[1]], and so on.
func (e *Encoder) AddRecords(concat []byte, limits []int) error {
	start := 0
	for _, end := range limits {
		if end < start || end > len(concat) {
			return errs.ErrMismatchedRecordLimits
		}

		if err := e.AddRecord(concat[start:end]); err != nil {
			return err
		}

		start = end
	}

	return nil
}

func (e *Encoder) addProto(data []byte) {
	som := e.reg.GetOrCreateReserved(startOfMessageNodeID, node.StartOfMessage)
	w := newWalker(e.reg, e.encodedTags)
	w.appendTag(som, node.Trivial)
	w.walk(data, som.MessageID, 0)
	e.encodedTags = w.encodedTags
}

func (e *Encoder) addNonProto(data []byte) {
	nd := e.reg.GetOrCreateReserved(nonProtoNodeID, node.NonProto)
	idx := e.reg.GetPosInTagsList(nd, node.Trivial)
	e.encodedTags = append(e.encodedTags, idx)

	e.reg.Buffer(nd, format.BufferNonProto).Write(data)

	var lenBuf [wire.MaxVarint64Len]byte
	n := streamio.PutUvarint64(lenBuf[:], uint64(len(data)))
	e.nonprotoLengths.Write(lenBuf[:n])
}

// EncodeAndClose finalizes the chunk and writes it to dest. On success
// it returns the number of records and the cumulative decoded data
// size; the encoder is closed afterward and must be Reset before reuse.
func (e *Encoder) EncodeAndClose(dest streamio.Writer) (numRecords, decodedDataSize uint64, err error) {
	if e.closed {
		return 0, 0, errs.ErrEncoderClosed
	}
	if !e.healthy {
		return 0, 0, errs.ErrEncoderUnhealthy
	}

	var (
		stateMachine []fsm.StateInfo
		tagInfos     []fsm.EncodedTagInfo
	)

	// An Encoder with no records at all must emit state_count=0; the
	// fsm package's placeholder state for an empty encoded-tag sequence
	// exists only for its own well-formedness tests.
	if len(e.encodedTags) > 0 {
		tagInfos = fsm.NewTagInfos(e.reg.TagsList())
		stateMachine = fsm.CreateStateMachine(tagInfos, e.encodedTags, e.cfg.maxTransition, e.cfg.minCountForState)
		applyFirstTagSafetyTweak(tagInfos, e.encodedTags)
	}

	dataBuf := streamio.NewBufferWriter()
	be, berr := newBufferEmitter(e.cfg)
	if berr != nil {
		e.healthy = false
		return 0, 0, berr
	}
	if err := be.WriteBuffers(e.reg, e.nonprotoLengths, dataBuf); err != nil {
		e.healthy = false
		return 0, 0, err
	}

	transRaw := streamio.NewBufferWriter()
	te := newTransitionEmitter(e.cfg.maxTransition)
	if !te.WriteTransitions(transRaw, stateMachine, tagInfos, e.encodedTags) {
		e.healthy = false
		return 0, 0, errs.ErrBufferWriteFailed
	}

	headerRaw := streamio.NewBufferWriter()
	he := newHeaderEmitter()
	if !he.WriteHeader(headerRaw, bucketLens(be.buckets), be.buffers, stateMachine, tagInfos, e.reg.TagsList(), e.encodedTags) {
		e.healthy = false
		return 0, 0, errs.ErrBufferWriteFailed
	}

	headerComp, cerr := compress.NewCompressor(e.cfg.compressionType, "header")
	if cerr != nil {
		e.healthy = false
		return 0, 0, cerr
	}
	headerComp.Writer().Write(headerRaw.Bytes())
	headerOut := streamio.NewBufferWriter()
	if !headerComp.EncodeAndClose(headerOut) {
		e.healthy = false
		return 0, 0, errs.ErrCompressorFailed
	}

	transComp, cerr := compress.NewCompressor(e.cfg.compressionType, "transitions")
	if cerr != nil {
		e.healthy = false
		return 0, 0, cerr
	}
	transComp.Writer().Write(transRaw.Bytes())
	transOut := streamio.NewBufferWriter()
	if !transComp.EncodeAndClose(transOut) {
		e.healthy = false
		return 0, 0, errs.ErrCompressorFailed
	}

	e.lastStats = append(append([]compress.CompressionStats{}, be.Stats()...), headerComp.Stats(), transComp.Stats())

	if !dest.Write([]byte{byte(e.cfg.compressionType)}) {
		e.healthy = false
		return 0, 0, errs.ErrDestWriteFailed
	}
	if !dest.WriteVarint32(uint32(len(headerOut.Bytes()))) {
		e.healthy = false
		return 0, 0, errs.ErrDestWriteFailed
	}
	if !dest.Write(headerOut.Bytes()) {
		e.healthy = false
		return 0, 0, errs.ErrDestWriteFailed
	}
	if !dest.Write(dataBuf.Bytes()) {
		e.healthy = false
		return 0, 0, errs.ErrDestWriteFailed
	}
	if !dest.Write(transOut.Bytes()) {
		e.healthy = false
		return 0, 0, errs.ErrDestWriteFailed
	}

	e.closed = true

	return e.numRecords, e.decodedDataSize, nil
}

func bucketLens(buckets []bucketResult) []int {
	lens := make([]int, len(buckets))
	for i, b := range buckets {
		lens[i] = b.compressedLen
	}

	return lens
}

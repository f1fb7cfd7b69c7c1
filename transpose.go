// Package transpose provides a transposed chunk encoder for record
// streams made mostly of canonical protocol-buffer messages.
//
// Same-typed fields from every record are grouped into their own byte
// stream, and the record-reconstruction order is encoded as a compressed
// walk through a finite-state machine over field identities. Records
// that are not canonical proto messages are stored verbatim on a
// separate path, interleaved with the proto ones in original order.
//
// # Basic usage
//
//	enc, err := transpose.NewEncoder(transpose.WithCompressionType(format.CompressionZstd))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, rec := range records {
//	    if err := enc.AddRecord(rec); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
//	out := streamio.NewBufferWriter()
//	numRecords, decodedSize, err := enc.EncodeAndClose(out)
//
// # Package structure
//
// This package is a thin wrapper around chunkenc.Encoder. For direct
// access to the encoder's sub-components (the message walker, the
// state-machine builder, the buffer and header emitters), use the
// chunkenc, fsm, and node packages directly.
package transpose

import (
	"github.com/chunkenc/transpose/chunkenc"
	"github.com/chunkenc/transpose/streamio"
)

// Encoder accumulates records and emits a single transposed chunk. See
// chunkenc.Encoder for the full API; this type exists so callers that
// only need the top-level surface don't have to import the chunkenc
// package directly.
type Encoder = chunkenc.Encoder

// Option configures an Encoder. See chunkenc.WithCompressionType,
// chunkenc.WithBucketSize, chunkenc.WithMaxTransition,
// chunkenc.WithMinCountForState, chunkenc.WithMaxNumRecords.
type Option = chunkenc.Option

// NewEncoder returns an empty Encoder configured by opts.
func NewEncoder(opts ...Option) (*Encoder, error) {
	return chunkenc.NewEncoder(opts...)
}

var (
	// WithCompressionType selects the compression backend applied to
	// buckets, the header, and the transition block.
	WithCompressionType = chunkenc.WithCompressionType
	// WithBucketSize sets the target uncompressed byte count per
	// compression bucket.
	WithBucketSize = chunkenc.WithBucketSize
	// WithMaxTransition overrides the default 63-offset single-byte
	// transition cap.
	WithMaxTransition = chunkenc.WithMaxTransition
	// WithMinCountForState overrides the default hot-edge threshold (10).
	WithMinCountForState = chunkenc.WithMinCountForState
	// WithMaxNumRecords overrides the default record-count limit.
	WithMaxNumRecords = chunkenc.WithMaxNumRecords
	// NewWriter returns a fresh streamio.Writer backed by a pooled
	// buffer, the destination EncodeAndClose expects.
	NewWriter = streamio.NewBufferWriter
)

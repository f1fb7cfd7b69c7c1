// Package errs defines the sentinel errors returned by the transpose
// chunk encoder. Callers should compare against these with errors.Is
// rather than matching error strings.
package errs

import "errors"

var (
	// ErrEncoderClosed is returned when an operation is attempted on an
	// encoder that has already completed EncodeAndClose.
	ErrEncoderClosed = errors.New("transpose: encoder is closed")

	// ErrEncoderUnhealthy is returned when an operation is attempted on
	// an encoder that has previously failed and not been Reset.
	ErrEncoderUnhealthy = errors.New("transpose: encoder is unhealthy")

	// ErrResourceExhausted is returned when a configured or intrinsic
	// resource limit would be exceeded (too many records, or cumulative
	// decoded size overflowing 64 bits).
	ErrResourceExhausted = errors.New("transpose: resource exhausted")

	// ErrRecordTooLarge is returned when a single record's size cannot
	// be represented without overflowing the running decoded size total.
	ErrRecordTooLarge = errors.New("transpose: record too large")

	// ErrBufferWriteFailed is returned when a BackwardWriter or Writer
	// write fails.
	ErrBufferWriteFailed = errors.New("transpose: buffer write failed")

	// ErrCompressorFailed is returned when the configured compressor
	// fails to compress a bucket, the header, or the transition block.
	ErrCompressorFailed = errors.New("transpose: compressor failed")

	// ErrDestWriteFailed is returned when writing the final chunk to the
	// caller-supplied destination writer fails.
	ErrDestWriteFailed = errors.New("transpose: destination write failed")

	// ErrNotCanonicalProto names the proto validator's verdict that the
	// input is not a canonically-encoded proto message. wire.IsCanonicalProto
	// reports that verdict as false and does not return this error; the
	// record is routed through the non-proto path.
	ErrNotCanonicalProto = errors.New("transpose: not a canonical proto message")

	// ErrInvalidCompressionType is returned when an Option specifies an
	// unrecognized format.CompressionType.
	ErrInvalidCompressionType = errors.New("transpose: invalid compression type")

	// ErrTagFieldNumberZero names the proto validator's rejection of a
	// decoded tag with a field number of zero. wire.IsCanonicalProto
	// reports it as false and does not return this error.
	ErrTagFieldNumberZero = errors.New("transpose: field number is zero")

	// ErrGroupStackMismatch names the proto validator's rejection of an
	// END_GROUP tag that does not match the top of the group stack.
	// wire.IsCanonicalProto reports it as false and does not return this
	// error.
	ErrGroupStackMismatch = errors.New("transpose: mismatched end group")

	// ErrMismatchedRecordLimits is returned by AddRecords when the
	// limits slice is not monotonically increasing or exceeds the
	// length of the concatenated record buffer.
	ErrMismatchedRecordLimits = errors.New("transpose: mismatched record limits")
)

// Package format defines the small, dependency-free enumerations shared
// across the transpose chunk encoder's packages.
package format

// CompressionType selects the compression backend applied to data
// buckets, the header, and the transition block.
type CompressionType uint8

const (
	// CompressionNone disables compression and the bucket-size limit;
	// buffers are still split into one bucket per buffer type.
	CompressionNone CompressionType = 0x1
	// CompressionZstd compresses with Zstandard.
	CompressionZstd CompressionType = 0x2
	// CompressionS2 compresses with S2, a Snappy-compatible codec.
	CompressionS2 CompressionType = 0x3
	// CompressionLZ4 compresses with LZ4.
	CompressionLZ4 CompressionType = 0x4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the defined compression types.
func (c CompressionType) Valid() bool {
	switch c {
	case CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4:
		return true
	default:
		return false
	}
}

// BufferType identifies one of the five per-node data buffer kinds
// described in spec §3 (Node). Buffers of the same type across all
// nodes are grouped into one bucket by the BufferEmitter.
type BufferType uint8

const (
	// BufferVarint holds all bytes of every varint not inlined into its
	// subtype, with their continuation bits cleared.
	BufferVarint BufferType = iota
	// BufferFixed32 holds 4-byte little-endian FIXED32 payloads.
	BufferFixed32
	// BufferFixed64 holds 8-byte little-endian FIXED64 payloads.
	BufferFixed64
	// BufferString holds length-prefixed LENGTH_DELIMITED_STRING payloads.
	BufferString
	// BufferNonProto holds the raw bytes of non-canonical-proto records.
	BufferNonProto

	// numBufferTypes is the number of BufferType values; used to size
	// fixed arrays keyed by BufferType.
	numBufferTypes
)

// BufferTypeCount is the number of distinct BufferType values, usable as
// an array length constant ([BufferTypeCount]T) unlike NumBufferTypes.
const BufferTypeCount = int(numBufferTypes)

func (b BufferType) String() string {
	switch b {
	case BufferVarint:
		return "Varint"
	case BufferFixed32:
		return "Fixed32"
	case BufferFixed64:
		return "Fixed64"
	case BufferString:
		return "String"
	case BufferNonProto:
		return "NonProto"
	default:
		return "Unknown"
	}
}

// NumBufferTypes returns the number of distinct BufferType values, for
// callers that size a [NumBufferTypes()]T array keyed by BufferType.
func NumBufferTypes() int {
	return int(numBufferTypes)
}

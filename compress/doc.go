// Package compress provides compression and decompression codecs for
// chunk buckets.
//
// Every per-BufferType bucket assembled by chunkenc is compressed
// independently before being written to the chunk, as is the state/
// transition header. The package defines three core interfaces:
//
//	type ByteCompressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    ByteCompressor
//	    Decompressor
//	}
//
// # Supported algorithms
//
//   - None (format.CompressionNone): no compression, for buckets too
//     small to benefit or already incompressible.
//   - Zstd (format.CompressionZstd): best ratio, moderate speed. Good
//     default for cold storage and infrequent decompression.
//   - S2 (format.CompressionS2): balanced ratio and speed, good for
//     latency-sensitive ingestion paths.
//   - LZ4 (format.CompressionLZ4): fastest decompression, moderate
//     ratio, good for read-heavy workloads.
//
// CreateCodec and GetCodec select an implementation by
// format.CompressionType. All codecs are safe for concurrent use.
//
// Compressor (this package's stateful wrapper, not to be confused with
// the ByteCompressor interface above) accumulates a bucket's bytes through
// its streamio.Writer and compresses the whole thing on
// EncodeAndClose, always with the one backend it was created (or last
// Reset) with.
package compress

package transpose

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chunkenc/transpose/format"
	"github.com/chunkenc/transpose/streamio"
)

func TestNewEncoder_Defaults(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)
	require.NotNil(t, enc)
}

func TestNewEncoder_InvalidOption(t *testing.T) {
	_, err := NewEncoder(WithCompressionType(format.CompressionType(0xFF)))
	require.Error(t, err)
}

func TestEncoder_EmptyChunk(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	out := NewWriter()
	numRecords, decodedSize, err := enc.EncodeAndClose(out)
	require.NoError(t, err)
	require.Equal(t, uint64(0), numRecords)
	require.Equal(t, uint64(0), decodedSize)
	require.NotEmpty(t, out.Bytes())
}

func TestEncoder_MixedRecords(t *testing.T) {
	enc, err := NewEncoder(WithCompressionType(format.CompressionS2))
	require.NoError(t, err)

	require.NoError(t, enc.AddRecord([]byte{0x08, 0x07}))
	require.NoError(t, enc.AddRecord([]byte{0xFF, 0xFE}))
	require.NoError(t, enc.AddRecord([]byte{0x08, 0x01}))

	out := NewWriter()
	numRecords, decodedSize, err := enc.EncodeAndClose(out)
	require.NoError(t, err)
	require.Equal(t, uint64(3), numRecords)
	require.Equal(t, uint64(6), decodedSize)
}

func TestEncoder_ClosedRejectsFurtherUse(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	out := NewWriter()
	_, _, err = enc.EncodeAndClose(out)
	require.NoError(t, err)

	err = enc.AddRecord([]byte{0x08, 0x01})
	require.Error(t, err)

	enc.Reset()
	require.NoError(t, enc.AddRecord([]byte{0x08, 0x01}))
}

var _ streamio.Writer = (*streamio.BufferWriter)(nil)

package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/deltapack/errs"
	"github.com/arloliu/deltapack/format"
)

func TestNewChunkHeader(t *testing.T) {
	header := NewChunkHeader(100, ValueWidth64)

	require.NotNil(t, header)
	require.Equal(t, uint32(100), header.ValueCount)
	require.Equal(t, uint8(ValueWidth64), header.ValueWidth)
	require.Equal(t, uint32(0), header.PayloadSize)
	require.Equal(t, uint64(0), header.Checksum)
	require.True(t, header.Flag.IsValidMagicNumber())
	require.True(t, header.Flag.IsLittleEndian())
}

func TestChunkHeader_Parse(t *testing.T) {
	t.Run("Valid header", func(t *testing.T) {
		original := NewChunkHeader(42, ValueWidth32)
		original.Flag.SetEncoding(format.TypePlain)
		original.Flag.SetCompression(format.CompressionLZ4)
		original.PayloadSize = 1234
		original.Checksum = 0xDEADBEEFCAFEF00D

		data := original.Bytes()
		require.Len(t, data, HeaderSize)

		parsed := &ChunkHeader{}
		require.NoError(t, parsed.Parse(data))

		require.Equal(t, original.ValueCount, parsed.ValueCount)
		require.Equal(t, original.PayloadSize, parsed.PayloadSize)
		require.Equal(t, original.Checksum, parsed.Checksum)
		require.Equal(t, original.ValueWidth, parsed.ValueWidth)
		require.Equal(t, original.Flag, parsed.Flag)
	})

	t.Run("Big-endian header", func(t *testing.T) {
		original := NewChunkHeader(7, ValueWidth64)
		original.Flag.WithBigEndian()
		original.PayloadSize = 99
		original.Checksum = 0x0102030405060708

		parsed := &ChunkHeader{}
		require.NoError(t, parsed.Parse(original.Bytes()))

		require.True(t, parsed.Flag.IsBigEndian())
		require.Equal(t, uint32(7), parsed.ValueCount)
		require.Equal(t, uint32(99), parsed.PayloadSize)
		require.Equal(t, uint64(0x0102030405060708), parsed.Checksum)
	})

	t.Run("Invalid size", func(t *testing.T) {
		header := &ChunkHeader{}
		require.ErrorIs(t, header.Parse([]byte{1, 2, 3}), errs.ErrInvalidHeaderSize)
	})

	t.Run("Invalid magic number", func(t *testing.T) {
		data := make([]byte, HeaderSize)
		data[20] = ValueWidth64

		header := &ChunkHeader{}
		require.ErrorIs(t, header.Parse(data), errs.ErrInvalidHeaderFlags)
	})

	t.Run("Invalid value width", func(t *testing.T) {
		original := NewChunkHeader(1, 3)

		header := &ChunkHeader{}
		require.ErrorIs(t, header.Parse(original.Bytes()), errs.ErrInvalidValueWidth)
	})
}

func TestChunkHeader_Layout(t *testing.T) {
	header := NewChunkHeader(0x01020304, ValueWidth64)
	header.PayloadSize = 0x0A0B0C0D

	data := header.Bytes()

	// Options is stored little-endian regardless of the endianness bit.
	require.Equal(t, byte(MagicChunkV1Opt&0xFF), data[0])
	require.Equal(t, byte(MagicChunkV1Opt>>8), data[1])
	require.Equal(t, uint8(format.TypeDeltaPacked), data[2])
	require.Equal(t, uint8(format.CompressionNone), data[3])
	// Little-endian payload fields.
	require.Equal(t, byte(0x04), data[4])
	require.Equal(t, byte(0x0D), data[8])
	require.Equal(t, byte(ValueWidth64), data[20])
	require.Equal(t, []byte{0, 0, 0}, data[21:24])
}

func TestParseChunkHeader(t *testing.T) {
	original := NewChunkHeader(10, ValueWidth64)
	framed := append(original.Bytes(), 0xAA, 0xBB)

	parsed, err := ParseChunkHeader(framed)
	require.NoError(t, err)
	require.Equal(t, uint32(10), parsed.ValueCount)

	_, err = ParseChunkHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
}

func TestChecksumPayload(t *testing.T) {
	payload := []byte("delta packed payload")

	sum := ChecksumPayload(payload)
	require.NotZero(t, sum)
	require.Equal(t, sum, ChecksumPayload(payload))

	tampered := append([]byte(nil), payload...)
	tampered[0] ^= 0x01
	require.NotEqual(t, sum, ChecksumPayload(tampered))
}

package encoding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/deltapack/internal/pool"
)

func TestZigZag_RoundTrip(t *testing.T) {
	values := []int64{
		0, 1, -1, 2, -2, 63, -64, 64, -65,
		127, -128, 128, 1000, -1000,
		math.MaxInt32, math.MinInt32,
		math.MaxInt64, math.MinInt64,
	}

	for _, v := range values {
		require.Equal(t, v, decodeZigZag64(encodeZigZag64(v)), "value %d", v)
	}
}

func TestZigZag_Mapping(t *testing.T) {
	// Small magnitudes of either sign map to small unsigned values.
	require.Equal(t, uint64(0), encodeZigZag64(0))
	require.Equal(t, uint64(1), encodeZigZag64(-1))
	require.Equal(t, uint64(2), encodeZigZag64(1))
	require.Equal(t, uint64(3), encodeZigZag64(-2))
	require.Equal(t, uint64(4), encodeZigZag64(2))
	require.Equal(t, uint64(math.MaxUint64), encodeZigZag64(math.MinInt64))
}

func TestUvarint_RoundTrip(t *testing.T) {
	values := []uint64{
		0, 1, 127, 128, 129, 300, 16383, 16384,
		1 << 21, 1 << 28, 1 << 35, 1 << 42, 1 << 49, 1 << 56, 1 << 63,
		math.MaxUint64,
	}

	for _, v := range values {
		buf := pool.NewByteBuffer(16)
		appendUvarint(buf, v)

		got, offset, ok := decodeUvarint(buf.Bytes(), 0)
		require.True(t, ok, "value %d", v)
		require.Equal(t, v, got, "value %d", v)
		require.Equal(t, buf.Len(), offset, "value %d", v)
	}
}

func TestUvarint_SingleByteValues(t *testing.T) {
	for v := uint64(0); v <= 127; v++ {
		buf := pool.NewByteBuffer(4)
		appendUvarint(buf, v)
		require.Equal(t, 1, buf.Len(), "value %d", v)
		require.Equal(t, byte(v), buf.Bytes()[0])
	}
}

func TestUvarint_Sequence(t *testing.T) {
	buf := pool.NewByteBuffer(32)
	values := []uint64{128, 4, 1000, 0, math.MaxUint64}
	for _, v := range values {
		appendUvarint(buf, v)
	}

	offset := 0
	for _, want := range values {
		got, next, ok := decodeUvarint(buf.Bytes(), offset)
		require.True(t, ok)
		require.Equal(t, want, got)
		offset = next
	}
	require.Equal(t, buf.Len(), offset)
}

func TestDecodeUvarint_Truncated(t *testing.T) {
	t.Run("Empty input", func(t *testing.T) {
		_, offset, ok := decodeUvarint(nil, 0)
		require.False(t, ok)
		require.Equal(t, 0, offset)
	})

	t.Run("Offset beyond data", func(t *testing.T) {
		_, _, ok := decodeUvarint([]byte{0x01}, 5)
		require.False(t, ok)
	})

	t.Run("Missing continuation bytes", func(t *testing.T) {
		buf := pool.NewByteBuffer(16)
		appendUvarint(buf, math.MaxUint64)
		full := buf.Bytes()

		for n := 1; n < len(full); n++ {
			_, offset, ok := decodeUvarint(full[:n], 0)
			require.False(t, ok, "truncated to %d bytes", n)
			require.Equal(t, 0, offset)
		}
	})
}

func TestZigZagVarint_RoundTrip(t *testing.T) {
	values := []int64{0, -1, 1, -52, 100, math.MinInt64, math.MaxInt64}

	buf := pool.NewByteBuffer(64)
	for _, v := range values {
		appendZigZag(buf, v)
	}

	offset := 0
	for _, want := range values {
		got, next, ok := decodeZigZagVarint(buf.Bytes(), offset)
		require.True(t, ok)
		require.Equal(t, want, got)
		offset = next
	}
	require.Equal(t, buf.Len(), offset)
}

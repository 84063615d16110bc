package encoding

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBitWidth(t *testing.T) {
	require.Equal(t, uint(0), BitWidth(0))
	require.Equal(t, uint(1), BitWidth(1))
	require.Equal(t, uint(2), BitWidth(2))
	require.Equal(t, uint(2), BitWidth(3))
	require.Equal(t, uint(3), BitWidth(4))
	require.Equal(t, uint(6), BitWidth(53))
	require.Equal(t, uint(32), BitWidth(math.MaxUint32))
	require.Equal(t, uint(33), BitWidth(math.MaxUint32+1))
	require.Equal(t, uint(63), BitWidth(math.MaxInt64))
	require.Equal(t, uint(64), BitWidth(math.MaxUint64))
}

func TestByteLen(t *testing.T) {
	require.Equal(t, 0, ByteLen(0, 7))
	require.Equal(t, 0, ByteLen(32, 0))
	require.Equal(t, 1, ByteLen(8, 1))
	require.Equal(t, 4, ByteLen(32, 1))
	require.Equal(t, 4, ByteLen(5, 6))  // 30 bits
	require.Equal(t, 24, ByteLen(32, 6))
	require.Equal(t, 256, ByteLen(32, 64))
	require.Equal(t, 1, ByteLen(1, 3))
	require.Equal(t, 2, ByteLen(3, 5)) // 15 bits
}

func TestPackBits_KnownLayout(t *testing.T) {
	t.Run("Width 1", func(t *testing.T) {
		src := []uint64{1, 0, 1, 1, 0, 0, 0, 1}
		dst := make([]byte, ByteLen(len(src), 1))
		PackBits(dst, src, 1)
		// LSB-first: value i lands in bit i.
		require.Equal(t, []byte{0b1000_1101}, dst)
	})

	t.Run("Width 6 straddling bytes", func(t *testing.T) {
		src := []uint64{53, 53, 0, 52, 52}
		dst := make([]byte, ByteLen(len(src), 6))
		PackBits(dst, src, 6)
		require.Equal(t, []byte{0x75, 0x0D, 0xD0, 0x34}, dst)
	})

	t.Run("Width 8 is byte identity", func(t *testing.T) {
		src := []uint64{0x12, 0x34, 0x56}
		dst := make([]byte, 3)
		PackBits(dst, src, 8)
		require.Equal(t, []byte{0x12, 0x34, 0x56}, dst)
	})

	t.Run("Width 0 packs nothing", func(t *testing.T) {
		PackBits(nil, []uint64{1, 2, 3}, 0)
	})
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for width := uint(1); width <= 64; width++ {
		mask := ^uint64(0)
		if width < 64 {
			mask = (uint64(1) << width) - 1
		}

		for _, count := range []int{1, 2, 5, 31, 32} {
			src := make([]uint64, count)
			for i := range src {
				src[i] = rng.Uint64() & mask
			}
			// Exercise the boundary values of the width.
			src[0] = mask
			if count > 1 {
				src[1] = 0
			}

			dst := make([]byte, ByteLen(count, width))
			PackBits(dst, src, width)

			got := make([]uint64, count)
			UnpackBits(got, dst, width)
			require.Equal(t, src, got, "width=%d count=%d", width, count)
		}
	}
}

func TestUnpackBits_ZeroWidth(t *testing.T) {
	dst := []uint64{7, 8, 9}
	UnpackBits(dst, nil, 0)
	require.Equal(t, []uint64{0, 0, 0}, dst)
}

func TestPackBits_MergesIntoSharedBytes(t *testing.T) {
	// 3 values at 5 bits = 15 bits = 2 bytes; the middle value straddles the
	// byte boundary.
	src := []uint64{0x1F, 0x00, 0x1F}
	dst := make([]byte, ByteLen(3, 5))
	PackBits(dst, src, 5)

	got := make([]uint64, 3)
	UnpackBits(got, dst, 5)
	require.Equal(t, src, got)
}

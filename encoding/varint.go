package encoding

import (
	"encoding/binary"

	"github.com/arloliu/deltapack/internal/pool"
)

// Varint primitives shared by the delta packed encoder and decoder.
//
// Unsigned values use ULEB128: 7 payload bits per byte, low group first,
// continuation bit set on all but the final byte. Signed values are first
// mapped through zigzag encoding so small magnitudes of either sign stay
// short.

// appendUvarint appends v in ULEB128 form with an inline fast path for
// single-byte values, which dominate for small deltas and bit widths.
func appendUvarint(buf *pool.ByteBuffer, v uint64) {
	if v <= 0x7F {
		idx := len(buf.B)
		buf.ExtendOrGrow(1)
		buf.B[idx] = byte(v)

		return
	}

	buf.Grow(binary.MaxVarintLen64)
	buf.B = binary.AppendUvarint(buf.B, v)
}

// appendZigZag appends v as a zigzag-mapped unsigned varint.
func appendZigZag(buf *pool.ByteBuffer, v int64) {
	appendUvarint(buf, encodeZigZag64(v))
}

// encodeZigZag64 interleaves the sign into the low bit: 0, -1, 1, -2, ...
// map to 0, 1, 2, 3, ...
func encodeZigZag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63)) //nolint:gosec
}

// decodeZigZag64 reverses zigzag encoding using branchless bit operations.
func decodeZigZag64(value uint64) int64 {
	return int64((value >> 1) ^ -(value & 1)) //nolint:gosec
}

// decodeUvarint decodes a ULEB128 value from data starting at offset.
//
// It returns the decoded value, the new offset, and whether decoding
// succeeded. The first two byte groups are unrolled as a fast path.
func decodeUvarint(data []byte, offset int) (uint64, int, bool) {
	if offset >= len(data) {
		return 0, offset, false
	}

	cur := offset
	b0 := data[cur]
	cur++
	if b0 < 0x80 {
		return uint64(b0), cur, true
	}

	if cur >= len(data) {
		return 0, offset, false
	}

	b1 := data[cur]
	cur++
	value := uint64(b0&0x7f) | uint64(b1&0x7f)<<7
	if b1 < 0x80 {
		return value, cur, true
	}

	shift := uint(14)
	for i := 2; i < binary.MaxVarintLen64; i++ {
		if cur >= len(data) {
			return 0, offset, false
		}

		b := data[cur]
		cur++
		value |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return value, cur, true
		}
		shift += 7
	}

	return 0, offset, false
}

// decodeZigZagVarint decodes a zigzag-mapped signed varint from data.
func decodeZigZagVarint(data []byte, offset int) (int64, int, bool) {
	u, next, ok := decodeUvarint(data, offset)
	if !ok {
		return 0, offset, false
	}

	return decodeZigZag64(u), next, true
}

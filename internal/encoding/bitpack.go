// Package encoding provides the bit-level primitives behind the public codec
// package: LSB-first fixed-width bit packing and unpacking for mini-block
// payloads of the delta binary packed format.
package encoding

import (
	"encoding/binary"
	"math/bits"
)

// BitWidth returns the number of bits needed to represent v.
// A value of 0 requires 0 bits.
func BitWidth(v uint64) uint {
	return uint(bits.Len64(v))
}

// ByteLen returns the packed byte length of count values at the given width.
func ByteLen(count int, width uint) int {
	return (count*int(width) + 7) / 8
}

// PackBits packs the values of src into dst at the given bit width, LSB-first.
// Value i occupies bits [i*width, (i+1)*width) of dst counted from the first
// byte's least significant bit.
//
// dst must be zeroed and at least ByteLen(len(src), width) bytes long; bytes
// shared by two neighboring values are merged with bitwise OR. Values must
// already fit in width bits. A width of 0 packs to nothing.
//
// Widths up to 32 go through a 32-bit accumulator, wider values through a
// 64-bit one, mirroring the narrow and wide unpack paths.
func PackBits(dst []byte, src []uint64, width uint) {
	switch {
	case width == 0 || len(src) == 0:
	case width <= 32:
		packBits32(dst, src, width)
	default:
		packBits64(dst, src, width)
	}
}

// UnpackBits extracts len(dst) values of the given bit width from src.
//
// src must hold at least ByteLen(len(dst), width) bytes. A width of 0 yields
// all zero values without reading src.
func UnpackBits(dst []uint64, src []byte, width uint) {
	switch {
	case width == 0 || len(dst) == 0:
		for i := range dst {
			dst[i] = 0
		}
	case width <= 32:
		unpackBits32(dst, src, width)
	default:
		unpackBits64(dst, src, width)
	}
}

func packBits32(dst []byte, src []uint64, width uint) {
	mask := uint32(0xFFFFFFFF) >> (32 - width)

	var acc uint32
	var nbits uint
	di := 0

	for _, u := range src {
		v := uint32(u) & mask
		free := 32 - nbits
		if width <= free {
			acc |= v << nbits
			nbits += width
			if nbits == 32 {
				binary.LittleEndian.PutUint32(dst[di:], acc)
				di += 4
				acc, nbits = 0, 0
			}
		} else {
			// Value straddles the accumulator boundary: flush the full word,
			// carry the high bits into the next one.
			acc |= v << nbits
			binary.LittleEndian.PutUint32(dst[di:], acc)
			di += 4
			acc = v >> free
			nbits = width - free
		}
	}

	// Trailing bits flush byte by byte so dst stays at the exact packed length.
	for nbits > 0 {
		dst[di] = byte(acc)
		acc >>= 8
		di++
		if nbits >= 8 {
			nbits -= 8
		} else {
			nbits = 0
		}
	}
}

func packBits64(dst []byte, src []uint64, width uint) {
	mask := ^uint64(0) >> (64 - width)

	var acc uint64
	var nbits uint
	di := 0

	for _, v := range src {
		v &= mask
		free := 64 - nbits
		if width <= free {
			acc |= v << nbits
			nbits += width
			if nbits == 64 {
				binary.LittleEndian.PutUint64(dst[di:], acc)
				di += 8
				acc, nbits = 0, 0
			}
		} else {
			acc |= v << nbits
			binary.LittleEndian.PutUint64(dst[di:], acc)
			di += 8
			acc = v >> free
			nbits = width - free
		}
	}

	for nbits > 0 {
		dst[di] = byte(acc)
		acc >>= 8
		di++
		if nbits >= 8 {
			nbits -= 8
		} else {
			nbits = 0
		}
	}
}

func unpackBits32(dst []uint64, src []byte, width uint) {
	mask := uint32(0xFFFFFFFF) >> (32 - width)
	bitOff := uint(0)

	for n := range dst {
		i := bitOff >> 3
		j := bitOff & 7

		v := uint32(src[i]) >> j
		k := 8 - j
		for k < width {
			i++
			v |= uint32(src[i]) << k
			k += 8
		}

		dst[n] = uint64(v & mask)
		bitOff += width
	}
}

func unpackBits64(dst []uint64, src []byte, width uint) {
	mask := ^uint64(0) >> (64 - width)
	bitOff := uint(0)

	for n := range dst {
		i := bitOff >> 3
		j := bitOff & 7

		v := uint64(src[i]) >> j
		k := 8 - j
		for k < width {
			i++
			v |= uint64(src[i]) << k
			k += 8
		}

		dst[n] = v & mask
		bitOff += width
	}
}

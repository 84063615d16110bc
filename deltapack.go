// Package deltapack provides a compact binary format for columns of integer
// values, built around the DELTA_BINARY_PACKED encoding used by columnar
// storage formats.
//
// Values are delta encoded against their predecessor, grouped into blocks of
// 128 deltas, normalized against the block minimum, and bit packed in four
// mini blocks of 32 values each. Columns of timestamps, counters, and other
// slowly changing integers typically compress to a small fraction of their
// plain size.
//
// # Core Features
//
//   - Generic over int32, int64, uint32 and uint64 columns
//   - Delta packed and plain (fixed-width) payload encodings
//   - Optional payload compression (None, Zstd, S2, LZ4)
//   - Null-aware batch writes: invalid slots are dropped from the stream
//   - Framed chunks with an xxHash64 payload checksum
//   - Pooled buffers for allocation-free steady-state encoding
//
// # Basic Usage
//
// Encoding and decoding a framed chunk:
//
//	import "github.com/arloliu/deltapack"
//
//	values := []int64{100, 101, 102, 50, 50, 50}
//	framed, _ := deltapack.Encode(values)
//
//	decoded, _ := deltapack.Decode[int64](framed)
//
// Encoding with nulls and compression:
//
//	validity := []bool{true, true, false, true}
//	framed, _ := deltapack.EncodeValues(values, validity,
//	    chunk.WithCompression(format.CompressionZstd),
//	)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the chunk
// package, simplifying the most common use cases. For streaming writes,
// iterator-based reads and fine-grained control, use the chunk package
// directly; the raw codecs live in the encoding package.
package deltapack

import (
	"github.com/arloliu/deltapack/chunk"
	"github.com/arloliu/deltapack/encoding"
)

// Encode encodes a column of integer values into a framed chunk using the
// default configuration: delta packed encoding, no compression,
// little-endian byte order.
//
// Options from the chunk package override the defaults:
//
//	framed, err := deltapack.Encode(values,
//	    chunk.WithEncoding(format.TypePlain),
//	    chunk.WithCompression(format.CompressionS2),
//	)
func Encode[T encoding.Value](values []T, opts ...chunk.Option) ([]byte, error) {
	return EncodeValues(values, nil, opts...)
}

// EncodeValues encodes a column with optional validity into a framed chunk.
//
// When validity is non-nil it must have the same length as values; slots
// where validity is false are dropped entirely and do not appear in the
// output. A nil validity slice treats every value as valid.
func EncodeValues[T encoding.Value](values []T, validity []bool, opts ...chunk.Option) ([]byte, error) {
	w, err := chunk.NewWriter[T](CountValid(len(values), validity), opts...)
	if err != nil {
		return nil, err
	}

	if err := w.WriteValues(values, validity); err != nil {
		return nil, err
	}

	return w.Finish()
}

// Decode decodes all values of a framed chunk produced by Encode or
// chunk.Writer.
//
// The type parameter must match the chunk's value width; decoding an int64
// chunk as int32 returns errs.ErrInvalidValueWidth.
//
// Example:
//
//	decoded, err := deltapack.Decode[int64](framed)
func Decode[T encoding.Value](data []byte) ([]T, error) {
	r, err := chunk.NewReader[T](data)
	if err != nil {
		return nil, err
	}

	return r.Values()
}

// CountValid returns the number of valid slots: n when validity is nil,
// otherwise the count of true entries.
func CountValid(n int, validity []bool) int {
	if validity == nil {
		return n
	}

	count := 0
	for _, ok := range validity {
		if ok {
			count++
		}
	}

	return count
}

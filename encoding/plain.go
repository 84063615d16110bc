package encoding

import (
	"fmt"
	"iter"

	"github.com/arloliu/deltapack/endian"
	"github.com/arloliu/deltapack/errs"
	"github.com/arloliu/deltapack/internal/pool"
)

// PlainEncoder encodes values as raw fixed-width integers in the configured
// byte order.
//
// Plain encoding trades space for simplicity and random access: every value
// occupies exactly its type width, so the decoder can seek to any index
// directly. It is the fallback for data whose deltas do not compress, and the
// baseline the delta packed encoding is measured against.
//
// Null entries are dropped, same as the delta packed encoder; only valid
// values occupy space in the payload.
type PlainEncoder[T Value] struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[int64] = (*PlainEncoder[int64])(nil)

// NewPlainEncoder creates a plain encoder using the given byte order engine.
func NewPlainEncoder[T Value](engine endian.EndianEngine) *PlainEncoder[T] {
	return &PlainEncoder[T]{
		buf:    pool.GetChunkBuffer(),
		engine: engine,
	}
}

// Write encodes a single valid value at its fixed width.
func (e *PlainEncoder[T]) Write(value T) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}

	e.appendValue(value)
	e.count++

	return nil
}

// WriteValues encodes a batch of values with optional validity. Invalid
// entries are dropped. A nil validity slice means every value is valid.
func (e *PlainEncoder[T]) WriteValues(values []T, validity []bool) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if validity != nil && len(validity) != len(values) {
		return fmt.Errorf("validity length %d does not match values length %d", len(validity), len(values))
	}

	e.buf.Grow(len(values) * valueSize[T]())
	for i, v := range values {
		if validity != nil && !validity[i] {
			continue
		}
		e.appendValue(v)
		e.count++
	}

	return nil
}

func (e *PlainEncoder[T]) appendValue(v T) {
	if valueSize[T]() == 4 {
		e.buf.B = e.engine.AppendUint32(e.buf.B, uint32(v)) //nolint:gosec
	} else {
		e.buf.B = e.engine.AppendUint64(e.buf.B, uint64(v)) //nolint:gosec
	}
}

// Bytes returns the encoded byte slice accumulated so far.
//
// Panics if Finish() has been called (nil buffer).
func (e *PlainEncoder[T]) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of valid values encoded.
func (e *PlainEncoder[T]) Len() int {
	return e.count
}

// Size returns the size in bytes of the encoded payload.
//
// Panics if Finish() has been called (nil buffer).
func (e *PlainEncoder[T]) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset clears the value count for a new sequence but keeps the accumulated
// data in the internal buffer.
func (e *PlainEncoder[T]) Reset() {
	e.count = 0
}

// Finish finalizes the encoding process and returns buffer resources to the
// pool. After calling Finish the encoder is no longer usable.
func (e *PlainEncoder[T]) Finish() {
	if e.buf != nil {
		pool.PutChunkBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// PlainDecoder decodes payloads produced by PlainEncoder.
//
// The decoder is stateless and safe for concurrent use.
type PlainDecoder[T Value] struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[int64] = PlainDecoder[int64]{}

// NewPlainDecoder creates a plain decoder using the given byte order engine.
func NewPlainDecoder[T Value](engine endian.EndianEngine) PlainDecoder[T] {
	return PlainDecoder[T]{engine: engine}
}

// Decode reconstructs count values, failing with errs.ErrTruncatedStream when
// the payload is too short.
func (d PlainDecoder[T]) Decode(data []byte, count int) ([]T, error) {
	if count <= 0 {
		return nil, nil
	}

	size := valueSize[T]()
	if len(data) < count*size {
		return nil, errs.ErrTruncatedStream
	}

	out := make([]T, count)
	for i := range out {
		out[i] = d.at(data, i)
	}

	return out, nil
}

// All returns an iterator yielding up to count values; it stops early when
// the payload is too short.
func (d PlainDecoder[T]) All(data []byte, count int) iter.Seq[T] {
	return func(yield func(T) bool) {
		size := valueSize[T]()
		if n := len(data) / size; count > n {
			count = n
		}
		for i := 0; i < count; i++ {
			if !yield(d.at(data, i)) {
				return
			}
		}
	}
}

// At retrieves the value at the specified index. Plain payloads support
// direct random access.
func (d PlainDecoder[T]) At(data []byte, index int, count int) (T, bool) {
	var zero T
	size := valueSize[T]()
	if index < 0 || index >= count || (index+1)*size > len(data) {
		return zero, false
	}

	return d.at(data, index), true
}

func (d PlainDecoder[T]) at(data []byte, index int) T {
	size := valueSize[T]()
	off := index * size
	if size == 4 {
		return T(d.engine.Uint32(data[off : off+4]))
	}

	return T(d.engine.Uint64(data[off : off+8])) //nolint:gosec
}

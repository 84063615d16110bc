package encoding

import "iter"

// Value is the set of fixed-width integer types the columnar codecs accept.
//
// Arithmetic inside the codecs wraps in the value's own width, so signed and
// unsigned flavors of the same width produce identical encoded bytes for the
// same bit patterns.
type Value interface {
	~int32 | ~int64 | ~uint32 | ~uint64
}

// ColumnarEncoder encodes a sequence of values into a compact byte payload.
type ColumnarEncoder[T Value] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next call to Write, WriteValues,
	// or Reset. The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of valid values encoded so far.
	Len() int

	// Size returns the size in bytes of the encoded payload.
	Size() int

	// Reset clears the encoder state for a new value sequence but keeps the
	// accumulated data in the internal buffer.
	Reset()

	// Finish finalizes the encoding process and returns buffer resources to
	// the pool. After calling Finish, the encoder is no longer usable and
	// accessor methods panic due to the nil buffer. Use defer to ensure it is
	// called even in error paths:
	//
	//	encoder := NewDeltaPackedEncoder[int64](count)
	//	defer encoder.Finish()
	Finish()

	// Write encodes a single valid value.
	Write(value T) error

	// WriteValues encodes a batch of values with optional validity.
	//
	// validity[i] reports whether values[i] is valid; invalid entries are
	// dropped entirely and never appear in the encoded payload. A nil
	// validity slice means every value is valid.
	WriteValues(values []T, validity []bool) error
}

// ColumnarDecoder decodes payloads produced by the corresponding encoder.
type ColumnarDecoder[T Value] interface {
	// All returns an iterator that yields up to count decoded values from
	// the provided encoded data.
	//
	// If the data is malformed or does not contain enough values, the
	// iterator yields fewer values. Use the strict Decode entry points of
	// the concrete decoders when error reporting is required.
	All(data []byte, count int) iter.Seq[T]

	// At retrieves the value at the specified index from the encoded data.
	//
	// The second return value is false when the index is out of bounds or
	// the data is malformed.
	At(data []byte, index int, count int) (T, bool)
}

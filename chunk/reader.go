package chunk

import (
	"fmt"
	"iter"

	"github.com/arloliu/deltapack/compress"
	"github.com/arloliu/deltapack/encoding"
	"github.com/arloliu/deltapack/errs"
	"github.com/arloliu/deltapack/format"
	"github.com/arloliu/deltapack/section"
)

// Reader decodes one framed column chunk.
//
// NewReader validates the header, payload size, checksum and value width, and
// decompresses the payload; the accessor methods then decode values on
// demand. The Reader is safe for concurrent use once constructed.
type Reader[T encoding.Value] struct {
	header  section.ChunkHeader
	payload []byte // decompressed codec payload
}

// NewReader parses and validates a framed chunk produced by Writer.
//
// Returns sentinel errors from the errs package on malformed input: header
// size/flag violations, payload size mismatch, checksum mismatch, or a value
// width that does not match T.
func NewReader[T encoding.Value](data []byte) (*Reader[T], error) {
	header, err := section.ParseChunkHeader(data)
	if err != nil {
		return nil, err
	}

	payload := data[section.HeaderSize:]
	if len(payload) != int(header.PayloadSize) {
		return nil, fmt.Errorf("%w: got %d bytes, header declares %d", errs.ErrInvalidPayloadSize, len(payload), header.PayloadSize)
	}

	if section.ChecksumPayload(payload) != header.Checksum {
		return nil, errs.ErrChecksumMismatch
	}

	if int(header.ValueWidth) != valueWidth[T]() {
		return nil, fmt.Errorf("%w: chunk stores %d-byte values", errs.ErrInvalidValueWidth, header.ValueWidth)
	}

	codec, err := compress.GetCodec(header.Flag.Compression())
	if err != nil {
		return nil, err
	}

	decompressed, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("decompress chunk payload: %w", err)
	}

	return &Reader[T]{
		header:  header,
		payload: decompressed,
	}, nil
}

// Header returns the parsed chunk header.
func (r *Reader[T]) Header() section.ChunkHeader {
	return r.header
}

// ValueCount returns the number of valid values stored in the chunk.
func (r *Reader[T]) ValueCount() int {
	return int(r.header.ValueCount)
}

// Values decodes and returns all values of the chunk.
func (r *Reader[T]) Values() ([]T, error) {
	switch r.header.Flag.Encoding() {
	case format.TypeDeltaPacked:
		return encoding.NewDeltaPackedDecoder[T]().DecodeCount(r.payload, r.ValueCount())
	case format.TypePlain:
		return encoding.NewPlainDecoder[T](r.header.Flag.GetEndianEngine()).Decode(r.payload, r.ValueCount())
	default:
		return nil, errs.ErrInvalidHeaderFlags
	}
}

// All returns an iterator over the chunk's values.
//
// Malformed payloads stop the iterator early; use Values when error reporting
// is required.
func (r *Reader[T]) All() iter.Seq[T] {
	switch r.header.Flag.Encoding() {
	case format.TypeDeltaPacked:
		return encoding.NewDeltaPackedDecoder[T]().All(r.payload, r.ValueCount())
	case format.TypePlain:
		return encoding.NewPlainDecoder[T](r.header.Flag.GetEndianEngine()).All(r.payload, r.ValueCount())
	default:
		return func(func(T) bool) {}
	}
}

// At retrieves the value at the specified index.
//
// Plain chunks support direct random access; delta packed chunks decode
// sequentially up to the target index.
func (r *Reader[T]) At(index int) (T, bool) {
	switch r.header.Flag.Encoding() {
	case format.TypeDeltaPacked:
		return encoding.NewDeltaPackedDecoder[T]().At(r.payload, index, r.ValueCount())
	case format.TypePlain:
		return encoding.NewPlainDecoder[T](r.header.Flag.GetEndianEngine()).At(r.payload, index, r.ValueCount())
	default:
		var zero T
		return zero, false
	}
}

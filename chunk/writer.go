package chunk

import (
	"fmt"
	"unsafe"

	"github.com/arloliu/deltapack/compress"
	"github.com/arloliu/deltapack/encoding"
	"github.com/arloliu/deltapack/errs"
	"github.com/arloliu/deltapack/format"
	"github.com/arloliu/deltapack/internal/options"
	"github.com/arloliu/deltapack/section"
)

// Writer encodes one column chunk of integer values.
//
// The total count of valid values must be declared up front; it is recorded
// in the chunk header and, for delta packed payloads, in the stream header as
// well. Values are fed with Write or WriteValues and the framed chunk is
// assembled by Finish.
//
// The Writer is not safe for concurrent use and not reusable after Finish.
type Writer[T encoding.Value] struct {
	header *section.ChunkHeader
	codec  compress.Codec

	delta *encoding.DeltaPackedEncoder[T] // set when encoding is TypeDeltaPacked
	plain *encoding.PlainEncoder[T]       // set when encoding is TypePlain

	valueCount int
	finished   bool
}

// NewWriter creates a chunk writer for the given count of valid values.
//
// The default configuration uses delta packed encoding, no compression and
// little-endian byte order; see the With* options.
func NewWriter[T encoding.Value](valueCount int, opts ...Option) (*Writer[T], error) {
	if valueCount < 0 {
		return nil, fmt.Errorf("invalid chunk value count: %d", valueCount)
	}

	cfg := defaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	header := section.NewChunkHeader(valueCount, valueWidth[T]())
	header.Flag.SetEncoding(cfg.encoding)
	header.Flag.SetCompression(cfg.compression)
	if cfg.bigEndian {
		header.Flag.WithBigEndian()
	} else {
		header.Flag.WithLittleEndian()
	}

	codec, err := compress.CreateCodec(cfg.compression, "chunk payload")
	if err != nil {
		return nil, err
	}

	w := &Writer[T]{
		header:     header,
		codec:      codec,
		valueCount: valueCount,
	}

	switch cfg.encoding {
	case format.TypeDeltaPacked:
		w.delta = encoding.NewDeltaPackedEncoder[T](valueCount)
	case format.TypePlain:
		w.plain = encoding.NewPlainEncoder[T](header.Flag.GetEndianEngine())
	default:
		return nil, fmt.Errorf("invalid chunk encoding: %v", cfg.encoding)
	}

	return w, nil
}

// Write encodes a single valid value.
func (w *Writer[T]) Write(value T) error {
	if w.finished {
		return errs.ErrEncoderClosed
	}

	return w.encoder().Write(value)
}

// WriteValues encodes a batch of values with optional validity; invalid
// entries are dropped and do not count toward the declared total.
func (w *Writer[T]) WriteValues(values []T, validity []bool) error {
	if w.finished {
		return errs.ErrEncoderClosed
	}

	return w.encoder().WriteValues(values, validity)
}

// Len returns the number of valid values written so far.
func (w *Writer[T]) Len() int {
	return w.encoder().Len()
}

// Finish flushes the encoder, compresses the payload, and assembles the
// framed chunk: header bytes followed by the payload.
//
// Returns errs.ErrValueCountMismatch when fewer valid values were written
// than declared.
func (w *Writer[T]) Finish() ([]byte, error) {
	if w.finished {
		return nil, errs.ErrEncoderClosed
	}
	w.finished = true

	enc := w.encoder()
	defer enc.Finish()

	if w.delta != nil {
		if err := w.delta.Flush(); err != nil {
			return nil, err
		}
	} else if enc.Len() != w.valueCount {
		return nil, errs.ErrValueCountMismatch
	}

	payload, err := w.codec.Compress(enc.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress chunk payload: %w", err)
	}

	w.header.PayloadSize = uint32(len(payload)) //nolint:gosec
	w.header.Checksum = section.ChecksumPayload(payload)

	framed := make([]byte, 0, section.HeaderSize+len(payload))
	framed = append(framed, w.header.Bytes()...)
	framed = append(framed, payload...)

	return framed, nil
}

func (w *Writer[T]) encoder() encoding.ColumnarEncoder[T] {
	if w.delta != nil {
		return w.delta
	}

	return w.plain
}

// valueWidth returns the byte width of the chunk's value type.
func valueWidth[T encoding.Value]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

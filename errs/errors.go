// Package errs defines the sentinel errors shared across deltapack packages.
//
// Callers can match these errors with errors.Is after they have been wrapped
// with additional context by higher-level packages.
package errs

import "errors"

// Chunk header errors.
var (
	// ErrInvalidHeaderSize indicates the chunk header is not the expected fixed size.
	ErrInvalidHeaderSize = errors.New("invalid chunk header size")

	// ErrInvalidHeaderFlags indicates the chunk header flag field failed validation,
	// e.g. wrong magic number, unknown encoding or compression type.
	ErrInvalidHeaderFlags = errors.New("invalid chunk header flags")

	// ErrInvalidValueWidth indicates the chunk header declares a value width other
	// than 4 or 8 bytes, or one that does not match the requested value type.
	ErrInvalidValueWidth = errors.New("invalid chunk value width")

	// ErrInvalidPayloadSize indicates the chunk payload length does not match the
	// size recorded in the chunk header.
	ErrInvalidPayloadSize = errors.New("invalid chunk payload size")

	// ErrChecksumMismatch indicates the chunk payload checksum does not match the
	// checksum recorded in the chunk header.
	ErrChecksumMismatch = errors.New("chunk payload checksum mismatch")
)

// Encoder contract errors.
var (
	// ErrEncoderClosed indicates a write was attempted after Flush closed the
	// value stream.
	ErrEncoderClosed = errors.New("encoder already closed")

	// ErrValueCountExceeded indicates more valid values were written than the
	// total declared at construction.
	ErrValueCountExceeded = errors.New("declared value count exceeded")

	// ErrValueCountMismatch indicates the stream was closed with fewer valid
	// values than the total declared at construction, or a decoded stream
	// declares a different count than expected.
	ErrValueCountMismatch = errors.New("value count mismatch")
)

// Decoder errors.
var (
	// ErrTruncatedStream indicates the encoded stream ended before all declared
	// values could be reconstructed.
	ErrTruncatedStream = errors.New("truncated encoded stream")

	// ErrInvalidStreamHeader indicates the stream header carries unsupported
	// block parameters.
	ErrInvalidStreamHeader = errors.New("invalid stream header")

	// ErrInvalidBitWidth indicates a mini-block declares a bit width above 64.
	ErrInvalidBitWidth = errors.New("invalid mini-block bit width")
)

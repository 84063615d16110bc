package encoding

import (
	"fmt"
	"iter"
	"unsafe"

	"github.com/arloliu/deltapack/errs"
	ienc "github.com/arloliu/deltapack/internal/encoding"
	"github.com/arloliu/deltapack/internal/pool"
)

// Block parameters fixed by the delta binary packed layout. They are written
// into every stream header and validated on decode.
const (
	// BlockSize is the number of deltas grouped into one block.
	BlockSize = 128
	// NumMiniBlocks is the number of mini-blocks per block.
	NumMiniBlocks = 4
	// MiniBlockSize is the number of deltas per mini-block.
	MiniBlockSize = BlockSize / NumMiniBlocks

	// deltaBufferCap sizes the rolling delta buffer at twice the block size so
	// newly arriving values can overlap a block that is still being flushed.
	deltaBufferCap = 2 * BlockSize
)

// DeltaPackedEncoder encodes a stream of (value, validity) pairs into the
// delta binary packed layout:
//
//	stream_header := uvarint(block_size) uvarint(num_mini_blocks)
//	                 uvarint(total_value_count) zigzag_varint(first_value)
//	block         := zigzag_varint(block_min) byte[num_mini_blocks]{bit_width}
//	                 mini_block_payload*
//
// The first valid value is consumed by the stream header; every later valid
// value is stored as a delta against the immediately preceding valid value.
// Null entries are dropped entirely: they occupy no slot in the encoded
// stream and do not break delta continuity. Deltas accumulate in a rolling
// buffer and are flushed as a block once BlockSize of them are pending; a
// trailing partial block is flushed by Flush.
//
// Each block records the signed minimum of its deltas (frame of reference)
// and bit-packs the normalized deltas of each mini-block at that mini-block's
// own width. A mini-block whose normalized deltas are all zero has width 0
// and contributes no payload bytes.
//
// The total count of valid values is declared at construction and written
// into the stream header as soon as the first valid value arrives. Writing
// more valid values than declared fails with errs.ErrValueCountExceeded;
// closing the stream with fewer fails with errs.ErrValueCountMismatch.
//
// The encoder is not safe for concurrent use.
type DeltaPackedEncoder[T Value] struct {
	deltas [deltaBufferCap]int64 // rolling delta buffer, sign-extended to 64 bits
	widths [NumMiniBlocks]uint8  // per-flush mini-block bit width scratch

	buf  *pool.ByteBuffer
	prev T // previous valid value, delta base

	total        int // declared count of valid values
	logicalIndex int // valid values committed to the header or a flushed block
	pending      int // buffered deltas not yet flushed
	head         int // next write slot in the rolling buffer

	headerWritten bool
	closed        bool
}

var _ ColumnarEncoder[int64] = (*DeltaPackedEncoder[int64])(nil)

// NewDeltaPackedEncoder creates a delta packed encoder for a stream with the
// given total count of valid values.
//
// The count is part of the stream header, so it must be known up front; it
// counts only valid values, not nulls.
func NewDeltaPackedEncoder[T Value](totalValues int) *DeltaPackedEncoder[T] {
	if totalValues < 0 {
		totalValues = 0
	}

	return &DeltaPackedEncoder[T]{
		buf:   pool.GetChunkBuffer(),
		total: totalValues,
	}
}

// Write encodes a single valid value.
//
// The first valid value triggers the stream header write; subsequent values
// append a delta to the rolling buffer and flush a full block once BlockSize
// deltas are pending.
//
// Returns errs.ErrValueCountExceeded when the declared total has already been
// reached, or errs.ErrEncoderClosed after Flush.
//
// Panics if Finish() has been called (nil buffer).
func (e *DeltaPackedEncoder[T]) Write(value T) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if e.closed {
		return errs.ErrEncoderClosed
	}
	if e.logicalIndex+e.pending >= e.total {
		return errs.ErrValueCountExceeded
	}

	if !e.headerWritten {
		e.writeStreamHeader(value)
		return nil
	}

	// Delta arithmetic wraps in the value's own width; the caller guarantees
	// the logical range fits (overflow past the width is not detected here).
	delta := signExtend(value - e.prev)
	e.prev = value

	e.deltas[e.head] = delta
	e.head = (e.head + 1) % deltaBufferCap
	e.pending++

	if e.pending >= BlockSize {
		e.flushBlock(BlockSize)
	}

	return nil
}

// WriteValues encodes a batch of values with optional validity.
//
// validity[i] reports whether values[i] is valid; invalid entries are dropped
// and never appear in the encoded stream. A nil validity slice means every
// value is valid. Interleaving nulls among valid values produces byte-for-byte
// the same encoding as writing the valid values alone.
func (e *DeltaPackedEncoder[T]) WriteValues(values []T, validity []bool) error {
	if e.buf == nil {
		panic("encoder already finished - cannot write after Finish()")
	}
	if validity != nil && len(validity) != len(values) {
		return fmt.Errorf("validity length %d does not match values length %d", len(validity), len(values))
	}

	for i, v := range values {
		if validity != nil && !validity[i] {
			continue
		}
		if err := e.Write(v); err != nil {
			return err
		}
	}

	return nil
}

// Flush commits any buffered deltas as a final partial block and closes the
// value stream. It is idempotent; subsequent writes fail with
// errs.ErrEncoderClosed.
//
// Returns errs.ErrValueCountMismatch when fewer valid values were written
// than declared at construction.
func (e *DeltaPackedEncoder[T]) Flush() error {
	if e.buf == nil {
		panic("encoder already finished - cannot flush after Finish()")
	}
	if e.closed {
		return nil
	}

	e.closed = true
	if e.pending > 0 {
		e.flushBlock(e.pending)
	}

	if e.logicalIndex != e.total {
		return errs.ErrValueCountMismatch
	}

	return nil
}

// Bytes returns the encoded byte slice accumulated so far.
//
// The returned slice is valid until the next call to Write, WriteValues, or
// Reset, and references the internal buffer; the caller must not modify it.
//
// Panics if Finish() has been called (nil buffer).
func (e *DeltaPackedEncoder[T]) Bytes() []byte {
	if e.buf == nil {
		panic("encoder already finished - cannot access bytes after Finish()")
	}

	return e.buf.Bytes()
}

// Len returns the number of valid values ingested so far.
func (e *DeltaPackedEncoder[T]) Len() int {
	return e.logicalIndex + e.pending
}

// Size returns the size in bytes of the encoded stream.
//
// Panics if Finish() has been called (nil buffer).
func (e *DeltaPackedEncoder[T]) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset clears the stream state, allowing the encoder to be reused for a new
// value stream with the same declared total. The accumulated bytes of
// previously finished streams stay in the internal buffer.
func (e *DeltaPackedEncoder[T]) Reset() {
	e.prev = 0
	e.logicalIndex = 0
	e.pending = 0
	e.head = 0
	e.headerWritten = false
	e.closed = false
}

// Finish finalizes the encoding process and returns buffer resources to the
// pool. After calling Finish the encoder is no longer usable.
func (e *DeltaPackedEncoder[T]) Finish() {
	if e.buf != nil {
		pool.PutChunkBuffer(e.buf)
		e.buf = nil
	}
	e.Reset()
	e.total = 0
}

// writeStreamHeader emits the stream header, consuming the first valid value.
func (e *DeltaPackedEncoder[T]) writeStreamHeader(first T) {
	appendUvarint(e.buf, BlockSize)
	appendUvarint(e.buf, NumMiniBlocks)
	appendUvarint(e.buf, uint64(e.total)) //nolint:gosec
	appendZigZag(e.buf, signExtend(first))

	e.headerWritten = true
	e.logicalIndex = 1
	e.prev = first
}

// flushBlock encodes the oldest n pending deltas as one block.
//
// The phases run as sequential passes over the block: gather, minimum
// reduction, normalization, per-mini-block width reduction, header write,
// and bit packing. The encoded bytes are identical to what a parallel
// phase-barrier implementation of the same reductions would produce.
func (e *DeltaPackedEncoder[T]) flushBlock(n int) {
	blockDeltas, cleanupDeltas := pool.GetInt64Slice(n)
	defer cleanupDeltas()

	start := (e.head - e.pending + deltaBufferCap) % deltaBufferCap
	for i := range blockDeltas {
		blockDeltas[i] = e.deltas[(start+i)%deltaBufferCap]
	}

	// Frame of reference: signed minimum over the real deltas of the block.
	minDelta := blockDeltas[0]
	for _, d := range blockDeltas[1:] {
		if d < minDelta {
			minDelta = d
		}
	}

	// Normalized deltas are non-negative and fit in 64 bits even when the
	// raw deltas span the whole signed range.
	norms, cleanupNorms := pool.GetUint64Slice(n)
	defer cleanupNorms()
	for i, d := range blockDeltas {
		norms[i] = uint64(d - minDelta) //nolint:gosec
	}

	for mb := range NumMiniBlocks {
		lo := mb * MiniBlockSize
		if lo >= n {
			// Past the true end of data: width 0, no payload bytes.
			e.widths[mb] = 0
			continue
		}
		hi := min(lo+MiniBlockSize, n)

		var maxNorm uint64
		for _, v := range norms[lo:hi] {
			if v > maxNorm {
				maxNorm = v
			}
		}
		e.widths[mb] = uint8(ienc.BitWidth(maxNorm)) //nolint:gosec
	}

	// Block header: zigzag varint minimum, then one raw byte per mini-block width.
	appendZigZag(e.buf, minDelta)
	idx := e.buf.Len()
	e.buf.ExtendOrGrow(NumMiniBlocks)
	copy(e.buf.B[idx:], e.widths[:])

	// Mini-block payloads, stored back to back.
	for mb := range NumMiniBlocks {
		lo := mb * MiniBlockSize
		if lo >= n {
			break
		}
		hi := min(lo+MiniBlockSize, n)

		width := uint(e.widths[mb])
		if width == 0 {
			continue
		}

		nbytes := ienc.ByteLen(hi-lo, width)
		idx := e.buf.Len()
		e.buf.ExtendOrGrow(nbytes)
		dst := e.buf.B[idx:]
		// The buffer may be recycled; packing merges with OR, so clear first.
		for i := range dst {
			dst[i] = 0
		}
		ienc.PackBits(dst, norms[lo:hi], width)
	}

	e.pending -= n
	e.logicalIndex += n
}

// DeltaPackedDecoder decodes streams produced by DeltaPackedEncoder.
//
// The decoder is stateless and safe for concurrent use. Null entries are not
// represented in the stream, so decoding yields only the valid values; any
// external validity bitmap must be applied by the caller.
type DeltaPackedDecoder[T Value] struct{}

var _ ColumnarDecoder[int64] = DeltaPackedDecoder[int64]{}

// NewDeltaPackedDecoder creates a new delta packed decoder.
func NewDeltaPackedDecoder[T Value]() DeltaPackedDecoder[T] {
	return DeltaPackedDecoder[T]{}
}

// Decode reconstructs the full value sequence of an encoded stream.
//
// The value count is taken from the stream header. Malformed input (truncated
// header or payload, unsupported block parameters, bit width above 64) fails
// with a sentinel error from the errs package and no partial output.
//
// An empty input decodes to an empty sequence.
func (d DeltaPackedDecoder[T]) Decode(data []byte) ([]T, error) {
	if len(data) == 0 {
		return nil, nil
	}

	hdr, _, err := parseStreamHeader(data)
	if err != nil {
		return nil, err
	}

	// Cap the preallocation so a corrupt header count cannot force a huge
	// allocation before the payload is validated.
	out := make([]T, 0, min(hdr.total, 1<<16))
	if err := d.decode(data, -1, func(v T) bool {
		out = append(out, v)
		return true
	}); err != nil {
		return nil, err
	}

	return out, nil
}

// DecodeCount behaves like Decode but additionally verifies that the stream
// header declares exactly the expected value count, failing with
// errs.ErrValueCountMismatch otherwise.
func (d DeltaPackedDecoder[T]) DecodeCount(data []byte, expected int) ([]T, error) {
	if len(data) == 0 {
		if expected != 0 {
			return nil, errs.ErrTruncatedStream
		}

		return nil, nil
	}

	hdr, _, err := parseStreamHeader(data)
	if err != nil {
		return nil, err
	}
	if hdr.total != expected {
		return nil, fmt.Errorf("%w: stream declares %d values, expected %d", errs.ErrValueCountMismatch, hdr.total, expected)
	}

	return d.Decode(data)
}

// All returns an iterator yielding up to count decoded values.
//
// Malformed data stops the iterator early; use Decode when error reporting is
// required.
func (d DeltaPackedDecoder[T]) All(data []byte, count int) iter.Seq[T] {
	return func(yield func(T) bool) {
		if count <= 0 || len(data) == 0 {
			return
		}
		_ = d.decode(data, count, yield)
	}
}

// At returns the value at the specified index.
//
// The stream is delta encoded, so At decodes sequentially up to the target
// index. For bulk access, Decode or All are more efficient than repeated At
// calls.
func (d DeltaPackedDecoder[T]) At(data []byte, index int, count int) (T, bool) {
	var result T
	if index < 0 || index >= count || len(data) == 0 {
		return result, false
	}

	found := false
	i := 0
	_ = d.decode(data, index+1, func(v T) bool {
		if i == index {
			result = v
			found = true

			return false
		}
		i++

		return true
	})

	return result, found
}

type streamHeader struct {
	blockSize  int
	miniBlocks int
	total      int
	first      int64
}

// parseStreamHeader reads and validates the stream header, returning the
// offset of the first block.
func parseStreamHeader(data []byte) (streamHeader, int, error) {
	var hdr streamHeader

	blockSize, offset, ok := decodeUvarint(data, 0)
	if !ok {
		return hdr, 0, errs.ErrTruncatedStream
	}
	miniBlocks, offset, ok := decodeUvarint(data, offset)
	if !ok {
		return hdr, 0, errs.ErrTruncatedStream
	}
	total, offset, ok := decodeUvarint(data, offset)
	if !ok {
		return hdr, 0, errs.ErrTruncatedStream
	}
	first, offset, ok := decodeZigZagVarint(data, offset)
	if !ok {
		return hdr, 0, errs.ErrTruncatedStream
	}

	if blockSize != BlockSize || miniBlocks != NumMiniBlocks {
		return hdr, 0, fmt.Errorf("%w: block_size=%d mini_blocks=%d", errs.ErrInvalidStreamHeader, blockSize, miniBlocks)
	}

	hdr.blockSize = int(blockSize)   //nolint:gosec
	hdr.miniBlocks = int(miniBlocks) //nolint:gosec
	hdr.total = int(total)           //nolint:gosec
	hdr.first = first

	return hdr, offset, nil
}

// decode walks the stream, yielding reconstructed values until limit values
// have been produced (limit < 0 means the header's declared count). The block
// structure always follows the header count, so a smaller limit stops early
// without disturbing payload offsets.
func (d DeltaPackedDecoder[T]) decode(data []byte, limit int, yield func(T) bool) error {
	hdr, offset, err := parseStreamHeader(data)
	if err != nil {
		return err
	}

	count := hdr.total
	if limit >= 0 && limit < count {
		count = limit
	}
	if count == 0 {
		return nil
	}

	running := hdr.first
	if !yield(T(running)) {
		return nil
	}
	produced := 1

	// Deltas still encoded in the remaining blocks, per the header count.
	headerRemaining := hdr.total - 1

	scratch, cleanup := pool.GetUint64Slice(MiniBlockSize)
	defer cleanup()

	for produced < count {
		minDelta, next, ok := decodeZigZagVarint(data, offset)
		if !ok {
			return errs.ErrTruncatedStream
		}
		offset = next

		if offset+NumMiniBlocks > len(data) {
			return errs.ErrTruncatedStream
		}
		var widths [NumMiniBlocks]uint8
		copy(widths[:], data[offset:offset+NumMiniBlocks])
		offset += NumMiniBlocks

		blockN := min(headerRemaining, BlockSize)

		for mb := range NumMiniBlocks {
			lo := mb * MiniBlockSize
			if lo >= blockN {
				break
			}
			n := min(blockN-lo, MiniBlockSize)

			width := uint(widths[mb])
			if width > 64 {
				return fmt.Errorf("%w: %d", errs.ErrInvalidBitWidth, width)
			}

			vals := scratch[:n]
			if width == 0 {
				for i := range vals {
					vals[i] = 0
				}
			} else {
				nbytes := ienc.ByteLen(n, width)
				if offset+nbytes > len(data) {
					return errs.ErrTruncatedStream
				}
				ienc.UnpackBits(vals, data[offset:offset+nbytes], width)
				offset += nbytes
			}

			for _, norm := range vals {
				delta := int64(norm) + minDelta //nolint:gosec
				running += delta
				produced++
				if !yield(T(running)) {
					return nil
				}
				if produced == count {
					return nil
				}
			}
		}

		headerRemaining -= blockN
	}

	return nil
}

// signExtend widens a value to int64, sign-extending 32-bit types from their
// own width so delta arithmetic matches the encoded domain.
func signExtend[T Value](v T) int64 {
	if unsafe.Sizeof(v) == 4 {
		return int64(int32(uint32(v))) //nolint:gosec
	}

	return int64(v)
}

// valueSize returns the byte width of the value type.
func valueSize[T Value]() int {
	var v T
	return int(unsafe.Sizeof(v))
}

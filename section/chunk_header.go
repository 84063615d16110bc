package section

import (
	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/deltapack/errs"
)

// ChunkHeader represents the fixed-size header at the start of a column chunk.
//
// Layout (24 bytes):
//
//	byte  0-1  Flag.Options (always little-endian)
//	byte  2    Flag.EncodingType
//	byte  3    Flag.CompressionType
//	byte  4-7  ValueCount
//	byte  8-11 PayloadSize
//	byte 12-19 Checksum
//	byte 20    ValueWidth
//	byte 21-23 reserved, zero
type ChunkHeader struct {
	// ValueCount is the number of valid values encoded in the chunk payload.
	ValueCount uint32
	// PayloadSize is the byte length of the (possibly compressed) payload
	// following the header.
	PayloadSize uint32
	// Checksum is the xxHash64 digest of the payload as stored, i.e. after
	// compression.
	Checksum uint64
	// ValueWidth is the byte width of one value: 4 or 8.
	ValueWidth uint8

	// Flag is a packed field for options, magic number, encoding and compression.
	Flag ChunkFlag
}

// NewChunkHeader creates a new ChunkHeader for the given value count and
// value width. Payload size and checksum are filled in when the chunk writer
// finishes.
func NewChunkHeader(valueCount int, valueWidth int) *ChunkHeader {
	return &ChunkHeader{
		Flag:       NewChunkFlag(),
		ValueCount: uint32(valueCount), //nolint:gosec
		ValueWidth: uint8(valueWidth),  //nolint:gosec
	}
}

// Parse parses the header from a byte slice.
//
// Returns errs.ErrInvalidHeaderSize if data is not exactly HeaderSize bytes,
// or flag/width validation errors.
func (h *ChunkHeader) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// The Options field itself is always little-endian so the endianness bit
	// can be read before the engine is known.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.EncodingType = data[2]
	h.Flag.CompressionType = data[3]

	engine := h.Flag.GetEndianEngine()

	h.ValueCount = engine.Uint32(data[4:8])
	h.PayloadSize = engine.Uint32(data[8:12])
	h.Checksum = engine.Uint64(data[12:20])
	h.ValueWidth = data[20]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	if h.ValueWidth != ValueWidth32 && h.ValueWidth != ValueWidth64 {
		return errs.ErrInvalidValueWidth
	}

	return nil
}

// Bytes serializes the ChunkHeader into a byte slice.
func (h *ChunkHeader) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.EncodingType
	b[3] = h.Flag.CompressionType
	engine.PutUint32(b[4:8], h.ValueCount)
	engine.PutUint32(b[8:12], h.PayloadSize)
	engine.PutUint64(b[12:20], h.Checksum)
	b[20] = h.ValueWidth

	return b
}

// ParseChunkHeader parses a ChunkHeader from the start of data.
func ParseChunkHeader(data []byte) (ChunkHeader, error) {
	if len(data) < HeaderSize {
		return ChunkHeader{}, errs.ErrInvalidHeaderSize
	}

	h := ChunkHeader{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return ChunkHeader{}, err
	}

	return h, nil
}

// ChecksumPayload computes the xxHash64 digest recorded in the chunk header.
func ChecksumPayload(payload []byte) uint64 {
	return xxhash.Sum64(payload)
}

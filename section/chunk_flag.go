package section

import (
	"github.com/arloliu/deltapack/endian"
	"github.com/arloliu/deltapack/errs"
	"github.com/arloliu/deltapack/format"
)

// ChunkFlag represents the packed flag field at the start of the chunk header.
type ChunkFlag struct {
	// Options is a packed field for various options.
	// Bit 0 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 1-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are the magic number identifying the chunk format:
	//   - 0xDB10 (0b1101_1011_0001_0000): integer column chunk format v1
	Options uint16

	// EncodingType is an enum indicating the value encoding of this chunk.
	EncodingType uint8
	// CompressionType is an enum indicating the payload compression of this chunk.
	CompressionType uint8
}

var (
	validEncodings = map[uint8]struct{}{
		uint8(format.TypePlain):       {},
		uint8(format.TypeDeltaPacked): {},
	}

	validCompressions = map[uint8]struct{}{
		uint8(format.CompressionNone): {},
		uint8(format.CompressionZstd): {},
		uint8(format.CompressionS2):   {},
		uint8(format.CompressionLZ4):  {},
	}
)

// NewChunkFlag creates a new ChunkFlag with default settings: little-endian,
// delta packed encoding, no compression.
func NewChunkFlag() ChunkFlag {
	flag := ChunkFlag{
		Options:         MagicChunkV1Opt,
		EncodingType:    uint8(format.TypeDeltaPacked),
		CompressionType: uint8(format.CompressionNone),
	}
	flag.WithLittleEndian()

	return flag
}

// IsLittleEndian returns whether the chunk data is little-endian.
func (f ChunkFlag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the chunk data is big-endian.
func (f ChunkFlag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *ChunkFlag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *ChunkFlag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f ChunkFlag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// Encoding returns the value encoding type of the chunk.
func (f ChunkFlag) Encoding() format.EncodingType {
	return format.EncodingType(f.EncodingType)
}

// SetEncoding sets the value encoding type of the chunk.
func (f *ChunkFlag) SetEncoding(enc format.EncodingType) {
	f.EncodingType = uint8(enc)
}

// Compression returns the payload compression type of the chunk.
func (f ChunkFlag) Compression() format.CompressionType {
	return format.CompressionType(f.CompressionType)
}

// SetCompression sets the payload compression type of the chunk.
func (f *ChunkFlag) SetCompression(compression format.CompressionType) {
	f.CompressionType = uint8(compression)
}

// IsValidMagicNumber checks if the magic number is valid.
func (f ChunkFlag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicChunkV1Opt
}

// IsValidEncoding checks if the encoding type is valid.
func (f ChunkFlag) IsValidEncoding() bool {
	_, ok := validEncodings[f.EncodingType]
	return ok
}

// IsValidCompression checks if the compression type is valid.
func (f ChunkFlag) IsValidCompression() bool {
	_, ok := validCompressions[f.CompressionType]
	return ok
}

// Validate checks if the flag contains valid values.
func (f ChunkFlag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.IsValidEncoding() {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.IsValidCompression() {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f ChunkFlag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}

package section

const (
	// Bit masks for the packed Options field of the chunk flag.
	EndiannessMask   = 0x0001 // Mask for endianness bit (bit 0), 0 means little-endian
	ReservedBitsMask = 0x000E // Mask for reserved bits (bits 1-3), must be zero
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// MagicChunkV1Opt is the version 1 magic number of the column chunk format.
	MagicChunkV1Opt = 0xDB10
)

const (
	// HeaderSize is the fixed chunk header size in bytes.
	HeaderSize = 24

	// Value widths supported by the chunk format, in bytes.
	ValueWidth32 = 4
	ValueWidth64 = 8
)

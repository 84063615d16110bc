package compress

// ZstdCompressor compresses chunk payloads with Zstandard.
//
// Preferred when compression ratio matters more than speed: cold storage of
// column chunks, long retention, or bandwidth-limited transfers. Two
// implementations are selected at build time: a cgo binding (valyala/gozstd)
// when cgo is available, and a pure-Go fallback (klauspost/compress/zstd)
// otherwise. Both read each other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

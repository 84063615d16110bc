// Package chunk frames one column chunk: a fixed-size header followed by an
// encoded, optionally compressed integer payload.
//
// The header records the value count, payload size, an xxHash64 payload
// checksum, and a packed flag with the magic number, byte order, encoding and
// compression types. Writer produces framed chunks, Reader validates and
// decodes them.
//
// # Basic Usage
//
//	w, _ := chunk.NewWriter[int64](len(values))
//	_ = w.WriteValues(values, nil)
//	framed, _ := w.Finish()
//
//	r, _ := chunk.NewReader[int64](framed)
//	decoded, _ := r.Values()
package chunk

import (
	"fmt"

	"github.com/arloliu/deltapack/format"
	"github.com/arloliu/deltapack/internal/options"
)

// config collects the chunk writer settings before the writer is built.
type config struct {
	encoding    format.EncodingType
	compression format.CompressionType
	bigEndian   bool
}

// Option configures a chunk writer.
type Option = options.Option[*config]

func defaultConfig() config {
	return config{
		encoding:    format.TypeDeltaPacked,
		compression: format.CompressionNone,
	}
}

// WithEncoding selects the value encoding of the chunk payload.
// The default is format.TypeDeltaPacked.
func WithEncoding(enc format.EncodingType) Option {
	return options.New(func(c *config) error {
		switch enc {
		case format.TypePlain, format.TypeDeltaPacked:
			c.encoding = enc
			return nil
		default:
			return fmt.Errorf("invalid chunk encoding: %v", enc)
		}
	})
}

// WithCompression selects the payload compression of the chunk.
// The default is format.CompressionNone.
func WithCompression(comp format.CompressionType) Option {
	return options.New(func(c *config) error {
		switch comp {
		case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
			c.compression = comp
			return nil
		default:
			return fmt.Errorf("invalid chunk compression: %v", comp)
		}
	})
}

// WithLittleEndian sets little-endian byte order for the chunk header and
// plain payloads. This is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *config) {
		c.bigEndian = false
	})
}

// WithBigEndian sets big-endian byte order for the chunk header and plain
// payloads. The delta packed payload layout is little-endian regardless.
func WithBigEndian() Option {
	return options.NoError(func(c *config) {
		c.bigEndian = true
	})
}

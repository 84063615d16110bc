// Package encoding provides columnar encoders and decoders for fixed-width
// integer value streams.
//
// Two encodings are available:
//
//   - DeltaPacked: the delta binary packed encoding. Values are stored as
//     deltas against the previous valid value, grouped into 128-value blocks
//     with a per-block frame-of-reference minimum and four 32-value
//     mini-blocks, each bit-packed at its own width. Null entries are dropped
//     and never occupy space in the encoded stream.
//   - Plain: raw fixed-width values in the configured byte order, used when
//     the data does not benefit from delta encoding.
//
// Encoders buffer their output in pooled byte buffers; call Finish to return
// the buffer to the pool once the encoded bytes have been consumed. Decoders
// are stateless and safe for concurrent use.
package encoding

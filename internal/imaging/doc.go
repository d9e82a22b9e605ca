// Package imaging turns encoded camera payloads into pixel buffers on demand.
//
// A payload arrives as raw bytes plus a declared content type. NewEncodedImage
// pairs the two, resolving the type string through the mimetype registry. An
// Image handle wraps the encoded form and decodes it lazily: the first call to
// PixelBuffer runs the Decoder once and every later call returns the cached
// outcome, including a nil outcome.
//
// # Dispatch
//
// Dispatcher selects a decoder from the content type's kind:
//   - raw RGBA: the rgba package codec
//   - JPEG, PNG: the standard library decoders, normalized to *image.NRGBA
//   - point clouds and unsupported types: no decoder, nil result
//
// Malformed bytes of a known raster type also yield nil. Callers cannot tell a
// malformed payload from an undecodable type through PixelBuffer; the cause is
// logged at debug level.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Thread Safety
//
// Image and ImageCache are safe for concurrent use. Concurrent first calls to
// PixelBuffer on the same handle run the decoder exactly once. Decoded buffers
// are shared by every caller of a handle and must be treated as read-only.
//
// # Error Handling
//
// Decoding never returns an error; it returns nil. Loading a payload from disk
// fails loudly (missing file, oversized payload) before any handle is built.
// Pixel operations return ErrNoPixelBuffer when a handle has nothing to decode.
package imaging

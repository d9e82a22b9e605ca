package imaging

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/ironsheep/camera-media-mcp/internal/mimetype"
)

// EncodedImage is an immutable payload paired with its declared content type.
type EncodedImage struct {
	data        []byte
	contentType mimetype.ContentType
}

// NewEncodedImage resolves contentType and pairs it with data. The
// EncodedImage takes ownership of data; the caller must not modify it
// afterwards.
func NewEncodedImage(data []byte, contentType string) EncodedImage {
	return EncodedImage{data: data, contentType: mimetype.Resolve(contentType)}
}

// Bytes returns the encoded payload. The returned slice must not be modified.
func (e EncodedImage) Bytes() []byte { return e.data }

// Len returns the payload size in bytes.
func (e EncodedImage) Len() int { return len(e.data) }

// ContentType returns the declared content type. It is not validated against
// the payload.
func (e EncodedImage) ContentType() mimetype.ContentType { return e.contentType }

// Image is a lazily decoded handle over an EncodedImage.
//
// The decode outcome moves from "not attempted" to a terminal state exactly
// once, on the first PixelBuffer call, and is cached for the handle's
// lifetime. A nil outcome is cached like any other.
type Image struct {
	encoded EncodedImage
	decoder Decoder

	once      sync.Once
	attempted atomic.Bool
	pixels    *image.NRGBA
}

// NewImage wraps enc. A nil dec uses a Dispatcher backed by the global logger.
func NewImage(enc EncodedImage, dec Decoder) *Image {
	if dec == nil {
		dec = NewDispatcher(nil)
	}
	return &Image{encoded: enc, decoder: dec}
}

// ContentType returns the declared content type of the payload.
func (i *Image) ContentType() mimetype.ContentType { return i.encoded.contentType }

// Encoded returns the encoded form for callers that want the original bytes.
func (i *Image) Encoded() EncodedImage { return i.encoded }

// PixelBuffer returns the decoded image, or nil if the payload cannot be
// decoded. The decoder runs at most once per handle, even under concurrent
// first calls. The returned buffer is shared and must be treated as read-only.
func (i *Image) PixelBuffer() *image.NRGBA {
	i.once.Do(func() {
		i.pixels = i.decoder.Decode(i.encoded.contentType, i.encoded.data)
		i.attempted.Store(true)
	})
	return i.pixels
}

// Decoded reports whether PixelBuffer has already run the decoder.
func (i *Image) Decoded() bool { return i.attempted.Load() }

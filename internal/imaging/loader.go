package imaging

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ironsheep/camera-media-mcp/internal/mimetype"
)

// DefaultMaxPayloadBytes caps payload files when no limit is configured.
const DefaultMaxPayloadBytes = 64 << 20

var (
	// ErrNoPixelBuffer is returned by pixel operations when a handle has no
	// decoded image.
	ErrNoPixelBuffer = errors.New("imaging: no decoded image available")

	// ErrPayloadTooLarge is returned when a payload file exceeds the cache limit.
	ErrPayloadTooLarge = errors.New("imaging: payload too large")
)

// ImageCache provides thread-safe caching of Image handles to avoid redundant
// disk reads and repeated decodes.
//
// Handles are keyed by file path and resolved content type, so the same file
// loaded under two content types yields two handles. Because handles memoize
// their decode, a cached handle decodes at most once for the cache's lifetime.
//
// ImageCache is safe for concurrent use by multiple goroutines. Concurrent
// loads of the same key may each read the file, but only one handle is kept
// and returned to all callers.
//
// # Memory Management
//
// Cached handles, their payloads and their decoded buffers remain in memory
// until explicitly removed via Evict() or Clear().
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/frame.rgba", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if px := img.PixelBuffer(); px != nil {
//	    // Use px...
//	}
type ImageCache struct {
	mu     sync.RWMutex
	images map[cacheKey]*Image

	decoder            Decoder
	maxPayloadBytes    int64
	defaultContentType string
}

type cacheKey struct {
	path        string
	contentType mimetype.ContentType
}

// CacheOption configures an ImageCache.
type CacheOption func(*ImageCache)

// WithDecoder sets the decoder given to every handle the cache creates.
func WithDecoder(dec Decoder) CacheOption {
	return func(c *ImageCache) { c.decoder = dec }
}

// WithMaxPayloadBytes sets the largest payload file the cache will read.
// Non-positive values keep the default.
func WithMaxPayloadBytes(n int64) CacheOption {
	return func(c *ImageCache) {
		if n > 0 {
			c.maxPayloadBytes = n
		}
	}
}

// WithDefaultContentType sets the content type used when a load names none
// and the file extension is not recognized.
func WithDefaultContentType(contentType string) CacheOption {
	return func(c *ImageCache) { c.defaultContentType = contentType }
}

// NewImageCache creates and initializes a new empty cache.
func NewImageCache(opts ...CacheOption) *ImageCache {
	c := &ImageCache{
		images:          make(map[cacheKey]*Image),
		maxPayloadBytes: DefaultMaxPayloadBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.decoder == nil {
		c.decoder = NewDispatcher(nil)
	}
	return c
}

// ResolveContentType picks the content type for a payload file. An explicit
// contentType always wins, even when it is not a known type. Otherwise the
// file extension decides, falling back to the cache's default content type.
func (c *ImageCache) ResolveContentType(path, contentType string) mimetype.ContentType {
	if contentType != "" {
		return mimetype.Resolve(contentType)
	}
	ct := mimetype.FromExtension(filepath.Ext(path))
	if !ct.IsSupported() && c.defaultContentType != "" {
		return mimetype.Resolve(c.defaultContentType)
	}
	return ct
}

// Load returns the cached handle for path, reading the file if it is not cached.
//
// Parameters:
//   - path: Absolute or relative file path to the payload.
//   - contentType: Declared content type. Empty means infer from the extension.
//
// The handle is created without decoding; decoding happens on the first
// PixelBuffer call.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns ErrPayloadTooLarge if the file exceeds the configured limit
func (c *ImageCache) Load(path, contentType string) (*Image, error) {
	key := cacheKey{path: path, contentType: c.ResolveContentType(path, contentType)}

	c.mu.RLock()
	if img, ok := c.images[key]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	data, err := readPayload(path, c.maxPayloadBytes)
	if err != nil {
		return nil, err
	}

	img := NewImage(EncodedImage{data: data, contentType: key.contentType}, c.decoder)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.images[key]; ok {
		return existing, nil
	}
	c.images[key] = img

	return img, nil
}

func readPayload(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrPayloadTooLarge, path, limit)
	}
	return data, nil
}

// Clear removes all handles from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[cacheKey]*Image)
	c.mu.Unlock()
}

// Evict removes every handle loaded from path, under any content type.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	for key := range c.images {
		if key.path == path {
			delete(c.images, key)
		}
	}
	c.mu.Unlock()
}

// Len returns the number of cached handles.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// PixelBuffer loads path and returns its decoded image, or ErrNoPixelBuffer
// when the payload has none.
func (c *ImageCache) PixelBuffer(path, contentType string) (*image.NRGBA, error) {
	img, err := c.Load(path, contentType)
	if err != nil {
		return nil, err
	}
	px := img.PixelBuffer()
	if px == nil {
		return nil, fmt.Errorf("%w: %s as %s", ErrNoPixelBuffer, path, img.ContentType().Name())
	}
	return px, nil
}

// ImageInfo contains metadata about a loaded payload.
type ImageInfo struct {
	// ContentType is the declared content type name, verbatim for unsupported types.
	ContentType string `json:"content_type"`

	// Kind is the decoder family: "raw-rgba", "jpeg", "png", "pointcloud" or "unsupported".
	Kind string `json:"kind"`

	// Supported indicates whether the content type is a known type.
	Supported bool `json:"supported"`

	// Decoded indicates whether a pixel buffer is available.
	Decoded bool `json:"decoded"`

	// Width is the image width in pixels. Zero when Decoded is false.
	Width int `json:"width"`

	// Height is the image height in pixels. Zero when Decoded is false.
	Height int `json:"height"`

	// HasAlpha indicates whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// PayloadBytes is the size of the encoded payload in bytes.
	PayloadBytes int `json:"payload_bytes"`
}

// LoadImageInfo loads a payload and returns metadata about it.
//
// An undecodable payload is not an error here: the result reports
// Decoded=false with zero dimensions.
func LoadImageInfo(cache *ImageCache, path, contentType string) (*ImageInfo, error) {
	img, err := cache.Load(path, contentType)
	if err != nil {
		return nil, err
	}

	ct := img.ContentType()
	info := &ImageInfo{
		ContentType:  ct.Name(),
		Kind:         ct.Kind().String(),
		Supported:    ct.IsSupported(),
		PayloadBytes: img.Encoded().Len(),
	}

	if px := img.PixelBuffer(); px != nil {
		bounds := px.Bounds()
		info.Decoded = true
		info.Width = bounds.Dx()
		info.Height = bounds.Dy()
		info.HasAlpha = !px.Opaque()
	}

	return info, nil
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of a decoded payload.
//
// Returns ErrNoPixelBuffer if the payload cannot be decoded.
func GetDimensions(cache *ImageCache, path, contentType string) (*DimensionsResult, error) {
	px, err := cache.PixelBuffer(path, contentType)
	if err != nil {
		return nil, err
	}

	bounds := px.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

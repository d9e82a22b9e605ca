package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/camera-media-mcp/internal/logger"
	"github.com/ironsheep/camera-media-mcp/internal/mimetype"
	"github.com/ironsheep/camera-media-mcp/internal/rgba"
)

var (
	// ErrUnsupportedType is the logged cause when a content type has no decoder.
	ErrUnsupportedType = errors.New("imaging: unsupported content type")

	// ErrNotRaster is the logged cause for known content types that carry no
	// raster image, such as point clouds.
	ErrNotRaster = errors.New("imaging: content type is not a raster image")
)

// Decoder turns an encoded payload into a pixel buffer. A nil result means no
// pixel buffer is available, whatever the reason.
type Decoder interface {
	Decode(ct mimetype.ContentType, data []byte) *image.NRGBA
}

// DecoderFunc is a proxy type for Decoder.
type DecoderFunc func(ct mimetype.ContentType, data []byte) *image.NRGBA

// Decode calls f(ct, data).
func (f DecoderFunc) Decode(ct mimetype.ContentType, data []byte) *image.NRGBA {
	return f(ct, data)
}

// Dispatcher routes payloads to the decoder for their content type.
type Dispatcher struct {
	log *slog.Logger
}

// NewDispatcher creates a Dispatcher. A nil log uses the global logger.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	return &Dispatcher{log: log}
}

// Decode implements Decoder. Failures are logged at debug level and collapse
// to nil.
func (d *Dispatcher) Decode(ct mimetype.ContentType, data []byte) *image.NRGBA {
	img, err := DecodeContent(ct, data)
	if err != nil {
		d.logger().Debug("no pixel buffer",
			slog.String("content_type", ct.Name()),
			slog.String("kind", ct.Kind().String()),
			slog.Int("payload_bytes", len(data)),
			slog.Any("error", err))
		return nil
	}
	return img
}

func (d *Dispatcher) logger() *slog.Logger {
	if d == nil || d.log == nil {
		return logger.L
	}
	return d.log
}

// DecodeContent is the dispatch table behind Dispatcher, returning the cause
// of a failed decode instead of discarding it.
func DecodeContent(ct mimetype.ContentType, data []byte) (*image.NRGBA, error) {
	switch ct.Kind() {
	case mimetype.KindRawRGBA:
		return rgba.DecodeBytes(data)
	case mimetype.KindJPEG:
		return decodeStandard(data, jpeg.Decode)
	case mimetype.KindPNG:
		return decodeStandard(data, png.Decode)
	case mimetype.KindPCD:
		return nil, ErrNotRaster
	default:
		return nil, ErrUnsupportedType
	}
}

// decodeStandard runs a standard library decoder and converts its output to
// a zero-origin NRGBA buffer.
func decodeStandard(data []byte, decode func(io.Reader) (image.Image, error)) (*image.NRGBA, error) {
	img, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n, nil
	}
	return imaging.Clone(img), nil
}

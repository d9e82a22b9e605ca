// Package rgba decodes the raw RGBA container used for uncompressed camera
// frames (content type "image/vnd.viam.rgba").
//
// # Wire Format
//
// All integers are big-endian:
//
//	offset  size  field
//	0       4     magic "RGBA"
//	4       4     width  (uint32)
//	8       4     height (uint32)
//	12      ...   scanlines, RowStride(width) bytes each
//
// Each scanline holds width pixels of four bytes in R, G, B, A order followed by
// any alignment padding. Scanlines are stored bottom-to-top: the first scanline
// in the stream is the visual bottom row. Decoded buffers are top-to-bottom, so
// stream row i lands in buffer row height-1-i.
//
// # Error Handling
//
// Every read is bounded by a length check made before any pixel memory is
// allocated. Malformed payloads return ErrNoHeader or ErrTruncated and never a
// partial image.
//
// Importing this package registers the format with the standard image package,
// so image.Decode recognizes raw RGBA payloads.
package rgba

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
)

const (
	// Magic is the 4-byte signature at the start of every payload.
	Magic = "RGBA"

	// HeaderSize is the number of bytes before the first scanline.
	HeaderSize = 12

	// NumFrames is the number of frames in a payload. The format has no
	// multi-frame support.
	NumFrames = 1

	// FormatName is the name registered with the image package.
	FormatName = "vnd.viam.rgba"

	bitsPerPixel  = 32
	bytesPerPixel = 4
)

var (
	// ErrNoHeader is returned when the payload does not start with Magic.
	ErrNoHeader = errors.New("rgba: missing RGBA header")

	// ErrTruncated is returned when the payload is shorter than its header
	// declares.
	ErrTruncated = errors.New("rgba: truncated payload")

	// ErrTooLarge is returned when the declared dimensions cannot be
	// represented as an image rectangle.
	ErrTooLarge = errors.New("rgba: dimensions too large")
)

func init() {
	image.RegisterFormat(FormatName, Magic, Decode, DecodeConfig)
}

// Header is the fixed-size prefix of a payload.
type Header struct {
	Width  uint32
	Height uint32
}

// IsValid reports whether data starts with the RGBA magic. Short input is
// never valid.
func IsValid(data []byte) bool {
	return len(data) >= len(Magic) && string(data[:len(Magic)]) == Magic
}

// RowStride returns the number of bytes one scanline occupies, padding the
// row to a multiple of 32 bits.
func RowStride(width uint32) uint64 {
	return ((uint64(width)*bitsPerPixel + 31) / 32) * 4
}

// DecodeHeader validates the magic and reads the width and height.
func DecodeHeader(data []byte) (Header, error) {
	if !IsValid(data) {
		return Header{}, ErrNoHeader
	}
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, HeaderSize, len(data))
	}
	return Header{
		Width:  binary.BigEndian.Uint32(data[4:8]),
		Height: binary.BigEndian.Uint32(data[8:12]),
	}, nil
}

// DecodeBytes decodes a complete payload into a top-to-bottom NRGBA buffer.
//
// Bytes after the last scanline are ignored. Padding bytes within a scanline
// beyond width*4 are skipped.
func DecodeBytes(data []byte) (*image.NRGBA, error) {
	hdr, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	if hdr.Width > math.MaxInt32 || hdr.Height > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, hdr.Width, hdr.Height)
	}

	stride := RowStride(hdr.Width)
	avail := uint64(len(data) - HeaderSize)
	rows := uint64(hdr.Height)
	// Division keeps the check free of uint64 overflow for any header.
	if rows > 0 && stride > avail/rows {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes per row, have %d bytes of pixel data",
			ErrTruncated, hdr.Width, hdr.Height, stride, avail)
	}

	width, height := int(hdr.Width), int(hdr.Height)
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rowBytes := width * bytesPerPixel
	step := int(stride)

	off := HeaderSize
	for i := 0; i < height; i++ {
		src := data[off : off+step]
		dst := img.Pix[(height-1-i)*img.Stride:]
		copy(dst[:rowBytes], src[:rowBytes])
		off += step
	}

	return img, nil
}

// Decode reads a whole payload from r. It satisfies the decode function
// signature expected by image.RegisterFormat.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rgba: read payload: %w", err)
	}
	img, err := DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeConfig reads only the header from r.
func DecodeConfig(r io.Reader) (image.Config, error) {
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return image.Config{}, fmt.Errorf("rgba: read header: %w", err)
	}
	hdr, err := DecodeHeader(buf[:n])
	if err != nil {
		return image.Config{}, err
	}
	if hdr.Width > math.MaxInt32 || hdr.Height > math.MaxInt32 {
		return image.Config{}, fmt.Errorf("%w: %dx%d", ErrTooLarge, hdr.Width, hdr.Height)
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(hdr.Width),
		Height:     int(hdr.Height),
	}, nil
}

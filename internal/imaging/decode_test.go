package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/ironsheep/camera-media-mcp/internal/mimetype"
	"github.com/ironsheep/camera-media-mcp/internal/rgba"
)

// rawPayload builds a raw RGBA payload from scanlines in stream order, bottom
// row first.
func rawPayload(width, height uint32, rows ...[]byte) []byte {
	buf := make([]byte, rgba.HeaderSize)
	copy(buf, rgba.Magic)
	binary.BigEndian.PutUint32(buf[4:8], width)
	binary.BigEndian.PutUint32(buf[8:12], height)
	for _, row := range rows {
		buf = append(buf, row...)
	}
	return buf
}

func pngPayload(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func jpegPayload(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestDispatcher_RawRGBA(t *testing.T) {
	top := []byte{0xFF, 0x00, 0x00, 0xFF, 0x00, 0x00, 0xFF, 0x80}
	bottom := []byte{0x00, 0xFF, 0x00, 0xFF, 0x10, 0x20, 0x30, 0x40}

	// Raw RGBA streams the bottom row first.
	px := NewDispatcher(nil).Decode(mimetype.Resolve(mimetype.RawRGBA), rawPayload(2, 2, bottom, top))
	if px == nil {
		t.Fatal("Decode returned nil for a valid raw RGBA payload")
	}
	if px.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds: got %v, want 2x2", px.Bounds())
	}
	if got := px.Pix[0:8]; !bytes.Equal(got, top) {
		t.Errorf("row 0: got % X, want % X", got, top)
	}
	if got := px.Pix[px.Stride : px.Stride+8]; !bytes.Equal(got, bottom) {
		t.Errorf("row 1: got % X, want % X", got, bottom)
	}
}

func TestDispatcher_PNG(t *testing.T) {
	src := createPatternImage(8, 6)

	px := NewDispatcher(nil).Decode(mimetype.Resolve(mimetype.PNG), pngPayload(t, src))
	if px == nil {
		t.Fatal("Decode returned nil for a valid PNG")
	}
	if px.Bounds() != src.Bounds() {
		t.Fatalf("bounds: got %v, want %v", px.Bounds(), src.Bounds())
	}
	if got := px.NRGBAAt(7, 5); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("pixel (7,5): got %v, want white", got)
	}
	if got := px.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel (0,0): got %v, want red", got)
	}
}

func TestDispatcher_PNGGrayNormalized(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	for i := range src.Pix {
		src.Pix[i] = 0x7F
	}

	px := NewDispatcher(nil).Decode(mimetype.Resolve(mimetype.PNG), pngPayload(t, src))
	if px == nil {
		t.Fatal("Decode returned nil for a gray PNG")
	}
	if got := px.NRGBAAt(1, 1); got != (color.NRGBA{0x7F, 0x7F, 0x7F, 0xFF}) {
		t.Errorf("pixel: got %v, want opaque 0x7F gray", got)
	}
}

func TestDispatcher_JPEG(t *testing.T) {
	src := createInMemoryImage(16, 16, color.NRGBA{128, 128, 128, 255})

	px := NewDispatcher(nil).Decode(mimetype.Resolve(mimetype.JPEG), jpegPayload(t, src))
	if px == nil {
		t.Fatal("Decode returned nil for a valid JPEG")
	}
	if px.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Fatalf("bounds: got %v, want 16x16", px.Bounds())
	}
	c := px.NRGBAAt(8, 8)
	if c.A != 255 || c.R < 120 || c.R > 136 {
		t.Errorf("pixel: got %v, want opaque mid gray", c)
	}
}

func TestDispatcher_Unavailable(t *testing.T) {
	valid := rawPayload(1, 1, []byte{1, 2, 3, 4})

	tests := []struct {
		name        string
		contentType string
		data        []byte
	}{
		{"raw header mismatch", mimetype.RawRGBA, append([]byte("RGBX"), valid[4:]...)},
		{"raw truncated", mimetype.RawRGBA, rawPayload(10, 10, make([]byte, 10*10*4-4))},
		{"raw empty", mimetype.RawRGBA, nil},
		{"jpeg garbage", mimetype.JPEG, []byte("not a jpeg")},
		{"png garbage", mimetype.PNG, []byte("\x89PNG\r\n\x1a\nbroken")},
		{"png declared but raw bytes", mimetype.PNG, valid},
		{"point cloud", mimetype.PCD, valid},
		{"unsupported", "application/octet-stream", valid},
		{"empty type", "", valid},
	}

	d := NewDispatcher(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if px := d.Decode(mimetype.Resolve(tt.contentType), tt.data); px != nil {
				t.Errorf("Decode: got %v buffer, want nil", px.Bounds())
			}
		})
	}
}

func TestDecodeContent_Causes(t *testing.T) {
	valid := rawPayload(1, 1, []byte{1, 2, 3, 4})

	tests := []struct {
		contentType string
		data        []byte
		want        error
	}{
		{mimetype.PCD, valid, ErrNotRaster},
		{"video/h264", valid, ErrUnsupportedType},
		{mimetype.RawRGBA, []byte("RGBX"), rgba.ErrNoHeader},
		{mimetype.RawRGBA, rawPayload(2, 2), rgba.ErrTruncated},
	}

	for _, tt := range tests {
		_, err := DecodeContent(mimetype.Resolve(tt.contentType), tt.data)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: got error %v, want %v", tt.contentType, err, tt.want)
		}
	}
}

func TestDispatcher_LogsCause(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewDispatcher(log).Decode(mimetype.Resolve("application/x-unknown"), []byte("payload"))

	out := buf.String()
	if !strings.Contains(out, "no pixel buffer") {
		t.Errorf("log output missing message: %q", out)
	}
	if !strings.Contains(out, "content_type=application/x-unknown") {
		t.Errorf("log output missing content type: %q", out)
	}
}

func TestDecoderFunc(t *testing.T) {
	want := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	var gotType mimetype.ContentType

	var dec Decoder = DecoderFunc(func(ct mimetype.ContentType, _ []byte) *image.NRGBA {
		gotType = ct
		return want
	})

	if got := dec.Decode(mimetype.Resolve(mimetype.PNG), nil); got != want {
		t.Error("DecoderFunc did not return the wrapped function's result")
	}
	if gotType.Name() != mimetype.PNG {
		t.Errorf("content type: got %s, want %s", gotType, mimetype.PNG)
	}
}

package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Rect returns r as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Crop copies region r of a decoded buffer into a new buffer whose origin is
// (0, 0). Pixel values are copied unchanged.
//
// The region must be non-empty and lie entirely inside img. Decoded buffers
// are shared by every caller of a handle, so the result never aliases img.
func Crop(img *image.NRGBA, r Region) (*image.NRGBA, error) {
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	bounds := img.Bounds()
	if !r.Rect().In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}

	return imaging.Crop(img, r.Rect()), nil
}

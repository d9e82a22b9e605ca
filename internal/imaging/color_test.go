package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.NRGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.NRGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.NRGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.NRGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSampleColor(t *testing.T) {
	img := createInMemoryImage(100, 100, color.NRGBA{255, 128, 64, 255})

	result, err := SampleColor(img, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}
	if result.RGBA.R != 255 || result.RGBA.G != 128 || result.RGBA.B != 64 || result.RGBA.A != 255 {
		t.Errorf("RGBA: got (%d,%d,%d,%d), want (255,128,64,255)",
			result.RGBA.R, result.RGBA.G, result.RGBA.B, result.RGBA.A)
	}
}

func TestSampleColor_NonPremultiplied(t *testing.T) {
	// Stored channels must come back untouched even when translucent.
	img := createInMemoryImage(4, 4, color.NRGBA{200, 100, 50, 128})

	result, err := SampleColor(img, 1, 1)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	want := RGBAColor{R: 200, G: 100, B: 50, A: 128}
	if result.RGBA != want {
		t.Errorf("RGBA: got %+v, want %+v", result.RGBA, want)
	}
	if result.Hex != "#C86432" {
		t.Errorf("Hex: got %s, want #C86432", result.Hex)
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	img := createInMemoryImage(10, 10, color.White)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 0},
		{"negative y", 0, -1},
		{"x at width", 10, 0},
		{"y at height", 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SampleColor(img, tt.x, tt.y); err == nil {
				t.Error("SampleColor should fail for out-of-bounds coordinates")
			}
		})
	}
}

func TestSampleColorsMulti(t *testing.T) {
	img := createPatternImage(100, 100)

	points := []LabeledPoint{
		{X: 10, Y: 10, Label: "red"},
		{X: 90, Y: 10, Label: "green"},
		{X: 10, Y: 90, Label: "blue"},
		{X: 90, Y: 90},
	}

	result, err := SampleColorsMulti(img, points)
	if err != nil {
		t.Fatalf("SampleColorsMulti failed: %v", err)
	}

	want := []string{"#FF0000", "#00FF00", "#0000FF", "#FFFFFF"}
	if len(result.Samples) != len(want) {
		t.Fatalf("got %d samples, want %d", len(result.Samples), len(want))
	}
	for i, s := range result.Samples {
		if s.Color.Hex != want[i] {
			t.Errorf("sample %d: got %s, want %s", i, s.Color.Hex, want[i])
		}
		if s.Label != points[i].Label {
			t.Errorf("sample %d label: got %q, want %q", i, s.Label, points[i].Label)
		}
	}
}

func TestSampleColorsMulti_FailsWithoutPartialResults(t *testing.T) {
	img := createPatternImage(10, 10)

	result, err := SampleColorsMulti(img, []LabeledPoint{{X: 1, Y: 1}, {X: 50, Y: 50}})
	if err == nil {
		t.Fatal("SampleColorsMulti should fail when a point is out of bounds")
	}
	if result != nil {
		t.Error("SampleColorsMulti returned partial results")
	}
}

func TestDominantColors(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := DominantColors(img, 10, nil)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}

	if len(result.Colors) != 4 {
		t.Fatalf("got %d colors, want 4", len(result.Colors))
	}
	for _, c := range result.Colors {
		if c.Percentage != 25 {
			t.Errorf("%s: got %.2f%%, want 25%%", c.Hex, c.Percentage)
		}
	}
	// Equal shares break ties by hex.
	if result.Colors[0].Hex != "#0000F0" {
		t.Errorf("first color: got %s, want #0000F0", result.Colors[0].Hex)
	}
}

func TestDominantColors_CountLimit(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := DominantColors(img, 2, nil)
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if len(result.Colors) != 2 {
		t.Errorf("got %d colors, want 2", len(result.Colors))
	}
}

func TestDominantColors_Region(t *testing.T) {
	img := createPatternImage(100, 100)

	result, err := DominantColors(img, 5, &Region{X1: 0, Y1: 0, X2: 50, Y2: 50})
	if err != nil {
		t.Fatalf("DominantColors failed: %v", err)
	}
	if len(result.Colors) != 1 {
		t.Fatalf("got %d colors, want 1", len(result.Colors))
	}
	if result.Colors[0].Hex != "#F00000" || result.Colors[0].Percentage != 100 {
		t.Errorf("got %s at %.1f%%, want #F00000 at 100%%", result.Colors[0].Hex, result.Colors[0].Percentage)
	}
}

func TestDominantColors_Invalid(t *testing.T) {
	img := createPatternImage(10, 10)

	if _, err := DominantColors(img, 0, nil); err == nil {
		t.Error("DominantColors should fail for count 0")
	}
	if _, err := DominantColors(img, 3, &Region{X1: 20, Y1: 20, X2: 30, Y2: 30}); err == nil {
		t.Error("DominantColors should fail for a region outside the image")
	}
}

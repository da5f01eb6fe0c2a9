package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestMeanLightness(t *testing.T) {
	tests := []struct {
		name     string
		c        color.Color
		min, max float64
	}{
		{"black", color.RGBA{0, 0, 0, 255}, 0, 0.01},
		{"white", color.RGBA{255, 255, 255, 255}, 0.99, 1.01},
		{"mid gray", color.RGBA{128, 128, 128, 255}, 0.5, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeanLightness(createInMemoryImage(10, 10, tt.c))
			if got < tt.min || got > tt.max {
				t.Errorf("MeanLightness: got %v, want in [%v, %v]", got, tt.min, tt.max)
			}
		})
	}
}

func TestMeanLightness_Bounds(t *testing.T) {
	if got := MeanLightness(createInMemoryImage(3, 3, color.Black)); got != 0 {
		t.Errorf("black: got %v, want exactly 0", got)
	}
	if got := MeanLightness(createInMemoryImage(3, 3, color.White)); got > 1 {
		t.Errorf("white: got %v, want at most 1", got)
	}
}

func TestMeanLightness_SkipsTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 0})

	if got := MeanLightness(img); got < 0.99 {
		t.Errorf("transparent pixel counted: got %v", got)
	}
	if got := MeanLightness(image.NewNRGBA(image.Rect(0, 0, 3, 3))); got != 0 {
		t.Errorf("fully transparent image: got %v, want 0", got)
	}
}

func TestIsDark(t *testing.T) {
	if !IsDark(createInMemoryImage(4, 4, color.RGBA{20, 20, 20, 255})) {
		t.Error("near-black image should be dark")
	}
	if IsDark(createInMemoryImage(4, 4, color.RGBA{230, 230, 230, 255})) {
		t.Error("near-white image should not be dark")
	}
}

func TestBlend(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range dst.Pix {
		dst.Pix[i] = 255
	}

	blend(dst, 0, 0, colorful.Color{R: 1, G: 0, B: 0}, 1)
	if got := dst.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("full opacity: got %v", got)
	}

	blend(dst, 1, 1, colorful.Color{R: 0, G: 0, B: 0}, 0.5)
	got := dst.NRGBAAt(1, 1)
	if got.R < 120 || got.R > 135 || got.R != got.G || got.G != got.B {
		t.Errorf("half opacity black over white: got %v, want mid gray", got)
	}

	// Out of bounds is ignored.
	blend(dst, 5, 5, colorful.Color{R: 1}, 1)
}

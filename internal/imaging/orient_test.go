package imaging

import (
	"image"
	"image/color"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
)

// markedBuffer is a 40x20 landscape buffer with a 4x4 red block whose
// center is at normalized (0.15, 0.2).
func markedBuffer() *image.RGBA {
	img := createInMemoryImage(40, 20, color.White).(*image.RGBA)
	for y := 2; y < 6; y++ {
		for x := 4; x < 8; x++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	return img
}

// redCentroid returns the normalized centroid of the red pixels.
func redCentroid(img image.Image) geometry.Point {
	b := img.Bounds()
	var sx, sy, n float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, _, _ := img.At(x, y).RGBA()
			if r > 0xf000 && g < 0x1000 {
				sx += float64(x-b.Min.X) + 0.5
				sy += float64(y-b.Min.Y) + 0.5
				n++
			}
		}
	}
	return geometry.Point{X: sx / n / float64(b.Dx()), Y: sy / n / float64(b.Dy())}
}

func TestToDisplay_MatchesOrientationTransform(t *testing.T) {
	buffer := markedBuffer()
	want := geometry.Point{X: 0.15, Y: 0.2}

	tests := []struct {
		o         geometry.Orientation
		wantW     int
		wantH     int
		displayed geometry.Point
	}{
		{geometry.Portrait, 20, 40, geometry.Point{X: 0.8, Y: 0.15}},
		{geometry.PortraitUpsideDown, 20, 40, geometry.Point{X: 0.2, Y: 0.85}},
		{geometry.LandscapeLeft, 40, 20, geometry.Point{X: 0.85, Y: 0.8}},
		{geometry.LandscapeRight, 40, 20, geometry.Point{X: 0.15, Y: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.o.String(), func(t *testing.T) {
			display := ToDisplay(buffer, tt.o)
			if display.Bounds().Dx() != tt.wantW || display.Bounds().Dy() != tt.wantH {
				t.Fatalf("size: got %v, want %dx%d", display.Bounds(), tt.wantW, tt.wantH)
			}

			c := redCentroid(display)
			if !scalar.EqualWithinAbs(c.X, tt.displayed.X, 1e-9) || !scalar.EqualWithinAbs(c.Y, tt.displayed.Y, 1e-9) {
				t.Errorf("marker on display: got %+v, want %+v", c, tt.displayed)
			}

			back := geometry.OrientationTransform(tt.o).Apply(c)
			if !scalar.EqualWithinAbs(back.X, want.X, 1e-9) || !scalar.EqualWithinAbs(back.Y, want.Y, 1e-9) {
				t.Errorf("display -> buffer: got %+v, want %+v", back, want)
			}
		})
	}
}

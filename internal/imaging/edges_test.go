package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestEdgeDensity(t *testing.T) {
	stripes := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if (x/2)%2 == 0 {
				c = color.RGBA{0, 0, 0, 255}
			}
			stripes.Set(x, y, c)
		}
	}

	tests := []struct {
		name string
		img  image.Image
		min  float64
		max  float64
	}{
		{"uniform", createInMemoryImage(40, 40, color.White), 0, 0},
		{"low contrast", createInMemoryImage(40, 40, color.RGBA{100, 100, 100, 255}), 0, 0},
		{"stripes", stripes, 0.4, 0.5},
		{"tiny", createInMemoryImage(2, 2, color.Black), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EdgeDensity(tt.img)
			if got < tt.min || got > tt.max {
				t.Errorf("EdgeDensity: got %v, want in [%v, %v]", got, tt.min, tt.max)
			}
		})
	}
}

package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// MeanLightness returns the average CIE L* of img, scaled to [0, 1].
// Fully transparent pixels are skipped; an image with none left is 0.
func MeanLightness(img image.Image) float64 {
	b := img.Bounds()
	var (
		sum float64
		n   int
	)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}
	if n == 0 {
		return 0
	}
	// Lab of pure black comes back a hair below zero.
	return math.Max(0, math.Min(1, sum/float64(n)))
}

// IsDark reports whether img is mostly dark, as with light digits on an
// unlit display.
func IsDark(img image.Image) bool {
	return MeanLightness(img) < 0.5
}

// blend mixes c over the pixel at (x, y) with the given opacity.
func blend(dst *image.NRGBA, x, y int, c colorful.Color, opacity float64) {
	if !(image.Point{X: x, Y: y}).In(dst.Bounds()) {
		return
	}
	under, ok := colorful.MakeColor(dst.At(x, y))
	if !ok {
		under = colorful.Color{}
	}
	r, g, b := under.BlendRgb(c, opacity).Clamped().RGB255()
	dst.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
}

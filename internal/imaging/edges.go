package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// edgeThreshold is the gray-level step that counts as an edge.
const edgeThreshold = 30

// EdgeDensity returns the fraction of pixels whose gray level differs from
// its right or lower neighbor by more than edgeThreshold. Uniform crops
// score 0; rendered text typically scores between 0.05 and 0.4.
//
// Border pixels are never edges.
func EdgeDensity(img image.Image) float64 {
	gray := effect.Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w < 3 || h < 3 {
		return 0
	}

	at := func(x, y int) int {
		return int(gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	edges := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			c := at(x, y)
			if abs(c-at(x+1, y)) > edgeThreshold || abs(c-at(x, y+1)) > edgeThreshold {
				edges++
			}
		}
	}
	return float64(edges) / float64(w*h)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

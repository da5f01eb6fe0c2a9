package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// PreprocessOptions controls how a crop is prepared for recognition.
type PreprocessOptions struct {
	// ContrastBoost is a percentage in (-100, 100]; 0 leaves contrast alone.
	ContrastBoost float64
	// MinHeight upscales crops shorter than this many pixels. Tesseract
	// recognizes small glyphs poorly.
	MinHeight int
	// AutoInvert turns light-on-dark crops into dark-on-light.
	AutoInvert bool
}

// DefaultPreprocessOptions returns the options the recognizer uses.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{ContrastBoost: 30, MinHeight: 64, AutoInvert: true}
}

// Preprocess upscales, converts to grayscale, boosts contrast, and inverts
// dark crops. Aspect ratio is preserved, so normalized coordinates measured
// on the result apply unchanged to the input.
func Preprocess(img image.Image, opts PreprocessOptions) image.Image {
	out := img
	if opts.MinHeight > 0 && out.Bounds().Dy() > 0 && out.Bounds().Dy() < opts.MinHeight {
		out = imaging.Resize(out, 0, opts.MinHeight, imaging.Lanczos)
	}

	out = effect.Grayscale(out)
	if opts.ContrastBoost != 0 {
		out = adjust.Contrast(out, opts.ContrastBoost/100)
	}
	if opts.AutoInvert && IsDark(out) {
		out = effect.Invert(out)
	}
	return out
}

package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestPreprocess_Upscales(t *testing.T) {
	img := createInMemoryImage(40, 16, color.White)

	out := Preprocess(img, PreprocessOptions{MinHeight: 64})
	if out.Bounds().Dy() != 64 || out.Bounds().Dx() != 160 {
		t.Errorf("size: got %v, want 160x64", out.Bounds())
	}

	tall := Preprocess(createInMemoryImage(40, 100, color.White), PreprocessOptions{MinHeight: 64})
	if tall.Bounds().Dy() != 100 {
		t.Errorf("tall crops should not be resized, got %v", tall.Bounds())
	}
}

func TestPreprocess_Grayscale(t *testing.T) {
	out := Preprocess(createPatternImage(20, 20), PreprocessOptions{})

	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 5 {
		for x := b.Min.X; x < b.Max.X; x += 5 {
			c := color.RGBAModel.Convert(out.At(x, y)).(color.RGBA)
			if c.R != c.G || c.G != c.B {
				t.Fatalf("pixel (%d,%d) not gray: %v", x, y, c)
			}
		}
	}
}

func TestPreprocess_AutoInvert(t *testing.T) {
	// Light digit strokes on a dark panel.
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 30; x++ {
			c := color.RGBA{10, 10, 10, 255}
			if x >= 12 && x < 18 {
				c = color.RGBA{240, 240, 240, 255}
			}
			img.Set(x, y, c)
		}
	}

	inverted := Preprocess(img, PreprocessOptions{AutoInvert: true})
	if IsDark(inverted) {
		t.Error("dark crop should come out light")
	}
	r, _, _, _ := inverted.At(15, 15).RGBA()
	if r > 0x4000 {
		t.Errorf("strokes should be dark after inversion, got r=%#x", r)
	}

	kept := Preprocess(img, PreprocessOptions{AutoInvert: false})
	if !IsDark(kept) {
		t.Error("AutoInvert off should leave the crop dark")
	}
}

func TestDefaultPreprocessOptions(t *testing.T) {
	opts := DefaultPreprocessOptions()
	if !opts.AutoInvert || opts.MinHeight <= 0 || opts.ContrastBoost <= 0 {
		t.Errorf("defaults: got %+v", opts)
	}
}

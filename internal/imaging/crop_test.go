package imaging

import (
	"encoding/base64"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
)

func tl(x, y, w, h float64) geometry.NormalizedRect {
	return geometry.NormalizedRect{X: x, Y: y, Width: w, Height: h, Origin: geometry.OriginTopLeft}
}

func TestPixelRect(t *testing.T) {
	bounds := image.Rect(0, 0, 200, 100)

	tests := []struct {
		name string
		r    geometry.NormalizedRect
		want image.Rectangle
	}{
		{"full frame", tl(0, 0, 1, 1), bounds},
		{"quadrant", tl(0.5, 0.5, 0.5, 0.5), image.Rect(100, 50, 200, 100)},
		{"rounds outward", tl(0.101, 0.101, 0.1, 0.1), image.Rect(20, 10, 41, 21)},
		{"clipped", tl(0.9, -0.5, 0.5, 1), image.Rect(180, 0, 200, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PixelRect(tt.r, bounds)
			if err != nil {
				t.Fatalf("PixelRect: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPixelRect_Errors(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)

	if _, err := PixelRect(tl(1.5, 1.5, 0.2, 0.2), bounds); err == nil {
		t.Error("expected error for a region outside the frame")
	}

	bottomLeft := tl(0, 0, 0.5, 0.5)
	bottomLeft.Origin = geometry.OriginBottomLeft
	if _, err := PixelRect(bottomLeft, bounds); err == nil {
		t.Error("expected error for a bottom-left rectangle")
	}
}

func TestPixelRect_OffsetBounds(t *testing.T) {
	got, err := PixelRect(tl(0, 0, 0.5, 0.5), image.Rect(10, 20, 110, 120))
	if err != nil {
		t.Fatalf("PixelRect: %v", err)
	}
	if want := image.Rect(10, 20, 60, 70); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCropNormalized(t *testing.T) {
	img := createPatternImage(100, 100)

	crop, rect, err := CropNormalized(img, tl(0.5, 0, 0.5, 0.5))
	if err != nil {
		t.Fatalf("CropNormalized: %v", err)
	}
	if rect != image.Rect(50, 0, 100, 50) {
		t.Errorf("rect: got %v", rect)
	}
	if crop.Bounds().Dx() != 50 || crop.Bounds().Dy() != 50 {
		t.Errorf("crop size: got %v", crop.Bounds())
	}
	if got := color.NRGBAModel.Convert(crop.At(10, 10)).(color.NRGBA); got.G != 255 || got.R != 0 {
		t.Errorf("crop should be the green quadrant, got %v", got)
	}
}

func TestEncodePNG(t *testing.T) {
	result, err := EncodePNG(createPatternImage(30, 20))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	if result.Width != 30 || result.Height != 20 {
		t.Errorf("dimensions: got %dx%d, want 30x20", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if _, err := base64.StdEncoding.DecodeString(result.ImageBase64); err != nil {
		t.Errorf("failed to decode base64: %v", err)
	}
}

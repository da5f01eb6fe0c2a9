package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
)

// EncodedImage is a PNG ready to return over the protocol.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as base64 PNG.
func EncodePNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// PixelRect converts a top-left normalized rectangle to pixels in bounds,
// rounding outward and clipping to bounds.
func PixelRect(r geometry.NormalizedRect, bounds image.Rectangle) (image.Rectangle, error) {
	if r.Origin != geometry.OriginTopLeft {
		return image.Rectangle{}, fmt.Errorf("expected a top-left rectangle, got %s", r.Origin)
	}

	px := r.Denormalize(geometry.Size{Width: float64(bounds.Dx()), Height: float64(bounds.Dy())})
	rect := image.Rect(
		bounds.Min.X+int(math.Floor(px.X)),
		bounds.Min.Y+int(math.Floor(px.Y)),
		bounds.Min.X+int(math.Ceil(px.X+px.Width)),
		bounds.Min.Y+int(math.Ceil(px.Y+px.Height)),
	).Intersect(bounds)

	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %+v does not overlap the %dx%d frame", r.Rect(), bounds.Dx(), bounds.Dy())
	}
	return rect, nil
}

// CropNormalized cuts the top-left normalized rectangle r out of img. The
// returned rectangle is the pixel area that was cut, in img's coordinates.
func CropNormalized(img image.Image, r geometry.NormalizedRect) (*image.NRGBA, image.Rectangle, error) {
	rect, err := PixelRect(r, img.Bounds())
	if err != nil {
		return nil, image.Rectangle{}, err
	}
	return imaging.Crop(img, rect), rect, nil
}

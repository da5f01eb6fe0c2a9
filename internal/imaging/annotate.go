package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
)

// boxOpacity matches the half-transparent outlines of the live preview.
const boxOpacity = 0.5

// Outline is a rectangle to draw, in top-left normalized frame coordinates.
type Outline struct {
	Rect  geometry.NormalizedRect
	Color colorful.Color
	Width int
	// Label, if set, is written just above the outline.
	Label string
}

// Annotate draws outlines onto a copy of frame. Outlines that fall outside
// the frame are skipped.
func Annotate(frame image.Image, outlines []Outline) *image.NRGBA {
	out := imaging.Clone(frame)
	for _, o := range outlines {
		rect, err := PixelRect(o.Rect.In(geometry.OriginTopLeft), out.Bounds())
		if err != nil {
			continue
		}
		width := o.Width
		if width <= 0 {
			width = 3
		}
		strokeRect(out, rect, width, o.Color)
		if o.Label != "" {
			drawLabel(out, rect.Min.X, rect.Min.Y-2, o.Label)
		}
	}
	return out
}

func strokeRect(dst *image.NRGBA, r image.Rectangle, width int, c colorful.Color) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			inner := x >= r.Min.X+width && x < r.Max.X-width &&
				y >= r.Min.Y+width && y < r.Max.Y-width
			if !inner {
				blend(dst, x, y, c, boxOpacity)
			}
		}
	}
}

// drawLabel writes text with its baseline at (x, y) on a dark backing box.
func drawLabel(dst *image.NRGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	if y-face.Ascent < dst.Bounds().Min.Y {
		y = dst.Bounds().Min.Y + face.Ascent
	}

	bg := image.Rect(x-1, y-face.Ascent-1, x+width+1, y+face.Descent+1).Intersect(dst.Bounds())
	draw.Draw(dst, bg, image.NewUniform(color.NRGBA{A: 180}), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

package geometry

import "math"

// Point represents a 2D point with floating-point coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Size represents a 2D size.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether either dimension is zero or negative.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Rect represents a rectangle in view space (points, origin top-left).
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// WithCenter returns the rectangle moved so that its center is c.
func (r Rect) WithCenter(c Point) Rect {
	return Rect{X: c.X - r.Width/2, Y: c.Y - r.Height/2, Width: r.Width, Height: r.Height}
}

// ScaledAboutCenter returns the rectangle scaled by factor, keeping its center fixed.
func (r Rect) ScaledAboutCenter(factor float64) Rect {
	c := r.Center()
	scaled := Rect{Width: r.Width * factor, Height: r.Height * factor}
	return scaled.WithCenter(c)
}

// Standardized returns an equivalent rectangle with non-negative width and height.
func (r Rect) Standardized() Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	x2 := math.Max(r.X+r.Width, other.X+other.Width)
	y2 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Origin names the corner a normalized rectangle is measured from.
type Origin int

const (
	// OriginTopLeft has Y increasing downward (view and render space).
	OriginTopLeft Origin = iota
	// OriginBottomLeft has Y increasing upward (recognition space).
	OriginBottomLeft
)

func (o Origin) String() string {
	if o == OriginBottomLeft {
		return "bottom-left"
	}
	return "top-left"
}

// MarshalText encodes the origin as its name.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText accepts "bottom-left"; anything else decodes as top-left.
func (o *Origin) UnmarshalText(b []byte) error {
	if string(b) == "bottom-left" {
		*o = OriginBottomLeft
	} else {
		*o = OriginTopLeft
	}
	return nil
}

// NormalizedRect is a rectangle inside the unit square together with the
// vertical convention its Y coordinate uses.
type NormalizedRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Origin Origin  `json:"origin"`
}

// UnitRect returns the full unit square in the given convention.
func UnitRect(origin Origin) NormalizedRect {
	return NormalizedRect{Width: 1, Height: 1, Origin: origin}
}

// Rect drops the convention and returns the plain rectangle.
func (n NormalizedRect) Rect() Rect {
	return Rect{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height}
}

// Flipped returns the same area expressed in the opposite vertical convention.
func (n NormalizedRect) Flipped() NormalizedRect {
	out := n
	out.Y = 1 - n.Y - n.Height
	if n.Origin == OriginTopLeft {
		out.Origin = OriginBottomLeft
	} else {
		out.Origin = OriginTopLeft
	}
	return out
}

// In returns the rectangle in the requested convention, flipping if needed.
func (n NormalizedRect) In(origin Origin) NormalizedRect {
	if n.Origin == origin {
		return n
	}
	return n.Flipped()
}

// Denormalize scales the rectangle to a frame of the given size. The result
// keeps the rectangle's own vertical convention.
func (n NormalizedRect) Denormalize(frame Size) Rect {
	return Rect{
		X:      n.X * frame.Width,
		Y:      n.Y * frame.Height,
		Width:  n.Width * frame.Width,
		Height: n.Height * frame.Height,
	}
}

package geometry

import "fmt"

// Gravity controls how displayed content is fitted into a layer.
type Gravity int

const (
	// GravityAspectFill preserves aspect ratio and fills the layer, cropping overflow.
	GravityAspectFill Gravity = iota
	// GravityAspectFit preserves aspect ratio and fits inside the layer, letterboxing.
	GravityAspectFit
	// GravityResize stretches content to the layer bounds.
	GravityResize
)

// ParseGravity parses "aspect-fill", "aspect-fit" or "resize".
func ParseGravity(s string) (Gravity, error) {
	switch s {
	case "aspect-fill", "":
		return GravityAspectFill, nil
	case "aspect-fit":
		return GravityAspectFit, nil
	case "resize":
		return GravityResize, nil
	}
	return GravityAspectFill, fmt.Errorf("unknown gravity: %q", s)
}

// LayerMapper converts render-space rectangles (top-left, capture buffer
// orientation) into layer points, and back.
type LayerMapper struct {
	// Layer is the size of the drawing layer in points.
	Layer Size
	// Content is the capture buffer size in its native orientation.
	Content Size
	// Gravity is how the displayed content is fitted into the layer.
	Gravity Gravity
	// Orientation is the current UI orientation.
	Orientation Orientation
}

// displayedContent is the content size after rotating to the UI orientation.
func (m LayerMapper) displayedContent() Size {
	if m.Orientation.IsLandscape() {
		return m.Content
	}
	return Size{Width: m.Content.Height, Height: m.Content.Width}
}

// placement returns the on-layer origin and size of the displayed content.
func (m LayerMapper) placement() (Point, Size) {
	if m.Gravity == GravityResize || m.Content.IsZero() {
		return Point{}, m.Layer
	}
	content := m.displayedContent()
	sx := m.Layer.Width / content.Width
	sy := m.Layer.Height / content.Height
	s := sx
	if (m.Gravity == GravityAspectFill && sy > sx) || (m.Gravity == GravityAspectFit && sy < sx) {
		s = sy
	}
	drawn := Size{Width: content.Width * s, Height: content.Height * s}
	origin := Point{
		X: (m.Layer.Width - drawn.Width) / 2,
		Y: (m.Layer.Height - drawn.Height) / 2,
	}
	return origin, drawn
}

// ToLayer converts a render-space rectangle to layer points. The rectangle
// is first rotated back into UI orientation, then placed according to the
// gravity. Bottom-left input is flipped before use.
func (m LayerMapper) ToLayer(r NormalizedRect) Rect {
	r = r.In(OriginTopLeft)
	undo, ok := OrientationTransform(m.Orientation).Inverse()
	if !ok {
		undo = Identity()
	}
	display := undo.ApplyRect(r.Rect())

	origin, drawn := m.placement()
	return Rect{
		X:      origin.X + display.X*drawn.Width,
		Y:      origin.Y + display.Y*drawn.Height,
		Width:  display.Width * drawn.Width,
		Height: display.Height * drawn.Height,
	}
}

// FromLayer converts a rectangle in layer points back into render space.
func (m LayerMapper) FromLayer(r Rect) NormalizedRect {
	origin, drawn := m.placement()
	if drawn.IsZero() {
		return UnitRect(OriginTopLeft)
	}
	display := Rect{
		X:      (r.X - origin.X) / drawn.Width,
		Y:      (r.Y - origin.Y) / drawn.Height,
		Width:  r.Width / drawn.Width,
		Height: r.Height / drawn.Height,
	}
	out := OrientationTransform(m.Orientation).ApplyRect(display)
	return NormalizedRect{X: out.X, Y: out.Y, Width: out.Width, Height: out.Height, Origin: OriginTopLeft}
}

package session

import (
	"unicode/utf8"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
	"github.com/ironsheep/number-reader-mcp/internal/stabilize"
)

// WordBox locates one word of an observation. Start and End are byte
// offsets into Observation.Text.
type WordBox struct {
	Start int                     `json:"start"`
	End   int                     `json:"end"`
	Box   geometry.NormalizedRect `json:"box"`
}

// Observation is one line of recognized text. Boxes are ROI-local and use
// the recognizer's bottom-left convention.
type Observation struct {
	Text       string                  `json:"text"`
	Box        geometry.NormalizedRect `json:"box"`
	Words      []WordBox               `json:"words,omitempty"`
	Confidence float64                 `json:"confidence,omitempty"`
}

// SpanBox returns the box covering the matched span of o.
//
// Word boxes overlapping the span are unioned. Without any, the line box is
// cut horizontally in proportion to the span's rune offsets, which is exact
// only for monospaced text.
func SpanBox(o Observation, m stabilize.Match) geometry.NormalizedRect {
	var (
		union geometry.Rect
		found bool
	)
	for _, w := range o.Words {
		if w.End <= m.Start || w.Start >= m.End {
			continue
		}
		r := w.Box.In(o.Box.Origin).Rect()
		if !found {
			union, found = r, true
		} else {
			union = union.Union(r)
		}
	}
	if found {
		return geometry.NormalizedRect{
			X: union.X, Y: union.Y, Width: union.Width, Height: union.Height,
			Origin: o.Box.Origin,
		}
	}

	total := utf8.RuneCountInString(o.Text)
	if total == 0 {
		return o.Box
	}
	before := utf8.RuneCountInString(o.Text[:m.Start])
	inside := utf8.RuneCountInString(o.Text[m.Start:m.End])

	box := o.Box
	box.X = o.Box.X + o.Box.Width*float64(before)/float64(total)
	box.Width = o.Box.Width * float64(inside) / float64(total)
	return box
}

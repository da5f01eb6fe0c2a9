package session

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
	"github.com/ironsheep/number-reader-mcp/internal/roi"
	"github.com/ironsheep/number-reader-mcp/internal/stabilize"
)

// BoxKind tells a drawn line box from a number box.
type BoxKind string

const (
	// BoxLine outlines a whole line that is not entirely a number.
	BoxLine BoxKind = "line"
	// BoxNumber outlines the part of a line a number was taken from.
	BoxNumber BoxKind = "number"
)

// Box colors, red for lines and green for numbers.
var (
	LineColor   = colorful.Color{R: 1, G: 0, B: 0}
	NumberColor = colorful.Color{R: 0, G: 1, B: 0}
)

// Color returns the outline color for the kind.
func (k BoxKind) Color() colorful.Color {
	if k == BoxNumber {
		return NumberColor
	}
	return LineColor
}

// RenderedBox is a box ready to draw: Box is in render space (top-left,
// capture buffer orientation), Source is the ROI-local box it came from.
type RenderedBox struct {
	Kind   BoxKind                 `json:"kind"`
	Color  string                  `json:"color"`
	Box    geometry.NormalizedRect `json:"box"`
	Source geometry.NormalizedRect `json:"source"`
}

// FrameResult is what processing one frame for one region produced.
type FrameResult struct {
	Region    string        `json:"region"`
	Frame     int64         `json:"frame"`
	Numbers   []string      `json:"numbers"`
	Boxes     []RenderedBox `json:"boxes"`
	Current   string        `json:"current,omitempty"`
	Confirmed string        `json:"confirmed,omitempty"`
}

// Region ties a ROI to its own extractor and tracker. Each region
// stabilizes independently; a frame is logged to every region.
type Region struct {
	name      string
	extractor *stabilize.Extractor
	tracker   *stabilize.Tracker
	roi       *roi.Manager
	onConfirm func(value string)
	last      FrameResult
}

// NewRegion creates a region. onConfirm may be nil.
func NewRegion(name string, extractor *stabilize.Extractor, tracker *stabilize.Tracker, manager *roi.Manager, onConfirm func(string)) *Region {
	if extractor == nil {
		extractor = stabilize.NewExtractor(nil)
	}
	return &Region{
		name:      name,
		extractor: extractor,
		tracker:   tracker,
		roi:       manager,
		onConfirm: onConfirm,
	}
}

// Name returns the region name.
func (r *Region) Name() string { return r.name }

// ROI returns the region's ROI manager.
func (r *Region) ROI() *roi.Manager { return r.roi }

// Tracker returns the region's tracker.
func (r *Region) Tracker() *stabilize.Tracker { return r.tracker }

// Last returns the result of the most recent frame.
func (r *Region) Last() FrameResult { return r.last }

// ProcessFrame extracts numbers from one frame's observations, logs them to
// the tracker, and projects the boxes with the current transform. Call it
// once per frame, with no observations when nothing was recognized.
//
// When a string becomes stable it is reset in the tracker and passed to the
// confirmation callback before ProcessFrame returns.
func (r *Region) ProcessFrame(obs []Observation) FrameResult {
	return r.process(obs, r.roi.CurrentTransform())
}

func (r *Region) process(obs []Observation, active geometry.AffineTransform) FrameResult {
	res := FrameResult{
		Region:  r.name,
		Frame:   r.tracker.FrameIndex(),
		Numbers: []string{},
		Boxes:   []RenderedBox{},
	}

	var lines, numbers []geometry.NormalizedRect
	for _, o := range obs {
		substring := true
		if m, ok := r.extractor.Extract(o.Text); ok {
			res.Numbers = append(res.Numbers, m.Value)
			numbers = append(numbers, SpanBox(o, m))
			substring = !m.CoversWhole(o.Text)
		}
		if substring {
			lines = append(lines, o.Box)
		}
	}

	r.tracker.LogFrame(res.Numbers)

	res.Boxes = append(res.Boxes, project(BoxLine, lines, active)...)
	res.Boxes = append(res.Boxes, project(BoxNumber, numbers, active)...)
	res.Current = r.tracker.CurrentString()

	if value, ok := r.tracker.StableString(); ok {
		r.tracker.Reset(value)
		res.Confirmed = value
		if r.onConfirm != nil {
			r.onConfirm(value)
		}
	}
	r.last = res
	return res
}

func project(kind BoxKind, boxes []geometry.NormalizedRect, active geometry.AffineTransform) []RenderedBox {
	out := make([]RenderedBox, 0, len(boxes))
	color := kind.Color().Hex()
	for _, b := range boxes {
		src := b.In(geometry.OriginBottomLeft)
		out = append(out, RenderedBox{
			Kind:   kind,
			Color:  color,
			Box:    geometry.ProjectBox(src, active),
			Source: src,
		})
	}
	return out
}

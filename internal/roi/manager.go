// Package roi keeps a movable region of interest and the transforms derived
// from it in step.
//
// A Manager owns the ROI rectangle in view space, the current orientation,
// and the reference frame size. Every setter recomputes the normalized ROI,
// the recognition ROI handed to the recognizer, and the active transform that
// projects ROI-local observations to render space, so readers never observe
// a transform that is out of date with the rectangle.
//
// Manager is not safe for concurrent use; session.Session serializes access.
package roi

import (
	"errors"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
)

// ErrInvalidScale is returned by Pinch for a scale that is not positive.
var ErrInvalidScale = errors.New("pinch scale must be positive")

// State is a snapshot of a Manager.
type State struct {
	Preset             string                   `json:"preset"`
	RectInView         geometry.Rect            `json:"rect_in_view"`
	Orientation        geometry.Orientation     `json:"orientation"`
	ReferenceFrameSize geometry.Size            `json:"reference_frame_size"`
	BorderWidth        float64                  `json:"border_width"`
	BorderColor        string                   `json:"border_color"`
	NormalizedROI      geometry.NormalizedRect  `json:"normalized_roi"`
	RecognitionROI     geometry.NormalizedRect  `json:"recognition_roi"`
	Rotation           geometry.AffineTransform `json:"rotation"`
	ActiveTransform    geometry.AffineTransform `json:"active_transform"`
}

// Manager holds the ROI and keeps its derived transforms current.
type Manager struct {
	preset Preset
	state  State

	panning    bool
	panOrigin  geometry.Point
	translated geometry.Point
}

// NewManager creates a manager starting at the preset's rectangle.
func NewManager(preset Preset, orientation geometry.Orientation, reference geometry.Size) *Manager {
	m := &Manager{preset: preset}
	m.state = State{
		Preset:             preset.Name,
		RectInView:         preset.Start.Standardized(),
		Orientation:        orientation,
		ReferenceFrameSize: reference,
		BorderWidth:        preset.BorderWidth,
		BorderColor:        preset.BorderColor.Hex(),
	}
	m.recompute()
	return m
}

// recompute derives every dependent field from the three inputs.
func (m *Manager) recompute() {
	s := &m.state
	s.NormalizedROI = geometry.ToNormalized(s.RectInView, s.ReferenceFrameSize)
	s.RecognitionROI = s.NormalizedROI.Flipped()
	s.Rotation = geometry.OrientationTransform(s.Orientation)
	s.ActiveTransform = geometry.ComposeROIToRender(s.RecognitionROI, geometry.BottomToTop(), s.Rotation)
}

// SetRect moves or resizes the ROI in view space.
func (m *Manager) SetRect(r geometry.Rect) {
	m.state.RectInView = r.Standardized()
	m.recompute()
}

// SetOrientation changes the UI orientation.
func (m *Manager) SetOrientation(o geometry.Orientation) {
	m.state.Orientation = o
	m.recompute()
}

// SetReferenceFrameSize changes the size the view rectangle is measured
// against. A zero size makes the normalized ROI the full unit square.
func (m *Manager) SetReferenceFrameSize(s geometry.Size) {
	m.state.ReferenceFrameSize = s
	m.recompute()
}

// CurrentTransform returns the transform from ROI-local recognition
// coordinates to render space.
func (m *Manager) CurrentTransform() geometry.AffineTransform {
	return m.state.ActiveTransform
}

// CurrentNormalizedROI returns the ROI as a top-left unit-square rectangle.
func (m *Manager) CurrentNormalizedROI() geometry.NormalizedRect {
	return m.state.NormalizedROI
}

// CurrentRecognitionROI returns the ROI in the recognizer's bottom-left
// convention.
func (m *Manager) CurrentRecognitionROI() geometry.NormalizedRect {
	return m.state.RecognitionROI
}

// State returns a snapshot of the manager.
func (m *Manager) State() State {
	return m.state
}

// Preset returns the preset the manager was created from.
func (m *Manager) Preset() Preset {
	return m.preset
}

// BeginPan records the current center as the anchor for a pan gesture.
func (m *Manager) BeginPan() {
	m.panning = true
	m.panOrigin = m.state.RectInView.Center()
	m.translated = geometry.Point{}
}

// Pan moves the ROI by (dx, dy) view points. Deltas accumulate from the
// last BeginPan; the center is placed at anchor + total translation. A Pan
// without BeginPan starts a gesture implicitly.
func (m *Manager) Pan(dx, dy float64) {
	if !m.panning {
		m.BeginPan()
	}
	m.translated = m.translated.Add(geometry.Point{X: dx, Y: dy})
	m.SetRect(m.state.RectInView.WithCenter(m.panOrigin.Add(m.translated)))
}

// EndPan finishes a pan gesture.
func (m *Manager) EndPan() {
	m.panning = false
	m.panOrigin = geometry.Point{}
	m.translated = geometry.Point{}
}

// Pinch scales the ROI about its center by an incremental factor. The
// border width is divided by the same factor so the outline keeps its
// on-screen thickness.
func (m *Manager) Pinch(scale float64) error {
	if scale <= 0 {
		return ErrInvalidScale
	}
	m.state.BorderWidth /= scale
	m.SetRect(m.state.RectInView.ScaledAboutCenter(scale))
	return nil
}

// ResetToPreset puts the ROI back where the preset started it. Orientation
// and reference size are kept.
func (m *Manager) ResetToPreset() {
	m.EndPan()
	m.state.BorderWidth = m.preset.BorderWidth
	m.SetRect(m.preset.Start)
}

package roi

import (
	"errors"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ironsheep/number-reader-mcp/internal/geometry"
)

const tol = 1e-9

func rectsEqual(a, b geometry.Rect) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Width, b.Width, tol) &&
		scalar.EqualWithinAbs(a.Height, b.Height, tol)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	p, err := LookupPreset("test")
	if err != nil {
		t.Fatalf("LookupPreset: %v", err)
	}
	return NewManager(p, geometry.Portrait, geometry.Size{Width: 400, Height: 800})
}

func TestNewManager_DerivedState(t *testing.T) {
	m := newTestManager(t)

	n := m.CurrentNormalizedROI()
	if n.Origin != geometry.OriginTopLeft {
		t.Errorf("normalized origin: got %v, want top-left", n.Origin)
	}
	if !rectsEqual(n.Rect(), geometry.NewRect(0.5, 0.375, 0.25, 0.25)) {
		t.Errorf("normalized ROI: got %+v", n.Rect())
	}

	r := m.CurrentRecognitionROI()
	if r.Origin != geometry.OriginBottomLeft {
		t.Errorf("recognition origin: got %v, want bottom-left", r.Origin)
	}
	if !rectsEqual(r.Rect(), geometry.NewRect(0.5, 0.375, 0.25, 0.25)) {
		t.Errorf("recognition ROI: got %+v", r.Rect())
	}

	got := geometry.ProjectBox(geometry.UnitRect(geometry.OriginBottomLeft), m.CurrentTransform())
	if !rectsEqual(got.Rect(), geometry.NewRect(0.375, 0.25, 0.25, 0.25)) {
		t.Errorf("projected unit box: got %+v", got.Rect())
	}
}

func TestManager_SettersRecompute(t *testing.T) {
	m := newTestManager(t)
	before := m.CurrentTransform()

	m.SetRect(geometry.NewRect(0, 0, 400, 800))
	if !rectsEqual(m.CurrentNormalizedROI().Rect(), geometry.NewRect(0, 0, 1, 1)) {
		t.Errorf("full-frame ROI: got %+v", m.CurrentNormalizedROI().Rect())
	}
	if m.CurrentTransform().ApproxEqual(before, tol) {
		t.Error("transform not updated by SetRect")
	}

	m.SetOrientation(geometry.LandscapeRight)
	if !m.CurrentTransform().ApproxEqual(geometry.BottomToTop(), tol) {
		t.Errorf("full ROI, native orientation: got %+v, want vertical flip only", m.CurrentTransform())
	}
	if !m.State().Rotation.IsIdentity(tol) {
		t.Errorf("rotation for landscape-right: got %+v, want identity", m.State().Rotation)
	}

	m.SetReferenceFrameSize(geometry.Size{Width: 800, Height: 1600})
	if !rectsEqual(m.CurrentNormalizedROI().Rect(), geometry.NewRect(0, 0, 0.5, 0.5)) {
		t.Errorf("after reference change: got %+v", m.CurrentNormalizedROI().Rect())
	}
}

func TestManager_ZeroReference(t *testing.T) {
	m := newTestManager(t)
	m.SetReferenceFrameSize(geometry.Size{})

	if !rectsEqual(m.CurrentNormalizedROI().Rect(), geometry.NewRect(0, 0, 1, 1)) {
		t.Errorf("zero reference: got %+v, want unit square", m.CurrentNormalizedROI().Rect())
	}
}

func TestManager_SetRectStandardizes(t *testing.T) {
	m := newTestManager(t)
	m.SetRect(geometry.NewRect(200, 400, -100, -200))

	if got := m.State().RectInView; !rectsEqual(got, geometry.NewRect(100, 200, 100, 200)) {
		t.Errorf("rect: got %+v", got)
	}
}

func TestManager_Pan(t *testing.T) {
	m := newTestManager(t) // center (250, 400)

	m.BeginPan()
	m.Pan(10, 0)
	m.Pan(5, 5)
	if c := m.State().RectInView.Center(); c != (geometry.Point{X: 265, Y: 405}) {
		t.Errorf("center during pan: got %+v, want {265 405}", c)
	}
	m.EndPan()

	m.Pan(1, 1)
	if c := m.State().RectInView.Center(); c != (geometry.Point{X: 266, Y: 406}) {
		t.Errorf("center after implicit pan: got %+v, want {266 406}", c)
	}
	m.EndPan()

	if !rectsEqual(m.CurrentNormalizedROI().Rect(), geometry.NewRect(216.0/400, 306.0/800, 0.25, 0.25)) {
		t.Errorf("normalized ROI not following pan: got %+v", m.CurrentNormalizedROI().Rect())
	}
}

func TestManager_Pinch(t *testing.T) {
	m := newTestManager(t)

	if err := m.Pinch(2); err != nil {
		t.Fatalf("Pinch: %v", err)
	}
	if got := m.State().RectInView; !rectsEqual(got, geometry.NewRect(150, 200, 200, 400)) {
		t.Errorf("rect after pinch: got %+v", got)
	}
	if got := m.State().BorderWidth; got != 1 {
		t.Errorf("border width: got %v, want 1", got)
	}

	for _, bad := range []float64{0, -1} {
		if err := m.Pinch(bad); !errors.Is(err, ErrInvalidScale) {
			t.Errorf("Pinch(%v): got %v, want ErrInvalidScale", bad, err)
		}
	}
}

func TestManager_ResetToPreset(t *testing.T) {
	m := newTestManager(t)
	m.Pan(50, 50)
	_ = m.Pinch(0.5)
	m.SetOrientation(geometry.LandscapeLeft)

	m.ResetToPreset()

	s := m.State()
	if !rectsEqual(s.RectInView, geometry.NewRect(200, 300, 100, 200)) {
		t.Errorf("rect: got %+v", s.RectInView)
	}
	if s.BorderWidth != 2 {
		t.Errorf("border width: got %v, want 2", s.BorderWidth)
	}
	if s.Orientation != geometry.LandscapeLeft {
		t.Errorf("orientation: got %v, want kept landscape-left", s.Orientation)
	}
}

func TestPresets(t *testing.T) {
	if got, want := PresetNames(), []string{"ollie", "test", "toran"}; !reflect.DeepEqual(got, want) {
		t.Errorf("PresetNames: got %v, want %v", got, want)
	}

	tests := []struct {
		name  string
		color string
	}{
		{"ollie", "#0000ff"},
		{"toran", "#00ff00"},
		{"test", "#00ff00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := LookupPreset(tt.name)
			if err != nil {
				t.Fatalf("LookupPreset: %v", err)
			}
			m := NewManager(p, geometry.Portrait, geometry.Size{Width: 400, Height: 800})
			if got := m.State().BorderColor; got != tt.color {
				t.Errorf("border color: got %s, want %s", got, tt.color)
			}
		})
	}

	if _, err := LookupPreset("nope"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

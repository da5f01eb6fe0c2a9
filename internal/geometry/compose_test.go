package geometry

import (
	"math"
	"testing"
)

func TestToNormalized(t *testing.T) {
	tests := []struct {
		name string
		rect Rect
		ref  Size
		want Rect
	}{
		{"square", Rect{250, 250, 500, 500}, Size{1000, 1000}, Rect{0.25, 0.25, 0.5, 0.5}},
		{"per axis", Rect{100, 300, 100, 100}, Size{400, 1000}, Rect{0.25, 0.3, 0.25, 0.1}},
		{"zero reference", Rect{1, 2, 3, 4}, Size{}, Rect{0, 0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNormalized(tt.rect, tt.ref)
			if got.Origin != OriginTopLeft {
				t.Errorf("Origin: got %v, want top-left", got.Origin)
			}
			if !rectsEqual(got.Rect(), tt.want) {
				t.Errorf("ToNormalized: got %+v, want %+v", got.Rect(), tt.want)
			}
		})
	}
}

func TestOrientationTransform_Table(t *testing.T) {
	derived := Translation(0, 1).RotatedBy(-math.Pi / 2)
	if !OrientationTransform(Portrait).ApproxEqual(derived, 1e-12) {
		t.Errorf("portrait: got %+v, want %+v", OrientationTransform(Portrait), derived)
	}

	tests := []struct {
		o    Orientation
		in   Point
		want Point
	}{
		{Portrait, Point{0.1, 0.2}, Point{0.2, 0.9}},
		{PortraitUpsideDown, Point{0.1, 0.2}, Point{0.8, 0.1}},
		{LandscapeLeft, Point{0.1, 0.2}, Point{0.9, 0.8}},
		{LandscapeRight, Point{0.1, 0.2}, Point{0.1, 0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.o.String(), func(t *testing.T) {
			tr := OrientationTransform(tt.o)
			if got := tr.Apply(tt.in); !pointsEqual(got, tt.want) {
				t.Errorf("Apply: got %+v, want %+v", got, tt.want)
			}
			unit := Rect{0, 0, 1, 1}
			if got := tr.ApplyRect(unit); !rectsEqual(got, unit) {
				t.Errorf("unit square not preserved: got %+v", got)
			}
		})
	}
}

func TestComposeROIToRender_FullUnitIsIdentity(t *testing.T) {
	tr := ComposeROIToRender(UnitRect(OriginBottomLeft), Identity(), Identity())
	if !tr.IsIdentity(tol) {
		t.Fatalf("expected identity, got %+v", tr)
	}

	box := NormalizedRect{X: 0.2, Y: 0.4, Width: 0.1, Height: 0.2, Origin: OriginBottomLeft}
	if got := ProjectBox(box, tr); !rectsEqual(got.Rect(), box.Rect()) {
		t.Errorf("box moved: got %+v, want %+v", got.Rect(), box.Rect())
	}
}

func TestComposeROIToRender_FullUnitWithFlip(t *testing.T) {
	tr := ComposeROIToRender(UnitRect(OriginBottomLeft), BottomToTop(), Identity())
	box := NormalizedRect{X: 0.2, Y: 0.1, Width: 0.1, Height: 0.2, Origin: OriginBottomLeft}

	got := ProjectBox(box, tr)
	want := box.Flipped()
	if !rectsEqual(got.Rect(), want.Rect()) {
		t.Errorf("ProjectBox: got %+v, want %+v", got.Rect(), want.Rect())
	}
}

func TestComposeROIToRender_Golden(t *testing.T) {
	roi := ToNormalized(Rect{250, 250, 500, 500}, Size{1000, 1000})
	if !rectsEqual(roi.Rect(), Rect{0.25, 0.25, 0.5, 0.5}) {
		t.Fatalf("normalized ROI: got %+v", roi.Rect())
	}

	tr := ComposeROIToRender(roi.Flipped(), BottomToTop(), OrientationTransform(Portrait))
	got := ProjectBox(UnitRect(OriginBottomLeft), tr)
	if !rectsEqual(got.Rect(), Rect{0.25, 0.25, 0.5, 0.5}) {
		t.Errorf("unit box: got %+v, want ROI rect", got.Rect())
	}
}

func TestComposeROIToRender_OrderMatters(t *testing.T) {
	roi := NormalizedRect{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4, Origin: OriginBottomLeft}
	flip := BottomToTop()
	rot := OrientationTransform(Portrait)

	tr := ComposeROIToRender(roi, flip, rot)

	// ROI-local origin: (0,0) -> (0.1,0.2) -> (0.1,0.8) -> (0.8,0.9)
	if got := tr.Apply(Point{}); !pointsEqual(got, Point{0.8, 0.9}) {
		t.Errorf("origin: got %+v, want {0.8 0.9}", got)
	}

	got := ProjectBox(UnitRect(OriginBottomLeft), tr)
	want := Rect{X: 0.4, Y: 0.6, Width: 0.4, Height: 0.3}
	if !rectsEqual(got.Rect(), want) {
		t.Errorf("unit box: got %+v, want %+v", got.Rect(), want)
	}

	roiToGlobal := Translation(roi.X, roi.Y).ScaledBy(roi.Width, roi.Height)
	reversed := rot.Concat(flip).Concat(roiToGlobal)
	if reversed.ApproxEqual(tr, 1e-6) {
		t.Error("reversed concatenation should not equal the composed transform")
	}
}

func TestNormalizedRect_Flipped(t *testing.T) {
	r := NormalizedRect{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4, Origin: OriginTopLeft}
	f := r.Flipped()
	if f.Origin != OriginBottomLeft {
		t.Errorf("Origin: got %v, want bottom-left", f.Origin)
	}
	if !rectsEqual(f.Rect(), Rect{0.1, 0.4, 0.3, 0.4}) {
		t.Errorf("Flipped: got %+v", f.Rect())
	}
	if back := f.In(OriginTopLeft); !rectsEqual(back.Rect(), r.Rect()) {
		t.Errorf("In(top-left): got %+v, want %+v", back.Rect(), r.Rect())
	}
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in      string
		want    Orientation
		wantErr bool
	}{
		{"portrait", Portrait, false},
		{"Landscape_Left", LandscapeLeft, false},
		{"portrait-upside-down", PortraitUpsideDown, false},
		{"sideways", Portrait, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOrientation(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: got %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromDeviceOrientation(t *testing.T) {
	if o, ok := FromDeviceOrientation(DeviceLandscapeLeft); !ok || o != LandscapeRight {
		t.Errorf("landscape left: got %v %v, want landscape-right", o, ok)
	}
	if o, ok := FromDeviceOrientation(DeviceLandscapeRight); !ok || o != LandscapeLeft {
		t.Errorf("landscape right: got %v %v, want landscape-left", o, ok)
	}
	if _, ok := FromDeviceOrientation(DeviceFaceUp); ok {
		t.Error("face up should have no video orientation")
	}
}

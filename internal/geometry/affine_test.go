package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const tol = 1e-9

func pointsEqual(a, b Point) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol)
}

func rectsEqual(a, b Rect) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) &&
		scalar.EqualWithinAbs(a.Y, b.Y, tol) &&
		scalar.EqualWithinAbs(a.Width, b.Width, tol) &&
		scalar.EqualWithinAbs(a.Height, b.Height, tol)
}

func TestAffineTransform_Apply(t *testing.T) {
	tests := []struct {
		name string
		t    AffineTransform
		in   Point
		want Point
	}{
		{"identity", Identity(), Point{3, 4}, Point{3, 4}},
		{"translation", Translation(1, -2), Point{3, 4}, Point{4, 2}},
		{"scale", Scale(2, 3), Point{3, 4}, Point{6, 12}},
		{"rotate 90", Rotation(math.Pi / 2), Point{1, 0}, Point{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.t.Apply(tt.in)
			if !pointsEqual(got, tt.want) {
				t.Errorf("Apply: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAffineTransform_ConcatOrder(t *testing.T) {
	translate := Translation(1, 0)
	scale := Scale(2, 2)

	// translate first, then scale
	got := translate.Concat(scale).Apply(Point{})
	if !pointsEqual(got, Point{2, 0}) {
		t.Errorf("translate.Concat(scale): got %+v, want {2 0}", got)
	}

	// scale first, then translate
	got = scale.Concat(translate).Apply(Point{})
	if !pointsEqual(got, Point{1, 0}) {
		t.Errorf("scale.Concat(translate): got %+v, want {1 0}", got)
	}
}

func TestAffineTransform_ConcatAssociative(t *testing.T) {
	a := Translation(0.3, -0.1).ScaledBy(2, 0.5)
	b := BottomToTop()
	c := OrientationTransform(Portrait)

	left := a.Concat(b).Concat(c)
	right := a.Concat(b.Concat(c))
	if !left.ApproxEqual(right, tol) {
		t.Errorf("Concat not associative: %+v vs %+v", left, right)
	}
}

func TestAffineTransform_BuildersPrepend(t *testing.T) {
	// Translation(tx, ty).ScaledBy(sx, sy) scales first and translates second.
	tr := Translation(0.25, 0.5).ScaledBy(0.5, 0.25)
	got := tr.Apply(Point{1, 1})
	if !pointsEqual(got, Point{0.75, 0.75}) {
		t.Errorf("Translation.ScaledBy: got %+v, want {0.75 0.75}", got)
	}
}

func TestAffineTransform_Inverse(t *testing.T) {
	tr := Translation(3, 4).ScaledBy(2, 5).RotatedBy(0.3)
	inv, ok := tr.Inverse()
	if !ok {
		t.Fatal("Inverse: expected invertible transform")
	}
	if !tr.Concat(inv).IsIdentity(tol) {
		t.Errorf("t.Concat(inverse) not identity: %+v", tr.Concat(inv))
	}

	p := Point{7, -2}
	if got := inv.Apply(tr.Apply(p)); !pointsEqual(got, p) {
		t.Errorf("round trip: got %+v, want %+v", got, p)
	}
}

func TestAffineTransform_InverseSingular(t *testing.T) {
	if _, ok := Scale(0, 1).Inverse(); ok {
		t.Error("Inverse should fail for a singular transform")
	}
}

func TestAffineTransform_ApplyRect(t *testing.T) {
	r := Rect{X: 0.1, Y: 0.2, Width: 0.3, Height: 0.4}

	got := BottomToTop().ApplyRect(r)
	want := Rect{X: 0.1, Y: 0.4, Width: 0.3, Height: 0.4}
	if !rectsEqual(got, want) {
		t.Errorf("flip: got %+v, want %+v", got, want)
	}

	got = OrientationTransform(Portrait).ApplyRect(r)
	// (x, y) -> (y, 1-x)
	want = Rect{X: 0.2, Y: 0.6, Width: 0.4, Height: 0.3}
	if !rectsEqual(got, want) {
		t.Errorf("portrait: got %+v, want %+v", got, want)
	}
}

func TestBottomToTop(t *testing.T) {
	flip := BottomToTop()
	if got := flip.Apply(Point{0.3, 0.2}); !pointsEqual(got, Point{0.3, 0.8}) {
		t.Errorf("Apply: got %+v, want {0.3 0.8}", got)
	}
	if !flip.Concat(flip).IsIdentity(tol) {
		t.Error("BottomToTop should be its own inverse")
	}
}

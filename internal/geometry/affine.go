package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// AffineTransform represents a 2x3 affine transformation matrix.
//
//	[a b tx]
//	[c d ty]
//
// A point maps as x' = A*x + B*y + TX, y' = C*x + D*y + TY.
type AffineTransform struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	TX float64 `json:"tx"`
	C  float64 `json:"c"`
	D  float64 `json:"d"`
	TY float64 `json:"ty"`
}

// Identity returns the identity transform.
func Identity() AffineTransform {
	return AffineTransform{A: 1, D: 1}
}

// Translation returns a translation transform.
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// Rotation returns a rotation transform around the origin.
func Rotation(radians float64) AffineTransform {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return AffineTransform{A: cos, B: -sin, C: sin, D: cos}
}

// Scale returns a scaling transform.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// ApplyRect maps the four corners of r and returns their axis-aligned
// bounding box. For the rotations and flips used here the result is exact.
func (t AffineTransform) ApplyRect(r Rect) Rect {
	corners := [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X, Y: r.Y + r.Height},
		{X: r.X + r.Width, Y: r.Y + r.Height},
	}
	first := t.Apply(corners[0])
	minX, minY, maxX, maxY := first.X, first.Y, first.X, first.Y
	for _, c := range corners[1:] {
		p := t.Apply(c)
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Compose returns this transform composed with another (this * other), so
// other is applied first.
func (t AffineTransform) Compose(other AffineTransform) AffineTransform {
	return AffineTransform{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}

// Concat returns a transform that applies t and then next.
func (t AffineTransform) Concat(next AffineTransform) AffineTransform {
	return next.Compose(t)
}

// TranslatedBy returns t preceded by a translation.
func (t AffineTransform) TranslatedBy(tx, ty float64) AffineTransform {
	return t.Compose(Translation(tx, ty))
}

// ScaledBy returns t preceded by a scale.
func (t AffineTransform) ScaledBy(sx, sy float64) AffineTransform {
	return t.Compose(Scale(sx, sy))
}

// RotatedBy returns t preceded by a rotation.
func (t AffineTransform) RotatedBy(radians float64) AffineTransform {
	return t.Compose(Rotation(radians))
}

// Inverse returns the inverse transform, if it exists.
func (t AffineTransform) Inverse() (AffineTransform, bool) {
	det := t.A*t.D - t.B*t.C
	if math.Abs(det) < 1e-12 {
		return AffineTransform{}, false
	}

	m := mat.NewDense(3, 3, []float64{
		t.A, t.B, t.TX,
		t.C, t.D, t.TY,
		0, 0, 1,
	})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return AffineTransform{}, false
	}

	return AffineTransform{
		A: inv.At(0, 0), B: inv.At(0, 1), TX: inv.At(0, 2),
		C: inv.At(1, 0), D: inv.At(1, 1), TY: inv.At(1, 2),
	}, true
}

// IsIdentity reports whether t is the identity within tol.
func (t AffineTransform) IsIdentity(tol float64) bool {
	return t.ApproxEqual(Identity(), tol)
}

// ApproxEqual reports whether every coefficient of t and other differs by at most tol.
func (t AffineTransform) ApproxEqual(other AffineTransform, tol float64) bool {
	a, b := t.ToMatrix(), other.ToMatrix()
	for i := range a {
		for j := range a[i] {
			if !scalar.EqualWithinAbs(a[i][j], b[i][j], tol) {
				return false
			}
		}
	}
	return true
}

// ToMatrix returns the transform as a [2][3]float64 array.
func (t AffineTransform) ToMatrix() [2][3]float64 {
	return [2][3]float64{
		{t.A, t.B, t.TX},
		{t.C, t.D, t.TY},
	}
}

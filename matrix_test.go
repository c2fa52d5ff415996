package svg

import (
	"math"
	"testing"
)

func matNear(a, b Matrix) bool {
	const eps = 1e-9
	return math.Abs(a.A-b.A) < eps && math.Abs(a.B-b.B) < eps &&
		math.Abs(a.C-b.C) < eps && math.Abs(a.D-b.D) < eps &&
		math.Abs(a.E-b.E) < eps && math.Abs(a.F-b.F) < eps
}

func ptNear(a, b Point) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Translate-then-scale differs from scale-then-translate.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	if got := m.TransformPoint(Pt(1, 1)); !ptNear(got, Pt(12, 2)) {
		t.Errorf("translate*scale point = %+v, want (12, 2)", got)
	}
	m = Scale(2, 2).Multiply(Translate(10, 0))
	if got := m.TransformPoint(Pt(1, 1)); !ptNear(got, Pt(22, 2)) {
		t.Errorf("scale*translate point = %+v, want (22, 2)", got)
	}
}

func TestMatrixTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		p    Point
		want Point
	}{
		{"identity", Identity(), Pt(3, 4), Pt(3, 4)},
		{"translate", Translate(10, -5), Pt(3, 4), Pt(13, -1)},
		{"scale", Scale(2, 3), Pt(3, 4), Pt(6, 12)},
		{"rotate 90", Rotate(math.Pi / 2), Pt(1, 0), Pt(0, 1)},
		{"rotate about", RotateAbout(math.Pi, 5, 5), Pt(6, 5), Pt(4, 5)},
		{"skew x 45", SkewX(math.Pi / 4), Pt(0, 1), Pt(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.TransformPoint(tt.p); !ptNear(got, tt.want) {
				t.Errorf("TransformPoint(%+v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestMatrixTransformVectorIgnoresTranslation(t *testing.T) {
	m := Translate(100, 100).Multiply(Scale(2, 2))
	if got := m.TransformVector(Pt(1, 1)); !ptNear(got, Pt(2, 2)) {
		t.Errorf("TransformVector = %+v, want (2, 2)", got)
	}
}

func TestMatrixInvert(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
	}{
		{"translate", Translate(10, 20)},
		{"scale", Scale(2, 0.5)},
		{"rotate", Rotate(1.2)},
		{"composite", Translate(5, 5).Multiply(Rotate(0.7)).Multiply(Scale(3, 2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			round := tt.m.Multiply(tt.m.Invert())
			if !matNear(round, Identity()) {
				t.Errorf("m * m^-1 = %+v, want identity", round)
			}
		})
	}
}

func TestMatrixSingular(t *testing.T) {
	m := Scale(0, 1)
	if m.IsInvertible() {
		t.Error("zero-scale matrix reported invertible")
	}
	if got := m.Invert(); !matNear(got, Identity()) {
		t.Errorf("Invert of singular = %+v, want identity", got)
	}
}

func TestMatrixTransformRect(t *testing.T) {
	r := RectXYWH(0, 0, 10, 10)
	got := Rotate(math.Pi / 4).TransformRect(r)
	// A rotated square's axis-aligned bounds grow to the diagonal.
	want := 10 * math.Sqrt2
	if math.Abs(got.Width()-want) > 1e-9 || math.Abs(got.Height()-want) > 1e-9 {
		t.Errorf("rotated rect bounds %.4fx%.4f, want %.4f square", got.Width(), got.Height(), want)
	}
}

func TestMatrixScaleFactors(t *testing.T) {
	sx, sy := Scale(3, 4).ScaleFactors()
	if math.Abs(sx-3) > 1e-9 || math.Abs(sy-4) > 1e-9 {
		t.Errorf("ScaleFactors = (%v, %v), want (3, 4)", sx, sy)
	}
	// Rotation does not change scale.
	sx, sy = Rotate(1.1).Multiply(Scale(2, 2)).ScaleFactors()
	if math.Abs(sx-2) > 1e-9 || math.Abs(sy-2) > 1e-9 {
		t.Errorf("rotated ScaleFactors = (%v, %v), want (2, 2)", sx, sy)
	}
}

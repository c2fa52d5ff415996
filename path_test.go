package svg

import (
	"math"
	"testing"
)

func rectNear(t *testing.T, got, want Rect, eps float64, what string) {
	t.Helper()
	if math.Abs(got.Min.X-want.Min.X) > eps || math.Abs(got.Min.Y-want.Min.Y) > eps ||
		math.Abs(got.Max.X-want.Max.X) > eps || math.Abs(got.Max.Y-want.Max.Y) > eps {
		t.Errorf("%s = %+v, want %+v", what, got, want)
	}
}

func TestPathBoundsLines(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 2)
	p.LineTo(5, -3)
	p.LineTo(-2, 4)
	rectNear(t, p.Bounds(), RectXYWH(-2, -3, 7, 7), 1e-12, "Bounds")
}

func TestPathBoundsCurveExtrema(t *testing.T) {
	// A quadratic whose control point pulls above the endpoints: the
	// bounds must include the curve apex, not the control point.
	p := NewPath()
	p.MoveTo(0, 0)
	p.QuadraticTo(5, -10, 10, 0)
	b := p.Bounds()
	// Apex at t=0.5 is y = -5.
	rectNear(t, b, RectXYWH(0, -5, 10, 5), 1e-9, "quad bounds")

	p = NewPath()
	p.MoveTo(0, 0)
	p.CubicTo(0, -10, 10, -10, 10, 0)
	b = p.Bounds()
	// Cubic apex is at y = -7.5.
	rectNear(t, b, RectXYWH(0, -7.5, 10, 7.5), 1e-9, "cubic bounds")
}

func TestPathCircleBounds(t *testing.T) {
	p := NewPath()
	p.Circle(10, 10, 5)
	// The Bezier approximation overshoots by well under a tenth of a
	// percent of the radius.
	rectNear(t, p.Bounds(), RectXYWH(5, 5, 10, 10), 0.01, "circle bounds")
}

func TestPathIsEmpty(t *testing.T) {
	p := NewPath()
	if !p.IsEmpty() {
		t.Error("fresh path not empty")
	}
	p.MoveTo(3, 3)
	if !p.IsEmpty() {
		t.Error("move-only path not empty")
	}
	p.LineTo(4, 4)
	if p.IsEmpty() {
		t.Error("path with a line reported empty")
	}
}

func TestPathTransform(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 1)
	p.QuadraticTo(2, 2, 3, 1)
	q := p.Transform(Scale(2, 2).Multiply(Translate(1, 0)))
	segs := q.Segments()
	if mv, ok := segs[0].(MoveTo); !ok || !ptNear(mv.Point, Pt(4, 2)) {
		t.Errorf("transformed MoveTo = %+v, want (4, 2)", segs[0])
	}
	if qt, ok := segs[1].(QuadTo); !ok || !ptNear(qt.Control, Pt(6, 4)) || !ptNear(qt.Point, Pt(8, 2)) {
		t.Errorf("transformed QuadTo = %+v", segs[1])
	}
	// Original untouched.
	if mv := p.Segments()[0].(MoveTo); !ptNear(mv.Point, Pt(1, 1)) {
		t.Error("Transform mutated the source path")
	}
}

func TestStrokeBounds(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	s := DefaultStroke()
	s.Width = 4
	s.Join = LineJoinRound
	s.Cap = LineCapButt
	rectNear(t, p.StrokeBounds(&s), RectXYWH(-2, -2, 14, 4), 1e-12, "round join bounds")

	s.Join = LineJoinMiter
	s.MiterLimit = 4
	b := p.StrokeBounds(&s)
	if b.Min.X > -8 || b.Max.X < 18 {
		t.Errorf("miter bounds %+v do not cover miter overshoot", b)
	}
}

func TestFlattenLineKeepsEndpoints(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 5)
	lines := p.Flatten(0.1)
	if len(lines) != 1 {
		t.Fatalf("got %d polylines, want 1", len(lines))
	}
	pts := lines[0].Points
	if !ptNear(pts[0], Pt(0, 0)) || !ptNear(pts[len(pts)-1], Pt(10, 5)) {
		t.Errorf("polyline endpoints %+v, %+v", pts[0], pts[len(pts)-1])
	}
	if lines[0].Closed {
		t.Error("open subpath flagged closed")
	}
}

func TestFlattenCurveWithinTolerance(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.CubicTo(0, 10, 10, 10, 10, 0)
	const tol = 0.05
	lines := p.Flatten(tol)
	if len(lines) != 1 {
		t.Fatalf("got %d polylines, want 1", len(lines))
	}
	pts := lines[0].Points
	if len(pts) < 4 {
		t.Fatalf("curve flattened to %d points, want several", len(pts))
	}
	// Every vertex must lie on or near the curve: check the apex region
	// stays close to the true maximum y = 7.5.
	maxY := 0.0
	for _, pt := range pts {
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	if math.Abs(maxY-7.5) > 2*tol {
		t.Errorf("flattened apex %.4f, want 7.5 within %.2f", maxY, 2*tol)
	}
}

func TestFlattenToleranceControlsDensity(t *testing.T) {
	p := NewPath()
	p.Circle(0, 0, 100)
	coarse := len(p.Flatten(1)[0].Points)
	fine := len(p.Flatten(0.01)[0].Points)
	if fine <= coarse {
		t.Errorf("tolerance 0.01 produced %d points, not more than %d at tolerance 1", fine, coarse)
	}
}

func TestFlattenClosedSubpath(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)
	p.Close()
	p.MoveTo(20, 0)
	p.LineTo(30, 0)
	lines := p.Flatten(0.1)
	if len(lines) != 2 {
		t.Fatalf("got %d polylines, want 2", len(lines))
	}
	if !lines[0].Closed {
		t.Error("closed subpath not flagged closed")
	}
	if lines[1].Closed {
		t.Error("open trailing subpath flagged closed")
	}
}

package raster

import (
	"math"
	"testing"
)

func rectPoly(x0, y0, x1, y1 float64) []Point {
	return []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func covAt(m *Mask, x, y int) uint8 {
	if m == nil {
		return 0
	}
	return m.At(x, y)
}

func near(t *testing.T, got, want uint8, tol int, what string) {
	t.Helper()
	d := int(got) - int(want)
	if d < 0 {
		d = -d
	}
	if d > tol {
		t.Errorf("%s = %d, want %d (tolerance %d)", what, got, want, tol)
	}
}

func TestFillAlignedRect(t *testing.T) {
	r := NewRasterizer(10, 10)
	r.AddPolyline(rectPoly(2, 2, 8, 8))
	m := r.Mask(FillRuleNonZero)
	if m == nil {
		t.Fatal("Mask returned nil for visible geometry")
	}

	tests := []struct {
		name string
		x, y int
		want uint8
	}{
		{"interior center", 5, 5, 255},
		{"interior corner", 2, 2, 255},
		{"outside left", 1, 5, 0},
		{"outside right", 8, 5, 0},
		{"outside top", 5, 1, 0},
		{"outside bottom", 5, 8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := covAt(m, tt.x, tt.y); got != tt.want {
				t.Errorf("coverage at (%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestFillHalfPixelEdges(t *testing.T) {
	r := NewRasterizer(10, 10)
	r.AddPolyline(rectPoly(2.5, 2, 8, 8))
	m := r.Mask(FillRuleNonZero)

	near(t, covAt(m, 2, 5), 128, 1, "half-covered column")
	near(t, covAt(m, 3, 5), 255, 0, "full column")

	r.Reset()
	r.AddPolyline(rectPoly(2, 2.25, 8, 8))
	m = r.Mask(FillRuleNonZero)
	// Three of four sub-scanlines cover row y=2.
	near(t, covAt(m, 5, 2), 191, 1, "three-quarter row")
}

func TestFillRules(t *testing.T) {
	// Outer square with an inner square wound the same way: nonzero
	// fills solid, even-odd cuts a hole.
	build := func() *Rasterizer {
		r := NewRasterizer(20, 20)
		r.AddPolyline(rectPoly(2, 2, 18, 18))
		r.AddPolyline(rectPoly(6, 6, 14, 14))
		return r
	}

	if got := covAt(build().Mask(FillRuleNonZero), 10, 10); got != 255 {
		t.Errorf("nonzero inner coverage = %d, want 255", got)
	}
	if got := covAt(build().Mask(FillRuleEvenOdd), 10, 10); got != 0 {
		t.Errorf("even-odd inner coverage = %d, want 0", got)
	}
	if got := covAt(build().Mask(FillRuleEvenOdd), 4, 10); got != 255 {
		t.Errorf("even-odd ring coverage = %d, want 255", got)
	}
}

func TestOppositeWindingCancels(t *testing.T) {
	r := NewRasterizer(20, 20)
	r.AddPolyline(rectPoly(2, 2, 18, 18))
	// Reverse winding for the inner contour.
	r.AddPolyline([]Point{{6, 6}, {6, 14}, {14, 14}, {14, 6}})
	m := r.Mask(FillRuleNonZero)
	if got := covAt(m, 10, 10); got != 0 {
		t.Errorf("nonzero coverage inside reversed contour = %d, want 0", got)
	}
	if got := covAt(m, 4, 10); got != 255 {
		t.Errorf("nonzero ring coverage = %d, want 255", got)
	}
}

func TestOverlapDoesNotExceedFull(t *testing.T) {
	// Two overlapping quads, as a stroke expansion would stamp them.
	r := NewRasterizer(10, 10)
	r.AddPolyline(rectPoly(2, 2, 6, 6))
	r.AddPolyline(rectPoly(4, 4, 8, 8))
	m := r.Mask(FillRuleNonZero)
	if got := covAt(m, 5, 5); got != 255 {
		t.Errorf("overlap coverage = %d, want 255", got)
	}
}

func TestMaskClampsToClip(t *testing.T) {
	r := NewRasterizer(10, 10)
	r.AddPolyline(rectPoly(-5, -5, 5, 5))
	m := r.Mask(FillRuleNonZero)
	if m == nil {
		t.Fatal("Mask returned nil for partially visible geometry")
	}
	if m.X < 0 || m.Y < 0 {
		t.Errorf("mask window origin (%d,%d) outside clip", m.X, m.Y)
	}
	if got := covAt(m, 2, 2); got != 255 {
		t.Errorf("visible part coverage = %d, want 255", got)
	}
}

func TestMaskNilForInvisible(t *testing.T) {
	r := NewRasterizer(10, 10)
	r.AddPolyline(rectPoly(20, 20, 30, 30))
	if m := r.Mask(FillRuleNonZero); m != nil {
		t.Errorf("Mask = %+v, want nil for off-canvas geometry", m)
	}

	r.Reset()
	if m := r.Mask(FillRuleNonZero); m != nil {
		t.Errorf("Mask = %+v, want nil for empty rasterizer", m)
	}
}

func TestDiagonalEdgeCoverage(t *testing.T) {
	// Right triangle covering half of its bounding square: total
	// coverage must be close to half the square's area.
	r := NewRasterizer(16, 16)
	r.AddPolyline([]Point{{2, 2}, {14, 2}, {2, 14}})
	m := r.Mask(FillRuleNonZero)
	if m == nil {
		t.Fatal("Mask returned nil")
	}
	var total float64
	for _, v := range m.Pix {
		total += float64(v) / 255
	}
	want := 12.0 * 12.0 / 2
	if total < want-1.5 || total > want+1.5 {
		t.Errorf("triangle total coverage = %.2f, want %.2f within 1.5", total, want)
	}
}

func TestMaskIntersect(t *testing.T) {
	a := NewMask(0, 0, 4, 4)
	b := NewMask(0, 0, 4, 4)
	a.Set(1, 1, 255)
	a.Set(2, 2, 200)
	b.Set(1, 1, 128)
	// (2,2) stays zero in b.
	a.Intersect(b)

	near(t, a.At(1, 1), 128, 1, "intersect full*half")
	if got := a.At(2, 2); got != 0 {
		t.Errorf("intersect with zero = %d, want 0", got)
	}
}

func TestMaskIsEmpty(t *testing.T) {
	m := NewMask(0, 0, 4, 4)
	if !m.IsEmpty() {
		t.Error("fresh mask not empty")
	}
	m.Set(3, 3, 1)
	if m.IsEmpty() {
		t.Error("mask with coverage reported empty")
	}
}

// Benchmarks

func BenchmarkRasterizerFill(b *testing.B) {
	poly := make([]Point, 0, 65)
	for i := 0; i <= 64; i++ {
		a := float64(i) / 64 * 2 * math.Pi
		poly = append(poly, Point{128 + 100*math.Cos(a), 128 + 100*math.Sin(a)})
	}
	r := NewRasterizer(256, 256)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Reset()
		r.AddPolyline(poly)
		_ = r.Mask(FillRuleNonZero)
	}
}

package svg

import (
	"math"
	"testing"
)

func TestNormalizeStops(t *testing.T) {
	stops := []ColorStop{
		{Offset: 0.8, Color: RGB8(0, 0, 255)},
		{Offset: -0.5, Color: RGB8(255, 0, 0)},
		{Offset: 1.5, Color: RGB8(0, 255, 0)},
		{Offset: 0.8, Color: RGB8(0, 0, 255)}, // exact duplicate
	}
	out := normalizeStops(stops)
	if len(out) != 3 {
		t.Fatalf("got %d stops, want 3", len(out))
	}
	if out[0].Offset != 0 || out[0].Color != RGB8(255, 0, 0) {
		t.Errorf("stop 0 = %+v, want offset 0 red", out[0])
	}
	if out[1].Offset != 0.8 {
		t.Errorf("stop 1 offset = %v, want 0.8", out[1].Offset)
	}
	if out[2].Offset != 1 || out[2].Color != RGB8(0, 255, 0) {
		t.Errorf("stop 2 = %+v, want offset 1 green", out[2])
	}
}

func TestNormalizeStopsKeepsEqualOffsetsInOrder(t *testing.T) {
	// Distinct colors at the same offset both survive, in document order.
	// This is what makes hard color transitions work.
	stops := []ColorStop{
		{Offset: 0.5, Color: RGB8(255, 0, 0)},
		{Offset: 0.5, Color: RGB8(0, 0, 255)},
	}
	out := normalizeStops(stops)
	if len(out) != 2 {
		t.Fatalf("got %d stops, want 2", len(out))
	}
	if out[0].Color != RGB8(255, 0, 0) || out[1].Color != RGB8(0, 0, 255) {
		t.Errorf("stops reordered: %+v", out)
	}
}

func TestNormalizeStopsEmpty(t *testing.T) {
	if out := normalizeStops(nil); out != nil {
		t.Errorf("normalizeStops(nil) = %v, want nil", out)
	}
}

func TestApplySpread(t *testing.T) {
	tests := []struct {
		t    float64
		mode SpreadMode
		want float64
	}{
		{0.5, SpreadPad, 0.5},
		{-0.25, SpreadPad, 0},
		{1.75, SpreadPad, 1},
		{0.25, SpreadRepeat, 0.25},
		{1.25, SpreadRepeat, 0.25},
		{-0.25, SpreadRepeat, 0.75},
		{2.5, SpreadRepeat, 0.5},
		{0.25, SpreadReflect, 0.25},
		{1.25, SpreadReflect, 0.75},
		{2.25, SpreadReflect, 0.25},
		{-0.25, SpreadReflect, 0.25},
		{-1.25, SpreadReflect, 0.75},
	}
	for _, tt := range tests {
		got := applySpread(tt.t, tt.mode)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("applySpread(%v, %v) = %v, want %v", tt.t, tt.mode, got, tt.want)
		}
	}
}

func TestColorAt(t *testing.T) {
	g := BaseGradient{
		Stops: []ColorStop{
			{Offset: 0, Color: Color{R: 1, A: 1}},
			{Offset: 1, Color: Color{B: 1, A: 1}},
		},
	}
	if c := g.ColorAt(0); c != (Color{R: 1, A: 1}) {
		t.Errorf("ColorAt(0) = %+v", c)
	}
	if c := g.ColorAt(1); c != (Color{B: 1, A: 1}) {
		t.Errorf("ColorAt(1) = %+v", c)
	}
	c := g.ColorAt(0.5)
	if math.Abs(c.R-0.5) > 1e-12 || math.Abs(c.B-0.5) > 1e-12 || c.A != 1 {
		t.Errorf("ColorAt(0.5) = %+v, want half red half blue", c)
	}
	// Pad clamps out-of-range parameters to the edge stops.
	if c := g.ColorAt(-2); c != (Color{R: 1, A: 1}) {
		t.Errorf("ColorAt(-2) = %+v, want first stop", c)
	}
	if c := g.ColorAt(3); c != (Color{B: 1, A: 1}) {
		t.Errorf("ColorAt(3) = %+v, want last stop", c)
	}
}

func TestColorAtHardStop(t *testing.T) {
	g := BaseGradient{
		Stops: []ColorStop{
			{Offset: 0, Color: Color{R: 1, A: 1}},
			{Offset: 0.5, Color: Color{R: 1, A: 1}},
			{Offset: 0.5, Color: Color{B: 1, A: 1}},
			{Offset: 1, Color: Color{B: 1, A: 1}},
		},
	}
	if c := g.ColorAt(0.4999); c.R < 0.999 || c.B > 0.001 {
		t.Errorf("just before hard stop = %+v, want red", c)
	}
	if c := g.ColorAt(0.5001); c.B < 0.999 || c.R > 0.001 {
		t.Errorf("just after hard stop = %+v, want blue", c)
	}
}

func TestColorAtDegenerate(t *testing.T) {
	g := BaseGradient{}
	if c := g.ColorAt(0.5); c != Transparent {
		t.Errorf("no stops = %+v, want transparent", c)
	}
	g.Stops = []ColorStop{{Offset: 0.3, Color: RGB8(10, 20, 30)}}
	if c := g.ColorAt(0.9); c != RGB8(10, 20, 30) {
		t.Errorf("single stop = %+v, want that stop everywhere", c)
	}
}

func TestLerpPremultiplied(t *testing.T) {
	// Opaque red to transparent: in premultiplied space the midpoint stays
	// fully red rather than darkening toward black.
	red := Color{R: 1, A: 1}
	clear := Color{}
	mid := lerpPremultiplied(red, clear, 0.5)
	if math.Abs(mid.R-1) > 1e-12 || math.Abs(mid.A-0.5) > 1e-12 {
		t.Errorf("mid = %+v, want R=1 A=0.5", mid)
	}
	if got := lerpPremultiplied(red, clear, 1); got != Transparent {
		t.Errorf("t=1 = %+v, want transparent", got)
	}
	if got := lerpPremultiplied(red, red, 0.5); got != red {
		t.Errorf("identical endpoints = %+v, want unchanged", got)
	}
}

func TestGradientInterpSpaceDiffers(t *testing.T) {
	stops := []ColorStop{
		{Offset: 0, Color: Color{R: 1, A: 1}},
		{Offset: 1, Color: Color{A: 0}},
	}
	straight := BaseGradient{Stops: stops}
	premul := BaseGradient{Stops: stops, PremultipliedInterp: true}
	s := straight.ColorAt(0.5)
	p := premul.ColorAt(0.5)
	if math.Abs(s.A-p.A) > 1e-12 {
		t.Errorf("alpha must agree: straight %v premul %v", s.A, p.A)
	}
	if !(p.R > s.R) {
		t.Errorf("premultiplied interp must keep red stronger: straight %v premul %v", s.R, p.R)
	}
}

package svg

import (
	"math"
	"sort"
)

// SpreadMode defines how gradients behave for sample positions outside
// the [0, 1] gradient parameter range.
type SpreadMode int

const (
	// SpreadPad extends edge colors beyond the bounds (default).
	SpreadPad SpreadMode = iota
	// SpreadReflect mirrors the gradient pattern.
	SpreadReflect
	// SpreadRepeat repeats the gradient pattern.
	SpreadRepeat
)

// ColorStop represents a color at a specific position in a gradient.
type ColorStop struct {
	Offset float64 // Position in gradient, 0.0 to 1.0
	Color  Color   // Color at this position, stop-opacity folded into A
}

// Paint is a fully resolved paint descriptor attached to render tree
// nodes. It is a closed variant set: SolidColor, LinearGradient,
// RadialGradient, Pattern.
type Paint interface {
	isPaint()
}

// SolidColor paints with a single uniform color.
type SolidColor struct {
	Color Color
}

func (SolidColor) isPaint() {}

// BaseGradient holds properties common to linear and radial gradients.
// After normalization the Transform maps gradient space to the user space
// of the referencing element; coordinates are absolute (bounding-box
// relative units have already been resolved).
type BaseGradient struct {
	Stops     []ColorStop
	Spread    SpreadMode
	Transform Matrix

	// PremultipliedInterp selects interpolation of stop colors in
	// premultiplied space. SVG markup has no syntax for this choice, so
	// parsed documents always interpolate straight alpha; the field is
	// honored by ColorAt for programmatically built trees. The two
	// spaces produce visibly different results wherever stop alphas
	// differ.
	PremultipliedInterp bool
}

// LinearGradient paints with a linear color ramp from Start to End.
type LinearGradient struct {
	BaseGradient
	Start Point
	End   Point
}

func (LinearGradient) isPaint() {}

// RadialGradient paints with a radial color ramp centered on Center with
// radius R, with the ramp origin at the focal point.
type RadialGradient struct {
	BaseGradient
	Center Point
	Focal  Point
	R      float64
}

func (RadialGradient) isPaint() {}

// Pattern paints by tiling a rendered subtree.
type Pattern struct {
	// Root is the pattern content, normalized like any other subtree.
	Root *Group
	// ID identifies the source pattern definition; the per-render tile
	// cache is keyed on it.
	ID string
	// Rect is the tile rectangle in user space.
	Rect Rect
	// Transform maps pattern space to user space.
	Transform Matrix
	// ContentTransform applies to the pattern content before tiling
	// (viewBox or content-units scaling).
	ContentTransform Matrix
}

func (Pattern) isPaint() {}

// normalizeStops sorts stops by offset (stable, preserving document order
// of equal offsets), clamps offsets to [0,1], and drops exact duplicates.
// The result is monotonically non-decreasing.
func normalizeStops(stops []ColorStop) []ColorStop {
	if len(stops) == 0 {
		return nil
	}
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	for i := range sorted {
		sorted[i].Offset = clamp01(sorted[i].Offset)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	out := sorted[:1]
	for _, s := range sorted[1:] {
		last := out[len(out)-1]
		if s.Offset == last.Offset && s.Color == last.Color {
			continue
		}
		out = append(out, s)
	}
	return out
}

// applySpread maps a raw gradient parameter to [0, 1] per the spread mode.
func applySpread(t float64, mode SpreadMode) float64 {
	switch mode {
	case SpreadRepeat:
		t -= math.Floor(t)
		if t < 0 {
			t++
		}
	case SpreadReflect:
		t = math.Abs(t)
		period := math.Floor(t)
		t -= period
		if int(period)%2 == 1 {
			t = 1 - t
		}
	default: // SpreadPad
		t = clamp01(t)
	}
	return t
}

// ColorAt evaluates the gradient ramp at parameter t, applying the spread
// mode first. Interpolation between adjacent stops is linear, in
// premultiplied or non-premultiplied space per the gradient declaration.
func (g *BaseGradient) ColorAt(t float64) Color {
	stops := g.Stops
	if len(stops) == 0 {
		return Transparent
	}
	if len(stops) == 1 {
		return stops[0].Color
	}
	t = applySpread(t, g.Spread)

	if t <= stops[0].Offset {
		return stops[0].Color
	}
	if t >= stops[len(stops)-1].Offset {
		return stops[len(stops)-1].Color
	}
	i := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset >= t
	})
	s0, s1 := stops[i-1], stops[i]
	span := s1.Offset - s0.Offset
	if span <= 0 {
		return s1.Color
	}
	k := (t - s0.Offset) / span
	if g.PremultipliedInterp {
		return lerpPremultiplied(s0.Color, s1.Color, k)
	}
	return s0.Color.Lerp(s1.Color, k)
}

// lerpPremultiplied interpolates in premultiplied space: channels are
// scaled by alpha before mixing and unscaled after.
func lerpPremultiplied(c0, c1 Color, t float64) Color {
	pr := (c0.R*c0.A)*(1-t) + (c1.R*c1.A)*t
	pg := (c0.G*c0.A)*(1-t) + (c1.G*c1.A)*t
	pb := (c0.B*c0.A)*(1-t) + (c1.B*c1.A)*t
	pa := c0.A*(1-t) + c1.A*t
	if pa <= 0 {
		return Transparent
	}
	return Color{R: pr / pa, G: pg / pa, B: pb / pa, A: pa}
}

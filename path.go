package svg

import "math"

// PathSegment represents a single segment in a path.
// It is a closed variant set: MoveTo, LineTo, QuadTo, CubicTo, Close.
type PathSegment interface {
	isPathSegment()
}

// MoveTo starts a new subpath at a point.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathSegment() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathSegment() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathSegment() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathSegment() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathSegment() {}

// Path represents a vector path as an ordered sequence of segments.
// After normalization all coordinates are absolute user-space values.
//
// A path used for filling is implicitly closed per subpath; the winding
// rule (nonzero or even-odd) is a fill-time property carried by the node
// that references the path, not by the path itself.
type Path struct {
	segments []PathSegment
	start    Point // Starting point of current subpath
	current  Point // Current point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		segments: make([]PathSegment, 0, 16),
	}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	pt := Pt(x, y)
	p.segments = append(p.segments, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line to (x, y).
func (p *Path) LineTo(x, y float64) {
	pt := Pt(x, y)
	p.segments = append(p.segments, LineTo{Point: pt})
	p.current = pt
}

// QuadraticTo draws a quadratic Bezier curve.
func (p *Path) QuadraticTo(cx, cy, x, y float64) {
	p.segments = append(p.segments, QuadTo{Control: Pt(cx, cy), Point: Pt(x, y)})
	p.current = Pt(x, y)
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.segments = append(p.segments, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    Pt(x, y),
	})
	p.current = Pt(x, y)
}

// Close closes the current subpath by drawing a line to its start point.
func (p *Path) Close() {
	p.segments = append(p.segments, Close{})
	p.current = p.start
}

// Segments returns the path segments.
func (p *Path) Segments() []PathSegment {
	return p.segments
}

// IsEmpty reports whether the path has no drawing segments.
func (p *Path) IsEmpty() bool {
	for _, seg := range p.segments {
		switch seg.(type) {
		case LineTo, QuadTo, CubicTo:
			return false
		}
	}
	return true
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// StartPoint returns the start point of the current subpath.
func (p *Path) StartPoint() Point {
	return p.start
}

// Transform returns a copy of the path with the matrix applied to all points.
func (p *Path) Transform(m Matrix) *Path {
	if m.IsIdentity() {
		return p.Clone()
	}
	result := NewPath()
	for _, seg := range p.segments {
		switch s := seg.(type) {
		case MoveTo:
			pt := m.TransformPoint(s.Point)
			result.MoveTo(pt.X, pt.Y)
		case LineTo:
			pt := m.TransformPoint(s.Point)
			result.LineTo(pt.X, pt.Y)
		case QuadTo:
			ctrl := m.TransformPoint(s.Control)
			pt := m.TransformPoint(s.Point)
			result.QuadraticTo(ctrl.X, ctrl.Y, pt.X, pt.Y)
		case CubicTo:
			c1 := m.TransformPoint(s.Control1)
			c2 := m.TransformPoint(s.Control2)
			pt := m.TransformPoint(s.Point)
			result.CubicTo(c1.X, c1.Y, c2.X, c2.Y, pt.X, pt.Y)
		case Close:
			result.Close()
		}
	}
	return result
}

// Append appends all segments of other to p.
func (p *Path) Append(other *Path) {
	if other == nil {
		return
	}
	p.segments = append(p.segments, other.segments...)
	p.start = other.start
	p.current = other.current
}

// Bounds returns the tight bounding box of the path.
// Curves are bounded by their extrema, not their control points.
// Returns an empty rect for paths with no geometry.
func (p *Path) Bounds() Rect {
	bounds := EmptyRect()
	var current Point
	var started bool
	for _, seg := range p.segments {
		switch s := seg.(type) {
		case MoveTo:
			current = s.Point
			bounds = bounds.ExpandPoint(current)
			started = true
		case LineTo:
			bounds = bounds.ExpandPoint(s.Point)
			current = s.Point
		case QuadTo:
			bounds = bounds.Union(quadBounds(current, s.Control, s.Point))
			current = s.Point
		case CubicTo:
			bounds = bounds.Union(cubicBounds(current, s.Control1, s.Control2, s.Point))
			current = s.Point
		}
	}
	if !started || !bounds.IsValid() {
		return Rect{}
	}
	return bounds
}

// StrokeBounds returns the bounding box of the path grown by the stroke
// extents: half the line width, plus miter overshoot for miter joins and
// the full half-width again for square caps.
func (p *Path) StrokeBounds(stroke *Stroke) Rect {
	b := p.Bounds()
	if stroke == nil || b.IsEmpty() && b.Width() == 0 && b.Height() == 0 {
		return b
	}
	d := stroke.Width / 2
	if stroke.Join == LineJoinMiter {
		d *= math.Max(stroke.MiterLimit, 1)
	}
	if stroke.Cap == LineCapSquare {
		d *= math.Sqrt2
	}
	return b.Outset(d)
}

// Clone creates a deep copy of the path.
func (p *Path) Clone() *Path {
	result := NewPath()
	result.segments = make([]PathSegment, len(p.segments))
	copy(result.segments, p.segments)
	result.start = p.start
	result.current = p.current
	return result
}

// Rectangle adds a rectangle to the path.
func (p *Path) Rectangle(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// Magic constant for circle approximation with cubic Beziers:
// 4/3 * (sqrt(2) - 1).
const bezierCircleK = 0.5522847498307936

// Ellipse adds an ellipse to the path using four cubic Bezier arcs.
func (p *Path) Ellipse(cx, cy, rx, ry float64) {
	ox := rx * bezierCircleK
	oy := ry * bezierCircleK

	p.MoveTo(cx+rx, cy)
	p.CubicTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	p.CubicTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	p.Close()
}

// Circle adds a circle to the path.
func (p *Path) Circle(cx, cy, r float64) {
	p.Ellipse(cx, cy, r, r)
}

// RoundedRectangle adds a rectangle with elliptical corner radii rx, ry.
// Radii are clamped to half the rectangle's dimensions.
func (p *Path) RoundedRectangle(x, y, w, h, rx, ry float64) {
	rx = math.Min(rx, w/2)
	ry = math.Min(ry, h/2)
	if rx <= 0 || ry <= 0 {
		p.Rectangle(x, y, w, h)
		return
	}
	ox := rx * bezierCircleK
	oy := ry * bezierCircleK

	p.MoveTo(x+rx, y)
	p.LineTo(x+w-rx, y)
	p.CubicTo(x+w-rx+ox, y, x+w, y+ry-oy, x+w, y+ry)
	p.LineTo(x+w, y+h-ry)
	p.CubicTo(x+w, y+h-ry+oy, x+w-rx+ox, y+h, x+w-rx, y+h)
	p.LineTo(x+rx, y+h)
	p.CubicTo(x+rx-ox, y+h, x, y+h-ry+oy, x, y+h-ry)
	p.LineTo(x, y+ry)
	p.CubicTo(x, y+ry-oy, x+rx-ox, y, x+rx, y)
	p.Close()
}

// quadBounds returns the tight bounding box of one quadratic segment.
func quadBounds(p0, p1, p2 Point) Rect {
	bounds := NewRect(p0, p2)
	// Derivative roots: t = (p0 - p1) / (p0 - 2*p1 + p2), per axis.
	for _, axis := range [2]bool{true, false} {
		a0, a1, a2 := axisOf(p0, axis), axisOf(p1, axis), axisOf(p2, axis)
		denom := a0 - 2*a1 + a2
		if math.Abs(denom) < 1e-12 {
			continue
		}
		t := (a0 - a1) / denom
		if t > 0 && t < 1 {
			pt := evalQuad(p0, p1, p2, t)
			bounds = bounds.ExpandPoint(pt)
		}
	}
	return bounds
}

// cubicBounds returns the tight bounding box of one cubic segment.
func cubicBounds(p0, p1, p2, p3 Point) Rect {
	bounds := NewRect(p0, p3)
	for _, axis := range [2]bool{true, false} {
		a0, a1, a2, a3 := axisOf(p0, axis), axisOf(p1, axis), axisOf(p2, axis), axisOf(p3, axis)
		// Derivative is quadratic: at^2 + bt + c.
		a := -a0 + 3*a1 - 3*a2 + a3
		b := 2 * (a0 - 2*a1 + a2)
		c := a1 - a0
		for _, t := range quadraticRoots(a, b, c) {
			if t > 0 && t < 1 {
				pt := evalCubic(p0, p1, p2, p3, t)
				bounds = bounds.ExpandPoint(pt)
			}
		}
	}
	return bounds
}

func axisOf(p Point, x bool) float64 {
	if x {
		return p.X
	}
	return p.Y
}

// quadraticRoots returns the real roots of at^2 + bt + c = 0.
func quadraticRoots(a, b, c float64) []float64 {
	if math.Abs(a) < 1e-12 {
		if math.Abs(b) < 1e-12 {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)
	return []float64{(-b + sq) / (2 * a), (-b - sq) / (2 * a)}
}

// evalQuad evaluates a quadratic Bezier at parameter t.
func evalQuad(p0, p1, p2 Point, t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
		Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
	}
}

// evalCubic evaluates a cubic Bezier at parameter t.
func evalCubic(p0, p1, p2, p3 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*p1.X + c*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + c*p2.Y + d*p3.Y,
	}
}

package svg

import "math"

// DefaultFlattenTolerance is the maximum allowed deviation, in user units,
// of a flattened polyline from the true curve.
const DefaultFlattenTolerance = 0.1

// maxFlattenDepth bounds recursive subdivision so that degenerate curves
// (NaN control points, near-infinite curvature) always terminate.
// 2^24 segments per curve is far beyond any useful tolerance.
const maxFlattenDepth = 24

// Polyline is a flattened subpath: a run of points connected by straight
// lines. Closed reports whether the subpath was explicitly closed; filling
// treats every subpath as closed regardless.
type Polyline struct {
	Points []Point
	Closed bool
}

// Flatten converts the path into polylines, one per subpath, subdividing
// curves until they deviate from their chord by less than tolerance.
// Zero-length segments are skipped. A tolerance <= 0 falls back to
// DefaultFlattenTolerance.
func (p *Path) Flatten(tolerance float64) []Polyline {
	if tolerance <= 0 {
		tolerance = DefaultFlattenTolerance
	}

	var out []Polyline
	var cur Polyline
	var current Point

	flush := func(closed bool) {
		if len(cur.Points) > 1 {
			cur.Closed = closed
			out = append(out, cur)
		}
		cur = Polyline{}
	}
	emit := func(pt Point) {
		if n := len(cur.Points); n > 0 {
			last := cur.Points[n-1]
			if last.Distance(pt) < 1e-12 {
				return // degenerate zero-length segment
			}
		}
		cur.Points = append(cur.Points, pt)
	}

	for _, seg := range p.segments {
		switch s := seg.(type) {
		case MoveTo:
			flush(false)
			cur.Points = append(cur.Points, s.Point)
			current = s.Point
		case LineTo:
			emit(s.Point)
			current = s.Point
		case QuadTo:
			flattenQuad(current, s.Control, s.Point, tolerance, 0, emit)
			current = s.Point
		case CubicTo:
			flattenCubic(current, s.Control1, s.Control2, s.Point, tolerance, 0, emit)
			current = s.Point
		case Close:
			if len(cur.Points) > 0 {
				current = cur.Points[0]
			}
			flush(true)
			cur.Points = append(cur.Points[:0], current)
		}
	}
	flush(false)
	return out
}

// flattenQuad recursively subdivides a quadratic Bezier curve until the
// control point deviates from the chord by less than tolerance.
func flattenQuad(p0, p1, p2 Point, tolerance float64, depth int, emit func(Point)) {
	if depth >= maxFlattenDepth || distanceToSegment(p1, p0, p2) < tolerance {
		emit(p2)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	mid := q0.Lerp(q1, 0.5)
	flattenQuad(p0, q0, mid, tolerance, depth+1, emit)
	flattenQuad(mid, q1, p2, tolerance, depth+1, emit)
}

// flattenCubic recursively subdivides a cubic Bezier curve using
// de Casteljau's algorithm.
func flattenCubic(p0, p1, p2, p3 Point, tolerance float64, depth int, emit func(Point)) {
	d1 := distanceToSegment(p1, p0, p3)
	d2 := distanceToSegment(p2, p0, p3)
	if depth >= maxFlattenDepth || math.Max(d1, d2) < tolerance {
		emit(p3)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	mid := r0.Lerp(r1, 0.5)
	flattenCubic(p0, q0, r0, mid, tolerance, depth+1, emit)
	flattenCubic(mid, r1, q2, p3, tolerance, depth+1, emit)
}

// distanceToSegment returns the perpendicular distance from p to the
// segment (a, b).
func distanceToSegment(p, a, b Point) float64 {
	ab := b.Sub(a)
	abLenSq := ab.LengthSquared()
	if abLenSq < 1e-20 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / abLenSq
	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Mul(t)))
}

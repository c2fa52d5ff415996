package svg

import "math"

// expandStroke converts flattened stroke centerlines into closed outline
// polygons. Segments become quads, joins become wedges or discs, caps
// close the open ends. The polygons overlap freely; rasterizing them
// together with the non-zero rule yields their union, which is the
// stroked area.
func expandStroke(lines []Polyline, stroke *Stroke, tolerance float64) []Polyline {
	halfw := stroke.Width / 2
	if halfw <= 0 {
		return nil
	}

	var out []Polyline
	for _, line := range lines {
		pts := dedupePoints(line.Points)
		if len(pts) == 0 {
			continue
		}
		if len(pts) == 1 || (line.Closed && len(pts) == 2 && pts[0] == pts[1]) {
			// Zero-length subpath: round and square caps still paint.
			out = appendZeroLengthCap(out, pts[0], halfw, stroke.Cap, tolerance)
			continue
		}

		closed := line.Closed
		if closed && pts[len(pts)-1] != pts[0] {
			pts = append(pts, pts[0])
		}

		// Segment quads.
		for i := 0; i < len(pts)-1; i++ {
			out = append(out, segmentQuad(pts[i], pts[i+1], halfw))
		}

		// Interior joins.
		for i := 1; i < len(pts)-1; i++ {
			out = appendJoin(out, pts[i-1], pts[i], pts[i+1], halfw, stroke, tolerance)
		}
		if closed {
			// The closing vertex joins last and first segments.
			out = appendJoin(out, pts[len(pts)-2], pts[0], pts[1], halfw, stroke, tolerance)
		} else {
			out = appendCap(out, pts[1], pts[0], halfw, stroke.Cap, tolerance)
			out = appendCap(out, pts[len(pts)-2], pts[len(pts)-1], halfw, stroke.Cap, tolerance)
		}
	}
	return out
}

func dedupePoints(pts []Point) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if p.Distance(out[len(out)-1]) > 1e-9 {
			out = append(out, p)
		}
	}
	return out
}

// segmentQuad is the rectangle swept by the stroke width along one
// segment.
func segmentQuad(p0, p1 Point, halfw float64) Polyline {
	d := p1.Sub(p0).Normalize()
	n := d.Perp().Mul(halfw)
	return Polyline{
		Points: []Point{p0.Add(n), p1.Add(n), p1.Sub(n), p0.Sub(n)},
		Closed: true,
	}
}

// appendJoin fills the wedge gap at vertex v between the segments
// (prev, v) and (v, next).
func appendJoin(out []Polyline, prev, v, next Point, halfw float64, stroke *Stroke, tolerance float64) []Polyline {
	d0 := v.Sub(prev).Normalize()
	d1 := next.Sub(v).Normalize()
	cross := d0.Cross(d1)
	if math.Abs(cross) < 1e-12 && d0.Dot(d1) > 0 {
		// Collinear continuation, nothing to fill.
		return out
	}

	switch stroke.Join {
	case LineJoinRound:
		return append(out, discPolygon(v, halfw, tolerance))
	case LineJoinBevel:
		return appendBevel(out, v, d0, d1, halfw, cross)
	default:
		// The outer side is opposite the turn direction.
		s := 1.0
		if cross > 0 {
			s = -1
		}
		o0 := d0.Perp().Mul(s * halfw)
		o1 := d1.Perp().Mul(s * halfw)
		mdir := o0.Add(o1).Normalize()
		cosHalf := mdir.Dot(o0.Normalize())
		if cosHalf <= 0 || 1/cosHalf > stroke.MiterLimit {
			return appendBevel(out, v, d0, d1, halfw, cross)
		}
		m := v.Add(mdir.Mul(halfw / cosHalf))
		return append(out, Polyline{
			Points: []Point{v, v.Add(o0), m, v.Add(o1)},
			Closed: true,
		})
	}
}

func appendBevel(out []Polyline, v Point, d0, d1 Point, halfw, cross float64) []Polyline {
	s := 1.0
	if cross > 0 {
		s = -1
	}
	o0 := d0.Perp().Mul(s * halfw)
	o1 := d1.Perp().Mul(s * halfw)
	return append(out, Polyline{
		Points: []Point{v, v.Add(o0), v.Add(o1)},
		Closed: true,
	})
}

// appendCap closes the open end at p, where from is the previous point
// on the centerline.
func appendCap(out []Polyline, from, p Point, halfw float64, lineCap LineCap, tolerance float64) []Polyline {
	switch lineCap {
	case LineCapRound:
		return append(out, discPolygon(p, halfw, tolerance))
	case LineCapSquare:
		d := p.Sub(from).Normalize()
		n := d.Perp().Mul(halfw)
		ext := d.Mul(halfw)
		return append(out, Polyline{
			Points: []Point{
				p.Add(n),
				p.Add(n).Add(ext),
				p.Sub(n).Add(ext),
				p.Sub(n),
			},
			Closed: true,
		})
	}
	return out
}

func appendZeroLengthCap(out []Polyline, p Point, halfw float64, lineCap LineCap, tolerance float64) []Polyline {
	switch lineCap {
	case LineCapRound:
		return append(out, discPolygon(p, halfw, tolerance))
	case LineCapSquare:
		return append(out, Polyline{
			Points: []Point{
				{X: p.X - halfw, Y: p.Y - halfw},
				{X: p.X + halfw, Y: p.Y - halfw},
				{X: p.X + halfw, Y: p.Y + halfw},
				{X: p.X - halfw, Y: p.Y + halfw},
			},
			Closed: true,
		})
	}
	return out
}

// discPolygon approximates a circle with enough segments to stay within
// the flattening tolerance.
func discPolygon(c Point, r, tolerance float64) Polyline {
	n := discSegments(r, tolerance)
	pts := make([]Point, n)
	// Wind the same way as segmentQuad so nonzero winding unions
	// instead of cancelling where the disc overlaps a quad.
	for i := 0; i < n; i++ {
		a := -2 * math.Pi * float64(i) / float64(n)
		pts[i] = Point{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	return Polyline{Points: pts, Closed: true}
}

func discSegments(r, tolerance float64) int {
	if tolerance <= 0 {
		tolerance = DefaultFlattenTolerance
	}
	if tolerance >= r {
		return 8
	}
	// Chord error of a regular n-gon is r*(1-cos(pi/n)).
	n := int(math.Ceil(math.Pi / math.Acos(1-tolerance/r)))
	if n < 8 {
		n = 8
	}
	if n > 256 {
		n = 256
	}
	return n
}

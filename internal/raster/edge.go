package raster

// edge is a non-horizontal line segment prepared for scanline
// traversal, stored with y0 < y1 and the original winding direction.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
	dir    int
}

func newEdge(p0, p1 Point) edge {
	// Direction is determined before normalizing the segment so the
	// non-zero winding rule sees the original orientation.
	dir := 1
	if p0.Y > p1.Y {
		dir = -1
		p0, p1 = p1, p0
	}
	return edge{
		x0:   p0.X,
		y0:   p0.Y,
		x1:   p1.X,
		y1:   p1.Y,
		dxdy: (p1.X - p0.X) / (p1.Y - p0.Y),
		dir:  dir,
	}
}

// xAt returns the x coordinate where the edge crosses scanline y.
func (e *edge) xAt(y float64) float64 {
	return e.x0 + (y-e.y0)*e.dxdy
}

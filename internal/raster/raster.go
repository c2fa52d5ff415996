// Package raster provides anti-aliased scanline rasterization of
// polygons into 8-bit coverage masks.
//
// Geometry arrives as flattened polylines in device space. The
// rasterizer accumulates winding crossings on supersampled scanlines
// (4 sub-scanlines per pixel row) with analytic horizontal coverage,
// which gives smooth edges without a full supersampled framebuffer.
package raster

import (
	"math"
	"sort"
)

// Point is a device-space coordinate (internal copy to avoid an import
// cycle with the root package).
type Point struct {
	X, Y float64
}

// FillRule selects the inside test for overlapping contours.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// subSamples is the number of sub-scanlines per pixel row.
const subSamples = 4

// Rasterizer accumulates polygon edges and produces coverage masks.
// It is not safe for concurrent use; create one per goroutine.
type Rasterizer struct {
	clipW, clipH int
	edges        []edge

	minX, minY float64
	maxX, maxY float64
}

// NewRasterizer creates a rasterizer clipped to a w by h device area.
func NewRasterizer(w, h int) *Rasterizer {
	r := &Rasterizer{clipW: w, clipH: h}
	r.resetBounds()
	return r
}

// Reset discards accumulated edges, keeping allocations.
func (r *Rasterizer) Reset() {
	r.edges = r.edges[:0]
	r.resetBounds()
}

func (r *Rasterizer) resetBounds() {
	r.minX, r.minY = math.Inf(1), math.Inf(1)
	r.maxX, r.maxY = math.Inf(-1), math.Inf(-1)
}

// AddPolyline adds a contour. Fill semantics always close the contour;
// callers rasterizing stroke outlines pass outlines that are already
// closed polygons.
func (r *Rasterizer) AddPolyline(pts []Point) {
	if len(pts) < 2 {
		return
	}
	for i := 0; i < len(pts)-1; i++ {
		r.addEdge(pts[i], pts[i+1])
	}
	if pts[len(pts)-1] != pts[0] {
		r.addEdge(pts[len(pts)-1], pts[0])
	}
}

func (r *Rasterizer) addEdge(p0, p1 Point) {
	if p0.Y == p1.Y {
		// Horizontal edges never cross a scanline.
		return
	}
	r.minX = math.Min(r.minX, math.Min(p0.X, p1.X))
	r.maxX = math.Max(r.maxX, math.Max(p0.X, p1.X))
	r.minY = math.Min(r.minY, math.Min(p0.Y, p1.Y))
	r.maxY = math.Max(r.maxY, math.Max(p0.Y, p1.Y))
	r.edges = append(r.edges, newEdge(p0, p1))
}

// Mask rasterizes the accumulated contours into a coverage mask.
// Returns nil when nothing intersects the clip area.
func (r *Rasterizer) Mask(rule FillRule) *Mask {
	if len(r.edges) == 0 {
		return nil
	}

	x0 := clampInt(int(math.Floor(r.minX)), 0, r.clipW)
	x1 := clampInt(int(math.Ceil(r.maxX)), 0, r.clipW)
	y0 := clampInt(int(math.Floor(r.minY)), 0, r.clipH)
	y1 := clampInt(int(math.Ceil(r.maxY)), 0, r.clipH)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}

	m := NewMask(x0, y0, x1-x0, y1-y0)

	// Sort edges by top y so the active set can advance incrementally.
	sort.Slice(r.edges, func(i, j int) bool {
		return r.edges[i].y0 < r.edges[j].y0
	})

	acc := make([]float64, x1-x0)
	var xs []crossing
	next := 0
	var active []edge

	for py := y0; py < y1; py++ {
		for i := range acc {
			acc[i] = 0
		}
		for s := 0; s < subSamples; s++ {
			scanY := float64(py) + (float64(s)+0.5)/subSamples

			// Admit edges starting above this sub-scanline, retire
			// finished ones.
			for next < len(r.edges) && r.edges[next].y0 <= scanY {
				active = append(active, r.edges[next])
				next++
			}
			live := active[:0]
			for _, e := range active {
				if e.y1 > scanY {
					live = append(live, e)
				}
			}
			active = live

			xs = xs[:0]
			for _, e := range active {
				if scanY < e.y0 || scanY >= e.y1 {
					continue
				}
				xs = append(xs, crossing{x: e.xAt(scanY), dir: e.dir})
			}
			if len(xs) < 2 {
				continue
			}
			sort.Slice(xs, func(i, j int) bool { return xs[i].x < xs[j].x })

			winding := 0
			for i := 0; i < len(xs)-1; i++ {
				winding += xs[i].dir
				inside := winding != 0
				if rule == FillRuleEvenOdd {
					inside = winding%2 != 0
				}
				if !inside {
					continue
				}
				accumulateSpan(acc, xs[i].x-float64(x0), xs[i+1].x-float64(x0))
			}
		}

		row := m.Pix[(py-y0)*m.W:]
		for i, a := range acc {
			v := a * (255.0 / subSamples)
			if v > 255 {
				v = 255
			}
			row[i] = uint8(v + 0.5)
		}
	}
	return m
}

type crossing struct {
	x   float64
	dir int
}

// accumulateSpan adds one sub-scanline's coverage for the span
// [xs, xe), with analytic partial coverage at the ends.
func accumulateSpan(acc []float64, xs, xe float64) {
	if xe <= xs {
		return
	}
	if xs < 0 {
		xs = 0
	}
	if xe > float64(len(acc)) {
		xe = float64(len(acc))
	}
	if xe <= xs {
		return
	}

	i0 := int(xs)
	i1 := int(xe)
	if i0 == i1 {
		acc[i0] += xe - xs
		return
	}
	acc[i0] += float64(i0+1) - xs
	for i := i0 + 1; i < i1; i++ {
		acc[i] += 1
	}
	if i1 < len(acc) {
		acc[i1] += xe - float64(i1)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

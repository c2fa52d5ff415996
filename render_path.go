package svg

import (
	"math"

	"github.com/gogpu/svg/internal/blend"
	"github.com/gogpu/svg/internal/parallel"
	"github.com/gogpu/svg/internal/raster"
)

func (r *renderer) renderPath(n *PathNode, tf Matrix, clip *raster.Mask, dst *Pixmap) {
	device := tf.Multiply(n.Transform)
	if !device.IsInvertible() {
		return
	}
	fill := func() { r.fillPath(n, device, clip, dst) }
	stroke := func() { r.strokePath(n, device, clip, dst) }
	if n.StrokeFirst {
		stroke()
		fill()
	} else {
		fill()
		stroke()
	}
}

func (r *renderer) fillPath(n *PathNode, device Matrix, clip *raster.Mask, dst *Pixmap) {
	if n.Fill.Paint == nil {
		return
	}
	sh := r.shader(n.Fill.Paint, n.Fill.Opacity, device)
	if sh == nil {
		return
	}
	lines := n.Path.Transform(device).Flatten(r.opts.FlattenTolerance)
	mask := r.fillMask(lines, raster.FillRule(n.Fill.Rule), clip)
	if mask == nil {
		return
	}
	r.paintMask(dst, mask, sh)
}

func (r *renderer) strokePath(n *PathNode, device Matrix, clip *raster.Mask, dst *Pixmap) {
	if n.Stroke.Paint == nil || n.Stroke.Width <= 0 {
		return
	}
	sh := r.shader(n.Stroke.Paint, n.Stroke.Opacity, device)
	if sh == nil {
		return
	}
	// Stroke geometry is produced in user space so widths and dash
	// lengths stay uniform under anisotropic transforms, then mapped to
	// device space. The flattening tolerance shrinks by the device scale
	// so curve error stays below the tolerance in pixels.
	sx, sy := device.ScaleFactors()
	scale := math.Max(sx, sy)
	if scale <= 0 {
		return
	}
	tol := r.opts.FlattenTolerance / scale
	lines := n.Path.Flatten(tol)
	if n.Stroke.Dash != nil {
		lines = applyDash(lines, n.Stroke.Dash)
	}
	polys := expandStroke(lines, &n.Stroke, tol)
	if len(polys) == 0 {
		return
	}
	for i := range polys {
		for j := range polys[i].Points {
			polys[i].Points[j] = device.TransformPoint(polys[i].Points[j])
		}
	}
	// Stroke polygons union under the nonzero rule: winding accumulates
	// across all stamped quads and wedges before coverage conversion, so
	// overlaps never double-darken.
	mask := r.fillMask(polys, raster.FillRuleNonZero, clip)
	if mask == nil {
		return
	}
	r.paintMask(dst, mask, sh)
}

// fillMask rasterizes device-space polylines to a coverage mask,
// intersected with the inherited clip.
func (r *renderer) fillMask(lines []Polyline, rule raster.FillRule, clip *raster.Mask) *raster.Mask {
	if len(lines) == 0 {
		return nil
	}
	ras := raster.NewRasterizer(r.width, r.height)
	var pts []raster.Point
	for _, ln := range lines {
		pts = pts[:0]
		for _, p := range ln.Points {
			pts = append(pts, raster.Point{X: p.X, Y: p.Y})
		}
		ras.AddPolyline(pts)
	}
	m := ras.Mask(rule)
	if m == nil || m.IsEmpty() {
		return nil
	}
	if clip != nil {
		m.Intersect(clip)
		if m.IsEmpty() {
			return nil
		}
	}
	return m
}

// paintMask composites shader output through a coverage mask with
// source-over, parallel across mask rows.
func (r *renderer) paintMask(dst *Pixmap, m *raster.Mask, sh shader) {
	data := dst.Data()
	parallel.For(m.Y, m.Y+m.H, r.workers, func(y int) {
		row := y * r.width * 4
		for x := m.X; x < m.X+m.W; x++ {
			cov := m.Pix[(y-m.Y)*m.W+(x-m.X)]
			if cov == 0 {
				continue
			}
			sr, sg, sb, sa := sh.at(x, y)
			if sa == 0 {
				continue
			}
			if cov < 255 {
				sr = mul8(sr, cov)
				sg = mul8(sg, cov)
				sb = mul8(sb, cov)
				sa = mul8(sa, cov)
			}
			i := row + x*4
			data[i], data[i+1], data[i+2], data[i+3] = blend.Pixel(
				sr, sg, sb, sa,
				data[i], data[i+1], data[i+2], data[i+3],
				blend.Normal,
			)
		}
	})
}

package svg

import (
	"math"

	"github.com/gogpu/svg/internal/parallel"
	"github.com/gogpu/svg/internal/raster"
)

// clipMask builds a full-canvas coverage mask for a clip path
// definition. tf is the referencing element's device transform. Coverage
// is the union of the clip shapes, intersected with any chained clip.
func (r *renderer) clipMask(idx int, tf Matrix) *raster.Mask {
	cp := &r.tree.ClipPaths[idx]
	base := tf.Multiply(cp.Transform)
	combined := raster.NewMask(0, 0, r.width, r.height)
	ras := raster.NewRasterizer(r.width, r.height)
	var pts []raster.Point
	for _, shape := range cp.Paths {
		dev := base.Multiply(shape.Transform)
		if !dev.IsInvertible() {
			continue
		}
		ras.Reset()
		for _, ln := range shape.Path.Transform(dev).Flatten(r.opts.FlattenTolerance) {
			pts = pts[:0]
			for _, p := range ln.Points {
				pts = append(pts, raster.Point{X: p.X, Y: p.Y})
			}
			ras.AddPolyline(pts)
		}
		unionMask(combined, ras.Mask(raster.FillRule(shape.Rule)))
	}
	if cp.Clip >= 0 {
		combined.Intersect(r.clipMask(cp.Clip, tf))
	}
	return combined
}

// unionMask accumulates src coverage into dst with per-pixel max.
func unionMask(dst, src *raster.Mask) {
	if src == nil {
		return
	}
	for y := src.Y; y < src.Y+src.H; y++ {
		for x := src.X; x < src.X+src.W; x++ {
			v := src.Pix[(y-src.Y)*src.W+(x-src.X)]
			if v > dst.At(x, y) {
				dst.Set(x, y, v)
			}
		}
	}
}

// maskCoverage renders a mask definition and converts it to per-pixel
// coverage. Luminance masks weigh channels by the Rec. 709 coefficients;
// premultiplied channels already carry the alpha factor, so the weighted
// sum is luminance times alpha directly.
func (r *renderer) maskCoverage(idx int, tf Matrix) []uint8 {
	m := &r.tree.Masks[idx]
	layer := NewPixmap(r.width, r.height)
	r.renderNode(m.Root, tf, nil, layer)

	cov := make([]uint8, r.width*r.height)
	region := tf.TransformRect(m.Rect)
	x0 := clampCanvas(int(math.Floor(region.Min.X)), r.width)
	x1 := clampCanvas(int(math.Ceil(region.Max.X)), r.width)
	y0 := clampCanvas(int(math.Floor(region.Min.Y)), r.height)
	y1 := clampCanvas(int(math.Ceil(region.Max.Y)), r.height)

	data := layer.Data()
	parallel.For(y0, y1, r.workers, func(y int) {
		for x := x0; x < x1; x++ {
			i := (y*r.width + x) * 4
			a := data[i+3]
			if a == 0 {
				continue
			}
			if m.Mode == MaskAlpha {
				cov[y*r.width+x] = a
				continue
			}
			l := (13933*uint32(data[i]) + 46871*uint32(data[i+1]) + 4732*uint32(data[i+2])) >> 16
			cov[y*r.width+x] = uint8(l)
		}
	})

	if m.Mask >= 0 {
		chained := r.maskCoverage(m.Mask, tf)
		for i := range cov {
			cov[i] = mul8(cov[i], chained[i])
		}
	}
	return cov
}

func clampCanvas(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}

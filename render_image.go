package svg

import (
	"math"

	"github.com/gogpu/svg/internal/blend"
	"github.com/gogpu/svg/internal/parallel"
	"github.com/gogpu/svg/internal/raster"
)

func (r *renderer) renderImage(n *ImageNode, tf Matrix, clip *raster.Mask, dst *Pixmap) {
	if n.Pixels == nil {
		return
	}
	device := tf.Multiply(n.Transform)
	if !device.IsInvertible() {
		return
	}
	// Coverage comes from the viewport rect so sliced content clips to it
	// with antialiased edges.
	quad := []Polyline{{
		Points: []Point{
			device.TransformPoint(n.Rect.Min),
			device.TransformPoint(Pt(n.Rect.Max.X, n.Rect.Min.Y)),
			device.TransformPoint(n.Rect.Max),
			device.TransformPoint(Pt(n.Rect.Min.X, n.Rect.Max.Y)),
		},
		Closed: true,
	}}
	mask := r.fillMask(quad, raster.FillRuleNonZero, clip)
	if mask == nil {
		return
	}
	sampler := device.Multiply(n.Content)
	if !sampler.IsInvertible() {
		return
	}
	inv := sampler.Invert()
	src := n.Pixels
	data := dst.Data()
	parallel.For(mask.Y, mask.Y+mask.H, r.workers, func(y int) {
		row := y * r.width * 4
		for x := mask.X; x < mask.X+mask.W; x++ {
			cov := mask.Pix[(y-mask.Y)*mask.W+(x-mask.X)]
			if cov == 0 {
				continue
			}
			p := inv.TransformPoint(Pt(float64(x)+0.5, float64(y)+0.5))
			var sr, sg, sb, sa uint8
			if n.Smooth {
				sr, sg, sb, sa = sampleBilinear(src, p.X-0.5, p.Y-0.5)
			} else {
				sr, sg, sb, sa = sampleNearest(src, p.X, p.Y)
			}
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

// samplePixel reads one premultiplied pixel; out-of-bounds reads are
// transparent.
func samplePixel(pm *Pixmap, x, y int) (uint8, uint8, uint8, uint8) {
	if x < 0 || y < 0 || x >= pm.Width() || y >= pm.Height() {
		return 0, 0, 0, 0
	}
	data := pm.Data()
	i := (y*pm.Width() + x) * 4
	return data[i], data[i+1], data[i+2], data[i+3]
}

func sampleNearest(pm *Pixmap, x, y float64) (uint8, uint8, uint8, uint8) {
	return samplePixel(pm, int(math.Floor(x)), int(math.Floor(y)))
}

// sampleBilinear interpolates four neighbors on premultiplied values,
// which keeps transparent edges from bleeding dark fringes.
func sampleBilinear(pm *Pixmap, x, y float64) (uint8, uint8, uint8, uint8) {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix, iy := int(x0), int(y0)

	r00, g00, b00, a00 := samplePixel(pm, ix, iy)
	r10, g10, b10, a10 := samplePixel(pm, ix+1, iy)
	r01, g01, b01, a01 := samplePixel(pm, ix, iy+1)
	r11, g11, b11, a11 := samplePixel(pm, ix+1, iy+1)

	lerp2 := func(c00, c10, c01, c11 uint8) uint8 {
		top := float64(c00)*(1-fx) + float64(c10)*fx
		bot := float64(c01)*(1-fx) + float64(c11)*fx
		return uint8(top*(1-fy) + bot*fy + 0.5)
	}
	return lerp2(r00, r10, r01, r11),
		lerp2(g00, g10, g01, g11),
		lerp2(b00, b10, b01, b11),
		lerp2(a00, a10, a01, a11)
}

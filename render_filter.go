package svg

import (
	"log/slog"
	"math"

	"github.com/gogpu/svg/internal/blend"
	"github.com/gogpu/svg/internal/filter"
)

// applyFilter runs a filter chain over an isolated layer and returns the
// filtered layer. Buffers cover the filter region only; samples outside
// it read transparent, and the final result is clipped to it.
func (r *renderer) applyFilter(layer *Pixmap, f *Filter, tf Matrix) *Pixmap {
	region := tf.TransformRect(f.Region)
	x0 := clampCanvas(int(math.Floor(region.Min.X)), r.width)
	x1 := clampCanvas(int(math.Ceil(region.Max.X)), r.width)
	y0 := clampCanvas(int(math.Floor(region.Min.Y)), r.height)
	y1 := clampCanvas(int(math.Ceil(region.Max.Y)), r.height)
	fw, fh := x1-x0, y1-y0
	if fw <= 0 || fh <= 0 {
		return NewPixmap(r.width, r.height)
	}
	Logger().Debug("filter region",
		slog.Int("x", x0), slog.Int("y", y0),
		slog.Int("width", fw), slog.Int("height", fh),
		slog.Int("primitives", len(f.Primitives)))

	src := cropToImage(layer, x0, y0, fw, fh, r.width)
	sx, sy := tf.ScaleFactors()
	env := &filterEnv{
		src:     src,
		prev:    src,
		results: make(map[string]*filter.Image),
		sx:      sx,
		sy:      sy,
		w:       fw,
		h:       fh,
	}
	for _, prim := range f.Primitives {
		out := env.exec(prim.Kind)
		if out == nil {
			continue
		}
		if prim.Region != (Rect{}) {
			clipImageToRect(out, tf.TransformRect(prim.Region), x0, y0)
		}
		if prim.Result != "" {
			env.results[prim.Result] = out
		}
		env.prev = out
	}

	out := NewPixmap(r.width, r.height)
	data := out.Data()
	for y := 0; y < fh; y++ {
		di := ((y0+y)*r.width + x0) * 4
		si := y * fw * 4
		copy(data[di:di+fw*4], env.prev.Pix[si:si+fw*4])
	}
	return out
}

// filterEnv is the evaluation state of one filter chain: the source
// graphic, the running previous result, and named results.
type filterEnv struct {
	src      *filter.Image
	srcAlpha *filter.Image
	prev     *filter.Image
	results  map[string]*filter.Image
	sx, sy   float64
	w, h     int
}

// input resolves a primitive input. Unknown references fall back to the
// previous result.
func (e *filterEnv) input(in FilterInput) *filter.Image {
	switch in.Kind {
	case InputSourceGraphic:
		return e.src
	case InputSourceAlpha:
		if e.srcAlpha == nil {
			e.srcAlpha = e.src.AlphaOnly()
		}
		return e.srcAlpha
	case InputReference:
		if img, ok := e.results[in.Ref]; ok {
			return img
		}
	}
	return e.prev
}

// exec runs one primitive. Shared inputs are cloned before in-place
// operations so named results stay intact.
func (e *filterEnv) exec(kind FilterPrimitiveKind) *filter.Image {
	switch k := kind.(type) {
	case GaussianBlur:
		img := e.input(k.In).Clone()
		filter.Blur(img, k.StdDevX*e.sx, k.StdDevY*e.sy)
		return img
	case Offset:
		return filter.Offset(e.input(k.In),
			int(math.Round(k.DX*e.sx)),
			int(math.Round(k.DY*e.sy)))
	case Flood:
		img := filter.NewImage(e.w, e.h)
		pr, pg, pb, pa := k.Color.Premultiply()
		filter.Flood(img, pr, pg, pb, pa)
		return img
	case Merge:
		out := filter.NewImage(e.w, e.h)
		for _, in := range k.Inputs {
			filter.MergeOver(out, e.input(in))
		}
		return out
	case Blend:
		return filter.BlendImages(e.input(k.In), e.input(k.In2), blend.Mode(k.Mode))
	case Composite:
		return filter.Composite(e.input(k.In), e.input(k.In2),
			filter.CompositeOp(k.Op), k.K1, k.K2, k.K3, k.K4)
	case ColorMatrix:
		img := e.input(k.In).Clone()
		filter.ColorMatrix(img, k.M)
		return img
	case Morphology:
		img := e.input(k.In).Clone()
		op := filter.Erode
		if k.Op == MorphDilate {
			op = filter.Dilate
		}
		filter.Morphology(img, op,
			int(math.Round(k.RadiusX*e.sx)),
			int(math.Round(k.RadiusY*e.sy)))
		return img
	case DisplacementMap:
		return filter.Displace(e.input(k.In), e.input(k.In2),
			k.Scale*(e.sx+e.sy)/2,
			filter.Channel(k.XChannel), filter.Channel(k.YChannel))
	case DropShadow:
		return e.dropShadow(k)
	}
	return nil
}

// dropShadow builds the feDropShadow shorthand: the input's alpha
// silhouette in the shadow color, blurred and offset, with the input
// composited on top.
func (e *filterEnv) dropShadow(k DropShadow) *filter.Image {
	base := e.input(k.In)
	shadow := filter.NewImage(e.w, e.h)
	cr, cg, cb, ca := k.Color.Premultiply()
	for i := 0; i+3 < len(base.Pix); i += 4 {
		a := base.Pix[i+3]
		if a == 0 {
			continue
		}
		shadow.Pix[i] = mul8(cr, a)
		shadow.Pix[i+1] = mul8(cg, a)
		shadow.Pix[i+2] = mul8(cb, a)
		shadow.Pix[i+3] = mul8(ca, a)
	}
	filter.Blur(shadow, k.StdDevX*e.sx, k.StdDevY*e.sy)
	out := filter.Offset(shadow,
		int(math.Round(k.DX*e.sx)),
		int(math.Round(k.DY*e.sy)))
	filter.MergeOver(out, base)
	return out
}

// cropToImage copies a canvas window out of a premultiplied pixmap.
func cropToImage(pm *Pixmap, x0, y0, w, h, stride int) *filter.Image {
	img := filter.NewImage(w, h)
	data := pm.Data()
	for y := 0; y < h; y++ {
		si := ((y0+y)*stride + x0) * 4
		di := y * w * 4
		copy(img.Pix[di:di+w*4], data[si:si+w*4])
	}
	return img
}

// clipImageToRect zeroes buffer pixels outside a device-space rect. The
// buffer's origin on the canvas is (x0, y0).
func clipImageToRect(img *filter.Image, rect Rect, x0, y0 int) {
	rx0 := int(math.Floor(rect.Min.X)) - x0
	rx1 := int(math.Ceil(rect.Max.X)) - x0
	ry0 := int(math.Floor(rect.Min.Y)) - y0
	ry1 := int(math.Ceil(rect.Max.Y)) - y0
	for y := 0; y < img.H; y++ {
		inY := y >= ry0 && y < ry1
		for x := 0; x < img.W; x++ {
			if inY && x >= rx0 && x < rx1 {
				continue
			}
			i := (y*img.W + x) * 4
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 0, 0, 0, 0
		}
	}
}

package svg

import (
	"log/slog"
	"math"
)

// shader produces premultiplied source colors at device pixel centers.
type shader interface {
	at(x, y int) (r, g, b, a uint8)
}

// shader builds a shader for a resolved paint. opacity is the fill- or
// stroke-opacity, folded into the shader output. device maps the paint's
// user space to device space. A nil return means nothing to paint.
func (r *renderer) shader(p Paint, opacity float64, device Matrix) shader {
	if opacity <= 0 {
		return nil
	}
	switch p := p.(type) {
	case *SolidColor:
		c := p.Color.WithOpacity(opacity)
		if c.A <= 0 {
			return nil
		}
		sr, sg, sb, sa := c.Premultiply()
		return solidShader{sr, sg, sb, sa}
	case *LinearGradient:
		return newLinearShader(p, opacity, device)
	case *RadialGradient:
		return newRadialShader(p, opacity, device)
	case *Pattern:
		return r.newPatternShader(p, opacity, device)
	}
	return nil
}

type solidShader struct {
	r, g, b, a uint8
}

func (s solidShader) at(int, int) (uint8, uint8, uint8, uint8) {
	return s.r, s.g, s.b, s.a
}

// gradientLUTSize is the resolution of the precomputed color ramp. The
// ramp is sampled after the spread mode maps t into [0, 1], so one table
// covers all spread modes.
const gradientLUTSize = 256

type gradientShader struct {
	lut    [gradientLUTSize][4]uint8
	spread SpreadMode
	inv    Matrix // device space to gradient space

	linear bool
	origin Point
	// dir is (End-Start)/|End-Start|^2 so t is a plain dot product.
	dir Point

	center Point
	focal  Point
	radius float64
}

func newLinearShader(g *LinearGradient, opacity float64, device Matrix) shader {
	m := device.Multiply(g.Transform)
	if !m.IsInvertible() {
		return nil
	}
	d := g.End.Sub(g.Start)
	den := d.LengthSquared()
	if den <= 0 {
		// Zero-length axis paints the terminal stop everywhere.
		return lastStopShader(&g.BaseGradient, opacity)
	}
	sh := &gradientShader{
		spread: g.Spread,
		inv:    m.Invert(),
		linear: true,
		origin: g.Start,
		dir:    d.Mul(1 / den),
	}
	sh.buildLUT(&g.BaseGradient, opacity)
	return sh
}

func newRadialShader(g *RadialGradient, opacity float64, device Matrix) shader {
	m := device.Multiply(g.Transform)
	if !m.IsInvertible() {
		return nil
	}
	if g.R <= 0 {
		return lastStopShader(&g.BaseGradient, opacity)
	}
	sh := &gradientShader{
		spread: g.Spread,
		inv:    m.Invert(),
		center: g.Center,
		focal:  g.Focal,
		radius: g.R,
	}
	sh.buildLUT(&g.BaseGradient, opacity)
	return sh
}

func lastStopShader(g *BaseGradient, opacity float64) shader {
	if len(g.Stops) == 0 {
		return nil
	}
	c := g.Stops[len(g.Stops)-1].Color.WithOpacity(opacity)
	sr, sg, sb, sa := c.Premultiply()
	return solidShader{sr, sg, sb, sa}
}

func (s *gradientShader) buildLUT(g *BaseGradient, opacity float64) {
	for i := range s.lut {
		t := float64(i) / (gradientLUTSize - 1)
		c := g.ColorAt(t).WithOpacity(opacity)
		pr, pg, pb, pa := c.Premultiply()
		s.lut[i] = [4]uint8{pr, pg, pb, pa}
	}
}

func (s *gradientShader) at(x, y int) (uint8, uint8, uint8, uint8) {
	p := s.inv.TransformPoint(Pt(float64(x)+0.5, float64(y)+0.5))
	var t float64
	if s.linear {
		t = p.Sub(s.origin).Dot(s.dir)
	} else {
		t = radialT(p, s.center, s.focal, s.radius)
	}
	t = applySpread(t, s.spread)
	c := s.lut[int(t*(gradientLUTSize-1)+0.5)]
	return c[0], c[1], c[2], c[3]
}

// radialT returns the gradient parameter of p for a radial gradient with
// focal point f inside the circle (c, radius): the fraction of the
// distance from f to the circle, measured along the ray through p.
func radialT(p, c, f Point, radius float64) float64 {
	d := p.Sub(f)
	dist := d.Length()
	if dist < 1e-12 {
		return 0
	}
	u := d.Mul(1 / dist)
	fc := f.Sub(c)
	b := u.Dot(fc)
	disc := b*b - (fc.LengthSquared() - radius*radius)
	if disc <= 0 {
		return 1
	}
	s := -b + math.Sqrt(disc)
	if s <= 1e-12 {
		return 1
	}
	return dist / s
}

// maxPatternTile caps tile buffer dimensions; beyond this the tile
// renders at reduced resolution and upsamples during sampling.
const maxPatternTile = 2048

type patternShader struct {
	tile    *Pixmap
	inv     Matrix // device space to pattern space
	rect    Rect
	resX    float64 // tile pixels per pattern unit
	resY    float64
	opacity uint8
}

func (r *renderer) newPatternShader(p *Pattern, opacity float64, device Matrix) shader {
	m := device.Multiply(p.Transform)
	if !m.IsInvertible() {
		return nil
	}
	if p.Rect.Width() <= 0 || p.Rect.Height() <= 0 || p.Root == nil {
		return nil
	}
	sx, sy := m.ScaleFactors()
	tw := clampTile(int(math.Ceil(p.Rect.Width() * sx)))
	th := clampTile(int(math.Ceil(p.Rect.Height() * sy)))
	resX := float64(tw) / p.Rect.Width()
	resY := float64(th) / p.Rect.Height()

	key := tileKey{id: p.ID, w: tw, h: th}
	tile, ok := r.tiles[key]
	if !ok {
		tile = r.renderPatternTile(p, tw, th, resX, resY)
		r.tiles[key] = tile
		Logger().Debug("pattern tile",
			slog.String("id", p.ID),
			slog.Int("width", tw),
			slog.Int("height", th))
	}
	return &patternShader{
		tile:    tile,
		inv:     m.Invert(),
		rect:    p.Rect,
		resX:    resX,
		resY:    resY,
		opacity: uint8(opacity*255 + 0.5),
	}
}

// renderPatternTile renders one tile of pattern content. Tiles render
// single-threaded; the outer render already parallelizes across rows.
func (r *renderer) renderPatternTile(p *Pattern, tw, th int, resX, resY float64) *Pixmap {
	sub := &renderer{
		tree:    r.tree,
		opts:    r.opts,
		workers: 1,
		width:   tw,
		height:  th,
		tiles:   r.tiles,
	}
	tf := Scale(resX, resY).
		Multiply(Translate(-p.Rect.Min.X, -p.Rect.Min.Y)).
		Multiply(p.ContentTransform)
	tile := NewPixmap(tw, th)
	sub.renderNode(p.Root, tf, nil, tile)
	return tile
}

func (s *patternShader) at(x, y int) (uint8, uint8, uint8, uint8) {
	q := s.inv.TransformPoint(Pt(float64(x)+0.5, float64(y)+0.5))
	u := math.Mod(q.X-s.rect.Min.X, s.rect.Width())
	if u < 0 {
		u += s.rect.Width()
	}
	v := math.Mod(q.Y-s.rect.Min.Y, s.rect.Height())
	if v < 0 {
		v += s.rect.Height()
	}
	px := clampPix(int(u*s.resX), s.tile.Width())
	py := clampPix(int(v*s.resY), s.tile.Height())
	data := s.tile.Data()
	i := (py*s.tile.Width() + px) * 4
	pr, pg, pb, pa := data[i], data[i+1], data[i+2], data[i+3]
	if s.opacity < 255 {
		pr = mul8(pr, s.opacity)
		pg = mul8(pg, s.opacity)
		pb = mul8(pb, s.opacity)
		pa = mul8(pa, s.opacity)
	}
	return pr, pg, pb, pa
}

func clampTile(v int) int {
	if v < 1 {
		return 1
	}
	if v > maxPatternTile {
		return maxPatternTile
	}
	return v
}

func clampPix(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

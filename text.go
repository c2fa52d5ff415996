package svg

import (
	"bytes"
	"image"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/tiff"
	"golang.org/x/text/unicode/bidi"
)

// shaperPool pools HarfbuzzShaper instances. The shaper keeps internal
// buffers and is not safe for concurrent use, but reuse across calls
// avoids reallocating them.
var shaperPool = sync.Pool{
	New: func() any {
		return &shaping.HarfbuzzShaper{}
	},
}

// convertText flattens a text element into a group of path nodes, one
// per styled span. Downstream stages never see text: glyph outlines are
// ordinary path geometry by the time normalization finishes.
func (n *normalizer) convertText(el *Element, st style) Node {
	if n.opts.Fonts == nil || n.opts.Fonts.Len() == 0 {
		Logger().Debug("svg: text skipped, no fonts loaded", "id", el.ID)
		return nil
	}

	g := &Group{
		ID:        el.ID,
		Transform: parseTransform(el.Attr("transform")),
		Opacity:   1,
		ClipPath:  -1,
		Mask:      -1,
	}

	tl := &textLayout{n: n}
	tl.startChunk(Point{
		X: n.lengthAttr(el, "x", axisX, 0),
		Y: n.lengthAttr(el, "y", axisY, 0),
	}, st.textAnchor)
	tl.pen = tl.pen.Add(Point{
		X: n.lengthAttr(el, "dx", axisX, 0),
		Y: n.lengthAttr(el, "dy", axisY, 0),
	})
	tl.element(el, st)
	tl.flushChunk()

	for _, node := range tl.out {
		g.Children = append(g.Children, node)
	}
	if len(g.Children) == 0 {
		return nil
	}
	local := computeGroupBBox(g)
	if !n.attachEffects(g, el, st, local) {
		return nil
	}
	return g
}

// textLayout walks text content, shaping spans at a moving pen position
// and grouping them into anchor chunks. A chunk starts wherever an
// explicit x or y coordinate appears and is shifted as a whole when the
// anchor is middle or end.
type textLayout struct {
	n   *normalizer
	pen Point
	out []Node

	chunk        []Node
	chunkStart   Point
	chunkAnchor  textAnchor
	chunkAdvance float64
	chunkRTL     bool
}

func (tl *textLayout) startChunk(pos Point, anchor textAnchor) {
	tl.flushChunk()
	tl.pen = pos
	tl.chunkStart = pos
	tl.chunkAnchor = anchor
	tl.chunkAdvance = 0
	tl.chunkRTL = false
}

// flushChunk applies the anchor shift and emits the chunk's nodes.
func (tl *textLayout) flushChunk() {
	if len(tl.chunk) == 0 {
		return
	}
	shift := 0.0
	switch tl.chunkAnchor {
	case anchorMiddle:
		shift = -tl.chunkAdvance / 2
	case anchorEnd:
		shift = -tl.chunkAdvance
	}
	// Right-to-left chunks extend leftward from the anchor point, so
	// start and end swap.
	if tl.chunkRTL {
		switch tl.chunkAnchor {
		case anchorStart:
			shift = -tl.chunkAdvance
		case anchorEnd:
			shift = 0
		}
	}
	for _, node := range tl.chunk {
		switch t := node.(type) {
		case *PathNode:
			if shift != 0 {
				t.Path = t.Path.Transform(Translate(shift, 0))
				t.ObjectBBox = t.Path.Bounds()
			}
			b := t.ObjectBBox
			if t.Stroke.Paint != nil {
				b = t.Path.StrokeBounds(&t.Stroke)
			}
			t.BBox = b
		case *Group:
			if shift != 0 {
				t.Transform = Translate(shift, 0).Multiply(t.Transform)
				t.BBox = Translate(shift, 0).TransformRect(t.BBox)
			}
		case *ImageNode:
			if shift != 0 {
				t.Transform = Translate(shift, 0).Multiply(t.Transform)
				t.BBox = Translate(shift, 0).TransformRect(t.BBox)
			}
		}
		tl.out = append(tl.out, node)
	}
	tl.chunk = tl.chunk[:0]
}

// element lays out an element's own character data, then its tspan
// children.
func (tl *textLayout) element(el *Element, st style) {
	if text := collapseWhitespace(el.Text); text != "" {
		tl.span(text, st)
	}
	for _, child := range el.Children {
		if child.Kind != KindTSpan {
			continue
		}
		if child.Attr("display") == "none" {
			continue
		}
		cst := st.apply(child, tl.n.ctx)

		_, hasX := child.Attrs["x"]
		_, hasY := child.Attrs["y"]
		if hasX || hasY {
			pos := tl.pen
			if hasX {
				pos.X = tl.n.lengthAttr(child, "x", axisX, pos.X)
			}
			if hasY {
				pos.Y = tl.n.lengthAttr(child, "y", axisY, pos.Y)
			}
			tl.startChunk(pos, cst.textAnchor)
		}
		tl.pen = tl.pen.Add(Point{
			X: tl.n.lengthAttr(child, "dx", axisX, 0),
			Y: tl.n.lengthAttr(child, "dy", axisY, 0),
		})
		tl.element(child, cst)
	}
}

// span shapes one run of text in one style and appends its glyph
// outlines as a path node at the current pen position.
func (tl *textLayout) span(text string, st style) {
	if !st.visible {
		return
	}
	face := tl.n.opts.Fonts.Match(st.fontFamily, st.fontWeight, st.fontItalic)
	if face == nil {
		return
	}

	runes := []rune(text)
	rtl := baseDirectionRTL(text)
	dir := di.DirectionLTR
	if rtl {
		dir = di.DirectionRTL
		tl.chunkRTL = true
	}

	tface := font.NewFace(face.shaped)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      tface,
		Size:      fixed.Int26_6(st.fontSize * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	hb := shaperPool.Get().(*shaping.HarfbuzzShaper)
	output := hb.Shape(input)
	shaperPool.Put(hb)

	path := NewPath()
	var buf sfnt.Buffer
	ppem := fixed.Int26_6(st.fontSize * 64)

	// flushPath emits the accumulated monochrome outlines before a color
	// or bitmap glyph node so paint order follows glyph order.
	flushPath := func() {
		if path.IsEmpty() {
			return
		}
		node := &PathNode{
			Path:       path,
			Transform:  Identity(),
			ObjectBBox: path.Bounds(),
		}
		node.Fill = tl.n.resolveFill(st, node.ObjectBBox)
		node.Stroke = tl.n.resolveStroke(st, node.ObjectBBox)
		if node.Fill.Paint != nil || node.Stroke.Paint != nil {
			tl.chunk = append(tl.chunk, node)
		}
		path = NewPath()
	}

	for _, glyph := range output.Glyphs {
		gx := tl.pen.X + fixedToFloat(glyph.XOffset)
		gy := tl.pen.Y + fixedToFloat(glyph.YOffset)

		if layers := face.colr.glyphLayers(uint16(glyph.GlyphID)); layers != nil {
			if node := tl.colorGlyphGroup(face, layers, st, &buf, ppem, gx, gy); node != nil {
				flushPath()
				tl.chunk = append(tl.chunk, node)
			}
		} else if bm, ok := tface.GlyphData(glyph.GlyphID).(font.GlyphBitmap); ok {
			if node := bitmapGlyphNode(bm, fixedToFloat(glyph.Advance), gx, gy); node != nil {
				flushPath()
				tl.chunk = append(tl.chunk, node)
			}
		} else {
			appendGlyphOutline(path, face.sf, &buf, uint16(glyph.GlyphID), ppem, gx, gy)
		}
		tl.pen.X += fixedToFloat(glyph.Advance)
		tl.chunkAdvance += fixedToFloat(glyph.Advance)
	}
	flushPath()
}

// colorGlyphGroup lowers a COLR color glyph to a group of solid-colored
// path nodes, one per layer. Foreground layers take the span's fill.
func (tl *textLayout) colorGlyphGroup(face *FontFace, layers []colrLayer, st style, buf *sfnt.Buffer, ppem fixed.Int26_6, dx, dy float64) Node {
	g := &Group{Transform: Identity(), Opacity: 1, ClipPath: -1, Mask: -1}
	for _, layer := range layers {
		p := NewPath()
		appendGlyphOutline(p, face.sf, buf, layer.gid, ppem, dx, dy)
		if p.IsEmpty() {
			continue
		}
		node := &PathNode{Path: p, Transform: Identity(), ObjectBBox: p.Bounds()}
		if layer.foreground {
			node.Fill = tl.n.resolveFill(st, node.ObjectBBox)
		} else {
			node.Fill = Fill{
				Paint:   &SolidColor{Color: layer.color},
				Rule:    FillRuleNonZero,
				Opacity: 1,
			}
		}
		if node.Fill.Paint == nil {
			continue
		}
		node.BBox = node.ObjectBBox
		g.Children = append(g.Children, node)
	}
	if len(g.Children) == 0 {
		return nil
	}
	computeGroupBBox(g)
	return g
}

// bitmapGlyphNode lowers a bitmap glyph to an image node occupying the
// advance width, sitting on the baseline with the strike's pixel aspect.
func bitmapGlyphNode(bm font.GlyphBitmap, adv, dx, dy float64) Node {
	switch bm.Format {
	case font.PNG, font.JPG, font.TIFF:
	default:
		// Uncompressed strike formats are rare; skip them.
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(bm.Data))
	if err != nil {
		return nil
	}
	pix := FromImage(img)
	if adv <= 0 || pix.Width() == 0 || pix.Height() == 0 {
		return nil
	}
	w := adv
	h := adv * float64(pix.Height()) / float64(pix.Width())
	x0 := dx
	y0 := dy - h
	node := &ImageNode{
		Pixels:    pix,
		Transform: Identity(),
		Content: Translate(x0, y0).Multiply(
			Scale(w/float64(pix.Width()), h/float64(pix.Height()))),
		Rect:   RectXYWH(x0, y0, w, h),
		Smooth: true,
	}
	node.BBox = node.Rect
	return node
}

// appendGlyphOutline loads a glyph's outline and appends it to path,
// translated to (dx, dy). Missing outlines are skipped.
func appendGlyphOutline(path *Path, f *sfnt.Font, buf *sfnt.Buffer, gid uint16, ppem fixed.Int26_6, dx, dy float64) {
	segs, err := f.LoadGlyph(buf, sfnt.GlyphIndex(gid), ppem, nil)
	if err != nil || len(segs) == 0 {
		return
	}
	started := false
	pt := func(p fixed.Point26_6) (float64, float64) {
		return dx + float64(p.X)/64, dy + float64(p.Y)/64
	}
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if started {
				path.Close()
			}
			x, y := pt(seg.Args[0])
			path.MoveTo(x, y)
			started = true
		case sfnt.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			path.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			x, y := pt(seg.Args[1])
			path.QuadraticTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			x, y := pt(seg.Args[2])
			path.CubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if started {
		path.Close()
	}
}

// baseDirectionRTL reports whether the paragraph base direction of the
// text is right-to-left per the Unicode bidi algorithm.
func baseDirectionRTL(text string) bool {
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return false
	}
	// Order computes the embedding levels; Direction reads them.
	if _, err := p.Order(); err != nil {
		return false
	}
	return p.Direction() == bidi.RightToLeft
}

// detectScript returns the script of the first non-space rune, which
// decides shaping behavior for the run.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// collapseWhitespace folds runs of XML whitespace into single spaces,
// the default xml:space handling.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

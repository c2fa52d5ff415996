package svg

import (
	"strings"
)

// resolveFill builds a shape's fill from the cascaded style.
// A nil Paint means the shape is not filled.
func (n *normalizer) resolveFill(st style, bbox Rect) Fill {
	paint := n.resolvePaint(st.fill, st, bbox)
	return Fill{Paint: paint, Rule: st.fillRule, Opacity: st.fillOpacity}
}

// resolveStroke builds a shape's stroke from the cascaded style.
// A nil Paint or non-positive width means the shape is not stroked.
func (n *normalizer) resolveStroke(st style, bbox Rect) Stroke {
	s := Stroke{
		Width:      st.strokeWidth,
		Cap:        st.strokeCap,
		Join:       st.strokeJoin,
		MiterLimit: st.miterLimit,
		Opacity:    st.strokeOpacity,
	}
	if st.strokeWidth <= 0 {
		return s
	}
	s.Paint = n.resolvePaint(st.stroke, st, bbox)
	if s.Paint == nil {
		return s
	}
	if len(st.dashArray) > 0 {
		s.Dash = NewDash(st.dashArray...)
		if s.Dash != nil {
			s.Dash = s.Dash.WithOffset(st.dashOffset)
		}
	}
	return s
}

// resolvePaint resolves a paint specification to a concrete Paint.
// Reference paints fall back to the optional trailing fallback color when
// the referenced server is missing or degenerate.
func (n *normalizer) resolvePaint(spec string, st style, bbox Rect) Paint {
	spec = strings.TrimSpace(spec)
	switch {
	case spec == "" || spec == "none":
		return nil
	case spec == "currentColor":
		return &SolidColor{Color: st.color}
	case strings.HasPrefix(spec, "url("):
		ref, ok := parseURLRef(spec)
		if !ok {
			return nil
		}
		fallback := ""
		if i := strings.IndexByte(spec, ')'); i >= 0 {
			fallback = strings.TrimSpace(spec[i+1:])
		}
		if p := n.resolvePaintServer(ref, st, bbox); p != nil {
			return p
		}
		if fallback != "" && fallback != "none" {
			return n.resolvePaint(fallback, st, bbox)
		}
		return nil
	}
	if c, ok := parseColor(spec); ok {
		return &SolidColor{Color: c}
	}
	return nil
}

// resolvePaintServer resolves a gradient or pattern reference.
func (n *normalizer) resolvePaintServer(id string, st style, bbox Rect) Paint {
	el := n.doc.ElementByID(id)
	if el == nil {
		Logger().Warn("svg: broken paint reference", "href", id)
		return nil
	}
	if n.states[el] == stateResolving {
		Logger().Warn("svg: paint reference cycle", "id", id)
		return nil
	}
	n.states[el] = stateResolving
	defer func() { n.states[el] = stateResolved }()

	switch el.Kind {
	case KindLinearGradient, KindRadialGradient:
		return n.resolveGradient(el, st, bbox)
	case KindPattern:
		return n.resolvePattern(el, st, bbox)
	}
	return nil
}

// gradientAttr looks up an attribute along the gradient's href template
// chain, nearest definition wins.
func (n *normalizer) gradientAttr(el *Element, name string) (string, bool) {
	for depth := 0; el != nil && depth < maxHrefDepth; depth++ {
		if v, ok := el.Attrs[name]; ok {
			return v, true
		}
		el = n.hrefTemplate(el)
	}
	return "", false
}

// hrefTemplate resolves an element's href to another gradient or pattern
// definition.
func (n *normalizer) hrefTemplate(el *Element) *Element {
	href := el.Href()
	if href == "" {
		return nil
	}
	t := n.doc.ElementByID(href)
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KindLinearGradient, KindRadialGradient, KindPattern:
		return t
	}
	return nil
}

// gradientStops collects stop children, walking the href chain when the
// element itself declares none.
func (n *normalizer) gradientStops(el *Element, st style) []ColorStop {
	for depth := 0; el != nil && depth < maxHrefDepth; depth++ {
		var stops []ColorStop
		for _, child := range el.Children {
			if child.Kind != KindStop {
				continue
			}
			stops = append(stops, n.buildStop(child, st))
		}
		if len(stops) > 0 {
			return normalizeStops(stops)
		}
		el = n.hrefTemplate(el)
	}
	return nil
}

func (n *normalizer) buildStop(el *Element, st style) ColorStop {
	stop := ColorStop{Color: Black}
	if v, ok := parseNumber(strings.TrimSuffix(el.Attr("offset"), "%")); ok {
		if strings.HasSuffix(strings.TrimSpace(el.Attr("offset")), "%") {
			v /= 100
		}
		stop.Offset = clamp01(v)
	}
	spec := strings.TrimSpace(el.Attr("stop-color"))
	if spec == "currentColor" {
		stop.Color = st.color
	} else if c, ok := parseColor(spec); ok {
		stop.Color = c
	}
	if v, ok := parseOpacity(el.Attr("stop-opacity")); ok {
		stop.Color = stop.Color.WithOpacity(stop.Color.A * v)
	}
	return stop
}

// resolveGradient builds a concrete gradient in user space.
// Degenerate geometry and single-stop gradients collapse to solid paint.
func (n *normalizer) resolveGradient(el *Element, st style, bbox Rect) Paint {
	stops := n.gradientStops(el, st)
	if len(stops) == 0 {
		return nil
	}
	if len(stops) == 1 {
		return &SolidColor{Color: stops[0].Color}
	}

	objectUnits := true
	if v, ok := n.gradientAttr(el, "gradientUnits"); ok && v == "userSpaceOnUse" {
		objectUnits = false
	}
	if objectUnits && (bbox.Width() <= 0 || bbox.Height() <= 0) {
		// Zero-area bounding box makes the gradient undefined.
		return &SolidColor{Color: stops[len(stops)-1].Color}
	}

	base := BaseGradient{
		Stops:     stops,
		Spread:    n.gradientSpread(el),
		Transform: Identity(),
		// No SVG syntax declares premultiplied stop interpolation, so
		// parsed gradients always interpolate straight alpha.
		PremultipliedInterp: false,
	}
	if v, ok := n.gradientAttr(el, "gradientTransform"); ok {
		base.Transform = parseTransform(v)
	}
	if objectUnits {
		// Map the unit square onto the object bounding box.
		unit := Translate(bbox.Min.X, bbox.Min.Y).Multiply(Scale(bbox.Width(), bbox.Height()))
		base.Transform = unit.Multiply(base.Transform)
	}
	if !base.Transform.IsInvertible() {
		return &SolidColor{Color: stops[len(stops)-1].Color}
	}

	coord := func(name string, axis lengthAxis, def float64) float64 {
		v, ok := n.gradientAttr(el, name)
		if !ok {
			return def
		}
		l, ok := parseLength(v)
		if !ok {
			return def
		}
		if objectUnits {
			// Fractions of the bounding box; percentages scale down.
			if l.Unit == UnitPercent {
				return l.Value / 100
			}
			return l.Value
		}
		return n.ctx.resolve(l, axis)
	}

	if el.Kind == KindLinearGradient {
		g := &LinearGradient{
			BaseGradient: base,
			Start:        Point{X: coord("x1", axisX, 0), Y: coord("y1", axisY, 0)},
			End:          Point{X: coord("x2", axisX, defIf(objectUnits, 1, n.ctx.viewport.X)), Y: coord("y2", axisY, 0)},
		}
		if g.Start == g.End {
			return &SolidColor{Color: stops[len(stops)-1].Color}
		}
		return g
	}

	cx := coord("cx", axisX, defIf(objectUnits, 0.5, n.ctx.viewport.X/2))
	cy := coord("cy", axisY, defIf(objectUnits, 0.5, n.ctx.viewport.Y/2))
	r := coord("r", axisDiag, defIf(objectUnits, 0.5, n.ctx.resolve(Length{Value: 50, Unit: UnitPercent}, axisDiag)))
	if r <= 0 {
		return &SolidColor{Color: stops[len(stops)-1].Color}
	}
	g := &RadialGradient{
		BaseGradient: base,
		Center:       Point{X: cx, Y: cy},
		Focal:        Point{X: coord("fx", axisX, cx), Y: coord("fy", axisY, cy)},
		R:            r,
	}
	// Focal points outside the end circle are pulled onto its edge.
	d := g.Focal.Sub(g.Center)
	if l := d.Length(); l > g.R {
		g.Focal = g.Center.Add(d.Mul(g.R / l * 0.999))
	}
	return g
}

func (n *normalizer) gradientSpread(el *Element) SpreadMode {
	v, _ := n.gradientAttr(el, "spreadMethod")
	switch v {
	case "reflect":
		return SpreadReflect
	case "repeat":
		return SpreadRepeat
	}
	return SpreadPad
}

func defIf(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// resolvePattern builds a pattern paint with its tile content converted
// into a render subtree.
func (n *normalizer) resolvePattern(el *Element, st style, bbox Rect) Paint {
	coord := func(name string, axis lengthAxis, objectUnits bool, def float64) float64 {
		v, ok := n.gradientAttr(el, name)
		if !ok {
			return def
		}
		l, ok := parseLength(v)
		if !ok {
			return def
		}
		if objectUnits {
			frac := l.Value
			if l.Unit == UnitPercent {
				frac /= 100
			}
			if axis == axisY {
				return bbox.Min.Y + frac*bbox.Height()
			}
			return bbox.Min.X + frac*bbox.Width()
		}
		return n.ctx.resolve(l, axis)
	}
	sizeCoord := func(name string, axis lengthAxis, objectUnits bool) float64 {
		v, ok := n.gradientAttr(el, name)
		if !ok {
			return 0
		}
		l, ok := parseLength(v)
		if !ok {
			return 0
		}
		if objectUnits {
			frac := l.Value
			if l.Unit == UnitPercent {
				frac /= 100
			}
			if axis == axisY {
				return frac * bbox.Height()
			}
			return frac * bbox.Width()
		}
		return n.ctx.resolve(l, axis)
	}

	objectUnits := true
	if v, ok := n.gradientAttr(el, "patternUnits"); ok && v == "userSpaceOnUse" {
		objectUnits = false
	}
	contentObjectUnits := false
	if v, ok := n.gradientAttr(el, "patternContentUnits"); ok && v == "objectBoundingBox" {
		contentObjectUnits = true
	}

	x := coord("x", axisX, objectUnits, defIf(objectUnits, bbox.Min.X, 0))
	y := coord("y", axisY, objectUnits, defIf(objectUnits, bbox.Min.Y, 0))
	w := sizeCoord("width", axisX, objectUnits)
	h := sizeCoord("height", axisY, objectUnits)
	if w <= 0 || h <= 0 {
		return nil
	}

	pat := &Pattern{
		ID:               el.ID,
		Rect:             RectXYWH(x, y, w, h),
		Transform:        Identity(),
		ContentTransform: Identity(),
	}
	if v, ok := n.gradientAttr(el, "patternTransform"); ok {
		pat.Transform = parseTransform(v)
	}
	if !pat.Transform.IsInvertible() {
		return nil
	}

	vbAttr, _ := n.gradientAttr(el, "viewBox")
	if vb, ok := parseViewBox(vbAttr); ok {
		arAttr, _ := n.gradientAttr(el, "preserveAspectRatio")
		ar := parsePreserveAspectRatio(arAttr)
		pat.ContentTransform = viewBoxTransform(vb, Point{X: w, Y: h}, ar)
	} else if contentObjectUnits {
		pat.ContentTransform = Scale(bbox.Width(), bbox.Height())
	}

	content := el
	for depth := 0; content != nil && depth < maxHrefDepth; depth++ {
		has := false
		for _, c := range content.Children {
			if c.Kind != KindStop {
				has = true
				break
			}
		}
		if has {
			break
		}
		content = n.hrefTemplate(content)
	}
	if content == nil {
		return nil
	}

	root := &Group{Transform: Identity(), Opacity: 1, ClipPath: -1, Mask: -1}
	n.convertChildren(content, defaultStyle(n.opts.FontSize), root, 0)
	if len(root.Children) == 0 {
		return nil
	}
	computeGroupBBox(root)
	pat.Root = root
	return pat
}

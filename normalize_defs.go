package svg

// resolveClipPath resolves a clipPath reference to an index into
// Tree.ClipPaths, or -1 when the reference is broken. bbox is the
// referencing element's bounding box, used for objectBoundingBox units.
func (n *normalizer) resolveClipPath(id string, bbox Rect) int {
	el := n.doc.ElementByID(id)
	if el == nil || el.Kind != KindClipPath {
		Logger().Warn("svg: broken clip-path reference", "href", id)
		return -1
	}
	if n.states[el] == stateResolving {
		Logger().Warn("svg: clip-path reference cycle", "id", id)
		return -1
	}
	if idx, ok := n.clipIndex[el]; ok && el.Attr("clipPathUnits") != "objectBoundingBox" {
		return idx
	}
	n.states[el] = stateResolving
	defer func() { n.states[el] = stateResolved }()

	cp := ClipPath{
		Transform: parseTransform(el.Attr("transform")),
		Clip:      -1,
	}
	if el.Attr("clipPathUnits") == "objectBoundingBox" {
		unit := Translate(bbox.Min.X, bbox.Min.Y).Multiply(Scale(bbox.Width(), bbox.Height()))
		cp.Transform = unit.Multiply(cp.Transform)
	}
	if ref, ok := parseURLRef(el.Attr("clip-path")); ok {
		cp.Clip = n.resolveClipPath(ref, bbox)
	}

	for _, child := range el.Children {
		n.appendClipShapes(&cp, child, Identity(), 0)
	}

	idx := len(n.tree.ClipPaths)
	n.tree.ClipPaths = append(n.tree.ClipPaths, cp)
	if el.Attr("clipPathUnits") != "objectBoundingBox" {
		n.clipIndex[el] = idx
	}
	return idx
}

// appendClipShapes lowers a clipPath child to clip shapes. Only shapes,
// text and use are valid clip content; groups nested via use flatten
// their transforms into the shape transform.
func (n *normalizer) appendClipShapes(cp *ClipPath, el *Element, parent Matrix, depth int) {
	if el.Attr("display") == "none" || depth >= maxUseDepth {
		return
	}
	tf := parent.Multiply(parseTransform(el.Attr("transform")))

	switch el.Kind {
	case KindUse:
		target := n.doc.ElementByID(el.Href())
		if target == nil || n.states[target] == stateResolving {
			return
		}
		n.states[target] = stateResolving
		x := n.lengthAttr(el, "x", axisX, 0)
		y := n.lengthAttr(el, "y", axisY, 0)
		n.appendClipShapes(cp, target, tf.Multiply(Translate(x, y)), depth+1)
		n.states[target] = stateResolved
	case KindText:
		st := defaultStyle(n.opts.FontSize).apply(el, n.ctx)
		if node := n.convertText(el, st); node != nil {
			collectClipPaths(cp, node, tf, clipRule(el))
		}
	case KindPath, KindRect, KindCircle, KindEllipse, KindLine, KindPolyline, KindPolygon:
		p := n.shapePath(el)
		if p == nil || p.IsEmpty() {
			return
		}
		cp.Paths = append(cp.Paths, ClipShape{Path: p, Transform: tf, Rule: clipRule(el)})
	}
}

// collectClipPaths flattens a text subtree into clip shapes.
func collectClipPaths(cp *ClipPath, node Node, tf Matrix, rule FillRule) {
	switch t := node.(type) {
	case *Group:
		tf = tf.Multiply(t.Transform)
		for _, c := range t.Children {
			collectClipPaths(cp, c, tf, rule)
		}
	case *PathNode:
		cp.Paths = append(cp.Paths, ClipShape{
			Path:      t.Path,
			Transform: tf.Multiply(t.Transform),
			Rule:      rule,
		})
	}
}

func clipRule(el *Element) FillRule {
	if el.Attr("clip-rule") == "evenodd" {
		return FillRuleEvenOdd
	}
	return FillRuleNonZero
}

// resolveMask resolves a mask reference to an index into Tree.Masks, or
// -1 when the reference is broken. bbox is the referencing element's
// bounding box for objectBoundingBox units.
func (n *normalizer) resolveMask(id string, bbox Rect) int {
	el := n.doc.ElementByID(id)
	if el == nil || el.Kind != KindMask {
		Logger().Warn("svg: broken mask reference", "href", id)
		return -1
	}
	if n.states[el] == stateResolving {
		Logger().Warn("svg: mask reference cycle", "id", id)
		return -1
	}
	n.states[el] = stateResolving
	defer func() { n.states[el] = stateResolved }()

	m := Mask{Mode: MaskLuminance, Mask: -1}
	if el.Attr("mask-type") == "alpha" {
		m.Mode = MaskAlpha
	}

	// maskUnits defaults to objectBoundingBox with a region of
	// -10% .. 120% of the bounding box on each axis.
	objectUnits := el.Attr("maskUnits") != "userSpaceOnUse"
	m.Rect = n.regionRect(el, bbox, objectUnits, Rect{
		Min: Point{X: -0.1, Y: -0.1},
		Max: Point{X: 1.1, Y: 1.1},
	})
	if m.Rect.IsEmpty() {
		return -1
	}

	contentTransform := Identity()
	if el.Attr("maskContentUnits") == "objectBoundingBox" {
		contentTransform = Translate(bbox.Min.X, bbox.Min.Y).Multiply(Scale(bbox.Width(), bbox.Height()))
	}

	root := &Group{Transform: contentTransform, Opacity: 1, ClipPath: -1, Mask: -1}
	n.convertChildren(el, defaultStyle(n.opts.FontSize), root, 0)
	if len(root.Children) == 0 {
		return -1
	}
	computeGroupBBox(root)
	m.Root = root

	if ref, ok := parseURLRef(el.Attr("mask")); ok {
		m.Mask = n.resolveMask(ref, bbox)
	}

	idx := len(n.tree.Masks)
	n.tree.Masks = append(n.tree.Masks, m)
	return idx
}

// regionRect resolves an x/y/width/height region given in either
// bounding-box fractions or user units. def holds the default region as
// bounding-box fractions.
func (n *normalizer) regionRect(el *Element, bbox Rect, objectUnits bool, def Rect) Rect {
	get := func(name string, axis lengthAxis, defFrac float64) float64 {
		l, ok := parseLength(el.Attr(name))
		if !ok {
			if objectUnits {
				return defFrac
			}
			// User-space defaults still derive from the bounding box.
			switch axis {
			case axisY:
				return bbox.Min.Y + defFrac*bbox.Height()
			default:
				return bbox.Min.X + defFrac*bbox.Width()
			}
		}
		if objectUnits {
			if l.Unit == UnitPercent {
				return l.Value / 100
			}
			return l.Value
		}
		return n.ctx.resolve(l, axis)
	}
	getSize := func(name string, axis lengthAxis, defFrac float64) float64 {
		l, ok := parseLength(el.Attr(name))
		if !ok {
			if objectUnits {
				return defFrac
			}
			if axis == axisY {
				return defFrac * bbox.Height()
			}
			return defFrac * bbox.Width()
		}
		if objectUnits {
			if l.Unit == UnitPercent {
				return l.Value / 100
			}
			return l.Value
		}
		return n.ctx.resolve(l, axis)
	}

	x := get("x", axisX, def.Min.X)
	y := get("y", axisY, def.Min.Y)
	w := getSize("width", axisX, def.Width())
	h := getSize("height", axisY, def.Height())
	if w <= 0 || h <= 0 {
		return Rect{}
	}
	if objectUnits {
		return RectXYWH(
			bbox.Min.X+x*bbox.Width(),
			bbox.Min.Y+y*bbox.Height(),
			w*bbox.Width(),
			h*bbox.Height(),
		)
	}
	return RectXYWH(x, y, w, h)
}

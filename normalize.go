package svg

import (
	"strings"
)

// resolveState tracks reference resolution per definition element.
// Resolving marks elements on the current resolution path; revisiting one
// means a reference cycle, which is broken by treating the inner
// reference as missing.
type resolveState int

const (
	statePending resolveState = iota
	stateResolving
	stateResolved
)

// maxUseDepth bounds expansion of self-referential use chains.
// Expansion fails closed (stops) past the limit.
const maxUseDepth = 16

// maxHrefDepth bounds gradient/pattern href template chains.
const maxHrefDepth = 8

// Normalize converts a parsed Document into a render Tree.
// All references are resolved to table indices, inherited properties are
// cascaded, units become absolute user units, and bounding boxes are
// computed bottom-up. Broken references and degenerate geometry degrade
// per-element.
func Normalize(doc *Document, opts *ParseOptions) (*Tree, error) {
	if doc == nil || doc.Root == nil {
		return nil, ErrEmptyDocument
	}
	o := opts.withDefaults()

	n := &normalizer{
		doc:         doc,
		opts:        o,
		states:      make(map[*Element]resolveState),
		clipIndex:   make(map[*Element]int),
		maskIndex:   make(map[*Element]int),
		filterIndex: make(map[*Element]int),
		tree:        &Tree{},
	}

	size, viewBox := n.documentViewport(doc.Root)
	n.ctx = unitContext{dpi: o.DPI, viewport: size, fontSize: o.FontSize}
	if !viewBox.IsEmpty() {
		// Percentages inside the document resolve against the viewBox.
		n.ctx.viewport = Point{X: viewBox.Width(), Y: viewBox.Height()}
	}

	root := &Group{
		Transform: Identity(),
		Opacity:   1,
		ClipPath:  -1,
		Mask:      -1,
	}
	if !viewBox.IsEmpty() {
		ar := parsePreserveAspectRatio(doc.Root.Attr("preserveAspectRatio"))
		root.Transform = viewBoxTransform(viewBox, size, ar)
	}

	n.convertChildren(doc.Root, defaultStyle(o.FontSize), root, 0)
	computeGroupBBox(root)

	n.tree.Root = root
	n.tree.Size = size
	n.tree.ViewBox = viewBox
	return n.tree, nil
}

type normalizer struct {
	doc  *Document
	opts ParseOptions
	ctx  unitContext
	tree *Tree

	states      map[*Element]resolveState
	clipIndex   map[*Element]int
	maskIndex   map[*Element]int
	filterIndex map[*Element]int
}

// documentViewport derives the viewport size and viewBox of the root svg
// element.
func (n *normalizer) documentViewport(root *Element) (Point, Rect) {
	viewBox, hasVB := parseViewBox(root.Attr("viewBox"))

	base := n.opts.DefaultSize
	if hasVB {
		base = Point{X: viewBox.Width(), Y: viewBox.Height()}
	}
	ctx := unitContext{dpi: n.opts.DPI, viewport: base, fontSize: n.opts.FontSize}

	size := base
	if l, ok := parseLength(root.Attr("width")); ok {
		size.X = ctx.resolve(l, axisX)
	}
	if l, ok := parseLength(root.Attr("height")); ok {
		size.Y = ctx.resolve(l, axisY)
	}
	if size.X <= 0 || size.Y <= 0 {
		size = base
	}
	if !hasVB {
		return size, Rect{}
	}
	return size, viewBox
}

// convertChildren converts child elements in document order, appending
// render nodes to g. Output order is the painter's-algorithm ordering the
// rasterizer depends on.
func (n *normalizer) convertChildren(parent *Element, st style, g *Group, depth int) {
	for _, el := range parent.Children {
		if node := n.convertElement(el, st, depth); node != nil {
			g.Children = append(g.Children, node)
		}
	}
}

// convertElement converts one element into a render node, or nil when the
// element does not render (defs, definitions, hidden or degenerate
// content).
func (n *normalizer) convertElement(el *Element, parent style, depth int) Node {
	if el.Attr("display") == "none" {
		return nil
	}
	st := parent.apply(el, n.ctx)

	switch el.Kind {
	case KindGroup:
		return n.convertGroup(el, st, depth)
	case KindSVG:
		return n.convertNestedSVG(el, st, depth)
	case KindSwitch:
		return n.convertSwitch(el, st, depth)
	case KindUse:
		return n.convertUse(el, st, depth)
	case KindPath, KindRect, KindCircle, KindEllipse, KindLine, KindPolyline, KindPolygon:
		return n.convertShape(el, st)
	case KindImage:
		return n.convertImage(el, st)
	case KindText:
		return n.convertText(el, st)
	case KindDefs, KindSymbol, KindLinearGradient, KindRadialGradient,
		KindPattern, KindClipPath, KindMask, KindFilter, KindStop,
		KindFilterPrimitive, KindMergeNode:
		// Definitions render only by reference.
		return nil
	}
	Logger().Debug("svg: ignoring unsupported element", "tag", el.Tag)
	return nil
}

// convertGroup builds a Group node, attaching clip/mask/filter table
// indices and isolation-forcing properties.
func (n *normalizer) convertGroup(el *Element, st style, depth int) Node {
	g := n.newGroup(el, st)
	n.convertChildren(el, st, g, depth)
	local := computeGroupBBox(g)
	if !n.attachEffects(g, el, st, local) {
		return nil
	}
	if len(g.Children) == 0 && len(g.Filters) == 0 {
		return nil
	}
	return g
}

// newGroup builds an empty group from an element's group-level
// attributes. References (clip, mask, filter) are attached later, once
// the group's bounding box is known.
func (n *normalizer) newGroup(el *Element, st style) *Group {
	g := &Group{
		ID:        el.ID,
		Transform: parseTransform(el.Attr("transform")),
		Opacity:   1,
		ClipPath:  -1,
		Mask:      -1,
	}
	if v, ok := parseOpacity(el.Attr("opacity")); ok {
		g.Opacity = v
	}
	g.Blend = parseBlendMode(el.Attr("mix-blend-mode"))
	if el.Attr("isolation") == "isolate" {
		g.Isolate = true
	}
	return g
}

// attachEffects resolves the element's clip-path, mask and filter
// references against bbox (the element's bounding box in its own user
// space) and attaches the table indices to g. It reports false when a
// broken filter reference disables the element entirely.
func (n *normalizer) attachEffects(g *Group, el *Element, st style, bbox Rect) bool {
	if ref, ok := parseURLRef(el.Attr("clip-path")); ok {
		g.ClipPath = n.resolveClipPath(ref, bbox)
	}
	if ref, ok := parseURLRef(el.Attr("mask")); ok {
		g.Mask = n.resolveMask(ref, bbox)
	}
	if v := strings.TrimSpace(el.Attr("filter")); v != "" && v != "none" {
		ref, ok := parseURLRef(v)
		if !ok {
			return false
		}
		idx := n.resolveFilter(ref, st, bbox)
		if idx < 0 {
			// A broken filter reference disables rendering of the
			// element, per the filter specification.
			return false
		}
		g.Filters = append(g.Filters, idx)
	}
	return true
}

// needsGroupWrap reports whether a leaf element carries group-level
// effects that require wrapping it in an isolated group.
func needsGroupWrap(el *Element) bool {
	if _, ok := parseURLRef(el.Attr("clip-path")); ok {
		return true
	}
	if _, ok := parseURLRef(el.Attr("mask")); ok {
		return true
	}
	if _, ok := parseURLRef(el.Attr("filter")); ok {
		return true
	}
	if v, ok := parseOpacity(el.Attr("opacity")); ok && v < 1 {
		return true
	}
	return parseBlendMode(el.Attr("mix-blend-mode")) != BlendNormal
}

// wrapLeaf wraps a leaf node in a group carrying the element's
// group-level effects (opacity, clip, mask, filter, blend). The leaf's
// own transform stays on the leaf; the wrapper is transform-free so clip
// and mask geometry resolve in the parent coordinate space. bbox is the
// leaf's object bounding box in its own user space.
func (n *normalizer) wrapLeaf(el *Element, st style, leaf Node, bbox Rect) Node {
	g := n.newGroup(el, st)
	g.Transform = Identity()
	g.ID = ""
	if !n.attachEffects(g, el, st, bbox) {
		return nil
	}
	g.Children = append(g.Children, leaf)
	computeGroupBBox(g)
	return g
}

// convertNestedSVG renders a nested svg element as a group with its own
// viewport transform.
func (n *normalizer) convertNestedSVG(el *Element, st style, depth int) Node {
	x := n.lengthAttr(el, "x", axisX, 0)
	y := n.lengthAttr(el, "y", axisY, 0)
	w := n.lengthAttr(el, "width", axisX, n.ctx.viewport.X)
	h := n.lengthAttr(el, "height", axisY, n.ctx.viewport.Y)
	if w <= 0 || h <= 0 {
		return nil
	}
	g := n.newGroup(el, st)
	g.Transform = g.Transform.Multiply(Translate(x, y))
	if vb, ok := parseViewBox(el.Attr("viewBox")); ok {
		ar := parsePreserveAspectRatio(el.Attr("preserveAspectRatio"))
		g.Transform = g.Transform.Multiply(viewBoxTransform(vb, Point{X: w, Y: h}, ar))
	}
	n.convertChildren(el, st, g, depth)
	if len(g.Children) == 0 {
		return nil
	}
	local := computeGroupBBox(g)
	if !n.attachEffects(g, el, st, local) {
		return nil
	}
	return g
}

// convertSwitch renders the first directly renderable child of a switch.
// Conditional attributes are evaluated conservatively: requiredFeatures
// and requiredExtensions must be absent or empty, systemLanguage must be
// absent or include a language we claim.
func (n *normalizer) convertSwitch(el *Element, st style, depth int) Node {
	for _, child := range el.Children {
		if !switchCandidate(child) {
			continue
		}
		return n.convertElement(child, st, depth)
	}
	return nil
}

func switchCandidate(el *Element) bool {
	if v, ok := el.Attrs["requiredExtensions"]; ok && strings.TrimSpace(v) != "" {
		return false
	}
	if v, ok := el.Attrs["requiredFeatures"]; ok && strings.TrimSpace(v) != "" {
		return false
	}
	if v, ok := el.Attrs["systemLanguage"]; ok {
		for _, lang := range strings.Split(v, ",") {
			lang = strings.TrimSpace(lang)
			if lang == "en" || strings.HasPrefix(lang, "en-") {
				return true
			}
		}
		return false
	}
	return true
}

// convertUse expands a use element by cloning the referenced subtree
// with the use transform and overrides applied. Cycles and over-deep
// chains fail closed: the reference is treated as missing.
func (n *normalizer) convertUse(el *Element, st style, depth int) Node {
	if depth >= maxUseDepth {
		Logger().Warn("svg: use expansion too deep", "id", el.ID)
		return nil
	}
	target := n.doc.ElementByID(el.Href())
	if target == nil {
		Logger().Warn("svg: broken use reference", "href", el.Href())
		return nil
	}
	if n.states[target] == stateResolving {
		Logger().Warn("svg: use reference cycle", "href", el.Href())
		return nil
	}
	n.states[target] = stateResolving
	defer func() { n.states[target] = stateResolved }()

	x := n.lengthAttr(el, "x", axisX, 0)
	y := n.lengthAttr(el, "y", axisY, 0)

	g := n.newGroup(el, st)
	g.Transform = g.Transform.Multiply(Translate(x, y))

	if target.Kind == KindSymbol || target.Kind == KindSVG {
		w := n.lengthAttr(el, "width", axisX, n.ctx.viewport.X)
		h := n.lengthAttr(el, "height", axisY, n.ctx.viewport.Y)
		if vb, ok := parseViewBox(target.Attr("viewBox")); ok {
			ar := parsePreserveAspectRatio(target.Attr("preserveAspectRatio"))
			g.Transform = g.Transform.Multiply(viewBoxTransform(vb, Point{X: w, Y: h}, ar))
		}
		symSt := st.apply(target, n.ctx)
		n.convertChildren(target, symSt, g, depth+1)
	} else if node := n.convertElement(target, st, depth+1); node != nil {
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

// convertShape lowers a shape element to a PathNode.
// Zero-area and paint-free shapes are dropped early; this is an
// optimization, correctness does not depend on it.
func (n *normalizer) convertShape(el *Element, st style) Node {
	path := n.shapePath(el)
	if path == nil || path.IsEmpty() {
		return nil
	}

	node := &PathNode{
		ID:        el.ID,
		Path:      path,
		Transform: parseTransform(el.Attr("transform")),
	}
	if !node.Transform.IsInvertible() {
		return nil
	}
	node.ObjectBBox = path.Bounds()

	node.Fill = n.resolveFill(st, node.ObjectBBox)
	node.Stroke = n.resolveStroke(st, node.ObjectBBox)
	node.StrokeFirst = strings.HasPrefix(strings.TrimSpace(el.Attr("paint-order")), "stroke")
	if !st.visible {
		return nil
	}
	if node.Fill.Paint == nil && node.Stroke.Paint == nil {
		return nil
	}

	bounds := node.ObjectBBox
	if node.Stroke.Paint != nil {
		bounds = path.StrokeBounds(&node.Stroke)
	}
	node.BBox = node.Transform.TransformRect(bounds)

	if needsGroupWrap(el) {
		// Effects resolve against the leaf's bbox in parent space since
		// the wrapper carries no transform.
		return n.wrapLeaf(el, st, node, node.Transform.TransformRect(node.ObjectBBox))
	}
	return node
}

// shapePath lowers any shape element to path geometry in user units.
func (n *normalizer) shapePath(el *Element) *Path {
	switch el.Kind {
	case KindPath:
		return ParsePathData(el.Attr("d"))
	case KindRect:
		x := n.lengthAttr(el, "x", axisX, 0)
		y := n.lengthAttr(el, "y", axisY, 0)
		w := n.lengthAttr(el, "width", axisX, 0)
		h := n.lengthAttr(el, "height", axisY, 0)
		if w <= 0 || h <= 0 {
			return nil
		}
		rx, hasRx := n.optLengthAttr(el, "rx", axisX)
		ry, hasRy := n.optLengthAttr(el, "ry", axisY)
		// rx and ry default to each other when only one is given.
		if !hasRx {
			rx = ry
		}
		if !hasRy {
			ry = rx
		}
		p := NewPath()
		if rx > 0 && ry > 0 {
			p.RoundedRectangle(x, y, w, h, rx, ry)
		} else {
			p.Rectangle(x, y, w, h)
		}
		return p
	case KindCircle:
		cx := n.lengthAttr(el, "cx", axisX, 0)
		cy := n.lengthAttr(el, "cy", axisY, 0)
		r := n.lengthAttr(el, "r", axisDiag, 0)
		if r <= 0 {
			return nil
		}
		p := NewPath()
		p.Circle(cx, cy, r)
		return p
	case KindEllipse:
		cx := n.lengthAttr(el, "cx", axisX, 0)
		cy := n.lengthAttr(el, "cy", axisY, 0)
		rx := n.lengthAttr(el, "rx", axisX, 0)
		ry := n.lengthAttr(el, "ry", axisY, 0)
		if rx <= 0 || ry <= 0 {
			return nil
		}
		p := NewPath()
		p.Ellipse(cx, cy, rx, ry)
		return p
	case KindLine:
		x1 := n.lengthAttr(el, "x1", axisX, 0)
		y1 := n.lengthAttr(el, "y1", axisY, 0)
		x2 := n.lengthAttr(el, "x2", axisX, 0)
		y2 := n.lengthAttr(el, "y2", axisY, 0)
		p := NewPath()
		p.MoveTo(x1, y1)
		p.LineTo(x2, y2)
		return p
	case KindPolyline:
		return parsePoints(el.Attr("points"), false)
	case KindPolygon:
		return parsePoints(el.Attr("points"), true)
	}
	return nil
}

// lengthAttr resolves a length attribute to user units, with a default.
func (n *normalizer) lengthAttr(el *Element, name string, axis lengthAxis, def float64) float64 {
	l, ok := parseLength(el.Attr(name))
	if !ok {
		return def
	}
	return n.ctx.resolve(l, axis)
}

// optLengthAttr resolves a length attribute, reporting presence.
func (n *normalizer) optLengthAttr(el *Element, name string, axis lengthAxis) (float64, bool) {
	l, ok := parseLength(el.Attr(name))
	if !ok {
		return 0, false
	}
	return n.ctx.resolve(l, axis), true
}

// computeGroupBBox computes a group's bounding box as the union of child
// bounds mapped through the group transform, and returns the pre-transform
// union for bounding-box-relative reference resolution.
func computeGroupBBox(g *Group) Rect {
	bounds := EmptyRect()
	any := false
	for _, c := range g.Children {
		b := c.Bounds()
		if b.Width() <= 0 && b.Height() <= 0 {
			continue
		}
		bounds = bounds.Union(b)
		any = true
	}
	if !any {
		g.BBox = Rect{}
		return Rect{}
	}
	g.BBox = g.Transform.TransformRect(bounds)
	return bounds
}

// parseBlendMode parses a CSS mix-blend-mode keyword.
// Unknown values fall back to normal.
func parseBlendMode(s string) BlendMode {
	switch strings.TrimSpace(s) {
	case "multiply":
		return BlendMultiply
	case "screen":
		return BlendScreen
	case "overlay":
		return BlendOverlay
	case "darken":
		return BlendDarken
	case "lighten":
		return BlendLighten
	case "color-dodge":
		return BlendColorDodge
	case "color-burn":
		return BlendColorBurn
	case "hard-light":
		return BlendHardLight
	case "soft-light":
		return BlendSoftLight
	case "difference":
		return BlendDifference
	case "exclusion":
		return BlendExclusion
	case "hue":
		return BlendHue
	case "saturation":
		return BlendSaturation
	case "color":
		return BlendColor
	case "luminosity":
		return BlendLuminosity
	}
	return BlendNormal
}

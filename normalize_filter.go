package svg

import (
	"math"
	"strings"
)

// resolveFilter resolves a filter reference to an index into
// Tree.Filters, or -1 when the reference is broken. bbox is the
// referencing element's bounding box for objectBoundingBox units.
func (n *normalizer) resolveFilter(id string, st style, bbox Rect) int {
	el := n.doc.ElementByID(id)
	if el == nil || el.Kind != KindFilter {
		Logger().Warn("svg: broken filter reference", "href", id)
		return -1
	}
	if n.states[el] == stateResolving {
		return -1
	}
	n.states[el] = stateResolving
	defer func() { n.states[el] = stateResolved }()

	objectUnits := el.Attr("filterUnits") != "userSpaceOnUse"
	region := n.regionRect(el, bbox, objectUnits, Rect{
		Min: Point{X: -0.1, Y: -0.1},
		Max: Point{X: 1.1, Y: 1.1},
	})
	if region.IsEmpty() {
		return -1
	}

	f := Filter{Region: region}

	// primitiveUnits scales primitive parameters; userSpaceOnUse is the
	// default and leaves values untouched.
	primScaleX, primScaleY := 1.0, 1.0
	primObjectUnits := el.Attr("primitiveUnits") == "objectBoundingBox"
	if primObjectUnits {
		primScaleX = bbox.Width()
		primScaleY = bbox.Height()
	}

	results := make(map[string]bool)
	for _, child := range el.Children {
		if !filterPrimitiveTags[child.Tag] {
			continue
		}
		prim, ok := n.buildPrimitive(child, st, results, primScaleX, primScaleY, len(f.Primitives) == 0)
		if !ok {
			// Unsupported primitives pass their input through unchanged.
			continue
		}
		prim.Region = n.primitiveRegion(child, region, bbox, primObjectUnits)
		if prim.Result != "" {
			results[prim.Result] = true
		}
		f.Primitives = append(f.Primitives, prim)
	}

	idx := len(n.tree.Filters)
	n.tree.Filters = append(n.tree.Filters, f)
	return idx
}

// primitiveRegion resolves a primitive's x/y/width/height subregion,
// defaulting to the whole filter region.
func (n *normalizer) primitiveRegion(el *Element, region, bbox Rect, objectUnits bool) Rect {
	sub := region
	resolve := func(name string, axis lengthAxis) (float64, bool) {
		l, ok := parseLength(el.Attr(name))
		if !ok {
			return 0, false
		}
		if objectUnits {
			v := l.Value
			if l.Unit == UnitPercent {
				v /= 100
			}
			if axis == axisY {
				return v * bbox.Height(), true
			}
			return v * bbox.Width(), true
		}
		return n.ctx.resolve(l, axis), true
	}
	if v, ok := resolve("x", axisX); ok {
		off := 0.0
		if objectUnits {
			off = bbox.Min.X
		}
		sub.Min.X = off + v
	}
	if v, ok := resolve("y", axisY); ok {
		off := 0.0
		if objectUnits {
			off = bbox.Min.Y
		}
		sub.Min.Y = off + v
	}
	if v, ok := resolve("width", axisX); ok {
		sub.Max.X = sub.Min.X + v
	} else {
		sub.Max.X = max(sub.Min.X, region.Max.X)
	}
	if v, ok := resolve("height", axisY); ok {
		sub.Max.Y = sub.Min.Y + v
	} else {
		sub.Max.Y = max(sub.Min.Y, region.Max.Y)
	}
	return sub.Intersect(region)
}

// buildPrimitive converts one filter primitive element. ok is false for
// primitives this renderer does not implement.
func (n *normalizer) buildPrimitive(el *Element, st style, results map[string]bool, sx, sy float64, first bool) (FilterPrimitive, bool) {
	in := func(name string) FilterInput {
		return parseFilterInput(el.Attr(name), results, first)
	}
	num := func(name string, def float64) float64 {
		if v, ok := parseNumber(el.Attr(name)); ok {
			return v
		}
		return def
	}

	prim := FilterPrimitive{Result: strings.TrimSpace(el.Attr("result"))}

	switch el.Tag {
	case "feGaussianBlur":
		dx, dy, ok := parseTwoNumbers(el.Attr("stdDeviation"))
		if !ok || dx < 0 || dy < 0 {
			dx, dy = 0, 0
		}
		prim.Kind = GaussianBlur{In: in("in"), StdDevX: dx * sx, StdDevY: dy * sy}
	case "feOffset":
		prim.Kind = Offset{In: in("in"), DX: num("dx", 0) * sx, DY: num("dy", 0) * sy}
	case "feFlood":
		c := Black
		spec := strings.TrimSpace(el.Attr("flood-color"))
		if spec == "currentColor" {
			c = st.color
		} else if v, ok := parseColor(spec); ok {
			c = v
		}
		if v, ok := parseOpacity(el.Attr("flood-opacity")); ok {
			c = c.WithOpacity(c.A * v)
		}
		prim.Kind = Flood{Color: c}
	case "feMerge":
		var m Merge
		for _, node := range el.Children {
			if node.Tag != "feMergeNode" {
				continue
			}
			m.Inputs = append(m.Inputs, parseFilterInput(node.Attr("in"), results, first))
		}
		prim.Kind = m
	case "feBlend":
		prim.Kind = Blend{In: in("in"), In2: in("in2"), Mode: parseBlendMode(el.Attr("mode"))}
	case "feComposite":
		c := Composite{In: in("in"), In2: in("in2")}
		switch el.Attr("operator") {
		case "in":
			c.Op = CompositeIn
		case "out":
			c.Op = CompositeOut
		case "atop":
			c.Op = CompositeAtop
		case "xor":
			c.Op = CompositeXor
		case "arithmetic":
			c.Op = CompositeArithmetic
			c.K1 = num("k1", 0)
			c.K2 = num("k2", 0)
			c.K3 = num("k3", 0)
			c.K4 = num("k4", 0)
		default:
			c.Op = CompositeOver
		}
		prim.Kind = c
	case "feColorMatrix":
		m, ok := parseColorMatrix(el)
		if !ok {
			return prim, false
		}
		prim.Kind = ColorMatrix{In: in("in"), M: m}
	case "feMorphology":
		rx, ry, ok := parseTwoNumbers(el.Attr("radius"))
		if !ok || rx < 0 || ry < 0 {
			rx, ry = 0, 0
		}
		op := MorphErode
		if el.Attr("operator") == "dilate" {
			op = MorphDilate
		}
		prim.Kind = Morphology{In: in("in"), Op: op, RadiusX: rx * sx, RadiusY: ry * sy}
	case "feDisplacementMap":
		prim.Kind = DisplacementMap{
			In:       in("in"),
			In2:      in("in2"),
			Scale:    num("scale", 0) * (sx + sy) / 2,
			XChannel: parseChannel(el.Attr("xChannelSelector")),
			YChannel: parseChannel(el.Attr("yChannelSelector")),
		}
	case "feDropShadow":
		dx, dy, ok := parseTwoNumbers(el.Attr("stdDeviation"))
		if !ok || dx < 0 || dy < 0 {
			dx, dy = 2, 2
		}
		c := Black
		spec := strings.TrimSpace(el.Attr("flood-color"))
		if spec == "currentColor" {
			c = st.color
		} else if v, ok := parseColor(spec); ok {
			c = v
		}
		if v, ok := parseOpacity(el.Attr("flood-opacity")); ok {
			c = c.WithOpacity(c.A * v)
		}
		prim.Kind = DropShadow{
			In:      in("in"),
			DX:      num("dx", 2) * sx,
			DY:      num("dy", 2) * sy,
			StdDevX: dx * sx,
			StdDevY: dy * sy,
			Color:   c,
		}
	default:
		return prim, false
	}
	return prim, true
}

// parseFilterInput parses an in/in2 attribute. Unknown named results and
// unsupported sources (BackgroundImage and friends) degrade to the
// previous primitive's result.
func parseFilterInput(s string, results map[string]bool, first bool) FilterInput {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		if first {
			return FilterInput{Kind: InputSourceGraphic}
		}
		return FilterInput{Kind: InputPrevious}
	case "SourceGraphic":
		return FilterInput{Kind: InputSourceGraphic}
	case "SourceAlpha":
		return FilterInput{Kind: InputSourceAlpha}
	}
	if results[s] {
		return FilterInput{Kind: InputReference, Ref: s}
	}
	if first {
		return FilterInput{Kind: InputSourceGraphic}
	}
	return FilterInput{Kind: InputPrevious}
}

// parseTwoNumbers parses "a" or "a b" attribute forms.
func parseTwoNumbers(s string) (float64, float64, bool) {
	nums := parseNumberList(s)
	switch len(nums) {
	case 1:
		return nums[0], nums[0], true
	case 2:
		return nums[0], nums[1], true
	}
	return 0, 0, false
}

func parseChannel(s string) ColorChannel {
	switch strings.TrimSpace(s) {
	case "R":
		return ChannelR
	case "G":
		return ChannelG
	case "B":
		return ChannelB
	}
	return ChannelA
}

// parseColorMatrix converts the feColorMatrix type/values attributes to
// a 4x5 matrix.
func parseColorMatrix(el *Element) ([20]float64, bool) {
	var m [20]float64
	switch el.Attr("type") {
	case "", "matrix":
		vals := parseNumberList(el.Attr("values"))
		if len(vals) != 20 {
			// Missing values mean identity.
			if el.Attr("values") == "" {
				return identityColorMatrix(), true
			}
			return m, false
		}
		copy(m[:], vals)
		return m, true
	case "saturate":
		s := 1.0
		if vals := parseNumberList(el.Attr("values")); len(vals) == 1 {
			s = clamp01(vals[0])
		}
		return saturateMatrix(s), true
	case "hueRotate":
		deg := 0.0
		if vals := parseNumberList(el.Attr("values")); len(vals) == 1 {
			deg = vals[0]
		}
		return hueRotateMatrix(deg * math.Pi / 180), true
	case "luminanceToAlpha":
		m[15] = 0.2126
		m[16] = 0.7152
		m[17] = 0.0722
		return m, true
	}
	return m, false
}

func identityColorMatrix() [20]float64 {
	var m [20]float64
	m[0], m[6], m[12], m[18] = 1, 1, 1, 1
	return m
}

func saturateMatrix(s float64) [20]float64 {
	return [20]float64{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func hueRotateMatrix(rad float64) [20]float64 {
	c, s := math.Cos(rad), math.Sin(rad)
	return [20]float64{
		0.213 + c*0.787 - s*0.213, 0.715 - c*0.715 - s*0.715, 0.072 - c*0.072 + s*0.928, 0, 0,
		0.213 - c*0.213 + s*0.143, 0.715 + c*0.285 + s*0.140, 0.072 - c*0.072 - s*0.283, 0, 0,
		0.213 - c*0.213 - s*0.787, 0.715 - c*0.715 + s*0.715, 0.072 + c*0.928 + s*0.072, 0, 0,
		0, 0, 0, 1, 0,
	}
}

package svg

import "strings"

// style carries the inheritable presentation properties as they cascade
// down the element tree. Paint specs stay textual until a shape consumes
// them, because gradient and pattern references resolve against the
// shape's own bounding box.
type style struct {
	fill          string
	fillOpacity   float64
	fillRule      FillRule
	stroke        string
	strokeOpacity float64
	strokeWidth   float64
	strokeCap     LineCap
	strokeJoin    LineJoin
	miterLimit    float64
	dashArray     []float64
	dashOffset    float64

	color Color // currentColor

	fontFamily string
	fontSize   float64
	fontWeight int
	fontItalic bool
	textAnchor textAnchor

	visible bool
}

type textAnchor int

const (
	anchorStart textAnchor = iota
	anchorMiddle
	anchorEnd
)

func defaultStyle(fontSize float64) style {
	return style{
		fill:          "black",
		fillOpacity:   1,
		fillRule:      FillRuleNonZero,
		stroke:        "none",
		strokeOpacity: 1,
		strokeWidth:   1,
		strokeCap:     LineCapButt,
		strokeJoin:    LineJoinMiter,
		miterLimit:    4,
		color:         Black,
		fontFamily:    "sans-serif",
		fontSize:      fontSize,
		fontWeight:    400,
		visible:       true,
	}
}

// apply returns a copy of the style with the element's presentation
// attributes folded in. Unknown or malformed values leave the inherited
// value in place.
func (st style) apply(el *Element, ctx unitContext) style {
	if v, ok := el.Attrs["fill"]; ok {
		st.fill = strings.TrimSpace(v)
	}
	if v, ok := parseOpacity(el.Attr("fill-opacity")); ok {
		st.fillOpacity = v
	}
	switch el.Attr("fill-rule") {
	case "nonzero":
		st.fillRule = FillRuleNonZero
	case "evenodd":
		st.fillRule = FillRuleEvenOdd
	}
	if v, ok := el.Attrs["stroke"]; ok {
		st.stroke = strings.TrimSpace(v)
	}
	if v, ok := parseOpacity(el.Attr("stroke-opacity")); ok {
		st.strokeOpacity = v
	}
	if l, ok := parseLength(el.Attr("stroke-width")); ok {
		st.strokeWidth = ctx.resolve(l, axisDiag)
	}
	switch el.Attr("stroke-linecap") {
	case "butt":
		st.strokeCap = LineCapButt
	case "round":
		st.strokeCap = LineCapRound
	case "square":
		st.strokeCap = LineCapSquare
	}
	switch el.Attr("stroke-linejoin") {
	case "miter":
		st.strokeJoin = LineJoinMiter
	case "round":
		st.strokeJoin = LineJoinRound
	case "bevel":
		st.strokeJoin = LineJoinBevel
	}
	if v, ok := parseNumber(el.Attr("stroke-miterlimit")); ok && v >= 1 {
		st.miterLimit = v
	}
	if v, ok := el.Attrs["stroke-dasharray"]; ok {
		st.dashArray = parseDashArray(v, ctx)
	}
	if l, ok := parseLength(el.Attr("stroke-dashoffset")); ok {
		st.dashOffset = ctx.resolve(l, axisDiag)
	}
	if c, ok := parseColor(el.Attr("color")); ok {
		st.color = c
	}
	if v, ok := el.Attrs["font-family"]; ok {
		st.fontFamily = v
	}
	if l, ok := parseLength(el.Attr("font-size")); ok {
		st.fontSize = ctx.resolve(l, axisDiag)
	}
	if v, ok := el.Attrs["font-weight"]; ok {
		st.fontWeight = parseFontWeight(v, st.fontWeight)
	}
	switch el.Attr("font-style") {
	case "italic", "oblique":
		st.fontItalic = true
	case "normal":
		st.fontItalic = false
	}
	switch el.Attr("text-anchor") {
	case "start":
		st.textAnchor = anchorStart
	case "middle":
		st.textAnchor = anchorMiddle
	case "end":
		st.textAnchor = anchorEnd
	}
	switch el.Attr("visibility") {
	case "hidden", "collapse":
		st.visible = false
	case "visible":
		st.visible = true
	}
	return st
}

// parseDashArray parses a stroke-dasharray value to user units.
// "none", negative entries, and all-zero patterns yield nil.
func parseDashArray(s string, ctx unitContext) []float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "none" {
		return nil
	}
	var out []float64
	nonZero := false
	for _, field := range strings.Fields(strings.ReplaceAll(s, ",", " ")) {
		l, ok := parseLength(field)
		if !ok {
			return nil
		}
		v := ctx.resolve(l, axisDiag)
		if v < 0 {
			return nil
		}
		if v > 0 {
			nonZero = true
		}
		out = append(out, v)
	}
	if !nonZero {
		return nil
	}
	return out
}

func parseFontWeight(s string, inherited int) int {
	switch strings.TrimSpace(s) {
	case "normal":
		return 400
	case "bold":
		return 700
	case "bolder":
		if inherited < 400 {
			return 400
		}
		return 700
	case "lighter":
		if inherited > 500 {
			return 400
		}
		return 100
	}
	if v, ok := parseNumber(s); ok && v >= 1 && v <= 1000 {
		return int(v)
	}
	return inherited
}

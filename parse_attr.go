package svg

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// parseNumber parses a single float, returning (0, false) on failure.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseNumberList parses whitespace- and/or comma-separated floats.
func parseNumberList(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, ok := parseNumber(f)
		if !ok {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// parseLength parses a number with an optional unit suffix.
func parseLength(s string) (Length, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Length{}, false
	}
	unit := UnitNone
	switch {
	case strings.HasSuffix(s, "%"):
		unit, s = UnitPercent, s[:len(s)-1]
	case strings.HasSuffix(s, "px"):
		unit, s = UnitPx, s[:len(s)-2]
	case strings.HasSuffix(s, "pt"):
		unit, s = UnitPt, s[:len(s)-2]
	case strings.HasSuffix(s, "pc"):
		unit, s = UnitPc, s[:len(s)-2]
	case strings.HasSuffix(s, "mm"):
		unit, s = UnitMm, s[:len(s)-2]
	case strings.HasSuffix(s, "cm"):
		unit, s = UnitCm, s[:len(s)-2]
	case strings.HasSuffix(s, "in"):
		unit, s = UnitIn, s[:len(s)-2]
	case strings.HasSuffix(s, "em"):
		unit, s = UnitEm, s[:len(s)-2]
	case strings.HasSuffix(s, "ex"):
		unit, s = UnitEx, s[:len(s)-2]
	}
	v, ok := parseNumber(s)
	if !ok {
		return Length{}, false
	}
	return Length{Value: v, Unit: unit}, true
}

// parseOpacity parses an opacity value, accepting both "0.5" and "50%".
func parseOpacity(s string) (float64, bool) {
	l, ok := parseLength(s)
	if !ok || (l.Unit != UnitNone && l.Unit != UnitPercent) {
		return 1, false
	}
	v := l.Value
	if l.Unit == UnitPercent {
		v /= 100
	}
	return clamp01(v), true
}

// ParseColor parses an SVG color value: #rgb, #rrggbb, rgb(...),
// rgba(...), or a color keyword.
func ParseColor(s string) (Color, bool) {
	return parseColor(s)
}

// parseColor parses an SVG color value: #rgb, #rrggbb, rgb(...),
// rgba(...), or a color keyword. currentColor is handled by the caller
// (it needs the cascade). Returns (color, ok).
func parseColor(s string) (Color, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "":
		return Color{}, false
	case s[0] == '#':
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseRGBFunc(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return fromNRGBA(c), true
	}
	if s == "transparent" {
		return Transparent, true
	}
	return Color{}, false
}

func fromNRGBA(c color.RGBA) Color {
	// colornames entries are fully opaque, so RGBA == NRGBA here.
	return RGB8(c.R, c.G, c.B)
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		r, okR := hexNibble(hex[0])
		g, okG := hexNibble(hex[1])
		b, okB := hexNibble(hex[2])
		if !okR || !okG || !okB {
			return Color{}, false
		}
		return RGB8(r*17, g*17, b*17), true
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return RGB8(uint8(v>>16), uint8(v>>8), uint8(v)), true
	}
	return Color{}, false
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}

func parseRGBFunc(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	close := strings.IndexByte(s, ')')
	if open < 0 || close < open {
		return Color{}, false
	}
	parts := strings.Split(s[open+1:close], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	var ch [3]float64
	for i := 0; i < 3; i++ {
		p := strings.TrimSpace(parts[i])
		percent := strings.HasSuffix(p, "%")
		if percent {
			p = p[:len(p)-1]
		}
		v, ok := parseNumber(p)
		if !ok {
			return Color{}, false
		}
		if percent {
			v = v / 100 * 255
		}
		ch[i] = clamp01(v/255) * 255
	}
	a := 1.0
	if len(parts) == 4 {
		v, ok := parseNumber(parts[3])
		if !ok {
			return Color{}, false
		}
		a = clamp01(v)
	}
	return Color{R: ch[0] / 255, G: ch[1] / 255, B: ch[2] / 255, A: a}, true
}

// parseTransform parses an SVG transform list into a single matrix.
// Unknown or malformed entries invalidate the whole list, which then
// parses as identity.
func parseTransform(s string) Matrix {
	m := Identity()
	s = strings.TrimSpace(s)
	for s != "" {
		open := strings.IndexByte(s, '(')
		close := strings.IndexByte(s, ')')
		if open <= 0 || close < open {
			return Identity()
		}
		name := strings.TrimSpace(s[:open])
		args := parseNumberList(s[open+1 : close])
		s = strings.TrimLeft(s[close+1:], " \t\n\r,")

		var op Matrix
		switch name {
		case "matrix":
			if len(args) != 6 {
				return Identity()
			}
			op = Matrix{A: args[0], B: args[2], C: args[4], D: args[1], E: args[3], F: args[5]}
		case "translate":
			switch len(args) {
			case 1:
				op = Translate(args[0], 0)
			case 2:
				op = Translate(args[0], args[1])
			default:
				return Identity()
			}
		case "scale":
			switch len(args) {
			case 1:
				op = Scale(args[0], args[0])
			case 2:
				op = Scale(args[0], args[1])
			default:
				return Identity()
			}
		case "rotate":
			switch len(args) {
			case 1:
				op = Rotate(args[0] * math.Pi / 180)
			case 3:
				op = RotateAbout(args[0]*math.Pi/180, args[1], args[2])
			default:
				return Identity()
			}
		case "skewX":
			if len(args) != 1 {
				return Identity()
			}
			op = SkewX(args[0] * math.Pi / 180)
		case "skewY":
			if len(args) != 1 {
				return Identity()
			}
			op = SkewY(args[0] * math.Pi / 180)
		default:
			return Identity()
		}
		m = m.Multiply(op)
	}
	return m
}

// parseURLRef extracts the id from a url(#id) functional reference.
func parseURLRef(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "url(") {
		return "", false
	}
	close := strings.IndexByte(s, ')')
	if close < 0 {
		return "", false
	}
	ref := strings.TrimSpace(s[4:close])
	ref = strings.Trim(ref, "'\"")
	if len(ref) < 2 || ref[0] != '#' {
		return "", false
	}
	return ref[1:], true
}

// parseViewBox parses "min-x min-y width height".
// Zero or negative sizes return ok = false.
func parseViewBox(s string) (Rect, bool) {
	nums := parseNumberList(s)
	if len(nums) != 4 || nums[2] <= 0 || nums[3] <= 0 {
		return Rect{}, false
	}
	return RectXYWH(nums[0], nums[1], nums[2], nums[3]), true
}

// alignMode is one half of preserveAspectRatio.
type alignMode int

const (
	alignNone alignMode = iota
	alignMin
	alignMid
	alignMax
)

// aspectRatio is a parsed preserveAspectRatio value.
type aspectRatio struct {
	alignX, alignY alignMode
	slice          bool
}

// parsePreserveAspectRatio parses the preserveAspectRatio attribute.
// Malformed values fall back to the default xMidYMid meet.
func parsePreserveAspectRatio(s string) aspectRatio {
	def := aspectRatio{alignX: alignMid, alignY: alignMid}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return def
	}
	align := fields[0]
	if align == "none" {
		return aspectRatio{alignX: alignNone, alignY: alignNone, slice: len(fields) > 1 && fields[1] == "slice"}
	}
	if len(align) != 8 || !strings.HasPrefix(align, "x") {
		return def
	}
	ax, okX := parseAlign(align[1:4])
	ay, okY := parseAlign(align[5:8])
	if !okX || !okY || align[4] != 'Y' {
		return def
	}
	return aspectRatio{
		alignX: ax,
		alignY: ay,
		slice:  len(fields) > 1 && fields[1] == "slice",
	}
}

func parseAlign(s string) (alignMode, bool) {
	switch strings.ToLower(s) {
	case "min":
		return alignMin, true
	case "mid":
		return alignMid, true
	case "max":
		return alignMax, true
	}
	return alignNone, false
}

// viewBoxTransform computes the transform mapping a viewBox to a
// viewport of the given size under the aspect-ratio policy.
func viewBoxTransform(vb Rect, size Point, ar aspectRatio) Matrix {
	if vb.IsEmpty() || size.X <= 0 || size.Y <= 0 {
		return Identity()
	}
	sx := size.X / vb.Width()
	sy := size.Y / vb.Height()
	if ar.alignX != alignNone || ar.alignY != alignNone {
		s := math.Min(sx, sy)
		if ar.slice {
			s = math.Max(sx, sy)
		}
		sx, sy = s, s
	}
	tx := -vb.Min.X * sx
	ty := -vb.Min.Y * sy
	switch ar.alignX {
	case alignMid:
		tx += (size.X - vb.Width()*sx) / 2
	case alignMax:
		tx += size.X - vb.Width()*sx
	}
	switch ar.alignY {
	case alignMid:
		ty += (size.Y - vb.Height()*sy) / 2
	case alignMax:
		ty += size.Y - vb.Height()*sy
	}
	return Matrix{A: sx, B: 0, C: tx, D: 0, E: sy, F: ty}
}

// parsePoints parses a polyline/polygon points list into a path.
// An odd trailing coordinate is dropped, matching lenient renderers.
func parsePoints(s string, closePath bool) *Path {
	nums := parseNumberList(s)
	if len(nums) < 4 {
		return nil
	}
	p := NewPath()
	p.MoveTo(nums[0], nums[1])
	for i := 3; i < len(nums); i += 2 {
		p.LineTo(nums[i-1], nums[i])
	}
	if closePath {
		p.Close()
	}
	return p
}

package svg

import (
	"math"
	"strconv"
)

// pathScanner tokenizes SVG path data: commands and numbers with the
// format's permissive separators ("M0 .5.5-1" is four numbers).
type pathScanner struct {
	data string
	pos  int
}

func (s *pathScanner) skipSeparators() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r', ',':
			s.pos++
		default:
			return
		}
	}
}

// peekCommand returns the next command letter without consuming it.
func (s *pathScanner) peekCommand() (byte, bool) {
	s.skipSeparators()
	if s.pos >= len(s.data) {
		return 0, false
	}
	c := s.data[s.pos]
	if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' {
		return c, true
	}
	return 0, false
}

func (s *pathScanner) command() (byte, bool) {
	c, ok := s.peekCommand()
	if ok {
		s.pos++
	}
	return c, ok
}

// number scans one float. Exponents are supported; a leading sign or dot
// terminates the previous number per the grammar.
func (s *pathScanner) number() (float64, bool) {
	s.skipSeparators()
	start := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	seenDot := false
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c >= '0' && c <= '9' {
			s.pos++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			s.pos++
			continue
		}
		if (c == 'e' || c == 'E') && s.pos > start {
			// exponent: e[+-]?digits
			mark := s.pos
			s.pos++
			if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
				s.pos++
			}
			expStart := s.pos
			for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
				s.pos++
			}
			if s.pos == expStart {
				s.pos = mark
			}
			break
		}
		break
	}
	if s.pos == start {
		return 0, false
	}
	v, err := strconv.ParseFloat(s.data[start:s.pos], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// flag scans an arc flag, which may be a bare '0'/'1' with no separator
// before the next number.
func (s *pathScanner) flag() (bool, bool) {
	s.skipSeparators()
	if s.pos >= len(s.data) {
		return false, false
	}
	switch s.data[s.pos] {
	case '0':
		s.pos++
		return false, true
	case '1':
		s.pos++
		return true, true
	}
	return false, false
}

// ParsePathData parses an SVG path data string into a Path.
// Parsing stops at the first malformed command, keeping everything
// before it — the lenient recovery established SVG renderers use.
// Returns nil if nothing valid was parsed.
func ParsePathData(data string) *Path {
	s := &pathScanner{data: data}
	p := NewPath()

	var (
		prevCmd      byte
		prevControl  Point // reflected control point for S/T shorthands
		haveGeometry bool
	)

	for {
		cmd, ok := s.command()
		if !ok {
			break
		}
		rel := cmd >= 'a'
		upper := cmd &^ 0x20

		// A path must begin with a moveto.
		if !haveGeometry && upper != 'M' {
			break
		}

		switch upper {
		case 'M':
			x, okX := s.number()
			y, okY := s.number()
			if !okX || !okY {
				return builtPath(p)
			}
			if rel {
				x += p.current.X
				y += p.current.Y
			}
			p.MoveTo(x, y)
			haveGeometry = true
			// Subsequent pairs are implicit linetos.
			for {
				if _, isCmd := s.peekCommand(); isCmd {
					break
				}
				x, okX = s.number()
				if !okX {
					break
				}
				y, okY = s.number()
				if !okY {
					return builtPath(p)
				}
				if rel {
					x += p.current.X
					y += p.current.Y
				}
				p.LineTo(x, y)
			}
		case 'L':
			for {
				x, okX := s.number()
				if !okX {
					break
				}
				y, okY := s.number()
				if !okY {
					return builtPath(p)
				}
				if rel {
					x += p.current.X
					y += p.current.Y
				}
				p.LineTo(x, y)
			}
		case 'H':
			for {
				x, okX := s.number()
				if !okX {
					break
				}
				if rel {
					x += p.current.X
				}
				p.LineTo(x, p.current.Y)
			}
		case 'V':
			for {
				y, okY := s.number()
				if !okY {
					break
				}
				if rel {
					y += p.current.Y
				}
				p.LineTo(p.current.X, y)
			}
		case 'C':
			for {
				nums, okN := scanNumbers(s, 6)
				if !okN {
					break
				}
				if rel {
					for i := 0; i < 6; i += 2 {
						nums[i] += p.current.X
						nums[i+1] += p.current.Y
					}
				}
				prevControl = Pt(nums[2], nums[3])
				p.CubicTo(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
			}
		case 'S':
			for {
				nums, okN := scanNumbers(s, 4)
				if !okN {
					break
				}
				if rel {
					for i := 0; i < 4; i += 2 {
						nums[i] += p.current.X
						nums[i+1] += p.current.Y
					}
				}
				c1 := p.current
				if pc := prevCmd &^ 0x20; pc == 'C' || pc == 'S' {
					c1 = reflect(prevControl, p.current)
				}
				prevControl = Pt(nums[0], nums[1])
				p.CubicTo(c1.X, c1.Y, nums[0], nums[1], nums[2], nums[3])
				prevCmd = cmd
			}
		case 'Q':
			for {
				nums, okN := scanNumbers(s, 4)
				if !okN {
					break
				}
				if rel {
					for i := 0; i < 4; i += 2 {
						nums[i] += p.current.X
						nums[i+1] += p.current.Y
					}
				}
				prevControl = Pt(nums[0], nums[1])
				p.QuadraticTo(nums[0], nums[1], nums[2], nums[3])
			}
		case 'T':
			for {
				nums, okN := scanNumbers(s, 2)
				if !okN {
					break
				}
				if rel {
					nums[0] += p.current.X
					nums[1] += p.current.Y
				}
				c := p.current
				if pc := prevCmd &^ 0x20; pc == 'Q' || pc == 'T' {
					c = reflect(prevControl, p.current)
				}
				prevControl = c
				p.QuadraticTo(c.X, c.Y, nums[0], nums[1])
				prevCmd = cmd
			}
		case 'A':
			for {
				rx, okN := s.number()
				if !okN {
					break
				}
				ry, ok1 := s.number()
				rot, ok2 := s.number()
				large, ok3 := s.flag()
				sweep, ok4 := s.flag()
				x, ok5 := s.number()
				y, ok6 := s.number()
				if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 || !ok6 {
					return builtPath(p)
				}
				if rel {
					x += p.current.X
					y += p.current.Y
				}
				arcTo(p, rx, ry, rot*math.Pi/180, large, sweep, Pt(x, y))
			}
		case 'Z':
			p.Close()
		default:
			return builtPath(p)
		}
		prevCmd = cmd
	}
	return builtPath(p)
}

func builtPath(p *Path) *Path {
	if len(p.segments) == 0 {
		return nil
	}
	return p
}

func scanNumbers(s *pathScanner, n int) ([]float64, bool) {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, ok := s.number()
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// reflect mirrors a control point across the current point.
func reflect(ctrl, about Point) Point {
	return Point{X: 2*about.X - ctrl.X, Y: 2*about.Y - ctrl.Y}
}

// arcTo appends an SVG elliptical arc as cubic Bezier segments, using
// the endpoint-to-center conversion from the SVG implementation notes
// (section B.2.4), including the out-of-range radii correction.
func arcTo(p *Path, rx, ry, phi float64, largeArc, sweep bool, end Point) {
	start := p.current
	if start == end {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		p.LineTo(end.X, end.Y)
		return
	}

	cosPhi := math.Cos(phi)
	sinPhi := math.Sin(phi)

	// Step 1: transform to the ellipse-aligned coordinate frame.
	dx := (start.X - end.X) / 2
	dy := (start.Y - end.Y) / 2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	// Correct radii that cannot span the endpoints.
	lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	// Step 2: center in the aligned frame.
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	if den == 0 {
		p.LineTo(end.X, end.Y)
		return
	}
	coef := math.Sqrt(math.Max(0, num/den))
	if largeArc == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	// Step 3: center in user space.
	cx := cosPhi*cxp - sinPhi*cyp + (start.X+end.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (start.Y+end.Y)/2

	// Step 4: start angle and sweep extent.
	theta1 := math.Atan2((y1p-cyp)/ry, (x1p-cxp)/rx)
	theta2 := math.Atan2((-y1p-cyp)/ry, (-x1p-cxp)/rx)
	delta := theta2 - theta1
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	// Split into <= 90 degree segments, each a cubic approximation.
	segments := int(math.Ceil(math.Abs(delta) / (math.Pi / 2)))
	if segments == 0 {
		p.LineTo(end.X, end.Y)
		return
	}
	step := delta / float64(segments)
	// Control point distance for a unit-circle arc of the step angle.
	alpha := 4.0 / 3.0 * math.Tan(step/4)

	angle := theta1
	for i := 0; i < segments; i++ {
		a0, a1 := angle, angle+step
		cos0, sin0 := math.Cos(a0), math.Sin(a0)
		cos1, sin1 := math.Cos(a1), math.Sin(a1)

		// Points and derivatives on the ellipse, rotated into place.
		px := func(c, s float64) (float64, float64) {
			x := cx + rx*c*cosPhi - ry*s*sinPhi
			y := cy + rx*c*sinPhi + ry*s*cosPhi
			return x, y
		}
		dxAt := func(c, s float64) (float64, float64) {
			x := -rx*s*cosPhi - ry*c*sinPhi
			y := -rx*s*sinPhi + ry*c*cosPhi
			return x, y
		}

		x0, y0 := px(cos0, sin0)
		x3, y3 := px(cos1, sin1)
		d0x, d0y := dxAt(cos0, sin0)
		d1x, d1y := dxAt(cos1, sin1)

		c1x := x0 + alpha*d0x
		c1y := y0 + alpha*d0y
		c2x := x3 - alpha*d1x
		c2y := y3 - alpha*d1y

		if i == segments-1 {
			// Land exactly on the endpoint to avoid accumulated error.
			x3, y3 = end.X, end.Y
		}
		p.CubicTo(c1x, c1y, c2x, c2y, x3, y3)
		angle = a1
	}
}

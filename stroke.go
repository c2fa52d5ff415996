package svg

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// Stroke defines the resolved style for stroking paths.
type Stroke struct {
	// Paint is the stroke paint. A nil Paint means no stroke.
	Paint Paint

	// Width is the line width in user units. Default: 1.0
	Width float64

	// Cap is the shape of line endpoints. Default: LineCapButt
	Cap LineCap

	// Join is the shape of line joins. Default: LineJoinMiter
	Join LineJoin

	// MiterLimit is the limit for miter joins before they become bevels.
	// Default: 4.0 (the SVG default)
	MiterLimit float64

	// Opacity is the stroke-opacity in [0, 1]. Default: 1.0
	Opacity float64

	// Dash is the dash pattern. nil means a solid line.
	Dash *Dash
}

// DefaultStroke returns a Stroke with SVG default settings and no paint.
func DefaultStroke() Stroke {
	return Stroke{
		Width:      1.0,
		Cap:        LineCapButt,
		Join:       LineJoinMiter,
		MiterLimit: 4.0,
		Opacity:    1.0,
	}
}

// Fill defines the resolved style for filling paths.
type Fill struct {
	// Paint is the fill paint. A nil Paint means no fill.
	Paint Paint

	// Rule is the winding rule used to decide interior coverage.
	Rule FillRule

	// Opacity is the fill-opacity in [0, 1]. Default: 1.0
	Opacity float64
}

// FillRule selects the winding rule for filling.
type FillRule int

const (
	// FillRuleNonZero fills where the winding number is non-zero.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd fills where the crossing count is odd.
	FillRuleEvenOdd
)

// DefaultFill returns a Fill with SVG default settings: opaque black,
// nonzero winding.
func DefaultFill() Fill {
	return Fill{
		Paint:   SolidColor{Color: Black},
		Rule:    FillRuleNonZero,
		Opacity: 1.0,
	}
}

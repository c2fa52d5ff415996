package svg

import "math"

// Unit enumerates SVG length units.
type Unit int

const (
	UnitNone Unit = iota // plain user units
	UnitPercent
	UnitPx
	UnitPt
	UnitPc
	UnitMm
	UnitCm
	UnitIn
	UnitEm
	UnitEx
)

// Length is a raw attribute length: a number plus a unit suffix.
// Percentages and font-relative units resolve against a context during
// normalization.
type Length struct {
	Value float64
	Unit  Unit
}

// lengthAxis selects the reference extent for percentage lengths.
type lengthAxis int

const (
	axisX lengthAxis = iota
	axisY
	// axisDiag is the normalized diagonal per the SVG specification,
	// used for lengths with no natural axis (e.g. stroke-width, r).
	axisDiag
)

// unitContext carries everything needed to convert a Length to absolute
// user units.
type unitContext struct {
	dpi      float64
	viewport Point
	fontSize float64
}

// resolve converts a length to absolute user units.
func (ctx *unitContext) resolve(l Length, axis lengthAxis) float64 {
	switch l.Unit {
	case UnitNone, UnitPx:
		return l.Value
	case UnitPercent:
		return l.Value / 100 * ctx.reference(axis)
	case UnitPt:
		return l.Value * ctx.dpi / 72
	case UnitPc:
		return l.Value * ctx.dpi / 6
	case UnitMm:
		return l.Value * ctx.dpi / 25.4
	case UnitCm:
		return l.Value * ctx.dpi / 2.54
	case UnitIn:
		return l.Value * ctx.dpi
	case UnitEm:
		return l.Value * ctx.fontSize
	case UnitEx:
		// Approximate x-height as half the font size, the conventional
		// fallback when no font metrics are available.
		return l.Value * ctx.fontSize / 2
	}
	return l.Value
}

// reference returns the percentage base for the given axis.
func (ctx *unitContext) reference(axis lengthAxis) float64 {
	switch axis {
	case axisX:
		return ctx.viewport.X
	case axisY:
		return ctx.viewport.Y
	default:
		w, h := ctx.viewport.X, ctx.viewport.Y
		return math.Sqrt(w*w+h*h) / math.Sqrt2
	}
}

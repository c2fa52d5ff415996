package svg

import "math"

// RenderOptions controls rasterization of a normalized tree.
type RenderOptions struct {
	// Background is the canvas color painted before the tree. The zero
	// value leaves the canvas transparent.
	Background Color

	// Workers bounds render parallelism. Zero or negative selects
	// GOMAXPROCS.
	Workers int

	// FlattenTolerance is the maximum curve-to-polyline deviation in
	// device pixels. Zero selects DefaultFlattenTolerance.
	FlattenTolerance float64
}

func (o *RenderOptions) withDefaults() RenderOptions {
	var out RenderOptions
	if o != nil {
		out = *o
	}
	if out.FlattenTolerance <= 0 {
		out.FlattenTolerance = DefaultFlattenTolerance
	}
	return out
}

// renderSize converts the document viewport size to integer pixel
// dimensions, rounding up so the viewport is fully covered.
func renderSize(size Point) (int, int) {
	w := int(math.Ceil(size.X))
	h := int(math.Ceil(size.Y))
	return w, h
}

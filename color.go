package svg

import "math"

// Color represents a non-premultiplied RGBA color with float64 components
// in the range [0, 1].
type Color struct {
	R, G, B, A float64
}

// Predefined colors.
var (
	Transparent = Color{0, 0, 0, 0}
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
)

// RGB creates an opaque color from red, green, blue components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA creates a color from red, green, blue, alpha components.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB8 creates an opaque color from 8-bit components.
func RGB8(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: 1}
}

// WithOpacity returns the color with its alpha multiplied by opacity.
func (c Color) WithOpacity(opacity float64) Color {
	c.A *= clamp01(opacity)
	return c
}

// Premultiply returns the color as premultiplied 8-bit channels.
func (c Color) Premultiply() (r, g, b, a uint8) {
	cc := c.Clamp()
	a = uint8(math.Round(cc.A * 255))
	r = uint8(math.Round(cc.R * cc.A * 255))
	g = uint8(math.Round(cc.G * cc.A * 255))
	b = uint8(math.Round(cc.B * cc.A * 255))
	return r, g, b, a
}

// Clamp returns the color with all components clamped to [0, 1].
func (c Color) Clamp() Color {
	return Color{
		R: clamp01(c.R),
		G: clamp01(c.G),
		B: clamp01(c.B),
		A: clamp01(c.A),
	}
}

// Lerp linearly interpolates between two colors component-wise.
func (c Color) Lerp(d Color, t float64) Color {
	return Color{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
		A: c.A + (d.A-c.A)*t,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

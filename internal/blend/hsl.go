package blend

// Non-separable blend modes (hue, saturation, color, luminosity) per
// section 8 of the W3C Compositing and Blending Level 1 specification.
// They operate on the whole RGB triplet in normalized float space.

// lum returns the luminance of a color.
func lum(r, g, b float64) float64 {
	return 0.3*r + 0.59*g + 0.11*b
}

// sat returns the saturation (max - min) of a color.
func sat(r, g, b float64) float64 {
	return max(r, g, b) - min(r, g, b)
}

// clipColor scales components back into [0, 1] toward the luminance.
func clipColor(r, g, b float64) (float64, float64, float64) {
	l := lum(r, g, b)
	n := min(r, g, b)
	x := max(r, g, b)
	if n < 0 {
		r = l + (r-l)*l/(l-n)
		g = l + (g-l)*l/(l-n)
		b = l + (b-l)*l/(l-n)
	}
	if x > 1 {
		r = l + (r-l)*(1-l)/(x-l)
		g = l + (g-l)*(1-l)/(x-l)
		b = l + (b-l)*(1-l)/(x-l)
	}
	return r, g, b
}

// setLum shifts a color to the target luminance.
func setLum(r, g, b, l float64) (float64, float64, float64) {
	d := l - lum(r, g, b)
	return clipColor(r+d, g+d, b+d)
}

// setSat rescales a color to the target saturation, keeping the channel
// ordering.
func setSat(r, g, b, s float64) (float64, float64, float64) {
	cMin := min(r, g, b)
	cMax := max(r, g, b)
	out := func(c float64) float64 {
		if cMax == cMin {
			return 0
		}
		return (c - cMin) * s / (cMax - cMin)
	}
	return out(r), out(g), out(b)
}

// nonSeparableBlend applies one of the HSL blend modes with the general
// compositing formula, then source-over alpha.
func nonSeparableBlend(sr, sg, sb, sa, dr, dg, db, da uint8, mode Mode) (uint8, uint8, uint8, uint8) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	saf := float64(sa) / 255
	daf := float64(da) / 255
	cs := [3]float64{
		float64(unmultiply(sr, sa)) / 255,
		float64(unmultiply(sg, sa)) / 255,
		float64(unmultiply(sb, sa)) / 255,
	}
	cd := [3]float64{
		float64(unmultiply(dr, da)) / 255,
		float64(unmultiply(dg, da)) / 255,
		float64(unmultiply(db, da)) / 255,
	}

	var br, bg, bb float64
	switch mode {
	case Hue:
		br, bg, bb = setSat(cs[0], cs[1], cs[2], sat(cd[0], cd[1], cd[2]))
		br, bg, bb = setLum(br, bg, bb, lum(cd[0], cd[1], cd[2]))
	case Saturation:
		br, bg, bb = setSat(cd[0], cd[1], cd[2], sat(cs[0], cs[1], cs[2]))
		br, bg, bb = setLum(br, bg, bb, lum(cd[0], cd[1], cd[2]))
	case Color:
		br, bg, bb = setLum(cs[0], cs[1], cs[2], lum(cd[0], cd[1], cd[2]))
	case Luminosity:
		br, bg, bb = setLum(cd[0], cd[1], cd[2], lum(cs[0], cs[1], cs[2]))
	default:
		br, bg, bb = cs[0], cs[1], cs[2]
	}

	mix := func(s, d, blended float64) uint8 {
		co := (1-daf)*saf*s + (1-saf)*daf*d + saf*daf*blended
		return clamp255(int32(co*255 + 0.5))
	}
	outA := saf + daf*(1-saf)
	return mix(cs[0], cd[0], br),
		mix(cs[1], cd[1], bg),
		mix(cs[2], cd[2], bb),
		clamp255(int32(outA*255 + 0.5))
}

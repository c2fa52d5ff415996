package filter

// ColorMatrix applies a 4x5 row-major color matrix. Per the SVG
// specification the matrix operates on non-premultiplied values, so each
// pixel is unpremultiplied, transformed, clamped and re-premultiplied.
func ColorMatrix(img *Image, m [20]float64) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := float64(img.Pix[i+3]) / 255
		var r, g, b float64
		if a > 0 {
			r = float64(img.Pix[i]) / 255 / a
			g = float64(img.Pix[i+1]) / 255 / a
			b = float64(img.Pix[i+2]) / 255 / a
		}

		nr := m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4]
		ng := m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9]
		nb := m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14]
		na := m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19]

		na = clampUnit(na)
		img.Pix[i] = clampChannel(clampUnit(nr) * na * 255)
		img.Pix[i+1] = clampChannel(clampUnit(ng) * na * 255)
		img.Pix[i+2] = clampChannel(clampUnit(nb) * na * 255)
		img.Pix[i+3] = clampChannel(na * 255)
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

package blend

import "math"

// separableBlend applies a per-channel blend function with the general
// compositing formula from the W3C specification:
//
//	co = (1-Da)*Sa*Cs + (1-Sa)*Da*Cd + Sa*Da*B(Cd, Cs)
//
// followed by source-over alpha. Channel inputs to B are straight
// (unmultiplied) values.
func separableBlend(sr, sg, sb, sa, dr, dg, db, da uint8, b func(d, s uint8) uint8) (uint8, uint8, uint8, uint8) {
	if sa == 0 {
		return dr, dg, db, da
	}
	if da == 0 {
		return sr, sg, sb, sa
	}

	sur := unmultiply(sr, sa)
	sug := unmultiply(sg, sa)
	sub := unmultiply(sb, sa)
	dur := unmultiply(dr, da)
	dug := unmultiply(dg, da)
	dub := unmultiply(db, da)

	mix := func(s, d, blended uint8) uint8 {
		t := uint32(mulDiv255(255-da, mulDiv255(sa, s))) +
			uint32(mulDiv255(255-sa, mulDiv255(da, d))) +
			uint32(mulDiv255(sa, mulDiv255(da, blended)))
		if t > 255 {
			t = 255
		}
		return uint8(t)
	}

	outA := addClamp(sa, mulDiv255(da, 255-sa))
	return mix(sur, dur, b(dur, sur)),
		mix(sug, dug, b(dug, sug)),
		mix(sub, dub, b(dub, sub)),
		outA
}

func blendMultiply(d, s uint8) uint8 {
	return mulDiv255(d, s)
}

func blendScreen(d, s uint8) uint8 {
	return 255 - mulDiv255(255-d, 255-s)
}

func blendOverlay(d, s uint8) uint8 {
	// HardLight with the layers swapped.
	return blendHardLight(s, d)
}

func blendDarken(d, s uint8) uint8 {
	return min(d, s)
}

func blendLighten(d, s uint8) uint8 {
	return max(d, s)
}

func blendColorDodge(d, s uint8) uint8 {
	if d == 0 {
		return 0
	}
	if s == 255 {
		return 255
	}
	v := uint32(d) * 255 / uint32(255-s)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

func blendColorBurn(d, s uint8) uint8 {
	if d == 255 {
		return 255
	}
	if s == 0 {
		return 0
	}
	v := uint32(255-d) * 255 / uint32(s)
	if v > 255 {
		v = 255
	}
	return 255 - uint8(v)
}

func blendHardLight(d, s uint8) uint8 {
	if s <= 127 {
		return mulDiv255(d, 2*s)
	}
	return 255 - mulDiv255(255-d, 2*(255-s)+1)
}

func blendSoftLight(d, s uint8) uint8 {
	df := float64(d) / 255
	sf := float64(s) / 255
	var r float64
	if sf <= 0.5 {
		r = df - (1-2*sf)*df*(1-df)
	} else {
		var g float64
		if df <= 0.25 {
			g = ((16*df-12)*df + 4) * df
		} else {
			g = math.Sqrt(df)
		}
		r = df + (2*sf-1)*(g-df)
	}
	return clamp255(int32(r*255 + 0.5))
}

func blendDifference(d, s uint8) uint8 {
	if d > s {
		return d - s
	}
	return s - d
}

func blendExclusion(d, s uint8) uint8 {
	t := uint32(d) + uint32(s) - 2*uint32(mulDiv255(d, s))
	if t > 255 {
		t = 255
	}
	return uint8(t)
}

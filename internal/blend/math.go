package blend

// mulDiv255 computes a*b/255 with rounding, the premultiplied channel
// product.
func mulDiv255(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8((t + t>>8) >> 8)
}

// addClamp adds two channel values, saturating at 255.
func addClamp(a, b uint8) uint8 {
	s := uint16(a) + uint16(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// clamp255 converts an accumulated value to a channel byte.
func clamp255(x int32) uint8 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

// unmultiply recovers the straight channel value from a premultiplied
// channel and its alpha.
func unmultiply(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

package filter

// MorphOp selects the morphology operator.
type MorphOp int

const (
	// Erode takes the per-channel minimum over the window.
	Erode MorphOp = iota
	// Dilate takes the per-channel maximum over the window.
	Dilate
)

// Morphology erodes or dilates with a rectangular window of half-extents
// rx, ry. Separable min/max passes keep it linear in the radius.
func Morphology(img *Image, op MorphOp, rx, ry int) {
	if img.W == 0 || img.H == 0 || (rx <= 0 && ry <= 0) {
		return
	}
	if rx > 0 {
		tmp := make([]uint8, len(img.Pix))
		morphH(img.Pix, tmp, img.W, img.H, rx, op)
		copy(img.Pix, tmp)
	}
	if ry > 0 {
		tmp := make([]uint8, len(img.Pix))
		morphV(img.Pix, tmp, img.W, img.H, ry, op)
		copy(img.Pix, tmp)
	}
}

func morphH(src, dst []uint8, w, h, r int, op MorphOp) {
	for y := 0; y < h; y++ {
		row := y * w * 4
		for x := 0; x < w; x++ {
			lo := max(0, x-r)
			hi := min(w-1, x+r)
			var vr, vg, vb, va uint8
			if op == Erode {
				vr, vg, vb, va = 255, 255, 255, 255
				// Out-of-bounds reads are transparent, so a window
				// touching the edge erodes to zero.
				if x-r < 0 || x+r >= w {
					vr, vg, vb, va = 0, 0, 0, 0
				}
			}
			for sx := lo; sx <= hi; sx++ {
				i := row + sx*4
				if op == Dilate {
					vr = max(vr, src[i])
					vg = max(vg, src[i+1])
					vb = max(vb, src[i+2])
					va = max(va, src[i+3])
				} else {
					vr = min(vr, src[i])
					vg = min(vg, src[i+1])
					vb = min(vb, src[i+2])
					va = min(va, src[i+3])
				}
			}
			i := row + x*4
			dst[i], dst[i+1], dst[i+2], dst[i+3] = vr, vg, vb, va
		}
	}
}

func morphV(src, dst []uint8, w, h, r int, op MorphOp) {
	for x := 0; x < w; x++ {
		col := x * 4
		for y := 0; y < h; y++ {
			lo := max(0, y-r)
			hi := min(h-1, y+r)
			var vr, vg, vb, va uint8
			if op == Erode {
				vr, vg, vb, va = 255, 255, 255, 255
				if y-r < 0 || y+r >= h {
					vr, vg, vb, va = 0, 0, 0, 0
				}
			}
			for sy := lo; sy <= hi; sy++ {
				i := sy*w*4 + col
				if op == Dilate {
					vr = max(vr, src[i])
					vg = max(vg, src[i+1])
					vb = max(vb, src[i+2])
					va = max(va, src[i+3])
				} else {
					vr = min(vr, src[i])
					vg = min(vg, src[i+1])
					vb = min(vb, src[i+2])
					va = min(va, src[i+3])
				}
			}
			i := y*w*4 + col
			dst[i], dst[i+1], dst[i+2], dst[i+3] = vr, vg, vb, va
		}
	}
}

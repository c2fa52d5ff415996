package filter

import (
	"github.com/gogpu/svg/internal/blend"
)

// Offset returns the image translated by (dx, dy) pixels. Vacated areas
// are transparent.
func Offset(img *Image, dx, dy int) *Image {
	out := NewImage(img.W, img.H)
	for y := 0; y < img.H; y++ {
		sy := y - dy
		if sy < 0 || sy >= img.H {
			continue
		}
		for x := 0; x < img.W; x++ {
			sx := x - dx
			if sx < 0 || sx >= img.W {
				continue
			}
			si := (sy*img.W + sx) * 4
			di := (y*img.W + x) * 4
			copy(out.Pix[di:di+4], img.Pix[si:si+4])
		}
	}
	return out
}

// Flood fills the whole image with a premultiplied color.
func Flood(img *Image, r, g, b, a uint8) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
}

// CompositeOp selects the feComposite operator.
type CompositeOp int

const (
	CompOver CompositeOp = iota
	CompIn
	CompOut
	CompAtop
	CompXor
	CompArithmetic
)

// Composite combines a over b with the operator, returning a new image.
// For CompArithmetic the result per channel is
// k1*a*b + k2*a + k3*b + k4, computed on premultiplied values.
func Composite(a, b *Image, op CompositeOp, k1, k2, k3, k4 float64) *Image {
	out := NewImage(a.W, a.H)
	n := min(len(a.Pix), len(b.Pix))

	if op == CompArithmetic {
		for i := 0; i < n; i++ {
			av := float64(a.Pix[i]) / 255
			bv := float64(b.Pix[i]) / 255
			out.Pix[i] = clampChannel((k1*av*bv + k2*av + k3*bv + k4) * 255)
		}
		// Keep premultiplication consistent: channels may not exceed
		// alpha.
		for i := 0; i+3 < n; i += 4 {
			alpha := out.Pix[i+3]
			for c := 0; c < 3; c++ {
				if out.Pix[i+c] > alpha {
					out.Pix[i+c] = alpha
				}
			}
		}
		return out
	}

	var pd blend.PorterDuffOp
	switch op {
	case CompIn:
		pd = blend.OpIn
	case CompOut:
		pd = blend.OpOut
	case CompAtop:
		pd = blend.OpAtop
	case CompXor:
		pd = blend.OpXor
	default:
		pd = blend.OpOver
	}
	for i := 0; i+3 < n; i += 4 {
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = blend.PorterDuff(
			a.Pix[i], a.Pix[i+1], a.Pix[i+2], a.Pix[i+3],
			b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3],
			pd,
		)
	}
	return out
}

// BlendImages composites a over b with a W3C blend mode, returning a
// new image.
func BlendImages(a, b *Image, mode blend.Mode) *Image {
	out := b.Clone()
	blend.Over(out.Pix, a.Pix, mode)
	return out
}

// MergeOver composites src over dst in place, plain source-over.
func MergeOver(dst, src *Image) {
	blend.Over(dst.Pix, src.Pix, blend.Normal)
}

// Channel selects a displacement map channel.
type Channel int

const (
	ChanR Channel = iota
	ChanG
	ChanB
	ChanA
)

// Displace moves each pixel of in by the scaled channel values of dmap:
//
//	P'(x,y) = P(x + scale*(XC(x,y)-0.5), y + scale*(YC(x,y)-0.5))
//
// Channel values are read non-premultiplied per the SVG specification.
func Displace(in, dmap *Image, scale float64, xc, yc Channel) *Image {
	out := NewImage(in.W, in.H)
	for y := 0; y < in.H; y++ {
		for x := 0; x < in.W; x++ {
			dxv := channelValue(dmap, x, y, xc)
			dyv := channelValue(dmap, x, y, yc)
			sx := x + int(scale*(dxv-0.5))
			sy := y + int(scale*(dyv-0.5))
			r, g, b, a := in.at(sx, sy)
			i := (y*in.W + x) * 4
			out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = r, g, b, a
		}
	}
	return out
}

func channelValue(img *Image, x, y int, ch Channel) float64 {
	r, g, b, a := img.at(x, y)
	if ch == ChanA {
		return float64(a) / 255
	}
	if a == 0 {
		return 0
	}
	var c uint8
	switch ch {
	case ChanR:
		c = r
	case ChanG:
		c = g
	case ChanB:
		c = b
	}
	// Unpremultiply for the straight channel value.
	v := float64(c) / float64(a)
	if v > 1 {
		v = 1
	}
	return v
}

package filter

import "math"

// Blur applies a Gaussian approximation built from three box blur
// passes, per the SVG filter specification. Box sizes derive from the
// standard deviation as
//
//	d = floor(s * 3 * sqrt(2*pi)/4 + 0.5)
//
// with centered passes for odd d and offset passes for even d. A zero
// deviation on an axis leaves that axis untouched.
func Blur(img *Image, sigmaX, sigmaY float64) {
	if img.W == 0 || img.H == 0 {
		return
	}
	if dx := boxSize(sigmaX); dx > 1 {
		blurAxisX(img, dx)
	}
	if dy := boxSize(sigmaY); dy > 1 {
		blurAxisY(img, dy)
	}
}

// boxSize converts a standard deviation to the box filter size.
func boxSize(sigma float64) int {
	if sigma <= 0 {
		return 0
	}
	return int(sigma*3*math.Sqrt(2*math.Pi)/4 + 0.5)
}

func blurAxisX(img *Image, d int) {
	tmp := make([]uint8, len(img.Pix))
	if d%2 == 1 {
		r := d / 2
		boxBlurH(img.Pix, tmp, img.W, img.H, r, r)
		boxBlurH(tmp, img.Pix, img.W, img.H, r, r)
		boxBlurH(img.Pix, tmp, img.W, img.H, r, r)
		copy(img.Pix, tmp)
		return
	}
	// Even size: two passes of d offset in opposite directions, then one
	// pass of d+1.
	r := d / 2
	boxBlurH(img.Pix, tmp, img.W, img.H, r, r-1)
	boxBlurH(tmp, img.Pix, img.W, img.H, r-1, r)
	boxBlurH(img.Pix, tmp, img.W, img.H, r, r)
	copy(img.Pix, tmp)
}

func blurAxisY(img *Image, d int) {
	tmp := make([]uint8, len(img.Pix))
	if d%2 == 1 {
		r := d / 2
		boxBlurV(img.Pix, tmp, img.W, img.H, r, r)
		boxBlurV(tmp, img.Pix, img.W, img.H, r, r)
		boxBlurV(img.Pix, tmp, img.W, img.H, r, r)
		copy(img.Pix, tmp)
		return
	}
	r := d / 2
	boxBlurV(img.Pix, tmp, img.W, img.H, r, r-1)
	boxBlurV(tmp, img.Pix, img.W, img.H, r-1, r)
	boxBlurV(img.Pix, tmp, img.W, img.H, r, r)
	copy(img.Pix, tmp)
}

// boxBlurH runs one horizontal box pass with the window extending left
// pixels back and right pixels forward of each position. Samples outside
// the buffer are transparent black.
func boxBlurH(src, dst []uint8, w, h, left, right int) {
	window := left + right + 1
	for y := 0; y < h; y++ {
		row := y * w * 4
		var sumR, sumG, sumB, sumA int
		// Prime the window for x = 0.
		for x := 0; x <= right && x < w; x++ {
			i := row + x*4
			sumR += int(src[i])
			sumG += int(src[i+1])
			sumB += int(src[i+2])
			sumA += int(src[i+3])
		}
		for x := 0; x < w; x++ {
			i := row + x*4
			dst[i] = uint8((sumR + window/2) / window)
			dst[i+1] = uint8((sumG + window/2) / window)
			dst[i+2] = uint8((sumB + window/2) / window)
			dst[i+3] = uint8((sumA + window/2) / window)

			if out := x - left; out >= 0 {
				j := row + out*4
				sumR -= int(src[j])
				sumG -= int(src[j+1])
				sumB -= int(src[j+2])
				sumA -= int(src[j+3])
			}
			if in := x + right + 1; in < w {
				j := row + in*4
				sumR += int(src[j])
				sumG += int(src[j+1])
				sumB += int(src[j+2])
				sumA += int(src[j+3])
			}
		}
	}
}

// boxBlurV runs one vertical box pass.
func boxBlurV(src, dst []uint8, w, h, up, down int) {
	window := up + down + 1
	for x := 0; x < w; x++ {
		col := x * 4
		var sumR, sumG, sumB, sumA int
		for y := 0; y <= down && y < h; y++ {
			i := y*w*4 + col
			sumR += int(src[i])
			sumG += int(src[i+1])
			sumB += int(src[i+2])
			sumA += int(src[i+3])
		}
		for y := 0; y < h; y++ {
			i := y*w*4 + col
			dst[i] = uint8((sumR + window/2) / window)
			dst[i+1] = uint8((sumG + window/2) / window)
			dst[i+2] = uint8((sumB + window/2) / window)
			dst[i+3] = uint8((sumA + window/2) / window)

			if out := y - up; out >= 0 {
				j := out*w*4 + col
				sumR -= int(src[j])
				sumG -= int(src[j+1])
				sumB -= int(src[j+2])
				sumA -= int(src[j+3])
			}
			if in := y + down + 1; in < h {
				j := in*w*4 + col
				sumR += int(src[j])
				sumG += int(src[j+1])
				sumB += int(src[j+2])
				sumA += int(src[j+3])
			}
		}
	}
}

// Package filter implements the raster operations behind SVG filter
// primitives: Gaussian blur, color matrices, morphology, composites and
// displacement.
//
// All images are premultiplied RGBA8 buffers sized to the filter region.
// Out-of-region samples read as transparent black.
package filter

// Image is a premultiplied RGBA8 buffer.
type Image struct {
	W, H int
	// Pix holds W*H*4 bytes in RGBA order.
	Pix []uint8
}

// NewImage allocates a transparent image.
func NewImage(w, h int) *Image {
	if w <= 0 || h <= 0 {
		return &Image{}
	}
	return &Image{W: w, H: h, Pix: make([]uint8, w*h*4)}
}

// Clone returns a deep copy.
func (m *Image) Clone() *Image {
	out := &Image{W: m.W, H: m.H, Pix: make([]uint8, len(m.Pix))}
	copy(out.Pix, m.Pix)
	return out
}

// at returns the premultiplied pixel at (x, y), transparent outside the
// buffer.
func (m *Image) at(x, y int) (uint8, uint8, uint8, uint8) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0, 0, 0, 0
	}
	i := (y*m.W + x) * 4
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]
}

// AlphaOnly returns a copy with the color channels cleared, keeping
// alpha. This is the SourceAlpha input.
func (m *Image) AlphaOnly() *Image {
	out := NewImage(m.W, m.H)
	for i := 3; i < len(m.Pix); i += 4 {
		out.Pix[i] = m.Pix[i]
	}
	return out
}

// clampChannel converts an accumulator to a byte channel.
func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

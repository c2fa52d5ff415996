package raster

// Mask is an 8-bit coverage buffer over an integer device-space
// rectangle. Pixels outside the rectangle have zero coverage.
type Mask struct {
	// X, Y is the top-left corner in device space.
	X, Y int
	// W, H are the mask dimensions.
	W, H int
	// Pix holds W*H coverage values in row-major order.
	Pix []uint8
}

// NewMask allocates a zeroed coverage mask at (x, y) sized w by h.
func NewMask(x, y, w, h int) *Mask {
	return &Mask{X: x, Y: y, W: w, H: h, Pix: make([]uint8, w*h)}
}

// At returns the coverage at device coordinates (x, y).
func (m *Mask) At(x, y int) uint8 {
	x -= m.X
	y -= m.Y
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return 0
	}
	return m.Pix[y*m.W+x]
}

// Set stores coverage at device coordinates (x, y). Out-of-bounds
// writes are dropped.
func (m *Mask) Set(x, y int, v uint8) {
	x -= m.X
	y -= m.Y
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.Pix[y*m.W+x] = v
}

// Intersect multiplies this mask's coverage by another mask's
// coverage, in place. Areas outside other become zero.
func (m *Mask) Intersect(other *Mask) {
	for y := 0; y < m.H; y++ {
		row := m.Pix[y*m.W : (y+1)*m.W]
		for x := range row {
			if row[x] == 0 {
				continue
			}
			o := other.At(m.X+x, m.Y+y)
			row[x] = uint8((uint32(row[x])*uint32(o) + 127) / 255)
		}
	}
}

// IsEmpty reports whether the mask has no coverage at all.
func (m *Mask) IsEmpty() bool {
	for _, v := range m.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

package svg

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// Pixmap represents a rectangular pixel buffer in premultiplied RGBA
// format, 4 bytes per pixel. Premultiplied storage keeps compositing
// operators linear and associative.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a new transparent pixmap with the given dimensions.
// Returns nil if either dimension is not positive.
func NewPixmap(width, height int) *Pixmap {
	if width <= 0 || height <= 0 {
		return nil
	}
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the pixmap in pixels.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap in pixels.
func (p *Pixmap) Height() int {
	return p.height
}

// Data returns the raw premultiplied RGBA pixel data.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// Clear fills the entire pixmap with a color.
func (p *Pixmap) Clear(c Color) {
	r, g, b, a := c.Premultiply()
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = r
		p.data[i+1] = g
		p.data[i+2] = b
		p.data[i+3] = a
	}
}

// SetPixel sets a single pixel to a non-premultiplied color.
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c Color) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := (y*p.width + x) * 4
	p.data[i+0], p.data[i+1], p.data[i+2], p.data[i+3] = c.Premultiply()
}

// GetPixel returns the non-premultiplied color of a single pixel.
// Out-of-bounds coordinates return transparent.
func (p *Pixmap) GetPixel(x, y int) Color {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Transparent
	}
	i := (y*p.width + x) * 4
	a := p.data[i+3]
	if a == 0 {
		return Transparent
	}
	af := float64(a)
	return Color{
		R: float64(p.data[i+0]) / af,
		G: float64(p.data[i+1]) / af,
		B: float64(p.data[i+2]) / af,
		A: af / 255,
	}
}

// Clone returns a deep copy of the pixmap.
func (p *Pixmap) Clone() *Pixmap {
	out := NewPixmap(p.width, p.height)
	copy(out.data, p.data)
	return out
}

// Image returns the pixmap as an *image.RGBA sharing no memory with the
// pixmap. image.RGBA uses premultiplied alpha, matching Pixmap's storage.
func (p *Pixmap) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// FromImage creates a pixmap from any image.Image, premultiplying as
// needed.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	pm := NewPixmap(b.Dx(), b.Dy())
	if pm == nil {
		return nil
	}
	// The bulk copy only works for images whose Pix is one dense
	// run; sub-images carry an offset origin and a wider stride.
	if rgba, ok := img.(*image.RGBA); ok &&
		rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		copy(pm.data, rgba.Pix)
		return pm
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, b16, a := img.At(x, y).RGBA() // premultiplied 16-bit
			pm.data[i+0] = uint8(r >> 8)
			pm.data[i+1] = uint8(g >> 8)
			pm.data[i+2] = uint8(b16 >> 8)
			pm.data[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return pm
}

// EncodePNG writes the pixmap to w in PNG format.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.Image())
}

// SavePNG writes the pixmap to a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("svg: create %s: %w", path, err)
	}
	defer f.Close()
	if err := p.EncodePNG(f); err != nil {
		return fmt.Errorf("svg: encode %s: %w", path, err)
	}
	return f.Close()
}

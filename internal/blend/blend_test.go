package blend

import "testing"

type px [4]uint8

func pixel(s, d px, mode Mode) px {
	r, g, b, a := Pixel(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3], mode)
	return px{r, g, b, a}
}

func TestMulDiv255(t *testing.T) {
	tests := []struct {
		a, b, want uint8
	}{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{128, 255, 128},
		{255, 128, 128},
		{128, 128, 64},
	}
	for _, tt := range tests {
		if got := mulDiv255(tt.a, tt.b); got != tt.want {
			t.Errorf("mulDiv255(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSourceOver(t *testing.T) {
	tests := []struct {
		name string
		src  px
		dst  px
		want px
	}{
		{"opaque replaces", px{255, 0, 0, 255}, px{0, 0, 255, 255}, px{255, 0, 0, 255}},
		{"transparent keeps", px{0, 0, 0, 0}, px{0, 0, 255, 255}, px{0, 0, 255, 255}},
		{"half over opaque", px{128, 0, 0, 128}, px{0, 0, 254, 255}, px{128, 0, 127, 255}},
		{"half over clear", px{128, 0, 0, 128}, px{0, 0, 0, 0}, px{128, 0, 0, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pixel(tt.src, tt.dst, Normal); got != tt.want {
				t.Errorf("sourceOver(%v, %v) = %v, want %v", tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

func TestSeparableBlendModes(t *testing.T) {
	// All values opaque so the blend function applies undiluted.
	tests := []struct {
		name string
		mode Mode
		src  px
		dst  px
		want px
	}{
		{"multiply by white keeps dst", Multiply, px{255, 255, 255, 255}, px{10, 100, 200, 255}, px{10, 100, 200, 255}},
		{"multiply by black gives black", Multiply, px{0, 0, 0, 255}, px{10, 100, 200, 255}, px{0, 0, 0, 255}},
		{"screen with black keeps dst", Screen, px{0, 0, 0, 255}, px{10, 100, 200, 255}, px{10, 100, 200, 255}},
		{"screen with white gives white", Screen, px{255, 255, 255, 255}, px{10, 100, 200, 255}, px{255, 255, 255, 255}},
		{"darken picks minimum", Darken, px{50, 200, 100, 255}, px{100, 100, 100, 255}, px{50, 100, 100, 255}},
		{"lighten picks maximum", Lighten, px{50, 200, 100, 255}, px{100, 100, 100, 255}, px{100, 200, 100, 255}},
		{"difference", Difference, px{200, 50, 0, 255}, px{100, 100, 100, 255}, px{100, 50, 100, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pixel(tt.src, tt.dst, tt.mode)
			for i := 0; i < 4; i++ {
				d := int(got[i]) - int(tt.want[i])
				if d < 0 {
					d = -d
				}
				if d > 1 {
					t.Fatalf("Pixel(%v over %v, %v) = %v, want %v", tt.src, tt.dst, tt.mode, got, tt.want)
				}
			}
		})
	}
}

func TestBlendOverTransparentDstActsAsSource(t *testing.T) {
	// With Da = 0 every blend mode reduces to plain source.
	src := px{200, 100, 50, 255}
	for _, mode := range []Mode{Multiply, Screen, Overlay, Darken, Lighten, Difference, Exclusion} {
		got := pixel(src, px{0, 0, 0, 0}, mode)
		if got != src {
			t.Errorf("mode %v over transparent = %v, want %v", mode, got, src)
		}
	}
}

func TestBlendTransparentSrcKeepsDst(t *testing.T) {
	dst := px{10, 100, 200, 255}
	for _, mode := range []Mode{Normal, Multiply, Screen, Hue, Luminosity} {
		got := pixel(px{0, 0, 0, 0}, dst, mode)
		if got != dst {
			t.Errorf("transparent source in mode %v = %v, want %v", mode, got, dst)
		}
	}
}

func TestNonSeparableLuminosity(t *testing.T) {
	// Luminosity of gray source over a colored destination keeps the
	// destination's hue but takes the source's lightness: white source
	// over anything opaque gives white.
	got := pixel(px{255, 255, 255, 255}, px{200, 0, 0, 255}, Luminosity)
	if got != (px{255, 255, 255, 255}) {
		t.Errorf("white luminosity over red = %v, want white", got)
	}
	// Black source removes all lightness.
	got = pixel(px{0, 0, 0, 255}, px{200, 0, 0, 255}, Luminosity)
	if got != (px{0, 0, 0, 255}) {
		t.Errorf("black luminosity over red = %v, want black", got)
	}
}

func TestOverSlice(t *testing.T) {
	dst := []uint8{
		0, 0, 255, 255,
		10, 20, 30, 255,
	}
	src := []uint8{
		255, 0, 0, 255,
		0, 0, 0, 0,
	}
	Over(dst, src, Normal)
	want := []uint8{
		255, 0, 0, 255,
		10, 20, 30, 255,
	}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("Over result[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestPorterDuff(t *testing.T) {
	s := px{200, 0, 0, 200}
	d := px{0, 100, 0, 100}
	tests := []struct {
		name string
		op   PorterDuffOp
		want px
	}{
		{"in keeps source where dst exists", OpIn, px{78, 0, 0, 78}},
		{"out keeps source where dst empty", OpOut, px{122, 0, 0, 122}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b, a := PorterDuff(s[0], s[1], s[2], s[3], d[0], d[1], d[2], d[3], tt.op)
			got := px{r, g, b, a}
			for i := 0; i < 4; i++ {
				diff := int(got[i]) - int(tt.want[i])
				if diff < 0 {
					diff = -diff
				}
				if diff > 1 {
					t.Fatalf("PorterDuff %v = %v, want %v", tt.op, got, tt.want)
				}
			}
		})
	}
}

func TestUnmultiply(t *testing.T) {
	tests := []struct {
		c, a, want uint8
	}{
		{0, 0, 0},
		{128, 255, 128},
		{64, 128, 128},
		{128, 128, 255},
	}
	for _, tt := range tests {
		if got := unmultiply(tt.c, tt.a); got != tt.want {
			t.Errorf("unmultiply(%d, %d) = %d, want %d", tt.c, tt.a, got, tt.want)
		}
	}
}

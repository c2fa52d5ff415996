package svg

import (
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// buildColorFont wraps raw COLR and CPAL tables in a minimal sfnt
// table directory.
func buildColorFont(colr, cpal []byte) []byte {
	var out []byte
	u16 := func(v int) { out = append(out, byte(v>>8), byte(v)) }
	u32 := func(v int) { out = append(out, byte(v>>24), byte(v>>16), byte(v>>8), byte(v)) }

	u32(0x00010000)
	u16(2)
	u16(0)
	u16(0)
	u16(0)

	colrOff := 12 + 2*16
	cpalOff := colrOff + len(colr)
	out = append(out, "COLR"...)
	u32(0)
	u32(colrOff)
	u32(len(colr))
	out = append(out, "CPAL"...)
	u32(0)
	u32(cpalOff)
	u32(len(cpal))

	out = append(out, colr...)
	out = append(out, cpal...)
	return out
}

func testCOLRTable() []byte {
	return []byte{
		0, 0, // version 0
		0, 1, // one base glyph record
		0, 0, 0, 14, // base glyph records offset
		0, 0, 0, 20, // layer records offset
		0, 2, // two layer records
		// base glyph record: gid 5, first layer 0, 2 layers
		0, 5, 0, 0, 0, 2,
		// layer records: gid 7 palette 0, gid 8 foreground
		0, 7, 0, 0,
		0, 8, 0xFF, 0xFF,
	}
}

func testCPALTable() []byte {
	return []byte{
		0, 0, // version 0
		0, 1, // one palette entry
		0, 1, // one palette
		0, 1, // one color record
		0, 0, 0, 14, // color records offset
		0, 0, // first palette starts at record 0
		// BGRA color record: orange-ish (R=255, G=128, B=0, A=255)
		0x00, 0x80, 0xFF, 0xFF,
	}
}

func TestParseCOLR(t *testing.T) {
	table := parseCOLR(buildColorFont(testCOLRTable(), testCPALTable()))
	if table == nil {
		t.Fatal("parseCOLR returned nil for a valid color font")
	}

	layers := table.glyphLayers(5)
	if len(layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(layers))
	}
	if layers[0].gid != 7 || layers[0].foreground {
		t.Errorf("layer 0 = %+v, want gid 7, palette color", layers[0])
	}
	c := layers[0].color
	if c.R != 1 || c.B != 0 || c.A != 1 || c.G < 0.49 || c.G > 0.51 {
		t.Errorf("layer 0 color = %+v, want orange from BGRA record", c)
	}
	if layers[1].gid != 8 || !layers[1].foreground {
		t.Errorf("layer 1 = %+v, want gid 8, foreground", layers[1])
	}

	if table.glyphLayers(6) != nil {
		t.Error("glyph without color record must have nil layers")
	}
	var nilTable *colrTable
	if nilTable.glyphLayers(5) != nil {
		t.Error("nil table must report nil layers")
	}
}

func TestParseCOLRRejectsMalformed(t *testing.T) {
	if parseCOLR(goregular.TTF) != nil {
		t.Error("font without color tables must parse to nil")
	}
	if parseCOLR(nil) != nil {
		t.Error("empty data must parse to nil")
	}

	// Base glyph records pointing past the table end.
	bad := testCOLRTable()
	bad[6] = 0xFF
	if parseCOLR(buildColorFont(bad, testCPALTable())) != nil {
		t.Error("out-of-bounds base records must parse to nil")
	}

	// Unsupported future version.
	bad = testCOLRTable()
	bad[1] = 2
	if parseCOLR(buildColorFont(bad, testCPALTable())) != nil {
		t.Error("COLR version 2 must parse to nil")
	}

	// Truncated palette records.
	if parseCOLR(buildColorFont(testCOLRTable(), testCPALTable()[:14])) != nil {
		t.Error("truncated CPAL must parse to nil")
	}
}

func TestFontTable(t *testing.T) {
	colr := testCOLRTable()
	data := buildColorFont(colr, testCPALTable())

	got := fontTable(data, "COLR")
	if len(got) != len(colr) {
		t.Fatalf("COLR table length = %d, want %d", len(got), len(colr))
	}
	for i := range colr {
		if got[i] != colr[i] {
			t.Fatalf("COLR table byte %d = %#x, want %#x", i, got[i], colr[i])
		}
	}
	if fontTable(data, "glyf") != nil {
		t.Error("missing table must return nil")
	}
	if fontTable(data[:8], "COLR") != nil {
		t.Error("truncated directory must return nil")
	}
}

package svg

import "encoding/binary"

// colrLayer is one layer of a COLRv0 color glyph: a glyph outline filled
// with a palette color, stacked bottom to top.
type colrLayer struct {
	gid   uint16
	color Color
	// foreground layers (palette index 0xFFFF) take the text color.
	foreground bool
}

// colrTable holds the layer records of a font's COLR table resolved
// against the first CPAL palette.
type colrTable struct {
	base map[uint16][]colrLayer
}

// glyphLayers returns the color layers of a glyph, or nil for glyphs
// without a color record.
func (t *colrTable) glyphLayers(gid uint16) []colrLayer {
	if t == nil {
		return nil
	}
	return t.base[gid]
}

// parseCOLR extracts COLRv0 layer records and the first CPAL palette
// from raw font data. COLRv1 fonts keep the v0 record arrays in the
// same header slots, so their v0 fallback layers parse too. Returns nil
// when the font has no usable color tables; malformed tables are
// treated as absent.
func parseCOLR(data []byte) *colrTable {
	colr := fontTable(data, "COLR")
	cpal := fontTable(data, "CPAL")
	if len(colr) < 14 || len(cpal) < 12 {
		return nil
	}

	if binary.BigEndian.Uint16(colr[0:2]) > 1 {
		return nil
	}
	numBase := int(binary.BigEndian.Uint16(colr[2:4]))
	baseOff := int(binary.BigEndian.Uint32(colr[4:8]))
	layerOff := int(binary.BigEndian.Uint32(colr[8:12]))
	numLayers := int(binary.BigEndian.Uint16(colr[12:14]))
	if baseOff+numBase*6 > len(colr) || layerOff+numLayers*4 > len(colr) {
		return nil
	}

	palette := parseCPAL(cpal)
	if palette == nil {
		return nil
	}

	t := &colrTable{base: make(map[uint16][]colrLayer, numBase)}
	for i := 0; i < numBase; i++ {
		rec := colr[baseOff+i*6:]
		gid := binary.BigEndian.Uint16(rec[0:2])
		first := int(binary.BigEndian.Uint16(rec[2:4]))
		count := int(binary.BigEndian.Uint16(rec[4:6]))
		if first+count > numLayers || count == 0 {
			continue
		}
		layers := make([]colrLayer, 0, count)
		for j := first; j < first+count; j++ {
			lrec := colr[layerOff+j*4:]
			l := colrLayer{gid: binary.BigEndian.Uint16(lrec[0:2])}
			idx := binary.BigEndian.Uint16(lrec[2:4])
			if idx == 0xFFFF {
				l.foreground = true
			} else if int(idx) < len(palette) {
				l.color = palette[idx]
			} else {
				continue
			}
			layers = append(layers, l)
		}
		if len(layers) > 0 {
			t.base[gid] = layers
		}
	}
	if len(t.base) == 0 {
		return nil
	}
	return t
}

// parseCPAL returns the first palette of a CPAL table. CPAL stores
// colors as BGRA bytes.
func parseCPAL(cpal []byte) []Color {
	numEntries := int(binary.BigEndian.Uint16(cpal[2:4]))
	numPalettes := int(binary.BigEndian.Uint16(cpal[4:6]))
	recordsOff := int(binary.BigEndian.Uint32(cpal[8:12]))
	if numPalettes == 0 || numEntries == 0 || 12+2 > len(cpal) {
		return nil
	}
	firstIndex := int(binary.BigEndian.Uint16(cpal[12:14]))

	palette := make([]Color, numEntries)
	for j := 0; j < numEntries; j++ {
		pos := recordsOff + (firstIndex+j)*4
		if pos+4 > len(cpal) {
			return nil
		}
		palette[j] = Color{
			B: float64(cpal[pos]) / 255,
			G: float64(cpal[pos+1]) / 255,
			R: float64(cpal[pos+2]) / 255,
			A: float64(cpal[pos+3]) / 255,
		}
	}
	return palette
}

// fontTable returns the raw bytes of one sfnt table, or nil when the
// table is absent or the directory is malformed.
func fontTable(data []byte, tag string) []byte {
	if len(data) < 12 {
		return nil
	}
	num := int(binary.BigEndian.Uint16(data[4:6]))
	for i := 0; i < num; i++ {
		rec := 12 + i*16
		if rec+16 > len(data) {
			return nil
		}
		if string(data[rec:rec+4]) != tag {
			continue
		}
		off := int(binary.BigEndian.Uint32(data[rec+8 : rec+12]))
		length := int(binary.BigEndian.Uint32(data[rec+12 : rec+16]))
		if length == 0 || off+length > len(data) || off+length < off {
			return nil
		}
		return data[off : off+length]
	}
	return nil
}

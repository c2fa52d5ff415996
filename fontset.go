package svg

import (
	"bytes"
	"errors"
	"strings"
	"sync"

	"github.com/go-text/typesetting/font"
	"golang.org/x/image/font/sfnt"
)

// ErrBadFont reports font data that neither parser accepts.
var ErrBadFont = errors.New("svg: unusable font data")

// FontFace is one loaded font with its matching metadata. The go-text
// font handles shaping and bitmap glyph data; the sfnt font extracts
// outlines; colr holds COLR/CPAL color layers when the font has them.
// All views are parsed from the same bytes, so glyph ids agree.
type FontFace struct {
	family string
	weight int
	italic bool

	shaped *font.Font
	sf     *sfnt.Font
	colr   *colrTable
}

// Family returns the face's family name as registered.
func (f *FontFace) Family() string { return f.family }

// FontSet is a collection of fonts available to text layout. A nil or
// empty set renders text elements as nothing.
//
// FontSet is safe for concurrent use after loading; glyph loading state
// is per-call.
type FontSet struct {
	mu    sync.RWMutex
	faces []*FontFace
}

// NewFontSet returns an empty font set.
func NewFontSet() *FontSet {
	return &FontSet{}
}

// Add registers TTF/OTF font data under an explicit family descriptor.
// weight follows CSS (400 regular, 700 bold).
func (s *FontSet) Add(data []byte, family string, weight int, italic bool) error {
	face, err := parseFontData(data)
	if err != nil {
		return err
	}
	face.family = strings.ToLower(strings.TrimSpace(family))
	face.weight = weight
	face.italic = italic

	s.mu.Lock()
	s.faces = append(s.faces, face)
	s.mu.Unlock()
	return nil
}

// AddFont registers font data, reading the family and style from the
// font's name table.
func (s *FontSet) AddFont(data []byte) error {
	face, err := parseFontData(data)
	if err != nil {
		return err
	}

	var buf sfnt.Buffer
	family, err := face.sf.Name(&buf, sfnt.NameIDFamily)
	if err != nil || family == "" {
		return ErrBadFont
	}
	sub, _ := face.sf.Name(&buf, sfnt.NameIDSubfamily)
	sub = strings.ToLower(sub)

	face.family = strings.ToLower(strings.TrimSpace(family))
	face.weight = 400
	if strings.Contains(sub, "bold") {
		face.weight = 700
	}
	face.italic = strings.Contains(sub, "italic") || strings.Contains(sub, "oblique")

	s.mu.Lock()
	s.faces = append(s.faces, face)
	s.mu.Unlock()
	return nil
}

func parseFontData(data []byte) (*FontFace, error) {
	shaped, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, ErrBadFont
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, ErrBadFont
	}
	return &FontFace{shaped: shaped.Font, sf: sf, colr: parseCOLR(data)}, nil
}

// Len returns the number of registered faces.
func (s *FontSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.faces)
}

// Match selects the best face for a CSS font-family list and style.
// Generic families (serif, sans-serif, monospace, cursive, fantasy)
// match any face. Returns nil when the set is empty.
func (s *FontSet) Match(families string, weight int, italic bool) *FontFace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.faces) == 0 {
		return nil
	}

	for _, f := range strings.Split(families, ",") {
		name := strings.ToLower(strings.Trim(strings.TrimSpace(f), `'"`))
		if name == "" {
			continue
		}
		var candidates []*FontFace
		if isGenericFamily(name) {
			candidates = s.faces
		} else {
			for _, face := range s.faces {
				if face.family == name {
					candidates = append(candidates, face)
				}
			}
		}
		if best := pickFace(candidates, weight, italic); best != nil {
			return best
		}
	}
	// Last resort: best style match across all faces.
	return pickFace(s.faces, weight, italic)
}

func isGenericFamily(name string) bool {
	switch name {
	case "serif", "sans-serif", "monospace", "cursive", "fantasy", "system-ui":
		return true
	}
	return false
}

// pickFace chooses the candidate minimizing style distance: italic
// mismatch dominates, then weight distance.
func pickFace(candidates []*FontFace, weight int, italic bool) *FontFace {
	var best *FontFace
	bestScore := 1 << 30
	for _, f := range candidates {
		score := abs(f.weight - weight)
		if f.italic != italic {
			score += 10000
		}
		if score < bestScore {
			bestScore = score
			best = f
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

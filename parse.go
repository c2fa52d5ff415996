package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrEmptyDocument is returned when the input contains no svg element.
var ErrEmptyDocument = errors.New("svg: no svg element found")

// ParseOptions configures document parsing and normalization.
// The zero value (or nil) uses the documented defaults.
type ParseOptions struct {
	// DPI converts physical units (mm, cm, in, pt, pc) to pixels.
	// Default: 96.
	DPI float64

	// DefaultSize is the viewport used when the document declares
	// neither width/height nor a viewBox. Default: 100x100.
	DefaultSize Point

	// FontSize is the root font size in pixels, the basis for em/ex
	// units and the default text size. Default: 16.
	FontSize float64

	// Fonts supplies font files (TTF/OTF bytes) for text shaping.
	// Documents containing text render without it only if text elements
	// are absent; text runs that cannot be shaped are omitted.
	Fonts *FontSet

	// FlattenTolerance is the curve flattening tolerance in user units
	// used for bounding boxes and rasterization. Default:
	// DefaultFlattenTolerance.
	FlattenTolerance float64
}

func (o *ParseOptions) withDefaults() ParseOptions {
	out := ParseOptions{}
	if o != nil {
		out = *o
	}
	if out.DPI <= 0 {
		out.DPI = 96
	}
	if out.DefaultSize.X <= 0 || out.DefaultSize.Y <= 0 {
		out.DefaultSize = Point{X: 100, Y: 100}
	}
	if out.FontSize <= 0 {
		out.FontSize = 16
	}
	if out.FlattenTolerance <= 0 {
		out.FlattenTolerance = DefaultFlattenTolerance
	}
	return out
}

// Parse parses an SVG document and normalizes it into a render Tree.
// Malformed content degrades per-element; only documents with no svg
// root or unreadable XML return an error.
func Parse(data []byte, opts *ParseOptions) (*Tree, error) {
	doc, err := ParseDocument(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Normalize(doc, opts)
}

// ParseDocument parses raw XML into a Document tree without normalizing.
// Most callers want [Parse] instead.
func ParseDocument(r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Document{Refs: make(map[string]*Element)}
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svg: parse: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := newElement(t)
			if el.ID != "" {
				if _, dup := doc.Refs[el.ID]; !dup {
					doc.Refs[el.ID] = el
				}
			}
			if len(stack) == 0 {
				if el.Kind != KindSVG {
					// Skip non-svg top level elements entirely.
					if err := dec.Skip(); err != nil && err != io.EOF {
						return nil, fmt.Errorf("svg: parse: %w", err)
					}
					continue
				}
				doc.Root = el
			} else {
				parent := stack[len(stack)-1]
				el.Parent = parent
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 && doc.Root != nil {
				// Ignore trailing content after the root element.
				return finishDocument(doc)
			}
		case xml.CharData:
			if len(stack) > 0 {
				el := stack[len(stack)-1]
				if el.Kind == KindText || el.Kind == KindTSpan {
					el.Text += string(t)
				}
			}
		}
	}
	return finishDocument(doc)
}

func finishDocument(doc *Document) (*Document, error) {
	if doc.Root == nil {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

// newElement builds an Element from a start tag, folding any style
// attribute's declarations into the attribute map. Style declarations
// override presentation attributes, matching CSS precedence.
func newElement(t xml.StartElement) *Element {
	el := &Element{
		Tag:   t.Name.Local,
		Attrs: make(map[string]string, len(t.Attr)),
	}
	if k, ok := elementKinds[el.Tag]; ok {
		el.Kind = k
	} else if filterPrimitiveTags[el.Tag] {
		el.Kind = KindFilterPrimitive
	}

	var style string
	for _, a := range t.Attr {
		name := a.Name.Local
		if a.Name.Space != "" {
			// Keep the legacy xlink prefix addressable; drop other
			// namespaced attributes (xml:space etc. are not styling).
			if strings.HasSuffix(a.Name.Space, "xlink") {
				name = "xlink:" + name
			} else if a.Name.Space != "http://www.w3.org/2000/svg" {
				continue
			}
		}
		if name == "style" {
			style = a.Value
			continue
		}
		el.Attrs[name] = a.Value
	}
	if style != "" {
		applyStyleDeclarations(el.Attrs, style)
	}
	el.ID = el.Attrs["id"]
	return el
}

// applyStyleDeclarations parses a "prop: value; prop: value" declaration
// list. Selector-based stylesheets are out of scope; only inline style is
// honored.
func applyStyleDeclarations(attrs map[string]string, style string) {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		attrs[name] = value
	}
}

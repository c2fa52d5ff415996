package svg

// ElementKind is the tagged variant over recognized element kinds.
// Unrecognized elements parse as KindUnknown and are ignored by
// normalization (their children are still walked for definitions).
type ElementKind int

const (
	KindUnknown ElementKind = iota
	KindSVG
	KindGroup
	KindDefs
	KindPath
	KindRect
	KindCircle
	KindEllipse
	KindLine
	KindPolyline
	KindPolygon
	KindImage
	KindText
	KindTSpan
	KindUse
	KindSymbol
	KindSwitch
	KindLinearGradient
	KindRadialGradient
	KindStop
	KindPattern
	KindClipPath
	KindMask
	KindFilter
	KindFilterPrimitive
	KindMergeNode
)

// elementKinds maps local tag names to kinds.
var elementKinds = map[string]ElementKind{
	"svg":            KindSVG,
	"g":              KindGroup,
	"a":              KindGroup, // links render as plain groups
	"defs":           KindDefs,
	"path":           KindPath,
	"rect":           KindRect,
	"circle":         KindCircle,
	"ellipse":        KindEllipse,
	"line":           KindLine,
	"polyline":       KindPolyline,
	"polygon":        KindPolygon,
	"image":          KindImage,
	"text":           KindText,
	"tspan":          KindTSpan,
	"use":            KindUse,
	"symbol":         KindSymbol,
	"switch":         KindSwitch,
	"linearGradient": KindLinearGradient,
	"radialGradient": KindRadialGradient,
	"stop":           KindStop,
	"pattern":        KindPattern,
	"clipPath":       KindClipPath,
	"mask":           KindMask,
	"filter":         KindFilter,
	"feMergeNode":    KindMergeNode,
}

// filterPrimitiveTags are elements parsed as KindFilterPrimitive; the
// normalizer dispatches on the raw tag.
var filterPrimitiveTags = map[string]bool{
	"feGaussianBlur":    true,
	"feColorMatrix":     true,
	"feComposite":       true,
	"feMorphology":      true,
	"feOffset":          true,
	"feMerge":           true,
	"feDisplacementMap": true,
	"feFlood":           true,
	"feDropShadow":      true,
	"feBlend":           true,
	"feTile":            true,
	"feImage":           true,
	"feTurbulence":      true,
	"feConvolveMatrix":  true,
	"feComponentTransfer": true,
}

// Element is a raw parsed document node. Attributes are unparsed strings;
// cross-references (gradients, clips, masks, filters, use targets) are by
// id and may be cyclic or dangling — normalization detects and breaks
// cycles rather than assuming referential integrity.
type Element struct {
	Kind     ElementKind
	Tag      string
	ID       string
	Attrs    map[string]string
	Children []*Element
	Parent   *Element
	// Text is accumulated character data, used by text elements.
	Text string
}

// Attr returns the attribute value, or "" if absent.
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// Href returns the element's href (or legacy xlink:href) target id,
// without the leading '#', or "" if absent or not a fragment reference.
func (e *Element) Href() string {
	h := e.Attrs["href"]
	if h == "" {
		h = e.Attrs["xlink:href"]
	}
	if len(h) < 2 || h[0] != '#' {
		return ""
	}
	return h[1:]
}

// Document is the parsed input tree plus its id table. It is read-only
// input to normalization and is discarded afterwards.
type Document struct {
	Root *Element
	// Refs maps element ids to elements. First definition wins.
	Refs map[string]*Element
}

// ElementByID resolves an id reference, returning nil for missing ids.
func (d *Document) ElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	return d.Refs[id]
}

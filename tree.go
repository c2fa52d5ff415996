package svg

// BlendMode selects the compositing blend mode of a node, per the W3C
// Compositing and Blending Level 1 specification.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

// Node is a render tree node. It is a closed variant set:
// Group, PathNode, ImageNode. Text runs are flattened into groups of
// paths (and image nodes for bitmap glyphs) during normalization, so
// downstream stages never see text.
type Node interface {
	isNode()
	// Bounds returns the node's bounding box in the coordinate space of
	// its parent (the node's own transform applied).
	Bounds() Rect
	// id returns the element id the node was built from, if any.
	id() string
}

// Group is an ordered container of child nodes, back-to-front in document
// order — the painter's-algorithm ordering the rasterizer relies on.
type Group struct {
	// ID is the originating element's id attribute, if any.
	ID string

	// Transform is the group's local transform, applied to all children.
	Transform Matrix

	// Opacity is the group opacity in [0, 1]. A value below 1 forces the
	// group to render isolated.
	Opacity float64

	// Blend is the group's blend mode. A non-normal mode forces
	// isolation.
	Blend BlendMode

	// ClipPath indexes the tree's ClipPaths table, or -1 for none.
	ClipPath int

	// Mask indexes the tree's Masks table, or -1 for none.
	Mask int

	// Filters indexes the tree's Filters table, in application order.
	// Filtered groups always render isolated.
	Filters []int

	// Isolate marks groups that must composite through an intermediate
	// buffer even without opacity/blend/filter (e.g. masked groups).
	Isolate bool

	// Children are the group contents in document order.
	Children []Node

	// BBox is the union of child bounding boxes, in the group's parent
	// space.
	BBox Rect
}

func (*Group) isNode() {}

// Bounds implements Node.
func (g *Group) Bounds() Rect { return g.BBox }

func (g *Group) id() string { return g.ID }

// needsIsolation reports whether the group must render into its own
// intermediate buffer before compositing. Compositing children
// independently would be visibly wrong for any of these cases.
func (g *Group) needsIsolation() bool {
	return g.Opacity < 1 || g.Blend != BlendNormal ||
		len(g.Filters) > 0 || g.Mask >= 0 || g.ClipPath >= 0 || g.Isolate
}

// PathNode is a filled and/or stroked path.
type PathNode struct {
	// ID is the originating element's id attribute, if any.
	ID string

	// Path geometry in absolute user-space coordinates.
	Path *Path

	// Transform is the node's local transform.
	Transform Matrix

	// Fill describes interior painting; Fill.Paint == nil disables it.
	Fill Fill

	// Stroke describes outline painting; Stroke.Paint == nil disables it.
	Stroke Stroke

	// PaintOrder reports whether the stroke paints before the fill.
	StrokeFirst bool

	// BBox is the path's bounding box including stroke extents, in the
	// node's parent space.
	BBox Rect

	// ObjectBBox is the plain fill bounding box used to resolve
	// bounding-box-relative paints and filter regions.
	ObjectBBox Rect
}

func (*PathNode) isNode() {}

// Bounds implements Node.
func (n *PathNode) Bounds() Rect { return n.BBox }

func (n *PathNode) id() string { return n.ID }

// ImageNode is a decoded raster image placed in user space.
type ImageNode struct {
	// ID is the originating element's id attribute, if any.
	ID string

	// Pixels is the decoded image, premultiplied.
	Pixels *Pixmap

	// Transform is the node's local transform.
	Transform Matrix

	// Content maps image pixel coordinates to user space, including the
	// x/y placement and preserveAspectRatio fitting.
	Content Matrix

	// Rect is the image viewport in user space. Content outside it is
	// not painted (preserveAspectRatio slice).
	Rect Rect

	// Smooth enables bilinear sampling (image-rendering != pixelated).
	Smooth bool

	// BBox is the image bounds in the node's parent space.
	BBox Rect
}

func (*ImageNode) isNode() {}

// Bounds implements Node.
func (n *ImageNode) Bounds() Rect { return n.BBox }

func (n *ImageNode) id() string { return n.ID }

// ClipPath is a resolved clip path definition. Nodes reference it by
// index into Tree.ClipPaths; definitions are stored once and shared.
type ClipPath struct {
	Transform Matrix
	// Paths are the clip shapes with their winding rules. Coverage is the
	// union of the shapes.
	Paths []ClipShape
	// Clip chains to another clip path applied to this one, or -1.
	Clip int
}

// ClipShape is a single shape within a clip path.
type ClipShape struct {
	Path      *Path
	Transform Matrix
	Rule      FillRule
}

// MaskMode selects how mask pixel values convert to coverage.
type MaskMode int

const (
	// MaskLuminance uses the mask's luminance times alpha (SVG default).
	MaskLuminance MaskMode = iota
	// MaskAlpha uses the mask's alpha channel only.
	MaskAlpha
)

// Mask is a resolved mask definition referenced by index into Tree.Masks.
type Mask struct {
	Root *Group
	Mode MaskMode
	// Rect is the mask region in user space; content outside is dropped.
	Rect Rect
	// Mask chains to another mask applied to this one, or -1.
	Mask int
}

// Tree is the fully normalized, reference-free render tree. It is
// immutable after normalization: shared tables and decoded resources may
// be read concurrently without locking.
type Tree struct {
	// Root is the root group. Its transform maps the document viewBox to
	// the viewport.
	Root *Group

	// Size is the document viewport size in user units.
	Size Point

	// ViewBox is the document view box, or the zero rect if absent.
	ViewBox Rect

	// ClipPaths, Masks and Filters are the shared resolved definition
	// tables referenced from nodes by index. Table-indexed sharing keeps
	// node ownership tree-structured and rules out reference cycles.
	ClipPaths []ClipPath
	Masks     []Mask
	Filters   []Filter
}

// NodeByID returns the first node in document order built from the
// element with the given id, or nil.
func (t *Tree) NodeByID(id string) Node {
	if id == "" || t.Root == nil {
		return nil
	}
	return findByID(t.Root, id)
}

func findByID(n Node, id string) Node {
	if n.id() == id {
		return n
	}
	if g, ok := n.(*Group); ok {
		for _, c := range g.Children {
			if found := findByID(c, id); found != nil {
				return found
			}
		}
	}
	return nil
}

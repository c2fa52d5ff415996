package svg

// FilterInput names the input of a filter primitive.
type FilterInput struct {
	// Kind selects the input source.
	Kind FilterInputKind
	// Ref is the named result of a previous primitive when Kind is
	// InputReference.
	Ref string
}

// FilterInputKind enumerates filter input sources.
type FilterInputKind int

const (
	// InputPrevious is the result of the previous primitive, or the
	// source graphic for the first primitive.
	InputPrevious FilterInputKind = iota
	// InputSourceGraphic is the rendered subtree.
	InputSourceGraphic
	// InputSourceAlpha is the alpha channel of the rendered subtree.
	InputSourceAlpha
	// InputReference is a named result of an earlier primitive.
	InputReference
)

// FilterPrimitiveKind is the closed variant set of primitive operations.
type FilterPrimitiveKind interface {
	isFilterPrimitive()
}

// FilterPrimitive is one node of a filter chain's primitive DAG.
// Each primitive consumes named inputs and produces a named output;
// the normalizer guarantees no primitive transitively consumes its own
// output (forward references are treated as missing inputs).
type FilterPrimitive struct {
	Kind FilterPrimitiveKind
	// Result names this primitive's output for later references.
	// May be empty.
	Result string
	// Region is the primitive subregion in user space; the zero rect
	// means the whole filter region.
	Region Rect
}

// Filter is a resolved filter chain referenced by index into Tree.Filters.
type Filter struct {
	// Region is the filter region in user space. Intermediate buffers are
	// sized to it; out-of-region samples read as transparent.
	Region Rect
	// Primitives execute in order; the last primitive's output is the
	// chain result.
	Primitives []FilterPrimitive
}

// GaussianBlur approximates a Gaussian blur via three box-blur passes.
type GaussianBlur struct {
	In      FilterInput
	StdDevX float64
	StdDevY float64
}

func (GaussianBlur) isFilterPrimitive() {}

// ColorMatrix applies a 4x5 color transformation matrix in
// non-premultiplied space.
type ColorMatrix struct {
	In FilterInput
	// M is the 4x5 matrix in row-major order.
	M [20]float64
}

func (ColorMatrix) isFilterPrimitive() {}

// CompositeOperator enumerates feComposite operators.
type CompositeOperator int

const (
	CompositeOver CompositeOperator = iota
	CompositeIn
	CompositeOut
	CompositeAtop
	CompositeXor
	CompositeArithmetic
)

// Composite combines two inputs with a Porter-Duff operator or the
// arithmetic operator k1*i1*i2 + k2*i1 + k3*i2 + k4.
type Composite struct {
	In  FilterInput
	In2 FilterInput
	Op  CompositeOperator
	// K1..K4 apply only to CompositeArithmetic.
	K1, K2, K3, K4 float64
}

func (Composite) isFilterPrimitive() {}

// MorphologyOperator enumerates feMorphology operators.
type MorphologyOperator int

const (
	MorphErode MorphologyOperator = iota
	MorphDilate
)

// Morphology erodes or dilates the input with a rectangular structuring
// window of the given radii.
type Morphology struct {
	In      FilterInput
	Op      MorphologyOperator
	RadiusX float64
	RadiusY float64
}

func (Morphology) isFilterPrimitive() {}

// Offset translates the input by (DX, DY) user units.
type Offset struct {
	In FilterInput
	DX float64
	DY float64
}

func (Offset) isFilterPrimitive() {}

// Merge stacks the inputs bottom-to-top with source-over compositing.
type Merge struct {
	Inputs []FilterInput
}

func (Merge) isFilterPrimitive() {}

// Blend composites In over In2 with a blend mode.
type Blend struct {
	In   FilterInput
	In2  FilterInput
	Mode BlendMode
}

func (Blend) isFilterPrimitive() {}

// ColorChannel selects a channel of a displacement map input.
type ColorChannel int

const (
	ChannelR ColorChannel = iota
	ChannelG
	ChannelB
	ChannelA
)

// DisplacementMap offsets each pixel of In by scaled channel values
// sampled from In2.
type DisplacementMap struct {
	In       FilterInput
	In2      FilterInput
	Scale    float64
	XChannel ColorChannel
	YChannel ColorChannel
}

func (DisplacementMap) isFilterPrimitive() {}

// Flood fills the primitive region with a solid color.
type Flood struct {
	Color Color
}

func (Flood) isFilterPrimitive() {}

// DropShadow is the feDropShadow shorthand: a blurred, offset, flood-
// colored copy of the input composited under the input.
type DropShadow struct {
	In      FilterInput
	DX, DY  float64
	StdDevX float64
	StdDevY float64
	Color   Color
}

func (DropShadow) isFilterPrimitive() {}

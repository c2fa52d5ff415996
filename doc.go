// Package svg renders SVG documents into raster pixel buffers.
//
// # Overview
//
// svg is a pure Go SVG rendering engine with no browser or cgo
// dependencies. Rendering is a two-stage pipeline:
//
//  1. Parse + normalize: the XML document is parsed into a raw element
//     tree, then normalized into an immutable render [Tree]. Normalization
//     resolves use/symbol references, gradient and clip/mask/filter
//     references, CSS-like property inheritance, and all units, producing
//     absolute geometry and paints. Broken or cyclic references degrade
//     gracefully instead of failing the whole document.
//  2. Rasterize: the render tree is drawn into a [Pixmap] through
//     antialiased scanline filling, stroke expansion, gradient and pattern
//     evaluation, premultiplied-alpha compositing, clipping, masking, and
//     an SVG filter pipeline.
//
// # Quick Start
//
//	data, _ := os.ReadFile("drawing.svg")
//	tree, err := svg.Parse(data, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pm, err := svg.Render(tree, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = pm.SavePNG("drawing.png")
//
// # Determinism
//
// Rendering is a pure function from (document, resources, options) to
// pixels. All fonts and images must be supplied up front; the engine
// performs no I/O and no network access during rendering.
//
// # Coordinate System
//
// Standard SVG user space: origin at the top-left, X increases right,
// Y increases down, angles in degrees in document attributes and radians
// in the geometry API.
package svg

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"
)

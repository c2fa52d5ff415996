package svg

import (
	"errors"
	"testing"
)

func parseTree(t *testing.T, doc string) *Tree {
	t.Helper()
	tree, err := Parse([]byte(doc), nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tree
}

func onlyPathNode(t *testing.T, tree *Tree) *PathNode {
	t.Helper()
	if len(tree.Root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(tree.Root.Children))
	}
	pn, ok := tree.Root.Children[0].(*PathNode)
	if !ok {
		t.Fatalf("child is %T, want *PathNode", tree.Root.Children[0])
	}
	return pn
}

func TestNormalizeBasicRect(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="50">
		<rect x="10" y="10" width="30" height="20" fill="red"/>
	</svg>`)
	if tree.Size != Pt(100, 50) {
		t.Errorf("size = %+v, want (100, 50)", tree.Size)
	}
	pn := onlyPathNode(t, tree)
	sc, ok := pn.Fill.Paint.(*SolidColor)
	if !ok || sc.Color != RGB8(255, 0, 0) {
		t.Errorf("fill = %+v, want solid red", pn.Fill.Paint)
	}
	want := RectXYWH(10, 10, 30, 20)
	if !ptNear(pn.ObjectBBox.Min, want.Min) || !ptNear(pn.ObjectBBox.Max, want.Max) {
		t.Errorf("bbox = %+v, want %+v", pn.ObjectBBox, want)
	}
	if pn.Stroke.Paint != nil {
		t.Error("unstroked rect must carry no stroke paint")
	}
}

func TestNormalizeDefaultFillIsBlack(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<circle cx="5" cy="5" r="2"/>
	</svg>`)
	pn := onlyPathNode(t, tree)
	if sc, ok := pn.Fill.Paint.(*SolidColor); !ok || sc.Color != Black {
		t.Errorf("default fill = %+v, want black", pn.Fill.Paint)
	}
}

func TestNormalizeViewBoxTransform(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200" viewBox="0 0 100 100">
		<rect width="10" height="10"/>
	</svg>`)
	if tree.Size != Pt(200, 200) {
		t.Errorf("size = %+v", tree.Size)
	}
	if got := tree.Root.Transform.TransformPoint(Pt(100, 100)); !ptNear(got, Pt(200, 200)) {
		t.Errorf("viewBox corner maps to %+v, want (200, 200)", got)
	}
}

func TestNormalizeViewBoxOnlySizing(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120 80">
		<rect width="10" height="10"/>
	</svg>`)
	if tree.Size != Pt(120, 80) {
		t.Errorf("size = %+v, want viewBox dimensions", tree.Size)
	}
}

func TestNormalizeDisplayNoneDropped(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<rect width="5" height="5" display="none"/>
		<g display="none"><rect width="5" height="5"/></g>
	</svg>`)
	if len(tree.Root.Children) != 0 {
		t.Errorf("root has %d children, want 0", len(tree.Root.Children))
	}
}

func TestNormalizeVisibilityHiddenDropped(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<rect width="5" height="5" visibility="hidden"/>
	</svg>`)
	if len(tree.Root.Children) != 0 {
		t.Errorf("root has %d children, want 0", len(tree.Root.Children))
	}
}

func TestNormalizeFillNoneDropped(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<rect width="5" height="5" fill="none"/>
	</svg>`)
	if len(tree.Root.Children) != 0 {
		t.Error("paint-free shape must be dropped")
	}
}

func TestNormalizeStyleAttributeWins(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<rect width="5" height="5" fill="red" style="fill: lime"/>
	</svg>`)
	pn := onlyPathNode(t, tree)
	if sc, ok := pn.Fill.Paint.(*SolidColor); !ok || sc.Color != RGB8(0, 255, 0) {
		t.Errorf("fill = %+v, want lime from style attribute", pn.Fill.Paint)
	}
}

func TestNormalizeInheritedFill(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<g fill="blue"><circle cx="5" cy="5" r="2"/></g>
	</svg>`)
	g, ok := tree.Root.Children[0].(*Group)
	if !ok {
		t.Fatalf("child is %T, want *Group", tree.Root.Children[0])
	}
	pn := g.Children[0].(*PathNode)
	if sc, ok := pn.Fill.Paint.(*SolidColor); !ok || sc.Color != RGB8(0, 0, 255) {
		t.Errorf("inherited fill = %+v, want blue", pn.Fill.Paint)
	}
}

func TestNormalizeCurrentColor(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<g color="teal"><rect width="5" height="5" fill="currentColor"/></g>
	</svg>`)
	g := tree.Root.Children[0].(*Group)
	pn := g.Children[0].(*PathNode)
	if sc, ok := pn.Fill.Paint.(*SolidColor); !ok || sc.Color != RGB8(0, 128, 128) {
		t.Errorf("currentColor fill = %+v, want teal", pn.Fill.Paint)
	}
}

func TestNormalizeStrokeProperties(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<line x1="0" y1="0" x2="10" y2="0" stroke="black" stroke-width="3"
			stroke-linecap="round" stroke-linejoin="bevel" stroke-miterlimit="2"
			stroke-dasharray="4 2" stroke-dashoffset="1"/>
	</svg>`)
	pn := onlyPathNode(t, tree)
	s := pn.Stroke
	if s.Paint == nil {
		t.Fatal("stroke paint missing")
	}
	if s.Width != 3 || s.Cap != LineCapRound || s.Join != LineJoinBevel || s.MiterLimit != 2 {
		t.Errorf("stroke = %+v", s)
	}
	if s.Dash == nil || len(s.Dash.Array) != 2 || s.Dash.Offset != 1 {
		t.Errorf("dash = %+v, want [4 2] offset 1", s.Dash)
	}
	// Stroke extents widen the bbox by half the width.
	if !ptNear(pn.BBox.Min, Pt(-1.5, -1.5)) {
		t.Errorf("stroked bbox min = %+v, want (-1.5, -1.5)", pn.BBox.Min)
	}
}

func TestNormalizeGroupOpacityIsolates(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<g opacity="0.5"><rect width="5" height="5"/></g>
	</svg>`)
	g := tree.Root.Children[0].(*Group)
	if g.Opacity != 0.5 {
		t.Errorf("opacity = %v, want 0.5", g.Opacity)
	}
	if !g.needsIsolation() {
		t.Error("translucent group must isolate")
	}
}

func TestNormalizeLeafOpacityWraps(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<rect width="5" height="5" opacity="0.25" transform="translate(2 2)"/>
	</svg>`)
	g, ok := tree.Root.Children[0].(*Group)
	if !ok {
		t.Fatalf("child is %T, want wrapping *Group", tree.Root.Children[0])
	}
	if g.Opacity != 0.25 {
		t.Errorf("wrapper opacity = %v, want 0.25", g.Opacity)
	}
	// The wrapper carries no transform; the leaf keeps its own.
	if !matNear(g.Transform, Identity()) {
		t.Errorf("wrapper transform = %+v, want identity", g.Transform)
	}
	pn := g.Children[0].(*PathNode)
	if !matNear(pn.Transform, Translate(2, 2)) {
		t.Errorf("leaf transform = %+v, want translate(2 2)", pn.Transform)
	}
}

func TestNormalizeBlendMode(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<g style="mix-blend-mode: multiply"><rect width="5" height="5"/></g>
	</svg>`)
	g := tree.Root.Children[0].(*Group)
	if g.Blend != BlendMultiply {
		t.Errorf("blend = %v, want multiply", g.Blend)
	}
	if !g.needsIsolation() {
		t.Error("blending group must isolate")
	}
}

func TestNormalizeUse(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<defs><rect id="box" width="5" height="5" fill="red"/></defs>
		<use href="#box" x="10" y="10"/>
	</svg>`)
	g, ok := tree.Root.Children[0].(*Group)
	if !ok {
		t.Fatalf("use expands to %T, want *Group", tree.Root.Children[0])
	}
	if !matNear(g.Transform, Translate(10, 10)) {
		t.Errorf("use transform = %+v, want translate(10 10)", g.Transform)
	}
	if _, ok := g.Children[0].(*PathNode); !ok {
		t.Errorf("use child = %T, want *PathNode", g.Children[0])
	}
}

func TestNormalizeUseXlinkHref(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="20" height="20">
		<defs><circle id="dot" cx="0" cy="0" r="2"/></defs>
		<use xlink:href="#dot"/>
	</svg>`)
	if len(tree.Root.Children) != 1 {
		t.Fatalf("root has %d children, want 1", len(tree.Root.Children))
	}
}

func TestNormalizeUseCycleTerminates(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<g id="loop"><use href="#loop"/><rect width="2" height="2"/></g>
	</svg>`)
	// The use expands one level, then the cycle is broken: the expanded
	// copy contains only the rect.
	g, ok := tree.Root.Children[0].(*Group)
	if !ok {
		t.Fatalf("child is %T, want *Group", tree.Root.Children[0])
	}
	if len(g.Children) != 2 {
		t.Fatalf("group has %d children, want expansion + rect", len(g.Children))
	}
	inner, ok := g.Children[0].(*Group)
	if !ok || len(inner.Children) != 1 {
		t.Errorf("expanded copy = %+v, want a group holding the rect only", g.Children[0])
	}
}

func TestNormalizeBrokenUseDropped(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<use href="#nope"/>
	</svg>`)
	if len(tree.Root.Children) != 0 {
		t.Error("broken use reference must be dropped")
	}
}

func TestNormalizeLinearGradient(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<defs>
			<linearGradient id="g">
				<stop offset="0%" stop-color="red"/>
				<stop offset="100%" stop-color="blue" stop-opacity="0.5"/>
			</linearGradient>
		</defs>
		<rect width="100" height="100" fill="url(#g)"/>
	</svg>`)
	pn := onlyPathNode(t, tree)
	lg, ok := pn.Fill.Paint.(*LinearGradient)
	if !ok {
		t.Fatalf("fill = %T, want *LinearGradient", pn.Fill.Paint)
	}
	if len(lg.Stops) != 2 {
		t.Fatalf("got %d stops, want 2", len(lg.Stops))
	}
	if lg.Stops[0].Color != RGB8(255, 0, 0) {
		t.Errorf("stop 0 = %+v, want red", lg.Stops[0])
	}
	if lg.Stops[1].Color.A != 0.5 {
		t.Errorf("stop 1 alpha = %v, want 0.5", lg.Stops[1].Color.A)
	}
	// Object bounding box units: the unit-space end maps to the bbox edge.
	if got := lg.Transform.TransformPoint(lg.End); !ptNear(got, Pt(100, 0)) {
		t.Errorf("gradient end maps to %+v, want (100, 0)", got)
	}
	// Markup cannot declare premultiplied interpolation; parsed
	// gradients interpolate straight alpha.
	if lg.PremultipliedInterp {
		t.Error("parsed gradient interpolation is premultiplied, want straight alpha")
	}
	mid := lg.ColorAt(0.5)
	if mid.R < 0.45 || mid.R > 0.55 {
		t.Errorf("straight-alpha midpoint R = %v, want about 0.5", mid.R)
	}
}

func TestNormalizeGradientHrefChain(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<defs>
			<linearGradient id="base">
				<stop offset="0" stop-color="red"/>
				<stop offset="1" stop-color="blue"/>
			</linearGradient>
			<linearGradient id="derived" href="#base" gradientUnits="userSpaceOnUse" x1="0" y1="0" x2="50" y2="0"/>
		</defs>
		<rect width="100" height="100" fill="url(#derived)"/>
	</svg>`)
	pn := onlyPathNode(t, tree)
	lg, ok := pn.Fill.Paint.(*LinearGradient)
	if !ok {
		t.Fatalf("fill = %T, want *LinearGradient", pn.Fill.Paint)
	}
	if len(lg.Stops) != 2 {
		t.Errorf("inherited %d stops, want 2", len(lg.Stops))
	}
	if !ptNear(lg.End, Pt(50, 0)) {
		t.Errorf("end = %+v, want user-space (50, 0)", lg.End)
	}
}

func TestNormalizeSingleStopGradientCollapses(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<defs><linearGradient id="g"><stop offset="0" stop-color="green"/></linearGradient></defs>
		<rect width="10" height="10" fill="url(#g)"/>
	</svg>`)
	pn := onlyPathNode(t, tree)
	if sc, ok := pn.Fill.Paint.(*SolidColor); !ok || sc.Color != RGB8(0, 128, 0) {
		t.Errorf("fill = %+v, want solid green", pn.Fill.Paint)
	}
}

func TestNormalizePaintFallback(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10">
		<rect width="10" height="10" fill="url(#missing) lime"/>
	</svg>`)
	pn := onlyPathNode(t, tree)
	if sc, ok := pn.Fill.Paint.(*SolidColor); !ok || sc.Color != RGB8(0, 255, 0) {
		t.Errorf("fill = %+v, want fallback lime", pn.Fill.Paint)
	}
}

func TestNormalizeRadialGradientFocalClamp(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<defs>
			<radialGradient id="g" gradientUnits="userSpaceOnUse" cx="50" cy="50" r="10" fx="90" fy="50">
				<stop offset="0" stop-color="white"/>
				<stop offset="1" stop-color="black"/>
			</radialGradient>
		</defs>
		<rect width="100" height="100" fill="url(#g)"/>
	</svg>`)
	pn := onlyPathNode(t, tree)
	rg, ok := pn.Fill.Paint.(*RadialGradient)
	if !ok {
		t.Fatalf("fill = %T, want *RadialGradient", pn.Fill.Paint)
	}
	if d := rg.Focal.Distance(rg.Center); d > rg.R {
		t.Errorf("focal distance %v exceeds radius %v", d, rg.R)
	}
}

func TestNormalizePattern(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<defs>
			<pattern id="p" width="0.5" height="0.5">
				<rect width="10" height="10" fill="red"/>
			</pattern>
		</defs>
		<rect width="100" height="100" fill="url(#p)"/>
	</svg>`)
	pn := onlyPathNode(t, tree)
	pat, ok := pn.Fill.Paint.(*Pattern)
	if !ok {
		t.Fatalf("fill = %T, want *Pattern", pn.Fill.Paint)
	}
	want := RectXYWH(0, 0, 50, 50)
	if !ptNear(pat.Rect.Min, want.Min) || !ptNear(pat.Rect.Max, want.Max) {
		t.Errorf("tile rect = %+v, want %+v", pat.Rect, want)
	}
	if pat.Root == nil || len(pat.Root.Children) != 1 {
		t.Error("pattern content missing")
	}
}

func TestNormalizeClipPathAttachment(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<defs><clipPath id="c"><rect width="10" height="10"/></clipPath></defs>
		<g clip-path="url(#c)"><rect width="20" height="20"/></g>
	</svg>`)
	g := tree.Root.Children[0].(*Group)
	if g.ClipPath < 0 || g.ClipPath >= len(tree.ClipPaths) {
		t.Fatalf("clip index = %d, table size %d", g.ClipPath, len(tree.ClipPaths))
	}
	cp := tree.ClipPaths[g.ClipPath]
	if len(cp.Paths) != 1 {
		t.Errorf("clip has %d shapes, want 1", len(cp.Paths))
	}
	if !g.needsIsolation() {
		t.Error("clipped group must isolate")
	}
}

func TestNormalizeMaskAttachment(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<defs><mask id="m"><rect width="20" height="20" fill="white"/></mask></defs>
		<rect width="20" height="20" mask="url(#m)"/>
	</svg>`)
	g, ok := tree.Root.Children[0].(*Group)
	if !ok {
		t.Fatalf("masked leaf is %T, want wrapping *Group", tree.Root.Children[0])
	}
	if g.Mask < 0 || g.Mask >= len(tree.Masks) {
		t.Fatalf("mask index = %d, table size %d", g.Mask, len(tree.Masks))
	}
	if tree.Masks[g.Mask].Root == nil {
		t.Error("mask content missing")
	}
}

func TestNormalizeFilterAttachment(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<defs><filter id="f"><feGaussianBlur stdDeviation="2"/></filter></defs>
		<g filter="url(#f)"><rect width="10" height="10"/></g>
	</svg>`)
	g := tree.Root.Children[0].(*Group)
	if len(g.Filters) != 1 {
		t.Fatalf("group has %d filters, want 1", len(g.Filters))
	}
	f := tree.Filters[g.Filters[0]]
	if len(f.Primitives) != 1 {
		t.Fatalf("filter has %d primitives, want 1", len(f.Primitives))
	}
	if _, ok := f.Primitives[0].Kind.(GaussianBlur); !ok {
		t.Errorf("primitive = %T, want GaussianBlur", f.Primitives[0].Kind)
	}
}

func TestNormalizeBrokenFilterDisables(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<rect width="10" height="10" filter="url(#nope)"/>
	</svg>`)
	if len(tree.Root.Children) != 0 {
		t.Error("element with a broken filter reference must not render")
	}
}

func TestNormalizeSwitch(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<switch>
			<rect systemLanguage="fr" width="5" height="5" fill="red"/>
			<rect systemLanguage="en" width="7" height="7" fill="blue"/>
			<rect width="9" height="9" fill="green"/>
		</switch>
	</svg>`)
	pn := onlyPathNode(t, tree)
	if sc, ok := pn.Fill.Paint.(*SolidColor); !ok || sc.Color != RGB8(0, 0, 255) {
		t.Errorf("switch picked fill %+v, want the en branch (blue)", pn.Fill.Paint)
	}
}

func TestNormalizeNestedSVG(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100">
		<svg x="10" y="20" width="50" height="50">
			<rect width="5" height="5"/>
		</svg>
	</svg>`)
	g, ok := tree.Root.Children[0].(*Group)
	if !ok {
		t.Fatalf("nested svg is %T, want *Group", tree.Root.Children[0])
	}
	if got := g.Transform.TransformPoint(Pt(0, 0)); !ptNear(got, Pt(10, 20)) {
		t.Errorf("nested origin maps to %+v, want (10, 20)", got)
	}
}

func TestNormalizeNodeByID(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<g id="layer"><rect id="box" width="5" height="5"/></g>
	</svg>`)
	if tree.NodeByID("layer") == nil {
		t.Error("group id not found")
	}
	n := tree.NodeByID("box")
	if _, ok := n.(*PathNode); !ok {
		t.Errorf("NodeByID(box) = %T, want *PathNode", n)
	}
	if tree.NodeByID("nope") != nil {
		t.Error("unknown id must give nil")
	}
}

func TestParseNoSVGRoot(t *testing.T) {
	_, err := Parse([]byte(`<html><body/></html>`), nil)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("err = %v, want ErrEmptyDocument", err)
	}
}

func TestParsePhysicalUnits(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="1in" height="2in">
		<rect width="5" height="5"/>
	</svg>`)
	if tree.Size != Pt(96, 192) {
		t.Errorf("size = %+v, want (96, 192) at 96 dpi", tree.Size)
	}
}

func TestNormalizeClipPathCycleTerminates(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<defs><clipPath id="c" clip-path="url(#c)"><rect width="10" height="10"/></clipPath></defs>
		<g clip-path="url(#c)"><rect width="20" height="20"/></g>
	</svg>`)
	g := tree.Root.Children[0].(*Group)
	if g.ClipPath < 0 || g.ClipPath >= len(tree.ClipPaths) {
		t.Fatalf("clip index = %d, table size %d", g.ClipPath, len(tree.ClipPaths))
	}
	cp := tree.ClipPaths[g.ClipPath]
	// The self reference is dropped; the shapes still clip.
	if cp.Clip != -1 {
		t.Errorf("nested clip index = %d, want -1", cp.Clip)
	}
	if len(cp.Paths) != 1 {
		t.Errorf("clip has %d shapes, want 1", len(cp.Paths))
	}
}

func TestNormalizeClipPathMutualCycleTerminates(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<defs>
			<clipPath id="a" clip-path="url(#b)"><rect width="10" height="10"/></clipPath>
			<clipPath id="b" clip-path="url(#a)"><rect x="5" y="5" width="10" height="10"/></clipPath>
		</defs>
		<g clip-path="url(#a)"><rect width="20" height="20"/></g>
	</svg>`)
	g := tree.Root.Children[0].(*Group)
	if g.ClipPath < 0 || g.ClipPath >= len(tree.ClipPaths) {
		t.Fatalf("clip index = %d, table size %d", g.ClipPath, len(tree.ClipPaths))
	}
	outer := tree.ClipPaths[g.ClipPath]
	if outer.Clip < 0 || outer.Clip >= len(tree.ClipPaths) {
		t.Fatalf("nested clip index = %d, table size %d", outer.Clip, len(tree.ClipPaths))
	}
	// b's reference back to a breaks the cycle.
	if tree.ClipPaths[outer.Clip].Clip != -1 {
		t.Errorf("cyclic clip index = %d, want -1", tree.ClipPaths[outer.Clip].Clip)
	}
}

func TestNormalizePatternHrefCycleTerminates(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<defs>
			<pattern id="a" href="#b" width="0.5" height="0.5"/>
			<pattern id="b" href="#a" width="0.5" height="0.5"/>
		</defs>
		<rect width="20" height="20" fill="url(#a)"/>
	</svg>`)
	// Neither pattern ever supplies content, so the fill resolves to
	// nothing and the shape is dropped.
	if len(tree.Root.Children) != 0 {
		t.Errorf("root has %d children, want 0", len(tree.Root.Children))
	}
}

func TestNormalizePatternSelfReferenceTerminates(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<defs>
			<pattern id="p" width="0.5" height="0.5">
				<rect width="10" height="10" fill="url(#p)"/>
			</pattern>
		</defs>
		<rect width="20" height="20" fill="url(#p)"/>
	</svg>`)
	// The tile's recursive fill resolves to nothing, so the tile is
	// empty and the shape is dropped.
	if len(tree.Root.Children) != 0 {
		t.Errorf("root has %d children, want 0", len(tree.Root.Children))
	}
}

func TestNormalizeFilterSkipsNonPrimitives(t *testing.T) {
	tree := parseTree(t, `<svg xmlns="http://www.w3.org/2000/svg" width="20" height="20">
		<defs><filter id="f">
			<desc>blur it</desc>
			<feGaussianBlur stdDeviation="2"/>
			<animate attributeName="stdDeviation" to="5"/>
		</filter></defs>
		<g filter="url(#f)"><rect width="10" height="10"/></g>
	</svg>`)
	g := tree.Root.Children[0].(*Group)
	if len(g.Filters) != 1 {
		t.Fatalf("group has %d filters, want 1", len(g.Filters))
	}
	f := tree.Filters[g.Filters[0]]
	if len(f.Primitives) != 1 {
		t.Fatalf("filter has %d primitives, want only the blur", len(f.Primitives))
	}
	if _, ok := f.Primitives[0].Kind.(GaussianBlur); !ok {
		t.Errorf("primitive = %T, want GaussianBlur", f.Primitives[0].Kind)
	}
}

package svg

import (
	"errors"
	"log/slog"

	"github.com/gogpu/svg/internal/blend"
	"github.com/gogpu/svg/internal/parallel"
	"github.com/gogpu/svg/internal/raster"
)

// ErrZeroViewport reports a render target or document viewport with no
// area.
var ErrZeroViewport = errors.New("svg: viewport has zero area")

// ErrNodeNotFound reports a RenderNode id that matches no tree node.
var ErrNodeNotFound = errors.New("svg: no node with the given id")

// Render rasterizes the tree at its document viewport size, rounded up
// to whole pixels.
func Render(tree *Tree, opts *RenderOptions) (*Pixmap, error) {
	w, h := renderSize(tree.Size)
	return RenderSized(tree, w, h, opts)
}

// RenderSized rasterizes the tree scaled to fill a width-by-height
// canvas. The X and Y axes scale independently; callers preserving
// aspect ratio derive one dimension from the other.
func RenderSized(tree *Tree, width, height int, opts *RenderOptions) (*Pixmap, error) {
	if tree == nil || tree.Root == nil {
		return nil, ErrEmptyDocument
	}
	if width <= 0 || height <= 0 || tree.Size.X <= 0 || tree.Size.Y <= 0 {
		return nil, ErrZeroViewport
	}
	r := newRenderer(tree, width, height, opts)
	pm := NewPixmap(width, height)
	if r.opts.Background.A > 0 {
		pm.Clear(r.opts.Background)
	}
	scale := Scale(float64(width)/tree.Size.X, float64(height)/tree.Size.Y)
	Logger().Debug("render",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Int("workers", r.workers))
	r.renderNode(tree.Root, scale, nil, pm)
	return pm, nil
}

// RenderNode rasterizes only the subtree rooted at the node with the
// given id, on a canvas of the document viewport size and with the
// node's ancestor transforms applied, so the output aligns with a full
// Render of the same tree.
func RenderNode(tree *Tree, id string, opts *RenderOptions) (*Pixmap, error) {
	if tree == nil || tree.Root == nil {
		return nil, ErrEmptyDocument
	}
	width, height := renderSize(tree.Size)
	if width <= 0 || height <= 0 {
		return nil, ErrZeroViewport
	}
	scale := Scale(float64(width)/tree.Size.X, float64(height)/tree.Size.Y)
	node, tf, ok := findNodeTransform(tree.Root, id, scale)
	if !ok {
		return nil, ErrNodeNotFound
	}
	r := newRenderer(tree, width, height, opts)
	pm := NewPixmap(width, height)
	if r.opts.Background.A > 0 {
		pm.Clear(r.opts.Background)
	}
	r.renderNode(node, tf, nil, pm)
	return pm, nil
}

// findNodeTransform locates the node with the given id and returns the
// accumulated transform of its ancestors (the node's own transform is
// applied during rendering).
func findNodeTransform(n Node, id string, tf Matrix) (Node, Matrix, bool) {
	if n.id() == id {
		return n, tf, true
	}
	if g, ok := n.(*Group); ok {
		local := tf.Multiply(g.Transform)
		for _, c := range g.Children {
			if found, ftf, ok := findNodeTransform(c, id, local); ok {
				return found, ftf, ok
			}
		}
	}
	return nil, Matrix{}, false
}

// renderer carries per-render state. A renderer is single-use; pattern
// tiles rendered along the way are cached for reuse within the render.
type renderer struct {
	tree    *Tree
	opts    RenderOptions
	workers int
	width   int
	height  int
	tiles   map[tileKey]*Pixmap
}

type tileKey struct {
	id string
	w  int
	h  int
}

func newRenderer(tree *Tree, width, height int, opts *RenderOptions) *renderer {
	o := opts.withDefaults()
	return &renderer{
		tree:    tree,
		opts:    o,
		workers: parallel.Workers(o.Workers),
		width:   width,
		height:  height,
		tiles:   make(map[tileKey]*Pixmap),
	}
}

// renderNode dispatches on the node variant. tf is the accumulated
// parent transform; clip is the inherited clip coverage or nil.
func (r *renderer) renderNode(n Node, tf Matrix, clip *raster.Mask, dst *Pixmap) {
	switch n := n.(type) {
	case *Group:
		r.renderGroup(n, tf, clip, dst)
	case *PathNode:
		r.renderPath(n, tf, clip, dst)
	case *ImageNode:
		r.renderImage(n, tf, clip, dst)
	}
}

func (r *renderer) renderGroup(g *Group, tf Matrix, clip *raster.Mask, dst *Pixmap) {
	local := tf.Multiply(g.Transform)
	if !local.IsInvertible() {
		return
	}
	if !g.needsIsolation() {
		for _, c := range g.Children {
			r.renderNode(c, local, clip, dst)
		}
		return
	}

	// The group composes through an intermediate full-canvas layer.
	// Filters, clip and mask apply to the isolated result, in that
	// order, before the opacity/blend composite.
	layer := NewPixmap(r.width, r.height)
	for _, c := range g.Children {
		r.renderNode(c, local, nil, layer)
	}
	for _, fi := range g.Filters {
		layer = r.applyFilter(layer, &r.tree.Filters[fi], local)
	}
	if g.ClipPath >= 0 {
		r.applyClip(layer, r.clipMask(g.ClipPath, local))
	}
	if g.Mask >= 0 {
		r.applyCoverage(layer, r.maskCoverage(g.Mask, local))
	}
	if clip != nil {
		r.applyClip(layer, clip)
	}
	r.composite(dst, layer, g.Opacity, g.Blend)
}

// composite blends a full-canvas layer into dst with group opacity and
// blend mode. Both buffers are premultiplied, so opacity scales all
// four channels.
func (r *renderer) composite(dst, layer *Pixmap, opacity float64, mode BlendMode) {
	if opacity <= 0 {
		return
	}
	if opacity < 1 {
		f := uint8(opacity*255 + 0.5)
		data := layer.Data()
		parallel.For(0, r.height, r.workers, func(y int) {
			row := data[y*r.width*4 : (y+1)*r.width*4]
			for i := range row {
				row[i] = mul8(row[i], f)
			}
		})
	}
	dd, sd := dst.Data(), layer.Data()
	rowBytes := r.width * 4
	parallel.For(0, r.height, r.workers, func(y int) {
		off := y * rowBytes
		blend.Over(dd[off:off+rowBytes], sd[off:off+rowBytes], blend.Mode(mode))
	})
}

// applyClip multiplies layer alpha by clip coverage. Pixels outside the
// clip mask window are cleared.
func (r *renderer) applyClip(layer *Pixmap, m *raster.Mask) {
	data := layer.Data()
	parallel.For(0, r.height, r.workers, func(y int) {
		row := y * r.width * 4
		for x := 0; x < r.width; x++ {
			i := row + x*4
			if data[i+3] == 0 && data[i] == 0 && data[i+1] == 0 && data[i+2] == 0 {
				continue
			}
			switch c := m.At(x, y); c {
			case 255:
			case 0:
				data[i], data[i+1], data[i+2], data[i+3] = 0, 0, 0, 0
			default:
				data[i] = mul8(data[i], c)
				data[i+1] = mul8(data[i+1], c)
				data[i+2] = mul8(data[i+2], c)
				data[i+3] = mul8(data[i+3], c)
			}
		}
	})
}

// applyCoverage multiplies layer alpha by a full-canvas coverage slice.
func (r *renderer) applyCoverage(layer *Pixmap, cov []uint8) {
	data := layer.Data()
	parallel.For(0, r.height, r.workers, func(y int) {
		for x := 0; x < r.width; x++ {
			c := cov[y*r.width+x]
			i := (y*r.width + x) * 4
			if c == 255 {
				continue
			}
			if c == 0 {
				data[i], data[i+1], data[i+2], data[i+3] = 0, 0, 0, 0
				continue
			}
			data[i] = mul8(data[i], c)
			data[i+1] = mul8(data[i+1], c)
			data[i+2] = mul8(data[i+2], c)
			data[i+3] = mul8(data[i+3], c)
		}
	})
}

// mul8 multiplies two 0-255 values with correct rounding.
func mul8(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8((t + t>>8) >> 8)
}

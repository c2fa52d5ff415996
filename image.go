package svg

import (
	"bytes"
	"encoding/base64"
	"image"
	"net/url"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// convertImage builds an ImageNode from an image element. Only data:
// URIs are honored; external references are skipped so rendering stays
// free of network and filesystem access.
func (n *normalizer) convertImage(el *Element, st style) Node {
	x := n.lengthAttr(el, "x", axisX, 0)
	y := n.lengthAttr(el, "y", axisY, 0)
	w := n.lengthAttr(el, "width", axisX, 0)
	h := n.lengthAttr(el, "height", axisY, 0)

	pix := decodeImageHref(el.Attr("href"))
	if pix == nil {
		pix = decodeImageHref(el.Attr("xlink:href"))
	}
	if pix == nil {
		Logger().Warn("svg: undecodable image", "id", el.ID)
		return nil
	}

	// Unspecified dimensions take the intrinsic pixel size.
	if w <= 0 {
		w = float64(pix.Width())
	}
	if h <= 0 {
		h = float64(pix.Height())
	}
	if w <= 0 || h <= 0 {
		return nil
	}

	ar := parsePreserveAspectRatio(el.Attr("preserveAspectRatio"))
	content := viewBoxTransform(
		RectXYWH(0, 0, float64(pix.Width()), float64(pix.Height())),
		Point{X: w, Y: h},
		ar,
	)

	node := &ImageNode{
		ID:        el.ID,
		Pixels:    pix,
		Transform: parseTransform(el.Attr("transform")),
		Content:   Translate(x, y).Multiply(content),
		Rect:      RectXYWH(x, y, w, h),
		Smooth:    el.Attr("image-rendering") != "pixelated" && el.Attr("image-rendering") != "optimizeSpeed",
	}
	if !st.visible {
		return nil
	}
	node.BBox = node.Transform.TransformRect(node.Rect)

	if needsGroupWrap(el) {
		return n.wrapLeaf(el, st, node, node.BBox)
	}
	return node
}

// decodeImageHref decodes a data: URI image into a premultiplied pixmap.
// Returns nil for anything it cannot decode.
func decodeImageHref(href string) *Pixmap {
	href = strings.TrimSpace(href)
	if !strings.HasPrefix(href, "data:") {
		return nil
	}
	comma := strings.IndexByte(href, ',')
	if comma < 0 {
		return nil
	}
	meta, payload := href[5:comma], href[comma+1:]

	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		payload = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, payload)
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(payload)
			if err != nil {
				return nil
			}
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil
		}
		data = []byte(unescaped)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return FromImage(img)
}

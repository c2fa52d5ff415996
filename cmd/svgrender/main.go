// Command svgrender rasterizes an SVG document to a PNG file.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/svg"
)

func main() {
	var (
		width   = flag.Int("width", 0, "output width in pixels (0 = document size)")
		height  = flag.Int("height", 0, "output height in pixels (0 = document size)")
		output  = flag.String("output", "out.png", "output file")
		bg      = flag.String("bg", "", "background color (e.g. #ffffff, default transparent)")
		dpi     = flag.Float64("dpi", 96, "dots per inch for physical units")
		workers = flag.Int("workers", 0, "render worker count (0 = all CPUs)")
		fontDir = flag.String("fonts", "", "directory of TTF/OTF fonts for text")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: svgrender [flags] input.svg")
	}
	if *verbose {
		svg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	popts := &svg.ParseOptions{DPI: *dpi}
	if *fontDir != "" {
		popts.Fonts = loadFonts(*fontDir)
	}
	tree, err := svg.Parse(data, popts)
	if err != nil {
		log.Fatalf("parse: %v", err)
	}

	ropts := &svg.RenderOptions{Workers: *workers}
	if *bg != "" {
		c, ok := svg.ParseColor(*bg)
		if !ok {
			log.Fatalf("bad background color %q", *bg)
		}
		ropts.Background = c
	}

	var pm *svg.Pixmap
	if *width > 0 || *height > 0 {
		w, h := fitSize(tree, *width, *height)
		pm, err = svg.RenderSized(tree, w, h, ropts)
	} else {
		pm, err = svg.Render(tree, ropts)
	}
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	if err := pm.SavePNG(*output); err != nil {
		log.Fatalf("save: %v", err)
	}
	log.Printf("rendered %s to %s (%dx%d)", flag.Arg(0), *output, pm.Width(), pm.Height())
}

// fitSize derives missing dimensions from the document aspect ratio.
func fitSize(tree *svg.Tree, w, h int) (int, int) {
	if w > 0 && h > 0 {
		return w, h
	}
	aspect := tree.Size.X / tree.Size.Y
	if w > 0 {
		return w, int(float64(w)/aspect + 0.5)
	}
	return int(float64(h)*aspect + 0.5), h
}

func loadFonts(dir string) *svg.FontSet {
	fonts := svg.NewFontSet()
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("read font dir: %v", err)
	}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if ext != ".ttf" && ext != ".otf" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			log.Printf("skip font %s: %v", e.Name(), err)
			continue
		}
		if err := fonts.AddFont(data); err != nil {
			log.Printf("skip font %s: %v", e.Name(), err)
		}
	}
	if fonts.Len() == 0 {
		log.Printf("no usable fonts in %s", dir)
	}
	return fonts
}

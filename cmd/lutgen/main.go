// Command lutgen builds a color look-up table and writes its atlas as PNG.
//
// With -compare it also renders the table through both paths of a
// software render.Switch and reports the largest per-channel difference.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/lut"
	"github.com/gogpu/lut/render"
)

func main() {
	var (
		size    = flag.Int("size", render.DefaultSize, "grid size per axis (at least 2)")
		mapping = flag.String("mapping", "identity", "color mapping: "+strings.Join(lut.MappingNames(), ", "))
		output  = flag.String("output", "lut.png", "output file")
		scale   = flag.Int("scale", 1, "integer upscale factor for the written image")
		compare = flag.Bool("compare", false, "render procedural and textured paths and compare them")
		verbose = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	if *verbose {
		lut.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	m, ok := lut.MappingByName(*mapping)
	if !ok {
		log.Fatalf("Unknown mapping %q (want one of %s)", *mapping, strings.Join(lut.MappingNames(), ", "))
	}

	grid, err := lut.Build(m.Func(), *size)
	if err != nil {
		log.Fatalf("Failed to build grid: %v", err)
	}
	atlas := lut.NewAtlas(grid)

	if err := savePNG(*output, atlas, *scale); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Atlas saved to %s (%dx%d, %s, size %d)\n",
		*output, atlas.Width()*max(*scale, 1), atlas.Height()*max(*scale, 1), *mapping, *size)

	if *compare {
		diff, err := comparePaths(m, grid)
		if err != nil {
			log.Fatalf("Compare failed: %v", err)
		}
		log.Printf("Procedural vs textured: max channel difference %d\n", diff)
	}
}

// savePNG writes the atlas, upscaled with nearest-neighbor so tiles stay
// crisp.
func savePNG(path string, atlas *lut.Atlas, scale int) error {
	if scale <= 1 {
		return atlas.SavePNG(path)
	}

	src := atlas.ToNRGBA()
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)

	f, err := os.Create(path) //nolint:gosec // output path comes from the command line
	if err != nil {
		return err
	}
	if err := png.Encode(f, dst); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// comparePaths renders the mapping procedurally and the grid through its
// atlas, and returns the largest 8-bit channel difference.
func comparePaths(m lut.Affine, grid *lut.Grid) (int, error) {
	n := grid.Size()

	proc := render.New(render.NewSoftwareDevice(),
		render.WithDefaultSize(n),
		render.WithProceduralMapping(m))
	tex := render.New(render.NewSoftwareDevice())
	for _, sw := range []*render.Switch{proc, tex} {
		if err := sw.Initialize(); err != nil {
			return 0, err
		}
		defer sw.Release()
	}
	if err := tex.SetLUT(render.Bound{Grid: grid}); err != nil {
		return 0, err
	}

	a := render.NewPixmapTarget(n*n, n)
	b := render.NewPixmapTarget(n*n, n)
	if err := proc.Render(a); err != nil {
		return 0, fmt.Errorf("procedural: %w", err)
	}
	if err := tex.Render(b); err != nil {
		return 0, fmt.Errorf("textured: %w", err)
	}

	worst := 0
	pa, pb := a.Image().Pix, b.Image().Pix
	for i := range pa {
		d := int(pa[i]) - int(pb[i])
		if d < 0 {
			d = -d
		}
		worst = max(worst, d)
	}
	return worst, nil
}

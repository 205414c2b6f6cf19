package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/lut"
)

func TestSavePNGScaled(t *testing.T) {
	atlas := lut.NewAtlas(lut.MustBuild(lut.Invert.Func(), 2))
	path := filepath.Join(t.TempDir(), "lut.png")

	if err := savePNG(path, atlas, 3); err != nil {
		t.Fatalf("savePNG() = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 6 {
		t.Fatalf("image is %dx%d, want 12x6", b.Dx(), b.Dy())
	}

	// Every 3x3 block repeats one atlas pixel.
	for y := 0; y < 6; y++ {
		for x := 0; x < 12; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			wr, wg, wb := atlas.RGBAt(x/3, y/3)
			if uint8(r>>8) != wr || uint8(g>>8) != wg || uint8(b>>8) != wb {
				t.Fatalf("pixel (%d,%d) differs from atlas pixel (%d,%d)", x, y, x/3, y/3)
			}
		}
	}
}

func TestComparePaths(t *testing.T) {
	for _, name := range lut.MappingNames() {
		m, _ := lut.MappingByName(name)
		diff, err := comparePaths(m, lut.MustBuild(m.Func(), 9))
		if err != nil {
			t.Fatalf("%s: comparePaths() = %v", name, err)
		}
		if diff > 1 {
			t.Errorf("%s: max difference %d, want at most 1", name, diff)
		}
	}
}

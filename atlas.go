package lut

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// BytesPerPixel is the atlas pixel size: R, G, B, 8 bits each, no padding.
const BytesPerPixel = 3

// Pack lays the grid out as a row-major RGB8 buffer of N² × N pixels.
// The returned slice has length 3*N³.
func Pack(g *Grid) []byte {
	l := g.Layout()
	pix := make([]byte, l.Width()*l.Height()*BytesPerPixel)
	g.Each(func(r, gi, b int, c Color) {
		off := l.PixelOffset(r, gi, b, BytesPerPixel)
		pix[off+0], pix[off+1], pix[off+2] = c.Bytes()
	})
	return pix
}

// Atlas is a packed grid ready for 2D texture upload.
// It implements image.Image.
type Atlas struct {
	layout Layout
	pix    []byte
}

// NewAtlas packs g into an atlas.
func NewAtlas(g *Grid) *Atlas {
	return &Atlas{layout: g.Layout(), pix: Pack(g)}
}

// Size returns the grid edge length the atlas was packed from.
func (a *Atlas) Size() int { return a.layout.Size }

// Layout returns the atlas layout.
func (a *Atlas) Layout() Layout { return a.layout }

// Width returns the atlas width in pixels.
func (a *Atlas) Width() int { return a.layout.Width() }

// Height returns the atlas height in pixels.
func (a *Atlas) Height() int { return a.layout.Height() }

// Pix returns the packed RGB8 data. The slice is shared with the atlas
// and must not be modified.
func (a *Atlas) Pix() []byte { return a.pix }

// RGBAt returns the bytes of atlas pixel (x, y). Coordinates are clamped
// to the atlas edge, matching clamp-to-edge texture addressing.
func (a *Atlas) RGBAt(x, y int) (r, g, b uint8) {
	x = clampInt(x, 0, a.Width()-1)
	y = clampInt(y, 0, a.Height()-1)
	i := (y*a.Width() + x) * BytesPerPixel
	return a.pix[i], a.pix[i+1], a.pix[i+2]
}

// CellAt returns the quantized color stored for grid cell (r, g, b).
func (a *Atlas) CellAt(r, g, b int) Color {
	x, y := a.layout.Position(r, g, b)
	return ColorFromBytes(a.RGBAt(x, y))
}

// RGBA expands the atlas to 4 bytes per pixel with opaque alpha, the
// layout GPU backends without a 3-channel 8-bit format upload.
func (a *Atlas) RGBA() []byte {
	return ExpandRGBA(a.pix)
}

// ExpandRGBA expands packed RGB8 pixels to RGBA8 with alpha 255.
// WebGPU has no 3-channel 8-bit texture format, so atlas uploads use this
// layout. A trailing partial pixel is ignored.
func ExpandRGBA(rgb []byte) []byte {
	n := len(rgb) / BytesPerPixel
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		out[i*4+0] = rgb[i*3+0]
		out[i*4+1] = rgb[i*3+1]
		out[i*4+2] = rgb[i*3+2]
		out[i*4+3] = 255
	}
	return out
}

// ToNRGBA converts the atlas to an *image.NRGBA.
func (a *Atlas) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(a.Bounds())
	copy(img.Pix, a.RGBA())
	return img
}

// SavePNG writes the atlas as a PNG image.
func (a *Atlas) SavePNG(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, a.ToNRGBA()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (a *Atlas) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(a.Bounds()) {
		return color.NRGBA{}
	}
	r, g, b := a.RGBAt(x, y)
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Bounds implements the image.Image interface.
func (a *Atlas) Bounds() image.Rectangle {
	return a.layout.Bounds()
}

// ColorModel implements the image.Image interface.
func (a *Atlas) ColorModel() color.Model {
	return color.NRGBAModel
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

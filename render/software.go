// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/gogpu/lut"
)

// SoftwareDevice is a CPU Device drawing into PixmapTarget.
//
// The procedural path is evaluated in float32 with the same formula as
// the GPU shader; the textured path fetches the nearest atlas texel. At
// grid-aligned colors both paths agree to within one 8-bit step.
//
// SoftwareDevice is not safe for concurrent use.
type SoftwareDevice struct {
	params  ProceduralParams
	inited  bool
	created int
	live    int
}

// NewSoftwareDevice creates a CPU device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// Init implements Device.
func (d *SoftwareDevice) Init() error {
	d.inited = true
	return nil
}

// Release implements Device.
func (d *SoftwareDevice) Release() {
	d.inited = false
}

// TexturesCreated returns how many atlas textures the device has created.
func (d *SoftwareDevice) TexturesCreated() int {
	return d.created
}

// LiveTextures returns how many created textures are not yet destroyed.
func (d *SoftwareDevice) LiveTextures() int {
	return d.live
}

// CreateAtlasTexture implements Device.
func (d *SoftwareDevice) CreateAtlasTexture(desc AtlasDescriptor, rgb []byte) (Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("render: invalid atlas dimensions %dx%d", desc.Width, desc.Height)
	}
	if want := desc.Width * desc.Height * lut.BytesPerPixel; len(rgb) != want {
		return nil, fmt.Errorf("render: atlas data is %d bytes, want %d", len(rgb), want)
	}
	pix := make([]byte, len(rgb))
	copy(pix, rgb)

	d.created++
	d.live++
	return &softwareTexture{owner: d, width: desc.Width, height: desc.Height, pix: pix}, nil
}

// SetProcedural implements Device.
func (d *SoftwareDevice) SetProcedural(p ProceduralParams) {
	d.params = p
}

// DrawProcedural implements Device.
func (d *SoftwareDevice) DrawProcedural(target RenderTarget, vp image.Rectangle) error {
	img, err := pixmapImage(target)
	if err != nil {
		return err
	}
	p := newProcedural32(d.params)
	clip := vp.Intersect(image.Rect(0, 0, target.Width(), target.Height()))
	origin := img.Bounds().Min
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			img.SetRGBA(origin.X+x, origin.Y+y, p.eval(x-vp.Min.X, y-vp.Min.Y))
		}
	}
	return nil
}

// DrawTextured implements Device.
func (d *SoftwareDevice) DrawTextured(target RenderTarget, vp image.Rectangle, tex Texture) error {
	st, ok := tex.(*softwareTexture)
	if !ok || st.owner != d || st.pix == nil {
		return ErrForeignTexture
	}
	img, err := pixmapImage(target)
	if err != nil {
		return err
	}
	clip := vp.Intersect(image.Rect(0, 0, target.Width(), target.Height()))
	origin := img.Bounds().Min
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			img.SetRGBA(origin.X+x, origin.Y+y, st.fetch(x-vp.Min.X, y-vp.Min.Y))
		}
	}
	return nil
}

func pixmapImage(target RenderTarget) (*image.RGBA, error) {
	pt, ok := target.(*PixmapTarget)
	if !ok || pt == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedTarget, target)
	}
	return pt.Image(), nil
}

// softwareTexture is an RGB8 atlas held in memory.
type softwareTexture struct {
	owner         *SoftwareDevice
	width, height int
	pix           []byte
}

func (t *softwareTexture) Width() int  { return t.width }
func (t *softwareTexture) Height() int { return t.height }

func (t *softwareTexture) Destroy() {
	if t.pix == nil {
		return
	}
	t.pix = nil
	t.owner.live--
}

// fetch returns the texel at (x, y) with clamp-to-edge addressing.
func (t *softwareTexture) fetch(x, y int) color.RGBA {
	x = min(max(x, 0), t.width-1)
	y = min(max(y, 0), t.height-1)
	i := (y*t.width + x) * lut.BytesPerPixel
	return color.RGBA{R: t.pix[i], G: t.pix[i+1], B: t.pix[i+2], A: 255}
}

// procedural32 holds ProceduralParams at shader precision.
type procedural32 struct {
	size, scale, bias, stride float32
	m                         [9]float32
	off                       [3]float32
}

func newProcedural32(p ProceduralParams) procedural32 {
	q := procedural32{
		size:   float32(p.Size),
		scale:  float32(p.Scale),
		bias:   float32(p.Bias),
		stride: float32(p.Stride),
	}
	for i, v := range p.Mapping.M {
		q.m[i] = float32(v)
	}
	for i, v := range p.Mapping.Offset {
		q.off[i] = float32(v)
	}
	return q
}

// eval mirrors fs_procedural in the WGSL shader for the pixel whose
// center is (x+0.5, y+0.5) in viewport coordinates.
func (q procedural32) eval(x, y int) color.RGBA {
	fx := float32(x) + 0.5
	fy := float32(y) + 0.5
	tile := math32.Floor(fx / q.size)
	u := (fx - tile*q.size) / q.size
	v := fy / q.size

	r := u*q.scale + q.bias
	g := v*q.scale + q.bias
	b := tile * q.stride

	m := &q.m
	return color.RGBA{
		R: unorm8(r*m[0] + g*m[1] + b*m[2] + q.off[0]),
		G: unorm8(r*m[3] + g*m[4] + b*m[5] + q.off[1]),
		B: unorm8(r*m[6] + g*m[7] + b*m[8] + q.off[2]),
		A: 255,
	}
}

// unorm8 converts a float to an 8-bit unorm value the way a render
// target write does.
func unorm8(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math32.Round(v * 255))
}

var _ Device = (*SoftwareDevice)(nil)

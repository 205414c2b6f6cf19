// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/lut"
)

// DeviceHandle provides GPU device access from the host application.
// It is an alias for gpucontext.DeviceProvider; gpu.NewDeviceFromProvider
// accepts one.
type DeviceHandle = gpucontext.DeviceProvider

// Device performs the resource and draw operations a Switch delegates.
//
// Resource lifecycle:
//   - Init creates pipelines; Release destroys them
//   - CreateAtlasTexture allocates and uploads one atlas texture; the
//     Switch owns it and calls Texture.Destroy when it is invalidated
//   - Draw calls clip the viewport to the target
//
// Devices are not safe for concurrent use; the Switch serializes access.
type Device interface {
	// Init prepares pipelines and other long-lived resources.
	Init() error

	// Release frees everything created by Init.
	Release()

	// CreateAtlasTexture creates a texture described by desc and uploads
	// rgb, a packed RGB8 atlas as produced by lut.Pack.
	CreateAtlasTexture(desc AtlasDescriptor, rgb []byte) (Texture, error)

	// SetProcedural updates the parameters of the procedural path.
	SetProcedural(p ProceduralParams)

	// DrawProcedural evaluates the procedural mapping into vp.
	DrawProcedural(target RenderTarget, vp image.Rectangle) error

	// DrawTextured draws tex into vp with nearest sampling.
	DrawTextured(target RenderTarget, vp image.Rectangle, tex Texture) error
}

// Texture is an atlas texture created by a Device.
type Texture interface {
	// Width returns the texture width in pixels.
	Width() int

	// Height returns the texture height in pixels.
	Height() int

	// Destroy releases the texture. Safe to call more than once.
	Destroy()
}

// AtlasDescriptor describes an atlas texture. Atlas textures are always
// sampled with nearest filtering and clamp-to-edge addressing so tile
// seams never bleed.
type AtlasDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Width and Height are the atlas dimensions, N² × N.
	Width, Height int

	// Format is the GPU texture format the RGB8 data is expanded to.
	Format gputypes.TextureFormat

	// Filter is the magnification and minification filter.
	Filter gputypes.FilterMode

	// AddressMode applies to U, V and W.
	AddressMode gputypes.AddressMode
}

// NewAtlasDescriptor returns the descriptor for an atlas with layout l.
func NewAtlasDescriptor(l lut.Layout) AtlasDescriptor {
	return AtlasDescriptor{
		Label:       fmt.Sprintf("lut_atlas_%d", l.Size),
		Width:       l.Width(),
		Height:      l.Height(),
		Format:      gputypes.TextureFormatRGBA8Unorm,
		Filter:      gputypes.FilterModeNearest,
		AddressMode: gputypes.AddressModeClampToEdge,
	}
}

// ProceduralParams are the inputs of the procedural path. Scale and Bias
// are the lut.Correction for Size; using the same values as the textured
// path keeps both paths identical at grid-aligned colors.
type ProceduralParams struct {
	Scale  float64
	Bias   float64
	Size   int
	Stride float64

	// Mapping is the color transform evaluated per pixel.
	Mapping lut.Affine
}

// NewProceduralParams derives the parameters for a grid size.
func NewProceduralParams(size int, mapping lut.Affine) ProceduralParams {
	c := lut.CorrectionFor(size)
	return ProceduralParams{
		Scale:   c.Scale,
		Bias:    c.Bias,
		Size:    size,
		Stride:  lut.Stride(size),
		Mapping: mapping,
	}
}

// Correction returns Scale and Bias as a lut.Correction.
func (p ProceduralParams) Correction() lut.Correction {
	return lut.Correction{Scale: p.Scale, Bias: p.Bias}
}

// Eval returns the color the procedural path produces at viewport pixel
// (x, y), evaluated in float64. Devices may evaluate at lower precision.
func (p ProceduralParams) Eval(x, y int) lut.Color {
	n := float64(p.Size)
	corr := p.Correction()
	r, g, tile := lut.Layout{Size: p.Size}.Cell(x, y)
	in := lut.Color{
		R: corr.Apply((float64(r) + 0.5) / n),
		G: corr.Apply((float64(g) + 0.5) / n),
		B: float64(tile) * p.Stride,
	}
	return p.Mapping.Apply(in).Clamp()
}

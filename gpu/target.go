//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/lut/render"
	"github.com/gogpu/wgpu/hal"
)

// Target is a render.RenderTarget wrapping a texture view the host owns,
// such as the current swapchain image.
type Target struct {
	view          hal.TextureView
	width, height int
	format        gputypes.TextureFormat
}

// NewTarget wraps view as a render target of the given size and format.
func NewTarget(view hal.TextureView, width, height int, format gputypes.TextureFormat) *Target {
	return &Target{view: view, width: width, height: height, format: format}
}

// Width returns the target width in pixels.
func (t *Target) Width() int { return t.width }

// Height returns the target height in pixels.
func (t *Target) Height() int { return t.height }

// Format returns the texture format of the wrapped view.
func (t *Target) Format() gputypes.TextureFormat { return t.format }

// View returns the texture view draws render into.
func (t *Target) View() hal.TextureView { return t.view }

// OffscreenTarget is a Target backed by a texture the device created.
type OffscreenTarget struct {
	Target
	owner *Device
	tex   hal.Texture
}

// NewOffscreenTarget creates a width × height texture in the device's
// format that can be rendered into and copied out.
func (d *Device) NewOffscreenTarget(width, height int) (*OffscreenTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("gpu: invalid target dimensions %dx%d", width, height)
	}
	w, h := uint32(width), uint32(height) //nolint:gosec // checked positive above

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "lut_offscreen",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        d.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create offscreen texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "lut_offscreen_view",
		Format:        d.format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create offscreen view: %w", err)
	}
	return &OffscreenTarget{
		Target: Target{view: view, width: width, height: height, format: d.format},
		owner:  d,
		tex:    tex,
	}, nil
}

// Texture returns the backing texture.
func (t *OffscreenTarget) Texture() hal.Texture {
	return t.tex
}

// Destroy releases the view and texture. Safe to call more than once.
func (t *OffscreenTarget) Destroy() {
	if t.tex == nil {
		return
	}
	t.owner.device.DestroyTextureView(t.view)
	t.owner.device.DestroyTexture(t.tex)
	t.view, t.tex = nil, nil
}

var _ render.RenderTarget = (*Target)(nil)

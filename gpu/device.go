//go:build !nogpu

// Package gpu implements render.Device on top of gogpu/wgpu.
//
// The device does not create a GPU instance of its own. It receives a
// hal.Device and hal.Queue from the host, either directly through
// NewDevice or from a gpucontext.DeviceProvider that also exposes HAL
// handles.
//
// Atlas textures are RGBA8 (the RGB8 atlas is expanded on upload) and
// sampled with a nearest, clamp-to-edge sampler. Draws load the existing
// target contents and cover only the viewport rectangle; geometry outside
// the target is clipped by the rasterizer.
package gpu

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/lut"
	"github.com/gogpu/lut/render"
	"github.com/gogpu/wgpu/hal"
)

// Device errors.
var (
	// ErrNotInitialized is returned by draw calls before Init.
	ErrNotInitialized = errors.New("gpu: device not initialized")

	// ErrFormatMismatch is returned when a target's format differs from
	// the format the pipelines were built for.
	ErrFormatMismatch = errors.New("gpu: target format does not match device format")

	// ErrNoHALProvider is returned by NewDeviceFromProvider when the
	// provider does not expose HAL handles.
	ErrNoHALProvider = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrWaitTimeout is returned when a submitted draw does not finish
	// within the fence wait timeout.
	ErrWaitTimeout = errors.New("gpu: wait for GPU timed out")
)

// waitTimeout bounds how long a draw waits for the GPU.
const waitTimeout = 5 * time.Second

// Device is a render.Device backed by a wgpu HAL device.
//
// Device is not safe for concurrent use; render.Switch serializes calls.
type Device struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader         hal.ShaderModule
	procLayout     hal.BindGroupLayout
	texLayout      hal.BindGroupLayout
	procPipeLayout hal.PipelineLayout
	texPipeLayout  hal.PipelineLayout
	procPipeline   hal.RenderPipeline
	texPipeline    hal.RenderPipeline

	params render.ProceduralParams
}

// NewDevice creates a device that renders into targets of the given
// format. Pipelines are created by Init.
func NewDevice(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) *Device {
	return &Device{
		device: device,
		queue:  queue,
		format: format,
	}
}

// NewDeviceFromProvider creates a device sharing the provider's GPU. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. Targets use the provider's surface format.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHALProvider, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHALProvider, hp.HalQueue())
	}
	return NewDevice(device, queue, provider.SurfaceFormat()), nil
}

// Format returns the target format the pipelines are built for.
func (d *Device) Format() gputypes.TextureFormat {
	return d.format
}

// Init implements render.Device. It compiles the shader and creates both
// pipelines.
func (d *Device) Init() error {
	if d.procPipeline != nil && d.texPipeline != nil {
		return nil
	}
	if err := d.createPipelines(); err != nil {
		d.Release()
		return err
	}
	lut.Logger().Info("gpu: lut pipelines created", "format", d.format)
	return nil
}

// Release implements render.Device. Resources are destroyed in reverse
// creation order. Safe to call more than once.
func (d *Device) Release() {
	if d.device == nil {
		return
	}
	if d.texPipeline != nil {
		d.device.DestroyRenderPipeline(d.texPipeline)
		d.texPipeline = nil
	}
	if d.procPipeline != nil {
		d.device.DestroyRenderPipeline(d.procPipeline)
		d.procPipeline = nil
	}
	if d.texPipeLayout != nil {
		d.device.DestroyPipelineLayout(d.texPipeLayout)
		d.texPipeLayout = nil
	}
	if d.procPipeLayout != nil {
		d.device.DestroyPipelineLayout(d.procPipeLayout)
		d.procPipeLayout = nil
	}
	if d.texLayout != nil {
		d.device.DestroyBindGroupLayout(d.texLayout)
		d.texLayout = nil
	}
	if d.procLayout != nil {
		d.device.DestroyBindGroupLayout(d.procLayout)
		d.procLayout = nil
	}
	if d.shader != nil {
		d.device.DestroyShaderModule(d.shader)
		d.shader = nil
	}
}

// SetProcedural implements render.Device.
func (d *Device) SetProcedural(p render.ProceduralParams) {
	d.params = p
}

// CreateAtlasTexture implements render.Device.
func (d *Device) CreateAtlasTexture(desc render.AtlasDescriptor, rgb []byte) (render.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("gpu: invalid atlas dimensions %dx%d", desc.Width, desc.Height)
	}
	if want := desc.Width * desc.Height * lut.BytesPerPixel; len(rgb) != want {
		return nil, fmt.Errorf("gpu: atlas data is %d bytes, want %d", len(rgb), want)
	}

	w, h := uint32(desc.Width), uint32(desc.Height) //nolint:gosec // atlas dimensions always fit uint32

	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create atlas texture: %w", err)
	}

	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         desc.Label + "_view",
		Format:        desc.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create atlas texture view: %w", err)
	}

	sampler, err := d.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label + "_sampler",
		AddressModeU: desc.AddressMode,
		AddressModeV: desc.AddressMode,
		AddressModeW: desc.AddressMode,
		MagFilter:    desc.Filter,
		MinFilter:    desc.Filter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		d.device.DestroyTextureView(view)
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("gpu: create atlas sampler: %w", err)
	}

	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
		},
		lut.ExpandRGBA(rgb),
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * 4,
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)

	return &atlasTexture{
		owner:   d,
		tex:     tex,
		view:    view,
		sampler: sampler,
		width:   desc.Width,
		height:  desc.Height,
	}, nil
}

// DrawProcedural implements render.Device.
func (d *Device) DrawProcedural(target render.RenderTarget, vp image.Rectangle) error {
	t, err := d.checkTarget(target)
	if err != nil {
		return err
	}
	return d.draw(t, vp, d.procPipeline, d.procLayout, nil)
}

// DrawTextured implements render.Device.
func (d *Device) DrawTextured(target render.RenderTarget, vp image.Rectangle, tex render.Texture) error {
	at, ok := tex.(*atlasTexture)
	if !ok || at.owner != d || at.tex == nil {
		return render.ErrForeignTexture
	}
	t, err := d.checkTarget(target)
	if err != nil {
		return err
	}
	return d.draw(t, vp, d.texPipeline, d.texLayout, at)
}

// viewTarget is a render target backed by a texture view. Target and
// OffscreenTarget implement it.
type viewTarget interface {
	render.RenderTarget
	View() hal.TextureView
}

func (d *Device) checkTarget(target render.RenderTarget) (viewTarget, error) {
	if d.procPipeline == nil || d.texPipeline == nil {
		return nil, ErrNotInitialized
	}
	t, ok := target.(viewTarget)
	if !ok || t.View() == nil {
		return nil, fmt.Errorf("%w: %T", render.ErrUnsupportedTarget, target)
	}
	if t.Format() != d.format {
		return nil, fmt.Errorf("%w: target %v, device %v", ErrFormatMismatch, t.Format(), d.format)
	}
	return t, nil
}

// draw encodes one render pass covering vp, submits it and waits.
func (d *Device) draw(t viewTarget, vp image.Rectangle, pipeline hal.RenderPipeline,
	layout hal.BindGroupLayout, at *atlasTexture,
) error {
	uniformData := makeLUTUniform(vp, t.Width(), t.Height(), d.params)
	uniformBuf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "lut_uniform",
		Size:  lutUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create uniform buffer: %w", err)
	}
	defer d.device.DestroyBuffer(uniformBuf)
	d.queue.WriteBuffer(uniformBuf, 0, uniformData)

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{
			Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: lutUniformSize,
		}},
	}
	if at != nil {
		entries = append(entries,
			gputypes.BindGroupEntry{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: at.view.NativeHandle(),
			}},
			gputypes.BindGroupEntry{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: at.sampler.NativeHandle(),
			}},
		)
	}
	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "lut_bind",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("gpu: create bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "lut_encoder",
	})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("lut_draw"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "lut_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:    t.View(),
				LoadOp:  gputypes.LoadOpLoad,
				StoreOp: gputypes.StoreOpStore,
			},
		},
	})
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, bindGroup, nil)
	rp.Draw(6, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	return waitResult(d.device.Wait(fence, 1, waitTimeout))
}

// waitResult converts a fence wait outcome into an error. A wait that
// returns without error but unsignaled is a timeout.
func waitResult(signaled bool, err error) error {
	if err != nil {
		return fmt.Errorf("gpu: wait for GPU: %w", err)
	}
	if !signaled {
		return ErrWaitTimeout
	}
	return nil
}

// createPipelines compiles the shader and builds the procedural and
// textured pipelines. The procedural layout binds only the uniform block,
// so no texture is needed to draw procedurally.
func (d *Device) createPipelines() error {
	if lutShaderSource == "" {
		return fmt.Errorf("gpu: lut shader source is empty")
	}

	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "lut_shader",
		Source: hal.ShaderSource{WGSL: lutShaderSource},
	})
	if err != nil {
		return fmt.Errorf("gpu: compile lut shader: %w", err)
	}
	d.shader = shader

	uniformEntry := gputypes.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
		Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}

	d.procLayout, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "lut_procedural_layout",
		Entries: []gputypes.BindGroupLayoutEntry{uniformEntry},
	})
	if err != nil {
		return fmt.Errorf("gpu: create procedural bind group layout: %w", err)
	}

	d.texLayout, err = d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "lut_textured_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			uniformEntry,
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create textured bind group layout: %w", err)
	}

	d.procPipeLayout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "lut_procedural_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.procLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create procedural pipeline layout: %w", err)
	}

	d.texPipeLayout, err = d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "lut_textured_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.texLayout},
	})
	if err != nil {
		return fmt.Errorf("gpu: create textured pipeline layout: %w", err)
	}

	d.procPipeline, err = d.createPipeline("lut_procedural_pipeline", d.procPipeLayout, "fs_procedural")
	if err != nil {
		return err
	}
	d.texPipeline, err = d.createPipeline("lut_textured_pipeline", d.texPipeLayout, "fs_textured")
	return err
}

func (d *Device) createPipeline(label string, layout hal.PipelineLayout, fragEntry string) (hal.RenderPipeline, error) {
	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     d.shader,
			EntryPoint: "vs_main",
		},
		Fragment: &hal.FragmentState{
			Module:     d.shader,
			EntryPoint: fragEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    d.format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s: %w", label, err)
	}
	return pipeline, nil
}

// atlasTexture is an uploaded atlas with its view and sampler.
type atlasTexture struct {
	owner         *Device
	tex           hal.Texture
	view          hal.TextureView
	sampler       hal.Sampler
	width, height int
}

func (t *atlasTexture) Width() int  { return t.width }
func (t *atlasTexture) Height() int { return t.height }

// Destroy releases the sampler, view and texture. Safe to call more than once.
func (t *atlasTexture) Destroy() {
	if t.tex == nil {
		return
	}
	dev := t.owner.device
	dev.DestroySampler(t.sampler)
	dev.DestroyTextureView(t.view)
	dev.DestroyTexture(t.tex)
	t.sampler, t.view, t.tex = nil, nil, nil
}

var _ render.Device = (*Device)(nil)

//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"image"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/lut"
	"github.com/gogpu/lut/render"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

func newTestDevice(t *testing.T) *Device {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	t.Cleanup(cleanup)
	return NewDevice(device, queue, gputypes.TextureFormatRGBA8Unorm)
}

func TestDeviceInitRelease(t *testing.T) {
	d := newTestDevice(t)

	if err := d.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if d.procPipeline == nil || d.texPipeline == nil {
		t.Fatal("expected both pipelines after Init")
	}

	orig := d.procPipeline
	if err := d.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	if d.procPipeline != orig {
		t.Error("pipeline was recreated unnecessarily")
	}

	d.Release()
	if d.procPipeline != nil || d.texPipeline != nil || d.shader != nil {
		t.Error("expected nil resources after Release")
	}
	d.Release()
}

func TestDeviceDrawBeforeInit(t *testing.T) {
	d := newTestDevice(t)
	target, err := d.NewOffscreenTarget(16, 4)
	if err != nil {
		t.Fatal(err)
	}
	defer target.Destroy()

	if err := d.DrawProcedural(target, image.Rect(0, 0, 16, 4)); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("DrawProcedural before Init = %v, want ErrNotInitialized", err)
	}
}

func TestDeviceCreateAtlasTexture(t *testing.T) {
	d := newTestDevice(t)
	g := lut.MustBuild(lut.Protanopia.Func(), 4)
	desc := render.NewAtlasDescriptor(g.Layout())

	tex, err := d.CreateAtlasTexture(desc, lut.Pack(g))
	if err != nil {
		t.Fatalf("CreateAtlasTexture failed: %v", err)
	}
	if tex.Width() != 16 || tex.Height() != 4 {
		t.Errorf("texture is %dx%d, want 16x4", tex.Width(), tex.Height())
	}
	at := tex.(*atlasTexture)
	if at.view == nil || at.sampler == nil {
		t.Error("expected view and sampler")
	}

	tex.Destroy()
	if at.tex != nil || at.view != nil || at.sampler != nil {
		t.Error("expected nil resources after Destroy")
	}
	tex.Destroy()

	if _, err := d.CreateAtlasTexture(desc, make([]byte, 3)); err == nil {
		t.Error("expected error for short atlas data")
	}
}

func TestDeviceSwitchRender(t *testing.T) {
	d := newTestDevice(t)
	sw := render.New(d, render.WithDefaultSize(4))
	if err := sw.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer sw.Release()

	target, err := d.NewOffscreenTarget(64, 16)
	if err != nil {
		t.Fatal(err)
	}
	defer target.Destroy()

	if err := sw.Render(target); err != nil {
		t.Fatalf("procedural Render failed: %v", err)
	}

	if err := sw.SetLUT(render.Bound{Grid: lut.MustBuild(lut.Invert.Func(), 8)}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := sw.Render(target); err != nil {
			t.Fatalf("textured Render failed: %v", err)
		}
	}
	if st := sw.Stats(); st.AtlasBuilds != 1 || st.TexturedDraws != 3 || st.ProceduralDraws != 1 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestDeviceRejectsTargets(t *testing.T) {
	d := newTestDevice(t)
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}
	defer d.Release()

	vp := image.Rect(0, 0, 4, 2)
	if err := d.DrawProcedural(render.NewPixmapTarget(4, 2), vp); !errors.Is(err, render.ErrUnsupportedTarget) {
		t.Errorf("DrawProcedural(pixmap) = %v, want ErrUnsupportedTarget", err)
	}

	target, err := d.NewOffscreenTarget(4, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer target.Destroy()
	bgra := NewTarget(target.View(), 4, 2, gputypes.TextureFormatBGRA8Unorm)
	if err := d.DrawProcedural(bgra, vp); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("DrawProcedural(bgra) = %v, want ErrFormatMismatch", err)
	}

	other := render.NewSoftwareDevice()
	g := lut.MustBuild(lut.Identity.Func(), 2)
	foreign, _ := other.CreateAtlasTexture(render.NewAtlasDescriptor(g.Layout()), lut.Pack(g))
	if err := d.DrawTextured(target, vp, foreign); !errors.Is(err, render.ErrForeignTexture) {
		t.Errorf("DrawTextured(foreign) = %v, want ErrForeignTexture", err)
	}
}

func TestNewOffscreenTargetInvalid(t *testing.T) {
	d := newTestDevice(t)
	if _, err := d.NewOffscreenTarget(0, 4); err == nil {
		t.Error("expected error for zero width")
	}
}

type fakeProvider struct {
	device hal.Device
	queue  hal.Queue
}

func (p fakeProvider) Device() gpucontext.Device             { return nil }
func (p fakeProvider) Queue() gpucontext.Queue               { return nil }
func (p fakeProvider) Adapter() gpucontext.Adapter           { return nil }
func (p fakeProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (p fakeProvider) HalDevice() any                        { return p.device }
func (p fakeProvider) HalQueue() any                         { return p.queue }

func TestNewDeviceFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	d, err := NewDeviceFromProvider(fakeProvider{device: device, queue: queue})
	if err != nil {
		t.Fatalf("NewDeviceFromProvider failed: %v", err)
	}
	if d.Format() != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format() = %v, want provider surface format", d.Format())
	}

	if _, err := NewDeviceFromProvider(fakeProvider{}); !errors.Is(err, ErrNoHALProvider) {
		t.Errorf("NewDeviceFromProvider(empty) = %v, want ErrNoHALProvider", err)
	}
}

func TestShaderSource(t *testing.T) {
	src := ShaderSource()
	for _, want := range []string{"fn vs_main", "fn fs_procedural", "fn fs_textured", "lut_atlas", "lut_sampler"} {
		if !strings.Contains(src, want) {
			t.Errorf("shader source missing %q", want)
		}
	}
}

func TestCompileSPIRV(t *testing.T) {
	words, err := CompileSPIRV()
	if err != nil {
		t.Skipf("naga cannot compile the lut shader: %v", err)
	}
	if len(words) == 0 || words[0] != 0x07230203 {
		t.Errorf("SPIR-V output does not start with the magic number")
	}
}

func TestMakeLUTUniform(t *testing.T) {
	p := render.NewProceduralParams(16, lut.Invert)
	buf := makeLUTUniform(image.Rect(544, 584, 800, 600), 800, 600, p)
	if len(buf) != lutUniformSize {
		t.Fatalf("len = %d, want %d", len(buf), lutUniformSize)
	}

	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	want := map[int]float32{
		0: 544, 1: 584, 2: 256, 3: 16,
		4: 800, 5: 600,
		8: float32(p.Scale), 9: float32(p.Bias), 10: 16, 11: float32(p.Stride),
		12: -1, 15: 1, 17: -1, 19: 1, 22: -1, 23: 1,
	}
	for i, w := range want {
		if got := f(i); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestWaitResult(t *testing.T) {
	gpuErr := errors.New("device lost")

	if err := waitResult(true, nil); err != nil {
		t.Errorf("waitResult(signaled) = %v, want nil", err)
	}

	err := waitResult(false, nil)
	if !errors.Is(err, ErrWaitTimeout) {
		t.Errorf("waitResult(timeout) = %v, want ErrWaitTimeout", err)
	}
	if strings.Contains(err.Error(), "%!") {
		t.Errorf("timeout error has a formatting artifact: %q", err)
	}

	err = waitResult(false, gpuErr)
	if !errors.Is(err, gpuErr) {
		t.Errorf("waitResult(error) = %v, want it to wrap %v", err, gpuErr)
	}
	if errors.Is(err, ErrWaitTimeout) {
		t.Errorf("waitResult(error) = %v, should not report a timeout", err)
	}
}

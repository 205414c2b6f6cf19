// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"sync"

	"github.com/gogpu/lut"
)

// Switch renders a LUT into the bottom-right corner of a render target,
// either procedurally or by sampling the packed atlas texture.
//
// A Switch starts uninitialized. Initialize makes it ready; SetLUT picks
// the sub-state: Unbound renders procedurally at the default size, Bound
// renders the grid through an atlas texture that is built on the first
// Render after SetLUT and reused until the next SetLUT.
//
// The switch is meant for a single render loop. Its state is guarded by a
// mutex, but callers issuing SetLUT and Render from different goroutines
// must order them themselves.
type Switch struct {
	mu sync.Mutex

	device Device
	ready  bool

	binding     Binding
	mode        Mode
	grid        *lut.Grid
	defaultSize int
	mapping     lut.Affine
	params      ProceduralParams

	cache atlasCache
	stats Stats
}

// Stats counts switch activity.
type Stats struct {
	// AtlasBuilds is the number of atlas textures created.
	AtlasBuilds int

	// AtlasReleases is the number of atlas textures destroyed.
	AtlasReleases int

	// ProceduralDraws and TexturedDraws count renders per path.
	ProceduralDraws int
	TexturedDraws   int

	// Clipped counts renders whose draw rectangle exceeded the target.
	Clipped int
}

// New creates an uninitialized switch drawing through device.
// The initial binding is Unbound.
func New(device Device, opts ...Option) *Switch {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	s := &Switch{
		device:      device,
		binding:     Unbound{},
		mode:        ModeProcedural,
		defaultSize: o.defaultSize,
		mapping:     o.mapping,
	}
	s.params = NewProceduralParams(s.activeSize(), s.mapping)
	return s
}

// Initialize prepares the device and pushes the current procedural
// parameters. Calling it on a ready switch is a no-op.
func (s *Switch) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if s.device == nil {
		return ErrNilDevice
	}
	if err := s.device.Init(); err != nil {
		return err
	}
	s.device.SetProcedural(s.params)
	s.ready = true
	lut.Logger().Info("render: switch initialized", "mode", s.mode, "size", s.activeSize())
	return nil
}

// Release frees the cached atlas texture and the device pipelines and
// returns the switch to the uninitialized state. The binding is kept.
func (s *Switch) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cache.invalidate() {
		s.stats.AtlasReleases++
	}
	if s.ready {
		s.device.Release()
		s.ready = false
	}
}

// Initialized reports whether the switch is ready to render.
func (s *Switch) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// SetLUT changes the binding. Any cached atlas texture is released; a
// Bound grid is packed and uploaded lazily on the next Render. The
// sampling correction for the new active size is pushed to the
// procedural path.
//
// The grid is retained, not copied. Grids are immutable, so the caller
// keeping a reference is harmless.
func (s *Switch) SetLUT(b Binding) error {
	if b == nil {
		return ErrNilBinding
	}
	mode, grid := modeOf(b)
	if mode == ModeTextured && grid == nil {
		return ErrNilGrid
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.binding = b
	s.mode = mode
	s.grid = grid
	if s.cache.invalidate() {
		s.stats.AtlasReleases++
		lut.Logger().Debug("render: atlas texture released")
	}
	s.updateParams()
	return nil
}

// LUT returns the current binding. A Bound grid is returned as a copy.
func (s *Switch) LUT() Binding {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch b := s.binding.(type) {
	case Bound:
		return Bound{Grid: b.Grid.Copy()}
	default:
		return Unbound{}
	}
}

// Mode returns the rendering path for the current binding.
func (s *Switch) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// DefaultSize returns the procedural grid size.
func (s *Switch) DefaultSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultSize
}

// SetDefaultSize changes the procedural grid size and recomputes the
// sampling correction. It returns a *lut.SizeError for sizes below
// lut.MinSize.
func (s *Switch) SetDefaultSize(size int) error {
	if err := lut.ValidateSize(size); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.defaultSize = size
	s.updateParams()
	return nil
}

// ActiveSize returns the grid size being rendered: the bound grid's size,
// or the default size when unbound.
func (s *Switch) ActiveSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeSize()
}

// Correction returns the sampling correction for the active size.
func (s *Switch) Correction() lut.Correction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params.Correction()
}

// Params returns the procedural parameters last pushed to the device.
func (s *Switch) Params() ProceduralParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// DrawSize returns the draw rectangle size: active² × active.
func (s *Switch) DrawSize() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawSize()
}

// Stats returns a snapshot of the switch counters.
func (s *Switch) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// AtlasCached reports whether an atlas texture is currently held.
func (s *Switch) AtlasCached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.cached()
}

// Fits returns a *SurfaceTooSmallError when the draw rectangle does not
// fit into target, and nil otherwise.
func (s *Switch) Fits(target RenderTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fits(target)
}

// Render draws the LUT into the bottom-right corner of target.
//
// When the draw rectangle is larger than the target a warning is logged
// and the draw proceeds clipped; Render does not fail for it.
func (s *Switch) Render(target RenderTarget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return ErrNotInitialized
	}

	if err := s.fits(target); err != nil {
		s.stats.Clipped++
		lut.Logger().Warn("render: draw clipped", "err", err)
	}
	w, h := s.drawSize()
	vp := viewport(target, w, h)

	switch s.mode {
	case ModeTextured:
		tex, built, err := s.cache.get(s.device, s.grid)
		if err != nil {
			return err
		}
		if built {
			s.stats.AtlasBuilds++
			lut.Logger().Debug("render: atlas texture built",
				"size", s.grid.Size(), "width", tex.Width(), "height", tex.Height())
		}
		if err := s.device.DrawTextured(target, vp, tex); err != nil {
			return err
		}
		s.stats.TexturedDraws++
	default:
		if err := s.device.DrawProcedural(target, vp); err != nil {
			return err
		}
		s.stats.ProceduralDraws++
	}
	return nil
}

func (s *Switch) activeSize() int {
	if s.grid != nil {
		return s.grid.Size()
	}
	return s.defaultSize
}

func (s *Switch) drawSize() (int, int) {
	n := s.activeSize()
	return n * n, n
}

func (s *Switch) fits(target RenderTarget) error {
	w, h := s.drawSize()
	if target.Width() < w || target.Height() < h {
		return &SurfaceTooSmallError{
			Size:         s.activeSize(),
			DrawWidth:    w,
			DrawHeight:   h,
			TargetWidth:  target.Width(),
			TargetHeight: target.Height(),
		}
	}
	return nil
}

// updateParams recomputes the procedural parameters for the active size
// and pushes them to a ready device.
func (s *Switch) updateParams() {
	s.params = NewProceduralParams(s.activeSize(), s.mapping)
	if s.ready {
		s.device.SetProcedural(s.params)
	}
}

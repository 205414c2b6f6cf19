// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render draws color look-up tables into render targets.
//
// # Switch
//
// Switch selects between two equivalent ways of drawing a LUT:
//
//   - Procedural: the mapping is evaluated per pixel; no texture exists.
//     Used while the binding is Unbound, at the switch's default size.
//   - Textured: the bound grid is packed with lut.Pack, uploaded once as
//     an atlas texture and sampled with nearest filtering.
//
// Both paths use the sampling correction of the active size, so a grid
// built from the procedural mapping renders the same pixels either way.
//
// The draw rectangle is activeSize² × activeSize at the bottom-right of
// the target. A smaller target logs a warning and the draw is clipped.
//
// # Devices
//
//   - SoftwareDevice: CPU rendering into PixmapTarget
//   - gpu.Device: wgpu rendering into a texture view
//
// # Usage
//
//	sw := render.New(render.NewSoftwareDevice(), render.WithDefaultSize(16))
//	if err := sw.Initialize(); err != nil {
//	    return err
//	}
//	defer sw.Release()
//
//	grid, _ := lut.Build(lut.Protanopia.Func(), 16)
//	_ = sw.SetLUT(render.Bound{Grid: grid})
//
//	target := render.NewPixmapTarget(800, 600)
//	if err := sw.Render(target); err != nil {
//	    return err
//	}
package render

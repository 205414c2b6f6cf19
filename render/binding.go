// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "github.com/gogpu/lut"

// Binding is the LUT state of a Switch: either Bound to a grid or
// Unbound. It is a closed set; Bound and Unbound are the only variants.
type Binding interface {
	isBinding()
}

// Bound binds a grid. The switch renders it through the atlas texture.
type Bound struct {
	Grid *lut.Grid
}

// Unbound selects procedural rendering at the switch's default size.
type Unbound struct{}

func (Bound) isBinding()   {}
func (Unbound) isBinding() {}

// Mode is the rendering path a Switch takes for its current Binding.
type Mode uint8

const (
	// ModeProcedural evaluates the mapping per pixel without a texture.
	ModeProcedural Mode = iota

	// ModeTextured samples the packed atlas texture.
	ModeTextured
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeProcedural:
		return "procedural"
	case ModeTextured:
		return "textured"
	default:
		return "unknown"
	}
}

// modeOf returns the rendering mode and the grid for b.
func modeOf(b Binding) (Mode, *lut.Grid) {
	switch b := b.(type) {
	case Bound:
		return ModeTextured, b.Grid
	case Unbound:
		return ModeProcedural, nil
	default:
		panic("render: unknown binding type")
	}
}

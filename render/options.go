// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import "github.com/gogpu/lut"

// DefaultSize is the procedural grid size used when no LUT is bound and
// WithDefaultSize is not given.
const DefaultSize = 16

// Option configures a Switch during creation.
//
// Example:
//
//	sw := render.New(device,
//	    render.WithDefaultSize(24),
//	    render.WithProceduralMapping(lut.Monochrome),
//	)
type Option func(*options)

type options struct {
	defaultSize int
	mapping     lut.Affine
}

func defaultOptions() options {
	return options{
		defaultSize: DefaultSize,
		mapping:     lut.Identity,
	}
}

// WithDefaultSize sets the grid size the procedural path renders at while
// no LUT is bound. Sizes below lut.MinSize are ignored.
func WithDefaultSize(size int) Option {
	return func(o *options) {
		if lut.ValidateSize(size) == nil {
			o.defaultSize = size
		}
	}
}

// WithProceduralMapping sets the mapping the procedural path evaluates.
// The default is lut.Identity.
func WithProceduralMapping(m lut.Affine) Option {
	return func(o *options) {
		o.mapping = m
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/lut"
)

// atlasCache owns the atlas texture built from the bound grid.
// The dirty flag is set only by invalidate; a clean cache with a texture
// is reused by every render.
type atlasCache struct {
	tex   Texture
	dirty bool
}

// invalidate releases the cached texture and marks the cache dirty.
// It reports whether a texture was released.
func (c *atlasCache) invalidate() bool {
	c.dirty = true
	if c.tex == nil {
		return false
	}
	c.tex.Destroy()
	c.tex = nil
	return true
}

// get returns the atlas texture for g, building it through device when
// the cache is dirty or empty. built reports whether a build happened.
func (c *atlasCache) get(device Device, g *lut.Grid) (tex Texture, built bool, err error) {
	if c.tex != nil && !c.dirty {
		return c.tex, false, nil
	}
	if c.tex != nil {
		c.tex.Destroy()
		c.tex = nil
	}

	desc := NewAtlasDescriptor(g.Layout())
	tex, err = device.CreateAtlasTexture(desc, lut.Pack(g))
	if err != nil {
		return nil, false, fmt.Errorf("render: create atlas texture: %w", err)
	}
	c.tex = tex
	c.dirty = false
	return tex, true, nil
}

// cached reports whether a texture is held.
func (c *atlasCache) cached() bool {
	return c.tex != nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
)

// Render errors.
var (
	// ErrNotInitialized is returned by Render before Initialize succeeds.
	ErrNotInitialized = errors.New("render: switch not initialized")

	// ErrNilDevice is returned by Initialize when the switch has no device.
	ErrNilDevice = errors.New("render: device is nil")

	// ErrNilGrid is returned by SetLUT for a Bound binding without a grid.
	ErrNilGrid = errors.New("render: bound grid is nil")

	// ErrNilBinding is returned by SetLUT for a nil Binding.
	ErrNilBinding = errors.New("render: binding is nil")

	// ErrSurfaceTooSmall is wrapped by SurfaceTooSmallError.
	ErrSurfaceTooSmall = errors.New("render: look-up table does not fit in the render target")

	// ErrUnsupportedTarget is returned by a Device for targets it cannot
	// draw into.
	ErrUnsupportedTarget = errors.New("render: unsupported render target")

	// ErrForeignTexture is returned by a Device asked to draw a texture
	// created by another device.
	ErrForeignTexture = errors.New("render: texture was not created by this device")
)

// SurfaceTooSmallError reports a draw rectangle larger than the target.
// Render logs it as a warning and still draws, clipped to the target.
type SurfaceTooSmallError struct {
	Size                      int
	DrawWidth, DrawHeight     int
	TargetWidth, TargetHeight int
}

func (e *SurfaceTooSmallError) Error() string {
	return fmt.Sprintf("render: look-up table (size: %d, px: %dx%d) does not fit in the %dx%d target",
		e.Size, e.DrawWidth, e.DrawHeight, e.TargetWidth, e.TargetHeight)
}

// Unwrap returns ErrSurfaceTooSmall.
func (e *SurfaceTooSmallError) Unwrap() error { return ErrSurfaceTooSmall }

package lut

import (
	"errors"
	"fmt"
)

// LUT errors.
var (
	// ErrInvalidSize is returned when a grid is requested with fewer than
	// MinSize samples per axis.
	ErrInvalidSize = errors.New("lut: grid size must be at least 2")

	// ErrIndexOutOfRange is the panic value wrapped by IndexError when a
	// cell is addressed outside [0, size).
	ErrIndexOutOfRange = errors.New("lut: cell index out of range")
)

// MinSize is the smallest grid edge length. One sample per axis cannot
// represent a gradient.
const MinSize = 2

// SizeError reports an invalid grid size.
type SizeError struct {
	Size int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("lut: grid size must be at least %d, got %d", MinSize, e.Size)
}

// Unwrap returns ErrInvalidSize.
func (e *SizeError) Unwrap() error { return ErrInvalidSize }

// IndexError reports a cell access outside the grid.
type IndexError struct {
	R, G, B int
	Size    int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("lut: cell (%d, %d, %d) out of range for size %d", e.R, e.G, e.B, e.Size)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// ValidateSize returns a *SizeError when size is below MinSize.
func ValidateSize(size int) error {
	if size < MinSize {
		return &SizeError{Size: size}
	}
	return nil
}

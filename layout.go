package lut

import "image"

// Layout describes how an N×N×N grid is laid out in a 2D atlas: N tiles
// of N×N pixels placed left to right, one per blue index. Within a tile
// x is the red index and y the green index.
//
// Layout is a pure function of Size. Index3Dto2D is the single mapping
// from grid indices to atlas pixels; the packer and the samplers both
// go through it.
type Layout struct {
	Size int
}

// TileSize returns the edge length of one tile.
func (l Layout) TileSize() int { return l.Size }

// Width returns the atlas width, N².
func (l Layout) Width() int { return l.Size * l.Size }

// Height returns the atlas height, N.
func (l Layout) Height() int { return l.Size }

// Bounds returns the atlas rectangle.
func (l Layout) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.Width(), l.Height())
}

// Tile returns the rectangle occupied by tile t (blue index t).
func (l Layout) Tile(t int) image.Rectangle {
	return image.Rect(t*l.Size, 0, (t+1)*l.Size, l.Size)
}

// Position returns the atlas pixel of cell (r, g, b).
func (l Layout) Position(r, g, b int) (x, y int) {
	return Index3Dto2D(r, g, b, l.Size)
}

// Cell is the inverse of Position.
func (l Layout) Cell(x, y int) (r, g, b int) {
	return x % l.Size, y, x / l.Size
}

// PixelOffset returns the byte offset of cell (r, g, b) in a packed
// buffer with bpp bytes per pixel.
func (l Layout) PixelOffset(r, g, b, bpp int) int {
	x, y := l.Position(r, g, b)
	return (y*l.Width() + x) * bpp
}

// Index3Dto2D maps grid indices to atlas pixel coordinates for a grid
// of the given size.
func Index3Dto2D(r, g, b, size int) (x, y int) {
	return b*size + r, g
}

package lut

// Grid is a discretized color transform: an N×N×N cube of output colors
// sampled at r/(N-1), g/(N-1), b/(N-1).
//
// Cells are stored green-major, then blue, with red varying fastest:
// cell (r, g, b) lives at index (g*N+b)*N+r. A Grid is immutable once
// built; use Copy for an independent instance.
type Grid struct {
	size  int
	cells []Color
}

// Build discretizes f into a grid with size samples per axis.
// It returns a *SizeError wrapping ErrInvalidSize when size < 2.
//
// Construction evaluates f size³ times. A panic in f is not recovered.
func Build(f ColorFunc, size int) (*Grid, error) {
	if err := ValidateSize(size); err != nil {
		return nil, err
	}

	stride := Stride(size)
	cells := make([]Color, size*size*size)
	i := 0
	for g := 0; g < size; g++ {
		for b := 0; b < size; b++ {
			for r := 0; r < size; r++ {
				cells[i] = f(Color{
					R: float64(r) * stride,
					G: float64(g) * stride,
					B: float64(b) * stride,
				})
				i++
			}
		}
	}

	Logger().Debug("lut: grid built", "size", size, "cells", len(cells))
	return &Grid{size: size, cells: cells}, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(f ColorFunc, size int) *Grid {
	g, err := Build(f, size)
	if err != nil {
		panic(err)
	}
	return g
}

// IdentityGrid builds a grid of the identity mapping. It costs the same as
// any other Build; render.Unbound draws identity without a grid.
func IdentityGrid(size int) (*Grid, error) {
	return Build(Identity.Func(), size)
}

// Size returns the edge length N.
func (g *Grid) Size() int {
	return g.size
}

// Len returns the number of cells, N³.
func (g *Grid) Len() int {
	return len(g.cells)
}

// At returns the cell at integer indices. It panics with an *IndexError
// when any index is outside [0, Size).
func (g *Grid) At(r, gi, b int) Color {
	if !g.inRange(r, gi, b) {
		panic(&IndexError{R: r, G: gi, B: b, Size: g.size})
	}
	return g.cells[g.index(r, gi, b)]
}

// Lookup is the checked form of At.
func (g *Grid) Lookup(r, gi, b int) (Color, error) {
	if !g.inRange(r, gi, b) {
		return Color{}, &IndexError{R: r, G: gi, B: b, Size: g.size}
	}
	return g.cells[g.index(r, gi, b)], nil
}

// Each calls fn for every cell in storage order.
func (g *Grid) Each(fn func(r, gi, b int, c Color)) {
	n := g.size
	i := 0
	for gi := 0; gi < n; gi++ {
		for b := 0; b < n; b++ {
			for r := 0; r < n; r++ {
				fn(r, gi, b, g.cells[i])
				i++
			}
		}
	}
}

// Copy returns a deep copy with its own cell buffer.
func (g *Grid) Copy() *Grid {
	cells := make([]Color, len(g.cells))
	copy(cells, g.cells)
	return &Grid{size: g.size, cells: cells}
}

// Equal reports whether both grids have the same size and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	if g.size != other.size {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Layout returns the atlas layout for this grid.
func (g *Grid) Layout() Layout {
	return Layout{Size: g.size}
}

func (g *Grid) index(r, gi, b int) int {
	return (gi*g.size+b)*g.size + r
}

func (g *Grid) inRange(r, gi, b int) bool {
	n := g.size
	return r >= 0 && r < n && gi >= 0 && gi < n && b >= 0 && b < n
}

package lut

import "math"

// Stride returns the distance between adjacent grid samples, 1/(size-1).
func Stride(size int) float64 {
	return 1 / float64(size-1)
}

// Correction is the linear remap x' = Scale*x + Bias between normalized
// texel-center coordinates within a tile and grid values.
//
// A coordinate at the center of texel i, (i+0.5)/N, maps to i/(N-1), so
// the first and last texels land exactly on 0 and 1 and filtering never
// reaches past a tile edge.
type Correction struct {
	Scale float64 // a = size * stride
	Bias  float64 // b = -stride / 2
}

// CorrectionFor returns the sampling correction for a grid of the given
// size. Sizes below MinSize yield the zero Correction.
func CorrectionFor(size int) Correction {
	if size < MinSize {
		return Correction{}
	}
	stride := Stride(size)
	return Correction{
		Scale: float64(size) * stride,
		Bias:  -stride / 2,
	}
}

// Apply maps a normalized tile coordinate to a grid value.
func (c Correction) Apply(t float64) float64 {
	return t*c.Scale + c.Bias
}

// Invert maps a grid value to its normalized texel-center coordinate
// within a tile.
func (c Correction) Invert(v float64) float64 {
	return (v - c.Bias) / c.Scale
}

// NearestTile returns the tile (blue index) selected for blue value b.
func NearestTile(b float64, size int) int {
	return int(math.Round(clamp01(b) * float64(size-1)))
}

// TexCoord returns the normalized atlas coordinates to sample for color c
// in an atlas packed from a grid of the given size.
//
// Red and green map to texel centers inside a tile, so hardware bilinear
// filtering interpolates them correctly. Blue selects the nearest tile
// only: the default path is bilinear in RG and nearest in B. Consumers
// that want trilinear results must blend two tiles themselves.
func TexCoord(c Color, size int) (u, v float64) {
	corr := CorrectionFor(size)
	c = c.Clamp()
	n := float64(size)
	x0, y0 := Index3Dto2D(0, 0, NearestTile(c.B, size), size)
	u = (float64(x0) + corr.Invert(c.R)*n) / (n * n)
	v = (float64(y0) + corr.Invert(c.G)*n) / n
	return u, v
}

// Filter selects how a Sampler reconstructs values between texels.
type Filter uint8

const (
	// FilterNearest fetches the single texel under the coordinate. It is
	// the filter atlas textures are uploaded with.
	FilterNearest Filter = iota

	// FilterBilinear blends the four surrounding texels, as hardware
	// linear filtering would.
	FilterBilinear
)

// String returns the filter name.
func (f Filter) String() string {
	switch f {
	case FilterNearest:
		return "nearest"
	case FilterBilinear:
		return "bilinear"
	default:
		return "unknown"
	}
}

// Sampler looks colors up in an Atlas on the CPU, mirroring what a GPU
// sampler with clamp-to-edge addressing returns for TexCoord.
type Sampler struct {
	Filter Filter
}

// Sample returns the atlas value for c.
func (s Sampler) Sample(a *Atlas, c Color) Color {
	u, v := TexCoord(c, a.Size())
	return s.SampleUV(a, u, v)
}

// SampleUV returns the atlas value at normalized coordinates (u, v).
func (s Sampler) SampleUV(a *Atlas, u, v float64) Color {
	w, h := float64(a.Width()), float64(a.Height())
	if s.Filter == FilterNearest {
		x := int(math.Floor(u * w))
		y := int(math.Floor(v * h))
		return ColorFromBytes(a.RGBAt(x, y))
	}

	px := u*w - 0.5
	py := v*h - 0.5
	x0 := math.Floor(px)
	y0 := math.Floor(py)
	fx := px - x0
	fy := py - y0
	ix, iy := int(x0), int(y0)

	c00 := ColorFromBytes(a.RGBAt(ix, iy))
	c10 := ColorFromBytes(a.RGBAt(ix+1, iy))
	c01 := ColorFromBytes(a.RGBAt(ix, iy+1))
	c11 := ColorFromBytes(a.RGBAt(ix+1, iy+1))
	return c00.Lerp(c10, fx).Lerp(c01.Lerp(c11, fx), fy)
}

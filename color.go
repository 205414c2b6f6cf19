package lut

import (
	"image/color"
	"math"
)

// Color is an RGB color with each channel normalized to [0, 1].
type Color struct {
	R, G, B float64
}

// ColorFunc maps an input color to an output color. It is the transform a
// Grid discretizes. Implementations must be pure.
type ColorFunc func(Color) Color

// RGB creates a color from normalized components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromBytes creates a color from 8-bit channels.
func ColorFromBytes(r, g, b uint8) Color {
	return Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
}

// FromColor converts a standard color.Color, dropping alpha.
// Premultiplied input is unpremultiplied first.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ColorFromBytes(n.R, n.G, n.B)
}

// Bytes quantizes the color to 8-bit channels using round(c*255),
// clamped to [0, 255].
func (c Color) Bytes() (r, g, b uint8) {
	return quantize(c.R), quantize(c.G), quantize(c.B)
}

// NRGBA returns the color as an opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.Bytes()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Clamp restricts every channel to [0, 1].
func (c Color) Clamp() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

// Lerp linearly interpolates between c and other.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
	}
}

// MaxDiff returns the largest absolute per-channel difference.
func (c Color) MaxDiff(other Color) float64 {
	return math.Max(math.Abs(c.R-other.R), math.Max(math.Abs(c.G-other.G), math.Abs(c.B-other.B)))
}

// quantize converts a normalized channel to a byte.
func quantize(v float64) uint8 {
	x := math.Round(v * 255)
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

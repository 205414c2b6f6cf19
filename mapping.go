package lut

import "sort"

// Affine is a color transform of the form out = M·in + Offset, with M a
// row-major 3×3 matrix. The built-in mappings are all affine, which lets
// the procedural render path evaluate them on the GPU with one uniform
// block.
type Affine struct {
	M      [9]float64
	Offset [3]float64
}

// Apply transforms c.
func (a Affine) Apply(c Color) Color {
	m := &a.M
	return Color{
		R: c.R*m[0] + c.G*m[1] + c.B*m[2] + a.Offset[0],
		G: c.R*m[3] + c.G*m[4] + c.B*m[5] + a.Offset[1],
		B: c.R*m[6] + c.G*m[7] + c.B*m[8] + a.Offset[2],
	}
}

// Func returns the mapping as a ColorFunc.
func (a Affine) Func() ColorFunc {
	return a.Apply
}

// LinearTransform creates an affine mapping without offset. Row i holds
// the weights of the input channels for output channel i.
func LinearTransform(rr, rg, rb, gr, gg, gb, br, bg, bb float64) Affine {
	return Affine{M: [9]float64{
		rr, rg, rb,
		gr, gg, gb,
		br, bg, bb,
	}}
}

// Built-in mappings.
var (
	// Identity leaves colors unchanged.
	Identity = LinearTransform(
		1, 0, 0,
		0, 1, 0,
		0, 0, 1)

	// Invert maps every channel c to 1-c.
	Invert = Affine{
		M: [9]float64{
			-1, 0, 0,
			0, -1, 0,
			0, 0, -1,
		},
		Offset: [3]float64{1, 1, 1},
	}

	// Monochrome converts to Rec. 709 luma.
	Monochrome = LinearTransform(
		.2126, .7152, .0722,
		.2126, .7152, .0722,
		.2126, .7152, .0722)

	// Protanomaly simulates red-weak vision.
	Protanomaly = LinearTransform(
		.81667, .18333, .0,
		.33333, .66667, .0,
		.00000, .12500, .875)

	// Protanopia simulates red-blind vision.
	Protanopia = LinearTransform(
		.56667, .43333, .0,
		.55833, .44167, .0,
		.00000, .24167, .75833)
)

var mappings = map[string]Affine{
	"identity":    Identity,
	"invert":      Invert,
	"monochrome":  Monochrome,
	"protanomaly": Protanomaly,
	"protanopia":  Protanopia,
}

// MappingByName returns a built-in mapping.
func MappingByName(name string) (Affine, bool) {
	m, ok := mappings[name]
	return m, ok
}

// MappingNames returns the names accepted by MappingByName, sorted.
func MappingNames() []string {
	names := make([]string, 0, len(mappings))
	for name := range mappings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/lut/render"
	"github.com/gogpu/naga"
)

// Embedded LUT shader source.
//
//go:embed shaders/lut.wgsl
var lutShaderSource string

// lutUniformSize is the byte size of the LutUniforms block:
// viewport, target_size, params, row_r, row_g, row_b (6 × vec4<f32>).
const lutUniformSize = 96

// ShaderSource returns the WGSL source of the LUT shader.
func ShaderSource() string {
	return lutShaderSource
}

// CompileSPIRV compiles the LUT shader to SPIR-V words with naga, for
// backends that take SPIR-V instead of WGSL.
func CompileSPIRV() ([]uint32, error) {
	spirvBytes, err := naga.Compile(lutShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile lut shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// makeLUTUniform packs the uniform block for one draw.
func makeLUTUniform(vp image.Rectangle, targetW, targetH int, p render.ProceduralParams) []byte {
	m := p.Mapping.M
	off := p.Mapping.Offset
	values := [lutUniformSize / 4]float64{
		float64(vp.Min.X), float64(vp.Min.Y), float64(vp.Dx()), float64(vp.Dy()),
		float64(targetW), float64(targetH), 0, 0,
		p.Scale, p.Bias, float64(p.Size), p.Stride,
		m[0], m[1], m[2], off[0],
		m[3], m[4], m[5], off[1],
		m[6], m[7], m[8], off[2],
	}

	buf := make([]byte, lutUniformSize)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	return buf
}

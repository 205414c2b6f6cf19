// Package lut builds 3D color look-up tables for real-time color grading.
//
// # Overview
//
// A color transform (any func(Color) Color) is discretized into an
// N×N×N Grid, packed into a 2D Atlas of N² × N pixels for upload to a
// 2D texture, and sampled back with texel-center correction so that GPU
// filtering lands on the intended cells.
//
//	g, err := lut.Build(lut.Invert.Func(), 16)
//	if err != nil {
//	    return err
//	}
//	atlas := lut.NewAtlas(g)
//	c := lut.Sampler{}.Sample(atlas, lut.RGB(0.2, 0.4, 0.6))
//
// # Atlas Layout
//
// Tile t (the blue index) occupies columns [t*N, (t+1)*N) of the atlas.
// Inside a tile x is the red index and y the green index. Index3Dto2D is
// the only place this mapping is written down.
//
// # Sampling
//
// CorrectionFor returns the scale a = N/(N-1) and bias b = -1/(2(N-1))
// that relate texel centers to grid values. TexCoord uses it to turn a
// color into atlas coordinates. Sampling is bilinear in red and green and
// nearest in blue; there is no built-in blending across tiles.
//
// # Rendering
//
// See the render package for the switch between procedural and
// texture-sampled rendering, and the gpu package for the wgpu backend.
package lut

// Version is the current version of the library.
const Version = "0.1.0"

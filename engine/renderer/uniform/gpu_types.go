// Package uniform holds the GPU-side uniform structs owned by shader variants, each paired
// with its canonical WGSL definition.
package uniform

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vector/common"
)

// GPUColorUniformSource is the WGSL definition of the ColorUniform struct.
// Matches GPUColorUniform layout exactly (16 bytes).
//
//go:embed assets/color_uniform.wgsl
var GPUColorUniformSource string

// GPUColorUniform is the fill color shared by every object drawn with a uniformly colored variant.
// Size: 16 bytes.
type GPUColorUniform struct {
	Color [4]float32 // offset 0: RGBA fill color (16 bytes)
}

// NewColorUniform packs a Color into its uniform representation.
func NewColorUniform(c common.Color) GPUColorUniform {
	return GPUColorUniform{Color: c.Array()}
}

// Size returns the size of the GPUColorUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUColorUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUColorUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUColorUniform) Marshal() []byte {
	buf := make([]byte, 16)
	for i, f := range g.Color {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	return buf
}

// GPUBlurParamsSource is the WGSL definition of the BlurParams struct.
// Matches GPUBlurParams layout exactly (32 bytes).
//
//go:embed assets/blur_params.wgsl
var GPUBlurParamsSource string

// GPUBlurParams configures the blur-behind variant: the tint composited over the blurred
// backdrop, the size of one backdrop texel in UV space, and the kernel radius in texels.
// Size: 32 bytes.
type GPUBlurParams struct {
	Tint   [4]float32 // offset  0: RGBA tint (16 bytes)
	Texel  [2]float32 // offset 16: 1/width, 1/height of the backdrop (8 bytes)
	Radius float32    // offset 24: kernel radius in texels (4 bytes)
	_      float32    // offset 28: padding to 16-byte alignment (4 bytes)
}

// Size returns the size of the GPUBlurParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUBlurParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBlurParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUBlurParams) Marshal() []byte {
	buf := make([]byte, 32)
	for i, f := range g.Tint {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Texel[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Texel[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Radius))
	return buf
}

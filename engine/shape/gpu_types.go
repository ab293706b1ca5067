package shape

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vector/common"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for position-only pipelines.
// Matches GPUVertex layout exactly (8 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is a position-only vertex in clip space. Used by uniformly colored and blur-behind classes.
// Size: 8 bytes.
type GPUVertex struct {
	Position [2]float32 // offset 0: clip-space position (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 8-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 8)
	putFloats(buf, g.Position[:])
	return buf
}

// GPUColorVertexSource is the canonical WGSL definition of the VertexInput struct for per-vertex colored pipelines.
// Matches GPUColorVertex layout exactly (24 bytes).
//
//go:embed assets/color_vertex.wgsl
var GPUColorVertexSource string

// GPUColorVertex is a clip-space position with a per-vertex RGBA color.
// Size: 24 bytes.
type GPUColorVertex struct {
	Position [2]float32 // offset 0: clip-space position (8 bytes)
	Color    [4]float32 // offset 8: RGBA color (16 bytes)
}

// Size returns the size of the GPUColorVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUColorVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUColorVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (g *GPUColorVertex) Marshal() []byte {
	buf := make([]byte, 24)
	putFloats(buf[0:8], g.Position[:])
	putFloats(buf[8:24], g.Color[:])
	return buf
}

// GPUTexturedVertexSource is the canonical WGSL definition of the VertexInput struct for textured pipelines.
// Matches GPUTexturedVertex layout exactly (16 bytes).
//
//go:embed assets/textured_vertex.wgsl
var GPUTexturedVertexSource string

// GPUTexturedVertex is a clip-space position with a texture coordinate.
// Size: 16 bytes.
type GPUTexturedVertex struct {
	Position [2]float32 // offset 0: clip-space position (8 bytes)
	UV       [2]float32 // offset 8: texture coordinate (8 bytes)
}

// Size returns the size of the GPUTexturedVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUTexturedVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTexturedVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload.
func (g *GPUTexturedVertex) Marshal() []byte {
	buf := make([]byte, 16)
	putFloats(buf[0:8], g.Position[:])
	putFloats(buf[8:16], g.UV[:])
	return buf
}

func putFloats(buf []byte, v []float32) {
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
}

// EncodeVertices packs positions into a GPUVertex buffer.
//
// Parameters:
//   - positions: clip-space positions
//
// Returns:
//   - []byte: len(positions)*8 bytes
func EncodeVertices(positions [][2]float32) []byte {
	out := make([]byte, 0, len(positions)*8)
	for _, p := range positions {
		v := GPUVertex{Position: p}
		out = append(out, v.Marshal()...)
	}
	return out
}

// EncodeColorVertices packs positions and colors into a GPUColorVertex buffer.
// When colors is shorter than positions the last color is repeated; an empty slice yields white.
//
// Parameters:
//   - positions: clip-space positions
//   - colors: per-vertex colors
//
// Returns:
//   - []byte: len(positions)*24 bytes
func EncodeColorVertices(positions [][2]float32, colors []common.Color) []byte {
	out := make([]byte, 0, len(positions)*24)
	c := common.White
	for i, p := range positions {
		if i < len(colors) {
			c = colors[i]
		}
		v := GPUColorVertex{Position: p, Color: c.Array()}
		out = append(out, v.Marshal()...)
	}
	return out
}

// EncodeTexturedVertices packs positions and texture coordinates into a GPUTexturedVertex buffer.
// Missing coordinates are left at (0, 0).
//
// Parameters:
//   - positions: clip-space positions
//   - uvs: per-vertex texture coordinates
//
// Returns:
//   - []byte: len(positions)*16 bytes
func EncodeTexturedVertices(positions [][2]float32, uvs [][2]float32) []byte {
	out := make([]byte, 0, len(positions)*16)
	for i, p := range positions {
		v := GPUTexturedVertex{Position: p}
		if i < len(uvs) {
			v.UV = uvs[i]
		}
		out = append(out, v.Marshal()...)
	}
	return out
}

// Package variant compiles the closed set of shader variants an object class may be drawn
// with. A variant is an immutable GPU pipeline, an optional bind group and an optional
// uniform, compiled once per (kind, target format).
package variant

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vector/engine/shape"
)

// Kind tags a shader variant. The set is closed: adding a kind means adding a constant here
// and a branch in recipeFor.
type Kind int

const (
	// KindUniformColor fills every object with one color held in a uniform.
	KindUniformColor Kind = iota

	// KindVertexColor interpolates a color carried by each vertex.
	KindVertexColor

	// KindBlurBehind samples and blurs a backdrop texture behind the object, then applies a tint.
	KindBlurBehind

	// KindTexture maps an image onto the object using per-vertex texture coordinates.
	KindTexture

	kindCount
)

var kindNames = [kindCount]string{
	KindUniformColor: "uniform_color",
	KindVertexColor:  "vertex_color",
	KindBlurBehind:   "blur_behind",
	KindTexture:      "texture",
}

// Kinds returns every variant kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the kind whose String form is s.
//
// Parameters:
//   - s: a name such as "uniform_color"
//
// Returns:
//   - Kind: the parsed kind
//   - error: error if s names no kind
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown variant kind %q", s)
}

// VertexStride returns the size in bytes of one vertex in the layout consumed by this kind.
// Returns 0 for an invalid kind.
func (k Kind) VertexStride() uint64 {
	switch k {
	case KindUniformColor, KindBlurBehind:
		return uint64((&shape.GPUVertex{}).Size())
	case KindVertexColor:
		return uint64((&shape.GPUColorVertex{}).Size())
	case KindTexture:
		return uint64((&shape.GPUTexturedVertex{}).Size())
	}
	return 0
}

// RequiresBlending reports whether the kind composites with alpha and therefore needs a
// blendable target format.
func (k Kind) RequiresBlending() bool {
	return k == KindBlurBehind || k == KindTexture
}

// HasUniform reports whether variants of this kind carry an updatable uniform.
func (k Kind) HasUniform() bool {
	return k == KindUniformColor || k == KindBlurBehind
}

package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// wgslTypeLayout holds the byte size and alignment of a WGSL type, used to compute MinBindingSize.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is a single struct member
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block
type parsedStruct struct {
	name   string
	fields []parsedField
}

// isVertexInput reports whether the struct is a pure vertex input: at least one @location
// member and no @builtin members. Vertex outputs mix @location with @builtin(position).
func (ps parsedStruct) isVertexInput() bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		if f.location >= 0 {
			hasLocation = true
		}
	}
	return hasLocation
}

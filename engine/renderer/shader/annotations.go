// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @oxy: that drive struct injection, bind group declaration, and resource role
// registration for shader variants.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition at the
	// annotation site. It is consumed entirely during pre-processing.
	//
	// Syntax: //@oxy:include <struct_type>
	//
	// Example: //@oxy:include color_vertex
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration for a
	// registered struct and records the declaration so the variant can attach its uniform buffer.
	//
	// Syntax: //@oxy:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@oxy:group 0 0 storage_uniform fill color_uniform
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider records the role of a hand-written binding (textures, samplers)
	// without generating any WGSL output.
	//
	// Syntax: //@oxy:provider <group> <binding> <provider_identity> <binding_role>
	//
	// Example: //@oxy:provider 0 1 variant texture
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @oxy: annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key
	//   - group:    [0] = address space, [1] = var name, [2] = struct type key
	//   - provider: [0] = provider identity, [1] = binding role
	Args []AnnotationArg

	// Line is the 1-based source line, used for error reporting.
	Line int

	// Group is the @group index for group and provider annotations. Nil for include annotations.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil for include annotations.
	Binding *int
}

// Role returns the binding role of a provider annotation, or the struct type of a group annotation.
func (a Annotation) Role() AnnotationArg {
	switch a.Type {
	case AnnotationTypeBindingGroup:
		return a.Args[2]
	case AnnotationTypeProvider:
		return a.Args[1]
	}
	return ""
}

// AnnotationArg is a typed string used as an argument in annotations.
type AnnotationArg string

// Struct type arguments. Each maps to a Go GPU type with an embedded .wgsl asset file.
const (
	// AnnotationArgVertex identifies the position-only VertexInput struct.
	AnnotationArgVertex AnnotationArg = "vertex"

	// AnnotationArgColorVertex identifies the VertexInput struct with a per-vertex color.
	AnnotationArgColorVertex AnnotationArg = "color_vertex"

	// AnnotationArgTexturedVertex identifies the VertexInput struct with a texture coordinate.
	AnnotationArgTexturedVertex AnnotationArg = "textured_vertex"

	// AnnotationArgColorUniform identifies the ColorUniform struct.
	AnnotationArgColorUniform AnnotationArg = "color_uniform"

	// AnnotationArgBlurParams identifies the BlurParams struct.
	AnnotationArgBlurParams AnnotationArg = "blur_params"
)

// Address space arguments, mapped to WGSL var<> declarations.
const (
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead    AnnotationArg = "storage_read"
)

// AnnotationArgVariant is the only provider identity: the bind group owned by a shader variant.
const AnnotationArgVariant AnnotationArg = "variant"

// Binding roles for provider annotations.
const (
	// AnnotationArgTexture identifies the image sampled by a variant.
	AnnotationArgTexture AnnotationArg = "texture"

	// AnnotationArgSampler identifies the sampler paired with AnnotationArgTexture.
	AnnotationArgSampler AnnotationArg = "sampler"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgVertex,
	AnnotationArgColorVertex,
	AnnotationArgTexturedVertex,
	AnnotationArgColorUniform,
	AnnotationArgBlurParams,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgTexture,
	AnnotationArgSampler,
}

// parseAnnotation parses one source line. Lines without the prefix return (nil, nil).
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{Type: annotationTypeInclude, Args: []AnnotationArg{AnnotationArg(args[1])}, Line: lineNum}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @oxy group annotation requires five arguments (group, binding, address space, var name, struct type)", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @oxy group annotation", lineNum, args[3])
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[5])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @oxy group annotation", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil

	case AnnotationTypeProvider:
		if len(args) != 5 {
			return nil, fmt.Errorf("line %d: @oxy provider annotation requires four arguments (group, binding, provider identity, binding role)", lineNum)
		}
		group, binding, err := parseGroupBinding(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if AnnotationArg(args[3]) != AnnotationArgVariant {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @oxy provider annotation", lineNum, args[3])
		}
		if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
			return nil, fmt.Errorf("line %d: unknown binding role %q in @oxy provider annotation", lineNum, args[4])
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4])},
			Line:    lineNum,
			Group:   &group,
			Binding: &binding,
		}, nil
	}
	return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
}

func parseGroupBinding(g, b string, lineNum int) (int, int, error) {
	group, err := strconv.Atoi(g)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, g, err)
	}
	binding, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, b, err)
	}
	return group, binding, nil
}

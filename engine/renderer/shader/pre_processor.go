// pre_processor.go implements the Oxy WGSL shader pre-processor. It replaces @oxy:
// annotations with injected struct sources or generated declarations and collects the
// declarations a variant uses to wire its bind group.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/uniform"
	"github.com/Carmen-Shannon/oxy-vector/engine/shape"
)

// registryEntry pairs an embedded WGSL struct source with its WGSL type name.
type registryEntry struct {
	Source string
	Type   string
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string
	declarations         []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source.
type PreProcessor interface {
	// Process replaces include annotations with struct sources and group annotations with
	// @group/@binding declarations. Provider annotations produce no output. The declarations
	// list is reset on every call.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if any annotation is malformed
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations from the last Process call, in source order.
	//
	// Returns:
	//   - []Annotation: the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with every engine GPU struct registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgVertex:         {Source: shape.GPUVertexSource, Type: "VertexInput"},
			AnnotationArgColorVertex:    {Source: shape.GPUColorVertexSource, Type: "VertexInput"},
			AnnotationArgTexturedVertex: {Source: shape.GPUTexturedVertexSource, Type: "VertexInput"},
			AnnotationArgColorUniform:   {Source: uniform.GPUColorUniformSource, Type: "ColorUniform"},
			AnnotationArgBlurParams:     {Source: uniform.GPUBlurParamsSource, Type: "BlurParams"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform: "var<uniform>",
			annotationArgStorageTypeRead:    "var<storage, read>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			out = append(out, p.structRegistry[a.Args[0]].Source)
		case AnnotationTypeBindingGroup:
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				*a.Group, *a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], p.structRegistry[a.Args[2]].Type))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}

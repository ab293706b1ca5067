package variant

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoUniform is returned by Update and the typed setters on a variant without a matching uniform.
	ErrNoUniform = errors.New("variant has no such uniform")

	// ErrUniformSize is returned by Update when the value does not match the uniform's size.
	ErrUniformSize = errors.New("uniform value has the wrong size")
)

// Variant is a compiled shader variant. Its pipeline and bind group never change after
// compilation; only the uniform contents can be updated.
type Variant interface {
	// Kind returns the tag this variant was compiled for.
	Kind() Kind

	// Format returns the color target format the pipeline was compiled against.
	Format() wgpu.TextureFormat

	// Pipeline returns the pipeline configuration.
	Pipeline() pipeline.Pipeline

	// RenderPipeline returns the compiled GPU pipeline.
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroup returns the variant's group 0 bind group, or nil when it has none.
	BindGroup() *wgpu.BindGroup

	// HasUniform reports whether the variant owns an updatable uniform.
	HasUniform() bool

	// Update stages a raw uniform value. The value becomes visible to the GPU on the next
	// Flush; staging again before that replaces it.
	//
	// Parameters:
	//   - data: the encoded uniform, exactly the uniform's size
	//
	// Returns:
	//   - error: ErrNoUniform or ErrUniformSize
	Update(data []byte) error

	// SetColor stages a new fill color on a uniformly colored variant.
	//
	// Parameters:
	//   - c: the fill color
	//
	// Returns:
	//   - error: ErrNoUniform for any other kind
	SetColor(c common.Color) error

	// SetBlur stages new blur parameters on a blur-behind variant.
	//
	// Parameters:
	//   - radius: kernel radius in backdrop texels
	//   - tint: color mixed over the blurred backdrop by its alpha
	//
	// Returns:
	//   - error: ErrNoUniform for any other kind
	SetBlur(radius float32, tint common.Color) error

	// Pending reports whether a staged value is waiting to be flushed.
	Pending() bool

	// Value returns a copy of the most recently staged uniform value, or nil if Update was
	// never called. The value is kept after Flush.
	Value() []byte

	// Flush returns the write for the staged value, if any, and clears it.
	Flush() []bind_group_provider.BufferWrite
}

// variant is the implementation of the Variant interface.
type variant struct {
	kind     Kind
	format   wgpu.TextureFormat
	pipeline pipeline.Pipeline

	// provider is nil for kinds without a bind group.
	provider bind_group_provider.BindGroupProvider

	// uniformBinding is the group 0 binding of the uniform buffer, or -1.
	uniformBinding int
	uniformSize    int

	// staged holds the most recently staged value; pending marks it unflushed.
	staged  []byte
	pending bool

	// backdropTexel is 1/width, 1/height of the blur-behind backdrop.
	backdropTexel [2]float32
}

var _ Variant = &variant{}

func (v *variant) Kind() Kind {
	return v.kind
}

func (v *variant) Format() wgpu.TextureFormat {
	return v.format
}

func (v *variant) Pipeline() pipeline.Pipeline {
	return v.pipeline
}

func (v *variant) RenderPipeline() *wgpu.RenderPipeline {
	return v.pipeline.RenderPipeline()
}

func (v *variant) BindGroup() *wgpu.BindGroup {
	if v.provider == nil {
		return nil
	}
	return v.provider.BindGroup()
}

func (v *variant) HasUniform() bool {
	return v.uniformBinding >= 0
}

func (v *variant) Update(data []byte) error {
	if !v.HasUniform() {
		return fmt.Errorf("%s: %w", v.kind, ErrNoUniform)
	}
	if len(data) != v.uniformSize {
		return fmt.Errorf("%s: %w: got %d bytes, want %d", v.kind, ErrUniformSize, len(data), v.uniformSize)
	}
	v.staged = append(v.staged[:0], data...)
	v.pending = true
	return nil
}

func (v *variant) SetColor(c common.Color) error {
	if v.kind != KindUniformColor {
		return fmt.Errorf("%s: %w: color", v.kind, ErrNoUniform)
	}
	u := uniform.NewColorUniform(c)
	return v.Update(u.Marshal())
}

func (v *variant) SetBlur(radius float32, tint common.Color) error {
	if v.kind != KindBlurBehind {
		return fmt.Errorf("%s: %w: blur", v.kind, ErrNoUniform)
	}
	return v.Update(v.blurParams(radius, tint))
}

func (v *variant) blurParams(radius float32, tint common.Color) []byte {
	p := uniform.GPUBlurParams{
		Tint:   tint.Array(),
		Texel:  v.backdropTexel,
		Radius: max(radius, 0),
	}
	return p.Marshal()
}

func (v *variant) Pending() bool {
	return v.pending
}

func (v *variant) Value() []byte {
	if v.staged == nil {
		return nil
	}
	return append([]byte(nil), v.staged...)
}

func (v *variant) Flush() []bind_group_provider.BufferWrite {
	if !v.pending {
		return nil
	}
	v.pending = false
	data := append([]byte(nil), v.staged...)
	return []bind_group_provider.BufferWrite{{
		Provider: v.provider,
		Binding:  v.uniformBinding,
		Data:     data,
	}}
}

// release frees the variant's GPU objects through c.
func (v *variant) release(c Compiler) {
	if v.provider != nil {
		c.ReleaseProvider(v.provider)
		v.provider = nil
	}
	if v.pipeline != nil && v.pipeline.RenderPipeline() != nil {
		c.ReleasePipeline(v.pipeline)
	}
	v.pending = false
}

package variant

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/uniform"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	//go:embed shaders/uniform_color.wgsl
	uniformColorSource string

	//go:embed shaders/vertex_color.wgsl
	vertexColorSource string

	//go:embed shaders/blur_behind.wgsl
	blurBehindSource string

	//go:embed shaders/texture.wgsl
	textureSource string
)

// recipe is everything that differs between kinds when compiling.
type recipe struct {
	source  string
	blend   bool
	texture common.TextureStagingData
	sampler common.SamplerStagingData
	// initial is the uniform value written at compile time, nil for kinds without a uniform.
	initial func(v *variant) []byte
}

// recipeFor is the one switch over Kind in the compile path.
func recipeFor(kind Kind, cfg *config) (recipe, error) {
	switch kind {
	case KindUniformColor:
		return recipe{
			source: uniformColorSource,
			initial: func(*variant) []byte {
				u := uniform.NewColorUniform(cfg.color)
				return u.Marshal()
			},
		}, nil
	case KindVertexColor:
		return recipe{source: vertexColorSource}, nil
	case KindBlurBehind:
		return recipe{
			source:  blurBehindSource,
			blend:   true,
			texture: cfg.backdrop,
			sampler: common.SamplerStagingData{
				AddressModeU: wgpu.AddressModeClampToEdge,
				AddressModeV: wgpu.AddressModeClampToEdge,
				AddressModeW: wgpu.AddressModeClampToEdge,
			},
			initial: func(v *variant) []byte {
				return v.blurParams(cfg.blurRadius, cfg.blurTint)
			},
		}, nil
	case KindTexture:
		return recipe{
			source:  textureSource,
			blend:   true,
			texture: cfg.texture,
			sampler: cfg.sampler,
		}, nil
	}
	return recipe{}, ErrInvalidKind
}

// compile realizes one variant. On failure every GPU object created so far is released.
func compile(c Compiler, kind Kind, format wgpu.TextureFormat, cfg *config) (*variant, error) {
	r, err := recipeFor(kind, cfg)
	if err != nil {
		return nil, err
	}
	if err := SupportsFormat(kind, format); err != nil {
		return nil, err
	}
	if r.texture.Pixels != nil && !r.texture.Valid() {
		return nil, fmt.Errorf("texture data does not match %dx%d RGBA", r.texture.Width, r.texture.Height)
	}

	key := "variant:" + kind.String()
	vs, err := shader.NewShader(key+":vs", shader.ShaderTypeVertex, r.source)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShader(key+":fs", shader.ShaderTypeFragment, r.source)
	if err != nil {
		return nil, err
	}

	v := &variant{
		kind:           kind,
		format:         format,
		uniformBinding: -1,
		pipeline: pipeline.NewPipeline(key, format,
			pipeline.WithVertexShader(vs),
			pipeline.WithFragmentShader(fs),
			pipeline.WithBlendEnabled(r.blend),
		),
	}
	if err := c.RegisterRenderPipeline(v.pipeline); err != nil {
		return nil, fmt.Errorf("register pipeline: %w", err)
	}

	if err := v.initBindGroup(c, vs, fs, r); err != nil {
		v.release(c)
		return nil, err
	}

	if r.initial != nil && v.HasUniform() {
		if initial := r.initial(v); len(initial) == v.uniformSize {
			c.WriteBuffers([]bind_group_provider.BufferWrite{{Provider: v.provider, Binding: v.uniformBinding, Data: initial}})
		}
	}
	return v, nil
}

// initBindGroup creates group 0 from the declarations in the shader source. Group declarations
// become the uniform buffer; provider declarations are filled by role.
func (v *variant) initBindGroup(c Compiler, vs, fs shader.Shader, r recipe) error {
	merged := shader.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	desc, ok := merged[0]
	if !ok || len(desc.Entries) == 0 {
		return nil
	}

	provider := bind_group_provider.NewBindGroupProvider(v.pipeline.PipelineKey())
	v.provider = provider

	for _, decl := range fs.Declarations() {
		if decl.Group == nil || *decl.Group != 0 {
			continue
		}
		binding := *decl.Binding
		switch decl.Role() {
		case shader.AnnotationArgTexture:
			tex := r.texture
			if tex.Pixels == nil {
				tex = common.SolidTexture(common.White)
			}
			if err := c.InitTextureView(provider, binding, tex); err != nil {
				return fmt.Errorf("texture binding %d: %w", binding, err)
			}
			v.backdropTexel = [2]float32{1 / float32(tex.Width), 1 / float32(tex.Height)}
		case shader.AnnotationArgSampler:
			if err := c.InitSampler(provider, binding, r.sampler); err != nil {
				return fmt.Errorf("sampler binding %d: %w", binding, err)
			}
		case shader.AnnotationArgColorUniform, shader.AnnotationArgBlurParams:
			v.uniformBinding = binding
			for _, e := range desc.Entries {
				if int(e.Binding) == binding {
					v.uniformSize = int(e.Buffer.MinBindingSize)
				}
			}
		}
	}

	if err := c.InitBindGroup(provider, desc); err != nil {
		return fmt.Errorf("bind group: %w", err)
	}
	return nil
}

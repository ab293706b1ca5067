package variant

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeCompiler records calls and hands out sentinel GPU objects.
type fakeCompiler struct {
	pipelines  []pipeline.Pipeline
	bindGroups int
	textures   map[int]common.TextureStagingData
	samplers   map[int]common.SamplerStagingData
	writes     []bind_group_provider.BufferWrite

	releasedPipelines int
	releasedProviders int

	failPipeline  error
	failBindGroup error
}

var _ Compiler = &fakeCompiler{}

func newFakeCompiler() *fakeCompiler {
	return &fakeCompiler{
		textures: make(map[int]common.TextureStagingData),
		samplers: make(map[int]common.SamplerStagingData),
	}
}

func (f *fakeCompiler) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if f.failPipeline != nil {
		return f.failPipeline
	}
	f.pipelines = append(f.pipelines, p)
	p.SetRenderPipeline(new(wgpu.RenderPipeline))
	return nil
}

func (f *fakeCompiler) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if f.failBindGroup != nil {
		return f.failBindGroup
	}
	for _, e := range descriptor.Entries {
		b := int(e.Binding)
		switch {
		case e.Buffer.Type != wgpu.BufferBindingTypeUndefined:
			if provider.Buffer(b) == nil {
				provider.SetBuffer(b, new(wgpu.Buffer))
			}
		case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			if provider.Sampler(b) == nil {
				return errors.New("missing sampler")
			}
		default:
			if provider.TextureView(b) == nil {
				return errors.New("missing texture view")
			}
		}
	}
	f.bindGroups++
	provider.SetBindGroupLayout(new(wgpu.BindGroupLayout))
	provider.SetBindGroup(new(wgpu.BindGroup))
	return nil
}

func (f *fakeCompiler) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error {
	f.textures[binding] = data
	provider.SetTextureView(binding, new(wgpu.TextureView))
	return nil
}

func (f *fakeCompiler) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error {
	f.samplers[binding] = data
	provider.SetSampler(binding, new(wgpu.Sampler))
	return nil
}

func (f *fakeCompiler) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeCompiler) ReleasePipeline(p pipeline.Pipeline) {
	f.releasedPipelines++
	p.SetRenderPipeline(nil)
}

func (f *fakeCompiler) ReleaseProvider(provider bind_group_provider.BindGroupProvider) {
	f.releasedProviders++
}

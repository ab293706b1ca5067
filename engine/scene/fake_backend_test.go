package scene

import (
	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/output"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeBackend satisfies output.Backend with sentinel objects and keeps the uploaded data.
type fakeBackend struct {
	empty    *wgpu.BindGroup
	vertices map[*wgpu.Buffer][]byte
	textures []common.TextureStagingData
	samplers []common.SamplerStagingData
	writes   []bind_group_provider.BufferWrite
	released int

	failBuffersAfter int
	buffersCreated   int
}

var _ output.Backend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		empty:            new(wgpu.BindGroup),
		vertices:         make(map[*wgpu.Buffer][]byte),
		failBuffersAfter: -1,
	}
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	p.SetRenderPipeline(new(wgpu.RenderPipeline))
	return nil
}

func (f *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	for _, e := range descriptor.Entries {
		if e.Buffer.Type != wgpu.BufferBindingTypeUndefined && provider.Buffer(int(e.Binding)) == nil {
			provider.SetBuffer(int(e.Binding), new(wgpu.Buffer))
		}
	}
	provider.SetBindGroup(new(wgpu.BindGroup))
	return nil
}

func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error {
	f.textures = append(f.textures, data)
	provider.SetTextureView(binding, new(wgpu.TextureView))
	return nil
}

func (f *fakeBackend) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error {
	f.samplers = append(f.samplers, data)
	provider.SetSampler(binding, new(wgpu.Sampler))
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeBackend) ReleasePipeline(p pipeline.Pipeline) {
	p.SetRenderPipeline(nil)
}

func (f *fakeBackend) ReleaseProvider(bind_group_provider.BindGroupProvider) {}

func (f *fakeBackend) InitMeshBuffers(_ string, vertexData, indexData []byte) (*wgpu.Buffer, *wgpu.Buffer, error) {
	if f.failBuffersAfter >= 0 && f.buffersCreated >= f.failBuffersAfter {
		return nil, nil, errOutOfMemory
	}
	f.buffersCreated++
	var vb, ib *wgpu.Buffer
	if len(vertexData) > 0 {
		vb = new(wgpu.Buffer)
		f.vertices[vb] = append([]byte(nil), vertexData...)
	}
	if len(indexData) > 0 {
		ib = new(wgpu.Buffer)
	}
	return vb, ib, nil
}

func (f *fakeBackend) ReleaseBuffer(*wgpu.Buffer) {
	f.released++
}

func (f *fakeBackend) EmptyBindGroup() *wgpu.BindGroup {
	return f.empty
}

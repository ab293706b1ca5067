package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// fakeBackend hands out sentinel GPU objects and records what the registry asked for.
type fakeBackend struct {
	empty *wgpu.BindGroup

	pipelines []pipeline.Pipeline
	writes    []bind_group_provider.BufferWrite
	buffers   map[*wgpu.Buffer][]byte
	released  map[*wgpu.Buffer]bool

	releasedPipelines int
	releasedProviders int

	failBuffers error
	// failAfter fails every InitMeshBuffers call once this many have succeeded; negative disables it.
	failAfter int
	uploads   int
}

var _ Backend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		empty:     new(wgpu.BindGroup),
		buffers:   make(map[*wgpu.Buffer][]byte),
		released:  make(map[*wgpu.Buffer]bool),
		failAfter: -1,
	}
}

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.pipelines = append(f.pipelines, p)
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

func (f *fakeBackend) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, _ common.TextureStagingData) error {
	provider.SetTextureView(binding, new(wgpu.TextureView))
	return nil
}

func (f *fakeBackend) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, _ common.SamplerStagingData) error {
	provider.SetSampler(binding, new(wgpu.Sampler))
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func (f *fakeBackend) ReleasePipeline(p pipeline.Pipeline) {
	f.releasedPipelines++
	p.SetRenderPipeline(nil)
}

func (f *fakeBackend) ReleaseProvider(bind_group_provider.BindGroupProvider) {
	f.releasedProviders++
}

func (f *fakeBackend) InitMeshBuffers(label string, vertexData, indexData []byte) (*wgpu.Buffer, *wgpu.Buffer, error) {
	if f.failBuffers != nil {
		return nil, nil, f.failBuffers
	}
	if f.failAfter >= 0 && f.uploads >= f.failAfter {
		return nil, nil, errBoom
	}
	f.uploads++
	var vb, ib *wgpu.Buffer
	if len(vertexData) > 0 {
		vb = new(wgpu.Buffer)
		f.buffers[vb] = append([]byte(nil), vertexData...)
	}
	if len(indexData) > 0 {
		ib = new(wgpu.Buffer)
		f.buffers[ib] = append([]byte(nil), indexData...)
	}
	return vb, ib, nil
}

func (f *fakeBackend) ReleaseBuffer(buf *wgpu.Buffer) {
	f.released[buf] = true
}

func (f *fakeBackend) EmptyBindGroup() *wgpu.BindGroup {
	return f.empty
}

func (f *fakeBackend) live() int {
	n := 0
	for b := range f.buffers {
		if !f.released[b] {
			n++
		}
	}
	return n
}

// recordingPass records every command as a short string, with the objects kept alongside.
type recordingPass struct {
	ops        []string
	pipelines  []*wgpu.RenderPipeline
	bindGroups []*wgpu.BindGroup
	vertices   []*wgpu.Buffer
	indices    []*wgpu.Buffer
	draws      []uint32
}

var _ RenderPass = &recordingPass{}

func (p *recordingPass) SetPipeline(pl *wgpu.RenderPipeline) {
	p.ops = append(p.ops, "pipeline")
	p.pipelines = append(p.pipelines, pl)
}

func (p *recordingPass) SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, _ []uint32) {
	p.ops = append(p.ops, fmt.Sprintf("group%d", groupIndex))
	p.bindGroups = append(p.bindGroups, group)
}

func (p *recordingPass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, _, _ uint64) {
	p.ops = append(p.ops, fmt.Sprintf("vertex%d", slot))
	p.vertices = append(p.vertices, buffer)
}

func (p *recordingPass) SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, _, _ uint64) {
	if format != wgpu.IndexFormatUint32 {
		p.ops = append(p.ops, "index-bad-format")
		return
	}
	p.ops = append(p.ops, "index")
	p.indices = append(p.indices, buffer)
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.ops = append(p.ops, fmt.Sprintf("draw%d", indexCount))
	if instanceCount != 1 || firstIndex != 0 || baseVertex != 0 || firstInstance != 0 {
		p.ops = append(p.ops, "draw-bad-args")
	}
	p.draws = append(p.draws, indexCount)
}

func (p *recordingPass) String() string {
	return strings.Join(p.ops, " ")
}

// decodeIndices reads back little-endian uint32 index data.
func decodeIndices(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out
}

var errBoom = errors.New("out of memory")

package output

import (
	"runtime"
	"testing"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/variant"
	"github.com/Carmen-Shannon/oxy-vector/engine/shape"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFormat = wgpu.TextureFormatBGRA8UnormSrgb

func quad() shape.Mesh {
	return shape.Rect(-0.5, -0.5, 1, 1)
}

func addQuadClass(t *testing.T, r Registry, id string, kind variant.Kind) ClassHandle {
	t.Helper()
	m := quad()
	var data []byte
	switch kind {
	case variant.KindVertexColor:
		data = shape.EncodeColorVertices(m.Positions, []common.Color{common.White})
	case variant.KindTexture:
		data = shape.EncodeTexturedVertices(m.Positions, m.UVs())
	default:
		data = shape.EncodeVertices(m.Positions)
	}
	h, err := r.AddClass(id, kind, data)
	require.NoError(t, err)
	return h
}

func addQuadInstance(t *testing.T, r Registry, h ClassHandle) InstanceHandle {
	t.Helper()
	inst, err := r.AddInstance(h, quad().Indices)
	require.NoError(t, err)
	return inst
}

func TestQuadDrawsSixIndices(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat, WithWorkers(2))

	h := addQuadClass(t, r, "quad", variant.KindUniformColor)
	inst := addQuadInstance(t, r, h)

	info, ok := r.Class(h)
	require.True(t, ok)
	assert.Equal(t, uint32(4), info.VertexCount)
	assert.Equal(t, []InstanceHandle{inst}, info.Instances)
	assert.Equal(t, 6, info.IndexCount)

	pass := &recordingPass{}
	stats := r.Dispatch(pass)
	assert.Equal(t, "pipeline group0 vertex0 index draw6", pass.String())
	assert.Equal(t, DispatchStats{
		Classes: 1, PipelineBinds: 1, BindGroupBinds: 1, VertexBufferBinds: 1,
		IndexBufferBinds: 1, Draws: 1, Indices: 6,
	}, stats)

	v, ok := r.Variant(variant.KindUniformColor)
	require.True(t, ok)
	assert.Same(t, v.RenderPipeline(), pass.pipelines[0])
	assert.Same(t, v.BindGroup(), pass.bindGroups[0])
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, decodeIndices(b.buffers[pass.indices[0]]))
}

func TestDispatchBindsOnlyOnVariantChange(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat)

	a := addQuadClass(t, r, "a", variant.KindUniformColor)
	bb := addQuadClass(t, r, "b", variant.KindUniformColor)
	c := addQuadClass(t, r, "c", variant.KindVertexColor)
	for _, h := range []ClassHandle{a, bb, c} {
		addQuadInstance(t, r, h)
	}

	pass := &recordingPass{}
	stats := r.Dispatch(pass)
	assert.Equal(t,
		"pipeline group0 vertex0 index draw6 vertex0 index draw6 pipeline group0 vertex0 index draw6",
		pass.String())
	assert.Equal(t, 2, stats.PipelineBinds)
	assert.Equal(t, 2, stats.BindGroupBinds)
	assert.Equal(t, 3, stats.VertexBufferBinds)
	assert.Equal(t, 3, stats.Draws)

	// the vertex color variant has no group of its own and must not inherit the previous one
	assert.Same(t, b.empty, pass.bindGroups[1])
	assert.NotSame(t, pass.pipelines[0], pass.pipelines[1])
}

func TestDispatchRebindsWhenVariantReturns(t *testing.T) {
	r := NewRegistry(newFakeBackend(), testFormat)
	for i, k := range []variant.Kind{variant.KindUniformColor, variant.KindVertexColor, variant.KindUniformColor} {
		h := addQuadClass(t, r, string(rune('a'+i)), k)
		addQuadInstance(t, r, h)
	}

	stats := r.Dispatch(&recordingPass{})
	assert.Equal(t, 3, stats.PipelineBinds)
}

func TestDispatchPreservesOrder(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat)

	first := addQuadClass(t, r, "first", variant.KindUniformColor)
	second := addQuadClass(t, r, "second", variant.KindUniformColor)

	tri1, err := r.AddInstance(second, []uint32{0, 1, 2})
	require.NoError(t, err)
	full := addQuadInstance(t, r, second)
	tri2, err := r.AddInstance(first, []uint32{0, 2, 3})
	require.NoError(t, err)

	pass := &recordingPass{}
	r.Dispatch(pass)
	assert.Equal(t, "pipeline group0 vertex0 index draw3 vertex0 index draw3 index draw6", pass.String())
	assert.Equal(t, []uint32{0, 2, 3}, decodeIndices(b.buffers[pass.indices[0]]))
	assert.Equal(t, []uint32{0, 1, 2}, decodeIndices(b.buffers[pass.indices[1]]))

	infos := r.Classes()
	require.Len(t, infos, 2)
	assert.Equal(t, first, infos[0].Handle)
	assert.Equal(t, []InstanceHandle{tri2}, infos[0].Instances)
	assert.Equal(t, []InstanceHandle{tri1, full}, infos[1].Instances)
}

func TestEmptyClassIsNoop(t *testing.T) {
	r := NewRegistry(newFakeBackend(), testFormat)
	addQuadClass(t, r, "empty", variant.KindUniformColor)
	h := addQuadClass(t, r, "full", variant.KindVertexColor)
	addQuadInstance(t, r, h)

	pass := &recordingPass{}
	stats := r.Dispatch(pass)
	assert.Equal(t, "pipeline group0 vertex0 index draw6", pass.String())
	assert.Equal(t, 1, stats.Classes)
	assert.Zero(t, stats.Skipped)
}

func TestAddClassValidatesVertices(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat)

	_, err := r.AddClass("empty", variant.KindUniformColor, nil)
	assert.ErrorIs(t, err, ErrInvalidVertices)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = r.AddClass("ragged", variant.KindUniformColor, make([]byte, 12))
	assert.ErrorIs(t, err, ErrInvalidVertices)

	// 24 bytes is three position-only vertices but one color vertex
	_, err = r.AddClass("one", variant.KindVertexColor, make([]byte, 24))
	assert.NoError(t, err)

	_, err = r.AddClass("bad kind", variant.Kind(42), make([]byte, 8))
	assert.ErrorIs(t, err, variant.ErrInvalidKind)

	b.failBuffers = errBoom
	_, err = r.AddClass("oom", variant.KindUniformColor, make([]byte, 8))
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, r.Classes(), 1)
}

func TestAddInstanceValidatesIndices(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat)
	h := addQuadClass(t, r, "quad", variant.KindUniformColor)

	_, err := r.AddInstance(h, []uint32{0, 1, 4})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, err, ErrPrecondition)

	_, err = r.AddInstance(h, []uint32{0, 1})
	assert.ErrorIs(t, err, ErrInvalidIndices)

	_, err = r.AddInstance(h, nil)
	assert.ErrorIs(t, err, ErrInvalidIndices)

	_, err = r.AddInstance(h+100, []uint32{0, 1, 2})
	assert.ErrorIs(t, err, ErrUnknownClass)

	b.failBuffers = errBoom
	_, err = r.AddInstance(h, []uint32{0, 1, 3})
	assert.ErrorIs(t, err, errBoom)

	info, _ := r.Class(h)
	assert.Empty(t, info.Instances)
}

func TestAddInstancesBatch(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat, WithWorkers(4))
	h := addQuadClass(t, r, "quad", variant.KindUniformColor)

	batch := [][]uint32{{0, 1, 2}, {0, 2, 3}, {0, 1, 2, 0, 2, 3}}
	handles, err := r.AddInstances(h, batch)
	require.NoError(t, err)
	require.Len(t, handles, 3)

	pass := &recordingPass{}
	r.Dispatch(pass)
	require.Len(t, pass.indices, 3)
	for i, want := range batch {
		assert.Equal(t, want, decodeIndices(b.buffers[pass.indices[i]]))
	}
	r.FrameSubmitted()

	_, err = r.AddInstances(h, [][]uint32{{0, 1, 2}, {0, 1, 9}})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	info, _ := r.Class(h)
	assert.Equal(t, handles, info.Instances)

	none, err := r.AddInstances(h, nil)
	assert.NoError(t, err)
	assert.Empty(t, none)

	_, err = r.AddInstances(h+1, batch)
	assert.ErrorIs(t, err, ErrUnknownClass)
}

func TestAddInstancesReleasesBatchOnUploadFailure(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat, WithWorkers(2))
	h := addQuadClass(t, r, "quad", variant.KindUniformColor)
	existing := addQuadInstance(t, r, h)
	live := b.live()

	b.failAfter = b.uploads + 2
	_, err := r.AddInstances(h, [][]uint32{{0, 1, 2}, {0, 2, 3}, {1, 2, 3}})
	assert.ErrorIs(t, err, errBoom)
	assert.ErrorContains(t, err, "instance 2")
	assert.Equal(t, live, b.live())

	info, _ := r.Class(h)
	assert.Equal(t, []InstanceHandle{existing}, info.Instances)
	assert.Equal(t, 6, info.IndexCount)
}

func TestReleaseLeavesNoWorkersBehind(t *testing.T) {
	warm := NewRegistry(newFakeBackend(), testFormat, WithWorkers(4))
	warm.Release()
	baseline := runtime.NumGoroutine()

	for range 10 {
		b := newFakeBackend()
		r := NewRegistry(b, testFormat, WithWorkers(4))
		h := addQuadClass(t, r, "quad", variant.KindUniformColor)
		_, err := r.AddInstances(h, [][]uint32{{0, 1, 2}, {0, 2, 3}})
		require.NoError(t, err)
		r.Release()
	}

	assert.LessOrEqual(t, runtime.NumGoroutine(), baseline)
}

func TestSharedPoolIsReusedPerWorkerCount(t *testing.T) {
	assert.Same(t, sharedPool(3), sharedPool(3))
}

func TestRemoveClassRequiresEmpty(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat)
	h := addQuadClass(t, r, "quad", variant.KindUniformColor)
	inst := addQuadInstance(t, r, h)

	err := r.RemoveClass(h)
	assert.ErrorIs(t, err, ErrClassNotEmpty)
	assert.ErrorIs(t, err, ErrPrecondition)
	assert.Len(t, r.Classes(), 1)
	assert.Equal(t, 2, b.live())

	require.NoError(t, r.RemoveInstance(inst))
	assert.ErrorIs(t, r.RemoveInstance(inst), ErrUnknownInstance)
	require.NoError(t, r.RemoveClass(h))
	assert.ErrorIs(t, r.RemoveClass(h), ErrUnknownClass)

	assert.Empty(t, r.Classes())
	assert.Zero(t, b.live())
}

func TestRemoveInstanceKeepsOrder(t *testing.T) {
	r := NewRegistry(newFakeBackend(), testFormat)
	h := addQuadClass(t, r, "quad", variant.KindUniformColor)
	a := addQuadInstance(t, r, h)
	mid := addQuadInstance(t, r, h)
	c := addQuadInstance(t, r, h)

	require.NoError(t, r.RemoveInstance(mid))
	info, _ := r.Class(h)
	assert.Equal(t, []InstanceHandle{a, c}, info.Instances)
}

func TestRemovalsRejectedWhileInFlight(t *testing.T) {
	r := NewRegistry(newFakeBackend(), testFormat)
	h := addQuadClass(t, r, "quad", variant.KindUniformColor)
	inst := addQuadInstance(t, r, h)
	empty := addQuadClass(t, r, "empty", variant.KindUniformColor)

	r.Dispatch(&recordingPass{})
	assert.True(t, r.InFlight())
	assert.ErrorIs(t, r.RemoveInstance(inst), ErrFrameInFlight)
	assert.ErrorIs(t, r.RemoveClass(empty), ErrFrameInFlight)
	assert.ErrorIs(t, r.OnTargetFormatChanged(wgpu.TextureFormatRGBA8Unorm), ErrFrameInFlight)

	// additions do not touch buffers the frame references
	_, err := r.AddInstance(h, []uint32{0, 1, 2})
	assert.NoError(t, err)

	r.FrameSubmitted()
	assert.NoError(t, r.RemoveClass(empty))

	r.Dispatch(&recordingPass{})
	r.FrameAbandoned()
	assert.False(t, r.InFlight())
	assert.NoError(t, r.RemoveInstance(inst))
}

func TestUnavailableVariantIsSkipped(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, wgpu.TextureFormatRGBA32Float)

	tex := addQuadClass(t, r, "image", variant.KindTexture)
	addQuadInstance(t, r, tex)
	fill := addQuadClass(t, r, "fill", variant.KindUniformColor)
	addQuadInstance(t, r, fill)

	_, err := r.Compile(variant.KindTexture)
	var cfgErr *variant.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, variant.ErrUnsupportedFormat)

	for range 2 {
		pass := &recordingPass{}
		stats := r.Dispatch(pass)
		r.FrameSubmitted()
		assert.Equal(t, 1, stats.Skipped)
		assert.Equal(t, 1, stats.Classes)
		assert.Equal(t, "pipeline group0 vertex0 index draw6", pass.String())
	}
	assert.Len(t, r.(*registry).warned, 1)
}

func TestFlushUniforms(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat, WithEagerVariants(variant.KindUniformColor, variant.KindVertexColor))
	assert.Len(t, b.pipelines, 2)
	initial := len(b.writes)

	assert.Zero(t, r.FlushUniforms())

	v, ok := r.Variant(variant.KindUniformColor)
	require.True(t, ok)
	require.NoError(t, v.SetColor(common.RGBA(1, 0, 0, 1)))
	require.NoError(t, v.SetColor(common.RGBA(0, 1, 0, 1)))

	assert.Equal(t, 1, r.FlushUniforms())
	require.Len(t, b.writes, initial+1)
	assert.Equal(t, v.Value(), b.writes[initial].Data)
	assert.Zero(t, r.FlushUniforms())
}

func TestOnTargetFormatChangedRebuildsVariants(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, wgpu.TextureFormatRGBA32Float,
		WithVariantOptions(variant.WithColor(common.Black)))

	fill := addQuadClass(t, r, "fill", variant.KindUniformColor)
	addQuadInstance(t, r, fill)
	tex := addQuadClass(t, r, "image", variant.KindTexture)
	addQuadInstance(t, r, tex)

	old, ok := r.Variant(variant.KindUniformColor)
	require.True(t, ok)
	require.NoError(t, old.SetColor(common.RGBA(0, 0, 1, 1)))
	staged := old.Value()

	require.NoError(t, r.OnTargetFormatChanged(testFormat))
	assert.Equal(t, testFormat, r.Format())
	assert.Equal(t, 1, b.releasedPipelines)

	fresh, ok := r.Variant(variant.KindUniformColor)
	require.True(t, ok)
	assert.NotSame(t, old, fresh)
	assert.Equal(t, testFormat, fresh.Pipeline().Format())
	assert.Equal(t, staged, fresh.Value())
	assert.True(t, fresh.Pending())

	pass := &recordingPass{}
	stats := r.Dispatch(pass)
	r.FrameSubmitted()
	assert.Zero(t, stats.Skipped)
	assert.Equal(t, 2, stats.Draws)

	assert.NoError(t, r.OnTargetFormatChanged(testFormat))
	again, _ := r.Variant(variant.KindUniformColor)
	assert.Same(t, fresh, again)

	err := r.OnTargetFormatChanged(wgpu.TextureFormatRGBA32Float)
	assert.ErrorIs(t, err, variant.ErrUnsupportedFormat)
	assert.Len(t, r.Classes(), 2)
}

func TestReleaseFreesEverything(t *testing.T) {
	b := newFakeBackend()
	r := NewRegistry(b, testFormat)
	for _, k := range []variant.Kind{variant.KindUniformColor, variant.KindTexture} {
		h := addQuadClass(t, r, k.String(), k)
		addQuadInstance(t, r, h)
		addQuadInstance(t, r, h)
	}
	assert.Equal(t, 6, b.live())

	r.Release()
	assert.Zero(t, b.live())
	assert.Empty(t, r.Classes())
	assert.Equal(t, 2, b.releasedPipelines)
	assert.Equal(t, 2, b.releasedProviders)
}

package variant

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/uniform"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFormat = wgpu.TextureFormatBGRA8UnormSrgb

func readFloat(t *testing.T, b []byte, offset int) float32 {
	t.Helper()
	require.GreaterOrEqual(t, len(b), offset+4)
	return math.Float32frombits(binary.LittleEndian.Uint32(b[offset : offset+4]))
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	_, err := ParseKind("gradient")
	assert.Error(t, err)
	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.Len(t, Kinds(), 4)
}

func TestKindVertexStride(t *testing.T) {
	assert.Equal(t, uint64(8), KindUniformColor.VertexStride())
	assert.Equal(t, uint64(24), KindVertexColor.VertexStride())
	assert.Equal(t, uint64(8), KindBlurBehind.VertexStride())
	assert.Equal(t, uint64(16), KindTexture.VertexStride())
	assert.Zero(t, Kind(-1).VertexStride())
}

func TestSupportsFormat(t *testing.T) {
	for _, k := range Kinds() {
		assert.NoError(t, SupportsFormat(k, wgpu.TextureFormatBGRA8UnormSrgb), k.String())
		assert.NoError(t, SupportsFormat(k, wgpu.TextureFormatRGBA8Unorm), k.String())
		assert.ErrorIs(t, SupportsFormat(k, wgpu.TextureFormatDepth24Plus), ErrUnsupportedFormat, k.String())
		assert.ErrorIs(t, SupportsFormat(k, wgpu.TextureFormatRGBA8Uint), ErrUnsupportedFormat, k.String())
	}

	assert.NoError(t, SupportsFormat(KindUniformColor, wgpu.TextureFormatRGBA32Float))
	assert.NoError(t, SupportsFormat(KindVertexColor, wgpu.TextureFormatRGBA32Float))
	assert.ErrorIs(t, SupportsFormat(KindBlurBehind, wgpu.TextureFormatRGBA32Float), ErrUnsupportedFormat)
	assert.ErrorIs(t, SupportsFormat(KindTexture, wgpu.TextureFormatRGBA32Float), ErrUnsupportedFormat)
}

func TestSetCompileIsIdempotent(t *testing.T) {
	c := newFakeCompiler()
	s := NewSet(c, testFormat)

	first, err := s.Compile(KindUniformColor)
	require.NoError(t, err)
	second, err := s.Compile(KindUniformColor)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Len(t, c.pipelines, 1)
	assert.Equal(t, 1, c.bindGroups)

	got, ok := s.Variant(KindUniformColor)
	assert.True(t, ok)
	assert.Same(t, first, got)
	_, ok = s.Variant(KindTexture)
	assert.False(t, ok)
}

func TestUniformColorVariant(t *testing.T) {
	c := newFakeCompiler()
	red := common.RGBA(1, 0, 0, 1)
	s := NewSet(c, testFormat, WithColor(red))

	v, err := s.Compile(KindUniformColor)
	require.NoError(t, err)

	assert.Equal(t, KindUniformColor, v.Kind())
	assert.Equal(t, testFormat, v.Format())
	assert.NotNil(t, v.RenderPipeline())
	assert.NotNil(t, v.BindGroup())
	assert.True(t, v.HasUniform())
	assert.False(t, v.Pipeline().BlendEnabled())
	assert.Equal(t, testFormat, v.Pipeline().Format())

	require.Len(t, c.writes, 1)
	want := uniform.NewColorUniform(red)
	assert.Equal(t, want.Marshal(), c.writes[0].Data)
	assert.Equal(t, 0, c.writes[0].Binding)
	assert.False(t, v.Pending())
}

func TestVertexColorVariantHasNoBindGroup(t *testing.T) {
	c := newFakeCompiler()
	s := NewSet(c, testFormat)

	v, err := s.Compile(KindVertexColor)
	require.NoError(t, err)

	assert.Nil(t, v.BindGroup())
	assert.False(t, v.HasUniform())
	assert.Zero(t, c.bindGroups)
	assert.Empty(t, c.writes)

	assert.ErrorIs(t, v.Update(make([]byte, 16)), ErrNoUniform)
	assert.ErrorIs(t, v.SetColor(common.Black), ErrNoUniform)
	assert.Nil(t, v.Flush())
}

func TestUniformStagingLastWriteWins(t *testing.T) {
	c := newFakeCompiler()
	s := NewSet(c, testFormat)
	v, err := s.Compile(KindUniformColor)
	require.NoError(t, err)

	require.NoError(t, v.SetColor(common.RGBA(1, 0, 0, 1)))
	require.NoError(t, v.SetColor(common.RGBA(0, 0, 1, 1)))
	assert.True(t, v.Pending())

	writes := v.Flush()
	require.Len(t, writes, 1)
	assert.Equal(t, float32(0), readFloat(t, writes[0].Data, 0))
	assert.Equal(t, float32(1), readFloat(t, writes[0].Data, 8))

	assert.False(t, v.Pending())
	assert.Nil(t, v.Flush())
	assert.Equal(t, writes[0].Data, v.Value())

	assert.ErrorIs(t, v.Update(make([]byte, 4)), ErrUniformSize)
	assert.ErrorIs(t, v.SetBlur(2, common.Black), ErrNoUniform)
}

func TestBlurBehindVariant(t *testing.T) {
	c := newFakeCompiler()
	backdrop := common.TextureStagingData{Pixels: make([]byte, 4*2*4), Width: 4, Height: 2}
	s := NewSet(c, testFormat, WithBackdrop(backdrop), WithBlur(3, common.Transparent))

	v, err := s.Compile(KindBlurBehind)
	require.NoError(t, err)
	assert.True(t, v.Pipeline().BlendEnabled())
	assert.Equal(t, backdrop, c.textures[1])
	assert.Equal(t, wgpu.AddressModeClampToEdge, c.samplers[2].AddressModeU)

	require.Len(t, c.writes, 1)
	initial := c.writes[0].Data
	assert.Equal(t, 0, c.writes[0].Binding)
	assert.Len(t, initial, 32)
	assert.Equal(t, float32(0.25), readFloat(t, initial, 16))
	assert.Equal(t, float32(0.5), readFloat(t, initial, 20))
	assert.Equal(t, float32(3), readFloat(t, initial, 24))

	require.NoError(t, v.SetBlur(-1, common.RGBA(0, 0, 0, 0.5)))
	writes := v.Flush()
	require.Len(t, writes, 1)
	assert.Equal(t, float32(0.5), readFloat(t, writes[0].Data, 12))
	assert.Equal(t, float32(0), readFloat(t, writes[0].Data, 24))
}

func TestTextureVariant(t *testing.T) {
	c := newFakeCompiler()
	s := NewSet(c, testFormat)

	v, err := s.Compile(KindTexture)
	require.NoError(t, err)
	assert.NotNil(t, v.BindGroup())
	assert.False(t, v.HasUniform())
	assert.Equal(t, common.SolidTexture(common.White), c.textures[0])
	assert.Contains(t, c.samplers, 1)
	assert.Empty(t, c.writes)
}

func TestTextureVariantRejectsMalformedImage(t *testing.T) {
	c := newFakeCompiler()
	bad := common.TextureStagingData{Pixels: make([]byte, 3), Width: 2, Height: 2}
	s := NewSet(c, testFormat, WithTexture(bad))

	_, err := s.Compile(KindTexture)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, KindTexture, cfgErr.Kind)
	assert.Empty(t, c.pipelines)
}

func TestCompileFailureIsCached(t *testing.T) {
	c := newFakeCompiler()
	s := NewSet(c, wgpu.TextureFormatRGBA32Float)

	v, err := s.Compile(KindTexture)
	assert.Nil(t, v)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, wgpu.TextureFormatRGBA32Float, cfgErr.Format)

	again, err2 := s.Compile(KindTexture)
	assert.Nil(t, again)
	assert.Same(t, err, err2)
	assert.Same(t, err, s.Err(KindTexture))
	assert.Empty(t, c.pipelines)

	_, err = s.Compile(KindUniformColor)
	assert.NoError(t, err)
	assert.Nil(t, s.Err(KindUniformColor))
}

func TestCompileBackendFailure(t *testing.T) {
	boom := errors.New("device lost")

	c := newFakeCompiler()
	c.failPipeline = boom
	s := NewSet(c, testFormat)
	_, err := s.Compile(KindVertexColor)
	assert.ErrorIs(t, err, boom)

	c = newFakeCompiler()
	c.failBindGroup = boom
	s = NewSet(c, testFormat)
	_, err = s.Compile(KindUniformColor)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, c.releasedPipelines)
	assert.Equal(t, 1, c.releasedProviders)
}

func TestCompileInvalidKind(t *testing.T) {
	s := NewSet(newFakeCompiler(), testFormat)
	_, err := s.Compile(kindCount)
	assert.ErrorIs(t, err, ErrInvalidKind)
	assert.Nil(t, s.Err(kindCount))
}

func TestSetCompiledAndRelease(t *testing.T) {
	c := newFakeCompiler()
	s := NewSet(c, testFormat)

	_, err := s.Compile(KindTexture)
	require.NoError(t, err)
	_, err = s.Compile(KindUniformColor)
	require.NoError(t, err)
	_, err = s.Compile(KindVertexColor)
	require.NoError(t, err)

	compiled := s.Compiled()
	require.Len(t, compiled, 3)
	assert.Equal(t, KindUniformColor, compiled[0].Kind())
	assert.Equal(t, KindVertexColor, compiled[1].Kind())
	assert.Equal(t, KindTexture, compiled[2].Kind())

	s.Release()
	assert.Equal(t, 3, c.releasedPipelines)
	assert.Equal(t, 2, c.releasedProviders)
	assert.Empty(t, s.Compiled())

	_, err = s.Compile(KindUniformColor)
	assert.NoError(t, err)
	assert.Len(t, c.pipelines, 4)
}

package shape

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRect(t *testing.T) {
	m := Rect(-0.5, -0.5, 1, 1)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)

	minX, minY, maxX, maxY := m.Bounds()
	assert.Equal(t, float32(-0.5), minX)
	assert.Equal(t, float32(-0.5), minY)
	assert.Equal(t, float32(0.5), maxX)
	assert.Equal(t, float32(0.5), maxY)
}

func TestPolygonFan(t *testing.T) {
	m, err := Polygon([][2]float32{{0, 0}, {1, 0}, {1, 1}, {0.5, 1.5}, {0, 1}})
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4}, m.Indices)

	_, err = Polygon([][2]float32{{0, 0}, {1, 0}})
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestCircle(t *testing.T) {
	m, err := Circle(0, 0, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, 9, m.VertexCount())
	assert.Len(t, m.Indices, 24)
	for _, idx := range m.Indices {
		assert.Less(t, idx, uint32(m.VertexCount()))
	}
	// last triangle closes the fan back onto the first outline vertex
	assert.Equal(t, []uint32{0, 8, 1}, m.Indices[21:])

	_, err = Circle(0, 0, 1, 2)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestUVs(t *testing.T) {
	uvs := Rect(0, 0, 2, 2).UVs()
	assert.Equal(t, [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}, uvs)
}

func TestTranslate(t *testing.T) {
	base := Rect(0, 0, 1, 1)
	moved := base.Translate(1, 2)
	assert.Equal(t, [2]float32{1, 2}, moved.Positions[0])
	assert.Equal(t, [2]float32{0, 0}, base.Positions[0])
	assert.Equal(t, base.Indices, moved.Indices)
}

func TestEncodeColorVertices(t *testing.T) {
	buf := EncodeColorVertices([][2]float32{{1, 2}, {3, 4}}, []common.Color{{R: 1, A: 1}})
	require.Len(t, buf, 48)

	v := (&GPUColorVertex{}).Size()
	assert.Equal(t, 24, v)

	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(3), f(24))
	// the second vertex repeats the last provided color
	assert.Equal(t, float32(1), f(32))
	assert.Equal(t, float32(1), f(44))
}

func TestVertexSizes(t *testing.T) {
	assert.Equal(t, 8, (&GPUVertex{}).Size())
	assert.Equal(t, 16, (&GPUTexturedVertex{}).Size())
	assert.Len(t, EncodeVertices([][2]float32{{0, 0}, {1, 1}}), 16)
	assert.Len(t, EncodeTexturedVertices([][2]float32{{0, 0}}, nil), 16)
}

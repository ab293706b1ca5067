package uniform

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/stretchr/testify/assert"
)

func TestColorUniformMarshal(t *testing.T) {
	u := NewColorUniform(common.Color{R: 0.25, G: 0.5, B: 0.75, A: 1})
	buf := u.Marshal()
	assert.Len(t, buf, u.Size())
	assert.Equal(t, float32(0.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])))
}

func TestBlurParamsLayout(t *testing.T) {
	p := GPUBlurParams{Tint: [4]float32{1, 1, 1, 0.5}, Texel: [2]float32{0.5, 0.25}, Radius: 4}
	buf := p.Marshal()
	assert.Equal(t, 32, p.Size())
	assert.Len(t, buf, 32)
	assert.Equal(t, float32(0.25), math.Float32frombits(binary.LittleEndian.Uint32(buf[20:24])))
	assert.Equal(t, float32(4), math.Float32frombits(binary.LittleEndian.Uint32(buf[24:28])))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[28:32]))
}

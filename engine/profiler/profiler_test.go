package profiler

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTick_ReportsAfterInterval(t *testing.T) {
	p := NewProfiler(time.Second)
	start := p.lastTime
	clock := start
	p.now = func() time.Time { return clock }

	frame := output.DispatchStats{Classes: 2, PipelineBinds: 2, Draws: 4, Indices: 24}
	for range 3 {
		clock = clock.Add(250 * time.Millisecond)
		p.Record(frame)
		assert.Nil(t, p.Tick())
	}

	clock = start.Add(time.Second)
	p.Skip()
	rep := p.Tick()
	require.NotNil(t, rep)
	assert.InDelta(t, 4.0, rep.FPS, 1e-9)
	assert.Equal(t, 1, rep.SkippedFrames)
	assert.Equal(t, frame, rep.Dispatch)

	assert.Zero(t, p.frameCount)
	assert.Equal(t, output.DispatchStats{}, p.dispatch)
}

func TestNewProfiler_DefaultInterval(t *testing.T) {
	assert.Equal(t, time.Second, NewProfiler(0).updateInterval)
	assert.Equal(t, 5*time.Second, NewProfiler(5*time.Second).updateInterval)
}

func TestAverage_NoPresentedFrames(t *testing.T) {
	assert.Equal(t, output.DispatchStats{}, average(output.DispatchStats{Draws: 10}, 0))
}

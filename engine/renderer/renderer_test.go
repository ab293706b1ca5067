package renderer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/output"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nopBackend satisfies output.Backend for registries that never touch the device.
type nopBackend struct {
	output.Backend
}

type nopPass struct{}

func (nopPass) SetPipeline(*wgpu.RenderPipeline) {}

func (nopPass) SetBindGroup(uint32, *wgpu.BindGroup, []uint32) {}

func (nopPass) SetVertexBuffer(uint32, *wgpu.Buffer, uint64, uint64) {}

func (nopPass) SetIndexBuffer(*wgpu.Buffer, wgpu.IndexFormat, uint64, uint64) {}

func (nopPass) DrawIndexed(uint32, uint32, uint32, int32, uint32) {}

type fakeFrames struct {
	calls    []string
	beginErr error
	endErr   error
	reg      output.Registry
}

func (f *fakeFrames) BeginFrame() (output.RenderPass, error) {
	f.calls = append(f.calls, "begin")
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return nopPass{}, nil
}

func (f *fakeFrames) EndFrame() error {
	f.calls = append(f.calls, fmt.Sprintf("end(inflight=%v)", f.reg.InFlight()))
	return f.endErr
}

func (f *fakeFrames) Present() {
	f.calls = append(f.calls, fmt.Sprintf("present(inflight=%v)", f.reg.InFlight()))
}

func newTestRegistry() output.Registry {
	return output.NewRegistry(nopBackend{}, wgpu.TextureFormatBGRA8UnormSrgb, output.WithWorkers(1))
}

func TestSubmitFrameOrder(t *testing.T) {
	reg := newTestRegistry()
	f := &fakeFrames{reg: reg}

	_, err := submitFrame(f, reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"begin", "end(inflight=true)", "present(inflight=false)"}, f.calls)
	assert.False(t, reg.InFlight())
}

func TestSubmitFrameSurfaceUnavailable(t *testing.T) {
	reg := newTestRegistry()
	f := &fakeFrames{reg: reg, beginErr: fmt.Errorf("%w: outdated", ErrSurfaceUnavailable)}

	_, err := submitFrame(f, reg)
	assert.ErrorIs(t, err, ErrSurfaceUnavailable)
	assert.Equal(t, []string{"begin"}, f.calls)
	assert.False(t, reg.InFlight())
}

func TestSubmitFrameFinishFailureSkipsPresent(t *testing.T) {
	reg := newTestRegistry()
	boom := errors.New("encoder invalid")
	f := &fakeFrames{reg: reg, endErr: boom}

	_, err := submitFrame(f, reg)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"begin", "end(inflight=true)"}, f.calls)
	assert.False(t, reg.InFlight())
}

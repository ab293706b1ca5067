package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/output"
	"github.com/Carmen-Shannon/oxy-vector/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	formatListeners []func(wgpu.TextureFormat)

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	selectFormat         FormatSelector
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingClearColor    *common.Color
}

// Renderer owns the GPU device and the window surface, and turns a Registry into presented frames.
//
// The Renderer is a high-level API: it configures the swapchain, acquires one image per frame,
// opens the render pass a Registry dispatches into, and submits and presents the result.
type Renderer interface {
	// Backend returns the device operations a Registry compiles variants and uploads buffers with.
	//
	// Returns:
	//   - output.Backend: the GPU backend
	Backend() output.Backend

	// Format returns the swapchain format every Registry drawn by this renderer must target.
	//
	// Returns:
	//   - wgpu.TextureFormat: the current surface format
	Format() wgpu.TextureFormat

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	// A zero size, such as a minimized window, makes SubmitFrame report ErrSurfaceUnavailable
	// until the next non-zero resize. Format listeners run if the new configuration selected a
	// different format.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to
	// the display. Takes effect on the next Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color each frame is cleared to before dispatch.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// OnFormatChanged registers fn to run after a reconfiguration changes the surface format.
	//
	// Parameters:
	//   - fn: the listener, receiving the new format
	OnFormatChanged(fn func(wgpu.TextureFormat))

	// SubmitFrame draws reg into the next swapchain image and presents it. Staged uniforms are
	// flushed first so they are visible in this frame. If no image can be acquired the frame is
	// abandoned and ErrSurfaceUnavailable is returned; the caller may simply try again next frame.
	// A frame is either presented complete or not at all.
	//
	// Parameters:
	//   - reg: the registry to dispatch
	//
	// Returns:
	//   - output.DispatchStats: the commands recorded by the dispatch
	//   - error: ErrSurfaceUnavailable, or an error if the command buffer could not be submitted
	SubmitFrame(reg output.Registry) (output.DispatchStats, error)

	// Release frees the GPU device and surface.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the given window, selecting an adapter compatible with the
// window's surface and configuring the surface at the window's size. Panics if no adapter or
// device can be created.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - window: the window whose surface is rendered to
//   - options: functional options
//
// Returns:
//   - Renderer: the ready renderer
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:           &sync.Mutex{},
		backendType:  backendType,
		selectFormat: PreferSRGB,
	}

	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.selectFormat)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	if r.pendingClearColor != nil {
		r.backend.SetClearColor(*r.pendingClearColor)
	}

	if _, err := r.backend.ConfigureSurface(window.Width(), window.Height()); err != nil {
		panic(err)
	}
	return r
}

func (r *renderer) Backend() output.Backend {
	return r.backend
}

func (r *renderer) Format() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) Resize(width, height int) {
	changed, err := r.backend.ConfigureSurface(width, height)
	if err != nil {
		common.Logger().Error("surface reconfigure failed", "width", width, "height", height, "error", err)
		return
	}
	if !changed {
		return
	}

	format := r.backend.SurfaceFormat()
	r.mu.Lock()
	listeners := append([]func(wgpu.TextureFormat){}, r.formatListeners...)
	r.mu.Unlock()
	for _, fn := range listeners {
		fn(format)
	}
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(c common.Color) {
	r.backend.SetClearColor(c)
}

func (r *renderer) OnFormatChanged(fn func(wgpu.TextureFormat)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatListeners = append(r.formatListeners, fn)
}

func (r *renderer) SubmitFrame(reg output.Registry) (output.DispatchStats, error) {
	return submitFrame(r.backend, reg)
}

func (r *renderer) Release() {
	r.backend.Release()
}

// frameBackend is the part of the backend one frame submission drives.
type frameBackend interface {
	BeginFrame() (output.RenderPass, error)
	EndFrame() error
	Present()
}

// submitFrame runs flush, acquire, dispatch, submit and present in that order.
func submitFrame(b frameBackend, reg output.Registry) (output.DispatchStats, error) {
	reg.FlushUniforms()

	pass, err := b.BeginFrame()
	if err != nil {
		reg.FrameAbandoned()
		return output.DispatchStats{}, err
	}

	stats := reg.Dispatch(pass)

	if err := b.EndFrame(); err != nil {
		reg.FrameAbandoned()
		return stats, err
	}
	reg.FrameSubmitted()
	b.Present()
	return stats, nil
}

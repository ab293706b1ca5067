package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/output"
	"github.com/Carmen-Shannon/oxy-vector/engine/scene"
	"github.com/Carmen-Shannon/oxy-vector/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// surfaceRetryDelay is how long the loop waits after a frame found no surface image, such as
// while the window is minimized.
const surfaceRetryDelay = 10 * time.Millisecond

// registryFactory creates the registry the engine draws.
type registryFactory func(backend output.Backend, format wgpu.TextureFormat, opts ...output.RegistryBuilderOption) output.Registry

// engine implements the Engine interface.
// Window events, the update callback and frame submission all run on the thread that called Run.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	registry output.Registry

	windowOptions   []window.WindowBuilderOption
	rendererOptions []renderer.RendererBuilderOption
	registryOptions []output.RegistryBuilderOption
	newRegistry     registryFactory

	profiler         *profiler.Profiler
	profilingEnabled bool

	updateCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time

	sleep func(time.Duration)
}

// Engine is the main entry point for the engine.
// It owns the window, the renderer and the registry, and drives one frame per loop iteration.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer presenting to the window.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Registry returns the registry drawn each frame. Only touch it from the update callback or
	// before Run; it is not safe for concurrent use. LoadScene replaces it.
	//
	// Returns:
	//   - output.Registry: the current registry
	Registry() output.Registry

	// LoadScene replaces the registry with a new one configured for s and adds the scene's
	// classes to it. The frame clear color is set to the scene's. On failure the current
	// registry is kept.
	//
	// Parameters:
	//   - s: the scene to draw
	//
	// Returns:
	//   - scene.Placement: the handles issued for the scene's classes and instances
	//   - error: error if the scene could not be applied
	LoadScene(s scene.Scene) (scene.Placement, error)

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetUpdateCallback registers the function called before each frame is submitted.
	// Use this for animation and registry changes.
	//
	// Parameters:
	//   - callback: function to call each frame, receiving the delta time in seconds
	SetUpdateCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the main loop and blocks until the window closes or Quit is called.
	// The registry, renderer and window are released before Run returns.
	Run()

	// Quit asks the main loop to stop. Safe to call from any goroutine and more than once.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options.
// Creates the window and the renderer unless they were supplied, then an empty registry for
// the renderer's surface format.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		newRegistry: output.NewRegistry,
		profiler:    profiler.NewProfiler(time.Second),
		sleep:       time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil {
		e.window = window.NewWindow(e.windowOptions...)
	}
	if e.renderer == nil {
		e.renderer = renderer.NewRenderer(renderer.BackendTypeWGPU, e.window, e.rendererOptions...)
	}
	e.registry = e.newRegistry(e.renderer.Backend(), e.renderer.Format(), e.registryOptions...)

	e.renderer.OnFormatChanged(func(format wgpu.TextureFormat) {
		if err := e.registry.OnTargetFormatChanged(format); err != nil {
			common.Logger().Warn("registry rebuild incomplete", "format", format, "error", err)
		}
	})
	e.window.SetResizeCallback(func(width, height int) {
		e.renderer.Resize(width, height)
	})
	e.window.SetUpdateCallback(e.frame)

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Registry() output.Registry {
	return e.registry
}

func (e *engine) LoadScene(s scene.Scene) (scene.Placement, error) {
	opts := append(append([]output.RegistryBuilderOption{}, e.registryOptions...), s.RegistryOptions()...)
	reg := e.newRegistry(e.renderer.Backend(), e.renderer.Format(), opts...)

	placement, err := s.Apply(reg)
	if err != nil {
		reg.Release()
		return scene.Placement{}, fmt.Errorf("failed to load scene %q: %w", s.Name(), err)
	}

	old := e.registry
	e.registry = reg
	if old != nil {
		old.Release()
	}
	e.renderer.SetClearColor(s.ClearColor())
	common.Logger().Info("scene loaded", "scene", s.Name(), "classes", len(placement.Classes))
	return placement, nil
}

func (e *engine) Run() {
	e.lastFrame = time.Now()
	e.window.ProcessMessages()

	e.registry.Release()
	e.renderer.Release()
	if err := e.window.Close(); err != nil {
		common.Logger().Warn("window close failed", "error", err)
	}
}

// Quit asks the window loop to stop. The loop exits after the current frame.
func (e *engine) Quit() {
	e.window.Stop()
}

// frame runs one loop iteration: the update callback, then submission of the registry.
// A panic stops the engine instead of crashing the process.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			common.Logger().Error("frame panicked", "panic", fmt.Sprint(r))
			e.Quit()
		}
	}()

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	if e.updateCallback != nil {
		e.updateCallback(dt)
	}

	stats, err := e.renderer.SubmitFrame(e.registry)
	switch {
	case errors.Is(err, renderer.ErrSurfaceUnavailable):
		e.profiler.Skip()
		e.sleep(surfaceRetryDelay)
	case err != nil:
		e.profiler.Skip()
		common.Logger().Error("frame submission failed", "error", err)
	default:
		e.profiler.Record(stats)
	}

	if e.profilingEnabled {
		e.profiler.Tick()
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetUpdateCallback registers the function called before each frame.
func (e *engine) SetUpdateCallback(callback func(deltaTime float32)) {
	e.updateCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

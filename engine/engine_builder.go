package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-vector/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/output"
	"github.com/Carmen-Shannon/oxy-vector/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerInterval sets how often profiling statistics are logged. Defaults to one second.
//
// Parameters:
//   - interval: the logging interval
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfilerInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = profiler.NewProfiler(interval)
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithWindowOptions sets the options used when the engine creates its own window.
// Ignored when WithWindow is also given.
//
// Parameters:
//   - opts: window options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowOptions(opts ...window.WindowBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.windowOptions = append(e.windowOptions, opts...)
	}
}

// WithRenderer sets a renderer already bound to the engine's window.
//
// Parameters:
//   - r: a pre-configured Renderer instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithRendererOptions sets the options used when the engine creates its own renderer.
// Ignored when WithRenderer is also given.
//
// Parameters:
//   - opts: renderer options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(opts ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, opts...)
	}
}

// WithRegistryOptions sets options applied to every registry the engine creates, including the
// ones LoadScene creates.
//
// Parameters:
//   - opts: registry options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRegistryOptions(opts ...output.RegistryBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.registryOptions = append(e.registryOptions, opts...)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}

package renderer

import (
	"errors"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrSurfaceUnavailable is returned when no swapchain image can be acquired for a frame, for
// example while the window is minimized or the surface is being reconfigured. It is transient:
// the caller skips the frame and tries again on the next one.
var ErrSurfaceUnavailable = errors.New("surface unavailable")

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// FormatSelector picks the swapchain format from the formats a surface supports, listed in
// the surface's order of preference. It is never called with an empty slice.
type FormatSelector func(supported []wgpu.TextureFormat) wgpu.TextureFormat

// PreferSRGB selects the first sRGB format the surface supports, falling back to its first format.
func PreferSRGB(supported []wgpu.TextureFormat) wgpu.TextureFormat {
	if i := slices.IndexFunc(supported, isSRGB); i >= 0 {
		return supported[i]
	}
	return supported[0]
}

// PreferFirst selects the surface's own first choice.
func PreferFirst(supported []wgpu.TextureFormat) wgpu.TextureFormat {
	return supported[0]
}

// chooseSurfaceFormat applies selector to a surface's supported formats and reports whether the
// result differs from last, the format the surface was most recently configured with. last is
// wgpu.TextureFormatUndefined before the first successful configure.
//
// Parameters:
//   - supported: the formats the surface supports, in its order of preference.
//   - selector: the policy that picks one of them.
//   - last: the previously configured format.
//
// Returns:
//   - wgpu.TextureFormat: the selected format.
//   - bool: true if the selected format differs from last.
//   - error: an error if the surface supports no formats.
func chooseSurfaceFormat(supported []wgpu.TextureFormat, selector FormatSelector, last wgpu.TextureFormat) (wgpu.TextureFormat, bool, error) {
	if len(supported) == 0 {
		return wgpu.TextureFormatUndefined, false, errors.New("surface reports no supported formats")
	}
	format := selector(supported)
	return format, format != last, nil
}

func isSRGB(f wgpu.TextureFormat) bool {
	switch f {
	case wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatBGRA8UnormSrgb:
		return true
	}
	return false
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

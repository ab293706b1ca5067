package variant

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrUnsupportedFormat is returned when a target format cannot be rendered to by a variant kind.
	ErrUnsupportedFormat = errors.New("unsupported target format")

	// ErrInvalidKind is returned when compiling a kind outside the declared set.
	ErrInvalidKind = errors.New("invalid variant kind")
)

// ConfigError reports that a variant could not be compiled for a target format. It is a
// configuration error: retrying with the same inputs fails again.
type ConfigError struct {
	Kind   Kind
	Format wgpu.TextureFormat
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("variant %s for format %v: %v", e.Kind, e.Format, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// renderableFormats lists the color formats every variant can target, mapped to whether
// they support blending. Every variant writes a floating point color, so integer formats
// are absent. 32-bit float formats render but do not blend without an optional feature.
var renderableFormats = map[wgpu.TextureFormat]bool{
	wgpu.TextureFormatR8Unorm:        true,
	wgpu.TextureFormatRG8Unorm:       true,
	wgpu.TextureFormatRGBA8Unorm:     true,
	wgpu.TextureFormatRGBA8UnormSrgb: true,
	wgpu.TextureFormatBGRA8Unorm:     true,
	wgpu.TextureFormatBGRA8UnormSrgb: true,
	wgpu.TextureFormatRGB10A2Unorm:   true,
	wgpu.TextureFormatR16Float:       true,
	wgpu.TextureFormatRG16Float:      true,
	wgpu.TextureFormatRGBA16Float:    true,
	wgpu.TextureFormatR32Float:       false,
	wgpu.TextureFormatRG32Float:      false,
	wgpu.TextureFormatRGBA32Float:    false,
}

// SupportsFormat reports whether variants of kind can render to format.
//
// Parameters:
//   - kind: the variant kind
//   - format: the target color format
//
// Returns:
//   - error: nil, or an error wrapping ErrUnsupportedFormat describing the mismatch
func SupportsFormat(kind Kind, format wgpu.TextureFormat) error {
	blendable, ok := renderableFormats[format]
	if !ok {
		return fmt.Errorf("%w: not a float color-renderable format", ErrUnsupportedFormat)
	}
	if kind.RequiresBlending() && !blendable {
		return fmt.Errorf("%w: %s requires a blendable format", ErrUnsupportedFormat, kind)
	}
	return nil
}

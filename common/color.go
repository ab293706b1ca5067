package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGBA color with float32 components in the [0, 1] range.
// The layout matches a WGSL vec4<f32>.
type Color struct {
	R, G, B, A float32
}

var (
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Transparent = Color{}
)

// RGBA returns an opaque or translucent color from its components.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Array returns the color as a four element array in RGBA order.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// Float64 returns the color widened to float64, the representation used by wgpu clear values.
func (c Color) Float64() (r, g, b, a float64) {
	return float64(c.R), float64(c.G), float64(c.B), float64(c.A)
}

// ParseHexColor parses "#rgb", "#rrggbb" or "#rrggbbaa" into a Color.
//
// Parameters:
//   - s: the hex string, with or without the leading '#'
//
// Returns:
//   - Color: the parsed color
//   - error: error if the string is not a valid hex color
func ParseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{
		R: float32((v>>24)&0xff) / 255,
		G: float32((v>>16)&0xff) / 255,
		B: float32((v>>8)&0xff) / 255,
		A: float32(v&0xff) / 255,
	}, nil
}

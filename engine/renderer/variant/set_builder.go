package variant

import "github.com/Carmen-Shannon/oxy-vector/common"

// config carries the per-set inputs used by the compile branches.
type config struct {
	color      common.Color
	blurRadius float32
	blurTint   common.Color
	texture    common.TextureStagingData
	backdrop   common.TextureStagingData
	sampler    common.SamplerStagingData
}

func defaultConfig() config {
	return config{
		color:      common.White,
		blurRadius: 4,
		blurTint:   common.Transparent,
		texture:    common.SolidTexture(common.White),
		backdrop:   common.SolidTexture(common.Transparent),
	}
}

// SetBuilderOption is a functional option used to configure a Set during construction.
type SetBuilderOption func(*config)

// WithColor sets the initial fill color of the uniformly colored variant. Defaults to opaque white.
//
// Parameters:
//   - c: the fill color
//
// Returns:
//   - SetBuilderOption: a function that sets the initial fill color
func WithColor(c common.Color) SetBuilderOption {
	return func(cfg *config) {
		cfg.color = c
	}
}

// WithBlur sets the initial blur radius and tint of the blur-behind variant.
//
// Parameters:
//   - radius: kernel radius in backdrop texels
//   - tint: color mixed over the blurred result by its alpha
//
// Returns:
//   - SetBuilderOption: a function that sets the initial blur parameters
func WithBlur(radius float32, tint common.Color) SetBuilderOption {
	return func(cfg *config) {
		cfg.blurRadius = radius
		cfg.blurTint = tint
	}
}

// WithTexture sets the image drawn by the textured variant. Defaults to a 1x1 white texel.
//
// Parameters:
//   - tex: the RGBA image
//
// Returns:
//   - SetBuilderOption: a function that sets the texture image
func WithTexture(tex common.TextureStagingData) SetBuilderOption {
	return func(cfg *config) {
		cfg.texture = tex
	}
}

// WithBackdrop sets the image sampled behind blur-behind objects. Defaults to a 1x1 transparent texel.
//
// Parameters:
//   - tex: the RGBA image
//
// Returns:
//   - SetBuilderOption: a function that sets the backdrop image
func WithBackdrop(tex common.TextureStagingData) SetBuilderOption {
	return func(cfg *config) {
		cfg.backdrop = tex
	}
}

// WithSampler sets the sampler used by the textured variant.
//
// Parameters:
//   - s: the sampler configuration
//
// Returns:
//   - SetBuilderOption: a function that sets the texture sampler
func WithSampler(s common.SamplerStagingData) SetBuilderOption {
	return func(cfg *config) {
		cfg.sampler = s
	}
}

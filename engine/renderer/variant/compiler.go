package variant

import (
	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// Compiler is the subset of the GPU device a Set needs to realize variants.
// The renderer's wgpu backend implements it.
type Compiler interface {
	// RegisterRenderPipeline creates the shader modules, pipeline layout and render pipeline for p
	// and stores the result with p.SetRenderPipeline. Pipelines that declare no bind groups
	// receive an empty group 0 layout.
	//
	// Parameters:
	//   - p: the pipeline to compile
	//
	// Returns:
	//   - error: error if any GPU object could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitBindGroup creates the layout, any missing buffers and the bind group for descriptor.
	// Texture and sampler bindings must already be populated.
	//
	// Parameters:
	//   - provider: the provider receiving the resources
	//   - descriptor: the merged layout of the group
	//
	// Returns:
	//   - error: error if a resource is missing or GPU creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads RGBA pixels to a new texture and stores its view at binding.
	//
	// Parameters:
	//   - provider: the provider receiving the texture
	//   - binding: the binding index
	//   - data: the pixels
	//
	// Returns:
	//   - error: error if GPU creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitSampler creates a sampler at binding. Zero fields fall back to linear filtering.
	//
	// Parameters:
	//   - provider: the provider receiving the sampler
	//   - binding: the binding index
	//   - data: the sampler configuration
	//
	// Returns:
	//   - error: error if GPU creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error

	// WriteBuffers enqueues buffer writes on the device queue.
	//
	// Parameters:
	//   - writes: the writes to perform
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// ReleasePipeline frees the GPU pipeline created for p.
	//
	// Parameters:
	//   - p: the pipeline to release
	ReleasePipeline(p pipeline.Pipeline)

	// ReleaseProvider frees every GPU object owned by provider.
	//
	// Parameters:
	//   - provider: the provider to release
	ReleaseProvider(provider bind_group_provider.BindGroupProvider)
}

package output

import (
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/variant"
	"github.com/cogentcore/webgpu/wgpu"
)

// Backend is the GPU device surface a Registry needs. The renderer's wgpu backend implements it.
type Backend interface {
	variant.Compiler

	// InitMeshBuffers uploads vertex and index data into new GPU buffers. Either slice may be
	// empty, in which case the matching buffer is nil.
	//
	// Parameters:
	//   - label: debug label prefix for the buffers
	//   - vertexData: raw vertex bytes
	//   - indexData: raw little-endian uint32 indices
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer, or nil
	//   - *wgpu.Buffer: the index buffer, or nil
	//   - error: error if a buffer could not be created
	InitMeshBuffers(label string, vertexData, indexData []byte) (*wgpu.Buffer, *wgpu.Buffer, error)

	// ReleaseBuffer frees a buffer created by InitMeshBuffers.
	//
	// Parameters:
	//   - buf: the buffer to release
	ReleaseBuffer(buf *wgpu.Buffer)

	// EmptyBindGroup returns the bind group bound at group 0 for variants that declare none.
	//
	// Returns:
	//   - *wgpu.BindGroup: a bind group with an empty layout
	EmptyBindGroup() *wgpu.BindGroup
}

// RenderPass is the part of *wgpu.RenderPassEncoder used by Dispatch.
type RenderPass interface {
	SetPipeline(pipeline *wgpu.RenderPipeline)
	SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, dynamicOffsets []uint32)
	SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset, size uint64)
	SetIndexBuffer(buffer *wgpu.Buffer, format wgpu.IndexFormat, offset, size uint64)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

var _ RenderPass = &wgpu.RenderPassEncoder{}

package output

import (
	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/variant"
	"github.com/cogentcore/webgpu/wgpu"
)

// DispatchStats counts the commands one Dispatch recorded.
type DispatchStats struct {
	// Classes is the number of classes that drew at least one instance.
	Classes int

	PipelineBinds     int
	BindGroupBinds    int
	VertexBufferBinds int
	IndexBufferBinds  int
	Draws             int

	// Indices is the total index count across every draw.
	Indices int

	// Skipped is the number of non-empty classes whose variant is unavailable.
	Skipped int
}

// Add accumulates o into s.
func (s *DispatchStats) Add(o DispatchStats) {
	s.Classes += o.Classes
	s.PipelineBinds += o.PipelineBinds
	s.BindGroupBinds += o.BindGroupBinds
	s.VertexBufferBinds += o.VertexBufferBinds
	s.IndexBufferBinds += o.IndexBufferBinds
	s.Draws += o.Draws
	s.Indices += o.Indices
	s.Skipped += o.Skipped
}

// Dispatch walks the classes in order. The pipeline and group 0 are bound only when a class
// uses a different variant than the class drawn before it; a variant without a bind group
// binds the backend's empty group so nothing from a previous variant carries over.
func (r *registry) Dispatch(pass RenderPass) DispatchStats {
	var stats DispatchStats
	r.inFlight = true

	var bound variant.Variant
	for _, c := range r.classes {
		if len(c.instances) == 0 {
			continue
		}
		v, ok := r.set.Variant(c.kind)
		if !ok {
			stats.Skipped++
			r.warnSkipped(c)
			continue
		}

		if v != bound {
			pass.SetPipeline(v.RenderPipeline())
			bg := v.BindGroup()
			if bg == nil {
				bg = r.backend.EmptyBindGroup()
			}
			pass.SetBindGroup(0, bg, nil)
			stats.PipelineBinds++
			stats.BindGroupBinds++
			bound = v
		}

		pass.SetVertexBuffer(0, c.vertexBuffer, 0, wgpu.WholeSize)
		stats.VertexBufferBinds++
		for _, inst := range c.instances {
			pass.SetIndexBuffer(inst.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
			pass.DrawIndexed(inst.indexCount, 1, 0, 0, 0)
			stats.IndexBufferBinds++
			stats.Draws++
			stats.Indices += int(inst.indexCount)
		}
		stats.Classes++
	}
	return stats
}

func (r *registry) warnSkipped(c *objectClass) {
	if _, done := r.warned[c.handle]; done {
		return
	}
	r.warned[c.handle] = struct{}{}
	common.Logger().Warn("skipping class with unavailable variant",
		"class", uint64(c.handle), "shape", c.shapeID, "kind", c.kind.String(), "format", r.format,
		"error", r.set.Err(c.kind))
}

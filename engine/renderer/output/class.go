package output

import (
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/variant"
	"github.com/cogentcore/webgpu/wgpu"
)

// ClassHandle identifies an object class within one Registry. The zero value is never issued.
type ClassHandle uint64

// InstanceHandle identifies an instance within one Registry. The zero value is never issued.
type InstanceHandle uint64

// ClassInfo is a read-only snapshot of one object class.
type ClassInfo struct {
	Handle      ClassHandle
	ShapeID     string
	Kind        variant.Kind
	VertexCount uint32
	Instances   []InstanceHandle
	IndexCount  int
}

// objectClass owns the shared vertex buffer and the ordered instances drawn from it.
type objectClass struct {
	handle       ClassHandle
	shapeID      string
	kind         variant.Kind
	vertexBuffer *wgpu.Buffer
	vertexCount  uint32
	instances    []*instance
}

// instance owns one index buffer into its class's vertex buffer.
type instance struct {
	handle      InstanceHandle
	class       *objectClass
	indexBuffer *wgpu.Buffer
	indexCount  uint32
}

func (c *objectClass) info() ClassInfo {
	ci := ClassInfo{
		Handle:      c.handle,
		ShapeID:     c.shapeID,
		Kind:        c.kind,
		VertexCount: c.vertexCount,
		Instances:   make([]InstanceHandle, len(c.instances)),
	}
	for i, inst := range c.instances {
		ci.Instances[i] = inst.handle
		ci.IndexCount += int(inst.indexCount)
	}
	return ci
}

func (c *objectClass) indexOf(inst *instance) int {
	for i, other := range c.instances {
		if other == inst {
			return i
		}
	}
	return -1
}

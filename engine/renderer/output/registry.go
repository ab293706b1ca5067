// Package output owns everything a frame draws: the shader variants realized for one target
// format and the ordered object classes and instances that reference them.
package output

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/variant"
	"github.com/cogentcore/webgpu/wgpu"
)

// registry is the implementation of the Registry interface.
type registry struct {
	backend Backend
	format  wgpu.TextureFormat
	set     variant.Set

	variantOpts []variant.SetBuilderOption
	eager       []variant.Kind

	classes   []*objectClass
	byClass   map[ClassHandle]*objectClass
	byInst    map[InstanceHandle]*instance
	nextClass ClassHandle
	nextInst  InstanceHandle

	// inFlight is set by Dispatch and cleared once the frame is submitted or abandoned.
	inFlight bool

	// warned records classes already reported as skipped for the current variant set.
	warned map[ClassHandle]struct{}

	workers int
	pool    worker.DynamicWorkerPool
}

// Registry is the render registry for one target format. It holds at most one compiled
// variant per kind and the caller-ordered list of object classes drawn by Dispatch.
// A Registry is not safe for concurrent use; mutate it only between frames.
type Registry interface {
	// Format returns the target format the registry's variants are compiled for.
	Format() wgpu.TextureFormat

	// Compile returns the variant for kind, compiling it on first use.
	//
	// Parameters:
	//   - kind: the variant kind
	//
	// Returns:
	//   - variant.Variant: the compiled variant
	//   - error: a *variant.ConfigError if the kind cannot be realized for this format
	Compile(kind variant.Kind) (variant.Variant, error)

	// Variant returns the compiled variant for kind without compiling.
	Variant(kind variant.Kind) (variant.Variant, bool)

	// AddClass uploads a shared vertex buffer and appends a new class at the end of the draw
	// order. The class's variant is compiled on demand; if it is unavailable the class is kept
	// and skipped by Dispatch.
	//
	// Parameters:
	//   - shapeID: opaque caller key carried for bookkeeping
	//   - kind: the variant every instance of the class is drawn with
	//   - vertices: encoded vertices in the layout of kind
	//
	// Returns:
	//   - ClassHandle: the new class
	//   - error: ErrInvalidVertices, a *variant.ConfigError for an invalid kind, or a backend error
	AddClass(shapeID string, kind variant.Kind, vertices []byte) (ClassHandle, error)

	// AddInstance uploads an index buffer and appends an instance to the class.
	//
	// Parameters:
	//   - h: the owning class
	//   - indices: a triangle list into the class's vertices
	//
	// Returns:
	//   - InstanceHandle: the new instance
	//   - error: ErrUnknownClass, ErrInvalidIndices, ErrIndexOutOfRange or a backend error
	AddInstance(h ClassHandle, indices []uint32) (InstanceHandle, error)

	// AddInstances appends several instances to one class. Validation and encoding run on the
	// worker pool; either every instance is added or none is.
	//
	// Parameters:
	//   - h: the owning class
	//   - batch: one triangle list per instance
	//
	// Returns:
	//   - []InstanceHandle: the new instances, in batch order
	//   - error: the first error in batch order
	AddInstances(h ClassHandle, batch [][]uint32) ([]InstanceHandle, error)

	// RemoveInstance releases the instance's index buffer and removes it from its class.
	// The order of the remaining instances is unchanged.
	//
	// Returns:
	//   - error: ErrUnknownInstance or ErrFrameInFlight
	RemoveInstance(h InstanceHandle) error

	// RemoveClass releases an empty class's vertex buffer and removes it from the draw order.
	//
	// Returns:
	//   - error: ErrUnknownClass, ErrClassNotEmpty or ErrFrameInFlight
	RemoveClass(h ClassHandle) error

	// Classes returns a snapshot of every class in draw order.
	Classes() []ClassInfo

	// Class returns a snapshot of one class.
	Class(h ClassHandle) (ClassInfo, bool)

	// FlushUniforms enqueues every staged uniform value on the device queue.
	//
	// Returns:
	//   - int: the number of buffer writes enqueued
	FlushUniforms() int

	// Dispatch records the draw commands for every class into pass and marks a frame in flight.
	//
	// Parameters:
	//   - pass: an open render pass targeting the registry's format
	//
	// Returns:
	//   - DispatchStats: counts of the commands recorded
	Dispatch(pass RenderPass) DispatchStats

	// FrameSubmitted ends the in-flight window opened by Dispatch after a successful submit.
	FrameSubmitted()

	// FrameAbandoned ends the in-flight window when the frame was not submitted.
	FrameAbandoned()

	// InFlight reports whether a dispatched frame has not yet been submitted or abandoned.
	InFlight() bool

	// OnTargetFormatChanged discards every compiled variant and compiles a fresh set for
	// format. Classes and instances are kept. Uniform values staged on the old variants are
	// carried over.
	//
	// Parameters:
	//   - format: the new target format
	//
	// Returns:
	//   - error: ErrFrameInFlight, or the joined compile failures of the new set
	OnTargetFormatChanged(format wgpu.TextureFormat) error

	// Release frees every buffer and variant owned by the registry.
	Release()
}

var _ Registry = &registry{}

// NewRegistry creates a registry for format. Variants requested with WithEagerVariants are
// compiled immediately; failures are cached and logged, and Compile reports them.
//
// Parameters:
//   - backend: the GPU device
//   - format: the color target format
//   - options: functional options
//
// Returns:
//   - Registry: the new registry
func NewRegistry(backend Backend, format wgpu.TextureFormat, options ...RegistryBuilderOption) Registry {
	r := &registry{
		backend: backend,
		format:  format,
		byClass: make(map[ClassHandle]*objectClass),
		byInst:  make(map[InstanceHandle]*instance),
		warned:  make(map[ClassHandle]struct{}),
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, opt := range options {
		opt(r)
	}

	r.pool = sharedPool(r.workers)
	r.set = variant.NewSet(backend, format, r.variantOpts...)
	for _, k := range r.eager {
		_, _ = r.set.Compile(k)
	}
	return r
}

func (r *registry) Format() wgpu.TextureFormat {
	return r.format
}

func (r *registry) Compile(kind variant.Kind) (variant.Variant, error) {
	return r.set.Compile(kind)
}

func (r *registry) Variant(kind variant.Kind) (variant.Variant, bool) {
	return r.set.Variant(kind)
}

func (r *registry) AddClass(shapeID string, kind variant.Kind, vertices []byte) (ClassHandle, error) {
	if !kind.Valid() {
		_, err := r.set.Compile(kind)
		return 0, err
	}
	count, err := validateVertices(vertices, kind.VertexStride())
	if err != nil {
		return 0, err
	}

	// a failed variant leaves the class in place; Dispatch skips it
	_, _ = r.set.Compile(kind)

	r.nextClass++
	h := r.nextClass
	vb, _, err := r.backend.InitMeshBuffers(fmt.Sprintf("class %d (%s)", h, shapeID), vertices, nil)
	if err != nil {
		return 0, fmt.Errorf("vertex buffer: %w", err)
	}

	c := &objectClass{
		handle:       h,
		shapeID:      shapeID,
		kind:         kind,
		vertexBuffer: vb,
		vertexCount:  count,
	}
	r.classes = append(r.classes, c)
	r.byClass[h] = c
	common.Logger().Debug("class added", "class", uint64(h), "shape", shapeID, "kind", kind.String(), "vertices", count)
	return h, nil
}

func (r *registry) AddInstance(h ClassHandle, indices []uint32) (InstanceHandle, error) {
	c, ok := r.byClass[h]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownClass, h)
	}
	data, err := encodeIndices(indices, c.vertexCount)
	if err != nil {
		return 0, err
	}
	inst, err := r.upload(c, data, len(indices))
	if err != nil {
		return 0, err
	}
	r.attach(inst)
	return inst.handle, nil
}

func (r *registry) AddInstances(h ClassHandle, batch [][]uint32) ([]InstanceHandle, error) {
	c, ok := r.byClass[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownClass, h)
	}
	if len(batch) == 0 {
		return nil, nil
	}

	encoded := make([][]byte, len(batch))
	errs := make([]error, len(batch))
	var wg sync.WaitGroup
	for i, indices := range batch {
		wg.Add(1)
		r.pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				encoded[i], errs[i] = encodeIndices(indices, c.vertexCount)
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
	}

	created := make([]*instance, 0, len(batch))
	for i, data := range encoded {
		inst, err := r.upload(c, data, len(batch[i]))
		if err != nil {
			for _, done := range created {
				r.backend.ReleaseBuffer(done.indexBuffer)
			}
			return nil, fmt.Errorf("instance %d: %w", i, err)
		}
		created = append(created, inst)
	}

	handles := make([]InstanceHandle, len(created))
	for i, inst := range created {
		r.attach(inst)
		handles[i] = inst.handle
	}
	return handles, nil
}

// upload creates the index buffer for a validated instance without registering it.
func (r *registry) upload(c *objectClass, data []byte, count int) (*instance, error) {
	r.nextInst++
	h := r.nextInst
	_, ib, err := r.backend.InitMeshBuffers(fmt.Sprintf("instance %d (%s)", h, c.shapeID), nil, data)
	if err != nil {
		return nil, fmt.Errorf("index buffer: %w", err)
	}
	return &instance{handle: h, class: c, indexBuffer: ib, indexCount: uint32(count)}, nil
}

func (r *registry) attach(inst *instance) {
	inst.class.instances = append(inst.class.instances, inst)
	r.byInst[inst.handle] = inst
}

func (r *registry) RemoveInstance(h InstanceHandle) error {
	inst, ok := r.byInst[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownInstance, h)
	}
	if r.inFlight {
		return fmt.Errorf("remove instance %d: %w", h, ErrFrameInFlight)
	}

	c := inst.class
	if i := c.indexOf(inst); i >= 0 {
		c.instances = slices.Delete(c.instances, i, i+1)
	}
	delete(r.byInst, h)
	r.backend.ReleaseBuffer(inst.indexBuffer)
	inst.indexBuffer = nil
	return nil
}

func (r *registry) RemoveClass(h ClassHandle) error {
	c, ok := r.byClass[h]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownClass, h)
	}
	if len(c.instances) > 0 {
		return fmt.Errorf("remove class %d with %d instances: %w", h, len(c.instances), ErrClassNotEmpty)
	}
	if r.inFlight {
		return fmt.Errorf("remove class %d: %w", h, ErrFrameInFlight)
	}

	r.classes = slices.DeleteFunc(r.classes, func(other *objectClass) bool { return other == c })
	delete(r.byClass, h)
	delete(r.warned, h)
	r.backend.ReleaseBuffer(c.vertexBuffer)
	c.vertexBuffer = nil
	return nil
}

func (r *registry) Classes() []ClassInfo {
	out := make([]ClassInfo, len(r.classes))
	for i, c := range r.classes {
		out[i] = c.info()
	}
	return out
}

func (r *registry) Class(h ClassHandle) (ClassInfo, bool) {
	c, ok := r.byClass[h]
	if !ok {
		return ClassInfo{}, false
	}
	return c.info(), true
}

func (r *registry) FlushUniforms() int {
	var writes []bind_group_provider.BufferWrite
	for _, v := range r.set.Compiled() {
		writes = append(writes, v.Flush()...)
	}
	if len(writes) > 0 {
		r.backend.WriteBuffers(writes)
	}
	return len(writes)
}

func (r *registry) FrameSubmitted() {
	r.inFlight = false
}

func (r *registry) FrameAbandoned() {
	r.inFlight = false
}

func (r *registry) InFlight() bool {
	return r.inFlight
}

func (r *registry) OnTargetFormatChanged(format wgpu.TextureFormat) error {
	if r.inFlight {
		return fmt.Errorf("change format to %v: %w", format, ErrFrameInFlight)
	}
	if format == r.format {
		return nil
	}

	demanded := make(map[variant.Kind]struct{})
	for _, k := range r.eager {
		demanded[k] = struct{}{}
	}
	for _, c := range r.classes {
		demanded[c.kind] = struct{}{}
	}
	values := make(map[variant.Kind][]byte)
	for _, v := range r.set.Compiled() {
		demanded[v.Kind()] = struct{}{}
		if val := v.Value(); val != nil {
			values[v.Kind()] = val
		}
	}

	old := r.format
	r.set.Release()
	r.set = variant.NewSet(r.backend, format, r.variantOpts...)
	r.format = format
	clear(r.warned)

	var errs []error
	for _, k := range variant.Kinds() {
		if _, ok := demanded[k]; !ok {
			continue
		}
		v, err := r.set.Compile(k)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if val, ok := values[k]; ok {
			if err := v.Update(val); err != nil {
				errs = append(errs, err)
			}
		}
	}
	common.Logger().Info("render registry rebuilt", "from", old, "to", format, "variants", len(r.set.Compiled()), "failed", len(errs))
	return errors.Join(errs...)
}

func (r *registry) Release() {
	for _, c := range r.classes {
		for _, inst := range c.instances {
			r.backend.ReleaseBuffer(inst.indexBuffer)
			inst.indexBuffer = nil
		}
		c.instances = nil
		r.backend.ReleaseBuffer(c.vertexBuffer)
		c.vertexBuffer = nil
	}
	r.classes = nil
	clear(r.byClass)
	clear(r.byInst)
	clear(r.warned)
	r.set.Release()
	r.inFlight = false
}

// Package scene loads a YAML description of object classes and their instances and places it
// into an output.Registry.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/output"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/variant"
	"github.com/cogentcore/webgpu/wgpu"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is returned when a scene file is malformed.
var ErrInvalidScene = errors.New("invalid scene")

// Scene is a parsed scene file. Geometry, colors and textures are decoded up front so a Scene
// that loaded successfully fails in Apply only for registry reasons.
type Scene interface {
	// Name returns the scene name.
	Name() string

	// ClearColor returns the color frames of this scene are cleared to.
	ClearColor() common.Color

	// Kinds returns the distinct variant kinds the classes use, in first-use order.
	Kinds() []variant.Kind

	// RegistryOptions returns the options a Registry drawing this scene should be created with:
	// the variant uniforms and images, and eager compilation of every kind in Kinds.
	RegistryOptions() []output.RegistryBuilderOption

	// Apply adds every class and its instances to reg in file order. On failure the classes
	// added so far are removed again. Removal is refused while a frame is in flight; the
	// returned Placement then holds what is still in reg and the error joins both failures.
	//
	// Parameters:
	//   - reg: the registry to populate
	//
	// Returns:
	//   - Placement: the handles that were issued, or those left behind by a failed rollback
	//   - error: the first registry error, naming the failing class, joined with any rollback errors
	Apply(reg output.Registry) (Placement, error)
}

// PlacedClass is one class added by Apply.
type PlacedClass struct {
	ShapeID   string
	Class     output.ClassHandle
	Instances []output.InstanceHandle
}

// Placement records the handles Apply issued.
type Placement struct {
	Classes []PlacedClass
}

// Remove removes every placed instance and class from reg.
//
// Parameters:
//   - reg: the registry the placement was applied to
//
// Returns:
//   - error: joined removal errors, nil if everything was removed
func (p Placement) Remove(reg output.Registry) error {
	var errs []error
	for i := len(p.Classes) - 1; i >= 0; i-- {
		pc := p.Classes[i]
		for _, h := range pc.Instances {
			if err := reg.RemoveInstance(h); err != nil {
				errs = append(errs, err)
			}
		}
		if err := reg.RemoveClass(pc.Class); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type class struct {
	shapeID  string
	kind     variant.Kind
	vertices []byte
	batch    [][]uint32
}

type scene struct {
	name  string
	clear common.Color

	classes    []class
	kinds      []variant.Kind
	variantOps []variant.SetBuilderOption

	baseDir  string
	segments int
}

var _ Scene = &scene{}

// Load reads and parses the scene file at path. Relative texture paths resolve against the
// directory of the file unless WithBaseDir says otherwise.
//
// Parameters:
//   - path: the YAML file
//   - options: functional options to configure parsing
//
// Returns:
//   - Scene: the parsed scene
//   - error: error if the file cannot be read or is invalid
func Load(path string, options ...SceneBuilderOption) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	return Parse(data, append([]SceneBuilderOption{WithBaseDir(filepath.Dir(path))}, options...)...)
}

// Parse parses a scene document. Unknown fields are rejected.
//
// Parameters:
//   - data: the YAML document
//   - options: functional options to configure parsing
//
// Returns:
//   - Scene: the parsed scene
//   - error: an ErrInvalidScene error describing the first problem
func Parse(data []byte, options ...SceneBuilderOption) (Scene, error) {
	s := &scene{
		clear:    common.Black,
		segments: 48,
	}
	for _, opt := range options {
		opt(s)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScene)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	s.name = doc.Name
	if doc.Clear != "" {
		c, err := common.ParseHexColor(doc.Clear)
		if err != nil {
			return nil, fmt.Errorf("%w: clear: %v", ErrInvalidScene, err)
		}
		s.clear = c
	}

	ops, err := s.parseVariants(doc.Variants)
	if err != nil {
		return nil, fmt.Errorf("%w: variants: %v", ErrInvalidScene, err)
	}
	s.variantOps = ops

	seen := make(map[variant.Kind]bool)
	for i, cd := range doc.Classes {
		c, err := s.parseClass(i, cd)
		if err != nil {
			return nil, fmt.Errorf("%w: class %d (%s): %v", ErrInvalidScene, i, cd.Shape, err)
		}
		s.classes = append(s.classes, c)
		if !seen[c.kind] {
			seen[c.kind] = true
			s.kinds = append(s.kinds, c.kind)
		}
	}
	return s, nil
}

func (s *scene) parseClass(i int, cd classDoc) (class, error) {
	kind, err := variant.ParseKind(cd.Variant)
	if err != nil {
		return class{}, err
	}
	m, err := cd.Geometry.mesh(s.segments)
	if err != nil {
		return class{}, err
	}
	vertices, err := cd.vertices(kind, m)
	if err != nil {
		return class{}, err
	}
	id := cd.Shape
	if id == "" {
		id = fmt.Sprintf("class%d", i)
	}
	return class{
		shapeID:  id,
		kind:     kind,
		vertices: vertices,
		batch:    cd.indices(m),
	}, nil
}

func (s *scene) parseVariants(vd variantsDoc) ([]variant.SetBuilderOption, error) {
	var ops []variant.SetBuilderOption

	if vd.Color != "" {
		c, err := common.ParseHexColor(vd.Color)
		if err != nil {
			return nil, fmt.Errorf("color: %w", err)
		}
		ops = append(ops, variant.WithColor(c))
	}

	if vd.Blur != nil {
		tint := common.Transparent
		if vd.Blur.Tint != "" {
			c, err := common.ParseHexColor(vd.Blur.Tint)
			if err != nil {
				return nil, fmt.Errorf("blur tint: %w", err)
			}
			tint = c
		}
		ops = append(ops, variant.WithBlur(vd.Blur.Radius, tint))
	}

	if vd.Texture != "" {
		tex, err := s.decode(vd.Texture)
		if err != nil {
			return nil, err
		}
		ops = append(ops, variant.WithTexture(tex))
	}

	if vd.Backdrop != "" {
		tex, err := s.decode(vd.Backdrop)
		if err != nil {
			return nil, err
		}
		ops = append(ops, variant.WithBackdrop(tex))
	}

	switch vd.Filter {
	case "", "linear":
	case "nearest":
		ops = append(ops, variant.WithSampler(common.SamplerStagingData{
			AddressModeU: wgpu.AddressModeClampToEdge,
			AddressModeV: wgpu.AddressModeClampToEdge,
			AddressModeW: wgpu.AddressModeClampToEdge,
			MagFilter:    wgpu.FilterModeNearest,
			MinFilter:    wgpu.FilterModeNearest,
			MipmapFilter: wgpu.MipmapFilterModeNearest,
			LodMaxClamp:  32,
		}))
	default:
		return nil, fmt.Errorf("unknown filter %q", vd.Filter)
	}

	return ops, nil
}

func (s *scene) decode(path string) (common.TextureStagingData, error) {
	if !filepath.IsAbs(path) && s.baseDir != "" {
		path = filepath.Join(s.baseDir, path)
	}
	return common.TextureSource{Path: path}.Decode()
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) ClearColor() common.Color {
	return s.clear
}

func (s *scene) Kinds() []variant.Kind {
	return append([]variant.Kind(nil), s.kinds...)
}

func (s *scene) RegistryOptions() []output.RegistryBuilderOption {
	return []output.RegistryBuilderOption{
		output.WithEagerVariants(s.kinds...),
		output.WithVariantOptions(s.variantOps...),
	}
}

func (s *scene) Apply(reg output.Registry) (Placement, error) {
	var p Placement
	for _, c := range s.classes {
		h, err := reg.AddClass(c.shapeID, c.kind, c.vertices)
		if err != nil {
			return p.rollback(reg, fmt.Errorf("class %s: %w", c.shapeID, err))
		}
		p.Classes = append(p.Classes, PlacedClass{ShapeID: c.shapeID, Class: h})

		instances, err := reg.AddInstances(h, c.batch)
		if err != nil {
			return p.rollback(reg, fmt.Errorf("class %s: %w", c.shapeID, err))
		}
		p.Classes[len(p.Classes)-1].Instances = instances
	}
	return p, nil
}

// rollback removes p from reg after cause stopped an Apply. If removal fails too, p is returned
// with the removal errors joined to cause so the caller can retry p.Remove later.
func (p Placement) rollback(reg output.Registry, cause error) (Placement, error) {
	if err := p.Remove(reg); err != nil {
		common.Logger().Warn("scene rollback incomplete", "classes", len(p.Classes), "error", err)
		return p, errors.Join(cause, err)
	}
	return Placement{}, cause
}

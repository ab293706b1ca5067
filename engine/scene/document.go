package scene

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vector/common"
	"github.com/Carmen-Shannon/oxy-vector/engine/renderer/variant"
	"github.com/Carmen-Shannon/oxy-vector/engine/shape"
)

// document is the YAML layout of a scene file.
type document struct {
	Name     string      `yaml:"name"`
	Clear    string      `yaml:"clear"`
	Variants variantsDoc `yaml:"variants"`
	Classes  []classDoc  `yaml:"classes"`
}

// variantsDoc configures the per-variant uniforms and images shared by every class of a kind.
type variantsDoc struct {
	Color    string   `yaml:"color"`
	Blur     *blurDoc `yaml:"blur"`
	Texture  string   `yaml:"texture"`
	Backdrop string   `yaml:"backdrop"`
	Filter   string   `yaml:"filter"`
}

type blurDoc struct {
	Radius float32 `yaml:"radius"`
	Tint   string  `yaml:"tint"`
}

// classDoc is one object class: a shape, the variant that draws it, and its instances.
type classDoc struct {
	Shape     string        `yaml:"shape"`
	Variant   string        `yaml:"variant"`
	Geometry  geometryDoc   `yaml:"geometry"`
	Colors    []string      `yaml:"colors"`
	Instances []instanceDoc `yaml:"instances"`
}

type geometryDoc struct {
	Type     string       `yaml:"type"`
	X        float32      `yaml:"x"`
	Y        float32      `yaml:"y"`
	Width    float32      `yaml:"width"`
	Height   float32      `yaml:"height"`
	Center   [2]float32   `yaml:"center"`
	Radius   float32      `yaml:"radius"`
	RadiusX  float32      `yaml:"radius_x"`
	RadiusY  float32      `yaml:"radius_y"`
	Segments int          `yaml:"segments"`
	Points   [][2]float32 `yaml:"points"`
}

// instanceDoc lists an instance's indices. An empty list draws the whole mesh.
type instanceDoc struct {
	Indices []uint32 `yaml:"indices"`
}

// mesh triangulates the geometry.
//
// Parameters:
//   - segments: outline segments for circles and ellipses that do not set their own
//
// Returns:
//   - shape.Mesh: the triangulated geometry
//   - error: error if the type is unknown or the geometry is degenerate
func (g geometryDoc) mesh(segments int) (shape.Mesh, error) {
	if g.Segments > 0 {
		segments = g.Segments
	}
	switch g.Type {
	case "rect":
		if g.Width <= 0 || g.Height <= 0 {
			return shape.Mesh{}, fmt.Errorf("%w: rect needs a positive size, got %gx%g", shape.ErrDegenerate, g.Width, g.Height)
		}
		return shape.Rect(g.X, g.Y, g.Width, g.Height), nil
	case "circle":
		return shape.Circle(g.Center[0], g.Center[1], g.Radius, segments)
	case "ellipse":
		return shape.Ellipse(g.Center[0], g.Center[1], common.Coalesce(g.RadiusX, g.Radius), common.Coalesce(g.RadiusY, g.Radius), segments)
	case "polygon":
		return shape.Polygon(g.Points)
	default:
		return shape.Mesh{}, fmt.Errorf("unknown geometry type %q", g.Type)
	}
}

// vertices encodes the mesh in the layout kind consumes.
func (c classDoc) vertices(kind variant.Kind, m shape.Mesh) ([]byte, error) {
	switch kind {
	case variant.KindVertexColor:
		colors := make([]common.Color, len(c.Colors))
		for i, s := range c.Colors {
			col, err := common.ParseHexColor(s)
			if err != nil {
				return nil, err
			}
			colors[i] = col
		}
		return shape.EncodeColorVertices(m.Positions, colors), nil
	case variant.KindTexture:
		return shape.EncodeTexturedVertices(m.Positions, m.UVs()), nil
	default:
		return shape.EncodeVertices(m.Positions), nil
	}
}

// indices returns the index list of every instance, defaulting to one instance of the whole mesh.
func (c classDoc) indices(m shape.Mesh) [][]uint32 {
	if len(c.Instances) == 0 {
		return [][]uint32{m.Indices}
	}
	out := make([][]uint32, len(c.Instances))
	for i, inst := range c.Instances {
		out[i] = inst.Indices
		if len(out[i]) == 0 {
			out[i] = m.Indices
		}
	}
	return out
}

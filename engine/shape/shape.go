// Package shape builds triangulated 2-D geometry in clip space. A Mesh is the CPU-side source
// for one object class: its positions become the shared vertex buffer and its indices form
// the default instance.
package shape

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrDegenerate is returned when a shape has too few points or segments to form a triangle.
var ErrDegenerate = errors.New("shape: degenerate geometry")

// Mesh is an indexed triangle list.
type Mesh struct {
	Positions [][2]float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m Mesh) VertexCount() int {
	return len(m.Positions)
}

// Bounds returns the axis aligned bounding box of the mesh as (minX, minY, maxX, maxY).
func (m Mesh) Bounds() (minX, minY, maxX, maxY float32) {
	if len(m.Positions) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = m.Positions[0][0], m.Positions[0][1]
	maxX, maxY = minX, minY
	for _, p := range m.Positions[1:] {
		minX = math32.Min(minX, p[0])
		minY = math32.Min(minY, p[1])
		maxX = math32.Max(maxX, p[0])
		maxY = math32.Max(maxY, p[1])
	}
	return minX, minY, maxX, maxY
}

// UVs maps every vertex into [0, 1] texture space using the mesh bounding box.
// V grows downward so that image rows map top to bottom.
func (m Mesh) UVs() [][2]float32 {
	minX, minY, maxX, maxY := m.Bounds()
	w, h := maxX-minX, maxY-minY
	out := make([][2]float32, len(m.Positions))
	for i, p := range m.Positions {
		var u, v float32
		if w > 0 {
			u = (p[0] - minX) / w
		}
		if h > 0 {
			v = 1 - (p[1]-minY)/h
		}
		out[i] = [2]float32{u, v}
	}
	return out
}

// Translate returns a copy of the mesh with every position offset by (dx, dy).
func (m Mesh) Translate(dx, dy float32) Mesh {
	out := Mesh{
		Positions: make([][2]float32, len(m.Positions)),
		Indices:   append([]uint32(nil), m.Indices...),
	}
	for i, p := range m.Positions {
		out.Positions[i] = [2]float32{p[0] + dx, p[1] + dy}
	}
	return out
}

// Rect returns a quad with its lower-left corner at (x, y). Four vertices, six indices.
//
// Parameters:
//   - x, y: lower-left corner in clip space
//   - w, h: width and height
//
// Returns:
//   - Mesh: the triangulated quad
func Rect(x, y, w, h float32) Mesh {
	return Mesh{
		Positions: [][2]float32{
			{x, y},
			{x + w, y},
			{x + w, y + h},
			{x, y + h},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Polygon triangulates a convex polygon as a fan around its first point.
// Points must be in winding order; concave input produces overlapping triangles.
//
// Parameters:
//   - points: the polygon outline
//
// Returns:
//   - Mesh: the fan triangulation
//   - error: ErrDegenerate if fewer than three points are provided
func Polygon(points [][2]float32) (Mesh, error) {
	if len(points) < 3 {
		return Mesh{}, fmt.Errorf("%w: polygon needs at least 3 points, got %d", ErrDegenerate, len(points))
	}
	m := Mesh{
		Positions: append([][2]float32(nil), points...),
		Indices:   make([]uint32, 0, (len(points)-2)*3),
	}
	for i := 1; i < len(points)-1; i++ {
		m.Indices = append(m.Indices, 0, uint32(i), uint32(i+1))
	}
	return m, nil
}

// Ellipse returns a triangle fan approximating an ellipse. The center is vertex 0.
//
// Parameters:
//   - cx, cy: center
//   - rx, ry: horizontal and vertical radius
//   - segments: number of outline segments, at least 3
//
// Returns:
//   - Mesh: the fan triangulation
//   - error: ErrDegenerate if segments < 3
func Ellipse(cx, cy, rx, ry float32, segments int) (Mesh, error) {
	if segments < 3 {
		return Mesh{}, fmt.Errorf("%w: ellipse needs at least 3 segments, got %d", ErrDegenerate, segments)
	}
	m := Mesh{
		Positions: make([][2]float32, 0, segments+1),
		Indices:   make([]uint32, 0, segments*3),
	}
	m.Positions = append(m.Positions, [2]float32{cx, cy})
	step := 2 * math32.Pi / float32(segments)
	for i := range segments {
		s, c := math32.Sincos(step * float32(i))
		m.Positions = append(m.Positions, [2]float32{cx + rx*c, cy + ry*s})
	}
	for i := 1; i <= segments; i++ {
		next := i%segments + 1
		m.Indices = append(m.Indices, 0, uint32(i), uint32(next))
	}
	return m, nil
}

// Circle is Ellipse with equal radii.
func Circle(cx, cy, r float32, segments int) (Mesh, error) {
	return Ellipse(cx, cy, r, r, segments)
}

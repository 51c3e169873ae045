// Package mesh holds the host-side triangle buffers shared between the physics core and the
// render path: positions, per-vertex normals and a triangle index list.
package mesh

import (
	"math"

	"github.com/akmonengine/tether/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Vertex is a single buffer entry.
type Vertex struct {
	Position mgl64.Vec3
	Normal   mgl64.Vec3
}

// Mesh is an indexed triangle mesh. Indices holds 3 entries per triangle, counter-clockwise.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Indices) < 3
}

// Clone returns a deep copy of the buffers.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  make([]uint32, len(m.Indices)),
	}
	copy(c.Vertices, m.Vertices)
	copy(c.Indices, m.Indices)
	return c
}

// Bounds returns the AABB of the vertex positions, or a zero box for an empty mesh.
func (m *Mesh) Bounds() geometry.AABB {
	points := make([]mgl64.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		points[i] = v.Position
	}
	return geometry.AABBFromPoints(points)
}

// Center returns the center of the vertex bounds.
func (m *Mesh) Center() mgl64.Vec3 {
	return m.Bounds().Center()
}

// Triangles returns the triangles of the mesh in the space of its vertices.
// Triangles referencing a vertex out of range are skipped.
func (m *Mesh) Triangles() []geometry.Triangle {
	triangles := make([]geometry.Triangle, 0, m.TriangleCount())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c, ok := m.triangle(i)
		if !ok {
			continue
		}
		triangles = append(triangles, geometry.NewTriangle(a, b, c))
	}
	return triangles
}

// RecomputeNormals rebuilds every vertex normal from the face normals of the triangles using it.
// Degenerate faces contribute nothing, and a vertex left without a direction keeps a zero normal.
func (m *Mesh) RecomputeNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = mgl64.Vec3{}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c, ok := m.triangle(i)
		if !ok {
			continue
		}
		face, ok := geometry.SafeNormalize(b.Sub(a).Cross(c.Sub(a)))
		if !ok {
			continue
		}
		for _, idx := range m.Indices[i : i+3] {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(face)
		}
	}

	for i := range m.Vertices {
		n, ok := geometry.SafeNormalize(m.Vertices[i].Normal)
		if !ok {
			n = mgl64.Vec3{}
		}
		m.Vertices[i].Normal = n
	}
}

// Weld merges vertices closer than tolerance, rewriting the index list.
// Normals of merged vertices are recomputed.
func (m *Mesh) Weld(tolerance float64) {
	if tolerance <= 0 {
		tolerance = geometry.Epsilon
	}

	type cell [3]int64
	key := func(p mgl64.Vec3) cell {
		return cell{
			int64(math.Round(p.X() / tolerance)),
			int64(math.Round(p.Y() / tolerance)),
			int64(math.Round(p.Z() / tolerance)),
		}
	}

	lookup := make(map[cell]uint32, len(m.Vertices))
	remap := make([]uint32, len(m.Vertices))
	welded := make([]Vertex, 0, len(m.Vertices))
	for i, v := range m.Vertices {
		k := key(v.Position)
		if idx, ok := lookup[k]; ok {
			remap[i] = idx
			continue
		}
		idx := uint32(len(welded))
		lookup[k] = idx
		remap[i] = idx
		welded = append(welded, v)
	}

	for i, idx := range m.Indices {
		if int(idx) < len(remap) {
			m.Indices[i] = remap[idx]
		}
	}
	m.Vertices = welded
	m.RecomputeNormals()
}

// Edges returns each undirected triangle edge once, as vertex index pairs with the lower index first.
func (m *Mesh) Edges() [][2]uint32 {
	seen := make(map[[2]uint32]bool)
	var edges [][2]uint32
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := m.Indices[i : i+3]
		for j := 0; j < 3; j++ {
			a, b := tri[j], tri[(j+1)%3]
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			e := [2]uint32{a, b}
			if !seen[e] {
				seen[e] = true
				edges = append(edges, e)
			}
		}
	}
	return edges
}

func (m *Mesh) triangle(first int) (a, b, c mgl64.Vec3, ok bool) {
	n := uint32(len(m.Vertices))
	i0, i1, i2 := m.Indices[first], m.Indices[first+1], m.Indices[first+2]
	if i0 >= n || i1 >= n || i2 >= n {
		return a, b, c, false
	}
	return m.Vertices[i0].Position, m.Vertices[i1].Position, m.Vertices[i2].Position, true
}

// Grid builds a flat rectangular sheet in the XZ plane centered on the origin, facing +Y,
// with cols x rows quads.
func Grid(width, depth float64, cols, rows int) *Mesh {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	m := &Mesh{}
	for r := 0; r <= rows; r++ {
		for c := 0; c <= cols; c++ {
			m.Vertices = append(m.Vertices, Vertex{
				Position: mgl64.Vec3{
					width * (float64(c)/float64(cols) - 0.5),
					0,
					depth * (float64(r)/float64(rows) - 0.5),
				},
				Normal: mgl64.Vec3{0, 1, 0},
			})
		}
	}

	stride := uint32(cols + 1)
	for r := uint32(0); r < uint32(rows); r++ {
		for c := uint32(0); c < uint32(cols); c++ {
			i := r*stride + c
			m.Indices = append(m.Indices,
				i, i+stride, i+1,
				i+1, i+stride, i+stride+1,
			)
		}
	}

	return m
}

package mesh

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultCells is the marching cubes resolution along the longest side of the SDF bounds.
const DefaultCells = 24

// FromSDF tessellates a signed distance field with marching cubes and welds the resulting
// triangle soup into an indexed mesh.
func FromSDF(s sdf.SDF3, cells int) (*Mesh, error) {
	if s == nil {
		return nil, fmt.Errorf("mesh: nil sdf")
	}
	if cells <= 0 {
		cells = DefaultCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("mesh: sdf produced no triangles at %d cells", cells)
	}

	m := &Mesh{
		Vertices: make([]Vertex, 0, len(triangles)*3),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for i, tri := range triangles {
		n := tri.Normal()
		normal := mgl64.Vec3{n.X, n.Y, n.Z}
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Vertices = append(m.Vertices, Vertex{Position: mgl64.Vec3{v.X, v.Y, v.Z}, Normal: normal})
			m.Indices = append(m.Indices, uint32(i*3+j))
		}
	}

	bb := s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	m.Weld(max(size.X, size.Y, size.Z) / float64(cells) * 1e-3)

	return m, nil
}

// Sphere tessellates a sphere of the given radius centered on the origin.
func Sphere(radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("mesh: sphere: %w", err)
	}
	return FromSDF(s, cells)
}

// Box tessellates a box of the given full size centered on the origin.
func Box(size mgl64.Vec3, cells int) (*Mesh, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X(), Y: size.Y(), Z: size.Z()}, 0)
	if err != nil {
		return nil, fmt.Errorf("mesh: box: %w", err)
	}
	return FromSDF(s, cells)
}

// Cylinder tessellates a cylinder along the Z axis centered on the origin.
func Cylinder(height, radius float64, cells int) (*Mesh, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("mesh: cylinder: %w", err)
	}
	return FromSDF(s, cells)
}

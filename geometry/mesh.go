package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
)

// TriangleIndex prunes a mesh's local-space triangles against a local-space box.
// Query appends to out the indices of every triangle whose bounds may overlap box; it may
// return extra candidates but must never miss one.
type TriangleIndex interface {
	Query(box AABB, out []int) []int
}

// Mesh is a triangle mesh collider in local space, with one bounding sphere per triangle.
// Index is optional; without it every triangle is a candidate.
type Mesh struct {
	Triangles []Triangle
	Spheres   []Sphere
	Index     TriangleIndex

	bounds AABB
}

// NewMesh builds a mesh collider from local-space triangles.
func NewMesh(triangles []Triangle) *Mesh {
	m := &Mesh{
		Triangles: triangles,
		Spheres:   make([]Sphere, len(triangles)),
	}

	for i, t := range triangles {
		m.Spheres[i] = t.BoundingSphere()
		if i == 0 {
			m.bounds = t.Bounds()
		} else {
			m.bounds = m.bounds.Union(t.Bounds())
		}
	}

	return m
}

// Bounds returns the local-space AABB of all triangles.
func (m *Mesh) Bounds() AABB {
	return m.bounds
}

// candidates returns the indices of the triangles worth testing against the world-space box,
// using the index when present. Each candidate still has to pass its bounding sphere test.
func (m *Mesh) candidates(world AABB, transform mgl64.Mat4, buf []int) []int {
	buf = buf[:0]

	if m.Index != nil {
		local := world.Transform(transform.Inv())
		return m.Index.Query(local, buf)
	}

	for i := range m.Triangles {
		buf = append(buf, i)
	}
	return buf
}

// forEachTriangle calls fn with every world-space triangle passing the prefilters against the
// world-space box. It stops early when fn returns false.
func (m *Mesh) forEachTriangle(world AABB, transform mgl64.Mat4, fn func(Triangle) bool) {
	for _, i := range m.candidates(world, transform, nil) {
		if i < 0 || i >= len(m.Triangles) {
			continue
		}
		sphere := m.Spheres[i].Transform(transform)
		if !CollideSphereAABB(sphere, world, true, nil) {
			continue
		}
		if !fn(m.Triangles[i].Transform(transform)) {
			return
		}
	}
}

// CollideSphereMesh accumulates every triangle contact with the sphere. Normals point toward the sphere.
func CollideSphereMesh(s Sphere, m *Mesh, transform mgl64.Mat4, out *Contacts) bool {
	hit := false
	m.forEachTriangle(s.Bounds(), transform, func(t Triangle) bool {
		if CollideSphereTriangle(s, t, out) {
			hit = true
		}
		return true
	})
	return hit
}

// CollideAABBMesh accumulates every triangle contact with the box. Normals point toward the box.
func CollideAABBMesh(box AABB, m *Mesh, transform mgl64.Mat4, out *Contacts) bool {
	hit := false
	m.forEachTriangle(box, transform, func(t Triangle) bool {
		if CollideAABBTriangle(box, t, out) {
			hit = true
		}
		return true
	})
	return hit
}

// CollideCapsuleMesh accumulates every triangle contact with the capsule. Normals point toward the capsule.
func CollideCapsuleMesh(c Capsule, m *Mesh, transform mgl64.Mat4, out *Contacts) bool {
	hit := false
	m.forEachTriangle(c.Bounds(), transform, func(t Triangle) bool {
		if CollideCapsuleTriangle(c, t, out) {
			hit = true
		}
		return true
	})
	return hit
}

// CollideTriangleMesh accumulates every mesh triangle touching t. Normals point toward t.
func CollideTriangleMesh(t Triangle, m *Mesh, transform mgl64.Mat4, out *Contacts) bool {
	hit := false
	m.forEachTriangle(t.Bounds(), transform, func(other Triangle) bool {
		if CollideTriangleTriangle(t, other, out) {
			hit = true
		}
		return true
	})
	return hit
}

// CollidePlaneMesh reports the mesh triangles touching the plane. Normals point away from each triangle.
func CollidePlaneMesh(p Plane, m *Mesh, transform mgl64.Mat4, out *Contacts) bool {
	hit := false
	for _, t := range m.Triangles {
		start := out.Len()
		if CollideTrianglePlane(t.Transform(transform), p, out) {
			out.FlipFrom(start)
			hit = true
		}
	}
	return hit
}

// CollideMeshMesh prunes b's triangles against a's world bounds, then a's triangles against each
// candidate of b, and runs the triangle pair test. Normals point toward mesh a.
func CollideMeshMesh(a *Mesh, ta mgl64.Mat4, b *Mesh, tb mgl64.Mat4, out *Contacts) bool {
	hit := false
	worldA := a.Bounds().Transform(ta)

	b.forEachTriangle(worldA, tb, func(triB Triangle) bool {
		a.forEachTriangle(triB.Bounds(), ta, func(triA Triangle) bool {
			if CollideTriangleTriangle(triA, triB, out) {
				hit = true
			}
			return true
		})
		return true
	})

	return hit
}

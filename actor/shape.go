package actor

import (
	"math"

	"github.com/akmonengine/tether/bvh"
	"github.com/akmonengine/tether/geometry"
	"github.com/akmonengine/tether/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypePlane
	ShapeTypeTriangle
	ShapeTypeAABB
	ShapeTypeCapsule
	ShapeTypeMesh
)

func (s ShapeType) String() string {
	switch s {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypePlane:
		return "plane"
	case ShapeTypeTriangle:
		return "triangle"
	case ShapeTypeAABB:
		return "aabb"
	case ShapeTypeCapsule:
		return "capsule"
	case ShapeTypeMesh:
		return "mesh"
	}
	return "unknown"
}

// Shape is immutable local-space collision geometry. World-space forms are derived from a
// transform matrix on every query and never cached.
type Shape interface {
	Type() ShapeType
	// WorldAABB returns the world bounds of the shape under transform
	WorldAABB(transform mgl64.Mat4) geometry.AABB
	// Raycast casts a world-space ray against the shape under transform
	Raycast(origin, direction mgl64.Vec3, transform mgl64.Mat4, maxDistance float64) (geometry.RaycastHit, bool)
}

// Sphere is a sphere centered on the object origin
type Sphere struct {
	Radius float64
}

func (s *Sphere) Type() ShapeType { return ShapeTypeSphere }

// World returns the sphere in world space. Non-uniform scale uses the largest axis.
func (s *Sphere) World(transform mgl64.Mat4) geometry.Sphere {
	return geometry.Sphere{Radius: s.Radius}.Transform(transform)
}

func (s *Sphere) WorldAABB(transform mgl64.Mat4) geometry.AABB {
	return s.World(transform).Bounds()
}

func (s *Sphere) Raycast(origin, direction mgl64.Vec3, transform mgl64.Mat4, maxDistance float64) (geometry.RaycastHit, bool) {
	return geometry.RaycastSphere(origin, direction, s.World(transform), maxDistance)
}

// Plane represents an infinite plane: Normal · p = Distance in local space.
// Normal must be normalized.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

func (p *Plane) Type() ShapeType { return ShapeTypePlane }

func (p *Plane) World(transform mgl64.Mat4) geometry.Plane {
	return geometry.Plane{Normal: p.Normal, D: p.Distance}.Transform(transform)
}

// WorldAABB returns a slab of thickness 1 below the plane surface, unbounded along every axis
// the normal is not aligned with.
func (p *Plane) WorldAABB(transform mgl64.Mat4) geometry.AABB {
	const thickness = 1.0
	const infinity = 1e10

	world := p.World(transform)
	planePoint := world.Normal.Mul(world.D)

	bounds := geometry.AABBFromPoints([]mgl64.Vec3{planePoint, planePoint.Sub(world.Normal.Mul(thickness))})
	for i := 0; i < 3; i++ {
		if math.Abs(world.Normal[i]) < 1-1e-9 {
			bounds.Min[i] = -infinity
			bounds.Max[i] = infinity
		}
	}

	return bounds
}

func (p *Plane) Raycast(origin, direction mgl64.Vec3, transform mgl64.Mat4, maxDistance float64) (geometry.RaycastHit, bool) {
	return geometry.RaycastPlane(origin, direction, p.World(transform), maxDistance)
}

// Triangle is a single triangle in local space, counter-clockwise
type Triangle struct {
	V1, V2, V3 mgl64.Vec3
}

func (t *Triangle) Type() ShapeType { return ShapeTypeTriangle }

func (t *Triangle) World(transform mgl64.Mat4) geometry.Triangle {
	return geometry.NewTriangle(t.V1, t.V2, t.V3).Transform(transform)
}

func (t *Triangle) WorldAABB(transform mgl64.Mat4) geometry.AABB {
	return t.World(transform).Bounds()
}

func (t *Triangle) Raycast(origin, direction mgl64.Vec3, transform mgl64.Mat4, maxDistance float64) (geometry.RaycastHit, bool) {
	return geometry.RaycastTriangle(origin, direction, t.World(transform), maxDistance)
}

// Box is an axis-aligned box centered on the object origin, defined by its half-extents.
// Its world form stays axis-aligned: a rotation grows the box to enclose the rotated corners.
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Type() ShapeType { return ShapeTypeAABB }

func (b *Box) World(transform mgl64.Mat4) geometry.AABB {
	return geometry.AABB{Min: b.HalfExtents.Mul(-1), Max: b.HalfExtents}.Transform(transform)
}

func (b *Box) WorldAABB(transform mgl64.Mat4) geometry.AABB {
	return b.World(transform)
}

func (b *Box) Raycast(origin, direction mgl64.Vec3, transform mgl64.Mat4, maxDistance float64) (geometry.RaycastHit, bool) {
	return geometry.RaycastAABB(origin, direction, b.World(transform), maxDistance)
}

// Capsule is a segment along the local Y axis from -HalfHeight to +HalfHeight, swept by Radius
type Capsule struct {
	HalfHeight float64
	Radius     float64
}

func (c *Capsule) Type() ShapeType { return ShapeTypeCapsule }

func (c *Capsule) World(transform mgl64.Mat4) geometry.Capsule {
	return geometry.Capsule{
		A:      mgl64.Vec3{0, -c.HalfHeight, 0},
		B:      mgl64.Vec3{0, c.HalfHeight, 0},
		Radius: c.Radius,
	}.Transform(transform)
}

func (c *Capsule) WorldAABB(transform mgl64.Mat4) geometry.AABB {
	return c.World(transform).Bounds()
}

// Raycast tests the capsule's two end spheres and keeps the nearest hit.
// The cylindrical body is not tested.
func (c *Capsule) Raycast(origin, direction mgl64.Vec3, transform mgl64.Mat4, maxDistance float64) (geometry.RaycastHit, bool) {
	world := c.World(transform)
	best, found := geometry.RaycastSphere(origin, direction, geometry.Sphere{Center: world.A, Radius: world.Radius}, maxDistance)
	if hit, ok := geometry.RaycastSphere(origin, direction, geometry.Sphere{Center: world.B, Radius: world.Radius}, maxDistance); ok {
		if !found || hit.Distance < best.Distance {
			best, found = hit, true
		}
	}
	return best, found
}

// Mesh is a triangle mesh collider. The per-triangle bounding spheres and the BVH are
// built once by NewMesh and never rebuilt.
type Mesh struct {
	Collider *geometry.Mesh
	Root     *bvh.Node
}

// NewMesh builds a mesh collider from local-space triangles
func NewMesh(triangles []geometry.Triangle) *Mesh {
	collider := geometry.NewMesh(triangles)
	root := bvh.Build(triangles)
	if root != nil {
		collider.Index = root
	}

	return &Mesh{Collider: collider, Root: root}
}

// NewMeshFromBuffers builds a mesh collider from the current vertex positions of a host mesh
func NewMeshFromBuffers(m *mesh.Mesh) *Mesh {
	return NewMesh(m.Triangles())
}

func (m *Mesh) Type() ShapeType { return ShapeTypeMesh }

func (m *Mesh) WorldAABB(transform mgl64.Mat4) geometry.AABB {
	return m.Collider.Bounds().Transform(transform)
}

func (m *Mesh) Raycast(origin, direction mgl64.Vec3, transform mgl64.Mat4, maxDistance float64) (geometry.RaycastHit, bool) {
	return geometry.RaycastMesh(origin, direction, m.Collider, transform, maxDistance)
}

package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RaycastHit describes where a ray met a shape.
type RaycastHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// RaycastAABB intersects a ray with a box using the slab method.
// A ray starting inside the box reports its exit point.
func RaycastAABB(origin, direction mgl64.Vec3, box AABB, maxDistance float64) (RaycastHit, bool) {
	dir, ok := SafeNormalize(direction)
	if !ok {
		return RaycastHit{}, false
	}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	enterAxis, exitAxis := -1, -1
	enterSign, exitSign := 0.0, 0.0

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < Epsilon {
			// parallel to this slab: must already be between its planes
			if origin[i] < box.Min[i] || origin[i] > box.Max[i] {
				return RaycastHit{}, false
			}
			continue
		}

		inv := 1.0 / dir[i]
		t1 := (box.Min[i] - origin[i]) * inv
		t2 := (box.Max[i] - origin[i]) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1.0
		}

		if t1 > tMin {
			tMin = t1
			enterAxis = i
			enterSign = sign
		}
		if t2 < tMax {
			tMax = t2
			exitAxis = i
			exitSign = -sign
		}
		if tMin > tMax {
			return RaycastHit{}, false
		}
	}

	if tMax < 0 {
		return RaycastHit{}, false
	}

	t, axis, sign := tMin, enterAxis, enterSign
	if t < 0 {
		t, axis, sign = tMax, exitAxis, exitSign
	}
	if t > maxDistance || axis < 0 {
		return RaycastHit{}, false
	}

	var normal mgl64.Vec3
	normal[axis] = sign

	return RaycastHit{Point: origin.Add(dir.Mul(t)), Normal: normal, Distance: t}, true
}

// RaycastSphere intersects a ray with a sphere by solving the quadratic.
func RaycastSphere(origin, direction mgl64.Vec3, s Sphere, maxDistance float64) (RaycastHit, bool) {
	dir, ok := SafeNormalize(direction)
	if !ok {
		return RaycastHit{}, false
	}

	oc := origin.Sub(s.Center)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := b*b - c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	sq := math.Sqrt(discriminant)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := origin.Add(dir.Mul(t))
	normal := normalizeOr(point.Sub(s.Center), dir.Mul(-1))

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

// RaycastTriangle intersects a ray with a triangle (Möller-Trumbore). Both faces are hit;
// the reported normal is the triangle's face normal.
func RaycastTriangle(origin, direction mgl64.Vec3, tri Triangle, maxDistance float64) (RaycastHit, bool) {
	dir, ok := SafeNormalize(direction)
	if !ok {
		return RaycastHit{}, false
	}

	t, ok := intersectRayTriangle(origin, dir, tri)
	if !ok || t > maxDistance {
		return RaycastHit{}, false
	}

	return RaycastHit{Point: origin.Add(dir.Mul(t)), Normal: tri.Normal, Distance: t}, true
}

// RaycastMesh scans every triangle of the mesh and returns the nearest hit.
func RaycastMesh(origin, direction mgl64.Vec3, m *Mesh, transform mgl64.Mat4, maxDistance float64) (RaycastHit, bool) {
	var best RaycastHit
	found := false
	limit := maxDistance

	for _, t := range m.Triangles {
		hit, ok := RaycastTriangle(origin, direction, t.Transform(transform), limit)
		if ok && (!found || hit.Distance < best.Distance) {
			best = hit
			found = true
			limit = hit.Distance
		}
	}

	return best, found
}

// RaycastPlane intersects a ray with an infinite plane. The normal faces the ray origin.
func RaycastPlane(origin, direction mgl64.Vec3, p Plane, maxDistance float64) (RaycastHit, bool) {
	dir, ok := SafeNormalize(direction)
	if !ok {
		return RaycastHit{}, false
	}

	denom := p.Normal.Dot(dir)
	if math.Abs(denom) < Epsilon {
		return RaycastHit{}, false
	}

	t := -p.SignedDistance(origin) / denom
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	normal := p.Normal
	if denom > 0 {
		normal = normal.Mul(-1)
	}

	return RaycastHit{Point: origin.Add(dir.Mul(t)), Normal: normal, Distance: t}, true
}

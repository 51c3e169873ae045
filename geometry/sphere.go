package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CollideSphereSphere tests the distance between centers against the summed radii.
// The contact lies on s1's surface toward s2; coincident centers use a fixed diagonal normal.
func CollideSphereSphere(s1, s2 Sphere, out *Contacts) bool {
	delta := s1.Center.Sub(s2.Center)
	radii := s1.Radius + s2.Radius
	if delta.Dot(delta) > radii*radii {
		return false
	}

	normal := normalizeOr(delta, diagonalNormal)
	point := s1.Center.Sub(normal.Mul(s1.Radius))

	return out.Add(point, normal)
}

// CollideSphereAABB tests a sphere against the closest point on a box.
// When spherePrimary is set the normal points toward the sphere center, otherwise toward the box center.
func CollideSphereAABB(s Sphere, box AABB, spherePrimary bool, out *Contacts) bool {
	if SqDistPointAABB(s.Center, box) > s.Radius*s.Radius {
		return false
	}

	point := ClosestPointAABB(s.Center, box)

	var normal mgl64.Vec3
	if spherePrimary {
		// the center can sit inside the box, then the box center gives the direction
		normal = normalizeOr(s.Center.Sub(point), normalizeOr(s.Center.Sub(box.Center()), DefaultNormal))
	} else {
		normal = normalizeOr(box.Center().Sub(point), DefaultNormal)
	}

	return out.Add(point, normal)
}

// CollideSphereTriangle tests a sphere against a one-sided triangle.
// Spheres entirely behind the triangle plane are rejected; otherwise the closest feature decides.
func CollideSphereTriangle(s Sphere, t Triangle, out *Contacts) bool {
	normal, ok := SafeNormalize(t.Normal)
	if !ok {
		return false
	}

	if normal.Dot(s.Center.Sub(t.V1)) < -s.Radius {
		return false
	}

	point := ClosestPointOnTriangle(s.Center, t.V1, t.V2, t.V3)
	d := s.Center.Sub(point)
	if d.Dot(d) > s.Radius*s.Radius {
		return false
	}

	return out.Add(point, normal)
}

// CollideSpherePlane tests a sphere against an infinite plane.
func CollideSpherePlane(s Sphere, p Plane, out *Contacts) bool {
	dist := p.SignedDistance(s.Center)
	if math.Abs(dist) > s.Radius {
		return false
	}

	normal := p.Normal
	if dist < 0 {
		normal = normal.Mul(-1)
	}

	return out.Add(s.Center.Sub(p.Normal.Mul(dist)), normal)
}

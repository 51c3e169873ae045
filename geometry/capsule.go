package geometry

import (
	"math"

	"github.com/akmonengine/tether/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// closestFeatureIterations bounds the alternating projection used to locate capsule contacts.
const closestFeatureIterations = 8

// CollideCapsuleSphere tests the sphere center against the capsule segment.
// The contact lies on the capsule surface and the normal points toward the capsule axis.
func CollideCapsuleSphere(c Capsule, s Sphere, out *Contacts) bool {
	onAxis := ClosestPointOnSegment(s.Center, c.A, c.B)
	return collideSpheres(onAxis, c.Radius, s.Center, s.Radius, out)
}

// CollideCapsuleCapsule tests the closest points between both segments.
func CollideCapsuleCapsule(c1, c2 Capsule, out *Contacts) bool {
	p1, p2 := ClosestPointsSegmentSegment(c1.A, c1.B, c2.A, c2.B)
	return collideSpheres(p1, c1.Radius, p2, c2.Radius, out)
}

// CollideCapsuleAABB runs GJK for the overlap decision, then locates the contact on the box
// closest to the capsule axis.
func CollideCapsuleAABB(c Capsule, box AABB, out *Contacts) bool {
	if !box.Overlaps(c.Bounds()) || !gjk.Intersects(c, box) {
		return false
	}

	onAxis := c.Centroid()
	var point mgl64.Vec3
	for i := 0; i < closestFeatureIterations; i++ {
		point = ClosestPointAABB(onAxis, box)
		onAxis = ClosestPointOnSegment(point, c.A, c.B)
	}

	normal := normalizeOr(onAxis.Sub(point), normalizeOr(onAxis.Sub(box.Center()), DefaultNormal))
	return out.Add(point, normal)
}

// CollideCapsuleTriangle runs GJK for the overlap decision, then locates the contact on the triangle
// closest to the capsule axis. The triangle normal is oriented toward the capsule.
func CollideCapsuleTriangle(c Capsule, t Triangle, out *Contacts) bool {
	if !t.Bounds().Overlaps(c.Bounds()) || !gjk.Intersects(c, t) {
		return false
	}

	onAxis := c.Centroid()
	var point mgl64.Vec3
	for i := 0; i < closestFeatureIterations; i++ {
		point = ClosestPointOnTriangle(onAxis, t.V1, t.V2, t.V3)
		onAxis = ClosestPointOnSegment(point, c.A, c.B)
	}

	normal, ok := SafeNormalize(t.Normal)
	if !ok {
		normal = normalizeOr(onAxis.Sub(point), DefaultNormal)
	} else if onAxis.Sub(point).Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}

	return out.Add(point, normal)
}

// CollideCapsulePlane tests both segment endpoints against the plane.
func CollideCapsulePlane(c Capsule, p Plane, out *Contacts) bool {
	dA := p.SignedDistance(c.A)
	dB := p.SignedDistance(c.B)

	crosses := dA*dB <= 0
	if !crosses && math.Abs(dA) > c.Radius && math.Abs(dB) > c.Radius {
		return false
	}

	normal := p.Normal
	if dA+dB < 0 {
		normal = normal.Mul(-1)
	}

	var point mgl64.Vec3
	switch {
	case crosses && dA != dB:
		t := dA / (dA - dB)
		point = c.A.Add(c.B.Sub(c.A).Mul(t))
	case math.Abs(dA) <= math.Abs(dB):
		point = c.A.Sub(p.Normal.Mul(dA))
	default:
		point = c.B.Sub(p.Normal.Mul(dB))
	}

	return out.Add(point, normal)
}

// collideSpheres is the sphere-sphere test on raw centers, shared by the swept shapes.
func collideSpheres(c1 mgl64.Vec3, r1 float64, c2 mgl64.Vec3, r2 float64, out *Contacts) bool {
	return CollideSphereSphere(Sphere{Center: c1, Radius: r1}, Sphere{Center: c2, Radius: r2}, out)
}

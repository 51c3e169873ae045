package geometry

import "math"

// CollideAABBAABB tests two boxes with a per-axis separating test.
// The contact point is the center of the overlap region and the normal points from it toward a's center,
// which is a centroid heuristic rather than the axis of minimum penetration.
func CollideAABBAABB(a, b AABB, out *Contacts) bool {
	if !a.Overlaps(b) {
		return false
	}

	overlap := AABB{Min: maxVec(a.Min, b.Min), Max: minVec(a.Max, b.Max)}
	point := overlap.Center()
	normal := normalizeOr(a.Center().Sub(point), DefaultNormal)
	out.Add(point, normal)

	return true
}

// CollideAABBTriangle tests a box against a triangle on the three box axes only.
// Edge-grazing configurations that a full separating axis test would reject can be reported as touching.
func CollideAABBTriangle(box AABB, t Triangle, out *Contacts) bool {
	if !box.Overlaps(t.Bounds()) {
		return false
	}

	center := box.Center()
	point := ClosestPointOnTriangle(center, t.V1, t.V2, t.V3)

	normal, ok := SafeNormalize(t.Normal)
	if ok {
		if center.Sub(point).Dot(normal) < 0 {
			normal = normal.Mul(-1)
		}
	} else {
		normal = normalizeOr(center.Sub(point), DefaultNormal)
	}

	return out.Add(point, normal)
}

// CollideAABBPlane tests a box against an infinite plane using the box's projected radius on the normal.
// The normal points toward the side of the plane holding the box center.
func CollideAABBPlane(box AABB, p Plane, out *Contacts) bool {
	center := box.Center()
	half := box.Extents().Mul(0.5)
	radius := half.X()*math.Abs(p.Normal.X()) + half.Y()*math.Abs(p.Normal.Y()) + half.Z()*math.Abs(p.Normal.Z())

	s := p.SignedDistance(center)
	if math.Abs(s) > radius {
		return false
	}

	normal := p.Normal
	if s < 0 {
		normal = normal.Mul(-1)
	}
	point := ClosestPointAABB(center.Sub(p.Normal.Mul(s)), box)

	return out.Add(point, normal)
}

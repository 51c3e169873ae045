package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CollideTriangleTriangle tests two triangles. It first looks for a vertex of either triangle lying inside the
// other (barycentric containment on the plane), then falls back to edge-edge crossings and to edges
// piercing the opposite face. A single contact is reported with t2's normal oriented toward t1.
func CollideTriangleTriangle(t1, t2 Triangle, out *Contacts) bool {
	point, ok := vertexInTriangle(t1, t2)
	if !ok {
		point, ok = vertexInTriangle(t2, t1)
	}
	if !ok {
		point, ok = edgesCross(t1, t2)
	}
	if !ok {
		point, ok = edgesPierce(t1, t2)
	}
	if !ok {
		return false
	}

	toT1 := t1.Centroid().Sub(point)
	normal, valid := SafeNormalize(t2.Normal)
	if !valid {
		normal = normalizeOr(t1.Centroid().Sub(t2.Centroid()), DefaultNormal)
	} else if toT1.Dot(normal) < 0 {
		normal = normal.Mul(-1)
	}

	return out.Add(point, normal)
}

// CollideTrianglePlane reports a contact when the triangle touches or crosses the plane.
// The contact is the deepest vertex projected onto the plane.
func CollideTrianglePlane(t Triangle, p Plane, out *Contacts) bool {
	verts := t.Vertices()
	var dist [3]float64
	minD, maxD := math.Inf(1), math.Inf(-1)
	for i, v := range verts {
		dist[i] = p.SignedDistance(v)
		minD = math.Min(minD, dist[i])
		maxD = math.Max(maxD, dist[i])
	}
	if minD > coplanarTolerance || maxD < -coplanarTolerance {
		return false
	}

	normal := p.Normal
	side := 1.0
	if minD+maxD < 0 {
		normal = normal.Mul(-1)
		side = -1
	}

	// deepest vertex on the far side of the plane
	deepest := 0
	for i := range dist {
		if side*dist[i] < side*dist[deepest] {
			deepest = i
		}
	}
	point := verts[deepest].Sub(p.Normal.Mul(dist[deepest]))

	return out.Add(point, normal)
}

// vertexInTriangle returns the first vertex of a lying on the plane of b and inside it.
func vertexInTriangle(a, b Triangle) (mgl64.Vec3, bool) {
	normal, ok := SafeNormalize(b.Normal)
	if !ok {
		return mgl64.Vec3{}, false
	}

	for _, v := range a.Vertices() {
		if math.Abs(normal.Dot(v.Sub(b.V1))) > coplanarTolerance {
			continue
		}
		u, bv, w, ok := Barycentric(v, b.V1, b.V2, b.V3)
		if !ok {
			continue
		}
		if u >= -coplanarTolerance && bv >= -coplanarTolerance && w >= -coplanarTolerance {
			return v, true
		}
	}

	return mgl64.Vec3{}, false
}

// edgesCross checks the first two edges of each triangle against each other.
func edgesCross(a, b Triangle) (mgl64.Vec3, bool) {
	edgesA := [2][2]mgl64.Vec3{{a.V1, a.V2}, {a.V2, a.V3}}
	edgesB := [2][2]mgl64.Vec3{{b.V1, b.V2}, {b.V2, b.V3}}

	for _, ea := range edgesA {
		for _, eb := range edgesB {
			pa, pb := ClosestPointsSegmentSegment(ea[0], ea[1], eb[0], eb[1])
			if pa.Sub(pb).Len() <= coplanarTolerance {
				return pa.Add(pb).Mul(0.5), true
			}
		}
	}

	return mgl64.Vec3{}, false
}

// edgesPierce checks every edge of each triangle against the face of the other.
func edgesPierce(a, b Triangle) (mgl64.Vec3, bool) {
	for _, pair := range [2][2]Triangle{{a, b}, {b, a}} {
		edge, face := pair[0], pair[1]
		verts := edge.Vertices()
		for i := 0; i < 3; i++ {
			p := verts[i]
			q := verts[(i+1)%3]
			if t, ok := intersectRayTriangle(p, q.Sub(p), face); ok && t <= 1 {
				return p.Add(q.Sub(p).Mul(t)), true
			}
		}
	}

	return mgl64.Vec3{}, false
}

// intersectRayTriangle is Möller-Trumbore. dir need not be unit length; the returned parameter t
// locates the hit at origin + dir*t, with t >= 0.
func intersectRayTriangle(origin, dir mgl64.Vec3, tri Triangle) (float64, bool) {
	const eps = 1e-6

	edge1 := tri.V2.Sub(tri.V1)
	edge2 := tri.V3.Sub(tri.V1)
	h := dir.Cross(edge2)
	a := edge1.Dot(h)
	if math.Abs(a) < eps {
		return 0, false
	}

	f := 1.0 / a
	s := origin.Sub(tri.V1)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t < 0 {
		return 0, false
	}

	return t, true
}

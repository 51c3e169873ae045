package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// AABBFromPoints bounds a set of points. An empty set yields a zero-sized box at the origin.
func AABBFromPoints(points []mgl64.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = minVec(box.Min, p)
		box.Max = maxVec(box.Max, p)
	}

	return box
}

// Center returns the center of the box
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extents returns the full size of the box along each axis
func (a AABB) Extents() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

// MaxExtentAxis returns the index (0=X, 1=Y, 2=Z) of the largest extent
func (a AABB) MaxExtentAxis() int {
	e := a.Extents()
	if e.X() > e.Y() && e.X() > e.Z() {
		return 0
	}
	if e.Y() > e.Z() {
		return 1
	}
	return 2
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// Exit with no intersection if separated along an axis
	for i := 0; i < 3; i++ {
		if a.Max[i] < other.Min[i] || a.Min[i] > other.Max[i] {
			return false
		}
	}
	return true
}

// Union returns the smallest box containing both boxes
func (a AABB) Union(other AABB) AABB {
	return AABB{Min: minVec(a.Min, other.Min), Max: maxVec(a.Max, other.Max)}
}

// Transform returns the world box enclosing the 8 transformed corners of a.
func (a AABB) Transform(m mgl64.Mat4) AABB {
	corners := a.Corners()
	for i := range corners {
		corners[i] = mgl64.TransformCoordinate(corners[i], m)
	}
	return AABBFromPoints(corners[:])
}

// Corners returns the 8 corners of the box
func (a AABB) Corners() [8]mgl64.Vec3 {
	return [8]mgl64.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}
}

// Support returns the corner furthest along direction.
func (a AABB) Support(direction mgl64.Vec3) mgl64.Vec3 {
	var p mgl64.Vec3
	for i := 0; i < 3; i++ {
		if direction[i] < 0 {
			p[i] = a.Min[i]
		} else {
			p[i] = a.Max[i]
		}
	}
	return p
}

// Centroid returns the center of the box
func (a AABB) Centroid() mgl64.Vec3 {
	return a.Center()
}

// Sphere is a world-space sphere
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Bounds returns the AABB of the sphere
func (s Sphere) Bounds() AABB {
	r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	return AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// Transform moves the sphere center by m and scales its radius by the largest axis scale of m.
func (s Sphere) Transform(m mgl64.Mat4) Sphere {
	return Sphere{
		Center: mgl64.TransformCoordinate(s.Center, m),
		Radius: s.Radius * MaxScale(m),
	}
}

func (s Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return s.Center.Add(normalizeOr(direction, DefaultNormal).Mul(s.Radius))
}

func (s Sphere) Centroid() mgl64.Vec3 {
	return s.Center
}

// Triangle is a triangle with its unit face normal (counter-clockwise winding).
// A degenerate triangle carries a zero normal.
type Triangle struct {
	V1, V2, V3 mgl64.Vec3
	Normal     mgl64.Vec3
}

// NewTriangle builds a triangle and computes its face normal
func NewTriangle(v1, v2, v3 mgl64.Vec3) Triangle {
	n, _ := SafeNormalize(v2.Sub(v1).Cross(v3.Sub(v1)))
	return Triangle{V1: v1, V2: v2, V3: v3, Normal: n}
}

// Transform returns the triangle with its vertices and normal moved into the space of m.
func (t Triangle) Transform(m mgl64.Mat4) Triangle {
	n, _ := SafeNormalize(transformNormal(t.Normal, m))
	return Triangle{
		V1:     mgl64.TransformCoordinate(t.V1, m),
		V2:     mgl64.TransformCoordinate(t.V2, m),
		V3:     mgl64.TransformCoordinate(t.V3, m),
		Normal: n,
	}
}

// Vertices returns the three corners
func (t Triangle) Vertices() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{t.V1, t.V2, t.V3}
}

// Centroid returns the mean of the three corners
func (t Triangle) Centroid() mgl64.Vec3 {
	return t.V1.Add(t.V2).Add(t.V3).Mul(1.0 / 3.0)
}

// Bounds returns the AABB of the triangle
func (t Triangle) Bounds() AABB {
	return AABB{
		Min: minVec(t.V1, minVec(t.V2, t.V3)),
		Max: maxVec(t.V1, maxVec(t.V2, t.V3)),
	}
}

// BoundingSphere returns a sphere centered on the centroid enclosing the three corners.
func (t Triangle) BoundingSphere() Sphere {
	c := t.Centroid()
	r := math.Max(c.Sub(t.V1).Len(), math.Max(c.Sub(t.V2).Len(), c.Sub(t.V3).Len()))
	return Sphere{Center: c, Radius: r}
}

func (t Triangle) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := t.V1
	bestDot := t.V1.Dot(direction)
	if d := t.V2.Dot(direction); d > bestDot {
		best, bestDot = t.V2, d
	}
	if d := t.V3.Dot(direction); d > bestDot {
		best = t.V3
	}
	return best
}

// Plane is the set of points p where Normal · p = D. Normal must be unit length.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// NewPlaneFromPoint builds the plane through point with the given normal.
func NewPlaneFromPoint(normal, point mgl64.Vec3) Plane {
	n := normalizeOr(normal, DefaultNormal)
	return Plane{Normal: n, D: n.Dot(point)}
}

// SignedDistance returns the distance of p above (positive) or below the plane.
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) - p.D
}

// Transform returns the plane in the space of m.
func (p Plane) Transform(m mgl64.Mat4) Plane {
	point := mgl64.TransformCoordinate(p.Normal.Mul(p.D), m)
	return NewPlaneFromPoint(transformNormal(p.Normal, m), point)
}

// transformNormal moves a surface normal by the inverse transpose of the linear part of m, so
// it stays perpendicular to the surface under non-uniform scale. The result is not normalized.
func transformNormal(n mgl64.Vec3, m mgl64.Mat4) mgl64.Vec3 {
	linear := m.Mat3()
	if linear.Det() == 0 {
		return linear.Mul3x1(n)
	}
	return linear.Inv().Transpose().Mul3x1(n)
}

// Capsule is a segment from A to B swept by a sphere of Radius.
type Capsule struct {
	A, B   mgl64.Vec3
	Radius float64
}

// Bounds returns the AABB of the capsule
func (c Capsule) Bounds() AABB {
	r := mgl64.Vec3{c.Radius, c.Radius, c.Radius}
	return AABB{
		Min: minVec(c.A, c.B).Sub(r),
		Max: maxVec(c.A, c.B).Add(r),
	}
}

// Transform moves the segment by m and scales the radius by the largest axis scale of m.
func (c Capsule) Transform(m mgl64.Mat4) Capsule {
	return Capsule{
		A:      mgl64.TransformCoordinate(c.A, m),
		B:      mgl64.TransformCoordinate(c.B, m),
		Radius: c.Radius * MaxScale(m),
	}
}

func (c Capsule) Support(direction mgl64.Vec3) mgl64.Vec3 {
	end := c.A
	if c.B.Dot(direction) > c.A.Dot(direction) {
		end = c.B
	}
	return end.Add(normalizeOr(direction, DefaultNormal).Mul(c.Radius))
}

func (c Capsule) Centroid() mgl64.Vec3 {
	return c.A.Add(c.B).Mul(0.5)
}

// MaxScale returns the largest axis scale encoded in the upper 3x3 of m.
func MaxScale(m mgl64.Mat4) float64 {
	return math.Max(m.Col(0).Vec3().Len(), math.Max(m.Col(1).Vec3().Len(), m.Col(2).Vec3().Len()))
}

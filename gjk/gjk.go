// Package gjk implements the Gilbert-Johnson-Keerthi overlap test for convex shapes.
//
// GJK decides whether two convex shapes overlap by checking if their Minkowski difference
// contains the origin. Shapes only expose a support mapping; the simplex is grown toward the
// origin and reduced to its closest feature until it encloses the origin or a separating
// direction is found.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Convex is a world-space convex shape described by its support mapping.
type Convex interface {
	// Support returns the point of the shape furthest along direction.
	Support(direction mgl64.Vec3) mgl64.Vec3
	// Centroid returns any interior point, used to seed the search direction.
	Centroid() mgl64.Vec3
}

const maxIterations = 32

// Simplex holds 1-4 points of the Minkowski difference, most recent last.
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) Reset() {
	s.Count = 0
}

func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

var SimplexPool = sync.Pool{
	New: func() interface{} {
		return &Simplex{}
	},
}

// MinkowskiSupport returns the support point of A - B along direction.
func MinkowskiSupport(a, b Convex, direction mgl64.Vec3) mgl64.Vec3 {
	return a.Support(direction).Sub(b.Support(direction.Mul(-1)))
}

// Intersects reports whether a and b overlap, using a pooled simplex.
func Intersects(a, b Convex) bool {
	simplex := SimplexPool.Get().(*Simplex)
	simplex.Reset()
	hit := GJK(a, b, simplex)
	SimplexPool.Put(simplex)

	return hit
}

// GJK runs the overlap test, leaving the final simplex in simplex.
// Touching shapes count as overlapping.
func GJK(a, b Convex, simplex *Simplex) bool {
	direction := b.Centroid().Sub(a.Centroid())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.set(MinkowskiSupport(a, b, direction))
	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	for i := 0; i < maxIterations; i++ {
		p := MinkowskiSupport(a, b, direction)

		// the new point does not get past the origin: separated
		if p.Dot(direction) < 0 {
			return false
		}

		simplex.Points[simplex.Count] = p
		simplex.Count++

		if reduce(simplex, &direction) {
			return true
		}
		if direction.LenSqr() < 1e-16 {
			return true
		}
	}

	return false
}

// reduce keeps the feature of the simplex closest to the origin and points direction at the origin.
// It returns true once the origin is enclosed or lies on the simplex.
func reduce(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return reduceLine(simplex, direction)
	case 3:
		return reduceTriangle(simplex, direction)
	case 4:
		return reduceTetrahedron(simplex, direction)
	}
	return false
}

func reduceLine(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[1]
	b := simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		simplex.set(a)
		*direction = ao
		return false
	}

	if ab.Dot(ao) <= 0 {
		simplex.set(a)
		*direction = ao
		return false
	}

	perp := ab.Cross(ao).Cross(ab)
	if perp.LenSqr() < 1e-8 {
		// origin on the segment
		return true
	}

	*direction = perp
	return false
}

func reduceTriangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[2]
	b := simplex.Points[1]
	c := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	abc := ab.Cross(ac)

	// collinear: fall back to the newest edge
	if abc.LenSqr() < 1e-10 {
		simplex.set(b, a)
		return reduceLine(simplex, direction)
	}

	if ab.Cross(abc).Dot(ao) > 0 {
		simplex.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}

	if abc.Cross(ac).Dot(ao) > 0 {
		simplex.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	side := abc.Dot(ao)
	switch {
	case side > 0:
		*direction = abc
	case side < 0:
		simplex.set(b, c, a)
		*direction = abc.Mul(-1)
	default:
		// origin on the face
		return true
	}

	return false
}

func reduceTetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a := simplex.Points[3]
	b := simplex.Points[2]
	c := simplex.Points[1]
	d := simplex.Points[0]

	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	// face normals oriented away from the opposite vertex
	abc := outward(ab.Cross(ac), ad)
	acd := outward(ac.Cross(ad), ab)
	adb := outward(ad.Cross(ab), ac)

	if abc.LenSqr() < 1e-10 || acd.LenSqr() < 1e-10 || adb.LenSqr() < 1e-10 {
		simplex.set(c, b, a)
		return reduceTriangle(simplex, direction)
	}

	switch {
	case abc.Dot(ao) > 0:
		simplex.set(c, b, a)
	case acd.Dot(ao) > 0:
		simplex.set(d, c, a)
	case adb.Dot(ao) > 0:
		simplex.set(b, d, a)
	default:
		return true
	}

	return reduceTriangle(simplex, direction)
}

func outward(normal, toOpposite mgl64.Vec3) mgl64.Vec3 {
	if normal.Dot(toOpposite) > 0 {
		return normal.Mul(-1)
	}
	return normal
}

package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ClosestPointOnTriangle returns the point of triangle abc closest to p, found through the
// vertex, edge and face feature regions (Ericson, Real-Time Collision Detection 5.1.5).
func ClosestPointOnTriangle(p, a, b, c mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w))
	}

	denom := va + vb + vc
	if math.Abs(denom) < Epsilon {
		return a
	}
	v := vb / denom
	w := vc / denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}

// ClosestPointAABB clamps p into the box.
func ClosestPointAABB(p mgl64.Vec3, box AABB) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(p.X(), box.Min.X(), box.Max.X()),
		mgl64.Clamp(p.Y(), box.Min.Y(), box.Max.Y()),
		mgl64.Clamp(p.Z(), box.Min.Z(), box.Max.Z()),
	}
}

// SqDistPointAABB returns the squared distance between p and the box (0 when p is inside).
func SqDistPointAABB(p mgl64.Vec3, box AABB) float64 {
	d := p.Sub(ClosestPointAABB(p, box))
	return d.Dot(d)
}

// ClosestPointOnSegment returns the point of segment ab closest to p.
func ClosestPointOnSegment(p, a, b mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq < Epsilon {
		return a
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Mul(t))
}

// ClosestPointsSegmentSegment returns the closest pair of points between segments p1q1 and p2q2
// (Ericson 5.1.9).
func ClosestPointsSegmentSegment(p1, q1, p2, q2 mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	var s, t float64
	switch {
	case a < Epsilon && e < Epsilon:
		return p1, p2
	case a < Epsilon:
		t = mgl64.Clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e < Epsilon {
			s = mgl64.Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > Epsilon {
				s = mgl64.Clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = mgl64.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = mgl64.Clamp((b-c)/a, 0, 1)
			}
		}
	}

	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}

// Barycentric returns the barycentric coordinates (u, v, w) of p relative to triangle abc,
// with p = u*a + v*b + w*c. ok is false for a degenerate triangle.
func Barycentric(p, a, b, c mgl64.Vec3) (u, v, w float64, ok bool) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if math.Abs(denom) < Epsilon {
		return 0, 0, 0, false
	}
	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return u, v, w, true
}

// Package geometry is the collision geometry library: world-space primitives and the stateless
// shape-pair intersection, closest-point and ray cast functions used by the engine.
//
// Every pair test returns true when the shapes touch and, when given a non-nil *Contacts, appends
// the contact points and normals it found. Normals point toward the first (primary) argument,
// so a caller resolving the first shape can push it along the normal.
//
// Degenerate input (zero-length normals, NaN results) never produces an error: the contact is
// dropped or a default axis is substituted.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Epsilon is the tolerance used for near-zero lengths and denominators.
	Epsilon = 1e-9
	// coplanarTolerance bounds the plane distance of a point still considered on a triangle.
	coplanarTolerance = 1e-5
)

var (
	// DefaultNormal is emitted when a contact has no meaningful direction.
	DefaultNormal = mgl64.Vec3{0, 1, 0}
	// diagonalNormal is the fallback for coincident sphere centers.
	diagonalNormal = mgl64.Vec3{1, 1, 1}.Normalize()
)

// Contacts accumulates contact points and their normals. Points[i] pairs with Normals[i].
// A nil *Contacts is valid everywhere and records nothing.
type Contacts struct {
	Points  []mgl64.Vec3
	Normals []mgl64.Vec3
}

// Add records a contact. Contacts carrying NaN are discarded and Add reports false.
func (c *Contacts) Add(point, normal mgl64.Vec3) bool {
	if HasNaN(point) || HasNaN(normal) {
		return false
	}
	if c == nil {
		return true
	}
	c.Points = append(c.Points, point)
	c.Normals = append(c.Normals, normal)
	return true
}

// Len returns the number of recorded contacts.
func (c *Contacts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Points)
}

// Reset empties the contacts, keeping the allocated capacity.
func (c *Contacts) Reset() {
	if c == nil {
		return
	}
	c.Points = c.Points[:0]
	c.Normals = c.Normals[:0]
}

// Append copies all contacts of other into c.
func (c *Contacts) Append(other *Contacts) {
	if c == nil || other == nil {
		return
	}
	c.Points = append(c.Points, other.Points...)
	c.Normals = append(c.Normals, other.Normals...)
}

// FlipFrom negates every normal recorded at or after index start.
// Used when a test was evaluated with its arguments swapped.
func (c *Contacts) FlipFrom(start int) {
	if c == nil {
		return
	}
	for i := start; i < len(c.Normals); i++ {
		c.Normals[i] = c.Normals[i].Mul(-1)
	}
}

// HasNaN reports whether any component of v is NaN.
func HasNaN(v mgl64.Vec3) bool {
	return math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2])
}

// SafeNormalize returns the unit vector of v, or false when v is too short to have a direction.
func SafeNormalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// normalizeOr returns the unit vector of v, or fallback when v is degenerate.
func normalizeOr(v, fallback mgl64.Vec3) mgl64.Vec3 {
	if n, ok := SafeNormalize(v); ok {
		return n
	}
	return fallback
}

// CleanZeros replaces NaN and infinite components with zero.
func CleanZeros(v mgl64.Vec3) mgl64.Vec3 {
	for i := range v {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			v[i] = 0
		}
	}
	return v
}

func minVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func maxVec(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

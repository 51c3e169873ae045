package constraint

import (
	"github.com/akmonengine/tether/actor"
	"github.com/akmonengine/tether/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// ContactConstraint is the single averaged contact of an object for one step
type ContactConstraint struct {
	Object *actor.PhysicsObject
	// Point is the plain average of every contact point
	Point mgl64.Vec3
	// Normal is the sum of the unit contact normals divided by their count. It is not
	// renormalized, so opposing normals shorten it.
	Normal mgl64.Vec3
	Count  int
}

// NewContactConstraint averages the contacts gathered for o. It returns false when there is
// nothing to respond to: no contacts, or o is a trigger.
func NewContactConstraint(o *actor.PhysicsObject, contacts *geometry.Contacts) (*ContactConstraint, bool) {
	if o == nil || o.CollisionMode == actor.CollisionTrigger || contacts.Len() == 0 {
		return nil, false
	}

	var point, normal mgl64.Vec3
	count := 0
	for i := range contacts.Points {
		n, ok := geometry.SafeNormalize(contacts.Normals[i])
		if !ok {
			continue
		}
		normal = normal.Add(n)
		point = point.Add(contacts.Points[i])
		count++
	}
	if count == 0 {
		return nil, false
	}

	inv := 1.0 / float64(count)
	return &ContactConstraint{
		Object: o,
		Point:  point.Mul(inv),
		Normal: normal.Mul(inv),
		Count:  count,
	}, true
}

// SolvePosition snaps a kinematic object out of the contact: the object keeps its distance to
// the averaged point, but along the averaged normal. Velocity is left untouched.
func (c *ContactConstraint) SolvePosition(dt float64) {
	o := c.Object
	if o.Mode != actor.ModeKinematic {
		return
	}

	length := o.Transform.Position.Sub(c.Point).Len()
	o.Transform.Position = c.Point.Add(c.Normal.Mul(length))
}

// SolveVelocity reflects the velocity of a dynamic object about the averaged normal and
// restores its speed.
func (c *ContactConstraint) SolveVelocity(dt float64) {
	o := c.Object
	if o.Mode != actor.ModeDynamic || isResting(o.Velocity) {
		return
	}

	speed := o.Velocity.Len()
	reflected := Reflect(o.Velocity.Mul(1/speed), c.Normal)
	velocity := reflected.Mul(speed * ComputeRestitution(o.Properties))
	if geometry.HasNaN(velocity) {
		return
	}
	o.Velocity = velocity
}

// Reflect returns i - 2(n·i)n
func Reflect(i, n mgl64.Vec3) mgl64.Vec3 {
	return i.Sub(n.Mul(2 * n.Dot(i)))
}

// Resolve applies the contact response for o from the contacts it gathered this step.
// It reports whether a response was applied.
func Resolve(o *actor.PhysicsObject, contacts *geometry.Contacts, dt float64) bool {
	c, ok := NewContactConstraint(o, contacts)
	if !ok {
		return false
	}

	var constraint Constraint = c
	constraint.SolvePosition(dt)
	constraint.SolveVelocity(dt)

	return true
}

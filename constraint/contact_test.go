package constraint

import (
	"math"
	"testing"

	"github.com/akmonengine/tether/actor"
	"github.com/akmonengine/tether/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

func vec3Equal(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

// Helper function to create an object with a unit sphere
func createObject(position, velocity mgl64.Vec3, mode actor.Mode) *actor.PhysicsObject {
	o := actor.NewPhysicsObject(actor.NewTransformAt(position), &actor.Sphere{Radius: 1.0}, mode)
	o.Velocity = velocity

	return o
}

func contactsOf(pairs ...mgl64.Vec3) *geometry.Contacts {
	c := &geometry.Contacts{}
	for i := 0; i+1 < len(pairs); i += 2 {
		c.Add(pairs[i], pairs[i+1])
	}
	return c
}

// =============================================================================
// Averaging Tests
// =============================================================================

func TestNewContactConstraint_Average(t *testing.T) {
	o := createObject(mgl64.Vec3{}, mgl64.Vec3{}, actor.ModeDynamic)
	contacts := contactsOf(
		mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 5, 0},
		mgl64.Vec3{0, 4, 0}, mgl64.Vec3{3, 0, 0},
	)

	c, ok := NewContactConstraint(o, contacts)
	if !ok {
		t.Fatal("Expected a constraint")
	}
	if c.Count != 2 {
		t.Errorf("Expected count 2, got %d", c.Count)
	}
	// points are averaged as-is
	if !c.Point.ApproxEqual(mgl64.Vec3{1, 2, 0}) {
		t.Errorf("Expected point (1,2,0), got %v", c.Point)
	}
	// unit normals averaged without renormalizing
	if !c.Normal.ApproxEqual(mgl64.Vec3{0.5, 0.5, 0}) {
		t.Errorf("Expected normal (0.5,0.5,0), got %v", c.Normal)
	}
}

func TestNewContactConstraint_Rejects(t *testing.T) {
	trigger := createObject(mgl64.Vec3{}, mgl64.Vec3{}, actor.ModeDynamic)
	trigger.CollisionMode = actor.CollisionTrigger

	if _, ok := NewContactConstraint(trigger, contactsOf(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})); ok {
		t.Error("Expected triggers never to get a constraint")
	}

	solid := createObject(mgl64.Vec3{}, mgl64.Vec3{}, actor.ModeDynamic)
	if _, ok := NewContactConstraint(solid, &geometry.Contacts{}); ok {
		t.Error("Expected no constraint without contacts")
	}
	if _, ok := NewContactConstraint(solid, nil); ok {
		t.Error("Expected no constraint for nil contacts")
	}
}

// =============================================================================
// Response Tests
// =============================================================================

func TestSolveVelocity_ElasticBounce(t *testing.T) {
	o := createObject(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{3, -4, 0}, actor.ModeDynamic)
	o.Properties.Bounciness = 0.2

	if !Resolve(o, contactsOf(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}), 0.01) {
		t.Fatal("Expected a response")
	}

	if !vec3Equal(o.Velocity, mgl64.Vec3{3, 4, 0}, 1e-9) {
		t.Errorf("Expected velocity (3,4,0), got %v", o.Velocity)
	}
	if math.Abs(o.Velocity.Len()-5) > 1e-9 {
		t.Errorf("Expected speed preserved at 5, got %v", o.Velocity.Len())
	}
	if o.Transform.Position != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Expected dynamic position untouched, got %v", o.Transform.Position)
	}
}

func TestSolveVelocity_RestingObject(t *testing.T) {
	o := createObject(mgl64.Vec3{}, mgl64.Vec3{}, actor.ModeDynamic)
	Resolve(o, contactsOf(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}), 0.01)

	if o.Velocity != (mgl64.Vec3{}) || geometry.HasNaN(o.Velocity) {
		t.Errorf("Expected zero velocity to stay zero, got %v", o.Velocity)
	}
}

func TestSolvePosition_KinematicSnap(t *testing.T) {
	o := createObject(mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, -2, 0}, actor.ModeKinematic)

	Resolve(o, contactsOf(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}), 0.01)

	// distance 0.5 to the contact point, laid along the normal
	if !o.Transform.Position.ApproxEqual(mgl64.Vec3{0, 0.5, 0}) {
		t.Errorf("Expected position (0,0.5,0), got %v", o.Transform.Position)
	}

	o.Transform.Position = mgl64.Vec3{0.3, 0.4, 0}
	Resolve(o, contactsOf(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 1, 0}), 0.01)
	if !vec3Equal(o.Transform.Position, mgl64.Vec3{0, 0.5, 0}, 1e-9) {
		t.Errorf("Expected position (0,0.5,0), got %v", o.Transform.Position)
	}

	if o.Velocity != (mgl64.Vec3{0, -2, 0}) {
		t.Errorf("Expected kinematic velocity untouched, got %v", o.Velocity)
	}
}

func TestResolve_TriggerSkipped(t *testing.T) {
	o := createObject(mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, -2, 0}, actor.ModeKinematic)
	o.CollisionMode = actor.CollisionTrigger

	if Resolve(o, contactsOf(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0}), 0.01) {
		t.Error("Expected no response for a trigger")
	}
	if o.Transform.Position != (mgl64.Vec3{0, 0.5, 0}) {
		t.Errorf("Expected trigger position untouched, got %v", o.Transform.Position)
	}
}

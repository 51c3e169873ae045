package actor

import (
	"github.com/akmonengine/tether/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Mode represents how an object takes part in the simulation
type Mode int

const (
	// ModeStatic objects never move; they are only collided against
	ModeStatic Mode = iota

	// ModeDynamic objects fall under gravity and bounce off contacts
	ModeDynamic

	// ModeKinematic objects integrate like dynamic ones but snap back out of contacts
	// instead of bouncing
	ModeKinematic
)

func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeDynamic:
		return "dynamic"
	case ModeKinematic:
		return "kinematic"
	}
	return "unknown"
}

// CollisionMode selects whether contacts move the object
type CollisionMode int

const (
	// CollisionSolid objects are pushed out of contacts
	CollisionSolid CollisionMode = iota
	// CollisionTrigger objects detect contacts but are never corrected
	CollisionTrigger
)

// Properties are the physical parameters of an object
type Properties struct {
	// InverseMass of 0 (or less) disables integration
	InverseMass float64
	// GravityScale multiplies gravity per axis
	GravityScale mgl64.Vec3
	// Bounciness is carried for hosts and the restitution hook; the elastic response does not read it
	Bounciness float64
}

// CollisionListener is notified once per colliding partner during the engine step
// that iterates the listening object.
type CollisionListener interface {
	OnCollision(self, other *PhysicsObject, contacts *geometry.Contacts)
}

// CollisionListenerFunc adapts a function to CollisionListener
type CollisionListenerFunc func(self, other *PhysicsObject, contacts *geometry.Contacts)

func (f CollisionListenerFunc) OnCollision(self, other *PhysicsObject, contacts *geometry.Contacts) {
	f(self, other, contacts)
}

// PhysicsObject represents a rigid body in the physics simulation. It is owned by the host;
// the engine only references it.
type PhysicsObject struct {
	Transform Transform
	Shape     Shape

	Mode          Mode
	CollisionMode CollisionMode

	Velocity   mgl64.Vec3 // Linear velocity (m/s)
	Properties Properties

	Enabled bool
	// InvokeCollisions opts the object in to listener callbacks
	InvokeCollisions bool

	// UserData is free for the host, typically its entity handle
	UserData any

	listener CollisionListener
	excluded map[*PhysicsObject]struct{}
	contacts geometry.Contacts
}

// NewPhysicsObject creates an enabled object. Static objects get an inverse mass of 0,
// others of 1, and every object a unit gravity scale.
func NewPhysicsObject(transform Transform, shape Shape, mode Mode) *PhysicsObject {
	inverseMass := 1.0
	if mode == ModeStatic {
		inverseMass = 0
	}

	return &PhysicsObject{
		Transform: transform,
		Shape:     shape,
		Mode:      mode,
		Enabled:   true,
		Properties: Properties{
			InverseMass:  inverseMass,
			GravityScale: mgl64.Vec3{1, 1, 1},
		},
	}
}

// CanIntegrate reports whether the object moves under gravity this step
func (o *PhysicsObject) CanIntegrate() bool {
	return o.Enabled && o.Mode != ModeStatic && o.Properties.InverseMass > 0
}

// Integrate applies gravity to the velocity, then moves the transform with the new velocity
// (semi-implicit Euler). The position is committed immediately.
func (o *PhysicsObject) Integrate(dt float64, gravity mgl64.Vec3) {
	if !o.CanIntegrate() {
		return
	}

	scaled := mgl64.Vec3{
		gravity.X() * o.Properties.GravityScale.X(),
		gravity.Y() * o.Properties.GravityScale.Y(),
		gravity.Z() * o.Properties.GravityScale.Z(),
	}
	o.Velocity = o.Velocity.Add(scaled.Mul(dt * o.Properties.InverseMass))
	o.Transform.Position = o.Transform.Position.Add(o.Velocity.Mul(dt))
}

// Matrix returns the current world matrix
func (o *PhysicsObject) Matrix() mgl64.Mat4 {
	return o.Transform.Matrix()
}

// WorldAABB returns the world bounds of the shape at the current transform
func (o *PhysicsObject) WorldAABB() geometry.AABB {
	if o.Shape == nil {
		return geometry.AABB{Min: o.Transform.Position, Max: o.Transform.Position}
	}
	return o.Shape.WorldAABB(o.Matrix())
}

// Raycast casts a world-space ray against the object's shape
func (o *PhysicsObject) Raycast(origin, direction mgl64.Vec3, maxDistance float64) (geometry.RaycastHit, bool) {
	if o.Shape == nil {
		return geometry.RaycastHit{}, false
	}
	return o.Shape.Raycast(origin, direction, o.Matrix(), maxDistance)
}

// Exclude prevents the object from ever being tested against other
func (o *PhysicsObject) Exclude(other *PhysicsObject) {
	if other == nil || other == o {
		return
	}
	if o.excluded == nil {
		o.excluded = make(map[*PhysicsObject]struct{})
	}
	o.excluded[other] = struct{}{}
}

// Include removes other from the exclusion set
func (o *PhysicsObject) Include(other *PhysicsObject) {
	delete(o.excluded, other)
}

// IsExcluding reports whether other is in the exclusion set
func (o *PhysicsObject) IsExcluding(other *PhysicsObject) bool {
	_, ok := o.excluded[other]
	return ok
}

// SetCollisionListener registers the listener and opts the object in to callbacks.
// A nil listener opts out.
func (o *PhysicsObject) SetCollisionListener(l CollisionListener) {
	o.listener = l
	o.InvokeCollisions = l != nil
}

// CollisionListener returns the registered listener, if any
func (o *PhysicsObject) CollisionListener() CollisionListener {
	return o.listener
}

// Contacts returns the contacts accumulated during the last step that iterated the object.
// The buffer is reused across steps.
func (o *PhysicsObject) Contacts() *geometry.Contacts {
	return &o.contacts
}

// LastContactPoints returns the contact points of the last step
func (o *PhysicsObject) LastContactPoints() []mgl64.Vec3 {
	return o.contacts.Points
}

// LastContactNormals returns the contact normals of the last step
func (o *PhysicsObject) LastContactNormals() []mgl64.Vec3 {
	return o.contacts.Normals
}

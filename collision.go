package tether

import (
	"github.com/akmonengine/tether/actor"
	"github.com/akmonengine/tether/geometry"
)

// Collide runs the narrow phase test matching the shapes of a and b, at their current
// transforms. Contacts are appended to out with normals pointing toward a.
// Plane pairs never collide.
func Collide(a, b *actor.PhysicsObject, out *geometry.Contacts) bool {
	if a.Shape == nil || b.Shape == nil {
		return false
	}

	// a box against a sphere keeps its own normal convention: toward the box center
	if box, ok := a.Shape.(*actor.Box); ok {
		if sphere, ok := b.Shape.(*actor.Sphere); ok {
			return geometry.CollideSphereAABB(sphere.World(b.Matrix()), box.World(a.Matrix()), false, out)
		}
	}

	if a.Shape.Type() > b.Shape.Type() {
		return reversed(out, func(out *geometry.Contacts) bool {
			return collideOrdered(b, a, out)
		})
	}

	return collideOrdered(a, b, out)
}

// reversed runs a test whose primary shape is the second object, and turns the normals it
// added toward the first.
func reversed(out *geometry.Contacts, test func(out *geometry.Contacts) bool) bool {
	start := out.Len()
	if !test(out) {
		return false
	}
	out.FlipFrom(start)

	return true
}

// collideOrdered expects a.Shape.Type() <= b.Shape.Type()
func collideOrdered(a, b *actor.PhysicsObject, out *geometry.Contacts) bool {
	ma, mb := a.Matrix(), b.Matrix()

	switch sa := a.Shape.(type) {
	case *actor.Sphere:
		s := sa.World(ma)
		switch sb := b.Shape.(type) {
		case *actor.Sphere:
			return geometry.CollideSphereSphere(s, sb.World(mb), out)
		case *actor.Plane:
			return geometry.CollideSpherePlane(s, sb.World(mb), out)
		case *actor.Triangle:
			return geometry.CollideSphereTriangle(s, sb.World(mb), out)
		case *actor.Box:
			return geometry.CollideSphereAABB(s, sb.World(mb), true, out)
		case *actor.Capsule:
			return reversed(out, func(out *geometry.Contacts) bool {
				return geometry.CollideCapsuleSphere(sb.World(mb), s, out)
			})
		case *actor.Mesh:
			return geometry.CollideSphereMesh(s, sb.Collider, mb, out)
		}

	case *actor.Plane:
		p := sa.World(ma)
		switch sb := b.Shape.(type) {
		case *actor.Triangle:
			return reversed(out, func(out *geometry.Contacts) bool {
				return geometry.CollideTrianglePlane(sb.World(mb), p, out)
			})
		case *actor.Box:
			return reversed(out, func(out *geometry.Contacts) bool {
				return geometry.CollideAABBPlane(sb.World(mb), p, out)
			})
		case *actor.Capsule:
			return reversed(out, func(out *geometry.Contacts) bool {
				return geometry.CollideCapsulePlane(sb.World(mb), p, out)
			})
		case *actor.Mesh:
			return geometry.CollidePlaneMesh(p, sb.Collider, mb, out)
		}

	case *actor.Triangle:
		t := sa.World(ma)
		switch sb := b.Shape.(type) {
		case *actor.Triangle:
			return geometry.CollideTriangleTriangle(t, sb.World(mb), out)
		case *actor.Box:
			return reversed(out, func(out *geometry.Contacts) bool {
				return geometry.CollideAABBTriangle(sb.World(mb), t, out)
			})
		case *actor.Capsule:
			return reversed(out, func(out *geometry.Contacts) bool {
				return geometry.CollideCapsuleTriangle(sb.World(mb), t, out)
			})
		case *actor.Mesh:
			return geometry.CollideTriangleMesh(t, sb.Collider, mb, out)
		}

	case *actor.Box:
		box := sa.World(ma)
		switch sb := b.Shape.(type) {
		case *actor.Box:
			return geometry.CollideAABBAABB(box, sb.World(mb), out)
		case *actor.Capsule:
			return reversed(out, func(out *geometry.Contacts) bool {
				return geometry.CollideCapsuleAABB(sb.World(mb), box, out)
			})
		case *actor.Mesh:
			return geometry.CollideAABBMesh(box, sb.Collider, mb, out)
		}

	case *actor.Capsule:
		c := sa.World(ma)
		switch sb := b.Shape.(type) {
		case *actor.Capsule:
			return geometry.CollideCapsuleCapsule(c, sb.World(mb), out)
		case *actor.Mesh:
			return geometry.CollideCapsuleMesh(c, sb.Collider, mb, out)
		}

	case *actor.Mesh:
		if sb, ok := b.Shape.(*actor.Mesh); ok {
			return geometry.CollideMeshMesh(sa.Collider, ma, sb.Collider, mb, out)
		}
	}

	return false
}

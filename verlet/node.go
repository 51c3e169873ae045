// Package verlet simulates soft bodies as point masses (nodes) joined by distance constraints
// (sticks), integrated with position Verlet. Nodes and sticks live in per-body arenas and
// reference each other by index.
package verlet

import (
	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

// Binding ties a node to one vertex of a bound mesh. The vertex sits at Offset from the node,
// in the local space of the owning body.
type Binding struct {
	Mesh   int
	Vertex uint32
	Offset mgl64.Vec3
}

// Node is a point mass. Its velocity is implicit: Current - Previous.
type Node struct {
	Current  mgl64.Vec3
	Previous mgl64.Vec3
	Locked   bool
	Radius   float64
	Bindings []Binding

	// pending velocity, consumed by the next Integrate
	velocity mgl64.Vec3
}

// NewNode creates a node at rest at position
func NewNode(position mgl64.Vec3, radius float64, locked bool) Node {
	return Node{
		Current:  position,
		Previous: position,
		Locked:   locked,
		Radius:   radius,
	}
}

// Integrate moves an unlocked node by 2·current - previous + gravity·dt², plus any velocity
// applied since the last step. Locked nodes are pinned.
func (n *Node) Integrate(dt float64, gravity mgl64.Vec3) {
	if n.Locked {
		n.velocity = mgl64.Vec3{}
		return
	}

	next := n.Current.Mul(2).Sub(n.Previous).Add(gravity.Mul(dt * dt)).Add(n.velocity.Mul(dt))
	n.Previous = n.Current
	n.Current = next
	n.velocity = mgl64.Vec3{}
}

// Velocity returns the implicit velocity over a step of dt
func (n *Node) Velocity(dt float64) mgl64.Vec3 {
	if dt <= 0 {
		return mgl64.Vec3{}
	}
	return n.Current.Sub(n.Previous).Mul(1 / dt)
}

// Stick keeps two nodes of the same arena RestLength apart
type Stick struct {
	A, B       int
	RestLength float64
}

// NewStick creates a stick whose rest length is the current distance between a and b
func NewStick(nodes []Node, a, b int) Stick {
	return Stick{A: a, B: b, RestLength: nodes[a].Current.Sub(nodes[b].Current).Len()}
}

// Relax moves the endpoints toward or away from each other until they are RestLength apart.
// A locked endpoint stays put and its partner takes the whole correction.
func (s Stick) Relax(nodes []Node) {
	a := &nodes[s.A]
	b := &nodes[s.B]
	if a.Locked && b.Locked {
		return
	}

	delta := b.Current.Sub(a.Current)
	distance := delta.Len()
	if distance < epsilon {
		return
	}

	correction := delta.Mul((distance - s.RestLength) / distance)
	switch {
	case a.Locked:
		b.Current = b.Current.Sub(correction)
	case b.Locked:
		a.Current = a.Current.Add(correction)
	default:
		half := correction.Mul(0.5)
		a.Current = a.Current.Add(half)
		b.Current = b.Current.Sub(half)
	}
}

// Error returns how far the stick is from its rest length
func (s Stick) Error(nodes []Node) float64 {
	d := nodes[s.B].Current.Sub(nodes[s.A].Current).Len() - s.RestLength
	if d < 0 {
		return -d
	}
	return d
}

package verlet

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/akmonengine/tether/actor"
	"github.com/akmonengine/tether/mesh"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNoGeometry  = errors.New("soft body has no vertices to bind")
	ErrNodeIndex   = errors.New("node index out of range")
	ErrDestroyed   = errors.New("soft body destroyed")
	ErrInitialized = errors.New("soft body already initialized")
)

var DefaultGravity = mgl64.Vec3{0, -1, 0}

const (
	DefaultRadius = 0.05
	defaultPasses = 1
)

// State is the lifecycle of a soft body
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateRunning
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateRunning:
		return "running"
	case StateDestroyed:
		return "destroyed"
	}
	return "unknown"
}

// BindingMode selects how nodes are laid over the bound meshes
type BindingMode int

const (
	// BindPerMesh creates one node per mesh at its centroid, every vertex following it rigidly.
	// Consecutive nodes are joined by sticks, which makes a rope of segments.
	BindPerMesh BindingMode = iota
	// BindPerVertex creates one node per vertex and a stick along every triangle edge (cloth).
	BindPerVertex
)

// BufferConsumer receives the vertex buffers of a soft body on the render path, inside the
// critical section shared with the simulation.
type BufferConsumer interface {
	Upload(meshes []*mesh.Mesh)
}

// BufferConsumerFunc adapts a function to BufferConsumer
type BufferConsumerFunc func(meshes []*mesh.Mesh)

func (f BufferConsumerFunc) Upload(meshes []*mesh.Mesh) {
	f(meshes)
}

type lockRef struct {
	sync.Locker
}

// SoftBody owns its nodes and sticks and writes their positions into the bound mesh buffers.
//
// Simulate runs without the shared lock; Commit writes the buffers and must run inside it.
// Update does both for a single body.
type SoftBody struct {
	// Transform of the owning entity, read when binding and on every commit.
	// Only change it while the body is not being ticked.
	Transform actor.Transform
	Meshes    []*mesh.Mesh
	Mode      BindingMode

	Gravity    mgl64.Vec3
	Iterations int
	NodeRadius float64

	Consumer BufferConsumer

	// mu guards the arenas against the host thread
	mu     sync.Mutex
	nodes  []Node
	sticks []Stick
	locked []int

	state atomic.Int32
	lock  atomic.Pointer[lockRef]
}

// NewSoftBody creates an uninitialized soft body over meshes. The buffers are shared: the body
// writes vertex positions and normals into them.
func NewSoftBody(transform actor.Transform, mode BindingMode, meshes ...*mesh.Mesh) *SoftBody {
	return &SoftBody{
		Transform:  transform,
		Meshes:     meshes,
		Mode:       mode,
		Gravity:    DefaultGravity,
		Iterations: defaultPasses,
		NodeRadius: DefaultRadius,
	}
}

// State returns the lifecycle state
func (b *SoftBody) State() State {
	return State(b.state.Load())
}

// Initialize builds the nodes and sticks from the current mesh buffers
func (b *SoftBody) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.State() {
	case StateDestroyed:
		return ErrDestroyed
	case StateUninitialized:
	default:
		return ErrInitialized
	}

	var err error
	switch b.Mode {
	case BindPerVertex:
		err = b.bindPerVertex()
	default:
		err = b.bindPerMesh()
	}
	if err != nil {
		b.nodes, b.sticks = nil, nil
		return err
	}

	for _, i := range b.locked {
		if i < 0 || i >= len(b.nodes) {
			b.nodes, b.sticks = nil, nil
			return fmt.Errorf("lock node %d: %w", i, ErrNodeIndex)
		}
		b.nodes[i].Locked = true
	}

	b.state.Store(int32(StateInitialized))
	return nil
}

func (b *SoftBody) bindPerMesh() error {
	matrix := b.Transform.Matrix()

	for m, buffers := range b.Meshes {
		if buffers == nil || len(buffers.Vertices) == 0 {
			return fmt.Errorf("mesh %d: %w", m, ErrNoGeometry)
		}

		var center mgl64.Vec3
		for _, v := range buffers.Vertices {
			center = center.Add(v.Position)
		}
		center = center.Mul(1 / float64(len(buffers.Vertices)))

		node := NewNode(mgl64.TransformCoordinate(center, matrix), b.NodeRadius, false)
		node.Bindings = make([]Binding, len(buffers.Vertices))
		for i, v := range buffers.Vertices {
			node.Bindings[i] = Binding{Mesh: m, Vertex: uint32(i), Offset: v.Position.Sub(center)}
		}
		b.nodes = append(b.nodes, node)
	}

	if len(b.nodes) == 0 {
		return ErrNoGeometry
	}
	for i := 0; i+1 < len(b.nodes); i++ {
		b.sticks = append(b.sticks, NewStick(b.nodes, i, i+1))
	}

	return nil
}

func (b *SoftBody) bindPerVertex() error {
	matrix := b.Transform.Matrix()

	for m, buffers := range b.Meshes {
		if buffers == nil || len(buffers.Vertices) == 0 {
			return fmt.Errorf("mesh %d: %w", m, ErrNoGeometry)
		}

		first := len(b.nodes)
		for i, v := range buffers.Vertices {
			node := NewNode(mgl64.TransformCoordinate(v.Position, matrix), b.NodeRadius, false)
			node.Bindings = []Binding{{Mesh: m, Vertex: uint32(i)}}
			b.nodes = append(b.nodes, node)
		}

		for _, e := range buffers.Edges() {
			b.sticks = append(b.sticks, NewStick(b.nodes, first+int(e[0]), first+int(e[1])))
		}
	}

	if len(b.nodes) == 0 {
		return ErrNoGeometry
	}
	return nil
}

// Start moves an initialized body to running, initializing it first when needed
func (b *SoftBody) Start() error {
	if b.State() == StateUninitialized {
		if err := b.Initialize(); err != nil {
			return err
		}
	}
	if !b.state.CompareAndSwap(int32(StateInitialized), int32(StateRunning)) && b.State() != StateRunning {
		return ErrDestroyed
	}
	return nil
}

// Destroy frees the nodes and sticks. A destroyed body is never ticked again.
func (b *SoftBody) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nodes = nil
	b.sticks = nil
	b.state.Store(int32(StateDestroyed))
}

// LockNodes pins the nodes at indices. Before initialization the indices are recorded and
// applied once the nodes exist.
func (b *SoftBody) LockNodes(indices ...int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.State() == StateUninitialized {
		b.locked = append(b.locked, indices...)
		return nil
	}

	for _, i := range indices {
		if i < 0 || i >= len(b.nodes) {
			return fmt.Errorf("lock node %d: %w", i, ErrNodeIndex)
		}
	}
	for _, i := range indices {
		b.nodes[i].Locked = true
		b.locked = append(b.locked, i)
	}
	return nil
}

// AddStick joins two nodes at their current distance
func (b *SoftBody) AddStick(a, c int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if a < 0 || a >= len(b.nodes) || c < 0 || c >= len(b.nodes) || a == c {
		return fmt.Errorf("stick %d-%d: %w", a, c, ErrNodeIndex)
	}
	b.sticks = append(b.sticks, NewStick(b.nodes, a, c))
	return nil
}

// ApplyVelocity adds v to the node at index on the next step
func (b *SoftBody) ApplyVelocity(index int, v mgl64.Vec3) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if index < 0 || index >= len(b.nodes) {
		return fmt.Errorf("apply velocity to node %d: %w", index, ErrNodeIndex)
	}
	b.nodes[index].velocity = b.nodes[index].velocity.Add(v)
	return nil
}

// ApplyVelocityToRandomNode applies v to a node picked by rng and returns its index, or -1
// when the body has no nodes.
func (b *SoftBody) ApplyVelocityToRandomNode(v mgl64.Vec3, rng *rand.Rand) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.nodes) == 0 {
		return -1
	}

	var index int
	if rng != nil {
		index = rng.Intn(len(b.nodes))
	} else {
		index = rand.Intn(len(b.nodes))
	}
	b.nodes[index].velocity = b.nodes[index].velocity.Add(v)
	return index
}

// Nodes returns a copy of the node arena
func (b *SoftBody) Nodes() []Node {
	b.mu.Lock()
	defer b.mu.Unlock()

	nodes := make([]Node, len(b.nodes))
	copy(nodes, b.nodes)
	return nodes
}

// Sticks returns a copy of the stick arena
func (b *SoftBody) Sticks() []Stick {
	b.mu.Lock()
	defer b.mu.Unlock()

	sticks := make([]Stick, len(b.sticks))
	copy(sticks, b.sticks)
	return sticks
}

// Simulate integrates every node, then runs the relaxation passes over every stick.
// It touches only the arenas, never the mesh buffers.
func (b *SoftBody) Simulate(dt float64) {
	if b.State() != StateRunning {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.nodes {
		b.nodes[i].Integrate(dt, b.Gravity)
	}

	for range max(1, b.Iterations) {
		for _, s := range b.sticks {
			s.Relax(b.nodes)
		}
	}
}

// Commit projects the nodes into the bound vertex buffers through the inverse of the body
// transform, then recomputes the mesh normals. The caller holds the shared lock.
func (b *SoftBody) Commit() {
	if b.State() != StateRunning {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	inverse := b.Transform.InverseMatrix()
	for _, n := range b.nodes {
		local := mgl64.TransformCoordinate(n.Current, inverse)
		for _, binding := range n.Bindings {
			if binding.Mesh >= len(b.Meshes) || int(binding.Vertex) >= len(b.Meshes[binding.Mesh].Vertices) {
				continue
			}
			b.Meshes[binding.Mesh].Vertices[binding.Vertex].Position = local.Add(binding.Offset)
		}
	}

	for _, m := range b.Meshes {
		m.RecomputeNormals()
	}
}

// Update runs one step: Simulate outside the lock, then Commit inside it as one critical
// section. lock is kept for ReadBuffers.
func (b *SoftBody) Update(dt float64, lock sync.Locker) {
	if b.State() != StateRunning {
		return
	}

	b.Bind(lock)
	b.Simulate(dt)

	lock.Lock()
	defer lock.Unlock()
	b.Commit()
}

// Bind records the lock shared with the render path
func (b *SoftBody) Bind(lock sync.Locker) {
	if lock == nil {
		return
	}
	if current := b.lock.Load(); current != nil && current.Locker == lock {
		return
	}
	b.lock.Store(&lockRef{Locker: lock})
}

// ReadBuffers calls fn with the mesh buffers while holding the shared lock, so fn sees a whole
// step. A body never bound to a lock has no concurrent writer and fn runs unlocked.
func (b *SoftBody) ReadBuffers(fn func(meshes []*mesh.Mesh)) {
	if ref := b.lock.Load(); ref != nil {
		ref.Lock()
		defer ref.Unlock()
	}
	fn(b.Meshes)
}

// Upload hands the buffers to the consumer. The caller holds the shared lock.
func (b *SoftBody) Upload() {
	if b.Consumer == nil || b.State() != StateRunning {
		return
	}
	b.Consumer.Upload(b.Meshes)
}

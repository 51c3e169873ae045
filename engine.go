// Package tether is a real-time physics core for a host application: a fixed-step rigid-body
// engine with discrete collision detection and response, and a Verlet soft-body simulation
// ticked on its own goroutine and synchronized with the render path through a shared lock.
package tether

import (
	"log"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/akmonengine/tether/actor"
	"github.com/akmonengine/tether/constraint"
	"github.com/akmonengine/tether/geometry"
	"github.com/akmonengine/tether/mesh"
	"github.com/akmonengine/tether/verlet"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

type lockRef struct {
	sync.Locker
}

// Engine is the registry of physics objects and soft bodies, and steps them.
//
// Objects are owned by the host: the engine only references them, and they must only be
// touched from the goroutine calling Update. Soft bodies are owned by the engine once added.
type Engine struct {
	// Gravity acceleration (m/s², or N/kg)
	Gravity mgl64.Vec3
	// FixedStep is the duration of one rigid-body step, in seconds
	FixedStep float64

	SoftBodyGravity      mgl64.Vec3
	RelaxationIterations int
	NodeRadius           float64
	Workers              int

	Events Events
	Logger *log.Logger

	objects     []*actor.PhysicsObject
	accumulator float64

	// softMu guards the soft-body registry; always taken before the shared lock
	softMu     sync.Mutex
	softBodies []*verlet.SoftBody
	lock       atomic.Pointer[lockRef]
}

// NewEngine creates an empty engine from cfg
func NewEngine(cfg Config) *Engine {
	return &Engine{
		Gravity:              mgl64.Vec3(cfg.Gravity),
		FixedStep:            cfg.FixedStep,
		SoftBodyGravity:      mgl64.Vec3(cfg.SoftBodyGravity),
		RelaxationIterations: cfg.RelaxationIterations,
		NodeRadius:           cfg.NodeRadius,
		Workers:              cfg.Workers,
		Events:               NewEvents(),
		Logger:               log.Default(),
	}
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logger == nil {
		return
	}
	e.Logger.Printf("Physics: "+format, args...)
}

// AddPhysicsObject registers o. Adding an object already registered does nothing.
func (e *Engine) AddPhysicsObject(o *actor.PhysicsObject) {
	if o == nil || e.HasPhysicsObject(o) {
		return
	}
	e.objects = append(e.objects, o)
}

// RemovePhysicsObject deregisters o. Removing an object not registered does nothing.
func (e *Engine) RemovePhysicsObject(o *actor.PhysicsObject) {
	k := slices.Index(e.objects, o)
	if k == -1 {
		return
	}
	e.objects = slices.Delete(e.objects, k, k+1)
	e.Events.forget(o)
}

// HasPhysicsObject reports whether o is registered
func (e *Engine) HasPhysicsObject(o *actor.PhysicsObject) bool {
	return slices.Contains(e.objects, o)
}

// PhysicsObjects returns the registered objects in registration order
func (e *Engine) PhysicsObjects() []*actor.PhysicsObject {
	return slices.Clone(e.objects)
}

// NewSoftBody creates a soft body over meshes with the engine settings, starts it and
// registers it.
func (e *Engine) NewSoftBody(transform actor.Transform, mode verlet.BindingMode, lockedNodes []int, meshes ...*mesh.Mesh) (*verlet.SoftBody, error) {
	body := verlet.NewSoftBody(transform, mode, meshes...)
	body.Gravity = e.SoftBodyGravity
	body.Iterations = max(1, e.RelaxationIterations)
	body.NodeRadius = e.NodeRadius

	if err := body.LockNodes(lockedNodes...); err != nil {
		return nil, err
	}
	if err := e.AddSoftBody(body); err != nil {
		return nil, err
	}

	return body, nil
}

// AddSoftBody starts body, initializing it if needed, and hands it to the engine.
// Adding a body already registered does nothing.
func (e *Engine) AddSoftBody(body *verlet.SoftBody) error {
	if body == nil {
		return nil
	}
	if err := body.Start(); err != nil {
		return err
	}

	e.softMu.Lock()
	defer e.softMu.Unlock()

	if slices.Contains(e.softBodies, body) {
		return nil
	}
	if ref := e.lock.Load(); ref != nil {
		body.Bind(ref.Locker)
	}
	e.softBodies = append(e.softBodies, body)
	e.logf("soft body registered (%d nodes, %d sticks)", len(body.Nodes()), len(body.Sticks()))

	return nil
}

// RemoveSoftBody deregisters and destroys body
func (e *Engine) RemoveSoftBody(body *verlet.SoftBody) {
	e.softMu.Lock()
	defer e.softMu.Unlock()

	k := slices.Index(e.softBodies, body)
	if k == -1 {
		return
	}
	e.softBodies = slices.Delete(e.softBodies, k, k+1)
	body.Destroy()
	e.logf("soft body destroyed")
}

// SoftBodies returns the registered soft bodies
func (e *Engine) SoftBodies() []*verlet.SoftBody {
	e.softMu.Lock()
	defer e.softMu.Unlock()

	return slices.Clone(e.softBodies)
}

// Update advances the rigid-body simulation by dt. Time accumulates until it reaches
// FixedStep, then exactly one step of FixedStep runs and the remainder is dropped.
//
// Once a shared lock is installed, Update also uploads the soft-body buffers inside it.
func (e *Engine) Update(dt float64) {
	e.accumulator += dt

	e.uploadSoftBodies()

	if e.FixedStep > 0 && e.accumulator >= e.FixedStep {
		e.step(e.FixedStep)
		e.accumulator = 0
	}
}

func (e *Engine) uploadSoftBodies() {
	ref := e.lock.Load()
	if ref == nil {
		return
	}

	e.softMu.Lock()
	defer e.softMu.Unlock()

	ref.Lock()
	defer ref.Unlock()

	for _, body := range e.softBodies {
		body.Upload()
	}
}

// step runs one discrete rigid-body step. Each object is integrated and resolved before the
// next one is visited, so later objects see the already moved positions.
func (e *Engine) step(h float64) {
	// listeners may add or remove objects; that takes effect next step
	objects := slices.Clone(e.objects)

	for _, o := range objects {
		if !o.CanIntegrate() {
			continue
		}

		o.Integrate(h, e.Gravity)

		contacts := o.Contacts()
		contacts.Reset()
		bounds := o.WorldAABB()

		for _, other := range objects {
			if other == o || !other.Enabled {
				continue
			}
			if o.IsExcluding(other) || other.IsExcluding(o) {
				continue
			}
			if !bounds.Overlaps(other.WorldAABB()) {
				continue
			}

			start := contacts.Len()
			if !Collide(o, other, contacts) || contacts.Len() == start {
				continue
			}

			e.Events.recordContact(o, other)

			if listener := o.CollisionListener(); o.InvokeCollisions && listener != nil {
				listener.OnCollision(o, other, &geometry.Contacts{
					Points:  contacts.Points[start:contacts.Len():contacts.Len()],
					Normals: contacts.Normals[start:contacts.Len():contacts.Len()],
				})
			}
		}

		constraint.Resolve(o, contacts, h)
	}

	e.Events.flush()
}

// BindLock installs the lock shared with the render path. Registered soft bodies are bound to
// it at once, and bodies added later are bound when registered.
func (e *Engine) BindLock(lock sync.Locker) {
	if lock == nil {
		return
	}

	e.softMu.Lock()
	defer e.softMu.Unlock()

	e.lock.Store(&lockRef{Locker: lock})
	for _, body := range e.softBodies {
		body.Bind(lock)
	}
}

// UpdateSoftBodies ticks every running soft body once. Integration and relaxation run on
// Workers goroutines; the projection into the mesh buffers then runs for all bodies inside
// one hold of lock.
func (e *Engine) UpdateSoftBodies(dt float64, lock sync.Locker) {
	if lock == nil {
		return
	}
	if ref := e.lock.Load(); ref == nil || ref.Locker != lock {
		e.BindLock(lock)
	}

	e.softMu.Lock()
	defer e.softMu.Unlock()

	bodies := make([]*verlet.SoftBody, 0, len(e.softBodies))
	for _, body := range e.softBodies {
		if body.State() == verlet.StateRunning {
			bodies = append(bodies, body)
		}
	}

	task(max(DEFAULT_WORKERS, e.Workers), bodies, func(body *verlet.SoftBody) {
		body.Simulate(dt)
	})

	lock.Lock()
	defer lock.Unlock()

	for _, body := range bodies {
		body.Commit()
	}
}

// Shutdown destroys and forgets every soft body. Physics objects belong to the host and are
// left registered.
func (e *Engine) Shutdown() {
	e.softMu.Lock()
	defer e.softMu.Unlock()

	for _, body := range e.softBodies {
		body.Destroy()
	}
	if len(e.softBodies) > 0 {
		e.logf("shutdown, %d soft bodies destroyed", len(e.softBodies))
	}
	e.softBodies = nil
}

package tether

import (
	"sync"
	"sync/atomic"
	"time"
)

// PhysicsThread ticks the soft bodies of an engine on a dedicated goroutine, at its own fixed
// rate. It owns the lock shared by the soft bodies and the render path.
//
// Start, Stop, Pause and Resume are meant to be called from the host thread.
type PhysicsThread struct {
	engine *Engine
	step   float64

	mu      sync.Mutex
	alive   atomic.Bool
	running atomic.Bool
	ticks   atomic.Uint64
	done    chan struct{}
}

// NewPhysicsThread creates a stopped thread ticking engine every cfg.SoftBodyStep seconds, and
// installs its lock on engine.
func NewPhysicsThread(engine *Engine, cfg Config) *PhysicsThread {
	step := cfg.SoftBodyStep
	if step <= 0 {
		step = DefaultConfig().SoftBodyStep
	}

	t := &PhysicsThread{engine: engine, step: step}
	// readers must see the lock before the first tick writes
	engine.BindLock(&t.mu)
	return t
}

// Lock returns the lock serializing the soft-body buffers between this thread and the host
func (t *PhysicsThread) Lock() sync.Locker {
	return &t.mu
}

// Step returns the tick duration, in seconds
func (t *PhysicsThread) Step() float64 {
	return t.step
}

// Ticks returns how many soft-body ticks have run
func (t *PhysicsThread) Ticks() uint64 {
	return t.ticks.Load()
}

// IsAlive reports whether the loop goroutine exists
func (t *PhysicsThread) IsAlive() bool {
	return t.alive.Load()
}

// IsRunning reports whether ticks advance
func (t *PhysicsThread) IsRunning() bool {
	return t.running.Load()
}

// Start launches the loop, running. Starting an alive thread does nothing.
func (t *PhysicsThread) Start() {
	if !t.alive.CompareAndSwap(false, true) {
		return
	}

	t.running.Store(true)
	t.done = make(chan struct{})
	go t.loop(t.done)

	t.engine.logf("soft body thread started (step %vs)", t.step)
}

// Pause keeps the loop alive but stops ticking
func (t *PhysicsThread) Pause() {
	t.running.Store(false)
}

// Resume restarts ticking after Pause
func (t *PhysicsThread) Resume() {
	if t.alive.Load() {
		t.running.Store(true)
	}
}

// Stop clears the run flag and blocks until the loop has returned. The in-flight tick, if any,
// completes first.
func (t *PhysicsThread) Stop() {
	if !t.alive.CompareAndSwap(true, false) {
		return
	}
	t.running.Store(false)
	<-t.done

	t.engine.logf("soft body thread stopped after %d ticks", t.ticks.Load())
}

// interval is the tick period, never below the ticker resolution
func (t *PhysicsThread) interval() time.Duration {
	return max(time.Duration(t.step*float64(time.Second)), time.Nanosecond)
}

// loop ticks at a fixed rate; ticks missed while a slow tick runs are dropped, not caught up
func (t *PhysicsThread) loop(done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval())
	defer ticker.Stop()

	for range ticker.C {
		if !t.alive.Load() {
			return
		}
		if !t.running.Load() {
			continue
		}

		t.engine.UpdateSoftBodies(t.step, &t.mu)
		t.ticks.Add(1)
	}
}

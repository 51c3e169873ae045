package tether

import (
	"unsafe"

	"github.com/akmonengine/tether/actor"
)

const (
	TRIGGER_ENTER EventType = iota
	COLLISION_ENTER
	TRIGGER_STAY
	COLLISION_STAY
	TRIGGER_EXIT
	COLLISION_EXIT
)

type pairKey struct {
	objectA *actor.PhysicsObject
	objectB *actor.PhysicsObject
}

// makePairKey creates a normalized pair key with consistent ordering
func makePairKey(objectA, objectB *actor.PhysicsObject) pairKey {
	ptrA := uintptr(unsafe.Pointer(objectA))
	ptrB := uintptr(unsafe.Pointer(objectB))

	if ptrB < ptrA {
		objectA, objectB = objectB, objectA
	}

	return pairKey{objectA: objectA, objectB: objectB}
}

func (p pairKey) isTrigger() bool {
	return p.objectA.CollisionMode == actor.CollisionTrigger || p.objectB.CollisionMode == actor.CollisionTrigger
}

func (p pairKey) has(o *actor.PhysicsObject) bool {
	return p.objectA == o || p.objectB == o
}

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Trigger events
type TriggerEnterEvent struct {
	ObjectA *actor.PhysicsObject
	ObjectB *actor.PhysicsObject
}

func (e TriggerEnterEvent) Type() EventType { return TRIGGER_ENTER }

type TriggerStayEvent struct {
	ObjectA *actor.PhysicsObject
	ObjectB *actor.PhysicsObject
}

func (e TriggerStayEvent) Type() EventType { return TRIGGER_STAY }

type TriggerExitEvent struct {
	ObjectA *actor.PhysicsObject
	ObjectB *actor.PhysicsObject
}

func (e TriggerExitEvent) Type() EventType { return TRIGGER_EXIT }

// Collision events
type CollisionEnterEvent struct {
	ObjectA *actor.PhysicsObject
	ObjectB *actor.PhysicsObject
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	ObjectA *actor.PhysicsObject
	ObjectB *actor.PhysicsObject
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	ObjectA *actor.PhysicsObject
	ObjectB *actor.PhysicsObject
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// EventListener - callback for events
type EventListener func(event Event)

// Events tracks the pairs in contact across fixed steps and dispatches Enter/Stay/Exit events.
// Unlike the per-object collision listener, a pair is reported once whichever side detected it.
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Collision tracking for Enter/Stay/Exit detection
	previousActivePairs map[pairKey]bool
	currentActivePairs  map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:           make(map[EventType][]EventListener),
		buffer:              make([]Event, 0, 256),
		previousActivePairs: make(map[pairKey]bool),
		currentActivePairs:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		*e = NewEvents()
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordContact is called during the step for every pair that touched
func (e *Events) recordContact(objectA, objectB *actor.PhysicsObject) {
	if e.currentActivePairs == nil {
		return
	}
	e.currentActivePairs[makePairKey(objectA, objectB)] = true
}

// forget drops every tracked pair involving o, without emitting an exit
func (e *Events) forget(o *actor.PhysicsObject) {
	for pair := range e.previousActivePairs {
		if pair.has(o) {
			delete(e.previousActivePairs, pair)
		}
	}
	for pair := range e.currentActivePairs {
		if pair.has(o) {
			delete(e.currentActivePairs, pair)
		}
	}
}

// pairEvent builds the event of the given phase (enter, stay or exit) for pair. Pairs involving a
// trigger report trigger events.
func pairEvent(pair pairKey, phase EventType) Event {
	a, b := pair.objectA, pair.objectB
	if pair.isTrigger() {
		switch phase {
		case COLLISION_ENTER:
			return TriggerEnterEvent{ObjectA: a, ObjectB: b}
		case COLLISION_STAY:
			return TriggerStayEvent{ObjectA: a, ObjectB: b}
		}
		return TriggerExitEvent{ObjectA: a, ObjectB: b}
	}

	switch phase {
	case COLLISION_ENTER:
		return CollisionEnterEvent{ObjectA: a, ObjectB: b}
	case COLLISION_STAY:
		return CollisionStayEvent{ObjectA: a, ObjectB: b}
	}
	return CollisionExitEvent{ObjectA: a, ObjectB: b}
}

// processCollisionEvents diffs the pairs of this step against the previous one.
// Called once per fixed step.
func (e *Events) processCollisionEvents() {
	for pair := range e.currentActivePairs {
		if e.previousActivePairs[pair] {
			e.buffer = append(e.buffer, pairEvent(pair, COLLISION_STAY))
		} else {
			e.buffer = append(e.buffer, pairEvent(pair, COLLISION_ENTER))
		}
	}
	for pair := range e.previousActivePairs {
		if !e.currentActivePairs[pair] {
			e.buffer = append(e.buffer, pairEvent(pair, COLLISION_EXIT))
		}
	}

	e.previousActivePairs, e.currentActivePairs = e.currentActivePairs, e.previousActivePairs
	clear(e.currentActivePairs)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	if e.currentActivePairs == nil {
		return
	}
	e.processCollisionEvents()

	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}

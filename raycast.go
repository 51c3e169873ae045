package tether

import (
	"github.com/akmonengine/tether/actor"
	"github.com/akmonengine/tether/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// RaycastHit is the closest hit of a ray cast against the engine objects
type RaycastHit struct {
	geometry.RaycastHit
	Object *actor.PhysicsObject
}

// Raycast checks the ray against every enabled object and returns the closest hit
func (e *Engine) Raycast(origin, direction mgl64.Vec3, maxDistance float64) (RaycastHit, bool) {
	var closestHit RaycastHit
	closestHit.Distance = maxDistance
	hit := false

	for _, o := range e.objects {
		if !o.Enabled {
			continue
		}
		if hitInfo, ok := o.Raycast(origin, direction, maxDistance); ok && hitInfo.Distance <= closestHit.Distance {
			closestHit = RaycastHit{RaycastHit: hitInfo, Object: o}
			hit = true
		}
	}

	return closestHit, hit
}

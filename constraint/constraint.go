package constraint

import (
	"github.com/akmonengine/tether/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type Constraint interface {
	SolvePosition(dt float64)
	SolveVelocity(dt float64)
}

// ComputeRestitution returns the factor applied to the reflected speed of a dynamic object.
// Bounces are perfectly elastic: Bounciness is carried on the properties but not read here.
func ComputeRestitution(props actor.Properties) float64 {
	return 1.0

	// Option: scale by the object's bounciness
	// return props.Bounciness
}

// isResting reports whether a velocity is too small to have a direction
func isResting(v mgl64.Vec3) bool {
	const velocityThreshold = 1e-5

	return v.Len() < velocityThreshold
}

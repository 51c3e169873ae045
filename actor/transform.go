package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position, orientation and scale in 3D space.
// A zero Scale or a zero Rotation is read as identity.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// NewTransformAt creates an unrotated, unscaled transform at position
func NewTransformAt(position mgl64.Vec3) Transform {
	t := NewTransform()
	t.Position = position
	return t
}

// Matrix returns translation * rotation * scale. It is computed on every call.
func (t Transform) Matrix() mgl64.Mat4 {
	scale := t.Scale
	if scale == (mgl64.Vec3{}) {
		scale = mgl64.Vec3{1, 1, 1}
	}

	rotation := t.Rotation
	if rotation.Len() < 1e-12 {
		rotation = mgl64.QuatIdent()
	}

	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// InverseMatrix returns the inverse of Matrix.
func (t Transform) InverseMatrix() mgl64.Mat4 {
	return t.Matrix().Inv()
}

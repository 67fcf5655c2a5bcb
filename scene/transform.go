package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// SetEuler sets the rotation from XYZ euler angles given in degrees.
func (t *Transform) SetEuler(degrees mgl32.Vec3) {
	t.Rotation = mgl32.AnglesToQuat(
		mgl32.DegToRad(degrees.X()),
		mgl32.DegToRad(degrees.Y()),
		mgl32.DegToRad(degrees.Z()),
		mgl32.XYZ,
	)
}

// ObjectToWorld is T * R * S.
func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position.Elem()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(t.Scale.Elem()))
}

// WorldToObject inverts ObjectToWorld factor by factor. Scale must not be zero
// on any axis.
func (t *Transform) WorldToObject() mgl32.Mat4 {
	back := t.Position.Mul(-1)
	return mgl32.Scale3D(1/t.Scale.X(), 1/t.Scale.Y(), 1/t.Scale.Z()).
		Mul4(t.Rotation.Inverse().Mat4()).
		Mul4(mgl32.Translate3D(back.Elem()))
}

package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// Quat is a rotation quaternion. It is the canonical rotation type; Euler
// angles are converted once when a transform is built.
type Quat mgl64.Quat

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat(mgl64.QuatIdent())
}

// QuatFromEuler converts XYZ-order Euler angles (matrix Rx*Ry*Rz).
func QuatFromEuler(e Euler) Quat {
	return Quat(mgl64.AnglesToQuat(e.X, e.Y, e.Z, mgl64.XYZ))
}

// Length returns the quaternion norm.
func (q Quat) Length() float64 {
	return mgl64.Quat(q).Len()
}

// Normalize returns q with unit norm. A zero quaternion becomes the identity.
func (q Quat) Normalize() Quat {
	if q.Length() <= Epsilon {
		return QuatIdentity()
	}
	return Quat(mgl64.Quat(q).Normalize())
}

// Mul returns the rotation q applied after r.
func (q Quat) Mul(r Quat) Quat {
	return Quat(mgl64.Quat(q).Mul(mgl64.Quat(r)))
}

// Rotate applies q to v.
func (q Quat) Rotate(v v3.Vec) v3.Vec {
	return fromMgl(mgl64.Quat(q).Rotate(toMgl(v)))
}

// Mat3 returns the rotation matrix of a unit quaternion.
func (q Quat) Mat3() Mat3 {
	return Mat3(mgl64.Quat(q).Mat4().Mat3())
}

// Euler is a rotation as XYZ-order Euler angles in radians, the convention
// scene files and the editor use.
type Euler struct {
	X, Y, Z float64
}

// Quat converts e to a quaternion.
func (e Euler) Quat() Quat {
	return QuatFromEuler(e)
}

// Mat3 returns Rx*Ry*Rz.
func (e Euler) Mat3() Mat3 {
	return RotateX(e.X).Mul(RotateY(e.Y)).Mul(RotateZ(e.Z))
}

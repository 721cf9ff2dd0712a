package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
)

// Mat3 is a 3x3 matrix stored column-major like mgl64.Mat3. Rotation
// matrices act on column vectors, so the columns of an orientation are the
// rotated local axes.
type Mat3 mgl64.Mat3

func toMgl(v v3.Vec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// Identity3 returns the identity matrix.
func Identity3() Mat3 {
	return Mat3(mgl64.Ident3())
}

// Diag returns a diagonal matrix with v on the diagonal.
func Diag(v v3.Vec) Mat3 {
	return Mat3(mgl64.Diag3(toMgl(v)))
}

// RotateX returns a right-handed rotation of a radians about X.
func RotateX(a float64) Mat3 {
	return Mat3(mgl64.Rotate3DX(a))
}

// RotateY returns a right-handed rotation of a radians about Y.
func RotateY(a float64) Mat3 {
	return Mat3(mgl64.Rotate3DY(a))
}

// RotateZ returns a right-handed rotation of a radians about Z.
func RotateZ(a float64) Mat3 {
	return Mat3(mgl64.Rotate3DZ(a))
}

// Mul returns m*n.
func (m Mat3) Mul(n Mat3) Mat3 {
	return Mat3(mgl64.Mat3(m).Mul3(mgl64.Mat3(n)))
}

// MulVec returns m*v.
func (m Mat3) MulVec(v v3.Vec) v3.Vec {
	return fromMgl(mgl64.Mat3(m).Mul3x1(toMgl(v)))
}

// Transpose returns the transpose of m. For a rotation this is the inverse.
func (m Mat3) Transpose() Mat3 {
	return Mat3(mgl64.Mat3(m).Transpose())
}

// Col returns column i.
func (m Mat3) Col(i int) v3.Vec {
	return fromMgl(mgl64.Mat3(m).Col(i))
}

// Row returns row i.
func (m Mat3) Row(i int) v3.Vec {
	return fromMgl(mgl64.Mat3(m).Row(i))
}

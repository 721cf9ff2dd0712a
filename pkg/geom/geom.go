// Package geom holds the 3D math shared by the collision core: rotation
// matrices, quaternions, Euler conversion and TRS transforms. Vectors are
// sdfx v3.Vec values so the same type flows from the collision tests into
// the SDF kernel without conversion.
package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the tolerance below which a length or denominator is treated
// as zero.
const Epsilon = 1e-9

// Vec is shorthand for building a v3.Vec.
func Vec(x, y, z float64) v3.Vec {
	return v3.Vec{X: x, Y: y, Z: z}
}

// One is the unit scale vector.
var One = v3.Vec{X: 1, Y: 1, Z: 1}

// IsZero reports whether v is shorter than Epsilon.
func IsZero(v v3.Vec) bool {
	return v.Length2() <= Epsilon*Epsilon
}

// SafeNormalize returns v scaled to unit length, or fallback when v is
// too short to normalize.
func SafeNormalize(v, fallback v3.Vec) v3.Vec {
	l := v.Length()
	if l <= Epsilon {
		return fallback
	}
	return v.MulScalar(1 / l)
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Component returns v.X, v.Y or v.Z for i = 0, 1, 2.
func Component(v v3.Vec, i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns a copy of v with component i replaced.
func WithComponent(v v3.Vec, i int, x float64) v3.Vec {
	switch i {
	case 0:
		v.X = x
	case 1:
		v.Y = x
	default:
		v.Z = x
	}
	return v
}

// AbsVec returns the component-wise absolute value of v.
func AbsVec(v v3.Vec) v3.Vec {
	return v3.Vec{X: math.Abs(v.X), Y: math.Abs(v.Y), Z: math.Abs(v.Z)}
}

// IsFinite reports whether every component of v is neither NaN nor Inf.
func IsFinite(v v3.Vec) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform is a world or parent-relative TRS transform. Points are scaled,
// then rotated, then translated.
type Transform struct {
	Position v3.Vec `json:"position"`
	Rotation Quat   `json:"rotation"`
	Scale    v3.Vec `json:"scale"`
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform {
	return Transform{Rotation: QuatIdentity(), Scale: One}
}

// NewTransform builds a transform from Euler angles.
func NewTransform(position v3.Vec, rotation Euler, scale v3.Vec) Transform {
	return Transform{
		Position: position,
		Rotation: rotation.Quat(),
		Scale:    scale,
	}
}

// Apply maps a local point through t.
func (t Transform) Apply(p v3.Vec) v3.Vec {
	return t.Rotation.Rotate(p.Mul(t.Scale)).Add(t.Position)
}

// Compose returns the world transform of child when t is its parent.
// Scale composes component-wise; shear produced by a rotated child under a
// non-uniformly scaled parent is dropped, as scene editors do when they
// decompose a world matrix.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Position: t.Apply(child.Position),
		Rotation: t.Rotation.Mul(child.Rotation).Normalize(),
		Scale:    t.Scale.Mul(child.Scale),
	}
}

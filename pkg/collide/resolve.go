package collide

import (
	"fmt"
	"math"

	"github.com/ninjagl/intersects/pkg/geom"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Shape is the unscaled geometry of an object, as authored in the editor.
type Shape interface {
	ShapeKind() Kind
}

// SphereShape is a sphere of the given base radius.
type SphereShape struct {
	Radius float64 `json:"radius" yaml:"radius"`
}

// BoxShape is a box with full dimensions along local X, Y and Z.
type BoxShape struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Depth  float64 `json:"depth" yaml:"depth"`
}

// CapsuleShape is a capsule along local +Y. Length is the distance between
// the two cap centers.
type CapsuleShape struct {
	Radius float64 `json:"radius" yaml:"radius"`
	Length float64 `json:"length" yaml:"length"`
}

func (SphereShape) ShapeKind() Kind  { return KindSphere }
func (BoxShape) ShapeKind() Kind     { return KindBox }
func (CapsuleShape) ShapeKind() Kind { return KindCapsule }

// Object is a renderer-side object reduced to what the tests need: its
// world transform and its base geometry.
type Object struct {
	Transform geom.Transform
	Shape     Shape
}

// Resolve converts an object into its world-space primitive.
func Resolve(o Object) (Primitive, error) {
	switch s := o.Shape.(type) {
	case SphereShape:
		return ResolveSphere(o.Transform, s), nil
	case BoxShape:
		return ResolveBox(o.Transform, s), nil
	case CapsuleShape:
		return ResolveCapsule(o.Transform, s), nil
	case nil:
		return nil, ErrNoShape
	default:
		return nil, fmt.Errorf("resolve: unsupported shape %T", o.Shape)
	}
}

// ResolveSphere applies t to a sphere. Uniform scale folds into the radius;
// non-uniform scale keeps the per-axis stretch so overlap is measured
// against the ellipsoid.
func ResolveSphere(t geom.Transform, s SphereShape) Sphere {
	sc := geom.AbsVec(t.Scale)
	if sc.X == sc.Y && sc.Y == sc.Z {
		return Sphere{Center: t.Position, Radius: s.Radius * sc.X}
	}
	return Sphere{
		Center: t.Position,
		Radius: s.Radius,
		Ellipsoid: &Ellipsoid{
			Orientation: t.Rotation.Mat3(),
			Scale:       sc,
		},
	}
}

// ResolveBox applies t to a box: half extents scale per axis and the
// rotation becomes the orientation.
func ResolveBox(t geom.Transform, s BoxShape) Box {
	sc := geom.AbsVec(t.Scale)
	return Box{
		Center: t.Position,
		HalfExtents: v3.Vec{
			X: s.Width / 2 * sc.X,
			Y: s.Height / 2 * sc.Y,
			Z: s.Depth / 2 * sc.Z,
		},
		Orientation: t.Rotation.Mat3(),
	}
}

// ResolveCapsule applies t to a capsule. The axis stretches with scale.Y;
// the radius takes the smaller of the two perpendicular scales so the
// resolved capsule stays inside the scaled shape.
func ResolveCapsule(t geom.Transform, s CapsuleShape) Capsule {
	half := t.Rotation.Rotate(v3.Vec{Y: s.Length / 2 * t.Scale.Y})
	return Capsule{
		A:      t.Position.Sub(half),
		B:      t.Position.Add(half),
		Radius: s.Radius * math.Min(math.Abs(t.Scale.X), math.Abs(t.Scale.Z)),
	}
}

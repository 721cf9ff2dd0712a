// Package collide implements narrow-phase intersection tests between world
// space primitives: spheres (optionally stretched into ellipsoids by
// non-uniform scale), oriented boxes and capsules.
//
// Every test is a pure function of its arguments. Primitives are plain
// values built fresh for each call, so the package is safe for concurrent
// use without synchronization. Inputs are not validated; negative radii or
// extents give undefined results and NaN propagates.
package collide

import (
	"math"

	"github.com/ninjagl/intersects/pkg/geom"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kind enumerates the primitive shapes.
type Kind int

const (
	KindSphere Kind = iota
	KindBox
	KindCapsule
)

func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

// Primitive is a world-space shape ready for testing. The set of
// implementations is closed: Sphere, Box and Capsule.
type Primitive interface {
	Kind() Kind
	// Bounds returns the world axis-aligned bounding box.
	Bounds() AABB
	primitive()
}

var (
	_ Primitive = Sphere{}
	_ Primitive = Box{}
	_ Primitive = Capsule{}
)

// ---------------------------------------------------------------------------
// Sphere
// ---------------------------------------------------------------------------

// Ellipsoid carries the per-axis stretch of a non-uniformly scaled sphere.
// The stretched surface is Center + Orientation*(Scale ⊙ x) for |x| = Radius.
type Ellipsoid struct {
	Orientation geom.Mat3 `json:"orientation"`
	Scale       v3.Vec    `json:"scale"`
}

// Sphere is a sphere, or an ellipsoid when Ellipsoid is non-nil.
type Sphere struct {
	Center    v3.Vec     `json:"center"`
	Radius    float64    `json:"radius"`
	Ellipsoid *Ellipsoid `json:"ellipsoid,omitempty"`
}

func (Sphere) Kind() Kind { return KindSphere }
func (Sphere) primitive() {}

// Bounds returns the tight box around the sphere or ellipsoid.
func (s Sphere) Bounds() AABB {
	if s.Ellipsoid == nil {
		r := v3.Vec{X: s.Radius, Y: s.Radius, Z: s.Radius}
		return AABB{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
	}
	m := s.Ellipsoid.Orientation.Mul(geom.Diag(s.Ellipsoid.Scale))
	half := v3.Vec{
		X: s.Radius * m.Row(0).Length(),
		Y: s.Radius * m.Row(1).Length(),
		Z: s.Radius * m.Row(2).Length(),
	}
	return AABB{Min: s.Center.Sub(half), Max: s.Center.Add(half)}
}

// RadiusAlong returns the distance from the center to the surface in the
// unit direction u. For a round sphere this is Radius.
func (s Sphere) RadiusAlong(u v3.Vec) float64 {
	if s.Ellipsoid == nil {
		return s.Radius
	}
	local := s.Ellipsoid.Orientation.Transpose().MulVec(u)
	var sum float64
	for i := 0; i < 3; i++ {
		c := geom.Component(local, i)
		if math.Abs(c) <= geom.Epsilon {
			continue
		}
		sc := math.Abs(geom.Component(s.Ellipsoid.Scale, i))
		if sc <= geom.Epsilon {
			// Flattened along an axis u leans into.
			return 0
		}
		sum += (c / sc) * (c / sc)
	}
	if sum <= 0 {
		return 0
	}
	return s.Radius / math.Sqrt(sum)
}

// maxRadius is the largest center-to-surface distance.
func (s Sphere) maxRadius() float64 {
	if s.Ellipsoid == nil {
		return s.Radius
	}
	return s.Radius * geom.AbsVec(s.Ellipsoid.Scale).MaxComponent()
}

// ---------------------------------------------------------------------------
// Box
// ---------------------------------------------------------------------------

// Box is an oriented box: axis aligned in its local frame, rotated into
// world space by Orientation.
type Box struct {
	Center      v3.Vec    `json:"center"`
	HalfExtents v3.Vec    `json:"half_extents"`
	Orientation geom.Mat3 `json:"orientation"`
}

func (Box) Kind() Kind { return KindBox }
func (Box) primitive() {}

// Bounds returns the box around the rotated corners.
func (b Box) Bounds() AABB {
	var half v3.Vec
	for i := 0; i < 3; i++ {
		r := b.Orientation.Row(i)
		e := math.Abs(r.X)*b.HalfExtents.X + math.Abs(r.Y)*b.HalfExtents.Y + math.Abs(r.Z)*b.HalfExtents.Z
		half = geom.WithComponent(half, i, e)
	}
	return AABB{Min: b.Center.Sub(half), Max: b.Center.Add(half)}
}

// ToLocal maps a world point into the box frame.
func (b Box) ToLocal(p v3.Vec) v3.Vec {
	return b.Orientation.Transpose().MulVec(p.Sub(b.Center))
}

// ToWorld maps a box-frame point into world space.
func (b Box) ToWorld(p v3.Vec) v3.Vec {
	return b.Orientation.MulVec(p).Add(b.Center)
}

// ---------------------------------------------------------------------------
// Capsule
// ---------------------------------------------------------------------------

// Capsule is the set of points within Radius of the segment [A, B].
type Capsule struct {
	A      v3.Vec  `json:"a"`
	B      v3.Vec  `json:"b"`
	Radius float64 `json:"radius"`
}

func (Capsule) Kind() Kind { return KindCapsule }
func (Capsule) primitive() {}

// Bounds returns the box around both end caps.
func (c Capsule) Bounds() AABB {
	r := v3.Vec{X: c.Radius, Y: c.Radius, Z: c.Radius}
	return AABB{
		Min: c.A.Min(c.B).Sub(r),
		Max: c.A.Max(c.B).Add(r),
	}
}

// ---------------------------------------------------------------------------
// AABB
// ---------------------------------------------------------------------------

// AABB is a world axis-aligned box given by its corners.
type AABB struct {
	Min v3.Vec `json:"min"`
	Max v3.Vec `json:"max"`
}

// Overlaps reports whether a and o share at least one point.
func (a AABB) Overlaps(o AABB) bool {
	return a.Min.X <= o.Max.X && a.Max.X >= o.Min.X &&
		a.Min.Y <= o.Max.Y && a.Max.Y >= o.Min.Y &&
		a.Min.Z <= o.Max.Z && a.Max.Z >= o.Min.Z
}

// Intersection returns the overlap of a and o. The result is empty
// (Min > Max on some axis) when they do not overlap.
func (a AABB) Intersection(o AABB) AABB {
	return AABB{Min: a.Min.Max(o.Min), Max: a.Max.Min(o.Max)}
}

// Size returns Max - Min.
func (a AABB) Size() v3.Vec {
	return a.Max.Sub(a.Min)
}

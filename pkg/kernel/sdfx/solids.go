package sdfx

import (
	"math"

	"github.com/ninjagl/intersects/pkg/collide"
	"github.com/ninjagl/intersects/pkg/geom"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func box3(b collide.AABB) sdf.Box3 {
	return sdf.Box3{Min: b.Min, Max: b.Max}
}

// orientedBox is the exact distance field of a collide.Box.
type orientedBox struct {
	b  collide.Box
	bb sdf.Box3
}

func newOrientedBox(b collide.Box) sdf.SDF3 {
	return &orientedBox{b: b, bb: box3(b.Bounds())}
}

func (s *orientedBox) Evaluate(p v3.Vec) float64 {
	q := geom.AbsVec(s.b.ToLocal(p)).Sub(s.b.HalfExtents)
	outside := q.Max(v3.Vec{}).Length()
	inside := math.Min(math.Max(q.X, math.Max(q.Y, q.Z)), 0)
	return outside + inside
}

func (s *orientedBox) BoundingBox() sdf.Box3 {
	return s.bb
}

// capsule is the exact distance field of a collide.Capsule.
type capsule struct {
	c  collide.Capsule
	bb sdf.Box3
}

func newCapsule(c collide.Capsule) sdf.SDF3 {
	return &capsule{c: c, bb: box3(c.Bounds())}
}

func (s *capsule) Evaluate(p v3.Vec) float64 {
	q, _ := collide.ClosestPointOnSegment(p, s.c.A, s.c.B)
	return p.Sub(q).Length() - s.c.Radius
}

func (s *capsule) BoundingBox() sdf.Box3 {
	return s.bb
}

// ellipsoid approximates the distance to a stretched sphere. The sign is
// exact; the magnitude is exact on the principal axes and a bound
// elsewhere.
type ellipsoid struct {
	center v3.Vec
	rot    geom.Mat3 // local to world
	radii  v3.Vec
	bb     sdf.Box3
}

func newEllipsoid(s collide.Sphere) sdf.SDF3 {
	return &ellipsoid{
		center: s.Center,
		rot:    s.Ellipsoid.Orientation,
		radii:  geom.AbsVec(s.Ellipsoid.Scale).MulScalar(s.Radius),
		bb:     box3(s.Bounds()),
	}
}

func (s *ellipsoid) Evaluate(p v3.Vec) float64 {
	q := s.rot.Transpose().MulVec(p.Sub(s.center))
	k0 := q.Div(s.radii).Length()
	k1 := q.Div(s.radii.Mul(s.radii)).Length()
	if k1 == 0 {
		return -s.radii.MinComponent()
	}
	return k0 * (k0 - 1) / k1
}

func (s *ellipsoid) BoundingBox() sdf.Box3 {
	return s.bb
}

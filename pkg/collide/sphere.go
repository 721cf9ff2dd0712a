package collide

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// up is the contact normal reported when the closest features coincide and
// no direction can be derived from them.
var up = v3.Vec{Y: 1}

// SphereSphere tests two spheres. A stretched sphere contributes its radius
// along the line joining the centers, so non-uniform scale changes the
// outcome. Concentric spheres always intersect.
func SphereSphere(a, b Sphere) Result {
	d := b.Center.Sub(a.Center)
	distSq := d.Length2()
	if distSq <= degenerate {
		depth := a.maxRadius() + b.maxRadius()
		return Result{
			Intersect: true,
			Distance:  -depth,
			Contact:   &Contact{Point: a.Center, Normal: up, Depth: depth},
		}
	}
	dist := math.Sqrt(distSq)
	u := d.MulScalar(1 / dist)
	return report(distSq, dist, a.RadiusAlong(u), b.RadiusAlong(u), a.Center, b.Center, u)
}

// SphereCapsule tests a sphere against a capsule. The sphere radius is
// taken along the direction to the nearest point of the capsule axis.
func SphereCapsule(s Sphere, c Capsule) Result {
	q, _ := ClosestPointOnSegment(s.Center, c.A, c.B)
	d := q.Sub(s.Center)
	distSq := d.Length2()
	if distSq <= degenerate {
		depth := s.maxRadius() + c.Radius
		return Result{
			Intersect: true,
			Distance:  -depth,
			Contact:   &Contact{Point: s.Center, Normal: up, Depth: depth},
		}
	}
	dist := math.Sqrt(distSq)
	u := d.MulScalar(1 / dist)
	return report(distSq, dist, s.RadiusAlong(u), c.Radius, s.Center, q, u)
}

// SphereBox tests a sphere against an oriented box.
func SphereBox(s Sphere, b Box) Result {
	local := b.ToLocal(s.Center)
	q := local.Clamp(b.HalfExtents.Neg(), b.HalfExtents)
	dl := q.Sub(local)
	distSq := dl.Length2()
	if distSq <= degenerate {
		n, pen := exitAxis(local, b.HalfExtents)
		out := b.Orientation.MulVec(n)
		depth := pen + s.RadiusAlong(out)
		return Result{
			Intersect: true,
			Distance:  -depth,
			Contact:   &Contact{Point: s.Center, Normal: out.Neg(), Depth: depth},
		}
	}
	dist := math.Sqrt(distSq)
	u := b.Orientation.MulVec(dl.MulScalar(1 / dist))
	return report(distSq, dist, s.RadiusAlong(u), 0, s.Center, b.ToWorld(q), u)
}

// exitAxis returns the outward local face normal nearest to p, a point
// inside the box [-h, h], and how far p is below that face.
func exitAxis(p, h v3.Vec) (v3.Vec, float64) {
	best := math.Inf(1)
	var n v3.Vec
	check := func(pi, hi float64, axis v3.Vec) {
		pen := hi - math.Abs(pi)
		if pen < best {
			best = pen
			if pi < 0 {
				n = axis.Neg()
			} else {
				n = axis
			}
		}
	}
	check(p.X, h.X, v3.Vec{X: 1})
	check(p.Y, h.Y, v3.Vec{Y: 1})
	check(p.Z, h.Z, v3.Vec{Z: 1})
	return n, math.Max(best, 0)
}

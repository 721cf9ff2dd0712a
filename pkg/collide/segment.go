package collide

import (
	"math"
	"sort"

	"github.com/ninjagl/intersects/pkg/geom"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ParallelEpsilon is the relative threshold below which two segments are
// treated as parallel: (d1·d1)(d2·d2) - (d1·d2)² <= ParallelEpsilon·(d1·d1)(d2·d2),
// i.e. the sine of the angle between them is below about 1e-5.
const ParallelEpsilon = 1e-10

// degenerate is the squared length below which a segment is a point.
const degenerate = geom.Epsilon * geom.Epsilon

// ClosestPointOnSegment returns the point of [a, b] nearest p and its
// parameter t in [0, 1].
func ClosestPointOnSegment(p, a, b v3.Vec) (v3.Vec, float64) {
	ab := b.Sub(a)
	l2 := ab.Length2()
	if l2 <= degenerate {
		return a, 0
	}
	t := geom.Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return a.Add(ab.MulScalar(t)), t
}

// ClosestPointsSegments returns the closest points c1 on [p1, q1] and c2 on
// [p2, q2] with their parameters. Near-parallel segments never divide by the
// vanishing determinant; each endpoint is clamped against the other segment
// instead and the nearest pair wins.
func ClosestPointsSegments(p1, q1, p2, q2 v3.Vec) (c1, c2 v3.Vec, s, t float64) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.Dot(d1)
	e := d2.Dot(d2)
	f := d2.Dot(r)

	switch {
	case a <= degenerate && e <= degenerate:
		return p1, p2, 0, 0
	case a <= degenerate:
		t = geom.Clamp(f/e, 0, 1)
		return p1, p2.Add(d2.MulScalar(t)), 0, t
	}

	c := d1.Dot(r)
	if e <= degenerate {
		s = geom.Clamp(-c/a, 0, 1)
		return p1.Add(d1.MulScalar(s)), p2, s, 0
	}

	b := d1.Dot(d2)
	denom := a*e - b*b
	if denom <= ParallelEpsilon*a*e {
		return closestPointsParallel(p1, q1, p2, q2)
	}

	s = geom.Clamp((b*f-c*e)/denom, 0, 1)
	t = (b*s + f) / e
	if t < 0 {
		t = 0
		s = geom.Clamp(-c/a, 0, 1)
	} else if t > 1 {
		t = 1
		s = geom.Clamp((b-c)/a, 0, 1)
	}
	return p1.Add(d1.MulScalar(s)), p2.Add(d2.MulScalar(t)), s, t
}

// closestPointsParallel handles (near) parallel segments. The minimum
// distance between parallel segments is always attained at an endpoint of
// one of them, so the four endpoint projections cover it.
func closestPointsParallel(p1, q1, p2, q2 v3.Vec) (c1, c2 v3.Vec, s, t float64) {
	best := math.Inf(1)
	try := func(a, b v3.Vec, sa, tb float64) {
		if d := a.Sub(b).Length2(); d < best {
			best, c1, c2, s, t = d, a, b, sa, tb
		}
	}

	x, tx := ClosestPointOnSegment(p1, p2, q2)
	try(p1, x, 0, tx)
	x, tx = ClosestPointOnSegment(q1, p2, q2)
	try(q1, x, 1, tx)
	x, sx := ClosestPointOnSegment(p2, p1, q1)
	try(x, p2, sx, 0)
	x, sx = ClosestPointOnSegment(q2, p1, q1)
	try(x, q2, sx, 1)
	return c1, c2, s, t
}

// closestSegmentBox finds the point of the segment [a, b] nearest the box
// [-h, h], all in the box frame. It returns the segment point, the box point
// and their squared distance.
//
// The squared distance along the segment is convex and piecewise quadratic,
// with breaks where a coordinate crosses a face plane. Each piece is
// minimized in closed form.
func closestSegmentBox(a, b, h v3.Vec) (onSeg, onBox v3.Vec, distSq float64) {
	d := b.Sub(a)

	breaks := []float64{0, 1}
	for i := 0; i < 3; i++ {
		di := geom.Component(d, i)
		if math.Abs(di) <= geom.Epsilon {
			continue
		}
		ai := geom.Component(a, i)
		hi := geom.Component(h, i)
		for _, bound := range [2]float64{-hi, hi} {
			if t := (bound - ai) / di; t > 0 && t < 1 {
				breaks = append(breaks, t)
			}
		}
	}
	sort.Float64s(breaks)

	eval := func(t float64) (v3.Vec, v3.Vec, float64) {
		p := a.Add(d.MulScalar(t))
		q := p.Clamp(h.Neg(), h)
		return p, q, p.Sub(q).Length2()
	}

	onSeg, onBox, distSq = eval(0)
	for k := 0; k+1 < len(breaks); k++ {
		t0, t1 := breaks[k], breaks[k+1]
		mid := a.Add(d.MulScalar((t0 + t1) / 2))

		// Inside this piece each axis is either below, within or above the
		// slab; only the outside axes contribute.
		var num, den float64
		for i := 0; i < 3; i++ {
			pi := geom.Component(mid, i)
			hi := geom.Component(h, i)
			var bound float64
			switch {
			case pi > hi:
				bound = hi
			case pi < -hi:
				bound = -hi
			default:
				continue
			}
			di := geom.Component(d, i)
			num += di * (bound - geom.Component(a, i))
			den += di * di
		}

		t := t0
		if den > degenerate {
			t = geom.Clamp(num/den, t0, t1)
		}
		if p, q, dsq := eval(t); dsq < distSq {
			onSeg, onBox, distSq = p, q, dsq
		}
		if p, q, dsq := eval(t1); dsq < distSq {
			onSeg, onBox, distSq = p, q, dsq
		}
	}
	return onSeg, onBox, distSq
}

package collide

import (
	"math"

	"github.com/ninjagl/intersects/pkg/geom"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// BoxCapsule tests an oriented box against a capsule. The capsule axis is
// moved into the box frame, where the box is axis aligned, and the nearest
// segment point to the box is compared with the capsule radius. A capsule
// enclosed by the box intersects; a zero radius reduces to segment vs box.
func BoxCapsule(b Box, c Capsule) Result {
	la, lb := b.ToLocal(c.A), b.ToLocal(c.B)
	onSeg, onBox, distSq := closestSegmentBox(la, lb, b.HalfExtents)
	if distSq <= degenerate {
		n, pen := exitAxis(onSeg, b.HalfExtents)
		depth := pen + c.Radius
		return Result{
			Intersect: true,
			Distance:  -depth,
			Contact: &Contact{
				Point:  b.ToWorld(onSeg),
				Normal: b.Orientation.MulVec(n),
				Depth:  depth,
			},
		}
	}
	dist := math.Sqrt(distSq)
	n := b.Orientation.MulVec(onSeg.Sub(onBox).MulScalar(1 / dist))
	return report(distSq, dist, 0, c.Radius, b.ToWorld(onBox), b.ToWorld(onSeg), n)
}

// CapsuleBox is BoxCapsule with the roles swapped; the contact normal points
// from the capsule to the box.
func CapsuleBox(c Capsule, b Box) Result {
	return BoxCapsule(b, c).Flip()
}

// satEpsilon pads the absolute rotation terms so that nearly parallel edges
// do not produce a false separating axis from their near-zero cross product.
const satEpsilon = 1e-9

// BoxBox tests two oriented boxes on the 15 separating axes. Distance is the
// largest signed separation found along any axis: the true gap is at least
// that when positive, and its negation is the minimum penetration otherwise.
func BoxBox(a, b Box) Result {
	var r, absR [3][3]float64
	for i := 0; i < 3; i++ {
		ai := a.Orientation.Col(i)
		for j := 0; j < 3; j++ {
			r[i][j] = ai.Dot(b.Orientation.Col(j))
			absR[i][j] = math.Abs(r[i][j]) + satEpsilon
		}
	}
	tw := b.Center.Sub(a.Center)
	t := [3]float64{
		tw.Dot(a.Orientation.Col(0)),
		tw.Dot(a.Orientation.Col(1)),
		tw.Dot(a.Orientation.Col(2)),
	}
	ea := [3]float64{a.HalfExtents.X, a.HalfExtents.Y, a.HalfExtents.Z}
	eb := [3]float64{b.HalfExtents.X, b.HalfExtents.Y, b.HalfExtents.Z}

	separated := false
	best := math.Inf(-1)
	var bestAxis v3.Vec
	axis := func(dist, ra, rb, length float64, world v3.Vec) {
		if dist > ra+rb {
			separated = true
		}
		if length <= geom.Epsilon {
			return
		}
		if gap := (dist - ra - rb) / length; gap > best {
			best = gap
			bestAxis = world.MulScalar(1 / length)
		}
	}

	for i := 0; i < 3; i++ {
		rb := eb[0]*absR[i][0] + eb[1]*absR[i][1] + eb[2]*absR[i][2]
		axis(math.Abs(t[i]), ea[i], rb, 1, a.Orientation.Col(i))
	}
	for j := 0; j < 3; j++ {
		ra := ea[0]*absR[0][j] + ea[1]*absR[1][j] + ea[2]*absR[2][j]
		proj := t[0]*r[0][j] + t[1]*r[1][j] + t[2]*r[2][j]
		axis(math.Abs(proj), ra, eb[j], 1, b.Orientation.Col(j))
	}
	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			ra := ea[i1]*absR[i2][j] + ea[i2]*absR[i1][j]
			rb := eb[j1]*absR[i][j2] + eb[j2]*absR[i][j1]
			proj := t[i2]*r[i1][j] - t[i1]*r[i2][j]
			world := a.Orientation.Col(i).Cross(b.Orientation.Col(j))
			axis(math.Abs(proj), ra, rb, world.Length(), world)
		}
	}

	res := Result{Intersect: !separated, Distance: best}
	if res.Intersect {
		if bestAxis.Dot(tw) < 0 {
			bestAxis = bestAxis.Neg()
		}
		if geom.IsZero(bestAxis) {
			bestAxis = up
		}
		pa := a.ToWorld(a.ToLocal(b.Center).Clamp(a.HalfExtents.Neg(), a.HalfExtents))
		pb := b.ToWorld(b.ToLocal(a.Center).Clamp(b.HalfExtents.Neg(), b.HalfExtents))
		res.Contact = &Contact{
			Point:  pa.Add(pb).MulScalar(0.5),
			Normal: bestAxis,
			Depth:  -best,
		}
	}
	return res
}

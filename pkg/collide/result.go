package collide

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Result is the outcome of a pairwise test. Only Intersect is guaranteed;
// Distance and Contact are diagnostics.
type Result struct {
	Intersect bool `json:"intersect"`
	// Distance is the signed gap between the surfaces along the closest
	// features: positive when apart, zero when touching, negative when
	// overlapping.
	Distance float64  `json:"distance"`
	Contact  *Contact `json:"contact,omitempty"`
}

// Contact describes where two primitives touch.
type Contact struct {
	// Point lies midway between the closest surface points.
	Point v3.Vec `json:"point"`
	// Normal is a unit vector pointing from the first primitive toward the
	// second.
	Normal v3.Vec `json:"normal"`
	// Depth is the penetration depth, -Distance.
	Depth float64 `json:"depth"`
}

// Flip returns the result seen from the other primitive.
func (r Result) Flip() Result {
	if r.Contact != nil {
		c := *r.Contact
		c.Normal = c.Normal.Neg()
		r.Contact = &c
	}
	return r
}

// closed is the shared threshold rule: touching counts as intersecting.
func closed(distSq, threshold float64) bool {
	return distSq <= threshold*threshold
}

// report builds a result from the closest points of the two cores (pa on
// the first primitive, pb on the second), the distance between them and the
// radius each side adds around its core. normal points from pa to pb.
func report(distSq, dist, ra, rb float64, pa, pb, normal v3.Vec) Result {
	threshold := ra + rb
	gap := dist - threshold
	res := Result{
		Intersect: closed(distSq, threshold),
		Distance:  gap,
	}
	if res.Intersect {
		sa := pa.Add(normal.MulScalar(ra))
		sb := pb.Sub(normal.MulScalar(rb))
		res.Contact = &Contact{
			Point:  sa.Add(sb).MulScalar(0.5),
			Normal: normal,
			Depth:  -gap,
		}
	}
	return res
}

package collide

import (
	"math"

	"github.com/ninjagl/intersects/pkg/geom"
)

// CapsuleCapsule tests two capsules by the distance between their axis
// segments.
func CapsuleCapsule(a, b Capsule) Result {
	c1, c2, _, _ := ClosestPointsSegments(a.A, a.B, b.A, b.B)
	d := c2.Sub(c1)
	distSq := d.Length2()
	dist := math.Sqrt(distSq)

	// Crossing axes: fall back to the common perpendicular.
	fallback := geom.SafeNormalize(a.B.Sub(a.A).Cross(b.B.Sub(b.A)), up)
	n := geom.SafeNormalize(d, fallback)
	return report(distSq, dist, a.Radius, b.Radius, c1, c2, n)
}

// Package kernel defines the solid geometry interface used to mesh
// colliders and to cross-check the analytic intersection tests. A
// backend (sdfx) turns resolved primitives into signed distance solids.
package kernel

import (
	"errors"

	"github.com/ninjagl/intersects/pkg/collide"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrUnsupported is returned when a backend cannot build a solid for a
	// primitive.
	ErrUnsupported = errors.New("unsupported primitive")
	// ErrDegenerate is returned for primitives with no volume: a point
	// sphere, a flat box or a capsule of zero radius.
	ErrDegenerate = errors.New("degenerate primitive")
)

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
	// Distance returns the signed distance from p to the surface:
	// negative inside, zero on the surface, positive outside.
	Distance(p v3.Vec) float64
}

// Kernel builds solids from world-space primitives.
type Kernel interface {
	Solid(p collide.Primitive) (Solid, error)

	Intersection(a, b Solid) Solid

	// Overlaps samples the intersection of a and b on a grid with cells
	// steps per axis over the overlap of their bounding boxes.
	Overlaps(a, b Solid, cells int) bool

	// ToMesh tessellates s with cells steps along its longest axis.
	ToMesh(s Solid, cells int) (*Mesh, error)
}

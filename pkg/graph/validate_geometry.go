package graph

import (
	"fmt"
	"math"

	"github.com/ninjagl/intersects/pkg/collide"
	"github.com/ninjagl/intersects/pkg/geom"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Tier 2: shape and transform validation (errors and warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 checks. The collision core never checks
// its inputs, so everything it would misbehave on is caught here.
func validateGeometry(g *SceneGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		var t geom.Transform
		switch d := node.Data.(type) {
		case ColliderData:
			e, w := validateShape(node, d.Shape)
			errs = append(errs, e...)
			warnings = append(warnings, w...)
			t = d.Transform
		case GroupData:
			t = d.Transform
		default:
			continue
		}
		e, w := validateTransform(node, t)
		errs = append(errs, e...)
		warnings = append(warnings, w...)
	}

	return errs, warnings
}

// validateShape checks the base dimensions of a collider. Negative or
// non-finite values are errors; zero is a warning because the tests still
// answer, but about a degenerate shape.
func validateShape(node *Node, shape collide.Shape) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	check := func(field string, v float64, zeroMsg string) {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s %s is not finite", node.Label(), field),
				Severity: SeverityError,
			})
		case v < 0:
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("%s %s is %.4f, must not be negative", node.Label(), field, v),
				Severity: SeverityError,
			})
		case v == 0 && zeroMsg != "":
			warnings = append(warnings, ValidationWarning{
				NodeID:  node.ID,
				Message: fmt.Sprintf("%s %s is zero: %s", node.Label(), field, zeroMsg),
			})
		}
	}

	switch s := shape.(type) {
	case collide.SphereShape:
		check("radius", s.Radius, "sphere is a point")
	case collide.BoxShape:
		check("width", s.Width, "box is flat")
		check("height", s.Height, "box is flat")
		check("depth", s.Depth, "box is flat")
	case collide.CapsuleShape:
		check("radius", s.Radius, "capsule is a bare segment")
		check("length", s.Length, "")
	case nil:
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("collider %q has no shape", node.Label()),
			Severity: SeverityError,
		})
	default:
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("collider %q has unsupported shape %T", node.Label(), shape),
			Severity: SeverityError,
		})
	}

	return errs, warnings
}

// validateTransform rejects non-finite transforms and warns about a zero
// scale component, which flattens the node and everything below it.
func validateTransform(node *Node, t geom.Transform) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	q := t.Rotation
	rot := v3.Vec{X: q.V[0], Y: q.V[1], Z: q.V[2]}
	if !geom.IsFinite(t.Position) || !geom.IsFinite(t.Scale) || !geom.IsFinite(rot) || math.IsNaN(q.W) || math.IsInf(q.W, 0) {
		errs = append(errs, ValidationError{
			NodeID:   node.ID,
			Message:  fmt.Sprintf("%s transform is not finite", node.Label()),
			Severity: SeverityError,
		})
		return errs, warnings
	}

	if t.Scale.X == 0 || t.Scale.Y == 0 || t.Scale.Z == 0 {
		warnings = append(warnings, ValidationWarning{
			NodeID:  node.ID,
			Message: fmt.Sprintf("%s has zero scale component %v", node.Label(), t.Scale),
		})
	}

	return errs, warnings
}

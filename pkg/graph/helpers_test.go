package graph

import (
	"strings"

	"github.com/ninjagl/intersects/pkg/collide"
	"github.com/ninjagl/intersects/pkg/geom"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func collider(name string, shape collide.Shape, pos v3.Vec) *Node {
	return &Node{
		ID:   NewNodeID("collider/" + name),
		Kind: NodeCollider,
		Name: name,
		Data: ColliderData{Shape: shape, Transform: geom.NewTransform(pos, geom.Euler{}, geom.One)},
	}
}

func group(name string, t geom.Transform, children ...*Node) *Node {
	n := &Node{
		ID:   NewNodeID("group/" + name),
		Kind: NodeGroup,
		Name: name,
		Data: GroupData{Transform: t},
	}
	for _, c := range children {
		n.Children = append(n.Children, c.ID)
	}
	return n
}

// buildRig creates a valid scene: a group "rig" holding a sphere "ball", a
// capsule "post" that overlaps it and a box "crate" far away.
func buildRig() *SceneGraph {
	g := New()
	ball := collider("ball", collide.SphereShape{Radius: 1}, v3.Vec{})
	post := collider("post", collide.CapsuleShape{Radius: 1, Length: 1}, geom.Vec(1.5, 0, 0))
	crate := collider("crate", collide.BoxShape{Width: 1, Height: 1, Depth: 1}, geom.Vec(10, 0, 0))
	rig := group("rig", geom.Identity(), ball, post, crate)

	for _, n := range []*Node{ball, post, crate, rig} {
		g.AddNode(n)
	}
	g.AddRoot(rig.ID)
	return g
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning-severity
// finding whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func resultHasWarning(r ValidationResult, substr string) bool {
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

func resultHasError(r ValidationResult, substr string) bool {
	return hasError(r.Errors, substr)
}

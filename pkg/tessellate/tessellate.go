// Package tessellate walks a scene graph and produces triangle meshes
// using a geometry kernel. One mesh is produced per collider.
package tessellate

import (
	"errors"
	"fmt"

	"github.com/ninjagl/intersects/pkg/collide"
	"github.com/ninjagl/intersects/pkg/geom"
	"github.com/ninjagl/intersects/pkg/graph"
	"github.com/ninjagl/intersects/pkg/kernel"
)

// transformStack accumulates world transforms during graph traversal.
// Each entry is the composition of every transform above it.
type transformStack struct {
	frames []geom.Transform
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(t geom.Transform) {
	ts.frames = append(ts.frames, ts.top().Compose(t))
}

func (ts *transformStack) pop() {
	if len(ts.frames) > 0 {
		ts.frames = ts.frames[:len(ts.frames)-1]
	}
}

// top returns the accumulated transform, identity when the stack is empty.
func (ts *transformStack) top() geom.Transform {
	if len(ts.frames) == 0 {
		return geom.Identity()
	}
	return ts.frames[len(ts.frames)-1]
}

// Result holds the meshes built from a graph.
type Result struct {
	Meshes []*kernel.Mesh
	// Skipped names colliders with no volume to mesh.
	Skipped []string
}

// Tessellate walks the scene graph and produces one triangle mesh per
// collider using the provided geometry kernel. Colliders the kernel
// reports as degenerate are listed in Skipped instead. The tessellator is
// read-only and never mutates the graph.
func Tessellate(g *graph.SceneGraph, k kernel.Kernel, cells int) (*Result, error) {
	res := &Result{}
	if g == nil {
		return res, nil
	}

	ts := newTransformStack()
	visiting := make(map[graph.NodeID]bool)
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			continue
		}
		if err := walkNode(g, k, cells, root, ts, visiting, res); err != nil {
			return nil, fmt.Errorf("tessellate: error walking root %s: %w", rootID.Short(), err)
		}
	}
	return res, nil
}

// walkNode recursively traverses a node and its children, collecting meshes.
func walkNode(g *graph.SceneGraph, k kernel.Kernel, cells int, n *graph.Node, ts *transformStack, visiting map[graph.NodeID]bool, res *Result) error {
	if visiting[n.ID] {
		return fmt.Errorf("%w at %s", graph.ErrCycle, n.Label())
	}
	visiting[n.ID] = true
	defer delete(visiting, n.ID)

	switch n.Kind {
	case graph.NodeCollider:
		return handleCollider(k, cells, n, ts, res)
	case graph.NodeGroup:
		return handleGroup(g, k, cells, n, ts, visiting, res)
	default:
		return fmt.Errorf("unknown node kind: %v", n.Kind)
	}
}

// handleCollider resolves a collider against the accumulated transform
// and meshes it.
func handleCollider(k kernel.Kernel, cells int, n *graph.Node, ts *transformStack, res *Result) error {
	data, ok := n.Data.(graph.ColliderData)
	if !ok {
		return fmt.Errorf("collider node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}

	prim, err := collide.Resolve(collide.Object{
		Transform: ts.top().Compose(data.Transform),
		Shape:     data.Shape,
	})
	if err != nil {
		return fmt.Errorf("collider %s: %w", n.Label(), err)
	}

	solid, err := k.Solid(prim)
	if errors.Is(err, kernel.ErrDegenerate) {
		res.Skipped = append(res.Skipped, n.Label())
		return nil
	}
	if err != nil {
		return fmt.Errorf("collider %s: %w", n.Label(), err)
	}

	mesh, err := k.ToMesh(solid, cells)
	if err != nil {
		return fmt.Errorf("tessellate: ToMesh failed for node %s: %w", n.ID.Short(), err)
	}
	mesh.Name = n.Label()
	res.Meshes = append(res.Meshes, mesh)
	return nil
}

// handleGroup pushes the group transform, recurses into children, then pops.
func handleGroup(g *graph.SceneGraph, k kernel.Kernel, cells int, n *graph.Node, ts *transformStack, visiting map[graph.NodeID]bool, res *Result) error {
	ts.push(n.LocalTransform())
	defer ts.pop()

	for _, child := range g.Children(n) {
		if err := walkNode(g, k, cells, child, ts, visiting, res); err != nil {
			return err
		}
	}
	return nil
}

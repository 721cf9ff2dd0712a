package graph

import (
	"fmt"

	"github.com/ninjagl/intersects/pkg/collide"
	"github.com/ninjagl/intersects/pkg/geom"
)

// WorldObject is a collider flattened into world space.
type WorldObject struct {
	ID     NodeID         `json:"id"`
	Name   string         `json:"name"`
	Object collide.Object `json:"object"`
}

// WorldTransform composes the local transforms from the root down to id.
func (g *SceneGraph) WorldTransform(id NodeID) (geom.Transform, error) {
	return g.worldTransform(id, g.parents())
}

func (g *SceneGraph) worldTransform(id NodeID, parents map[NodeID]NodeID) (geom.Transform, error) {
	n := g.Nodes[id]
	if n == nil {
		return geom.Transform{}, fmt.Errorf("world transform %s: %w", id.Short(), ErrNodeNotFound)
	}
	chain := []*Node{n}
	for cur := id; ; {
		p, ok := parents[cur]
		if !ok {
			break
		}
		if len(chain) > len(g.Nodes) {
			return geom.Transform{}, fmt.Errorf("world transform %s: %w", id.Short(), ErrCycle)
		}
		pn := g.Nodes[p]
		chain = append(chain, pn)
		cur = p
	}

	t := geom.Identity()
	for i := len(chain) - 1; i >= 0; i-- {
		t = t.Compose(chain[i].LocalTransform())
	}
	return t, nil
}

// WorldObjects returns every collider in world space, ordered as Colliders.
func (g *SceneGraph) WorldObjects() ([]WorldObject, error) {
	parents := g.parents()
	colliders := g.Colliders()
	out := make([]WorldObject, 0, len(colliders))
	for _, n := range colliders {
		wo, err := g.worldObject(n, parents)
		if err != nil {
			return nil, err
		}
		out = append(out, wo)
	}
	return out, nil
}

func (g *SceneGraph) worldObject(n *Node, parents map[NodeID]NodeID) (WorldObject, error) {
	cd, ok := n.Data.(ColliderData)
	if !ok {
		return WorldObject{}, fmt.Errorf("node %q: %w", n.Label(), ErrNotCollider)
	}
	t, err := g.worldTransform(n.ID, parents)
	if err != nil {
		return WorldObject{}, err
	}
	return WorldObject{
		ID:     n.ID,
		Name:   n.Label(),
		Object: collide.Object{Transform: t, Shape: cd.Shape},
	}, nil
}

func (g *SceneGraph) worldObjectByName(name string) (collide.Object, error) {
	n := g.Lookup(name)
	if n == nil {
		return collide.Object{}, fmt.Errorf("%q: %w", name, ErrNodeNotFound)
	}
	wo, err := g.worldObject(n, g.parents())
	if err != nil {
		return collide.Object{}, err
	}
	return wo.Object, nil
}

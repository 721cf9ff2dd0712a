package graph

import (
	"github.com/ninjagl/intersects/pkg/collide"
	"github.com/ninjagl/intersects/pkg/geom"
)

// ColliderData is a collision shape placed relative to its parent.
type ColliderData struct {
	Shape     collide.Shape  `json:"shape"`
	Transform geom.Transform `json:"transform"`
}

func (ColliderData) nodeData() {}

// GroupData positions a set of children as one unit.
type GroupData struct {
	Transform   geom.Transform `json:"transform"`
	Description string         `json:"description,omitempty"`
}

func (GroupData) nodeData() {}

// LocalTransform returns the node's own transform, identity if it has none.
func (n *Node) LocalTransform() geom.Transform {
	switch d := n.Data.(type) {
	case ColliderData:
		return d.Transform
	case GroupData:
		return d.Transform
	default:
		return geom.Identity()
	}
}

package graph

import (
	"fmt"
	"sort"

	"github.com/ninjagl/intersects/pkg/collide"
)

// SceneGraph is the data structure produced by script evaluation. It is
// built once per evaluation and treated as read-only afterwards.
type SceneGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Version   uint64            `json:"version"`
}

// New creates an empty SceneGraph.
func New() *SceneGraph {
	return &SceneGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
	}
}

// AddNode adds a node to the graph. It does not check for duplicates.
func (g *SceneGraph) AddNode(n *Node) {
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *SceneGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *SceneGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *SceneGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *SceneGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Children returns the child nodes of the given node.
func (g *SceneGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// Colliders returns every collider node ordered by label, then ID.
func (g *SceneGraph) Colliders() []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodeCollider {
			out = append(out, n)
		}
	}
	sortNodes(out)
	return out
}

// Parent returns the first node listing id as a child, or nil.
func (g *SceneGraph) Parent(id NodeID) *Node {
	return g.Nodes[g.parents()[id]]
}

// FinalizeRoots makes every node without a parent a root, in label order.
// Roots added earlier are kept first.
func (g *SceneGraph) FinalizeRoots() {
	parents := g.parents()
	seen := make(map[NodeID]bool, len(g.Roots))
	for _, id := range g.Roots {
		seen[id] = true
	}
	var orphans []*Node
	for id, n := range g.Nodes {
		if _, ok := parents[id]; !ok && !seen[id] {
			orphans = append(orphans, n)
		}
	}
	sortNodes(orphans)
	for _, n := range orphans {
		g.AddRoot(n.ID)
	}
}

// NodeCount returns the total number of nodes.
func (g *SceneGraph) NodeCount() int {
	return len(g.Nodes)
}

// Detect tests the colliders named a and b in world space.
func (g *SceneGraph) Detect(a, b string) (collide.Result, error) {
	oa, err := g.worldObjectByName(a)
	if err != nil {
		return collide.Result{}, err
	}
	ob, err := g.worldObjectByName(b)
	if err != nil {
		return collide.Result{}, err
	}
	return collide.DetectObjects(oa, ob)
}

// parents maps each child to the first parent found. Parents are visited in
// ID order so the answer is stable when a node is shared.
func (g *SceneGraph) parents() map[NodeID]NodeID {
	ids := make([]NodeID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	out := make(map[NodeID]NodeID)
	for _, id := range ids {
		for _, c := range g.Nodes[id].Children {
			if _, ok := out[c]; !ok {
				out[c] = id
			}
		}
	}
	return out
}

func sortNodes(ns []*Node) {
	sort.Slice(ns, func(i, j int) bool {
		li, lj := ns[i].Label(), ns[j].Label()
		if li != lj {
			return li < lj
		}
		return ns[i].ID.String() < ns[j].ID.String()
	})
}

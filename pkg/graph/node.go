package graph

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodeCollider NodeKind = iota // shape with a local transform
	NodeGroup                    // transform applied to its children
)

func (k NodeKind) String() string {
	switch k {
	case NodeCollider:
		return "collider"
	case NodeGroup:
		return "group"
	default:
		return "unknown"
	}
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID       NodeID    `json:"id"`
	Kind     NodeKind  `json:"kind"`
	Name     string    `json:"name,omitempty"`
	Source   SourceRef `json:"source"`
	Children []NodeID  `json:"children,omitempty"`
	Data     NodeData  `json:"data"`
}

// Label returns the node name, or its short ID when unnamed.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}

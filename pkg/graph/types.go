package graph

import (
	"github.com/google/uuid"
)

// namespace seeds the name-based UUIDs so IDs are stable across runs.
var namespace = uuid.MustParse("6f0d2a7e-3c1b-5e8a-9d4f-1b2c3d4e5f60")

// NodeID is a content-addressed identifier for graph nodes: the SHA-1 name
// UUID of the node's path in the scene script.
type NodeID uuid.UUID

// NewNodeID derives the ID for a scene path such as "group/arm/capsule".
// The same path always yields the same ID.
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(namespace, []byte(path)))
}

// String returns the canonical UUID form.
func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first eight hex digits, enough for messages.
func (id NodeID) Short() string {
	return id.String()[:8]
}

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id NodeID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *NodeID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// SourceRef points back at the script form that created a node.
type SourceRef struct {
	Form string `json:"form"`
	Line int    `json:"line,omitempty"`
}

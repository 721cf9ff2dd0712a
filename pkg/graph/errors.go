package graph

import "errors"

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrNotCollider  = errors.New("node is not a collider")
	ErrCycle        = errors.New("cycle in scene graph")
)

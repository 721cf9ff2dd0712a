package collide

import "errors"

var (
	// ErrShapeMismatch is returned when an object does not carry the shape a
	// detector expects.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrNoShape is returned when an object has no shape to resolve.
	ErrNoShape = errors.New("object has no shape")
)

package engine

import "errors"

var (
	// ErrTimeout is returned when an evaluation exceeds the engine timeout.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned to a caller whose evaluation finished after
	// a newer one had started.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

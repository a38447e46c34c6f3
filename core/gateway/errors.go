package gateway

import "errors"

var (
	// ErrNilEngine is returned by New without an engine.
	ErrNilEngine = errors.New("engine is nil")
	// ErrEnginePanic wraps a panic recovered from the engine.
	ErrEnginePanic = errors.New("engine panicked")
)

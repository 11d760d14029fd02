package effect

import "errors"

var (
	// ErrHandlerNotFound is returned when no handler is registered for an
	// instruction kind. The engine treats it as a per-instruction failure,
	// never as a reason to halt the run.
	ErrHandlerNotFound = errors.New("effect: handler not found")

	// ErrDenied is returned when the run policy rejects an effect.
	ErrDenied = errors.New("effect: denied by policy")
)

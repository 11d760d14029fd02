package sys

import (
	"context"
	"reflect"

	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/service/effect"
)

// New returns the system handlers (halt, noop).
func New() []effect.Handler {
	return []effect.Handler{
		&haltHandler{},
		&noopHandler{},
	}
}

type haltHandler struct{}

func (h *haltHandler) Kind() instruction.Kind { return instruction.KindHalt }

func (h *haltHandler) InputType() reflect.Type { return nil }

// Handle requests immediate termination: the engine stops the current slice
// as soon as the state flips to Terminated.
func (h *haltHandler) Handle(_ context.Context, proc *process.Process, _ interface{}) error {
	proc.SetState(process.StateTerminated)
	return nil
}

type noopHandler struct{}

func (h *noopHandler) Kind() instruction.Kind { return instruction.KindNoop }

func (h *noopHandler) InputType() reflect.Type { return nil }

// does nothing
func (h *noopHandler) Handle(_ context.Context, _ *process.Process, _ interface{}) error {
	return nil
}

package effect

import (
	"context"
	"reflect"
	"sync"

	"github.com/viant/x"

	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
)

// Handler interprets one instruction kind. Implementations may mutate the
// process registers and memory and may move the process to Terminated; they
// must not touch the program counter or queue membership.
type Handler interface {
	// Kind returns the instruction kind this handler serves.
	Kind() instruction.Kind

	// InputType returns the typed payload the handler expects, or nil when
	// the instruction carries no payload.
	InputType() reflect.Type

	// Handle applies the effect to the executing process.
	Handle(ctx context.Context, proc *process.Process, input interface{}) error
}

// Registry is the finite dispatch table from instruction kind to handler.
type Registry struct {
	types    *Types
	handlers map[instruction.Kind]Handler
	mux      sync.RWMutex
}

// Types returns the payload type registry.
func (r *Registry) Types() *Types {
	return r.types
}

// Lookup returns the handler registered for a kind, or nil.
func (r *Registry) Lookup(kind instruction.Kind) Handler {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return r.handlers[kind]
}

// Register adds a handler. The handler's input type is recorded in the type
// registry under the kind name so that declarative payloads stay resolvable.
func (r *Registry) Register(handlers ...Handler) {
	r.mux.Lock()
	defer r.mux.Unlock()
	for _, h := range handlers {
		if h == nil {
			continue
		}
		r.handlers[h.Kind()] = h
		if iType := h.InputType(); iType != nil {
			r.types.Register(x.NewType(iType, x.WithName(string(h.Kind()))))
		}
	}
}

// Kinds returns the registered instruction kinds.
func (r *Registry) Kinds() []instruction.Kind {
	r.mux.RLock()
	defer r.mux.RUnlock()
	out := make([]instruction.Kind, 0, len(r.handlers))
	for kind := range r.handlers {
		out = append(out, kind)
	}
	return out
}

// NewRegistry creates a handler registry, optionally seeding the payload
// type registry with additional Go types.
func NewRegistry(goTypes ...*x.Type) *Registry {
	ret := &Registry{
		types:    NewTypes(),
		handlers: make(map[instruction.Kind]Handler),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}

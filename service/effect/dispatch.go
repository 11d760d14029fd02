package effect

// The dispatcher is the boundary between the scheduling core and instruction
// semantics: it converts the opaque payload into the handler's typed input,
// enforces the optional run policy and invokes the handler. The engine never
// needs to know what any kind means.

import (
	"context"
	"fmt"
	"reflect"

	"github.com/viant/structology/conv"

	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/policy"
)

// Listener is invoked once an effect completes successfully. Implementations
// can log, collect metrics or perform any other side-effects they require.
type Listener func(proc *process.Process, instr instruction.Instruction, input interface{})

// Option customises the dispatcher instance.
type Option func(*Dispatcher)

// WithListener overrides the listener invoked after every dispatched effect.
// Passing nil disables the callback entirely.
func WithListener(l Listener) Option {
	return func(d *Dispatcher) {
		d.listener = l
	}
}

// Dispatcher routes instructions to registered handlers.
type Dispatcher struct {
	registry  *Registry
	converter *conv.Converter
	listener  Listener
}

// Dispatch applies a single instruction to the executing process. The return
// value of the handler is surfaced to the caller but a failed dispatch is a
// per-instruction outcome – callers are expected to carry on with the next
// scheduling round.
func (d *Dispatcher) Dispatch(ctx context.Context, proc *process.Process, instr instruction.Instruction) error {
	if err := instr.Validate(); err != nil {
		return err
	}
	if err := d.authorize(ctx, instr); err != nil {
		return err
	}

	handler := d.registry.Lookup(instr.Kind)
	if handler == nil {
		return fmt.Errorf("%w: %q", ErrHandlerNotFound, instr.Kind)
	}

	var input interface{}
	if iType := handler.InputType(); iType != nil {
		ptr := reflect.New(iType).Interface()
		if len(instr.Payload) > 0 {
			if err := d.converter.Convert(instr.Payload, ptr); err != nil {
				return fmt.Errorf("failed to convert payload for %q: %w", instr.Kind, err)
			}
		}
		input = ptr
	}

	if err := handler.Handle(ctx, proc, input); err != nil {
		return err
	}

	if d.listener != nil {
		d.listener(proc, instr, input)
	}
	return nil
}

// authorize evaluates the optional policy carried by the run context.
func (d *Dispatcher) authorize(ctx context.Context, instr instruction.Instruction) error {
	pol := policy.FromContext(ctx)
	if pol == nil {
		return nil
	}
	kind := string(instr.Kind)
	if !pol.IsAllowed(kind) {
		return fmt.Errorf("%w: %q", ErrDenied, kind)
	}
	switch pol.Mode {
	case policy.ModeDeny:
		return fmt.Errorf("%w: %q", ErrDenied, kind)
	case policy.ModeAsk:
		if pol.Ask != nil && !pol.Ask(ctx, kind, instr.Payload, pol) {
			return fmt.Errorf("%w: %q", ErrDenied, kind)
		}
	}
	return nil
}

// NewDispatcher creates a dispatcher over the supplied registry.
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	d := &Dispatcher{
		registry:  registry,
		converter: conv.NewConverter(options),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

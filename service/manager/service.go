package manager

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/procsim/procsim/internal/idgen"
	"github.com/procsim/procsim/model"
	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/service/dao"
	"github.com/procsim/procsim/service/event"
	"github.com/procsim/procsim/service/scheduler"
)

// ErrInvalidState indicates an operation that is not legal in the process's
// current lifecycle state. It is recoverable and never mutates anything.
var ErrInvalidState = errors.New("manager: invalid process state")

// Option customises the manager service.
type Option func(*Service)

// WithEventService attaches a lifecycle event publisher.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// Service owns the authoritative process table and composes with the
// scheduler for ready-queue membership. All lifecycle mutations outside the
// engine's dispatch loop go through here.
type Service struct {
	table  dao.Service[string, process.Process]
	sched  *scheduler.Service
	events *event.Service
}

// New creates a process manager over the supplied table and scheduler.
func New(table dao.Service[string, process.Process], sched *scheduler.Service, opts ...Option) *Service {
	s := &Service{table: table, sched: sched}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a new process with a fresh unique identifier, registers
// it in the owned table and enqueues it with the scheduler.
func (s *Service) Create(ctx context.Context, name string, instructions []instruction.Instruction) (*process.Process, error) {
	id := name + "/" + idgen.New()
	proc := process.New(id, name, instructions)
	if err := s.table.Save(ctx, proc); err != nil {
		return nil, fmt.Errorf("failed to save process: %w", err)
	}
	if err := s.sched.Enqueue(proc); err != nil {
		return nil, fmt.Errorf("failed to enqueue process: %w", err)
	}
	s.publish(ctx, event.TypeCreated, proc)
	return proc, nil
}

// CreateFromProgram validates a program definition and creates a process
// running it.
func (s *Service) CreateFromProgram(ctx context.Context, program *model.Program) (*process.Process, error) {
	if program == nil {
		return nil, fmt.Errorf("program cannot be nil")
	}
	if issues := program.Validate(); len(issues) > 0 {
		return nil, issues[0]
	}
	return s.Create(ctx, program.Name, program.Instructions)
}

// Terminate force-moves a process to Terminated regardless of its current
// state, including while it still sits in the ready queue. The change takes
// effect at the next scheduling check for that process – the engine skips
// dispatch and drops it from rotation. The table entry is retained for
// post-mortem inspection.
func (s *Service) Terminate(ctx context.Context, id string) error {
	proc, err := s.table.Load(ctx, id)
	if err != nil {
		return err
	}
	proc.SetState(process.StateTerminated)
	if err := s.table.Save(ctx, proc); err != nil {
		return fmt.Errorf("failed to save process: %w", err)
	}
	s.publish(ctx, event.TypeTerminated, proc)
	return nil
}

// Block removes a process from scheduling eligibility. Blocking a terminated
// process is an invalid-state error and mutates nothing.
func (s *Service) Block(ctx context.Context, id string) error {
	proc, err := s.table.Load(ctx, id)
	if err != nil {
		return err
	}
	if proc.GetState() == process.StateTerminated {
		return fmt.Errorf("%w: cannot block terminated process %s", ErrInvalidState, id)
	}
	proc.SetState(process.StateBlocked)
	if err := s.table.Save(ctx, proc); err != nil {
		return fmt.Errorf("failed to save process: %w", err)
	}
	s.publish(ctx, event.TypeBlocked, proc)
	return nil
}

// Unblock returns a blocked process to the ready queue.
func (s *Service) Unblock(ctx context.Context, id string) error {
	proc, err := s.table.Load(ctx, id)
	if err != nil {
		return err
	}
	if proc.GetState() != process.StateBlocked {
		return fmt.Errorf("%w: process %s is not blocked", ErrInvalidState, id)
	}
	proc.SetState(process.StateReady)
	if err := s.table.Save(ctx, proc); err != nil {
		return fmt.Errorf("failed to save process: %w", err)
	}
	if !s.sched.Contains(proc.ID) {
		if err := s.sched.Enqueue(proc); err != nil {
			return err
		}
	}
	s.publish(ctx, event.TypeUnblocked, proc)
	return nil
}

// Snapshot returns the diagnostic view of a process or dao.ErrNotFound.
func (s *Service) Snapshot(ctx context.Context, id string) (*process.Snapshot, error) {
	proc, err := s.table.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return proc.Describe(), nil
}

// Lookup returns the process or dao.ErrNotFound.
func (s *Service) Lookup(ctx context.Context, id string) (*process.Process, error) {
	return s.table.Load(ctx, id)
}

// FindByName returns the first non-terminated process with the given display
// name, or nil. It backs target resolution for combat effects.
func (s *Service) FindByName(name string) *process.Process {
	processes, err := s.table.List(context.Background())
	if err != nil {
		return nil
	}
	for _, candidate := range processes {
		if candidate.Name == name && candidate.GetState() != process.StateTerminated {
			return candidate
		}
	}
	return nil
}

// List returns processes matching the optional state filter.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*process.Process, error) {
	return s.table.List(ctx, parameters...)
}

// Delete removes a process from the table and from any residual queue
// membership. This is the only way an entry leaves the table.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.table.Delete(ctx, id); err != nil {
		return err
	}
	s.sched.Remove(id)
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, proc *process.Process) {
	if s.events == nil {
		return
	}
	publisher, err := event.PublisherOf[*process.Snapshot](s.events)
	if err != nil {
		return
	}
	eCtx := &event.Context{ProcessID: proc.ID, EventType: eventType}
	if err := publisher.Publish(ctx, event.NewEvent(eCtx, proc.Describe())); err != nil {
		log.Printf("failed to publish %s event for %s: %v", eventType, proc.ID, err)
	}
}

package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/procsim/procsim/internal/clock"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/progress"
	"github.com/procsim/procsim/service/effect"
	"github.com/procsim/procsim/service/event"
	"github.com/procsim/procsim/service/manager"
	"github.com/procsim/procsim/service/scheduler"
	"github.com/procsim/procsim/tracing"
)

// Config represents engine configuration.
type Config struct {
	// MaxRounds caps the number of dispatch rounds for one Run call;
	// zero means unlimited (run until the ready queue drains).
	MaxRounds int `json:"maxRounds" yaml:"maxRounds"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{}
}

// Option customises the engine service.
type Option func(*Service)

// WithEventService attaches a dispatch event publisher.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// Service is the virtual machine driving the simulation: it repeatedly asks
// the scheduler for the next process, runs it for at most one time slice by
// pulling instructions and dispatching them to effect handlers, and retires
// or re-queues the process based on the resulting state.
type Service struct {
	config     Config
	manager    *manager.Service
	sched      *scheduler.Service
	dispatcher *effect.Dispatcher
	events     *event.Service
}

// New creates an execution engine.
func New(mgr *manager.Service, sched *scheduler.Service, dispatcher *effect.Dispatcher, config Config, opts ...Option) (*Service, error) {
	if mgr == nil {
		return nil, fmt.Errorf("manager is required")
	}
	if sched == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	s := &Service{
		config:     config,
		manager:    mgr,
		sched:      sched,
		dispatcher: dispatcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run drains the ready queue to exhaustion and returns. Cancellation is
// checked once per scheduling round; an in-flight slice finishes its current
// instruction first. Errors local to one process never abort the run.
func (s *Service) Run(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, "engine.run", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	rounds := 0
	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return err
		default:
		}
		if s.config.MaxRounds > 0 && rounds >= s.config.MaxRounds {
			return nil
		}

		lease, selErr := s.sched.SelectNext()
		if selErr != nil {
			if errors.Is(selErr, scheduler.ErrEmpty) {
				return nil
			}
			// Selection problems are not fatal – move to the next round.
			log.Printf("engine: selection failed: %v", selErr)
			continue
		}
		s.round(ctx, lease)
		rounds++
	}
}

// round executes one dispatch round for a leased process.
func (s *Service) round(ctx context.Context, lease *scheduler.Lease) {
	proc := lease.Process()
	started := clock.Now()

	if proc.GetState() == process.StateReady {
		proc.SetState(process.StateRunning)
	}

	// A process that is not Running at this point was forced to Terminated
	// or Blocked out-of-band while still queued. It must never be handed
	// instructions – skip dispatch but still reconcile queue membership.
	if proc.GetState() != process.StateRunning {
		lease.Complete(false)
		progress.UpdateCtx(ctx, progress.Delta{Rounds: 1, Skipped: 1})
		s.publish(ctx, event.TypeSkipped, proc, started)
		return
	}

	executed := 0
	for executed < s.sched.TimeSlice() {
		instr, ok := proc.FetchNext()
		if !ok {
			// Instruction stream exhausted – the process terminated
			// naturally inside FetchNext.
			break
		}
		if dErr := s.dispatcher.Dispatch(ctx, proc, instr); dErr != nil {
			log.Printf("engine: dispatch %q on %s failed: %v", instr.Kind, proc.ID, dErr)
		}
		executed++
		if proc.GetState() != process.StateRunning {
			// An instruction terminated or blocked the process mid-slice.
			break
		}
	}

	delta := progress.Delta{Rounds: 1, Dispatched: executed}
	switch proc.GetState() {
	case process.StateRunning:
		proc.SetState(process.StateReady)
		lease.Complete(true)
	case process.StateTerminated:
		delta.Terminated = 1
		lease.Complete(false)
	default:
		delta.Blocked = 1
		lease.Complete(false)
	}
	progress.UpdateCtx(ctx, delta)
	s.publish(ctx, event.TypeSlice, proc, started)
}

func (s *Service) publish(ctx context.Context, eventType string, proc *process.Process, started time.Time) {
	if s.events == nil {
		return
	}
	publisher, err := event.PublisherOf[*process.Snapshot](s.events)
	if err != nil {
		return
	}
	eCtx := &event.Context{
		ProcessID:   proc.ID,
		EventType:   eventType,
		TimeTakenMs: int(clock.Now().Sub(started).Milliseconds()),
	}
	if err := publisher.Publish(ctx, event.NewEvent(eCtx, proc.Describe())); err != nil {
		log.Printf("engine: failed to publish %s event for %s: %v", eventType, proc.ID, err)
	}
}

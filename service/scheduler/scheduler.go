package scheduler

import (
	"errors"
	"fmt"
	"sync"

	"github.com/procsim/procsim/model/process"
)

// Policy selects the ready-queue discipline.
type Policy string

const (
	PolicyFIFO             Policy = "fifo"
	PolicyRoundRobin       Policy = "round_robin"
	PolicyShortestJobFirst Policy = "shortest_job_first"
)

// DefaultTimeSlice is the slice budget used when none is configured.
const DefaultTimeSlice = 4

var (
	// ErrEmpty is returned by SelectNext when no process is queued.
	ErrEmpty = errors.New("scheduler: ready queue is empty")

	// ErrAlreadyQueued indicates a duplicate enqueue, which is a caller
	// error – queue membership is exclusive per process.
	ErrAlreadyQueued = errors.New("scheduler: process already queued")

	// ErrNilProcess is returned when the caller enqueues a nil process.
	ErrNilProcess = errors.New("scheduler: nil process")
)

// Config is the serialisable scheduler configuration. The zero value is not
// usable – an unrecognized policy must fail at construction, never be
// silently defaulted.
type Config struct {
	Policy    Policy `json:"policy" yaml:"policy"`
	TimeSlice int    `json:"timeSlice" yaml:"timeSlice"`
}

// DefaultConfig returns a FIFO configuration with the default slice budget.
func DefaultConfig() Config {
	return Config{Policy: PolicyFIFO, TimeSlice: DefaultTimeSlice}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	switch c.Policy {
	case PolicyFIFO, PolicyRoundRobin, PolicyShortestJobFirst:
	default:
		return fmt.Errorf("unrecognized scheduling policy: %q", c.Policy)
	}
	if c.TimeSlice <= 0 {
		return fmt.Errorf("timeSlice must be > 0, got %d", c.TimeSlice)
	}
	return nil
}

// Service maintains the ready queue and implements the selection policy.
// It holds non-owning references – the manager table owns process lifetimes.
type Service struct {
	config Config
	queue  []*process.Process
	member map[string]bool
	mu     sync.Mutex
}

// New creates a scheduler. An unrecognized policy or non-positive time slice
// is a configuration error raised here, not at selection time.
func New(config Config) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		config: config,
		member: make(map[string]bool),
	}, nil
}

// Policy returns the configured selection policy.
func (s *Service) Policy() Policy { return s.config.Policy }

// TimeSlice returns the configured slice budget.
func (s *Service) TimeSlice() int { return s.config.TimeSlice }

// Enqueue appends a process to the tail of the ready queue. Enqueuing a
// process that is already queued is a caller error.
func (s *Service) Enqueue(p *process.Process) error {
	if p == nil {
		return ErrNilProcess
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.member[p.ID] {
		return ErrAlreadyQueued
	}
	s.queue = append(s.queue, p)
	s.member[p.ID] = true
	return nil
}

// SelectNext removes and returns one process per policy, wrapped in a Lease
// that carries the requeue intent:
//
//   - FIFO removes the head; the lease requeues on Complete(true).
//   - RoundRobin moves the head to the tail and keeps it queued while it
//     runs; Complete(false) removes the residual entry.
//   - ShortestJobFirst removes the entry with the fewest remaining
//     instructions, ties broken by queue order.
//
// Returns ErrEmpty when nothing is queued.
func (s *Service) SelectNext() (*Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, ErrEmpty
	}

	switch s.config.Policy {
	case PolicyRoundRobin:
		head := s.queue[0]
		copy(s.queue, s.queue[1:])
		s.queue[len(s.queue)-1] = head
		return &Lease{process: head, sched: s, queued: true}, nil

	case PolicyShortestJobFirst:
		best := 0
		bestRemaining := s.queue[0].Remaining()
		for i := 1; i < len(s.queue); i++ {
			if remaining := s.queue[i].Remaining(); remaining < bestRemaining {
				best, bestRemaining = i, remaining
			}
		}
		selected := s.queue[best]
		s.removeAtLocked(best)
		return &Lease{process: selected, sched: s}, nil

	default: // PolicyFIFO
		head := s.queue[0]
		s.removeAtLocked(0)
		return &Lease{process: head, sched: s}, nil
	}
}

// Remove drops a process from the ready queue if present and reports whether
// an entry was removed.
func (s *Service) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

// Contains reports current queue membership.
func (s *Service) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.member[id]
}

// Len returns the number of queued processes.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

func (s *Service) removeLocked(id string) bool {
	if !s.member[id] {
		return false
	}
	for i, p := range s.queue {
		if p.ID == id {
			s.removeAtLocked(i)
			return true
		}
	}
	return false
}

func (s *Service) removeAtLocked(i int) {
	p := s.queue[i]
	s.queue = append(s.queue[:i], s.queue[i+1:]...)
	delete(s.member, p.ID)
}

func (s *Service) requeue(p *process.Process) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.member[p.ID] {
		return
	}
	s.queue = append(s.queue, p)
	s.member[p.ID] = true
}

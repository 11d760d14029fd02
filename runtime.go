package procsim

import (
	"context"

	"github.com/procsim/procsim/internal/idgen"
	"github.com/procsim/procsim/model"
	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/policy"
	"github.com/procsim/procsim/progress"
	"github.com/procsim/procsim/service/dao"
)

// Runtime is the embedder-facing facade over the assembled simulator.
type Runtime struct {
	service *Service
	tracker *progress.Progress
}

// CreateProcess registers a new process running the supplied instructions and
// places it on the ready queue.
func (r *Runtime) CreateProcess(ctx context.Context, name string, instructions []instruction.Instruction) (*process.Process, error) {
	return r.service.manager.Create(ctx, name, instructions)
}

// CreateFromProgram creates a process from a validated program definition.
func (r *Runtime) CreateFromProgram(ctx context.Context, prog *model.Program) (*process.Process, error) {
	return r.service.manager.CreateFromProgram(ctx, prog)
}

// LoadProgram loads a YAML program definition from the supplied URL.
func (r *Runtime) LoadProgram(ctx context.Context, URL string) (*model.Program, error) {
	return r.service.programs.Load(ctx, URL)
}

// Run drives the simulation until the ready queue drains, the configured
// round cap is reached or ctx is cancelled. The run context carries the
// configured dispatch policy and a fresh progress tracker.
func (r *Runtime) Run(ctx context.Context) error {
	if r.service.policy != nil {
		ctx = policy.WithPolicy(ctx, r.service.policy)
	}
	ctx, tracker := progress.WithNewTracker(ctx, idgen.New(), r.service.onProgress)
	r.tracker = tracker
	return r.service.engine.Run(ctx)
}

// Progress returns the counters of the most recent Run, or the zero value
// when no run has started yet.
func (r *Runtime) Progress() progress.Progress {
	return r.tracker.Snapshot()
}

// Terminate force-terminates a process; the change takes effect at its next
// scheduling check.
func (r *Runtime) Terminate(ctx context.Context, id string) error {
	return r.service.manager.Terminate(ctx, id)
}

// Block removes a process from scheduling eligibility.
func (r *Runtime) Block(ctx context.Context, id string) error {
	return r.service.manager.Block(ctx, id)
}

// Unblock returns a blocked process to the ready queue.
func (r *Runtime) Unblock(ctx context.Context, id string) error {
	return r.service.manager.Unblock(ctx, id)
}

// Delete removes a process from the table and from any queue membership.
func (r *Runtime) Delete(ctx context.Context, id string) error {
	return r.service.manager.Delete(ctx, id)
}

// ProcessInfo returns a diagnostic snapshot of one process.
func (r *Runtime) ProcessInfo(ctx context.Context, id string) (*process.Snapshot, error) {
	return r.service.manager.Snapshot(ctx, id)
}

// Processes lists snapshots of all processes, optionally filtered by state.
func (r *Runtime) Processes(ctx context.Context, states ...string) ([]*process.Snapshot, error) {
	var parameters []*dao.Parameter
	if len(states) > 0 {
		parameters = append(parameters, dao.NewParameter("State", states...))
	}
	items, err := r.service.manager.List(ctx, parameters...)
	if err != nil {
		return nil, err
	}
	out := make([]*process.Snapshot, 0, len(items))
	for _, item := range items {
		out = append(out, item.Describe())
	}
	return out, nil
}

package scheduler

import "github.com/procsim/procsim/model/process"

// Lease is the handle returned by SelectNext. It separates "requeue now"
// (round-robin, where the process stays at the queue tail while it runs)
// from "requeue after the slice" (FIFO and shortest-job-first), so the
// single-membership invariant holds across every policy without the engine
// mutating the queue directly.
type Lease struct {
	process *process.Process
	sched   *Service
	queued  bool // round-robin keeps the entry in the queue during the slice
	done    bool
}

// Process returns the leased process.
func (l *Lease) Process() *process.Process {
	return l.process
}

// Complete finishes the lease. When runnable is true the process re-enters
// the rotation; otherwise any residual queue entry is removed. Complete is
// idempotent – only the first call takes effect.
func (l *Lease) Complete(runnable bool) {
	if l == nil || l.done {
		return
	}
	l.done = true
	switch {
	case l.queued && !runnable:
		l.sched.Remove(l.process.ID)
	case !l.queued && runnable:
		l.sched.requeue(l.process)
	}
}

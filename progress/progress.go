// Package progress provides a lightweight tracker that keeps aggregated
// execution counters (rounds, dispatched instructions, terminations, …) for a
// single engine run. The tracker instance lives in the run context – every
// component that receives the context can atomically update the counters via
// the Delta helper without requiring a global registry.

package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the engine. The
// fields are signed and therefore can be either positive (increment) or
// negative (decrement).
type Delta struct {
	Rounds     int
	Dispatched int
	Terminated int
	Blocked    int
	Skipped    int
}

// Progress keeps aggregated counters for one engine run. It is safe for
// concurrent use.
type Progress struct {
	// Identification – informative only, filled when the run starts.
	RunID     string
	StartedAt time.Time

	// Counters – modified via Update().
	Rounds     int
	Dispatched int
	Terminated int
	Blocked    int
	Skipped    int

	mu       sync.Mutex
	onChange func(Progress)
}

// Update applies the supplied delta to the tracker. If an onChange callback
// has been registered it is invoked with a copy of the updated tracker
// outside the critical section so that the callback can perform slow
// operations without blocking engine internals.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.mu.Lock()
	p.Rounds += d.Rounds
	p.Dispatched += d.Dispatched
	p.Terminated += d.Terminated
	p.Blocked += d.Blocked
	p.Skipped += d.Skipped
	snapshot := p.snapshotLocked()
	cb := p.onChange
	p.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Progress) snapshotLocked() Progress {
	return Progress{
		RunID:      p.RunID,
		StartedAt:  p.StartedAt,
		Rounds:     p.Rounds,
		Dispatched: p.Dispatched,
		Terminated: p.Terminated,
		Blocked:    p.Blocked,
		Skipped:    p.Skipped,
	}
}

// OnChange registers a callback that is invoked after every successful
// Update. Passing nil disables the callback. Only one callback can be
// active; subsequent calls overwrite the previous value.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.onChange = cb
	p.mu.Unlock()
}

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithNewTracker creates a new Progress tracker, embeds it in a derived
// context and returns both. The caller may optionally pass an onChange
// callback that will be invoked after every counter update.
func WithNewTracker(ctx context.Context, runID string, onChange func(Progress)) (context.Context, *Progress) {
	if ctx == nil {
		ctx = context.Background()
	}
	tr := &Progress{
		RunID:     runID,
		StartedAt: time.Now(),
		onChange:  onChange,
	}
	return context.WithValue(ctx, trackerKey, tr), tr
}

// FromContext extracts the Progress tracker from ctx. The second return
// value is false when the context carries no tracker.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx is a helper that looks up the tracker in ctx (if any) and applies
// the supplied delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}

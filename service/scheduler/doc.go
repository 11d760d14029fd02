// Package scheduler maintains the ready queue and implements the selection
// policies (FIFO, round-robin, shortest-job-first). Selection is a two-phase
// protocol: SelectNext hands out a Lease and the engine completes it after
// the time slice, which decides whether the process re-enters the rotation.
package scheduler

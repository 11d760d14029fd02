// Package process defines the process entity: identity, lifecycle state,
// instruction cursor and the fixed register set. Processes are owned by the
// manager table; the scheduler and the engine only hold references.
package process

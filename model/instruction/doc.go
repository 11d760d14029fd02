// Package instruction defines the instruction type executed by the engine:
// an operation kind plus an opaque payload. Semantics live entirely in the
// effect handlers registered for each kind, which keeps the scheduling core
// decoupled from what any instruction actually does.
package instruction

// Package engine implements the cooperative virtual machine: single-threaded
// dispatch rounds that interleave processes under the scheduler's time-slice
// budget. Instruction semantics stay behind the effect dispatcher boundary.
package engine

// Package procsim is a deterministic, single-threaded cooperative
// process-scheduling simulator. Processes carry ordered instruction streams
// and fixed registers; a pluggable scheduler (FIFO, round-robin or
// shortest-job-first) interleaves them under a time-slice budget while an
// effect registry interprets individual instructions.
//
// The root package wires the default runtime: an in-memory process table,
// the scheduler, the lifecycle manager, the effect dispatcher with the
// built-in handler sets and the execution engine. Embedders needing finer
// control can compose the service packages directly.
package procsim

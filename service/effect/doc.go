// Package effect provides the run-time registry and dispatcher that bind
// instruction kinds to their handlers. Handlers are the only place where
// instruction semantics live; the scheduling core treats both kinds and
// payloads as opaque.
package effect

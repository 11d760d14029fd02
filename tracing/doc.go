// Package tracing provides a thin wrapper around OpenTelemetry so the engine
// can emit spans per run and per dispatch round without the rest of the
// code-base importing otel directly.
package tracing

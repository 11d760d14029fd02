package procsim

import (
	"io"
	"math/rand"

	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/policy"
	"github.com/procsim/procsim/progress"
	"github.com/procsim/procsim/service/dao"
	"github.com/procsim/procsim/service/effect"
	"github.com/procsim/procsim/service/event"
)

// Option represents a service option.
type Option func(*Service)

// WithConfig overrides the default runtime configuration.
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithProcessDAO overrides the in-memory process table, e.g. with the
// file-system backed implementation for archival runs.
func WithProcessDAO(table dao.Service[string, process.Process]) Option {
	return func(s *Service) {
		s.table = table
	}
}

// WithEffectHandlers registers additional instruction handlers on top of the
// built-in sets. A handler for an already-registered kind replaces it.
func WithEffectHandlers(handlers ...effect.Handler) Option {
	return func(s *Service) {
		s.extraHandlers = append(s.extraHandlers, handlers...)
	}
}

// WithPolicy sets the dispatch approval policy applied to every run.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

// WithRand injects the randomness source used by combat effects; tests pass a
// seeded source for reproducible damage rolls.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Service) {
		s.rand = rnd
	}
}

// WithChatWriter redirects say-instruction output, which defaults to stdout.
func WithChatWriter(w io.Writer) Option {
	return func(s *Service) {
		s.chatWriter = w
	}
}

// WithDispatchListener observes every successfully dispatched effect.
func WithDispatchListener(l effect.Listener) Option {
	return func(s *Service) {
		s.dispatchListener = l
	}
}

// WithEventService attaches a lifecycle event service shared by the manager
// and the engine.
func WithEventService(events *event.Service) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithProgressHandler receives a progress snapshot after every dispatch
// round.
func WithProgressHandler(onChange func(progress.Progress)) Option {
	return func(s *Service) {
		s.onProgress = onChange
	}
}

// WithTracing enables OpenTelemetry tracing; when outputFile is non-empty
// spans are written there as JSON.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracing = &tracingConfig{
			serviceName:    serviceName,
			serviceVersion: serviceVersion,
			outputFile:     outputFile,
		}
	}
}

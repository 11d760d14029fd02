package event

import (
	"github.com/procsim/procsim/service/messaging/memory"
)

type Option func(s *Service)

// WithNewQueueConfig overrides the per-queue memory configuration factory.
func WithNewQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.newQueueConfig = newConfig
	}
}

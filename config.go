package procsim

import (
	"github.com/procsim/procsim/service/engine"
	"github.com/procsim/procsim/service/scheduler"
)

// Config aggregates runtime configuration.
type Config struct {
	Scheduler scheduler.Config `json:"scheduler" yaml:"scheduler"`
	Engine    engine.Config    `json:"engine" yaml:"engine"`
}

// DefaultConfig returns a FIFO runtime with the default time-slice budget and
// no round cap.
func DefaultConfig() Config {
	return Config{
		Scheduler: scheduler.DefaultConfig(),
		Engine:    engine.DefaultConfig(),
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	return c.Scheduler.Validate()
}

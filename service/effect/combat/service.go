package combat

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"

	"github.com/procsim/procsim/internal/clock"
	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/service/effect"
)

// Resolver locates another process by display name so an attack can land on
// its registers. A nil resolver keeps combat log-only.
type Resolver func(name string) *process.Process

// Option customises the combat handlers.
type Option func(*config)

type config struct {
	rnd      *rand.Rand
	resolver Resolver
}

// WithRand injects the randomness source used for damage rolls.
func WithRand(rnd *rand.Rand) Option {
	return func(c *config) {
		c.rnd = rnd
	}
}

// WithResolver injects the target lookup used to apply damage.
func WithResolver(resolver Resolver) Option {
	return func(c *config) {
		c.resolver = resolver
	}
}

// New returns the combat handlers (attack, cast).
func New(opts ...Option) []effect.Handler {
	cfg := &config{
		rnd: rand.New(rand.NewSource(clock.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return []effect.Handler{
		&attackHandler{config: cfg},
		&castHandler{config: cfg},
	}
}

// AttackInput is the typed payload of an attack instruction.
type AttackInput struct {
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Power  int    `json:"power" yaml:"power"`
}

type attackHandler struct {
	config *config
}

func (h *attackHandler) Kind() instruction.Kind { return instruction.KindAttack }

func (h *attackHandler) InputType() reflect.Type { return reflect.TypeOf(AttackInput{}) }

func (h *attackHandler) Handle(_ context.Context, proc *process.Process, in interface{}) error {
	input, _ := in.(*AttackInput)
	if input == nil {
		input = &AttackInput{}
	}
	damage := h.config.roll(input.Power)
	if target := h.config.resolve(input.Target); target != nil {
		target.AdjustHP(-damage)
	}
	proc.Append(fmt.Sprintf("attacked %s for %d", orUnknown(input.Target), damage))
	return nil
}

// CastInput is the typed payload of a cast instruction. Cost is deducted
// from MP; a cast with insufficient MP fizzles without error – resource
// insufficiency is a business outcome, not a system failure.
type CastInput struct {
	Spell  string `json:"spell" yaml:"spell"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
	Cost   int    `json:"cost" yaml:"cost"`
	Power  int    `json:"power" yaml:"power"`
}

type castHandler struct {
	config *config
}

func (h *castHandler) Kind() instruction.Kind { return instruction.KindCast }

func (h *castHandler) InputType() reflect.Type { return reflect.TypeOf(CastInput{}) }

func (h *castHandler) Handle(_ context.Context, proc *process.Process, in interface{}) error {
	input, _ := in.(*CastInput)
	if input == nil {
		input = &CastInput{}
	}
	if proc.GetRegisters().MP < input.Cost {
		proc.Append(fmt.Sprintf("fizzled %s: insufficient mp", input.Spell))
		return nil
	}
	proc.AdjustMP(-input.Cost)
	damage := h.config.roll(input.Power)
	if target := h.config.resolve(input.Target); target != nil {
		target.AdjustHP(-damage)
	}
	proc.Append(fmt.Sprintf("cast %s at %s for %d", input.Spell, orUnknown(input.Target), damage))
	return nil
}

// roll turns base power into a damage value with a bounded random bonus.
func (c *config) roll(power int) int {
	if power <= 0 {
		return 0
	}
	return power + c.rnd.Intn(power/2+1)
}

func (c *config) resolve(name string) *process.Process {
	if c.resolver == nil || name == "" {
		return nil
	}
	return c.resolver(name)
}

func orUnknown(name string) string {
	if name == "" {
		return "the air"
	}
	return name
}

package procsim

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/policy"
	"github.com/procsim/procsim/progress"
	"github.com/procsim/procsim/service/dao"
	"github.com/procsim/procsim/service/dao/process/memory"
	"github.com/procsim/procsim/service/effect"
	"github.com/procsim/procsim/service/effect/chat"
	"github.com/procsim/procsim/service/effect/combat"
	"github.com/procsim/procsim/service/effect/inventory"
	"github.com/procsim/procsim/service/effect/sys"
	"github.com/procsim/procsim/service/effect/vitals"
	"github.com/procsim/procsim/service/engine"
	"github.com/procsim/procsim/service/event"
	"github.com/procsim/procsim/service/manager"
	"github.com/procsim/procsim/service/program"
	"github.com/procsim/procsim/service/scheduler"
	"github.com/procsim/procsim/tracing"
)

type tracingConfig struct {
	serviceName    string
	serviceVersion string
	outputFile     string
}

// Service assembles the simulator runtime: process table, scheduler,
// lifecycle manager, effect dispatcher and execution engine.
type Service struct {
	config           Config
	table            dao.Service[string, process.Process]
	policy           *policy.Policy
	rand             *rand.Rand
	chatWriter       io.Writer
	extraHandlers    []effect.Handler
	dispatchListener effect.Listener
	events           *event.Service
	onProgress       func(progress.Progress)
	tracing          *tracingConfig

	scheduler  *scheduler.Service
	manager    *manager.Service
	registry   *effect.Registry
	dispatcher *effect.Dispatcher
	engine     *engine.Service
	programs   *program.Service
}

// New creates a simulator service with the built-in effect handlers wired in.
func New(options ...Option) (*Service, error) {
	s := &Service{config: DefaultConfig()}
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if s.tracing != nil {
		if err := tracing.Init(s.tracing.serviceName, s.tracing.serviceVersion, s.tracing.outputFile); err != nil {
			return nil, fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	if s.table == nil {
		s.table = memory.New()
	}

	var err error
	if s.scheduler, err = scheduler.New(s.config.Scheduler); err != nil {
		return nil, err
	}

	var managerOptions []manager.Option
	if s.events != nil {
		managerOptions = append(managerOptions, manager.WithEventService(s.events))
	}
	s.manager = manager.New(s.table, s.scheduler, managerOptions...)

	s.registry = effect.NewRegistry()
	combatOptions := []combat.Option{combat.WithResolver(s.manager.FindByName)}
	if s.rand != nil {
		combatOptions = append(combatOptions, combat.WithRand(s.rand))
	}
	var chatOptions []chat.Option
	if s.chatWriter != nil {
		chatOptions = append(chatOptions, chat.WithWriter(s.chatWriter))
	}
	s.registry.Register(combat.New(combatOptions...)...)
	s.registry.Register(vitals.New()...)
	s.registry.Register(inventory.New()...)
	s.registry.Register(chat.New(chatOptions...)...)
	s.registry.Register(sys.New()...)
	s.registry.Register(s.extraHandlers...)

	var dispatcherOptions []effect.Option
	if s.dispatchListener != nil {
		dispatcherOptions = append(dispatcherOptions, effect.WithListener(s.dispatchListener))
	}
	s.dispatcher = effect.NewDispatcher(s.registry, dispatcherOptions...)

	var engineOptions []engine.Option
	if s.events != nil {
		engineOptions = append(engineOptions, engine.WithEventService(s.events))
	}
	if s.engine, err = engine.New(s.manager, s.scheduler, s.dispatcher, s.config.Engine, engineOptions...); err != nil {
		return nil, err
	}
	s.programs = program.New()
	return s, nil
}

// Runtime returns the simulation runtime facade.
func (s *Service) Runtime() *Runtime {
	return &Runtime{service: s}
}

// Manager exposes the lifecycle manager for advanced composition.
func (s *Service) Manager() *manager.Service {
	return s.manager
}

// Scheduler exposes the ready-queue scheduler.
func (s *Service) Scheduler() *scheduler.Service {
	return s.scheduler
}

// Registry exposes the effect handler registry.
func (s *Service) Registry() *effect.Registry {
	return s.registry
}

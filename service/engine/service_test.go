package engine

import (
	"bytes"
	"context"
	"math/rand"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/service/dao/process/memory"
	"github.com/procsim/procsim/service/effect"
	"github.com/procsim/procsim/service/effect/chat"
	"github.com/procsim/procsim/service/effect/combat"
	"github.com/procsim/procsim/service/effect/inventory"
	"github.com/procsim/procsim/service/effect/sys"
	"github.com/procsim/procsim/service/effect/vitals"
	"github.com/procsim/procsim/service/manager"
	"github.com/procsim/procsim/service/scheduler"
)

// trace records the order in which instructions were dispatched.
type trace struct {
	mu    sync.Mutex
	names []string
}

func (t *trace) listener(proc *process.Process, _ instruction.Instruction, _ interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.names = append(t.names, proc.Name)
}

type fixture struct {
	manager *manager.Service
	sched   *scheduler.Service
	engine  *Service
	trace   *trace
	out     *bytes.Buffer
}

func newFixture(t *testing.T, schedConfig scheduler.Config, engineConfig Config) *fixture {
	sched, err := scheduler.New(schedConfig)
	assert.Nil(t, err)
	mgr := manager.New(memory.New(), sched)

	out := &bytes.Buffer{}
	registry := effect.NewRegistry()
	registry.Register(combat.New(
		combat.WithResolver(mgr.FindByName),
		combat.WithRand(rand.New(rand.NewSource(1))),
	)...)
	registry.Register(vitals.New()...)
	registry.Register(inventory.New()...)
	registry.Register(chat.New(chat.WithWriter(out))...)
	registry.Register(sys.New()...)

	tr := &trace{}
	dispatcher := effect.NewDispatcher(registry, effect.WithListener(tr.listener))

	eng, err := New(mgr, sched, dispatcher, engineConfig)
	assert.Nil(t, err)
	return &fixture{manager: mgr, sched: sched, engine: eng, trace: tr, out: out}
}

func says(count int) []instruction.Instruction {
	out := make([]instruction.Instruction, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, instruction.New(instruction.KindSay, "message", "tick"))
	}
	return out
}

func TestService_Run_SingleProcess(t *testing.T) {
	f := newFixture(t, scheduler.Config{Policy: scheduler.PolicyFIFO, TimeSlice: 2}, Config{})
	ctx := context.Background()

	proc, err := f.manager.Create(ctx, "hero", []instruction.Instruction{
		instruction.New(instruction.KindSay, "message", "hello"),
		instruction.New(instruction.KindHeal, "amount", 10),
		instruction.New(instruction.KindGather, "item", "herb", "quantity", 2),
		instruction.New(instruction.KindHalt),
	})
	assert.Nil(t, err)

	assert.Nil(t, f.engine.Run(ctx))

	assert.Equal(t, process.StateTerminated, proc.GetState())
	assert.Equal(t, 4, proc.PC)
	assert.Equal(t, 0, f.sched.Len())
	assert.Contains(t, f.out.String(), "hero: hello")
	assert.Equal(t, []interface{}{"healed 0", "herb", "herb"}, proc.Memory)
}

func TestService_Run_RoundRobinInterleaving(t *testing.T) {
	f := newFixture(t, scheduler.Config{Policy: scheduler.PolicyRoundRobin, TimeSlice: 2}, Config{})
	ctx := context.Background()

	_, err := f.manager.Create(ctx, "a", says(4))
	assert.Nil(t, err)
	_, err = f.manager.Create(ctx, "b", says(4))
	assert.Nil(t, err)

	assert.Nil(t, f.engine.Run(ctx))

	assert.Equal(t, []string{"a", "a", "b", "b", "a", "a", "b", "b"}, f.trace.names)
}

func TestService_Run_TerminateWhileQueued(t *testing.T) {
	f := newFixture(t, scheduler.Config{Policy: scheduler.PolicyFIFO, TimeSlice: 4}, Config{})
	ctx := context.Background()

	doomed, _ := f.manager.Create(ctx, "doomed", says(3))
	survivor, _ := f.manager.Create(ctx, "survivor", says(2))

	// forced termination while still waiting in the ready queue
	assert.Nil(t, f.manager.Terminate(ctx, doomed.ID))
	assert.Nil(t, f.engine.Run(ctx))

	// no instruction was ever dispatched for the terminated process
	assert.Equal(t, 0, doomed.PC)
	assert.Equal(t, process.StateTerminated, doomed.GetState())
	assert.Equal(t, []string{"survivor", "survivor"}, f.trace.names)
	assert.Equal(t, process.StateTerminated, survivor.GetState())
	assert.Equal(t, 0, f.sched.Len())
}

func TestService_Run_ShortestJobFirst(t *testing.T) {
	f := newFixture(t, scheduler.Config{Policy: scheduler.PolicyShortestJobFirst, TimeSlice: 10}, Config{})
	ctx := context.Background()

	_, err := f.manager.Create(ctx, "long", says(3))
	assert.Nil(t, err)
	_, err = f.manager.Create(ctx, "short", says(1))
	assert.Nil(t, err)

	assert.Nil(t, f.engine.Run(ctx))
	assert.Equal(t, []string{"short", "long", "long", "long"}, f.trace.names)
}

func TestService_Run_MaxRounds(t *testing.T) {
	f := newFixture(t, scheduler.Config{Policy: scheduler.PolicyFIFO, TimeSlice: 2}, Config{MaxRounds: 2})
	ctx := context.Background()

	proc, _ := f.manager.Create(ctx, "worker", says(10))
	assert.Nil(t, f.engine.Run(ctx))

	// two rounds of two instructions each, then the cap stops the run
	assert.Equal(t, 4, proc.PC)
	assert.Equal(t, process.StateReady, proc.GetState())
	assert.True(t, f.sched.Contains(proc.ID))
}

func TestService_Run_Cancelled(t *testing.T) {
	f := newFixture(t, scheduler.Config{Policy: scheduler.PolicyFIFO, TimeSlice: 2}, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.manager.Create(context.Background(), "worker", says(10))
	assert.Nil(t, err)
	assert.ErrorIs(t, f.engine.Run(ctx), context.Canceled)
}

func TestService_Run_EmptyQueue(t *testing.T) {
	f := newFixture(t, scheduler.Config{Policy: scheduler.PolicyFIFO, TimeSlice: 2}, Config{})
	assert.Nil(t, f.engine.Run(context.Background()))
}

// blockHandler moves the executing process to Blocked, standing in for an
// effect that waits on an external resource.
type blockHandler struct{}

func (h *blockHandler) Kind() instruction.Kind  { return instruction.Kind("wait") }
func (h *blockHandler) InputType() reflect.Type { return nil }

func (h *blockHandler) Handle(_ context.Context, proc *process.Process, _ interface{}) error {
	proc.SetState(process.StateBlocked)
	return nil
}

func TestService_Run_BlockingEffect(t *testing.T) {
	sched, _ := scheduler.New(scheduler.Config{Policy: scheduler.PolicyFIFO, TimeSlice: 4})
	mgr := manager.New(memory.New(), sched)
	registry := effect.NewRegistry()
	registry.Register(sys.New()...)
	registry.Register(&blockHandler{})
	eng, err := New(mgr, sched, effect.NewDispatcher(registry), Config{})
	assert.Nil(t, err)

	proc, _ := mgr.Create(context.Background(), "waiter", []instruction.Instruction{
		instruction.New(instruction.Kind("wait")),
		instruction.New(instruction.KindHalt),
	})

	assert.Nil(t, eng.Run(context.Background()))
	assert.Equal(t, process.StateBlocked, proc.GetState())
	assert.Equal(t, 1, proc.PC, "the slice ends at the blocking instruction")
	assert.False(t, sched.Contains(proc.ID))

	// unblocking resumes from the same program counter
	assert.Nil(t, mgr.Unblock(context.Background(), proc.ID))
	assert.Nil(t, eng.Run(context.Background()))
	assert.Equal(t, process.StateTerminated, proc.GetState())
	assert.Equal(t, 2, proc.PC)
}

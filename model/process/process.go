package process

import (
	"sync"
	"time"

	"github.com/procsim/procsim/internal/clock"
	"github.com/procsim/procsim/model/instruction"
)

// Process state constants
const (
	StateReady      = "ready"
	StateRunning    = "running"
	StateBlocked    = "blocked"
	StateTerminated = "terminated"
)

// Default register values assigned at creation.
const (
	DefaultHP = 100
	DefaultMP = 50
)

// Registers is the fixed register set every process carries. Using named
// fields instead of a map makes "registers are always present" a compile-time
// guarantee.
type Registers struct {
	HP int `json:"hp" yaml:"hp"`
	MP int `json:"mp" yaml:"mp"`
}

// Process represents a schedulable unit of simulated execution with its own
// instruction stream and lifecycle state.
type Process struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	State        string                    `json:"state"`
	PC           int                       `json:"pc"`
	Registers    Registers                 `json:"registers"`
	Memory       []interface{}             `json:"memory,omitempty"`
	Instructions []instruction.Instruction `json:"instructions"`
	CreatedAt    time.Time                 `json:"createdAt"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
	FinishedAt   *time.Time                `json:"finishedAt,omitempty"`

	mu sync.RWMutex // Protects concurrent access
}

// New creates a process in Ready state with default registers, an empty
// memory and the program counter at zero.
func New(id, name string, instructions []instruction.Instruction) *Process {
	now := clock.Now()
	return &Process{
		ID:           id,
		Name:         name,
		State:        StateReady,
		Registers:    Registers{HP: DefaultHP, MP: DefaultMP},
		Instructions: instructions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// FetchNext returns the instruction at the program counter and advances the
// cursor by one. When the stream is exhausted it returns ok=false and, as a
// side effect, moves the process to Terminated – a process whose cursor
// reached the end has naturally finished. The cursor never moves backwards
// and no instruction is ever delivered twice.
func (p *Process) FetchNext() (instruction.Instruction, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.PC >= len(p.Instructions) {
		if p.State != StateTerminated {
			p.setStateLocked(StateTerminated)
		}
		return instruction.Instruction{}, false
	}
	instr := p.Instructions[p.PC]
	p.PC++
	p.UpdatedAt = clock.Now()
	return instr, true
}

// Remaining returns the number of instructions not yet fetched. The scheduler
// uses it as the job-length estimate for shortest-job-first selection.
func (p *Process) Remaining() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.Instructions) - p.PC
}

// GetState returns the process state.
func (p *Process) GetState() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.State
}

// SetState updates the process state. Terminated is terminal – once reached
// the state never changes again.
func (p *Process) SetState(state string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.State == StateTerminated {
		return
	}
	p.setStateLocked(state)
}

func (p *Process) setStateLocked(state string) {
	p.State = state
	if state == StateTerminated {
		now := clock.Now()
		p.FinishedAt = &now
	}
	p.UpdatedAt = clock.Now()
}

// Terminated reports whether the process reached its terminal state.
func (p *Process) Terminated() bool {
	return p.GetState() == StateTerminated
}

// AdjustHP applies a bounded delta to the HP register, clamping at zero.
func (p *Process) AdjustHP(delta int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Registers.HP += delta
	if p.Registers.HP < 0 {
		p.Registers.HP = 0
	}
	p.UpdatedAt = clock.Now()
	return p.Registers.HP
}

// AdjustMP applies a bounded delta to the MP register, clamping at zero.
func (p *Process) AdjustMP(delta int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Registers.MP += delta
	if p.Registers.MP < 0 {
		p.Registers.MP = 0
	}
	p.UpdatedAt = clock.Now()
	return p.Registers.MP
}

// GetRegisters returns a copy of the register set.
func (p *Process) GetRegisters() Registers {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Registers
}

// Append adds items to the process memory preserving order.
func (p *Process) Append(items ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Memory = append(p.Memory, items...)
	p.UpdatedAt = clock.Now()
}

// Snapshot is an immutable view of a process used for diagnostics and
// persistence.
type Snapshot struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	State      string        `json:"state"`
	PC         int           `json:"pc"`
	Registers  Registers     `json:"registers"`
	Memory     []interface{} `json:"memory,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
	FinishedAt *time.Time    `json:"finishedAt,omitempty"`
}

// Describe returns a point-in-time snapshot. It is pure – repeated calls with
// no intervening mutation return identical values.
func (p *Process) Describe() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ret := &Snapshot{
		ID:         p.ID,
		Name:       p.Name,
		State:      p.State,
		PC:         p.PC,
		Registers:  p.Registers,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		FinishedAt: p.FinishedAt,
	}
	if len(p.Memory) > 0 {
		ret.Memory = make([]interface{}, len(p.Memory))
		copy(ret.Memory, p.Memory)
	}
	return ret
}

// CopyFrom updates mutable fields from src. It intentionally skips the mutex
// as copying it would corrupt internal state.
func (p *Process) CopyFrom(src any) {
	other, ok := src.(*Process)
	if !ok || other == nil || p == other {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.State = other.State
	p.PC = other.PC
	p.Registers = other.Registers
	p.Memory = other.Memory
	p.UpdatedAt = other.UpdatedAt
	p.FinishedAt = other.FinishedAt
	// ID, Name and Instructions are immutable after creation – no copy.
}

// Clone creates a deep copy safe for reads outside the owning table. The
// instruction slice is not cloned because programs are immutable after
// creation.
func (p *Process) Clone() *Process {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := &Process{
		ID:           p.ID,
		Name:         p.Name,
		State:        p.State,
		PC:           p.PC,
		Registers:    p.Registers,
		Instructions: p.Instructions,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		FinishedAt:   p.FinishedAt,
	}
	if len(p.Memory) > 0 {
		out.Memory = make([]interface{}, len(p.Memory))
		copy(out.Memory, p.Memory)
	}
	return out
}

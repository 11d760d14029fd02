package process

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/procsim/procsim/model/instruction"
)

func program(kinds ...instruction.Kind) []instruction.Instruction {
	out := make([]instruction.Instruction, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, instruction.New(kind))
	}
	return out
}

func TestNew(t *testing.T) {
	proc := New("hero/1", "hero", program(instruction.KindNoop))
	assert.Equal(t, "hero/1", proc.ID)
	assert.Equal(t, "hero", proc.Name)
	assert.Equal(t, StateReady, proc.GetState())
	assert.Equal(t, 0, proc.PC)
	assert.Equal(t, Registers{HP: DefaultHP, MP: DefaultMP}, proc.GetRegisters())
	assert.Nil(t, proc.FinishedAt)
}

func TestProcess_FetchNext(t *testing.T) {
	proc := New("p/1", "p", program(instruction.KindSay, instruction.KindHalt))

	first, ok := proc.FetchNext()
	assert.True(t, ok)
	assert.Equal(t, instruction.KindSay, first.Kind)
	assert.Equal(t, 1, proc.PC)

	second, ok := proc.FetchNext()
	assert.True(t, ok)
	assert.Equal(t, instruction.KindHalt, second.Kind)
	assert.Equal(t, 2, proc.PC)

	// exhausted stream terminates the process and never rewinds
	_, ok = proc.FetchNext()
	assert.False(t, ok)
	assert.Equal(t, StateTerminated, proc.GetState())
	assert.NotNil(t, proc.FinishedAt)
	assert.Equal(t, 2, proc.PC)
}

func TestProcess_Remaining(t *testing.T) {
	proc := New("p/1", "p", program(instruction.KindNoop, instruction.KindNoop, instruction.KindNoop))
	assert.Equal(t, 3, proc.Remaining())
	proc.FetchNext()
	assert.Equal(t, 2, proc.Remaining())
}

func TestProcess_SetState(t *testing.T) {
	proc := New("p/1", "p", nil)
	proc.SetState(StateRunning)
	assert.Equal(t, StateRunning, proc.GetState())

	proc.SetState(StateTerminated)
	assert.True(t, proc.Terminated())

	// terminated is terminal
	proc.SetState(StateReady)
	assert.Equal(t, StateTerminated, proc.GetState())
}

func TestProcess_AdjustRegisters(t *testing.T) {
	proc := New("p/1", "p", nil)
	assert.Equal(t, 80, proc.AdjustHP(-20))
	assert.Equal(t, 0, proc.AdjustHP(-200))
	assert.Equal(t, 10, proc.AdjustHP(10))
	assert.Equal(t, 0, proc.AdjustMP(-100))
	assert.Equal(t, 30, proc.AdjustMP(30))
}

func TestProcess_Describe(t *testing.T) {
	proc := New("p/1", "p", program(instruction.KindNoop))
	proc.Append("note")

	first := proc.Describe()
	second := proc.Describe()
	assert.EqualValues(t, first, second)

	// snapshot memory is detached from the live process
	first.Memory[0] = "tampered"
	assert.Equal(t, "note", proc.Describe().Memory[0])
}

func TestProcess_CopyFrom(t *testing.T) {
	src := New("p/1", "p", program(instruction.KindNoop))
	src.SetState(StateBlocked)
	src.AdjustHP(-40)
	src.Append("wound")

	dest := New("p/1", "p", program(instruction.KindNoop))
	dest.CopyFrom(src)
	assert.Equal(t, StateBlocked, dest.GetState())
	assert.Equal(t, 60, dest.GetRegisters().HP)
	assert.Equal(t, []interface{}{"wound"}, dest.Memory)
}

func TestProcess_Clone(t *testing.T) {
	proc := New("p/1", "p", program(instruction.KindNoop))
	proc.Append("loot")
	clone := proc.Clone()
	assert.Equal(t, proc.ID, clone.ID)
	clone.Append("extra")
	assert.Equal(t, 1, len(proc.Memory))
}

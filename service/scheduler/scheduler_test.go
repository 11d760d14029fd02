package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
)

func newProcess(id string, length int) *process.Process {
	instructions := make([]instruction.Instruction, 0, length)
	for i := 0; i < length; i++ {
		instructions = append(instructions, instruction.New(instruction.KindNoop))
	}
	return process.New(id, id, instructions)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		description string
		config      Config
		valid       bool
	}{
		{description: "fifo", config: Config{Policy: PolicyFIFO, TimeSlice: 4}, valid: true},
		{description: "round robin", config: Config{Policy: PolicyRoundRobin, TimeSlice: 1}, valid: true},
		{description: "sjf", config: Config{Policy: PolicyShortestJobFirst, TimeSlice: 2}, valid: true},
		{description: "unrecognized policy", config: Config{Policy: "priority", TimeSlice: 4}, valid: false},
		{description: "empty policy", config: Config{TimeSlice: 4}, valid: false},
		{description: "zero slice", config: Config{Policy: PolicyFIFO}, valid: false},
	}
	for _, testCase := range testCases {
		err := testCase.config.Validate()
		if testCase.valid {
			assert.Nil(t, err, testCase.description)
		} else {
			assert.NotNil(t, err, testCase.description)
		}
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Policy: "lottery", TimeSlice: 4})
	assert.NotNil(t, err)
}

func TestService_Enqueue(t *testing.T) {
	sched, err := New(DefaultConfig())
	assert.Nil(t, err)

	proc := newProcess("a", 1)
	assert.Nil(t, sched.Enqueue(proc))
	assert.ErrorIs(t, sched.Enqueue(proc), ErrAlreadyQueued)
	assert.ErrorIs(t, sched.Enqueue(nil), ErrNilProcess)
	assert.Equal(t, 1, sched.Len())
}

func TestService_SelectNext_FIFO(t *testing.T) {
	sched, _ := New(Config{Policy: PolicyFIFO, TimeSlice: 4})
	for _, id := range []string{"a", "b", "c"} {
		assert.Nil(t, sched.Enqueue(newProcess(id, 2)))
	}

	var order []string
	for i := 0; i < 3; i++ {
		lease, err := sched.SelectNext()
		assert.Nil(t, err)
		order = append(order, lease.Process().ID)
		lease.Complete(false)
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)

	_, err := sched.SelectNext()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestService_SelectNext_FIFO_Requeue(t *testing.T) {
	sched, _ := New(Config{Policy: PolicyFIFO, TimeSlice: 4})
	sched.Enqueue(newProcess("a", 2))
	sched.Enqueue(newProcess("b", 2))

	lease, _ := sched.SelectNext()
	assert.Equal(t, "a", lease.Process().ID)
	assert.False(t, sched.Contains("a"))
	lease.Complete(true)

	// a went to the tail behind b
	lease, _ = sched.SelectNext()
	assert.Equal(t, "b", lease.Process().ID)
	lease.Complete(false)
	lease, _ = sched.SelectNext()
	assert.Equal(t, "a", lease.Process().ID)
}

func TestService_SelectNext_RoundRobin(t *testing.T) {
	sched, _ := New(Config{Policy: PolicyRoundRobin, TimeSlice: 1})
	for _, id := range []string{"a", "b", "c"} {
		sched.Enqueue(newProcess(id, 10))
	}

	// with n=3 runnable processes every process reappears after exactly
	// n-1 other selections
	var order []string
	for i := 0; i < 6; i++ {
		lease, err := sched.SelectNext()
		assert.Nil(t, err)
		order = append(order, lease.Process().ID)
		// the selected process stays queued at the tail during its slice
		assert.True(t, sched.Contains(lease.Process().ID))
		lease.Complete(true)
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, order)
}

func TestService_SelectNext_RoundRobin_Retire(t *testing.T) {
	sched, _ := New(Config{Policy: PolicyRoundRobin, TimeSlice: 1})
	sched.Enqueue(newProcess("a", 10))
	sched.Enqueue(newProcess("b", 10))

	lease, _ := sched.SelectNext()
	assert.Equal(t, "a", lease.Process().ID)
	// retiring removes the residual tail entry
	lease.Complete(false)
	assert.False(t, sched.Contains("a"))
	assert.Equal(t, 1, sched.Len())

	lease, _ = sched.SelectNext()
	assert.Equal(t, "b", lease.Process().ID)
}

func TestService_SelectNext_ShortestJobFirst(t *testing.T) {
	sched, _ := New(Config{Policy: PolicyShortestJobFirst, TimeSlice: 4})
	sched.Enqueue(newProcess("long", 9))
	sched.Enqueue(newProcess("short", 2))
	sched.Enqueue(newProcess("medium", 5))

	lease, _ := sched.SelectNext()
	assert.Equal(t, "short", lease.Process().ID)
	lease.Complete(false)

	lease, _ = sched.SelectNext()
	assert.Equal(t, "medium", lease.Process().ID)
	lease.Complete(false)

	lease, _ = sched.SelectNext()
	assert.Equal(t, "long", lease.Process().ID)
}

func TestService_SelectNext_ShortestJobFirst_TieBreak(t *testing.T) {
	sched, _ := New(Config{Policy: PolicyShortestJobFirst, TimeSlice: 4})
	sched.Enqueue(newProcess("first", 3))
	sched.Enqueue(newProcess("second", 3))

	// equal remaining - earliest enqueued wins
	lease, _ := sched.SelectNext()
	assert.Equal(t, "first", lease.Process().ID)
}

func TestService_Remove(t *testing.T) {
	sched, _ := New(DefaultConfig())
	sched.Enqueue(newProcess("a", 1))
	assert.True(t, sched.Remove("a"))
	assert.False(t, sched.Remove("a"))
	assert.False(t, sched.Contains("a"))
}

func TestLease_Complete_Idempotent(t *testing.T) {
	sched, _ := New(Config{Policy: PolicyFIFO, TimeSlice: 4})
	sched.Enqueue(newProcess("a", 1))

	lease, _ := sched.SelectNext()
	lease.Complete(true)
	lease.Complete(false) // no effect - the lease is already settled
	assert.True(t, sched.Contains("a"))
	assert.Equal(t, 1, sched.Len())
}

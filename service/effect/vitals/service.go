package vitals

import (
	"context"
	"fmt"
	"reflect"

	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/service/effect"
)

// New returns the vitals handlers (heal, rest).
func New() []effect.Handler {
	return []effect.Handler{
		&healHandler{},
		&restHandler{},
	}
}

// HealInput is the typed payload of a heal instruction.
type HealInput struct {
	Amount int `json:"amount" yaml:"amount"`
}

type healHandler struct{}

func (h *healHandler) Kind() instruction.Kind { return instruction.KindHeal }

func (h *healHandler) InputType() reflect.Type { return reflect.TypeOf(HealInput{}) }

// Handle restores HP, capped at the creation default.
func (h *healHandler) Handle(_ context.Context, proc *process.Process, in interface{}) error {
	input, _ := in.(*HealInput)
	if input == nil || input.Amount <= 0 {
		return nil
	}
	restored := input.Amount
	if headroom := process.DefaultHP - proc.GetRegisters().HP; restored > headroom {
		restored = headroom
	}
	if restored > 0 {
		proc.AdjustHP(restored)
	}
	proc.Append(fmt.Sprintf("healed %d", restored))
	return nil
}

// RestInput is the typed payload of a rest instruction. A zero amount
// restores MP back to the creation default.
type RestInput struct {
	Amount int `json:"amount,omitempty" yaml:"amount,omitempty"`
}

type restHandler struct{}

func (h *restHandler) Kind() instruction.Kind { return instruction.KindRest }

func (h *restHandler) InputType() reflect.Type { return reflect.TypeOf(RestInput{}) }

func (h *restHandler) Handle(_ context.Context, proc *process.Process, in interface{}) error {
	input, _ := in.(*RestInput)
	amount := 0
	if input != nil {
		amount = input.Amount
	}
	headroom := process.DefaultMP - proc.GetRegisters().MP
	if amount <= 0 || amount > headroom {
		amount = headroom
	}
	if amount > 0 {
		proc.AdjustMP(amount)
	}
	proc.Append(fmt.Sprintf("rested, recovered %d mp", amount))
	return nil
}

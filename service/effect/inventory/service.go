package inventory

import (
	"context"
	"reflect"

	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/service/effect"
)

// New returns the inventory handlers (gather).
func New() []effect.Handler {
	return []effect.Handler{&gatherHandler{}}
}

// GatherInput is the typed payload of a gather instruction.
type GatherInput struct {
	Item     string `json:"item" yaml:"item"`
	Quantity int    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

type gatherHandler struct{}

func (h *gatherHandler) Kind() instruction.Kind { return instruction.KindGather }

func (h *gatherHandler) InputType() reflect.Type { return reflect.TypeOf(GatherInput{}) }

// Handle appends the gathered items to the process memory, preserving order.
func (h *gatherHandler) Handle(_ context.Context, proc *process.Process, in interface{}) error {
	input, _ := in.(*GatherInput)
	if input == nil || input.Item == "" {
		return nil
	}
	quantity := input.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	for i := 0; i < quantity; i++ {
		proc.Append(input.Item)
	}
	return nil
}

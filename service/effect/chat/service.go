package chat

import (
	"context"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/procsim/procsim/model/instruction"
	"github.com/procsim/procsim/model/process"
	"github.com/procsim/procsim/service/effect"
)

// Option customises the chat handler.
type Option func(*sayHandler)

// WithWriter redirects say output, primarily for tests.
func WithWriter(w io.Writer) Option {
	return func(h *sayHandler) {
		h.writer = w
	}
}

// New returns the chat handlers (say).
func New(opts ...Option) []effect.Handler {
	h := &sayHandler{writer: os.Stdout}
	for _, opt := range opts {
		opt(h)
	}
	return []effect.Handler{h}
}

// SayInput is the typed payload of a say instruction.
type SayInput struct {
	Message string `json:"message" yaml:"message"`
}

type sayHandler struct {
	writer io.Writer
}

func (h *sayHandler) Kind() instruction.Kind { return instruction.KindSay }

func (h *sayHandler) InputType() reflect.Type { return reflect.TypeOf(SayInput{}) }

func (h *sayHandler) Handle(_ context.Context, proc *process.Process, in interface{}) error {
	input, _ := in.(*SayInput)
	if input == nil {
		return nil
	}
	_, err := fmt.Fprintf(h.writer, "%s: %s\n", proc.Name, input.Message)
	return err
}

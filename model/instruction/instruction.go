package instruction

import "fmt"

// Kind identifies an instruction operation. The scheduling core never
// interprets a kind – it only routes the instruction to the effect handler
// registered under it.
type Kind string

// Built-in instruction kinds. Extensions may register handlers for
// additional kinds at runtime.
const (
	KindAttack Kind = "attack"
	KindCast   Kind = "cast"
	KindHeal   Kind = "heal"
	KindRest   Kind = "rest"
	KindGather Kind = "gather"
	KindSay    Kind = "say"
	KindHalt   Kind = "halt"
	KindNoop   Kind = "noop"
)

// Instruction is a single unit of simulated work. Payload stays opaque until
// an effect handler converts it into its typed input.
type Instruction struct {
	Kind    Kind                   `json:"kind" yaml:"kind"`
	Payload map[string]interface{} `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// New creates an instruction with optional payload entries supplied as
// alternating key/value pairs.
func New(kind Kind, pairs ...interface{}) Instruction {
	ret := Instruction{Kind: kind}
	if len(pairs) > 0 {
		ret.Payload = make(map[string]interface{}, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			key, _ := pairs[i].(string)
			ret.Payload[key] = pairs[i+1]
		}
	}
	return ret
}

// Validate reports whether the instruction can be dispatched at all.
func (i *Instruction) Validate() error {
	if i.Kind == "" {
		return fmt.Errorf("instruction kind cannot be empty")
	}
	return nil
}

func (i Instruction) String() string {
	if len(i.Payload) == 0 {
		return string(i.Kind)
	}
	return fmt.Sprintf("%s %v", i.Kind, i.Payload)
}

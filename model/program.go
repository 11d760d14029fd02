package model

import (
	"fmt"

	"github.com/procsim/procsim/model/instruction"
)

// Source describes where a program definition was loaded from.
type Source struct {
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Program is an ordered, immutable instruction stream plus a display name.
// It is the creation input for a process.
type Program struct {
	Source       *Source                   `json:"source,omitempty" yaml:"source,omitempty"`
	Name         string                    `json:"name" yaml:"name"`
	Instructions []instruction.Instruction `json:"instructions" yaml:"instructions"`
}

// Validate returns all structural issues found in the program definition.
func (p *Program) Validate() []error {
	var issues []error
	if p.Name == "" {
		issues = append(issues, fmt.Errorf("program name cannot be empty"))
	}
	for i := range p.Instructions {
		if err := p.Instructions[i].Validate(); err != nil {
			issues = append(issues, fmt.Errorf("instruction[%d]: %w", i, err))
		}
	}
	return issues
}

package loam

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// MachineMetadata is the frontmatter of a machine document.
//
//	---
//	name: unary_add
//	description: adds two unary numbers
//	tape: 1 + 1 1 =
//	head: 0
//	max_steps: 1000
//	---
//	EMPTY: #
//	INITIAL_STATE: q0
//	...
//
// Numeric and list fields are left untyped: strict Loam decoding yields json.Number,
// and tape may be written either as one string or as a YAML list of cells.
type MachineMetadata struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	Tape        any    `json:"tape" mapstructure:"tape"`
	Head        any    `json:"head" mapstructure:"head"`
	MaxSteps    any    `json:"max_steps" mapstructure:"max_steps"`
}

type runDefaults struct {
	Tape     []string `mapstructure:"tape"`
	Head     int      `mapstructure:"head"`
	MaxSteps int      `mapstructure:"max_steps"`
}

// defaults normalizes the loosely typed fields.
func (m MachineMetadata) defaults() (tape string, head, maxSteps int, err error) {
	raw := map[string]any{}
	if m.Tape != nil {
		raw["tape"] = m.Tape
	}
	if m.Head != nil {
		raw["head"] = m.Head
	}
	if m.MaxSteps != nil {
		raw["max_steps"] = m.MaxSteps
	}

	var out runDefaults
	if err := mapstructure.WeakDecode(raw, &out); err != nil {
		return "", 0, 0, fmt.Errorf("invalid machine frontmatter: %w", err)
	}
	if out.Head < 0 {
		return "", 0, 0, fmt.Errorf("invalid machine frontmatter: negative head %d", out.Head)
	}
	return strings.Join(out.Tape, " "), out.Head, out.MaxSteps, nil
}

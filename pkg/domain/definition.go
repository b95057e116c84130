package domain

// Definition is a named machine program together with its default input.
// Libraries (Loam, memory) return definitions; the Program is DSL source text.
type Definition struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Program holds the transition-table DSL.
	Program string `json:"program" yaml:"program"`

	// Tape is the default input, whitespace separated (e.g. "1 + 1 1 =").
	Tape string `json:"tape,omitempty" yaml:"tape,omitempty"`
	Head int    `json:"head,omitempty" yaml:"head,omitempty"`

	// MaxSteps is a suggested step budget for runs of this machine (0 = unbounded).
	MaxSteps int `json:"max_steps,omitempty" yaml:"max_steps,omitempty"`
}

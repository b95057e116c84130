package dsl

import (
	"slices"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/tape"
)

// Config and Transition specialise the domain types to the string alphabet of the DSL.
type (
	Config     = domain.Configuration[string, string]
	Transition = domain.Transition[string, string]
	Table      = domain.Table[string, string]
	Machine    = machine.Machine[string, string]
)

// Rule is one parsed rule with its location in the source.
type Rule struct {
	From Config     `json:"from"`
	To   Transition `json:"to"`
	Pos  Position   `json:"pos"`
}

// Program is a compiled transition-table description.
type Program struct {
	// Blank is the symbol that fills newly exposed tape cells (EMPTY:).
	Blank string `json:"blank"`
	// Initial is the start state (INITIAL_STATE:).
	Initial string `json:"initial"`
	// Table holds the effective rules, one per configuration.
	Table Table `json:"-"`
	// Rules lists every parsed rule in source order, including overridden duplicates.
	Rules []Rule `json:"rules"`
}

// Effective returns the rules that ended up in the table, in source order.
// A configuration defined several times is represented by its last definition.
func (p *Program) Effective() []Rule {
	last := make(map[Config]int, len(p.Rules))
	for i, r := range p.Rules {
		last[r.From] = i
	}
	out := make([]Rule, 0, len(last))
	for i, r := range p.Rules {
		if last[r.From] == i {
			out = append(out, r)
		}
	}
	return out
}

// Overridden returns the rules replaced by a later definition of the same configuration.
func (p *Program) Overridden() []Rule {
	last := make(map[Config]int, len(p.Rules))
	for i, r := range p.Rules {
		last[r.From] = i
	}
	var out []Rule
	for i, r := range p.Rules {
		if last[r.From] != i {
			out = append(out, r)
		}
	}
	return out
}

// States returns every state mentioned by the program, sorted.
func (p *Program) States() []string {
	seen := map[string]struct{}{p.Initial: {}}
	for _, r := range p.Rules {
		seen[r.From.State] = struct{}{}
		seen[r.To.State] = struct{}{}
	}
	return sortedKeys(seen)
}

// Symbols returns the alphabet used by the program (including the blank), sorted.
func (p *Program) Symbols() []string {
	seen := map[string]struct{}{p.Blank: {}}
	for _, r := range p.Rules {
		seen[r.From.Symbol] = struct{}{}
		seen[r.To.Symbol] = struct{}{}
	}
	return sortedKeys(seen)
}

// Halting returns the states that have no outgoing rule at all: reaching one always halts.
func (p *Program) Halting() []string {
	outgoing := make(map[string]struct{})
	for c := range p.Table {
		outgoing[c.State] = struct{}{}
	}
	var out []string
	for _, s := range p.States() {
		if _, ok := outgoing[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// NewTape builds an input tape for this program, blank-filled with p.Blank.
func (p *Program) NewTape(cells []string, head int) *tape.Tape[string] {
	return tape.New(cells, head, p.Blank)
}

// Machine builds a fresh machine in the initial state. Each machine gets its own
// copy of the table, so a Program can start any number of runs.
func (p *Program) Machine(cells []string, head int) *Machine {
	return machine.New(p.Table.Clone(), p.NewTape(cells, head), p.Initial)
}

// Tokenize splits a textual tape ("1 + 1 1 =") into cells on whitespace.
func Tokenize(input string) []string {
	return strings.Fields(input)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Package machine implements the stepwise execution engine of a single-tape,
// deterministic Turing machine.
//
// A Machine owns its transition table, its tape and its current state. Step applies
// at most one transition and reports either that the machine is still Running or
// that it Stopped because no rule matches the current configuration.
package machine

import (
	"errors"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/tape"
)

// ErrSpent is the panic value raised when a halted machine is used again.
var ErrSpent = errors.New("machine: use of a machine after it stopped")

// Machine is a Turing machine in execution.
// It is not safe for concurrent use.
type Machine[S, D comparable] struct {
	table domain.Table[S, D]
	tape  *tape.Tape[D]
	state S
	steps int
	spent bool
}

// New creates a machine. The machine takes ownership of the table and the tape;
// callers must not mutate either afterwards.
func New[S, D comparable](table domain.Table[S, D], t *tape.Tape[D], initial S) *Machine[S, D] {
	if table == nil {
		table = domain.NewTable[S, D]()
	}
	return &Machine[S, D]{
		table: table,
		tape:  t,
		state: initial,
	}
}

// Outcome is the result of a Step: either *Running or *Stopped.
type Outcome[S, D comparable] interface {
	isOutcome()
}

// Running carries the machine after a transition was applied.
type Running[S, D comparable] struct {
	Machine *Machine[S, D]
}

// Stopped carries the final state and tape of a halted machine.
type Stopped[S, D comparable] struct {
	State S
	Tape  *tape.Tape[D]
	Steps int
}

func (*Running[S, D]) isOutcome() {}
func (*Stopped[S, D]) isOutcome() {}

// Step looks up the rule for (state, symbol under head). When one exists it
// writes the symbol, switches state and moves the head, returning Running with
// the same machine. Otherwise it returns Stopped with the current state and the
// untouched tape, and the machine is spent: any further call panics with ErrSpent.
func (m *Machine[S, D]) Step() Outcome[S, D] {
	m.mustLive()

	to, ok := m.table.Lookup(m.Config())
	if !ok {
		out := &Stopped[S, D]{State: m.state, Tape: m.tape, Steps: m.steps}
		m.spent = true
		m.tape = nil
		m.table = nil
		return out
	}

	m.tape.Write(to.Symbol)
	m.state = to.State
	m.tape.Move(to.Move)
	m.steps++
	return &Running[S, D]{Machine: m}
}

// Config returns the configuration the next Step will look up.
func (m *Machine[S, D]) Config() domain.Configuration[S, D] {
	m.mustLive()
	return domain.Configuration[S, D]{State: m.state, Symbol: m.tape.Read()}
}

// Next returns the transition the next Step would apply, if any.
func (m *Machine[S, D]) Next() (domain.Transition[S, D], bool) {
	return m.table.Lookup(m.Config())
}

// State returns the current state.
func (m *Machine[S, D]) State() S {
	m.mustLive()
	return m.state
}

// Tape returns a read-only view of the tape. Mutating it bypasses the engine.
func (m *Machine[S, D]) Tape() *tape.Tape[D] {
	m.mustLive()
	return m.tape
}

// Table returns the transition table the machine executes.
func (m *Machine[S, D]) Table() domain.Table[S, D] {
	m.mustLive()
	return m.table
}

// Steps returns how many transitions have been applied.
func (m *Machine[S, D]) Steps() int {
	return m.steps
}

// Resume restores the step counter of a machine rebuilt from a snapshot.
func (m *Machine[S, D]) Resume(steps int) *Machine[S, D] {
	m.steps = steps
	return m
}

func (m *Machine[S, D]) mustLive() {
	if m.spent {
		panic(ErrSpent)
	}
}

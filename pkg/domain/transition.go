package domain

import "fmt"

// Direction is the movement of the head after a transition.
type Direction int

const (
	Left Direction = iota
	Right
)

// String returns the DSL letter of the direction ("L" or "R").
func (d Direction) String() string {
	switch d {
	case Left:
		return "L"
	case Right:
		return "R"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection converts a DSL letter into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "L":
		return Left, nil
	case "R":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown direction %q (expected L or R)", s)
}

// MarshalText implements encoding.TextMarshaler so directions serialize as "L"/"R".
func (d Direction) MarshalText() ([]byte, error) {
	if d != Left && d != Right {
		return nil, fmt.Errorf("invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Configuration is the current state together with the symbol under the head.
// It is the lookup key into a Table.
type Configuration[S, D comparable] struct {
	State  S `json:"state" yaml:"state"`
	Symbol D `json:"symbol" yaml:"symbol"`
}

func (c Configuration[S, D]) String() string {
	return fmt.Sprintf("(%v, %v)", c.State, c.Symbol)
}

// Transition is the action taken when a Configuration matches:
// write Symbol, switch to State, then move the head.
type Transition[S, D comparable] struct {
	State  S         `json:"state" yaml:"state"`
	Symbol D         `json:"symbol" yaml:"symbol"`
	Move   Direction `json:"move" yaml:"move"`
}

func (t Transition[S, D]) String() string {
	return fmt.Sprintf("(%v, %v, %s)", t.State, t.Symbol, t.Move)
}

// Table maps configurations to transitions. Keys are unique; lookup is by exact equality.
type Table[S, D comparable] map[Configuration[S, D]]Transition[S, D]

// NewTable creates an empty table.
func NewTable[S, D comparable]() Table[S, D] {
	return make(Table[S, D])
}

// Set registers a rule. A later Set for the same configuration replaces the earlier one.
func (t Table[S, D]) Set(from Configuration[S, D], to Transition[S, D]) {
	t[from] = to
}

// Lookup returns the transition registered for the configuration, if any.
func (t Table[S, D]) Lookup(from Configuration[S, D]) (Transition[S, D], bool) {
	to, ok := t[from]
	return to, ok
}

// Clone returns an independent copy of the table.
func (t Table[S, D]) Clone() Table[S, D] {
	out := make(Table[S, D], len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

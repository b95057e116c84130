package domain

import "time"

// Snapshot captures the position of a string-typed machine so it can be persisted
// and resumed later ("Stop & Resume"). The transition table is not part of it: the
// snapshot refers to its program through Program (the DSL source).
type Snapshot struct {
	// Machine names the library entry the session was started from, if any.
	Machine string `json:"machine,omitempty"`

	// Program is the DSL source the machine was compiled from.
	Program string `json:"program"`

	State  string   `json:"state"`
	Cells  []string `json:"cells"`
	Head   int      `json:"head"`
	Blank  string   `json:"blank"`
	Steps  int      `json:"steps"`
	Halted bool     `json:"halted"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy, so callers cannot alias the cell slice.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Cells = append([]string(nil), s.Cells...)
	return &out
}

// Package tape implements the unbounded, two-way growable storage of a Turing machine.
//
// A Tape always holds at least one cell and its head always points at a valid cell.
// Moving past either end exposes a fresh cell filled with the tape's blank symbol.
package tape

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Tape is a sequence of symbols with a read/write head.
// It is not safe for concurrent use; a Tape has a single owner.
type Tape[D comparable] struct {
	cells []D
	head  int
	blank D
}

// New creates a tape from an initial sequence, head position and blank symbol.
// The cells are copied. An empty sequence yields a single blank cell.
// An out-of-range head is clamped: negative values become 0 and values past the
// end point at the last cell.
func New[D comparable](cells []D, head int, blank D) *Tape[D] {
	mem := make([]D, len(cells), max(len(cells), 1))
	copy(mem, cells)
	if len(mem) == 0 {
		mem = append(mem, blank)
	}
	head = min(max(head, 0), len(mem)-1)
	return &Tape[D]{cells: mem, head: head, blank: blank}
}

// Blank creates a tape holding a single blank cell.
func Blank[D comparable](blank D) *Tape[D] {
	return New(nil, 0, blank)
}

// Read returns the symbol under the head.
func (t *Tape[D]) Read() D {
	return t.cells[t.head]
}

// Write overwrites the symbol under the head.
func (t *Tape[D]) Write(symbol D) {
	t.cells[t.head] = symbol
}

// MoveRight advances the head, appending a blank cell when it runs off the end.
func (t *Tape[D]) MoveRight() {
	t.head++
	if t.head == len(t.cells) {
		t.cells = append(t.cells, t.blank)
	}
}

// MoveLeft moves the head back. At the first cell a blank is inserted at the
// front instead, so the head stays at index 0 over the new cell. That insert
// shifts every cell and costs O(n).
func (t *Tape[D]) MoveLeft() {
	if t.head > 0 {
		t.head--
		return
	}
	var zero D
	t.cells = append(t.cells, zero)
	copy(t.cells[1:], t.cells)
	t.cells[0] = t.blank
}

// Move dispatches on the direction.
func (t *Tape[D]) Move(dir domain.Direction) {
	switch dir {
	case domain.Left:
		t.MoveLeft()
	case domain.Right:
		t.MoveRight()
	default:
		panic(fmt.Sprintf("tape: invalid direction %d", int(dir)))
	}
}

// Head returns the 0-based head index.
func (t *Tape[D]) Head() int { return t.head }

// Len returns the number of cells materialized so far.
func (t *Tape[D]) Len() int { return len(t.cells) }

// BlankSymbol returns the symbol used to fill newly exposed cells.
func (t *Tape[D]) BlankSymbol() D { return t.blank }

// Cells returns a copy of the cell contents in order.
func (t *Tape[D]) Cells() []D {
	return append([]D(nil), t.cells...)
}

// Clone returns an independent copy of the tape.
func (t *Tape[D]) Clone() *Tape[D] {
	return &Tape[D]{cells: t.Cells(), head: t.head, blank: t.blank}
}

// Render lists every cell, each preceded by a space, inserting the display form
// of label right before the cell under the head. For a tape [1 + 1] with the
// head on "+" and label q0 the result is " 1 q0 + 1".
func (t *Tape[D]) Render(label any) string {
	var sb strings.Builder
	for i, cell := range t.cells {
		if i == t.head {
			fmt.Fprintf(&sb, " %v", label)
		}
		fmt.Fprintf(&sb, " %v", cell)
	}
	return sb.String()
}

// String renders the tape with ">" marking the head.
func (t *Tape[D]) String() string {
	return t.Render(">")
}

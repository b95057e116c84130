package session

import (
	"fmt"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/aretw0/turing/pkg/runner"
	"github.com/aretw0/turing/pkg/tape"
)

// Capture records the position of a live machine. The caller fills Machine and Program.
func Capture(m *dsl.Machine) *domain.Snapshot {
	t := m.Tape()
	return &domain.Snapshot{
		State:     m.State(),
		Cells:     t.Cells(),
		Head:      t.Head(),
		Blank:     t.BlankSymbol(),
		Steps:     m.Steps(),
		UpdatedAt: time.Now().UTC(),
	}
}

// CaptureResult records where a run ended, halted or not.
func CaptureResult(res *runner.Result[string, string]) *domain.Snapshot {
	if res.Machine != nil {
		return Capture(res.Machine)
	}
	return &domain.Snapshot{
		State:     res.State,
		Cells:     res.Tape.Cells(),
		Head:      res.Tape.Head(),
		Blank:     res.Tape.BlankSymbol(),
		Steps:     res.Steps,
		Halted:    true,
		UpdatedAt: time.Now().UTC(),
	}
}

// Restore rebuilds a live machine from prog positioned as snap describes.
// The snapshot must use the program's blank symbol and must not be halted.
func Restore(prog *dsl.Program, snap *domain.Snapshot) (*dsl.Machine, error) {
	if snap.Halted {
		return nil, domain.ErrSessionHalted
	}
	if snap.Blank != prog.Blank {
		return nil, fmt.Errorf("snapshot blank %q does not match program blank %q", snap.Blank, prog.Blank)
	}
	if snap.Head < 0 || (len(snap.Cells) > 0 && snap.Head >= len(snap.Cells)) {
		return nil, fmt.Errorf("snapshot head %d outside tape of %d cells", snap.Head, len(snap.Cells))
	}
	t := tape.New(snap.Cells, snap.Head, snap.Blank)
	return machine.New(prog.Table.Clone(), t, snap.State).Resume(snap.Steps), nil
}

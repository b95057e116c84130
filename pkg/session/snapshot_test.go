package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/machine"
)

const beaver = "EMPTY: 0\nINITIAL_STATE: A\n(A, 0): (B, 1, R)\n(A, 1): (B, 1, L)\n(B, 0): (A, 1, L)\n(B, 1): (H, 1, R)"

func TestCaptureRestore(t *testing.T) {
	prog, err := dsl.Parse(beaver)
	require.NoError(t, err)

	m := prog.Machine([]string{"0"}, 0)
	for range 3 {
		_, ok := m.Step().(*machine.Running[string, string])
		require.True(t, ok)
	}
	snap := Capture(m)
	assert.Equal(t, 3, snap.Steps)
	assert.Equal(t, "B", snap.State)
	assert.Equal(t, "0", snap.Blank)

	restored, err := Restore(prog, snap)
	require.NoError(t, err)
	assert.Equal(t, m.Config(), restored.Config())
	assert.Equal(t, m.Tape().Cells(), restored.Tape().Cells())
	assert.Equal(t, 3, restored.Steps())

	// Both continue identically and independently.
	m.Step()
	restored.Step()
	assert.Equal(t, m.Tape().Cells(), restored.Tape().Cells())
	assert.Equal(t, m.State(), restored.State())
}

func TestRestore_Rejects(t *testing.T) {
	prog, err := dsl.Parse(beaver)
	require.NoError(t, err)

	_, err = Restore(prog, &domain.Snapshot{State: "H", Cells: []string{"1"}, Blank: "0", Halted: true})
	assert.ErrorIs(t, err, domain.ErrSessionHalted)

	_, err = Restore(prog, &domain.Snapshot{State: "A", Cells: []string{"0"}, Blank: "#"})
	assert.ErrorContains(t, err, "blank")

	_, err = Restore(prog, &domain.Snapshot{State: "A", Cells: []string{"0"}, Head: 3, Blank: "0"})
	assert.ErrorContains(t, err, "head")
}

package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	contract "github.com/aretw0/turing/pkg/ports/tests"
)

func TestExamplesLibrary_Contract(t *testing.T) {
	contract.MachineLibraryContractTest(t, memory.NewExamplesLibrary(), map[string]string{
		"unary_add":        "1 + 1 1 =",
		"busy_beaver_2":    "0",
		"binary_increment": "1 0 1 1",
	})
}

func TestLibrary_Custom(t *testing.T) {
	lib, err := memory.NewLibrary(
		domain.Definition{Name: "noop", Program: "EMPTY: _\nINITIAL_STATE: s\n", Tape: "_"},
	)
	require.NoError(t, err)
	contract.MachineLibraryContractTest(t, lib, map[string]string{"noop": "_"})

	def, err := lib.Get(t.Context(), "noop")
	require.NoError(t, err)
	def.Tape = "changed"
	again, _ := lib.Get(t.Context(), "noop")
	assert.Equal(t, "_", again.Tape)
}

func TestLibrary_MissingName(t *testing.T) {
	_, err := memory.NewLibrary(domain.Definition{Program: "EMPTY: _\nINITIAL_STATE: s\n"})
	assert.Error(t, err)
}

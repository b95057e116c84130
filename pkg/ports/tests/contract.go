package tests

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/ports"
)

// MachineLibraryContractTest is a reusable test suite that verifies if an adapter complies
// with ports.MachineLibrary. want maps every machine the library must contain to its expected
// default tape.
func MachineLibraryContractTest(t *testing.T, lib ports.MachineLibrary, want map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for name, tape := range want {
			def, err := lib.Get(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting machine %s: %v", name, err)
			}
			if def.Name != name {
				t.Errorf("name mismatch: got %q, want %q", def.Name, name)
			}
			if def.Tape != tape {
				t.Errorf("tape mismatch for %s: got %q, want %q", name, def.Tape, tape)
			}
			if _, err := dsl.Parse(def.Program); err != nil {
				t.Errorf("program of %s does not parse: %v", name, err)
			}
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := lib.Get(ctx, "non-existent-machine")
		if !errors.Is(err, domain.ErrMachineNotFound) {
			t.Errorf("expected ErrMachineNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := lib.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing machines: %v", err)
		}
		if !slices.IsSorted(names) {
			t.Errorf("expected sorted names, got %v", names)
		}
		for name := range want {
			if !slices.Contains(names, name) {
				t.Errorf("expected machine %s in list %v", name, names)
			}
		}
	})
}

package ports

import (
	"context"

	"github.com/aretw0/turing/pkg/domain"
)

// MachineLibrary resolves machine definitions by name.
type MachineLibrary interface {
	// Get returns the named definition or domain.ErrMachineNotFound.
	Get(ctx context.Context, name string) (*domain.Definition, error)

	// List returns the names of every machine in the library, sorted.
	List(ctx context.Context) ([]string, error)
}

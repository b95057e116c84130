// Package memory provides in-process implementations of the ports: a snapshot
// store for ephemeral sessions and a machine library over a fixed set of definitions.
package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/aretw0/turing/examples"
	"github.com/aretw0/turing/pkg/domain"
)

// Library implements ports.MachineLibrary over definitions held in memory.
type Library struct {
	defs map[string]domain.Definition
}

// NewLibrary creates a library from the given definitions. A later definition
// with the same name replaces an earlier one.
func NewLibrary(defs ...domain.Definition) (*Library, error) {
	l := &Library{defs: make(map[string]domain.Definition, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("machine definition missing name")
		}
		l.defs[d.Name] = d
	}
	return l, nil
}

// NewExamplesLibrary returns a library of the bundled example machines.
func NewExamplesLibrary() *Library {
	l, err := NewLibrary(examples.Definitions()...)
	if err != nil {
		panic(err)
	}
	return l
}

// Get returns a copy of the named definition.
func (l *Library) Get(_ context.Context, name string) (*domain.Definition, error) {
	d, ok := l.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}
	return &d, nil
}

// List returns every machine name, sorted.
func (l *Library) List(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(l.defs))
	for name := range l.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

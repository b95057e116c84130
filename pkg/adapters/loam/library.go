// Package loam adapts a Loam document repository into a machine library: every
// Markdown document is one machine, its frontmatter holding the defaults and its
// body the transition-table program.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/turing/pkg/domain"
)

// Library implements ports.MachineLibrary over a Loam repository.
type Library struct {
	Repo *loam.TypedRepository[MachineMetadata]
}

// New wraps an existing typed repository.
func New(repo *loam.TypedRepository[MachineMetadata]) *Library {
	return &Library{Repo: repo}
}

// Open initializes a read-only, strict Loam repository at path.
func Open(path string) (*Library, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid library path: %w", err)
	}
	repo, err := loam.Init(abs,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[MachineMetadata](repo)), nil
}

// Get returns the machine whose name (frontmatter name, or file name without
// extension) matches.
func (l *Library) Get(ctx context.Context, name string) (*domain.Definition, error) {
	defs, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	def, ok := defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, name)
	}
	return def, nil
}

// List returns every machine name, sorted.
func (l *Library) List(ctx context.Context) ([]string, error) {
	defs, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (l *Library) index(ctx context.Context) (map[string]*domain.Definition, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	defs := make(map[string]*domain.Definition, len(docs))
	origin := make(map[string]string, len(docs))
	for _, entry := range docs {
		// List carries frontmatter only; the program lives in the body.
		doc, err := l.Repo.Get(ctx, entry.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", entry.ID, err)
		}
		name := doc.Data.Name
		if name == "" {
			name = trimExtension(doc.ID)
		}
		if prev, ok := origin[name]; ok {
			return nil, fmt.Errorf("collision detected: machine %q is defined in both %q and %q", name, prev, doc.ID)
		}
		origin[name] = doc.ID

		tape, head, maxSteps, err := doc.Data.defaults()
		if err != nil {
			return nil, fmt.Errorf("machine %s: %w", name, err)
		}
		defs[name] = &domain.Definition{
			Name:        name,
			Description: doc.Data.Description,
			Program:     doc.Content,
			Tape:        tape,
			Head:        head,
			MaxSteps:    maxSteps,
		}
	}
	return defs, nil
}

func trimExtension(id string) string {
	return filepath.ToSlash(strings.TrimSuffix(id, filepath.Ext(id)))
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
)

// Source names where a program comes from. File wins over Example, Example over
// Fallback (the program path of the config file).
type Source struct {
	// File is a DSL file path, or "-" for standard input.
	File string
	// Example is a machine name looked up in the library.
	Example  string
	Fallback string
}

// Resolve loads the definition described by src. Machines read from a file get
// the file name (without extension) as their name and an empty tape.
func Resolve(ctx context.Context, lib ports.MachineLibrary, src Source) (*domain.Definition, error) {
	switch {
	case src.File != "":
		return readFile(src.File)
	case src.Example != "":
		if lib == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrMachineNotFound, src.Example)
		}
		return lib.Get(ctx, src.Example)
	case src.Fallback != "":
		return readFile(src.Fallback)
	}
	return nil, fmt.Errorf("no program given: pass a file, --example or set program in the config")
}

func readFile(path string) (*domain.Definition, error) {
	var (
		data []byte
		err  error
	)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if path == "-" {
		data, err = io.ReadAll(stdin)
		name = "stdin"
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read program: %w", err)
	}
	return &domain.Definition{Name: name, Program: string(data)}, nil
}

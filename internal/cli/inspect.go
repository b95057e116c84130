package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/dsl"
)

// Validate parses def and reports its size and any overridden rule.
func Validate(def *domain.Definition, strict bool, out io.Writer) error {
	var opts []dsl.Option
	if strict {
		opts = append(opts, dsl.WithStrict())
	}
	prog, err := dsl.Parse(def.Program, opts...)
	if err != nil {
		return err
	}

	winners := make(map[dsl.Config]dsl.Rule)
	for _, r := range prog.Effective() {
		winners[r.From] = r
	}
	for _, r := range prog.Overridden() {
		fmt.Fprintf(out, "warning: %s: rule for %s is overridden by line %d\n",
			r.Pos, r.From, winners[r.From].Pos.Line)
	}

	halting := prog.Halting()
	if len(halting) == 0 {
		halting = []string{"none"}
	}
	fmt.Fprintf(out, "Program is valid! ✅ %d rules, %d states, %d symbols (halting: %s)\n",
		len(prog.Effective()), len(prog.States()), len(prog.Symbols()), strings.Join(halting, ", "))
	return nil
}

// Format returns def's program in canonical layout.
func Format(def *domain.Definition) (string, error) {
	prog, err := dsl.Parse(def.Program)
	if err != nil {
		return "", err
	}
	return dsl.Format(prog), nil
}

// Graph renders def as a Mermaid state diagram. A non-nil snap highlights the
// state it stopped in.
func Graph(def *domain.Definition, snap *domain.Snapshot) (string, error) {
	prog, err := dsl.Parse(def.Program)
	if err != nil {
		return "", err
	}
	var overlay *graph.Overlay
	if snap != nil {
		overlay = &graph.Overlay{CurrentState: snap.State}
	}
	return graph.GenerateMermaid(prog, overlay), nil
}

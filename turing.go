package turing

import (
	"context"
	_ "embed"

	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/runner"
)

// Version is the release of this module.
//
//go:embed VERSION
var Version string

// Program is a compiled transition table. See dsl.Program.
type Program = dsl.Program

// Compile parses DSL source into a Program. Pass dsl.WithStrict() to reject
// duplicated configurations instead of keeping the last definition.
func Compile(src string, opts ...dsl.Option) (*Program, error) {
	return dsl.Parse(src, opts...)
}

// Tokenize splits a textual tape on whitespace.
func Tokenize(tape string) []string {
	return dsl.Tokenize(tape)
}

// Run places a fresh machine for prog on cells (head at head) and steps it until it
// halts, ctx is done or a runner option stops it.
func Run(ctx context.Context, prog *Program, cells []string, head int, opts ...runner.Option) (*runner.Result[string, string], error) {
	return runner.Run(ctx, prog.Machine(cells, head), opts...)
}

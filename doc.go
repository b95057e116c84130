/*
Package turing is an interpreter for symbolic Turing machines described in a small
text DSL.

A program declares the blank symbol, the initial state and a list of rules mapping
a configuration (state, symbol under the head) to a transition (next state, symbol
to write, head movement):

	EMPTY: _
	INITIAL_STATE: q0

	(q0, 1): (q0, 1, R)
	(q0, +): (q1, 1, R)

The machine halts as soon as no rule matches its configuration. The tape grows on
demand in both directions, filling new cells with the blank symbol.

# Usage

	prog, err := turing.Compile(src)
	if err != nil {
		log.Fatal(err)
	}
	res, err := turing.Run(ctx, prog, turing.Tokenize("1 + 1 1 ="), 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Tape.Render(res.State))

# Packages

  - pkg/tape and pkg/machine: the generic tape and automaton, usable with any
    comparable state and symbol types.
  - pkg/dsl: parser and formatter for the text format.
  - pkg/runner: step loop with budgets, cancellation, tracing and hooks.
  - pkg/session: resumable runs persisted through pkg/adapters (memory, file, redis).
  - pkg/adapters/http and pkg/adapters/mcp: network front ends used by cmd/turing.
*/
package turing

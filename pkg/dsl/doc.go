/*
Package dsl compiles the textual transition-table language into a Program.

A program declares the blank symbol, the initial state and a list of rules:

	EMPTY: #
	INITIAL_STATE: q0

	(q0, 1): (q1, 0, R)
	(q1, "quoted symbol"): (q0, 1, L)

Each rule maps a configuration (state, symbol under head) to a transition
(next state, symbol to write, head direction). Whitespace between tokens is
insignificant. A bare symbol is any run of characters other than whitespace,
parentheses, commas and double quotes; anything else must be quoted, with \"
\\ \n \r and \t escapes.

Parse requires the whole input to be consumed. Failures are reported as
*ParseError values carrying the error Kind, the line and column of the
offending input and a short excerpt of it. With the default policy a rule that
repeats an earlier configuration replaces it; WithStrict rejects it instead.
*/
package dsl

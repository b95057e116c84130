package dsl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
)

const unaryAdd = `EMPTY: #
INITIAL_STATE: q0

(q0, +): (q0, +, R)
(q0, 1): (q1, 0, R)
(q1, 1): (q1, 1, R)
(q1, +): (q1, +, R)
(q1, =): (q1, =, R)
(q1, #): (q2, 1, L)
(q2, 1): (q2, 1, L)
(q2, +): (q2, +, L)
(q2, =): (q2, =, L)
(q2, 0): (q0, 1, R)
`

func TestParse_SingleRule(t *testing.T) {
	p, err := Parse("EMPTY: #\nINITIAL_STATE: q0\n(q0, +): (q1, -, R)")
	require.NoError(t, err)

	assert.Equal(t, "#", p.Blank)
	assert.Equal(t, "q0", p.Initial)
	require.Len(t, p.Table, 1)

	to, ok := p.Table.Lookup(Config{State: "q0", Symbol: "+"})
	require.True(t, ok)
	assert.Equal(t, Transition{State: "q1", Symbol: "-", Move: domain.Right}, to)
	assert.Equal(t, Position{Line: 3, Column: 1, Offset: 27}, p.Rules[0].Pos)
}

func TestParse_UnaryAdd(t *testing.T) {
	p, err := Parse(unaryAdd)
	require.NoError(t, err)

	assert.Len(t, p.Table, 10)
	assert.Len(t, p.Rules, 10)
	assert.Equal(t, []string{"q0", "q1", "q2"}, p.States())
	assert.Equal(t, []string{"#", "+", "0", "1", "="}, p.Symbols())
	assert.Empty(t, p.Halting())

	m := p.Machine(Tokenize("1 + 1 1 ="), 0)
	var out machine.Outcome[string, string]
	for range 100 {
		out = m.Step()
		if _, done := out.(*machine.Stopped[string, string]); done {
			break
		}
	}
	stopped, ok := out.(*machine.Stopped[string, string])
	require.True(t, ok)
	assert.Equal(t, "q0", stopped.State)
	assert.Equal(t, []string{"1", "+", "1", "1", "=", "1", "1", "1"}, stopped.Tape.Cells())
	assert.Equal(t, 30, stopped.Steps)
}

func TestParse_Layout(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"compact", "EMPTY:#\nINITIAL_STATE:q0\n(q0,1):(q0,1,R)"},
		{"single line", "EMPTY: # INITIAL_STATE: q0 (q0, 1): (q0, 1, R)"},
		{"space before colon", "EMPTY: #\nINITIAL_STATE: q0\n( q0 , 1 ) : ( q0 , 1 , R )"},
		{"tabs and crlf", "EMPTY:\t#\r\nINITIAL_STATE:\tq0\r\n\t(q0, 1): (q0, 1, R)\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, "#", p.Blank)
			assert.Equal(t, "q0", p.Initial)
			to, ok := p.Table.Lookup(Config{State: "q0", Symbol: "1"})
			require.True(t, ok)
			assert.Equal(t, domain.Right, to.Move)
		})
	}
}

func TestParse_NoRules(t *testing.T) {
	p, err := Parse("EMPTY: 0\nINITIAL_STATE: start\n")
	require.NoError(t, err)
	assert.Empty(t, p.Table)
	assert.Equal(t, []string{"start"}, p.Halting())
}

func TestParse_Symbols(t *testing.T) {
	p, err := Parse(`EMPTY: " "
INITIAL_STATE: s
(s, " "): (s, "a\"b", R)
(s, ""): (s, "\\\n\t\r", L)
(s, é): (s, ::, L)
(s, a:b): (s, x, R)`)
	require.NoError(t, err)

	assert.Equal(t, " ", p.Blank)
	cases := map[string]Transition{
		" ":   {State: "s", Symbol: `a"b`, Move: domain.Right},
		"":    {State: "s", Symbol: "\\\n\t\r", Move: domain.Left},
		"é":   {State: "s", Symbol: "::", Move: domain.Left},
		"a:b": {State: "s", Symbol: "x", Move: domain.Right},
	}
	for sym, want := range cases {
		got, ok := p.Table.Lookup(Config{State: "s", Symbol: sym})
		require.True(t, ok, "symbol %q", sym)
		assert.Equal(t, want, got, "symbol %q", sym)
	}
}

func TestParse_Duplicates(t *testing.T) {
	src := "EMPTY: #\nINITIAL_STATE: q0\n(q0, 1): (q1, 1, R)\n(q0, 1): (q2, 0, L)"

	t.Run("last wins", func(t *testing.T) {
		p, err := Parse(src)
		require.NoError(t, err)
		require.Len(t, p.Table, 1)
		to, _ := p.Table.Lookup(Config{State: "q0", Symbol: "1"})
		assert.Equal(t, Transition{State: "q2", Symbol: "0", Move: domain.Left}, to)

		assert.Len(t, p.Rules, 2)
		require.Len(t, p.Overridden(), 1)
		assert.Equal(t, "q1", p.Overridden()[0].To.State)
		require.Len(t, p.Effective(), 1)
		assert.Equal(t, "q2", p.Effective()[0].To.State)
	})

	t.Run("strict", func(t *testing.T) {
		_, err := Parse(src, WithStrict())
		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, KindDuplicateRule, perr.Kind)
		assert.Equal(t, 4, perr.Pos.Line)
		assert.Equal(t, 1, perr.Pos.Column)
		assert.ErrorIs(t, err, ErrDuplicateRule)
		assert.Contains(t, err.Error(), "line 3, col 1")
	})
}

func TestParse_Errors(t *testing.T) {
	const head = "EMPTY: #\nINITIAL_STATE: q0\n"
	tests := []struct {
		name     string
		src      string
		kind     Kind
		sentinel error
		line     int
		col      int
	}{
		{"empty input", "", KindHeader, ErrHeader, 1, 1},
		{"missing EMPTY", "INITIAL_STATE: q0", KindHeader, ErrHeader, 1, 1},
		{"missing blank symbol", "EMPTY:", KindHeader, ErrHeader, 1, 7},
		{"missing INITIAL_STATE", "EMPTY: #\n(q0, 1): (q0, 1, R)", KindHeader, ErrHeader, 2, 1},
		{"bad initial state", "EMPTY: #\nINITIAL_STATE: 9", KindHeader, ErrHeader, 2, 16},
		{"unterminated blank", `EMPTY: "#`, KindString, ErrString, 1, 8},
		{"unknown escape", `EMPTY: "\q"`, KindString, ErrString, 1, 9},
		{"bad direction", head + "(q0, 1): (q1, 1, X)", KindDirection, ErrDirection, 3, 18},
		{"lowercase direction", head + "(q0, 1): (q1, 1, r)", KindDirection, ErrDirection, 3, 18},
		{"missing direction", head + "(q0, 1): (q1, 1, )", KindDirection, ErrDirection, 3, 18},
		{"missing colon", head + "(q0, 1) (q1, 1, R)", KindSyntax, ErrSyntax, 3, 9},
		{"missing comma", head + "(q0 1): (q1, 1, R)", KindSyntax, ErrSyntax, 3, 5},
		{"unclosed configuration", head + "(q0, 1: (q1, 1, R)", KindSyntax, ErrSyntax, 3, 9},
		{"bad state", head + "(0q, 1): (q1, 1, R)", KindSyntax, ErrSyntax, 3, 2},
		{"truncated transition", head + "(q0, 1): (q1, 1", KindSyntax, ErrSyntax, 3, 16},
		{"unterminated symbol in rule", head + `(q0, "1): (q1, 1, R)`, KindString, ErrString, 3, 6},
		{"trailing garbage", head + "(q0, +): (q1, -, R)\ngarbage", KindTrailingInput, ErrTrailingInput, 4, 1},
		{"empty read symbol", head + "(q0,): (q1, 1, R)", KindSyntax, ErrSyntax, 3, 5},
		{"empty write symbol", head + "(q0, 1): (q1, , R)", KindSyntax, ErrSyntax, 3, 15},
		{"invalid utf-8 symbol", head + "(q0, \xff): (q0, 1, R)", KindSyntax, ErrSyntax, 3, 6},
		{"invalid utf-8 in quotes", "EMPTY: \"a\xfe\"", KindSyntax, ErrSyntax, 1, 10},
		{"trailing paren", head + "(q0, +): (q1, -, R))", KindTrailingInput, ErrTrailingInput, 3, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.src)
			require.Error(t, err)
			assert.Nil(t, p)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.kind, perr.Kind)
			assert.Equal(t, tt.line, perr.Pos.Line, "line")
			assert.Equal(t, tt.col, perr.Pos.Column, "column")
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestParse_EmptySymbolNeedsQuotes(t *testing.T) {
	_, err := Parse("EMPTY: #\nINITIAL_STATE: q0\n(q0,):(q0, 1, R)")
	assert.ErrorIs(t, err, ErrSyntax)

	p, err := Parse("EMPTY: #\nINITIAL_STATE: q0\n(q0,\"\"):(q0, 1, R)")
	require.NoError(t, err)
	_, ok := p.Table.Lookup(Config{State: "q0", Symbol: ""})
	assert.True(t, ok)
}

func TestParseError_Message(t *testing.T) {
	_, err := Parse("EMPTY: #\nINITIAL_STATE: q0\n(q0, +): (q1, -, R)\ngarbage here")
	require.Error(t, err)
	assert.Equal(t, `line 4, col 1: unexpected input after last rule near "garbage here"`, err.Error())

	_, err = Parse("EMPTY: #\nINITIAL_STATE: q0\n(q0, 1): (q1, 1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at end of input")
}

func TestFormat_RoundTrip(t *testing.T) {
	sources := []string{
		unaryAdd,
		"EMPTY:\" \"\nINITIAL_STATE:s\n(s,\"\"):(s,\"a\\\"b\",L)(s,x):(t,\"(\",R)",
		"EMPTY: #\nINITIAL_STATE: q0\n(q0, 1): (q1, 1, R)\n(q0, 1): (q2, 0, L)",
	}
	for _, src := range sources {
		p, err := Parse(src)
		require.NoError(t, err)

		formatted := Format(p)
		again, err := Parse(formatted)
		require.NoError(t, err, formatted)

		assert.Equal(t, p.Blank, again.Blank)
		assert.Equal(t, p.Initial, again.Initial)
		assert.Equal(t, p.Table, again.Table)
		assert.Equal(t, formatted, Format(again))
	}
}

func TestFormat_RoundTripMultibyte(t *testing.T) {
	p, err := Parse("EMPTY: ␣\nINITIAL_STATE: q0\n(q0, é): (q0, \"\uFFFD\", R)")
	require.NoError(t, err)
	again, err := Parse(Format(p))
	require.NoError(t, err)
	assert.Equal(t, p.Table, again.Table)
	assert.Equal(t, "␣", again.Blank)
}

func TestFormat_Canonical(t *testing.T) {
	p, err := Parse("EMPTY:#\nINITIAL_STATE:q0\n(q0,+):(q1,-,R)")
	require.NoError(t, err)
	assert.Equal(t, "EMPTY: #\nINITIAL_STATE: q0\n\n(q0, +): (q1, -, R)\n", Format(p))
}

func TestQuoteSymbol(t *testing.T) {
	assert.Equal(t, "1", QuoteSymbol("1"))
	assert.Equal(t, "a:b", QuoteSymbol("a:b"))
	assert.Equal(t, `""`, QuoteSymbol(""))
	assert.Equal(t, `" "`, QuoteSymbol(" "))
	assert.Equal(t, `"("`, QuoteSymbol("("))
	assert.Equal(t, `"a\"b"`, QuoteSymbol(`a"b`))
	assert.Equal(t, `"\n"`, QuoteSymbol("\n"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"1", "+", "1", "1", "="}, Tokenize(" 1 +  1\t1\n= "))
	assert.Empty(t, Tokenize("   "))
}

package dsl

import (
	"strings"
	"unicode/utf8"
)

// Format renders p in canonical form: headers first, then one effective rule per line
// in source order. Overridden duplicates are dropped. The output parses back to an
// equivalent program.
func Format(p *Program) string {
	var sb strings.Builder
	sb.WriteString(emptyKeyword + " " + QuoteSymbol(p.Blank) + "\n")
	sb.WriteString(initialKeyword + " " + p.Initial + "\n")

	rules := p.Effective()
	if len(rules) > 0 {
		sb.WriteByte('\n')
	}
	for _, r := range rules {
		sb.WriteString(FormatRule(r.From, r.To))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRule renders a single rule as "(state, symbol): (state, symbol, D)".
func FormatRule(from Config, to Transition) string {
	return "(" + from.State + ", " + QuoteSymbol(from.Symbol) + "): (" +
		to.State + ", " + QuoteSymbol(to.Symbol) + ", " + to.Move.String() + ")"
}

// QuoteSymbol returns s unchanged when it can be written bare, and as a quoted
// string otherwise.
func QuoteSymbol(s string) string {
	if s != "" && utf8.ValidString(s) && strings.IndexFunc(s, func(r rune) bool { return !isBareSymbol(r) }) < 0 {
		return s
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

package dsl

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
)

const (
	emptyKeyword   = "EMPTY:"
	initialKeyword = "INITIAL_STATE:"
)

// Option configures Parse.
type Option func(*parser)

// WithStrict rejects rules that repeat a configuration instead of letting the later rule win.
func WithStrict() Option {
	return func(p *parser) {
		p.strict = true
	}
}

// Parse compiles src into a Program. The entire input must be consumed.
// It returns a *ParseError on failure.
func Parse(src string, opts ...Option) (*Program, error) {
	p := &parser{
		sc:    newScanner(src),
		seen:  make(map[Config]Position),
		table: make(Table),
	}
	for _, opt := range opts {
		opt(p)
	}
	if i := invalidUTF8(src); i >= 0 {
		for p.sc.pos < i {
			p.sc.advance()
		}
		return nil, p.errorf(KindSyntax, p.sc.position(), "invalid UTF-8 byte 0x%02x", src[i])
	}
	return p.parseProgram()
}

// invalidUTF8 returns the offset of the first byte of src that is not valid UTF-8, or -1.
func invalidUTF8(src string) int {
	for i, r := range src {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(src[i:]); size == 1 {
				return i
			}
		}
	}
	return -1
}

type parser struct {
	sc     *scanner
	strict bool
	seen   map[Config]Position
	table  Table
	rules  []Rule
}

func (p *parser) errorf(kind Kind, pos Position, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Near:    excerpt(p.sc.src[pos.Offset:]),
	}
}

func (p *parser) parseProgram() (*Program, error) {
	p.sc.skipSpace()
	blank, err := p.parseHeader(emptyKeyword, func() (string, error) {
		return p.parseSymbol(KindHeader, "blank symbol after "+emptyKeyword)
	})
	if err != nil {
		return nil, err
	}

	p.sc.skipSpace()
	initial, err := p.parseHeader(initialKeyword, func() (string, error) {
		return p.parseIdentifier(KindHeader, "initial state identifier after "+initialKeyword)
	})
	if err != nil {
		return nil, err
	}

	for {
		p.sc.skipSpace()
		if p.sc.atEnd() {
			break
		}
		if p.sc.peek() != '(' {
			return nil, p.errorf(KindTrailingInput, p.sc.position(), "unexpected input after last rule")
		}
		if err := p.parseRule(); err != nil {
			return nil, err
		}
	}

	return &Program{
		Blank:   blank,
		Initial: initial,
		Table:   p.table,
		Rules:   p.rules,
	}, nil
}

func (p *parser) parseHeader(keyword string, value func() (string, error)) (string, error) {
	if !p.sc.accept(keyword) {
		return "", p.errorf(KindHeader, p.sc.position(), "expected %q declaration", keyword)
	}
	p.sc.skipSpace()
	return value()
}

func (p *parser) parseRule() error {
	pos := p.sc.position()
	from, err := p.parseConfiguration()
	if err != nil {
		return err
	}

	p.sc.skipSpace()
	if err := p.expect(':', "':' between configuration and transition"); err != nil {
		return err
	}
	p.sc.skipSpace()

	to, err := p.parseTransition()
	if err != nil {
		return err
	}

	if prev, dup := p.seen[from]; dup && p.strict {
		return p.errorf(KindDuplicateRule, pos, "configuration %s already defined at %s", from, prev)
	}
	p.seen[from] = pos
	p.table.Set(from, to)
	p.rules = append(p.rules, Rule{From: from, To: to, Pos: pos})
	return nil
}

// configuration := "(" identifier "," symbol ")"
func (p *parser) parseConfiguration() (Config, error) {
	var c Config
	if err := p.expect('(', "'(' opening a configuration"); err != nil {
		return c, err
	}
	state, err := p.field(func() (string, error) { return p.parseIdentifier(KindSyntax, "state identifier") })
	if err != nil {
		return c, err
	}
	if err := p.expect(',', "',' after state"); err != nil {
		return c, err
	}
	symbol, err := p.field(func() (string, error) { return p.parseSymbol(KindSyntax, "symbol") })
	if err != nil {
		return c, err
	}
	if err := p.expect(')', "')' closing the configuration"); err != nil {
		return c, err
	}
	return Config{State: state, Symbol: symbol}, nil
}

// transition := "(" identifier "," symbol "," direction ")"
func (p *parser) parseTransition() (Transition, error) {
	var t Transition
	if err := p.expect('(', "'(' opening a transition"); err != nil {
		return t, err
	}
	state, err := p.field(func() (string, error) { return p.parseIdentifier(KindSyntax, "next state identifier") })
	if err != nil {
		return t, err
	}
	if err := p.expect(',', "',' after next state"); err != nil {
		return t, err
	}
	symbol, err := p.field(func() (string, error) { return p.parseSymbol(KindSyntax, "symbol to write") })
	if err != nil {
		return t, err
	}
	if err := p.expect(',', "',' after symbol to write"); err != nil {
		return t, err
	}
	p.sc.skipSpace()
	move, err := p.parseDirection()
	if err != nil {
		return t, err
	}
	p.sc.skipSpace()
	if err := p.expect(')', "')' closing the transition"); err != nil {
		return t, err
	}
	return Transition{State: state, Symbol: symbol, Move: move}, nil
}

// field parses one tuple element surrounded by optional whitespace.
func (p *parser) field(parse func() (string, error)) (string, error) {
	p.sc.skipSpace()
	v, err := parse()
	if err != nil {
		return "", err
	}
	p.sc.skipSpace()
	return v, nil
}

func (p *parser) expect(r rune, what string) error {
	if p.sc.atEnd() || p.sc.peek() != r {
		return p.errorf(KindSyntax, p.sc.position(), "expected %s", what)
	}
	p.sc.advance()
	return nil
}

// identifier := (alpha | "_") (alphanumeric | "_")*
func (p *parser) parseIdentifier(kind Kind, what string) (string, error) {
	start := p.sc.position()
	if p.sc.atEnd() || !isIdentStart(p.sc.peek()) {
		return "", p.errorf(kind, start, "expected %s", what)
	}
	for !p.sc.atEnd() && isIdentPart(p.sc.peek()) {
		p.sc.advance()
	}
	return p.sc.src[start.Offset:p.sc.pos], nil
}

// symbol := quoted_string | bare run
func (p *parser) parseSymbol(kind Kind, what string) (string, error) {
	if !p.sc.atEnd() && p.sc.peek() == '"' {
		return p.parseQuoted()
	}
	start := p.sc.position()
	for !p.sc.atEnd() && isBareSymbol(p.sc.peek()) {
		p.sc.advance()
	}
	if p.sc.pos == start.Offset {
		return "", p.errorf(kind, start, "expected %s", what)
	}
	return p.sc.src[start.Offset:p.sc.pos], nil
}

func (p *parser) parseQuoted() (string, error) {
	start := p.sc.position()
	p.sc.advance() // opening quote

	var sb strings.Builder
	for {
		if p.sc.atEnd() {
			return "", p.errorf(KindString, start, "unterminated quoted symbol")
		}
		escPos := p.sc.position()
		r := p.sc.advance()
		switch r {
		case '"':
			return sb.String(), nil
		case '\\':
			if p.sc.atEnd() {
				return "", p.errorf(KindString, start, "unterminated quoted symbol")
			}
			esc := p.sc.advance()
			switch esc {
			case '"', '\\':
				sb.WriteRune(esc)
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				return "", p.errorf(KindString, escPos, "unknown escape sequence \\%c", esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// direction := "R" | "L"
func (p *parser) parseDirection() (domain.Direction, error) {
	start := p.sc.position()
	for !p.sc.atEnd() && isBareSymbol(p.sc.peek()) {
		p.sc.advance()
	}
	word := p.sc.src[start.Offset:p.sc.pos]
	if word == "" {
		return 0, p.errorf(KindDirection, start, "expected direction R or L")
	}
	dir, err := domain.ParseDirection(word)
	if err != nil {
		return 0, p.errorf(KindDirection, start, "unknown direction %q (expected R or L)", word)
	}
	return dir, nil
}

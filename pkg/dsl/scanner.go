package dsl

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// nearLen bounds the excerpt attached to errors.
const nearLen = 20

// scanner is a cursor over the source that tracks line and column.
type scanner struct {
	src  string
	pos  int // byte offset
	line int
	col  int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1, col: 1}
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() rune {
	if s.atEnd() {
		return utf8.RuneError
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return r
}

func (s *scanner) advance() rune {
	r, size := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func (s *scanner) position() Position {
	return Position{Line: s.line, Column: s.col, Offset: s.pos}
}

func (s *scanner) skipSpace() {
	for !s.atEnd() && unicode.IsSpace(s.peek()) {
		s.advance()
	}
}

// accept consumes lit if the remaining input starts with it.
func (s *scanner) accept(lit string) bool {
	if !strings.HasPrefix(s.src[s.pos:], lit) {
		return false
	}
	for range lit {
		s.advance()
	}
	return true
}

// excerpt returns a short piece of rest, cut at the first newline.
func excerpt(rest string) string {
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	rest = strings.TrimRight(rest, " \t\r")
	if utf8.RuneCountInString(rest) > nearLen {
		rest = string([]rune(rest)[:nearLen]) + "..."
	}
	return rest
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// isBareSymbol reports whether r may appear in an unquoted symbol.
func isBareSymbol(r rune) bool {
	switch r {
	case '(', ')', ',', '"':
		return false
	}
	return !unicode.IsSpace(r)
}

package dsl

import (
	"errors"
	"fmt"
)

// Kind classifies a parse failure.
type Kind int

const (
	// KindHeader is a malformed EMPTY: or INITIAL_STATE: declaration.
	KindHeader Kind = iota + 1
	// KindSyntax is a malformed rule: unbalanced parentheses, missing comma or colon, bad identifier.
	KindSyntax
	// KindDirection is a head direction other than R or L.
	KindDirection
	// KindString is an unterminated quoted symbol or an invalid escape.
	KindString
	// KindTrailingInput is input left over after the last complete rule.
	KindTrailingInput
	// KindDuplicateRule is a repeated configuration under the strict policy.
	KindDuplicateRule
)

// Sentinels matched by errors.Is against a *ParseError of the same kind.
var (
	ErrHeader        = errors.New("malformed header")
	ErrSyntax        = errors.New("syntax error")
	ErrDirection     = errors.New("invalid direction")
	ErrString        = errors.New("invalid quoted symbol")
	ErrTrailingInput = errors.New("unparsed trailing input")
	ErrDuplicateRule = errors.New("duplicate rule")
)

var kindSentinels = map[Kind]error{
	KindHeader:        ErrHeader,
	KindSyntax:        ErrSyntax,
	KindDirection:     ErrDirection,
	KindString:        ErrString,
	KindTrailingInput: ErrTrailingInput,
	KindDuplicateRule: ErrDuplicateRule,
}

func (k Kind) String() string {
	if err, ok := kindSentinels[k]; ok {
		return err.Error()
	}
	return "unknown"
}

// Position is a location in the source. Line and Column are 1-based; Column counts runes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, col %d", p.Line, p.Column)
}

// ParseError is the error type returned by Parse.
type ParseError struct {
	Kind    Kind     `json:"kind"`
	Pos     Position `json:"pos"`
	Message string   `json:"message"`
	// Near is an excerpt of the source starting at Pos (empty at end of input).
	Near string `json:"near"`
}

func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("%s: %s at end of input", e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s near %q", e.Pos, e.Message, e.Near)
}

// Unwrap exposes the sentinel of the error kind.
func (e *ParseError) Unwrap() error {
	return kindSentinels[e.Kind]
}

var kindNames = map[Kind]string{
	KindHeader:        "header",
	KindSyntax:        "syntax",
	KindDirection:     "direction",
	KindString:        "string",
	KindTrailingInput: "trailing_input",
	KindDuplicateRule: "duplicate_rule",
}

// MarshalText encodes the kind as a short name, used by the HTTP and MCP adapters.
func (k Kind) MarshalText() ([]byte, error) {
	if name, ok := kindNames[k]; ok {
		return []byte(name), nil
	}
	return nil, fmt.Errorf("unknown parse error kind %d", int(k))
}

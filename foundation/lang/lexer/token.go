// File: token.go
// Title: minilang Token Types
// Description: Defines the closed set of token kinds and the Token value
//              produced by the lexer, including source positions.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial token definitions

package lexer

import (
	"fmt"
)

// Kind represents the lexical category of a token
type Kind int

const (
	KindVariable    Kind = iota // apple, _tmp, x1
	KindInteger                 // 42
	KindReal                    // 3.14
	KindType                    // integer, real
	KindAssignment              // :=
	KindOperator                // + - * / ^
	KindEnd                     // ;
	KindDeclaration             // :
	KindOpenParen               // (
	KindCloseParen              // )
	KindSeparator               // ,
)

var kindNames = [...]string{
	KindVariable:    "VARIABLE",
	KindInteger:     "INTEGER",
	KindReal:        "REAL",
	KindType:        "TYPE",
	KindAssignment:  "ASSIGNMENT",
	KindOperator:    "OPERATOR",
	KindEnd:         "END",
	KindDeclaration: "DECLARATION",
	KindOpenParen:   "OPEN_PAREN",
	KindCloseParen:  "CLOSE_PAREN",
	KindSeparator:   "SEPARATOR",
}

// Kinds returns every token kind in declaration order
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

// String returns the upper-case name of the kind
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// MarshalText renders the kind by name so JSON and YAML output stay readable
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseKind resolves a kind name as produced by String
func ParseKind(name string) (Kind, error) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown token kind: %s", name)
}

// UnmarshalText parses a kind name
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Token is a classified lexeme with its position in the source
type Token struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Lexeme string `json:"lexeme" yaml:"lexeme"`
	Offset int    `json:"offset" yaml:"offset"` // byte offset
	Line   int    `json:"line" yaml:"line"`     // 1-based
	Column int    `json:"column" yaml:"column"` // 1-based, in runes
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Lexeme)
}

// Is reports whether the token has the given kind and lexeme
func (t Token) Is(kind Kind, lexeme string) bool {
	return t.Kind == kind && t.Lexeme == lexeme
}

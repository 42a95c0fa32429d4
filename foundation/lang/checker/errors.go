// File: errors.go
// Title: Syntax Errors
// Description: Structured error raised when the token stream violates the
//              grammar, including the end-of-input case.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package checker

import (
	"fmt"

	mllexer "github.com/msto63/minilang/foundation/lang/lexer"
)

// EndOfInput is the actual-side description used when the cursor is exhausted
const EndOfInput = "end-of-input"

// Expectations used in syntax errors
const (
	expectLead      = "VARIABLE"
	expectStatement = "SEPARATOR | DECLARATION | ASSIGNMENT"
	expectSeparator = "SEPARATOR"
	expectBase      = "VARIABLE | REAL | INTEGER"
)

// SyntaxError reports the first grammar violation in a token stream
type SyntaxError struct {
	Expected   string        // description of what the grammar required
	Token      mllexer.Token // offending token, zero when AtEnd
	AtEnd      bool          // cursor was exhausted
	Unexpected bool          // raised by statement dispatch rather than an expect
}

// Actual returns the offending kind name or end-of-input
func (e *SyntaxError) Actual() string {
	if e.AtEnd {
		return EndOfInput
	}
	return e.Token.Kind.String()
}

// Message returns the expectation-vs-actual text without position
func (e *SyntaxError) Message() string {
	msg := fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual())
	if e.Unexpected {
		msg = "unexpected token: " + msg
	}
	return msg
}

func (e *SyntaxError) Error() string {
	if e.AtEnd {
		return "syntax error: " + e.Message()
	}
	return fmt.Sprintf("syntax error at line %d, column %d: %s (near %q)",
		e.Token.Line, e.Token.Column, e.Message(), e.Token.Lexeme)
}

func mismatch(expected string, tok mllexer.Token) *SyntaxError {
	return &SyntaxError{Expected: expected, Token: tok}
}

func unexpected(expected string, tok mllexer.Token) *SyntaxError {
	return &SyntaxError{Expected: expected, Token: tok, Unexpected: true}
}

func endOfInput(expected string) *SyntaxError {
	return &SyntaxError{Expected: expected, AtEnd: true}
}

// File: lexer.go
// Title: minilang Lexical Analyzer
// Description: Explicit maximal-munch scanner over character classes with
//              priority-ordered classification. Tracks byte offset, line and
//              column for every token and for lexical errors.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial lexer implementation

package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Type names recognised as TYPE tokens
const (
	TypeInteger = "integer"
	TypeReal    = "real"
)

// LexicalError reports a lexeme that matches no token kind
type LexicalError struct {
	Lexeme string
	Offset int
	Line   int
	Column int
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at line %d, column %d: invalid token %q",
		e.Line, e.Column, e.Lexeme)
}

// Lexer scans one source string. It is not safe for concurrent use.
type Lexer struct {
	input  string
	offset int // byte offset of the next unread character
	line   int
	column int
	err    error // sticky once set
}

// NewLexer creates a lexer positioned at the start of source
func NewLexer(source string) *Lexer {
	return &Lexer{
		input:  source,
		line:   1,
		column: 1,
	}
}

// Tokenize scans source into its complete token sequence
func Tokenize(source string) ([]Token, error) {
	return NewLexer(source).Tokenize()
}

// Tokenize drains the lexer. On error no partial sequence is returned.
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0, len(l.input)/2)
	for {
		tok, ok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// Next returns the next token. ok is false once the input is exhausted.
// After a lexical error every further call returns the same error.
func (l *Lexer) Next() (tok Token, ok bool, err error) {
	if l.err != nil {
		return Token{}, false, l.err
	}

	l.skipWhitespace()
	if l.offset >= len(l.input) {
		return Token{}, false, nil
	}

	start, line, column := l.offset, l.line, l.column
	lexeme := l.extract()

	kind, matched := Classify(lexeme)
	if !matched {
		l.err = &LexicalError{Lexeme: lexeme, Offset: start, Line: line, Column: column}
		return Token{}, false, l.err
	}

	return Token{Kind: kind, Lexeme: lexeme, Offset: start, Line: line, Column: column}, true, nil
}

// extract consumes one lexeme starting at the current offset
func (l *Lexer) extract() string {
	start := l.offset
	ch := l.input[l.offset]

	switch {
	case isIdentStart(ch):
		l.advance()
		for l.offset < len(l.input) && isIdentPart(l.input[l.offset]) {
			l.advance()
		}
	case isDigit(ch):
		l.readDigits()
		if l.peekByte(0) == '.' && isDigit(l.peekByte(1)) {
			l.advance()
			l.readDigits()
		}
	case ch == ':' && l.peekByte(1) == '=':
		l.advance()
		l.advance()
	default:
		// single-character lexeme, valid or not
		l.advance()
	}

	return l.input[start:l.offset]
}

func (l *Lexer) readDigits() {
	for l.offset < len(l.input) && isDigit(l.input[l.offset]) {
		l.advance()
	}
}

// advance consumes one rune and updates line and column
func (l *Lexer) advance() {
	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *Lexer) skipWhitespace() {
	for l.offset < len(l.input) {
		r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
		if !unicode.IsSpace(r) {
			return
		}
		l.advance()
	}
}

// peekByte returns the byte n positions past the current offset, or 0
func (l *Lexer) peekByte(n int) byte {
	if l.offset+n < len(l.input) {
		return l.input[l.offset+n]
	}
	return 0
}

// Classify assigns a kind to a lexeme using the fixed priority order.
// It reports false when the lexeme matches no kind.
func Classify(lexeme string) (Kind, bool) {
	switch {
	case lexeme == TypeInteger || lexeme == TypeReal:
		return KindType, true
	case isIdentifier(lexeme):
		return KindVariable, true
	case isInteger(lexeme):
		return KindInteger, true
	case isReal(lexeme):
		return KindReal, true
	case lexeme == ":=":
		return KindAssignment, true
	case len(lexeme) == 1 && isOperator(lexeme[0]):
		return KindOperator, true
	case lexeme == ";":
		return KindEnd, true
	case lexeme == ":":
		return KindDeclaration, true
	case lexeme == "(":
		return KindOpenParen, true
	case lexeme == ")":
		return KindCloseParen, true
	case lexeme == ",":
		return KindSeparator, true
	}
	return 0, false
}

func isIdentifier(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isReal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return isInteger(s[:i]) && isInteger(s[i+1:])
		}
	}
	return false
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isOperator(ch byte) bool {
	switch ch {
	case '+', '-', '*', '/', '^':
		return true
	}
	return false
}

// File: checker.go
// Title: minilang Recursive Descent Checker
// Description: Validates declaration and assignment statements and the
//              four-tier expression grammar, filling the symbol table.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial checker implementation

package checker

import (
	mllexer "github.com/msto63/minilang/foundation/lang/lexer"
)

// Checker validates one token sequence
type Checker struct {
	cursor  *Cursor
	symbols *SymbolTable
}

// New creates a checker over tokens. The slice is never modified.
func New(tokens []mllexer.Token) *Checker {
	return &Checker{
		cursor:  NewCursor(tokens),
		symbols: NewSymbolTable(),
	}
}

// Check validates a token sequence with a fresh checker
func Check(tokens []mllexer.Token) (*SymbolTable, error) {
	return New(tokens).Check()
}

// Check consumes statements until the cursor is exhausted. It returns the
// symbol table on success and the first *SyntaxError otherwise.
func (c *Checker) Check() (*SymbolTable, error) {
	for !c.cursor.Exhausted() {
		if err := c.parseStatement(); err != nil {
			return nil, err
		}
	}
	return c.symbols, nil
}

// Symbols exposes the table as filled so far, including after a failure
func (c *Checker) Symbols() *SymbolTable {
	return c.symbols
}

// Position returns the cursor index
func (c *Checker) Position() int {
	return c.cursor.Position()
}

func (c *Checker) parseStatement() error {
	lead, _ := c.cursor.Next()
	if lead.Kind != mllexer.KindVariable {
		return unexpected(expectLead, lead)
	}

	next, ok := c.cursor.Peek()
	if !ok {
		return endOfInput(expectStatement)
	}

	switch next.Kind {
	case mllexer.KindSeparator, mllexer.KindDeclaration:
		return c.parseDeclaration(lead)
	case mllexer.KindAssignment:
		c.cursor.Next()
		return c.parseAssignment()
	default:
		return unexpected(expectStatement, next)
	}
}

// parseDeclaration handles `a, b, c : TYPE ;` after the lead name
func (c *Checker) parseDeclaration(lead mllexer.Token) error {
	names := []string{lead.Lexeme}

collect:
	for {
		tok, ok := c.cursor.Next()
		if !ok {
			return endOfInput(expectSeparator)
		}
		switch tok.Kind {
		case mllexer.KindVariable:
			names = append(names, tok.Lexeme)
		case mllexer.KindSeparator:
		case mllexer.KindDeclaration:
			break collect
		default:
			return mismatch(expectSeparator, tok)
		}
	}

	typeTok, err := c.expect(mllexer.KindType)
	if err != nil {
		return err
	}
	for _, name := range names {
		c.symbols.Set(name, typeTok.Lexeme)
	}

	_, err = c.expect(mllexer.KindEnd)
	return err
}

func (c *Checker) parseAssignment() error {
	if err := c.parseAddition(); err != nil {
		return err
	}
	_, err := c.expect(mllexer.KindEnd)
	return err
}

func (c *Checker) parseAddition() error {
	if err := c.parseMultiplication(); err != nil {
		return err
	}
	for c.peekOperator("+", "-") {
		c.cursor.Next()
		if err := c.parseMultiplication(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) parseMultiplication() error {
	if err := c.parseExponent(); err != nil {
		return err
	}
	for c.peekOperator("*", "/") {
		c.cursor.Next()
		if err := c.parseExponent(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) parseExponent() error {
	if err := c.parseBase(); err != nil {
		return err
	}
	for c.peekOperator("^") {
		c.cursor.Next()
		if err := c.parseBase(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) parseBase() error {
	tok, ok := c.cursor.Next()
	if !ok {
		return endOfInput(expectBase)
	}

	switch tok.Kind {
	case mllexer.KindOpenParen:
		if err := c.parseAddition(); err != nil {
			return err
		}
		_, err := c.expect(mllexer.KindCloseParen)
		return err
	case mllexer.KindInteger, mllexer.KindReal, mllexer.KindVariable:
		return nil
	default:
		return mismatch(expectBase, tok)
	}
}

// expect consumes one token of the given kind
func (c *Checker) expect(kind mllexer.Kind) (mllexer.Token, error) {
	tok, ok := c.cursor.Next()
	if !ok {
		return tok, endOfInput(kind.String())
	}
	if tok.Kind != kind {
		return tok, mismatch(kind.String(), tok)
	}
	return tok, nil
}

// peekOperator reports whether the next token is one of the given operators
func (c *Checker) peekOperator(ops ...string) bool {
	tok, ok := c.cursor.Peek()
	if !ok || tok.Kind != mllexer.KindOperator {
		return false
	}
	for _, op := range ops {
		if tok.Lexeme == op {
			return true
		}
	}
	return false
}

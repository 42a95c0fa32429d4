// File: cursor.go
// Title: Token Cursor
// Description: Forward-only read position over an immutable token slice.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial implementation

package checker

import (
	mllexer "github.com/msto63/minilang/foundation/lang/lexer"
)

// Cursor walks a token slice left to right. The position never decreases
// and never moves past the end of the slice.
type Cursor struct {
	tokens []mllexer.Token
	pos    int
}

// NewCursor creates a cursor at the first token
func NewCursor(tokens []mllexer.Token) *Cursor {
	return &Cursor{tokens: tokens}
}

// Next returns the current token and advances. ok is false when exhausted.
func (c *Cursor) Next() (mllexer.Token, bool) {
	tok, ok := c.Peek()
	if ok {
		c.pos++
	}
	return tok, ok
}

// Peek returns the current token without advancing
func (c *Cursor) Peek() (mllexer.Token, bool) {
	if c.pos >= len(c.tokens) {
		return mllexer.Token{}, false
	}
	return c.tokens[c.pos], true
}

// Exhausted reports whether every token has been consumed
func (c *Cursor) Exhausted() bool {
	return c.pos >= len(c.tokens)
}

// Position returns the index of the next token to be read
func (c *Cursor) Position() int {
	return c.pos
}

// Len returns the length of the underlying sequence
func (c *Cursor) Len() int {
	return len(c.tokens)
}

// File: cursor_test.go
// Title: Token Cursor Tests
// Description: Tests for forward-only cursor movement and exhaustion.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15

package checker

import (
	"testing"

	mllexer "github.com/msto63/minilang/foundation/lang/lexer"
)

func TestCursor(t *testing.T) {
	tokens := []mllexer.Token{
		{Kind: mllexer.KindVariable, Lexeme: "x"},
		{Kind: mllexer.KindEnd, Lexeme: ";"},
	}
	c := NewCursor(tokens)

	if c.Exhausted() || c.Position() != 0 || c.Len() != 2 {
		t.Fatalf("fresh cursor: exhausted=%v position=%d len=%d", c.Exhausted(), c.Position(), c.Len())
	}

	peeked, ok := c.Peek()
	if !ok || peeked.Lexeme != "x" || c.Position() != 0 {
		t.Errorf("Peek() = %v, %v at %d", peeked, ok, c.Position())
	}

	for i, want := range tokens {
		got, ok := c.Next()
		if !ok || got != want {
			t.Errorf("Next() #%d = %v, %v; want %v", i, got, ok, want)
		}
	}

	if !c.Exhausted() {
		t.Error("cursor should be exhausted")
	}

	for i := 0; i < 3; i++ {
		tok, ok := c.Next()
		if ok || tok != (mllexer.Token{}) {
			t.Errorf("Next() past end = %v, %v", tok, ok)
		}
		if c.Position() != len(tokens) {
			t.Errorf("Position() = %d, want %d", c.Position(), len(tokens))
		}
	}

	if _, ok := c.Peek(); ok {
		t.Error("Peek() past end should report false")
	}
}

func TestCursor_Empty(t *testing.T) {
	c := NewCursor(nil)
	if !c.Exhausted() {
		t.Error("empty cursor should be exhausted")
	}
	if _, ok := c.Next(); ok {
		t.Error("Next() on empty cursor should report false")
	}
}

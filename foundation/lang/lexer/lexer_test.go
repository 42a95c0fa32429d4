// File: lexer_test.go
// Title: minilang Lexer Unit Tests
// Description: Tests for tokenization, classification priority, position
//              tracking and lexical error reporting.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial test suite

package lexer

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// kl is a (kind, lexeme) pair used to compare token streams without positions
type kl struct {
	kind   Kind
	lexeme string
}

func pairs(tokens []Token) []kl {
	out := make([]kl, len(tokens))
	for i, tok := range tokens {
		out[i] = kl{tok.Kind, tok.Lexeme}
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []kl
	}{
		{
			name:     "Empty input",
			input:    "",
			expected: []kl{},
		},
		{
			name:     "Whitespace only",
			input:    " \t\r\n  \n",
			expected: []kl{},
		},
		{
			name:     "Type keyword integer",
			input:    "integer",
			expected: []kl{{KindType, "integer"}},
		},
		{
			name:     "Type keyword real",
			input:    "real",
			expected: []kl{{KindType, "real"}},
		},
		{
			name:     "Keyword prefix is a variable",
			input:    "integers realm",
			expected: []kl{{KindVariable, "integers"}, {KindVariable, "realm"}},
		},
		{
			name:     "Variable with digit",
			input:    "x1",
			expected: []kl{{KindVariable, "x1"}},
		},
		{
			name:     "Variable with underscore",
			input:    "_foo",
			expected: []kl{{KindVariable, "_foo"}},
		},
		{
			name:     "Real literal is one token",
			input:    "3.14",
			expected: []kl{{KindReal, "3.14"}},
		},
		{
			name:     "Integer literal",
			input:    "42",
			expected: []kl{{KindInteger, "42"}},
		},
		{
			name:  "Declaration",
			input: "x: integer;",
			expected: []kl{
				{KindVariable, "x"},
				{KindDeclaration, ":"},
				{KindType, "integer"},
				{KindEnd, ";"},
			},
		},
		{
			name:  "Assignment prefers := over :",
			input: "y:=3",
			expected: []kl{
				{KindVariable, "y"},
				{KindAssignment, ":="},
				{KindInteger, "3"},
			},
		},
		{
			name:  "Separated declaration",
			input: "a,b ,c : real;",
			expected: []kl{
				{KindVariable, "a"},
				{KindSeparator, ","},
				{KindVariable, "b"},
				{KindSeparator, ","},
				{KindVariable, "c"},
				{KindDeclaration, ":"},
				{KindType, "real"},
				{KindEnd, ";"},
			},
		},
		{
			name:  "All operators and parentheses",
			input: "(a+b-c)*d/e^f",
			expected: []kl{
				{KindOpenParen, "("},
				{KindVariable, "a"},
				{KindOperator, "+"},
				{KindVariable, "b"},
				{KindOperator, "-"},
				{KindVariable, "c"},
				{KindCloseParen, ")"},
				{KindOperator, "*"},
				{KindVariable, "d"},
				{KindOperator, "/"},
				{KindVariable, "e"},
				{KindOperator, "^"},
				{KindVariable, "f"},
			},
		},
		{
			name:  "Digits followed by identifier split",
			input: "9abc",
			expected: []kl{
				{KindInteger, "9"},
				{KindVariable, "abc"},
			},
		},
		{
			name:  "Demo program",
			input: "apple:= (9 * 10) + 8 SidedDice;",
			expected: []kl{
				{KindVariable, "apple"},
				{KindAssignment, ":="},
				{KindOpenParen, "("},
				{KindInteger, "9"},
				{KindOperator, "*"},
				{KindInteger, "10"},
				{KindCloseParen, ")"},
				{KindOperator, "+"},
				{KindInteger, "8"},
				{KindVariable, "SidedDice"},
				{KindEnd, ";"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if got := pairs(tokens); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Tokenize() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	tokens, err := Tokenize("x: integer;\n  y := 2.5;")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	expected := []Token{
		{Kind: KindVariable, Lexeme: "x", Offset: 0, Line: 1, Column: 1},
		{Kind: KindDeclaration, Lexeme: ":", Offset: 1, Line: 1, Column: 2},
		{Kind: KindType, Lexeme: "integer", Offset: 3, Line: 1, Column: 4},
		{Kind: KindEnd, Lexeme: ";", Offset: 10, Line: 1, Column: 11},
		{Kind: KindVariable, Lexeme: "y", Offset: 14, Line: 2, Column: 3},
		{Kind: KindAssignment, Lexeme: ":=", Offset: 16, Line: 2, Column: 5},
		{Kind: KindReal, Lexeme: "2.5", Offset: 19, Line: 2, Column: 8},
		{Kind: KindEnd, Lexeme: ";", Offset: 22, Line: 2, Column: 11},
	}

	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Tokenize() =\n%v\nwant\n%v", tokens, expected)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		lexeme string
		line   int
		column int
	}{
		{"Hash after integer", "9#;", "#", 1, 2},
		{"Dollar sign", "x := $;", "$", 1, 6},
		{"At sign on second line", "x: real;\n@", "@", 2, 1},
		{"Dangling decimal point", "x := 3.;", ".", 1, 7},
		{"Leading decimal point", ".5", ".", 1, 1},
		{"Non-ASCII letter", "é", "é", 1, 1},
		{"Equals without colon", "x = 1;", "=", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("Tokenize() expected error, got %v", tokens)
			}
			if tokens != nil {
				t.Errorf("Tokenize() returned partial sequence %v", tokens)
			}

			var lexErr *LexicalError
			if !errors.As(err, &lexErr) {
				t.Fatalf("error type = %T, want *LexicalError", err)
			}
			if lexErr.Lexeme != tt.lexeme {
				t.Errorf("Lexeme = %q, want %q", lexErr.Lexeme, tt.lexeme)
			}
			if lexErr.Line != tt.line || lexErr.Column != tt.column {
				t.Errorf("position = %d:%d, want %d:%d", lexErr.Line, lexErr.Column, tt.line, tt.column)
			}
		})
	}
}

func TestLexicalErrorMessage(t *testing.T) {
	_, err := Tokenize("9#;")
	want := `lexical error at line 1, column 2: invalid token "#"`
	if err == nil || err.Error() != want {
		t.Errorf("error = %v, want %s", err, want)
	}
}

func TestLexer_NextIsSticky(t *testing.T) {
	l := NewLexer("a # b")

	tok, ok, err := l.Next()
	if err != nil || !ok || tok.Lexeme != "a" {
		t.Fatalf("first Next() = %v, %v, %v", tok, ok, err)
	}

	_, ok, first := l.Next()
	if first == nil || ok {
		t.Fatalf("second Next() should fail, got ok=%v err=%v", ok, first)
	}

	_, ok, second := l.Next()
	if second != first || ok {
		t.Errorf("Next() after error = %v, want the same error %v", second, first)
	}
}

func TestLexer_NextExhausted(t *testing.T) {
	l := NewLexer("  x  ")

	if _, ok, _ := l.Next(); !ok {
		t.Fatal("expected a token")
	}
	for i := 0; i < 2; i++ {
		tok, ok, err := l.Next()
		if ok || err != nil || tok != (Token{}) {
			t.Errorf("Next() on exhausted lexer = %v, %v, %v", tok, ok, err)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		lexeme string
		kind   Kind
		ok     bool
	}{
		{"integer", KindType, true},
		{"real", KindType, true},
		{"Integer", KindVariable, true},
		{"_", KindVariable, true},
		{"007", KindInteger, true},
		{"0.5", KindReal, true},
		{":=", KindAssignment, true},
		{"^", KindOperator, true},
		{";", KindEnd, true},
		{":", KindDeclaration, true},
		{"(", KindOpenParen, true},
		{")", KindCloseParen, true},
		{",", KindSeparator, true},
		{"", 0, false},
		{"#", 0, false},
		{"1.", 0, false},
		{"1.2.3", 0, false},
		{"++", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.lexeme, func(t *testing.T) {
			kind, ok := Classify(tt.lexeme)
			if ok != tt.ok {
				t.Fatalf("Classify(%q) ok = %v, want %v", tt.lexeme, ok, tt.ok)
			}
			if ok && kind != tt.kind {
				t.Errorf("Classify(%q) = %v, want %v", tt.lexeme, kind, tt.kind)
			}
		})
	}
}

// Every emitted token classifies back to its own kind.
func TestTokenizeReclassification(t *testing.T) {
	tokens, err := Tokenize("a, b_2: real; total := (a + 1.5) ^ 2 / b_2 - 7;")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	for _, tok := range tokens {
		kind, ok := Classify(tok.Lexeme)
		if !ok || kind != tok.Kind {
			t.Errorf("Classify(%q) = %v, %v; token kind %v", tok.Lexeme, kind, ok, tok.Kind)
		}
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	input := "x, y: integer; x := (y + 2) * 3;"

	first, err1 := Tokenize(input)
	second, err2 := Tokenize(input)
	if err1 != nil || err2 != nil {
		t.Fatalf("Tokenize() errors = %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Tokenize() is not deterministic")
	}

	_, errA := Tokenize("9#;")
	_, errB := Tokenize("9#;")
	if !reflect.DeepEqual(errA, errB) {
		t.Errorf("errors differ: %v vs %v", errA, errB)
	}
}

func TestKindNames(t *testing.T) {
	want := []string{
		"VARIABLE", "INTEGER", "REAL", "TYPE", "ASSIGNMENT", "OPERATOR",
		"END", "DECLARATION", "OPEN_PAREN", "CLOSE_PAREN", "SEPARATOR",
	}

	kinds := Kinds()
	if len(kinds) != len(want) {
		t.Fatalf("Kinds() returned %d kinds, want %d", len(kinds), len(want))
	}
	for i, k := range kinds {
		if k.String() != want[i] {
			t.Errorf("Kind(%d).String() = %s, want %s", i, k, want[i])
		}
		parsed, err := ParseKind(want[i])
		if err != nil || parsed != k {
			t.Errorf("ParseKind(%s) = %v, %v", want[i], parsed, err)
		}
	}

	if Kind(-1).String() != "UNKNOWN" || Kind(99).String() != "UNKNOWN" {
		t.Error("out-of-range kinds should render as UNKNOWN")
	}
	if _, err := ParseKind("COMMENT"); err == nil {
		t.Error("ParseKind() should reject unknown names")
	}
}

func TestTokenJSON(t *testing.T) {
	tok := Token{Kind: KindOpenParen, Lexeme: "(", Offset: 6, Line: 1, Column: 7}

	data, err := json.Marshal(tok)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"kind":"OPEN_PAREN"`) {
		t.Errorf("Marshal() = %s, want kind by name", data)
	}

	var decoded Token
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded != tok {
		t.Errorf("Unmarshal() = %+v, want %+v", decoded, tok)
	}

	if err := json.Unmarshal([]byte(`{"kind":"COMMENT"}`), &decoded); err == nil {
		t.Error("Unmarshal() should reject unknown kind names")
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: KindReal, Lexeme: "3.14"}
	if tok.String() != "REAL(3.14)" {
		t.Errorf("String() = %s", tok.String())
	}
	if !tok.Is(KindReal, "3.14") || tok.Is(KindInteger, "3.14") {
		t.Error("Is() mismatch")
	}
}

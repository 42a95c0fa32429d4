// File: doc.go
// Title: minilang Lexer Package Documentation
// Description: Lexical analysis for the minilang mini-language. Converts
//              source text into an ordered sequence of classified tokens.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial lexer implementation

/*
Package lexer provides the tokenizer of the minilang front end.

Scanning is an ordered-alternative, maximal-munch pass over the input. At each
position the first matching shape is extracted as one lexeme:

	identifier   [A-Za-z_][A-Za-z0-9_]*
	real         digits '.' digits
	integer      digits
	assignment   :=
	operator     + - * / ^
	punctuation  ; : ( ) ,

Whitespace is skipped. Every extracted lexeme is then classified in a fixed
priority order (TYPE, VARIABLE, INTEGER, REAL, ASSIGNMENT, OPERATOR, END,
DECLARATION, OPEN_PAREN, CLOSE_PAREN, SEPARATOR). A character that starts no
shape becomes a single-character lexeme that fails classification and aborts
tokenization with a *LexicalError.

Usage:

	tokens, err := lexer.Tokenize("x: integer;")
	if err != nil {
		var lexErr *lexer.LexicalError
		if errors.As(err, &lexErr) {
			fmt.Println("bad lexeme:", lexErr.Lexeme)
		}
	}
*/
package lexer

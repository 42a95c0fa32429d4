// File: doc.go
// Title: minilang Front End Package Documentation
// Description: High-level engine that runs the lexer and the grammar checker
//              for minilang programs.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial engine implementation

/*
Package lang is the front end of the minilang mini-language.

Package: lang
Title: minilang Front End
Description: Validates programs made of typed variable declarations and
             assignments of arithmetic expressions. Produces no executable
             output: a program is either well-formed, in which case the
             engine returns the table of declared variable types, or it is
             rejected with the first lexical or syntax error.
Author: msto63
Version: v0.1.0
Created: 2026-10-15
Modified: 2026-10-15

# Language

	a, b: integer;        declaration of one or more names
	ratio: real;
	a := (b + 2) * 3 ^ 2; assignment of an arithmetic expression

Operators are + - * / ^ with the usual precedence bands; every band, including
exponentiation, associates to the left. Literals are integers (42) and reals
(3.14). Expressions are not evaluated or type-checked, and variables need not
be declared before use.

# Components

  - lexer: source text to classified tokens (lang/lexer)
  - checker: recursive-descent grammar validation and symbol table (lang/checker)
  - Engine: runs both stages, enforces an input size limit, logs and converts
    failures into coded errors from foundation/core/error

# Errors

Engine failures carry the codes LEXICAL_ERROR, SYNTAX_ERROR or INVALID_INPUT.
The typed stage errors stay reachable through errors.As:

	_, err := engine.Check(src)
	var synErr *checker.SyntaxError
	if errors.As(err, &synErr) {
		fmt.Println(synErr.Expected, synErr.Actual())
	}
*/
package lang

// File: doc.go
// Title: minilang Grammar Checker Package Documentation
// Description: Recursive-descent validation of minilang token streams with
//              symbol table construction.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial checker implementation

/*
Package checker validates a token sequence against the minilang grammar and
records declared variable types in a symbol table.

Grammar:

	Program        = { Statement }
	Statement      = VARIABLE ( Declaration | Assignment )
	Declaration    = { SEPARATOR | VARIABLE } DECLARATION TYPE END
	Assignment     = ASSIGNMENT Addition END
	Addition       = Multiplication { ('+'|'-') Multiplication }
	Multiplication = Exponent { ('*'|'/') Exponent }
	Exponent       = Base { '^' Base }
	Base           = '(' Addition ')' | INTEGER | REAL | VARIABLE

All operator tiers, exponent included, chain left to right. Nothing is built
or evaluated; the checker only consumes tokens or fails. The first failure
aborts the run and is returned as a *SyntaxError.

A Checker owns its cursor and symbol table and must be driven by a single
caller. Independent inputs can be checked in parallel on separate instances.
*/
package checker

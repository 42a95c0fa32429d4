// Package error provides coded, contextual errors for the minilang front end.
//
// Package: error
// Title: minilang Error Handling
// Description: Structured error type carrying a code, a severity, an operation
//              name and free-form details. Lexical and syntax failures from the
//              front end are surfaced through this type so that callers (CLI,
//              server, history store) can classify and render them uniformly.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-15
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-15 v0.2.0: Reduced to front-end codes, added exit status mapping
//
// Usage:
//
//	err := error.New("expected END, got OPERATOR").
//		WithCode(error.CodeSyntax).
//		WithDetail("line", 3).
//		WithOperation("checker.Check")
//
//	if error.HasCode(err, error.CodeSyntax) {
//		// reject the program
//	}
package error

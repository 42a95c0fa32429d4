// File: codes.go
// Title: Error Code Definitions
// Description: Standardized error codes used across the front end, the CLI
//              and the check server.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-15
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-15 v0.2.0: Front-end codes (lexical, syntax)

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"

	// Front end
	CodeLexical Code = "LEXICAL_ERROR"
	CodeSyntax  Code = "SYNTAX_ERROR"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeLexical, CodeSyntax,
		CodeDatabaseError,
		CodeConfigError, CodeInvalidConfig:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeLexical, CodeSyntax:
		return "program"
	case CodeDatabaseError:
		return "database"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeInvalidInput:
		return "validation"
	default:
		return "generic"
	}
}

// HTTPStatus returns the appropriate HTTP status code for this error code.
// A rejected program is a successful check, so lexical and syntax codes map
// to 422 rather than 400.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeInvalidInput:
		return 400
	case CodeLexical, CodeSyntax:
		return 422
	case CodeDatabaseError:
		return 503
	default:
		return 500
	}
}

// ExitStatus returns the process exit status the CLI uses for this code
func (c Code) ExitStatus() int {
	switch c {
	case CodeLexical, CodeSyntax:
		return 1
	case CodeInvalidInput, CodeNotFound, CodeConfigError, CodeInvalidConfig:
		return 2
	default:
		return 3
	}
}

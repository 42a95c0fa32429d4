// File: engine.go
// Title: minilang Front-End Engine
// Description: Runs tokenization and grammar checking over a source string,
//              applies the input size limit and converts stage failures into
//              structured errors with position details.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-15
// Modified: 2026-10-15
//
// Change History:
// - 2026-10-15 v0.1.0: Initial engine implementation

package lang

import (
	"errors"
	"time"

	mlerror "github.com/msto63/minilang/foundation/core/error"
	mllog "github.com/msto63/minilang/foundation/core/log"
	mlchecker "github.com/msto63/minilang/foundation/lang/checker"
	mllexer "github.com/msto63/minilang/foundation/lang/lexer"
)

// DefaultMaxInputLength is the source size limit in bytes
const DefaultMaxInputLength = 65536

// DemoSource is the built-in sample program. It is rejected by the checker
// because the expression is followed by a second operand.
const DemoSource = "apple:= (9 * 10) + 8 SidedDice;"

// Operation names attached to engine errors
const (
	OpValidate = "lang.validate"
	OpTokenize = "lang.tokenize"
	OpCheck    = "lang.check"
)

// Options configures the engine
type Options struct {
	Logger         *mllog.Logger
	MaxInputLength int
}

// Engine runs the front end. It holds no per-run state and is safe for
// concurrent use.
type Engine struct {
	logger  *mllog.Logger
	options Options
}

// Result is the outcome of a check run. Tokens is set once tokenization
// succeeded; Symbols only when the whole program was accepted.
type Result struct {
	Tokens   []mllexer.Token
	Symbols  *mlchecker.SymbolTable
	Duration time.Duration
}

// Accepted reports whether the program passed both stages
func (r *Result) Accepted() bool {
	return r != nil && r.Symbols != nil
}

// New creates an engine with the given options
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = mllog.GetDefault()
	}
	if opts.MaxInputLength <= 0 {
		opts.MaxInputLength = DefaultMaxInputLength
	}

	return &Engine{
		logger:  opts.Logger.WithField("component", "lang-engine"),
		options: opts,
	}
}

// WithLogger returns a copy of the engine logging through logger
func (e *Engine) WithLogger(logger *mllog.Logger) *Engine {
	clone := *e
	clone.options.Logger = logger
	clone.logger = logger.WithField("component", "lang-engine")
	return &clone
}

// MaxInputLength returns the effective size limit
func (e *Engine) MaxInputLength() int {
	return e.options.MaxInputLength
}

// Tokenize runs the lexer only
func (e *Engine) Tokenize(source string) ([]mllexer.Token, error) {
	if err := e.validate(source); err != nil {
		return nil, err
	}
	return e.tokenize(source)
}

// Check runs the lexer and the grammar checker. The returned Result is
// non-nil whenever the source passed the size limit, so callers can render
// the tokens of a program that failed the grammar check.
func (e *Engine) Check(source string) (*Result, error) {
	if err := e.validate(source); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{}

	tokens, err := e.tokenize(source)
	if err != nil {
		result.Duration = time.Since(start)
		return result, err
	}
	result.Tokens = tokens

	timer := e.logger.StartTimer("check").WithField("tokens", len(tokens))
	symbols, err := mlchecker.Check(tokens)
	if err != nil {
		result.Duration = time.Since(start)
		wrapped := wrapSyntax(err)
		e.logger.LogError(wrapped)
		return result, wrapped
	}
	timer.WithField("symbols", symbols.Len()).Stop()

	result.Symbols = symbols
	result.Duration = time.Since(start)
	return result, nil
}

func (e *Engine) validate(source string) error {
	if len(source) > e.options.MaxInputLength {
		err := mlerror.Newf("input exceeds maximum length: %d > %d",
			len(source), e.options.MaxInputLength).
			WithCode(mlerror.CodeInvalidInput).
			WithOperation(OpValidate).
			WithDetail("length", len(source)).
			WithDetail("max_length", e.options.MaxInputLength)
		e.logger.LogError(err)
		return err
	}
	return nil
}

func (e *Engine) tokenize(source string) ([]mllexer.Token, error) {
	timer := e.logger.StartTimer("tokenize").WithField("length", len(source))

	tokens, err := mllexer.Tokenize(source)
	if err != nil {
		wrapped := wrapLexical(err)
		e.logger.LogError(wrapped)
		return nil, wrapped
	}

	timer.WithField("tokens", len(tokens)).Stop()
	return tokens, nil
}

func wrapLexical(err error) error {
	var lexErr *mllexer.LexicalError
	if !errors.As(err, &lexErr) {
		return mlerror.Wrap(err, "tokenization failed").
			WithCode(mlerror.CodeInternal).
			WithOperation(OpTokenize)
	}

	return mlerror.Wrap(err, "tokenization failed").
		WithCode(mlerror.CodeLexical).
		WithOperation(OpTokenize).
		WithDetails(map[string]interface{}{
			"lexeme": lexErr.Lexeme,
			"offset": lexErr.Offset,
			"line":   lexErr.Line,
			"column": lexErr.Column,
		})
}

func wrapSyntax(err error) error {
	var synErr *mlchecker.SyntaxError
	if !errors.As(err, &synErr) {
		return mlerror.Wrap(err, "grammar check failed").
			WithCode(mlerror.CodeInternal).
			WithOperation(OpCheck)
	}

	details := map[string]interface{}{
		"expected": synErr.Expected,
		"actual":   synErr.Actual(),
	}
	if !synErr.AtEnd {
		details["lexeme"] = synErr.Token.Lexeme
		details["offset"] = synErr.Token.Offset
		details["line"] = synErr.Token.Line
		details["column"] = synErr.Token.Column
	}

	return mlerror.Wrap(err, "grammar check failed").
		WithCode(mlerror.CodeSyntax).
		WithOperation(OpCheck).
		WithDetails(details)
}

// ============================================================================
// minilang - Typed Mini-Language Front End
// ============================================================================
//
// Package:     report
// Description: Report model and renderers for tokenize and check runs
// Author:      msto63
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package report

import (
	"time"

	mlerror "github.com/msto63/minilang/foundation/core/error"
	"github.com/msto63/minilang/foundation/lang"
	mlchecker "github.com/msto63/minilang/foundation/lang/checker"
	mllexer "github.com/msto63/minilang/foundation/lang/lexer"
)

// Mode names the kind of run a document describes
type Mode string

const (
	ModeTokenize Mode = "tokenize"
	ModeCheck    Mode = "check"
)

// Outcome is the result class of a run
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeLexical  Outcome = "lexical_error"
	OutcomeSyntax   Outcome = "syntax_error"
	OutcomeRejected Outcome = "rejected"
)

// Document is the renderable outcome of one run
type Document struct {
	RunID      string              `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Mode       Mode                `json:"mode" yaml:"mode"`
	SourceName string              `json:"source_name" yaml:"source_name"`
	Source     string              `json:"source" yaml:"source"`
	Outcome    Outcome             `json:"outcome" yaml:"outcome"`
	Tokens     []mllexer.Token     `json:"tokens" yaml:"tokens"`
	Stats      []lang.KindCount    `json:"stats" yaml:"stats"`
	Symbols    []mlchecker.Symbol  `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	Error      *ErrorInfo          `json:"error,omitempty" yaml:"error,omitempty"`
	DurationMS float64             `json:"duration_ms" yaml:"duration_ms"`
}

// ErrorInfo is the rendered form of a run failure
type ErrorInfo struct {
	Code    string                 `json:"code" yaml:"code"`
	Message string                 `json:"message" yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// NewTokenizeDocument builds a document for a tokenize run
func NewTokenizeDocument(name, source string, tokens []mllexer.Token, err error) *Document {
	doc := &Document{
		Mode:       ModeTokenize,
		SourceName: name,
		Source:     source,
		Tokens:     nonNil(tokens),
		Stats:      lang.CountKinds(tokens),
		Outcome:    OutcomeAccepted,
	}
	doc.setError(err)
	return doc
}

// NewCheckDocument builds a document for a check run. result may be nil
// when the source was rejected before tokenization.
func NewCheckDocument(name, source string, result *lang.Result, err error) *Document {
	doc := &Document{
		Mode:       ModeCheck,
		SourceName: name,
		Source:     source,
		Tokens:     []mllexer.Token{},
		Outcome:    OutcomeAccepted,
	}

	if result != nil {
		doc.Tokens = nonNil(result.Tokens)
		doc.DurationMS = float64(result.Duration) / float64(time.Millisecond)
		if result.Symbols != nil {
			doc.Symbols = result.Symbols.Entries()
		}
	}
	doc.Stats = lang.CountKinds(doc.Tokens)
	if doc.Symbols == nil && err == nil {
		doc.Symbols = []mlchecker.Symbol{}
	}

	doc.setError(err)
	return doc
}

// WithRunID tags the document with a run id
func (d *Document) WithRunID(id string) *Document {
	d.RunID = id
	return d
}

// Accepted reports whether the run succeeded
func (d *Document) Accepted() bool {
	return d.Outcome == OutcomeAccepted
}

func (d *Document) setError(err error) {
	if err == nil {
		return
	}

	info := &ErrorInfo{
		Code:    string(mlerror.GetCode(err)),
		Message: err.Error(),
	}
	if mlErr, ok := mlerror.As(err); ok {
		info.Details = mlErr.Details()
		if cause := mlErr.RootCause(); cause != nil {
			info.Message = cause.Error()
		}
	}
	d.Error = info

	switch mlerror.GetCode(err) {
	case mlerror.CodeLexical:
		d.Outcome = OutcomeLexical
	case mlerror.CodeSyntax:
		d.Outcome = OutcomeSyntax
	default:
		d.Outcome = OutcomeRejected
	}
}

func nonNil(tokens []mllexer.Token) []mllexer.Token {
	if tokens == nil {
		return []mllexer.Token{}
	}
	return tokens
}

// ============================================================================
// minilang - Typed Mini-Language Front End
// ============================================================================
//
// Package:     runner
// Description: Executes tokenize and check runs and records them in history
// Author:      msto63
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package runner

import (
	"context"

	mllog "github.com/msto63/minilang/foundation/core/log"
	"github.com/msto63/minilang/foundation/lang"
	mllexer "github.com/msto63/minilang/foundation/lang/lexer"
	"github.com/msto63/minilang/internal/history"
	"github.com/msto63/minilang/internal/report"
	"github.com/msto63/minilang/pkg/core/cache"
	"github.com/msto63/minilang/pkg/core/logging"
)

// CacheEntry is memoized engine output for one mode and source text.
// Rejections are cached as well since both stages are deterministic.
type CacheEntry struct {
	tokens []mllexer.Token
	result *lang.Result
	err    error
}

// NewCache creates a result cache for WithCache
func NewCache(cfg cache.Config) *cache.Cache[CacheEntry] {
	return cache.New[CacheEntry](cfg)
}

// Runner ties the engine to the report model and the optional run history.
// It is shared by the CLI and the check server.
type Runner struct {
	engine *lang.Engine
	store  history.Store
	cache  *cache.Cache[CacheEntry]
	logger *mllog.Logger
}

// New creates a runner. store may be nil when history is disabled.
func New(engine *lang.Engine, store history.Store, logger *mllog.Logger) *Runner {
	if engine == nil {
		engine = lang.New(lang.Options{Logger: logger})
	}
	if logger == nil {
		logger = mllog.GetDefault()
	}
	return &Runner{
		engine: engine,
		store:  store,
		logger: logger,
	}
}

// Engine returns the underlying engine
func (r *Runner) Engine() *lang.Engine {
	return r.engine
}

// WithCache enables result memoization keyed by source digest
func (r *Runner) WithCache(c *cache.Cache[CacheEntry]) *Runner {
	r.cache = c
	return r
}

// Cache returns the result cache, or nil
func (r *Runner) Cache() *cache.Cache[CacheEntry] {
	return r.cache
}

// History returns the run store, or nil
func (r *Runner) History() history.Store {
	return r.store
}

// Tokenize runs the lexer over source. The document is always returned; err
// is the run failure, if any.
func (r *Runner) Tokenize(ctx context.Context, name, source string) (*report.Document, error) {
	runID := logging.NewCorrelationID()
	engine := r.engine.WithLogger(r.logger.WithCorrelationID(runID))

	entry := r.cached(report.ModeTokenize, source, func() CacheEntry {
		tokens, err := engine.Tokenize(source)
		return CacheEntry{tokens: tokens, err: err}
	})
	tokens, err := entry.tokens, entry.err
	doc := report.NewTokenizeDocument(name, source, tokens, err).WithRunID(runID)

	r.record(ctx, doc)
	return doc, err
}

// Check runs both stages over source
func (r *Runner) Check(ctx context.Context, name, source string) (*report.Document, error) {
	runID := logging.NewCorrelationID()
	engine := r.engine.WithLogger(r.logger.WithCorrelationID(runID))

	entry := r.cached(report.ModeCheck, source, func() CacheEntry {
		result, err := engine.Check(source)
		return CacheEntry{result: result, err: err}
	})
	result, err := entry.result, entry.err
	doc := report.NewCheckDocument(name, source, result, err).WithRunID(runID)

	r.record(ctx, doc)
	return doc, err
}

// cached returns memoized engine output or computes it
func (r *Runner) cached(mode report.Mode, source string, run func() CacheEntry) CacheEntry {
	if r.cache == nil {
		return run()
	}

	key := string(mode) + ":" + history.Digest(source)
	if entry, ok := r.cache.Get(key); ok {
		return entry
	}

	entry := run()
	r.cache.Set(key, entry)
	return entry
}

// record persists the run. A history failure never fails the run itself.
func (r *Runner) record(ctx context.Context, doc *report.Document) {
	if r.store == nil {
		return
	}
	if err := r.store.Record(ctx, history.NewRun(doc)); err != nil {
		r.logger.WithCorrelationID(doc.RunID).WarnWithErr("failed to record run", err)
	}
}

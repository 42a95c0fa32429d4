package runner

import (
	"context"
	"path/filepath"
	"testing"

	mlerror "github.com/msto63/minilang/foundation/core/error"
	mllog "github.com/msto63/minilang/foundation/core/log"
	"github.com/msto63/minilang/foundation/lang"
	"github.com/msto63/minilang/internal/history"
	"github.com/msto63/minilang/internal/report"
	"github.com/msto63/minilang/pkg/core/cache"
)

func newRunner(t *testing.T) (*Runner, *history.SQLiteStore) {
	t.Helper()

	store, err := history.NewSQLiteStore(history.Config{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := mllog.Discard()
	return New(lang.New(lang.Options{Logger: logger}), store, logger), store
}

func TestRunnerCheck(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		outcome report.Outcome
		code    mlerror.Code
	}{
		{"accepted", "a, b: integer;", report.OutcomeAccepted, ""},
		{"syntax error", "z := (1 + 2;", report.OutcomeSyntax, mlerror.CodeSyntax},
		{"lexical error", "9#;", report.OutcomeLexical, mlerror.CodeLexical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, store := newRunner(t)
			ctx := context.Background()

			doc, err := r.Check(ctx, "inline", tt.source)
			if tt.code == "" && err != nil {
				t.Fatalf("Check() error = %v", err)
			}
			if tt.code != "" && !mlerror.HasCode(err, tt.code) {
				t.Fatalf("Check() error = %v, want %s", err, tt.code)
			}
			if doc.Outcome != tt.outcome {
				t.Errorf("Outcome = %s, want %s", doc.Outcome, tt.outcome)
			}
			if doc.RunID == "" {
				t.Fatal("expected run id")
			}

			run, err := store.Get(ctx, doc.RunID)
			if err != nil {
				t.Fatalf("history Get() error = %v", err)
			}
			if run.Outcome != string(tt.outcome) || run.SourceName != "inline" {
				t.Errorf("recorded run = %+v", run)
			}
		})
	}
}

func TestRunnerTokenize(t *testing.T) {
	r, store := newRunner(t)
	ctx := context.Background()

	doc, err := r.Tokenize(ctx, "inline", "x := 1.5;")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	if doc.Mode != report.ModeTokenize || len(doc.Tokens) != 4 {
		t.Errorf("doc = %+v", doc)
	}

	runs, err := store.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(runs) != 1 || runs[0].Mode != "tokenize" {
		t.Errorf("runs = %v", runs)
	}
}

func TestRunnerWithoutHistory(t *testing.T) {
	r := New(nil, nil, mllog.Discard())

	doc, err := r.Check(context.Background(), "inline", "x: real;")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !doc.Accepted() {
		t.Errorf("Outcome = %s", doc.Outcome)
	}
	if r.History() != nil {
		t.Error("expected no history store")
	}
}

func TestRunnerRecordFailureDoesNotFailRun(t *testing.T) {
	r, store := newRunner(t)
	store.Close()

	doc, err := r.Check(context.Background(), "inline", "x: real;")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !doc.Accepted() {
		t.Errorf("Outcome = %s", doc.Outcome)
	}
}

func TestRunnerCache(t *testing.T) {
	c := NewCache(cache.Config{MaxItems: 8})
	defer c.Close()

	r := New(nil, nil, mllog.Discard()).WithCache(c)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		doc, err := r.Check(ctx, "inline", lang.DemoSource)
		if !mlerror.HasCode(err, mlerror.CodeSyntax) {
			t.Fatalf("Check() error = %v", err)
		}
		if len(doc.Tokens) != 11 {
			t.Errorf("tokens = %d, want 11", len(doc.Tokens))
		}
	}
	if _, err := r.Tokenize(ctx, "inline", lang.DemoSource); err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	hits, misses, _ := c.Stats()
	if hits != 2 || misses != 2 {
		t.Errorf("Stats() hits=%d misses=%d, want 2/2", hits, misses)
	}
	if c.Size() != 2 {
		t.Errorf("Size() = %d, want 2 (check and tokenize)", c.Size())
	}
	if r.Cache() != c {
		t.Error("Cache() accessor mismatch")
	}
}

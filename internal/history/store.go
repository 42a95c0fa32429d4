package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mlerror "github.com/msto63/minilang/foundation/core/error"
	mlchecker "github.com/msto63/minilang/foundation/lang/checker"
	"github.com/msto63/minilang/internal/report"
)

// Run is one persisted tokenize or check run
type Run struct {
	ID           string             `json:"id" yaml:"id"`
	Mode         string             `json:"mode" yaml:"mode"`
	SourceName   string             `json:"source_name" yaml:"source_name"`
	Digest       string             `json:"digest" yaml:"digest"`
	Source       string             `json:"source" yaml:"source"`
	Outcome      string             `json:"outcome" yaml:"outcome"`
	ErrorCode    string             `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	ErrorMessage string             `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	TokenCount   int                `json:"token_count" yaml:"token_count"`
	Symbols      []mlchecker.Symbol `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	DurationMS   float64            `json:"duration_ms" yaml:"duration_ms"`
	CreatedAt    time.Time          `json:"created_at" yaml:"created_at"`
}

// NewRun converts a rendered document into a history record. The document's
// run id is reused when set.
func NewRun(doc *report.Document) *Run {
	run := &Run{
		ID:         doc.RunID,
		Mode:       string(doc.Mode),
		SourceName: doc.SourceName,
		Digest:     Digest(doc.Source),
		Source:     doc.Source,
		Outcome:    string(doc.Outcome),
		TokenCount: len(doc.Tokens),
		Symbols:    doc.Symbols,
		DurationMS: doc.DurationMS,
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if doc.Error != nil {
		run.ErrorCode = doc.Error.Code
		run.ErrorMessage = doc.Error.Message
	}
	return run
}

// Digest returns the hex SHA-256 of a source text
func Digest(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Store defines run history persistence
type Store interface {
	Record(ctx context.Context, run *Run) error
	Get(ctx context.Context, idOrPrefix string) (*Run, error)
	List(ctx context.Context, limit, offset int) ([]*Run, error)
	Clear(ctx context.Context) (int64, error)
	Statistics(ctx context.Context) (map[string]interface{}, error)
	Ping(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
}

// NewSQLiteStore opens or creates the history database
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, mlerror.New("history path is required").WithCode(mlerror.CodeConfigError)
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "failed to create directory").WithDetail("path", dir)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, dbError(err, "failed to open database").WithDetail("path", cfg.Path)
	}

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema").WithDetail("path", cfg.Path)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		source_name TEXT NOT NULL DEFAULT '',
		digest TEXT NOT NULL,
		source TEXT NOT NULL,
		outcome TEXT NOT NULL,
		error_code TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT '',
		token_count INTEGER NOT NULL DEFAULT 0,
		symbols TEXT,
		duration_ms REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(digest);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run
func (s *SQLiteStore) Record(ctx context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		return mlerror.New("run ID is required").WithCode(mlerror.CodeInvalidInput)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Digest == "" {
		run.Digest = Digest(run.Source)
	}

	var symbolsJSON []byte
	if run.Symbols != nil {
		symbolsJSON, _ = json.Marshal(run.Symbols)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, mode, source_name, digest, source, outcome, error_code,
			error_message, token_count, symbols, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Mode, run.SourceName, run.Digest, run.Source, run.Outcome, run.ErrorCode,
		run.ErrorMessage, run.TokenCount, symbolsJSON, run.DurationMS, run.CreatedAt)
	if err != nil {
		return dbError(err, "failed to record run").WithDetail("id", run.ID)
	}

	return nil
}

const selectRun = `
	SELECT id, mode, source_name, digest, source, outcome, error_code,
		error_message, token_count, symbols, duration_ms, created_at
	FROM runs`

// Get retrieves a run by full id or unique id prefix
func (s *SQLiteStore) Get(ctx context.Context, idOrPrefix string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idOrPrefix == "" {
		return nil, mlerror.New("run ID is required").WithCode(mlerror.CodeInvalidInput)
	}

	rows, err := s.db.QueryContext(ctx, selectRun+`
		WHERE id = ? OR id LIKE ? ESCAPE '\'
		ORDER BY id = ? DESC
		LIMIT 2
	`, idOrPrefix, escapeLike(idOrPrefix)+"%", idOrPrefix)
	if err != nil {
		return nil, dbError(err, "failed to get run")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to get run")
	}

	switch {
	case len(runs) == 0:
		return nil, mlerror.Newf("run not found: %s", idOrPrefix).
			WithCode(mlerror.CodeNotFound).
			WithDetail("id", idOrPrefix)
	case runs[0].ID == idOrPrefix || len(runs) == 1:
		return runs[0], nil
	default:
		return nil, mlerror.Newf("run id prefix is ambiguous: %s", idOrPrefix).
			WithCode(mlerror.CodeInvalidInput).
			WithDetail("id", idOrPrefix)
	}
}

// List returns runs, newest first
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, selectRun+`
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, dbError(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Clear deletes every run and returns the number removed
func (s *SQLiteStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, dbError(err, "failed to clear history")
	}

	n, _ := result.RowsAffected()
	return n, nil
}

// Statistics returns run counts overall and per outcome
func (s *SQLiteStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]interface{})

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&total); err != nil {
		return nil, dbError(err, "failed to count runs")
	}
	stats["total_runs"] = total

	var distinct int64
	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT digest) FROM runs`).Scan(&distinct)
	stats["distinct_sources"] = distinct

	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM runs GROUP BY outcome`)
	if err != nil {
		return nil, dbError(err, "failed to count outcomes")
	}
	defer rows.Close()

	byOutcome := make(map[string]int64)
	for rows.Next() {
		var outcome string
		var count int64
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, dbError(err, "failed to scan outcome")
		}
		byOutcome[outcome] = count
	}
	stats["by_outcome"] = byOutcome

	return stats, rows.Err()
}

// Ping checks the database connection
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return dbError(err, "history database unreachable")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var symbolsJSON sql.NullString

	err := row.Scan(&run.ID, &run.Mode, &run.SourceName, &run.Digest, &run.Source, &run.Outcome,
		&run.ErrorCode, &run.ErrorMessage, &run.TokenCount, &symbolsJSON, &run.DurationMS, &run.CreatedAt)
	if err != nil {
		return nil, dbError(err, "failed to scan run")
	}

	if symbolsJSON.Valid && symbolsJSON.String != "" {
		if err := json.Unmarshal([]byte(symbolsJSON.String), &run.Symbols); err != nil {
			return nil, dbError(err, fmt.Sprintf("corrupt symbol table for run %s", run.ID))
		}
	}

	return &run, nil
}

func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

func dbError(err error, message string) *mlerror.Error {
	return mlerror.Wrap(err, message).WithCode(mlerror.CodeDatabaseError)
}

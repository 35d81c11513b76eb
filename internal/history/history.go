// Package history records committed planner updates in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// schemaVersion is bumped when the runs table changes shape.
const schemaVersion = "1"

// Goal is one goal description as committed.
type Goal struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Run is one committed update.
type Run struct {
	ID           string    `json:"id"`
	RecordedAt   time.Time `json:"recorded_at"`
	File         string    `json:"file"`
	Branch       string    `json:"branch,omitempty"`
	Commit       string    `json:"commit,omitempty"`
	Message      string    `json:"message"`
	Pushed       bool      `json:"pushed"`
	Goals        []Goal    `json:"goals"`
	Deliverables []string  `json:"deliverables"`
}

// Store is the history database handle.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// One writer, one process; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			recorded_at INTEGER NOT NULL,   -- Unix milliseconds, UTC
			file TEXT NOT NULL,
			branch TEXT,
			commit_hash TEXT,
			message TEXT NOT NULL,
			pushed INTEGER NOT NULL DEFAULT 0,
			goals TEXT NOT NULL DEFAULT '[]',
			deliverables TEXT NOT NULL DEFAULT '[]'
		);

		CREATE INDEX IF NOT EXISTS idx_runs_recorded_at ON runs(recorded_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES ('schema_version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		schemaVersion,
	); err != nil {
		return fmt.Errorf("failed to write history schema version: %w", err)
	}
	return nil
}

// Record stores run. ID and RecordedAt are filled in when empty.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = s.now()
	}
	run.RecordedAt = run.RecordedAt.UTC()
	if run.Goals == nil {
		run.Goals = []Goal{}
	}
	if run.Deliverables == nil {
		run.Deliverables = []string{}
	}

	goals, err := json.Marshal(run.Goals)
	if err != nil {
		return run, fmt.Errorf("failed to marshal goals: %w", err)
	}
	deliverables, err := json.Marshal(run.Deliverables)
	if err != nil {
		return run, fmt.Errorf("failed to marshal deliverables: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, recorded_at, file, branch, commit_hash, message, pushed, goals, deliverables)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RecordedAt.UnixMilli(), run.File, run.Branch, run.Commit, run.Message,
		boolToInt(run.Pushed), string(goals), string(deliverables),
	)
	if err != nil {
		return run, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// Recent returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, recorded_at, file, COALESCE(branch, ''), COALESCE(commit_hash, ''),
		       message, pushed, goals, deliverables
		FROM runs
		ORDER BY recorded_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run          Run
			recordedAt   int64
			pushed       int
			goals        string
			deliverables string
		)
		if err := rows.Scan(&run.ID, &recordedAt, &run.File, &run.Branch, &run.Commit,
			&run.Message, &pushed, &goals, &deliverables); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		run.RecordedAt = time.UnixMilli(recordedAt).UTC()
		run.Pushed = pushed != 0
		if err := json.Unmarshal([]byte(goals), &run.Goals); err != nil {
			return nil, fmt.Errorf("corrupt goals in run %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(deliverables), &run.Deliverables); err != nil {
			return nil, fmt.Errorf("corrupt deliverables in run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

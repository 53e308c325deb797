// Package history persists test-case outcomes in a local sqlite database.
// History is an additive report sink; the executor never reads it back.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/restage/restage/internal/runner"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT    NOT NULL,
	started_at    TEXT    NOT NULL,
	file          TEXT    NOT NULL,
	case_name     TEXT    NOT NULL,
	outcome       TEXT    NOT NULL,
	stages        INTEGER NOT NULL,
	stages_passed INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
`

// Store manages the run-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one row per test case under the given run ID. The batch
// commits atomically.
func (s *Store) Record(runID string, startedAt time.Time, res *runner.RunResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for _, c := range res.Cases {
		passed, _ := c.StageCounts()
		_, err := tx.Exec(
			`INSERT INTO runs (run_id, started_at, file, case_name, outcome, stages, stages_passed)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, startedAt.UTC().Format(time.RFC3339), c.File, c.Name,
			string(c.Outcome), len(c.Stages), passed,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("record case %q: %w", c.Name, err)
		}
	}

	return tx.Commit()
}

// Entry is one recorded test-case outcome.
type Entry struct {
	RunID        string
	StartedAt    time.Time
	File         string
	CaseName     string
	Outcome      string
	Stages       int
	StagesPassed int
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT run_id, started_at, file, case_name, outcome, stages, stages_passed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started string
		if err := rows.Scan(&e.RunID, &started, &e.File, &e.CaseName, &e.Outcome, &e.Stages, &e.StagesPassed); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.StartedAt, err = time.Parse(time.RFC3339, started)
		if err != nil {
			return nil, fmt.Errorf("parse history timestamp: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

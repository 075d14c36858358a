// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats persists per-run discovery statistics in SQLite so repeated
// runs for the same molecule can be compared over time.
// Implements: prd012-reporting (R4);
//
//	docs/ARCHITECTURE § Run History.
package stats

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/patent-scout/pkg/types"
)

const dbFile = "patent-scout.db"

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at dataDir/patent-scout.db,
// creating the schema if it does not exist (R4.1).
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			molecule TEXT NOT NULL,
			brand TEXT,
			cid INTEGER,
			started TEXT NOT NULL,
			elapsed_ms INTEGER,
			found INTEGER,
			expected INTEGER,
			match_rate INTEGER,
			status TEXT,
			timed_out INTEGER,
			identity_degraded INTEGER,
			queries INTEGER,
			provider_errors INTEGER,
			wo_found INTEGER,
			wo_followed INTEGER,
			by_category TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_molecule ON runs(molecule)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunRow is one persisted run summary (R4.2).
type RunRow struct {
	Molecule         string
	Brand            string
	CID              int64
	Started          time.Time
	Elapsed          time.Duration
	Found            int
	Expected         int
	MatchRate        int
	Status           types.RunStatus
	TimedOut         bool
	IdentityDegraded bool
	Queries          int
	ProviderErrors   int
	WOFound          int
	WOFollowed       int
	ByCategory       map[types.Category]int
}

// Record persists a summary of the completed run (R4.2).
func (s *Store) Record(ctx context.Context, run *types.SearchRun) error {
	categoryJSON, _ := json.Marshal(run.ByCategory)

	errorCount := 0
	for _, n := range run.ProviderErrors {
		errorCount += n
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (molecule, brand, cid, started, elapsed_ms, found, expected,
			match_rate, status, timed_out, identity_degraded, queries, provider_errors,
			wo_found, wo_followed, by_category)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Identity.Name, run.Identity.Brand, run.Identity.CID,
		run.Started.UTC().Format(time.RFC3339Nano), run.Elapsed.Milliseconds(),
		run.Comparison.Found, run.Comparison.Expected, run.Comparison.MatchRate,
		string(run.Comparison.Status), boolInt(run.TimedOut), boolInt(run.IdentityDegraded),
		len(run.Queries), errorCount, run.Family.Found, run.Family.Followed,
		string(categoryJSON),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// History returns run summaries, newest first. A non-empty molecule filters
// to that molecule; limit <= 0 means all rows (R4.3).
func (s *Store) History(ctx context.Context, molecule string, limit int) ([]RunRow, error) {
	query := `SELECT molecule, brand, cid, started, elapsed_ms, found, expected,
		match_rate, status, timed_out, identity_degraded, queries, provider_errors,
		wo_found, wo_followed, by_category FROM runs`
	args := []any{}
	if molecule != "" {
		query += ` WHERE molecule = ? COLLATE NOCASE`
		args = append(args, molecule)
	}
	query += ` ORDER BY rowid DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying run history: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		var started, status, categoryJSON string
		var elapsedMS int64
		var timedOut, degraded int
		if err := rows.Scan(&r.Molecule, &r.Brand, &r.CID, &started, &elapsedMS,
			&r.Found, &r.Expected, &r.MatchRate, &status, &timedOut, &degraded,
			&r.Queries, &r.ProviderErrors, &r.WOFound, &r.WOFollowed, &categoryJSON); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.Started, _ = time.Parse(time.RFC3339Nano, started)
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		r.Status = types.RunStatus(status)
		r.TimedOut = timedOut != 0
		r.IdentityDegraded = degraded != 0
		if categoryJSON != "" {
			_ = json.Unmarshal([]byte(categoryJSON), &r.ByCategory)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary holds aggregate statistics across stored runs (R4.4).
type Summary struct {
	Runs          int
	Molecules     int
	AvgMatchRate  int
	TimedOut      int
	TotalFound    int
	TotalExpected int
}

// Summarize aggregates the stored runs.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), count(DISTINCT molecule COLLATE NOCASE),
			COALESCE(CAST(avg(match_rate) AS INTEGER), 0),
			COALESCE(sum(timed_out), 0), COALESCE(sum(found), 0), COALESCE(sum(expected), 0)
		 FROM runs`,
	).Scan(&sum.Runs, &sum.Molecules, &sum.AvgMatchRate, &sum.TimedOut, &sum.TotalFound, &sum.TotalExpected)
	if err != nil {
		return Summary{}, fmt.Errorf("summarizing runs: %w", err)
	}
	return sum, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

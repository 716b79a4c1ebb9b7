// Package store implements §5's append-only result accumulator as a
// durable sqlite table, so a tabulate run can be resumed or queried
// after the process exits. Grounded on funvibe-funxy's sqlite usage
// pattern (plain database/sql over a single table, no ORM) adapted to
// modernc.org/sqlite's pure-Go driver so the binary stays cgo-free.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/segmentio/ksuid"
	_ "modernc.org/sqlite"

	"github.com/xirdlcheck/xirdlcheck/internal/tabulate"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id       TEXT PRIMARY KEY,
	seed         INTEGER NOT NULL,
	pattern_id   TEXT NOT NULL,
	dynamic_ok   INTEGER NOT NULL,
	dynamic_code TEXT NOT NULL,
	static_attempted INTEGER NOT NULL,
	static_sat   INTEGER NOT NULL,
	mismatch     INTEGER NOT NULL,
	elapsed_ms   INTEGER NOT NULL,
	failed       INTEGER NOT NULL,
	fail_reason  TEXT NOT NULL
);`

// Store appends tabulate.Records to a sqlite database at path, one row
// per record. run_id is a ksuid, so rows sort by the second they were
// inserted in without a separate auto-increment column; rows inserted
// within the same second sort in random order, not insertion order.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Append inserts one row for rec. Failing records (rec.Error != nil)
// still get a row, with failed=1 and the panic/infra reason recorded —
// a crashed trial is itself part of the run's history.
func (s *Store) Append(ctx context.Context, rec tabulate.Record) error {
	runID := ksuid.New().String()

	failed := 0
	failReason := ""
	if rec.Error != nil {
		failed = 1
		failReason = rec.Error.Error()
	}

	dynamicOK := 0
	if rec.Dynamic.OK {
		dynamicOK = 1
	}
	staticAttempted, staticSat := 0, 0
	if rec.Static.Attempted {
		staticAttempted = 1
		if rec.Static.Sat {
			staticSat = 1
		}
	}
	mismatch := 0
	if rec.Mismatch {
		mismatch = 1
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, seed, pattern_id, dynamic_ok, dynamic_code,
			static_attempted, static_sat, mismatch, elapsed_ms, failed, fail_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, rec.Seed, rec.PatternID.String(), dynamicOK, rec.Dynamic.Code,
		staticAttempted, staticSat, mismatch, rec.Elapsed.Milliseconds(), failed, failReason,
	)
	return err
}

// AppendAll inserts every record acc currently holds. acc keeps its
// records, so a second call inserts them all again as new rows;
// cmd/tabulate calls it once, after the pool has finished.
func (s *Store) AppendAll(ctx context.Context, acc *tabulate.Accumulator) error {
	for _, rec := range acc.Records() {
		if err := s.Append(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Mismatches returns the seeds of every stored row flagged as a
// dynamic/reference disagreement, newest first (by run_id, so to the
// second).
func (s *Store) Mismatches(ctx context.Context, limit int) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seed FROM runs WHERE mismatch = 1 ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seeds []int64
	for rows.Next() {
		var seed int64
		if err := rows.Scan(&seed); err != nil {
			return nil, err
		}
		seeds = append(seeds, seed)
	}
	return seeds, rows.Err()
}

// CodeBreakdown groups stored rows' diag.Kind codes by frequency, for
// cmd/tabulate's report: which abort kinds the corpus actually exercises.
type CodeBreakdown struct {
	Code  string
	Count int64
}

func (s *Store) CodeBreakdown(ctx context.Context) ([]CodeBreakdown, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dynamic_code, COUNT(*) FROM runs
		WHERE dynamic_ok = 0
		GROUP BY dynamic_code
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CodeBreakdown
	for rows.Next() {
		var b CodeBreakdown
		if err := rows.Scan(&b.Code, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Totals reports row and failure counts across the whole store, for
// cmd/tabulate's headline summary.
type Totals struct {
	Rows, DynamicOK, Failed, Mismatch int64
}

func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(dynamic_ok), 0),
		       COALESCE(SUM(failed), 0),
		       COALESCE(SUM(mismatch), 0)
		FROM runs`).Scan(&t.Rows, &t.DynamicOK, &t.Failed, &t.Mismatch)
	return t, err
}

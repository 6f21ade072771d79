package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"unitbench/internal/benchmark"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		suite TEXT NOT NULL,
		started_at BIGINT NOT NULL,
		commit_hash TEXT NOT NULL DEFAULT '',
		warmup INTEGER NOT NULL,
		repeats INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		input TEXT NOT NULL,
		samples TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_suite_started ON runs(suite, started_at)`,
}

// history is the SQL history store shared by the SQLite and Postgres backends.
// Queries are written with ? placeholders and rebound per driver.
type history struct {
	db     *sql.DB
	rebind func(string) string
}

func (h *history) migrate(ctx context.Context) error {
	for _, q := range schema {
		if _, err := h.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func (h *history) Close() error {
	return h.db.Close()
}

// Save stores a run and its results in one transaction.
func (h *history) Save(run benchmark.Run) error {
	ctx := context.Background()
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		h.rebind(`INSERT INTO runs (id, suite, started_at, commit_hash, warmup, repeats) VALUES (?, ?, ?, ?, ?, ?)`),
		run.ID, run.Suite, run.Timestamp.UnixNano(), run.Commit, run.Warmup, run.Repeats)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	insert := h.rebind(`INSERT INTO results (run_id, position, name, input, samples) VALUES (?, ?, ?, ?, ?)`)
	for i, res := range run.Results {
		samples, err := json.Marshal(res.Samples)
		if err != nil {
			return fmt.Errorf("failed to marshal samples: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insert, run.ID, i, res.Name, res.Input, string(samples)); err != nil {
			return fmt.Errorf("failed to insert result %s[%s]: %w", res.Name, res.Input, err)
		}
	}

	return tx.Commit()
}

// LoadAll returns the runs of suite, oldest first. An empty suite matches all.
func (h *history) LoadAll(suite string) ([]benchmark.Run, error) {
	return h.query(
		`SELECT id, suite, started_at, commit_hash, warmup, repeats FROM runs WHERE (? = '' OR suite = ?) ORDER BY started_at ASC`,
		suite, suite)
}

// LoadLatest returns the most recent run of suite, or nil when there is none.
func (h *history) LoadLatest(suite string) (*benchmark.Run, error) {
	runs, err := h.query(
		`SELECT id, suite, started_at, commit_hash, warmup, repeats FROM runs WHERE (? = '' OR suite = ?) ORDER BY started_at DESC LIMIT 1`,
		suite, suite)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (h *history) query(q string, args ...any) ([]benchmark.Run, error) {
	ctx := context.Background()
	rows, err := h.db.QueryContext(ctx, h.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}

	var runs []benchmark.Run
	for rows.Next() {
		var (
			r       benchmark.Run
			started int64
		)
		if err := rows.Scan(&r.ID, &r.Suite, &started, &r.Commit, &r.Warmup, &r.Repeats); err != nil {
			rows.Close()
			return nil, err
		}
		r.Timestamp = time.Unix(0, started).UTC()
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range runs {
		results, err := h.results(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Results = results
	}
	return runs, nil
}

func (h *history) results(ctx context.Context, runID string) ([]benchmark.Result, error) {
	rows, err := h.db.QueryContext(ctx,
		h.rebind(`SELECT name, input, samples FROM results WHERE run_id = ? ORDER BY position ASC`), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results of run %s: %w", runID, err)
	}
	defer rows.Close()

	var results []benchmark.Result
	for rows.Next() {
		var name, input, raw string
		if err := rows.Scan(&name, &input, &raw); err != nil {
			return nil, err
		}
		var samples []benchmark.TimeSample
		if err := json.Unmarshal([]byte(raw), &samples); err != nil {
			return nil, fmt.Errorf("failed to unmarshal samples of %s[%s]: %w", name, input, err)
		}
		results = append(results, benchmark.NewResult(name, input, samples))
	}
	return results, rows.Err()
}

func questionMarks(q string) string { return q }

// dollarPlaceholders rewrites ? placeholders as $1, $2, ...
func dollarPlaceholders(q string) string {
	var sb strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

package history

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/reusee/plaintest/suites"
	_ "modernc.org/sqlite"
)

// History persists method results across invocations.
type History struct {
	db *sql.DB
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS invocations (
	id TEXT PRIMARY KEY,
	started TEXT NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS results (
	invocation TEXT NOT NULL,
	suite TEXT NOT NULL,
	run INTEGER NOT NULL,
	method TEXT NOT NULL,
	checks INTEGER NOT NULL,
	passed INTEGER NOT NULL,
	PRIMARY KEY (invocation, suite, run, method)
)`,
	`CREATE TABLE IF NOT EXISTS failures (
	invocation TEXT NOT NULL,
	suite TEXT NOT NULL,
	run INTEGER NOT NULL,
	method TEXT NOT NULL,
	seq INTEGER NOT NULL,
	message TEXT NOT NULL,
	PRIMARY KEY (invocation, suite, run, method, seq)
)`,
}

func Open(path string) (*History, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	for _, table := range tables {
		if _, err := db.Exec(table); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}
	return &History{
		db: db,
	}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

// Record stores every run of every registered case under invocation id.
func (h *History) Record(ctx context.Context, id string, started time.Time, registry *suites.Registry) (err error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO invocations (id, started) VALUES (?, ?)",
		id, started.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("saving invocation %s: %w", id, err)
	}

	for c := range registry.Cases {
		for r, run := range c.Runs {
			for method, result := range run {
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO results (invocation, suite, run, method, checks, passed) VALUES (?, ?, ?, ?, ?, ?)",
					id, c.Name, r, method, result.Checks, result.Passed,
				); err != nil {
					return fmt.Errorf("saving result %s.%s: %w", c.Name, method, err)
				}
				for seq, message := range result.Failures {
					if _, err := tx.ExecContext(ctx,
						"INSERT INTO failures (invocation, suite, run, method, seq, message) VALUES (?, ?, ?, ?, ?, ?)",
						id, c.Name, r, method, seq, message,
					); err != nil {
						return fmt.Errorf("saving failure %s.%s: %w", c.Name, method, err)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Invocations returns the number of recorded invocations.
func (h *History) Invocations(ctx context.Context) (n int, err error) {
	err = h.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM invocations").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting invocations: %w", err)
	}
	return
}

type runKey struct {
	invocation string
	run        int
}

// Flaky returns the methods of suite whose set of failures differs between
// recorded runs, sorted by name.
func (h *History) Flaky(ctx context.Context, suite string) ([]string, error) {
	outcomes := make(map[string]map[runKey][]string)

	rows, err := h.db.QueryContext(ctx,
		"SELECT invocation, run, method FROM results WHERE suite = ?",
		suite,
	)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	for rows.Next() {
		var key runKey
		var method string
		if err := rows.Scan(&key.invocation, &key.run, &method); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		if outcomes[method] == nil {
			outcomes[method] = make(map[runKey][]string)
		}
		outcomes[method][key] = nil
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}

	rows, err = h.db.QueryContext(ctx,
		"SELECT invocation, run, method, message FROM failures WHERE suite = ?",
		suite,
	)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key runKey
		var method, message string
		if err := rows.Scan(&key.invocation, &key.run, &method, &message); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		if outcomes[method] == nil {
			continue
		}
		outcomes[method][key] = append(outcomes[method][key], message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}

	var ret []string
	for method, runs := range outcomes {
		distinct := make(map[string]bool)
		for _, messages := range runs {
			slices.Sort(messages)
			distinct[strings.Join(messages, "\x00")] = true
		}
		if len(distinct) > 1 {
			ret = append(ret, method)
		}
	}
	slices.Sort(ret)
	return ret, nil
}

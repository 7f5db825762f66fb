// store.go
//
// SQLite persistence for harness runs. Ordering anomalies are rare
// events; the interesting analysis is longitudinal (did this kernel,
// this toolchain, this silicon ever reorder), so every run lands in a
// durable table keyed by run id.

package litmus

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the runs database.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	goos        TEXT NOT NULL,
	goarch      TEXT NOT NULL,
	num_cpu     INTEGER NOT NULL,
	fingerprint TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id         TEXT NOT NULL REFERENCES runs(run_id),
	test           TEXT NOT NULL,
	iterations     INTEGER NOT NULL,
	ordered        INTEGER NOT NULL,
	reordered      INTEGER NOT NULL,
	elapsed_ns     INTEGER NOT NULL,
	expect_ordered INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS results_by_test ON results(test, run_id);
`

// OpenStore opens (and if needed initializes) the database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists a report atomically.
func (s *Store) Save(r Report) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, created_at, goos, goarch, num_cpu, fingerprint)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID, r.CreatedAt.UnixNano(), r.GOOS, r.GOARCH, r.NumCPU, r.Fingerprint,
	)
	if err != nil {
		return fmt.Errorf("store: insert run %s: %w", r.RunID, err)
	}

	ins, err := tx.Prepare(
		`INSERT INTO results (run_id, test, iterations, ordered, reordered, elapsed_ns, expect_ordered)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare results insert: %w", err)
	}
	defer ins.Close()

	for _, res := range r.Results {
		expect := 0
		if res.ExpectOrdered {
			expect = 1
		}
		if _, err := ins.Exec(
			r.RunID, res.Test, res.Iterations, res.Ordered, res.Reordered,
			res.ElapsedNS, expect,
		); err != nil {
			return fmt.Errorf("store: insert result %s/%s: %w", r.RunID, res.Test, err)
		}
	}
	return tx.Commit()
}

// Reports returns the most recent runs, newest first, with their
// results attached.
func (s *Store) Reports(limit int) ([]Report, error) {
	rows, err := s.db.Query(
		`SELECT run_id, created_at, goos, goarch, num_cpu, fingerprint
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		var createdNS int64
		if err := rows.Scan(&r.RunID, &createdNS, &r.GOOS, &r.GOARCH, &r.NumCPU, &r.Fingerprint); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		r.CreatedAt = time.Unix(0, createdNS).UTC()
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate runs: %w", err)
	}

	for i := range reports {
		results, err := s.resultsFor(reports[i].RunID)
		if err != nil {
			return nil, err
		}
		reports[i].Results = results
	}
	return reports, nil
}

// HistoryEntry is one test's outcome in one stored run.
type HistoryEntry struct {
	RunID     string
	CreatedAt time.Time
	GOARCH    string
	Result    Result
}

// History returns a test's outcomes across stored runs, newest first.
func (s *Store) History(test string, limit int) ([]HistoryEntry, error) {
	rows, err := s.db.Query(
		`SELECT r.run_id, r.created_at, r.goarch,
		        res.test, res.iterations, res.ordered, res.reordered, res.elapsed_ns, res.expect_ordered
		 FROM results res JOIN runs r ON r.run_id = res.run_id
		 WHERE res.test = ?
		 ORDER BY r.created_at DESC LIMIT ?`, test, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query history for %s: %w", test, err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var createdNS int64
		var expect int
		if err := rows.Scan(
			&e.RunID, &createdNS, &e.GOARCH,
			&e.Result.Test, &e.Result.Iterations, &e.Result.Ordered,
			&e.Result.Reordered, &e.Result.ElapsedNS, &expect,
		); err != nil {
			return nil, fmt.Errorf("store: scan history row: %w", err)
		}
		e.CreatedAt = time.Unix(0, createdNS).UTC()
		e.Result.ExpectOrdered = expect != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) resultsFor(runID string) ([]Result, error) {
	rows, err := s.db.Query(
		`SELECT test, iterations, ordered, reordered, elapsed_ns, expect_ordered
		 FROM results WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query results for %s: %w", runID, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		var expect int
		if err := rows.Scan(&res.Test, &res.Iterations, &res.Ordered,
			&res.Reordered, &res.ElapsedNS, &expect); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		res.ExpectOrdered = expect != 0
		results = append(results, res)
	}
	return results, rows.Err()
}

// Package store persists the runs internal/api starts: a row written
// when a run begins and updated with its result when it finishes.
// internal/api answers its GET endpoints from memory, not from these
// rows, and cmd/stunsched does not read them. Grounded on the teacher's
// internal/infra/sqlite package: a phase-numbered CREATE TABLE IF NOT
// EXISTS migration list applied at open time, a thin *DB wrapping
// *sql.DB, and query methods that hand-scan rows rather than reaching
// for an ORM.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection and applies the schema migrations on
// Open.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at path and
// applies every pending migration.
func Open(path string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite handles one writer at a time; cap the pool so the
	// database/sql layer doesn't fan out concurrent writers that would
	// just serialize behind SQLite's own lock anyway.
	sqlDB.SetMaxOpenConns(1)

	db := &DB{db: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error { return db.db.Close() }

// RunMigrations returns the schema migration statements, one per
// statement (SQLite executes one at a time).
func RunMigrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id               TEXT PRIMARY KEY,
			project_name     TEXT NOT NULL DEFAULT '',
			tuning_json      TEXT NOT NULL,
			status           TEXT NOT NULL DEFAULT 'running',
			makespan_seconds REAL,
			schedule_json    TEXT,
			error            TEXT,
			created_at       TEXT NOT NULL DEFAULT (datetime('now')),
			finished_at      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at)`,

		`CREATE TABLE IF NOT EXISTS histogram_runs (
			run_id       TEXT NOT NULL,
			bin_low      REAL NOT NULL,
			bin_count    INTEGER NOT NULL,
			PRIMARY KEY (run_id, bin_low)
		)`,
	}
}

func (db *DB) migrate() error {
	for _, stmt := range RunMigrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration %q: %w", stmt, err)
		}
	}
	return nil
}

// RunStatus is the lifecycle state of a persisted run.
type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunDone    RunStatus = "done"
	RunFailed  RunStatus = "failed"
)

// InsertRun records a newly started run. tuning is marshaled to JSON
// for storage; the caller is expected to pass something JSON-encodable
// (stun.Tuning satisfies this with its exported fields).
func (db *DB) InsertRun(id, projectName string, tuning any) error {
	tuningJSON, err := json.Marshal(tuning)
	if err != nil {
		return fmt.Errorf("marshal tuning: %w", err)
	}
	_, err = db.db.Exec(`
		INSERT INTO runs (id, project_name, tuning_json, status, created_at)
		VALUES (?, ?, ?, ?, datetime('now'))
	`, id, projectName, string(tuningJSON), RunRunning)
	return err
}

// CompleteRun records a run's final makespan and full schedule (the
// caller JSON-marshals whatever result type it's using — typically
// predict.OptimizedSchedule).
func (db *DB) CompleteRun(id string, makespanSeconds float64, schedule any) error {
	scheduleJSON, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	_, err = db.db.Exec(`
		UPDATE runs
		SET status = ?, makespan_seconds = ?, schedule_json = ?, finished_at = datetime('now')
		WHERE id = ?
	`, RunDone, makespanSeconds, string(scheduleJSON), id)
	return err
}

// FailRun records that a run ended in error.
func (db *DB) FailRun(id string, cause error) error {
	_, err := db.db.Exec(`
		UPDATE runs
		SET status = ?, error = ?, finished_at = datetime('now')
		WHERE id = ?
	`, RunFailed, cause.Error(), id)
	return err
}

// RunRecord is one row of the runs table, with schedule_json left as
// raw bytes for the caller to unmarshal into its own result type.
type RunRecord struct {
	ID              string
	ProjectName     string
	TuningJSON      string
	Status          RunStatus
	MakespanSeconds sql.NullFloat64
	ScheduleJSON    sql.NullString
	Error           sql.NullString
	CreatedAt       time.Time
	FinishedAt      sql.NullTime
}

// GetRun fetches one run by id. Returns sql.ErrNoRows if absent.
func (db *DB) GetRun(id string) (*RunRecord, error) {
	var r RunRecord
	var status string
	var createdAt string
	var finishedAt sql.NullString

	err := db.db.QueryRow(`
		SELECT id, project_name, tuning_json, status, makespan_seconds, schedule_json, error, created_at, finished_at
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.ProjectName, &r.TuningJSON, &status, &r.MakespanSeconds, &r.ScheduleJSON, &r.Error, &createdAt, &finishedAt)
	if err != nil {
		return nil, err
	}
	r.Status = RunStatus(status)
	r.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
	if finishedAt.Valid {
		t, _ := time.Parse("2006-01-02 15:04:05", finishedAt.String)
		r.FinishedAt = sql.NullTime{Time: t, Valid: true}
	}
	return &r, nil
}

// ListRuns returns the most recently created runs, newest first,
// bounded to limit rows.
func (db *DB) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := db.db.Query(`
		SELECT id, project_name, tuning_json, status, makespan_seconds, schedule_json, error, created_at, finished_at
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var status, createdAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&r.ID, &r.ProjectName, &r.TuningJSON, &status, &r.MakespanSeconds, &r.ScheduleJSON, &r.Error, &createdAt, &finishedAt); err != nil {
			return nil, err
		}
		r.Status = RunStatus(status)
		r.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", createdAt)
		if finishedAt.Valid {
			t, _ := time.Parse("2006-01-02 15:04:05", finishedAt.String)
			r.FinishedAt = sql.NullTime{Time: t, Valid: true}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertHistogramBucket persists one histogram bucket for a run. A
// second call with the same run and bin_low overwrites that bucket's
// count.
func (db *DB) InsertHistogramBucket(runID string, binLow float64, count int) error {
	_, err := db.db.Exec(`
		INSERT INTO histogram_runs (run_id, bin_low, bin_count)
		VALUES (?, ?, ?)
		ON CONFLICT(run_id, bin_low) DO UPDATE SET bin_count = excluded.bin_count
	`, runID, binLow, count)
	return err
}

// HistogramBucket is one row of a run's persisted histogram.
type HistogramBucket struct {
	BinLow float64
	Count  int
}

// GetHistogram returns every bucket persisted for a run, ordered by
// bin_low ascending.
func (db *DB) GetHistogram(runID string) ([]HistogramBucket, error) {
	rows, err := db.db.Query(`
		SELECT bin_low, bin_count FROM histogram_runs WHERE run_id = ? ORDER BY bin_low ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistogramBucket
	for rows.Next() {
		var b HistogramBucket
		if err := rows.Scan(&b.BinLow, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

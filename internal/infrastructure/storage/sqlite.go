package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for runs, import batches and
// ledger snapshots. It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	// Foreign keys are enabled per connection, so request them in the DSN
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; one connection also keeps :memory: databases shared
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// StartRun records the start of a run
func (s *Storage) StartRun(run *Run) error {
	if run.ID == "" {
		return errors.New("run ID is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = RunStatusRunning

	_, err := s.db.Exec(`
		INSERT INTO reconcile_runs
		(id, activity_source, ledger_source, period_start, period_end, started_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.ActivitySource, run.LedgerSource, run.PeriodStart, run.PeriodEnd, run.StartedAt, run.Status)
	return err
}

// CompleteRun records the outcome counts of a finished run
func (s *Storage) CompleteRun(runID string, counts RunCounts) error {
	res, err := s.db.Exec(`
		UPDATE reconcile_runs
		SET completed_at = ?, status = ?, total_events = ?, total_entries = ?,
		    matched = ?, missing = ?, ledger_only = ?
		WHERE id = ?
	`, time.Now().UTC(), RunStatusCompleted, counts.TotalEvents, counts.TotalEntries,
		counts.Matched, counts.Missing, counts.LedgerOnly, runID)
	if err != nil {
		return err
	}
	return requireRow(res, "run "+runID)
}

// FailRun marks a run as failed
func (s *Storage) FailRun(runID string, message string) error {
	res, err := s.db.Exec(`
		UPDATE reconcile_runs SET completed_at = ?, status = ?, error_message = ? WHERE id = ?
	`, time.Now().UTC(), RunStatusFailed, message, runID)
	if err != nil {
		return err
	}
	return requireRow(res, "run "+runID)
}

const runColumns = `id, activity_source, ledger_source, period_start, period_end, started_at,
	completed_at, status, error_message, total_events, total_entries, matched, missing, ledger_only`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	run := &Run{}
	var completedAt sql.NullTime
	err := row.Scan(
		&run.ID,
		&run.ActivitySource,
		&run.LedgerSource,
		&run.PeriodStart,
		&run.PeriodEnd,
		&run.StartedAt,
		&completedAt,
		&run.Status,
		&run.ErrorMessage,
		&run.TotalEvents,
		&run.TotalEntries,
		&run.Matched,
		&run.Missing,
		&run.LedgerOnly,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return run, nil
}

// GetRun retrieves a run by ID
func (s *Storage) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM reconcile_runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// ListRuns returns recent runs, newest first
func (s *Storage) ListRuns(filters RunFilters) ([]Run, error) {
	var where []string
	var args []any
	if filters.ActivitySource != "" {
		where = append(where, "activity_source = ?")
		args = append(args, filters.ActivitySource)
	}
	if filters.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filters.Status)
	}

	query := `SELECT ` + runColumns + ` FROM reconcile_runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limitOrDefault(filters.Limit, 20))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// SaveRecords stores the classified records of a run in one transaction
func (s *Storage) SaveRecords(runID string, records []RunRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_records
		(run_id, status, date, task_key, description, project, action, target, duration, tags_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		tagsJSON, err := marshalTags(r.Tags)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := stmt.Exec(runID, r.Status, r.Date, r.TaskKey, r.Description, r.Project,
			r.Action, r.Target, r.Duration, tagsJSON); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save record %s %s: %w", r.Date, r.TaskKey, err)
		}
	}

	return tx.Commit()
}

// ListRecords returns the records of a run, optionally filtered by status
func (s *Storage) ListRecords(runID string, status string) ([]RunRecord, error) {
	query := `
		SELECT id, run_id, status, date, task_key, description, project, action, target, duration, tags_json
		FROM run_records WHERE run_id = ?`
	args := []any{runID}
	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	records := make([]RunRecord, 0)
	for rows.Next() {
		var r RunRecord
		var tagsJSON string
		if err := rows.Scan(&r.ID, &r.RunID, &r.Status, &r.Date, &r.TaskKey, &r.Description,
			&r.Project, &r.Action, &r.Target, &r.Duration, &tagsJSON); err != nil {
			return nil, err
		}
		if r.Tags, err = unmarshalTags(tagsJSON); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found", what)
	}
	return nil
}

func limitOrDefault(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return limit
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	return string(data), err
}

func unmarshalTags(data string) ([]string, error) {
	tags := []string{}
	if data == "" {
		return tags, nil
	}
	if err := json.Unmarshal([]byte(data), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	return tags, nil
}

package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// SaveSnapshot stores a snapshot with its entries
func (s *Storage) SaveSnapshot(snapshot *Snapshot) error {
	if snapshot.ID == "" {
		return errors.New("snapshot ID is required")
	}
	if snapshot.TakenAt.IsZero() {
		snapshot.TakenAt = time.Now().UTC()
	}
	entries := snapshot.Entries
	if entries == nil {
		entries = []worklog.LedgerEntry{}
	}
	snapshot.EntryCount = len(entries)

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot entries: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO ledger_snapshots (id, source, taken_at, period_start, period_end, entry_count, entries_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, snapshot.ID, snapshot.Source, snapshot.TakenAt, snapshot.PeriodStart, snapshot.PeriodEnd,
		snapshot.EntryCount, string(data))
	return err
}

// GetSnapshot retrieves a snapshot with its entries
func (s *Storage) GetSnapshot(id string) (*Snapshot, error) {
	snap := &Snapshot{}
	var data string
	err := s.db.QueryRow(`
		SELECT id, source, taken_at, period_start, period_end, entry_count, entries_json
		FROM ledger_snapshots WHERE id = ?
	`, id).Scan(&snap.ID, &snap.Source, &snap.TakenAt, &snap.PeriodStart, &snap.PeriodEnd, &snap.EntryCount, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(data), &snap.Entries); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", id, err)
	}
	return snap, nil
}

// ListSnapshots returns snapshot metadata, newest first
func (s *Storage) ListSnapshots(source string, limit int) ([]Snapshot, error) {
	query := `SELECT id, source, taken_at, period_start, period_end, entry_count FROM ledger_snapshots`
	var args []any
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	query += " ORDER BY taken_at DESC LIMIT ?"
	args = append(args, limitOrDefault(limit, 20))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	snapshots := make([]Snapshot, 0)
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.Source, &snap.TakenAt, &snap.PeriodStart, &snap.PeriodEnd, &snap.EntryCount); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

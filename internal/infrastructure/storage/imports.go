package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// SaveImportEntries stores a batch for a run and sets each entry's ID
func (s *Storage) SaveImportEntries(runID string, entries []*ImportEntry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	for _, e := range entries {
		tagsJSON, err := marshalTags(e.Tags)
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		res, err := tx.Exec(`
			INSERT INTO import_entries (run_id, description, start, duration, project_name, tags_json, squashed)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, e.Description, e.Start, e.Duration, e.ProjectName, tagsJSON, e.Squashed)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save import entry %q: %w", e.Description, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		e.ID = id
		e.RunID = runID
	}

	return tx.Commit()
}

// ListImportEntries returns the batch of a run in insertion order
func (s *Storage) ListImportEntries(runID string) ([]ImportEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, description, start, duration, project_name, tags_json, squashed, imported_at, ledger_entry_id
		FROM import_entries WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make([]ImportEntry, 0)
	for rows.Next() {
		var e ImportEntry
		var tagsJSON string
		var importedAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.RunID, &e.Description, &e.Start, &e.Duration, &e.ProjectName,
			&tagsJSON, &e.Squashed, &importedAt, &e.LedgerEntryID); err != nil {
			return nil, err
		}
		if e.Tags, err = unmarshalTags(tagsJSON); err != nil {
			return nil, err
		}
		if importedAt.Valid {
			t := importedAt.Time
			e.ImportedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClaimTTL is how long a claim holds before another importer may take the
// entry over, so a crashed import does not block its batch forever.
const ClaimTTL = 10 * time.Minute

// ClaimImportEntry reserves an entry with a conditional update, so two
// importers sharing the database never both create it
func (s *Storage) ClaimImportEntry(entryID int64) (bool, error) {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE import_entries SET claimed_at = ?
		WHERE id = ? AND imported_at IS NULL AND (claimed_at IS NULL OR claimed_at < ?)
	`, now, entryID, now.Add(-ClaimTTL))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ReleaseImportEntry drops the claim on an entry that was not imported
func (s *Storage) ReleaseImportEntry(entryID int64) error {
	_, err := s.db.Exec(`
		UPDATE import_entries SET claimed_at = NULL WHERE id = ? AND imported_at IS NULL
	`, entryID)
	return err
}

// MarkImported records that an entry was created in the ledger
func (s *Storage) MarkImported(entryID int64, ledgerEntryID int64) error {
	res, err := s.db.Exec(`
		UPDATE import_entries SET imported_at = ?, ledger_entry_id = ? WHERE id = ?
	`, time.Now().UTC(), ledgerEntryID, entryID)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("import entry %d", entryID))
}

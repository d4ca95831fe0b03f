package storage

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory mock)
// and makes testing with mocks straightforward.
type Repository interface {
	RunRepository
	ImportRepository
	SnapshotRepository
	Close() error
}

// RunRepository handles reconciliation run tracking.
// Getters return (nil, nil) when nothing matches.
type RunRepository interface {
	// StartRun records the start of a run; run.ID must be set
	StartRun(run *Run) error

	// CompleteRun records the outcome counts of a finished run
	CompleteRun(runID string, counts RunCounts) error

	// FailRun marks a run as failed with the given message
	FailRun(runID string, message string) error

	// GetRun retrieves a run by ID
	GetRun(runID string) (*Run, error)

	// ListRuns returns recent runs, newest first
	ListRuns(filters RunFilters) ([]Run, error)

	// SaveRecords stores the classified records of a run
	SaveRecords(runID string, records []RunRecord) error

	// ListRecords returns the records of a run, optionally filtered by status
	ListRecords(runID string, status string) ([]RunRecord, error)
}

// RunFilters defines filters for listing runs
type RunFilters struct {
	ActivitySource string // Filter by activity source (empty = all)
	Status         string // Filter by run status (empty = all)
	Limit          int    // Max results (0 = default 20)
}

// ImportRepository handles generated import batches
type ImportRepository interface {
	// SaveImportEntries stores a batch for a run and sets each entry's ID
	SaveImportEntries(runID string, entries []*ImportEntry) error

	// ListImportEntries returns the batch of a run in insertion order
	ListImportEntries(runID string) ([]ImportEntry, error)

	// ClaimImportEntry reserves a not yet imported entry for one importer.
	// It returns false when the entry is imported or claimed by someone else.
	ClaimImportEntry(entryID int64) (bool, error)

	// ReleaseImportEntry drops the claim on an entry that failed to import
	ReleaseImportEntry(entryID int64) error

	// MarkImported records that an entry was created in the ledger
	MarkImported(entryID int64, ledgerEntryID int64) error
}

// SnapshotRepository handles stored ledger snapshots
type SnapshotRepository interface {
	// SaveSnapshot stores a snapshot; snapshot.ID must be set
	SaveSnapshot(snapshot *Snapshot) error

	// GetSnapshot retrieves a snapshot with its entries
	GetSnapshot(id string) (*Snapshot, error)

	// ListSnapshots returns snapshot metadata (without entries), newest first
	ListSnapshots(source string, limit int) ([]Snapshot, error)
}

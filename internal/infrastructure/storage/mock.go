package storage

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	mu           sync.Mutex
	runs         map[string]*Run
	runOrder     []string
	records      map[string][]RunRecord
	imports      map[string][]*ImportEntry
	claims       map[int64]bool
	snapshots    map[string]*Snapshot
	nextRecordID int64
	nextImportID int64

	// Hooks for test assertions
	StartRunCalled     bool
	CompleteRunCalled  bool
	FailRunCalled      bool
	SaveSnapshotCalled bool
	MarkImportedCalls  int

	// Error injection for testing error paths
	StartRunErr     error
	CompleteRunErr  error
	SaveRecordsErr  error
	SaveImportErr   error
	SaveSnapshotErr error
	ListRunsErr     error
	GetRunErr       error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs:         make(map[string]*Run),
		records:      make(map[string][]RunRecord),
		imports:      make(map[string][]*ImportEntry),
		snapshots:    make(map[string]*Snapshot),
		claims:       make(map[int64]bool),
		nextRecordID: 1,
		nextImportID: 1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// StartRun records the start of a run
func (m *MockRepository) StartRun(run *Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartRunCalled = true
	if m.StartRunErr != nil {
		return m.StartRunErr
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = RunStatusRunning
	stored := *run
	m.runs[run.ID] = &stored
	m.runOrder = append(m.runOrder, run.ID)
	return nil
}

// CompleteRun records the outcome counts of a finished run
func (m *MockRepository) CompleteRun(runID string, counts RunCounts) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteRunCalled = true
	if m.CompleteRunErr != nil {
		return m.CompleteRunErr
	}
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Status = RunStatusCompleted
	run.RunCounts = counts
	return nil
}

// FailRun marks a run as failed
func (m *MockRepository) FailRun(runID string, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailRunCalled = true
	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	now := time.Now().UTC()
	run.CompletedAt = &now
	run.Status = RunStatusFailed
	run.ErrorMessage = message
	return nil
}

// GetRun retrieves a run by ID
func (m *MockRepository) GetRun(runID string) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRunErr != nil {
		return nil, m.GetRunErr
	}
	run, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

// ListRuns returns runs, most recently started first
func (m *MockRepository) ListRuns(filters RunFilters) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListRunsErr != nil {
		return nil, m.ListRunsErr
	}
	limit := limitOrDefault(filters.Limit, 20)
	runs := make([]Run, 0)
	for _, id := range slices.Backward(m.runOrder) {
		run := m.runs[id]
		if filters.ActivitySource != "" && run.ActivitySource != filters.ActivitySource {
			continue
		}
		if filters.Status != "" && run.Status != filters.Status {
			continue
		}
		runs = append(runs, *run)
		if len(runs) == limit {
			break
		}
	}
	return runs, nil
}

// SaveRecords stores the classified records of a run
func (m *MockRepository) SaveRecords(runID string, records []RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveRecordsErr != nil {
		return m.SaveRecordsErr
	}
	for _, r := range records {
		r.ID = m.nextRecordID
		r.RunID = runID
		m.nextRecordID++
		m.records[runID] = append(m.records[runID], r)
	}
	return nil
}

// ListRecords returns the records of a run, optionally filtered by status
func (m *MockRepository) ListRecords(runID string, status string) ([]RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RunRecord, 0)
	for _, r := range m.records[runID] {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

// SaveImportEntries stores a batch and assigns IDs
func (m *MockRepository) SaveImportEntries(runID string, entries []*ImportEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveImportErr != nil {
		return m.SaveImportErr
	}
	for _, e := range entries {
		e.ID = m.nextImportID
		e.RunID = runID
		m.nextImportID++
		stored := *e
		m.imports[runID] = append(m.imports[runID], &stored)
	}
	return nil
}

// ListImportEntries returns the batch of a run
func (m *MockRepository) ListImportEntries(runID string) ([]ImportEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ImportEntry, 0, len(m.imports[runID]))
	for _, e := range m.imports[runID] {
		out = append(out, *e)
	}
	return out, nil
}

// ClaimImportEntry reserves an entry that is neither imported nor claimed
func (m *MockRepository) ClaimImportEntry(entryID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.findImport(entryID)
	if e == nil {
		return false, nil
	}
	if e.ImportedAt != nil || m.claims[entryID] {
		return false, nil
	}
	m.claims[entryID] = true
	return true, nil
}

// ReleaseImportEntry drops a claim
func (m *MockRepository) ReleaseImportEntry(entryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.claims, entryID)
	return nil
}

func (m *MockRepository) findImport(entryID int64) *ImportEntry {
	for _, batch := range m.imports {
		for _, e := range batch {
			if e.ID == entryID {
				return e
			}
		}
	}
	return nil
}

// MarkImported records that an entry was created in the ledger
func (m *MockRepository) MarkImported(entryID int64, ledgerEntryID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MarkImportedCalls++
	e := m.findImport(entryID)
	if e == nil {
		return fmt.Errorf("import entry %d not found", entryID)
	}
	now := time.Now().UTC()
	e.ImportedAt = &now
	e.LedgerEntryID = ledgerEntryID
	delete(m.claims, entryID)
	return nil
}

// SaveSnapshot stores a snapshot
func (m *MockRepository) SaveSnapshot(snapshot *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveSnapshotCalled = true
	if m.SaveSnapshotErr != nil {
		return m.SaveSnapshotErr
	}
	if snapshot.TakenAt.IsZero() {
		snapshot.TakenAt = time.Now().UTC()
	}
	snapshot.EntryCount = len(snapshot.Entries)
	stored := *snapshot
	m.snapshots[snapshot.ID] = &stored
	return nil
}

// GetSnapshot retrieves a snapshot with its entries
func (m *MockRepository) GetSnapshot(id string) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.snapshots[id]
	if !ok {
		return nil, nil
	}
	copied := *snap
	return &copied, nil
}

// ListSnapshots returns snapshot metadata, newest first
func (m *MockRepository) ListSnapshots(source string, limit int) ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Snapshot, 0, len(m.snapshots))
	for _, snap := range m.snapshots {
		if source != "" && snap.Source != source {
			continue
		}
		meta := *snap
		meta.Entries = nil
		out = append(out, meta)
	}
	slices.SortFunc(out, func(a, b Snapshot) int { return b.TakenAt.Compare(a.TakenAt) })
	if limit = limitOrDefault(limit, 20); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op for the mock
func (m *MockRepository) Close() error {
	return nil
}

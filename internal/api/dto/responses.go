package dto

import (
	"time"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/differ"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// RunResponse represents a reconciliation run in API responses.
type RunResponse struct {
	ID             string `json:"id"`
	ActivitySource string `json:"activity_source"`
	LedgerSource   string `json:"ledger_source"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
	Status         string `json:"status"`
	ErrorMessage   string `json:"error_message,omitempty"`
	TotalEvents    int    `json:"total_events"`
	TotalEntries   int    `json:"total_entries"`
	Matched        int    `json:"matched"`
	Missing        int    `json:"missing"`
	LedgerOnly     int    `json:"ledger_only"`
}

// RunListResponse is returned when listing runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// RecordResponse is one classified record of a run.
type RecordResponse struct {
	Status      string   `json:"status"`
	Date        string   `json:"date"`
	TaskKey     string   `json:"task_key"`
	Description string   `json:"description,omitempty"`
	Project     string   `json:"project"`
	Action      string   `json:"action,omitempty"`
	Target      string   `json:"target,omitempty"`
	Duration    float64  `json:"duration,omitempty"`
	Tags        []string `json:"tags"`
}

// RecordListResponse is returned when listing the records of a run.
type RecordListResponse struct {
	RunID   string           `json:"run_id"`
	Status  string           `json:"status,omitempty"`
	Records []RecordResponse `json:"records"`
	Count   int              `json:"count"`
}

// ImportEntryResponse is one entry of a run's import batch.
type ImportEntryResponse struct {
	ID            int64    `json:"id"`
	Description   string   `json:"description"`
	Start         string   `json:"start"`
	Duration      int      `json:"duration"`
	ProjectName   string   `json:"project_name"`
	Tags          []string `json:"tags"`
	Imported      bool     `json:"imported"`
	ImportedAt    string   `json:"imported_at,omitempty"`
	LedgerEntryID int64    `json:"ledger_entry_id,omitempty"`
}

// ImportBatchResponse is returned when listing a run's import batch.
type ImportBatchResponse struct {
	RunID   string                `json:"run_id"`
	Entries []ImportEntryResponse `json:"entries"`
	Count   int                   `json:"count"`
	Pending int                   `json:"pending"`
}

// SnapshotEntryResponse is one ledger entry of a snapshot.
type SnapshotEntryResponse struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Project     string   `json:"project"`
	Duration    float64  `json:"duration"`
	Tags        []string `json:"tags"`
}

// SnapshotResponse represents a stored ledger snapshot.
type SnapshotResponse struct {
	ID          string                  `json:"id"`
	Source      string                  `json:"source"`
	TakenAt     string                  `json:"taken_at"`
	PeriodStart string                  `json:"period_start"`
	PeriodEnd   string                  `json:"period_end"`
	EntryCount  int                     `json:"entry_count"`
	Entries     []SnapshotEntryResponse `json:"entries,omitempty"`
}

// SnapshotListResponse is returned when listing snapshots.
type SnapshotListResponse struct {
	Snapshots []SnapshotResponse `json:"snapshots"`
	Count     int                `json:"count"`
}

// SnapshotDiffResponse is the changeset between two snapshots.
type SnapshotDiffResponse struct {
	Older   string         `json:"older"`
	Newer   string         `json:"newer"`
	Summary differ.Summary `json:"summary"`
	Days    []differ.Day   `json:"days"`
}

// MessageResponse is a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

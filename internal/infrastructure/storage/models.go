package storage

import (
	"time"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents a reconciliation run
type Run struct {
	ID             string     `json:"id"`
	ActivitySource string     `json:"activity_source"`
	LedgerSource   string     `json:"ledger_source"`
	PeriodStart    string     `json:"period_start"`
	PeriodEnd      string     `json:"period_end"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Status         string     `json:"status"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	RunCounts
}

// RunCounts are the totals recorded when a run completes
type RunCounts struct {
	TotalEvents  int `json:"total_events"`
	TotalEntries int `json:"total_entries"`
	Matched      int `json:"matched"`
	Missing      int `json:"missing"`
	LedgerOnly   int `json:"ledger_only"`
}

// RunRecord is one classified record of a run
type RunRecord struct {
	ID          int64    `json:"id"`
	RunID       string   `json:"run_id"`
	Status      string   `json:"status"`
	Date        string   `json:"date"`
	TaskKey     string   `json:"task_key"`
	Description string   `json:"description"`
	Project     string   `json:"project"`
	Action      string   `json:"action"`
	Target      string   `json:"target"`
	Duration    float64  `json:"duration"`
	Tags        []string `json:"tags"`
}

// ImportEntry is one entry of a generated import batch
type ImportEntry struct {
	ID            int64      `json:"id"`
	RunID         string     `json:"run_id"`
	Description   string     `json:"description"`
	Start         string     `json:"start"`
	Duration      int        `json:"duration"`
	ProjectName   string     `json:"project_name"`
	Tags          []string   `json:"tags"`
	Squashed      bool       `json:"squashed"`
	ImportedAt    *time.Time `json:"imported_at,omitempty"`
	LedgerEntryID int64      `json:"ledger_entry_id,omitempty"`
}

// Snapshot is a stored copy of a fetched ledger
type Snapshot struct {
	ID          string                `json:"id"`
	Source      string                `json:"source"`
	TakenAt     time.Time             `json:"taken_at"`
	PeriodStart string                `json:"period_start"`
	PeriodEnd   string                `json:"period_end"`
	EntryCount  int                   `json:"entry_count"`
	Entries     []worklog.LedgerEntry `json:"entries,omitempty"`
}

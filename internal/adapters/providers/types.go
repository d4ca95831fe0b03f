package providers

import (
	"context"
	"errors"
	"time"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// Errors shared by provider implementations
var (
	ErrMissingToken     = errors.New("provider token is required")
	ErrMissingWorkspace = errors.New("ledger workspace is required")
	ErrProviderNotFound = errors.New("provider not found")
)

// FetchOptions configures how records are fetched
type FetchOptions struct {
	Start     time.Time
	End       time.Time
	Action    string // Case-insensitive substring filter on the action label (activity only)
	MaxEvents int    // 0 = no limit
}

// Identity is the account a provider is authenticated as
type Identity struct {
	Username string `json:"user"`
	Name     string `json:"name"`
}

// Project is a ledger project
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewEntry is a time entry to create in a ledger. Duration is in seconds.
type NewEntry struct {
	Description string
	ProjectID   int64 // 0 = no project
	Start       time.Time
	Duration    int
	Tags        []string
}

// ActivityProvider is the interface every contribution feed implements
type ActivityProvider interface {
	// Name returns the registry name ("gitlab", "github")
	Name() string

	// Identity returns the authenticated account
	Identity(ctx context.Context) (Identity, error)

	// FetchEvents returns the events in the window, newest first
	FetchEvents(ctx context.Context, opts FetchOptions) ([]worklog.ActivityEvent, error)
}

// LedgerProvider is the interface every time ledger implements
type LedgerProvider interface {
	Name() string
	Identity(ctx context.Context) (Identity, error)

	// FetchEntries returns the entries in the window, newest first.
	// Durations are in hours.
	FetchEntries(ctx context.Context, opts FetchOptions) ([]worklog.LedgerEntry, error)

	// Projects lists the projects entries can be filed under
	Projects(ctx context.Context) ([]Project, error)

	// CreateEntry creates a time entry and returns its ledger ID
	CreateEntry(ctx context.Context, entry NewEntry) (int64, error)
}

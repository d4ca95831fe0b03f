// Package files reads and writes the JSON and CSV files exchanged between
// commands: fetched activity, fetched ledgers, import batches and
// comparison results.
package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/squash"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// ErrInvalidImportFile is returned when a file has neither entries nor events
var ErrInvalidImportFile = errors.New("file contains neither import entries nor activity events")

// ActivityFile is a fetched activity feed
type ActivityFile struct {
	User   string                  `json:"user"`
	Name   string                  `json:"name"`
	Period worklog.Period          `json:"period"`
	Events []worklog.ActivityEvent `json:"events"`
}

// LedgerFile is a fetched time ledger. Entry durations are in hours.
type LedgerFile struct {
	User          string                `json:"user"`
	Period        worklog.Period        `json:"period"`
	TotalDuration TotalDuration         `json:"total_duration"`
	Entries       []worklog.LedgerEntry `json:"entries"`
}

// TotalDuration is the sum of a ledger's entries
type TotalDuration struct {
	Hours     int    `json:"hours"`
	Minutes   int    `json:"minutes"`
	Formatted string `json:"formatted"`
}

// ImportFile is a batch of entries ready to be created
type ImportFile struct {
	Period  worklog.Period `json:"period"`
	Entries []squash.Entry `json:"entries"`
}

// NewLedgerFile builds a ledger file and its total
func NewLedgerFile(user string, period worklog.Period, entries []worklog.LedgerEntry) *LedgerFile {
	if entries == nil {
		entries = []worklog.LedgerEntry{}
	}
	return &LedgerFile{
		User:          user,
		Period:        period,
		TotalDuration: Total(entries),
		Entries:       entries,
	}
}

// Total sums entry durations given in hours
func Total(entries []worklog.LedgerEntry) TotalDuration {
	seconds := 0.0
	for _, e := range entries {
		seconds += e.Duration * 3600
	}
	hours := int(seconds / 3600)
	minutes := int(seconds-float64(hours)*3600) / 60
	return TotalDuration{
		Hours:     hours,
		Minutes:   minutes,
		Formatted: fmt.Sprintf("%dh %dm", hours, minutes),
	}
}

// Load decodes a JSON file into a new T
func Load[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return &v, nil
}

// Save writes v as indented JSON, creating parent directories
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadActivity reads an activity file
func LoadActivity(path string) (*ActivityFile, error) {
	return Load[ActivityFile](path)
}

// LoadLedger reads a ledger file
func LoadLedger(path string) (*LedgerFile, error) {
	return Load[LedgerFile](path)
}

// ImportSource is a file accepted by the import command: either a batch
// of entries or a raw activity feed.
type ImportSource struct {
	Period  worklog.Period
	Entries []squash.Entry
	Events  []worklog.ActivityEvent
}

// IsActivity reports whether the source holds raw activity events
func (s *ImportSource) IsActivity() bool {
	return s.Entries == nil && s.Events != nil
}

// LoadImportSource reads an import file or an activity file. A file with
// an "entries" key is treated as an import batch even if it also has events.
func LoadImportSource(path string) (*ImportSource, error) {
	raw, err := Load[struct {
		Period  worklog.Period           `json:"period"`
		Entries *[]squash.Entry          `json:"entries"`
		Events  *[]worklog.ActivityEvent `json:"events"`
	}](path)
	if err != nil {
		return nil, err
	}

	src := &ImportSource{Period: raw.Period}
	switch {
	case raw.Entries != nil:
		src.Entries = *raw.Entries
		if src.Entries == nil {
			src.Entries = []squash.Entry{}
		}
	case raw.Events != nil:
		src.Events = *raw.Events
		if src.Events == nil {
			src.Events = []worklog.ActivityEvent{}
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidImportFile)
	}
	return src, nil
}

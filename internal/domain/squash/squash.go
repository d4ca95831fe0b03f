// Package squash turns reconciliation gaps into importable ledger entries.
//
// Missing activity is collapsed into one entry per task per day, with a
// duration inferred from the number of occurrences: each occurrence is
// worth a fixed unit (30 minutes by default).
//
// Example usage:
//
//	s := squash.New(squash.DefaultConfig())
//	batch := s.Squash(result.Missing)
package squash

import (
	"strings"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/grouping"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// DefaultUnitSeconds is the duration credited per occurrence.
const DefaultUnitSeconds = 30 * 60

// SquashedTag marks entries produced by Squash.
const SquashedTag = "squashed"

// Config holds squash configuration
type Config struct {
	UnitSeconds int    // Seconds credited per occurrence (default: 1800)
	SourceTag   string // First tag on every generated entry (default: "source-import")
}

// DefaultConfig returns the defaults
func DefaultConfig() Config {
	return Config{
		UnitSeconds: DefaultUnitSeconds,
		SourceTag:   "source-import",
	}
}

// Entry is a ledger entry ready to be created. Duration is in seconds.
type Entry struct {
	Description string   `json:"description"`
	Start       string   `json:"start"`
	Duration    int      `json:"duration"`
	ProjectName string   `json:"project_name"`
	Tags        []string `json:"tags"`
}

// Squasher builds import batches
type Squasher struct {
	config Config
}

// New creates a squasher, filling unset config fields with defaults
func New(config Config) *Squasher {
	defaults := DefaultConfig()
	if config.UnitSeconds <= 0 {
		config.UnitSeconds = defaults.UnitSeconds
	}
	if config.SourceTag == "" {
		config.SourceTag = defaults.SourceTag
	}
	return &Squasher{config: config}
}

// Squash produces one entry per (day, task number) group of missing
// records, in order of first appearance. Records without a task number
// are skipped.
func (s *Squasher) Squash(missing []matcher.Record) []Entry {
	ix := grouping.NewIndex[matcher.Record]()
	for _, r := range missing {
		n, ok := worklog.ExtractTaskNumber(r.Description)
		if !ok {
			continue
		}
		ix.Add(r.Day(), worklog.NumericKey(n), r)
	}

	entries := make([]Entry, 0)
	for _, day := range ix.Days() {
		for _, key := range ix.KeysOn(day) {
			group := ix.Get(day, key)
			first := group[0]
			entries = append(entries, Entry{
				Description: label(first, key),
				Start:       first.Date,
				Duration:    len(group) * s.config.UnitSeconds,
				ProjectName: first.Project,
				Tags:        []string{s.config.SourceTag, SquashedTag},
			})
		}
	}
	return entries
}

// Expand produces one entry per missing record, tagged with the record's
// action.
func (s *Squasher) Expand(missing []matcher.Record) []Entry {
	entries := make([]Entry, 0, len(missing))
	for _, r := range missing {
		description := r.Description
		if r.Details.Target != "" {
			description = r.Details.Target
		}
		entries = append(entries, Entry{
			Description: description,
			Start:       r.Date,
			Duration:    s.config.UnitSeconds,
			ProjectName: r.Project,
			Tags:        []string{s.config.SourceTag, ActionTag(r.Action)},
		})
	}
	return entries
}

// FromEvents produces one entry per raw activity event, describing the
// event in prose. It is used to import a fetched activity file as-is.
func (s *Squasher) FromEvents(events []worklog.ActivityEvent) []Entry {
	entries := make([]Entry, 0, len(events))
	for _, ev := range events {
		description := ev.Action + " in " + ev.Project
		if ev.Details.Target != "" {
			description += " - " + ev.Details.Target
		}
		entries = append(entries, Entry{
			Description: description,
			Start:       ev.Date,
			Duration:    s.config.UnitSeconds,
			ProjectName: ev.Project,
			Tags:        []string{s.config.SourceTag, strings.ToLower(ev.Action)},
		})
	}
	return entries
}

// ActionTag turns an action label into a tag: "Pushed To" becomes "pushed-to".
func ActionTag(action string) string {
	return strings.ReplaceAll(strings.ToLower(action), " ", "-")
}

func label(r matcher.Record, key worklog.TaskKey) string {
	if r.Details.Target != "" {
		return r.Details.Target
	}
	return key.String()
}

// Package differ compares two snapshots of the same time ledger.
package differ

import (
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// Classification is the state of a newer-snapshot entry relative to the
// older snapshot.
type Classification string

const (
	// Added indicates no older entry shares the timestamp within the group.
	Added Classification = "added"
	// Modified indicates an older entry with the same timestamp differs.
	Modified Classification = "modified"
	// Unchanged indicates an older entry with the same timestamp is identical.
	Unchanged Classification = "unchanged"
)

// Compared field names.
const (
	FieldDescription = "description"
	FieldProject     = "project"
	FieldDuration    = "duration"
	FieldTags        = "tags"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

// ClassifiedEntry is a newer-snapshot entry with its classification.
type ClassifiedEntry struct {
	worklog.LedgerEntry
	Classification Classification `json:"classification"`
	Changes        []FieldChange  `json:"changes,omitempty"`
}

// Group is one (day, key) group from both snapshots.
type Group struct {
	Key   worklog.TaskKey       `json:"key"`
	Label string                `json:"label"`
	Older []worklog.LedgerEntry `json:"older"`
	Newer []ClassifiedEntry     `json:"newer"`
}

// Day holds the groups of a single calendar day.
type Day struct {
	Date    string  `json:"date"`
	Weekday string  `json:"weekday"`
	Groups  []Group `json:"groups"`
}

// Summary counts classifications.
type Summary struct {
	Added     int `json:"added"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
	Older     int `json:"older"`
	Newer     int `json:"newer"`
}

// Changeset is the full comparison, days in descending order.
type Changeset struct {
	Days    []Day   `json:"days"`
	Summary Summary `json:"summary"`
}

// IsEmpty reports whether the newer snapshot adds or modifies nothing.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.Added == 0 && c.Summary.Modified == 0
}

// Entries returns every classified entry in rendering order.
func (c *Changeset) Entries() []ClassifiedEntry {
	var out []ClassifiedEntry
	for _, d := range c.Days {
		for _, g := range d.Groups {
			out = append(out, g.Newer...)
		}
	}
	return out
}

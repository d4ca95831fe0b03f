// Package worklog holds the record types shared by both sides of a
// reconciliation: activity events from a contribution feed and entries
// from a time ledger.
//
// Timestamps are kept as strings in TimestampLayout. All grouping is done
// on the calendar day prefix, so records never need to be parsed to be
// reconciled.
package worklog

// TimestampLayout is the layout used for every record timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// DateLayout is the layout of the day prefix of a timestamp.
const DateLayout = "2006-01-02"

// Details carries the structured part of an activity event.
type Details struct {
	Target  string `json:"target,omitempty"`
	Commits int    `json:"commits,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

// ActivityEvent is a single contribution from an activity feed.
type ActivityEvent struct {
	Date    string  `json:"date"`
	Action  string  `json:"action"`
	Project string  `json:"project"`
	Details Details `json:"details"`
}

// Key returns the task key of the event's target.
func (e ActivityEvent) Key() TaskKey {
	return KeyFor(e.Details.Target)
}

// LedgerEntry is a single recorded time entry.
//
// Duration is carried through as-is: fetched ledgers store hours, import
// batches store seconds.
type LedgerEntry struct {
	ID                int64    `json:"id,omitempty"`
	Date              string   `json:"date"`
	Description       string   `json:"description"`
	Project           string   `json:"project"`
	Duration          float64  `json:"duration"`
	DurationFormatted string   `json:"duration_formatted,omitempty"`
	Tags              []string `json:"tags"`
}

// Key returns the task key of the entry's description.
func (e LedgerEntry) Key() TaskKey {
	return KeyFor(e.Description)
}

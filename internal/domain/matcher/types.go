package matcher

import (
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// Consumption controls how many ledger entries a matched event claims.
type Consumption int

const (
	// ConsumeBucket marks every ledger entry sharing the event's day and
	// key as consumed on the first match. One event can therefore cover
	// several ledger entries.
	ConsumeBucket Consumption = iota
	// ConsumeOne claims a single unclaimed ledger entry per matched event.
	ConsumeOne
)

// Config holds matcher configuration
type Config struct {
	Consumption  Consumption
	LedgerAction string // Action label for ledger-only records
}

// DefaultConfig returns the defaults
func DefaultConfig() Config {
	return Config{
		Consumption:  ConsumeBucket,
		LedgerAction: "Toggl Entry",
	}
}

// Status is the outcome of reconciling a single record.
type Status string

const (
	StatusMatched    Status = "matched"
	StatusMissing    Status = "missing"
	StatusLedgerOnly Status = "ledger_only"
)

// Record is one classified record. Event-derived records carry Details;
// ledger-derived records carry Duration and Tags.
type Record struct {
	Status            Status          `json:"status"`
	Date              string          `json:"date"`
	Key               worklog.TaskKey `json:"task_key"`
	Description       string          `json:"description"`
	Project           string          `json:"project"`
	Action            string          `json:"action"`
	Details           worklog.Details `json:"details"`
	Duration          float64         `json:"duration,omitempty"`
	DurationFormatted string          `json:"duration_formatted,omitempty"`
	Tags              []string        `json:"tags,omitempty"`
}

// Day returns the calendar day of the record.
func (r Record) Day() string {
	return worklog.DayOf(r.Date)
}

// Result partitions both inputs.
type Result struct {
	Matched    []Record
	Missing    []Record
	LedgerOnly []Record

	// Consumed is the number of ledger entries claimed by matched events.
	Consumed int
	// Unkeyed is the number of activity events dropped for lacking a task number.
	Unkeyed int
}

// Summary is the count view of a Result.
type Summary struct {
	Matched    int `json:"matched"`
	Missing    int `json:"missing"`
	LedgerOnly int `json:"ledger_only"`
	Consumed   int `json:"consumed"`
	Unkeyed    int `json:"unkeyed"`
}

// Summary returns the counts of each outcome.
func (r *Result) Summary() Summary {
	return Summary{
		Matched:    len(r.Matched),
		Missing:    len(r.Missing),
		LedgerOnly: len(r.LedgerOnly),
		Consumed:   r.Consumed,
		Unkeyed:    r.Unkeyed,
	}
}

// Records returns every record: matched, missing, then ledger-only.
func (r *Result) Records() []Record {
	out := make([]Record, 0, len(r.Matched)+len(r.Missing)+len(r.LedgerOnly))
	out = append(out, r.Matched...)
	out = append(out, r.Missing...)
	out = append(out, r.LedgerOnly...)
	return out
}

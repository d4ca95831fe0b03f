// Package matcher reconciles an activity feed against a time ledger.
//
// Every activity event is classified exactly once:
//   - matched: the ledger has an entry with the same task number on the same day
//   - missing: it does not
//
// Every ledger entry not claimed by a match is reported as ledger-only.
//
// Example usage:
//
//	activity, unkeyed := grouping.IndexActivity(events)
//	ledger := grouping.IndexLedger(entries)
//	m := matcher.NewMatcher(matcher.DefaultConfig())
//	result := m.Reconcile(activity, ledger)
//	result.Unkeyed = unkeyed
package matcher

import (
	"cmp"
	"slices"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/grouping"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// Matcher matches activity events with ledger entries
type Matcher struct {
	config Config
}

// NewMatcher creates a new matcher with the given config
func NewMatcher(config Config) *Matcher {
	return &Matcher{
		config: config,
	}
}

// claim identifies a consumed ledger entry. Entries are told apart by
// their timestamp within a (day, key) bucket.
type claim struct {
	day  string
	key  worklog.TaskKey
	date string
}

// Reconcile partitions the activity and ledger indexes into matched,
// missing and ledger-only records.
func (m *Matcher) Reconcile(activity *grouping.ActivityIndex, ledger *grouping.LedgerIndex) *Result {
	result := &Result{}
	claimed := make(map[claim]bool)

	for _, bucket := range activity.Buckets() {
		onDay := ledger.KeySet(bucket.Day)

		for _, ev := range bucket.Records {
			if !onDay[bucket.Key] {
				result.Missing = append(result.Missing, fromEvent(StatusMissing, bucket.Key, ev))
				continue
			}

			result.Matched = append(result.Matched, fromEvent(StatusMatched, bucket.Key, ev))
			result.Consumed += m.consume(claimed, bucket.DayKey, ledger.Get(bucket.Day, bucket.Key))
		}
	}

	for _, e := range ledger.All {
		c := claim{day: worklog.DayOf(e.Date), key: e.Key(), date: e.Date}
		if claimed[c] {
			continue
		}
		result.LedgerOnly = append(result.LedgerOnly, m.fromEntry(e))
	}

	return result
}

// consume marks ledger entries as claimed, earliest first, and returns how
// many were newly claimed.
func (m *Matcher) consume(claimed map[claim]bool, dk grouping.DayKey, entries []worklog.LedgerEntry) int {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b worklog.LedgerEntry) int {
		return cmp.Compare(a.Date, b.Date)
	})

	n := 0
	for _, e := range ordered {
		c := claim{day: dk.Day, key: dk.Key, date: e.Date}
		if claimed[c] {
			continue
		}
		claimed[c] = true
		n++
		if m.config.Consumption == ConsumeOne {
			break
		}
	}
	return n
}

func fromEvent(status Status, key worklog.TaskKey, ev worklog.ActivityEvent) Record {
	return Record{
		Status:      status,
		Date:        ev.Date,
		Key:         key,
		Description: key.String(),
		Project:     ev.Project,
		Action:      ev.Action,
		Details:     ev.Details,
	}
}

func (m *Matcher) fromEntry(e worklog.LedgerEntry) Record {
	formatted := e.DurationFormatted
	if formatted == "" {
		formatted = worklog.FormatHours(e.Duration)
	}
	return Record{
		Status:            StatusLedgerOnly,
		Date:              e.Date,
		Key:               e.Key(),
		Description:       e.Description,
		Project:           e.Project,
		Action:            m.config.LedgerAction,
		Duration:          e.Duration,
		DurationFormatted: formatted,
		Tags:              e.Tags,
	}
}

package grouping

import (
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// ActivityIndex is the grouping of an activity feed.
type ActivityIndex = Index[worklog.ActivityEvent]

// IndexActivity groups events by day and task number. Events whose target
// carries no task number are dropped; the returned count says how many.
func IndexActivity(events []worklog.ActivityEvent) (*ActivityIndex, int) {
	ix := NewIndex[worklog.ActivityEvent]()
	dropped := 0
	for _, ev := range events {
		key := ev.Key()
		if !key.IsNumeric() {
			dropped++
			continue
		}
		ix.Add(worklog.DayOf(ev.Date), key, ev)
	}
	return ix, dropped
}

// LedgerIndex is the grouping of a time ledger. Unlike activity, every
// entry is kept: entries without a task number are grouped under their
// literal description. All preserves the ledger's natural order.
type LedgerIndex struct {
	*Index[worklog.LedgerEntry]
	All []worklog.LedgerEntry
}

// IndexLedger groups entries by day and task key.
func IndexLedger(entries []worklog.LedgerEntry) *LedgerIndex {
	ix := &LedgerIndex{
		Index: NewIndex[worklog.LedgerEntry](),
		All:   make([]worklog.LedgerEntry, 0, len(entries)),
	}
	for _, e := range entries {
		ix.Add(worklog.DayOf(e.Date), e.Key(), e)
		ix.All = append(ix.All, e)
	}
	return ix
}

package worklog

import "time"

// Period is the date range a fetched file covers, in DateLayout.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Window is a fetch range with both ends inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// CurrentMonth returns the window from the first of now's month to now.
func CurrentMonth(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: now}
}

// PreviousMonth returns the whole calendar month before now's month. The
// end is one microsecond before the first of the current month.
func PreviousMonth(now time.Time) Window {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := firstOfMonth.Add(-time.Microsecond)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: end}
}

// Lookback returns the window ending at now that starts the given number
// of months (30 days each) plus days earlier.
func Lookback(now time.Time, months, days int) Window {
	back := time.Duration(months*30+days) * 24 * time.Hour
	return Window{Start: now.Add(-back), End: now}
}

// Contains reports whether t falls within the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Period returns the window as a pair of days.
func (w Window) Period() Period {
	return Period{
		Start: w.Start.Format(DateLayout),
		End:   w.End.Format(DateLayout),
	}
}

// MonthLabel renders the window's starting month, e.g. "March 2024".
func (w Window) MonthLabel() string {
	return w.Start.Format("January 2006")
}

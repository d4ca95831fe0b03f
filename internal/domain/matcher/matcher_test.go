package matcher

import (
	"testing"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/grouping"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to create a test activity event
func makeEvent(date, target string) worklog.ActivityEvent {
	return worklog.ActivityEvent{
		Date:    date,
		Action:  "Pushed To",
		Project: "backend",
		Details: worklog.Details{Target: target},
	}
}

// Helper to create a test ledger entry
func makeEntry(date, description string, hours float64) worklog.LedgerEntry {
	return worklog.LedgerEntry{
		Date:        date,
		Description: description,
		Project:     "Backend",
		Duration:    hours,
		Tags:        []string{"dev"},
	}
}

func reconcile(t *testing.T, config Config, events []worklog.ActivityEvent, entries []worklog.LedgerEntry) *Result {
	t.Helper()
	activity, unkeyed := grouping.IndexActivity(events)
	result := NewMatcher(config).Reconcile(activity, grouping.IndexLedger(entries))
	require.NotNil(t, result)
	result.Unkeyed = unkeyed
	return result
}

func TestMatcher_MissingWhenLedgerEmptyThatDay(t *testing.T) {
	// Arrange
	events := []worklog.ActivityEvent{makeEvent("2024-03-01 10:00:00", "#123 Fix bug")}

	// Act
	result := reconcile(t, DefaultConfig(), events, nil)

	// Assert
	require.Len(t, result.Missing, 1)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.LedgerOnly)
	missing := result.Missing[0]
	assert.Equal(t, StatusMissing, missing.Status)
	assert.Equal(t, "#123", missing.Description)
	assert.Equal(t, worklog.NumericKey("123"), missing.Key)
	assert.Equal(t, "#123 Fix bug", missing.Details.Target)
	assert.Equal(t, "2024-03-01", missing.Day())
}

func TestMatcher_TwoEventsShareOneLedgerEntry(t *testing.T) {
	// Arrange
	events := []worklog.ActivityEvent{
		makeEvent("2024-03-01 10:00:00", "#123 Fix bug"),
		makeEvent("2024-03-01 15:00:00", "Review #123"),
	}
	entries := []worklog.LedgerEntry{makeEntry("2024-03-01 09:00:00", "#123 bug work", 1.5)}

	// Act
	result := reconcile(t, DefaultConfig(), events, entries)

	// Assert
	assert.Len(t, result.Matched, 2)
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.LedgerOnly)
	assert.Equal(t, 1, result.Consumed)
}

func TestMatcher_UntaggedLedgerEntryIsLedgerOnly(t *testing.T) {
	// Arrange
	events := []worklog.ActivityEvent{makeEvent("2024-03-01 10:00:00", "#123 Fix bug")}
	entries := []worklog.LedgerEntry{
		makeEntry("2024-03-01 09:00:00", "#123", 1),
		makeEntry("2024-03-01 12:00:00", "Team lunch", 1),
	}

	// Act
	result := reconcile(t, DefaultConfig(), events, entries)

	// Assert
	require.Len(t, result.LedgerOnly, 1)
	only := result.LedgerOnly[0]
	assert.Equal(t, StatusLedgerOnly, only.Status)
	assert.Equal(t, "Team lunch", only.Description)
	assert.Equal(t, worklog.LiteralKey("Team lunch"), only.Key)
	assert.Equal(t, "Toggl Entry", only.Action)
	assert.Equal(t, "1h 0m", only.DurationFormatted)
	assert.Equal(t, []string{"dev"}, only.Tags)
}

func TestMatcher_SameKeyDifferentDay(t *testing.T) {
	// Arrange
	events := []worklog.ActivityEvent{makeEvent("2024-03-02 10:00:00", "#123")}
	entries := []worklog.LedgerEntry{makeEntry("2024-03-01 10:00:00", "#123", 1)}

	// Act
	result := reconcile(t, DefaultConfig(), events, entries)

	// Assert
	assert.Len(t, result.Missing, 1)
	assert.Len(t, result.LedgerOnly, 1)
	assert.Empty(t, result.Matched)
}

func TestMatcher_UnkeyedEventsAreDropped(t *testing.T) {
	// Arrange
	events := []worklog.ActivityEvent{
		makeEvent("2024-03-01 10:00:00", "Refactor config loader"),
		makeEvent("2024-03-01 11:00:00", ""),
	}

	// Act
	result := reconcile(t, DefaultConfig(), events, nil)

	// Assert
	assert.Empty(t, result.Records())
	assert.Equal(t, 2, result.Unkeyed)
}

// One event on a day claims every ledger entry carrying its key that day,
// so the second entry is never reported as ledger-only.
func TestMatcher_BucketConsumptionClaimsAllEntries(t *testing.T) {
	// Arrange
	events := []worklog.ActivityEvent{makeEvent("2024-03-01 10:00:00", "#123")}
	entries := []worklog.LedgerEntry{
		makeEntry("2024-03-01 09:00:00", "#123 morning", 1),
		makeEntry("2024-03-01 14:00:00", "#123 afternoon", 2),
	}

	// Act
	result := reconcile(t, DefaultConfig(), events, entries)

	// Assert
	assert.Len(t, result.Matched, 1)
	assert.Empty(t, result.LedgerOnly)
	assert.Equal(t, 2, result.Consumed)
}

func TestMatcher_ConsumeOneClaimsEarliestEntry(t *testing.T) {
	// Arrange
	config := DefaultConfig()
	config.Consumption = ConsumeOne
	events := []worklog.ActivityEvent{makeEvent("2024-03-01 10:00:00", "#123")}
	entries := []worklog.LedgerEntry{
		makeEntry("2024-03-01 14:00:00", "#123 afternoon", 2),
		makeEntry("2024-03-01 09:00:00", "#123 morning", 1),
	}

	// Act
	result := reconcile(t, config, events, entries)

	// Assert
	assert.Len(t, result.Matched, 1)
	require.Len(t, result.LedgerOnly, 1)
	assert.Equal(t, "#123 afternoon", result.LedgerOnly[0].Description)
	assert.Equal(t, 1, result.Consumed)
}

func TestMatcher_ConsumeOneStillMatchesWhenEntriesExhausted(t *testing.T) {
	// Arrange
	config := DefaultConfig()
	config.Consumption = ConsumeOne
	events := []worklog.ActivityEvent{
		makeEvent("2024-03-01 10:00:00", "#123"),
		makeEvent("2024-03-01 11:00:00", "#123"),
	}
	entries := []worklog.LedgerEntry{makeEntry("2024-03-01 09:00:00", "#123", 1)}

	// Act
	result := reconcile(t, config, events, entries)

	// Assert
	assert.Len(t, result.Matched, 2)
	assert.Empty(t, result.LedgerOnly)
	assert.Equal(t, 1, result.Consumed)
}

func TestMatcher_OutputFollowsBucketOrder(t *testing.T) {
	// Arrange
	events := []worklog.ActivityEvent{
		makeEvent("2024-03-02 10:00:00", "#2"),
		makeEvent("2024-03-01 10:00:00", "#1"),
		makeEvent("2024-03-02 11:00:00", "#3"),
		makeEvent("2024-03-02 12:00:00", "#2"),
	}

	// Act
	result := reconcile(t, DefaultConfig(), events, nil)

	// Assert
	var got []string
	for _, r := range result.Missing {
		got = append(got, r.Date)
	}
	assert.Equal(t, []string{
		"2024-03-02 10:00:00",
		"2024-03-02 12:00:00",
		"2024-03-01 10:00:00",
		"2024-03-02 11:00:00",
	}, got)
}

func TestMatcher_Partition(t *testing.T) {
	// Arrange
	events := []worklog.ActivityEvent{
		makeEvent("2024-03-01 10:00:00", "#1"),
		makeEvent("2024-03-01 11:00:00", "#2"),
		makeEvent("2024-03-01 12:00:00", "#1 again"),
		makeEvent("2024-03-02 09:00:00", "#3"),
		makeEvent("2024-03-02 10:00:00", "no key"),
		makeEvent("2024-03-03 10:00:00", "#4"),
	}
	entries := []worklog.LedgerEntry{
		makeEntry("2024-03-01 08:00:00", "#1", 1),
		makeEntry("2024-03-01 13:00:00", "#1 wrap-up", 1),
		makeEntry("2024-03-02 08:00:00", "Standup", 0.25),
		makeEntry("2024-03-02 17:00:00", "Standup", 0.25),
		makeEntry("2024-03-03 08:00:00", "#4", 2),
		makeEntry("2024-03-04 08:00:00", "#5", 2),
	}

	for _, config := range []Config{DefaultConfig(), {Consumption: ConsumeOne}} {
		// Act
		result := reconcile(t, config, events, entries)

		// Assert: every keyed event lands in exactly one of matched or missing
		assert.Equal(t, 5, len(result.Matched)+len(result.Missing))
		assert.Equal(t, 1, result.Unkeyed)
		for _, r := range result.Matched {
			assert.Equal(t, StatusMatched, r.Status)
		}
		for _, r := range result.Missing {
			assert.Equal(t, StatusMissing, r.Status)
		}

		// Assert: each ledger entry is ledger-only at most once and claimed
		// entries are never ledger-only
		seen := make(map[string]int)
		for _, r := range result.LedgerOnly {
			assert.Equal(t, StatusLedgerOnly, r.Status)
			seen[r.Date]++
		}
		for date, n := range seen {
			assert.Equal(t, 1, n, date)
		}
		assert.Equal(t, len(entries), len(result.LedgerOnly)+result.Consumed)
	}
}

func TestResult_Summary(t *testing.T) {
	result := &Result{
		Matched:    []Record{{}, {}},
		Missing:    []Record{{}},
		LedgerOnly: []Record{{}, {}, {}},
		Consumed:   4,
		Unkeyed:    1,
	}

	assert.Equal(t, Summary{Matched: 2, Missing: 1, LedgerOnly: 3, Consumed: 4, Unkeyed: 1}, result.Summary())
	assert.Len(t, result.Records(), 6)
}

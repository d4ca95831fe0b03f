package grouping

import (
	"testing"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(date, target string) worklog.ActivityEvent {
	return worklog.ActivityEvent{Date: date, Action: "Pushed To", Project: "api", Details: worklog.Details{Target: target}}
}

func entry(date, description string) worklog.LedgerEntry {
	return worklog.LedgerEntry{Date: date, Description: description, Project: "api", Duration: 0.5}
}

func TestIndex_PreservesInsertionOrder(t *testing.T) {
	ix := NewIndex[string]()

	ix.Add("2024-03-02", worklog.NumericKey("2"), "a")
	ix.Add("2024-03-01", worklog.NumericKey("1"), "b")
	ix.Add("2024-03-02", worklog.LiteralKey("Lunch"), "c")
	ix.Add("2024-03-02", worklog.NumericKey("2"), "d")

	assert.Equal(t, []string{"2024-03-02", "2024-03-01"}, ix.Days())
	assert.Equal(t, []worklog.TaskKey{worklog.NumericKey("2"), worklog.LiteralKey("Lunch")}, ix.KeysOn("2024-03-02"))
	assert.Equal(t, []string{"a", "d"}, ix.Get("2024-03-02", worklog.NumericKey("2")))
	assert.Equal(t, 4, ix.Len())

	buckets := ix.Buckets()
	require.Len(t, buckets, 3)
	assert.Equal(t, DayKey{Day: "2024-03-02", Key: worklog.NumericKey("2")}, buckets[0].DayKey)
	assert.Equal(t, DayKey{Day: "2024-03-01", Key: worklog.NumericKey("1")}, buckets[1].DayKey)
	assert.Equal(t, DayKey{Day: "2024-03-02", Key: worklog.LiteralKey("Lunch")}, buckets[2].DayKey)
}

func TestIndex_Lookups(t *testing.T) {
	ix := NewIndex[int]()
	ix.Add("2024-03-01", worklog.NumericKey("1"), 1)

	assert.True(t, ix.Has("2024-03-01", worklog.NumericKey("1")))
	assert.False(t, ix.Has("2024-03-01", worklog.LiteralKey("1")))
	assert.False(t, ix.Has("2024-03-02", worklog.NumericKey("1")))
	assert.Nil(t, ix.Get("2024-03-02", worklog.NumericKey("1")))
	assert.Equal(t, map[worklog.TaskKey]bool{worklog.NumericKey("1"): true}, ix.KeySet("2024-03-01"))
	assert.Empty(t, ix.KeySet("2024-03-02"))
}

func TestIndexActivity_DropsUnkeyedEvents(t *testing.T) {
	events := []worklog.ActivityEvent{
		event("2024-03-01 10:00:00", "#123 Login"),
		event("2024-03-01 11:00:00", "Untracked chore"),
		event("2024-03-01 12:00:00", ""),
		event("2024-03-01 13:00:00", "Follow up #123"),
	}

	ix, dropped := IndexActivity(events)

	assert.Equal(t, 2, dropped)
	assert.Equal(t, 2, ix.Len())
	assert.Len(t, ix.Get("2024-03-01", worklog.NumericKey("123")), 2)
}

func TestIndexLedger_KeepsEveryEntry(t *testing.T) {
	entries := []worklog.LedgerEntry{
		entry("2024-03-01 09:00:00", "Standup"),
		entry("2024-03-01 10:00:00", "#123"),
		entry("2024-03-01 17:00:00", "Standup"),
		entry("2024-03-02 09:00:00", "Standup"),
	}

	ix := IndexLedger(entries)

	assert.Equal(t, entries, ix.All)
	assert.Equal(t, 4, ix.Len())
	assert.Len(t, ix.Get("2024-03-01", worklog.LiteralKey("Standup")), 2)
	assert.Len(t, ix.Get("2024-03-02", worklog.LiteralKey("Standup")), 1)
	assert.True(t, ix.KeySet("2024-03-01")[worklog.NumericKey("123")])
}

func TestIndex_EachRecordInOneBucket(t *testing.T) {
	entries := []worklog.LedgerEntry{
		entry("2024-03-01 09:00:00", "#1"),
		entry("2024-03-01 10:00:00", "#1 again"),
		entry("2024-03-01 11:00:00", "#2"),
		entry("2024-03-03 11:00:00", "Misc"),
	}

	ix := IndexLedger(entries)

	total := 0
	for _, b := range ix.Buckets() {
		total += len(b.Records)
	}
	assert.Equal(t, len(entries), total)
}

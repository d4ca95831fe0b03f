package files

import (
	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/squash"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// ComparisonFile is the saved result of comparing an activity file with a
// ledger file. ImportData holds one unsquashed entry per missing event.
type ComparisonFile struct {
	Summary    ComparisonSummary `json:"summary"`
	Matched    []matcher.Record  `json:"matched_entries"`
	Missing    []matcher.Record  `json:"missing_entries"`
	LedgerOnly []matcher.Record  `json:"toggl_only_entries"`
	ImportData []squash.Entry    `json:"toggl_import_data"`
}

// ComparisonSummary holds the periods and counts of a comparison
type ComparisonSummary struct {
	ActivityPeriod  worklog.Period `json:"activity_period"`
	LedgerPeriod    worklog.Period `json:"ledger_period"`
	TotalEvents     int            `json:"total_activity_events"`
	TotalEntries    int            `json:"total_ledger_entries"`
	MatchedCount    int            `json:"matched_entries_count"`
	MissingCount    int            `json:"missing_entries_count"`
	LedgerOnlyCount int            `json:"ledger_only_entries_count"`
	ConsumedCount   int            `json:"consumed_entries_count"`
	UnkeyedCount    int            `json:"unkeyed_events_count"`
}

// NewComparisonFile assembles a comparison file from a reconciliation result
func NewComparisonFile(activity *ActivityFile, ledger *LedgerFile, result *matcher.Result, importData []squash.Entry) *ComparisonFile {
	nonNil := func(r []matcher.Record) []matcher.Record {
		if r == nil {
			return []matcher.Record{}
		}
		return r
	}
	if importData == nil {
		importData = []squash.Entry{}
	}
	return &ComparisonFile{
		Summary: ComparisonSummary{
			ActivityPeriod:  activity.Period,
			LedgerPeriod:    ledger.Period,
			TotalEvents:     len(activity.Events),
			TotalEntries:    len(ledger.Entries),
			MatchedCount:    len(result.Matched),
			MissingCount:    len(result.Missing),
			LedgerOnlyCount: len(result.LedgerOnly),
			ConsumedCount:   result.Consumed,
			UnkeyedCount:    result.Unkeyed,
		},
		Matched:    nonNil(result.Matched),
		Missing:    nonNil(result.Missing),
		LedgerOnly: nonNil(result.LedgerOnly),
		ImportData: importData,
	}
}

// LoadComparison reads a comparison file
func LoadComparison(path string) (*ComparisonFile, error) {
	return Load[ComparisonFile](path)
}

// Package reconcile composes the domain packages into the comparison
// engine and the service that fetches, persists and imports around it.
package reconcile

import (
	"slices"

	"github.com/eshaffer321/worklog-reconcile/internal/adapters/files"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/differ"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/grouping"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/squash"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// EngineConfig holds engine configuration
type EngineConfig struct {
	Matcher matcher.Config
	Squash  squash.Config
}

// DefaultEngineConfig returns the defaults
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Matcher: matcher.DefaultConfig(),
		Squash:  squash.DefaultConfig(),
	}
}

// Engine runs comparisons on fully loaded inputs. It does no I/O.
type Engine struct {
	matcher  *matcher.Matcher
	squasher *squash.Squasher
	differ   *differ.Differ
}

// NewEngine creates an engine
func NewEngine(config EngineConfig) *Engine {
	return &Engine{
		matcher:  matcher.NewMatcher(config.Matcher),
		squasher: squash.New(config.Squash),
		differ:   differ.New(),
	}
}

// Comparison is the outcome of comparing an activity file with a ledger
type Comparison struct {
	Result   *matcher.Result
	File     *files.ComparisonFile
	Squashed []squash.Entry
	period   worklog.Period
}

// ImportFile returns the squashed batch ready to be imported
func (c *Comparison) ImportFile() *files.ImportFile {
	return &files.ImportFile{Period: c.period, Entries: c.Squashed}
}

// Compare reconciles an activity feed against a ledger
func (e *Engine) Compare(activity *files.ActivityFile, ledger *files.LedgerFile) *Comparison {
	activityIndex, unkeyed := grouping.IndexActivity(activity.Events)
	ledgerIndex := grouping.IndexLedger(ledger.Entries)

	result := e.matcher.Reconcile(activityIndex, ledgerIndex)
	result.Unkeyed = unkeyed
	importData := e.squasher.Expand(result.Missing)

	return &Comparison{
		Result:   result,
		File:     files.NewComparisonFile(activity, ledger, result, importData),
		Squashed: e.squasher.Squash(result.Missing),
		period:   activity.Period,
	}
}

// SideBySide diffs two versions of a ledger. Preview entries, when given,
// are laid over the updated ledger first so a pending import can be
// reviewed before it is made.
func (e *Engine) SideBySide(original, updated *files.LedgerFile, preview []squash.Entry) *differ.Changeset {
	newer := updated.Entries
	if len(preview) > 0 {
		newer = slices.Concat(newer, squash.AsLedgerEntries(preview))
	}
	return e.differ.Diff(original.Entries, newer)
}

// ImportEntries turns an import source into entries: an import batch is
// used as-is, an activity feed becomes one entry per event.
func (e *Engine) ImportEntries(src *files.ImportSource) []squash.Entry {
	if src.IsActivity() {
		return e.squasher.FromEvents(src.Events)
	}
	return src.Entries
}

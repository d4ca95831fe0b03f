package differ

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/eshaffer321/worklog-reconcile/internal/domain/grouping"
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// Differ compares ledger snapshots.
type Differ struct {
	ignoreFields map[string]bool
}

// Option configures a Differ.
type Option func(*Differ)

// WithIgnoredFields excludes fields from the comparison.
func WithIgnoredFields(fields ...string) Option {
	return func(d *Differ) {
		for _, field := range fields {
			d.ignoreFields[field] = true
		}
	}
}

// New creates a Differ.
func New(opts ...Option) *Differ {
	d := &Differ{ignoreFields: make(map[string]bool)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// tagSet compares tag lists as sets.
var tagSet = []gocmp.Option{
	cmpopts.SortSlices(func(a, b string) bool { return a < b }),
	cmpopts.EquateEmpty(),
}

// Diff classifies every entry of newer against older.
func (d *Differ) Diff(older, newer []worklog.LedgerEntry) *Changeset {
	oldIx := grouping.IndexLedger(older)
	newIx := grouping.IndexLedger(newer)

	days := unionDays(oldIx.Days(), newIx.Days())
	slices.SortFunc(days, func(a, b string) int { return cmp.Compare(b, a) })

	cs := &Changeset{
		Days: make([]Day, 0, len(days)),
		Summary: Summary{
			Older: len(older),
			Newer: len(newer),
		},
	}

	for _, day := range days {
		keys := unionKeys(oldIx.KeysOn(day), newIx.KeysOn(day))
		slices.SortFunc(keys, func(a, b worklog.TaskKey) int { return cmp.Compare(a.String(), b.String()) })

		out := Day{Date: day, Weekday: worklog.WeekdayName(day)}
		for _, key := range keys {
			group := Group{
				Key:   key,
				Older: byTimestamp(oldIx.Get(day, key)),
			}

			byDate := make(map[string][]worklog.LedgerEntry)
			for _, e := range group.Older {
				byDate[e.Date] = append(byDate[e.Date], e)
			}

			for _, e := range byTimestamp(newIx.Get(day, key)) {
				ce := d.classify(e, byDate[e.Date])
				switch ce.Classification {
				case Added:
					cs.Summary.Added++
				case Modified:
					cs.Summary.Modified++
				default:
					cs.Summary.Unchanged++
				}
				group.Newer = append(group.Newer, ce)
			}

			group.Label = groupLabel(group)
			out.Groups = append(out.Groups, group)
		}
		cs.Days = append(cs.Days, out)
	}

	return cs
}

// classify compares e against the older entries sharing its timestamp.
// Any difference against any of them makes e modified.
func (d *Differ) classify(e worklog.LedgerEntry, counterparts []worklog.LedgerEntry) ClassifiedEntry {
	if len(counterparts) == 0 {
		return ClassifiedEntry{LedgerEntry: e, Classification: Added}
	}
	for _, old := range counterparts {
		if changes := d.fields(old, e); len(changes) > 0 {
			return ClassifiedEntry{LedgerEntry: e, Classification: Modified, Changes: changes}
		}
	}
	return ClassifiedEntry{LedgerEntry: e, Classification: Unchanged}
}

func (d *Differ) fields(old, updated worklog.LedgerEntry) []FieldChange {
	var changes []FieldChange
	if !d.ignoreFields[FieldDescription] && old.Description != updated.Description {
		changes = append(changes, FieldChange{Field: FieldDescription, OldValue: old.Description, NewValue: updated.Description})
	}
	if !d.ignoreFields[FieldProject] && old.Project != updated.Project {
		changes = append(changes, FieldChange{Field: FieldProject, OldValue: old.Project, NewValue: updated.Project})
	}
	if !d.ignoreFields[FieldDuration] && old.Duration != updated.Duration {
		changes = append(changes, FieldChange{
			Field:    FieldDuration,
			OldValue: strconv.FormatFloat(old.Duration, 'f', -1, 64),
			NewValue: strconv.FormatFloat(updated.Duration, 'f', -1, 64),
		})
	}
	if !d.ignoreFields[FieldTags] && !gocmp.Equal(old.Tags, updated.Tags, tagSet...) {
		changes = append(changes, FieldChange{
			Field:    FieldTags,
			OldValue: strings.Join(old.Tags, ", "),
			NewValue: strings.Join(updated.Tags, ", "),
		})
	}
	return changes
}

func byTimestamp(entries []worklog.LedgerEntry) []worklog.LedgerEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b worklog.LedgerEntry) int { return cmp.Compare(a.Date, b.Date) })
	return out
}

func groupLabel(g Group) string {
	if len(g.Newer) > 0 {
		return g.Newer[0].Description
	}
	if len(g.Older) > 0 {
		return g.Older[0].Description
	}
	return g.Key.String()
}

func unionDays(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(slices.Clone(a), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func unionKeys(a, b []worklog.TaskKey) []worklog.TaskKey {
	seen := make(map[worklog.TaskKey]bool, len(a)+len(b))
	var out []worklog.TaskKey
	for _, k := range append(slices.Clone(a), b...) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

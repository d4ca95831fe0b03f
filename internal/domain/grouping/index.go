// Package grouping buckets worklog records by calendar day and task key.
//
// An Index remembers insertion order at every level: buckets, days, and
// the keys seen on each day. Downstream consumers (matching, squashing,
// reporting) rely on that order to produce stable output.
package grouping

import (
	"github.com/eshaffer321/worklog-reconcile/internal/domain/worklog"
)

// DayKey identifies a bucket.
type DayKey struct {
	Day string
	Key worklog.TaskKey
}

// Bucket is one (day, key) group with its records in insertion order.
type Bucket[T any] struct {
	DayKey
	Records []T
}

// Index maps (day, key) to the records filed under it.
type Index[T any] struct {
	order   []DayKey
	buckets map[DayKey][]T
	days    []string
	keys    map[string][]worklog.TaskKey
	count   int
}

// NewIndex returns an empty index.
func NewIndex[T any]() *Index[T] {
	return &Index[T]{
		buckets: make(map[DayKey][]T),
		keys:    make(map[string][]worklog.TaskKey),
	}
}

// Add files rec under (day, key).
func (ix *Index[T]) Add(day string, key worklog.TaskKey, rec T) {
	dk := DayKey{Day: day, Key: key}
	if _, ok := ix.buckets[dk]; !ok {
		ix.order = append(ix.order, dk)
		if _, seen := ix.keys[day]; !seen {
			ix.days = append(ix.days, day)
		}
		ix.keys[day] = append(ix.keys[day], key)
	}
	ix.buckets[dk] = append(ix.buckets[dk], rec)
	ix.count++
}

// Get returns the records of (day, key), or nil.
func (ix *Index[T]) Get(day string, key worklog.TaskKey) []T {
	return ix.buckets[DayKey{Day: day, Key: key}]
}

// Has reports whether any record was filed under (day, key).
func (ix *Index[T]) Has(day string, key worklog.TaskKey) bool {
	_, ok := ix.buckets[DayKey{Day: day, Key: key}]
	return ok
}

// Buckets returns every bucket in insertion order.
func (ix *Index[T]) Buckets() []Bucket[T] {
	out := make([]Bucket[T], 0, len(ix.order))
	for _, dk := range ix.order {
		out = append(out, Bucket[T]{DayKey: dk, Records: ix.buckets[dk]})
	}
	return out
}

// Days returns the days in order of first appearance.
func (ix *Index[T]) Days() []string {
	return append([]string(nil), ix.days...)
}

// KeysOn returns the keys seen on day in order of first appearance.
func (ix *Index[T]) KeysOn(day string) []worklog.TaskKey {
	return append([]worklog.TaskKey(nil), ix.keys[day]...)
}

// KeySet returns the keys seen on day as a set.
func (ix *Index[T]) KeySet(day string) map[worklog.TaskKey]bool {
	set := make(map[worklog.TaskKey]bool, len(ix.keys[day]))
	for _, k := range ix.keys[day] {
		set[k] = true
	}
	return set
}

// Len returns the number of records filed.
func (ix *Index[T]) Len() int {
	return ix.count
}

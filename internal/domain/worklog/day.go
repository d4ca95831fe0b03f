package worklog

import (
	"fmt"
	"strings"
	"time"
)

// DayOf returns the calendar day of a timestamp: its first
// whitespace-delimited token. Empty input yields an empty day.
func DayOf(timestamp string) string {
	fields := strings.Fields(timestamp)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// TimeOf returns the time-of-day part of a timestamp, or "" if it has none.
func TimeOf(timestamp string) string {
	fields := strings.Fields(timestamp)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// WeekdayName returns the English weekday of a "2006-01-02" day, or ""
// when the day cannot be parsed.
func WeekdayName(day string) string {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ParseTimestamp parses a TimestampLayout string as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.UTC)
}

// FormatHours renders a duration in hours as "3h 15m".
func FormatHours(hours float64) string {
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	return fmt.Sprintf("%dh %dm", h, m)
}

package utils

import "time"

// sortableFormat is RFC3339 with fixed-width nanoseconds so that
// lexicographic ordering of formatted timestamps matches chronological
// ordering. time.RFC3339Nano trims trailing zeros and breaks that property.
const sortableFormat = "2006-01-02T15:04:05.000000000Z07:00"

// FormatSortable renders t in UTC as a fixed-width, lexicographically
// sortable timestamp. Used in storage sort keys.
func FormatSortable(t time.Time) string {
	return t.UTC().Format(sortableFormat)
}

// ParseSortable parses a timestamp produced by FormatSortable.
func ParseSortable(s string) (time.Time, error) {
	return time.Parse(sortableFormat, s)
}

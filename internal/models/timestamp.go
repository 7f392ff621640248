package models

import "time"

// TimestampLayout renders instants the way records store them: UTC with
// millisecond precision, e.g. 2024-05-01T09:30:00.000Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp converts t to the stored timestamp representation.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts stored timestamps and any RFC 3339 instant.
func ParseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(TimestampLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}

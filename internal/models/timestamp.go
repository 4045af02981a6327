package models

import (
	"database/sql"
	"fmt"
	"time"
)

// TimestampLayout is how timestamps are written to storage. It is fixed-width
// UTC, so comparing the stored text orders rows by time.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatTimestamp renders t for storage.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatNullTimestamp renders an optional timestamp as a query argument (nil for NULL).
func FormatNullTimestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTimestamp(*t)
}

// storedPrecision returns t as it reads back from storage: UTC, microseconds.
func storedPrecision(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(time.Microsecond)
	return &v
}

// ParseTimestamp accepts the storage layout plus the ISO-8601 variants found in seeded rows.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// ParseNullTimestamp maps NULL and empty text to nil.
func ParseNullTimestamp(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

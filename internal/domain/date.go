package domain

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the ISO-8601 forms accepted for fechaInicio and fechaFin.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date string. Values without an offset are read as UTC.
// The result is truncated to whole seconds, the resolution events are stored with.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrValidation)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Second), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
}

// FromEpochSeconds converts a stored epoch-seconds timestamp back to UTC time.
func FromEpochSeconds(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

package parse

import (
	"strings"
	"time"
)

// The management API is not consistent about date formats: planned
// dates usually arrive as bare dates, actual event timestamps as RFC3339
// or a space-separated local timestamp.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Date parses an upstream date string in the given location. It returns
// nil for empty or malformed values rather than an error: one bad
// record must not abort a whole sync batch, the caller simply excludes
// the record from date-dependent computations.
func Date(s *string, loc *time.Location) *time.Time {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return &t
		}
	}
	return nil
}

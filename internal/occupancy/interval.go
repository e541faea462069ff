package occupancy

import "time"

const day = 24 * time.Hour

// Interval is a closed time range. Reporting ranges built by RangeFor
// and CustomRange end at the last nanosecond of their final day, so a
// reservation covering any part of that day counts as occupying it.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Clamp intersects iv with bounds. The second return is false when the
// two intervals are disjoint.
func Clamp(iv, bounds Interval) (Interval, bool) {
	start := iv.Start
	if bounds.Start.After(start) {
		start = bounds.Start
	}
	end := iv.End
	if bounds.End.Before(end) {
		end = bounds.End
	}
	if start.After(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

// DaysOccupied counts the whole days iv occupies inside bounds, rounded
// up. Partial-day stays still occupy a calendar day, so the count is
// taken on the clamped interval and never rounded down.
func DaysOccupied(iv, bounds Interval) int {
	clamped, ok := Clamp(iv, bounds)
	if !ok {
		return 0
	}
	span := clamped.End.Sub(clamped.Start)
	days := int(span / day)
	if span%day > 0 {
		days++
	}
	return days
}

// IsWithin reports whether t falls inside iv, inclusive on both ends.
func IsWithin(t time.Time, iv Interval) bool {
	return !t.Before(iv.Start) && !t.After(iv.End)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DaysBetween counts calendar days from a to b, ignoring time of day.
// Rounding absorbs DST transitions inside the span.
func DaysBetween(a, b time.Time) int {
	h := StartOfDay(b).Sub(StartOfDay(a)).Hours()
	if h >= 0 {
		return int(h/24 + 0.5)
	}
	return -int(-h/24 + 0.5)
}

package engine

import "time"

// =============================================================================
// CALENDAR HELPERS - Monthly stepping over the lease term
// =============================================================================

// NewDate constructs a UTC date at midnight. All engine dates are
// day-granular; times of day never participate in comparisons.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthAt returns the period date for the 0-based month index m,
// i.e. the lease start shifted forward by m months.
func MonthAt(start time.Time, m int) time.Time {
	return start.AddDate(0, m, 0)
}

// DaysBetween returns the whole calendar days from one date to another.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

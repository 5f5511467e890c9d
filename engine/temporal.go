/*
temporal.go - Pure date/time arithmetic for the rule set

PURPOSE:
  Three small utilities every rule leans on:
  - DaysBetween:      inclusive calendar-day count (same day = 1)
  - HoursBetween:     clock-time duration with overnight wraparound, 2dp
  - WithinEditWindow: 24-hour mutability check against a record's status

INPUT FORMAT:
  Dates are "2006-01-02", clock times are "15:04" - the exact strings the
  intake forms produce. Empty or unparseable input yields 0 rather than an
  error; the rules treat a zero result as its own failure where relevant.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the wire format for calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format for clock times.
	ClockLayout = "15:04"
)

const minutesPerDay = 24 * 60

// DaysBetween returns the inclusive count of calendar days spanning the two
// dates. The absolute difference is used, so argument order does not matter
// and DaysBetween(d, d) == 1. Returns 0 if either input is empty or
// unparseable.
func DaysBetween(start, end string) int {
	s, errS := time.Parse(DateLayout, start)
	e, errE := time.Parse(DateLayout, end)
	if errS != nil || errE != nil {
		return 0
	}

	diff := e.Sub(s)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours()/24) + 1
}

// HoursBetween returns the duration between two same-day clock times as a
// decimal rounded to 2 places. A timeOut numerically earlier than timeIn is
// treated as an overnight shift and gains 24 hours. Returns zero on missing
// or unparseable input.
func HoursBetween(timeIn, timeOut string) decimal.Decimal {
	in, okIn := clockMinutes(timeIn)
	out, okOut := clockMinutes(timeOut)
	if !okIn || !okOut {
		return decimal.Zero
	}

	total := out - in
	if total < 0 {
		total += minutesPerDay
	}

	return decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(60)).Round(2)
}

// WithinEditWindow reports whether a record may still be edited: terminal
// statuses are never editable, otherwise at most 24 hours may have elapsed
// since creation (exactly 24h is still allowed).
func WithinEditWindow(createdAt time.Time, status Status, now time.Time) bool {
	if status == StatusApproved || status == StatusRejected {
		return false
	}
	return now.Sub(createdAt) <= 24*time.Hour
}

// clockMinutes parses "HH:MM" into minutes since midnight.
func clockMinutes(clock string) (int, bool) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// midnight normalizes a moment to the start of its day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// wholeDaysBefore returns how many whole days date lies before the
// midnight-normalized today. Negative for future dates; ok is false when the
// date does not parse.
func wholeDaysBefore(date string, now time.Time) (int, bool) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return 0, false
	}
	today := midnight(now)
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	return int(today.Sub(d).Hours() / 24), true
}

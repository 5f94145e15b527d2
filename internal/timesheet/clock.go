package timesheet

import (
	"fmt"
	"math"
	"time"
)

// ClockMinutes parses a 24-hour "HH:mm" wall-clock string into minutes
// since midnight.
func ClockMinutes(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", clock, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Duration computes the worked hours between two same-day clock times,
// minus the unpaid break. When roundingMinutes > 0 the minute count is
// snapped to the nearest multiple, ties away from zero.
//
// The result is negative when end is not after start; ordering is the
// validator's concern, not this function's.
func Duration(start, end string, breakMinutes, roundingMinutes int) (float64, error) {
	s, err := ClockMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := ClockMinutes(end)
	if err != nil {
		return 0, err
	}

	minutes := e - s - breakMinutes
	if roundingMinutes > 0 {
		minutes = int(math.Round(float64(minutes)/float64(roundingMinutes))) * roundingMinutes
	}
	return float64(minutes) / 60, nil
}

// FormatDuration renders fractional hours as "8h" or "3h 30m".
func FormatDuration(hours float64) string {
	h := int(hours)
	m := int(math.Round((hours - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// Overlaps reports whether two half-open [start,end) clock intervals
// intersect. Touching endpoints do not overlap. Zero-padded "HH:mm"
// strings order correctly under plain string comparison.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && bStart < aEnd
}

package timesheet

import (
	"sort"
	"strconv"

	"github.com/sadopc/shiftlog/internal/store"
)

// shiftHours computes one shift's duration. Stored shifts always have
// validated times, so a parse failure counts as zero rather than
// aborting an aggregate.
func shiftHours(sh store.Shift, roundingMinutes int) float64 {
	h, err := Duration(sh.Start, sh.End, sh.BreakMinutes, roundingMinutes)
	if err != nil {
		return 0
	}
	return h
}

// TotalHours sums the duration of every shift in the collection.
func TotalHours(shifts []store.Shift, roundingMinutes int) float64 {
	var total float64
	for _, sh := range shifts {
		total += shiftHours(sh, roundingMinutes)
	}
	return total
}

// HoursForDate sums the durations of the shifts on one date.
func HoursForDate(shifts []store.Shift, date string, roundingMinutes int) float64 {
	var total float64
	for _, sh := range shifts {
		if sh.Date == date {
			total += shiftHours(sh, roundingMinutes)
		}
	}
	return total
}

// HoursForType sums the durations of shifts with the given type.
func HoursForType(shifts []store.Shift, typ store.ShiftType, roundingMinutes int) float64 {
	var total float64
	for _, sh := range shifts {
		if sh.Type == typ {
			total += shiftHours(sh, roundingMinutes)
		}
	}
	return total
}

// WorkingDays counts the distinct dates present in the collection.
func WorkingDays(shifts []store.Shift) int {
	seen := make(map[string]bool, len(shifts))
	for _, sh := range shifts {
		seen[sh.Date] = true
	}
	return len(seen)
}

// WeeklyTotals buckets hours by week-of-month, where week N covers
// days 7(N-1)+1 through 7N. This is a plain 7-day split from the 1st,
// not ISO weeks.
func WeeklyTotals(shifts []store.Shift, roundingMinutes int) map[int]float64 {
	totals := make(map[int]float64)
	for _, sh := range shifts {
		week, ok := weekOfMonth(sh.Date)
		if !ok {
			continue
		}
		totals[week] += shiftHours(sh, roundingMinutes)
	}
	return totals
}

// ShiftsForDate filters the collection to one date, ordered by start
// time ascending for stable display.
func ShiftsForDate(shifts []store.Shift, date string) []store.Shift {
	var day []store.Shift
	for _, sh := range shifts {
		if sh.Date == date {
			day = append(day, sh)
		}
	}
	sort.SliceStable(day, func(i, j int) bool { return day[i].Start < day[j].Start })
	return day
}

func weekOfMonth(date string) (int, bool) {
	if len(date) < 10 {
		return 0, false
	}
	day, err := strconv.Atoi(date[8:10])
	if err != nil || day < 1 {
		return 0, false
	}
	return (day + 6) / 7, true
}

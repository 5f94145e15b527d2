package timesheet

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sadopc/shiftlog/internal/store"
)

// Row is one report line, ready for the export layer. Optional
// columns are empty strings when excluded by settings or blank on the
// shift.
type Row struct {
	Seq          int     // 1-based sequence across the month
	Date         string  // dd/MM/yyyy
	Weekday      string  // localized weekday name
	DaySeq       int     // 1-based sequence within the date
	Start        string
	End          string
	BreakMinutes int
	Hours        float64 // rounded to 2 decimals
	Type         string  // display label
	Project      string
	Location     string
	Note         string
	Tags         string
}

type WeekTotal struct {
	Week  int
	Hours float64
}

type TypeTotal struct {
	Type  string
	Hours float64
}

// Summary is the report's aggregate block.
type Summary struct {
	TotalHours  float64
	OTHours     float64
	WorkingDays int
	ShiftCount  int
	Weekly      []WeekTotal
	ByType      []TypeTotal
}

var typeLabels = map[store.ShiftType]string{
	store.TypeNormal:   "Regular",
	store.TypeOT:       "Overtime",
	store.TypeNight:    "Night",
	store.TypeLeave:    "Leave",
	store.TypeTraining: "Training",
	store.TypeTravel:   "Travel",
}

// TypeLabel returns the display name for a shift type.
func TypeLabel(t store.ShiftType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// BuildReport maps a shift collection plus settings into export rows
// and a summary block. An empty collection yields nil rows and a
// zero-valued summary.
func BuildReport(shifts []store.Shift, settings store.Settings) ([]Row, Summary) {
	rounding := settings.RoundingMinutes

	byDate := make(map[string][]store.Shift)
	for _, sh := range shifts {
		byDate[sh.Date] = append(byDate[sh.Date], sh)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates) // lexicographic is chronological for YYYY-MM-DD

	var rows []Row
	seq := 1
	for _, date := range dates {
		day := byDate[date]
		sort.SliceStable(day, func(i, j int) bool { return day[i].Start < day[j].Start })

		for i, sh := range day {
			row := Row{
				Seq:          seq,
				Date:         formatReportDate(date),
				Weekday:      weekdayName(date),
				DaySeq:       i + 1,
				Start:        sh.Start,
				End:          sh.End,
				BreakMinutes: sh.BreakMinutes,
				Hours:        round2(shiftHours(sh, rounding)),
				Type:         TypeLabel(sh.Type),
			}
			if settings.ExportColumns.Project {
				row.Project = sh.Project
			}
			if settings.ExportColumns.Location {
				row.Location = sh.Location
			}
			if settings.ExportColumns.Note {
				row.Note = sh.Note
			}
			if settings.ExportColumns.Tags {
				row.Tags = strings.Join(sh.Tags, ", ")
			}
			rows = append(rows, row)
			seq++
		}
	}

	summary := Summary{
		TotalHours:  TotalHours(shifts, rounding),
		OTHours:     HoursForType(shifts, store.TypeOT, rounding),
		WorkingDays: WorkingDays(shifts),
		ShiftCount:  len(shifts),
	}

	weekly := WeeklyTotals(shifts, rounding)
	weeks := make([]int, 0, len(weekly))
	for w := range weekly {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	for _, w := range weeks {
		summary.Weekly = append(summary.Weekly, WeekTotal{Week: w, Hours: weekly[w]})
	}

	for _, t := range store.ShiftTypes {
		h := HoursForType(shifts, t, rounding)
		if h != 0 {
			summary.ByType = append(summary.ByType, TypeTotal{Type: TypeLabel(t), Hours: h})
		}
	}

	return rows, summary
}

func formatReportDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

func weekdayName(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

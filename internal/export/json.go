package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/shiftlog/internal/timesheet"
)

type jsonReport struct {
	ExportedAt string        `json:"exported_at"`
	RowCount   int           `json:"row_count"`
	Rows       []jsonRow     `json:"rows"`
	Summary    jsonSummary   `json:"summary"`
}

type jsonRow struct {
	Seq          int     `json:"seq"`
	Date         string  `json:"date"`
	Weekday      string  `json:"weekday"`
	DaySeq       int     `json:"day_seq"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	BreakMinutes int     `json:"break_minutes"`
	Hours        float64 `json:"hours"`
	Type         string  `json:"type"`
	Project      string  `json:"project,omitempty"`
	Location     string  `json:"location,omitempty"`
	Note         string  `json:"note,omitempty"`
	Tags         string  `json:"tags,omitempty"`
}

type jsonSummary struct {
	TotalHours  float64            `json:"total_hours"`
	OTHours     float64            `json:"overtime_hours"`
	WorkingDays int                `json:"working_days"`
	ShiftCount  int                `json:"shift_count"`
	Weekly      map[string]float64 `json:"weekly_hours"`
	ByType      map[string]float64 `json:"hours_by_type"`
}

func ToJSON(rows []timesheet.Row, summary timesheet.Summary, path string) error {
	report := jsonReport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		RowCount:   len(rows),
		Summary: jsonSummary{
			TotalHours:  summary.TotalHours,
			OTHours:     summary.OTHours,
			WorkingDays: summary.WorkingDays,
			ShiftCount:  summary.ShiftCount,
			Weekly:      make(map[string]float64, len(summary.Weekly)),
			ByType:      make(map[string]float64, len(summary.ByType)),
		},
	}
	for _, w := range summary.Weekly {
		report.Summary.Weekly[fmt.Sprintf("week_%d", w.Week)] = w.Hours
	}
	for _, t := range summary.ByType {
		report.Summary.ByType[t.Type] = t.Hours
	}

	for _, r := range rows {
		report.Rows = append(report.Rows, jsonRow{
			Seq:          r.Seq,
			Date:         r.Date,
			Weekday:      r.Weekday,
			DaySeq:       r.DaySeq,
			Start:        r.Start,
			End:          r.End,
			BreakMinutes: r.BreakMinutes,
			Hours:        r.Hours,
			Type:         r.Type,
			Project:      r.Project,
			Location:     r.Location,
			Note:         r.Note,
			Tags:         r.Tags,
		})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

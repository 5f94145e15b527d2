package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sadopc/shiftlog/internal/timesheet"
)

const (
	timesheetSheet = "Timesheet"
	summarySheet   = "Summary"
)

// ToXLSX writes the monthly report as a two-sheet workbook: one row
// per shift plus an aggregate summary sheet. Optional columns appear
// only when at least one row carries a value.
func ToXLSX(rows []timesheet.Row, summary timesheet.Summary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", timesheetSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"70AD47"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("section style: %w", err)
	}

	if err := writeTimesheet(f, rows, headerStyle); err != nil {
		return err
	}
	if err := writeSummary(f, summary, sectionStyle); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func writeTimesheet(f *excelize.File, rows []timesheet.Row, headerStyle int) error {
	var hasProject, hasLocation, hasNote, hasTags bool
	for _, r := range rows {
		hasProject = hasProject || r.Project != ""
		hasLocation = hasLocation || r.Location != ""
		hasNote = hasNote || r.Note != ""
		hasTags = hasTags || r.Tags != ""
	}

	headers := []string{"#", "Date", "Weekday", "Shift", "Start", "End", "Break (min)", "Hours", "Type"}
	widths := []float64{6, 12, 12, 6, 10, 10, 12, 10, 12}
	if hasProject {
		headers = append(headers, "Project")
		widths = append(widths, 20)
	}
	if hasLocation {
		headers = append(headers, "Location")
		widths = append(widths, 20)
	}
	if hasNote {
		headers = append(headers, "Note")
		widths = append(widths, 35)
	}
	if hasTags {
		headers = append(headers, "Tags")
		widths = append(widths, 20)
	}

	headerCells := make([]any, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(timesheetSheet, "A1", &headerCells); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(timesheetSheet, col, col, w); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(timesheetSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		cells := []any{r.Seq, r.Date, r.Weekday, r.DaySeq, r.Start, r.End, r.BreakMinutes, r.Hours, r.Type}
		if hasProject {
			cells = append(cells, r.Project)
		}
		if hasLocation {
			cells = append(cells, r.Location)
		}
		if hasNote {
			cells = append(cells, r.Note)
		}
		if hasTags {
			cells = append(cells, r.Tags)
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(timesheetSheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, summary timesheet.Summary, sectionStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("new summary sheet: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 15); err != nil {
		return err
	}

	type line struct {
		label   string
		value   any
		section bool
	}
	lines := []line{
		{label: "METRIC", value: "VALUE", section: true},
		{label: "Total hours", value: fmt.Sprintf("%.2f", summary.TotalHours)},
		{label: "Overtime hours", value: fmt.Sprintf("%.2f", summary.OTHours)},
		{label: "Working days", value: summary.WorkingDays},
		{label: "Shift count", value: summary.ShiftCount},
		{},
		{label: "WEEKLY TOTALS", section: true},
	}
	for _, w := range summary.Weekly {
		lines = append(lines, line{label: fmt.Sprintf("Week %d", w.Week), value: fmt.Sprintf("%.2f", w.Hours)})
	}
	lines = append(lines, line{}, line{label: "HOURS BY TYPE", section: true})
	for _, t := range summary.ByType {
		lines = append(lines, line{label: t.Type, value: fmt.Sprintf("%.2f", t.Hours)})
	}

	for i, l := range lines {
		rowNum := i + 1
		if l.label == "" && l.value == nil {
			continue
		}
		cells := []any{l.label}
		if l.value != nil {
			cells = append(cells, l.value)
		}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", rowNum), &cells); err != nil {
			return fmt.Errorf("write summary row %d: %w", rowNum, err)
		}
		if l.section {
			end := fmt.Sprintf("A%d", rowNum)
			if l.value != nil {
				end = fmt.Sprintf("B%d", rowNum)
			}
			if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", rowNum), end, sectionStyle); err != nil {
				return fmt.Errorf("style summary row %d: %w", rowNum, err)
			}
		}
	}
	return nil
}

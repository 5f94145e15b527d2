package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/sadopc/shiftlog/internal/store"
	"github.com/sadopc/shiftlog/internal/timesheet"
)

func sampleReport() ([]timesheet.Row, timesheet.Summary) {
	shifts := []store.Shift{
		{
			ID: "a", Date: "2024-01-02", Start: "09:00", End: "18:00",
			BreakMinutes: 60, Type: store.TypeNormal, Project: "Apollo", Note: "kickoff",
		},
		{
			ID: "b", Date: "2024-01-03", Start: "18:00", End: "21:00",
			Type: store.TypeOT,
		},
		{
			ID: "c", Date: "2024-01-03", Start: "09:00", End: "12:00",
			Type: store.TypeNormal, Location: "HQ",
		},
	}
	settings := store.Settings{
		RoundingMinutes: 15,
		ExportColumns:   store.ExportColumns{Project: true, Location: true, Note: true},
	}
	return timesheet.BuildReport(shifts, settings)
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	rows, _ := sampleReport()
	path := filepath.Join(t.TempDir(), "report.csv")

	if err := ToCSV(rows, path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 3 data rows
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	if records[0][0] != "#" || records[0][7] != "Hours" {
		t.Fatalf("unexpected header: %v", records[0])
	}

	first := records[1]
	if first[1] != "02/01/2024" {
		t.Fatalf("Date = %q, want 02/01/2024", first[1])
	}
	if first[2] != "Tuesday" {
		t.Fatalf("Weekday = %q, want Tuesday", first[2])
	}
	if first[7] != "8.00" {
		t.Fatalf("Hours = %q, want 8.00", first[7])
	}
	if first[9] != "Apollo" {
		t.Fatalf("Project = %q, want Apollo", first[9])
	}

	// Second day sorted by start: 09:00 shift precedes the 18:00 OT one.
	if records[2][4] != "09:00" || records[3][4] != "18:00" {
		t.Fatalf("rows not ordered by start: %q, %q", records[2][4], records[3][4])
	}
	if records[3][8] != "Overtime" {
		t.Fatalf("Type = %q, want Overtime", records[3][8])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()
	if len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	rows, summary := sampleReport()
	path := filepath.Join(t.TempDir(), "report.json")

	if err := ToJSON(rows, summary, path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got jsonReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.RowCount != 3 || len(got.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d/%d", got.RowCount, len(got.Rows))
	}
	if got.ExportedAt == "" {
		t.Fatal("exported_at should be set")
	}
	if got.Summary.ShiftCount != 3 || got.Summary.WorkingDays != 2 {
		t.Fatalf("unexpected summary: %+v", got.Summary)
	}
	if got.Summary.TotalHours != 14 {
		t.Fatalf("total hours = %v, want 14", got.Summary.TotalHours)
	}
	if got.Summary.ByType["Overtime"] != 3 {
		t.Fatalf("overtime hours = %v, want 3", got.Summary.ByType["Overtime"])
	}
	if got.Summary.Weekly["week_1"] != 14 {
		t.Fatalf("week 1 hours = %v, want 14", got.Summary.Weekly["week_1"])
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, timesheet.Summary{}, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var got jsonReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.RowCount != 0 || got.Summary.TotalHours != 0 {
		t.Fatalf("expected zero-valued report: %+v", got)
	}
}

// ============================================================
// XLSX
// ============================================================

func TestToXLSX(t *testing.T) {
	rows, summary := sampleReport()
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := ToXLSX(rows, summary, path); err != nil {
		t.Fatalf("ToXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Timesheet" || sheets[1] != "Summary" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	// Header row.
	if v, _ := f.GetCellValue("Timesheet", "A1"); v != "#" {
		t.Fatalf("A1 = %q, want #", v)
	}
	if v, _ := f.GetCellValue("Timesheet", "H1"); v != "Hours" {
		t.Fatalf("H1 = %q, want Hours", v)
	}
	// Optional columns present because the sample has values.
	if v, _ := f.GetCellValue("Timesheet", "J1"); v != "Project" {
		t.Fatalf("J1 = %q, want Project", v)
	}

	// First data row.
	if v, _ := f.GetCellValue("Timesheet", "B2"); v != "02/01/2024" {
		t.Fatalf("B2 = %q, want 02/01/2024", v)
	}
	if v, _ := f.GetCellValue("Timesheet", "H2"); v != "8" {
		t.Fatalf("H2 = %q, want 8", v)
	}
	if v, _ := f.GetCellValue("Timesheet", "J2"); v != "Apollo" {
		t.Fatalf("J2 = %q, want Apollo", v)
	}

	// Summary sheet metrics.
	if v, _ := f.GetCellValue("Summary", "A1"); v != "METRIC" {
		t.Fatalf("Summary A1 = %q, want METRIC", v)
	}
	if v, _ := f.GetCellValue("Summary", "B2"); v != "14.00" {
		t.Fatalf("Summary B2 = %q, want 14.00", v)
	}
}

func TestToXLSXNoOptionalColumns(t *testing.T) {
	shifts := []store.Shift{
		{ID: "a", Date: "2024-01-02", Start: "09:00", End: "17:00", Type: store.TypeNormal, Project: "hidden"},
	}
	settings := store.Settings{RoundingMinutes: 15} // all export columns off
	rows, summary := timesheet.BuildReport(shifts, settings)

	path := filepath.Join(t.TempDir(), "plain.xlsx")
	if err := ToXLSX(rows, summary, path); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	// Only the nine fixed columns.
	if v, _ := f.GetCellValue("Timesheet", "J1"); v != "" {
		t.Fatalf("J1 should be empty, got %q", v)
	}
}

func TestToXLSXEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := ToXLSX(nil, timesheet.Summary{}, path); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Timesheet", "A2"); v != "" {
		t.Fatalf("expected no data rows, got %q", v)
	}
}

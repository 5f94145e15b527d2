package timesheet

import (
	"math"
	"testing"

	"github.com/sadopc/shiftlog/internal/store"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func shift(date, start, end string, breakMin int, typ store.ShiftType) store.Shift {
	return store.Shift{
		ID:           date + start,
		Date:         date,
		Start:        start,
		End:          end,
		BreakMinutes: breakMin,
		Type:         typ,
	}
}

// ============================================================
// Clock parsing and duration
// ============================================================

func TestClockMinutes(t *testing.T) {
	cases := []struct {
		clock string
		want  int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"12:30", 750},
		{"23:59", 1439},
	}
	for _, c := range cases {
		got, err := ClockMinutes(c.clock)
		if err != nil {
			t.Fatalf("ClockMinutes(%q): %v", c.clock, err)
		}
		if got != c.want {
			t.Fatalf("ClockMinutes(%q) = %d, want %d", c.clock, got, c.want)
		}
	}
}

func TestClockMinutesInvalid(t *testing.T) {
	for _, clock := range []string{"", "9am", "25:00", "12:61", "12.30"} {
		if _, err := ClockMinutes(clock); err == nil {
			t.Fatalf("ClockMinutes(%q) should fail", clock)
		}
	}
}

func TestDurationRaw(t *testing.T) {
	// No break, no rounding: raw minute difference over 60.
	h, err := Duration("09:00", "17:30", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !approx(h, 8.5) {
		t.Fatalf("duration = %v, want 8.5", h)
	}
}

func TestDurationWithBreakAndRounding(t *testing.T) {
	// 09:00-18:00 minus 60min break, rounded to 15 -> exactly 8h.
	h, err := Duration("09:00", "18:00", 60, 15)
	if err != nil {
		t.Fatal(err)
	}
	if h != 8.0 {
		t.Fatalf("duration = %v, want 8.0", h)
	}
	if got := FormatDuration(h); got != "8h" {
		t.Fatalf("FormatDuration(8.0) = %q, want 8h", got)
	}
}

func TestDurationAlreadyMultiple(t *testing.T) {
	// 210 raw minutes is already a multiple of 15.
	h, err := Duration("09:00", "12:30", 0, 15)
	if err != nil {
		t.Fatal(err)
	}
	if h != 3.5 {
		t.Fatalf("duration = %v, want 3.5", h)
	}
	if got := FormatDuration(h); got != "3h 30m" {
		t.Fatalf("FormatDuration(3.5) = %q, want '3h 30m'", got)
	}
}

func TestDurationRoundsHalfUp(t *testing.T) {
	// 08:00-08:52 = 52min; 52/15 = 3.47 -> 45min. 08:00-08:53 -> 60min.
	h, _ := Duration("08:00", "08:52", 0, 15)
	if h != 0.75 {
		t.Fatalf("52min rounded = %v, want 0.75", h)
	}
	h, _ = Duration("08:00", "08:53", 0, 15)
	if h != 1.0 {
		t.Fatalf("53min rounded = %v, want 1.0", h)
	}
}

func TestDurationMonotonicInBreak(t *testing.T) {
	prev := math.Inf(1)
	for brk := 0; brk <= 120; brk += 10 {
		h, err := Duration("08:00", "17:00", brk, 0)
		if err != nil {
			t.Fatal(err)
		}
		if h > prev {
			t.Fatalf("duration increased with larger break: %v > %v at break=%d", h, prev, brk)
		}
		prev = h
	}
}

func TestDurationNegativePropagates(t *testing.T) {
	// end <= start is a caller validation problem, not an error here.
	h, err := Duration("10:00", "09:00", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if h >= 0 {
		t.Fatalf("duration = %v, want negative", h)
	}
}

func TestDurationRoundingIdempotent(t *testing.T) {
	h1, err := Duration("09:07", "17:38", 25, 15)
	if err != nil {
		t.Fatal(err)
	}
	// Re-rounding an already rounded minute count changes nothing.
	minutes := int(h1 * 60)
	rounded := int(math.Round(float64(minutes)/15)) * 15
	if rounded != minutes {
		t.Fatalf("rounding not idempotent: %d -> %d", minutes, rounded)
	}
}

func TestDurationInvalidClock(t *testing.T) {
	if _, err := Duration("nine", "17:00", 0, 15); err == nil {
		t.Fatal("expected error for malformed start")
	}
	if _, err := Duration("09:00", "5pm", 0, 15); err == nil {
		t.Fatal("expected error for malformed end")
	}
}

func TestFormatDurationZero(t *testing.T) {
	if got := FormatDuration(0); got != "0h" {
		t.Fatalf("FormatDuration(0) = %q, want 0h", got)
	}
}

func TestFormatDurationCarry(t *testing.T) {
	// 7.999... must not render as "7h 60m".
	if got := FormatDuration(7.9999); got != "8h" {
		t.Fatalf("FormatDuration(7.9999) = %q, want 8h", got)
	}
}

func TestOverlaps(t *testing.T) {
	if !Overlaps("08:00", "10:00", "09:00", "11:00") {
		t.Fatal("expected overlap")
	}
	// Symmetry.
	if Overlaps("08:00", "10:00", "09:00", "11:00") != Overlaps("09:00", "11:00", "08:00", "10:00") {
		t.Fatal("Overlaps is not symmetric")
	}
	// Touching endpoints do not overlap.
	if Overlaps("08:00", "09:00", "09:00", "10:00") {
		t.Fatal("touching intervals should not overlap")
	}
	if Overlaps("08:00", "09:00", "10:00", "11:00") {
		t.Fatal("disjoint intervals should not overlap")
	}
	// Containment.
	if !Overlaps("08:00", "18:00", "09:00", "10:00") {
		t.Fatal("contained interval should overlap")
	}
}

// ============================================================
// Validation
// ============================================================

func draft(date, start, end string, breakMin int) store.ShiftDraft {
	return store.ShiftDraft{Date: date, Start: start, End: end, BreakMinutes: breakMin, Type: store.TypeNormal}
}

func TestValidateOK(t *testing.T) {
	findings := Validate(draft("2024-01-05", "09:00", "17:00", 60), nil, 15)
	if len(findings) != 0 {
		t.Fatalf("expected no findings, got %+v", findings)
	}
}

func TestValidateEndBeforeStart(t *testing.T) {
	findings := Validate(draft("2024-01-05", "10:00", "09:00", 0), nil, 15)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	f := findings[0]
	if f.Field != "end" || f.Severity != SeverityError {
		t.Fatalf("unexpected finding: %+v", f)
	}
	if !HasErrors(findings) {
		t.Fatal("HasErrors should be true")
	}
}

func TestValidateEqualTimes(t *testing.T) {
	findings := Validate(draft("2024-01-05", "09:00", "09:00", 0), nil, 15)
	if !HasErrors(findings) {
		t.Fatal("equal start and end should be an error")
	}
}

func TestValidateOverlapWarning(t *testing.T) {
	existing := []store.Shift{shift("2024-01-05", "09:00", "11:00", 0, store.TypeNormal)}
	findings := Validate(draft("2024-01-05", "08:00", "10:00", 0), existing, 15)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", findings)
	}
	f := findings[0]
	if f.Field != "time" || f.Severity != SeverityWarning {
		t.Fatalf("unexpected finding: %+v", f)
	}
	if f.Message != "overlaps existing shift 09:00-11:00" {
		t.Fatalf("message should identify the conflict: %q", f.Message)
	}
	// Warnings never block the write.
	if HasErrors(findings) {
		t.Fatal("overlap must not be an error")
	}
	if !HasWarnings(findings) {
		t.Fatal("HasWarnings should be true")
	}
}

func TestValidateOverlapOtherDateIgnored(t *testing.T) {
	existing := []store.Shift{shift("2024-01-06", "09:00", "11:00", 0, store.TypeNormal)}
	findings := Validate(draft("2024-01-05", "08:00", "10:00", 0), existing, 15)
	if len(findings) != 0 {
		t.Fatalf("different-date shift should not conflict: %+v", findings)
	}
}

func TestValidateTouchingShiftsNoWarning(t *testing.T) {
	existing := []store.Shift{shift("2024-01-05", "09:00", "12:00", 0, store.TypeNormal)}
	findings := Validate(draft("2024-01-05", "12:00", "17:00", 0), existing, 15)
	if len(findings) != 0 {
		t.Fatalf("back-to-back shifts should be fine: %+v", findings)
	}
}

func TestValidateOnlyFirstOverlapReported(t *testing.T) {
	existing := []store.Shift{
		shift("2024-01-05", "09:00", "11:00", 0, store.TypeNormal),
		shift("2024-01-05", "09:30", "10:30", 0, store.TypeNormal),
	}
	findings := Validate(draft("2024-01-05", "08:00", "10:00", 0), existing, 15)
	count := 0
	for _, f := range findings {
		if f.Field == "time" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected a single overlap finding, got %d", count)
	}
}

func TestValidateLongShiftWarning(t *testing.T) {
	findings := Validate(draft("2024-01-05", "06:00", "21:00", 0), nil, 15)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", findings)
	}
	if findings[0].Field != "duration" || findings[0].Severity != SeverityWarning {
		t.Fatalf("unexpected finding: %+v", findings[0])
	}
}

func TestValidateDayTotalWarning(t *testing.T) {
	existing := []store.Shift{
		shift("2024-01-05", "00:00", "09:00", 0, store.TypeNormal),
	}
	// 9h existing + 8h candidate = 17h > 16h.
	findings := Validate(draft("2024-01-05", "09:00", "17:00", 0), existing, 15)
	found := false
	for _, f := range findings {
		if f.Field == "duration" && f.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected day-total warning, got %+v", findings)
	}
}

func TestValidateMalformedTimes(t *testing.T) {
	findings := Validate(draft("2024-01-05", "morning", "17:00", 0), nil, 15)
	if !HasErrors(findings) {
		t.Fatal("malformed start should be an error")
	}
	if findings[0].Field != "start" {
		t.Fatalf("finding should target start: %+v", findings[0])
	}
}

func TestValidateNegativeBreak(t *testing.T) {
	findings := Validate(draft("2024-01-05", "09:00", "17:00", -30), nil, 15)
	if !HasErrors(findings) {
		t.Fatal("negative break should be an error")
	}
}

// ============================================================
// Aggregation
// ============================================================

func sampleMonth() []store.Shift {
	return []store.Shift{
		shift("2024-01-02", "09:00", "12:00", 0, store.TypeNormal),  // 3h, week 1
		shift("2024-01-02", "13:00", "18:00", 0, store.TypeNormal),  // 5h, week 1
		shift("2024-01-08", "09:00", "18:00", 60, store.TypeNormal), // 8h, week 2
		shift("2024-01-09", "18:00", "21:00", 0, store.TypeOT),      // 3h, week 2
		shift("2024-01-22", "22:00", "23:30", 0, store.TypeNight),   // 1.5h, week 4
	}
}

func TestTotalHours(t *testing.T) {
	if got := TotalHours(sampleMonth(), 15); !approx(got, 20.5) {
		t.Fatalf("TotalHours = %v, want 20.5", got)
	}
}

func TestHoursForDate(t *testing.T) {
	shifts := sampleMonth()
	if got := HoursForDate(shifts, "2024-01-02", 15); !approx(got, 8) {
		t.Fatalf("HoursForDate = %v, want 8", got)
	}
	if got := HoursForDate(shifts, "2024-01-31", 15); got != 0 {
		t.Fatalf("HoursForDate for empty date = %v, want 0", got)
	}
}

func TestHoursForType(t *testing.T) {
	shifts := sampleMonth()
	if got := HoursForType(shifts, store.TypeOT, 15); !approx(got, 3) {
		t.Fatalf("OT hours = %v, want 3", got)
	}
	if got := HoursForType(shifts, store.TypeNight, 15); !approx(got, 1.5) {
		t.Fatalf("night hours = %v, want 1.5", got)
	}
	if got := HoursForType(shifts, store.TypeLeave, 15); got != 0 {
		t.Fatalf("leave hours = %v, want 0", got)
	}
}

func TestWorkingDays(t *testing.T) {
	shifts := sampleMonth()
	if got := WorkingDays(shifts); got != 4 {
		t.Fatalf("WorkingDays = %d, want 4", got)
	}
	if got := WorkingDays(shifts); got > len(shifts) {
		t.Fatal("working days can never exceed shift count")
	}
}

func TestWeeklyTotals(t *testing.T) {
	totals := WeeklyTotals(sampleMonth(), 15)
	if !approx(totals[1], 8) {
		t.Fatalf("week 1 = %v, want 8", totals[1])
	}
	if !approx(totals[2], 11) {
		t.Fatalf("week 2 = %v, want 11", totals[2])
	}
	if !approx(totals[4], 1.5) {
		t.Fatalf("week 4 = %v, want 1.5", totals[4])
	}
	if _, ok := totals[3]; ok {
		t.Fatal("week 3 should be absent")
	}
}

func TestWeekOfMonthBoundaries(t *testing.T) {
	cases := map[string]int{
		"2024-01-01": 1,
		"2024-01-07": 1,
		"2024-01-08": 2,
		"2024-01-14": 2,
		"2024-01-15": 3,
		"2024-01-31": 5,
	}
	for date, want := range cases {
		got, ok := weekOfMonth(date)
		if !ok || got != want {
			t.Fatalf("weekOfMonth(%s) = %d, want %d", date, got, want)
		}
	}
}

func TestShiftsForDateOrdered(t *testing.T) {
	shifts := []store.Shift{
		shift("2024-01-02", "13:00", "18:00", 0, store.TypeNormal),
		shift("2024-01-02", "09:00", "12:00", 0, store.TypeNormal),
		shift("2024-01-03", "08:00", "10:00", 0, store.TypeNormal),
	}
	day := ShiftsForDate(shifts, "2024-01-02")
	if len(day) != 2 {
		t.Fatalf("expected 2 shifts, got %d", len(day))
	}
	if day[0].Start != "09:00" || day[1].Start != "13:00" {
		t.Fatalf("shifts not ordered by start: %s, %s", day[0].Start, day[1].Start)
	}
}

func TestAggregationEmpty(t *testing.T) {
	if got := TotalHours(nil, 15); got != 0 {
		t.Fatalf("TotalHours(nil) = %v", got)
	}
	if got := WorkingDays(nil); got != 0 {
		t.Fatalf("WorkingDays(nil) = %d", got)
	}
	if got := WeeklyTotals(nil, 15); len(got) != 0 {
		t.Fatalf("WeeklyTotals(nil) = %v", got)
	}
	if got := ShiftsForDate(nil, "2024-01-01"); got != nil {
		t.Fatalf("ShiftsForDate(nil) = %v", got)
	}
}

// ============================================================
// Salary
// ============================================================

func TestSalaryDisabled(t *testing.T) {
	_, err := Salary(sampleMonth(), store.SalaryConfig{Enabled: false}, 15)
	if err != ErrSalaryDisabled {
		t.Fatalf("expected ErrSalaryDisabled, got %v", err)
	}
}

func TestSalaryOTScenario(t *testing.T) {
	// Eight 2-hour OT shifts: 16h x 50000 x 1.5 = 1,200,000.
	var shifts []store.Shift
	for day := 1; day <= 8; day++ {
		date := "2024-01-0" + string(rune('0'+day))
		shifts = append(shifts, shift(date, "18:00", "20:00", 0, store.TypeOT))
	}
	cfg := store.SalaryConfig{Enabled: true, HourlyRate: 50000, OTMultiplier: 1.5, NightMultiplier: 1.3}

	b, err := Salary(shifts, cfg, 15)
	if err != nil {
		t.Fatal(err)
	}
	if b.OTHours != 16 {
		t.Fatalf("OTHours = %v, want 16", b.OTHours)
	}
	if b.OTPay != 1200000 {
		t.Fatalf("OTPay = %v, want 1200000", b.OTPay)
	}
	if b.NormalHours != 0 || b.NightHours != 0 {
		t.Fatalf("unexpected non-OT hours: %+v", b)
	}
	if b.Total != b.NormalPay+b.OTPay+b.NightPay {
		t.Fatalf("total %v != sum of tiers", b.Total)
	}
}

func TestSalaryTiers(t *testing.T) {
	shifts := []store.Shift{
		shift("2024-01-02", "09:00", "17:00", 0, store.TypeNormal), // 8h normal
		shift("2024-01-03", "18:00", "20:00", 0, store.TypeOT),     // 2h ot
		shift("2024-01-04", "22:00", "23:00", 0, store.TypeNight),  // 1h night
		shift("2024-01-05", "09:00", "17:00", 0, store.TypeLeave),  // 8h, bills normal
	}
	cfg := store.SalaryConfig{Enabled: true, HourlyRate: 100, OTMultiplier: 1.5, NightMultiplier: 1.3}

	b, err := Salary(shifts, cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	if b.NormalHours != 16 {
		t.Fatalf("NormalHours = %v, want 16 (leave bills at normal rate)", b.NormalHours)
	}
	if b.NormalPay != 1600 {
		t.Fatalf("NormalPay = %v, want 1600", b.NormalPay)
	}
	if b.OTPay != 300 {
		t.Fatalf("OTPay = %v, want 300", b.OTPay)
	}
	if b.NightPay != 130 {
		t.Fatalf("NightPay = %v, want 130", b.NightPay)
	}
	if b.Total != b.NormalPay+b.OTPay+b.NightPay {
		t.Fatalf("total %v != sum of tiers", b.Total)
	}
}

// ============================================================
// Report building
// ============================================================

func reportSettings() store.Settings {
	return store.Settings{
		RoundingMinutes: 15,
		ExportColumns:   store.ExportColumns{Project: true, Location: true, Note: true},
	}
}

func TestBuildReportRows(t *testing.T) {
	shifts := []store.Shift{
		shift("2024-01-03", "13:00", "18:00", 0, store.TypeNormal),
		shift("2024-01-03", "09:00", "12:00", 0, store.TypeNormal),
		shift("2024-01-02", "09:00", "18:00", 60, store.TypeOT),
	}
	shifts[2].Project = "Apollo"
	shifts[2].Note = "release day"

	rows, summary := BuildReport(shifts, reportSettings())
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	// Dates ascending, then start ascending within the day.
	if rows[0].Date != "02/01/2024" {
		t.Fatalf("rows[0].Date = %q", rows[0].Date)
	}
	if rows[1].Start != "09:00" || rows[2].Start != "13:00" {
		t.Fatalf("day rows not ordered by start: %s, %s", rows[1].Start, rows[2].Start)
	}

	// Sequence numbers.
	if rows[0].Seq != 1 || rows[2].Seq != 3 {
		t.Fatalf("month sequence wrong: %d, %d", rows[0].Seq, rows[2].Seq)
	}
	if rows[1].DaySeq != 1 || rows[2].DaySeq != 2 {
		t.Fatalf("day sequence wrong: %d, %d", rows[1].DaySeq, rows[2].DaySeq)
	}

	// 2024-01-02 was a Tuesday.
	if rows[0].Weekday != "Tuesday" {
		t.Fatalf("weekday = %q, want Tuesday", rows[0].Weekday)
	}
	if rows[0].Hours != 8.0 {
		t.Fatalf("hours = %v, want 8.0", rows[0].Hours)
	}
	if rows[0].Type != "Overtime" {
		t.Fatalf("type label = %q", rows[0].Type)
	}
	if rows[0].Project != "Apollo" || rows[0].Note != "release day" {
		t.Fatalf("optional columns missing: %+v", rows[0])
	}

	if summary.ShiftCount != 3 || summary.WorkingDays != 2 {
		t.Fatalf("summary counts wrong: %+v", summary)
	}
	if !approx(summary.TotalHours, 16) {
		t.Fatalf("summary total = %v, want 16", summary.TotalHours)
	}
	if !approx(summary.OTHours, 8) {
		t.Fatalf("summary OT = %v, want 8", summary.OTHours)
	}
}

func TestBuildReportColumnToggles(t *testing.T) {
	sh := shift("2024-01-02", "09:00", "17:00", 0, store.TypeNormal)
	sh.Project = "Apollo"
	sh.Location = "HQ"

	settings := reportSettings()
	settings.ExportColumns.Project = false

	rows, _ := BuildReport([]store.Shift{sh}, settings)
	if rows[0].Project != "" {
		t.Fatal("disabled column should be empty")
	}
	if rows[0].Location != "HQ" {
		t.Fatal("enabled column should carry the value")
	}
}

func TestBuildReportWeeklyAndTypes(t *testing.T) {
	_, summary := BuildReport(sampleMonth(), reportSettings())

	if len(summary.Weekly) != 3 {
		t.Fatalf("expected 3 weekly buckets, got %+v", summary.Weekly)
	}
	if summary.Weekly[0].Week != 1 || summary.Weekly[2].Week != 4 {
		t.Fatalf("weekly buckets not sorted: %+v", summary.Weekly)
	}

	if len(summary.ByType) != 3 {
		t.Fatalf("expected 3 type totals, got %+v", summary.ByType)
	}
	if summary.ByType[0].Type != "Regular" {
		t.Fatalf("type totals should follow display order: %+v", summary.ByType)
	}
}

func TestBuildReportEmpty(t *testing.T) {
	rows, summary := BuildReport(nil, reportSettings())
	if rows != nil {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	if summary.TotalHours != 0 || summary.ShiftCount != 0 || summary.WorkingDays != 0 {
		t.Fatalf("summary should be zero-valued: %+v", summary)
	}
	if summary.Weekly != nil || summary.ByType != nil {
		t.Fatalf("summary lists should be empty: %+v", summary)
	}
}

func TestTypeLabelUnknown(t *testing.T) {
	if got := TypeLabel(store.ShiftType("oncall")); got != "oncall" {
		t.Fatalf("unknown type should pass through, got %q", got)
	}
}

package timesheet

import (
	"fmt"

	"github.com/sadopc/shiftlog/internal/store"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Finding is one validation result. Error findings must block the
// write; warnings are advisory and never do.
type Finding struct {
	Field    string
	Message  string
	Severity Severity
}

const (
	maxShiftHours = 12
	maxDayHours   = 16
)

// Validate checks a candidate shift against its own fields and the
// other shifts already recorded on the same date. When editing, the
// caller passes existing without the shift being edited.
func Validate(candidate store.ShiftDraft, existing []store.Shift, roundingMinutes int) []Finding {
	var findings []Finding

	startMin, startErr := ClockMinutes(candidate.Start)
	if startErr != nil {
		findings = append(findings, Finding{
			Field:    "start",
			Message:  fmt.Sprintf("start time %q is not a valid HH:mm time", candidate.Start),
			Severity: SeverityError,
		})
	}
	endMin, endErr := ClockMinutes(candidate.End)
	if endErr != nil {
		findings = append(findings, Finding{
			Field:    "end",
			Message:  fmt.Sprintf("end time %q is not a valid HH:mm time", candidate.End),
			Severity: SeverityError,
		})
	}
	if candidate.BreakMinutes < 0 {
		findings = append(findings, Finding{
			Field:    "breakMinutes",
			Message:  "break minutes cannot be negative",
			Severity: SeverityError,
		})
	}
	if startErr != nil || endErr != nil {
		return findings
	}

	if endMin <= startMin {
		findings = append(findings, Finding{
			Field:    "end",
			Message:  "end time must be after start time",
			Severity: SeverityError,
		})
	}

	// First overlapping shift on the same date, if any.
	for _, sh := range existing {
		if sh.Date != candidate.Date {
			continue
		}
		if Overlaps(candidate.Start, candidate.End, sh.Start, sh.End) {
			findings = append(findings, Finding{
				Field:    "time",
				Message:  fmt.Sprintf("overlaps existing shift %s-%s", sh.Start, sh.End),
				Severity: SeverityWarning,
			})
			break
		}
	}

	hours, err := Duration(candidate.Start, candidate.End, candidate.BreakMinutes, roundingMinutes)
	if err != nil {
		return findings
	}
	if hours > maxShiftHours {
		findings = append(findings, Finding{
			Field:    "duration",
			Message:  fmt.Sprintf("shift duration is unusually long (%.1fh)", hours),
			Severity: SeverityWarning,
		})
	}

	dayTotal := hours
	for _, sh := range existing {
		if sh.Date != candidate.Date {
			continue
		}
		h, err := Duration(sh.Start, sh.End, sh.BreakMinutes, roundingMinutes)
		if err != nil {
			continue
		}
		dayTotal += h
	}
	if dayTotal > maxDayHours {
		findings = append(findings, Finding{
			Field:    "duration",
			Message:  fmt.Sprintf("total for this day will be %.1fh (over %dh)", dayTotal, maxDayHours),
			Severity: SeverityWarning,
		})
	}

	return findings
}

// HasErrors reports whether any finding blocks persistence.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any advisory finding is present.
func HasWarnings(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

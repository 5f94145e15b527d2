package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/shiftlog/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewCalendar viewState = iota
	viewStats
	viewTemplates
	viewSettings
)

var viewNames = []string{"Calendar", "Stats", "Templates", "Settings"}

// --- Messages ---

type calendarDataMsg struct {
	shifts    []store.Shift
	settings  store.Settings
	templates []store.ShiftTemplate
}

type statsDataMsg struct {
	shifts   []store.Shift
	settings store.Settings
}

type templatesDataMsg struct {
	templates []store.ShiftTemplate
}

type settingsDataMsg struct {
	settings store.Settings
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

type templateAppliedMsg struct {
	saved   int
	skipped int
}

func statusCmd(text string, isError bool) func() tea.Msg {
	return func() tea.Msg {
		return statusMsg{text: text, isError: isError}
	}
}

// --- Helpers ---

func formatHours(hours float64) string {
	return fmt.Sprintf("%.1fh", hours)
}

// monthString renders a date as its "YYYY-MM" month prefix.
func monthString(t time.Time) string {
	return t.Format("2006-01")
}

func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}

func parseDate(date string) (time.Time, error) {
	return time.Parse("2006-01-02", date)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

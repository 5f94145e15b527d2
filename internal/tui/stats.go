package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/shiftlog/internal/store"
	"github.com/sadopc/shiftlog/internal/timesheet"
)

type statsModel struct {
	store  *store.Store
	width  int
	height int

	month    string // "YYYY-MM" being displayed
	shifts   []store.Shift
	settings store.Settings

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		month: monthString(time.Now()),
		chart: barchart.New(60, 10),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s statsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		shifts, _ := s.store.ListShiftsForMonth(s.month)
		settings, _ := s.store.GetSettings()
		return statsDataMsg{shifts: shifts, settings: settings}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		s.shifts = msg.shifts
		s.settings = msg.settings
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.PrevMonth):
			return s.moveMonth(-1)
		case key.Matches(msg, keys.Right), key.Matches(msg, keys.NextMonth):
			return s.moveMonth(1)
		case key.Matches(msg, keys.Today):
			s.month = monthString(time.Now())
			return s, s.refresh()
		}
	}
	return s, nil
}

func (s statsModel) moveMonth(months int) (statsModel, tea.Cmd) {
	first, err := parseDate(s.month + "-01")
	if err != nil {
		return s, nil
	}
	s.month = monthString(first.AddDate(0, months, 0))
	return s, s.refresh()
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if s.height > 30 {
		chartHeight = 14
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	weekly := timesheet.WeeklyTotals(s.shifts, s.settings.RoundingMinutes)

	var bars []barchart.BarData
	for week := 1; week <= 5; week++ {
		hours := weekly[week]
		style := lipgloss.NewStyle().Foreground(colorPrimary)
		if hours == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("W%d", week),
			Values: []barchart.BarValue{
				{Name: "hours", Value: hours, Style: style},
			},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	first, err := parseDate(s.month + "-01")
	if err != nil {
		return panelStyle.Width(w).Render(errorStyle.Render("bad month: " + s.month))
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ",
		highlightStyle.Render(first.Format("January 2006")),
	)

	totals := s.renderTotals()
	chartTitle := mutedStyle.Render("  Hours per week")
	chartView := s.chart.View()
	typeTable := s.renderTypeTable(w)
	salary := s.renderSalary()
	nav := mutedStyle.Render("  ←/→: month  t: today")

	sections := []string{header, "", totals, "", chartTitle, chartView, "", typeTable}
	if salary != "" {
		sections = append(sections, "", salary)
	}
	sections = append(sections, "", nav)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (s statsModel) renderTotals() string {
	rounding := s.settings.RoundingMinutes
	total := timesheet.TotalHours(s.shifts, rounding)
	days := timesheet.WorkingDays(s.shifts)

	avg := 0.0
	if days > 0 {
		avg = total / float64(days)
	}

	return fmt.Sprintf("  %s %s    %s %d    %s %d    %s %s",
		mutedStyle.Render("Total:"), highlightStyle.Render(timesheet.FormatDuration(total)),
		mutedStyle.Render("Days:"), days,
		mutedStyle.Render("Shifts:"), len(s.shifts),
		mutedStyle.Render("Avg/day:"), timesheet.FormatDuration(avg),
	)
}

func (s statsModel) renderTypeTable(w int) string {
	if len(s.shifts) == 0 {
		return mutedStyle.Render("  No shifts this month")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s", "Type", "Hours")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 24))))

	rounding := s.settings.RoundingMinutes
	for _, t := range store.ShiftTypes {
		hours := timesheet.HoursForType(s.shifts, t, rounding)
		if hours == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("  %-12s %10s", timesheet.TypeLabel(t), timesheet.FormatDuration(hours)))
	}

	return strings.Join(rows, "\n")
}

func (s statsModel) renderSalary() string {
	breakdown, err := timesheet.Salary(s.shifts, s.settings.Salary, s.settings.RoundingMinutes)
	if err != nil {
		if errors.Is(err, timesheet.ErrSalaryDisabled) {
			return ""
		}
		return errorStyle.Render("  Salary error: " + err.Error())
	}

	var rows []string
	rows = append(rows, titleStyle.Render("  Salary"))
	if breakdown.NormalHours > 0 {
		rows = append(rows, fmt.Sprintf("  %-12s %8s  %12.2f", "Regular", formatHours(breakdown.NormalHours), breakdown.NormalPay))
	}
	if breakdown.OTHours > 0 {
		rows = append(rows, fmt.Sprintf("  %-12s %8s  %12.2f", "Overtime", formatHours(breakdown.OTHours), breakdown.OTPay))
	}
	if breakdown.NightHours > 0 {
		rows = append(rows, fmt.Sprintf("  %-12s %8s  %12.2f", "Night", formatHours(breakdown.NightHours), breakdown.NightPay))
	}
	rows = append(rows, successStyle.Render(fmt.Sprintf("  %-12s %8s  %12.2f", "Total", "", breakdown.Total)))

	return strings.Join(rows, "\n")
}

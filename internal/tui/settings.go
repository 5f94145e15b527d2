package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/shiftlog/internal/store"
)

var roundingChoices = []int{0, 5, 10, 15, 30, 60}

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   store.Settings
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	rounding        *string
	salaryEnabled   *bool
	hourlyRate      *string
	otMultiplier    *string
	nightMultiplier *string
	otRuleEnabled   *bool
	otAfterTime     *string
	colProject      *bool
	colLocation     *bool
	colNote         *bool
	colTags         *bool
}

func newSettingsModel(s *store.Store) settingsModel {
	rounding, rate, otMul, nightMul, after := "", "", "", "", ""
	salaryOn, otRuleOn := false, false
	cp, cl, cn, ct := false, false, false, false
	return settingsModel{
		store:           s,
		rounding:        &rounding,
		salaryEnabled:   &salaryOn,
		hourlyRate:      &rate,
		otMultiplier:    &otMul,
		nightMultiplier: &nightMul,
		otRuleEnabled:   &otRuleOn,
		otAfterTime:     &after,
		colProject:      &cp,
		colLocation:     &cl,
		colNote:         &cn,
		colTags:         &ct,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cfg := s.settings
	*s.rounding = strconv.Itoa(cfg.RoundingMinutes)
	*s.salaryEnabled = cfg.Salary.Enabled
	*s.hourlyRate = strconv.FormatFloat(cfg.Salary.HourlyRate, 'f', -1, 64)
	*s.otMultiplier = strconv.FormatFloat(cfg.Salary.OTMultiplier, 'f', -1, 64)
	*s.nightMultiplier = strconv.FormatFloat(cfg.Salary.NightMultiplier, 'f', -1, 64)
	*s.otRuleEnabled = cfg.OTRule.Enabled
	*s.otAfterTime = cfg.OTRule.AfterTime
	*s.colProject = cfg.ExportColumns.Project
	*s.colLocation = cfg.ExportColumns.Location
	*s.colNote = cfg.ExportColumns.Note
	*s.colTags = cfg.ExportColumns.Tags

	roundingOptions := make([]huh.Option[string], len(roundingChoices))
	for i, m := range roundingChoices {
		label := fmt.Sprintf("%d min", m)
		if m == 0 {
			label = "off"
		}
		roundingOptions[i] = huh.NewOption(label, strconv.Itoa(m))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Rounding granularity").Options(roundingOptions...).Value(s.rounding),
		).Title("Time"),
		huh.NewGroup(
			huh.NewConfirm().Title("Salary calculation").Value(s.salaryEnabled),
			huh.NewInput().Title("Hourly rate").Value(s.hourlyRate),
			huh.NewInput().Title("Overtime multiplier").Value(s.otMultiplier),
			huh.NewInput().Title("Night multiplier").Value(s.nightMultiplier),
		).Title("Salary"),
		huh.NewGroup(
			huh.NewConfirm().Title("Overtime rule").Value(s.otRuleEnabled),
			huh.NewInput().Title("Overtime after (HH:mm)").Value(s.otAfterTime),
		).Title("Overtime"),
		huh.NewGroup(
			huh.NewConfirm().Title("Project column").Value(s.colProject),
			huh.NewConfirm().Title("Location column").Value(s.colLocation),
			huh.NewConfirm().Title("Note column").Value(s.colNote),
			huh.NewConfirm().Title("Tags column").Value(s.colTags),
		).Title("Export columns"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, tea.Batch(s.refresh(), statusCmd("Settings error: "+err.Error(), true))
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved", false))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	cfg := s.settings

	rounding, err := strconv.Atoi(*s.rounding)
	if err != nil || rounding < 0 {
		return fmt.Errorf("invalid rounding %q", *s.rounding)
	}
	cfg.RoundingMinutes = rounding

	cfg.Salary.Enabled = *s.salaryEnabled
	if cfg.Salary.HourlyRate, err = strconv.ParseFloat(*s.hourlyRate, 64); err != nil {
		return fmt.Errorf("invalid hourly rate %q", *s.hourlyRate)
	}
	if cfg.Salary.OTMultiplier, err = strconv.ParseFloat(*s.otMultiplier, 64); err != nil {
		return fmt.Errorf("invalid overtime multiplier %q", *s.otMultiplier)
	}
	if cfg.Salary.NightMultiplier, err = strconv.ParseFloat(*s.nightMultiplier, 64); err != nil {
		return fmt.Errorf("invalid night multiplier %q", *s.nightMultiplier)
	}

	cfg.OTRule.Enabled = *s.otRuleEnabled
	cfg.OTRule.AfterTime = *s.otAfterTime

	cfg.ExportColumns.Project = *s.colProject
	cfg.ExportColumns.Location = *s.colLocation
	cfg.ExportColumns.Note = *s.colNote
	cfg.ExportColumns.Tags = *s.colTags

	return s.store.PutSettings(cfg)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")
	cfg := s.settings

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s",
			lipgloss.NewStyle().Width(24).Render(label),
			highlightStyle.Render(value),
		)
	}
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	roundingLabel := fmt.Sprintf("%d min", cfg.RoundingMinutes)
	if cfg.RoundingMinutes == 0 {
		roundingLabel = "off"
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, row("Rounding", roundingLabel))
	rows = append(rows, row("Salary", onOff(cfg.Salary.Enabled)))
	if cfg.Salary.Enabled {
		rows = append(rows, row("Hourly rate", strconv.FormatFloat(cfg.Salary.HourlyRate, 'f', -1, 64)))
		rows = append(rows, row("Overtime multiplier", fmt.Sprintf("×%.2f", cfg.Salary.OTMultiplier)))
		rows = append(rows, row("Night multiplier", fmt.Sprintf("×%.2f", cfg.Salary.NightMultiplier)))
	}
	rows = append(rows, row("Overtime rule", onOff(cfg.OTRule.Enabled)))
	if cfg.OTRule.Enabled {
		rows = append(rows, row("Overtime after", cfg.OTRule.AfterTime))
	}
	rows = append(rows, row("Export columns", exportColumnsLabel(cfg.ExportColumns)))

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func exportColumnsLabel(c store.ExportColumns) string {
	var on []string
	if c.Project {
		on = append(on, "project")
	}
	if c.Location {
		on = append(on, "location")
	}
	if c.Note {
		on = append(on, "note")
	}
	if c.Tags {
		on = append(on, "tags")
	}
	if len(on) == 0 {
		return "none"
	}
	out := on[0]
	for _, s := range on[1:] {
		out += ", " + s
	}
	return out
}

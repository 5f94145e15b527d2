package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/shiftlog/internal/store"
	"github.com/sadopc/shiftlog/internal/timesheet"
)

type calendarModel struct {
	store  *store.Store
	width  int
	height int

	month     string // displayed month, "YYYY-MM"
	selected  string // cursor date, "YYYY-MM-DD"
	shifts    []store.Shift
	settings  store.Settings
	templates []store.ShiftTemplate

	viewingDay  bool
	shiftCursor int

	// Template picker inside the day view
	picking      bool
	pickerCursor int

	formActive bool
	form       *huh.Form
	formType   string // "shift", "template_name"
	editingID  string // shift being edited; empty when creating

	// Form field pointers (survive value copies)
	fStart    *string
	fEnd      *string
	fBreak    *string
	fType     *string
	fProject  *string
	fLocation *string
	fNote     *string
	fTags     *string
	fName     *string
}

func newCalendarModel(s *store.Store) calendarModel {
	now := time.Now()
	start, end, brk, typ := "", "", "", ""
	project, location, note, tags, name := "", "", "", "", ""
	return calendarModel{
		store:     s,
		month:     monthString(now),
		selected:  dateString(now),
		fStart:    &start,
		fEnd:      &end,
		fBreak:    &brk,
		fType:     &typ,
		fProject:  &project,
		fLocation: &location,
		fNote:     &note,
		fTags:     &tags,
		fName:     &name,
	}
}

func (c calendarModel) Init() tea.Cmd {
	return c.refresh()
}

func (c *calendarModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c calendarModel) refresh() tea.Cmd {
	return func() tea.Msg {
		shifts, _ := c.store.ListShiftsForMonth(c.month)
		settings, _ := c.store.GetSettings()
		templates, _ := c.store.ListTemplates()
		return calendarDataMsg{shifts: shifts, settings: settings, templates: templates}
	}
}

func (c calendarModel) update(msg tea.Msg) (calendarModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}

	switch msg := msg.(type) {
	case calendarDataMsg:
		c.shifts = msg.shifts
		c.settings = msg.settings
		c.templates = msg.templates
		if day := c.dayShifts(); c.shiftCursor >= len(day) {
			c.shiftCursor = max(0, len(day)-1)
		}
		return c, nil

	case templateAppliedMsg:
		text := fmt.Sprintf("Template applied: %d shift(s) added", msg.saved)
		if msg.skipped > 0 {
			text += fmt.Sprintf(", %d skipped (conflicts)", msg.skipped)
		}
		return c, tea.Batch(c.refresh(), statusCmd(text, false))

	case tea.KeyMsg:
		if c.picking {
			return c.updateTemplatePicker(msg)
		}
		if c.viewingDay {
			return c.updateDayView(msg)
		}
		return c.updateGrid(msg)
	}
	return c, nil
}

func (c calendarModel) updateGrid(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Left):
		return c.moveSelection(-1)
	case key.Matches(msg, keys.Right):
		return c.moveSelection(1)
	case key.Matches(msg, keys.Up):
		return c.moveSelection(-7)
	case key.Matches(msg, keys.Down):
		return c.moveSelection(7)
	case key.Matches(msg, keys.PrevMonth):
		return c.moveMonth(-1)
	case key.Matches(msg, keys.NextMonth):
		return c.moveMonth(1)
	case key.Matches(msg, keys.Today):
		now := time.Now()
		c.selected = dateString(now)
		if m := monthString(now); m != c.month {
			c.month = m
			return c, c.refresh()
		}
		return c, nil
	case key.Matches(msg, keys.Enter):
		c.viewingDay = true
		c.shiftCursor = 0
		return c, nil
	case key.Matches(msg, keys.New):
		return c.showShiftForm(nil)
	}
	return c, nil
}

func (c calendarModel) updateDayView(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	day := c.dayShifts()
	switch {
	case key.Matches(msg, keys.Back):
		c.viewingDay = false
		return c, nil
	case key.Matches(msg, keys.Up):
		if c.shiftCursor > 0 {
			c.shiftCursor--
		}
	case key.Matches(msg, keys.Down):
		if c.shiftCursor < len(day)-1 {
			c.shiftCursor++
		}
	case key.Matches(msg, keys.New):
		return c.showShiftForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(day) > 0 {
			sh := day[c.shiftCursor]
			return c.showShiftForm(&sh)
		}
	case key.Matches(msg, keys.Delete):
		if len(day) > 0 {
			sh := day[c.shiftCursor]
			if err := c.store.DeleteShift(sh.ID); err != nil {
				return c, statusCmd(fmt.Sprintf("Delete error: %v", err), true)
			}
			return c, tea.Batch(c.refresh(), statusCmd("Shift deleted", false))
		}
	case key.Matches(msg, keys.DeleteDay):
		if len(day) > 0 {
			if err := c.store.DeleteShiftsForDate(c.selected); err != nil {
				return c, statusCmd(fmt.Sprintf("Delete error: %v", err), true)
			}
			return c, tea.Batch(c.refresh(), statusCmd("All shifts for the day deleted", false))
		}
	case key.Matches(msg, keys.Template):
		if len(c.templates) > 0 {
			c.picking = true
			c.pickerCursor = 0
		}
	case key.Matches(msg, keys.SaveTemplate):
		if len(day) > 0 {
			return c.showTemplateNameForm()
		}
	}
	return c, nil
}

func (c calendarModel) updateTemplatePicker(msg tea.KeyMsg) (calendarModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if c.pickerCursor > 0 {
			c.pickerCursor--
		}
	case key.Matches(msg, keys.Down):
		if c.pickerCursor < len(c.templates)-1 {
			c.pickerCursor++
		}
	case key.Matches(msg, keys.Enter):
		c.picking = false
		return c, c.applyTemplate(c.templates[c.pickerCursor])
	case key.Matches(msg, keys.Back):
		c.picking = false
	}
	return c, nil
}

func (c calendarModel) moveSelection(days int) (calendarModel, tea.Cmd) {
	t, err := parseDate(c.selected)
	if err != nil {
		return c, nil
	}
	t = t.AddDate(0, 0, days)
	c.selected = dateString(t)
	if m := monthString(t); m != c.month {
		c.month = m
		return c, c.refresh()
	}
	return c, nil
}

func (c calendarModel) moveMonth(months int) (calendarModel, tea.Cmd) {
	first, err := parseDate(c.month + "-01")
	if err != nil {
		return c, nil
	}
	first = first.AddDate(0, months, 0)
	c.month = monthString(first)

	// Keep the selected day-of-month, clamped to the new month's length.
	day := 1
	if t, err := parseDate(c.selected); err == nil {
		day = t.Day()
	}
	last := first.AddDate(0, 1, -1).Day()
	c.selected = dateString(first.AddDate(0, 0, min(day, last)-1))
	return c, c.refresh()
}

func (c calendarModel) dayShifts() []store.Shift {
	return timesheet.ShiftsForDate(c.shifts, c.selected)
}

// --- Shift form ---

func (c calendarModel) showShiftForm(editing *store.Shift) (calendarModel, tea.Cmd) {
	if editing != nil {
		c.editingID = editing.ID
		*c.fStart = editing.Start
		*c.fEnd = editing.End
		*c.fBreak = strconv.Itoa(editing.BreakMinutes)
		*c.fType = string(editing.Type)
		*c.fProject = editing.Project
		*c.fLocation = editing.Location
		*c.fNote = editing.Note
		*c.fTags = strings.Join(editing.Tags, ", ")
	} else {
		c.editingID = ""
		*c.fStart = ""
		*c.fEnd = ""
		*c.fBreak = "0"
		*c.fType = string(store.TypeNormal)
		*c.fProject = ""
		*c.fLocation = ""
		*c.fNote = ""
		*c.fTags = ""
	}

	typeOptions := make([]huh.Option[string], len(store.ShiftTypes))
	for i, t := range store.ShiftTypes {
		typeOptions[i] = huh.NewOption(timesheet.TypeLabel(t), string(t))
	}

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Start (HH:mm)").Value(c.fStart),
			huh.NewInput().Title("End (HH:mm)").Value(c.fEnd),
			huh.NewInput().Title("Break (minutes)").Value(c.fBreak),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(c.fType),
		),
		huh.NewGroup(
			huh.NewInput().Title("Project").Value(c.fProject),
			huh.NewInput().Title("Location").Value(c.fLocation),
			huh.NewInput().Title("Note").Value(c.fNote),
			huh.NewInput().Title("Tags (comma-separated)").Value(c.fTags),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formType = "shift"
	c.formActive = true
	return c, c.form.Init()
}

func (c calendarModel) showTemplateNameForm() (calendarModel, tea.Cmd) {
	*c.fName = ""
	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Template name").Value(c.fName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formType = "template_name"
	c.formActive = true
	return c, c.form.Init()
}

func (c calendarModel) updateForm(msg tea.Msg) (calendarModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		switch c.formType {
		case "shift":
			return c.saveShift()
		case "template_name":
			return c.saveDayTemplate()
		}
	}

	return c, cmd
}

// saveShift validates the form draft against the rest of the day and
// persists it. Error findings block the write; warnings are surfaced
// in the status line but never block.
func (c calendarModel) saveShift() (calendarModel, tea.Cmd) {
	breakMin := 0
	if v := strings.TrimSpace(*c.fBreak); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, statusCmd("Break minutes must be a number", true)
		}
		breakMin = n
	}

	draft := store.ShiftDraft{
		Date:         c.selected,
		Start:        strings.TrimSpace(*c.fStart),
		End:          strings.TrimSpace(*c.fEnd),
		BreakMinutes: breakMin,
		Type:         store.ShiftType(*c.fType),
		Project:      strings.TrimSpace(*c.fProject),
		Location:     strings.TrimSpace(*c.fLocation),
		Note:         strings.TrimSpace(*c.fNote),
		Tags:         parseTags(*c.fTags),
	}

	existing := make([]store.Shift, 0, len(c.shifts))
	for _, sh := range c.shifts {
		if sh.ID != c.editingID {
			existing = append(existing, sh)
		}
	}

	findings := timesheet.Validate(draft, existing, c.settings.RoundingMinutes)
	if timesheet.HasErrors(findings) {
		for _, f := range findings {
			if f.Severity == timesheet.SeverityError {
				return c, statusCmd("Not saved: "+f.Message, true)
			}
		}
	}

	var err error
	if c.editingID != "" {
		err = c.store.UpdateShift(c.editingID, draft)
	} else {
		_, err = c.store.CreateShift(draft)
	}
	if err != nil {
		return c, statusCmd(fmt.Sprintf("Save error: %v", err), true)
	}

	status := statusCmd("Shift saved", false)
	if timesheet.HasWarnings(findings) {
		for _, f := range findings {
			if f.Severity == timesheet.SeverityWarning {
				status = statusCmd("Saved with warning: "+f.Message, false)
				break
			}
		}
	}
	return c, tea.Batch(c.refresh(), status)
}

func (c calendarModel) saveDayTemplate() (calendarModel, tea.Cmd) {
	name := strings.TrimSpace(*c.fName)
	if name == "" {
		return c, statusCmd("Template name cannot be empty", true)
	}
	day := c.dayShifts()
	presets := make([]store.TemplateShift, 0, len(day))
	for _, sh := range day {
		presets = append(presets, store.TemplateShift{
			Start:        sh.Start,
			End:          sh.End,
			BreakMinutes: sh.BreakMinutes,
			Type:         sh.Type,
			Tags:         sh.Tags,
		})
	}
	if _, err := c.store.CreateTemplate(name, presets); err != nil {
		return c, statusCmd(fmt.Sprintf("Template error: %v", err), true)
	}
	return c, tea.Batch(c.refresh(), statusCmd("Template saved: "+name, false))
}

func (c calendarModel) applyTemplate(tpl store.ShiftTemplate) tea.Cmd {
	date := c.selected
	return func() tea.Msg {
		existing, _ := c.store.ListShiftsForDate(date)
		saved := 0
		for _, preset := range tpl.Shifts {
			draft := store.ShiftDraft{
				Date:         date,
				Start:        preset.Start,
				End:          preset.End,
				BreakMinutes: preset.BreakMinutes,
				Type:         preset.Type,
				Tags:         preset.Tags,
			}
			findings := timesheet.Validate(draft, existing, c.settings.RoundingMinutes)
			if timesheet.HasErrors(findings) {
				continue
			}
			sh, err := c.store.CreateShift(draft)
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Template error: %v", err), isError: true}
			}
			existing = append(existing, *sh)
			saved++
		}
		return templateAppliedMsg{saved: saved, skipped: len(tpl.Shifts) - saved}
	}
}

func parseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// --- Rendering ---

func (c calendarModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		title := titleStyle.Render("New Shift — " + c.selected)
		if c.formType == "template_name" {
			title = titleStyle.Render("Save Day as Template")
		} else if c.editingID != "" {
			title = titleStyle.Render("Edit Shift — " + c.selected)
		}
		hint := mutedStyle.Render("Shifts cannot cross midnight; split overnight work into two days.")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", c.form.View(), hint),
		)
	}

	if c.viewingDay {
		return c.renderDayView(w)
	}

	grid := c.renderGrid(w)
	daySummary := c.renderDaySummary(w)
	return lipgloss.JoinVertical(lipgloss.Left, grid, daySummary)
}

func (c calendarModel) renderGrid(w int) string {
	first, err := parseDate(c.month + "-01")
	if err != nil {
		return panelStyle.Width(w).Render(errorStyle.Render("bad month: " + c.month))
	}
	today := dateString(time.Now())
	lastDay := first.AddDate(0, 1, -1).Day()

	title := titleStyle.Render(first.Format("January 2006"))
	monthTotal := highlightStyle.Render(timesheet.FormatDuration(timesheet.TotalHours(c.shifts, c.settings.RoundingMinutes)))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", monthTotal)

	const cellWidth = 10
	dayNames := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	var nameCells []string
	for _, n := range dayNames {
		nameCells = append(nameCells, mutedStyle.Width(cellWidth).Render(" "+n))
	}
	weekHeader := lipgloss.JoinHorizontal(lipgloss.Top, nameCells...)

	var rows []string
	rows = append(rows, header, "", weekHeader)

	// Monday-first column index of the 1st.
	offset := (int(first.Weekday()) + 6) % 7

	var cells []string
	for i := 0; i < offset; i++ {
		cells = append(cells, dayMutedStyle.Width(cellWidth).Render(""))
	}
	// Days with a leave, training or travel shift get a marker so they
	// stand out from regular worked days.
	marked := make(map[string]bool)
	for _, sh := range c.shifts {
		switch sh.Type {
		case store.TypeLeave, store.TypeTraining, store.TypeTravel:
			marked[sh.Date] = true
		}
	}

	for day := 1; day <= lastDay; day++ {
		date := fmt.Sprintf("%s-%02d", c.month, day)
		hours := timesheet.HoursForDate(c.shifts, date, c.settings.RoundingMinutes)

		label := fmt.Sprintf("%2d", day)
		if hours > 0 {
			label += " " + formatHours(hours)
		}
		if marked[date] {
			label += "*"
		}

		style := dayStyle
		switch {
		case date == c.selected:
			style = daySelectedStyle
		case date == today:
			style = dayTodayStyle
		case hours == 0:
			style = dayMutedStyle
		}
		cells = append(cells, style.Width(cellWidth).Render(label))

		if len(cells) == 7 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
			cells = nil
		}
	}
	if len(cells) > 0 {
		for len(cells) < 7 {
			cells = append(cells, dayMutedStyle.Width(cellWidth).Render(""))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	rows = append(rows, "", mutedStyle.Render("  arrows: move  [/]: month  t: today  enter: open day  n: new shift"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (c calendarModel) renderDaySummary(w int) string {
	day := c.dayShifts()
	t, _ := parseDate(c.selected)
	title := titleStyle.Render(t.Format("Mon 02 Jan"))

	if len(day) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No shifts")),
		)
	}

	total := timesheet.HoursForDate(c.shifts, c.selected, c.settings.RoundingMinutes)
	header := fmt.Sprintf("%s  %s", title, highlightStyle.Render(timesheet.FormatDuration(total)))

	var rows []string
	rows = append(rows, header)
	for _, sh := range day {
		rows = append(rows, "  "+c.shiftLine(sh))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c calendarModel) renderDayView(w int) string {
	day := c.dayShifts()
	t, _ := parseDate(c.selected)
	total := timesheet.HoursForDate(c.shifts, c.selected, c.settings.RoundingMinutes)

	title := titleStyle.Render(t.Format("Monday, 02 January 2006"))
	header := fmt.Sprintf("%s  %s", title, highlightStyle.Render(timesheet.FormatDuration(total)))

	var rows []string
	rows = append(rows, header, "")

	if c.picking {
		rows = append(rows, titleStyle.Render("Apply Template"))
		for i, tpl := range c.templates {
			cursor := "  "
			style := normalItemStyle
			if i == c.pickerCursor {
				cursor = "> "
				style = selectedItemStyle
			}
			rows = append(rows, style.Render(fmt.Sprintf("%s%s (%d shifts)", cursor, tpl.Name, len(tpl.Shifts))))
		}
		rows = append(rows, "", mutedStyle.Render("  enter: apply  esc: cancel"))
		return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	if len(day) == 0 {
		rows = append(rows, mutedStyle.Render("No shifts. Press n to add one."))
	}
	for i, sh := range day {
		cursor := "  "
		style := normalItemStyle
		if i == c.shiftCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+c.shiftLine(sh)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete  D: delete day  p: template  s: save template  esc: back"))
	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (c calendarModel) shiftLine(sh store.Shift) string {
	hours, err := timesheet.Duration(sh.Start, sh.End, sh.BreakMinutes, c.settings.RoundingMinutes)
	dur := "?"
	if err == nil {
		dur = timesheet.FormatDuration(hours)
	}
	line := fmt.Sprintf("%s-%s  %-7s %-9s", sh.Start, sh.End, dur, timesheet.TypeLabel(sh.Type))
	if sh.BreakMinutes > 0 {
		line += mutedStyle.Render(fmt.Sprintf(" (%dm break)", sh.BreakMinutes))
	}
	if sh.Project != "" {
		line += " " + highlightStyle.Render(sh.Project)
	}
	if len(sh.Tags) > 0 {
		line += " " + mutedStyle.Render("["+strings.Join(sh.Tags, ",")+"]")
	}
	return line
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/shiftlog/internal/store"
	"github.com/sadopc/shiftlog/internal/timesheet"
)

type templatesModel struct {
	store  *store.Store
	width  int
	height int

	templates []store.ShiftTemplate
	cursor    int

	formActive bool
	form       *huh.Form
	editingID  string

	formName *string
}

func newTemplatesModel(s *store.Store) templatesModel {
	name := ""
	return templatesModel{
		store:    s,
		formName: &name,
	}
}

func (t *templatesModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t templatesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		templates, _ := t.store.ListTemplates()
		return templatesDataMsg{templates: templates}
	}
}

func (t templatesModel) update(msg tea.Msg) (templatesModel, tea.Cmd) {
	if t.formActive && t.form != nil {
		return t.updateForm(msg)
	}

	switch msg := msg.(type) {
	case templatesDataMsg:
		t.templates = msg.templates
		if t.cursor >= len(t.templates) {
			t.cursor = max(0, len(t.templates)-1)
		}
		return t, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.templates)-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Edit):
			if len(t.templates) > 0 {
				return t.showRenameForm()
			}
		case key.Matches(msg, keys.Delete):
			if len(t.templates) > 0 {
				tpl := t.templates[t.cursor]
				if err := t.store.DeleteTemplate(tpl.ID); err != nil {
					return t, statusCmd(fmt.Sprintf("Delete error: %v", err), true)
				}
				return t, tea.Batch(t.refresh(), statusCmd("Template deleted", false))
			}
		}
	}
	return t, nil
}

func (t templatesModel) showRenameForm() (templatesModel, tea.Cmd) {
	tpl := t.templates[t.cursor]
	t.editingID = tpl.ID
	*t.formName = tpl.Name

	t.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Template name").Value(t.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	t.formActive = true
	return t, t.form.Init()
}

func (t templatesModel) updateForm(msg tea.Msg) (templatesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			t.formActive = false
			t.form = nil
			return t, nil
		}
	}

	form, cmd := t.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		t.form = f
	}

	if t.form.State == huh.StateCompleted {
		t.formActive = false
		name := strings.TrimSpace(*t.formName)
		if name == "" {
			return t, statusCmd("Template name cannot be empty", true)
		}
		if err := t.store.RenameTemplate(t.editingID, name); err != nil {
			return t, statusCmd(fmt.Sprintf("Rename error: %v", err), true)
		}
		return t, t.refresh()
	}

	return t, cmd
}

func (t templatesModel) view() string {
	w := t.width - 4

	if t.formActive && t.form != nil {
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Rename Template"), "", t.form.View(),
		)
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Templates")

	if len(t.templates) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No templates yet. Save a day as a template from the calendar (s)."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, tpl := range t.templates {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s %s", cursor, tpl.Name, templateSummary(tpl))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  e: rename  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func templateSummary(tpl store.ShiftTemplate) string {
	parts := make([]string, 0, len(tpl.Shifts))
	for _, sh := range tpl.Shifts {
		part := fmt.Sprintf("%s-%s", sh.Start, sh.End)
		if sh.Type != store.TypeNormal {
			part += " " + timesheet.TypeLabel(sh.Type)
		}
		parts = append(parts, part)
	}
	return mutedStyle.Render(strings.Join(parts, ", "))
}

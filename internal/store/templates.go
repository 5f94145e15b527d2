package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// CreateTemplate saves a named set of shift presets.
func (s *Store) CreateTemplate(name string, shifts []TemplateShift) (*ShiftTemplate, error) {
	data, err := json.Marshal(shifts)
	if err != nil {
		return nil, fmt.Errorf("encode template shifts: %w", err)
	}
	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO shift_templates (id, name, shifts) VALUES (?, ?, ?)`,
		id, name, string(data),
	)
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}
	return s.GetTemplate(id)
}

func (s *Store) GetTemplate(id string) (*ShiftTemplate, error) {
	t := &ShiftTemplate{}
	var data string
	err := s.db.QueryRow(
		`SELECT id, name, shifts FROM shift_templates WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &data)
	if err != nil {
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(data), &t.Shifts); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTemplates() ([]ShiftTemplate, error) {
	rows, err := s.db.Query(`SELECT id, name, shifts FROM shift_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []ShiftTemplate
	for rows.Next() {
		var t ShiftTemplate
		var data string
		if err := rows.Scan(&t.ID, &t.Name, &data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &t.Shifts); err != nil {
			return nil, fmt.Errorf("decode template %s: %w", t.ID, err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (s *Store) RenameTemplate(id, name string) error {
	_, err := s.db.Exec(`UPDATE shift_templates SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename template %s: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteTemplate(id string) error {
	_, err := s.db.Exec(`DELETE FROM shift_templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const shiftColumns = `id, date, start_time, end_time, break_minutes, type, project, location, note, tags, created_at, updated_at`

// CreateShift persists a new shift, assigning its id and timestamps.
func (s *Store) CreateShift(d ShiftDraft) (*Shift, error) {
	id := uuid.NewString()
	now := time.Now().UnixMilli()
	_, err := s.db.Exec(
		`INSERT INTO shifts (`+shiftColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, d.Date, d.Start, d.End, d.BreakMinutes, string(d.Type),
		d.Project, d.Location, d.Note, joinTags(d.Tags), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert shift: %w", err)
	}
	return s.GetShift(id)
}

// UpdateShift replaces the editable fields of an existing shift and
// bumps updated_at. created_at is never touched.
func (s *Store) UpdateShift(id string, d ShiftDraft) error {
	now := time.Now().UnixMilli()
	res, err := s.db.Exec(
		`UPDATE shifts SET date = ?, start_time = ?, end_time = ?, break_minutes = ?,
		 type = ?, project = ?, location = ?, note = ?, tags = ?, updated_at = ?
		 WHERE id = ?`,
		d.Date, d.Start, d.End, d.BreakMinutes, string(d.Type),
		d.Project, d.Location, d.Note, joinTags(d.Tags), now, id,
	)
	if err != nil {
		return fmt.Errorf("update shift %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update shift %s: not found", id)
	}
	return nil
}

func (s *Store) DeleteShift(id string) error {
	_, err := s.db.Exec(`DELETE FROM shifts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shift %s: %w", id, err)
	}
	return nil
}

// DeleteShiftsForDate removes every shift on the given date.
func (s *Store) DeleteShiftsForDate(date string) error {
	_, err := s.db.Exec(`DELETE FROM shifts WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("delete shifts for %s: %w", date, err)
	}
	return nil
}

func (s *Store) GetShift(id string) (*Shift, error) {
	row := s.db.QueryRow(`SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, id)
	sh, err := scanShift(row)
	if err != nil {
		return nil, fmt.Errorf("get shift %s: %w", id, err)
	}
	return sh, nil
}

// ListShiftsForMonth returns all shifts whose date falls in the given
// "YYYY-MM" month, ordered by date then start time.
func (s *Store) ListShiftsForMonth(month string) ([]Shift, error) {
	rows, err := s.db.Query(
		`SELECT `+shiftColumns+` FROM shifts WHERE date LIKE ? ORDER BY date, start_time`,
		month+"-%",
	)
	if err != nil {
		return nil, fmt.Errorf("list shifts for %s: %w", month, err)
	}
	defer rows.Close()
	return collectShifts(rows)
}

// ListShiftsForDate returns the shifts on a single date ordered by
// start time.
func (s *Store) ListShiftsForDate(date string) ([]Shift, error) {
	rows, err := s.db.Query(
		`SELECT `+shiftColumns+` FROM shifts WHERE date = ? ORDER BY start_time`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("list shifts for %s: %w", date, err)
	}
	defer rows.Close()
	return collectShifts(rows)
}

func scanShift(r interface{ Scan(dest ...any) error }) (*Shift, error) {
	sh := &Shift{}
	var typ, tags string
	err := r.Scan(&sh.ID, &sh.Date, &sh.Start, &sh.End, &sh.BreakMinutes,
		&typ, &sh.Project, &sh.Location, &sh.Note, &tags, &sh.CreatedAt, &sh.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sh.Type = ShiftType(typ)
	sh.Tags = splitTags(tags)
	return sh, nil
}

func collectShifts(rows *sql.Rows) ([]Shift, error) {
	var shifts []Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, *sh)
	}
	return shifts, rows.Err()
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

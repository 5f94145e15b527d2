package store

import (
	"fmt"
	"strconv"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetSettings assembles the singleton settings record from the
// key/value table. Missing keys fall back to the seeded defaults.
func (s *Store) GetSettings() (Settings, error) {
	cfg := Settings{
		RoundingMinutes: s.intSetting("rounding_minutes", 15),
		OTRule: OTRule{
			Enabled:   s.boolSetting("ot_rule_enabled", true),
			AfterTime: s.stringSetting("ot_after_time", "18:00"),
		},
		Salary: SalaryConfig{
			Enabled:         s.boolSetting("salary_enabled", false),
			HourlyRate:      s.floatSetting("hourly_rate", 50000),
			OTMultiplier:    s.floatSetting("ot_multiplier", 1.5),
			NightMultiplier: s.floatSetting("night_multiplier", 1.3),
		},
		ExportColumns: ExportColumns{
			Project:  s.boolSetting("export_project", true),
			Location: s.boolSetting("export_location", true),
			Note:     s.boolSetting("export_note", true),
			Tags:     s.boolSetting("export_tags", false),
		},
	}
	return cfg, nil
}

// PutSettings writes every settings field back to the key/value table.
func (s *Store) PutSettings(cfg Settings) error {
	kv := map[string]string{
		"rounding_minutes": strconv.Itoa(cfg.RoundingMinutes),
		"ot_rule_enabled":  boolValue(cfg.OTRule.Enabled),
		"ot_after_time":    cfg.OTRule.AfterTime,
		"salary_enabled":   boolValue(cfg.Salary.Enabled),
		"hourly_rate":      strconv.FormatFloat(cfg.Salary.HourlyRate, 'f', -1, 64),
		"ot_multiplier":    strconv.FormatFloat(cfg.Salary.OTMultiplier, 'f', -1, 64),
		"night_multiplier": strconv.FormatFloat(cfg.Salary.NightMultiplier, 'f', -1, 64),
		"export_project":   boolValue(cfg.ExportColumns.Project),
		"export_location":  boolValue(cfg.ExportColumns.Location),
		"export_note":      boolValue(cfg.ExportColumns.Note),
		"export_tags":      boolValue(cfg.ExportColumns.Tags),
	}
	for k, v := range kv {
		if err := s.SetSetting(k, v); err != nil {
			return fmt.Errorf("put setting %q: %w", k, err)
		}
	}
	return nil
}

func (s *Store) stringSetting(key, fallback string) string {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	return v
}

func (s *Store) intSetting(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (s *Store) floatSetting(key string, fallback float64) float64 {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func (s *Store) boolSetting(key string, fallback bool) bool {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	return v == "1" || v == "true"
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

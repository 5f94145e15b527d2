package store

// ShiftType classifies how a shift is billed and displayed.
type ShiftType string

const (
	TypeNormal   ShiftType = "normal"
	TypeOT       ShiftType = "ot"
	TypeNight    ShiftType = "night"
	TypeLeave    ShiftType = "leave"
	TypeTraining ShiftType = "training"
	TypeTravel   ShiftType = "travel"
)

// ShiftTypes lists every valid type in display order.
var ShiftTypes = []ShiftType{TypeNormal, TypeOT, TypeNight, TypeLeave, TypeTraining, TypeTravel}

// Shift is one contiguous block of work on a single calendar date.
// Date is "YYYY-MM-DD"; Start and End are 24h "HH:mm" wall-clock
// strings on that date. Crossing midnight is not representable; an
// overnight shift has to be split into two records.
type Shift struct {
	ID           string
	Date         string
	Start        string
	End          string
	BreakMinutes int
	Type         ShiftType
	Project      string
	Location     string
	Note         string
	Tags         []string
	CreatedAt    int64 // epoch millis
	UpdatedAt    int64
}

// ShiftDraft carries the user-editable fields of a shift. The store
// assigns ID and timestamps on create.
type ShiftDraft struct {
	Date         string
	Start        string
	End          string
	BreakMinutes int
	Type         ShiftType
	Project      string
	Location     string
	Note         string
	Tags         []string
}

// TemplateShift is one shift preset inside a template. Presets carry
// no date; the date is supplied when the template is applied.
type TemplateShift struct {
	Start        string    `json:"start"`
	End          string    `json:"end"`
	BreakMinutes int       `json:"breakMinutes"`
	Type         ShiftType `json:"type"`
	Tags         []string  `json:"tags,omitempty"`
}

// ShiftTemplate is a named, reusable set of shift presets.
type ShiftTemplate struct {
	ID     string
	Name   string
	Shifts []TemplateShift
}

// SalaryConfig holds the optional pay calculation settings.
type SalaryConfig struct {
	Enabled         bool
	HourlyRate      float64
	OTMultiplier    float64
	NightMultiplier float64
}

// OTRule is a declared overtime cutoff. It is stored and editable but
// no computation consults it; overtime is determined by shift type.
type OTRule struct {
	Enabled   bool
	AfterTime string
}

// ExportColumns toggles the optional report columns.
type ExportColumns struct {
	Project  bool
	Location bool
	Note     bool
	Tags     bool
}

// Settings is the single global configuration record.
type Settings struct {
	RoundingMinutes int
	OTRule          OTRule
	Salary          SalaryConfig
	ExportColumns   ExportColumns
}

package timesheet

import (
	"errors"

	"github.com/sadopc/shiftlog/internal/store"
)

// ErrSalaryDisabled is returned when Salary is invoked with a config
// whose Enabled flag is off. Callers treat disabled salary as "not
// applicable", never as zero pay.
var ErrSalaryDisabled = errors.New("salary calculation is disabled")

// SalaryBreakdown splits a collection's hours into pay tiers.
// Leave, training and travel shifts bill at the normal rate.
type SalaryBreakdown struct {
	NormalHours float64
	OTHours     float64
	NightHours  float64
	NormalPay   float64
	OTPay       float64
	NightPay    float64
	Total       float64
}

// Salary partitions the collection's hours by shift type and applies
// the multiplier rates. Monetary values carry full precision; any
// rounding is the display layer's choice.
func Salary(shifts []store.Shift, cfg store.SalaryConfig, roundingMinutes int) (SalaryBreakdown, error) {
	if !cfg.Enabled {
		return SalaryBreakdown{}, ErrSalaryDisabled
	}

	var b SalaryBreakdown
	for _, sh := range shifts {
		h := shiftHours(sh, roundingMinutes)
		switch sh.Type {
		case store.TypeOT:
			b.OTHours += h
		case store.TypeNight:
			b.NightHours += h
		default:
			b.NormalHours += h
		}
	}

	b.NormalPay = b.NormalHours * cfg.HourlyRate
	b.OTPay = b.OTHours * cfg.HourlyRate * cfg.OTMultiplier
	b.NightPay = b.NightHours * cfg.HourlyRate * cfg.NightMultiplier
	b.Total = b.NormalPay + b.OTPay + b.NightPay
	return b, nil
}

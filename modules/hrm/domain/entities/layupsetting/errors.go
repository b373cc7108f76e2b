package layupsetting

import (
	"github.com/shopspring/decimal"

	"github.com/glennajones/gummy-bear/pkg/serrors"
)

var (
	ErrNotFound     = serrors.NewError("HRM_LAYUP_SETTING_NOT_FOUND", "employee layup setting not found", "")
	ErrInvalidRate  = serrors.NewError("HRM_LAYUP_INVALID_RATE", "rate must not be negative", "")
	ErrInvalidHours = serrors.NewError("HRM_LAYUP_INVALID_HOURS", "hours must be between 0 and 24", "")
)

var hoursPerDay = decimal.NewFromInt(24)

// Validate checks the numeric bounds of a setting.
func (s Setting) Validate() error {
	if s.Rate.IsNegative() {
		return ErrInvalidRate
	}
	if s.Hours.IsNegative() || s.Hours.GreaterThan(hoursPerDay) {
		return ErrInvalidHours
	}
	return nil
}

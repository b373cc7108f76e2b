package layupsetting

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultDepartment = "Layup"

var (
	// DefaultRate is molds per hour for a technician without an explicit rate.
	DefaultRate  = decimal.NewFromInt(1)
	DefaultHours = decimal.NewFromInt(8)
)

// Setting is an employee's layup throughput configuration.
type Setting struct {
	EmployeeID  string          `json:"employee_id"`
	DisplayName string          `json:"display_name,omitempty"`
	Rate        decimal.Decimal `json:"rate"`
	Hours       decimal.Decimal `json:"hours"`
	Department  string          `json:"department"`
	Active      bool            `json:"active"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DailyUnits is rate × hours.
func (s Setting) DailyUnits() decimal.Decimal {
	return s.Rate.Mul(s.Hours)
}

type UpdateDTO struct {
	Rate        *decimal.Decimal `json:"rate"`
	Hours       *decimal.Decimal `json:"hours"`
	DisplayName *string          `json:"display_name"`
	Department  *string          `json:"department" validate:"omitempty,min=1,max=64"`
	Active      *bool            `json:"active"`
}

// Apply returns s with the DTO's fields applied.
func (d UpdateDTO) Apply(s Setting) Setting {
	if d.Rate != nil {
		s.Rate = *d.Rate
	}
	if d.Hours != nil {
		s.Hours = *d.Hours
	}
	if d.DisplayName != nil {
		s.DisplayName = *d.DisplayName
	}
	if d.Department != nil {
		s.Department = *d.Department
	}
	if d.Active != nil {
		s.Active = *d.Active
	}
	return s
}

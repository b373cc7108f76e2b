package scheduling

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	DefaultMinWeeks      = 2
	DefaultMaxWeeks      = 8
	DefaultModelDailyCap = 8
	DefaultPriority      = 99
	MesaUniversalModel   = "mesa_universal"
	MesaUniversalProduct = "Mesa - Universal"
	MesaActionInlet      = "mesa_precision_summit"
)

// Policy carries the scheduling tunables. The zero value is not usable;
// start from DefaultPolicy.
type Policy struct {
	MinWeeks        int
	MaxWeeks        int
	PrimaryWeekdays []time.Weekday
	BackupWeekday   time.Weekday
	// ModelDailyCap bounds assignments per day for the limited model class,
	// summed across all molds.
	ModelDailyCap   int
	LimitedModels   []string
	LimitedProducts []string
	DefaultPriority int

	LOPWeekday            time.Weekday
	StandardLOPTokens     []string
	StandardLOPSubstrings []string
}

func DefaultPolicy() Policy {
	return Policy{
		MinWeeks:        DefaultMinWeeks,
		MaxWeeks:        DefaultMaxWeeks,
		PrimaryWeekdays: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday},
		BackupWeekday:   time.Friday,
		ModelDailyCap:   DefaultModelDailyCap,
		LimitedModels:   []string{MesaUniversalModel},
		LimitedProducts: []string{MesaUniversalProduct},
		DefaultPriority: DefaultPriority,
		LOPWeekday:      time.Monday,
		StandardLOPTokens: []string{
			"", "none", "standard", "std", "std_length", "standard_length",
			"no_extra_length", "std_no_extra_length", "no_lop_change", "0", "normal",
		},
		StandardLOPSubstrings: []string{"std", "standard", "no extra"},
	}
}

func (p Policy) Validate() error {
	if p.MinWeeks < 1 {
		return fmt.Errorf("min weeks must be at least 1, got %d", p.MinWeeks)
	}
	if p.MaxWeeks < p.MinWeeks {
		return fmt.Errorf("max weeks %d below min weeks %d", p.MaxWeeks, p.MinWeeks)
	}
	if len(p.PrimaryWeekdays) == 0 {
		return fmt.Errorf("no primary weekdays configured")
	}
	if slices.Contains(p.PrimaryWeekdays, p.BackupWeekday) {
		return fmt.Errorf("backup weekday %s is also a primary weekday", p.BackupWeekday)
	}
	if p.ModelDailyCap < 0 {
		return fmt.Errorf("model daily cap must be non-negative, got %d", p.ModelDailyCap)
	}
	return nil
}

// IsLimited reports whether an order with the given resolved model and
// product belongs to the capacity-limited model class.
func (p Policy) IsLimited(modelID, product string) bool {
	if modelID != "" && slices.Contains(p.LimitedModels, modelID) {
		return true
	}
	product = strings.TrimSpace(product)
	return product != "" && slices.Contains(p.LimitedProducts, product)
}

func (p Policy) isPrimary(d time.Weekday) bool {
	return slices.Contains(p.PrimaryWeekdays, d)
}

package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type LayupOptions struct {
	MinWeeks           int           `env:"LAYUP_MIN_WEEKS" envDefault:"2"`
	MaxWeeks           int           `env:"LAYUP_MAX_WEEKS" envDefault:"8"`
	PrimaryWeekdaysRaw string        `env:"LAYUP_PRIMARY_WEEKDAYS" envDefault:"mon,tue,wed,thu"`
	BackupWeekdayRaw   string        `env:"LAYUP_BACKUP_WEEKDAY" envDefault:"fri"`
	LOPWeekdayRaw      string        `env:"LAYUP_LOP_WEEKDAY" envDefault:"mon"`
	ModelDailyCap      int           `env:"LAYUP_MODEL_DAILY_CAP" envDefault:"8"`
	LimitedModels      []string      `env:"LAYUP_LIMITED_MODELS" envDefault:"mesa_universal" envSeparator:","`
	LimitedProducts    []string      `env:"LAYUP_LIMITED_PRODUCTS" envDefault:"Mesa - Universal" envSeparator:","`
	RunTimeout         time.Duration `env:"LAYUP_RUN_TIMEOUT" envDefault:"30s"`
	Department         string        `env:"LAYUP_DEPARTMENT" envDefault:"Layup"`
	// Zero disables the background re-planner.
	ReplanInterval time.Duration `env:"LAYUP_REPLAN_INTERVAL" envDefault:"0s"`
	// ReplanSingleActive guards re-planning with a postgres advisory lock so
	// only one instance applies plans at a time.
	ReplanSingleActive bool   `env:"LAYUP_REPLAN_SINGLE_ACTIVE" envDefault:"true"`
	PolicyFile         string `env:"LAYUP_POLICY_FILE"`

	PrimaryWeekdays []time.Weekday  `env:"-"`
	BackupWeekday   time.Weekday    `env:"-"`
	LOPWeekday      time.Weekday    `env:"-"`
	Overrides       PolicyOverrides `env:"-"`
}

// PolicyOverrides models the optional YAML policy file.
type PolicyOverrides struct {
	StandardLOPTokens     []string `yaml:"standard_lop_tokens"`
	StandardLOPSubstrings []string `yaml:"standard_lop_substrings"`
	LimitedModels         []string `yaml:"limited_models"`
	LimitedProducts       []string `yaml:"limited_products"`
	ModelDailyCap         *int     `yaml:"model_daily_cap"`
	DefaultPriority       *int     `yaml:"default_priority"`
}

// Validate checks the layup configuration and resolves the weekday strings
// and policy file into their typed counterparts.
func (l *LayupOptions) Validate() error {
	if l.MinWeeks < 1 {
		return fmt.Errorf("LAYUP_MIN_WEEKS must be at least 1, got %d", l.MinWeeks)
	}
	if l.MaxWeeks < l.MinWeeks {
		return fmt.Errorf("LAYUP_MAX_WEEKS (%d) must not be below LAYUP_MIN_WEEKS (%d)", l.MaxWeeks, l.MinWeeks)
	}
	if l.ModelDailyCap < 0 {
		return fmt.Errorf("LAYUP_MODEL_DAILY_CAP must be non-negative, got %d", l.ModelDailyCap)
	}
	if l.RunTimeout < 0 || l.ReplanInterval < 0 {
		return fmt.Errorf("LAYUP_RUN_TIMEOUT and LAYUP_REPLAN_INTERVAL must be non-negative")
	}

	primary, err := ParseWeekdays(l.PrimaryWeekdaysRaw)
	if err != nil {
		return fmt.Errorf("LAYUP_PRIMARY_WEEKDAYS: %w", err)
	}
	if len(primary) == 0 {
		return fmt.Errorf("LAYUP_PRIMARY_WEEKDAYS must name at least one weekday")
	}
	l.PrimaryWeekdays = primary

	if l.BackupWeekday, err = ParseWeekday(l.BackupWeekdayRaw); err != nil {
		return fmt.Errorf("LAYUP_BACKUP_WEEKDAY: %w", err)
	}
	for _, d := range primary {
		if d == l.BackupWeekday {
			return fmt.Errorf("LAYUP_BACKUP_WEEKDAY %s is also a primary weekday", d)
		}
	}
	if l.LOPWeekday, err = ParseWeekday(l.LOPWeekdayRaw); err != nil {
		return fmt.Errorf("LAYUP_LOP_WEEKDAY: %w", err)
	}

	if l.PolicyFile != "" {
		overrides, err := LoadPolicyFile(l.PolicyFile)
		if err != nil {
			return err
		}
		l.Overrides = overrides
	}
	return nil
}

// LoadPolicyFile reads a YAML policy file. A missing file yields empty overrides.
func LoadPolicyFile(path string) (PolicyOverrides, error) {
	var out PolicyOverrides
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return out, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if out.ModelDailyCap != nil && *out.ModelDailyCap < 0 {
		return out, fmt.Errorf("config: %s: model_daily_cap must be non-negative", path)
	}
	return out, nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

func ParseWeekday(raw string) (time.Weekday, error) {
	d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", raw)
	}
	return d, nil
}

// ParseWeekdays parses a comma separated weekday list, dropping duplicates.
func ParseWeekdays(raw string) ([]time.Weekday, error) {
	var out []time.Weekday
	seen := map[time.Weekday]bool{}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := ParseWeekday(part)
		if err != nil {
			return nil, err
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, nil
}

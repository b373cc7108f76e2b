package layup

import (
	"slices"

	"github.com/glennajones/gummy-bear/modules/layup/scheduling"
	"github.com/glennajones/gummy-bear/pkg/configuration"
)

// PolicyFromOptions builds the scheduling policy from validated layup
// options. Policy file entries replace the corresponding env values.
func PolicyFromOptions(opts configuration.LayupOptions) scheduling.Policy {
	p := scheduling.DefaultPolicy()
	p.MinWeeks = opts.MinWeeks
	p.MaxWeeks = opts.MaxWeeks
	if len(opts.PrimaryWeekdays) > 0 {
		p.PrimaryWeekdays = slices.Clone(opts.PrimaryWeekdays)
	}
	p.BackupWeekday = opts.BackupWeekday
	p.LOPWeekday = opts.LOPWeekday
	p.ModelDailyCap = opts.ModelDailyCap
	p.LimitedModels = slices.Clone(opts.LimitedModels)
	p.LimitedProducts = slices.Clone(opts.LimitedProducts)

	o := opts.Overrides
	if len(o.StandardLOPTokens) > 0 {
		p.StandardLOPTokens = slices.Clone(o.StandardLOPTokens)
	}
	if len(o.StandardLOPSubstrings) > 0 {
		p.StandardLOPSubstrings = slices.Clone(o.StandardLOPSubstrings)
	}
	if len(o.LimitedModels) > 0 {
		p.LimitedModels = slices.Clone(o.LimitedModels)
	}
	if len(o.LimitedProducts) > 0 {
		p.LimitedProducts = slices.Clone(o.LimitedProducts)
	}
	if o.ModelDailyCap != nil {
		p.ModelDailyCap = *o.ModelDailyCap
	}
	if o.DefaultPriority != nil {
		p.DefaultPriority = *o.DefaultPriority
	}
	return p
}

package layup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glennajones/gummy-bear/modules/layup/scheduling"
	"github.com/glennajones/gummy-bear/pkg/configuration"
)

func TestPolicyFromOptions(t *testing.T) {
	dailyCap := 3
	opts := configuration.LayupOptions{
		MinWeeks:        1,
		MaxWeeks:        4,
		PrimaryWeekdays: []time.Weekday{time.Tuesday, time.Wednesday},
		BackupWeekday:   time.Saturday,
		LOPWeekday:      time.Tuesday,
		ModelDailyCap:   8,
		LimitedModels:   []string{"mesa_universal"},
		Overrides: configuration.PolicyOverrides{
			StandardLOPTokens: []string{"", "stock"},
			LimitedModels:     []string{"mesa_universal", "mesa_lite"},
			ModelDailyCap:     &dailyCap,
		},
	}

	p := PolicyFromOptions(opts)
	require.NoError(t, p.Validate())
	require.Equal(t, 1, p.MinWeeks)
	require.Equal(t, 4, p.MaxWeeks)
	require.Equal(t, []time.Weekday{time.Tuesday, time.Wednesday}, p.PrimaryWeekdays)
	require.Equal(t, time.Saturday, p.BackupWeekday)
	require.Equal(t, time.Tuesday, p.LOPWeekday)
	require.Equal(t, 3, p.ModelDailyCap)
	require.Equal(t, []string{"mesa_universal", "mesa_lite"}, p.LimitedModels)
	require.Equal(t, []string{"", "stock"}, p.StandardLOPTokens)
	require.Equal(t, scheduling.DefaultPolicy().StandardLOPSubstrings, p.StandardLOPSubstrings)
	require.Equal(t, scheduling.DefaultPriority, p.DefaultPriority)
}

func TestPolicyFromOptions_ConfigDefaults(t *testing.T) {
	conf, err := configuration.Parse()
	require.NoError(t, err)

	p := PolicyFromOptions(conf.Layup)
	def := scheduling.DefaultPolicy()
	require.Equal(t, def.PrimaryWeekdays, p.PrimaryWeekdays)
	require.Equal(t, def.BackupWeekday, p.BackupWeekday)
	require.Equal(t, def.LOPWeekday, p.LOPWeekday)
	require.Equal(t, def.ModelDailyCap, p.ModelDailyCap)
	require.Equal(t, def.LimitedModels, p.LimitedModels)
	require.Equal(t, def.LimitedProducts, p.LimitedProducts)
}

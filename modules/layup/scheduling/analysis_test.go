package scheduling

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
)

func TestAnalyze_FullyScheduled(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog([]mold.Mold{{ID: "M1", Enabled: true, StockModels: []string{"X"}}}, staff(2))
	jobs := jobsFor("O", "X", 3, false)
	res := allocate(t, p, jobs, catalog)

	s := Analyze(res, jobs, catalog)

	require.Equal(t, 3, s.TotalOrders)
	require.Equal(t, 3, s.Assigned)
	require.Equal(t, 100.0, s.Efficiency)
	require.Equal(t, 37.5, s.MoldUtilization["M1"])
	require.Len(t, s.Days, 8)
	require.Equal(t, 1, s.Days[0].Load)
	require.Equal(t, 2, s.Days[0].Capacity)
	require.Equal(t, []string{"Underutilized molds: M1"}, s.Recommendations)
}

func TestAnalyze_ReportsShortfalls(t *testing.T) {
	p := oneWeekPolicy()
	catalog := NewCatalog([]mold.Mold{{ID: "M01", Enabled: true, StockModels: []string{"X"}}}, staff(1))
	jobs := append(jobsFor("O", "X", 6, false), jobsFor("Y", "Y", 1, false)...)

	res := allocate(t, p, jobs, catalog)
	s := Analyze(res, jobs, catalog)

	require.Equal(t, 4, s.Assigned)
	require.Equal(t, 3, s.Unassigned)
	require.InDelta(t, 57.1, s.Efficiency, 0.01)
	require.Equal(t, 100.0, s.MoldUtilization["M01"])
	require.Equal(t, map[UnassignedReason]int{ReasonHorizonExhausted: 2, ReasonNoCompatibleMold: 1}, s.ByReason)
	require.Equal(t, []string{
		"Consider increasing daily capacity or extending the schedule window",
		"No enabled mold supports: Y",
	}, s.Recommendations)
}

func TestAnalyze_NoCapacity(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog(universalMolds(1), nil)
	jobs := jobsFor("O", "X", 1, false)

	s := Analyze(allocate(t, p, jobs, catalog), jobs, catalog)

	require.Zero(t, s.Assigned)
	require.Contains(t, s.Recommendations, "No active layup capacity: check employee rates and hours")
}

package scheduling

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
)

// monday is the first work day of every test horizon.
var monday = time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

// workDay returns the i-th primary day after monday under the default policy.
func workDay(i int) time.Time {
	return monday.AddDate(0, 0, (i/4)*7+i%4)
}

func staff(units int64) []Employee {
	return []Employee{{
		ID:     "E1",
		Rate:   decimal.NewFromInt(units),
		Hours:  decimal.NewFromInt(1),
		Active: true,
	}}
}

func universalMolds(n int) []mold.Mold {
	out := make([]mold.Mold, n)
	for i := range out {
		out[i] = mold.Mold{ID: fmt.Sprintf("M%02d", i+1), Enabled: true, Multiplier: 1}
	}
	return out
}

func jobsFor(prefix, model string, n int, limited bool) []Job {
	out := make([]Job, n)
	for i := range out {
		out[i] = Job{
			OrderID:   fmt.Sprintf("%s%02d", prefix, i+1),
			ModelID:   model,
			Priority:  DefaultPriority,
			DueDate:   monday,
			OrderDate: monday,
			Limited:   limited,
		}
	}
	return out
}

func oneWeekPolicy() Policy {
	p := DefaultPolicy()
	p.MinWeeks = 1
	p.MaxWeeks = 1
	return p
}

func allocate(t *testing.T, p Policy, jobs []Job, catalog *Catalog) *Result {
	t.Helper()
	h, err := NewCalendar(p).Horizon(monday, jobs)
	require.NoError(t, err)
	res, err := Allocate(AllocationInput{Jobs: jobs, Catalog: catalog, Horizon: h, Policy: p})
	require.NoError(t, err)
	return res
}

// requireInvariants checks the capacity bounds and that every mold's filled
// and skipped slots form a prefix of its slot sequence.
func requireInvariants(t *testing.T, res *Result, catalog *Catalog, p Policy) {
	t.Helper()
	for i, load := range res.DailyLoad {
		require.LessOrEqual(t, load, res.DailyCapacity, "day %d over aggregate capacity", i)
		require.LessOrEqual(t, res.ModelDailyLoad[i], p.ModelDailyCap, "day %d over model cap", i)
	}

	for _, m := range catalog.Molds() {
		covered := map[int]int{}
		last := -1
		for _, a := range res.Assignments {
			if a.MoldID != m.ID {
				continue
			}
			require.True(t, m.Enabled, "disabled mold %s was assigned", m.ID)
			day, ok := res.Horizon.Index(a.Date)
			require.True(t, ok)
			covered[day]++
			last = max(last, day)
		}
		for _, s := range res.Skipped {
			if s.MoldID != m.ID {
				continue
			}
			day, ok := res.Horizon.Index(s.Date)
			require.True(t, ok)
			covered[day]++
		}
		for d := 0; d < last; d++ {
			require.Equal(t, m.SlotsPerDay(), covered[d], "mold %s has a gap on day %d", m.ID, d)
		}
		require.LessOrEqual(t, covered[max(last, 0)], m.SlotsPerDay())
	}
}

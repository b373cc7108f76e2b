package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
)

func TestAllocate_OneOrderPerMoldPerDay(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog([]mold.Mold{{ID: "M1", Enabled: true, StockModels: []string{"X"}}}, staff(2))
	jobs := jobsFor("O", "X", 3, false)

	res := allocate(t, p, jobs, catalog)

	require.Empty(t, res.Unassigned)
	require.Equal(t, []string{"O01", "O02", "O03"}, res.Placed)
	for i, id := range res.Placed {
		a := res.Assignments[id]
		require.Equal(t, "M1", a.MoldID)
		require.Equal(t, workDay(i), a.Date)
	}
	requireInvariants(t, res, catalog, p)
}

func TestAllocate_LimitedModelCapAcrossMolds(t *testing.T) {
	p := oneWeekPolicy()
	catalog := NewCatalog(universalMolds(10), staff(20))
	jobs := jobsFor("MESA", MesaUniversalModel, 10, true)

	res := allocate(t, p, jobs, catalog)

	require.Empty(t, res.Unassigned)
	require.Equal(t, 8, res.ModelDailyLoad[0])
	require.Equal(t, 2, res.ModelDailyLoad[1])
	for i := 0; i < 8; i++ {
		require.Equal(t, workDay(0), res.Assignments[jobs[i].OrderID].Date)
	}
	require.Equal(t, schedule.Assignment{OrderID: "MESA09", MoldID: "M01", Date: workDay(1)}, res.Assignments["MESA09"])
	require.Equal(t, schedule.Assignment{OrderID: "MESA10", MoldID: "M02", Date: workDay(1)}, res.Assignments["MESA10"])
	requireInvariants(t, res, catalog, p)
}

func TestAllocate_LimitedModelSingleMold(t *testing.T) {
	p := oneWeekPolicy()
	catalog := NewCatalog(universalMolds(1), staff(20))
	jobs := jobsFor("MESA", MesaUniversalModel, 10, true)

	res := allocate(t, p, jobs, catalog)

	require.Len(t, res.Placed, 4)
	require.Len(t, res.Unassigned, 6)
	for _, u := range res.Unassigned {
		require.Equal(t, ReasonHorizonExhausted, u.Reason)
	}
	requireInvariants(t, res, catalog, p)
}

func TestAllocate_NoCompatibleMold(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog([]mold.Mold{{ID: "M1", Enabled: true, StockModels: []string{"X"}}}, staff(4))
	jobs := append(jobsFor("Y", "Y", 1, false), jobsFor("NOMODEL", "", 1, false)...)
	jobs = append(jobs, jobsFor("X", "X", 1, false)...)

	res := allocate(t, p, jobs, catalog)

	require.ElementsMatch(t, []Unassigned{
		{OrderID: "Y01", Reason: ReasonNoCompatibleMold},
		{OrderID: "NOMODEL01", Reason: ReasonNoCompatibleMold},
	}, res.Unassigned)
	require.NotContains(t, res.Assignments, "Y01")
	require.NotContains(t, res.Assignments, "NOMODEL01")
	require.Contains(t, res.Assignments, "X01")
}

func TestAllocate_AggregateCapacitySpreadsAcrossMolds(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog(universalMolds(3), staff(2))
	jobs := jobsFor("O", "X", 6, false)

	res := allocate(t, p, jobs, catalog)

	require.Empty(t, res.Unassigned)
	require.Equal(t, []int{2, 2, 2, 0, 0, 0, 0, 0}, res.DailyLoad)
	require.Equal(t, "M01", res.Assignments["O01"].MoldID)
	require.Equal(t, "M02", res.Assignments["O02"].MoldID)
	require.Equal(t, "M01", res.Assignments["O03"].MoldID)
	require.Equal(t, workDay(1), res.Assignments["O03"].Date)
	requireInvariants(t, res, catalog, p)
}

func TestAllocate_DayFullSlotIsSkipped(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog([]mold.Mold{
		{ID: "M1", Enabled: true, StockModels: []string{"X"}},
		{ID: "M2", Enabled: true, StockModels: []string{"X", "Y"}},
	}, staff(1))
	jobs := []Job{
		{OrderID: "X1", ModelID: "X", Priority: 1, DueDate: monday},
		{OrderID: "Y1", ModelID: "Y", Priority: 2, DueDate: monday},
	}

	res := allocate(t, p, jobs, catalog)

	require.Equal(t, schedule.Assignment{OrderID: "X1", MoldID: "M1", Date: workDay(0)}, res.Assignments["X1"])
	require.Equal(t, schedule.Assignment{OrderID: "Y1", MoldID: "M2", Date: workDay(1)}, res.Assignments["Y1"])
	require.Equal(t, []SlotSkip{{MoldID: "M2", Date: workDay(0), Reason: SkipDayFull}}, res.Skipped)
	requireInvariants(t, res, catalog, p)
}

func TestAllocate_ModelCapForwardSearch(t *testing.T) {
	p := DefaultPolicy()
	p.ModelDailyCap = 1
	catalog := NewCatalog([]mold.Mold{
		{ID: "M1", Enabled: true, StockModels: []string{"other"}},
		{ID: "M2", Enabled: true, StockModels: []string{MesaUniversalModel}},
	}, staff(10))
	jobs := []Job{
		{OrderID: "PIN", ModelID: "other", Priority: 1, DueDate: monday, Limited: true},
		{OrderID: "L1", ModelID: MesaUniversalModel, Priority: 1, DueDate: monday, Limited: true},
	}
	h, err := NewCalendar(p).Horizon(monday, jobs)
	require.NoError(t, err)

	res, err := Allocate(AllocationInput{
		Jobs:    jobs,
		Catalog: catalog,
		Horizon: h,
		Pinned:  []schedule.Assignment{{OrderID: "PIN", MoldID: "M1", Date: workDay(0), Pinned: true}},
		Policy:  p,
	})
	require.NoError(t, err)

	require.Equal(t, workDay(1), res.Assignments["L1"].Date)
	require.Equal(t, "M2", res.Assignments["L1"].MoldID)
	require.Equal(t, []SlotSkip{{MoldID: "M2", Date: workDay(0), Reason: SkipModelCap}}, res.Skipped)
	require.Equal(t, []string{"L1"}, res.Placed)
}

func TestAllocate_PinOutsideBacklogCountsTowardModelCap(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog(universalMolds(10), staff(20))
	jobs := jobsFor("MESA", MesaUniversalModel, 8, true)
	pinned := []schedule.Assignment{
		{OrderID: "SHIPPED", MoldID: "M10", Date: workDay(0), Pinned: true, ModelID: MesaUniversalModel},
	}
	h, err := NewCalendar(p).Horizon(monday, jobs)
	require.NoError(t, err)

	res, err := Allocate(AllocationInput{Jobs: jobs, Catalog: catalog, Horizon: h, Pinned: pinned, Policy: p})
	require.NoError(t, err)

	require.Equal(t, p.ModelDailyCap, res.ModelDailyLoad[0])
	onFirstDay := 0
	for _, a := range res.Assignments {
		if a.Date.Equal(workDay(0)) {
			onFirstDay++
		}
	}
	require.Equal(t, p.ModelDailyCap, onFirstDay)
	require.Equal(t, workDay(1), res.Assignments["MESA08"].Date)
}

func TestAllocate_MoldsCompareByDayNotCursor(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog([]mold.Mold{
		{ID: "M1", Enabled: true, Multiplier: 2},
		{ID: "M2", Enabled: true, Multiplier: 1},
	}, staff(10))
	jobs := jobsFor("O", "X", 3, false)
	h, err := NewCalendar(p).Horizon(monday, jobs)
	require.NoError(t, err)

	res, err := Allocate(AllocationInput{Jobs: jobs, Catalog: catalog, Horizon: h, Policy: p})
	require.NoError(t, err)

	// M1 keeps its second unit on day 0 even though M2's cursor is lower.
	require.Equal(t, schedule.Assignment{OrderID: "O01", MoldID: "M1", Date: workDay(0)}, res.Assignments["O01"])
	require.Equal(t, schedule.Assignment{OrderID: "O02", MoldID: "M1", Date: workDay(0)}, res.Assignments["O02"])
	require.Equal(t, schedule.Assignment{OrderID: "O03", MoldID: "M2", Date: workDay(0)}, res.Assignments["O03"])
}

func TestAllocate_PinnedAssignmentsAreKept(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog([]mold.Mold{
		{ID: "M1", Enabled: true},
		{ID: "OFF", Enabled: false},
	}, staff(5))
	jobs := jobsFor("O", "X", 3, false)
	pinned := []schedule.Assignment{
		{OrderID: "O02", MoldID: "M1", Date: workDay(2), Pinned: true, OverriddenBy: "planner"},
		{OrderID: "O03", MoldID: "OFF", Date: workDay(0), Pinned: true},
		{OrderID: "OLD", MoldID: "M1", Date: monday.AddDate(0, 0, -7), Pinned: true},
	}
	h, err := NewCalendar(p).Horizon(monday, jobs)
	require.NoError(t, err)

	res, err := Allocate(AllocationInput{Jobs: jobs, Catalog: catalog, Horizon: h, Pinned: pinned, Policy: p})
	require.NoError(t, err)

	for _, a := range pinned {
		require.Equal(t, a, res.Assignments[a.OrderID])
	}
	require.Equal(t, []string{"O01"}, res.Placed)
	// M1's cursor starts after its pinned cell on day 2.
	require.Equal(t, workDay(3), res.Assignments["O01"].Date)
	require.Equal(t, 1, res.DailyLoad[0])
	require.Equal(t, 1, res.DailyLoad[2])
}

func TestAllocate_DisabledMoldNeverAssigned(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog([]mold.Mold{
		{ID: "OFF", Enabled: false},
		{ID: "ON", Enabled: true},
	}, staff(5))

	res := allocate(t, p, jobsFor("O", "X", 4, false), catalog)

	for _, a := range res.Assignments {
		require.Equal(t, "ON", a.MoldID)
	}
	requireInvariants(t, res, catalog, p)
}

func TestAllocate_ZeroCapacity(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog(universalMolds(2), nil)

	res := allocate(t, p, jobsFor("O", "X", 2, false), catalog)

	require.Empty(t, res.Assignments)
	require.Equal(t, map[UnassignedReason]int{ReasonHorizonExhausted: 2}, res.UnassignedByReason())
}

func TestAllocate_Deterministic(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog(append(universalMolds(2), mold.Mold{ID: "MESA", Enabled: true, StockModels: []string{MesaUniversalModel}}), staff(3))
	jobs := append(jobsFor("A", "X", 7, false), jobsFor("M", MesaUniversalModel, 5, true)...)
	jobs[2].Priority = 1
	jobs[4].DueDate = monday.AddDate(0, 0, 20)

	first := allocate(t, p, jobs, catalog)
	second := allocate(t, p, jobs, catalog)

	require.Equal(t, first, second)
	requireInvariants(t, first, catalog, p)
}

func TestAllocate_ReplanWithOwnOutputIsStable(t *testing.T) {
	p := DefaultPolicy()
	p.ModelDailyCap = 1
	catalog := NewCatalog(append(universalMolds(2), mold.Mold{ID: "MESA", Enabled: true, StockModels: []string{MesaUniversalModel}}), staff(3))
	jobs := append(jobsFor("A", "X", 30, false), jobsFor("M", MesaUniversalModel, 4, true)...)

	first := allocate(t, p, jobs, catalog)
	require.NotEmpty(t, first.Unassigned)

	pinned := make([]schedule.Assignment, 0, len(first.Assignments))
	for _, id := range first.Placed {
		pinned = append(pinned, first.Assignments[id])
	}
	second, err := Allocate(AllocationInput{Jobs: jobs, Catalog: catalog, Horizon: first.Horizon, Pinned: pinned, Policy: p})
	require.NoError(t, err)

	require.Equal(t, first.Assignments, second.Assignments)
	require.Empty(t, second.Placed)
	require.Equal(t, first.DailyLoad, second.DailyLoad)
	require.Equal(t, first.ModelDailyLoad, second.ModelDailyLoad)
}

func TestAllocate_MultiplierGivesSeveralSlotsPerDay(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog([]mold.Mold{{ID: "M1", Enabled: true, Multiplier: 2}}, staff(10))

	res := allocate(t, p, jobsFor("O", "X", 3, false), catalog)

	require.Equal(t, workDay(0), res.Assignments["O01"].Date)
	require.Equal(t, workDay(0), res.Assignments["O02"].Date)
	require.Equal(t, workDay(1), res.Assignments["O03"].Date)
	requireInvariants(t, res, catalog, p)
}

func TestAllocate_StructuralErrors(t *testing.T) {
	p := DefaultPolicy()
	catalog := NewCatalog(universalMolds(1), staff(1))
	jobs := jobsFor("O", "X", 1, false)
	h, err := NewCalendar(p).Horizon(monday, jobs)
	require.NoError(t, err)

	_, err = Allocate(AllocationInput{Catalog: catalog, Horizon: h, Policy: p})
	require.ErrorIs(t, err, ErrEmptyBacklog)

	_, err = Allocate(AllocationInput{Jobs: jobs, Horizon: h, Policy: p})
	require.ErrorIs(t, err, ErrNoCatalog)

	_, err = Allocate(AllocationInput{Jobs: jobs, Catalog: catalog, Policy: p})
	require.ErrorIs(t, err, ErrEmptyHorizon)

	bad := p
	bad.MaxWeeks = 0
	_, err = Allocate(AllocationInput{Jobs: jobs, Catalog: catalog, Horizon: h, Policy: bad})
	require.ErrorIs(t, err, ErrInvalidPolicy)
}

func TestSortJobs(t *testing.T) {
	due := func(d int) time.Time { return monday.AddDate(0, 0, d) }
	jobs := []Job{
		{OrderID: "late", Priority: 5, DueDate: due(10)},
		{OrderID: "urgent", Priority: 1, DueDate: due(20)},
		{OrderID: "mesa", Priority: 50, DueDate: due(30), Limited: true},
		{OrderID: "early", Priority: 5, DueDate: due(2)},
		{OrderID: "tie", Priority: 5, DueDate: due(10)},
	}

	var ids []string
	for _, j := range SortJobs(jobs) {
		ids = append(ids, j.OrderID)
	}
	require.Equal(t, []string{"mesa", "urgent", "early", "late", "tie"}, ids)
	require.Equal(t, "late", jobs[0].OrderID)
}

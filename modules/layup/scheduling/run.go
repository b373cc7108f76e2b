package scheduling

import (
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
)

// AllocationRun holds the mutable state of one allocation pass. It is built
// fresh for every Allocate call and never shared.
type AllocationRun struct {
	horizon  Horizon
	catalog  *Catalog
	policy   Policy
	capacity int

	// moldCursor is the index of the next open slot in a mold's own slot
	// sequence; slot k falls on horizon day k / SlotsPerDay.
	moldCursor     map[string]int
	dailyLoad      []int
	modelDailyLoad []int

	result *Result
}

type slotChoice struct {
	mold mold.Mold
	slot int
	day  int
	ok   bool
}

func newAllocationRun(in AllocationInput) *AllocationRun {
	n := in.Horizon.Len()
	capacity := in.Catalog.DailyAggregateCapacity()
	return &AllocationRun{
		horizon:        in.Horizon,
		catalog:        in.Catalog,
		policy:         in.Policy,
		capacity:       capacity,
		moldCursor:     make(map[string]int),
		dailyLoad:      make([]int, n),
		modelDailyLoad: make([]int, n),
		result: &Result{
			Assignments:   make(map[string]schedule.Assignment),
			DailyCapacity: capacity,
			Horizon:       in.Horizon,
		},
	}
}

// preload copies pinned assignments into the result and charges them to the
// day counters. A mold's cursor starts after its last pinned cell. Pins
// dated outside the horizon are carried over without load. A pin whose order
// is not in the backlog is classified from its recorded model and product.
func (r *AllocationRun) preload(pinned []schedule.Assignment, jobs []Job) map[string]bool {
	limited := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		if j.Limited {
			limited[j.OrderID] = true
		}
	}

	ids := make(map[string]bool, len(pinned))
	cells := make(map[string]map[int]int)
	for _, a := range pinned {
		if ids[a.OrderID] {
			continue
		}
		ids[a.OrderID] = true
		r.result.Assignments[a.OrderID] = a

		day, ok := r.horizon.Index(a.Date)
		if !ok {
			continue
		}
		r.dailyLoad[day]++
		if limited[a.OrderID] || r.policy.IsLimited(a.ModelID, a.Product) {
			r.modelDailyLoad[day]++
		}
		if cells[a.MoldID] == nil {
			cells[a.MoldID] = make(map[int]int)
		}
		cells[a.MoldID][day]++
	}

	for moldID, byDay := range cells {
		spd := 1
		if m, ok := r.catalog.Mold(moldID); ok {
			spd = m.SlotsPerDay()
		}
		for day, count := range byDay {
			if next := day*spd + min(count, spd); next > r.moldCursor[moldID] {
				r.moldCursor[moldID] = next
			}
		}
	}
	return ids
}

// place assigns one job or records why it could not be placed.
func (r *AllocationRun) place(job Job) {
	if _, done := r.result.Assignments[job.OrderID]; done {
		return
	}
	molds := r.catalog.CompatibleMolds(job.ModelID)
	if len(molds) == 0 {
		r.unassign(job, ReasonNoCompatibleMold)
		return
	}

	if best := r.earliest(molds, job); best.ok {
		r.commit(job, best)
		return
	}
	if job.Limited {
		if fwd := r.forward(molds); fwd.ok {
			r.commit(job, fwd)
			return
		}
	}
	r.unassign(job, ReasonHorizonExhausted)
}

// earliest picks the compatible mold offering the earliest open slot that
// also has model-class room for limited jobs. Ties go to catalog order.
func (r *AllocationRun) earliest(molds []mold.Mold, job Job) slotChoice {
	var best slotChoice
	for _, m := range molds {
		slot, day, ok := r.openSlot(m, r.moldCursor[m.ID])
		if !ok {
			continue
		}
		if job.Limited && r.modelDailyLoad[day] >= r.policy.ModelDailyCap {
			continue
		}
		if !best.ok || day < best.day {
			best = slotChoice{mold: m, slot: slot, day: day, ok: true}
		}
	}
	return best
}

// forward searches past model-capped days on every compatible mold and
// returns the earliest slot with both aggregate and model-class room.
func (r *AllocationRun) forward(molds []mold.Mold) slotChoice {
	var best slotChoice
	for _, m := range molds {
		from := r.moldCursor[m.ID]
		for {
			slot, day, ok := r.openSlot(m, from)
			if !ok {
				break
			}
			if r.modelDailyLoad[day] < r.policy.ModelDailyCap {
				if !best.ok || day < best.day {
					best = slotChoice{mold: m, slot: slot, day: day, ok: true}
				}
				break
			}
			from = (day + 1) * m.SlotsPerDay()
		}
	}
	return best
}

// openSlot returns the first slot at or after from whose day is below the
// aggregate capacity.
func (r *AllocationRun) openSlot(m mold.Mold, from int) (slot, day int, ok bool) {
	spd := m.SlotsPerDay()
	for slot = from; ; slot = (day + 1) * spd {
		day = slot / spd
		if day >= len(r.dailyLoad) {
			return 0, 0, false
		}
		if r.dailyLoad[day] < r.capacity {
			return slot, day, true
		}
	}
}

func (r *AllocationRun) commit(job Job, c slotChoice) {
	spd := c.mold.SlotsPerDay()
	for k := r.moldCursor[c.mold.ID]; k < c.slot; k++ {
		day := k / spd
		reason := SkipModelCap
		if r.dailyLoad[day] >= r.capacity {
			reason = SkipDayFull
		}
		r.result.Skipped = append(r.result.Skipped, SlotSkip{
			MoldID: c.mold.ID,
			Date:   r.horizon.Days[day].Date,
			Reason: reason,
		})
	}

	r.moldCursor[c.mold.ID] = c.slot + 1
	r.dailyLoad[c.day]++
	if job.Limited {
		r.modelDailyLoad[c.day]++
	}
	r.result.Assignments[job.OrderID] = schedule.Assignment{
		OrderID: job.OrderID,
		MoldID:  c.mold.ID,
		Date:    r.horizon.Days[c.day].Date,
	}
	r.result.Placed = append(r.result.Placed, job.OrderID)
}

func (r *AllocationRun) unassign(job Job, reason UnassignedReason) {
	r.result.Unassigned = append(r.result.Unassigned, Unassigned{OrderID: job.OrderID, Reason: reason})
}

func (r *AllocationRun) finish() *Result {
	r.result.DailyLoad = r.dailyLoad
	r.result.ModelDailyLoad = r.modelDailyLoad
	return r.result
}

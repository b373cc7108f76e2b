package scheduling

import (
	"time"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
)

type UnassignedReason string

const (
	ReasonNoCompatibleMold UnassignedReason = "no-compatible-mold"
	ReasonHorizonExhausted UnassignedReason = "horizon-exhausted"
)

type Unassigned struct {
	OrderID string           `json:"order_id"`
	Reason  UnassignedReason `json:"reason"`
}

type SkipReason string

const (
	SkipDayFull  SkipReason = "day-full"
	SkipModelCap SkipReason = "model-cap"
)

// SlotSkip records a mold slot the greedy pass stepped over without filling.
type SlotSkip struct {
	MoldID string     `json:"mold_id"`
	Date   time.Time  `json:"date"`
	Reason SkipReason `json:"reason"`
}

// Result is the outcome of one allocation run. Assignments holds pinned and
// newly placed orders keyed by order id; Placed lists new placements in the
// order they were made.
type Result struct {
	Assignments    map[string]schedule.Assignment `json:"assignments"`
	Placed         []string                       `json:"placed"`
	Unassigned     []Unassigned                   `json:"unassigned"`
	Skipped        []SlotSkip                     `json:"skipped"`
	DailyCapacity  int                            `json:"daily_capacity"`
	DailyLoad      []int                          `json:"daily_load"`
	ModelDailyLoad []int                          `json:"model_daily_load"`
	Horizon        Horizon                        `json:"-"`
}

// Unpinned returns the assignments placed by this run, in placement order.
func (r *Result) Unpinned() []schedule.Assignment {
	out := make([]schedule.Assignment, 0, len(r.Placed))
	for _, id := range r.Placed {
		out = append(out, r.Assignments[id])
	}
	return out
}

// UnassignedByReason counts unassigned orders per reason.
func (r *Result) UnassignedByReason() map[UnassignedReason]int {
	out := map[UnassignedReason]int{}
	for _, u := range r.Unassigned {
		out[u.Reason]++
	}
	return out
}

package scheduling

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/order"
)

type LOPStatus string

const (
	LOPNone      LOPStatus = "none"
	LOPScheduled LOPStatus = "scheduled"
	LOPDeferred  LOPStatus = "deferred"
)

// LOPAdjustment is the derived length-of-pull adjustment state of one order.
type LOPAdjustment struct {
	OrderID         string     `json:"order_id"`
	NeedsAdjustment bool       `json:"needs_adjustment"`
	Status          LOPStatus  `json:"status"`
	Date            *time.Time `json:"date,omitempty"`
	Reason          string     `json:"reason,omitempty"`
}

// NeedsLOPAdjustment reports whether the length-of-pull feature asks for a
// non-standard pull. Absent values count as standard. Tokens and substrings
// match case-insensitively on both sides.
func NeedsLOPAdjustment(f order.Features, p Policy) bool {
	value := strings.ToLower(strings.TrimSpace(f.LengthOfPull))
	if value == "" {
		return false
	}
	if slices.ContainsFunc(p.StandardLOPTokens, func(tok string) bool {
		return strings.EqualFold(strings.TrimSpace(tok), value)
	}) {
		return false
	}
	for _, sub := range p.StandardLOPSubstrings {
		if sub = strings.ToLower(strings.TrimSpace(sub)); sub != "" && strings.Contains(value, sub) {
			return false
		}
	}
	return true
}

// ScheduleLOP derives the adjustment state of every job for the given day.
// The result depends only on the jobs, now and the policy.
func ScheduleLOP(jobs []Job, now time.Time, p Policy) map[string]LOPAdjustment {
	today := DateOf(now)
	out := make(map[string]LOPAdjustment, len(jobs))
	for _, j := range jobs {
		out[j.OrderID] = scheduleOne(j, today, p)
	}
	return out
}

func scheduleOne(j Job, today time.Time, p Policy) LOPAdjustment {
	adj := LOPAdjustment{OrderID: j.OrderID, Status: LOPNone}
	if !NeedsLOPAdjustment(j.Features, p) {
		return adj
	}
	adj.NeedsAdjustment = true

	if escalated(j) {
		d := today
		adj.Status = LOPScheduled
		adj.Date = &d
		adj.Reason = "priority escalated since last LOP scheduling"
		return adj
	}

	entry := today
	if !j.OrderDate.IsZero() {
		entry = DateOf(j.OrderDate)
	}
	nominal := NextWeekday(entry, p.LOPWeekday)
	if !nominal.Before(today) {
		adj.Status = LOPScheduled
		adj.Date = &nominal
		adj.Reason = fmt.Sprintf("scheduled for %s", p.LOPWeekday)
		return adj
	}

	next := NextWeekday(today, p.LOPWeekday)
	adj.Status = LOPDeferred
	adj.Date = &next
	adj.Reason = fmt.Sprintf("%s %s passed, deferred to next %s", p.LOPWeekday, nominal.Format("2006-01-02"), p.LOPWeekday)
	return adj
}

func escalated(j Job) bool {
	if j.PriorityChangedAt == nil {
		return false
	}
	if j.LastLOPScheduledAt == nil {
		return true
	}
	return j.PriorityChangedAt.After(*j.LastLOPScheduledAt)
}

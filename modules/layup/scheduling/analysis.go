package scheduling

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

const (
	lowEfficiencyPercent  = 80.0
	lowUtilizationPercent = 50.0
)

type DayLoad struct {
	Date     time.Time `json:"date"`
	Load     int       `json:"load"`
	Limited  int       `json:"limited"`
	Capacity int       `json:"capacity"`
}

// Summary reports how well a run used the horizon.
type Summary struct {
	TotalOrders     int                      `json:"total_orders"`
	Assigned        int                      `json:"assigned"`
	Unassigned      int                      `json:"unassigned"`
	Efficiency      float64                  `json:"efficiency_percent"`
	DailyCapacity   int                      `json:"daily_capacity"`
	MoldUtilization map[string]float64       `json:"mold_utilization_percent"`
	Days            []DayLoad                `json:"days"`
	ByReason        map[UnassignedReason]int `json:"unassigned_by_reason"`
	Recommendations []string                 `json:"recommendations"`
}

// Analyze summarises a result. Utilisation is filled slots over the slots a
// mold offers across the horizon.
func Analyze(res *Result, jobs []Job, catalog *Catalog) Summary {
	s := Summary{
		TotalOrders:     len(jobs),
		Unassigned:      len(res.Unassigned),
		DailyCapacity:   res.DailyCapacity,
		MoldUtilization: map[string]float64{},
		ByReason:        res.UnassignedByReason(),
	}

	jobIDs := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		jobIDs[j.OrderID] = true
	}
	filled := map[string]int{}
	for id, a := range res.Assignments {
		if jobIDs[id] {
			s.Assigned++
		}
		if _, in := res.Horizon.Index(a.Date); in {
			filled[a.MoldID]++
		}
	}
	if s.TotalOrders > 0 {
		s.Efficiency = round1(float64(s.Assigned) / float64(s.TotalOrders) * 100)
	}

	var idle []string
	for _, m := range catalog.EnabledMolds() {
		slots := res.Horizon.Len() * m.SlotsPerDay()
		if slots == 0 {
			continue
		}
		u := round1(float64(filled[m.ID]) / float64(slots) * 100)
		s.MoldUtilization[m.ID] = u
		if u < lowUtilizationPercent {
			idle = append(idle, m.ID)
		}
	}

	for i, d := range res.Horizon.Days {
		dl := DayLoad{Date: d.Date, Capacity: res.DailyCapacity}
		if i < len(res.DailyLoad) {
			dl.Load = res.DailyLoad[i]
			dl.Limited = res.ModelDailyLoad[i]
		}
		s.Days = append(s.Days, dl)
	}

	s.Recommendations = recommend(s, res, jobs, idle)
	return s
}

func recommend(s Summary, res *Result, jobs []Job, idle []string) []string {
	var out []string
	if s.DailyCapacity == 0 {
		out = append(out, "No active layup capacity: check employee rates and hours")
	}
	if s.TotalOrders > 0 && s.Efficiency < lowEfficiencyPercent {
		out = append(out, "Consider increasing daily capacity or extending the schedule window")
	}
	if models := missingModels(res, jobs); len(models) > 0 {
		out = append(out, fmt.Sprintf("No enabled mold supports: %s", strings.Join(models, ", ")))
	}
	if len(idle) > 0 && s.Unassigned == 0 {
		slices.Sort(idle)
		out = append(out, fmt.Sprintf("Underutilized molds: %s", strings.Join(idle, ", ")))
	}
	if len(out) == 0 {
		out = append(out, "Schedule is well-optimized")
	}
	return out
}

func missingModels(res *Result, jobs []Job) []string {
	byID := make(map[string]Job, len(jobs))
	for _, j := range jobs {
		byID[j.OrderID] = j
	}
	seen := map[string]bool{}
	var out []string
	for _, u := range res.Unassigned {
		if u.Reason != ReasonNoCompatibleMold {
			continue
		}
		model := byID[u.OrderID].ModelID
		if model == "" {
			model = "(unknown model)"
		}
		if !seen[model] {
			seen[model] = true
			out = append(out, model)
		}
	}
	slices.Sort(out)
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

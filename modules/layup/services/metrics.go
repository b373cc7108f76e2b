package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/glennajones/gummy-bear/modules/layup/scheduling"
)

const (
	outcomeOK        = "ok"
	outcomeAbandoned = "abandoned"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "layup",
		Subsystem: "scheduler",
		Name:      "runs_total",
		Help:      "Scheduling runs by outcome.",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "layup",
		Subsystem: "scheduler",
		Name:      "run_duration_seconds",
		Help:      "Wall time of scheduling runs, storage included.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"outcome"})

	ordersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "layup",
		Subsystem: "scheduler",
		Name:      "orders_total",
		Help:      "Orders handled by scheduling runs, by result.",
	}, []string{"result"})

	skippedSlotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "layup",
		Subsystem: "scheduler",
		Name:      "skipped_slots_total",
		Help:      "Mold slots stepped over without an assignment, by reason.",
	}, []string{"reason"})

	dailyCapacity = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "layup",
		Subsystem: "scheduler",
		Name:      "daily_capacity",
		Help:      "Aggregate daily capacity seen by the latest run.",
	})

	efficiency = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "layup",
		Subsystem: "scheduler",
		Name:      "efficiency_percent",
		Help:      "Share of the backlog placed by the latest run.",
	})
)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrRunAbandoned):
		return outcomeAbandoned
	case errors.Is(err, scheduling.ErrEmptyBacklog),
		errors.Is(err, scheduling.ErrEmptyHorizon),
		errors.Is(err, scheduling.ErrNoCatalog):
		return outcomeRejected
	default:
		return outcomeFailed
	}
}

func recordPlan(p *Plan) {
	ordersTotal.WithLabelValues("assigned").Add(float64(len(p.Result.Placed)))
	for reason, n := range p.Result.UnassignedByReason() {
		ordersTotal.WithLabelValues(string(reason)).Add(float64(n))
	}
	for _, skip := range p.Result.Skipped {
		skippedSlotsTotal.WithLabelValues(string(skip.Reason)).Inc()
	}
	dailyCapacity.Set(float64(p.Result.DailyCapacity))
	efficiency.Set(p.Summary.Efficiency)
}

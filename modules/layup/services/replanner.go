package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/glennajones/gummy-bear/modules/hrm/domain/entities/layupsetting"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/modules/layup/scheduling"
)

const defaultMaxBackoff = 5 * time.Minute

type Planner interface {
	Generate(ctx context.Context, opts GenerateOptions) (*Plan, error)
}

// RunLock serialises re-planning across instances.
type RunLock interface {
	TryLock(ctx context.Context) (release func(), acquired bool, err error)
}

type ReplannerOptions struct {
	// Interval between periodic runs; zero leaves only triggered runs.
	Interval   time.Duration
	MaxBackoff time.Duration
	Lock       RunLock
	Logger     *logrus.Logger
}

func (o *ReplannerOptions) setDefaults() {
	if o.MaxBackoff <= 0 {
		o.MaxBackoff = defaultMaxBackoff
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
}

// Replanner regenerates and applies the schedule periodically and whenever
// the mold catalog or staffing changes.
type Replanner struct {
	planner  Planner
	opts     ReplannerOptions
	log      *logrus.Entry
	trigger  chan struct{}
	failures int
}

func NewReplanner(planner Planner, opts ReplannerOptions) *Replanner {
	opts.setDefaults()
	return &Replanner{
		planner: planner,
		opts:    opts,
		log:     opts.Logger.WithField("component", "layup-replanner"),
		trigger: make(chan struct{}, 1),
	}
}

func (r *Replanner) Name() string {
	return "layup-replanner"
}

// Trigger requests a run. Requests made while one is pending coalesce.
func (r *Replanner) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

func (r *Replanner) OnMoldUpdated(ev mold.UpdatedEvent) {
	r.log.WithField("mold_id", ev.Mold.ID).Debug("mold changed; re-plan requested")
	r.Trigger()
}

func (r *Replanner) OnStaffUpdated(ev layupsetting.UpdatedEvent) {
	r.log.WithField("employee_id", ev.Result.EmployeeID).Debug("staffing changed; re-plan requested")
	r.Trigger()
}

func (r *Replanner) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if r.opts.Interval > 0 {
		ticker := time.NewTicker(r.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
		case <-r.trigger:
		}

		wait := r.replan(ctx)
		if wait <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// replan runs one cycle and returns how long to back off before the next.
func (r *Replanner) replan(ctx context.Context) time.Duration {
	if r.opts.Lock != nil {
		release, acquired, err := r.opts.Lock.TryLock(ctx)
		if err != nil {
			r.failures++
			r.log.WithError(err).Warn("failed to take re-plan lock")
			return backoff(r.failures, r.opts.MaxBackoff)
		}
		if !acquired {
			r.log.Debug("another instance is re-planning; skipping")
			return 0
		}
		defer release()
	}

	_, err := r.planner.Generate(ctx, GenerateOptions{Apply: true})
	switch {
	case err == nil, errors.Is(err, scheduling.ErrEmptyBacklog):
		r.failures = 0
		return 0
	case errors.Is(err, context.Canceled):
		return 0
	default:
		r.failures++
		r.log.WithError(err).WithField("failures", r.failures).Warn("re-plan failed")
		return backoff(r.failures, r.opts.MaxBackoff)
	}
}

// backoff is 1s * 2^(attempts-1), capped at maxBackoff.
func backoff(attempts int, maxBackoff time.Duration) time.Duration {
	if attempts <= 0 {
		return 0
	}
	if attempts > 32 {
		return maxBackoff
	}
	seconds := math.Pow(2, float64(attempts-1))
	d := time.Duration(seconds * float64(time.Second))
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

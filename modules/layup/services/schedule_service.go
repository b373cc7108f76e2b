package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/glennajones/gummy-bear/modules/hrm/domain/entities/layupsetting"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/order"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
	"github.com/glennajones/gummy-bear/modules/layup/scheduling"
	"github.com/glennajones/gummy-bear/pkg/composables"
	"github.com/glennajones/gummy-bear/pkg/eventbus"
	"github.com/glennajones/gummy-bear/pkg/serrors"
)

var tracer = otel.Tracer("layup-scheduler")

var (
	ErrRunAbandoned = serrors.NewError("LAYUP_RUN_ABANDONED", "scheduling run exceeded its deadline and was discarded", "")
	ErrNotWorkDay   = serrors.NewError("LAYUP_NOT_WORK_DAY", "date is not a layup work day", "")
	ErrInvalidInput = serrors.NewError("LAYUP_INVALID_INPUT", "invalid override", "")
)

// StaffSource yields the technicians whose throughput makes up daily capacity.
type StaffSource interface {
	GetActive(ctx context.Context, department string) ([]layupsetting.Setting, error)
}

type ScheduleOptions struct {
	Policy     scheduling.Policy
	Department string
	// Timeout bounds one run; zero means no deadline beyond the caller's.
	Timeout time.Duration
	Logger  *logrus.Logger
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

type ScheduleService struct {
	molds     mold.Repository
	queue     order.Repository
	schedules schedule.Repository
	staff     StaffSource
	publisher eventbus.EventBus
	opts      ScheduleOptions
	log       *logrus.Entry
}

func NewScheduleService(
	molds mold.Repository,
	queue order.Repository,
	schedules schedule.Repository,
	staff StaffSource,
	publisher eventbus.EventBus,
	opts ScheduleOptions,
) *ScheduleService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if strings.TrimSpace(opts.Department) == "" {
		opts.Department = layupsetting.DefaultDepartment
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ScheduleService{
		molds:     molds,
		queue:     queue,
		schedules: schedules,
		staff:     staff,
		publisher: publisher,
		opts:      opts,
		log:       logger.WithField("component", "layup-scheduler"),
	}
}

func (s *ScheduleService) Policy() scheduling.Policy {
	return s.opts.Policy
}

// Today is the current calendar date by the service clock.
func (s *ScheduleService) Today() time.Time {
	return scheduling.DateOf(s.opts.Now())
}

type GenerateOptions struct {
	// Start is the first candidate day; today when zero.
	Start time.Time
	// Apply persists the plan and records LOP scheduling on the queue.
	Apply bool
}

// Plan is the outcome of one scheduling run.
type Plan struct {
	RunID       uuid.UUID                           `json:"run_id"`
	GeneratedAt time.Time                           `json:"generated_at"`
	From        time.Time                           `json:"from"`
	To          time.Time                           `json:"to"`
	WorkDays    []time.Time                         `json:"work_days"`
	BackupDays  []time.Time                         `json:"backup_days"`
	Result      *scheduling.Result                  `json:"result"`
	Summary     scheduling.Summary                  `json:"summary"`
	LOP         map[string]scheduling.LOPAdjustment `json:"lop"`
	Applied     bool                                `json:"applied"`
}

type snapshot struct {
	jobs    []scheduling.Job
	catalog *scheduling.Catalog
	horizon scheduling.Horizon
	pinned  []schedule.Assignment
}

// Generate runs the scheduler over the current backlog. A run that outlives
// its deadline is discarded and never persisted.
func (s *ScheduleService) Generate(ctx context.Context, opts GenerateOptions) (*Plan, error) {
	started := time.Now()
	runID := uuid.New()
	ctx, span := tracer.Start(ctx, "layup.schedule.generate")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", runID.String()), attribute.Bool("apply", opts.Apply))

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	now := s.opts.Now()
	start := opts.Start
	if start.IsZero() {
		start = now
	}
	start = scheduling.DateOf(start)
	log := composables.UseLogger(ctx, s.log).WithFields(logrus.Fields{"run_id": runID, "start": start.Format(time.DateOnly)})

	plan, err := s.generate(ctx, runID, start, now, opts.Apply, log)
	outcome := outcomeOf(err)
	runsTotal.WithLabelValues(outcome).Inc()
	runDuration.WithLabelValues(outcome).Observe(time.Since(started).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		entry := log.WithError(err).WithField("outcome", outcome)
		if outcome == outcomeRejected {
			entry.Warn("scheduling run rejected")
		} else {
			entry.Error("scheduling run failed")
		}
		return nil, err
	}

	recordPlan(plan)
	span.SetAttributes(
		attribute.Int("assigned", plan.Summary.Assigned),
		attribute.Int("unassigned", plan.Summary.Unassigned),
	)
	log.WithFields(logrus.Fields{
		"assigned":       plan.Summary.Assigned,
		"unassigned":     plan.Summary.Unassigned,
		"daily_capacity": plan.Result.DailyCapacity,
		"applied":        plan.Applied,
	}).Info("scheduling run finished")

	s.publisher.Publish(schedule.GeneratedEvent{
		RunID:      runID,
		Start:      start,
		Assigned:   plan.Summary.Assigned,
		Unassigned: plan.Summary.Unassigned,
		Applied:    plan.Applied,
	})
	if plan.Applied {
		s.publisher.Publish(schedule.SavedEvent{
			RunID:       runID,
			From:        plan.From,
			To:          plan.To,
			Assignments: len(plan.Result.Placed),
		})
	}
	return plan, nil
}

func (s *ScheduleService) generate(ctx context.Context, runID uuid.UUID, start, now time.Time, apply bool, log *logrus.Entry) (*Plan, error) {
	snap, err := composables.InTxResult(ctx, func(txCtx context.Context) (*snapshot, error) {
		return s.snapshot(txCtx, start)
	})
	if err != nil {
		return nil, err
	}

	lop := scheduling.ScheduleLOP(snap.jobs, now, s.opts.Policy)
	res, err := scheduling.Allocate(scheduling.AllocationInput{
		Jobs:    snap.jobs,
		Catalog: snap.catalog,
		Horizon: snap.horizon,
		Pinned:  snap.pinned,
		Policy:  s.opts.Policy,
	})
	if errors.Is(err, scheduling.ErrInvalidPolicy) {
		log.WithError(err).Warn("scheduling policy is invalid; producing an empty plan")
		res = emptyResult(snap)
	} else if err != nil {
		return nil, err
	}

	plan := &Plan{
		RunID:       runID,
		GeneratedAt: now,
		From:        snap.horizon.First(),
		To:          snap.horizon.Last(),
		WorkDays:    dayDates(snap.horizon.Days),
		BackupDays:  dayDates(snap.horizon.BackupDays()),
		Result:      res,
		Summary:     scheduling.Analyze(res, snap.jobs, snap.catalog),
		LOP:         lop,
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrRunAbandoned, ctx.Err())
	}
	// A plan built under an invalid policy never reaches storage.
	if !apply || err != nil {
		return plan, nil
	}

	err = composables.InTx(ctx, func(txCtx context.Context) error {
		if err := s.schedules.ReplaceWindow(txCtx, plan.From, plan.To, res.Unpinned()); err != nil {
			return err
		}
		for _, j := range snap.jobs {
			adj := lop[j.OrderID]
			if !adj.NeedsAdjustment || adj.Date == nil {
				continue
			}
			if err := s.queue.MarkLOPScheduled(txCtx, j.OrderID, *adj.Date, now); err != nil {
				return err
			}
		}
		return txCtx.Err()
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrRunAbandoned, ctx.Err())
		}
		return nil, err
	}
	plan.Applied = true
	return plan, nil
}

// snapshot reads every input of a run in one transaction so the run sees a
// consistent catalog and backlog.
func (s *ScheduleService) snapshot(ctx context.Context, start time.Time) (*snapshot, error) {
	orders, err := s.queue.GetBacklog(ctx)
	if err != nil {
		return nil, err
	}
	molds, err := s.molds.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	staff, err := s.staff.GetActive(ctx, s.opts.Department)
	if err != nil {
		return nil, err
	}

	jobs := scheduling.ClassifyAll(orders, s.opts.Policy)
	horizon, err := scheduling.NewCalendar(s.opts.Policy).Horizon(start, jobs)
	if err != nil {
		return nil, err
	}
	pinned, err := s.schedules.LoadPinned(ctx, horizon.First(), horizon.Last())
	if err != nil {
		return nil, err
	}
	return &snapshot{
		jobs:    jobs,
		catalog: scheduling.NewCatalog(molds, employees(staff)),
		horizon: horizon,
		pinned:  pinned,
	}, nil
}

// LOPReport derives the LOP adjustment state of the backlog for now.
func (s *ScheduleService) LOPReport(ctx context.Context, now time.Time) (map[string]scheduling.LOPAdjustment, error) {
	orders, err := composables.InTxResult(ctx, func(txCtx context.Context) ([]order.Order, error) {
		return s.queue.GetBacklog(txCtx)
	})
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = s.opts.Now()
	}
	return scheduling.ScheduleLOP(scheduling.ClassifyAll(orders, s.opts.Policy), now, s.opts.Policy), nil
}

// List returns the stored assignments dated within [from, to].
func (s *ScheduleService) List(ctx context.Context, from, to time.Time) ([]schedule.Assignment, error) {
	return composables.InTxResult(ctx, func(txCtx context.Context) ([]schedule.Assignment, error) {
		return s.schedules.ListWindow(txCtx, scheduling.DateOf(from), scheduling.DateOf(to))
	})
}

type OverrideInput struct {
	OrderID string
	MoldID  string
	Date    time.Time
	By      string
}

// Override pins an order to a mold and day. Pinned assignments survive
// re-planning and block their cell.
func (s *ScheduleService) Override(ctx context.Context, in OverrideInput) (schedule.Assignment, error) {
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.MoldID = strings.TrimSpace(in.MoldID)
	if in.OrderID == "" || in.MoldID == "" || in.Date.IsZero() {
		return schedule.Assignment{}, ErrInvalidInput.WithMessage("order_id, mold_id and date are required")
	}
	date := scheduling.DateOf(in.Date)
	if scheduling.NewCalendar(s.opts.Policy).Classify(date) == scheduling.DayOff {
		return schedule.Assignment{}, ErrNotWorkDay
	}

	at := s.opts.Now().UTC()
	a := schedule.Assignment{
		OrderID:      in.OrderID,
		MoldID:       in.MoldID,
		Date:         date,
		Pinned:       true,
		OverriddenBy: strings.TrimSpace(in.By),
		OverriddenAt: &at,
	}
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		if _, err := s.molds.GetByID(txCtx, a.MoldID); err != nil {
			return err
		}
		backlog, err := s.queue.GetBacklog(txCtx)
		if err != nil {
			return err
		}
		o, ok := queued(backlog, a.OrderID)
		if !ok {
			return schedule.ErrOrderNotQueued
		}
		job := scheduling.Classify(o, s.opts.Policy)
		a.ModelID, a.Product = job.ModelID, job.Product
		return s.schedules.Override(txCtx, a)
	})
	if err != nil {
		return schedule.Assignment{}, err
	}
	s.log.WithFields(logrus.Fields{"order_id": a.OrderID, "mold_id": a.MoldID, "date": date.Format(time.DateOnly)}).
		Info("assignment overridden")
	s.publisher.Publish(schedule.OverriddenEvent{Assignment: a})
	return a, nil
}

func queued(orders []order.Order, id string) (order.Order, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return order.Order{}, false
}

func employees(settings []layupsetting.Setting) []scheduling.Employee {
	out := make([]scheduling.Employee, 0, len(settings))
	for _, st := range settings {
		out = append(out, scheduling.Employee{
			ID:     st.EmployeeID,
			Rate:   st.Rate,
			Hours:  st.Hours,
			Active: st.Active,
		})
	}
	return out
}

func dayDates(days []scheduling.WorkDay) []time.Time {
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = d.Date
	}
	return out
}

// emptyResult reports every job as unplaced without touching the calendar.
func emptyResult(snap *snapshot) *scheduling.Result {
	res := &scheduling.Result{
		Assignments:    map[string]schedule.Assignment{},
		DailyCapacity:  snap.catalog.DailyAggregateCapacity(),
		DailyLoad:      make([]int, snap.horizon.Len()),
		ModelDailyLoad: make([]int, snap.horizon.Len()),
		Horizon:        snap.horizon,
	}
	for _, j := range snap.jobs {
		res.Unassigned = append(res.Unassigned, scheduling.Unassigned{OrderID: j.OrderID, Reason: scheduling.ReasonHorizonExhausted})
	}
	return res
}

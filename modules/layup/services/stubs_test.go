package services

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/glennajones/gummy-bear/modules/hrm/domain/entities/layupsetting"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/order"
	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
	"github.com/glennajones/gummy-bear/pkg/composables"
)

var wednesday = time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

type fakeTx struct {
	pgx.Tx
}

func txContext() context.Context {
	return composables.WithTx(context.Background(), &fakeTx{})
}

type moldRepo struct {
	molds []mold.Mold
}

func (r *moldRepo) GetAll(ctx context.Context) ([]mold.Mold, error) {
	return append([]mold.Mold(nil), r.molds...), nil
}

func (r *moldRepo) GetByID(ctx context.Context, id string) (mold.Mold, error) {
	for _, m := range r.molds {
		if m.ID == id {
			return m, nil
		}
	}
	return mold.Mold{}, mold.ErrNotFound
}

func (r *moldRepo) Create(ctx context.Context, m mold.Mold) error {
	r.molds = append(r.molds, m)
	return nil
}

func (r *moldRepo) Update(ctx context.Context, m mold.Mold) error {
	for i := range r.molds {
		if r.molds[i].ID == m.ID {
			r.molds[i] = m
			return nil
		}
	}
	return mold.ErrNotFound
}

func (r *moldRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	for i := range r.molds {
		if r.molds[i].ID == id {
			r.molds[i].Enabled = enabled
			return nil
		}
	}
	return mold.ErrNotFound
}

type lopMark struct {
	OrderID string
	Date    time.Time
	At      time.Time
}

type queueRepo struct {
	orders []order.Order
	marked []lopMark
}

func (r *queueRepo) GetBacklog(ctx context.Context) ([]order.Order, error) {
	return append([]order.Order(nil), r.orders...), nil
}

func (r *queueRepo) MarkLOPScheduled(ctx context.Context, orderID string, date, at time.Time) error {
	r.marked = append(r.marked, lopMark{OrderID: orderID, Date: date, At: at})
	return nil
}

type replaceCall struct {
	From, To    time.Time
	Assignments []schedule.Assignment
}

type scheduleRepo struct {
	pinned    []schedule.Assignment
	replaced  []replaceCall
	overrides []schedule.Assignment
}

func (r *scheduleRepo) LoadPinned(ctx context.Context, from, to time.Time) ([]schedule.Assignment, error) {
	return r.pinned, nil
}

func (r *scheduleRepo) ListWindow(ctx context.Context, from, to time.Time) ([]schedule.Assignment, error) {
	var out []schedule.Assignment
	for _, a := range append(r.pinned, r.overrides...) {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *scheduleRepo) ReplaceWindow(ctx context.Context, from, to time.Time, assignments []schedule.Assignment) error {
	r.replaced = append(r.replaced, replaceCall{From: from, To: to, Assignments: assignments})
	return nil
}

func (r *scheduleRepo) Override(ctx context.Context, a schedule.Assignment) error {
	r.overrides = append(r.overrides, a)
	return nil
}

type staffSource struct {
	settings []layupsetting.Setting
}

func (s *staffSource) GetActive(ctx context.Context, department string) ([]layupsetting.Setting, error) {
	return s.settings, nil
}

func technicians(units int64) *staffSource {
	return &staffSource{settings: []layupsetting.Setting{{
		EmployeeID: "E1",
		Rate:       decimal.NewFromInt(units),
		Hours:      decimal.NewFromInt(1),
		Department: layupsetting.DefaultDepartment,
		Active:     true,
	}}}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []interface{}
}

func (p *recordingPublisher) Publish(args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, args...)
}
func (p *recordingPublisher) Subscribe(handler interface{})   {}
func (p *recordingPublisher) Unsubscribe(handler interface{}) {}
func (p *recordingPublisher) Clear()                          {}
func (p *recordingPublisher) SubscribersCount() int           { return 0 }

package scheduling

import (
	"math"
	"time"
)

type DayKind int

const (
	DayOff DayKind = iota
	DayPrimary
	DayBackup
)

func (k DayKind) String() string {
	switch k {
	case DayPrimary:
		return "primary"
	case DayBackup:
		return "backup"
	default:
		return "off"
	}
}

type WorkDay struct {
	Date time.Time `json:"date"`
	Kind DayKind   `json:"-"`
}

// Horizon is the ordered primary work-day sequence of one run.
type Horizon struct {
	Start  time.Time
	Weeks  int
	Days   []WorkDay
	backup []WorkDay
}

func (h Horizon) Len() int {
	return len(h.Days)
}

// Index returns the position of date in the primary sequence.
func (h Horizon) Index(date time.Time) (int, bool) {
	d := DateOf(date)
	for i, wd := range h.Days {
		if wd.Date.Equal(d) {
			return i, true
		}
	}
	return 0, false
}

// BackupDays lists the backup days inside the horizon. They are never used
// for automatic assignment.
func (h Horizon) BackupDays() []WorkDay {
	out := make([]WorkDay, len(h.backup))
	copy(out, h.backup)
	return out
}

// First and Last bound the horizon, backup days included.
func (h Horizon) First() time.Time {
	first := time.Time{}
	if len(h.Days) > 0 {
		first = h.Days[0].Date
	}
	if len(h.backup) > 0 && (first.IsZero() || h.backup[0].Date.Before(first)) {
		first = h.backup[0].Date
	}
	return first
}

func (h Horizon) Last() time.Time {
	last := time.Time{}
	if len(h.Days) > 0 {
		last = h.Days[len(h.Days)-1].Date
	}
	if len(h.backup) > 0 && h.backup[len(h.backup)-1].Date.After(last) {
		last = h.backup[len(h.backup)-1].Date
	}
	return last
}

type Calendar struct {
	policy Policy
}

func NewCalendar(p Policy) *Calendar {
	return &Calendar{policy: p}
}

func (c *Calendar) Classify(date time.Time) DayKind {
	wd := date.Weekday()
	switch {
	case c.policy.isPrimary(wd):
		return DayPrimary
	case wd == c.policy.BackupWeekday:
		return DayBackup
	default:
		return DayOff
	}
}

// Weeks sizes the horizon from the furthest due date among jobs, clamped to
// the policy bounds.
func (c *Calendar) Weeks(start time.Time, jobs []Job) int {
	start = DateOf(start)
	var maxDue time.Time
	for _, j := range jobs {
		if j.DueDate.IsZero() {
			continue
		}
		if due := DateOf(j.DueDate); due.After(maxDue) {
			maxDue = due
		}
	}
	weeks := 0
	if !maxDue.IsZero() && maxDue.After(start) {
		weeks = int(math.Ceil(maxDue.Sub(start).Hours() / (7 * 24)))
	}
	return min(max(weeks, c.policy.MinWeeks), c.policy.MaxWeeks)
}

// Horizon builds the work-day sequence starting at start. Week 0 is the week
// containing start, or the following one when no primary day remains in it
// on or after start; days before start are dropped.
func (c *Calendar) Horizon(start time.Time, jobs []Job) (Horizon, error) {
	start = DateOf(start)
	weeks := c.Weeks(start, jobs)
	h := Horizon{Start: start, Weeks: weeks}

	monday := MondayOf(start)
	if !c.primaryFrom(start, monday.AddDate(0, 0, 7)) {
		monday = monday.AddDate(0, 0, 7)
	}
	for w := 0; w < weeks; w++ {
		weekStart := monday.AddDate(0, 0, 7*w)
		for d := 0; d < 7; d++ {
			date := weekStart.AddDate(0, 0, d)
			if date.Before(start) {
				continue
			}
			switch kind := c.Classify(date); kind {
			case DayPrimary:
				h.Days = append(h.Days, WorkDay{Date: date, Kind: kind})
			case DayBackup:
				h.backup = append(h.backup, WorkDay{Date: date, Kind: kind})
			}
		}
	}
	if len(h.Days) == 0 {
		return h, ErrEmptyHorizon
	}
	return h, nil
}

// primaryFrom reports whether a primary day falls in [from, until).
func (c *Calendar) primaryFrom(from, until time.Time) bool {
	for d := from; d.Before(until); d = d.AddDate(0, 0, 1) {
		if c.policy.isPrimary(d.Weekday()) {
			return true
		}
	}
	return false
}

// DateOf truncates t to a UTC calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func MondayOf(t time.Time) time.Time {
	d := DateOf(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// NextWeekday returns the first date at or after from falling on wd.
func NextWeekday(from time.Time, wd time.Weekday) time.Time {
	d := DateOf(from)
	offset := (int(wd) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

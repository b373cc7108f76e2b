package scheduling

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/schedule"
)

type AllocationInput struct {
	Jobs    []Job
	Catalog *Catalog
	Horizon Horizon
	// Pinned assignments are kept as they are and block their cells.
	Pinned []schedule.Assignment
	Policy Policy
}

// Allocate runs one greedy pass over the jobs. It performs no I/O and keeps
// all state in a fresh AllocationRun, so concurrent calls are independent.
func Allocate(in AllocationInput) (*Result, error) {
	if len(in.Jobs) == 0 {
		return nil, ErrEmptyBacklog
	}
	if in.Catalog == nil {
		return nil, ErrNoCatalog
	}
	if in.Horizon.Len() == 0 {
		return nil, ErrEmptyHorizon
	}
	if err := in.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPolicy, err.Error())
	}

	run := newAllocationRun(in)
	pinned := run.preload(in.Pinned, in.Jobs)
	for _, job := range SortJobs(in.Jobs) {
		if pinned[job.OrderID] {
			continue
		}
		run.place(job)
	}
	return run.finish(), nil
}

// SortJobs orders jobs for allocation: limited model class first, then
// priority, then due date. Remaining ties keep input order.
func SortJobs(jobs []Job) []Job {
	out := slices.Clone(jobs)
	slices.SortStableFunc(out, func(a, b Job) int {
		if a.Limited != b.Limited {
			if a.Limited {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.Priority, b.Priority); c != 0 {
			return c
		}
		return a.DueDate.Compare(b.DueDate)
	})
	return out
}

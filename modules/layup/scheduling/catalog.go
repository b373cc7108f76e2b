package scheduling

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
)

// Employee is the capacity view of one layup technician.
type Employee struct {
	ID     string
	Rate   decimal.Decimal
	Hours  decimal.Decimal
	Active bool
}

// Catalog is an immutable snapshot of molds and staff for one run.
type Catalog struct {
	molds     []mold.Mold
	employees []Employee
	byID      map[string]int
	capacity  int
}

func NewCatalog(molds []mold.Mold, employees []Employee) *Catalog {
	c := &Catalog{
		molds:     make([]mold.Mold, len(molds)),
		employees: slices.Clone(employees),
		byID:      make(map[string]int, len(molds)),
	}
	for i, m := range molds {
		m.StockModels = slices.Clone(m.StockModels)
		c.molds[i] = m
		if _, dup := c.byID[m.ID]; !dup {
			c.byID[m.ID] = i
		}
	}
	c.capacity = aggregateCapacity(employees)
	return c
}

// aggregateCapacity is floor(sum(rate*hours)) over active employees.
// Non-positive contributions are ignored.
func aggregateCapacity(employees []Employee) int {
	total := decimal.Zero
	for _, e := range employees {
		if !e.Active {
			continue
		}
		units := e.Rate.Mul(e.Hours)
		if units.IsPositive() {
			total = total.Add(units)
		}
	}
	return int(total.Floor().IntPart())
}

func (c *Catalog) DailyAggregateCapacity() int {
	return c.capacity
}

func (c *Catalog) Molds() []mold.Mold {
	out := make([]mold.Mold, len(c.molds))
	copy(out, c.molds)
	return out
}

func (c *Catalog) Mold(id string) (mold.Mold, bool) {
	i, ok := c.byID[id]
	if !ok {
		return mold.Mold{}, false
	}
	return c.molds[i], true
}

// CompatibleMolds lists the enabled molds able to lay up modelID, in catalog order.
func (c *Catalog) CompatibleMolds(modelID string) []mold.Mold {
	var out []mold.Mold
	for _, m := range c.molds {
		if m.Enabled && m.Supports(modelID) {
			out = append(out, m)
		}
	}
	return out
}

// EnabledMolds lists the molds eligible for automatic assignment.
func (c *Catalog) EnabledMolds() []mold.Mold {
	var out []mold.Mold
	for _, m := range c.molds {
		if m.Enabled {
			out = append(out, m)
		}
	}
	return out
}

package scheduling

import (
	"strings"
	"time"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/order"
)

// Job is an order annotated for allocation.
type Job struct {
	OrderID            string
	ModelID            string
	Product            string
	Source             order.Source
	Priority           int
	DueDate            time.Time
	OrderDate          time.Time
	Limited            bool
	Features           order.Features
	PriorityChangedAt  *time.Time
	LastLOPScheduledAt *time.Time
}

// Classify resolves an order's model, priority, due date and model class.
func Classify(o order.Order, p Policy) Job {
	model := resolveModel(o)
	priority := p.DefaultPriority
	if o.PriorityScore != nil {
		priority = *o.PriorityScore
	}
	due := o.OrderDate
	if o.DueDate != nil && !o.DueDate.IsZero() {
		due = *o.DueDate
	}
	return Job{
		OrderID:            o.ID,
		ModelID:            model,
		Product:            strings.TrimSpace(o.Product),
		Source:             o.Source,
		Priority:           priority,
		DueDate:            due,
		OrderDate:          o.OrderDate,
		Limited:            p.IsLimited(model, o.Product),
		Features:           o.Features,
		PriorityChangedAt:  o.PriorityChangedAt,
		LastLOPScheduledAt: o.LastLOPScheduledAt,
	}
}

func ClassifyAll(orders []order.Order, p Policy) []Job {
	jobs := make([]Job, len(orders))
	for i, o := range orders {
		jobs[i] = Classify(o, p)
	}
	return jobs
}

// resolveModel picks the stock model id used for mold compatibility.
// Production and purchase orders carry the model in Product; regular orders
// carry it in StockModelID, with Mesa inlets implying the Mesa universal model.
func resolveModel(o order.Order) string {
	stock := strings.TrimSpace(o.StockModelID)
	product := strings.TrimSpace(o.Product)
	if !o.Source.IsStandard() {
		return firstNonEmpty(product, stock)
	}
	if stock != "" {
		return stock
	}
	if o.Features.ActionInlet == MesaActionInlet {
		return MesaUniversalModel
	}
	return product
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

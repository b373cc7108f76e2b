package order

import "time"

// Source names the pipeline an order entered through.
type Source string

const (
	SourceMainOrders          Source = "main_orders"
	SourceProductionOrder     Source = "production_order"
	SourceP1PurchaseOrder     Source = "p1_purchase_order"
	SourceMesaProductionOrder Source = "mesa_production_order"
)

// IsStandard reports whether the order came from the regular order flow,
// where the stock model id is authoritative.
func (s Source) IsStandard() bool {
	return s == "" || s == SourceMainOrders
}

type Order struct {
	ID                 string     `json:"order_id"`
	StockModelID       string     `json:"stock_model_id"`
	Product            string     `json:"product,omitempty"`
	Source             Source     `json:"source"`
	OrderDate          time.Time  `json:"order_date"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	PriorityScore      *int       `json:"priority_score,omitempty"`
	Features           Features   `json:"features"`
	PriorityChangedAt  *time.Time `json:"priority_changed_at,omitempty"`
	LastLOPScheduledAt *time.Time `json:"last_lop_scheduled_at,omitempty"`
}

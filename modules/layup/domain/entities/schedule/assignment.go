package schedule

import "time"

// Assignment places one order on one mold for one work day. ModelID and
// Product are recorded on overrides so a pin keeps its model class after
// the order leaves the queue.
type Assignment struct {
	OrderID      string     `json:"order_id"`
	MoldID       string     `json:"mold_id"`
	Date         time.Time  `json:"date"`
	Pinned       bool       `json:"pinned"`
	ModelID      string     `json:"model_id,omitempty"`
	Product      string     `json:"product,omitempty"`
	OverriddenBy string     `json:"overridden_by,omitempty"`
	OverriddenAt *time.Time `json:"overridden_at,omitempty"`
}

package dtos

import (
	"strings"
	"time"

	"github.com/glennajones/gummy-bear/modules/layup/domain/entities/mold"
	"github.com/glennajones/gummy-bear/pkg/constants"
)

type GenerateScheduleDTO struct {
	Start string `json:"start" validate:"omitempty,datetime=2006-01-02"`
	Apply bool   `json:"apply"`
}

// StartDate is the parsed start day, zero when unset.
func (d GenerateScheduleDTO) StartDate() time.Time {
	return parseDate(d.Start)
}

type OverrideDTO struct {
	OrderID string `json:"order_id" validate:"required,max=64"`
	MoldID  string `json:"mold_id" validate:"required,max=64"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	By      string `json:"overridden_by" validate:"max=128"`
}

func (d OverrideDTO) ParsedDate() time.Time {
	return parseDate(d.Date)
}

type CreateMoldDTO struct {
	ID             string   `json:"mold_id" validate:"required,max=64"`
	ModelName      string   `json:"model_name" validate:"required,max=128"`
	InstanceNumber int      `json:"instance_number" validate:"gte=0"`
	Enabled        *bool    `json:"enabled"`
	StockModels    []string `json:"stock_models" validate:"dive,max=128"`
	Multiplier     int      `json:"multiplier" validate:"omitempty,min=1,max=24"`
}

func (d CreateMoldDTO) ToEntity() mold.Mold {
	enabled := true
	if d.Enabled != nil {
		enabled = *d.Enabled
	}
	return mold.Mold{
		ID:             strings.TrimSpace(d.ID),
		ModelName:      strings.TrimSpace(d.ModelName),
		InstanceNumber: d.InstanceNumber,
		Enabled:        enabled,
		StockModels:    d.StockModels,
		Multiplier:     d.Multiplier,
	}
}

type UpdateMoldDTO struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func parseDate(raw string) time.Time {
	t, err := time.Parse(constants.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}
	}
	return t
}

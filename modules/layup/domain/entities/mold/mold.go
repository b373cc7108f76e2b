package mold

import (
	"slices"
	"strconv"
	"strings"
)

type Mold struct {
	ID             string   `json:"mold_id"`
	ModelName      string   `json:"model_name"`
	InstanceNumber int      `json:"instance_number"`
	Enabled        bool     `json:"enabled"`
	StockModels    []string `json:"stock_models"`
	Multiplier     int      `json:"multiplier"`
}

// Supports reports whether the mold can lay up modelID. A mold with no
// stock model list is universal.
func (m Mold) Supports(modelID string) bool {
	if modelID == "" {
		return false
	}
	if len(m.StockModels) == 0 {
		return true
	}
	return slices.Contains(m.StockModels, modelID)
}

// SlotsPerDay is the number of units the mold produces per work day.
func (m Mold) SlotsPerDay() int {
	if m.Multiplier < 1 {
		return 1
	}
	return m.Multiplier
}

// DisplayName renders "<model> #<instance>".
func (m Mold) DisplayName() string {
	name := strings.TrimSpace(m.ModelName)
	if name == "" {
		name = m.ID
	}
	if m.InstanceNumber > 0 {
		return name + " #" + strconv.Itoa(m.InstanceNumber)
	}
	return name
}

package order

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	FeatureLengthOfPull = "length_of_pull"
	FeatureActionLength = "action_length"
	FeatureActionInlet  = "action_inlet"
	FeatureHeavyFill    = "heavy_fill"
)

// Features is the typed view of an order's feature bag. Only the keys the
// scheduler reads are decoded; everything else stays in Raw.
type Features struct {
	LengthOfPull string         `json:"length_of_pull,omitempty"`
	ActionLength string         `json:"action_length,omitempty"`
	ActionInlet  string         `json:"action_inlet,omitempty"`
	HeavyFill    bool           `json:"heavy_fill,omitempty"`
	Raw          map[string]any `json:"-"`
}

// DecodeFeatures reads the known keys from a raw bag. Values of the wrong
// type decode to their zero value.
func DecodeFeatures(raw map[string]any) Features {
	f := Features{Raw: raw}
	if raw == nil {
		return f
	}
	f.LengthOfPull = stringValue(raw[FeatureLengthOfPull])
	f.ActionLength = stringValue(raw[FeatureActionLength])
	f.ActionInlet = stringValue(raw[FeatureActionInlet])
	f.HeavyFill = boolValue(raw[FeatureHeavyFill])
	return f
}

// ParseFeatures decodes a JSON feature document. Malformed documents yield
// empty features.
func ParseFeatures(data []byte) Features {
	if len(data) == 0 {
		return Features{}
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Features{}
	}
	return DecodeFeatures(raw)
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSpace(fmt.Sprint(t))
	default:
		return ""
	}
}

func boolValue(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

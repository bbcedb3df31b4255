package ssrm

import (
	"encoding/json"
	"strconv"
)

// Filter type families.
const (
	FilterText   = "text"
	FilterNumber = "number"
	FilterDate   = "date"
	FilterSet    = "set"
)

// FilterSpec is the closed-world reading of one filterModel entry. The wire
// payload is open-shaped; anything that does not match a known variant is
// treated as absent rather than coerced.
type FilterSpec struct {
	Type     string
	Operator string
	Value    string
	ValueTo  string
	DateFrom string
	DateTo   string
	Values   []string

	valid bool
}

// Valid reports whether the entry parsed into a known variant.
func (f FilterSpec) Valid() bool { return f.valid }

type rawFilter struct {
	FilterType string `json:"filterType"`
	Type       string `json:"type"`
	Filter     any    `json:"filter"`
	FilterTo   any    `json:"filterTo"`
	DateFrom   string `json:"dateFrom"`
	DateTo     string `json:"dateTo"`
	Values     []any  `json:"values"`
}

func (f *FilterSpec) UnmarshalJSON(data []byte) error {
	*f = FilterSpec{}

	var raw rawFilter
	if err := json.Unmarshal(data, &raw); err != nil {
		// malformed entry: absent, never an error for the whole request
		return nil
	}

	spec := FilterSpec{
		Type:     raw.FilterType,
		Operator: raw.Type,
		Value:    scalarString(raw.Filter),
		ValueTo:  scalarString(raw.FilterTo),
		DateFrom: raw.DateFrom,
		DateTo:   raw.DateTo,
		valid:    true,
	}
	if spec.Type == "" {
		spec.Type = FilterText
	}

	switch spec.Type {
	case FilterSet:
		for _, v := range raw.Values {
			if s, ok := v.(string); ok {
				spec.Values = append(spec.Values, s)
			}
		}
	case FilterText, FilterNumber, FilterDate:
		// scalar families, nothing extra to pull
	default:
		// unknown family: treat as absent
		return nil
	}

	*f = spec
	return nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	}
	return ""
}

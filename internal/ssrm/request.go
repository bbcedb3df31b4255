package ssrm

import (
	"encoding/json"
	"time"

	"backend/internal/domain"
	"backend/internal/utils"
)

const (
	// MaxPageSize clamps the window a single grid block may request.
	MaxPageSize = 500
	// MaxSortEntries caps how many sortModel entries are honored.
	MaxSortEntries = 5
	// MaxDateRangeDays bounds worst-case query cost (~36 months).
	MaxDateRangeDays = 1100
)

type SortEntry struct {
	ColID string `json:"colId"`
	Sort  string `json:"sort"`
}

// PageRequest is the SSRM body shared by every grid endpoint. Query carries
// entity-specific scalar filters and is decoded by each entity config.
type PageRequest struct {
	StartRow    int64                 `json:"startRow"`
	EndRow      int64                 `json:"endRow"`
	SortModel   []SortEntry           `json:"sortModel"`
	FilterModel map[string]FilterSpec `json:"filterModel"`
	Query       json.RawMessage       `json:"query"`
	ScopeQuery  map[string]string     `json:"scopeQuery"`
}

// Window is the validated pagination slice.
type Window struct {
	Take   int64
	Offset int64
}

// Validate checks row bounds and derives the effective window. All
// violations are reported together.
func (r PageRequest) Validate() (Window, error) {
	details := map[string]string{}
	if r.StartRow < 0 {
		details["startRow"] = "must be >= 0"
	}
	if r.EndRow <= r.StartRow {
		details["endRow"] = "must be greater than startRow"
	}
	if len(details) > 0 {
		return Window{}, domain.ValidationError{Msg: "invalid page request", Details: details}
	}

	take := r.EndRow - r.StartRow
	if take > MaxPageSize {
		take = MaxPageSize
	}
	if take < 1 {
		take = 1
	}
	return Window{Take: take, Offset: r.StartRow}, nil
}

// ValidateDateRange parses an optional YYYY-MM-DD window. The end bound is
// expanded to the last millisecond of its day so the range is inclusive.
// Returns nil bounds for empty inputs; one-sided windows are allowed.
func ValidateDateRange(startDate, endDate string) (*time.Time, *time.Time, error) {
	var (
		from, to *time.Time
		details  = map[string]string{}
	)

	if startDate != "" {
		t, err := utils.ParseDateUTC(startDate)
		if err != nil {
			details["startDate"] = "must be YYYY-MM-DD"
		} else {
			from = &t
		}
	}
	if endDate != "" {
		t, err := utils.ParseDateUTC(endDate)
		if err != nil {
			details["endDate"] = "must be YYYY-MM-DD"
		} else {
			eod := utils.EndOfDayUTC(t)
			to = &eod
		}
	}
	if len(details) > 0 {
		return nil, nil, domain.ValidationError{Msg: "invalid date filter", Details: details}
	}

	if from != nil && to != nil {
		if from.After(*to) {
			return nil, nil, domain.ValidationError{
				Msg:     "invalid date range",
				Details: map[string]string{"startDate": "must not be after endDate"},
			}
		}
		if to.Sub(*from) > time.Duration(MaxDateRangeDays)*24*time.Hour {
			return nil, nil, domain.ValidationError{
				Msg:     "date range too large",
				Details: map[string]string{"endDate": "range must not exceed 1100 days"},
			}
		}
	}
	return from, to, nil
}

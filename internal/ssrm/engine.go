package ssrm

import (
	"context"
	"database/sql"
	"strings"

	"backend/internal/auth"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/utils"
)

// Engine runs one SSRM request for one entity. Everything here is a static,
// compile-time configuration; the only per-request inputs are the validated
// PageRequest, the resolved scope, and the entity's scalar predicates.
type Engine struct {
	DB       *sql.DB
	Table    string
	Registry Registry
	// SelectCols is the trusted projection list for the rows query.
	SelectCols   string
	DefaultOrder []SortEntry
	// OrgCol / BranchCol are the physical tenancy column names, used both
	// for capability probing and for the scope predicate.
	OrgCol    string
	BranchCol string
	// StrictFields rejects unknown filter fields instead of dropping them.
	StrictFields bool
	MapRow       RowMapper
}

// Run validates, compiles, scopes, and executes the request.
// extra, when non-nil, contributes the entity's scalar query predicates and
// runs before the mandatory scope predicate is appended.
func (e Engine) Run(ctx context.Context, req PageRequest, scope auth.TenantScope, extra func(*Builder) error) (Page, error) {
	win, err := req.Validate()
	if err != nil {
		return Page{}, err
	}

	b := NewBuilder()
	if extra != nil {
		if err := extra(b); err != nil {
			return Page{}, err
		}
	}

	unknown, unusable := ApplyFilters(b, e.Registry, req.FilterModel)
	if e.StrictFields && len(unknown) > 0 {
		details := map[string]string{}
		for _, f := range unknown {
			details[f] = "unknown filter field"
		}
		return Page{}, domain.ValidationError{Msg: "unknown filter fields", Details: details}
	}
	// malformed values on registered fields are a per-field drop even in
	// strict mode; only the drop itself is surfaced, in the log
	if dropped := append(unknown, unusable...); len(dropped) > 0 {
		utils.LogEvent("", "ssrm", "filter_dropped", e.Table+": "+strings.Join(dropped, ","))
	}

	caps := SchemaCapability{
		HasOrgColumn:    intdb.HasColumn(e.DB, e.Table, e.OrgCol),
		HasBranchColumn: intdb.HasColumn(e.DB, e.Table, e.BranchCol),
	}
	if err := ApplyScope(b, scope, caps, e.Table, TrustedColumn(e.OrgCol), TrustedColumn(e.BranchCol)); err != nil {
		return Page{}, err
	}

	orderBy := ApplySort(e.Registry, req.SortModel, e.DefaultOrder)
	page, err := runQueries(ctx, e.DB, e.SelectCols, e.Table, b, orderBy, win, e.MapRow)
	if err != nil {
		return Page{}, domain.InternalError{Msg: "grid query failed", Err: err}
	}
	return page, nil
}

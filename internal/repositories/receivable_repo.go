package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"backend/internal/auth"
	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/ssrm"
)

// ReceivableRepo backs the receivables audit grid over audit_titulos. Same
// engine as the cash-flow grid, different column set: the per-entity part is
// only this configuration.
type ReceivableRepo struct {
	DB     *sql.DB
	Strict bool
}

func (r ReceivableRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const receivableTable = "audit_titulos"

var receivableRegistry = ssrm.Registry{
	"id":        "id",
	"runId":     "run_id",
	"dueDate":   "due_date",
	"issueDate": "issue_date",
	"status":    "status",
	"cliente":   "cliente",
	"documento": "documento",
	"valor":     "valor",
	"branchId":  "branch_id",
}

const receivableSelect = "id, run_id, due_date, issue_date, status, cliente, documento, valor, branch_id"

var receivableDefaultOrder = []ssrm.SortEntry{
	{ColID: "dueDate", Sort: "desc"},
	{ColID: "id", Sort: "desc"},
}

type ReceivableQuery struct {
	RunID     int64  `json:"runId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	DateField string `json:"dateField"`
	Status    string `json:"status"`
}

func (r ReceivableRepo) engine() ssrm.Engine {
	return ssrm.Engine{
		DB:           r.db(),
		Table:        receivableTable,
		Registry:     receivableRegistry,
		SelectCols:   receivableSelect,
		DefaultOrder: receivableDefaultOrder,
		OrgCol:       "org_id",
		BranchCol:    "branch_id",
		StrictFields: r.Strict,
		MapRow:       mapReceivableRow,
	}
}

// Page serves one SSRM block for the receivables audit grid.
func (r ReceivableRepo) Page(ctx context.Context, req ssrm.PageRequest, scope auth.TenantScope) (ssrm.Page, error) {
	var q ReceivableQuery
	if len(req.Query) > 0 {
		if err := json.Unmarshal(req.Query, &q); err != nil {
			return ssrm.Page{}, domain.ValidationError{Field: "query", Msg: "malformed query block", Err: err}
		}
	}

	dateField := "dueDate"
	switch q.DateField {
	case "", "DUE":
	case "ISSUE":
		dateField = "issueDate"
	default:
		return ssrm.Page{}, domain.ValidationError{
			Msg:     "invalid query",
			Details: map[string]string{"dateField": "must be DUE or ISSUE"},
		}
	}
	if q.RunID < 0 {
		return ssrm.Page{}, domain.ValidationError{
			Msg:     "invalid query",
			Details: map[string]string{"runId": "must be >= 0"},
		}
	}

	from, to, err := ssrm.ValidateDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return ssrm.Page{}, err
	}

	return r.engine().Run(ctx, req, scope, func(b *ssrm.Builder) error {
		dateCol, _ := receivableRegistry.Lookup(dateField)

		if q.RunID > 0 {
			col, _ := receivableRegistry.Lookup("runId")
			b.Compare(col, ssrm.OpEq, q.RunID)
		}
		if q.Status != "" {
			col, _ := receivableRegistry.Lookup("status")
			b.Compare(col, ssrm.OpEq, q.Status)
		}

		switch {
		case from != nil && to != nil:
			b.Between(dateCol, *from, *to)
		case from != nil:
			b.Compare(dateCol, ssrm.OpGe, *from)
		case to != nil:
			b.Compare(dateCol, ssrm.OpLe, *to)
		}
		return nil
	})
}

func mapReceivableRow(rows *sql.Rows) (map[string]any, error) {
	var (
		id, runID, branch sql.NullInt64
		due, issue        sql.NullTime
		status, cliente   sql.NullString
		documento         sql.NullString
		valor             sql.NullFloat64
	)
	if err := rows.Scan(
		&id,
		&runID,
		&due,
		&issue,
		&status,
		&cliente,
		&documento,
		&valor,
		&branch,
	); err != nil {
		return nil, err
	}

	return map[string]any{
		"id":        nullInt(id),
		"runId":     nullInt(runID),
		"dueDate":   nullTime(due),
		"issueDate": nullTime(issue),
		"status":    nullString(status),
		"cliente":   nullString(cliente),
		"documento": nullString(documento),
		"valor":     nullFloat(valor),
		"branchId":  nullInt(branch),
	}, nil
}

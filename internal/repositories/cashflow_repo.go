package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"backend/internal/auth"
	intconfig "backend/internal/config"
	"backend/internal/domain"
	"backend/internal/ssrm"
	"backend/internal/utils"
)

// CashflowRepo backs the cash-flow audit grid over audit_caixa. One audit
// run snapshots the expected vs. booked cash position per account; the grid
// pages through the divergence rows.
type CashflowRepo struct {
	DB     *sql.DB
	Strict bool
}

func (r CashflowRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const cashflowTable = "audit_caixa"

var cashflowRegistry = ssrm.Registry{
	"id":            "id",
	"runId":         "run_id",
	"snapshotDate":  "snapshot_date",
	"dataDate":      "data_date",
	"statusCaixa":   "status_caixa",
	"conta":         "conta",
	"documento":     "documento",
	"descricao":     "descricao",
	"valorEsperado": "valor_esperado",
	"valorReal":     "valor_real",
	"diferenca":     "diferenca",
	"branchId":      "branch_id",
}

const cashflowSelect = "id, run_id, snapshot_date, data_date, status_caixa, conta, documento, descricao, valor_esperado, valor_real, diferenca, branch_id"

var cashflowDefaultOrder = []ssrm.SortEntry{
	{ColID: "snapshotDate", Sort: "desc"},
	{ColID: "id", Sort: "desc"},
}

// CashflowQuery is the entity-specific scalar filter block.
type CashflowQuery struct {
	RunID     int64  `json:"runId"`
	SinceDays int64  `json:"sinceDays"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	DateField string `json:"dateField"`
	Status    string `json:"status"`
}

func (r CashflowRepo) engine() ssrm.Engine {
	return ssrm.Engine{
		DB:           r.db(),
		Table:        cashflowTable,
		Registry:     cashflowRegistry,
		SelectCols:   cashflowSelect,
		DefaultOrder: cashflowDefaultOrder,
		OrgCol:       "org_id",
		BranchCol:    "branch_id",
		StrictFields: r.Strict,
		MapRow:       mapCashflowRow,
	}
}

// Page serves one SSRM block for the cash-flow audit grid.
func (r CashflowRepo) Page(ctx context.Context, req ssrm.PageRequest, scope auth.TenantScope) (ssrm.Page, error) {
	var q CashflowQuery
	if len(req.Query) > 0 {
		if err := json.Unmarshal(req.Query, &q); err != nil {
			return ssrm.Page{}, domain.ValidationError{Field: "query", Msg: "malformed query block", Err: err}
		}
	}

	dateField := "snapshotDate"
	switch q.DateField {
	case "", "SNAPSHOT":
	case "DATA":
		dateField = "dataDate"
	default:
		return ssrm.Page{}, domain.ValidationError{
			Msg:     "invalid query",
			Details: map[string]string{"dateField": "must be SNAPSHOT or DATA"},
		}
	}
	if q.RunID < 0 {
		return ssrm.Page{}, domain.ValidationError{
			Msg:     "invalid query",
			Details: map[string]string{"runId": "must be >= 0"},
		}
	}
	if q.SinceDays < 0 {
		return ssrm.Page{}, domain.ValidationError{
			Msg:     "invalid query",
			Details: map[string]string{"sinceDays": "must be >= 0"},
		}
	}

	from, to, err := ssrm.ValidateDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return ssrm.Page{}, err
	}

	return r.engine().Run(ctx, req, scope, func(b *ssrm.Builder) error {
		dateCol, _ := cashflowRegistry.Lookup(dateField)

		if q.RunID > 0 {
			col, _ := cashflowRegistry.Lookup("runId")
			b.Compare(col, ssrm.OpEq, q.RunID)
		}
		if q.Status != "" {
			col, _ := cashflowRegistry.Lookup("statusCaixa")
			b.Compare(col, ssrm.OpEq, q.Status)
		}

		switch {
		case from != nil && to != nil:
			b.Between(dateCol, *from, *to)
		case from != nil:
			b.Compare(dateCol, ssrm.OpGe, *from)
		case to != nil:
			b.Compare(dateCol, ssrm.OpLe, *to)
		case q.SinceDays > 0:
			since := utils.NowUTC().AddDate(0, 0, -int(q.SinceDays))
			b.Compare(dateCol, ssrm.OpGe, since)
		}
		return nil
	})
}

func mapCashflowRow(rows *sql.Rows) (map[string]any, error) {
	var (
		id, runID, branch         sql.NullInt64
		snapshot, data            sql.NullTime
		status, conta             sql.NullString
		documento, descricao      sql.NullString
		esperado, realizado, diff sql.NullFloat64
	)
	if err := rows.Scan(
		&id,
		&runID,
		&snapshot,
		&data,
		&status,
		&conta,
		&documento,
		&descricao,
		&esperado,
		&realizado,
		&diff,
		&branch,
	); err != nil {
		return nil, err
	}

	return map[string]any{
		"id":            nullInt(id),
		"runId":         nullInt(runID),
		"snapshotDate":  nullTime(snapshot),
		"dataDate":      nullTime(data),
		"statusCaixa":   nullString(status),
		"conta":         nullString(conta),
		"documento":     nullString(documento),
		"descricao":     nullString(descricao),
		"valorEsperado": nullFloat(esperado),
		"valorReal":     nullFloat(realizado),
		"diferenca":     nullFloat(diff),
		"branchId":      nullInt(branch),
	}, nil
}

func nullInt(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

func nullFloat(v sql.NullFloat64) any {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func nullString(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

func nullTime(v sql.NullTime) any {
	if !v.Valid {
		return nil
	}
	return v.Time.UTC().Format(time.RFC3339)
}

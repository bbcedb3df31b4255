package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"backend/internal/auth"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/ssrm"

	"github.com/DATA-DOG/go-sqlmock"
)

func int64p(v int64) *int64 { return &v }

func expectTenancyProbes(mock sqlmock.Sqlmock, hasOrg, hasBranch bool) {
	orgRows := sqlmock.NewRows([]string{"column_name"})
	if hasOrg {
		orgRows.AddRow("org_id")
	}
	mock.ExpectQuery(`information_schema\.columns`).WithArgs("audit_caixa", "org_id").
		WillReturnRows(orgRows)

	branchRows := sqlmock.NewRows([]string{"column_name"})
	if hasBranch {
		branchRows.AddRow("branch_id")
	}
	mock.ExpectQuery(`information_schema\.columns`).WithArgs("audit_caixa", "branch_id").
		WillReturnRows(branchRows)
}

func TestCashflowPageAdminScenario(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intdb.ResetCapabilityCache()
	mock.MatchExpectationsInOrder(false)

	expectTenancyProbes(mock, true, true)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 999*int(time.Millisecond), time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_caixa WHERE snapshot_date BETWEEN \? AND \? AND status_caixa = \? AND \(\? IS NULL OR org_id = \?\)`).
		WithArgs(from, to, "OPEN", int64(1), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(87))

	rowCols := []string{"id", "run_id", "snapshot_date", "data_date", "status_caixa", "conta", "documento", "descricao", "valor_esperado", "valor_real", "diferenca", "branch_id"}
	mock.ExpectQuery(`SELECT id, run_id, snapshot_date, data_date, status_caixa, conta, documento, descricao, valor_esperado, valor_real, diferenca, branch_id FROM audit_caixa WHERE .+ ORDER BY snapshot_date DESC, id DESC LIMIT \? OFFSET \?`).
		WithArgs(from, to, "OPEN", int64(1), int64(1), int64(50), int64(0)).
		WillReturnRows(sqlmock.NewRows(rowCols).
			AddRow(int64(10), int64(3), time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC), time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), "OPEN", "1.01", "DOC-1", "saldo inicial", 1500.50, 1480.00, -20.50, int64(2)).
			AddRow(int64(11), int64(3), time.Date(2024, 1, 16, 8, 30, 0, 0, time.UTC), nil, "OPEN", "1.02", nil, nil, 200.0, 200.0, 0.0, int64(5)))

	req := ssrm.PageRequest{
		StartRow: 0,
		EndRow:   50,
		Query:    json.RawMessage(`{"startDate":"2024-01-01","endDate":"2024-01-31"}`),
	}
	if err := json.Unmarshal([]byte(`{"statusCaixa":{"filterType":"text","type":"equals","filter":"OPEN"}}`), &req.FilterModel); err != nil {
		t.Fatalf("filter model parse error: %v", err)
	}

	scope := auth.TenantScope{OrganizationID: int64p(1), IsAdmin: true}
	page, err := CashflowRepo{DB: db}.Page(context.Background(), req, scope)
	if err != nil {
		t.Fatalf("page error: %v", err)
	}

	if page.LastRow != 87 {
		t.Fatalf("lastRow should be the full matching count, got %d", page.LastRow)
	}
	if len(page.Rows) != 2 {
		t.Fatalf("rows wrong: %d", len(page.Rows))
	}
	if page.Rows[0]["statusCaixa"] != "OPEN" {
		t.Fatalf("row mapping wrong: %v", page.Rows[0])
	}
	if page.Rows[1]["dataDate"] != nil {
		t.Fatalf("absent value should map to nil, got %v", page.Rows[1]["dataDate"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCashflowPageEmptyBranchAuthorizationReturnsEmptyPage(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intdb.ResetCapabilityCache()
	mock.MatchExpectationsInOrder(false)

	expectTenancyProbes(mock, true, true)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_caixa WHERE \(\? IS NULL OR org_id = \?\) AND 1 = 0`).
		WithArgs(int64(1), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM audit_caixa WHERE \(\? IS NULL OR org_id = \?\) AND 1 = 0`).
		WithArgs(int64(1), int64(1), int64(50), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := ssrm.PageRequest{StartRow: 0, EndRow: 50}
	scope := auth.TenantScope{OrganizationID: int64p(1), AllowedBranches: nil}

	page, err := CashflowRepo{DB: db}.Page(context.Background(), req, scope)
	if err != nil {
		t.Fatalf("expected empty page, not error: %v", err)
	}
	if len(page.Rows) != 0 || page.LastRow != 0 {
		t.Fatalf("expected rows=[] lastRow=0, got %d/%d", len(page.Rows), page.LastRow)
	}
}

func TestCashflowPageSchemaNotReady(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intdb.ResetCapabilityCache()
	mock.MatchExpectationsInOrder(false)

	expectTenancyProbes(mock, false, false)

	req := ssrm.PageRequest{StartRow: 0, EndRow: 50}
	scope := auth.TenantScope{OrganizationID: int64p(1)}

	_, err = CashflowRepo{DB: db}.Page(context.Background(), req, scope)
	if !domain.IsSchemaNotReady(err) {
		t.Fatalf("expected schema-not-ready, got %v", err)
	}
}

func TestCashflowPageStrictRejectsUnknownFilterField(t *testing.T) {
	req := ssrm.PageRequest{StartRow: 0, EndRow: 50}
	if err := json.Unmarshal([]byte(`{"nope":{"filterType":"text","type":"equals","filter":"x"}}`), &req.FilterModel); err != nil {
		t.Fatalf("filter model parse error: %v", err)
	}

	_, err := CashflowRepo{Strict: true}.Page(context.Background(), req, auth.TenantScope{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if domain.ValidationDetails(err)["nope"] == "" {
		t.Fatalf("expected per-field detail, got %v", domain.ValidationDetails(err))
	}
}

func TestCashflowPageStrictDropsMalformedValueOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intdb.ResetCapabilityCache()
	mock.MatchExpectationsInOrder(false)

	expectTenancyProbes(mock, true, true)

	// the registered field with an unparsable value is dropped, not rejected,
	// so only the scope predicate reaches the query
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_caixa WHERE \(\? IS NULL OR org_id = \?\)`).
		WithArgs(int64(1), int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM audit_caixa WHERE \(\? IS NULL OR org_id = \?\) ORDER BY snapshot_date DESC, id DESC LIMIT \? OFFSET \?`).
		WithArgs(int64(1), int64(1), int64(50), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := ssrm.PageRequest{StartRow: 0, EndRow: 50}
	if err := json.Unmarshal([]byte(`{"snapshotDate":{"filterType":"date","type":"equals","dateFrom":"not-a-date"}}`), &req.FilterModel); err != nil {
		t.Fatalf("filter model parse error: %v", err)
	}

	scope := auth.TenantScope{OrganizationID: int64p(1), IsAdmin: true}
	page, err := CashflowRepo{DB: db, Strict: true}.Page(context.Background(), req, scope)
	if err != nil {
		t.Fatalf("strict mode must not reject malformed values: %v", err)
	}
	if page.LastRow != 0 {
		t.Fatalf("unexpected lastRow: %d", page.LastRow)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCashflowPageWrapsDriverErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intdb.ResetCapabilityCache()
	mock.MatchExpectationsInOrder(false)

	expectTenancyProbes(mock, true, true)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_caixa`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM audit_caixa`).
		WillReturnError(sql.ErrConnDone)

	req := ssrm.PageRequest{StartRow: 0, EndRow: 50}
	scope := auth.TenantScope{OrganizationID: int64p(1), IsAdmin: true}

	_, err = CashflowRepo{DB: db}.Page(context.Background(), req, scope)
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error wrap, got %v", err)
	}
}

func TestCashflowPageRejectsBadDateField(t *testing.T) {
	req := ssrm.PageRequest{
		StartRow: 0,
		EndRow:   50,
		Query:    json.RawMessage(`{"dateField":"WHENEVER"}`),
	}
	_, err := CashflowRepo{}.Page(context.Background(), req, auth.TenantScope{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if domain.ValidationDetails(err)["dateField"] == "" {
		t.Fatalf("expected dateField detail")
	}
}

func TestCashflowPageRejectsOversizedRange(t *testing.T) {
	req := ssrm.PageRequest{
		StartRow: 0,
		EndRow:   50,
		Query:    json.RawMessage(`{"startDate":"2020-01-01","endDate":"2024-01-01"}`),
	}
	_, err := CashflowRepo{}.Page(context.Background(), req, auth.TenantScope{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

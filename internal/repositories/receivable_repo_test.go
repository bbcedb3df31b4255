package repositories

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"backend/internal/auth"
	intdb "backend/internal/db"
	"backend/internal/domain"
	"backend/internal/ssrm"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestReceivablePageUsesIssueDateField(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	intdb.ResetCapabilityCache()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`information_schema\.columns`).WithArgs("audit_titulos", "org_id").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("org_id"))
	mock.ExpectQuery(`information_schema\.columns`).WithArgs("audit_titulos", "branch_id").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("branch_id"))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM audit_titulos WHERE issue_date >= \? AND \(\? IS NULL OR org_id = \?\)`).
		WithArgs(from, int64(2), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .+ FROM audit_titulos WHERE issue_date >= \? AND \(\? IS NULL OR org_id = \?\) ORDER BY due_date DESC, id DESC LIMIT \? OFFSET \?`).
		WithArgs(from, int64(2), int64(2), int64(100), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	req := ssrm.PageRequest{
		StartRow: 0,
		EndRow:   100,
		Query:    json.RawMessage(`{"dateField":"ISSUE","startDate":"2024-03-01"}`),
	}
	scope := auth.TenantScope{OrganizationID: int64p(2), IsAdmin: true}

	page, err := ReceivableRepo{DB: db}.Page(context.Background(), req, scope)
	if err != nil {
		t.Fatalf("page error: %v", err)
	}
	if page.LastRow != 0 || len(page.Rows) != 0 {
		t.Fatalf("expected empty page, got %d/%d", len(page.Rows), page.LastRow)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReceivablePageRejectsBadDateField(t *testing.T) {
	req := ssrm.PageRequest{
		StartRow: 0,
		EndRow:   50,
		Query:    json.RawMessage(`{"dateField":"SNAPSHOT"}`),
	}
	_, err := ReceivableRepo{}.Page(context.Background(), req, auth.TenantScope{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

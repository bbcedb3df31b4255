package ssrm

import (
	"testing"
	"time"

	"backend/internal/domain"
)

func TestValidateWindowClamp(t *testing.T) {
	win, err := PageRequest{StartRow: 0, EndRow: 2000}.Validate()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if win.Take != MaxPageSize {
		t.Fatalf("take not clamped, got %d want %d", win.Take, MaxPageSize)
	}
	if win.Offset != 0 {
		t.Fatalf("offset wrong, got %d", win.Offset)
	}
}

func TestValidateWindowRejectsInvertedRows(t *testing.T) {
	_, err := PageRequest{StartRow: 50, EndRow: 50}.Validate()
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := domain.ValidationDetails(err)
	if details["endRow"] == "" {
		t.Fatalf("expected endRow detail, got %v", details)
	}
}

func TestValidateWindowRejectsNegativeStart(t *testing.T) {
	_, err := PageRequest{StartRow: -1, EndRow: 10}.Validate()
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateDateRangeInclusiveEnd(t *testing.T) {
	from, to, err := ValidateDateRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !from.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from wrong: %v", from)
	}
	want := time.Date(2024, 1, 31, 23, 59, 59, 999*int(time.Millisecond), time.UTC)
	if !to.Equal(want) {
		t.Fatalf("to not expanded to end of day: %v", to)
	}
}

func TestValidateDateRangeInverted(t *testing.T) {
	_, _, err := ValidateDateRange("2024-02-01", "2024-01-01")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateDateRangeTooLarge(t *testing.T) {
	_, _, err := ValidateDateRange("2020-01-01", "2024-01-01")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details := domain.ValidationDetails(err)
	if details["endDate"] == "" {
		t.Fatalf("expected endDate detail, got %v", details)
	}
}

func TestValidateDateRangeOneSided(t *testing.T) {
	from, to, err := ValidateDateRange("2024-01-01", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if from == nil || to != nil {
		t.Fatalf("expected one-sided window, got from=%v to=%v", from, to)
	}
}

func TestValidateDateRangeBadFormat(t *testing.T) {
	_, _, err := ValidateDateRange("01/02/2024", "")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

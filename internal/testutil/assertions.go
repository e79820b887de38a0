package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "fintrack/internal/errors"
)

// AssertAppError fails unless err is an *AppError carrying expectedCode.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	case !errors.As(err, &appErr):
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	case appErr.Code != expectedCode:
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertAmount compares a money value against its decimal string form.
func AssertAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()

	if !got.Equal(Dec(want)) {
		t.Errorf("%s: expected %s, got %s", label, want, got)
	}
}

// AssertDate compares the calendar date of got in UTC.
func AssertDate(t *testing.T, label string, got time.Time, year int, month time.Month, day int) {
	t.Helper()

	if want := Date(year, month, day); !got.Equal(want) {
		t.Errorf("%s: expected %s, got %s", label, want.Format(time.DateOnly), got.UTC().Format(time.RFC3339))
	}
}

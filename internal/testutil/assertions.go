package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "finboard/internal/errors"
)

// AssertAppError fails unless err carries an *AppError with code.
func AssertAppError(t *testing.T, err error, code string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Errorf("expected %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error (%s): %v", apperrors.CodeOf(err), err)
	}
}

// AssertDecimal compares a money amount numerically, so "2500.50" and
// "2500.5" are equal.
func AssertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()

	expected, err := decimal.NewFromString(want)
	if err != nil {
		t.Fatalf("bad expected %s %q: %v", name, want, err)
	}
	if !got.Equal(expected) {
		t.Errorf("expected %s %s, got %s", name, expected, got)
	}
}

package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func txn(id string, on time.Time, amount, category string) models.Transaction {
	tx := models.Transaction{
		Date:     on,
		Amount:   d(amount),
		Category: category,
		Type:     models.TransactionKindNormal,
	}
	tx.ID = id
	return tx
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("expected %s %s, got %s", name, want, got)
	}
}

func ids(txs []models.Transaction) []string {
	out := make([]string, len(txs))
	for i := range txs {
		out[i] = txs[i].ID
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

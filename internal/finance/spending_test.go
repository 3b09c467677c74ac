package finance

import (
	"testing"

	"finboard/internal/models"
)

func TestTimeRangeSince(t *testing.T) {
	now := date(2025, 4, 11)
	tests := []struct {
		r    TimeRange
		want string
	}{
		{RangeWeek, "2025-04-04"},
		{RangeMonth, "2025-03-11"},
		{RangeYear, "2024-04-11"},
		{"", "2025-03-11"},
	}
	for _, tt := range tests {
		if got := tt.r.Since(now).Format("2006-01-02"); got != tt.want {
			t.Errorf("range %q: expected %s, got %s", tt.r, tt.want, got)
		}
	}
}

func TestSpendingByCategory(t *testing.T) {
	now := date(2025, 4, 11)
	transfer := txn("tr", date(2025, 4, 10), "-500", "Savings")
	transfer.Type = models.TransactionKindTransfer

	txs := []models.Transaction{
		txn("1", date(2025, 4, 10), "-60", "Food"),
		txn("2", date(2025, 4, 9), "-40", "Food"),
		txn("3", date(2025, 4, 8), "-50", ""),
		txn("4", date(2025, 4, 8), "-50", "Books"),
		txn("5", date(2025, 4, 7), "1000", "Salary"),
		txn("6", date(2025, 2, 1), "-999", "Food"),
		transfer,
	}

	t.Run("month", func(t *testing.T) {
		got := SpendingByCategory(txs, RangeMonth, now)
		if len(got) != 3 {
			t.Fatalf("expected 3 categories, got %d", len(got))
		}
		want := []string{"Food", "Books", Uncategorized}
		for i, w := range want {
			if got[i].Category != w {
				t.Errorf("expected %s at %d, got %s", w, i, got[i].Category)
			}
		}
		assertDecimal(t, "food", got[0].Amount, "100")
		if got[0].Percentage != 50 {
			t.Errorf("expected 50%%, got %v", got[0].Percentage)
		}
	})

	t.Run("year_includes_older", func(t *testing.T) {
		got := SpendingByCategory(txs, RangeYear, now)
		assertDecimal(t, "food", got[0].Amount, "1099")
	})

	t.Run("empty", func(t *testing.T) {
		if got := SpendingByCategory(nil, RangeWeek, now); len(got) != 0 {
			t.Errorf("expected no categories, got %d", len(got))
		}
	})
}

package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/models"
)

// TimeRange is the lookback window of a spending breakdown.
type TimeRange string

const (
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
	RangeYear  TimeRange = "year"
)

// Uncategorized labels expenses with no category.
const Uncategorized = "Uncategorized"

// Since returns the start of the window ending at now. Unknown ranges are
// treated as month.
func (r TimeRange) Since(now time.Time) time.Time {
	switch r {
	case RangeWeek:
		return now.Add(-7 * day)
	case RangeYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// CategoryTotal is one slice of a spending breakdown.
type CategoryTotal struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// SpendingByCategory sums expenses dated within the range ending at now,
// grouped by category, largest first. Transfers are excluded.
func SpendingByCategory(transactions []models.Transaction, r TimeRange, now time.Time) []CategoryTotal {
	window := Period{Start: r.Since(now), End: now}
	totals := make(map[string]decimal.Decimal)
	total := decimal.Zero

	for i := range transactions {
		t := &transactions[i]
		if t.IsTransfer() || !t.IsExpense() || !window.Contains(t.Date) {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = Uncategorized
		}
		amount := t.Amount.Abs()
		totals[cat] = totals[cat].Add(amount)
		total = total.Add(amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, CategoryTotal{
			Category:   cat,
			Amount:     amount,
			Percentage: Percent(amount, total),
		})
	}
	sortStable(out, func(a, b CategoryTotal) bool {
		if c := a.Amount.Cmp(b.Amount); c != 0 {
			return c > 0
		}
		return a.Category < b.Category
	})
	return out
}

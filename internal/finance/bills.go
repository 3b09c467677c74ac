package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/models"
)

// BillWindow is how far ahead upcoming bills are projected.
const BillWindow = 30 * day

// BillStatus buckets a bill by how soon it is due.
type BillStatus string

const (
	BillDueSoon   BillStatus = "Due Soon"
	BillUpcoming  BillStatus = "Upcoming"
	BillScheduled BillStatus = "Scheduled"
)

// StatusForDays maps the days until a bill is due to its status.
func StatusForDays(days int) BillStatus {
	switch {
	case days <= 3:
		return BillDueSoon
	case days <= 7:
		return BillUpcoming
	default:
		return BillScheduled
	}
}

// Bill is a projected next occurrence of a recurring transaction.
type Bill struct {
	TransactionID string           `json:"transaction_id"`
	RecurringID   string           `json:"recurring_id,omitempty"`
	Description   string           `json:"description"`
	Category      string           `json:"category"`
	Amount        decimal.Decimal  `json:"amount"`
	AccountID     string           `json:"account_id"`
	AccountName   string           `json:"account_name"`
	Frequency     models.Frequency `json:"frequency"`
	LastDate      time.Time        `json:"last_date"`
	DueDate       time.Time        `json:"due_date"`
	DaysUntilDue  int              `json:"days_until_due"`
	Status        BillStatus       `json:"status"`
}

// NextOccurrence advances last by one recurrence interval. Unknown or empty
// frequencies are treated as monthly.
func NextOccurrence(last time.Time, f models.Frequency) time.Time {
	switch f {
	case models.FrequencyWeekly:
		return last.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return last.AddDate(0, 0, 14)
	case models.FrequencyQuarterly:
		return last.AddDate(0, 3, 0)
	case models.FrequencyAnnually:
		return last.AddDate(1, 0, 0)
	default:
		return last.AddDate(0, 1, 0)
	}
}

// isRecurring reports whether t belongs to a recurring series.
func isRecurring(t *models.Transaction) bool {
	return t.IsRecurring || t.RecurringID != ""
}

// seriesKey groups recurring transactions: by recurring id, else by the
// transaction's own id.
func seriesKey(t *models.Transaction) string {
	if t.RecurringID != "" {
		return t.RecurringID
	}
	return t.ID
}

// UpcomingBills projects the next occurrence of every recurring series and
// returns those due within BillWindow of now, soonest first.
func UpcomingBills(transactions []models.Transaction, accounts []models.Account, now time.Time) []Bill {
	latest := make(map[string]*models.Transaction)
	var order []string
	for i := range transactions {
		t := &transactions[i]
		if !isRecurring(t) {
			continue
		}
		key := seriesKey(t)
		prev, ok := latest[key]
		if !ok {
			order = append(order, key)
		}
		if !ok || t.Date.After(prev.Date) {
			latest[key] = t
		}
	}

	horizon := now.Add(BillWindow)
	bills := make([]Bill, 0, len(order))
	for _, key := range order {
		t := latest[key]
		next := NextOccurrence(t.Date, t.Frequency)
		if next.Before(now) || next.After(horizon) {
			continue
		}
		days := int(math.Ceil(next.Sub(now).Hours() / 24))
		bills = append(bills, Bill{
			TransactionID: t.ID,
			RecurringID:   t.RecurringID,
			Description:   t.Description,
			Category:      t.Category,
			Amount:        t.Amount,
			AccountID:     t.AccountID,
			AccountName:   AccountName(accounts, t.AccountID),
			Frequency:     t.Frequency,
			LastDate:      t.Date,
			DueDate:       next,
			DaysUntilDue:  days,
			Status:        StatusForDays(days),
		})
	}

	sortStable(bills, func(a, b Bill) bool { return a.DueDate.Before(b.DueDate) })
	return bills
}

// DueSoon filters bills down to those with status "Due Soon".
func DueSoon(bills []Bill) []Bill {
	var out []Bill
	for _, b := range bills {
		if b.Status == BillDueSoon {
			out = append(out, b)
		}
	}
	return out
}

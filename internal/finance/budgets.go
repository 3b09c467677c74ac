package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/models"
)

// Period is an inclusive date range.
type Period struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// Contains reports whether t falls inside the period, bounds included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Overlaps reports whether a budget running from start to end intersects the
// period: it starts inside it, ends inside it, or spans all of it.
func (p Period) Overlaps(start, end time.Time) bool {
	return p.Contains(start) ||
		p.Contains(end) ||
		(!start.After(p.Start) && !end.Before(p.End))
}

// ActiveBudgets returns the budgets overlapping period. A nil period keeps
// every budget.
func ActiveBudgets(budgets []models.Budget, period *Period) []models.Budget {
	if period == nil {
		return budgets
	}
	active := make([]models.Budget, 0, len(budgets))
	for i := range budgets {
		if period.Overlaps(budgets[i].StartDate, budgets[i].EndDate) {
			active = append(active, budgets[i])
		}
	}
	return active
}

// Performance summarises budgeted against spent amounts.
type Performance struct {
	TotalBudgeted   decimal.Decimal `json:"total_budgeted"`
	TotalSpent      decimal.Decimal `json:"total_spent"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	PercentUsed     float64         `json:"percent_used"`
}

// BudgetPerformance sums totals and category spending across the budgets
// active in period.
func BudgetPerformance(budgets []models.Budget, period *Period) Performance {
	budgeted, spent := decimal.Zero, decimal.Zero
	for _, b := range ActiveBudgets(budgets, period) {
		budgeted = budgeted.Add(b.TotalAmount())
		spent = spent.Add(b.TotalSpent())
	}
	return Performance{
		TotalBudgeted:   budgeted,
		TotalSpent:      spent,
		RemainingAmount: budgeted.Sub(spent),
		PercentUsed:     Percent(spent, budgeted),
	}
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// CategorySpending maps a budget category id to the amount spent on it.
type CategorySpending map[string]decimal.Decimal

// BudgetSpending derives per-category spending for a budget from the
// transactions dated inside the budget range. A transaction counts toward a
// category when its category matches the category name, ignoring case.
// Transfers and non-expenses never count.
func BudgetSpending(budget models.Budget, transactions []models.Transaction) CategorySpending {
	byName := make(map[string]decimal.Decimal)
	period := Period{Start: budget.StartDate, End: budget.EndDate}
	for i := range transactions {
		t := &transactions[i]
		if t.IsTransfer() || !t.IsExpense() || !period.Contains(t.Date) {
			continue
		}
		key := strings.ToLower(t.Category)
		byName[key] = byName[key].Add(t.Amount.Abs())
	}

	spending := make(CategorySpending, len(budget.Categories))
	for _, c := range budget.Categories {
		spending[c.ID] = byName[strings.ToLower(c.Name)]
	}
	return spending
}

// ApplySpending returns copies of budgets with each category's Spent taken
// from spending. Categories absent from spending get zero.
func ApplySpending(budgets []models.Budget, spending CategorySpending) []models.Budget {
	out := make([]models.Budget, len(budgets))
	for i, b := range budgets {
		cats := make([]models.BudgetCategory, len(b.Categories))
		for j, c := range b.Categories {
			c.Spent = spending[c.ID]
			cats[j] = c
		}
		b.Categories = cats
		out[i] = b
	}
	return out
}

// WithDerivedSpending recomputes category spending for every budget from
// transactions.
func WithDerivedSpending(budgets []models.Budget, transactions []models.Transaction) []models.Budget {
	spending := make(CategorySpending)
	for _, b := range budgets {
		for id, amount := range BudgetSpending(b, transactions) {
			spending[id] = amount
		}
	}
	return ApplySpending(budgets, spending)
}

// CategoryProgress is the spending state of one budget category.
type CategoryProgress struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed float64         `json:"percent_used"`
}

// CategoriesProgress reports each category of a budget, largest allocation
// first.
func CategoriesProgress(b models.Budget) []CategoryProgress {
	out := make([]CategoryProgress, 0, len(b.Categories))
	for _, c := range b.Categories {
		out = append(out, CategoryProgress{
			ID:          c.ID,
			Name:        c.Name,
			Amount:      c.Amount,
			Spent:       c.Spent,
			Remaining:   c.Amount.Sub(c.Spent),
			PercentUsed: Percent(c.Spent, c.Amount),
		})
	}
	sortStable(out, func(a, b CategoryProgress) bool { return a.Amount.GreaterThan(b.Amount) })
	return out
}

// CurrentBudget returns the budget with the latest start date, or nil when
// there are none.
func CurrentBudget(budgets []models.Budget) *models.Budget {
	var current *models.Budget
	for i := range budgets {
		if current == nil || budgets[i].StartDate.After(current.StartDate) {
			current = &budgets[i]
		}
	}
	return current
}

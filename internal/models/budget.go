package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetMethod is the budgeting approach the user has chosen.
type BudgetMethod string

const (
	BudgetMethodCategory    BudgetMethod = "category"
	BudgetMethodZeroBased   BudgetMethod = "zero-based"
	BudgetMethodFiftyThirty BudgetMethod = "50-30-20"
)

// Budget represents a spending plan over a date range split into categories.
// The total is always the sum of its categories and is never stored.
type Budget struct {
	Base
	UserID     string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Name       string           `gorm:"not null" json:"name"`
	StartDate  time.Time        `gorm:"not null" json:"start_date"`
	EndDate    time.Time        `gorm:"not null" json:"end_date"`
	Categories []BudgetCategory `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE" json:"categories"`
}

// TotalAmount returns the sum of all category allocations.
func (b *Budget) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Categories {
		total = total.Add(b.Categories[i].Amount)
	}
	return total
}

// TotalSpent returns the sum of spending recorded against all categories.
func (b *Budget) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for i := range b.Categories {
		total = total.Add(b.Categories[i].Spent)
	}
	return total
}

// BudgetCategory is a single allocation inside a budget. Spent is derived from
// transactions whenever the budget is read.
type BudgetCategory struct {
	Base
	BudgetID string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Name     string          `gorm:"not null" json:"name"`
	Amount   decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Spent    decimal.Decimal `gorm:"-" json:"spent"`
}

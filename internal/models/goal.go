package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalCategories is the fixed list of savings goal categories.
var GoalCategories = []string{
	"Emergency Fund",
	"Retirement",
	"Home Purchase",
	"Education",
	"Vacation",
	"Car Purchase",
	"Debt Payoff",
	"Wedding",
	"Business",
	"Other",
}

// Goal represents a savings target funded by contributions.
type Goal struct {
	Base
	UserID        string             `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string             `gorm:"not null" json:"name"`
	Category      string             `gorm:"not null;default:'Other'" json:"category"`
	Priority      int                `gorm:"default:0" json:"priority,omitempty"`
	TargetAmount  decimal.Decimal    `gorm:"type:numeric(20,2);not null" json:"target_amount"`
	Contributions []GoalContribution `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"contributions"`
}

// CurrentAmount returns the running sum of all contributions.
func (g *Goal) CurrentAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range g.Contributions {
		total = total.Add(g.Contributions[i].Amount)
	}
	return total
}

// GoalContribution is a single deposit toward a goal.
type GoalContribution struct {
	Base
	GoalID string          `gorm:"type:uuid;not null;index" json:"goal_id"`
	Amount decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Date   time.Time       `gorm:"not null" json:"date"`
	Note   string          `json:"note,omitempty"`
}

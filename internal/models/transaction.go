package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind separates ordinary transactions from transfers between
// the user's own accounts.
type TransactionKind string

const (
	TransactionKindNormal   TransactionKind = "normal"
	TransactionKindTransfer TransactionKind = "transfer"
)

// Frequency is the recurrence interval of a recurring transaction.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

// Transaction represents a single movement of money on an account.
// Amount is signed: negative values are expenses.
type Transaction struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   string          `gorm:"type:uuid;not null;index" json:"account_id"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Note        string          `json:"note,omitempty"`
	Type        TransactionKind `gorm:"not null;default:'normal'" json:"type"`

	// Recurrence metadata
	IsRecurring bool      `gorm:"default:false" json:"is_recurring"`
	RecurringID string    `json:"recurring_id,omitempty"`
	Frequency   Frequency `json:"frequency,omitempty"`
}

// IsTransfer reports whether the transaction moves money between own accounts.
func (t *Transaction) IsTransfer() bool {
	return t.Type == TransactionKindTransfer
}

// IsExpense reports whether the transaction is an outflow.
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

package models

import "github.com/shopspring/decimal"

// AccountType represents the type of account
type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCash       AccountType = "cash"
	AccountTypeAsset      AccountType = "asset"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeDebt       AccountType = "debt"
)

// AccountTypes lists every recognised account type in display order.
var AccountTypes = []AccountType{
	AccountTypeChecking,
	AccountTypeSavings,
	AccountTypeInvestment,
	AccountTypeCash,
	AccountTypeAsset,
	AccountTypeCredit,
	AccountTypeLoan,
	AccountTypeDebt,
}

// Account represents a financial account held at an institution.
type Account struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string          `gorm:"not null" json:"name"`
	Institution string          `json:"institution"`
	Type        AccountType     `gorm:"not null" json:"type"`
	Balance     decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	Currency    string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
}

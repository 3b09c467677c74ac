package finance

import (
	"github.com/shopspring/decimal"

	"finboard/internal/models"
)

// AccountClass groups account types by their effect on net worth.
type AccountClass int

const (
	ClassUnclassified AccountClass = iota
	ClassAsset
	ClassLiability
)

// accountClasses is the exhaustive mapping from account type to class.
// Types missing from the table are unclassified and ignored by every sum.
var accountClasses = map[models.AccountType]AccountClass{
	models.AccountTypeChecking:   ClassAsset,
	models.AccountTypeSavings:    ClassAsset,
	models.AccountTypeInvestment: ClassAsset,
	models.AccountTypeCash:       ClassAsset,
	models.AccountTypeAsset:      ClassAsset,
	models.AccountTypeCredit:     ClassLiability,
	models.AccountTypeLoan:       ClassLiability,
	models.AccountTypeDebt:       ClassLiability,
}

// ClassOf returns the class of an account type.
func ClassOf(t models.AccountType) AccountClass {
	return accountClasses[t]
}

// TotalBalance sums the balances of all asset accounts.
func TotalBalance(accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for i := range accounts {
		if ClassOf(accounts[i].Type) == ClassAsset {
			total = total.Add(accounts[i].Balance)
		}
	}
	return total
}

// NetWorth returns asset balances minus liability balances.
func NetWorth(accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for i := range accounts {
		switch ClassOf(accounts[i].Type) {
		case ClassAsset:
			total = total.Add(accounts[i].Balance)
		case ClassLiability:
			total = total.Sub(accounts[i].Balance)
		}
	}
	return total
}

// TypeTotal is the combined balance and count of one account type.
type TypeTotal struct {
	Type    models.AccountType `json:"type"`
	Balance decimal.Decimal    `json:"balance"`
	Count   int                `json:"count"`
}

// AccountSummary is the account summary widget payload.
type AccountSummary struct {
	TotalBalance     decimal.Decimal `json:"total_balance"`
	NetWorth         decimal.Decimal `json:"net_worth"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	ByType           []TypeTotal     `json:"by_type"`
}

// SummarizeAccounts computes totals overall and per account type. ByType
// follows the order of models.AccountTypes and skips types with no accounts.
func SummarizeAccounts(accounts []models.Account) AccountSummary {
	byType := make(map[models.AccountType]*TypeTotal)
	assets, liabilities := decimal.Zero, decimal.Zero

	for i := range accounts {
		a := &accounts[i]
		tt, ok := byType[a.Type]
		if !ok {
			tt = &TypeTotal{Type: a.Type, Balance: decimal.Zero}
			byType[a.Type] = tt
		}
		tt.Balance = tt.Balance.Add(a.Balance)
		tt.Count++

		switch ClassOf(a.Type) {
		case ClassAsset:
			assets = assets.Add(a.Balance)
		case ClassLiability:
			liabilities = liabilities.Add(a.Balance)
		}
	}

	summary := AccountSummary{
		TotalBalance:     assets,
		NetWorth:         assets.Sub(liabilities),
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		ByType:           []TypeTotal{},
	}
	for _, t := range models.AccountTypes {
		if tt, ok := byType[t]; ok {
			summary.ByType = append(summary.ByType, *tt)
		}
	}
	return summary
}

// AccountName resolves an account id to its name, falling back to
// "Unknown Account" when the account is not present.
func AccountName(accounts []models.Account, accountID string) string {
	for i := range accounts {
		if accounts[i].ID == accountID {
			return accounts[i].Name
		}
	}
	return UnknownAccount
}

// UnknownAccount is shown for transactions whose account is missing.
const UnknownAccount = "Unknown Account"

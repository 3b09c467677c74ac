package finance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"finboard/internal/models"
)

// TypeFilter restricts transactions by direction or kind.
type TypeFilter string

const (
	TypeAll      TypeFilter = "all"
	TypeIncome   TypeFilter = "income"
	TypeExpense  TypeFilter = "expense"
	TypeTransfer TypeFilter = "transfer"
)

// Filter holds the conjunctive transaction filters. Zero values disable a
// filter.
type Filter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Categories []string
	AccountIDs []string
	Search     string
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	Type       TypeFilter
}

// IsZero reports whether no filter is set.
func (f Filter) IsZero() bool {
	return f.StartDate == nil && f.EndDate == nil &&
		len(f.Categories) == 0 && len(f.AccountIDs) == 0 &&
		f.Search == "" && f.MinAmount == nil && f.MaxAmount == nil &&
		(f.Type == "" || f.Type == TypeAll)
}

// Match reports whether t passes every active filter.
func (f Filter) Match(t *models.Transaction) bool {
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	if len(f.Categories) > 0 && !contains(f.Categories, t.Category) {
		return false
	}
	if len(f.AccountIDs) > 0 && !contains(f.AccountIDs, t.AccountID) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Description), q) &&
			!strings.Contains(strings.ToLower(t.Category), q) &&
			!strings.Contains(strings.ToLower(t.Note), q) {
			return false
		}
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}

	switch f.Type {
	case TypeIncome:
		return t.Amount.IsPositive()
	case TypeExpense:
		return t.Amount.IsNegative()
	case TypeTransfer:
		return t.IsTransfer()
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// FilterTransactions returns the transactions matching f in input order.
func FilterTransactions(transactions []models.Transaction, f Filter) []models.Transaction {
	out := make([]models.Transaction, 0, len(transactions))
	for i := range transactions {
		if f.Match(&transactions[i]) {
			out = append(out, transactions[i])
		}
	}
	return out
}

// SortField names a transaction sort key.
type SortField string

const (
	SortByDate        SortField = "date"
	SortByAmount      SortField = "amount"
	SortByDescription SortField = "description"
	SortByCategory    SortField = "category"
	SortByAccount     SortField = "account"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortOrder is the transaction list ordering. The zero value sorts by date,
// newest first.
type SortOrder struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

// DefaultSort is newest first.
var DefaultSort = SortOrder{Field: SortByDate, Direction: SortDesc}

// SortTransactions returns a sorted copy of transactions. The sort is stable,
// so equal keys keep their relative order. String keys use locale-aware
// collation. Account sorting compares account names, resolved through
// accounts.
func SortTransactions(transactions []models.Transaction, order SortOrder, accounts []models.Account, lang language.Tag) []models.Transaction {
	if order.Field == "" {
		order.Field = SortByDate
	}
	if order.Direction == "" {
		order.Direction = SortDesc
	}

	out := make([]models.Transaction, len(transactions))
	copy(out, transactions)

	col := collate.New(lang, collate.IgnoreCase)
	var cmp func(a, b models.Transaction) int
	switch order.Field {
	case SortByAmount:
		cmp = func(a, b models.Transaction) int { return a.Amount.Cmp(b.Amount) }
	case SortByDescription:
		cmp = func(a, b models.Transaction) int { return col.CompareString(a.Description, b.Description) }
	case SortByCategory:
		cmp = func(a, b models.Transaction) int { return col.CompareString(a.Category, b.Category) }
	case SortByAccount:
		names := make(map[string]string, len(accounts))
		for i := range accounts {
			names[accounts[i].ID] = accounts[i].Name
		}
		cmp = func(a, b models.Transaction) int { return col.CompareString(names[a.AccountID], names[b.AccountID]) }
	default:
		cmp = func(a, b models.Transaction) int { return a.Date.Compare(b.Date) }
	}

	desc := order.Direction == SortDesc
	sortStable(out, func(a, b models.Transaction) bool {
		if desc {
			return cmp(a, b) > 0
		}
		return cmp(a, b) < 0
	})
	return out
}

// Page size defaults for transaction listings.
const (
	DefaultPage  = 1
	DefaultLimit = 50
)

// Paginate returns the requested page of items. Out-of-range pages are
// empty; non-positive page or limit fall back to the defaults.
func Paginate[T any](items []T, page, limit int) []T {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := min(start+limit, len(items))
	return items[start:end]
}

// RecentTransactions returns the n newest transactions.
func RecentTransactions(transactions []models.Transaction, n int) []models.Transaction {
	sorted := SortTransactions(transactions, DefaultSort, nil, language.AmericanEnglish)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

package state

import (
	"time"

	"finboard/internal/finance"
	"finboard/internal/models"
)

// Widget sizes on the dashboard.
const (
	RecentTransactionsLimit = 5
	TopGoalsLimit           = 3
)

func SelectAccountSummary(s State) finance.AccountSummary {
	return finance.SummarizeAccounts(s.Accounts.Items)
}

func SelectSelectedAccount(s State) *models.Account {
	return findByID(s.Accounts.Items, s.Accounts.SelectedID, accountID)
}

func SelectSelectedTransaction(s State) *models.Transaction {
	return findByID(s.Transactions.Items, s.Transactions.SelectedID, transactionID)
}

func SelectSelectedGoal(s State) *models.Goal {
	return findByID(s.Goals.Items, s.Goals.SelectedID, goalID)
}

// SelectSelectedBudget returns the selected budget with its spending derived.
func SelectSelectedBudget(s State) *models.Budget {
	return findByID(SelectBudgets(s), s.Budgets.SelectedID, budgetID)
}

// Selection holds the record picked on each list, if any.
type Selection struct {
	Account     *models.Account     `json:"account,omitempty"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
	Budget      *models.Budget      `json:"budget,omitempty"`
	Goal        *models.Goal        `json:"goal,omitempty"`
}

func SelectSelection(s State) Selection {
	return Selection{
		Account:     SelectSelectedAccount(s),
		Transaction: SelectSelectedTransaction(s),
		Budget:      SelectSelectedBudget(s),
		Goal:        SelectSelectedGoal(s),
	}
}

// HasItem reports whether the slice holds a record with id. Slices without
// records report false.
func HasItem(s State, sl Slice, id string) bool {
	switch sl {
	case SliceAccounts:
		return findByID(s.Accounts.Items, id, accountID) != nil
	case SliceTransactions:
		return findByID(s.Transactions.Items, id, transactionID) != nil
	case SliceBudgets:
		return findByID(s.Budgets.Items, id, budgetID) != nil
	case SliceGoals:
		return findByID(s.Goals.Items, id, goalID) != nil
	}
	return false
}

// SelectBudgets returns every budget with category spending derived from the
// current transactions.
func SelectBudgets(s State) []models.Budget {
	return finance.WithDerivedSpending(s.Budgets.Items, s.Transactions.Items)
}

// SelectBudgetPerformance reports totals over budgets in the active period.
func SelectBudgetPerformance(s State) finance.Performance {
	return finance.BudgetPerformance(SelectBudgets(s), s.Budgets.ActivePeriod)
}

// BudgetOverview is the budget overview widget payload.
type BudgetOverview struct {
	Method      models.BudgetMethod        `json:"method"`
	Performance finance.Performance        `json:"performance"`
	Current     *models.Budget             `json:"current,omitempty"`
	Categories  []finance.CategoryProgress `json:"categories"`
}

func SelectBudgetOverview(s State) BudgetOverview {
	budgets := SelectBudgets(s)
	overview := BudgetOverview{
		Method:      s.Budgets.Method,
		Performance: finance.BudgetPerformance(budgets, s.Budgets.ActivePeriod),
		Categories:  []finance.CategoryProgress{},
	}
	if current := finance.CurrentBudget(budgets); current != nil {
		overview.Current = current
		overview.Categories = finance.CategoriesProgress(*current)
	}
	return overview
}

func SelectGoalsProgress(s State, now time.Time) []finance.GoalProgress {
	return finance.GoalsProgress(s.Goals.Items, now)
}

func SelectTopGoals(s State, n int, now time.Time) []finance.GoalProgress {
	return finance.TopGoals(s.Goals.Items, n, now)
}

func SelectUpcomingBills(s State, now time.Time) []finance.Bill {
	return finance.UpcomingBills(s.Transactions.Items, s.Accounts.Items, now)
}

func SelectSpendingByCategory(s State, r finance.TimeRange, now time.Time) []finance.CategoryTotal {
	return finance.SpendingByCategory(s.Transactions.Items, r, now)
}

// SelectFilteredTransactions applies the stored filters. Items are already
// held in the stored sort order.
func SelectFilteredTransactions(s State) []models.Transaction {
	return finance.FilterTransactions(s.Transactions.Items, s.Transactions.Filters)
}

// TransactionPage is one page of the filtered transaction list.
type TransactionPage struct {
	Items      []models.Transaction `json:"items"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"total_pages"`
}

func SelectTransactionPage(s State) TransactionPage {
	filtered := SelectFilteredTransactions(s)
	p := s.Transactions.Pagination
	page := TransactionPage{
		Items: finance.Paginate(filtered, p.Page, p.Limit),
		Page:  max(p.Page, finance.DefaultPage),
		Limit: p.Limit,
		Total: len(filtered),
	}
	if page.Limit < 1 {
		page.Limit = finance.DefaultLimit
	}
	page.TotalPages = (page.Total + page.Limit - 1) / page.Limit
	return page
}

func SelectRecentTransactions(s State, n int) []models.Transaction {
	return finance.RecentTransactions(s.Transactions.Items, n)
}

// SelectVisibleWidgets returns the visible widgets in display order.
func SelectVisibleWidgets(s State) []models.DashboardWidget {
	out := make([]models.DashboardWidget, 0, len(s.UI.Widgets))
	for _, w := range s.UI.Widgets {
		if w.Visible {
			out = append(out, w)
		}
	}
	return out
}

func SelectUnreadCount(s State) int {
	n := 0
	for i := range s.UI.Notifications {
		if !s.UI.Notifications[i].Read {
			n++
		}
	}
	return n
}

// Dashboard is the combined payload of every visible widget. Widgets that
// are hidden are left nil.
type Dashboard struct {
	User               *Profile                 `json:"user,omitempty"`
	Widgets            []models.DashboardWidget `json:"widgets"`
	AccountSummary     *finance.AccountSummary  `json:"account_summary,omitempty"`
	RecentTransactions []models.Transaction     `json:"recent_transactions,omitempty"`
	BudgetOverview     *BudgetOverview          `json:"budget_overview,omitempty"`
	Goals              []finance.GoalProgress   `json:"goals,omitempty"`
	SpendingTrends     []finance.CategoryTotal  `json:"spending_trends,omitempty"`
	UpcomingBills      []finance.Bill           `json:"upcoming_bills,omitempty"`
	UnreadCount        int                      `json:"unread_notifications"`
	Errors             map[Slice]string         `json:"errors,omitempty"`
}

// SelectDashboard runs the selectors behind every visible widget.
func SelectDashboard(s State, r finance.TimeRange, now time.Time) Dashboard {
	d := Dashboard{
		User:        s.Auth.User,
		Widgets:     SelectVisibleWidgets(s),
		UnreadCount: SelectUnreadCount(s),
	}
	for _, w := range d.Widgets {
		switch w.WidgetID {
		case models.WidgetAccountSummary:
			summary := SelectAccountSummary(s)
			d.AccountSummary = &summary
		case models.WidgetRecentTransactions:
			d.RecentTransactions = SelectRecentTransactions(s, RecentTransactionsLimit)
		case models.WidgetBudgetOverview:
			overview := SelectBudgetOverview(s)
			d.BudgetOverview = &overview
		case models.WidgetGoalsProgress:
			d.Goals = SelectTopGoals(s, TopGoalsLimit, now)
		case models.WidgetSpendingTrends:
			d.SpendingTrends = SelectSpendingByCategory(s, r, now)
		case models.WidgetUpcomingBills:
			d.UpcomingBills = SelectUpcomingBills(s, now)
		}
	}
	d.Errors = SelectErrors(s)
	return d
}

// SelectErrors collects the error flag of every failed slice.
func SelectErrors(s State) map[Slice]string {
	var errs map[Slice]string
	for _, sl := range []Slice{SliceAuth, SliceAccounts, SliceTransactions, SliceBudgets, SliceGoals, SliceUI} {
		if msg := s.status(sl).Error; msg != "" {
			if errs == nil {
				errs = make(map[Slice]string)
			}
			errs[sl] = msg
		}
	}
	return errs
}

func findByID[T any](items []T, target string, id func(*T) string) *T {
	if target == "" {
		return nil
	}
	for i := range items {
		if id(&items[i]) == target {
			v := items[i]
			return &v
		}
	}
	return nil
}

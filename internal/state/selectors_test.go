package state

import (
	"testing"

	"github.com/shopspring/decimal"

	"finboard/internal/finance"
	"finboard/internal/models"
)

func loadedState() State {
	s := Initial("u1")
	rent := newTransaction("rent", day(1), -1200)
	rent.Category = "Housing"
	rent.IsRecurring = true
	rent.Frequency = models.FrequencyMonthly
	rent.AccountID = "chk"
	food := newTransaction("food", day(9), -80)
	food.Category = "food"
	food.AccountID = "chk"

	cat := models.BudgetCategory{Name: "Food", Amount: decimal.NewFromInt(400)}
	cat.ID = "c1"
	b := models.Budget{Name: "April", StartDate: day(1), EndDate: day(30), Categories: []models.BudgetCategory{cat}}
	b.ID = "b1"

	return reduceAll(s,
		SetAccounts{Accounts: []models.Account{
			newAccount("chk", models.AccountTypeChecking, 5000),
			newAccount("cc", models.AccountTypeCredit, 500),
		}},
		SetTransactions{Transactions: []models.Transaction{rent, food}},
		SetBudgets{Budgets: []models.Budget{b}},
	)
}

func reduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func TestSelectBudgetOverview(t *testing.T) {
	overview := SelectBudgetOverview(loadedState())
	if overview.Current == nil || overview.Current.ID != "b1" {
		t.Fatal("expected current budget b1")
	}
	if !overview.Performance.TotalSpent.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected spent 80, got %s", overview.Performance.TotalSpent)
	}
	if overview.Performance.PercentUsed != 20 {
		t.Errorf("expected 20%%, got %v", overview.Performance.PercentUsed)
	}
}

func TestSelectTransactionPage(t *testing.T) {
	s := reduceAll(loadedState(),
		SetFilters{Filters: finance.Filter{Type: finance.TypeExpense}},
		SetPagination{Page: 2, Limit: 1},
	)
	page := SelectTransactionPage(s)
	if page.Total != 2 || page.TotalPages != 2 {
		t.Fatalf("expected 2 items over 2 pages, got %d/%d", page.Total, page.TotalPages)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "rent" {
		t.Errorf("expected rent on page 2, got %v", page.Items)
	}
}

func TestSelectDashboard(t *testing.T) {
	s := loadedState()
	s = Reduce(s, UpdateWidgetVisibility{WidgetID: models.WidgetGoalsProgress, Visible: false})
	s = Reduce(s, SetError{Slice: SliceGoals, Err: "fetch failed"})

	d := SelectDashboard(s, finance.RangeMonth, day(11))

	if d.AccountSummary == nil || !d.AccountSummary.NetWorth.Equal(decimal.NewFromInt(4500)) {
		t.Errorf("expected net worth 4500, got %+v", d.AccountSummary)
	}
	if d.Goals != nil {
		t.Error("expected hidden goals widget to be omitted")
	}
	if len(d.UpcomingBills) != 1 || d.UpcomingBills[0].AccountName != "acct-chk" {
		t.Errorf("expected one bill on acct-chk, got %+v", d.UpcomingBills)
	}
	if len(d.RecentTransactions) != 2 {
		t.Errorf("expected 2 recent transactions, got %d", len(d.RecentTransactions))
	}
	if d.Errors[SliceGoals] != "fetch failed" {
		t.Errorf("expected goals error surfaced, got %v", d.Errors)
	}
}

func TestSelectSelectedBudgetAfterDelete(t *testing.T) {
	s := reduceAll(loadedState(), SelectBudget{ID: "b1"})
	if b := SelectSelectedBudget(s); b == nil || !b.TotalSpent().Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected selected budget with derived spending, got %+v", b)
	}
	s = Reduce(s, DeleteBudget{ID: "b1"})
	if SelectSelectedBudget(s) != nil {
		t.Error("expected no selection after delete")
	}
}

func TestSelectSelection(t *testing.T) {
	s := reduceAll(loadedState(), SelectBudget{ID: "b1"})

	if !HasItem(s, SliceBudgets, "b1") || HasItem(s, SliceBudgets, "nope") || HasItem(s, SliceUI, "b1") {
		t.Error("unexpected HasItem result")
	}

	sel := SelectSelection(s)
	if sel.Budget == nil || sel.Budget.ID != "b1" {
		t.Errorf("expected budget b1, got %+v", sel.Budget)
	}
	if sel.Account != nil || sel.Transaction != nil || sel.Goal != nil {
		t.Errorf("expected nothing else selected, got %+v", sel)
	}
}

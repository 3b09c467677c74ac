package state

import (
	"github.com/shopspring/decimal"

	"finboard/internal/finance"
	"finboard/internal/models"
)

// Action is a state transition request handled by Reduce.
type Action interface {
	isAction()
}

type action struct{}

func (action) isAction() {}

// Shared across slices.
type (
	// SetLoading flags a slice as loading. Starting a load clears its error.
	SetLoading struct {
		action
		Slice   Slice
		Loading bool
	}
	// SetError records a failure on a slice and ends its loading.
	SetError struct {
		action
		Slice Slice
		Err   string
	}
	// ClearSlice empties a slice back to its initial value.
	ClearSlice struct {
		action
		Slice Slice
	}
)

// SelectIn returns the select action for a record slice. An empty id clears
// the selection. ok is false for slices without records.
func SelectIn(sl Slice, id string) (a Action, ok bool) {
	switch sl {
	case SliceAccounts:
		return SelectAccount{ID: id}, true
	case SliceTransactions:
		return SelectTransaction{ID: id}, true
	case SliceBudgets:
		return SelectBudget{ID: id}, true
	case SliceGoals:
		return SelectGoal{ID: id}, true
	}
	return nil, false
}

// Auth.
type (
	SetUser struct {
		action
		User Profile
	}
	ClearUser struct{ action }
	// UpdateUserProfile replaces the non-empty profile fields.
	UpdateUserProfile struct {
		action
		DisplayName string
		PhotoURL    string
	}
)

// Accounts.
type (
	SetAccounts struct {
		action
		Accounts []models.Account
	}
	AddAccount struct {
		action
		Account models.Account
	}
	UpdateAccount struct {
		action
		Account models.Account
	}
	DeleteAccount struct {
		action
		ID string
	}
	SelectAccount struct {
		action
		ID string
	}
	UpdateAccountBalance struct {
		action
		AccountID  string
		NewBalance decimal.Decimal
	}
)

// Transactions.
type (
	SetTransactions struct {
		action
		Transactions []models.Transaction
	}
	AddTransaction struct {
		action
		Transaction models.Transaction
	}
	UpdateTransaction struct {
		action
		Transaction models.Transaction
	}
	DeleteTransaction struct {
		action
		ID string
	}
	SelectTransaction struct {
		action
		ID string
	}
	BatchAddTransactions struct {
		action
		Transactions []models.Transaction
	}
	// SetFilters replaces the filters and returns to the first page.
	SetFilters struct {
		action
		Filters finance.Filter
	}
	ResetFilters struct{ action }
	// SetPagination updates the non-zero fields of the page position.
	SetPagination struct {
		action
		Page  int
		Limit int
	}
	SetSortBy struct {
		action
		SortBy finance.SortOrder
	}
)

// Budgets.
type (
	SetBudgets struct {
		action
		Budgets []models.Budget
	}
	AddBudget struct {
		action
		Budget models.Budget
	}
	UpdateBudget struct {
		action
		Budget models.Budget
	}
	DeleteBudget struct {
		action
		ID string
	}
	SelectBudget struct {
		action
		ID string
	}
	// SetActiveBudgetPeriod restricts budget performance to a period. A nil
	// period clears the restriction.
	SetActiveBudgetPeriod struct {
		action
		Period *finance.Period
	}
	SetBudgetMethod struct {
		action
		Method models.BudgetMethod
	}
	UpdateBudgetCategoryAmount struct {
		action
		BudgetID   string
		CategoryID string
		Amount     decimal.Decimal
	}
)

// Goals.
type (
	SetGoals struct {
		action
		Goals []models.Goal
	}
	AddGoal struct {
		action
		Goal models.Goal
	}
	UpdateGoal struct {
		action
		Goal models.Goal
	}
	DeleteGoal struct {
		action
		ID string
	}
	SelectGoal struct {
		action
		ID string
	}
	AddGoalContribution struct {
		action
		GoalID       string
		Contribution models.GoalContribution
	}
	RemoveGoalContribution struct {
		action
		GoalID         string
		ContributionID string
	}
)

// UI.
type (
	SetPreferences struct {
		action
		Preferences models.UserPreferences
	}
	SetWidgets struct {
		action
		Widgets []models.DashboardWidget
	}
	UpdateWidgetVisibility struct {
		action
		WidgetID string
		Visible  bool
	}
	// UpdateWidgetOrder reorders widgets to follow the given ids. Widgets
	// not listed keep their relative order after the listed ones.
	UpdateWidgetOrder struct {
		action
		WidgetIDs []string
	}
	SetNotifications struct {
		action
		Notifications []models.Notification
	}
	AddNotification struct {
		action
		Notification models.Notification
	}
	RemoveNotification struct {
		action
		ID string
	}
	MarkNotificationRead struct {
		action
		ID string
	}
	MarkAllNotificationsRead struct{ action }
	ClearNotifications       struct{ action }
)

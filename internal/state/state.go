// Package state holds the per-user dashboard state. State is only ever
// replaced through Reduce; selectors derive dashboard aggregates from it.
package state

import (
	"finboard/internal/finance"
	"finboard/internal/models"
)

// Slice names one part of State for loading and error actions.
type Slice string

const (
	SliceAuth         Slice = "auth"
	SliceAccounts     Slice = "accounts"
	SliceTransactions Slice = "transactions"
	SliceBudgets      Slice = "budgets"
	SliceGoals        Slice = "goals"
	SliceUI           Slice = "ui"
)

// Status is the loading and error flag pair every slice carries.
type Status struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Profile is the signed-in user's public identity.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

type AuthState struct {
	Status
	User *Profile `json:"user"`
}

// IsAuthenticated reports whether a user is signed in.
func (a AuthState) IsAuthenticated() bool {
	return a.User != nil
}

type AccountsState struct {
	Status
	Items      []models.Account `json:"items"`
	SelectedID string           `json:"selected_id,omitempty"`
}

// Pagination is the transaction list page position.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type TransactionsState struct {
	Status
	Items      []models.Transaction `json:"items"`
	SelectedID string               `json:"selected_id,omitempty"`
	Filters    finance.Filter       `json:"-"`
	Pagination Pagination           `json:"pagination"`
	SortBy     finance.SortOrder    `json:"sort_by"`
}

type BudgetsState struct {
	Status
	Items        []models.Budget     `json:"items"`
	SelectedID   string              `json:"selected_id,omitempty"`
	ActivePeriod *finance.Period     `json:"active_period,omitempty"`
	Method       models.BudgetMethod `json:"method"`
}

type GoalsState struct {
	Status
	Items      []models.Goal `json:"items"`
	SelectedID string        `json:"selected_id,omitempty"`
}

type UIState struct {
	Status
	Preferences   models.UserPreferences   `json:"preferences"`
	Widgets       []models.DashboardWidget `json:"widgets"`
	Notifications []models.Notification    `json:"notifications"`
}

// State is the complete dashboard state of one user.
type State struct {
	Auth         AuthState         `json:"auth"`
	Accounts     AccountsState     `json:"accounts"`
	Transactions TransactionsState `json:"transactions"`
	Budgets      BudgetsState      `json:"budgets"`
	Goals        GoalsState        `json:"goals"`
	UI           UIState           `json:"ui"`
}

// Initial returns the empty state for a user before anything is loaded.
func Initial(userID string) State {
	return State{
		Transactions: TransactionsState{
			Pagination: Pagination{Page: finance.DefaultPage, Limit: finance.DefaultLimit},
			SortBy:     finance.DefaultSort,
		},
		Budgets: BudgetsState{Method: models.BudgetMethodCategory},
		UI: UIState{
			Preferences: models.DefaultPreferences(userID),
			Widgets:     models.DefaultWidgets(userID),
		},
	}
}

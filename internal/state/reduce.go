package state

import (
	"slices"

	"golang.org/x/text/language"

	"finboard/internal/finance"
	"finboard/internal/models"
)

// Reduce returns the state that results from applying a to s. It never
// mutates s or anything s references; unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetLoading:
		st := s.status(a.Slice)
		st.Loading = a.Loading
		if a.Loading {
			st.Error = ""
		}
		return s.withStatus(a.Slice, st)
	case SetError:
		return s.withStatus(a.Slice, Status{Error: a.Err})
	case ClearSlice:
		return s.cleared(a.Slice)

	case SetUser, ClearUser, UpdateUserProfile:
		s.Auth = reduceAuth(s.Auth, a)
	case SetAccounts, AddAccount, UpdateAccount, DeleteAccount, SelectAccount, UpdateAccountBalance:
		s.Accounts = reduceAccounts(s.Accounts, a)
		if _, ok := a.(DeleteAccount); ok || s.Transactions.SortBy.Field == finance.SortByAccount {
			s.Transactions = s.sortedTransactions(s.Transactions)
		}
	case SetTransactions, AddTransaction, UpdateTransaction, DeleteTransaction, SelectTransaction,
		BatchAddTransactions, SetFilters, ResetFilters, SetPagination, SetSortBy:
		s.Transactions = s.sortedTransactions(reduceTransactions(s.Transactions, a))
	case SetBudgets, AddBudget, UpdateBudget, DeleteBudget, SelectBudget,
		SetActiveBudgetPeriod, SetBudgetMethod, UpdateBudgetCategoryAmount:
		s.Budgets = reduceBudgets(s.Budgets, a)
	case SetGoals, AddGoal, UpdateGoal, DeleteGoal, SelectGoal, AddGoalContribution, RemoveGoalContribution:
		s.Goals = reduceGoals(s.Goals, a)
	case SetPreferences, SetWidgets, UpdateWidgetVisibility, UpdateWidgetOrder,
		SetNotifications, AddNotification, RemoveNotification, MarkNotificationRead,
		MarkAllNotificationsRead, ClearNotifications:
		s.UI = reduceUI(s.UI, a)
	}
	return s
}

func (s State) status(sl Slice) Status {
	switch sl {
	case SliceAuth:
		return s.Auth.Status
	case SliceAccounts:
		return s.Accounts.Status
	case SliceTransactions:
		return s.Transactions.Status
	case SliceBudgets:
		return s.Budgets.Status
	case SliceGoals:
		return s.Goals.Status
	case SliceUI:
		return s.UI.Status
	}
	return Status{}
}

func (s State) withStatus(sl Slice, st Status) State {
	switch sl {
	case SliceAuth:
		s.Auth.Status = st
	case SliceAccounts:
		s.Accounts.Status = st
	case SliceTransactions:
		s.Transactions.Status = st
	case SliceBudgets:
		s.Budgets.Status = st
	case SliceGoals:
		s.Goals.Status = st
	case SliceUI:
		s.UI.Status = st
	}
	return s
}

func (s State) cleared(sl Slice) State {
	initial := Initial(s.UI.Preferences.UserID)
	switch sl {
	case SliceAuth:
		s.Auth = initial.Auth
	case SliceAccounts:
		s.Accounts = initial.Accounts
	case SliceTransactions:
		s.Transactions = initial.Transactions
	case SliceBudgets:
		s.Budgets = initial.Budgets
	case SliceGoals:
		s.Goals = initial.Goals
	case SliceUI:
		s.UI = initial.UI
	}
	return s
}

// Language is the collation language of the user's locale.
func (s State) Language() language.Tag {
	tag, err := language.Parse(s.UI.Preferences.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

func (s State) sortedTransactions(ts TransactionsState) TransactionsState {
	ts.Items = finance.SortTransactions(ts.Items, ts.SortBy, s.Accounts.Items, s.Language())
	return ts
}

func reduceAuth(as AuthState, a Action) AuthState {
	switch a := a.(type) {
	case SetUser:
		u := a.User
		as.User = &u
		as.Status = Status{}
	case ClearUser:
		as.User = nil
		as.Status = Status{}
	case UpdateUserProfile:
		if as.User == nil {
			return as
		}
		u := *as.User
		if a.DisplayName != "" {
			u.DisplayName = a.DisplayName
		}
		if a.PhotoURL != "" {
			u.PhotoURL = a.PhotoURL
		}
		as.User = &u
	}
	return as
}

func accountID(a *models.Account) string         { return a.ID }
func transactionID(t *models.Transaction) string { return t.ID }
func budgetID(b *models.Budget) string           { return b.ID }
func goalID(g *models.Goal) string               { return g.ID }
func notificationID(n *models.Notification) string {
	return n.ID
}

func reduceAccounts(as AccountsState, a Action) AccountsState {
	switch a := a.(type) {
	case SetAccounts:
		as.Items = slices.Clone(a.Accounts)
		as.Status = Status{}
	case AddAccount:
		as.Items = append(slices.Clip(as.Items), a.Account)
	case UpdateAccount:
		as.Items = replaceByID(as.Items, a.Account, accountID)
	case DeleteAccount:
		as.Items = removeByID(as.Items, a.ID, accountID)
		if as.SelectedID == a.ID {
			as.SelectedID = ""
		}
	case SelectAccount:
		as.SelectedID = a.ID
	case UpdateAccountBalance:
		as.Items = updateByID(as.Items, a.AccountID, accountID, func(acc *models.Account) {
			acc.Balance = a.NewBalance
		})
	}
	return as
}

func reduceTransactions(ts TransactionsState, a Action) TransactionsState {
	switch a := a.(type) {
	case SetTransactions:
		ts.Items = slices.Clone(a.Transactions)
		ts.Status = Status{}
	case AddTransaction:
		ts.Items = append([]models.Transaction{a.Transaction}, ts.Items...)
	case UpdateTransaction:
		ts.Items = replaceByID(ts.Items, a.Transaction, transactionID)
	case DeleteTransaction:
		ts.Items = removeByID(ts.Items, a.ID, transactionID)
		if ts.SelectedID == a.ID {
			ts.SelectedID = ""
		}
	case SelectTransaction:
		ts.SelectedID = a.ID
	case BatchAddTransactions:
		ts.Items = append(slices.Clip(ts.Items), a.Transactions...)
	case SetFilters:
		ts.Filters = a.Filters
		ts.Pagination.Page = finance.DefaultPage
	case ResetFilters:
		ts.Filters = finance.Filter{}
		ts.Pagination.Page = finance.DefaultPage
	case SetPagination:
		if a.Page > 0 {
			ts.Pagination.Page = a.Page
		}
		if a.Limit > 0 {
			ts.Pagination.Limit = a.Limit
		}
	case SetSortBy:
		ts.SortBy = a.SortBy
	}
	ts.Pagination.Total = len(ts.Items)
	return ts
}

func reduceBudgets(bs BudgetsState, a Action) BudgetsState {
	switch a := a.(type) {
	case SetBudgets:
		bs.Items = slices.Clone(a.Budgets)
		bs.Status = Status{}
	case AddBudget:
		bs.Items = append(slices.Clip(bs.Items), a.Budget)
	case UpdateBudget:
		bs.Items = replaceByID(bs.Items, a.Budget, budgetID)
	case DeleteBudget:
		bs.Items = removeByID(bs.Items, a.ID, budgetID)
		if bs.SelectedID == a.ID {
			bs.SelectedID = ""
		}
	case SelectBudget:
		bs.SelectedID = a.ID
	case SetActiveBudgetPeriod:
		if a.Period == nil {
			bs.ActivePeriod = nil
		} else {
			p := *a.Period
			bs.ActivePeriod = &p
		}
	case SetBudgetMethod:
		bs.Method = a.Method
	case UpdateBudgetCategoryAmount:
		bs.Items = updateByID(bs.Items, a.BudgetID, budgetID, func(b *models.Budget) {
			b.Categories = slices.Clone(b.Categories)
			for i := range b.Categories {
				if b.Categories[i].ID == a.CategoryID {
					b.Categories[i].Amount = a.Amount
				}
			}
		})
	}
	return bs
}

func reduceGoals(gs GoalsState, a Action) GoalsState {
	switch a := a.(type) {
	case SetGoals:
		gs.Items = slices.Clone(a.Goals)
		gs.Status = Status{}
	case AddGoal:
		gs.Items = append(slices.Clip(gs.Items), a.Goal)
	case UpdateGoal:
		gs.Items = replaceByID(gs.Items, a.Goal, goalID)
	case DeleteGoal:
		gs.Items = removeByID(gs.Items, a.ID, goalID)
		if gs.SelectedID == a.ID {
			gs.SelectedID = ""
		}
	case SelectGoal:
		gs.SelectedID = a.ID
	case AddGoalContribution:
		gs.Items = updateByID(gs.Items, a.GoalID, goalID, func(g *models.Goal) {
			g.Contributions = append(slices.Clip(g.Contributions), a.Contribution)
		})
	case RemoveGoalContribution:
		gs.Items = updateByID(gs.Items, a.GoalID, goalID, func(g *models.Goal) {
			g.Contributions = slices.DeleteFunc(slices.Clone(g.Contributions), func(c models.GoalContribution) bool {
				return c.ID == a.ContributionID
			})
		})
	}
	return gs
}

func reduceUI(us UIState, a Action) UIState {
	switch a := a.(type) {
	case SetPreferences:
		us.Preferences = a.Preferences
	case SetWidgets:
		us.Widgets = slices.Clone(a.Widgets)
		slices.SortStableFunc(us.Widgets, func(x, y models.DashboardWidget) int { return x.Order - y.Order })
	case UpdateWidgetVisibility:
		us.Widgets = slices.Clone(us.Widgets)
		for i := range us.Widgets {
			if us.Widgets[i].WidgetID == a.WidgetID {
				us.Widgets[i].Visible = a.Visible
			}
		}
	case UpdateWidgetOrder:
		us.Widgets = reorderWidgets(us.Widgets, a.WidgetIDs)
	case SetNotifications:
		us.Notifications = slices.Clone(a.Notifications)
	case AddNotification:
		us.Notifications = append([]models.Notification{a.Notification}, us.Notifications...)
	case RemoveNotification:
		us.Notifications = removeByID(us.Notifications, a.ID, notificationID)
	case MarkNotificationRead:
		us.Notifications = updateByID(us.Notifications, a.ID, notificationID, func(n *models.Notification) {
			n.Read = true
		})
	case MarkAllNotificationsRead:
		us.Notifications = slices.Clone(us.Notifications)
		for i := range us.Notifications {
			us.Notifications[i].Read = true
		}
	case ClearNotifications:
		us.Notifications = nil
	}
	return us
}

// reorderWidgets places the listed widgets first in the given order, then
// the rest, and renumbers Order from 1.
func reorderWidgets(widgets []models.DashboardWidget, order []string) []models.DashboardWidget {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, dup := rank[id]; !dup {
			rank[id] = i
		}
	}
	out := slices.Clone(widgets)
	slices.SortStableFunc(out, func(x, y models.DashboardWidget) int {
		rx, okx := rank[x.WidgetID]
		ry, oky := rank[y.WidgetID]
		switch {
		case okx && oky:
			return rx - ry
		case okx:
			return -1
		case oky:
			return 1
		}
		return 0
	})
	for i := range out {
		out[i].Order = i + 1
	}
	return out
}

func replaceByID[T any](items []T, item T, id func(*T) string) []T {
	target := id(&item)
	return updateByID(items, target, id, func(p *T) { *p = item })
}

// updateByID returns a copy of items with fn applied to the element whose id
// matches. Items are returned as-is when nothing matches.
func updateByID[T any](items []T, target string, id func(*T) string, fn func(*T)) []T {
	idx := slices.IndexFunc(items, func(v T) bool { return id(&v) == target })
	if idx < 0 {
		return items
	}
	out := slices.Clone(items)
	fn(&out[idx])
	return out
}

func removeByID[T any](items []T, target string, id func(*T) string) []T {
	return slices.DeleteFunc(slices.Clone(items), func(v T) bool { return id(&v) == target })
}

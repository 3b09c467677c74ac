package services

import (
	"context"
	"time"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/state"
)

// dashboardService answers dashboard reads by running selectors over the
// user's session state.
type dashboardService struct {
	store   *state.Registry
	session SessionServicer
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(store *state.Registry, session SessionServicer) DashboardServicer {
	return &dashboardService{store: store, session: session}
}

// GetDashboard returns every visible widget.
func (s *dashboardService) GetDashboard(ctx context.Context, userID string, r finance.TimeRange, now time.Time) (*state.Dashboard, error) {
	st, err := s.session.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	d := state.SelectDashboard(st, r, now)
	return &d, nil
}

func (s *dashboardService) GetAccountSummary(ctx context.Context, userID string) (*finance.AccountSummary, error) {
	st, err := s.session.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := state.SelectAccountSummary(st)
	return &summary, nil
}

func (s *dashboardService) GetBudgetOverview(ctx context.Context, userID string) (*state.BudgetOverview, error) {
	st, err := s.session.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	overview := state.SelectBudgetOverview(st)
	return &overview, nil
}

// SetActiveBudgetPeriod restricts budget performance to period for the rest
// of the session. A nil period clears it.
func (s *dashboardService) SetActiveBudgetPeriod(ctx context.Context, userID string, period *finance.Period) (*state.BudgetOverview, error) {
	if _, err := s.session.Load(ctx, userID); err != nil {
		return nil, err
	}
	st := s.store.GetOrCreate(userID).Dispatch(state.SetActiveBudgetPeriod{Period: period})
	overview := state.SelectBudgetOverview(st)
	return &overview, nil
}

func (s *dashboardService) GetGoalsProgress(ctx context.Context, userID string, now time.Time) ([]finance.GoalProgress, error) {
	st, err := s.session.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return state.SelectGoalsProgress(st, now), nil
}

func (s *dashboardService) GetUpcomingBills(ctx context.Context, userID string, now time.Time) ([]finance.Bill, error) {
	st, err := s.session.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return state.SelectUpcomingBills(st, now), nil
}

func (s *dashboardService) GetSpendingByCategory(ctx context.Context, userID string, r finance.TimeRange, now time.Time) ([]finance.CategoryTotal, error) {
	st, err := s.session.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return state.SelectSpendingByCategory(st, r, now), nil
}

// QueryTransactions stores the query as the session's filters, sort and
// page position and returns the resulting page.
func (s *dashboardService) QueryTransactions(ctx context.Context, userID string, q TransactionQuery) (*state.TransactionPage, error) {
	if _, err := s.session.Load(ctx, userID); err != nil {
		return nil, err
	}

	actions := []state.Action{state.SetFilters{Filters: q.Filter}}
	if q.Sort != nil {
		actions = append(actions, state.SetSortBy{SortBy: *q.Sort})
	}
	actions = append(actions, state.SetPagination{Page: q.Page, Limit: q.Limit})

	st := s.store.GetOrCreate(userID).Dispatch(actions...)
	page := state.SelectTransactionPage(st)
	return &page, nil
}

// ResetTransactionQuery clears the session's filters.
func (s *dashboardService) ResetTransactionQuery(ctx context.Context, userID string) (*state.TransactionPage, error) {
	if _, err := s.session.Load(ctx, userID); err != nil {
		return nil, err
	}
	st := s.store.GetOrCreate(userID).Dispatch(state.ResetFilters{})
	page := state.SelectTransactionPage(st)
	return &page, nil
}

func (s *dashboardService) GetSelection(ctx context.Context, userID string) (*state.Selection, error) {
	st, err := s.session.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	sel := state.SelectSelection(st)
	return &sel, nil
}

// selectionMissing maps each selectable slice to its not-found error.
var selectionMissing = map[state.Slice]*apperrors.AppError{
	state.SliceAccounts:     apperrors.ErrAccountNotFound,
	state.SliceTransactions: apperrors.ErrTransactionNotFound,
	state.SliceBudgets:      apperrors.ErrBudgetNotFound,
	state.SliceGoals:        apperrors.ErrGoalNotFound,
}

// Select marks the record id as selected in the kind slice. An empty id
// clears the selection. The selection is dropped again when the record is
// removed.
func (s *dashboardService) Select(ctx context.Context, userID string, kind state.Slice, id string) (*state.Selection, error) {
	action, ok := state.SelectIn(kind, id)
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown selection kind: "+string(kind))
	}
	st, err := s.session.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if id != "" && !state.HasItem(st, kind, id) {
		return nil, selectionMissing[kind]
	}
	st = s.store.GetOrCreate(userID).Dispatch(action)
	sel := state.SelectSelection(st)
	return &sel, nil
}

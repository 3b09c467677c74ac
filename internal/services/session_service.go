package services

import (
	"context"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	apperrors "finboard/internal/errors"
	"finboard/internal/logger"
	"finboard/internal/state"
)

// SessionSources are the services a session load reads from.
type SessionSources struct {
	Users         UserServicer
	Accounts      AccountServicer
	Transactions  TransactionServicer
	Budgets       BudgetServicer
	Goals         GoalServicer
	Preferences   PreferencesServicer
	Notifications NotificationServicer
}

// maxLoadPasses bounds how often a load restarts because mutations landed
// while it ran.
const maxLoadPasses = 3

// sessionService fills a user's in-memory state from the database.
type sessionService struct {
	store    *state.Registry
	sources  SessionSources
	limit    int
	inflight singleflight.Group
}

// NewSessionService creates a new SessionServicer. limit caps the number of
// concurrent fetches per load; zero means no cap.
func NewSessionService(store *state.Registry, sources SessionSources, limit int) SessionServicer {
	return &sessionService{store: store, sources: sources, limit: limit}
}

// Load returns the user's state, fetching every collection on first access.
// Concurrent callers share one fetch and all wait for it. A failed fetch
// marks its slice with an error and keeps the previous data. A cancelled
// first load discards the session so the next call starts over.
func (s *sessionService) Load(ctx context.Context, userID string) (state.State, error) {
	if c, ok := s.store.Get(userID); ok && c.Loaded() {
		return c.State(), nil
	}
	return s.load(ctx, userID, false)
}

// Reload fetches every collection again.
func (s *sessionService) Reload(ctx context.Context, userID string) (state.State, error) {
	return s.load(ctx, userID, true)
}

func (s *sessionService) load(ctx context.Context, userID string, force bool) (state.State, error) {
	if err := ctx.Err(); err != nil {
		return state.State{}, apperrors.Wrap(apperrors.ErrSessionNotLoaded, err)
	}

	ch := s.inflight.DoChan(userID, func() (interface{}, error) {
		c := s.store.GetOrCreate(userID)
		if !force && c.Loaded() {
			return c.State(), nil
		}
		first := !c.Loaded()
		for pass := 1; ; pass++ {
			c.BeginLoad()
			err := s.fetch(ctx, c, userID)
			stale := c.EndLoad(err == nil)
			if err != nil {
				if first {
					s.store.Drop(userID)
				}
				return nil, err
			}
			if !stale || pass == maxLoadPasses {
				return c.State(), nil
			}
		}
	})

	select {
	case <-ctx.Done():
		return state.State{}, apperrors.Wrap(apperrors.ErrSessionNotLoaded, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return state.State{}, res.Err
		}
		return res.Val.(state.State), nil
	}
}

// End signs the user out of their in-memory state and discards it. Requests
// still holding the controller see an empty, signed-out state.
func (s *sessionService) End(userID string) {
	if c, ok := s.store.Get(userID); ok {
		c.Fill(
			state.ClearUser{},
			state.ClearSlice{Slice: state.SliceAccounts},
			state.ClearSlice{Slice: state.SliceTransactions},
			state.ClearSlice{Slice: state.SliceBudgets},
			state.ClearSlice{Slice: state.SliceGoals},
			state.ClearSlice{Slice: state.SliceUI},
		)
	}
	s.store.Drop(userID)
}

type fetchTask struct {
	slice state.Slice
	load  func() ([]state.Action, error)
}

func (s *sessionService) fetch(ctx context.Context, c *state.Controller, userID string) error {
	tasks := s.tasks(userID)
	log := logger.With("user_id", userID)

	for _, t := range tasks {
		c.Fill(state.SetLoading{Slice: t.slice, Loading: true})
	}

	var g errgroup.Group
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}
	for _, t := range tasks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				c.Fill(state.SetError{Slice: t.slice, Err: err.Error()})
				return nil
			}
			actions, err := t.load()
			if err != nil {
				log.Errorw("session fetch failed", "slice", t.slice, "error", err)
				c.Fill(state.SetError{Slice: t.slice, Err: err.Error()})
				return nil
			}
			c.Fill(append(actions, state.SetLoading{Slice: t.slice, Loading: false})...)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrSessionNotLoaded, err)
	}
	return nil
}

func (s *sessionService) tasks(userID string) []fetchTask {
	src := s.sources
	return []fetchTask{
		{state.SliceAuth, func() ([]state.Action, error) {
			user, err := src.Users.GetUserByID(userID)
			if err != nil {
				return nil, err
			}
			return []state.Action{state.SetUser{User: profileOf(user)}}, nil
		}},
		{state.SliceAccounts, func() ([]state.Action, error) {
			accounts, err := src.Accounts.ListAccounts(userID)
			if err != nil {
				return nil, err
			}
			return []state.Action{state.SetAccounts{Accounts: accounts}}, nil
		}},
		{state.SliceTransactions, func() ([]state.Action, error) {
			transactions, err := src.Transactions.ListTransactions(userID)
			if err != nil {
				return nil, err
			}
			return []state.Action{state.SetTransactions{Transactions: transactions}}, nil
		}},
		{state.SliceBudgets, func() ([]state.Action, error) {
			budgets, err := src.Budgets.ListBudgets(userID)
			if err != nil {
				return nil, err
			}
			return []state.Action{state.SetBudgets{Budgets: budgets}}, nil
		}},
		{state.SliceGoals, func() ([]state.Action, error) {
			goals, err := src.Goals.ListGoals(userID)
			if err != nil {
				return nil, err
			}
			return []state.Action{state.SetGoals{Goals: goals}}, nil
		}},
		{state.SliceUI, func() ([]state.Action, error) {
			prefs, err := src.Preferences.GetPreferences(userID)
			if err != nil {
				return nil, err
			}
			widgets, err := src.Preferences.GetWidgets(userID)
			if err != nil {
				return nil, err
			}
			notifications, err := src.Notifications.ListNotifications(userID)
			if err != nil {
				return nil, err
			}
			return []state.Action{
				state.SetPreferences{Preferences: *prefs},
				state.SetBudgetMethod{Method: prefs.BudgetMethod},
				state.SetWidgets{Widgets: widgets},
				state.SetNotifications{Notifications: notifications},
			}, nil
		}},
	}
}

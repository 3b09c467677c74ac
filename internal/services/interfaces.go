package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/finance"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/state"
)

// Dispatcher forwards persisted changes to the user's in-memory dashboard
// state. *state.Registry satisfies it.
type Dispatcher interface {
	Dispatch(userID string, actions ...state.Action)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID string, displayName, photoURL *string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	RevokeRefreshToken(userID string) error
}

// AccountInput holds the fields of a new account.
type AccountInput struct {
	Name        string
	Institution string
	Type        models.AccountType
	Balance     decimal.Decimal
	Currency    string
}

// AccountUpdateFields holds optional fields for updating an account.
type AccountUpdateFields struct {
	Name        *string
	Institution *string
	Type        *models.AccountType
	Currency    *string
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID string, in AccountInput) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	ListAccounts(userID string) ([]models.Account, error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	UpdateAccountBalance(userID, accountID string, balance decimal.Decimal) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
}

// TransactionInput holds the fields of a new transaction.
type TransactionInput struct {
	AccountID   string
	Date        time.Time
	Amount      decimal.Decimal
	Description string
	Category    string
	Note        string
	Type        models.TransactionKind
	IsRecurring bool
	RecurringID string
	Frequency   models.Frequency
}

// TransactionUpdateFields holds optional fields for updating a transaction.
type TransactionUpdateFields struct {
	AccountID   *string
	Date        *time.Time
	Amount      *decimal.Decimal
	Description *string
	Category    *string
	Note        *string
	Type        *models.TransactionKind
	IsRecurring *bool
	RecurringID *string
	Frequency   *models.Frequency
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID string, in TransactionInput) (*models.Transaction, error)
	BatchCreateTransactions(userID string, inputs []TransactionInput) ([]models.Transaction, error)
	GetUserTransactions(userID string, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error)
	GetAccountTransactions(userID, accountID string, page pagination.PageRequest, filter finance.Filter) (*pagination.PageResponse[models.Transaction], error)
	ListTransactions(userID string) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID string, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// BudgetCategoryInput is one allocation of a new or replaced budget.
type BudgetCategoryInput struct {
	Name   string
	Amount decimal.Decimal
}

// BudgetInput holds the fields of a new budget.
type BudgetInput struct {
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	Categories []BudgetCategoryInput
}

// BudgetUpdateFields holds optional fields for updating a budget. A non-nil
// Categories replaces every allocation.
type BudgetUpdateFields struct {
	Name       *string
	StartDate  *time.Time
	EndDate    *time.Time
	Categories []BudgetCategoryInput
}

// BudgetProgress contains spending vs budget data for one budget.
type BudgetProgress struct {
	BudgetID    string                     `json:"budget_id"`
	Performance finance.Performance        `json:"performance"`
	Categories  []finance.CategoryProgress `json:"categories"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID string, in BudgetInput) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error)
	ListBudgets(userID string) ([]models.Budget, error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error)
	UpdateCategoryAmount(userID, budgetID, categoryID string, amount decimal.Decimal) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error)
}

// GoalInput holds the fields of a new goal.
type GoalInput struct {
	Name         string
	Category     string
	Priority     int
	TargetAmount decimal.Decimal
}

// GoalUpdateFields holds optional fields for updating a goal.
type GoalUpdateFields struct {
	Name         *string
	Category     *string
	Priority     *int
	TargetAmount *decimal.Decimal
}

// ContributionInput holds the fields of a new goal contribution.
type ContributionInput struct {
	Amount decimal.Decimal
	Date   time.Time
	Note   string
}

// GoalServicer defines the contract for savings-goal business logic.
type GoalServicer interface {
	CreateGoal(userID string, in GoalInput) (*models.Goal, error)
	GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	ListGoals(userID string) ([]models.Goal, error)
	GetGoalByID(userID, goalID string) (*models.Goal, error)
	UpdateGoal(userID, goalID string, fields GoalUpdateFields) (*models.Goal, error)
	DeleteGoal(userID, goalID string) error
	AddContribution(userID, goalID string, in ContributionInput) (*models.GoalContribution, error)
	RemoveContribution(userID, goalID, contributionID string) error
	GetGoalProgress(userID, goalID string, now time.Time) (*finance.GoalProgress, error)
}

// PreferencesUpdateFields holds optional fields for updating preferences.
type PreferencesUpdateFields struct {
	Currency            *string
	Locale              *string
	DateFormat          *string
	StartOfWeek         *string
	BudgetMethod        *models.BudgetMethod
	NotifyEmail         *bool
	NotifyPush          *bool
	NotifyBudgetAlerts  *bool
	NotifyGoalReminders *bool
	NotifyBillReminders *bool
}

// PreferencesServicer defines the contract for user settings and the
// dashboard layout.
type PreferencesServicer interface {
	GetPreferences(userID string) (*models.UserPreferences, error)
	UpdatePreferences(userID string, fields PreferencesUpdateFields) (*models.UserPreferences, error)
	GetWidgets(userID string) ([]models.DashboardWidget, error)
	SetWidgetVisibility(userID, widgetID string, visible bool) ([]models.DashboardWidget, error)
	ReorderWidgets(userID string, widgetIDs []string) ([]models.DashboardWidget, error)
}

// NotificationInput holds the fields of a new notification.
type NotificationInput struct {
	Kind    models.NotificationKind
	Title   string
	Message string
}

// NotificationServicer defines the contract for in-app notifications.
type NotificationServicer interface {
	CreateNotification(userID string, in NotificationInput) (*models.Notification, error)
	GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error)
	ListNotifications(userID string) ([]models.Notification, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
	DeleteNotification(userID, notificationID string) error
	ClearNotifications(userID string) error
}

// SessionServicer loads and discards a user's in-memory dashboard state.
type SessionServicer interface {
	Load(ctx context.Context, userID string) (state.State, error)
	Reload(ctx context.Context, userID string) (state.State, error)
	End(userID string)
}

// TransactionQuery is a filtered, sorted page request over the session's
// transactions. A nil Sort keeps the current order.
type TransactionQuery struct {
	Filter finance.Filter
	Sort   *finance.SortOrder
	Page   int
	Limit  int
}

// DashboardServicer serves the dashboard aggregates from session state.
type DashboardServicer interface {
	GetDashboard(ctx context.Context, userID string, r finance.TimeRange, now time.Time) (*state.Dashboard, error)
	GetAccountSummary(ctx context.Context, userID string) (*finance.AccountSummary, error)
	GetBudgetOverview(ctx context.Context, userID string) (*state.BudgetOverview, error)
	SetActiveBudgetPeriod(ctx context.Context, userID string, period *finance.Period) (*state.BudgetOverview, error)
	GetGoalsProgress(ctx context.Context, userID string, now time.Time) ([]finance.GoalProgress, error)
	GetUpcomingBills(ctx context.Context, userID string, now time.Time) ([]finance.Bill, error)
	GetSpendingByCategory(ctx context.Context, userID string, r finance.TimeRange, now time.Time) ([]finance.CategoryTotal, error)
	QueryTransactions(ctx context.Context, userID string, q TransactionQuery) (*state.TransactionPage, error)
	ResetTransactionQuery(ctx context.Context, userID string) (*state.TransactionPage, error)
	GetSelection(ctx context.Context, userID string) (*state.Selection, error)
	Select(ctx context.Context, userID string, kind state.Slice, id string) (*state.Selection, error)
}

// SnapshotServicer records and lists net worth history.
type SnapshotServicer interface {
	ComputeAndRecordSnapshots(recordedAt time.Time) (int, error)
	GetSnapshots(userID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.NetWorthSnapshot], error)
}

// ReminderServicer turns bills that are due soon into notifications.
type ReminderServicer interface {
	SendBillReminders(ctx context.Context, now time.Time) (int, error)
}

// Categories lists the category names in use by a user.
type Categories struct {
	Transaction []string `json:"transaction"`
	Budget      []string `json:"budget"`
	Goal        []string `json:"goal"`
}

// CategoryServicer defines the contract for category lookups.
type CategoryServicer interface {
	GetUserCategories(userID string) (*Categories, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}

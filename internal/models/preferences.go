package models

// Dashboard widget identifiers.
const (
	WidgetAccountSummary     = "account-summary"
	WidgetRecentTransactions = "recent-transactions"
	WidgetBudgetOverview     = "budget-overview"
	WidgetGoalsProgress      = "goals-progress"
	WidgetSpendingTrends     = "spending-trends"
	WidgetUpcomingBills      = "upcoming-bills"
)

// UserPreferences holds per-user display and notification settings.
type UserPreferences struct {
	Base
	UserID       string       `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Currency     string       `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Locale       string       `gorm:"not null;default:'en-US'" json:"locale"`
	DateFormat   string       `gorm:"not null;default:'MM/DD/YYYY'" json:"date_format"`
	StartOfWeek  string       `gorm:"not null;default:'sunday'" json:"start_of_week"`
	BudgetMethod BudgetMethod `gorm:"not null;default:'category'" json:"budget_method"`

	NotifyEmail         bool `json:"notify_email"`
	NotifyPush          bool `json:"notify_push"`
	NotifyBudgetAlerts  bool `json:"notify_budget_alerts"`
	NotifyGoalReminders bool `json:"notify_goal_reminders"`
	NotifyBillReminders bool `json:"notify_bill_reminders"`
}

// DefaultPreferences returns the settings a new user starts with.
func DefaultPreferences(userID string) UserPreferences {
	return UserPreferences{
		UserID:              userID,
		Currency:            "USD",
		Locale:              "en-US",
		DateFormat:          "MM/DD/YYYY",
		StartOfWeek:         "sunday",
		BudgetMethod:        BudgetMethodCategory,
		NotifyEmail:         true,
		NotifyPush:          true,
		NotifyBudgetAlerts:  true,
		NotifyGoalReminders: true,
		NotifyBillReminders: true,
	}
}

// DashboardWidget is one entry of a user's dashboard layout.
type DashboardWidget struct {
	Base
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:uq_widget_user" json:"-"`
	WidgetID string `gorm:"not null;uniqueIndex:uq_widget_user" json:"id"`
	Visible  bool   `json:"visible"`
	Order    int    `gorm:"column:position" json:"order"`
}

// DefaultWidgets returns the layout a new user starts with.
func DefaultWidgets(userID string) []DashboardWidget {
	ids := []string{
		WidgetAccountSummary,
		WidgetRecentTransactions,
		WidgetBudgetOverview,
		WidgetGoalsProgress,
		WidgetSpendingTrends,
		WidgetUpcomingBills,
	}
	widgets := make([]DashboardWidget, len(ids))
	for i, id := range ids {
		widgets[i] = DashboardWidget{UserID: userID, WidgetID: id, Visible: true, Order: i + 1}
	}
	return widgets
}

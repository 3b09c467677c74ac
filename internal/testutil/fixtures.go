package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finboard/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Dec parses a decimal literal, failing loudly on typos in test data.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Date returns midnight UTC on the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       email,
		Password:    string(hash),
		DisplayName: fmt.Sprintf("Test User %d", nextID()),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an account of the given type and balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string, accountType models.AccountType, balance string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Account %d", nextID()),
		Institution: "Test Bank",
		Type:        accountType,
		Balance:     Dec(balance),
		Currency:    "USD",
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestTransaction creates a normal transaction. Negative amounts are
// expenses.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID, amount, category string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Date:        date,
		Amount:      Dec(amount),
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Category:    category,
		Type:        models.TransactionKindNormal,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestRecurringTransaction creates a recurring expense with the given
// frequency.
func CreateTestRecurringTransaction(t *testing.T, db *gorm.DB, userID, accountID string, date time.Time, frequency models.Frequency) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Date:        date,
		Amount:      Dec("-100"),
		Description: fmt.Sprintf("Test Bill %d", nextID()),
		Category:    "Utilities",
		Type:        models.TransactionKindNormal,
		IsRecurring: true,
		Frequency:   frequency,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test recurring transaction: %v", err)
	}
	return tx
}

// CreateTestBudget creates a budget over the given range with one category
// per name, each allocated amount.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, start, end time.Time, amount string, categories ...string) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:    userID,
		Name:      fmt.Sprintf("Test Budget %d", nextID()),
		StartDate: start,
		EndDate:   end,
	}
	for _, name := range categories {
		budget.Categories = append(budget.Categories, models.BudgetCategory{Name: name, Amount: Dec(amount)})
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates a goal with the given target and contributions.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID, target string, contributions ...models.GoalContribution) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		Category:      "Other",
		TargetAmount:  Dec(target),
		Contributions: contributions,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// Contribution builds an unsaved goal contribution.
func Contribution(amount string, date time.Time) models.GoalContribution {
	return models.GoalContribution{Amount: Dec(amount), Date: date}
}

// CreateTestNotification creates an unread notification.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID string, kind models.NotificationKind) *models.Notification {
	t.Helper()

	n := &models.Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   fmt.Sprintf("Test Notification %d", nextID()),
		Message: "test",
	}
	if err := db.Create(n).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return n
}

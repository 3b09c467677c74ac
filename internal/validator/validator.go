// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"slices"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/currency"

	"finboard/internal/finance"
	"finboard/internal/models"
)

// dateFormatRegex accepts layouts built from MM, DD, YY or YYYY and the
// separators / - . and space, such as MM/DD/YYYY or YYYY-MM-DD.
var dateFormatRegex = regexp.MustCompile(`^(MM|DD|YYYY|YY)([/\-. ](MM|DD|YYYY|YY)){2}$`)

var widgetIDs = []string{
	models.WidgetAccountSummary,
	models.WidgetRecentTransactions,
	models.WidgetBudgetOverview,
	models.WidgetGoalsProgress,
	models.WidgetSpendingTrends,
	models.WidgetUpcomingBills,
}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("account_type", validateAccountType)
	_ = v.RegisterValidation("transaction_kind", validateTransactionKind)
	_ = v.RegisterValidation("frequency", validateFrequency)
	_ = v.RegisterValidation("goal_category", validateGoalCategory)
	_ = v.RegisterValidation("time_range", validateTimeRange)
	_ = v.RegisterValidation("budget_method", validateBudgetMethod)
	_ = v.RegisterValidation("date_format", validateDateFormat)
	_ = v.RegisterValidation("widget_id", validateWidgetID)
	_ = v.RegisterValidation("type_filter", validateTypeFilter)
	_ = v.RegisterValidation("sort_field", validateSortField)
	_ = v.RegisterValidation("sort_direction", validateSortDirection)
	_ = v.RegisterValidation("start_of_week", validateStartOfWeek)
}

func validateISO4217(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != 3 {
		return false
	}
	_, err := currency.ParseISO(s)
	return err == nil
}

func validateAccountType(fl validator.FieldLevel) bool {
	return slices.Contains(models.AccountTypes, models.AccountType(fl.Field().String()))
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	switch models.TransactionKind(fl.Field().String()) {
	case models.TransactionKindNormal, models.TransactionKindTransfer:
		return true
	}
	return false
}

func validateFrequency(fl validator.FieldLevel) bool {
	switch models.Frequency(fl.Field().String()) {
	case models.FrequencyWeekly, models.FrequencyBiweekly, models.FrequencyMonthly,
		models.FrequencyQuarterly, models.FrequencyAnnually:
		return true
	}
	return false
}

func validateGoalCategory(fl validator.FieldLevel) bool {
	return slices.Contains(models.GoalCategories, fl.Field().String())
}

func validateTimeRange(fl validator.FieldLevel) bool {
	switch finance.TimeRange(fl.Field().String()) {
	case finance.RangeWeek, finance.RangeMonth, finance.RangeYear:
		return true
	}
	return false
}

func validateBudgetMethod(fl validator.FieldLevel) bool {
	switch models.BudgetMethod(fl.Field().String()) {
	case models.BudgetMethodCategory, models.BudgetMethodZeroBased, models.BudgetMethodFiftyThirty:
		return true
	}
	return false
}

func validateDateFormat(fl validator.FieldLevel) bool {
	return dateFormatRegex.MatchString(fl.Field().String())
}

func validateWidgetID(fl validator.FieldLevel) bool {
	return slices.Contains(widgetIDs, fl.Field().String())
}

func validateTypeFilter(fl validator.FieldLevel) bool {
	switch finance.TypeFilter(fl.Field().String()) {
	case finance.TypeAll, finance.TypeIncome, finance.TypeExpense, finance.TypeTransfer:
		return true
	}
	return false
}

func validateSortField(fl validator.FieldLevel) bool {
	switch finance.SortField(fl.Field().String()) {
	case finance.SortByDate, finance.SortByAmount, finance.SortByDescription,
		finance.SortByCategory, finance.SortByAccount:
		return true
	}
	return false
}

func validateSortDirection(fl validator.FieldLevel) bool {
	switch finance.SortDirection(fl.Field().String()) {
	case finance.SortAsc, finance.SortDesc:
		return true
	}
	return false
}

func validateStartOfWeek(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "sunday", "monday":
		return true
	}
	return false
}

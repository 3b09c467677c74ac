// Package errors defines the AppError type returned by finboard services.
// Handlers render an AppError as {"error": {"code", "message"}}; anything
// else is reported as INTERNAL_ERROR.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError is a client-safe error. Internal carries the underlying cause for
// logs and never reaches the response body.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError with the same code, so copies made
// by Wrap and WithMessage still match their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Wrap copies sentinel and attaches internal as the cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	wrapped := *sentinel
	wrapped.Internal = internal
	return &wrapped
}

// WithMessage copies sentinel with a client-facing message.
func WithMessage(sentinel *AppError, message string) *AppError {
	msg := *sentinel
	msg.Message = message
	return &msg
}

// CodeOf returns the AppError code in err's chain, or INTERNAL_ERROR.
func CodeOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternalServer.Code
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Account errors.
var (
	ErrAccountNotFound    = &AppError{Code: "ACCOUNT_NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrInvalidAccountType = &AppError{Code: "INVALID_ACCOUNT_TYPE", Message: "Unsupported account type", StatusCode: http.StatusBadRequest}
	ErrAccountInUse       = &AppError{Code: "ACCOUNT_IN_USE", Message: "Account has transactions", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrTransactionNotFound    = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidTransactionType = &AppError{Code: "INVALID_TRANSACTION_TYPE", Message: "Unsupported transaction type", StatusCode: http.StatusBadRequest}
	ErrInvalidFrequency       = &AppError{Code: "INVALID_FREQUENCY", Message: "Unsupported recurrence frequency", StatusCode: http.StatusBadRequest}
	ErrInvalidFilter          = &AppError{Code: "INVALID_FILTER", Message: "Invalid transaction filter", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound          = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrBudgetCategoryNotFound  = &AppError{Code: "BUDGET_CATEGORY_NOT_FOUND", Message: "Budget category not found", StatusCode: http.StatusNotFound}
	ErrInvalidBudgetPeriod     = &AppError{Code: "INVALID_BUDGET_PERIOD", Message: "Budget end date must not be before its start date", StatusCode: http.StatusBadRequest}
	ErrDuplicateBudgetCategory = &AppError{Code: "DUPLICATE_BUDGET_CATEGORY", Message: "Budget category names must be unique", StatusCode: http.StatusConflict}
)

// Goal errors.
var (
	ErrGoalNotFound         = &AppError{Code: "GOAL_NOT_FOUND", Message: "Goal not found", StatusCode: http.StatusNotFound}
	ErrContributionNotFound = &AppError{Code: "CONTRIBUTION_NOT_FOUND", Message: "Contribution not found", StatusCode: http.StatusNotFound}
	ErrInvalidGoalCategory  = &AppError{Code: "INVALID_GOAL_CATEGORY", Message: "Unsupported goal category", StatusCode: http.StatusBadRequest}
)

// Dashboard and preference errors.
var (
	ErrNotificationNotFound = &AppError{Code: "NOTIFICATION_NOT_FOUND", Message: "Notification not found", StatusCode: http.StatusNotFound}
	ErrWidgetNotFound       = &AppError{Code: "WIDGET_NOT_FOUND", Message: "Dashboard widget not found", StatusCode: http.StatusNotFound}
	ErrSessionNotLoaded     = &AppError{Code: "SESSION_NOT_LOADED", Message: "Dashboard session could not be loaded", StatusCode: http.StatusServiceUnavailable}
	ErrRateLimited          = &AppError{Code: "RATE_LIMITED", Message: "Too many requests", StatusCode: http.StatusTooManyRequests}
)

package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/middleware"
	"finboard/internal/uuid"
)

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// parsePathID reads a UUID path parameter.
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseFlexibleTime accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
func parseFlexibleTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("invalid date format, use RFC3339 or YYYY-MM-DD")
	}
	return t, nil
}

// parseOptionalTime parses s when it is set.
func parseOptionalTime(s *string, field string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(*s)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+field+" format, use RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

// transactionFilterQuery holds the transaction filter query parameters.
// Categories and account ids are comma separated.
type transactionFilterQuery struct {
	FromDate   string `form:"from_date"`
	ToDate     string `form:"to_date"`
	Type       string `form:"type" binding:"omitempty,type_filter"`
	Categories string `form:"categories"`
	AccountIDs string `form:"account_ids"`
	Search     string `form:"search" binding:"max=200"`
	MinAmount  string `form:"min_amount"`
	MaxAmount  string `form:"max_amount"`
}

// parseTransactionFilter reads the transaction filter query parameters.
func parseTransactionFilter(c *gin.Context) (finance.Filter, error) {
	var filter finance.Filter
	var q transactionFilterQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidFilter, err.Error())
	}

	if q.FromDate != "" {
		t, err := parseFlexibleTime(q.FromDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidFilter, "invalid from_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.StartDate = &t
	}

	if q.ToDate != "" {
		t, err := parseFlexibleTime(q.ToDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidFilter, "invalid to_date format, use RFC3339 or YYYY-MM-DD")
		}
		filter.EndDate = &t
	}

	filter.Type = finance.TypeFilter(q.Type)
	filter.Categories = splitQuery(q.Categories)
	filter.AccountIDs = splitQuery(q.AccountIDs)
	filter.Search = strings.TrimSpace(q.Search)

	if q.MinAmount != "" {
		amt, err := decimal.NewFromString(q.MinAmount)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidFilter, "invalid min_amount")
		}
		filter.MinAmount = &amt
	}

	if q.MaxAmount != "" {
		amt, err := decimal.NewFromString(q.MaxAmount)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidFilter, "invalid max_amount")
		}
		filter.MaxAmount = &amt
	}

	return filter, nil
}

func splitQuery(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// rangeQuery selects the spending window.
type rangeQuery struct {
	Range string `form:"range" binding:"omitempty,time_range"`
}

// parseTimeRange reads the spending window, defaulting to a month.
func parseTimeRange(c *gin.Context) (finance.TimeRange, error) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid range, must be week, month, or year")
	}
	if q.Range == "" {
		return finance.RangeMonth, nil
	}
	return finance.TimeRange(q.Range), nil
}

// respondWithError writes the JSON error body for err.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}

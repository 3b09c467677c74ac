package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/services"
	"finboard/internal/state"
)

// DashboardHandler serves the dashboard aggregates built from the user's
// session state.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
	sessionService   services.SessionServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer, sessionService services.SessionServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, sessionService: sessionService}
}

// BudgetPeriodRequest selects the period used for budget performance. Sending
// no dates clears the selection.
type BudgetPeriodRequest struct {
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

// transactionListQuery holds the paging and sort query parameters
type transactionListQuery struct {
	Page    int    `form:"page" binding:"omitempty,min=1"`
	Limit   int    `form:"limit" binding:"omitempty,min=1,max=200"`
	SortBy  string `form:"sort_by" binding:"omitempty,sort_field"`
	SortDir string `form:"sort_dir" binding:"omitempty,sort_direction"`
}

// GetDashboard returns every visible widget in one response
// @Summary     Get dashboard
// @Description Get the aggregates for every visible widget. Loads the session on first access.
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       range query string false "Spending window: week, month or year (default month)"
// @Success     200 {object} state.Dashboard "Dashboard"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	r, err := parseTimeRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(c.Request.Context(), userID, r, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetAccountSummary returns net worth totals
// @Summary     Get account summary
// @Description Get total assets, total liabilities and net worth
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} finance.AccountSummary "Account summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/accounts-summary [get]
func (h *DashboardHandler) GetAccountSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.GetAccountSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// GetBudgetOverview returns budget performance for the selected period
// @Summary     Get budget overview
// @Description Get budget totals and per-category progress of the current budget
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} state.BudgetOverview "Budget overview"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/budget-overview [get]
func (h *DashboardHandler) GetBudgetOverview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	overview, err := h.dashboardService.GetBudgetOverview(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// SetBudgetPeriod selects the period for budget performance
// @Summary     Set active budget period
// @Description Limit budget performance to budgets overlapping a period. Send no dates to clear.
// @Tags        dashboard
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetPeriodRequest true "Period"
// @Success     200 {object} state.BudgetOverview "Budget overview"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/budget-period [put]
func (h *DashboardHandler) SetBudgetPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	start, err := parseOptionalTime(req.StartDate, "start_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseOptionalTime(req.EndDate, "end_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var period *finance.Period
	switch {
	case start == nil && end == nil:
	case start == nil || end == nil:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date and end_date must be sent together"))
		return
	case end.Before(*start):
		respondWithError(c, apperrors.ErrInvalidBudgetPeriod)
		return
	default:
		period = &finance.Period{Start: *start, End: *end}
	}

	overview, err := h.dashboardService.SetActiveBudgetPeriod(c.Request.Context(), userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// GetGoalsProgress returns progress for every goal
// @Summary     Get goals progress
// @Description Get derived progress of every goal, highest priority first
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  finance.GoalProgress "Goals progress"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/goals [get]
func (h *DashboardHandler) GetGoalsProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.dashboardService.GetGoalsProgress(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": goals})
}

// GetUpcomingBills returns bills due in the next 30 days
// @Summary     Get upcoming bills
// @Description Get the next due date of every recurring expense due within 30 days
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  finance.Bill "Upcoming bills"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/upcoming-bills [get]
func (h *DashboardHandler) GetUpcomingBills(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	bills, err := h.dashboardService.GetUpcomingBills(c.Request.Context(), userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

// GetSpendingByCategory returns expense totals per category
// @Summary     Get spending by category
// @Description Get expense totals per category over a trailing window, largest first
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       range query string false "week, month or year (default month)"
// @Success     200 {array}  finance.CategoryTotal "Spending"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/spending [get]
func (h *DashboardHandler) GetSpendingByCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	r, err := parseTimeRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	spending, err := h.dashboardService.GetSpendingByCategory(c.Request.Context(), userID, r, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"range": r, "spending": spending})
}

// QueryTransactions filters, sorts and pages the session's transactions
// @Summary     Query dashboard transactions
// @Description Apply filters, sort and paging to the session's transactions. The query is remembered for the session.
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number"
// @Param       limit       query int    false "Items per page (max 200)"
// @Param       sort_by     query string false "date, amount, description, category or account"
// @Param       sort_dir    query string false "asc or desc (default desc)"
// @Param       from_date   query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       type        query string false "all, income, expense or transfer"
// @Param       categories  query string false "Comma separated category names"
// @Param       account_ids query string false "Comma separated account IDs"
// @Param       search      query string false "Matches description, category or note"
// @Param       min_amount  query string false "Minimum signed amount"
// @Param       max_amount  query string false "Maximum signed amount"
// @Success     200 {object} state.TransactionPage "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/transactions [get]
func (h *DashboardHandler) QueryTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q transactionListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidFilter, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	query := services.TransactionQuery{Filter: filter, Page: q.Page, Limit: q.Limit}
	if q.SortBy != "" {
		order := finance.SortOrder{Field: finance.SortField(q.SortBy), Direction: finance.SortDesc}
		if q.SortDir != "" {
			order.Direction = finance.SortDirection(q.SortDir)
		}
		query.Sort = &order
	}

	page, err := h.dashboardService.QueryTransactions(c.Request.Context(), userID, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// ResetTransactionFilters clears the remembered transaction filters
// @Summary     Reset dashboard transaction filters
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} state.TransactionPage "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/transactions/filters [delete]
func (h *DashboardHandler) ResetTransactionFilters(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := h.dashboardService.ResetTransactionQuery(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetSelection returns the record selected on each list
// @Summary     Get selected records
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} state.Selection "Selected records"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/selection [get]
func (h *DashboardHandler) GetSelection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sel, err := h.dashboardService.GetSelection(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, sel)
}

// SelectRecord selects a record on one list
// @Summary     Select record
// @Description kind is one of accounts, transactions, budgets, goals
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "List" Enums(accounts, transactions, budgets, goals)
// @Param       id   path string true "Record ID"
// @Success     200 {object} state.Selection "Selected records"
// @Failure     400 {object} ErrorResponse "Invalid kind or ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Record not found"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/selection/{kind}/{id} [put]
func (h *DashboardHandler) SelectRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	sel, err := h.dashboardService.Select(c.Request.Context(), userID, state.Slice(c.Param("kind")), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, sel)
}

// ClearSelection clears the selection on one list
// @Summary     Clear selected record
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Param       kind path string true "List" Enums(accounts, transactions, budgets, goals)
// @Success     200 {object} state.Selection "Selected records"
// @Failure     400 {object} ErrorResponse "Invalid kind"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /dashboard/selection/{kind} [delete]
func (h *DashboardHandler) ClearSelection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sel, err := h.dashboardService.Select(c.Request.Context(), userID, state.Slice(c.Param("kind")), "")
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, sel)
}

// ReloadSession fetches every collection again
// @Summary     Reload session
// @Description Refetch accounts, transactions, budgets, goals and settings into the session
// @Tags        dashboard
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Session reloaded"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Session could not be loaded"
// @Router      /session/reload [post]
func (h *DashboardHandler) ReloadSession(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	st, err := h.sessionService.Reload(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session reloaded", "errors": state.SelectErrors(st)})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finboard/internal/errors"
	"finboard/internal/models"
	"finboard/internal/services"
)

// PreferencesHandler handles user settings and dashboard layout requests.
type PreferencesHandler struct {
	preferencesService services.PreferencesServicer
	auditService       services.AuditServicer
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(preferencesService services.PreferencesServicer, auditService services.AuditServicer) *PreferencesHandler {
	return &PreferencesHandler{preferencesService: preferencesService, auditService: auditService}
}

// UpdatePreferencesRequest represents the request payload for updating preferences
type UpdatePreferencesRequest struct {
	Currency            *string `json:"currency" binding:"omitempty,iso4217"`
	Locale              *string `json:"locale" binding:"omitempty,bcp47_language_tag"`
	DateFormat          *string `json:"date_format" binding:"omitempty,date_format"`
	StartOfWeek         *string `json:"start_of_week" binding:"omitempty,start_of_week"`
	BudgetMethod        *string `json:"budget_method" binding:"omitempty,budget_method"`
	NotifyEmail         *bool   `json:"notify_email"`
	NotifyPush          *bool   `json:"notify_push"`
	NotifyBudgetAlerts  *bool   `json:"notify_budget_alerts"`
	NotifyGoalReminders *bool   `json:"notify_goal_reminders"`
	NotifyBillReminders *bool   `json:"notify_bill_reminders"`
}

// WidgetVisibilityRequest shows or hides a widget
type WidgetVisibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// ReorderWidgetsRequest lists widget IDs in their new display order
type ReorderWidgetsRequest struct {
	WidgetIDs []string `json:"widget_ids" binding:"required,min=1,max=20,dive,required"`
}

// GetPreferences returns the user's settings
// @Summary     Get preferences
// @Description Get display and notification settings. Defaults are created on first access.
// @Tags        preferences
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserPreferences "Preferences"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences [get]
func (h *PreferencesHandler) GetPreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	prefs, err := h.preferencesService.GetPreferences(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// UpdatePreferences changes the user's settings
// @Summary     Update preferences
// @Description Update display and notification settings. Only provided fields change.
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePreferencesRequest true "Settings to change"
// @Success     200 {object} models.UserPreferences "Updated preferences"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /preferences [put]
func (h *PreferencesHandler) UpdatePreferences(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.PreferencesUpdateFields{
		Currency:            req.Currency,
		Locale:              req.Locale,
		DateFormat:          req.DateFormat,
		StartOfWeek:         req.StartOfWeek,
		NotifyEmail:         req.NotifyEmail,
		NotifyPush:          req.NotifyPush,
		NotifyBudgetAlerts:  req.NotifyBudgetAlerts,
		NotifyGoalReminders: req.NotifyGoalReminders,
		NotifyBillReminders: req.NotifyBillReminders,
	}
	if req.BudgetMethod != nil {
		method := models.BudgetMethod(*req.BudgetMethod)
		fields.BudgetMethod = &method
	}

	prefs, err := h.preferencesService.UpdatePreferences(userID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PREFERENCES", "preferences", prefs.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// GetWidgets returns the dashboard layout
// @Summary     Get dashboard widgets
// @Description Get the dashboard widgets in display order with their visibility
// @Tags        preferences
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array}  models.DashboardWidget "Widgets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /widgets [get]
func (h *PreferencesHandler) GetWidgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	widgets, err := h.preferencesService.GetWidgets(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"widgets": widgets})
}

// SetWidgetVisibility shows or hides one widget
// @Summary     Set widget visibility
// @Description Show or hide a dashboard widget
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       widgetId path string true "Widget ID"
// @Param       request body WidgetVisibilityRequest true "Visibility"
// @Success     200 {array}  models.DashboardWidget "Widgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Widget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /widgets/{widgetId} [put]
func (h *PreferencesHandler) SetWidgetVisibility(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req WidgetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	widgetID := c.Param("widgetId")
	widgets, err := h.preferencesService.SetWidgetVisibility(userID, widgetID, *req.Visible)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"widgets": widgets})
}

// ReorderWidgets changes the dashboard order
// @Summary     Reorder widgets
// @Description Move the listed widgets to the front in the given order. Unlisted widgets keep their relative order.
// @Tags        preferences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ReorderWidgetsRequest true "Widget order"
// @Success     200 {array}  models.DashboardWidget "Widgets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Widget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /widgets/order [put]
func (h *PreferencesHandler) ReorderWidgets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ReorderWidgetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	widgets, err := h.preferencesService.ReorderWidgets(userID, req.WidgetIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"widgets": widgets})
}

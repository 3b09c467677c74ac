package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finboard/internal/errors"
	"finboard/internal/pagination"
	"finboard/internal/services"
)

// SnapshotHandler handles net worth snapshot requests.
type SnapshotHandler struct {
	snapshotService services.SnapshotServicer
	reminderService services.ReminderServicer
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService services.SnapshotServicer, reminderService services.ReminderServicer) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService, reminderService: reminderService}
}

// PipelineRunRequest is the optional body of a pipeline run. RecordedAt
// defaults to the current time.
type PipelineRunRequest struct {
	RecordedAt *time.Time `json:"recorded_at"`
}

func pipelineTime(c *gin.Context) (time.Time, error) {
	if c.Request.ContentLength == 0 {
		return time.Now(), nil
	}
	var req PipelineRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	if req.RecordedAt == nil {
		return time.Now(), nil
	}
	return *req.RecordedAt, nil
}

// ComputeSnapshots records a net worth snapshot for every user.
// @Summary     Compute net worth snapshots
// @Description Compute and record net worth snapshots for all users (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body     PipelineRunRequest false "Run parameters"
// @Success     200     {object} map[string]int     "Snapshots recorded count"
// @Failure     400     {object} ErrorResponse      "Invalid input"
// @Failure     401     {object} ErrorResponse      "Invalid API key"
// @Failure     503     {object} ErrorResponse      "Pipeline not configured"
// @Router      /pipeline/snapshots [post]
func (h *SnapshotHandler) ComputeSnapshots(c *gin.Context) {
	recordedAt, err := pipelineTime(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	count, err := h.snapshotService.ComputeAndRecordSnapshots(recordedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots_recorded": count})
}

// SendBillReminders creates notifications for bills due soon.
// @Summary     Send bill reminders
// @Description Create a notification for every recurring bill due within three days (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body     PipelineRunRequest false "Run parameters"
// @Success     200     {object} map[string]int     "Reminders sent count"
// @Failure     400     {object} ErrorResponse      "Invalid input"
// @Failure     401     {object} ErrorResponse      "Invalid API key"
// @Failure     503     {object} ErrorResponse      "Pipeline not configured"
// @Router      /pipeline/reminders [post]
func (h *SnapshotHandler) SendBillReminders(c *gin.Context) {
	now, err := pipelineTime(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	count, err := h.reminderService.SendBillReminders(c.Request.Context(), now)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminders_sent": count})
}

// GetSnapshots returns the authenticated user's net worth history.
// @Summary     Get net worth snapshots
// @Description Get paginated net worth snapshots for a date range
// @Tags        snapshots
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string true  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string true  "End date (RFC3339 or YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       limit     query int    false "Items per page (default 50, max 200)"
// @Success     200 {object} pagination.PageResponse[models.NetWorthSnapshot] "Paginated snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /snapshots [get]
func (h *SnapshotHandler) GetSnapshots(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fromStr := c.Query("from_date")
	if fromStr == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date is required"))
		return
	}
	from, err := parseOptionalTime(&fromStr, "from_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	toStr := c.Query("to_date")
	if toStr == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "to_date is required"))
		return
	}
	to, err := parseOptionalTime(&toStr, "to_date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.snapshotService.GetSnapshots(userID, *from, *to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

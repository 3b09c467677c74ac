package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/services"
)

const (
	testGoalID         = "0190a0b1-0000-7000-8000-0000000000d1"
	testContributionID = "0190a0b1-0000-7000-8000-0000000000d2"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn         func(userID string, in services.GoalInput) (*models.Goal, error)
	getUserGoalsFn       func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	getGoalByIDFn        func(userID, goalID string) (*models.Goal, error)
	updateGoalFn         func(userID, goalID string, fields services.GoalUpdateFields) (*models.Goal, error)
	deleteGoalFn         func(userID, goalID string) error
	addContributionFn    func(userID, goalID string, in services.ContributionInput) (*models.GoalContribution, error)
	removeContributionFn func(userID, goalID, contributionID string) error
	getGoalProgressFn    func(userID, goalID string, now time.Time) (*finance.GoalProgress, error)
}

func (m *mockGoalService) CreateGoal(userID string, in services.GoalInput) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, in)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Goal{}, 1, 50, 0)
	return &resp, nil
}

func (m *mockGoalService) ListGoals(_ string) ([]models.Goal, error) {
	return nil, nil
}

func (m *mockGoalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) UpdateGoal(userID, goalID string, fields services.GoalUpdateFields) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(userID, goalID, fields)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(userID, goalID string) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) AddContribution(userID, goalID string, in services.ContributionInput) (*models.GoalContribution, error) {
	if m.addContributionFn != nil {
		return m.addContributionFn(userID, goalID, in)
	}
	return &models.GoalContribution{}, nil
}

func (m *mockGoalService) RemoveContribution(userID, goalID, contributionID string) error {
	if m.removeContributionFn != nil {
		return m.removeContributionFn(userID, goalID, contributionID)
	}
	return nil
}

func (m *mockGoalService) GetGoalProgress(userID, goalID string, now time.Time) (*finance.GoalProgress, error) {
	if m.getGoalProgressFn != nil {
		return m.getGoalProgressFn(userID, goalID, now)
	}
	return &finance.GoalProgress{}, nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/goals", handler.CreateGoal)
	auth.GET("/goals", handler.GetGoals)
	auth.GET("/goals/:id", handler.GetGoal)
	auth.PUT("/goals/:id", handler.UpdateGoal)
	auth.DELETE("/goals/:id", handler.DeleteGoal)
	auth.POST("/goals/:id/contributions", handler.AddContribution)
	auth.DELETE("/goals/:id/contributions/:contributionId", handler.RemoveContribution)
	auth.GET("/goals/:id/progress", handler.GetGoalProgress)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockGoalService{
			createGoalFn: func(userID string, in services.GoalInput) (*models.Goal, error) {
				return &models.Goal{
					Base:         models.Base{ID: testGoalID},
					UserID:       userID,
					Name:         in.Name,
					Category:     in.Category,
					TargetAmount: in.TargetAmount,
				}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"name":"Rainy day","category":"Emergency Fund","target_amount":"5000"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		goal := parseJSON(t, rec)["goal"].(map[string]interface{})
		if goal["target_amount"] != "5000" {
			t.Errorf("expected target 5000, got %v", goal["target_amount"])
		}
	})

	t.Run("returns 400 on unknown category", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"name":"Boat","category":"Yacht","target_amount":"5000"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing target", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"name":"Boat"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestGoalHandler_GetGoal(t *testing.T) {
	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockGoalService{
			getGoalByIDFn: func(_, _ string) (*models.Goal, error) { return nil, apperrors.ErrGoalNotFound },
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals/"+testGoalID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_FOUND")
	})
}

func TestGoalHandler_UpdateGoal(t *testing.T) {
	t.Run("passes provided fields", func(t *testing.T) {
		var captured services.GoalUpdateFields
		svc := &mockGoalService{
			updateGoalFn: func(_, _ string, fields services.GoalUpdateFields) (*models.Goal, error) {
				captured = fields
				return &models.Goal{}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "PUT", "/goals/"+testGoalID, `{"priority":2,"target_amount":"7500"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Priority == nil || *captured.Priority != 2 {
			t.Errorf("expected priority 2, got %v", captured.Priority)
		}
		if captured.TargetAmount == nil || !captured.TargetAmount.Equal(decimal.NewFromInt(7500)) {
			t.Errorf("expected target 7500, got %v", captured.TargetAmount)
		}
		if captured.Name != nil {
			t.Error("expected name untouched")
		}
	})
}

func TestGoalHandler_Contributions(t *testing.T) {
	t.Run("adds a contribution", func(t *testing.T) {
		var captured services.ContributionInput
		svc := &mockGoalService{
			addContributionFn: func(_, goalID string, in services.ContributionInput) (*models.GoalContribution, error) {
				captured = in
				return &models.GoalContribution{Base: models.Base{ID: testContributionID}, GoalID: goalID, Amount: in.Amount}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/contributions", `{"amount":"150","date":"2025-03-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.Date.Month() != time.March {
			t.Errorf("expected March date, got %s", captured.Date)
		}
		contribution := parseJSON(t, rec)["contribution"].(map[string]interface{})
		if contribution["goal_id"] != testGoalID {
			t.Errorf("expected goal %s, got %v", testGoalID, contribution["goal_id"])
		}
	})

	t.Run("leaves the date zero when omitted", func(t *testing.T) {
		var captured services.ContributionInput
		svc := &mockGoalService{
			addContributionFn: func(_, _ string, in services.ContributionInput) (*models.GoalContribution, error) {
				captured = in
				return &models.GoalContribution{}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/"+testGoalID+"/contributions", `{"amount":"10"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		if !captured.Date.IsZero() {
			t.Errorf("expected zero date, got %s", captured.Date)
		}
	})

	t.Run("removes a contribution", func(t *testing.T) {
		var gotGoal, gotContribution string
		svc := &mockGoalService{
			removeContributionFn: func(_, goalID, contributionID string) error {
				gotGoal, gotContribution = goalID, contributionID
				return nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "DELETE", "/goals/"+testGoalID+"/contributions/"+testContributionID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotGoal != testGoalID || gotContribution != testContributionID {
			t.Errorf("unexpected ids %s %s", gotGoal, gotContribution)
		}
	})

	t.Run("returns 404 for unknown contribution", func(t *testing.T) {
		svc := &mockGoalService{
			removeContributionFn: func(_, _, _ string) error { return apperrors.ErrContributionNotFound },
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "DELETE", "/goals/"+testGoalID+"/contributions/"+testContributionID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CONTRIBUTION_NOT_FOUND")
	})
}

func TestGoalHandler_GetGoalProgress(t *testing.T) {
	t.Run("returns 200 with progress", func(t *testing.T) {
		eta := time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC)
		svc := &mockGoalService{
			getGoalProgressFn: func(_, goalID string, _ time.Time) (*finance.GoalProgress, error) {
				return &finance.GoalProgress{
					GoalID:              goalID,
					PercentComplete:     20,
					EstimatedCompletion: &eta,
				}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals/"+testGoalID+"/progress", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		progress := parseJSON(t, rec)["progress"].(map[string]interface{})
		if progress["percent_complete"] != float64(20) {
			t.Errorf("expected 20, got %v", progress["percent_complete"])
		}
		if progress["estimated_completion"] != "2025-03-13T00:00:00Z" {
			t.Errorf("unexpected estimate %v", progress["estimated_completion"])
		}
	})
}

func TestGoalHandler_DeleteGoal(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		handler := NewGoalHandler(&mockGoalService{}, audit)
		r := setupGoalRouter(handler)

		rec := doRequest(r, "DELETE", "/goals/"+testGoalID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.actions) != 1 || audit.actions[0] != "DELETE_GOAL" {
			t.Errorf("expected DELETE_GOAL, got %v", audit.actions)
		}
	})
}

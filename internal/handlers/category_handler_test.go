package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"finboard/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	getUserCategoriesFn func(userID string) (*services.Categories, error)
}

func (m *mockCategoryService) GetUserCategories(userID string) (*services.Categories, error) {
	if m.getUserCategoriesFn != nil {
		return m.getUserCategoriesFn(userID)
	}
	return &services.Categories{Transaction: []string{}, Budget: []string{}, Goal: []string{}}, nil
}

var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/categories", handler.GetUserCategories)
	return r
}

func TestCategoryHandler_GetUserCategories(t *testing.T) {
	t.Run("returns 200 with categories", func(t *testing.T) {
		var gotUser string
		svc := &mockCategoryService{
			getUserCategoriesFn: func(userID string) (*services.Categories, error) {
				gotUser = userID
				return &services.Categories{
					Transaction: []string{"Groceries", "Rent"},
					Budget:      []string{"Groceries"},
					Goal:        []string{"emergency_fund"},
				}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotUser != testUserID {
			t.Errorf("expected user %s, got %s", testUserID, gotUser)
		}
		categories := parseJSON(t, rec)["categories"].(map[string]interface{})
		if len(categories["transaction"].([]interface{})) != 2 {
			t.Errorf("expected 2 transaction categories, got %v", categories["transaction"])
		}
	})

	t.Run("returns 500 on service error", func(t *testing.T) {
		svc := &mockCategoryService{
			getUserCategoriesFn: func(string) (*services.Categories, error) {
				return nil, fmt.Errorf("database error")
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc))

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		r := gin.New()
		r.GET("/categories", NewCategoryHandler(&mockCategoryService{}).GetUserCategories)

		rec := doRequest(r, "GET", "/categories", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

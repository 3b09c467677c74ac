package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finboard/internal/services"
)

// CategoryHandler handles category lookups
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// GetUserCategories returns the category names in use
// @Summary     List categories
// @Description Get the distinct transaction, budget and goal category names of the authenticated user
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Categories "Categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetUserCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.GetUserCategories(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

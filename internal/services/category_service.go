package services

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	apperrors "finboard/internal/errors"
	"finboard/internal/models"
)

// categoryService lists the free-form category names a user has used.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// GetUserCategories returns the distinct transaction and budget category
// names of a user, sorted for the user's locale, plus the fixed goal
// categories.
func (s *categoryService) GetUserCategories(userID string) (*Categories, error) {
	var txCategories []string
	if err := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND category <> ''", userID).
		Distinct("category").
		Pluck("category", &txCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgetCategories []string
	if err := s.db.Model(&models.BudgetCategory{}).
		Joins("JOIN budgets ON budgets.id = budget_categories.budget_id").
		Where("budgets.user_id = ? AND budgets.deleted_at IS NULL", userID).
		Distinct("budget_categories.name").
		Pluck("budget_categories.name", &budgetCategories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	lang := language.AmericanEnglish
	var prefs models.UserPreferences
	if err := s.db.Scopes(models.OwnedBy(userID)).Limit(1).Find(&prefs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if tag, err := language.Parse(prefs.Locale); err == nil && prefs.Locale != "" {
		lang = tag
	}

	return &Categories{
		Transaction: sortNames(txCategories, lang),
		Budget:      sortNames(budgetCategories, lang),
		Goal:        slices.Clone(models.GoalCategories),
	}, nil
}

// sortNames removes case-insensitive duplicates and sorts with the
// language's collation.
func sortNames(names []string, lang language.Tag) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	collate.New(lang, collate.IgnoreCase).SortStrings(out)
	return out
}

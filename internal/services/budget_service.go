package services

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/state"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db    *gorm.DB
	store Dispatcher
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, store Dispatcher) BudgetServicer {
	return &budgetService{db: db, store: store}
}

func preloadCategories(db *gorm.DB) *gorm.DB {
	return db.Order("budget_categories.created_at ASC, budget_categories.id ASC")
}

// CreateBudget creates a budget with its category allocations.
func (s *budgetService) CreateBudget(userID string, in BudgetInput) (*models.Budget, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	if err := validateBudgetPeriod(in.StartDate, in.EndDate); err != nil {
		return nil, err
	}
	categories, err := buildBudgetCategories(in.Categories)
	if err != nil {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		Name:       name,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Categories: categories,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.AddBudget{Budget: *budget})
	return budget, nil
}

func validateBudgetPeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "start and end dates are required")
	}
	if end.Before(start) {
		return apperrors.ErrInvalidBudgetPeriod
	}
	return nil
}

// buildBudgetCategories validates allocations. Names must be unique ignoring
// case because spending is matched by name.
func buildBudgetCategories(inputs []BudgetCategoryInput) ([]models.BudgetCategory, error) {
	seen := make(map[string]struct{}, len(inputs))
	categories := make([]models.BudgetCategory, 0, len(inputs))
	for _, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget category name is required")
		}
		if in.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget category amount must not be negative")
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, apperrors.ErrDuplicateBudgetCategory
		}
		seen[key] = struct{}{}
		categories = append(categories, models.BudgetCategory{Name: name, Amount: in.Amount})
	}
	return categories, nil
}

// GetUserBudgets returns a paginated list of budgets, latest first, with
// category spending derived from transactions.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Scopes(models.OwnedBy(userID))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Preload("Categories", preloadCategories).
		Order("start_date DESC").
		Scopes(pagination.Paginate(page)).
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budgets, err := s.withSpending(userID, budgets)
	if err != nil {
		return nil, err
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.Limit, totalItems)
	return &result, nil
}

// ListBudgets returns every budget of a user as stored. Spending is derived
// by the caller.
func (s *budgetService) ListBudgets(userID string) ([]models.Budget, error) {
	var budgets []models.Budget
	if err := s.db.Preload("Categories", preloadCategories).
		Scopes(models.OwnedBy(userID)).
		Order("start_date DESC").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudgetByID returns a budget with its spending derived.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	derived, err := s.withSpending(userID, []models.Budget{*budget})
	if err != nil {
		return nil, err
	}
	return &derived[0], nil
}

func (s *budgetService) findBudget(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Preload("Categories", preloadCategories).
		Scopes(models.OwnedRecord(budgetID, userID)).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// withSpending loads the expenses dated inside the budgets' combined range
// and derives category spending from them.
func (s *budgetService) withSpending(userID string, budgets []models.Budget) ([]models.Budget, error) {
	if len(budgets) == 0 {
		return budgets, nil
	}

	from, to := budgets[0].StartDate, budgets[0].EndDate
	for _, b := range budgets[1:] {
		if b.StartDate.Before(from) {
			from = b.StartDate
		}
		if b.EndDate.After(to) {
			to = b.EndDate
		}
	}

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date <= ? AND amount < 0 AND type <> ?",
		userID, from, to, models.TransactionKindTransfer).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return finance.WithDerivedSpending(budgets, transactions), nil
}

// UpdateBudget updates an existing budget's fields. New categories replace
// the existing ones.
func (s *budgetService) UpdateBudget(userID, budgetID string, fields BudgetUpdateFields) (*models.Budget, error) {
	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && strings.TrimSpace(*fields.Name) != "" {
		updates["name"] = strings.TrimSpace(*fields.Name)
	}
	start, end := budget.StartDate, budget.EndDate
	if fields.StartDate != nil {
		start = *fields.StartDate
		updates["start_date"] = start
	}
	if fields.EndDate != nil {
		end = *fields.EndDate
		updates["end_date"] = end
	}
	if err := validateBudgetPeriod(start, end); err != nil {
		return nil, err
	}

	var categories []models.BudgetCategory
	if fields.Categories != nil {
		if categories, err = buildBudgetCategories(fields.Categories); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&models.Budget{}).Where("id = ?", budget.ID).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if fields.Categories != nil {
			if err := tx.Unscoped().Where("budget_id = ?", budget.ID).Delete(&models.BudgetCategory{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			for i := range categories {
				categories[i].BudgetID = budget.ID
			}
			if len(categories) > 0 {
				if err := tx.Create(&categories).Error; err != nil {
					return apperrors.Wrap(apperrors.ErrInternalServer, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.findBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}
	s.store.Dispatch(userID, state.UpdateBudget{Budget: *updated})

	derived, err := s.withSpending(userID, []models.Budget{*updated})
	if err != nil {
		return nil, err
	}
	return &derived[0], nil
}

// UpdateCategoryAmount changes the allocation of a single budget category.
func (s *budgetService) UpdateCategoryAmount(userID, budgetID, categoryID string, amount decimal.Decimal) (*models.Budget, error) {
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget category amount must not be negative")
	}

	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&models.BudgetCategory{}).
		Where("id = ? AND budget_id = ?", categoryID, budget.ID).
		Update("amount", amount)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrBudgetCategoryNotFound
	}

	s.store.Dispatch(userID, state.UpdateBudgetCategoryAmount{BudgetID: budgetID, CategoryID: categoryID, Amount: amount})
	return s.GetBudgetByID(userID, budgetID)
}

// DeleteBudget soft-deletes a budget.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.findBudget(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.DeleteBudget{ID: budgetID})
	return nil
}

// GetBudgetProgress reports spending against the budget as a whole and per
// category.
func (s *budgetService) GetBudgetProgress(userID, budgetID string) (*BudgetProgress, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	return &BudgetProgress{
		BudgetID:    budget.ID,
		Performance: finance.BudgetPerformance([]models.Budget{*budget}, nil),
		Categories:  finance.CategoriesProgress(*budget),
	}, nil
}

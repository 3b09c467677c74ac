package services

import (
	"errors"
	"slices"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/state"
)

const defaultGoalCategory = "Other"

// goalService handles savings-goal business logic.
type goalService struct {
	db    *gorm.DB
	store Dispatcher
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB, store Dispatcher) GoalServicer {
	return &goalService{db: db, store: store}
}

func preloadContributions(db *gorm.DB) *gorm.DB {
	return db.Order("goal_contributions.date ASC, goal_contributions.id ASC")
}

// CreateGoal creates a goal with no contributions.
func (s *goalService) CreateGoal(userID string, in GoalInput) (*models.Goal, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if !in.TargetAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	category := in.Category
	if category == "" {
		category = defaultGoalCategory
	}
	if !slices.Contains(models.GoalCategories, category) {
		return nil, apperrors.ErrInvalidGoalCategory
	}
	if in.Priority < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must not be negative")
	}

	goal := &models.Goal{
		UserID:        userID,
		Name:          name,
		Category:      category,
		Priority:      in.Priority,
		TargetAmount:  in.TargetAmount,
		Contributions: []models.GoalContribution{},
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.AddGoal{Goal: *goal})
	return goal, nil
}

// GetUserGoals returns a paginated list of goals with their contributions.
func (s *goalService) GetUserGoals(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Scopes(models.OwnedBy(userID))

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Preload("Contributions", preloadContributions).
		Order("priority DESC, name ASC").
		Scopes(pagination.Paginate(page)).
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.Limit, totalItems)
	return &result, nil
}

// ListGoals returns every goal of a user.
func (s *goalService) ListGoals(userID string) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Preload("Contributions", preloadContributions).
		Scopes(models.OwnedBy(userID)).
		Order("priority DESC, name ASC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// GetGoalByID returns a goal with its contributions.
func (s *goalService) GetGoalByID(userID, goalID string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Preload("Contributions", preloadContributions).
		Scopes(models.OwnedRecord(goalID, userID)).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies the non-nil fields to a goal.
func (s *goalService) UpdateGoal(userID, goalID string, fields GoalUpdateFields) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && strings.TrimSpace(*fields.Name) != "" {
		updates["name"] = strings.TrimSpace(*fields.Name)
	}
	if fields.Category != nil {
		if !slices.Contains(models.GoalCategories, *fields.Category) {
			return nil, apperrors.ErrInvalidGoalCategory
		}
		updates["category"] = *fields.Category
	}
	if fields.Priority != nil {
		if *fields.Priority < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "priority must not be negative")
		}
		updates["priority"] = *fields.Priority
	}
	if fields.TargetAmount != nil {
		if !fields.TargetAmount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
		}
		updates["target_amount"] = *fields.TargetAmount
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Goal{}).Where("id = ?", goal.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if goal, err = s.GetGoalByID(userID, goalID); err != nil {
			return nil, err
		}
		s.store.Dispatch(userID, state.UpdateGoal{Goal: *goal})
	}

	return goal, nil
}

// DeleteGoal soft-deletes a goal.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.DeleteGoal{ID: goalID})
	return nil
}

// AddContribution records a deposit toward a goal.
func (s *goalService) AddContribution(userID, goalID string, in ContributionInput) (*models.GoalContribution, error) {
	if !in.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution amount must be greater than zero")
	}
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	contribution := &models.GoalContribution{
		GoalID: goal.ID,
		Amount: in.Amount,
		Date:   date,
		Note:   strings.TrimSpace(in.Note),
	}
	if err := s.db.Create(contribution).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.AddGoalContribution{GoalID: goalID, Contribution: *contribution})
	return contribution, nil
}

// RemoveContribution deletes one contribution of a goal.
func (s *goalService) RemoveContribution(userID, goalID, contributionID string) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}

	result := s.db.Where("id = ? AND goal_id = ?", contributionID, goal.ID).Delete(&models.GoalContribution{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrContributionNotFound
	}

	s.store.Dispatch(userID, state.RemoveGoalContribution{GoalID: goalID, ContributionID: contributionID})
	return nil
}

// GetGoalProgress estimates progress and completion of a goal as of now.
func (s *goalService) GetGoalProgress(userID, goalID string, now time.Time) (*finance.GoalProgress, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	progress := finance.ProgressOf(*goal, now)
	return &progress, nil
}

package services

import (
	"errors"
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finboard/internal/errors"
	"finboard/internal/models"
	"finboard/internal/state"
)

var budgetMethods = []models.BudgetMethod{
	models.BudgetMethodCategory,
	models.BudgetMethodZeroBased,
	models.BudgetMethodFiftyThirty,
}

// preferencesService handles user settings and the dashboard layout.
type preferencesService struct {
	db    *gorm.DB
	store Dispatcher
}

// NewPreferencesService creates a new PreferencesServicer.
func NewPreferencesService(db *gorm.DB, store Dispatcher) PreferencesServicer {
	return &preferencesService{db: db, store: store}
}

// GetPreferences returns the user's settings, creating the defaults on
// first access.
func (s *preferencesService) GetPreferences(userID string) (*models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.db.Scopes(models.OwnedBy(userID)).First(&prefs).Error
	if err == nil {
		return &prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	prefs = models.DefaultPreferences(userID)
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&prefs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Scopes(models.OwnedBy(userID)).First(&prefs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &prefs, nil
}

// UpdatePreferences applies the non-nil fields to the user's settings.
func (s *preferencesService) UpdatePreferences(userID string, fields PreferencesUpdateFields) (*models.UserPreferences, error) {
	prefs, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Currency != nil && *fields.Currency != "" {
		updates["currency"] = strings.ToUpper(*fields.Currency)
	}
	if fields.Locale != nil && *fields.Locale != "" {
		updates["locale"] = *fields.Locale
	}
	if fields.DateFormat != nil && *fields.DateFormat != "" {
		updates["date_format"] = *fields.DateFormat
	}
	if fields.StartOfWeek != nil {
		if *fields.StartOfWeek != "sunday" && *fields.StartOfWeek != "monday" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start of week must be sunday or monday")
		}
		updates["start_of_week"] = *fields.StartOfWeek
	}
	if fields.BudgetMethod != nil {
		if !slices.Contains(budgetMethods, *fields.BudgetMethod) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported budget method")
		}
		updates["budget_method"] = *fields.BudgetMethod
	}
	for column, v := range map[string]*bool{
		"notify_email":          fields.NotifyEmail,
		"notify_push":           fields.NotifyPush,
		"notify_budget_alerts":  fields.NotifyBudgetAlerts,
		"notify_goal_reminders": fields.NotifyGoalReminders,
		"notify_bill_reminders": fields.NotifyBillReminders,
	} {
		if v != nil {
			updates[column] = *v
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(prefs).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", prefs.ID).First(prefs).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		actions := []state.Action{state.SetPreferences{Preferences: *prefs}}
		if _, ok := updates["budget_method"]; ok {
			actions = append(actions, state.SetBudgetMethod{Method: prefs.BudgetMethod})
		}
		s.store.Dispatch(userID, actions...)
	}

	return prefs, nil
}

// GetWidgets returns the user's dashboard layout in display order. Widgets
// missing from the stored layout are added with their defaults.
func (s *preferencesService) GetWidgets(userID string) ([]models.DashboardWidget, error) {
	var widgets []models.DashboardWidget
	if err := s.db.Scopes(models.OwnedBy(userID)).Order("position ASC").Find(&widgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(widgets) == len(models.DefaultWidgets(userID)) {
		return widgets, nil
	}

	defaults := models.DefaultWidgets(userID)
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "widget_id"}},
		DoNothing: true,
	}).Create(&defaults).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	widgets = nil
	if err := s.db.Scopes(models.OwnedBy(userID)).Order("position ASC").Find(&widgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return widgets, nil
}

// SetWidgetVisibility shows or hides one widget.
func (s *preferencesService) SetWidgetVisibility(userID, widgetID string, visible bool) ([]models.DashboardWidget, error) {
	widgets, err := s.GetWidgets(userID)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(widgets, func(w models.DashboardWidget) bool { return w.WidgetID == widgetID }) {
		return nil, apperrors.ErrWidgetNotFound
	}

	if err := s.db.Model(&models.DashboardWidget{}).
		Where("user_id = ? AND widget_id = ?", userID, widgetID).
		Update("visible", visible).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.UpdateWidgetVisibility{WidgetID: widgetID, Visible: visible})
	return s.GetWidgets(userID)
}

// ReorderWidgets moves the listed widgets to the front in the given order.
// Unlisted widgets follow in their current order.
func (s *preferencesService) ReorderWidgets(userID string, widgetIDs []string) ([]models.DashboardWidget, error) {
	widgets, err := s.GetWidgets(userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.DashboardWidget, len(widgets))
	for _, w := range widgets {
		byID[w.WidgetID] = w
	}

	ordered := make([]models.DashboardWidget, 0, len(widgets))
	placed := make(map[string]bool, len(widgets))
	for _, id := range widgetIDs {
		w, ok := byID[id]
		if !ok {
			return nil, apperrors.WithMessage(apperrors.ErrWidgetNotFound, "unknown dashboard widget: "+id)
		}
		if !placed[id] {
			ordered = append(ordered, w)
			placed[id] = true
		}
	}
	for _, w := range widgets {
		if !placed[w.WidgetID] {
			ordered = append(ordered, w)
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range ordered {
			ordered[i].Order = i + 1
			if err := tx.Model(&models.DashboardWidget{}).
				Where("id = ?", ordered[i].ID).
				Update("position", ordered[i].Order).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.store.Dispatch(userID, state.UpdateWidgetOrder{WidgetIDs: widgetIDs})
	return ordered, nil
}

package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "finboard/internal/errors"
	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/state"
)

// notificationService handles in-app notifications.
type notificationService struct {
	db    *gorm.DB
	store Dispatcher
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB, store Dispatcher) NotificationServicer {
	return &notificationService{db: db, store: store}
}

// CreateNotification stores an unread notification.
func (s *notificationService) CreateNotification(userID string, in NotificationInput) (*models.Notification, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "notification title is required")
	}
	kind := in.Kind
	if kind == "" {
		kind = models.NotificationKindInfo
	}

	n := &models.Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: in.Message,
	}
	if err := s.db.Create(n).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.AddNotification{Notification: *n})
	return n, nil
}

// GetUserNotifications returns a paginated list, newest first.
func (s *notificationService) GetUserNotifications(userID string, page pagination.PageRequest, unreadOnly bool) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	base := s.db.Model(&models.Notification{}).Scopes(models.OwnedBy(userID))
	if unreadOnly {
		base = base.Where("read = ?", false)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.Limit, totalItems)
	return &result, nil
}

// ListNotifications returns every notification of a user, newest first.
func (s *notificationService) ListNotifications(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.db.Scopes(models.OwnedBy(userID)).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return notifications, nil
}

// MarkRead flags one notification as read.
func (s *notificationService) MarkRead(userID, notificationID string) error {
	result := s.db.Model(&models.Notification{}).
		Scopes(models.OwnedRecord(notificationID, userID)).
		Update("read", true)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotificationNotFound
	}

	s.store.Dispatch(userID, state.MarkNotificationRead{ID: notificationID})
	return nil
}

// MarkAllRead flags every notification of the user as read.
func (s *notificationService) MarkAllRead(userID string) error {
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.MarkAllNotificationsRead{})
	return nil
}

// DeleteNotification removes one notification.
func (s *notificationService) DeleteNotification(userID, notificationID string) error {
	result := s.db.Scopes(models.OwnedRecord(notificationID, userID)).Delete(&models.Notification{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotificationNotFound
	}

	s.store.Dispatch(userID, state.RemoveNotification{ID: notificationID})
	return nil
}

// ClearNotifications removes every notification of the user.
func (s *notificationService) ClearNotifications(userID string) error {
	if err := s.db.Scopes(models.OwnedBy(userID)).Delete(&models.Notification{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.store.Dispatch(userID, state.ClearNotifications{})
	return nil
}

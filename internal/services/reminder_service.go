package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/format"
	"finboard/internal/logger"
	"finboard/internal/models"
	"finboard/internal/notify"
)

// reminderService turns bills that are due soon into notifications.
type reminderService struct {
	db            *gorm.DB
	notifications NotificationServicer
	publisher     notify.Publisher
}

// NewReminderService creates a new ReminderServicer. A nil publisher keeps
// reminders in-app only.
func NewReminderService(db *gorm.DB, notifications NotificationServicer, publisher notify.Publisher) ReminderServicer {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &reminderService{db: db, notifications: notifications, publisher: publisher}
}

// SendBillReminders creates one notification per due-soon bill for every
// user with bill reminders enabled and returns how many were created. A bill
// that already has a notification with the same title is skipped.
func (s *reminderService) SendBillReminders(ctx context.Context, now time.Time) (int, error) {
	var userIDs []string
	if err := s.db.Model(&models.Transaction{}).
		Where("is_recurring = ? OR recurring_id <> ''", true).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	sent := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		prefs, err := s.preferences(userID)
		if err != nil {
			return sent, err
		}
		if !prefs.NotifyBillReminders {
			continue
		}

		n, err := s.remindUser(ctx, userID, prefs, now)
		sent += n
		if err != nil {
			return sent, err
		}
	}

	return sent, nil
}

func (s *reminderService) preferences(userID string) (models.UserPreferences, error) {
	var prefs models.UserPreferences
	err := s.db.Scopes(models.OwnedBy(userID)).First(&prefs).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultPreferences(userID), nil
	}
	if err != nil {
		return prefs, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return prefs, nil
}

func (s *reminderService) remindUser(ctx context.Context, userID string, prefs models.UserPreferences, now time.Time) (int, error) {
	var accounts []models.Account
	if err := s.db.Scopes(models.OwnedBy(userID)).Find(&accounts).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND (is_recurring = ? OR recurring_id <> '')", userID, true).
		Find(&transactions).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	f := format.ForPreferences(prefs)
	sent := 0
	for _, bill := range finance.DueSoon(finance.UpcomingBills(transactions, accounts, now)) {
		title := fmt.Sprintf("%s due %s", format.Truncate(format.CapitalizeWords(bill.Description), 0), f.Date(bill.DueDate))

		var existing int64
		if err := s.db.Model(&models.Notification{}).
			Where("user_id = ? AND kind = ? AND title = ?", userID, models.NotificationKindBill, title).
			Count(&existing).Error; err != nil {
			return sent, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if existing > 0 {
			continue
		}

		message := fmt.Sprintf("%s from %s is due in %d day(s)", f.Money(bill.Amount.Abs()), bill.AccountName, bill.DaysUntilDue)
		if _, err := s.notifications.CreateNotification(userID, NotificationInput{
			Kind:    models.NotificationKindBill,
			Title:   title,
			Message: message,
		}); err != nil {
			return sent, err
		}
		sent++

		if err := s.publisher.PublishBillReminder(ctx, &notify.BillReminderMessage{
			UserID:       userID,
			BillID:       bill.TransactionID,
			Description:  bill.Description,
			Amount:       bill.Amount,
			AccountName:  bill.AccountName,
			DueDate:      bill.DueDate,
			DaysUntilDue: bill.DaysUntilDue,
			Text:         title + ": " + message,
		}); err != nil {
			logger.Get().Errorw("failed to publish bill reminder", "user_id", userID, "bill_id", bill.TransactionID, "error", err)
		}
	}
	return sent, nil
}

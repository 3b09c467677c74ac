package services

import (
	"testing"

	"finboard/internal/models"
	"finboard/internal/pagination"
	"finboard/internal/state"
	"finboard/internal/testutil"
)

func TestCreateNotification(t *testing.T) {
	t.Run("defaults_kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		store, ctrl := trackedStore(user.ID)
		svc := NewNotificationService(db, store)

		n, err := svc.CreateNotification(user.ID, NotificationInput{Title: "  Welcome  ", Message: "hi"})
		testutil.AssertNoError(t, err)

		if n.Kind != models.NotificationKindInfo || n.Title != "Welcome" || n.Read {
			t.Errorf("unexpected notification: %+v", n)
		}
		if got := len(ctrl.State().UI.Notifications); got != 1 {
			t.Errorf("expected notification in state, got %d", got)
		}
	})

	t.Run("missing_title", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db, state.NewRegistry())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateNotification(user.ID, NotificationInput{Title: " "})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db, state.NewRegistry())
	user := testutil.CreateTestUser(t, db)
	first := testutil.CreateTestNotification(t, db, user.ID, models.NotificationKindBill)
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationKindGoal)
	testutil.CreateTestNotification(t, db, testutil.CreateTestUser(t, db).ID, models.NotificationKindInfo)

	testutil.AssertNoError(t, svc.MarkRead(user.ID, first.ID))

	all, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{}, false)
	testutil.AssertNoError(t, err)
	if all.TotalItems != 2 {
		t.Errorf("expected 2 notifications, got %d", all.TotalItems)
	}

	unread, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{}, true)
	testutil.AssertNoError(t, err)
	if unread.TotalItems != 1 || unread.Data[0].ID == first.ID {
		t.Errorf("expected only the unread notification, got %+v", unread.Data)
	}
}

func TestMarkRead(t *testing.T) {
	t.Run("marks_one", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		n := testutil.CreateTestNotification(t, db, user.ID, models.NotificationKindInfo)
		store, ctrl := trackedStore(user.ID)
		ctrl.Dispatch(state.AddNotification{Notification: *n})
		svc := NewNotificationService(db, store)

		testutil.AssertNoError(t, svc.MarkRead(user.ID, n.ID))

		if !ctrl.State().UI.Notifications[0].Read {
			t.Error("expected notification read in state")
		}
	})

	t.Run("other_users_notification", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewNotificationService(db, state.NewRegistry())
		user := testutil.CreateTestUser(t, db)
		n := testutil.CreateTestNotification(t, db, user.ID, models.NotificationKindInfo)

		err := svc.MarkRead(testutil.CreateTestUser(t, db).ID, n.ID)
		testutil.AssertAppError(t, err, "NOTIFICATION_NOT_FOUND")
	})
}

func TestMarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db, state.NewRegistry())
	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationKindInfo)
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationKindBill)

	testutil.AssertNoError(t, svc.MarkAllRead(user.ID))

	unread, err := svc.GetUserNotifications(user.ID, pagination.PageRequest{}, true)
	testutil.AssertNoError(t, err)
	if unread.TotalItems != 0 {
		t.Errorf("expected no unread notifications, got %d", unread.TotalItems)
	}
}

func TestDeleteAndClearNotifications(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewNotificationService(db, state.NewRegistry())
	user := testutil.CreateTestUser(t, db)
	n := testutil.CreateTestNotification(t, db, user.ID, models.NotificationKindInfo)
	testutil.CreateTestNotification(t, db, user.ID, models.NotificationKindInfo)

	testutil.AssertNoError(t, svc.DeleteNotification(user.ID, n.ID))
	testutil.AssertAppError(t, svc.DeleteNotification(user.ID, n.ID), "NOTIFICATION_NOT_FOUND")

	testutil.AssertNoError(t, svc.ClearNotifications(user.ID))

	remaining, err := svc.ListNotifications(user.ID)
	testutil.AssertNoError(t, err)
	if len(remaining) != 0 {
		t.Errorf("expected no notifications, got %d", len(remaining))
	}
}

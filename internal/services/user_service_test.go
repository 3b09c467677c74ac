package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"finboard/internal/models"
	"finboard/internal/state"
	"finboard/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		user, err := svc.CreateUser("Alice@Example.com", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected user ID to be set")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", user.Email)
		}
		if user.DisplayName != "Alice" {
			t.Errorf("expected display name Alice, got %s", user.DisplayName)
		}
	})

	t.Run("creates_default_preferences_and_widgets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		user, err := svc.CreateUser("prefs@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		var prefs models.UserPreferences
		if err := db.Where("user_id = ?", user.ID).First(&prefs).Error; err != nil {
			t.Fatalf("expected preferences row: %v", err)
		}
		if prefs.Currency != "USD" || !prefs.NotifyBillReminders {
			t.Errorf("unexpected default preferences: %+v", prefs)
		}

		var widgets int64
		db.Model(&models.DashboardWidget{}).Where("user_id = ?", user.ID).Count(&widgets)
		if widgets != 6 {
			t.Errorf("expected 6 widgets, got %d", widgets)
		}
	})

	t.Run("display_name_defaults_to_email_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		user, err := svc.CreateUser("bob@example.com", "password123", "")
		testutil.AssertNoError(t, err)
		if user.DisplayName != "bob" {
			t.Errorf("expected display name bob, got %s", user.DisplayName)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		_, err := svc.CreateUser("dup@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password456", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("empty_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		_, err := svc.CreateUser("", "password123", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		_, err := svc.CreateUser("nopass@example.com", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestCreateUser_password_is_hashed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, state.NewRegistry())

	user, err := svc.CreateUser("hash@example.com", "mypassword", "")
	testutil.AssertNoError(t, err)

	if user.Password == "mypassword" {
		t.Error("password should be hashed, not stored as plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("mypassword")); err != nil {
		t.Error("password hash should be valid bcrypt")
	}
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, state.NewRegistry())
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUserByID(user.ID)
	testutil.AssertNoError(t, err)
	if got.Email != user.Email {
		t.Errorf("expected email %s, got %s", user.Email, got.Email)
	}

	_, err = svc.GetUserByID("00000000-0000-0000-0000-000000000000")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_resets_attempts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		_, err := svc.CreateUser("login@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		db.Exec("UPDATE users SET failed_login_attempts = 3 WHERE email = ?", "login@example.com")

		user, err := svc.AttemptLogin("login@example.com", "password123")
		testutil.AssertNoError(t, err)

		if user.FailedLoginAttempts != 0 {
			t.Errorf("expected 0 failed attempts after success, got %d", user.FailedLoginAttempts)
		}
		if user.LastLoginAt == nil {
			t.Error("expected LastLoginAt to be set after successful login")
		}
	})

	t.Run("wrong_password_increments_attempts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		_, err := svc.CreateUser("fail@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("fail@example.com", "wrongpassword")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		user, _ := svc.GetUserByEmail("fail@example.com")
		if user.FailedLoginAttempts != 1 {
			t.Errorf("expected 1 failed attempt, got %d", user.FailedLoginAttempts)
		}
	})

	t.Run("lockout_after_5_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		_, err := svc.CreateUser("lockout@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		for i := 0; i < 5; i++ {
			_, err = svc.AttemptLogin("lockout@example.com", "wrong")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		user, _ := svc.GetUserByEmail("lockout@example.com")
		if user.LockedUntil == nil {
			t.Fatal("expected LockedUntil to be set after 5 failures")
		}
		if !user.LockedUntil.After(time.Now()) {
			t.Error("expected LockedUntil to be in the future")
		}

		_, err = svc.AttemptLogin("lockout@example.com", "password123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("nonexistent_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db, state.NewRegistry())

		_, err := svc.AttemptLogin("nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("updates_and_dispatches", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		store, ctrl := trackedStore(user.ID)
		ctrl.Dispatch(state.SetUser{User: state.Profile{ID: user.ID, DisplayName: user.DisplayName}})
		svc := NewUserService(db, store)

		updated, err := svc.UpdateProfile(user.ID, ptr("  New Name "), ptr("https://example.com/me.png"))
		testutil.AssertNoError(t, err)

		if updated.DisplayName != "New Name" {
			t.Errorf("expected display name %q, got %q", "New Name", updated.DisplayName)
		}
		profile := ctrl.State().Auth.User
		if profile.DisplayName != "New Name" || profile.PhotoURL != "https://example.com/me.png" {
			t.Errorf("expected state profile to be updated, got %+v", profile)
		}
	})

	t.Run("empty_display_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := NewUserService(db, state.NewRegistry())

		_, err := svc.UpdateProfile(user.ID, ptr("   "), nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db, state.NewRegistry())

	user := testutil.CreateTestUser(t, db)

	hash := "abcdef1234567890abcdef1234567890abcdef1234567890abcdef1234567890"
	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, hash))

	got, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != hash {
		t.Errorf("expected hash %s, got %s", hash, got)
	}

	testutil.AssertNoError(t, svc.RevokeRefreshToken(user.ID))
	got, err = svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if got != "" {
		t.Errorf("expected revoked hash to be empty, got %s", got)
	}

	err = svc.StoreRefreshTokenHash("00000000-0000-0000-0000-000000000000", hash)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "finboard/internal/errors"
	"finboard/internal/middleware"
	"finboard/internal/models"
	"finboard/internal/services"
	"finboard/internal/state"
	"finboard/internal/validator"
)

const testUserID = "0190a0b1-0000-7000-8000-000000000001"

// --- mock user service ---

type mockUserService struct {
	createUserFn            func(email, password, displayName string) (*models.User, error)
	getUserByEmailFn        func(email string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	attemptLoginFn          func(email, password string) (*models.User, error)
	updateProfileFn         func(userID string, displayName, photoURL *string) (*models.User, error)
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
	revokeRefreshTokenFn    func(userID string) error
}

func (m *mockUserService) CreateUser(email, password, displayName string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, password, displayName)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Email: email, DisplayName: displayName}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(email)
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}, Email: "test@example.com"}, nil
}

func (m *mockUserService) VerifyPassword(_ *models.User, _ string) bool { return true }

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
}

func (m *mockUserService) UpdateProfile(userID string, displayName, photoURL *string) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, displayName, photoURL)
	}
	return &models.User{Base: models.Base{ID: userID}}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

func (m *mockUserService) RevokeRefreshToken(userID string) error {
	if m.revokeRefreshTokenFn != nil {
		return m.revokeRefreshTokenFn(userID)
	}
	return nil
}

var _ services.UserServicer = (*mockUserService)(nil)

// --- mock session service ---

type mockSessionService struct {
	ended    []string
	reloadFn func(ctx context.Context, userID string) (state.State, error)
}

func (m *mockSessionService) Load(_ context.Context, _ string) (state.State, error) {
	return state.State{}, nil
}

func (m *mockSessionService) Reload(ctx context.Context, userID string) (state.State, error) {
	if m.reloadFn != nil {
		return m.reloadFn(ctx, userID)
	}
	return state.State{}, nil
}

func (m *mockSessionService) End(userID string) {
	m.ended = append(m.ended, userID)
}

var _ services.SessionServicer = (*mockSessionService)(nil)

// --- mock audit service ---

type mockAuditService struct {
	actions []string
}

func (m *mockAuditService) Log(_, action, _, _, _ string, _ map[string]interface{}) {
	m.actions = append(m.actions, action)
}

var _ services.AuditServicer = (*mockAuditService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func testTokens() *middleware.TokenIssuer {
	return middleware.NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/register", handler.Register)
	r.POST("/auth/login", handler.Login)
	r.POST("/auth/refresh", handler.RefreshToken)
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/auth/logout", handler.Logout)
	auth.GET("/profile", handler.GetProfile)
	auth.PUT("/profile", handler.UpdateProfile)
	return r
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

// --- tests ---

func TestAuthHandler_Register(t *testing.T) {
	t.Run("returns 201 with tokens on success", func(t *testing.T) {
		var storedHash string
		userSvc := &mockUserService{
			storeRefreshTokenHashFn: func(_, tokenHash string) error {
				storedHash = tokenHash
				return nil
			},
		}
		audit := &mockAuditService{}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, audit, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register",
			`{"email":"new@example.com","password":"password123","display_name":"New User"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["access_token"] == "" || result["access_token"] == nil {
			t.Error("expected access_token in response")
		}
		refresh, _ := result["refresh_token"].(string)
		if refresh == "" {
			t.Fatal("expected refresh_token in response")
		}
		if storedHash != middleware.HashToken(refresh) {
			t.Error("expected the refresh token hash to be stored")
		}
		if result["expires_in"] != float64(900) {
			t.Errorf("expected expires_in 900, got %v", result["expires_in"])
		}
		user := result["user"].(map[string]interface{})
		if user["display_name"] != "New User" {
			t.Errorf("expected display name New User, got %v", user["display_name"])
		}
		if len(audit.actions) != 1 || audit.actions[0] != "REGISTER" {
			t.Errorf("expected REGISTER audit entry, got %v", audit.actions)
		}
	})

	t.Run("returns 400 on invalid email", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"nope","password":"password123"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on short password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"a@example.com","password":"short"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 409 on duplicate email", func(t *testing.T) {
		userSvc := &mockUserService{
			createUserFn: func(_, _, _ string) (*models.User, error) {
				return nil, apperrors.ErrDuplicateEmail
			},
		}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"dup@example.com","password":"password123"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_EMAIL")
	})

	t.Run("returns 500 when the refresh token cannot be stored", func(t *testing.T) {
		userSvc := &mockUserService{
			storeRefreshTokenHashFn: func(_, _ string) error {
				return apperrors.Wrap(apperrors.ErrInternalServer, context.DeadlineExceeded)
			},
		}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/register", `{"email":"a@example.com","password":"password123"}`)

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with tokens on success", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["access_token"] == nil {
			t.Error("expected access_token in response")
		}
	})

	t.Run("returns 401 on wrong credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"wrong"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 423 when the account is locked", func(t *testing.T) {
		userSvc := &mockUserService{
			attemptLoginFn: func(_, _ string) (*models.User, error) {
				return nil, apperrors.ErrAccountLocked
			},
		}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com","password":"password123"}`)

		if rec.Code != http.StatusLocked {
			t.Fatalf("expected 423, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ACCOUNT_LOCKED")
	})

	t.Run("returns 400 on missing password", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/login", `{"email":"test@example.com"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	tokens := testTokens()
	user := &models.User{Base: models.Base{ID: testUserID}, Email: "test@example.com"}
	refresh, err := tokens.GenerateRefreshToken(user)
	if err != nil {
		t.Fatalf("failed to sign refresh token: %v", err)
	}

	t.Run("rotates the token pair", func(t *testing.T) {
		stored := middleware.HashToken(refresh)
		userSvc := &mockUserService{
			getRefreshTokenHashFn: func(_ string) (string, error) { return stored, nil },
			storeRefreshTokenHashFn: func(_, tokenHash string) error {
				stored = tokenHash
				return nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, &mockAuditService{}, tokens)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{"refresh_token":"`+refresh+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		next := parseJSON(t, rec)["refresh_token"].(string)
		if stored != middleware.HashToken(next) {
			t.Error("expected the new refresh token hash to replace the old one")
		}
	})

	t.Run("returns 401 for a revoked token", func(t *testing.T) {
		userSvc := &mockUserService{
			getRefreshTokenHashFn: func(_ string) (string, error) { return "", nil },
		}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, &mockAuditService{}, tokens)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{"refresh_token":"`+refresh+`"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})

	t.Run("returns 401 for an access token", func(t *testing.T) {
		access, _ := tokens.GenerateAccessToken(user)
		handler := NewAuthHandler(&mockUserService{}, &mockSessionService{}, &mockAuditService{}, tokens)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{"refresh_token":"`+access+`"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on missing token", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockSessionService{}, &mockAuditService{}, tokens)
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/refresh", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Run("revokes the refresh token and ends the session", func(t *testing.T) {
		var revoked string
		userSvc := &mockUserService{
			revokeRefreshTokenFn: func(userID string) error {
				revoked = userID
				return nil
			},
		}
		session := &mockSessionService{}
		handler := NewAuthHandler(userSvc, session, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "POST", "/auth/logout", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if revoked != testUserID {
			t.Errorf("expected refresh token of %s revoked, got %q", testUserID, revoked)
		}
		if len(session.ended) != 1 || session.ended[0] != testUserID {
			t.Errorf("expected session ended for %s, got %v", testUserID, session.ended)
		}
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	t.Run("returns 200 with profile", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(id string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: id}, Email: "test@example.com", DisplayName: "Test"}, nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["email"] != "test@example.com" {
			t.Errorf("expected test@example.com, got %v", user["email"])
		}
		if _, ok := user["password"]; ok {
			t.Error("password must not be exposed")
		}
	})

	t.Run("returns 404 when user is gone", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserByIDFn: func(_ string) (*models.User, error) { return nil, apperrors.ErrUserNotFound },
		}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("updates the display name", func(t *testing.T) {
		userSvc := &mockUserService{
			updateProfileFn: func(userID string, displayName, photoURL *string) (*models.User, error) {
				if photoURL != nil {
					t.Errorf("expected photo url untouched, got %q", *photoURL)
				}
				return &models.User{Base: models.Base{ID: userID}, DisplayName: *displayName}, nil
			},
		}
		handler := NewAuthHandler(userSvc, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := setupAuthRouter(handler)

		rec := doRequest(r, "PUT", "/profile", `{"display_name":"Renamed"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["display_name"] != "Renamed" {
			t.Errorf("expected Renamed, got %v", user["display_name"])
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewAuthHandler(&mockUserService{}, &mockSessionService{}, &mockAuditService{}, testTokens())
		r := gin.New()
		r.GET("/profile", handler.GetProfile)

		rec := doRequest(r, "GET", "/profile", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finboard/internal/errors"
)

func errorRouter(h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogging(), ErrorHandler())
	r.GET("/test", h)
	return r
}

func serve(r *gin.Engine) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
	return rec
}

func TestErrorHandler(t *testing.T) {
	t.Run("app error keeps its status and code", func(t *testing.T) {
		rec := serve(errorRouter(func(c *gin.Context) {
			_ = c.Error(apperrors.ErrSessionNotLoaded)
		}))
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
		assertErrorCode(t, rec, "SESSION_NOT_LOADED")
	})

	t.Run("wrapped app error", func(t *testing.T) {
		rec := serve(errorRouter(func(c *gin.Context) {
			_ = c.Error(apperrors.Wrap(apperrors.ErrAccountNotFound, errors.New("record not found")))
		}))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
		assertErrorCode(t, rec, "ACCOUNT_NOT_FOUND")
	})

	t.Run("plain error is hidden", func(t *testing.T) {
		rec := serve(errorRouter(func(c *gin.Context) {
			_ = c.Error(errors.New("pq: connection refused"))
		}))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		assertErrorCode(t, rec, "INTERNAL_ERROR")
		body := parseBody(t, rec)
		if msg := body["error"].(map[string]interface{})["message"]; msg == "pq: connection refused" {
			t.Error("internal detail leaked to client")
		}
	})

	t.Run("written response is left alone", func(t *testing.T) {
		rec := serve(errorRouter(func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			_ = c.Error(errors.New("late failure"))
		}))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
		if body := parseBody(t, rec); body["status"] != "ok" {
			t.Errorf("unexpected body: %v", body)
		}
	})

	t.Run("no error", func(t *testing.T) {
		rec := serve(errorRouter(func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		}))
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})
}

func TestAbortWithError(t *testing.T) {
	reached := false
	r := gin.New()
	r.GET("/test", func(c *gin.Context) {
		AbortWithError(c, apperrors.ErrRateLimited)
	}, func(c *gin.Context) {
		reached = true
	})

	rec := serve(r)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	assertErrorCode(t, rec, "RATE_LIMITED")
	if reached {
		t.Error("chain continued after abort")
	}
}

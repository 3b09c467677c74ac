package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "finboard/internal/errors"
	"finboard/internal/logger"
)

// ErrorHandler returns a Gin middleware that renders the last error a handler
// attached with c.Error. If the handler already wrote a response the error is
// only logged.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		if c.Writer.Written() {
			requestLog(c).Warnw("error after response written", "error", err)
			return
		}
		WriteError(c, err)
	}
}

// WriteError writes the JSON error body for err. Errors that are not an
// *AppError are reported as INTERNAL_ERROR with their detail kept in the log.
func WriteError(c *gin.Context, err error) {
	appErr := resolve(c, err)
	c.JSON(appErr.StatusCode, errorBody(appErr))
}

// AbortWithError writes the JSON error body for err and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	appErr := resolve(c, err)
	c.AbortWithStatusJSON(appErr.StatusCode, errorBody(appErr))
}

func resolve(c *gin.Context, err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			requestLog(c).Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
			)
		}
		return appErr
	}

	requestLog(c).Errorw("unexpected error", "error", err.Error())
	return apperrors.ErrInternalServer
}

func errorBody(err *apperrors.AppError) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    err.Code,
			"message": err.Message,
		},
	}
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	fields := []interface{}{"method", c.Request.Method, "path", c.Request.URL.Path}
	if id := c.GetString(RequestIDKey); id != "" {
		fields = append(fields, "request_id", id)
	}
	if userID := c.GetString(UserIDKey); userID != "" {
		fields = append(fields, "user_id", userID)
	}
	return logger.With(fields...)
}

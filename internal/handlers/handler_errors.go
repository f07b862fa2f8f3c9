package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/fernbooks/bookkeeping_app/internal/apperrors"
	"github.com/fernbooks/bookkeeping_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error onto an HTTP response. AppError codes
// win; sentinel errors fall back to conventional statuses.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallbackMsg string) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error(fallbackMsg, slog.String("error", err.Error()))
			c.JSON(appErr.Code, gin.H{"error": fallbackMsg})
			return
		}
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrAmountMismatch),
		errors.Is(err, apperrors.ErrMissingGLAccount),
		errors.Is(err, apperrors.ErrInvalidConfiguration):
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAlreadyMatched),
		errors.Is(err, apperrors.ErrSameAccountTransfer):
		logger.Warn(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallbackMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallbackMsg})
	}
}

// requireUserID pulls the authenticated user from the request context, writing
// the 401 itself when missing.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

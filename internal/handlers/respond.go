package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tallybooks/tallybooks/internal/apperrors"
	"github.com/tallybooks/tallybooks/internal/core/domain"
	"github.com/tallybooks/tallybooks/internal/middleware"
)

// requireAdmin aborts the request with 403 unless the authenticated caller
// holds the ADMIN role within their tenant. Returns true when the caller may
// proceed.
func requireAdmin(c *gin.Context, logger *slog.Logger) bool {
	role, ok := middleware.GetUserRoleFromCtx(c.Request.Context())
	if !ok || domain.UserRole(role) != domain.RoleAdmin {
		userID, _ := middleware.GetUserIDFromCtx(c.Request.Context())
		logger.Warn("Admin-only operation rejected",
			slog.String("user_id", userID),
			slog.String("role", role))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return false
	}
	return true
}

// respondServiceError maps service sentinel errors onto HTTP status codes.
// Anything unmapped is treated as an internal error with a generic message.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		logger.Error(internalMsg, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}

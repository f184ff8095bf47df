package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomtrack/api/internal/repository"
	"roomtrack/api/internal/service"
)

// respondError maps domain errors to an HTTP status and a stable
// machine code; anything unmapped becomes an opaque 500 so store
// internals never leak to callers.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
	case errors.Is(err, repository.ErrAlreadyCheckedIn):
		c.JSON(http.StatusBadRequest, gin.H{"error": "already_checked_in"})
	case errors.Is(err, repository.ErrNotCheckedIn):
		c.JSON(http.StatusBadRequest, gin.H{"error": "not_checked_in"})
	case errors.Is(err, repository.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "room_not_found"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
	case errors.Is(err, repository.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_exists"})
	case errors.Is(err, service.ErrCannotDeleteAdmin):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot_delete_admin"})
	case errors.Is(err, service.ErrRoomRequired),
		errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrPasswordRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error"})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

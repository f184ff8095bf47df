package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomtrack/api/internal/middleware"
	"roomtrack/api/internal/models"
)

type checkinRequest struct {
	Room string `json:"room" binding:"required"`
}

func (h HandlerSet) CheckIn(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no_token"})
		return
	}

	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error"})
		return
	}

	checkin, err := h.checkins.CheckIn(c.Request.Context(), user, req.Room)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, checkin)
}

func (h HandlerSet) CheckOut(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no_token"})
		return
	}

	var req checkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error"})
		return
	}

	checkin, err := h.checkins.CheckOut(c.Request.Context(), user, req.Room)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, checkin)
}

func (h HandlerSet) ListAllCheckins(c *gin.Context) {
	checkins, err := h.checkins.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	if checkins == nil {
		checkins = []models.Checkin{}
	}
	c.JSON(http.StatusOK, checkins)
}

// CurrentCheckin returns the caller's open record as a list of zero or
// one entries.
func (h HandlerSet) CurrentCheckin(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no_token"})
		return
	}

	checkins, err := h.checkins.Current(c.Request.Context(), user)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if checkins == nil {
		checkins = []models.Checkin{}
	}
	c.JSON(http.StatusOK, checkins)
}

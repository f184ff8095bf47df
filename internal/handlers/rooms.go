package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomtrack/api/internal/models"
)

func (h HandlerSet) GetRoom(c *gin.Context) {
	name := c.Param("name")

	view, err := h.rooms.Get(c.Request.Context(), name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h HandlerSet) ListRooms(c *gin.Context) {
	views, err := h.rooms.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	if views == nil {
		views = []models.RoomView{}
	}
	c.JSON(http.StatusOK, views)
}

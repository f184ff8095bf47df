package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"roomtrack/api/internal/models"
)

type loginRequest struct {
	RegisterNumber *int64 `json:"registerNumber" binding:"required"`
	Password       string `json:"password" binding:"required"`
}

type userResponse struct {
	RegisterNumber int64  `json:"registerNumber"`
	Name           string `json:"name"`
	Role           string `json:"role"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(user models.User) userResponse {
	return userResponse{
		RegisterNumber: user.RegisterNumber,
		Name:           user.Name,
		Role:           string(user.Role),
	}
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error"})
		return
	}

	result, err := h.auth.Login(c.Request.Context(), *req.RegisterNumber, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token: result.Token,
		User:  toUserResponse(result.User),
	})
}

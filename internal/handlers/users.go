package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	RegisterNumber *int64 `json:"registerNumber" binding:"required"`
	Password       string `json:"password" binding:"required"`
	Name           string `json:"name" binding:"required"`
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error"})
		return
	}

	user, err := h.accounts.Create(c.Request.Context(), *req.RegisterNumber, req.Name, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}
	c.JSON(http.StatusOK, resp)
}

type updateUserRequest struct {
	RegisterNumber *int64 `json:"registerNumber" binding:"required"`
	Name           string `json:"name"`
	Password       string `json:"password"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error"})
		return
	}

	user, err := h.accounts.Update(c.Request.Context(), *req.RegisterNumber, req.Name, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

type deleteUserRequest struct {
	RegisterNumber *int64 `json:"registerNumber" binding:"required"`
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error"})
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), *req.RegisterNumber); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jon4hz/vazby/internal/api/models"
	"github.com/jon4hz/vazby/internal/directory"
)

type userRequest struct {
	ID       *uint   `json:"id"`
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

// ListUsers returns all users.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.engine.ListUsers(c.Request.Context(), PrincipalFrom(c))
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": models.ToUsers(users)})
}

// CreateUser adds a new user.
func (h *Handler) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	user, err := h.engine.CreateUser(c.Request.Context(), PrincipalFrom(c), directory.UserInput{
		Username: deref(req.Username),
		Password: deref(req.Password),
		Email:    deref(req.Email),
		Role:     deref(req.Role),
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": models.ToUser(*user)})
}

// UpdateUser applies a partial update. The id is taken from the path or the body.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	id, err := resolveID(c, req.ID)
	if err != nil {
		badRequest(c, "user ID is required")
		return
	}

	user, err := h.engine.UpdateUser(c.Request.Context(), PrincipalFrom(c), id, directory.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
		Active:   req.Active,
		Password: req.Password,
	})
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": models.ToUser(*user)})
}

// DeleteUser removes a user.
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		badRequest(c, "user ID is required")
		return
	}

	if err := h.engine.DeleteUser(c.Request.Context(), PrincipalFrom(c), id); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

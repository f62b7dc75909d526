package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/vazby/internal/api/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login authenticates the caller and stores the user id in the session.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	user, err := h.engine.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		WriteError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(SessionUserID, user.ID)
	if err := session.Save(); err != nil {
		WriteError(c, err)
		return
	}

	log.Info("user logged in", "username", user.Username, "role", user.Role)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": models.ToUser(*user)})
}

// Logout ends the session. It always succeeds.
func (h *Handler) Logout(c *gin.Context) {
	h.engine.Logout(c.Request.Context(), PrincipalFrom(c))

	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Error("failed to clear session", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Status reports whether the session belongs to an active user.
func (h *Handler) Status(c *gin.Context) {
	p := PrincipalFrom(c)
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	user, err := h.engine.CurrentUser(c.Request.Context(), p.UserID)
	if err != nil {
		WriteError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": models.ToUser(*user)})
}

// ChangePassword replaces the password of the logged in user.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	if err := h.engine.ChangePassword(c.Request.Context(), PrincipalFrom(c), req.CurrentPassword, req.NewPassword); err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Health reports liveness and database reachability.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

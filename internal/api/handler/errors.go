package handler

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/directory"
)

// WriteError maps err to a status code and writes the JSON error body.
// Unexpected errors are logged and answered with a generic message.
func WriteError(c *gin.Context, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(ContextRequestID),
			"error", err,
		)
	}
	c.JSON(status, gin.H{"error": msg})
}

func classify(err error) (int, string) {
	var derr *directory.Error
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.As(err, &derr):
		switch derr.Kind {
		case directory.KindNotFound:
			return http.StatusNotFound, derr.Error()
		case directory.KindInvalidCredentials:
			return http.StatusUnauthorized, derr.Error()
		default:
			return http.StatusBadRequest, derr.Error()
		}
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

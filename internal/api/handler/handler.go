package handler

import (
	"errors"
	"strconv"

	"github.com/ccoveille/go-safecast"
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/database"
	"github.com/jon4hz/vazby/internal/directory"
)

const (
	// SessionUserID is the session key holding the id of the logged in user.
	SessionUserID = "user_id"

	// ContextPrincipal is the gin context key of the request principal.
	ContextPrincipal = "principal"
	// ContextRequestID is the gin context key of the request id.
	ContextRequestID = "request_id"
)

var errMissingID = errors.New("missing id")

type Handler struct {
	engine *directory.Engine
	db     database.DB
}

func New(eng *directory.Engine, db database.DB) *Handler {
	return &Handler{
		engine: eng,
		db:     db,
	}
}

// PrincipalFrom returns the principal resolved for the request, or nil for anonymous callers.
func PrincipalFrom(c *gin.Context) *auth.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}

func parseUintParam(param string) (uint, error) {
	if param == "" {
		return 0, errMissingID
	}
	id, err := strconv.ParseUint(param, 10, 64)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errMissingID
	}
	return safecast.Convert[uint](id)
}

// resolveID returns the id from the path, falling back to the id sent in the body.
func resolveID(c *gin.Context, bodyID *uint) (uint, error) {
	if param := c.Param("id"); param != "" {
		return parseUintParam(param)
	}
	if bodyID == nil || *bodyID == 0 {
		return 0, errMissingID
	}
	return *bodyID, nil
}

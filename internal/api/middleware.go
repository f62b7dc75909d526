package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jon4hz/vazby/internal/api/handler"
	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/directory"
)

const headerRequestID = "X-Request-ID"

// requestID tags every request with an id, reusing the one sent by a proxy.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handler.ContextRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(handler.ContextRequestID),
		}
		if p := handler.PrincipalFrom(c); p != nil {
			fields = append(fields, "user", p.Username)
		}
		log.Debug("request", fields...)
	}
}

// loadPrincipal resolves the session user against the database on every request.
// Sessions of deleted or deactivated users are cleared.
func (s *Server) loadPrincipal() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(handler.SessionUserID).(uint)
		if userID == 0 {
			c.Next()
			return
		}

		user, err := s.engine.CurrentUser(c.Request.Context(), userID)
		if err != nil {
			handler.WriteError(c, err)
			c.Abort()
			return
		}
		if user == nil {
			log.Debug("dropping session of unknown or inactive user", "user_id", userID)
			session.Clear()
			if err := session.Save(); err != nil {
				log.Error("failed to clear session", "error", err)
			}
			c.Next()
			return
		}

		c.Set(handler.ContextPrincipal, directory.PrincipalFor(user))
		c.Next()
	}
}

// requireOperation enforces the policy of op before the handler runs.
func requireOperation(op auth.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Check(op, handler.PrincipalFrom(c)); err != nil {
			handler.WriteError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

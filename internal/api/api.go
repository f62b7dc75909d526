package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/jon4hz/vazby/internal/api/handler"
	"github.com/jon4hz/vazby/internal/auth"
	"github.com/jon4hz/vazby/internal/config"
	"github.com/jon4hz/vazby/internal/database"
	"github.com/jon4hz/vazby/internal/directory"
)

const sessionName = "vazby_session"

type Server struct {
	cfg       *config.Config
	ginEngine *gin.Engine
	engine    *directory.Engine
	db        database.DB
}

func New(cfg *config.Config, db database.DB, e *directory.Engine) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if e == nil || db == nil {
		return nil, fmt.Errorf("engine and database are required")
	}

	ginEngine := gin.New()
	ginEngine.HandleMethodNotAllowed = true

	s := &Server{
		cfg:       cfg,
		ginEngine: ginEngine,
		engine:    e,
		db:        db,
	}

	ginEngine.Use(gin.Recovery(), requestID(), requestLogger())
	ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	s.setupSession()
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(sessionName, store))
	s.ginEngine.Use(s.loadPrincipal())
}

type route struct {
	method string
	path   string
	op     auth.Operation
	handle gin.HandlerFunc
}

func (s *Server) routes(h *handler.Handler) []route {
	return []route{
		{http.MethodPost, "/api/auth/login", auth.OpLogin, h.Login},
		{http.MethodGet, "/api/auth/logout", auth.OpLogout, h.Logout},
		{http.MethodGet, "/api/auth/status", auth.OpStatus, h.Status},
		{http.MethodPost, "/api/auth/change-password", auth.OpChangePassword, h.ChangePassword},

		{http.MethodGet, "/api/vazby", auth.OpListLinks, h.ListLinks},
		{http.MethodPost, "/api/vazby", auth.OpCreateLink, h.CreateLink},
		{http.MethodPut, "/api/vazby", auth.OpUpdateLink, h.UpdateLink},
		{http.MethodPut, "/api/vazby/:id", auth.OpUpdateLink, h.UpdateLink},
		{http.MethodDelete, "/api/vazby", auth.OpDeleteLink, h.DeleteLink},
		{http.MethodDelete, "/api/vazby/:id", auth.OpDeleteLink, h.DeleteLink},

		{http.MethodGet, "/api/users", auth.OpListUsers, h.ListUsers},
		{http.MethodPost, "/api/users", auth.OpCreateUser, h.CreateUser},
		{http.MethodPut, "/api/users", auth.OpUpdateUser, h.UpdateUser},
		{http.MethodPut, "/api/users/:id", auth.OpUpdateUser, h.UpdateUser},
		{http.MethodDelete, "/api/users", auth.OpDeleteUser, h.DeleteUser},
		{http.MethodDelete, "/api/users/:id", auth.OpDeleteUser, h.DeleteUser},
	}
}

func (s *Server) setupRoutes() {
	h := handler.New(s.engine, s.db)

	for _, r := range s.routes(h) {
		s.ginEngine.Handle(r.method, r.path, requireOperation(r.op), r.handle)
	}

	s.ginEngine.GET("/healthz", h.Health)

	s.ginEngine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
	})
	s.ginEngine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "address", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to run server: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

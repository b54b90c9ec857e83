// Package http wires the gin router, the middleware chain and the route table of the
// identity service.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	adminHTTP "github.com/allisson/gatekeeper/internal/admin/http"
	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	"github.com/allisson/gatekeeper/internal/config"
	"github.com/allisson/gatekeeper/internal/metrics"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
	checks map[string]ReadinessCheck
}

// NewServer creates a new HTTP server. The database is always part of the readiness probe.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		checks: make(map[string]ReadinessCheck),
		server: newHTTPServer(host, port),
	}
}

// newHTTPServer applies the timeouts shared by the API and metrics listeners.
func newHTTPServer(host string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// AddReadinessCheck registers an extra component reported by /ready.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checks[name] = check
}

// SetupRouter builds the route table. ctx bounds the lifetime of background workers owned
// by the middleware (the rate limiter sweeper).
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	sessionHandler *authHTTP.SessionHandler,
	adminHandler *adminHTTP.AdminHandler,
	guard authUseCase.AuthorizationGuard,
	metricsProvider *metrics.Provider,
	metricsNamespace string,
) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	{
		unauthenticated := []gin.HandlerFunc{}
		if cfg.RateLimitLoginEnabled {
			unauthenticated = append(unauthenticated, authHTTP.IPRateLimitMiddleware(
				ctx,
				cfg.RateLimitLoginRequestsPerSec,
				cfg.RateLimitLoginBurst,
				s.logger,
			))
		}

		auth.POST("/login", append(unauthenticated, sessionHandler.LoginHandler)...)
		auth.POST("/refresh", append(unauthenticated, sessionHandler.RefreshHandler)...)
		auth.POST("/logout", authHTTP.RequireRoles(guard, s.logger), sessionHandler.LogoutHandler)
	}

	admins := v1.Group("/admins")
	admins.Use(authHTTP.RequireRoles(guard, s.logger, authDomain.RoleAdmin))
	{
		admins.POST("", adminHandler.CreateHandler)
		admins.GET("", adminHandler.ListHandler)
		admins.GET("/me", adminHandler.MeHandler)
		admins.GET("/:id", adminHandler.GetHandler)
		admins.PATCH("/:id", adminHandler.UpdateHandler)
		admins.DELETE("/:id", adminHandler.DeleteHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server. SetupRouter must be called first.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}

	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports "ready" only when the database and every registered check
// respond within readinessTimeout.
func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	ready := true
	components := gin.H{}

	if s.db == nil || s.db.PingContext(ctx) != nil {
		ready = false
		components["database"] = "error"
	} else {
		components["database"] = "ok"
	}

	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			ready = false
			components[name] = "error"
			s.logger.Warn("readiness check failed", slog.String("component", name), slog.Any("error", err))
			continue
		}
		components[name] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}

// Package server assembles the HTTP API: routing, rate limiting, auth,
// request logging, and audit.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spinlink/internal/audit"
	endpointhandler "spinlink/internal/endpoint/handler"
	healthhandler "spinlink/internal/health/handler"
	identityhandler "spinlink/internal/identity/handler"
	"spinlink/internal/logging"
	"spinlink/internal/ratelimit"
	"spinlink/internal/security"
	"spinlink/internal/server/middleware"
	showhandler "spinlink/internal/show/handler"
	tenanthandler "spinlink/internal/tenant/handler"
)

// Rate limit classes. Each class gets its own limiter instance.
const (
	ClassResolve = "resolve"
	ClassAuth    = "auth"
	ClassAdmin   = "admin"
)

// Config carries everything the router needs. All handlers must be non-nil;
// AuditLogger may be nil to disable auditing.
type Config struct {
	Logger *zap.Logger

	Shows     *showhandler.Server
	Endpoints *endpointhandler.Server
	Tenants   *tenanthandler.Server
	Identity  *identityhandler.Server
	Health    *healthhandler.Server

	EndpointAuth  middleware.EndpointAuthenticator
	TokenProvider *security.TokenProvider
	AuditLogger   audit.AuditLogger

	ResolveLimiter *ratelimit.Limiter
	AuthLimiter    *ratelimit.Limiter
	AdminLimiter   *ratelimit.Limiter
}

// NewRouter builds the gin engine with the full route tree. Public resolution
// routes sit behind the resolve limiter, token routes behind the auth limiter,
// and authenticated control routes behind the admin limiter.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.AuditLogger != nil {
		r.Use(middleware.Audit(cfg.AuditLogger))
	}

	r.GET("/healthz", cfg.Health.Check)

	public := r.Group("", middleware.RateLimit(ClassResolve, cfg.ResolveLimiter))
	{
		public.GET("/connect/:code", cfg.Shows.Resolve)
		public.GET("/tenants/resolve", cfg.Tenants.Resolve)
	}

	auth := r.Group("/auth", middleware.RateLimit(ClassAuth, cfg.AuthLimiter))
	{
		auth.POST("/token", cfg.Identity.Token)
		auth.POST("/refresh", cfg.Identity.Refresh)
		auth.POST("/logout", cfg.Identity.Logout)
	}

	endpointAuthed := r.Group("",
		middleware.RateLimit(ClassAdmin, cfg.AdminLimiter),
		middleware.APIKeyAuth(cfg.EndpointAuth))
	{
		endpointAuthed.POST("/shows", cfg.Shows.Create)
		endpointAuthed.DELETE("/shows/:id", cfg.Shows.End)
		endpointAuthed.PUT("/endpoints/:id/heartbeat", cfg.Endpoints.Heartbeat)
	}

	userAuthed := r.Group("",
		middleware.RateLimit(ClassAdmin, cfg.AdminLimiter),
		middleware.BearerAuth(cfg.TokenProvider))
	{
		userAuthed.POST("/endpoints", cfg.Endpoints.Register)
	}

	return r
}

// Server wraps the HTTP server with graceful shutdown.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// New returns a Server listening on addr with the configured router.
func New(addr string, cfg Config) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: cfg.Logger,
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.Addr(s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

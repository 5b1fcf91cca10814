package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quantwp/pkg/config"
	"quantwp/pkg/handlers"
	"quantwp/pkg/hostctx"
	"quantwp/pkg/logger"
	"quantwp/pkg/middleware"
)

// Server constants
const (
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 30 * time.Second
	DefaultIdleTimeout  = 120 * time.Second
	DefaultVersion      = "1.0.0"
	ServiceName         = "quantwp"
)

// Config holds HTTP server configuration
type Config struct {
	Address string
	Port    int
	Config  *config.Config
}

// HTTPServer represents the HTTP server component
type HTTPServer struct {
	server     *http.Server
	router     *gin.Engine
	config     *Config
	handlerSvc *handlers.HandlerService
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(cfg *Config, handlerSvc *handlers.HandlerService) *HTTPServer {
	logger.Info("Initializing HTTP server", zap.String("address", cfg.Address), zap.Int("port", cfg.Port))

	if cfg.Config.App.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		router:     gin.New(),
		config:     cfg,
		handlerSvc: handlerSvc,
	}
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Address, cfg.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
	}

	logger.Info("HTTP server initialized", zap.String("listen_addr", addr))
	return s
}

// Handler exposes the router, mainly for tests
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) setupRoutes() {
	s.addMiddleware()

	s.router.GET("/health", s.handlerSvc.HealthCheck)
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": ServiceName, "version": DefaultVersion})
	})

	s.setupAPIRoutes()

	logger.Info("HTTP routes configured", zap.Int("route_count", len(s.router.Routes())))
}

func (s *HTTPServer) addMiddleware() {
	app := s.config.Config

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, middleware.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader}

	s.router.Use(
		middleware.RequestID(),
		middleware.GinZapLogger(),
		middleware.Recovery(),
		cors.New(corsCfg),
		middleware.ErrorHandler(),
		middleware.HostContext(hostctx.NewResolver(app.Edge.OrigHostHeader), app.Site.HomeURL, app.Site.SiteURL),
	)
}

func (s *HTTPServer) setupAPIRoutes() {
	api := s.router.Group("/api/v1")

	s.setupSystemRoutes(api)
	s.setupSettingsRoutes(api)
	s.setupSchedulerRoutes(api)
}

func (s *HTTPServer) setupSystemRoutes(api *gin.RouterGroup) {
	api.GET("/status", s.handlerSvc.GetStatus)
	api.GET("/site", s.handlerSvc.GetSite)
	api.GET("/mail/from", s.handlerSvc.GetMailFrom)
}

func (s *HTTPServer) setupSettingsRoutes(api *gin.RouterGroup) {
	limiter := middleware.NewLimiter(s.config.Config.Sync.RateLimit)

	api.GET("/settings", s.handlerSvc.GetSettings)
	api.POST("/settings/sync", middleware.RateLimit(limiter), s.handlerSvc.TriggerSync)
}

func (s *HTTPServer) setupSchedulerRoutes(api *gin.RouterGroup) {
	api.GET("/scheduler/status", s.handlerSvc.GetSchedulerStatus)
	api.GET("/scheduler/jobs", s.handlerSvc.GetScheduledJobs)
	api.POST("/scheduler/jobs/:id/run", s.handlerSvc.RunScheduledJob)
}

// Start starts the HTTP server and blocks until it stops
func (s *HTTPServer) Start() error {
	logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}

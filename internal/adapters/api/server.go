// Package api provides HTTP adapters for the hexagonal architecture
// These adapters handle incoming HTTP requests and translate them to use cases
package api

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"weatherlog.app/internal/core/auth"
	"weatherlog.app/internal/core/history"
	"weatherlog.app/internal/core/identity"
	"weatherlog.app/internal/core/weather"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

const (
	readHeaderTimeout = 10 * time.Second
	corsMaxAge        = 12 * time.Hour
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port           int
	AllowedOrigins []string
}

// HTTPServerAdapter implements HTTP server using Gin framework
type HTTPServerAdapter struct {
	router         *gin.Engine
	httpServer     *http.Server
	config         ServerConfig
	authUseCase    AuthUseCase
	weatherUseCase WeatherUseCase
	historyUseCase HistoryUseCase
	healthChecker  ports.SystemHealthChecker
	metrics        ports.MetricsRecorder
	metricsHandler http.Handler
	logger         ports.Logger
}

// Use case interfaces that the HTTP adapter depends on
type AuthUseCase interface {
	Register(ctx context.Context, params auth.RegisterParams) (*auth.Session, error)
	Login(ctx context.Context, params auth.LoginParams) (*auth.Session, error)
	Logout(ctx context.Context, caller identity.Caller) error
	CurrentUser(ctx context.Context, caller identity.Caller) (*auth.User, error)
	Authenticate(ctx context.Context, token string) (identity.Caller, error)
}

type WeatherUseCase interface {
	GetWeather(ctx context.Context, caller identity.Caller, city string) (*weather.Lookup, error)
	GetCitySuggestions(ctx context.Context, query string) ([]weather.CitySuggestion, error)
}

type HistoryUseCase interface {
	SaveSearch(ctx context.Context, caller identity.Caller, params history.SaveParams) (*history.Record, error)
	ListHistory(ctx context.Context, caller identity.Caller) ([]*history.Record, error)
	GetRecord(ctx context.Context, caller identity.Caller, id uint) (*history.Record, error)
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config         ServerConfig
	AuthUseCase    AuthUseCase
	WeatherUseCase WeatherUseCase
	HistoryUseCase HistoryUseCase
	HealthChecker  ports.SystemHealthChecker
	Metrics        ports.MetricsRecorder
	MetricsHandler http.Handler
	Logger         ports.Logger
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	router := gin.New()

	server := &HTTPServerAdapter{
		router:         router,
		config:         opts.Config,
		authUseCase:    opts.AuthUseCase,
		weatherUseCase: opts.WeatherUseCase,
		historyUseCase: opts.HistoryUseCase,
		healthChecker:  opts.HealthChecker,
		metrics:        opts.Metrics,
		metricsHandler: opts.MetricsHandler,
		logger:         opts.Logger,
	}

	server.setupMiddleware()
	server.setupRoutes()
	server.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Config.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.AuthUseCase == nil {
		return errors.NewValidationError("auth use case is required")
	}
	if opts.WeatherUseCase == nil {
		return errors.NewValidationError("weather use case is required")
	}
	if opts.HistoryUseCase == nil {
		return errors.NewValidationError("history use case is required")
	}
	if opts.HealthChecker == nil {
		return errors.NewValidationError("health checker is required")
	}
	if opts.Metrics == nil {
		return errors.NewValidationError("metrics recorder is required")
	}
	if opts.Logger == nil {
		return errors.NewValidationError("logger is required")
	}
	return nil
}

func (s *HTTPServerAdapter) setupMiddleware() {
	s.router.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		s.router.Use(gin.Logger())
	}
	s.router.Use(
		requestIDMiddleware(),
		s.accessLogMiddleware(),
		s.metricsMiddleware(),
		cors.New(corsConfig(s.config.AllowedOrigins)),
	)
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/weather", s.optionalAuth(), s.getWeather)
		api.GET("/city-suggestions", s.getCitySuggestions)
		api.GET("/health", s.getHealth)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", s.register)
		authGroup.POST("/login", s.login)
		authGroup.POST("/logout", s.requireAuth(), s.logout)
		authGroup.GET("/user", s.requireAuth(), s.currentUser)

		protected := api.Group("", s.requireAuth())
		protected.POST("/save-search", s.saveSearch)
		protected.GET("/search-history", s.listSearchHistory)
		protected.GET("/history", s.listSearchHistory)
		protected.GET("/history/:id", s.getHistoryRecord)
	}

	if s.metricsHandler != nil {
		s.router.GET("/metrics", gin.WrapH(s.metricsHandler))
	}
}

// Start begins serving and blocks until the server stops.
// A clean Shutdown is not reported as an error.
func (s *HTTPServerAdapter) Start() error {
	s.logger.Info("Starting HTTP server", ports.F("port", s.config.Port))
	if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests. Called before Start, it makes a
// later Start return immediately.
func (s *HTTPServerAdapter) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// GetRouter returns the router for testing purposes
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", headerRequestID},
		ExposeHeaders:    []string{headerRequestID},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}

	for _, origin := range origins {
		if origin == "*" {
			// reflect the caller's origin; a literal "*" is rejected by browsers with credentials
			cfg.AllowOriginFunc = func(string) bool { return true }
			return cfg
		}
	}
	if len(origins) == 0 {
		// no configured origins: cross-origin requests are refused
		cfg.AllowOriginFunc = func(string) bool { return false }
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"weatherlog.app/internal/adapters/api"
	"weatherlog.app/internal/config"
	"weatherlog.app/internal/core/auth"
	"weatherlog.app/internal/core/history"
	"weatherlog.app/internal/core/weather"
	"weatherlog.app/internal/ports"
)

type Application struct {
	config *config.Config
	logger ports.Logger

	// Use Cases
	authUseCase    *auth.UseCase
	weatherUseCase *weather.UseCase
	historyUseCase *history.UseCase

	// Adapters
	httpServer *api.HTTPServerAdapter

	// Infrastructure
	deps  *DependencyContainer
	ports *ports.ApplicationPorts
}

// NewApplication wires every layer from configuration
func NewApplication(cfg *config.Config, logger ports.Logger) (*Application, error) {
	deps, err := NewDependencyContainer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	app, err := NewApplicationWithDependencies(cfg, deps)
	if err != nil {
		_ = deps.Cleanup()
		return nil, err
	}
	return app, nil
}

// NewApplicationWithDependencies creates an application with provided dependencies (for testing)
func NewApplicationWithDependencies(cfg *config.Config, deps *DependencyContainer) (*Application, error) {
	app := &Application{
		config: cfg,
		deps:   deps,
		ports:  deps.ApplicationPorts(),
		logger: deps.ApplicationPorts().Logger,
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	a.logger.Info("Initializing use cases")

	authUseCase, err := auth.NewUseCase(auth.UseCaseDependencies{
		UserRepo:  a.ports.UserRepository,
		TokenRepo: a.ports.TokenRepository,
		Hasher:    a.ports.PasswordHasher,
		Logger:    a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create auth use case: %w", err)
	}
	a.authUseCase = authUseCase

	historyUseCase, err := history.NewUseCase(history.UseCaseDependencies{
		Repo:    a.ports.SearchHistoryRepository,
		Logger:  a.ports.Logger,
		Metrics: a.ports.Metrics,
	})
	if err != nil {
		return fmt.Errorf("create history use case: %w", err)
	}
	a.historyUseCase = historyUseCase

	weatherUseCase, err := weather.NewUseCase(weather.UseCaseDependencies{
		Gateway: a.ports.WeatherGateway,
		History: a.historyUseCase,
		Logger:  a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create weather use case: %w", err)
	}
	a.weatherUseCase = weatherUseCase

	return nil
}

func (a *Application) initializeAdapters() error {
	gin.SetMode(a.config.Server.GinMode)

	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			Port:           a.config.Server.Port,
			AllowedOrigins: a.config.Server.AllowedOrigins,
		},
		AuthUseCase:    a.authUseCase,
		WeatherUseCase: a.weatherUseCase,
		HistoryUseCase: a.historyUseCase,
		HealthChecker:  a.deps.HealthChecker(),
		Metrics:        a.ports.Metrics,
		MetricsHandler: a.deps.Metrics().Handler(),
		Logger:         a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}
	a.httpServer = httpAdapter

	return nil
}

// Start serves HTTP until Shutdown is called
func (a *Application) Start() error {
	a.logger.Info("Starting application", ports.F("port", a.config.Server.Port))
	return a.httpServer.Start()
}

func (a *Application) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error("Error shutting down HTTP server", ports.F("error", err))
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	if err := a.deps.Cleanup(); err != nil {
		a.logger.Warn("Error releasing resources", ports.F("error", err))
	}

	a.logger.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// GetRouter returns the Gin router for testing
func (a *Application) GetRouter() *gin.Engine {
	return a.httpServer.GetRouter()
}

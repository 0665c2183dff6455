package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"weatherlog.app/internal/adapters/database"
	"weatherlog.app/internal/adapters/external"
	"weatherlog.app/internal/adapters/infrastructure"
	"weatherlog.app/internal/config"
	"weatherlog.app/internal/ports"
)

// DependencyContainer opens infrastructure and builds the adapters behind every port
type DependencyContainer struct {
	config  *config.Config
	db      *gorm.DB
	cache   ports.CacheProvider
	metrics *infrastructure.PrometheusMetrics
	health  *infrastructure.SystemHealthChecker
	ports   *ports.ApplicationPorts
}

func NewDependencyContainer(cfg *config.Config, logger ports.Logger) (*DependencyContainer, error) {
	container := &DependencyContainer{
		config:  cfg,
		metrics: infrastructure.NewPrometheusMetrics(),
	}

	if err := container.initializeDatabase(logger); err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := container.initializePorts(logger); err != nil {
		_ = container.Cleanup()
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	return container, nil
}

func (c *DependencyContainer) initializeDatabase(logger ports.Logger) error {
	logger.Info("Initializing database connection", ports.F("driver", c.config.Database.Driver.String()))

	db, err := gorm.Open(dialector(c.config.Database), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if c.config.Database.Driver == config.DatabaseDriverSQLite {
		// sqlite allows a single writer
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	logger.Info("Running database migrations")
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	c.db = db
	logger.Info("Database connection established successfully")
	return nil
}

func dialector(cfg config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DatabaseDriverSQLite {
		return sqlite.Open(cfg.GetDSN())
	}
	return postgres.Open(cfg.GetDSN())
}

func (c *DependencyContainer) initializePorts(logger ports.Logger) error {
	gateway := c.buildWeatherGateway(logger)

	cache, err := external.NewCacheProviderFactory().CreateCacheProvider(&c.config.Cache)
	if err != nil {
		return fmt.Errorf("create cache provider: %w", err)
	}
	c.cache = cache

	if cache != nil && c.config.Cache.FlushOnStart {
		if err := cache.Clear(context.Background()); err != nil {
			return fmt.Errorf("flush suggestion cache: %w", err)
		}
		logger.Info("Suggestion cache flushed", ports.F("type", c.config.Cache.Type.String()))
	}

	if cache != nil {
		gateway = external.NewCachedSuggestionGateway(external.CachedSuggestionGatewayParams{
			Gateway:   gateway,
			Cache:     cache,
			TTL:       time.Duration(c.config.Cache.TTLMinutes) * time.Minute,
			CacheName: c.config.Cache.Type.String(),
			Logger:    logger,
			Metrics:   c.metrics,
		})
	}
	logger.Info("Suggestion cache initialized", ports.F("type", c.config.Cache.Type.String()))

	c.health = infrastructure.NewSystemHealthChecker(infrastructure.SystemHealthCheckerConfig{
		DatabaseChecker:   infrastructure.NewDatabaseHealthChecker(c.db),
		WeatherAPIChecker: infrastructure.NewWeatherAPIHealthChecker(c.config.OpenWeather.APIKey, c.config.OpenWeather.BaseURL),
		CacheChecker:      infrastructure.NewCacheHealthChecker(c.config.Cache.Type.String(), cache),
	})

	c.ports = &ports.ApplicationPorts{
		UserRepository:          database.NewUserRepositoryAdapter(c.db),
		TokenRepository:         database.NewTokenRepositoryAdapter(c.db),
		PasswordHasher:          infrastructure.NewBcryptHasher(c.config.Auth.BcryptCost),
		SearchHistoryRepository: database.NewSearchHistoryRepositoryAdapter(c.db),
		WeatherGateway:          gateway,
		SuggestionCache:         cache,
		Logger:                  logger,
		Metrics:                 c.metrics,
		Database:                c.db,
	}

	logger.Info("Ports initialized successfully")
	return nil
}

// buildWeatherGateway wraps the OpenWeatherMap client with instrumentation.
// The suggestion cache sits outside so cache hits are not counted as upstream calls.
func (c *DependencyContainer) buildWeatherGateway(logger ports.Logger) ports.WeatherGateway {
	owm := c.config.OpenWeather
	if owm.APIKey == "" {
		logger.Warn("OPENWEATHER_API_KEY is not set, weather lookups will fail")
	}

	client := external.NewOpenWeatherMapGateway(external.OpenWeatherMapGatewayParams{
		APIKey:         owm.APIKey,
		WeatherBaseURL: owm.BaseURL,
		GeoBaseURL:     owm.GeoURL,
		Timeout:        time.Duration(owm.TimeoutSeconds) * time.Second,
		Logger:         logger,
	})

	return external.NewInstrumentedWeatherGateway(external.InstrumentedWeatherGatewayParams{
		Gateway:     client,
		Logger:      logger,
		Metrics:     c.metrics,
		LogRequests: owm.EnableLogging,
	})
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

func (c *DependencyContainer) HealthChecker() ports.SystemHealthChecker {
	return c.health
}

func (c *DependencyContainer) Metrics() *infrastructure.PrometheusMetrics {
	return c.metrics
}

func (c *DependencyContainer) Database() *gorm.DB {
	return c.db
}

// Cleanup closes the cache client and the database pool
func (c *DependencyContainer) Cleanup() error {
	var firstErr error
	if closer, ok := c.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			firstErr = err
		}
	}
	if c.db != nil {
		if db, err := c.db.DB(); err == nil {
			if err := db.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

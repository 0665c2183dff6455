package ports

import "gorm.io/gorm"

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Credentials
	UserRepository  UserRepository
	TokenRepository TokenRepository
	PasswordHasher  PasswordHasher

	// History
	SearchHistoryRepository SearchHistoryRepository

	// Weather
	WeatherGateway WeatherGateway

	// Cache
	SuggestionCache CacheProvider

	// Infrastructure
	Logger   Logger
	Metrics  MetricsRecorder
	Database *gorm.DB
}

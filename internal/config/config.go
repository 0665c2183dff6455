package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/bcrypt"
	"weatherlog.app/pkg/errors"
	"weatherlog.app/pkg/logger"
)

const (
	maxRedisDB         = 15
	maxCacheTTLMinutes = 1440
	maxPortNumber      = 65535
	maxHTTPTimeout     = 120
)

// Config represents the application configuration structure
type Config struct {
	Server      ServerConfig      `split_words:"true"`
	Database    DatabaseConfig    `split_words:"true"`
	OpenWeather OpenWeatherConfig `split_words:"true"`
	Cache       CacheConfig       `split_words:"true"`
	Auth        AuthConfig        `split_words:"true"`
	Log         LogConfig         `split_words:"true"`
}

type ServerConfig struct {
	Port           int      `envconfig:"SERVER_PORT" default:"8080"`
	GinMode        string   `envconfig:"GIN_MODE" default:"release"`
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

// DatabaseDriver selects the GORM dialector.
type DatabaseDriver int

const (
	DatabaseDriverUnknown DatabaseDriver = iota
	DatabaseDriverPostgres
	DatabaseDriverSQLite
)

// String returns the string representation of the driver
func (d DatabaseDriver) String() string {
	switch d {
	case DatabaseDriverPostgres:
		return "postgres"
	case DatabaseDriverSQLite:
		return "sqlite"
	default:
		return "unknown"
	}
}

// IsValid checks if the driver is supported
func (d DatabaseDriver) IsValid() bool {
	return d == DatabaseDriverPostgres || d == DatabaseDriverSQLite
}

// DatabaseDriverFromString converts string to DatabaseDriver enum
func DatabaseDriverFromString(s string) DatabaseDriver {
	switch strings.ToLower(s) {
	case "postgres", "postgresql":
		return DatabaseDriverPostgres
	case "sqlite", "sqlite3":
		return DatabaseDriverSQLite
	default:
		return DatabaseDriverUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (d *DatabaseDriver) UnmarshalText(text []byte) error {
	*d = DatabaseDriverFromString(string(text))
	return nil
}

type DatabaseConfig struct {
	Driver     DatabaseDriver `envconfig:"DB_DRIVER" default:"postgres"`
	Host       string         `envconfig:"DB_HOST" default:"localhost"`
	Port       int            `envconfig:"DB_PORT" default:"5432"`
	User       string         `envconfig:"DB_USER" default:"postgres"`
	Password   string         `envconfig:"DB_PASSWORD" default:"postgres"`
	Name       string         `envconfig:"DB_NAME" default:"weatherlog"`
	SSLMode    string         `envconfig:"DB_SSL_MODE" default:"disable"`
	SQLitePath string         `envconfig:"DB_SQLITE_PATH" default:"weatherlog.db"`
}

func (c DatabaseConfig) GetDSN() string {
	if c.Driver == DatabaseDriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=on", c.SQLitePath)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// OpenWeatherConfig holds upstream settings. APIKey may be empty: lookups then
// fail per request with a configuration error instead of preventing startup.
type OpenWeatherConfig struct {
	APIKey         string `envconfig:"OPENWEATHER_API_KEY"`
	BaseURL        string `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org/data/2.5"`
	GeoURL         string `envconfig:"OPENWEATHER_GEO_URL" default:"https://api.openweathermap.org/geo/1.0"`
	TimeoutSeconds int    `envconfig:"OPENWEATHER_TIMEOUT_SECONDS" default:"10"`
	EnableLogging  bool   `envconfig:"OPENWEATHER_ENABLE_LOGGING" default:"true"`
}

// CacheType represents the type of cache used for city suggestions
type CacheType int

const (
	CacheTypeUnknown CacheType = iota
	CacheTypeNone
	CacheTypeMemory
	CacheTypeRedis
)

// String returns the string representation of cache type
func (c CacheType) String() string {
	switch c {
	case CacheTypeNone:
		return "none"
	case CacheTypeMemory:
		return "memory"
	case CacheTypeRedis:
		return "redis"
	default:
		return "unknown"
	}
}

// IsValid checks if the cache type is valid
func (c CacheType) IsValid() bool {
	return c == CacheTypeNone || c == CacheTypeMemory || c == CacheTypeRedis
}

// CacheTypeFromString converts string to CacheType enum
func CacheTypeFromString(s string) CacheType {
	switch strings.ToLower(s) {
	case "none", "off", "disabled":
		return CacheTypeNone
	case "memory":
		return CacheTypeMemory
	case "redis":
		return CacheTypeRedis
	default:
		return CacheTypeUnknown
	}
}

// UnmarshalText implements encoding.TextUnmarshaler for envconfig
func (c *CacheType) UnmarshalText(text []byte) error {
	*c = CacheTypeFromString(string(text))
	return nil
}

// MarshalText implements encoding.TextMarshaler for envconfig
func (c CacheType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

type CacheConfig struct {
	Type         CacheType   `envconfig:"CACHE_TYPE" default:"memory"`
	TTLMinutes   int         `envconfig:"CACHE_TTL_MINUTES" default:"60"`
	FlushOnStart bool        `envconfig:"CACHE_FLUSH_ON_START" default:"false"`
	Redis        RedisConfig `split_words:"true"`
}

type RedisConfig struct {
	Addr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password     string `envconfig:"REDIS_PASSWORD" default:""`
	DB           int    `envconfig:"REDIS_DB" default:"0"`
	DialTimeout  int    `envconfig:"REDIS_DIAL_TIMEOUT" default:"5"`
	ReadTimeout  int    `envconfig:"REDIS_READ_TIMEOUT" default:"3"`
	WriteTimeout int    `envconfig:"REDIS_WRITE_TIMEOUT" default:"3"`
}

type AuthConfig struct {
	BcryptCost int `envconfig:"AUTH_BCRYPT_COST" default:"10"`
}

type LogConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	Format   string `envconfig:"LOG_FORMAT" default:"json"`
	FilePath string `envconfig:"LOG_FILE_PATH"`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.OpenWeather.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	switch s.GinMode {
	case "debug", "release", "test":
	default:
		return errors.NewConfigurationError("GIN_MODE must be one of: debug, release, test", nil)
	}
	return nil
}

func (d *DatabaseConfig) Validate() error {
	if !d.Driver.IsValid() {
		return errors.NewConfigurationError("DB_DRIVER must be one of: postgres, sqlite", nil)
	}
	if d.Driver == DatabaseDriverSQLite {
		if d.SQLitePath == "" {
			return errors.NewConfigurationError("DB_SQLITE_PATH cannot be empty when DB_DRIVER is sqlite", nil)
		}
		return nil
	}
	if d.Host == "" {
		return errors.NewConfigurationError("DB_HOST cannot be empty", nil)
	}
	if d.Port < 1 || d.Port > maxPortNumber {
		return errors.NewConfigurationError("DB_PORT must be between 1 and 65535", nil)
	}
	if d.User == "" {
		return errors.NewConfigurationError("DB_USER cannot be empty", nil)
	}
	if d.Name == "" {
		return errors.NewConfigurationError("DB_NAME cannot be empty", nil)
	}
	return d.ValidateSSLMode()
}

func (d *DatabaseConfig) ValidateSSLMode() error {
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	for _, mode := range validSSLModes {
		if d.SSLMode == mode {
			return nil
		}
	}
	return errors.NewConfigurationError(
		fmt.Sprintf("DB_SSL_MODE must be one of: %s", strings.Join(validSSLModes, ", ")), nil)
}

func (o *OpenWeatherConfig) Validate() error {
	if !isHTTPURL(o.BaseURL) {
		return errors.NewConfigurationError("OPENWEATHER_BASE_URL must start with http:// or https://", nil)
	}
	if !isHTTPURL(o.GeoURL) {
		return errors.NewConfigurationError("OPENWEATHER_GEO_URL must start with http:// or https://", nil)
	}
	if o.TimeoutSeconds < 1 || o.TimeoutSeconds > maxHTTPTimeout {
		return errors.NewConfigurationError("OPENWEATHER_TIMEOUT_SECONDS must be between 1 and 120", nil)
	}
	return nil
}

func (c *CacheConfig) Validate() error {
	if !c.Type.IsValid() {
		return errors.NewConfigurationError("CACHE_TYPE must be one of: none, memory, redis", nil)
	}
	if c.Type == CacheTypeNone {
		return nil
	}
	if c.TTLMinutes < 1 || c.TTLMinutes > maxCacheTTLMinutes {
		return errors.NewConfigurationError("CACHE_TTL_MINUTES must be between 1 and 1440 minutes", nil)
	}
	if c.Type == CacheTypeRedis {
		return c.Redis.Validate()
	}
	return nil
}

func (r *RedisConfig) Validate() error {
	if r.Addr == "" {
		return errors.NewConfigurationError("REDIS_ADDR cannot be empty when using Redis cache", nil)
	}
	if r.DB < 0 || r.DB > maxRedisDB {
		return errors.NewConfigurationError("REDIS_DB must be between 0 and 15", nil)
	}
	if r.DialTimeout < 1 {
		return errors.NewConfigurationError("REDIS_DIAL_TIMEOUT must be at least 1 second", nil)
	}
	if r.ReadTimeout < 1 {
		return errors.NewConfigurationError("REDIS_READ_TIMEOUT must be at least 1 second", nil)
	}
	if r.WriteTimeout < 1 {
		return errors.NewConfigurationError("REDIS_WRITE_TIMEOUT must be at least 1 second", nil)
	}
	return nil
}

func (a *AuthConfig) Validate() error {
	if a.BcryptCost < bcrypt.MinCost || a.BcryptCost > bcrypt.MaxCost {
		return errors.NewConfigurationError(
			fmt.Sprintf("AUTH_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost), nil)
	}
	return nil
}

func (l *LogConfig) Validate() error {
	if _, err := logger.ParseLevel(l.Level); err != nil {
		return errors.NewConfigurationError("LOG_LEVEL must be one of: debug, info, warn, error", err)
	}
	if l.Format != "json" && l.Format != "text" {
		return errors.NewConfigurationError("LOG_FORMAT must be one of: json, text", nil)
	}
	return nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weatherlog.app/pkg/errors"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, GinMode: "release"},
		Database: DatabaseConfig{
			Driver:  DatabaseDriverPostgres,
			Host:    "localhost",
			Port:    5432,
			User:    "postgres",
			Name:    "weatherlog",
			SSLMode: "disable",
		},
		OpenWeather: OpenWeatherConfig{
			BaseURL:        "https://api.openweathermap.org/data/2.5",
			GeoURL:         "https://api.openweathermap.org/geo/1.0",
			TimeoutSeconds: 10,
		},
		Cache: CacheConfig{Type: CacheTypeMemory, TTLMinutes: 60},
		Auth:  AuthConfig{BcryptCost: 10},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
}

func TestLoadConfig_DefaultValues(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DatabaseDriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "weatherlog", cfg.Database.Name)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.OpenWeather.BaseURL)
	assert.Equal(t, "https://api.openweathermap.org/geo/1.0", cfg.OpenWeather.GeoURL)
	assert.Equal(t, 10, cfg.OpenWeather.TimeoutSeconds)
	assert.Empty(t, cfg.OpenWeather.APIKey, "missing key must not prevent startup")
	assert.Equal(t, CacheTypeMemory, cfg.Cache.Type)
	assert.Equal(t, 60, cfg.Cache.TTLMinutes)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadConfig_CustomValues(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/weather.db")
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_FLUSH_ON_START", "true")
	t.Setenv("AUTH_BCRYPT_COST", "4")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, DatabaseDriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:/tmp/weather.db?_foreign_keys=on", cfg.Database.GetDSN())
	assert.Equal(t, "secret", cfg.OpenWeather.APIKey)
	assert.Equal(t, CacheTypeRedis, cfg.Cache.Type)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.True(t, cfg.Cache.FlushOnStart)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Setenv("CACHE_TYPE", "memcached")

	cfg, err := LoadConfig()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "CACHE_TYPE")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "SERVER_PORT"},
		{"bad gin mode", func(c *Config) { c.Server.GinMode = "prod" }, "GIN_MODE"},
		{"unknown driver", func(c *Config) { c.Database.Driver = DatabaseDriverUnknown }, "DB_DRIVER"},
		{"empty host", func(c *Config) { c.Database.Host = "" }, "DB_HOST"},
		{"bad ssl mode", func(c *Config) { c.Database.SSLMode = "maybe" }, "DB_SSL_MODE"},
		{"sqlite ignores host", func(c *Config) {
			c.Database.Driver = DatabaseDriverSQLite
			c.Database.Host = ""
			c.Database.SQLitePath = "x.db"
		}, ""},
		{"sqlite without path", func(c *Config) {
			c.Database.Driver = DatabaseDriverSQLite
			c.Database.SQLitePath = ""
		}, "DB_SQLITE_PATH"},
		{"bad base url", func(c *Config) { c.OpenWeather.BaseURL = "ftp://x" }, "OPENWEATHER_BASE_URL"},
		{"bad geo url", func(c *Config) { c.OpenWeather.GeoURL = "" }, "OPENWEATHER_GEO_URL"},
		{"timeout zero", func(c *Config) { c.OpenWeather.TimeoutSeconds = 0 }, "OPENWEATHER_TIMEOUT_SECONDS"},
		{"cache ttl zero", func(c *Config) { c.Cache.TTLMinutes = 0 }, "CACHE_TTL_MINUTES"},
		{"cache none ignores ttl", func(c *Config) {
			c.Cache.Type = CacheTypeNone
			c.Cache.TTLMinutes = 0
		}, ""},
		{"redis without addr", func(c *Config) {
			c.Cache.Type = CacheTypeRedis
			c.Cache.Redis = RedisConfig{DialTimeout: 1, ReadTimeout: 1, WriteTimeout: 1}
		}, "REDIS_ADDR"},
		{"redis db out of range", func(c *Config) {
			c.Cache.Type = CacheTypeRedis
			c.Cache.Redis = RedisConfig{Addr: "x:6379", DB: 16, DialTimeout: 1, ReadTimeout: 1, WriteTimeout: 1}
		}, "REDIS_DB"},
		{"bcrypt cost too low", func(c *Config) { c.Auth.BcryptCost = 1 }, "AUTH_BCRYPT_COST"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsConfigurationError(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCacheTypeFromString(t *testing.T) {
	assert.Equal(t, CacheTypeMemory, CacheTypeFromString("memory"))
	assert.Equal(t, CacheTypeRedis, CacheTypeFromString("REDIS"))
	assert.Equal(t, CacheTypeNone, CacheTypeFromString("none"))
	assert.Equal(t, CacheTypeUnknown, CacheTypeFromString("memcached"))
	assert.Equal(t, "redis", CacheTypeRedis.String())
}

func TestDatabaseDriverFromString(t *testing.T) {
	assert.Equal(t, DatabaseDriverPostgres, DatabaseDriverFromString("postgresql"))
	assert.Equal(t, DatabaseDriverSQLite, DatabaseDriverFromString("sqlite3"))
	assert.Equal(t, DatabaseDriverUnknown, DatabaseDriverFromString("mysql"))
}

func TestDatabaseConfig_GetDSN_Postgres(t *testing.T) {
	cfg := validConfig().Database
	cfg.Password = "pw"

	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=weatherlog sslmode=disable", cfg.GetDSN())
}

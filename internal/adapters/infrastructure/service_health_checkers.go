package infrastructure

import (
	"context"

	"weatherlog.app/internal/ports"
)

// WeatherAPIHealthChecker reports whether upstream lookups can succeed at all.
// It does not call the upstream, which would spend quota on every probe.
type WeatherAPIHealthChecker struct {
	apiKeyConfigured bool
	baseURL          string
}

func NewWeatherAPIHealthChecker(apiKey, baseURL string) *WeatherAPIHealthChecker {
	return &WeatherAPIHealthChecker{apiKeyConfigured: apiKey != "", baseURL: baseURL}
}

func (w *WeatherAPIHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "weatherAPI",
		Status:    ports.HealthStatusHealthy,
		Details: map[string]interface{}{
			"base_url":           w.baseURL,
			"api_key_configured": w.apiKeyConfigured,
		},
	}
	if !w.apiKeyConfigured {
		status.Status = ports.HealthStatusDegraded
		status.Error = "API key not configured"
	}
	return status
}

// Pinger is implemented by caches with a remote backend
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheHealthChecker reports suggestion cache reachability and hit ratio.
// Cache trouble only degrades the service since lookups fall through.
type CacheHealthChecker struct {
	name  string
	cache ports.CacheProvider
}

func NewCacheHealthChecker(name string, cache ports.CacheProvider) *CacheHealthChecker {
	return &CacheHealthChecker{name: name, cache: cache}
}

func (c *CacheHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "cache",
		Status:    ports.HealthStatusHealthy,
		Details:   map[string]interface{}{"type": c.name},
	}

	if c.cache == nil {
		status.Details["enabled"] = false
		return status
	}
	status.Details["enabled"] = true

	if pinger, ok := c.cache.(Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			status.Status = ports.HealthStatusDegraded
			status.Error = err.Error()
		}
	}

	if withStats, ok := c.cache.(ports.CacheMetrics); ok {
		stats := withStats.GetStats()
		status.Details["hits"] = stats.Hits
		status.Details["misses"] = stats.Misses
		status.Details["hit_ratio"] = stats.HitRatio
	}
	return status
}

package infrastructure

import (
	"context"

	"weatherlog.app/internal/ports"
)

// SystemHealthChecker aggregates all health checks
type SystemHealthChecker struct {
	checkers []ports.HealthChecker
}

// SystemHealthCheckerConfig holds the configuration for creating a system health checker.
// Nil checkers are skipped.
type SystemHealthCheckerConfig struct {
	DatabaseChecker   ports.HealthChecker
	WeatherAPIChecker ports.HealthChecker
	CacheChecker      ports.HealthChecker
}

// NewSystemHealthChecker creates a new system health checker
func NewSystemHealthChecker(config SystemHealthCheckerConfig) *SystemHealthChecker {
	checkers := make([]ports.HealthChecker, 0, 3)
	for _, c := range []ports.HealthChecker{config.DatabaseChecker, config.WeatherAPIChecker, config.CacheChecker} {
		if c != nil {
			checkers = append(checkers, c)
		}
	}
	return &SystemHealthChecker{checkers: checkers}
}

// CheckAll performs health checks on all components, keyed by component name
func (s *SystemHealthChecker) CheckAll(ctx context.Context) map[string]ports.HealthStatus {
	results := make(map[string]ports.HealthStatus, len(s.checkers))
	for _, checker := range s.checkers {
		status := checker.Check(ctx)
		results[status.Component] = status
	}
	return results
}

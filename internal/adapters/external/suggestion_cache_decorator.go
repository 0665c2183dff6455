package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

// CachedSuggestionGateway serves geocoding results from a cache. Only
// successful lookups are stored, and cache failures fall through to the
// wrapped gateway. Current-weather calls are never cached.
type CachedSuggestionGateway struct {
	gateway   ports.WeatherGateway
	cache     ports.CacheProvider
	ttl       time.Duration
	cacheName string
	logger    ports.Logger
	metrics   ports.MetricsRecorder
}

type CachedSuggestionGatewayParams struct {
	Gateway   ports.WeatherGateway
	Cache     ports.CacheProvider
	TTL       time.Duration
	CacheName string
	Logger    ports.Logger
	Metrics   ports.MetricsRecorder
}

func NewCachedSuggestionGateway(params CachedSuggestionGatewayParams) ports.WeatherGateway {
	return &CachedSuggestionGateway{
		gateway:   params.Gateway,
		cache:     params.Cache,
		ttl:       params.TTL,
		cacheName: params.CacheName,
		logger:    params.Logger,
		metrics:   params.Metrics,
	}
}

func (c *CachedSuggestionGateway) CurrentWeather(ctx context.Context, city string) (*ports.UpstreamResponse, error) {
	return c.gateway.CurrentWeather(ctx, city)
}

func (c *CachedSuggestionGateway) GeocodeCity(ctx context.Context, query string, limit int) (*ports.GeocodeResult, error) {
	key := SuggestionCacheKey(query, limit)

	if locations, ok := c.lookup(ctx, key); ok {
		c.metrics.RecordCacheLookup(c.cacheName, true)
		return &ports.GeocodeResult{StatusCode: http.StatusOK, Locations: locations}, nil
	}
	c.metrics.RecordCacheLookup(c.cacheName, false)

	result, err := c.gateway.GeocodeCity(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if result.StatusCode == http.StatusOK {
		c.store(ctx, key, result.Locations)
	}
	return result, nil
}

// SuggestionCacheKey normalizes the query so "Lon" and " lon" share an entry
func SuggestionCacheKey(query string, limit int) string {
	return fmt.Sprintf("geocode:%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)
}

func (c *CachedSuggestionGateway) lookup(ctx context.Context, key string) ([]ports.GeoLocation, bool) {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.IsNotFoundError(err) {
			c.logger.Warn("Suggestion cache read failed", ports.F("key", key), ports.F("error", err))
		}
		return nil, false
	}

	var locations []ports.GeoLocation
	if err := json.Unmarshal(raw, &locations); err != nil {
		c.logger.Warn("Discarding corrupt suggestion cache entry", ports.F("key", key), ports.F("error", err))
		_ = c.cache.Delete(ctx, key)
		return nil, false
	}
	return locations, true
}

func (c *CachedSuggestionGateway) store(ctx context.Context, key string, locations []ports.GeoLocation) {
	if locations == nil {
		locations = []ports.GeoLocation{}
	}
	raw, err := json.Marshal(locations)
	if err != nil {
		c.logger.Warn("Failed to encode suggestions for cache", ports.F("key", key), ports.F("error", err))
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("Suggestion cache write failed", ports.F("key", key), ports.F("error", err))
	}
}

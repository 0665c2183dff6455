// Package external provides adapters for the OpenWeatherMap API and the
// suggestion caches (in-memory and Redis).
package external

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

const (
	defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultGeoBaseURL     = "https://api.openweathermap.org/geo/1.0"
	defaultTimeout        = 10 * time.Second
	maxUpstreamBodyBytes  = 1 << 20

	msgAPIKeyMissing = "API key not configured"
)

// HTTPClient interface for HTTP requests (for testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenWeatherMapGateway implements the WeatherGateway port against OpenWeatherMap
type OpenWeatherMapGateway struct {
	apiKey         string
	weatherBaseURL string
	geoBaseURL     string
	client         HTTPClient
	logger         ports.Logger
}

// OpenWeatherMapGatewayParams holds parameters for creating the gateway
type OpenWeatherMapGatewayParams struct {
	APIKey         string
	WeatherBaseURL string
	GeoBaseURL     string
	Timeout        time.Duration
	Client         HTTPClient
	Logger         ports.Logger
}

// NewOpenWeatherMapGateway creates a new OpenWeatherMap gateway. An empty API
// key is accepted; every call then fails with a configuration error.
func NewOpenWeatherMapGateway(params OpenWeatherMapGatewayParams) *OpenWeatherMapGateway {
	weatherBaseURL := params.WeatherBaseURL
	if weatherBaseURL == "" {
		weatherBaseURL = defaultWeatherBaseURL
	}
	geoBaseURL := params.GeoBaseURL
	if geoBaseURL == "" {
		geoBaseURL = defaultGeoBaseURL
	}
	client := params.Client
	if client == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &OpenWeatherMapGateway{
		apiKey:         params.APIKey,
		weatherBaseURL: strings.TrimRight(weatherBaseURL, "/"),
		geoBaseURL:     strings.TrimRight(geoBaseURL, "/"),
		client:         client,
		logger:         params.Logger,
	}
}

// CurrentWeather calls /weather in metric units and returns the reply unparsed
func (g *OpenWeatherMapGateway) CurrentWeather(ctx context.Context, city string) (*ports.UpstreamResponse, error) {
	if g.apiKey == "" {
		return nil, errors.NewConfigurationError(msgAPIKeyMissing, nil)
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", g.apiKey)
	query.Set("units", "metric")

	status, body, err := g.get(ctx, g.weatherBaseURL+"/weather", query)
	if err != nil {
		return nil, err
	}

	return &ports.UpstreamResponse{StatusCode: status, Body: body}, nil
}

// GeocodeCity calls /direct. Matches are decoded only on a 200 reply.
func (g *OpenWeatherMapGateway) GeocodeCity(ctx context.Context, q string, limit int) (*ports.GeocodeResult, error) {
	if g.apiKey == "" {
		return nil, errors.NewConfigurationError(msgAPIKeyMissing, nil)
	}

	query := url.Values{}
	query.Set("q", q)
	query.Set("limit", strconv.Itoa(limit))
	query.Set("appid", g.apiKey)

	status, body, err := g.get(ctx, g.geoBaseURL+"/direct", query)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return &ports.GeocodeResult{StatusCode: status}, nil
	}

	var locations []ports.GeoLocation
	if err := json.Unmarshal(body, &locations); err != nil {
		return nil, errors.NewInternalError(fmt.Sprintf("invalid geocoding response: %v", err), err)
	}

	return &ports.GeocodeResult{StatusCode: status, Locations: locations}, nil
}

func (g *OpenWeatherMapGateway) get(ctx context.Context, endpoint string, query url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return 0, nil, errors.NewInternalError("failed to build upstream request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, nil, errors.NewInternalError(transportDetail(err), err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && g.logger != nil {
			g.logger.Warn("Failed to close OpenWeatherMap response body", ports.F("error", closeErr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstreamBodyBytes))
	if err != nil {
		return 0, nil, errors.NewInternalError(transportDetail(err), err)
	}

	return resp.StatusCode, body, nil
}

// transportDetail strips the request URL (which carries the API key) from
// client errors before they reach a response body.
func transportDetail(err error) string {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		return "upstream request failed: " + urlErr.Err.Error()
	}
	return "upstream request failed: " + err.Error()
}

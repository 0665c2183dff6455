package external

import (
	"context"
	"time"

	"weatherlog.app/internal/ports"
)

const (
	endpointWeather = "weather"
	endpointGeocode = "geocode"
)

// InstrumentedWeatherGateway decorates a gateway with structured logging and
// upstream latency metrics.
type InstrumentedWeatherGateway struct {
	gateway     ports.WeatherGateway
	logger      ports.Logger
	metrics     ports.MetricsRecorder
	logRequests bool
}

// InstrumentedWeatherGatewayParams holds parameters for the decorator.
// With LogRequests off only failures are logged.
type InstrumentedWeatherGatewayParams struct {
	Gateway     ports.WeatherGateway
	Logger      ports.Logger
	Metrics     ports.MetricsRecorder
	LogRequests bool
}

func NewInstrumentedWeatherGateway(params InstrumentedWeatherGatewayParams) ports.WeatherGateway {
	return &InstrumentedWeatherGateway{
		gateway:     params.Gateway,
		logger:      params.Logger,
		metrics:     params.Metrics,
		logRequests: params.LogRequests,
	}
}

func (d *InstrumentedWeatherGateway) CurrentWeather(ctx context.Context, city string) (*ports.UpstreamResponse, error) {
	d.logStart(endpointWeather, city)
	start := time.Now()

	resp, err := d.gateway.CurrentWeather(ctx, city)
	duration := time.Since(start)

	if err != nil {
		d.metrics.ObserveUpstreamCall(endpointWeather, 0, true, duration)
		d.logFailure(endpointWeather, city, duration, err)
		return nil, err
	}

	d.metrics.ObserveUpstreamCall(endpointWeather, resp.StatusCode, false, duration)
	d.logDone(endpointWeather, city, duration, resp.StatusCode,
		ports.F("bytes", len(resp.Body)))
	return resp, nil
}

func (d *InstrumentedWeatherGateway) GeocodeCity(ctx context.Context, query string, limit int) (*ports.GeocodeResult, error) {
	d.logStart(endpointGeocode, query)
	start := time.Now()

	result, err := d.gateway.GeocodeCity(ctx, query, limit)
	duration := time.Since(start)

	if err != nil {
		d.metrics.ObserveUpstreamCall(endpointGeocode, 0, true, duration)
		d.logFailure(endpointGeocode, query, duration, err)
		return nil, err
	}

	d.metrics.ObserveUpstreamCall(endpointGeocode, result.StatusCode, false, duration)
	d.logDone(endpointGeocode, query, duration, result.StatusCode,
		ports.F("matches", len(result.Locations)))
	return result, nil
}

func (d *InstrumentedWeatherGateway) logStart(endpoint, query string) {
	if !d.logRequests {
		return
	}
	d.logger.Info("Weather API request started",
		ports.F("endpoint", endpoint),
		ports.F("query", query),
		ports.F("event", "request"))
}

func (d *InstrumentedWeatherGateway) logDone(endpoint, query string, duration time.Duration, status int, extra ports.Field) {
	if !d.logRequests {
		return
	}
	d.logger.Info("Weather API request completed",
		ports.F("endpoint", endpoint),
		ports.F("query", query),
		ports.F("event", "response"),
		ports.F("status", status),
		ports.F("duration_ms", duration.Milliseconds()),
		extra)
}

func (d *InstrumentedWeatherGateway) logFailure(endpoint, query string, duration time.Duration, err error) {
	d.logger.Error("Weather API request failed",
		ports.F("endpoint", endpoint),
		ports.F("query", query),
		ports.F("event", "error"),
		ports.F("duration_ms", duration.Milliseconds()),
		ports.F("error", err.Error()))
}

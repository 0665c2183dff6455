package external

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"weatherlog.app/internal/mocks"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

func TestInstrumentedWeatherGateway_Success(t *testing.T) {
	inner := mocks.NewWeatherGateway(t)
	logger := mocks.NewLogger()
	metrics := mocks.NewMetrics()

	inner.On("CurrentWeather", mock.Anything, "London").
		Return(&ports.UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil)

	gateway := NewInstrumentedWeatherGateway(InstrumentedWeatherGatewayParams{
		Gateway: inner, Logger: logger, Metrics: metrics, LogRequests: true,
	})

	resp, err := gateway.CurrentWeather(context.Background(), "London")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, logger.HasEntry("info", "Weather API request started"))
	assert.True(t, logger.HasEntry("info", "Weather API request completed"))
	assert.Equal(t, 1, metrics.Count("upstream:weather 200 false"))
}

func TestInstrumentedWeatherGateway_Failure(t *testing.T) {
	inner := mocks.NewWeatherGateway(t)
	logger := mocks.NewLogger()
	metrics := mocks.NewMetrics()

	inner.On("GeocodeCity", mock.Anything, "Lon", 5).
		Return(nil, errors.NewInternalError("upstream request failed: timeout", nil))

	gateway := NewInstrumentedWeatherGateway(InstrumentedWeatherGatewayParams{
		Gateway: inner, Logger: logger, Metrics: metrics,
	})

	_, err := gateway.GeocodeCity(context.Background(), "Lon", 5)

	require.Error(t, err)
	assert.True(t, logger.HasEntry("error", "Weather API request failed"))
	assert.False(t, logger.HasEntry("info", "Weather API request started"), "request logging disabled")
	assert.Equal(t, 1, metrics.Count("upstream:geocode 0 true"))
}

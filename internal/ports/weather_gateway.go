package ports

import "context"

// UpstreamResponse is an upstream reply kept byte-for-byte
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// GeoLocation is one geocoding match
type GeoLocation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
}

// GeocodeResult carries the upstream status and, on success, the decoded matches
type GeocodeResult struct {
	StatusCode int
	Locations  []GeoLocation
}

// WeatherGateway defines the contract for the external weather/geocoding API.
// Errors are returned only for missing configuration or transport failures;
// upstream HTTP errors are reported through the status code.
type WeatherGateway interface {
	CurrentWeather(ctx context.Context, city string) (*UpstreamResponse, error)
	GeocodeCity(ctx context.Context, query string, limit int) (*GeocodeResult, error)
}

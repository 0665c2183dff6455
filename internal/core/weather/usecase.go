package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"weatherlog.app/internal/core/history"
	"weatherlog.app/internal/core/identity"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
	"weatherlog.app/pkg/validation"
)

const msgSuggestionsFailed = "Failed to fetch city suggestions"

// HistoryRecorder persists successful lookups for authenticated callers
type HistoryRecorder interface {
	RecordLookup(ctx context.Context, caller identity.Caller, params history.LookupParams) history.LookupResult
}

type UseCase struct {
	gateway ports.WeatherGateway
	history HistoryRecorder
	logger  ports.Logger
}

type UseCaseDependencies struct {
	Gateway ports.WeatherGateway
	History HistoryRecorder
	Logger  ports.Logger
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Gateway == nil {
		return nil, errors.NewValidationError("weather gateway is required")
	}
	if deps.History == nil {
		return nil, errors.NewValidationError("history recorder is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	return &UseCase{
		gateway: deps.Gateway,
		history: deps.History,
		logger:  deps.Logger,
	}, nil
}

// GetWeather proxies the current-weather call. Upstream errors are passed
// through with their status; a successful lookup by a signed-in caller is
// also written to their history without affecting the response.
func (uc *UseCase) GetWeather(ctx context.Context, caller identity.Caller, city string) (*Lookup, error) {
	city, ok := validation.TrimAndValidate(city)
	if !ok {
		return nil, errors.NewValidationError("City parameter is required")
	}

	resp, err := uc.gateway.CurrentWeather(ctx, city)
	if err != nil {
		return nil, err
	}

	if !json.Valid(resp.Body) {
		return nil, errors.NewInternalError(fmt.Sprintf("invalid upstream response for %q", city), nil)
	}

	if resp.StatusCode == http.StatusOK && caller.IsAuthenticated() {
		uc.recordLookup(ctx, caller, city, resp.Body)
	}

	return &Lookup{StatusCode: resp.StatusCode, Body: resp.Body}, nil
}

// GetCitySuggestions returns up to five matches for a partial city name.
// Queries shorter than two characters yield an empty list without an upstream call.
func (uc *UseCase) GetCitySuggestions(ctx context.Context, query string) ([]CitySuggestion, error) {
	if !isSuggestionQuery(query) {
		return []CitySuggestion{}, nil
	}
	query = strings.TrimSpace(query)

	result, err := uc.gateway.GeocodeCity(ctx, query, suggestionLimit)
	if err != nil {
		return nil, err
	}

	if result.StatusCode != http.StatusOK {
		uc.logger.Warn("Geocoding returned non-OK status",
			ports.F("query", query), ports.F("status", result.StatusCode))
		return nil, errors.NewInternalError(msgSuggestionsFailed, nil).WithStatus(result.StatusCode)
	}

	suggestions := make([]CitySuggestion, 0, len(result.Locations))
	for _, loc := range result.Locations {
		if loc.Name == "" || loc.Country == "" {
			continue
		}
		suggestions = append(suggestions, NewCitySuggestion(loc))
	}
	return suggestions, nil
}

func (uc *UseCase) recordLookup(ctx context.Context, caller identity.Caller, city string, body []byte) {
	obs, err := decodeObservation(body)
	if err != nil {
		// valid JSON of an unexpected shape; keep the city only
		uc.logger.Debug("Unexpected weather payload shape", ports.F("city", city), ports.F("error", err))
	}

	result := uc.history.RecordLookup(ctx, caller, history.LookupParams{
		City:        city,
		Country:     obs.Sys.Country,
		Temperature: obs.Main.Temp,
		Description: obs.description(),
	})
	if !result.Saved() {
		uc.logger.Warn("Failed to record weather lookup",
			ports.F("userID", caller.UserID), ports.F("city", city), ports.F("error", result.Err))
		return
	}

	uc.logger.Debug("Weather lookup recorded",
		ports.F("userID", caller.UserID), ports.F("recordID", result.Record.ID))
}

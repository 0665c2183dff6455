package weather

import (
	"encoding/json"
	"strings"

	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/validation"
)

const (
	suggestionLimit    = 5
	minSuggestionQuery = 2
)

// Lookup is the upstream weather reply forwarded to the client unchanged
type Lookup struct {
	StatusCode int
	Body       []byte
}

// CitySuggestion is one geocoding match shown while the user types
type CitySuggestion struct {
	Name        string
	Country     string
	State       string
	DisplayName string
}

// NewCitySuggestion builds a suggestion and its "name[, state], country" label
func NewCitySuggestion(loc ports.GeoLocation) CitySuggestion {
	parts := []string{loc.Name}
	if loc.State != "" {
		parts = append(parts, loc.State)
	}
	parts = append(parts, loc.Country)

	return CitySuggestion{
		Name:        loc.Name,
		Country:     loc.Country,
		State:       loc.State,
		DisplayName: strings.Join(parts, ", "),
	}
}

// observation is the subset of the current-weather payload kept in history.
// Every field is optional.
type observation struct {
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp *float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (o observation) description() string {
	if len(o.Weather) == 0 {
		return ""
	}
	return o.Weather[0].Description
}

func isSuggestionQuery(q string) bool {
	return validation.HasMinLength(strings.TrimSpace(q), minSuggestionQuery)
}

func decodeObservation(body []byte) (observation, error) {
	var obs observation
	err := json.Unmarshal(body, &obs)
	return obs, err
}

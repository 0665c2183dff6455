package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"weatherlog.app/internal/ports"
)

const jsonContentType = "application/json; charset=utf-8"

// getWeather handles GET /api/weather requests. The upstream body and status
// are relayed unchanged.
func (s *HTTPServerAdapter) getWeather(c *gin.Context) {
	city := c.Query("city")
	caller := callerFrom(c)

	s.logger.Debug("Getting weather for city", ports.F("city", city), ports.F("authenticated", caller.IsAuthenticated()))

	lookup, err := s.weatherUseCase.GetWeather(c.Request.Context(), caller, city)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.Data(lookup.StatusCode, jsonContentType, lookup.Body)
}

// getCitySuggestions handles GET /api/city-suggestions requests
func (s *HTTPServerAdapter) getCitySuggestions(c *gin.Context) {
	suggestions, err := s.weatherUseCase.GetCitySuggestions(c.Request.Context(), c.Query("q"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSuggestionResponses(suggestions))
}

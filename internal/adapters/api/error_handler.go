package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"weatherlog.app/internal/ports"
	errorspkg "weatherlog.app/pkg/errors"
)

const (
	msgInternalServerError = "Internal server error"
	msgServiceUnavailable  = "External service unavailable"
)

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleError handles different types of application errors
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	statusCode, message := errorStatus(err)

	if statusCode >= http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("Request failed",
			ports.F("method", c.Request.Method),
			ports.F("path", c.Request.URL.Path),
			ports.F("status", statusCode),
			ports.F("request_id", c.GetString(ctxRequestID)),
			ports.F("error", err),
		)
	}

	c.JSON(statusCode, ErrorResponse{Error: message})
}

func errorStatus(err error) (int, string) {
	var appErr *errorspkg.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, msgInternalServerError
	}

	switch appErr.Type {
	case errorspkg.ValidationError, errorspkg.AlreadyExistsError:
		return http.StatusBadRequest, appErr.Message
	case errorspkg.UnauthorizedError:
		return http.StatusUnauthorized, appErr.Message
	case errorspkg.NotFoundError:
		return http.StatusNotFound, appErr.Message
	case errorspkg.ConfigurationError:
		return http.StatusInternalServerError, appErr.Message
	case errorspkg.InternalError:
		if appErr.Status != 0 {
			return appErr.Status, appErr.Message
		}
		return http.StatusInternalServerError, appErr.Message
	case errorspkg.ExternalAPIError:
		return http.StatusServiceUnavailable, msgServiceUnavailable
	default:
		return http.StatusInternalServerError, msgInternalServerError
	}
}

package api

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"weatherlog.app/internal/core/history"
	"weatherlog.app/pkg/errors"
)

const (
	msgCityRequired = "City is required"
	msgInvalidBody  = "Invalid request body"
	msgNotFound     = "Not found."
)

// saveSearch handles POST /api/save-search requests
func (s *HTTPServerAdapter) saveSearch(c *gin.Context) {
	var req SaveSearchRequest
	if err := c.ShouldBind(&req); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			s.handleError(c, errors.NewValidationError(msgCityRequired))
			return
		}
		s.handleError(c, errors.NewValidationError(msgInvalidBody))
		return
	}

	record, err := s.historyUseCase.SaveSearch(c.Request.Context(), callerFrom(c), history.SaveParams{
		City:    req.City,
		Country: req.Country,
	})
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newRecordResponse(record))
}

// listSearchHistory handles GET /api/search-history and GET /api/history
func (s *HTTPServerAdapter) listSearchHistory(c *gin.Context) {
	records, err := s.historyUseCase.ListHistory(c.Request.Context(), callerFrom(c))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecordResponses(records))
}

// getHistoryRecord handles GET /api/history/:id
func (s *HTTPServerAdapter) getHistoryRecord(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		s.handleError(c, errors.NewNotFoundError(msgNotFound))
		return
	}

	record, err := s.historyUseCase.GetRecord(c.Request.Context(), callerFrom(c), uint(id))
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newRecordResponse(record))
}

package history

import (
	"context"
	"fmt"
	"strings"

	"weatherlog.app/internal/core/identity"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
	"weatherlog.app/pkg/validation"
)

const (
	sourceExplicit = "explicit"
	sourceLookup   = "lookup"

	msgCityRequired     = "City is required"
	msgNotFound         = "Not found."
	msgNotAuthenticated = "Authentication credentials were not provided."
)

type UseCase struct {
	repo    ports.SearchHistoryRepository
	logger  ports.Logger
	metrics ports.MetricsRecorder
}

type UseCaseDependencies struct {
	Repo    ports.SearchHistoryRepository
	Logger  ports.Logger
	Metrics ports.MetricsRecorder
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.Repo == nil {
		return nil, errors.NewValidationError("search history repository is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics is required")
	}

	return &UseCase{
		repo:    deps.Repo,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}, nil
}

// SaveSearch stores a city the caller chose to remember. Temperature and
// description stay empty.
func (uc *UseCase) SaveSearch(ctx context.Context, caller identity.Caller, params SaveParams) (*Record, error) {
	if !caller.IsAuthenticated() {
		return nil, errors.NewUnauthorizedError(msgNotAuthenticated)
	}

	params.Normalize()
	if !validation.IsNotEmpty(params.City) {
		return nil, errors.NewValidationError(msgCityRequired)
	}

	data := &ports.SearchRecordData{
		UserID:   caller.UserID,
		Username: caller.Username,
		City:     params.City,
		Country:  params.Country,
	}
	if err := uc.repo.Create(ctx, data); err != nil {
		uc.metrics.RecordHistoryWrite(sourceExplicit, false)
		return nil, fmt.Errorf("save search: %w", err)
	}

	uc.metrics.RecordHistoryWrite(sourceExplicit, true)
	uc.logger.Debug("Search saved", ports.F("userID", caller.UserID), ports.F("city", data.City))
	return convertFromPorts(data), nil
}

// ListHistory returns the caller's records, most recent first.
func (uc *UseCase) ListHistory(ctx context.Context, caller identity.Caller) ([]*Record, error) {
	if !caller.IsAuthenticated() {
		return nil, errors.NewUnauthorizedError(msgNotAuthenticated)
	}

	rows, err := uc.repo.ListByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, convertFromPorts(row))
	}
	return records, nil
}

// GetRecord returns one record if it exists and belongs to the caller.
// Records owned by someone else are indistinguishable from missing ones.
func (uc *UseCase) GetRecord(ctx context.Context, caller identity.Caller, id uint) (*Record, error) {
	if !caller.IsAuthenticated() {
		return nil, errors.NewUnauthorizedError(msgNotAuthenticated)
	}

	row, err := uc.repo.FindByIDForOwner(ctx, id, caller.UserID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError(msgNotFound)
		}
		return nil, fmt.Errorf("get history record: %w", err)
	}
	return convertFromPorts(row), nil
}

// RecordLookup persists a successful weather lookup for an authenticated
// caller. Failures are reported in the result, never returned.
func (uc *UseCase) RecordLookup(ctx context.Context, caller identity.Caller, params LookupParams) LookupResult {
	if !caller.IsAuthenticated() {
		return LookupResult{Err: errors.NewUnauthorizedError(msgNotAuthenticated)}
	}

	city := strings.TrimSpace(params.City)
	if city == "" {
		return LookupResult{Err: errors.NewValidationError(msgCityRequired)}
	}

	data := &ports.SearchRecordData{
		UserID:      caller.UserID,
		Username:    caller.Username,
		City:        city,
		Country:     params.Country,
		Temperature: params.Temperature,
	}
	if params.Description != "" {
		description := params.Description
		data.WeatherDescription = &description
	}

	if err := uc.repo.Create(ctx, data); err != nil {
		uc.metrics.RecordHistoryWrite(sourceLookup, false)
		return LookupResult{Err: err}
	}

	uc.metrics.RecordHistoryWrite(sourceLookup, true)
	return LookupResult{Record: convertFromPorts(data)}
}

func convertFromPorts(data *ports.SearchRecordData) *Record {
	return &Record{
		ID:                 data.ID,
		UserID:             data.UserID,
		Username:           data.Username,
		City:               data.City,
		Country:            data.Country,
		Timestamp:          data.Timestamp,
		Temperature:        data.Temperature,
		WeatherDescription: data.WeatherDescription,
	}
}

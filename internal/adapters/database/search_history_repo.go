package database

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

// SearchHistoryRepositoryAdapter implements the SearchHistoryRepository port using GORM.
// Reads always filter on the owner so one user can never see another's records.
type SearchHistoryRepositoryAdapter struct {
	db *gorm.DB
}

// NewSearchHistoryRepositoryAdapter creates a new search history repository adapter
func NewSearchHistoryRepositoryAdapter(db *gorm.DB) ports.SearchHistoryRepository {
	return &SearchHistoryRepositoryAdapter{db: db}
}

// Create persists a record. ID and Timestamp are assigned by the store.
func (r *SearchHistoryRepositoryAdapter) Create(ctx context.Context, record *ports.SearchRecordData) error {
	if record == nil {
		return errors.NewValidationError("search record cannot be nil")
	}
	if record.UserID == 0 {
		return errors.NewValidationError("search record owner cannot be zero")
	}
	if record.City == "" {
		return errors.NewValidationError("search record city cannot be empty")
	}

	model := r.dataToModel(record)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return errors.NewDatabaseError("failed to create search record", err)
	}

	record.ID = model.ID
	record.Timestamp = model.Timestamp
	return nil
}

// ListByOwner returns the owner's records, newest first
func (r *SearchHistoryRepositoryAdapter) ListByOwner(ctx context.Context, ownerID uint) ([]*ports.SearchRecordData, error) {
	if ownerID == 0 {
		return nil, errors.NewValidationError("owner ID cannot be zero")
	}

	var models []SearchHistoryModel
	result := r.db.WithContext(ctx).
		Joins("User").
		Where("search_history.user_id = ?", ownerID).
		Order("search_history.timestamp DESC").
		Order("search_history.id DESC").
		Find(&models)
	if result.Error != nil {
		return nil, errors.NewDatabaseError("failed to list search history", result.Error)
	}

	records := make([]*ports.SearchRecordData, 0, len(models))
	for i := range models {
		records = append(records, r.modelToData(&models[i]))
	}
	return records, nil
}

// FindByIDForOwner retrieves one record only if it belongs to the owner
func (r *SearchHistoryRepositoryAdapter) FindByIDForOwner(ctx context.Context, id, ownerID uint) (*ports.SearchRecordData, error) {
	if id == 0 || ownerID == 0 {
		return nil, errors.NewNotFoundError("search record not found")
	}

	var model SearchHistoryModel
	result := r.db.WithContext(ctx).
		Joins("User").
		Where("search_history.id = ? AND search_history.user_id = ?", id, ownerID).
		First(&model)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("search record not found")
		}
		return nil, errors.NewDatabaseError("failed to find search record", result.Error)
	}

	return r.modelToData(&model), nil
}

// dataToModel converts port data to database model
func (r *SearchHistoryRepositoryAdapter) dataToModel(data *ports.SearchRecordData) *SearchHistoryModel {
	return &SearchHistoryModel{
		ID:                 data.ID,
		UserID:             data.UserID,
		City:               data.City,
		Country:            data.Country,
		Temperature:        data.Temperature,
		WeatherDescription: data.WeatherDescription,
	}
}

// modelToData converts database model to port data
func (r *SearchHistoryRepositoryAdapter) modelToData(model *SearchHistoryModel) *ports.SearchRecordData {
	return &ports.SearchRecordData{
		ID:                 model.ID,
		UserID:             model.UserID,
		Username:           model.User.Username,
		City:               model.City,
		Country:            model.Country,
		Timestamp:          model.Timestamp,
		Temperature:        model.Temperature,
		WeatherDescription: model.WeatherDescription,
	}
}

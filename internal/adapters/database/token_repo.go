package database

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

// TokenRepositoryAdapter implements the TokenRepository port using GORM
type TokenRepositoryAdapter struct {
	db *gorm.DB
}

// NewTokenRepositoryAdapter creates a new token repository adapter
func NewTokenRepositoryAdapter(db *gorm.DB) ports.TokenRepository {
	return &TokenRepositoryAdapter{db: db}
}

// Create persists a token. A second token for the same user is rejected.
func (r *TokenRepositoryAdapter) Create(ctx context.Context, token *ports.TokenData) error {
	if token == nil {
		return errors.NewValidationError("token cannot be nil")
	}
	if token.UserID == 0 {
		return errors.NewValidationError("token user ID cannot be zero")
	}

	model := tokenDataToModel(token)
	if err := r.db.WithContext(ctx).Omit("User").Create(model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.NewAlreadyExistsError("token already exists for user")
		}
		return errors.NewDatabaseError("failed to create token", err)
	}

	token.CreatedAt = model.CreatedAt
	return nil
}

// FindByKey retrieves a token by its opaque value
func (r *TokenRepositoryAdapter) FindByKey(ctx context.Context, key string) (*ports.TokenData, error) {
	if key == "" {
		return nil, errors.NewValidationError("token cannot be empty")
	}

	var model TokenModel
	result := r.db.WithContext(ctx).Where(&TokenModel{Key: key}).First(&model)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("token not found")
		}
		return nil, errors.NewDatabaseError("failed to find token", result.Error)
	}

	return tokenModelToData(&model), nil
}

// FindByUserID retrieves the token a user currently holds
func (r *TokenRepositoryAdapter) FindByUserID(ctx context.Context, userID uint) (*ports.TokenData, error) {
	if userID == 0 {
		return nil, errors.NewValidationError("user ID cannot be zero")
	}

	var model TokenModel
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("token not found")
		}
		return nil, errors.NewDatabaseError("failed to find token", result.Error)
	}

	return tokenModelToData(&model), nil
}

// DeleteByUserID removes the user's token. Deleting a missing token is not an error.
func (r *TokenRepositoryAdapter) DeleteByUserID(ctx context.Context, userID uint) error {
	if userID == 0 {
		return errors.NewValidationError("user ID cannot be zero")
	}

	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&TokenModel{})
	if result.Error != nil {
		return errors.NewDatabaseError("failed to delete token", result.Error)
	}

	return nil
}

func tokenDataToModel(data *ports.TokenData) *TokenModel {
	return &TokenModel{
		Key:       data.Key,
		UserID:    data.UserID,
		CreatedAt: data.CreatedAt,
	}
}

func tokenModelToData(model *TokenModel) *ports.TokenData {
	return &ports.TokenData{
		Key:       model.Key,
		UserID:    model.UserID,
		CreatedAt: model.CreatedAt,
	}
}

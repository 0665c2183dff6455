package database

import (
	"context"
	stderrors "errors"

	"gorm.io/gorm"
	"weatherlog.app/internal/ports"
	"weatherlog.app/pkg/errors"
)

// UserRepositoryAdapter implements the UserRepository port using GORM
type UserRepositoryAdapter struct {
	db *gorm.DB
}

// NewUserRepositoryAdapter creates a new user repository adapter.
// The connection must be opened with gorm.Config.TranslateError so unique
// violations surface as gorm.ErrDuplicatedKey.
func NewUserRepositoryAdapter(db *gorm.DB) ports.UserRepository {
	return &UserRepositoryAdapter{db: db}
}

// CreateWithToken inserts the user and their first token in one transaction
func (r *UserRepositoryAdapter) CreateWithToken(ctx context.Context, user *ports.UserData, token *ports.TokenData) error {
	if user == nil {
		return errors.NewValidationError("user cannot be nil")
	}
	if token == nil {
		return errors.NewValidationError("token cannot be nil")
	}

	userModel := r.dataToModel(user)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userModel).Error; err != nil {
			return err
		}
		token.UserID = userModel.ID
		return tx.Omit("User").Create(tokenDataToModel(token)).Error
	})
	if err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return r.classifyConflict(ctx, user)
		}
		return errors.NewDatabaseError("failed to create user", err)
	}

	user.ID = userModel.ID
	user.CreatedAt = userModel.CreatedAt
	user.UpdatedAt = userModel.UpdatedAt
	return nil
}

// FindByID retrieves a user by primary key
func (r *UserRepositoryAdapter) FindByID(ctx context.Context, id uint) (*ports.UserData, error) {
	if id == 0 {
		return nil, errors.NewValidationError("user ID cannot be zero")
	}

	var model UserModel
	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, errors.NewDatabaseError("failed to find user", result.Error)
	}

	return r.modelToData(&model), nil
}

// FindByUsername retrieves a user by exact username
func (r *UserRepositoryAdapter) FindByUsername(ctx context.Context, username string) (*ports.UserData, error) {
	if username == "" {
		return nil, errors.NewValidationError("username cannot be empty")
	}

	var model UserModel
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&model)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("user not found")
		}
		return nil, errors.NewDatabaseError("failed to find user", result.Error)
	}

	return r.modelToData(&model), nil
}

// classifyConflict runs after the failed transaction has rolled back and
// reports which unique column rejected the insert.
func (r *UserRepositoryAdapter) classifyConflict(ctx context.Context, user *ports.UserData) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&UserModel{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return errors.NewDatabaseError("failed to classify duplicate user", err)
	}
	if count > 0 {
		return errors.NewAlreadyExistsError("Username already exists")
	}
	return errors.NewAlreadyExistsError("Email already exists")
}

// dataToModel converts port data to database model
func (r *UserRepositoryAdapter) dataToModel(data *ports.UserData) *UserModel {
	return &UserModel{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// modelToData converts database model to port data
func (r *UserRepositoryAdapter) modelToData(model *UserModel) *ports.UserData {
	return &ports.UserData{
		ID:           model.ID,
		Username:     model.Username,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

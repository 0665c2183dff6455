package ports

import (
	"context"
	"time"
)

// UserData represents a user account for persistence
type UserData struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenData represents the single bearer token a user holds
type TokenData struct {
	Key       string
	UserID    uint
	CreatedAt time.Time
}

// SearchRecordData represents one stored city lookup
type SearchRecordData struct {
	ID                 uint
	UserID             uint
	Username           string
	City               string
	Country            string
	Timestamp          time.Time
	Temperature        *float64
	WeatherDescription *string
}

// UserRepository defines the contract for user persistence.
// Username and email are unique; violations surface as AlreadyExists errors.
type UserRepository interface {
	CreateWithToken(ctx context.Context, user *UserData, token *TokenData) error
	FindByID(ctx context.Context, id uint) (*UserData, error)
	FindByUsername(ctx context.Context, username string) (*UserData, error)
}

// TokenRepository defines the contract for bearer token persistence
type TokenRepository interface {
	Create(ctx context.Context, token *TokenData) error
	FindByKey(ctx context.Context, key string) (*TokenData, error)
	FindByUserID(ctx context.Context, userID uint) (*TokenData, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

// SearchHistoryRepository defines the contract for search history persistence.
// Every read is scoped by the owning user id.
type SearchHistoryRepository interface {
	Create(ctx context.Context, record *SearchRecordData) error
	ListByOwner(ctx context.Context, ownerID uint) ([]*SearchRecordData, error)
	FindByIDForOwner(ctx context.Context, id, ownerID uint) (*SearchRecordData, error)
}

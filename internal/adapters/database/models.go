package database

import (
	"time"

	"gorm.io/gorm"
)

// UserModel represents the database model for user accounts
type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	Email        string `gorm:"size:254;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return "users"
}

// TokenModel represents the database model for bearer tokens. A user holds at most one.
type TokenModel struct {
	Key       string    `gorm:"primaryKey;size:64"`
	UserID    uint      `gorm:"uniqueIndex;not null"`
	User      UserModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (TokenModel) TableName() string {
	return "auth_tokens"
}

// SearchHistoryModel represents the database model for search history records
type SearchHistoryModel struct {
	ID                 uint      `gorm:"primaryKey"`
	UserID             uint      `gorm:"not null;index:idx_search_history_owner_time,priority:1"`
	User               UserModel `gorm:"constraint:OnDelete:CASCADE"`
	City               string    `gorm:"size:100;not null"`
	Country            string    `gorm:"size:100;not null;default:''"`
	Timestamp          time.Time `gorm:"autoCreateTime;not null;index:idx_search_history_owner_time,priority:2,sort:desc"`
	Temperature        *float64
	WeatherDescription *string `gorm:"size:200"`
}

func (SearchHistoryModel) TableName() string {
	return "search_history"
}

// AutoMigrate creates or updates every table the service uses
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&UserModel{}, &TokenModel{}, &SearchHistoryModel{})
}

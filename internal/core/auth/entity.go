package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"weatherlog.app/internal/core/identity"
)

// User is the public view of an account
type User struct {
	ID       uint
	Username string
	Email    string
}

// Token is the opaque bearer credential a user holds
type Token struct {
	Key       string
	UserID    uint
	CreatedAt time.Time
}

// Session is what register and login hand back to the client
type Session struct {
	Token string
	User  *User
}

// NewToken issues a fresh random token for a user
func NewToken(userID uint) *Token {
	return &Token{
		Key:       strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
}

// UserFromCaller builds the public profile carried on a resolved caller
func UserFromCaller(caller identity.Caller) *User {
	return &User{
		ID:       caller.UserID,
		Username: caller.Username,
		Email:    caller.Email,
	}
}

package api

import (
	"time"

	"weatherlog.app/internal/core/auth"
	"weatherlog.app/internal/core/history"
	"weatherlog.app/internal/core/weather"
)

type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type SaveSearchRequest struct {
	City    string `json:"city" form:"city" binding:"required,notblank"`
	Country string `json:"country" form:"country"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type LogoutResponse struct {
	Success string `json:"success"`
}

// RecordResponse is one search history entry. Missing measurements are null.
type RecordResponse struct {
	ID                 uint      `json:"id"`
	City               string    `json:"city"`
	Country            string    `json:"country"`
	SearchedAt         time.Time `json:"searched_at"`
	Temperature        *float64  `json:"temperature"`
	WeatherDescription *string   `json:"weather_description"`
	Username           string    `json:"username"`
}

type CitySuggestionResponse struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	State       string `json:"state"`
	DisplayName string `json:"display_name"`
}

type HealthResponse struct {
	Status     string      `json:"status"`
	Components interface{} `json:"components"`
}

func newUserResponse(user *auth.User) UserResponse {
	return UserResponse{ID: user.ID, Username: user.Username, Email: user.Email}
}

func newSessionResponse(session *auth.Session) SessionResponse {
	return SessionResponse{Token: session.Token, User: newUserResponse(session.User)}
}

func newRecordResponse(record *history.Record) RecordResponse {
	return RecordResponse{
		ID:                 record.ID,
		City:               record.City,
		Country:            record.Country,
		SearchedAt:         record.Timestamp,
		Temperature:        record.Temperature,
		WeatherDescription: record.WeatherDescription,
		Username:           record.Username,
	}
}

func newRecordResponses(records []*history.Record) []RecordResponse {
	out := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, newRecordResponse(record))
	}
	return out
}

func newSuggestionResponses(suggestions []weather.CitySuggestion) []CitySuggestionResponse {
	out := make([]CitySuggestionResponse, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, CitySuggestionResponse{
			Name:        s.Name,
			Country:     s.Country,
			State:       s.State,
			DisplayName: s.DisplayName,
		})
	}
	return out
}

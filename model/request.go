// file: model/request.go

package model

import "time"

// SignupRequest defines the payload for creating a new account.
// It includes validation tags to ensure data integrity at the entry point.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

// LoginRequest defines the payload for password authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token in the body; the X-Refresh-Token
// header is accepted as an alternative.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// BookAppointmentRequest defines the payload for booking a slot.
type BookAppointmentRequest struct {
	SlotStart time.Time `json:"slot_start_utc" validate:"required"`
	Message   string    `json:"message" validate:"omitempty,max=1000"`
}

// TokenPair is the response shape for every operation that mints tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

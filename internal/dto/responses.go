package dto

import (
	"github.com/google/uuid"

	"github.com/swim360/swim360-backend/internal/models"
)

// SignupResponse represents the result of a successful registration
type SignupResponse struct {
	UserID               uuid.UUID `json:"user_id"`
	AccessToken          string    `json:"access_token"`
	RequiresVerification bool      `json:"requires_verification"`
}

// AuthResponse represents the result of a successful login or token refresh.
// The refresh token is duplicated in an HttpOnly cookie for browser clients.
type AuthResponse struct {
	User         *models.User `json:"user"`
	Roles        []string     `json:"roles"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// VerifyEmailResponse confirms a successful email verification. The access
// token carries the updated verified claim so the client can use it at once.
type VerifyEmailResponse struct {
	Verified    bool   `json:"verified"`
	AccessToken string `json:"access_token,omitempty"`
}

// ResendOTPResponse reports the cooldown before the next resend is allowed
type ResendOTPResponse struct {
	CooldownSeconds int `json:"cooldown_seconds"`
}

// MeResponse represents the current user with profile and roles
type MeResponse struct {
	User    *models.User    `json:"user"`
	Profile *models.Profile `json:"profile,omitempty"`
	Roles   []string        `json:"roles"`
}

// RolesResponse represents the active roles of a user
type RolesResponse struct {
	Roles []string `json:"roles"`
}

// RatingResponse represents an aggregated rating of an entity
type RatingResponse struct {
	EntityID      uuid.UUID `json:"entity_id"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
}

// ListResponse represents a paginated collection
type ListResponse struct {
	Data   interface{} `json:"data"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

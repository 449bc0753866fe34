package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// SignupRequest represents the request to create an account
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

// LoginRequest represents the request to authenticate
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest represents the request to confirm an email with an OTP code
type VerifyEmailRequest struct {
	UserID string `json:"user_id" binding:"required"`
	OTP    string `json:"otp" binding:"required"`
}

// ParseUserID converts the user ID to uuid.UUID
func (r *VerifyEmailRequest) ParseUserID() (uuid.UUID, error) {
	return uuid.Parse(r.UserID)
}

// ResendOTPRequest represents the request to issue a fresh OTP code
type ResendOTPRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Email  string `json:"email" binding:"required"`
}

// ParseUserID converts the user ID to uuid.UUID
func (r *ResendOTPRequest) ParseUserID() (uuid.UUID, error) {
	return uuid.Parse(r.UserID)
}

// CreateListingRequest represents the request to create or update a service listing
type CreateListingRequest struct {
	Title           string          `json:"title" binding:"required"`
	Description     *string         `json:"description"`
	ServiceType     string          `json:"service_type" binding:"required"`
	PricePerSession float64         `json:"price_per_session" binding:"required"`
	ScheduleData    json.RawMessage `json:"schedule_data"`
	AgeGroup        *string         `json:"age_group"`
	SkillLevel      *string         `json:"skill_level"`
	MaxParticipants *int            `json:"max_participants"`
	ImageIDs        []string        `json:"image_ids"`
}

// CreateProductRequest represents the request to create or update a marketplace product
type CreateProductRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description *string         `json:"description"`
	Category    string          `json:"category" binding:"required"`
	Condition   string          `json:"condition" binding:"required"`
	Price       float64         `json:"price" binding:"required"`
	Quantity    int             `json:"quantity"`
	ImageIDs    []string        `json:"image_ids"`
	Attributes  json.RawMessage `json:"attributes"`
}

// SendMessageRequest represents the request to send a chat message
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required"`
	Text        string `json:"text" binding:"required"`
}

// ParseRecipientID converts the recipient ID to uuid.UUID
func (r *SendMessageRequest) ParseRecipientID() (uuid.UUID, error) {
	return uuid.Parse(r.RecipientID)
}

// CreateReviewRequest represents the request to leave a review
type CreateReviewRequest struct {
	EntityID   string  `json:"entity_id" binding:"required"`
	EntityType string  `json:"entity_type" binding:"required"`
	Rating     int     `json:"rating" binding:"required"`
	Comment    *string `json:"comment"`
}

// ParseEntityID converts the entity ID to uuid.UUID
func (r *CreateReviewRequest) ParseEntityID() (uuid.UUID, error) {
	return uuid.Parse(r.EntityID)
}

// SubscribeRequest represents the request to subscribe to a plan
type SubscribeRequest struct {
	PlanID string `json:"plan_id" binding:"required"`
}

// ParsePlanID converts the plan ID to uuid.UUID
func (r *SubscribeRequest) ParsePlanID() (uuid.UUID, error) {
	return uuid.Parse(r.PlanID)
}

// UpdateProfileRequest represents the request to update the current user's profile
type UpdateProfileRequest struct {
	Phone    *string         `json:"phone"`
	AvatarID *string         `json:"avatar_id"`
	Bio      *string         `json:"bio"`
	Location json.RawMessage `json:"location"`
}

// ParseAvatarID converts the avatar ID to uuid.UUID pointer
func (r *UpdateProfileRequest) ParseAvatarID() (*uuid.UUID, error) {
	if r.AvatarID == nil || *r.AvatarID == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(*r.AvatarID)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// EnrollRoleRequest represents the request to activate an additional role
type EnrollRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

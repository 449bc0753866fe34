package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReviewEntityCoach   = "coach"
	ReviewEntityListing = "listing"
	ReviewEntityProduct = "product"
)

// Review — отзыв о тренере, объявлении или товаре.
type Review struct {
	ID               uuid.UUID `db:"id" json:"id"`
	ReviewerID       uuid.UUID `db:"reviewer_id" json:"reviewer_id"`
	EntityID         uuid.UUID `db:"entity_id" json:"entity_id"`
	EntityType       string    `db:"entity_type" json:"entity_type"`
	Rating           int       `db:"rating" json:"rating"`
	Comment          *string   `db:"comment" json:"comment,omitempty"`
	ProviderResponse *string   `db:"provider_response" json:"provider_response,omitempty"`
	IsVerified       bool      `db:"is_verified" json:"is_verified"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// ValidReviewEntity проверяет тип оцениваемой сущности.
func ValidReviewEntity(t string) bool {
	switch t {
	case ReviewEntityCoach, ReviewEntityListing, ReviewEntityProduct:
		return true
	}
	return false
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

const (
	ServiceTypeSwimming = "swimming"
	ServiceTypeFitness  = "fitness"
)

// ServiceListing — объявление об услуге (плавание или фитнес).
type ServiceListing struct {
	ID              uuid.UUID      `db:"id" json:"id"`
	ProviderID      uuid.UUID      `db:"provider_id" json:"provider_id"`
	Title           string         `db:"title" json:"title"`
	Description     *string        `db:"description" json:"description,omitempty"`
	ServiceType     string         `db:"service_type" json:"service_type"`
	PricePerSession float64        `db:"price_per_session" json:"price_per_session"`
	ScheduleData    types.JSONText `db:"schedule_data" json:"schedule_data,omitempty"`
	AgeGroup        *string        `db:"age_group" json:"age_group,omitempty"`
	SkillLevel      *string        `db:"skill_level" json:"skill_level,omitempty"`
	MaxParticipants *int           `db:"max_participants" json:"max_participants,omitempty"`
	ImageIDs        pq.StringArray `db:"image_ids" json:"image_ids"`
	IsActive        bool           `db:"is_active" json:"is_active"`
	IsPromoted      bool           `db:"is_promoted" json:"is_promoted"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// ValidServiceType проверяет тип услуги.
func ValidServiceType(t string) bool {
	return t == ServiceTypeSwimming || t == ServiceTypeFitness
}

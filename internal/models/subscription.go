package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusExpired   = "expired"
	SubscriptionStatusCancelled = "cancelled"
)

// SubscriptionPlan — тарифный план для роли coach или vendor.
type SubscriptionPlan struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Role        string    `db:"role" json:"role"`
	Name        string    `db:"name" json:"name"`
	Price       float64   `db:"price" json:"price"`
	MaxListings int       `db:"max_listings" json:"max_listings"`
	PeriodDays  int       `db:"period_days" json:"period_days"`
	IsActive    bool      `db:"is_active" json:"is_active"`
}

// UserSubscription — подписка пользователя на тарифный план.
type UserSubscription struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	PlanID       uuid.UUID  `db:"plan_id" json:"plan_id"`
	Role         string     `db:"role" json:"role"`
	Status       string     `db:"status" json:"status"`
	PricePaid    float64    `db:"price_paid" json:"price_paid"`
	StartedAt    time.Time  `db:"started_at" json:"started_at"`
	ExpiresAt    *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	ListingsUsed int        `db:"listings_used" json:"listings_used"`
	MaxListings  int        `db:"max_listings" json:"max_listings"`
}

// IsUsable сообщает, действует ли подписка на момент now.
func (s *UserSubscription) IsUsable(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.ExpiresAt == nil || now.Before(*s.ExpiresAt)
}

// HasFreeSlot сообщает, остался ли свободный слот под новое объявление.
func (s *UserSubscription) HasFreeSlot() bool {
	return s.ListingsUsed < s.MaxListings
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

const (
	ProductConditionNew  = "new"
	ProductConditionUsed = "used"
)

// MarketplaceProduct — товар на маркетплейсе (экипировка, инвентарь).
type MarketplaceProduct struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	SellerID    uuid.UUID      `db:"seller_id" json:"seller_id"`
	Title       string         `db:"title" json:"title"`
	Description *string        `db:"description" json:"description,omitempty"`
	Category    string         `db:"category" json:"category"`
	Price       float64        `db:"price" json:"price"`
	Condition   string         `db:"condition" json:"condition"`
	Quantity    int            `db:"quantity" json:"quantity"`
	ImageIDs    pq.StringArray `db:"image_ids" json:"image_ids"`
	Attributes  types.JSONText `db:"attributes" json:"attributes,omitempty"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	IsSold      bool           `db:"is_sold" json:"is_sold"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// ValidProductCondition проверяет состояние товара.
func ValidProductCondition(c string) bool {
	return c == ProductConditionNew || c == ProductConditionUsed
}

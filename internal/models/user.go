package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

const (
	RoleCustomer = "customer"
	RoleCoach    = "coach"
	RoleVendor   = "vendor"
)

// User описывает учётную запись пользователя приложения.
type User struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Email           string     `db:"email" json:"email"`
	FullName        string     `db:"full_name" json:"full_name"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	IsEmailVerified bool       `db:"is_email_verified" json:"is_email_verified"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	LastLoginAt     *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile описывает публичный профиль пользователя.
type Profile struct {
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Phone     *string        `db:"phone" json:"phone,omitempty"`
	AvatarID  *uuid.UUID     `db:"avatar_id" json:"avatar_id,omitempty"`
	Bio       *string        `db:"bio" json:"bio,omitempty"`
	Location  types.JSONText `db:"location" json:"location,omitempty"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// UserRole — роль, выданная пользователю. Один пользователь может
// одновременно быть клиентом, тренером и продавцом.
type UserRole struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Role      string    `db:"role" json:"role"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ValidRole проверяет, что строка является одной из известных ролей.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleCoach, RoleVendor:
		return true
	}
	return false
}

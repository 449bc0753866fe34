package models

import (
	"time"

	"github.com/google/uuid"
)

// VerificationCode — одноразовый код подтверждения email.
// Строки никогда не удаляются: истечение проверяется лениво при вводе кода,
// вытесненные коды остаются в таблице с used = TRUE.
type VerificationCode struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Code      string    `db:"code" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsExpired сообщает, истёк ли код на момент now.
func (c *VerificationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// OTPAttempt — счётчик неудачных попыток ввода кода за календарный день.
type OTPAttempt struct {
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	AttemptDate   time.Time `db:"attempt_date" json:"attempt_date"`
	Count         int       `db:"count" json:"count"`
	LastAttemptAt time.Time `db:"last_attempt_at" json:"last_attempt_at"`
}

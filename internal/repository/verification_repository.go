package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swim360/swim360-backend/internal/models"
)

// ErrVerificationCodeNotFound возвращается, когда подходящий код не найден.
var ErrVerificationCodeNotFound = errors.New("verification code not found")

// VerificationRepository отвечает за таблицы email_verification_codes и otp_attempts.
type VerificationRepository struct {
	db *sqlx.DB
}

func NewVerificationRepository(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// CreateCode сохраняет новый код подтверждения.
func (r *VerificationRepository) CreateCode(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	query := `
		INSERT INTO email_verification_codes (user_id, code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, code, expires_at, used, created_at
	`
	if err := r.db.GetContext(ctx, &vc, query, userID, code, expiresAt); err != nil {
		return nil, fmt.Errorf("verification repository: create code %w", err)
	}
	return &vc, nil
}

// InvalidateUnusedCodes вытесняет все неиспользованные коды пользователя.
// Строки не удаляются, только помечаются used.
func (r *VerificationRepository) InvalidateUnusedCodes(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE email_verification_codes SET used = TRUE WHERE user_id = $1 AND used = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("verification repository: invalidate unused codes %w", err)
	}
	return nil
}

// GetUnusedCode возвращает свежайший неиспользованный код с точным совпадением значения.
// Срок действия здесь не проверяется: истечение обрабатывает сервис.
func (r *VerificationRepository) GetUnusedCode(ctx context.Context, userID uuid.UUID, code string) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	query := `
		SELECT id, user_id, code, expires_at, used, created_at
		FROM email_verification_codes
		WHERE user_id = $1 AND code = $2 AND used = FALSE
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &vc, query, userID, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationCodeNotFound
		}
		return nil, fmt.Errorf("verification repository: get unused code %w", err)
	}
	return &vc, nil
}

// ClaimCode помечает код использованным при условии, что он ещё не использован.
// Условный UPDATE закрывает гонку двух параллельных проверок одного кода:
// выигрывает ровно одна.
func (r *VerificationRepository) ClaimCode(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE email_verification_codes SET used = TRUE WHERE id = $1 AND used = FALSE`, id)
	if err != nil {
		return false, fmt.Errorf("verification repository: claim code %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("verification repository: claim code rows affected %w", err)
	}
	return affected == 1, nil
}

// LatestCode возвращает последний созданный код пользователя независимо от статуса.
func (r *VerificationRepository) LatestCode(ctx context.Context, userID uuid.UUID) (*models.VerificationCode, error) {
	var vc models.VerificationCode
	query := `
		SELECT id, user_id, code, expires_at, used, created_at
		FROM email_verification_codes
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &vc, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVerificationCodeNotFound
		}
		return nil, fmt.Errorf("verification repository: latest code %w", err)
	}
	return &vc, nil
}

// CountCodesSince считает коды, созданные пользователю начиная с указанного момента.
func (r *VerificationRepository) CountCodesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM email_verification_codes WHERE user_id = $1 AND created_at >= $2`
	if err := r.db.GetContext(ctx, &count, query, userID, since); err != nil {
		return 0, fmt.Errorf("verification repository: count codes since %w", err)
	}
	return count, nil
}

// AttemptCount возвращает счётчик неудачных попыток за календарный день.
func (r *VerificationRepository) AttemptCount(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	var count int
	query := `SELECT count FROM otp_attempts WHERE user_id = $1 AND attempt_date = $2`
	if err := r.db.GetContext(ctx, &count, query, userID, date.Format("2006-01-02")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("verification repository: attempt count %w", err)
	}
	return count, nil
}

// IncrementAttempts увеличивает дневной счётчик неудачных попыток.
func (r *VerificationRepository) IncrementAttempts(ctx context.Context, userID uuid.UUID, date time.Time) error {
	query := `
		INSERT INTO otp_attempts (user_id, attempt_date, count, last_attempt_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (user_id, attempt_date) DO UPDATE
		SET count = otp_attempts.count + 1, last_attempt_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, date.Format("2006-01-02")); err != nil {
		return fmt.Errorf("verification repository: increment attempts %w", err)
	}
	return nil
}

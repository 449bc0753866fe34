package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/swim360/swim360-backend/internal/goroutine"
	"github.com/swim360/swim360-backend/internal/logger"
	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/repository"
)

// VerificationStore описывает зависимости OTPService от слоя хранилища кодов.
type VerificationStore interface {
	CreateCode(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) (*models.VerificationCode, error)
	InvalidateUnusedCodes(ctx context.Context, userID uuid.UUID) error
	GetUnusedCode(ctx context.Context, userID uuid.UUID, code string) (*models.VerificationCode, error)
	ClaimCode(ctx context.Context, id uuid.UUID) (bool, error)
	LatestCode(ctx context.Context, userID uuid.UUID) (*models.VerificationCode, error)
	CountCodesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	AttemptCount(ctx context.Context, userID uuid.UUID, date time.Time) (int, error)
	IncrementAttempts(ctx context.Context, userID uuid.UUID, date time.Time) error
}

// VerifiedUserStore помечает email пользователя подтверждённым.
type VerifiedUserStore interface {
	MarkEmailVerified(ctx context.Context, userID uuid.UUID) error
}

// Mailer отправляет письма с кодами подтверждения.
type Mailer interface {
	SendVerificationCode(email, code string) error
}

// OTPService управляет жизненным циклом кодов подтверждения email:
// выпуск, проверка с дневным лимитом попыток и повторная отправка с кулдауном.
type OTPService struct {
	codes       VerificationStore
	users       VerifiedUserStore
	mailer      Mailer
	ttl         time.Duration
	maxAttempts int
	cooldown    time.Duration

	// Подменяется в тестах.
	now func() time.Time
}

// NewOTPService создаёт сервис кодов подтверждения.
func NewOTPService(codes VerificationStore, users VerifiedUserStore, mailer Mailer, ttl time.Duration, maxAttempts int, cooldown time.Duration) *OTPService {
	return &OTPService{
		codes:       codes,
		users:       users,
		mailer:      mailer,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// generateCode возвращает шестизначный код, равномерно распределённый
// на [0, 1000000). Остаток от деления байтов здесь не годится: он
// перекашивает распределение цифр.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("otp service: generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue выпускает новый код для пользователя: вытесняет все предыдущие
// неиспользованные коды, сохраняет новый и асинхронно отправляет письмо.
// Значение кода в логи не попадает.
func (s *OTPService) Issue(ctx context.Context, userID uuid.UUID, email string) (*models.VerificationCode, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	if err := s.codes.InvalidateUnusedCodes(ctx, userID); err != nil {
		return nil, fmt.Errorf("otp service: %w", err)
	}

	vc, err := s.codes.CreateCode(ctx, userID, code, s.now().Add(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("otp service: %w", err)
	}

	goroutine.SafeGo(func() {
		if err := s.mailer.SendVerificationCode(email, code); err != nil {
			logger.Log.WithFields(map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("otp service: не удалось отправить письмо с кодом")
		}
	})

	return vc, nil
}

// Verify проверяет код и, если он верен, подтверждает email пользователя.
// Порядок проверок фиксирован: сначала дневной лимит попыток, затем поиск
// кода, затем срок действия. Неверный код увеличивает счётчик, истёкший — нет.
func (s *OTPService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	now := s.now()
	today := dayStart(now)

	attempts, err := s.codes.AttemptCount(ctx, userID, today)
	if err != nil {
		return fmt.Errorf("otp service: %w", err)
	}
	if attempts >= s.maxAttempts {
		return apperror.RateLimited(secondsUntilTomorrow(now))
	}

	vc, err := s.codes.GetUnusedCode(ctx, userID, code)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationCodeNotFound) {
			if incErr := s.codes.IncrementAttempts(ctx, userID, today); incErr != nil {
				return fmt.Errorf("otp service: %w", incErr)
			}
			return apperror.ErrInvalidCode
		}
		return fmt.Errorf("otp service: %w", err)
	}

	if vc.IsExpired(now) {
		return apperror.ErrExpiredCode
	}

	claimed, err := s.codes.ClaimCode(ctx, vc.ID)
	if err != nil {
		return fmt.Errorf("otp service: %w", err)
	}
	if !claimed {
		// Код перехватила параллельная проверка.
		if incErr := s.codes.IncrementAttempts(ctx, userID, today); incErr != nil {
			return fmt.Errorf("otp service: %w", incErr)
		}
		return apperror.ErrInvalidCode
	}

	if err := s.users.MarkEmailVerified(ctx, userID); err != nil {
		return fmt.Errorf("otp service: %w", err)
	}

	return nil
}

// RequestResend выпускает новый код, если не нарушены кулдаун и дневной лимит
// отправок.
func (s *OTPService) RequestResend(ctx context.Context, userID uuid.UUID, email string) (*models.VerificationCode, error) {
	now := s.now()

	latest, err := s.codes.LatestCode(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrVerificationCodeNotFound) {
		return nil, fmt.Errorf("otp service: %w", err)
	}
	if latest != nil {
		age := now.Sub(latest.CreatedAt)
		if age < s.cooldown {
			remaining := int((s.cooldown - age).Seconds())
			if remaining < 1 {
				remaining = 1
			}
			return nil, apperror.Cooldown(remaining)
		}
	}

	sent, err := s.codes.CountCodesSince(ctx, userID, dayStart(now))
	if err != nil {
		return nil, fmt.Errorf("otp service: %w", err)
	}
	if sent >= s.maxAttempts {
		return nil, apperror.ErrDailyLimitExceeded
	}

	return s.Issue(ctx, userID, email)
}

// CooldownSeconds возвращает длительность кулдауна в секундах для ответа клиенту.
func (s *OTPService) CooldownSeconds() int {
	return int(s.cooldown.Seconds())
}

// dayStart возвращает начало календарного дня в локальной зоне времени t.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// secondsUntilTomorrow считает, сколько осталось до сброса дневного счётчика.
func secondsUntilTomorrow(t time.Time) int {
	tomorrow := dayStart(t).AddDate(0, 0, 1)
	return int(tomorrow.Sub(t).Seconds())
}

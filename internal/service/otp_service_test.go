package service

import (
	"context"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/swim360/swim360-backend/internal/logger"
	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/repository"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

type mockVerificationStore struct {
	mock.Mock
}

func (m *mockVerificationStore) CreateCode(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) (*models.VerificationCode, error) {
	args := m.Called(ctx, userID, code, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationCode), args.Error(1)
}

func (m *mockVerificationStore) InvalidateUnusedCodes(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockVerificationStore) GetUnusedCode(ctx context.Context, userID uuid.UUID, code string) (*models.VerificationCode, error) {
	args := m.Called(ctx, userID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationCode), args.Error(1)
}

func (m *mockVerificationStore) ClaimCode(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockVerificationStore) LatestCode(ctx context.Context, userID uuid.UUID) (*models.VerificationCode, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationCode), args.Error(1)
}

func (m *mockVerificationStore) CountCodesSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

func (m *mockVerificationStore) AttemptCount(ctx context.Context, userID uuid.UUID, date time.Time) (int, error) {
	args := m.Called(ctx, userID, date)
	return args.Int(0), args.Error(1)
}

func (m *mockVerificationStore) IncrementAttempts(ctx context.Context, userID uuid.UUID, date time.Time) error {
	args := m.Called(ctx, userID, date)
	return args.Error(0)
}

type mockVerifiedUserStore struct {
	mock.Mock
}

func (m *mockVerifiedUserStore) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendVerificationCode(email, code string) error {
	args := m.Called(email, code)
	return args.Error(0)
}

func newTestOTPService(codes *mockVerificationStore, users *mockVerifiedUserStore, mailer *mockMailer) *OTPService {
	return NewOTPService(codes, users, mailer, 5*time.Minute, 5, 60*time.Second)
}

func TestGenerateCode_SixDigits(t *testing.T) {
	sixDigits := regexp.MustCompile(`^[0-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := generateCode()
		assert.NoError(t, err)
		assert.True(t, sixDigits.MatchString(code), "код %q не шестизначный", code)
		seen[code] = true
	}

	// 200 одинаковых кодов подряд практически невозможны.
	assert.Greater(t, len(seen), 1)
}

func TestOTPService_Issue_InvalidatesPreviousCodes(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()

	codes.On("InvalidateUnusedCodes", ctx, userID).Return(nil)
	codes.On("CreateCode", ctx, userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(&models.VerificationCode{ID: uuid.New(), UserID: userID}, nil)
	mailer.On("SendVerificationCode", "user@example.com", mock.AnythingOfType("string")).Return(nil).Maybe()

	vc, err := svc.Issue(ctx, userID, "user@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, vc)
	codes.AssertCalled(t, "InvalidateUnusedCodes", ctx, userID)
	codes.AssertCalled(t, "CreateCode", ctx, userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time"))
}

func TestOTPService_Verify_Success(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()
	codeID := uuid.New()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	today := dayStart(now)

	codes.On("AttemptCount", ctx, userID, today).Return(0, nil)
	codes.On("GetUnusedCode", ctx, userID, "123456").Return(&models.VerificationCode{
		ID:        codeID,
		UserID:    userID,
		Code:      "123456",
		ExpiresAt: now.Add(2 * time.Minute),
	}, nil)
	codes.On("ClaimCode", ctx, codeID).Return(true, nil)
	users.On("MarkEmailVerified", ctx, userID).Return(nil)

	err := svc.Verify(ctx, userID, "123456")

	assert.NoError(t, err)
	users.AssertCalled(t, "MarkEmailVerified", ctx, userID)
	codes.AssertNotCalled(t, "IncrementAttempts", ctx, userID, today)
}

func TestOTPService_Verify_InvalidCode_IncrementsCounter(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	today := dayStart(now)

	codes.On("AttemptCount", ctx, userID, today).Return(2, nil)
	codes.On("GetUnusedCode", ctx, userID, "000000").Return(nil, repository.ErrVerificationCodeNotFound)
	codes.On("IncrementAttempts", ctx, userID, today).Return(nil)

	err := svc.Verify(ctx, userID, "000000")

	assert.ErrorIs(t, err, apperror.ErrInvalidCode)
	codes.AssertCalled(t, "IncrementAttempts", ctx, userID, today)
}

func TestOTPService_Verify_ExpiredCode_CounterUntouched(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	today := dayStart(now)

	codes.On("AttemptCount", ctx, userID, today).Return(0, nil)
	codes.On("GetUnusedCode", ctx, userID, "123456").Return(&models.VerificationCode{
		ID:        uuid.New(),
		UserID:    userID,
		Code:      "123456",
		ExpiresAt: now.Add(-time.Minute),
	}, nil)

	err := svc.Verify(ctx, userID, "123456")

	assert.ErrorIs(t, err, apperror.ErrExpiredCode)
	codes.AssertNotCalled(t, "IncrementAttempts", ctx, userID, today)
	codes.AssertNotCalled(t, "ClaimCode", ctx, mock.Anything)
}

func TestOTPService_Verify_RateLimited(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	today := dayStart(now)

	codes.On("AttemptCount", ctx, userID, today).Return(5, nil)

	err := svc.Verify(ctx, userID, "123456")

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeRateLimited, appErr.Code)
	assert.Greater(t, appErr.RetryAfter, 0)
	// Лимит срабатывает до поиска кода: верный код тоже отклоняется.
	codes.AssertNotCalled(t, "GetUnusedCode", ctx, userID, "123456")
}

func TestOTPService_Verify_LostClaimRace(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()
	codeID := uuid.New()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	today := dayStart(now)

	codes.On("AttemptCount", ctx, userID, today).Return(0, nil)
	codes.On("GetUnusedCode", ctx, userID, "123456").Return(&models.VerificationCode{
		ID:        codeID,
		UserID:    userID,
		Code:      "123456",
		ExpiresAt: now.Add(time.Minute),
	}, nil)
	codes.On("ClaimCode", ctx, codeID).Return(false, nil)
	codes.On("IncrementAttempts", ctx, userID, today).Return(nil)

	err := svc.Verify(ctx, userID, "123456")

	assert.ErrorIs(t, err, apperror.ErrInvalidCode)
	users.AssertNotCalled(t, "MarkEmailVerified", ctx, userID)
}

func TestOTPService_RequestResend_Cooldown(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	codes.On("LatestCode", ctx, userID).Return(&models.VerificationCode{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now.Add(-20 * time.Second),
	}, nil)

	_, err := svc.RequestResend(ctx, userID, "user@example.com")

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeCooldown, appErr.Code)
	assert.Equal(t, 40, appErr.RetryAfter)
	codes.AssertNotCalled(t, "CreateCode", ctx, userID, mock.Anything, mock.Anything)
}

func TestOTPService_RequestResend_CooldownShrinksWithTime(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()

	createdAt := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	codes.On("LatestCode", ctx, userID).Return(&models.VerificationCode{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil)

	svc.now = func() time.Time { return createdAt.Add(10 * time.Second) }
	_, err := svc.RequestResend(ctx, userID, "user@example.com")
	first, _ := apperror.AsAppError(err)

	svc.now = func() time.Time { return createdAt.Add(45 * time.Second) }
	_, err = svc.RequestResend(ctx, userID, "user@example.com")
	second, _ := apperror.AsAppError(err)

	assert.Equal(t, 50, first.RetryAfter)
	assert.Equal(t, 15, second.RetryAfter)
}

func TestOTPService_RequestResend_DailyLimit(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	codes.On("LatestCode", ctx, userID).Return(&models.VerificationCode{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now.Add(-10 * time.Minute),
	}, nil)
	codes.On("CountCodesSince", ctx, userID, dayStart(now)).Return(5, nil)

	_, err := svc.RequestResend(ctx, userID, "user@example.com")

	assert.ErrorIs(t, err, apperror.ErrDailyLimitExceeded)
}

func TestOTPService_RequestResend_IssuesNewCode(t *testing.T) {
	codes := new(mockVerificationStore)
	users := new(mockVerifiedUserStore)
	mailer := new(mockMailer)
	svc := newTestOTPService(codes, users, mailer)
	ctx := context.Background()
	userID := uuid.New()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	codes.On("LatestCode", ctx, userID).Return(nil, repository.ErrVerificationCodeNotFound)
	codes.On("CountCodesSince", ctx, userID, dayStart(now)).Return(0, nil)
	codes.On("InvalidateUnusedCodes", ctx, userID).Return(nil)
	codes.On("CreateCode", ctx, userID, mock.AnythingOfType("string"), now.Add(5*time.Minute)).
		Return(&models.VerificationCode{ID: uuid.New(), UserID: userID, ExpiresAt: now.Add(5 * time.Minute)}, nil)
	mailer.On("SendVerificationCode", "user@example.com", mock.AnythingOfType("string")).Return(nil).Maybe()

	vc, err := svc.RequestResend(ctx, userID, "user@example.com")

	assert.NoError(t, err)
	assert.NotNil(t, vc)
}

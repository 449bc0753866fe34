package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAuthRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GrantRole(ctx context.Context, userID uuid.UUID, role string) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *mockAuthRepo) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockAuthRepo) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockOTPManager struct {
	mock.Mock
}

func (m *mockOTPManager) Issue(ctx context.Context, userID uuid.UUID, email string) (*models.VerificationCode, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationCode), args.Error(1)
}

func (m *mockOTPManager) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	args := m.Called(ctx, userID, code)
	return args.Error(0)
}

func (m *mockOTPManager) RequestResend(ctx context.Context, userID uuid.UUID, email string) (*models.VerificationCode, error) {
	args := m.Called(ctx, userID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationCode), args.Error(1)
}

func (m *mockOTPManager) CooldownSeconds() int {
	args := m.Called()
	return args.Int(0)
}

type mockWelcomeMailer struct {
	mock.Mock
}

func (m *mockWelcomeMailer) SendWelcome(email, name string) error {
	args := m.Called(email, name)
	return args.Error(0)
}

func newTestAuthService(repo *mockAuthRepo, otp *mockOTPManager, mailer *mockWelcomeMailer) *AuthService {
	tm := NewTokenManager("test-access-secret", "test-refresh-secret", time.Hour, 24*time.Hour)
	return NewAuthService(repo, otp, mailer, tm)
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "new@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("GrantRole", ctx, mock.AnythingOfType("uuid.UUID"), models.RoleCustomer).Return(nil)
	otp.On("Issue", ctx, mock.AnythingOfType("uuid.UUID"), "new@example.com").
		Return(&models.VerificationCode{ID: uuid.New()}, nil)

	result, err := svc.Signup(ctx, SignupInput{
		Email:    "New@Example.com",
		Password: "Password1",
		FullName: "Ahmed Hassan",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.RequiresVerification)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, "new@example.com", result.User.Email)
	assert.False(t, result.User.IsEmailVerified)
	otp.AssertCalled(t, "Issue", ctx, result.User.ID, "new@example.com")
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "taken@example.com").Return(&models.User{ID: uuid.New()}, nil)

	_, err := svc.Signup(ctx, SignupInput{
		Email:    "taken@example.com",
		Password: "Password1",
		FullName: "Ahmed Hassan",
	})

	assert.ErrorIs(t, err, apperror.ErrDuplicateEmail)
	repo.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestAuthService_Signup_WeakPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()

	cases := []string{"short", "nodigitshere", "nouppercase1", "NoDigits"}
	for _, password := range cases {
		_, err := svc.Signup(ctx, SignupInput{
			Email:    "user@example.com",
			Password: password,
			FullName: "Ahmed Hassan",
		})
		appErr, ok := apperror.AsAppError(err)
		assert.True(t, ok, "пароль %q должен отклоняться", password)
		assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
	}
}

func TestAuthService_Signup_RoleGrantFailure_RollsBackUser(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "new@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("GrantRole", ctx, mock.AnythingOfType("uuid.UUID"), models.RoleCustomer).Return(assert.AnError)
	repo.On("Delete", ctx, mock.AnythingOfType("uuid.UUID")).Return(nil)

	_, err := svc.Signup(ctx, SignupInput{
		Email:    "new@example.com",
		Password: "Password1",
		FullName: "Ahmed Hassan",
	})

	assert.Error(t, err)
	repo.AssertCalled(t, "Delete", ctx, mock.AnythingOfType("uuid.UUID"))
	otp.AssertNotCalled(t, "Issue", ctx, mock.Anything, mock.Anything)
}

func TestAuthService_Login_UnknownEmailAndWrongPassword_SameError(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("Correct1"), bcrypt.MinCost)
	assert.NoError(t, err)

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("GetByEmail", ctx, "real@example.com").Return(&models.User{
		ID:           uuid.New(),
		Email:        "real@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)

	_, errUnknown := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "Correct1"})
	_, errWrongPass := svc.Login(ctx, LoginInput{Email: "real@example.com", Password: "Wrong999"})

	assert.ErrorIs(t, errUnknown, apperror.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, apperror.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("Correct1"), bcrypt.MinCost)
	assert.NoError(t, err)

	user := &models.User{
		ID:              userID,
		Email:           "real@example.com",
		PasswordHash:    string(hash),
		IsEmailVerified: true,
		IsActive:        true,
	}

	repo.On("GetByEmail", ctx, "real@example.com").Return(user, nil)
	repo.On("GetRoles", ctx, userID).Return([]string{models.RoleCustomer, models.RoleCoach}, nil)
	repo.On("UpdateLastLoginAt", ctx, userID).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: "real@example.com", Password: "Correct1"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
	assert.Equal(t, []string{models.RoleCustomer, models.RoleCoach}, result.Roles)
}

func TestAuthService_Login_LastLoginFailureDoesNotFailLogin(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()
	userID := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("Correct1"), bcrypt.MinCost)
	assert.NoError(t, err)

	repo.On("GetByEmail", ctx, "real@example.com").Return(&models.User{
		ID:           userID,
		Email:        "real@example.com",
		PasswordHash: string(hash),
		IsActive:     true,
	}, nil)
	repo.On("GetRoles", ctx, userID).Return([]string{models.RoleCustomer}, nil)
	repo.On("UpdateLastLoginAt", ctx, userID).Return(assert.AnError)

	result, err := svc.Login(ctx, LoginInput{Email: "real@example.com", Password: "Correct1"})

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestAuthService_VerifyEmail_InvalidFormat(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()

	for _, code := range []string{"", "12345", "1234567", "12a456"} {
		_, err := svc.VerifyEmail(ctx, uuid.New(), code)
		appErr, ok := apperror.AsAppError(err)
		assert.True(t, ok, "код %q должен отклоняться", code)
		assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
	}
	otp.AssertNotCalled(t, "Verify", ctx, mock.Anything, mock.Anything)
}

func TestAuthService_VerifyEmail_Success_IssuesVerifiedToken(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()
	userID := uuid.New()

	otp.On("Verify", ctx, userID, "123456").Return(nil)
	repo.On("GetByID", ctx, userID).Return(&models.User{
		ID:              userID,
		Email:           "real@example.com",
		FullName:        "Ahmed Hassan",
		IsEmailVerified: true,
	}, nil)
	repo.On("GetRoles", ctx, userID).Return([]string{models.RoleCustomer}, nil)
	mailer.On("SendWelcome", "real@example.com", "Ahmed Hassan").Return(nil).Maybe()

	accessToken, err := svc.VerifyEmail(ctx, userID, "123456")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	// Свежий токен уже несёт подтверждённый email, без ожидания refresh.
	claims, err := svc.tokenManager.ParseAccess(accessToken)
	assert.NoError(t, err)
	assert.True(t, claims.Verified)
	assert.Equal(t, userID, claims.UserID)
}

func TestAuthService_ResendOTP_AlreadyVerified(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&models.User{
		ID:              userID,
		Email:           "real@example.com",
		IsEmailVerified: true,
	}, nil)

	_, err := svc.ResendOTP(ctx, userID, "real@example.com")

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
	otp.AssertNotCalled(t, "RequestResend", ctx, mock.Anything, mock.Anything)
}

func TestAuthService_ResendOTP_EmailMismatch(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&models.User{
		ID:    userID,
		Email: "real@example.com",
	}, nil)

	_, err := svc.ResendOTP(ctx, userID, "other@example.com")

	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
	otp.AssertNotCalled(t, "RequestResend", ctx, mock.Anything, mock.Anything)
}

func TestAuthService_ResendOTP_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	otp := new(mockOTPManager)
	mailer := new(mockWelcomeMailer)
	svc := newTestAuthService(repo, otp, mailer)
	ctx := context.Background()
	userID := uuid.New()

	repo.On("GetByID", ctx, userID).Return(&models.User{
		ID:    userID,
		Email: "real@example.com",
	}, nil)
	otp.On("RequestResend", ctx, userID, "real@example.com").
		Return(&models.VerificationCode{ID: uuid.New()}, nil)
	otp.On("CooldownSeconds").Return(60)

	cooldown, err := svc.ResendOTP(ctx, userID, "Real@Example.com")

	assert.NoError(t, err)
	assert.Equal(t, 60, cooldown)
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/repository"
	"github.com/swim360/swim360-backend/internal/service"
)

type stubAuthRepo struct {
	user  *models.User
	roles []string
}

func (s *stubAuthRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (s *stubAuthRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *stubAuthRepo) GrantRole(ctx context.Context, userID uuid.UUID, role string) error {
	return nil
}

func (s *stubAuthRepo) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	return s.roles, nil
}

func (s *stubAuthRepo) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error { return nil }

type stubOTPManager struct{}

func (s *stubOTPManager) Issue(ctx context.Context, userID uuid.UUID, email string) (*models.VerificationCode, error) {
	return &models.VerificationCode{ID: uuid.New()}, nil
}

func (s *stubOTPManager) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	return nil
}

func (s *stubOTPManager) RequestResend(ctx context.Context, userID uuid.UUID, email string) (*models.VerificationCode, error) {
	return &models.VerificationCode{ID: uuid.New()}, nil
}

func (s *stubOTPManager) CooldownSeconds() int { return 60 }

type stubWelcomeMailer struct{}

func (s *stubWelcomeMailer) SendWelcome(email, name string) error { return nil }

func newTestAuthHandler(repo *stubAuthRepo) *AuthHandler {
	tm := service.NewTokenManager("test-access-secret", "test-refresh-secret", time.Hour, 720*time.Hour)
	svc := service.NewAuthService(repo, &stubOTPManager{}, &stubWelcomeMailer{}, tm)
	return NewAuthHandler(svc, 720*time.Hour, false)
}

func TestAuthHandler_Signup_InvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newTestAuthHandler(&stubAuthRepo{})
	r.POST("/auth/signup", handler.Signup)

	req, _ := http.NewRequest("POST", "/auth/signup", strings.NewReader(`{"email":"user@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login_ReturnsRefreshTokenInBodyAndCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	hash, err := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	assert.NoError(t, err)

	repo := &stubAuthRepo{
		user: &models.User{
			ID:           uuid.New(),
			Email:        "user@example.com",
			PasswordHash: string(hash),
			IsActive:     true,
		},
		roles: []string{models.RoleCustomer},
	}
	handler := newTestAuthHandler(repo)
	r.POST("/auth/login", handler.Login)

	body := `{"email":"user@example.com","password":"Password1"}`
	req, _ := http.NewRequest("POST", "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token"`)
	assert.Contains(t, w.Body.String(), `"refresh_token"`)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "refresh_token=")
}

func TestAuthHandler_VerifyEmail_MissingUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newTestAuthHandler(&stubAuthRepo{})
	r.POST("/auth/verify-email", handler.VerifyEmail)

	req, _ := http.NewRequest("POST", "/auth/verify-email", strings.NewReader(`{"otp":"123456"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_VerifyEmail_InvalidUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newTestAuthHandler(&stubAuthRepo{})
	r.POST("/auth/verify-email", handler.VerifyEmail)

	body := `{"user_id":"not-a-uuid","otp":"123456"}`
	req, _ := http.NewRequest("POST", "/auth/verify-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_VerifyEmail_NoAuthRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	userID := uuid.New()
	repo := &stubAuthRepo{
		user: &models.User{
			ID:              userID,
			Email:           "user@example.com",
			FullName:        "Ahmed Hassan",
			IsEmailVerified: true,
			IsActive:        true,
		},
		roles: []string{models.RoleCustomer},
	}
	handler := newTestAuthHandler(repo)
	r.POST("/auth/verify-email", handler.VerifyEmail)

	// Без заголовка Authorization: пользователь идентифицируется по телу.
	body := `{"user_id":"` + userID.String() + `","otp":"123456"}`
	req, _ := http.NewRequest("POST", "/auth/verify-email", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"verified":true`)
	assert.Contains(t, w.Body.String(), `"access_token"`)
}

func TestAuthHandler_ResendOTP_MissingEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newTestAuthHandler(&stubAuthRepo{})
	r.POST("/auth/resend-otp", handler.ResendOTP)

	body := `{"user_id":"` + uuid.NewString() + `"}`
	req, _ := http.NewRequest("POST", "/auth/resend-otp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Refresh_MissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newTestAuthHandler(&stubAuthRepo{})
	r.POST("/auth/refresh", handler.Refresh)

	req, _ := http.NewRequest("POST", "/auth/refresh", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := newTestAuthHandler(&stubAuthRepo{})
	r.POST("/auth/logout", handler.Logout)

	req, _ := http.NewRequest("POST", "/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "refresh_token=")
	assert.Contains(t, cookie, "Max-Age=0")
}

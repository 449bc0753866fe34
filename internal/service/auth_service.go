package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/swim360/swim360-backend/internal/goroutine"
	"github.com/swim360/swim360-backend/internal/logger"
	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/repository"
	"github.com/swim360/swim360-backend/internal/validation"
)

// dummyPasswordHash — bcrypt-хеш для холостого сравнения, когда email не
// найден. Без него вход по несуществующему email отвечал бы заметно быстрее,
// чем вход с неверным паролем.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GrantRole(ctx context.Context, userID uuid.UUID, role string) error
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
}

// OTPManager описывает зависимость AuthService от сервиса кодов подтверждения.
type OTPManager interface {
	Issue(ctx context.Context, userID uuid.UUID, email string) (*models.VerificationCode, error)
	Verify(ctx context.Context, userID uuid.UUID, code string) error
	RequestResend(ctx context.Context, userID uuid.UUID, email string) (*models.VerificationCode, error)
	CooldownSeconds() int
}

// WelcomeMailer отправляет приветственное письмо после подтверждения email.
type WelcomeMailer interface {
	SendWelcome(email, name string) error
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	otp          OTPManager
	mailer       WelcomeMailer
	tokenManager *TokenManager
}

// SignupInput содержит данные пользователя при регистрации.
type SignupInput struct {
	Email    string
	Password string
	FullName string
}

// SignupResult возвращает итог регистрации.
type SignupResult struct {
	User                 *models.User
	AccessToken          string
	RequiresVerification bool
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог авторизации.
type AuthResult struct {
	User      *models.User
	Roles     []string
	TokenPair *TokenPair
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, otp OTPManager, mailer WelcomeMailer, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		otp:          otp,
		mailer:       mailer,
		tokenManager: tokenManager,
	}
}

// Signup создаёт нового пользователя, выдаёт роль customer и отправляет код
// подтверждения email.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateFullName(in.FullName); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperror.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(passHash),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if err := s.repo.GrantRole(ctx, user.ID, models.RoleCustomer); err != nil {
		// Компенсация: учётная запись без базовой роли неработоспособна,
		// откатываем создание, чтобы email не остался занятым.
		if delErr := s.repo.Delete(ctx, user.ID); delErr != nil {
			logger.Log.WithFields(map[string]interface{}{
				"user_id": user.ID,
				"error":   delErr.Error(),
			}).Error("auth service: не удалось откатить создание пользователя")
		}
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if _, err := s.otp.Issue(ctx, user.ID, user.Email); err != nil {
		// Пользователь уже создан: не валим регистрацию, код можно
		// перезапросить через resend.
		logger.Log.WithFields(map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("auth service: не удалось выпустить код подтверждения")
	}

	accessToken, err := s.tokenManager.GenerateAccess(user, []string{models.RoleCustomer})
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return &SignupResult{
		User:                 user,
		AccessToken:          accessToken,
		RequiresVerification: true,
	}, nil
}

// Login проверяет учётные данные и возвращает токены. Для неизвестного email
// и неверного пароля возвращается одна и та же ошибка.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Холостое сравнение выравнивает время ответа с веткой
		// неверного пароля.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(in.Password))
		return nil, apperror.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperror.New(apperror.ErrCodeForbidden, "account is disabled")
	}

	roles, err := s.repo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("auth service: не удалось обновить last_login_at")
	}

	tokenPair, _, _, err := s.tokenManager.GeneratePair(user, roles)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return &AuthResult{
		User:      user,
		Roles:     roles,
		TokenPair: tokenPair,
	}, nil
}

// VerifyEmail проверяет код подтверждения, отправляет приветственное письмо
// и выпускает свежий access токен с клеймом verified, чтобы клиенту не
// пришлось ждать refresh для доступа к закрытым операциям.
func (s *AuthService) VerifyEmail(ctx context.Context, userID uuid.UUID, code string) (string, error) {
	if err := validation.ValidateOTP(code); err != nil {
		return "", apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	if err := s.otp.Verify(ctx, userID, code); err != nil {
		return "", err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("auth service: email подтверждён, но пользователь не загрузился")
		return "", nil
	}

	goroutine.SafeGo(func() {
		if err := s.mailer.SendWelcome(user.Email, user.FullName); err != nil {
			logger.Log.WithFields(map[string]interface{}{
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("auth service: не удалось отправить приветственное письмо")
		}
	})

	roles, err := s.repo.GetRoles(ctx, user.ID)
	if err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("auth service: email подтверждён, но роли не загрузились")
		return "", nil
	}

	accessToken, err := s.tokenManager.GenerateAccess(user, roles)
	if err != nil {
		return "", fmt.Errorf("auth service: %w", err)
	}

	return accessToken, nil
}

// ResendOTP выпускает новый код подтверждения. Email из запроса должен
// совпадать с email учётной записи, несовпадение не раскрывается.
func (s *AuthService) ResendOTP(ctx context.Context, userID uuid.UUID, email string) (int, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, apperror.ErrUserNotFound
		}
		return 0, fmt.Errorf("auth service: %w", err)
	}

	if !strings.EqualFold(strings.TrimSpace(email), user.Email) {
		return 0, apperror.ErrUserNotFound
	}

	if user.IsEmailVerified {
		return 0, apperror.New(apperror.ErrCodeValidation, "email is already verified")
	}

	if _, err := s.otp.RequestResend(ctx, user.ID, user.Email); err != nil {
		return 0, err
	}

	return s.otp.CooldownSeconds(), nil
}

// Refresh выпускает новую пару токенов по действительному refresh токену.
func (s *AuthService) Refresh(ctx context.Context, oldToken string) (*AuthResult, error) {
	claims, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "invalid refresh token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeUnauthorized, "invalid refresh token")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	roles, err := s.repo.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	tokenPair, _, _, err := s.tokenManager.GeneratePair(user, roles)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return &AuthResult{
		User:      user,
		Roles:     roles,
		TokenPair: tokenPair,
	}, nil
}

package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"

	// Коды доменных ошибок аутентификации и OTP.
	ErrCodeDuplicateEmail      ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidCode         ErrorCode = "INVALID_CODE"
	ErrCodeExpiredCode         ErrorCode = "EXPIRED_CODE"
	ErrCodeRateLimited         ErrorCode = "RATE_LIMITED"
	ErrCodeCooldown            ErrorCode = "COOLDOWN"
	ErrCodeDailyLimitExceeded  ErrorCode = "DAILY_LIMIT_EXCEEDED"
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
)

// AppError — структурированная ошибка приложения. RetryAfter (в секундах)
// заполняется для 429 и уходит клиенту в заголовке Retry-After.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	RetryAfter int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, чтобы errors.Is(err, apperror.ErrInvalidCode)
// срабатывал для любой обёрнутой ошибки с тем же кодом.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Code == appErr.Code
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation, ErrCodeDuplicateEmail,
		ErrCodeInvalidCode, ErrCodeExpiredCode, ErrCodeDailyLimitExceeded:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeRateLimited, ErrCodeCooldown:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AsAppError извлекает *AppError из цепочки ошибок.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

// Cooldown — повторный запрос кода раньше, чем истёк интервал ожидания.
func Cooldown(remainingSeconds int) *AppError {
	e := New(ErrCodeCooldown, fmt.Sprintf("please wait %d seconds before requesting a new code", remainingSeconds))
	e.RetryAfter = remainingSeconds
	return e
}

// RateLimited — превышен дневной лимит попыток проверки кода.
func RateLimited(retryAfterSeconds int) *AppError {
	e := New(ErrCodeRateLimited, "too many verification attempts, please try again later")
	e.RetryAfter = retryAfterSeconds
	return e
}

var (
	ErrUserNotFound         = New(ErrCodeNotFound, "user not found")
	ErrListingNotFound      = New(ErrCodeNotFound, "listing not found")
	ErrProductNotFound      = New(ErrCodeNotFound, "product not found")
	ErrConversationNotFound = New(ErrCodeNotFound, "conversation not found")
	ErrPlanNotFound         = New(ErrCodeNotFound, "subscription plan not found")
	ErrUnauthorized         = New(ErrCodeUnauthorized, "authorization required")
	ErrForbidden            = New(ErrCodeForbidden, "insufficient permissions")

	ErrDuplicateEmail     = New(ErrCodeDuplicateEmail, "email is already registered")
	ErrInvalidCredentials = New(ErrCodeInvalidCredentials, "invalid email or password")
	ErrInvalidCode        = New(ErrCodeInvalidCode, "invalid verification code")
	ErrExpiredCode        = New(ErrCodeExpiredCode, "verification code has expired")
	ErrDailyLimitExceeded = New(ErrCodeDailyLimitExceeded, "daily verification code limit exceeded")
	ErrUpstream           = New(ErrCodeUpstreamUnavailable, "service temporarily unavailable")
)

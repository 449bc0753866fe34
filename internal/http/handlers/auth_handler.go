package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/swim360/swim360-backend/internal/dto"
	"github.com/swim360/swim360-backend/internal/http/handlers/common"
	"github.com/swim360/swim360-backend/internal/service"
)

const refreshCookieName = "refresh_token"

// AuthHandler предоставляет HTTP слой для регистрации и входа.
type AuthHandler struct {
	auth         *service.AuthService
	refreshTTL   time.Duration
	secureCookie bool
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService, refreshTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, refreshTTL: refreshTTL, secureCookie: secureCookie}
}

// Signup обрабатывает POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.SignupResponse{
		UserID:               result.User.ID,
		AccessToken:          result.AccessToken,
		RequiresVerification: result.RequiresVerification,
	})
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, result.TokenPair.RefreshToken)
	common.RespondJSON(c, http.StatusOK, dto.AuthResponse{
		User:         result.User,
		Roles:        result.Roles,
		AccessToken:  result.TokenPair.AccessToken,
		RefreshToken: result.TokenPair.RefreshToken,
		ExpiresIn:    int64(result.TokenPair.ExpiresIn.Seconds()),
	})
}

// VerifyEmail обрабатывает POST /auth/verify-email. Ручка публичная:
// пользователь идентифицируется по user_id из тела, чтобы подтверждение
// работало и без access токена (переустановка приложения и т.п.).
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	userID, err := req.ParseUserID()
	if err != nil {
		common.RespondBadRequest(c, "invalid user_id format")
		return
	}

	accessToken, err := h.auth.VerifyEmail(c.Request.Context(), userID, req.OTP)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.VerifyEmailResponse{
		Verified:    true,
		AccessToken: accessToken,
	})
}

// ResendOTP обрабатывает POST /auth/resend-otp.
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req dto.ResendOTPRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	userID, err := req.ParseUserID()
	if err != nil {
		common.RespondBadRequest(c, "invalid user_id format")
		return
	}

	cooldown, err := h.auth.ResendOTP(c.Request.Context(), userID, req.Email)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.ResendOTPResponse{CooldownSeconds: cooldown})
}

// Refresh обрабатывает POST /auth/refresh. Refresh токен берётся из
// HttpOnly cookie, для нативных клиентов допускается тело запроса.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			common.RespondUnauthorized(c, "refresh token required")
			return
		}
		token = req.RefreshToken
	}

	result, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	h.setRefreshCookie(c, result.TokenPair.RefreshToken)
	common.RespondJSON(c, http.StatusOK, dto.AuthResponse{
		User:         result.User,
		Roles:        result.Roles,
		AccessToken:  result.TokenPair.AccessToken,
		RefreshToken: result.TokenPair.RefreshToken,
		ExpiresIn:    int64(result.TokenPair.ExpiresIn.Seconds()),
	})
}

// Logout обрабатывает POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, "", -1, "/api/v1/auth", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, int(h.refreshTTL.Seconds()), "/api/v1/auth", "", h.secureCookie, true)
}

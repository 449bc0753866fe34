package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swim360/swim360-backend/internal/dto"
	"github.com/swim360/swim360-backend/internal/http/handlers/common"
	"github.com/swim360/swim360-backend/internal/service"
)

// ProfileHandler отвечает за работу с профилем текущего пользователя.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler создаёт экземпляр.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetMe обрабатывает GET /users/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	user, profile, roles, err := h.profiles.Me(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.MeResponse{
		User:    user,
		Profile: profile,
		Roles:   roles,
	})
}

// UpdateMe обрабатывает PUT /users/me.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	avatarID, err := req.ParseAvatarID()
	if err != nil {
		common.RespondBadRequest(c, "avatar_id must be a valid UUID")
		return
	}

	profile, err := h.profiles.UpdateMe(c.Request.Context(), userID, service.UpdateProfileInput{
		Phone:    req.Phone,
		AvatarID: avatarID,
		Bio:      req.Bio,
		Location: req.Location,
	})
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, profile)
}

// EnrollRole обрабатывает POST /users/me/roles.
func (h *ProfileHandler) EnrollRole(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.EnrollRoleRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	roles, err := h.profiles.EnrollRole(c.Request.Context(), userID, req.Role)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.RolesResponse{Roles: roles})
}

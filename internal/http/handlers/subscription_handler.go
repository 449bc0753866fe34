package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swim360/swim360-backend/internal/dto"
	"github.com/swim360/swim360-backend/internal/http/handlers/common"
	"github.com/swim360/swim360-backend/internal/service"
)

// SubscriptionHandler предоставляет HTTP слой тарифных планов и подписок.
type SubscriptionHandler struct {
	subs *service.SubscriptionService
}

// NewSubscriptionHandler создаёт хэндлер.
func NewSubscriptionHandler(subs *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subs}
}

// ListPlans обрабатывает GET /subscriptions/plans.
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	plans, err := h.subs.ListPlans(c.Request.Context())
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, plans)
}

// Subscribe обрабатывает POST /subscriptions.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.SubscribeRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	planID, err := req.ParsePlanID()
	if err != nil {
		common.RespondBadRequest(c, "plan_id must be a valid UUID")
		return
	}

	sub, err := h.subs.Subscribe(c.Request.Context(), userID, planID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, sub)
}

// MySubscriptions обрабатывает GET /subscriptions/my.
func (h *SubscriptionHandler) MySubscriptions(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	subs, err := h.subs.MySubscriptions(c.Request.Context(), userID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, subs)
}

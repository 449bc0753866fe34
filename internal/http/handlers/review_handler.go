package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swim360/swim360-backend/internal/dto"
	"github.com/swim360/swim360-backend/internal/http/handlers/common"
	"github.com/swim360/swim360-backend/internal/service"
)

// ReviewHandler предоставляет HTTP слой отзывов.
type ReviewHandler struct {
	reviews *service.ReviewService
}

// NewReviewHandler создаёт хэндлер.
func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// Create обрабатывает POST /reviews.
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateReviewRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	entityID, err := req.ParseEntityID()
	if err != nil {
		common.RespondBadRequest(c, "entity_id must be a valid UUID")
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), userID, entityID, req.EntityType, req.Rating, req.Comment)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, review)
}

// List обрабатывает GET /reviews?entity_id=...&entity_type=...
func (h *ReviewHandler) List(c *gin.Context) {
	entityID, err := common.ParseUUIDQuery(c, "entity_id")
	if err != nil {
		common.RespondBadRequest(c, "entity_id must be a valid UUID")
		return
	}

	limit, offset := common.GetPagination(c)

	reviews, err := h.reviews.ListReviews(c.Request.Context(), entityID, c.Query("entity_type"), limit, offset)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.ListResponse{
		Data:   reviews,
		Limit:  limit,
		Offset: offset,
	})
}

// GetRating обрабатывает GET /reviews/rating/:entityId.
func (h *ReviewHandler) GetRating(c *gin.Context) {
	entityID, err := common.ParseUUIDParam(c, "entityId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	avg, count, err := h.reviews.GetRating(c.Request.Context(), entityID)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.RatingResponse{
		EntityID:      entityID,
		AverageRating: avg,
		ReviewCount:   count,
	})
}

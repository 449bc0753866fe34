package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swim360/swim360-backend/internal/dto"
	"github.com/swim360/swim360-backend/internal/http/handlers/common"
	"github.com/swim360/swim360-backend/internal/service"
)

// ListingHandler предоставляет HTTP слой объявлений об услугах.
type ListingHandler struct {
	listings *service.ListingService
}

// NewListingHandler создаёт хэндлер.
func NewListingHandler(listings *service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Create обрабатывает POST /listings.
func (h *ListingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateListingRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.CreateListing(c.Request.Context(), userID, listingInput(req))
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, listing)
}

// Get обрабатывает GET /listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.GetListing(c.Request.Context(), id)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, listing)
}

// List обрабатывает GET /listings.
func (h *ListingHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	listings, err := h.listings.ListListings(c.Request.Context(), c.Query("service_type"), limit, offset)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.ListResponse{
		Data:   listings,
		Limit:  limit,
		Offset: offset,
	})
}

// Update обрабатывает PUT /listings/:id.
func (h *ListingHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.CreateListingRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.UpdateListing(c.Request.Context(), id, userID, listingInput(req))
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, listing)
}

// Deactivate обрабатывает DELETE /listings/:id.
func (h *ListingHandler) Deactivate(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.listings.DeactivateListing(c.Request.Context(), id, userID); err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func listingInput(req dto.CreateListingRequest) service.CreateListingInput {
	return service.CreateListingInput{
		Title:           req.Title,
		Description:     req.Description,
		ServiceType:     req.ServiceType,
		PricePerSession: req.PricePerSession,
		ScheduleData:    req.ScheduleData,
		AgeGroup:        req.AgeGroup,
		SkillLevel:      req.SkillLevel,
		MaxParticipants: req.MaxParticipants,
		ImageIDs:        req.ImageIDs,
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swim360/swim360-backend/internal/dto"
	"github.com/swim360/swim360-backend/internal/http/handlers/common"
	"github.com/swim360/swim360-backend/internal/service"
)

// MarketplaceHandler предоставляет HTTP слой товаров маркетплейса.
type MarketplaceHandler struct {
	products *service.ProductService
}

// NewMarketplaceHandler создаёт хэндлер.
func NewMarketplaceHandler(products *service.ProductService) *MarketplaceHandler {
	return &MarketplaceHandler{products: products}
}

// Create обрабатывает POST /marketplace/products.
func (h *MarketplaceHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateProductRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	product, err := h.products.CreateProduct(c.Request.Context(), userID, productInput(req))
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, product)
}

// Get обрабатывает GET /marketplace/products/:id.
func (h *MarketplaceHandler) Get(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	product, err := h.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, product)
}

// List обрабатывает GET /marketplace/products.
func (h *MarketplaceHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	products, err := h.products.ListProducts(c.Request.Context(), c.Query("category"), c.Query("condition"), limit, offset)
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.ListResponse{
		Data:   products,
		Limit:  limit,
		Offset: offset,
	})
}

// Update обрабатывает PUT /marketplace/products/:id.
func (h *MarketplaceHandler) Update(c *gin.Context) {
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

	var req dto.CreateProductRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	product, err := h.products.UpdateProduct(c.Request.Context(), id, userID, productInput(req))
	if err != nil {
		common.RespondServiceError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, product)
}

// Deactivate обрабатывает DELETE /marketplace/products/:id.
func (h *MarketplaceHandler) Deactivate(c *gin.Context) {
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

	if err := h.products.DeactivateProduct(c.Request.Context(), id, userID); err != nil {
		common.RespondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func productInput(req dto.CreateProductRequest) service.CreateProductInput {
	return service.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Condition:   req.Condition,
		Quantity:    req.Quantity,
		ImageIDs:    req.ImageIDs,
		Attributes:  req.Attributes,
	}
}

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/repository"
	"github.com/swim360/swim360-backend/internal/validation"
)

// ProductStore описывает зависимости ProductService от хранилища товаров.
type ProductStore interface {
	Create(ctx context.Context, product *models.MarketplaceProduct) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceProduct, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]models.MarketplaceProduct, error)
	Update(ctx context.Context, product *models.MarketplaceProduct) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// RoleChecker проверяет наличие активной роли у пользователя.
type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
}

// ProductService — бизнес-логика товаров маркетплейса.
type ProductService struct {
	products ProductStore
	roles    RoleChecker
}

func NewProductService(products ProductStore, roles RoleChecker) *ProductService {
	return &ProductService{products: products, roles: roles}
}

// CreateProductInput содержит данные нового товара.
type CreateProductInput struct {
	Title       string
	Description *string
	Category    string
	Price       float64
	Condition   string
	Quantity    int
	ImageIDs    []string
	Attributes  []byte
}

// CreateProduct выставляет товар на продажу. Требуется роль vendor.
func (s *ProductService) CreateProduct(ctx context.Context, sellerID uuid.UUID, in CreateProductInput) (*models.MarketplaceProduct, error) {
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.Category == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "category is required")
	}
	if !models.ValidProductCondition(in.Condition) {
		return nil, apperror.New(apperror.ErrCodeValidation, "condition must be 'new' or 'used'")
	}
	if err := validation.ValidatePrice(in.Price); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if in.Quantity < 1 {
		return nil, apperror.New(apperror.ErrCodeValidation, "quantity must be at least 1")
	}

	isVendor, err := s.roles.HasRole(ctx, sellerID, models.RoleVendor)
	if err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}
	if !isVendor {
		return nil, apperror.New(apperror.ErrCodeForbidden, "vendor role is required to sell products")
	}

	product := &models.MarketplaceProduct{
		SellerID:    sellerID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Condition:   in.Condition,
		Quantity:    in.Quantity,
		ImageIDs:    in.ImageIDs,
		Attributes:  in.Attributes,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}
	return product, nil
}

// GetProduct возвращает товар по идентификатору.
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.MarketplaceProduct, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, apperror.ErrProductNotFound
		}
		return nil, fmt.Errorf("product service: %w", err)
	}
	return product, nil
}

// ListProducts возвращает активные товары с фильтрами по категории и состоянию.
func (s *ProductService) ListProducts(ctx context.Context, category, condition string, limit, offset int) ([]models.MarketplaceProduct, error) {
	if condition != "" && !models.ValidProductCondition(condition) {
		return nil, apperror.New(apperror.ErrCodeValidation, "condition must be 'new' or 'used'")
	}
	products, err := s.products.List(ctx, repository.ProductFilter{
		Category:  category,
		Condition: condition,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}
	return products, nil
}

// UpdateProduct обновляет товар. Разрешено только продавцу.
func (s *ProductService) UpdateProduct(ctx context.Context, productID, userID uuid.UUID, in CreateProductInput) (*models.MarketplaceProduct, error) {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != userID {
		return nil, apperror.ErrForbidden
	}

	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if !models.ValidProductCondition(in.Condition) {
		return nil, apperror.New(apperror.ErrCodeValidation, "condition must be 'new' or 'used'")
	}
	if err := validation.ValidatePrice(in.Price); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	product.Title = in.Title
	product.Description = in.Description
	product.Category = in.Category
	product.Price = in.Price
	product.Condition = in.Condition
	product.Quantity = in.Quantity
	product.ImageIDs = in.ImageIDs
	product.Attributes = in.Attributes

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("product service: %w", err)
	}
	return product, nil
}

// DeactivateProduct снимает товар с продажи. Разрешено только продавцу.
func (s *ProductService) DeactivateProduct(ctx context.Context, productID, userID uuid.UUID) error {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if product.SellerID != userID {
		return apperror.ErrForbidden
	}

	if err := s.products.Deactivate(ctx, productID); err != nil {
		return fmt.Errorf("product service: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/swim360/swim360-backend/internal/models"
)

// ErrProductNotFound сигнализирует об отсутствии товара.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository работает с таблицей marketplace_products.
type ProductRepository struct {
	db *sqlx.DB
}

func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create сохраняет новый товар.
func (r *ProductRepository) Create(ctx context.Context, product *models.MarketplaceProduct) error {
	query := `
		INSERT INTO marketplace_products
			(seller_id, title, description, category, price, condition, quantity, image_ids, attributes, is_active, is_sold)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE, FALSE)
		RETURNING id, is_active, is_sold, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		product.SellerID, product.Title, product.Description, product.Category,
		product.Price, product.Condition, product.Quantity, product.ImageIDs, product.Attributes,
	).Scan(&product.ID, &product.IsActive, &product.IsSold, &product.CreatedAt, &product.UpdatedAt); err != nil {
		return fmt.Errorf("product repository: create %w", err)
	}
	return nil
}

// GetByID возвращает товар по идентификатору.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MarketplaceProduct, error) {
	var product models.MarketplaceProduct
	if err := r.db.GetContext(ctx, &product, `SELECT * FROM marketplace_products WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("product repository: get by id %w", err)
	}
	return &product, nil
}

// ProductFilter — параметры выборки товаров.
type ProductFilter struct {
	Category  string
	Condition string
	SellerID  *uuid.UUID
	Limit     int
	Offset    int
}

// List возвращает активные непроданные товары с фильтрами.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.MarketplaceProduct, error) {
	query := `SELECT * FROM marketplace_products WHERE is_active = TRUE AND is_sold = FALSE`
	args := []interface{}{}
	argNum := 1

	if filter.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argNum)
		args = append(args, filter.Category)
		argNum++
	}
	if filter.Condition != "" {
		query += fmt.Sprintf(` AND condition = $%d`, argNum)
		args = append(args, filter.Condition)
		argNum++
	}
	if filter.SellerID != nil {
		query += fmt.Sprintf(` AND seller_id = $%d`, argNum)
		args = append(args, *filter.SellerID)
		argNum++
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var products []models.MarketplaceProduct
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("product repository: list %w", err)
	}
	return products, nil
}

// Update обновляет редактируемые поля товара.
func (r *ProductRepository) Update(ctx context.Context, product *models.MarketplaceProduct) error {
	query := `
		UPDATE marketplace_products
		SET title = $2, description = $3, category = $4, price = $5, condition = $6,
			quantity = $7, image_ids = $8, attributes = $9, is_sold = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		product.ID, product.Title, product.Description, product.Category, product.Price,
		product.Condition, product.Quantity, product.ImageIDs, product.Attributes, product.IsSold,
	).Scan(&product.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return fmt.Errorf("product repository: update %w", err)
	}
	return nil
}

// Deactivate снимает товар с продажи. Строка остаётся в таблице.
func (r *ProductRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE marketplace_products SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("product repository: deactivate %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("product repository: deactivate rows affected %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

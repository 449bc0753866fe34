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

var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository работает с таблицей reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create создаёт отзыв.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (reviewer_id, entity_id, entity_type, rating, comment, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		review.ReviewerID, review.EntityID, review.EntityType, review.Rating, review.Comment, review.IsVerified,
	).Scan(&review.ID, &review.CreatedAt); err != nil {
		return fmt.Errorf("review repository: create %w", err)
	}
	return nil
}

// GetByID возвращает отзыв по ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("review repository: get by id %w", err)
	}
	return &review, nil
}

// GetByEntityAndReviewer проверяет, оставлял ли пользователь отзыв о сущности.
// Отсутствие отзыва не является ошибкой: возвращается (nil, nil).
func (r *ReviewRepository) GetByEntityAndReviewer(ctx context.Context, entityID, reviewerID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.GetContext(ctx, &review, `SELECT * FROM reviews WHERE entity_id = $1 AND reviewer_id = $2`, entityID, reviewerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("review repository: get by entity and reviewer %w", err)
	}
	return &review, nil
}

// ListByEntity возвращает отзывы о сущности.
func (r *ReviewRepository) ListByEntity(ctx context.Context, entityID uuid.UUID, entityType string, limit, offset int) ([]models.Review, error) {
	var reviews []models.Review
	query := `
		SELECT * FROM reviews
		WHERE entity_id = $1 AND entity_type = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	if err := r.db.SelectContext(ctx, &reviews, query, entityID, entityType, limit, offset); err != nil {
		return nil, fmt.Errorf("review repository: list by entity %w", err)
	}
	return reviews, nil
}

// GetAverageRating возвращает средний рейтинг и число отзывов о сущности.
func (r *ReviewRepository) GetAverageRating(ctx context.Context, entityID uuid.UUID) (float64, int, error) {
	var result struct {
		Avg   sql.NullFloat64 `db:"avg"`
		Count int             `db:"count"`
	}
	err := r.db.GetContext(ctx, &result, `
		SELECT COALESCE(AVG(rating), 0) as avg, COUNT(*) as count FROM reviews WHERE entity_id = $1
	`, entityID)
	if err != nil {
		return 0, 0, fmt.Errorf("review repository: get average rating %w", err)
	}
	return result.Avg.Float64, result.Count, nil
}

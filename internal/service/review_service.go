package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/validation"
)

// ReviewStore описывает зависимости ReviewService от хранилища отзывов.
type ReviewStore interface {
	Create(ctx context.Context, review *models.Review) error
	GetByEntityAndReviewer(ctx context.Context, entityID, reviewerID uuid.UUID) (*models.Review, error)
	ListByEntity(ctx context.Context, entityID uuid.UUID, entityType string, limit, offset int) ([]models.Review, error)
	GetAverageRating(ctx context.Context, entityID uuid.UUID) (float64, int, error)
}

// ReviewService — бизнес-логика отзывов.
type ReviewService struct {
	reviews ReviewStore
	cache   *CacheService
}

// NewReviewService создаёт сервис отзывов. cache может быть nil.
func NewReviewService(reviews ReviewStore, cache *CacheService) *ReviewService {
	return &ReviewService{reviews: reviews, cache: cache}
}

// CreateReview создаёт отзыв. Один пользователь оставляет о сущности не
// больше одного отзыва.
func (s *ReviewService) CreateReview(ctx context.Context, reviewerID, entityID uuid.UUID, entityType string, rating int, comment *string) (*models.Review, error) {
	if !models.ValidReviewEntity(entityType) {
		return nil, apperror.New(apperror.ErrCodeValidation, "entity_type must be 'coach', 'listing' or 'product'")
	}
	if err := validation.ValidateRating(rating); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateComment(comment); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	existing, err := s.reviews.GetByEntityAndReviewer(ctx, entityID, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}
	if existing != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "you have already reviewed this entity")
	}

	review := &models.Review{
		ReviewerID: reviewerID,
		EntityID:   entityID,
		EntityType: entityType,
		Rating:     rating,
		Comment:    comment,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}

	if s.cache != nil {
		s.cache.Delete(RatingCacheKey(entityID))
	}

	return review, nil
}

// ListReviews возвращает отзывы о сущности.
func (s *ReviewService) ListReviews(ctx context.Context, entityID uuid.UUID, entityType string, limit, offset int) ([]models.Review, error) {
	if !models.ValidReviewEntity(entityType) {
		return nil, apperror.New(apperror.ErrCodeValidation, "entity_type must be 'coach', 'listing' or 'product'")
	}
	reviews, err := s.reviews.ListByEntity(ctx, entityID, entityType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("review service: %w", err)
	}
	return reviews, nil
}

type ratingSnapshot struct {
	Average float64
	Count   int
}

// GetRating возвращает средний рейтинг сущности и число отзывов.
// Агрегат кэшируется, кэш сбрасывается при новом отзыве.
func (s *ReviewService) GetRating(ctx context.Context, entityID uuid.UUID) (float64, int, error) {
	if s.cache == nil {
		avg, count, err := s.reviews.GetAverageRating(ctx, entityID)
		if err != nil {
			return 0, 0, fmt.Errorf("review service: %w", err)
		}
		return avg, count, nil
	}

	value, err := s.cache.GetOrSet(ctx, RatingCacheKey(entityID), time.Minute, func() (interface{}, error) {
		avg, count, err := s.reviews.GetAverageRating(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return ratingSnapshot{Average: avg, Count: count}, nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("review service: %w", err)
	}

	snapshot := value.(ratingSnapshot)
	return snapshot.Average, snapshot.Count, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/repository"
)

// SubscriptionStore описывает зависимости SubscriptionService от хранилища.
type SubscriptionStore interface {
	ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	CreateSubscription(ctx context.Context, sub *models.UserSubscription) error
	GetActiveByUserAndRole(ctx context.Context, userID uuid.UUID, role string) (*models.UserSubscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserSubscription, error)
}

// RoleGranter выдаёт пользователю роль.
type RoleGranter interface {
	GrantRole(ctx context.Context, userID uuid.UUID, role string) error
}

// SubscriptionService — бизнес-логика тарифных планов и подписок.
type SubscriptionService struct {
	subs  SubscriptionStore
	roles RoleGranter
	cache *CacheService
}

// NewSubscriptionService создаёт сервис подписок. cache может быть nil.
func NewSubscriptionService(subs SubscriptionStore, roles RoleGranter, cache *CacheService) *SubscriptionService {
	return &SubscriptionService{subs: subs, roles: roles, cache: cache}
}

// ListPlans возвращает доступные тарифные планы. Планы меняются редко,
// поэтому выборка кэшируется.
func (s *SubscriptionService) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	if s.cache == nil {
		plans, err := s.subs.ListPlans(ctx)
		if err != nil {
			return nil, fmt.Errorf("subscription service: %w", err)
		}
		return plans, nil
	}

	value, err := s.cache.GetOrSet(ctx, PlansCacheKey(), 5*time.Minute, func() (interface{}, error) {
		return s.subs.ListPlans(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("subscription service: %w", err)
	}
	return value.([]models.SubscriptionPlan), nil
}

// Subscribe оформляет подписку на план и активирует соответствующую роль.
// Две действующие подписки на одну роль не допускаются.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, planID uuid.UUID) (*models.UserSubscription, error) {
	plan, err := s.subs.GetPlan(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return nil, apperror.ErrPlanNotFound
		}
		return nil, fmt.Errorf("subscription service: %w", err)
	}
	if !plan.IsActive {
		return nil, apperror.ErrPlanNotFound
	}

	if _, err := s.subs.GetActiveByUserAndRole(ctx, userID, plan.Role); err == nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "an active subscription for this role already exists")
	} else if !errors.Is(err, repository.ErrSubscriptionNotFound) {
		return nil, fmt.Errorf("subscription service: %w", err)
	}

	now := time.Now()
	sub := &models.UserSubscription{
		UserID:      userID,
		PlanID:      plan.ID,
		Role:        plan.Role,
		Status:      models.SubscriptionStatusActive,
		PricePaid:   plan.Price,
		StartedAt:   now,
		MaxListings: plan.MaxListings,
	}
	if plan.PeriodDays > 0 {
		expires := now.AddDate(0, 0, plan.PeriodDays)
		sub.ExpiresAt = &expires
	}

	if err := s.subs.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("subscription service: %w", err)
	}

	if err := s.roles.GrantRole(ctx, userID, plan.Role); err != nil {
		return nil, fmt.Errorf("subscription service: %w", err)
	}

	return sub, nil
}

// MySubscriptions возвращает подписки пользователя.
func (s *SubscriptionService) MySubscriptions(ctx context.Context, userID uuid.UUID) ([]models.UserSubscription, error) {
	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("subscription service: %w", err)
	}
	return subs, nil
}

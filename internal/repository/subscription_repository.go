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

// ErrPlanNotFound сигнализирует об отсутствии тарифного плана.
var ErrPlanNotFound = errors.New("subscription plan not found")

// ErrSubscriptionNotFound сигнализирует об отсутствии подписки.
var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionRepository работает с таблицами subscription_plans и user_subscriptions.
type SubscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// ListPlans возвращает доступные тарифные планы.
func (r *SubscriptionRepository) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	query := `SELECT * FROM subscription_plans WHERE is_active = TRUE ORDER BY role, price`
	if err := r.db.SelectContext(ctx, &plans, query); err != nil {
		return nil, fmt.Errorf("subscription repository: list plans %w", err)
	}
	return plans, nil
}

// GetPlan возвращает тарифный план по идентификатору.
func (r *SubscriptionRepository) GetPlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.GetContext(ctx, &plan, `SELECT * FROM subscription_plans WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("subscription repository: get plan %w", err)
	}
	return &plan, nil
}

// CreateSubscription оформляет подписку пользователя.
func (r *SubscriptionRepository) CreateSubscription(ctx context.Context, sub *models.UserSubscription) error {
	query := `
		INSERT INTO user_subscriptions
			(user_id, plan_id, role, status, price_paid, started_at, expires_at, listings_used, max_listings)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)
		RETURNING id, listings_used
	`
	if err := r.db.QueryRowxContext(ctx, query,
		sub.UserID, sub.PlanID, sub.Role, sub.Status, sub.PricePaid,
		sub.StartedAt, sub.ExpiresAt, sub.MaxListings,
	).Scan(&sub.ID, &sub.ListingsUsed); err != nil {
		return fmt.Errorf("subscription repository: create subscription %w", err)
	}
	return nil
}

// GetActiveByUserAndRole возвращает действующую подписку пользователя для роли.
func (r *SubscriptionRepository) GetActiveByUserAndRole(ctx context.Context, userID uuid.UUID, role string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	query := `
		SELECT * FROM user_subscriptions
		WHERE user_id = $1 AND role = $2 AND status = 'active'
			AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY started_at DESC
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &sub, query, userID, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("subscription repository: get active by user and role %w", err)
	}
	return &sub, nil
}

// ListByUser возвращает все подписки пользователя.
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	query := `SELECT * FROM user_subscriptions WHERE user_id = $1 ORDER BY started_at DESC`
	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, fmt.Errorf("subscription repository: list by user %w", err)
	}
	return subs, nil
}

// IncrementListingsUsed занимает слот объявления в подписке.
func (r *SubscriptionRepository) IncrementListingsUsed(ctx context.Context, subscriptionID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE user_subscriptions SET listings_used = listings_used + 1
		WHERE id = $1 AND listings_used < max_listings
	`, subscriptionID)
	if err != nil {
		return fmt.Errorf("subscription repository: increment listings used %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("subscription repository: increment listings used rows affected %w", err)
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// DecrementListingsUsed освобождает слот после снятия объявления.
func (r *SubscriptionRepository) DecrementListingsUsed(ctx context.Context, subscriptionID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE user_subscriptions SET listings_used = GREATEST(listings_used - 1, 0) WHERE id = $1
	`, subscriptionID); err != nil {
		return fmt.Errorf("subscription repository: decrement listings used %w", err)
	}
	return nil
}

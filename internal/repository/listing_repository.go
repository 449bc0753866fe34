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

// ErrListingNotFound сигнализирует об отсутствии объявления.
var ErrListingNotFound = errors.New("listing not found")

// ListingRepository работает с таблицей service_listings.
type ListingRepository struct {
	db *sqlx.DB
}

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create сохраняет новое объявление об услуге.
func (r *ListingRepository) Create(ctx context.Context, listing *models.ServiceListing) error {
	query := `
		INSERT INTO service_listings
			(provider_id, title, description, service_type, price_per_session, schedule_data,
			 age_group, skill_level, max_participants, image_ids, is_active, is_promoted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, FALSE)
		RETURNING id, is_active, is_promoted, created_at, updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		listing.ProviderID, listing.Title, listing.Description, listing.ServiceType,
		listing.PricePerSession, listing.ScheduleData, listing.AgeGroup, listing.SkillLevel,
		listing.MaxParticipants, listing.ImageIDs,
	).Scan(&listing.ID, &listing.IsActive, &listing.IsPromoted, &listing.CreatedAt, &listing.UpdatedAt); err != nil {
		return fmt.Errorf("listing repository: create %w", err)
	}
	return nil
}

// GetByID возвращает объявление по идентификатору.
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceListing, error) {
	var listing models.ServiceListing
	if err := r.db.GetContext(ctx, &listing, `SELECT * FROM service_listings WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("listing repository: get by id %w", err)
	}
	return &listing, nil
}

// ListingFilter — параметры выборки объявлений.
type ListingFilter struct {
	ServiceType string
	ProviderID  *uuid.UUID
	Limit       int
	Offset      int
}

// List возвращает активные объявления с фильтрами.
func (r *ListingRepository) List(ctx context.Context, filter ListingFilter) ([]models.ServiceListing, error) {
	query := `SELECT * FROM service_listings WHERE is_active = TRUE`
	args := []interface{}{}
	argNum := 1

	if filter.ServiceType != "" {
		query += fmt.Sprintf(` AND service_type = $%d`, argNum)
		args = append(args, filter.ServiceType)
		argNum++
	}
	if filter.ProviderID != nil {
		query += fmt.Sprintf(` AND provider_id = $%d`, argNum)
		args = append(args, *filter.ProviderID)
		argNum++
	}

	query += fmt.Sprintf(` ORDER BY is_promoted DESC, created_at DESC LIMIT $%d OFFSET $%d`, argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var listings []models.ServiceListing
	if err := r.db.SelectContext(ctx, &listings, query, args...); err != nil {
		return nil, fmt.Errorf("listing repository: list %w", err)
	}
	return listings, nil
}

// Update обновляет редактируемые поля объявления.
func (r *ListingRepository) Update(ctx context.Context, listing *models.ServiceListing) error {
	query := `
		UPDATE service_listings
		SET title = $2, description = $3, service_type = $4, price_per_session = $5,
			schedule_data = $6, age_group = $7, skill_level = $8, max_participants = $9,
			image_ids = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	if err := r.db.QueryRowxContext(ctx, query,
		listing.ID, listing.Title, listing.Description, listing.ServiceType,
		listing.PricePerSession, listing.ScheduleData, listing.AgeGroup, listing.SkillLevel,
		listing.MaxParticipants, listing.ImageIDs,
	).Scan(&listing.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrListingNotFound
		}
		return fmt.Errorf("listing repository: update %w", err)
	}
	return nil
}

// Deactivate снимает объявление с публикации. Строка остаётся в таблице.
func (r *ListingRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE service_listings SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("listing repository: deactivate %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("listing repository: deactivate rows affected %w", err)
	}
	if affected == 0 {
		return ErrListingNotFound
	}
	return nil
}

// CountActiveByProvider считает активные объявления поставщика услуг.
func (r *ListingRepository) CountActiveByProvider(ctx context.Context, providerID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM service_listings WHERE provider_id = $1 AND is_active = TRUE`
	if err := r.db.GetContext(ctx, &count, query, providerID); err != nil {
		return 0, fmt.Errorf("listing repository: count active by provider %w", err)
	}
	return count, nil
}

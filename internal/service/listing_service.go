package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/swim360/swim360-backend/internal/logger"
	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/repository"
	"github.com/swim360/swim360-backend/internal/validation"
)

// ListingStore описывает зависимости ListingService от хранилища объявлений.
type ListingStore interface {
	Create(ctx context.Context, listing *models.ServiceListing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceListing, error)
	List(ctx context.Context, filter repository.ListingFilter) ([]models.ServiceListing, error)
	Update(ctx context.Context, listing *models.ServiceListing) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// SubscriptionChecker выдаёт действующую подписку и управляет слотами объявлений.
type SubscriptionChecker interface {
	GetActiveByUserAndRole(ctx context.Context, userID uuid.UUID, role string) (*models.UserSubscription, error)
	IncrementListingsUsed(ctx context.Context, subscriptionID uuid.UUID) error
	DecrementListingsUsed(ctx context.Context, subscriptionID uuid.UUID) error
}

// ListingService — бизнес-логика объявлений об услугах.
type ListingService struct {
	listings ListingStore
	subs     SubscriptionChecker
}

func NewListingService(listings ListingStore, subs SubscriptionChecker) *ListingService {
	return &ListingService{listings: listings, subs: subs}
}

// CreateListingInput содержит данные нового объявления.
type CreateListingInput struct {
	Title           string
	Description     *string
	ServiceType     string
	PricePerSession float64
	ScheduleData    []byte
	AgeGroup        *string
	SkillLevel      *string
	MaxParticipants *int
	ImageIDs        []string
}

// CreateListing публикует объявление. Требуется действующая подписка тренера
// со свободным слотом.
func (s *ListingService) CreateListing(ctx context.Context, providerID uuid.UUID, in CreateListingInput) (*models.ServiceListing, error) {
	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateDescription(in.Description); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if !models.ValidServiceType(in.ServiceType) {
		return nil, apperror.New(apperror.ErrCodeValidation, "service_type must be 'swimming' or 'fitness'")
	}
	if err := validation.ValidatePrice(in.PricePerSession); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	sub, err := s.subs.GetActiveByUserAndRole(ctx, providerID, models.RoleCoach)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, apperror.New(apperror.ErrCodeForbidden, "an active coach subscription is required to publish listings")
		}
		return nil, fmt.Errorf("listing service: %w", err)
	}
	if !sub.HasFreeSlot() {
		return nil, apperror.New(apperror.ErrCodeForbidden, "listing limit for the current subscription is reached")
	}

	listing := &models.ServiceListing{
		ProviderID:      providerID,
		Title:           in.Title,
		Description:     in.Description,
		ServiceType:     in.ServiceType,
		PricePerSession: in.PricePerSession,
		ScheduleData:    in.ScheduleData,
		AgeGroup:        in.AgeGroup,
		SkillLevel:      in.SkillLevel,
		MaxParticipants: in.MaxParticipants,
		ImageIDs:        in.ImageIDs,
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}

	if err := s.subs.IncrementListingsUsed(ctx, sub.ID); err != nil {
		logger.Log.WithFields(map[string]interface{}{
			"listing_id":      listing.ID,
			"subscription_id": sub.ID,
			"error":           err.Error(),
		}).Warn("listing service: не удалось занять слот подписки")
	}

	return listing, nil
}

// GetListing возвращает объявление по идентификатору.
func (s *ListingService) GetListing(ctx context.Context, id uuid.UUID) (*models.ServiceListing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, apperror.ErrListingNotFound
		}
		return nil, fmt.Errorf("listing service: %w", err)
	}
	return listing, nil
}

// ListListings возвращает активные объявления с фильтром по типу услуги.
func (s *ListingService) ListListings(ctx context.Context, serviceType string, limit, offset int) ([]models.ServiceListing, error) {
	if serviceType != "" && !models.ValidServiceType(serviceType) {
		return nil, apperror.New(apperror.ErrCodeValidation, "service_type must be 'swimming' or 'fitness'")
	}
	listings, err := s.listings.List(ctx, repository.ListingFilter{
		ServiceType: serviceType,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}
	return listings, nil
}

// UpdateListing обновляет объявление. Разрешено только владельцу.
func (s *ListingService) UpdateListing(ctx context.Context, listingID, userID uuid.UUID, in CreateListingInput) (*models.ServiceListing, error) {
	listing, err := s.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.ProviderID != userID {
		return nil, apperror.ErrForbidden
	}

	if err := validation.ValidateTitle(in.Title); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if !models.ValidServiceType(in.ServiceType) {
		return nil, apperror.New(apperror.ErrCodeValidation, "service_type must be 'swimming' or 'fitness'")
	}
	if err := validation.ValidatePrice(in.PricePerSession); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	listing.Title = in.Title
	listing.Description = in.Description
	listing.ServiceType = in.ServiceType
	listing.PricePerSession = in.PricePerSession
	listing.ScheduleData = in.ScheduleData
	listing.AgeGroup = in.AgeGroup
	listing.SkillLevel = in.SkillLevel
	listing.MaxParticipants = in.MaxParticipants
	listing.ImageIDs = in.ImageIDs

	if err := s.listings.Update(ctx, listing); err != nil {
		return nil, fmt.Errorf("listing service: %w", err)
	}
	return listing, nil
}

// DeactivateListing снимает объявление с публикации и освобождает слот подписки.
func (s *ListingService) DeactivateListing(ctx context.Context, listingID, userID uuid.UUID) error {
	listing, err := s.GetListing(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.ProviderID != userID {
		return apperror.ErrForbidden
	}
	if !listing.IsActive {
		return nil
	}

	if err := s.listings.Deactivate(ctx, listingID); err != nil {
		return fmt.Errorf("listing service: %w", err)
	}

	if sub, err := s.subs.GetActiveByUserAndRole(ctx, userID, models.RoleCoach); err == nil {
		if err := s.subs.DecrementListingsUsed(ctx, sub.ID); err != nil {
			logger.Log.WithFields(map[string]interface{}{
				"listing_id": listingID,
				"error":      err.Error(),
			}).Warn("listing service: не удалось освободить слот подписки")
		}
	}

	return nil
}

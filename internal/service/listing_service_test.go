package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/swim360/swim360-backend/internal/models"
	"github.com/swim360/swim360-backend/internal/pkg/apperror"
	"github.com/swim360/swim360-backend/internal/repository"
)

type mockListingStore struct {
	mock.Mock
}

func (m *mockListingStore) Create(ctx context.Context, listing *models.ServiceListing) error {
	args := m.Called(ctx, listing)
	if args.Error(0) == nil {
		listing.ID = uuid.New()
		listing.IsActive = true
	}
	return args.Error(0)
}

func (m *mockListingStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceListing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServiceListing), args.Error(1)
}

func (m *mockListingStore) List(ctx context.Context, filter repository.ListingFilter) ([]models.ServiceListing, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.ServiceListing), args.Error(1)
}

func (m *mockListingStore) Update(ctx context.Context, listing *models.ServiceListing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *mockListingStore) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockSubscriptionChecker struct {
	mock.Mock
}

func (m *mockSubscriptionChecker) GetActiveByUserAndRole(ctx context.Context, userID uuid.UUID, role string) (*models.UserSubscription, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserSubscription), args.Error(1)
}

func (m *mockSubscriptionChecker) IncrementListingsUsed(ctx context.Context, subscriptionID uuid.UUID) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func (m *mockSubscriptionChecker) DecrementListingsUsed(ctx context.Context, subscriptionID uuid.UUID) error {
	args := m.Called(ctx, subscriptionID)
	return args.Error(0)
}

func TestListingService_CreateListing_Success(t *testing.T) {
	listings := new(mockListingStore)
	subs := new(mockSubscriptionChecker)
	svc := NewListingService(listings, subs)
	ctx := context.Background()
	providerID := uuid.New()
	subID := uuid.New()

	expires := time.Now().Add(30 * 24 * time.Hour)
	subs.On("GetActiveByUserAndRole", ctx, providerID, models.RoleCoach).Return(&models.UserSubscription{
		ID:           subID,
		UserID:       providerID,
		Status:       models.SubscriptionStatusActive,
		ExpiresAt:    &expires,
		ListingsUsed: 1,
		MaxListings:  3,
	}, nil)
	listings.On("Create", ctx, mock.AnythingOfType("*models.ServiceListing")).Return(nil)
	subs.On("IncrementListingsUsed", ctx, subID).Return(nil)

	listing, err := svc.CreateListing(ctx, providerID, CreateListingInput{
		Title:           "Kids swimming lessons",
		ServiceType:     models.ServiceTypeSwimming,
		PricePerSession: 250,
	})

	assert.NoError(t, err)
	assert.NotNil(t, listing)
	assert.Equal(t, providerID, listing.ProviderID)
	subs.AssertCalled(t, "IncrementListingsUsed", ctx, subID)
}

func TestListingService_CreateListing_NoSubscription(t *testing.T) {
	listings := new(mockListingStore)
	subs := new(mockSubscriptionChecker)
	svc := NewListingService(listings, subs)
	ctx := context.Background()
	providerID := uuid.New()

	subs.On("GetActiveByUserAndRole", ctx, providerID, models.RoleCoach).
		Return(nil, repository.ErrSubscriptionNotFound)

	_, err := svc.CreateListing(ctx, providerID, CreateListingInput{
		Title:           "Kids swimming lessons",
		ServiceType:     models.ServiceTypeSwimming,
		PricePerSession: 250,
	})

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeForbidden, appErr.Code)
	listings.AssertNotCalled(t, "Create", ctx, mock.Anything)
}

func TestListingService_CreateListing_LimitReached(t *testing.T) {
	listings := new(mockListingStore)
	subs := new(mockSubscriptionChecker)
	svc := NewListingService(listings, subs)
	ctx := context.Background()
	providerID := uuid.New()

	subs.On("GetActiveByUserAndRole", ctx, providerID, models.RoleCoach).Return(&models.UserSubscription{
		ID:           uuid.New(),
		Status:       models.SubscriptionStatusActive,
		ListingsUsed: 3,
		MaxListings:  3,
	}, nil)

	_, err := svc.CreateListing(ctx, providerID, CreateListingInput{
		Title:           "Kids swimming lessons",
		ServiceType:     models.ServiceTypeSwimming,
		PricePerSession: 250,
	})

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeForbidden, appErr.Code)
}

func TestListingService_CreateListing_InvalidServiceType(t *testing.T) {
	listings := new(mockListingStore)
	subs := new(mockSubscriptionChecker)
	svc := NewListingService(listings, subs)
	ctx := context.Background()

	_, err := svc.CreateListing(ctx, uuid.New(), CreateListingInput{
		Title:           "Yoga classes",
		ServiceType:     "yoga",
		PricePerSession: 100,
	})

	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeValidation, appErr.Code)
}

func TestListingService_UpdateListing_NotOwner(t *testing.T) {
	listings := new(mockListingStore)
	subs := new(mockSubscriptionChecker)
	svc := NewListingService(listings, subs)
	ctx := context.Background()
	listingID := uuid.New()

	listings.On("GetByID", ctx, listingID).Return(&models.ServiceListing{
		ID:         listingID,
		ProviderID: uuid.New(),
	}, nil)

	_, err := svc.UpdateListing(ctx, listingID, uuid.New(), CreateListingInput{
		Title:           "Updated title",
		ServiceType:     models.ServiceTypeFitness,
		PricePerSession: 300,
	})

	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestListingService_DeactivateListing_FreesSlot(t *testing.T) {
	listings := new(mockListingStore)
	subs := new(mockSubscriptionChecker)
	svc := NewListingService(listings, subs)
	ctx := context.Background()
	providerID := uuid.New()
	listingID := uuid.New()
	subID := uuid.New()

	listings.On("GetByID", ctx, listingID).Return(&models.ServiceListing{
		ID:         listingID,
		ProviderID: providerID,
		IsActive:   true,
	}, nil)
	listings.On("Deactivate", ctx, listingID).Return(nil)
	subs.On("GetActiveByUserAndRole", ctx, providerID, models.RoleCoach).Return(&models.UserSubscription{
		ID: subID,
	}, nil)
	subs.On("DecrementListingsUsed", ctx, subID).Return(nil)

	err := svc.DeactivateListing(ctx, listingID, providerID)

	assert.NoError(t, err)
	subs.AssertCalled(t, "DecrementListingsUsed", ctx, subID)
}

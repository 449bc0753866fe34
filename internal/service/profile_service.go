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

// ProfileRepository описывает зависимости ProfileService от слоя хранилища.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
	GrantRole(ctx context.Context, userID uuid.UUID, role string) error
}

// ProfileService — бизнес-логика профиля текущего пользователя.
type ProfileService struct {
	repo ProfileRepository
}

func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Me возвращает пользователя, его профиль и роли.
func (s *ProfileService) Me(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, []string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, nil, apperror.ErrUserNotFound
		}
		return nil, nil, nil, fmt.Errorf("profile service: %w", err)
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, nil, fmt.Errorf("profile service: %w", err)
	}

	roles, err := s.repo.GetRoles(ctx, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("profile service: %w", err)
	}

	return user, profile, roles, nil
}

// UpdateProfileInput содержит редактируемые поля профиля.
type UpdateProfileInput struct {
	Phone    *string
	AvatarID *uuid.UUID
	Bio      *string
	Location []byte
}

// UpdateMe обновляет профиль текущего пользователя.
func (s *ProfileService) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.Profile, error) {
	if err := validation.ValidateBio(in.Bio); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}

	profile := &models.Profile{
		UserID:   userID,
		Phone:    in.Phone,
		AvatarID: in.AvatarID,
		Bio:      in.Bio,
		Location: in.Location,
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}
	return profile, nil
}

// EnrollRole активирует дополнительную роль пользователя (coach или vendor).
func (s *ProfileService) EnrollRole(ctx context.Context, userID uuid.UUID, role string) ([]string, error) {
	if !models.ValidRole(role) {
		return nil, apperror.New(apperror.ErrCodeValidation, "role must be 'customer', 'coach' or 'vendor'")
	}

	if err := s.repo.GrantRole(ctx, userID, role); err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}

	roles, err := s.repo.GetRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}
	return roles, nil
}

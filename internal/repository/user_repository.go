package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/swim360/swim360-backend/internal/models"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail возвращается при попытке создать пользователя с занятым email.
var ErrDuplicateEmail = errors.New("email already exists")

// UserRepository отвечает за работу с таблицами users, profiles и user_roles.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя с пустым профилем.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, full_name, password_hash, is_email_verified, is_active)
		VALUES ($1, $2, $3, FALSE, TRUE)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Email, user.FullName, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO profiles (user_id) VALUES ($1)`, user.ID); err != nil {
		return fmt.Errorf("user repository: create profile %w", err)
	}

	return nil
}

// Delete удаляет пользователя. Используется для компенсации, когда создание
// учётной записи не удалось довести до конца.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("user repository: delete %w", err)
	}
	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, full_name, password_hash, is_email_verified, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, email, full_name, password_hash, is_email_verified, is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// MarkEmailVerified помечает email пользователя подтверждённым.
// Флаг монотонный: обратно в FALSE не переводится.
func (r *UserRepository) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE users SET is_email_verified = TRUE, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("user repository: mark email verified %w", err)
	}
	return nil
}

// UpdateLastLoginAt обновляет время последнего входа пользователя.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("user repository: update last login at %w", err)
	}
	return nil
}

// GrantRole выдаёт пользователю роль. Повторная выдача той же роли
// переактивирует существующую запись.
func (r *UserRepository) GrantRole(ctx context.Context, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO user_roles (user_id, role, is_active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (user_id, role) DO UPDATE SET is_active = TRUE
	`
	if _, err := r.db.ExecContext(ctx, query, userID, role); err != nil {
		return fmt.Errorf("user repository: grant role %w", err)
	}
	return nil
}

// GetRoles возвращает активные роли пользователя.
func (r *UserRepository) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var roles []string
	query := `SELECT role FROM user_roles WHERE user_id = $1 AND is_active = TRUE ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("user repository: get roles %w", err)
	}
	return roles, nil
}

// HasRole проверяет наличие активной роли у пользователя.
func (r *UserRepository) HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_roles WHERE user_id = $1 AND role = $2 AND is_active = TRUE`
	if err := r.db.GetContext(ctx, &count, query, userID, role); err != nil {
		return false, fmt.Errorf("user repository: has role %w", err)
	}
	return count > 0, nil
}

// GetProfile возвращает профиль пользователя.
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	query := `SELECT user_id, phone, avatar_id, bio, location, updated_at FROM profiles WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get profile %w", err)
	}
	return &profile, nil
}

// UpsertProfile создаёт или обновляет профиль пользователя.
func (r *UserRepository) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, phone, avatar_id, bio, location, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET phone = EXCLUDED.phone,
			avatar_id = EXCLUDED.avatar_id,
			bio = EXCLUDED.bio,
			location = EXCLUDED.location,
			updated_at = NOW()
		RETURNING updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		profile.UserID, profile.Phone, profile.AvatarID, profile.Bio, profile.Location,
	).Scan(&profile.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: upsert profile %w", err)
	}

	return nil
}

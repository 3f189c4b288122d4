package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/utils"
	"github.com/google/uuid"
)

type UserRepository interface {
	UpsertUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

// UpsertUser inserts or refreshes a user keyed by email. An admin role on
// user is written through; otherwise the stored role is kept.
func (r *userRepository) UpsertUser(ctx context.Context, user *models.User) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (email, name, image, provider, provider_id, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			image = EXCLUDED.image,
			provider = EXCLUDED.provider,
			provider_id = EXCLUDED.provider_id,
			role = CASE WHEN EXCLUDED.role = 'admin' THEN 'admin' ELSE users.role END,
			updated_at = NOW()
		RETURNING id, role, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, strings.ToLower(user.Email), user.Name, user.Image,
		user.Provider, user.ProviderID, user.Role).
		Scan(&user.ID, &user.Role, &user.CreatedAt, &user.UpdatedAt)

	return mapError("upserting user", err)
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	query := `
		SELECT id, email, name, image, provider, role, created_at, updated_at
		FROM users
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&user.ID, &user.Email, &user.Name, &user.Image, &user.Provider, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, mapError("querying user by id", err)
	}

	return user, nil
}

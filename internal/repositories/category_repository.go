package repository

import (
	"context"
	"database/sql"

	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/utils"
	"github.com/google/uuid"
)

type CategoryRepository interface {
	ListActiveCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepo(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

const categorySelect = `
	SELECT id, name, slug, description, image, parent_id, is_active, display_order, created_at, updated_at
	FROM categories`

func scanCategory(row rowScanner) (*models.Category, error) {
	c := &models.Category{}

	var parentID uuid.NullUUID

	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Image, &parentID,
		&c.IsActive, &c.DisplayOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	if parentID.Valid {
		c.ParentID = &parentID.UUID
	}

	return c, nil
}

func nullableID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}

	return uuid.NullUUID{UUID: *id, Valid: true}
}

// ListActiveCategories orders by display order, then name.
func (r *categoryRepository) ListActiveCategories(ctx context.Context) ([]*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, categorySelect+` WHERE is_active = TRUE ORDER BY display_order ASC, name ASC`)
	if err != nil {
		return nil, mapError("listing categories", err)
	}

	defer rows.Close()

	categories := []*models.Category{}

	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, mapError("scanning category", err)
		}

		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, mapError("listing categories", err)
	}

	return categories, nil
}

func (r *categoryRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	category, err := scanCategory(r.DB.QueryRowContext(dbCtx, categorySelect+` WHERE id = $1`, id))
	if err != nil {
		return nil, mapError("querying category by id", err)
	}

	return category, nil
}

func (r *categoryRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	category, err := scanCategory(r.DB.QueryRowContext(dbCtx, categorySelect+` WHERE slug = $1`, slug))
	if err != nil {
		return nil, mapError("querying category by slug", err)
	}

	return category, nil
}

func (r *categoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO categories (name, slug, description, image, parent_id, is_active, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, category.Name, category.Slug, category.Description, category.Image,
		nullableID(category.ParentID), category.IsActive, category.DisplayOrder).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	return mapError("inserting category", err)
}

func (r *categoryRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE categories SET name = $1, slug = $2, description = $3, image = $4, parent_id = $5,
			is_active = $6, display_order = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, category.Name, category.Slug, category.Description, category.Image,
		nullableID(category.ParentID), category.IsActive, category.DisplayOrder, category.ID).
		Scan(&category.UpdatedAt)

	return mapError("updating category", err)
}

func (r *categoryRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapError("deleting category", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError("deleting category", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

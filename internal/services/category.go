package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/cache"
	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/productform"
	repository "github.com/chucuoi/flower-storefront/internal/repositories"
	"github.com/google/uuid"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo        repository.CategoryRepository
	productRepo repository.ProductRepository
	cache       cache.Cache
	ttl         time.Duration
}

func NewCategoryService(repo repository.CategoryRepository, productRepo repository.ProductRepository, c cache.Cache, ttl time.Duration) CategoryService {
	return &categoryService{repo: repo, productRepo: productRepo, cache: c, ttl: ttl}
}

// ListCategories returns the active categories, cached.
func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := cache.Remember(ctx, s.cache, cache.ActiveCategoriesKey, s.ttl, s.repo.ListActiveCategories)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	return categories, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Name:         strings.TrimSpace(req.Name),
		Slug:         strings.ToLower(strings.TrimSpace(req.Slug)),
		Description:  req.Description,
		Image:        req.Image,
		IsActive:     true,
		DisplayOrder: req.DisplayOrder,
	}

	if category.Slug == "" {
		category.Slug = productform.Slugify(category.Name)
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if req.ParentID != nil {
		if _, err := s.getParent(ctx, *req.ParentID); err != nil {
			return nil, err
		}

		parentID := *req.ParentID
		category.ParentID = &parentID
	}

	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, categoryWriteError(err, "Failed to create category")
	}

	s.invalidate(ctx)

	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id uuid.UUID, req *models.UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.repo.GetCategoryByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Category not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to get category").WithError(err)
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		category.Slug = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.Image != nil {
		category.Image = *req.Image
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	switch {
	case req.ClearParent:
		category.ParentID = nil
	case req.ParentID != nil:
		if err := s.checkParent(ctx, id, *req.ParentID); err != nil {
			return nil, err
		}

		parentID := *req.ParentID
		category.ParentID = &parentID
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Category not found").WithError(err)
		}

		return nil, categoryWriteError(err, "Failed to update category")
	}

	s.invalidate(ctx)

	return category, nil
}

// checkParent rejects a parent that is the category itself or has the
// category somewhere up its chain.
func (s *categoryService) checkParent(ctx context.Context, id, parentID uuid.UUID) error {
	if parentID == id {
		return errors.BadRequestError("Invalid parent category").
			WithDetail("A category cannot be its own parent")
	}

	parent, err := s.getParent(ctx, parentID)
	if err != nil {
		return err
	}

	visited := map[uuid.UUID]bool{parentID: true}

	for current := parent; current.ParentID != nil; {
		next := *current.ParentID

		if next == id {
			return errors.BadRequestError("Invalid parent category").
				WithDetail("This parent would create a category cycle")
		}

		// an existing loop above us that never reaches id
		if visited[next] {
			return nil
		}
		visited[next] = true

		current, err = s.repo.GetCategoryByID(ctx, next)
		if err != nil {
			if stdErrors.Is(err, repository.ErrNotFound) {
				return nil
			}

			return errors.DatabaseError("Failed to check parent category").WithError(err)
		}
	}

	return nil
}

func (s *categoryService) getParent(ctx context.Context, parentID uuid.UUID) (*models.Category, error) {
	parent, err := s.repo.GetCategoryByID(ctx, parentID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.BadRequestError("Parent category not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to get parent category").WithError(err)
	}

	return parent, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return errors.DatabaseError("Failed to delete category").WithError(err)
	}

	if count > 0 {
		return errors.BadRequestError("Category has products").
			WithDetail(fmt.Sprintf("Move or delete the %d products in this category first", count))
	}

	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Category not found").WithError(err)
		}

		return categoryWriteError(err, "Failed to delete category")
	}

	s.invalidate(ctx)

	return nil
}

func (s *categoryService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.ActiveCategoriesKey); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to invalidate category cache", slog.String("error", err.Error()))
	}
}

func categoryWriteError(err error, message string) error {
	switch {
	case repository.IsUniqueViolation(err, repository.ConstraintCategorySlug):
		return errors.DuplicateEntryError("Slug already exists").
			WithDetail("Another category already uses this slug").
			WithError(err)
	case repository.IsForeignKeyViolation(err, repository.ConstraintCategoryParent):
		return errors.BadRequestError("Parent category not found").WithError(err)
	case repository.IsForeignKeyViolation(err, repository.ConstraintProductCategory):
		return errors.BadRequestError("Category has products").WithError(err)
	default:
		return errors.DatabaseError(message).WithError(err)
	}
}

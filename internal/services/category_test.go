package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chucuoi/flower-storefront/internal/cache"
	cacheMocks "github.com/chucuoi/flower-storefront/internal/cache/mocks"
	appErrors "github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	repository "github.com/chucuoi/flower-storefront/internal/repositories"
	"github.com/chucuoi/flower-storefront/internal/repositories/mocks"
	service "github.com/chucuoi/flower-storefront/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const categoryTTL = 5 * time.Minute

func setupCategoryServiceTest(t *testing.T) (service.CategoryService, *mocks.CategoryRepository, *mocks.ProductRepository, *cacheMocks.Cache) {
	repo := mocks.NewCategoryRepository(t)
	productRepo := mocks.NewProductRepository(t)
	c := cacheMocks.NewCache(t)

	return service.NewCategoryService(repo, productRepo, c, categoryTTL), repo, productRepo, c
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	categories := []*models.Category{{ID: uuid.New(), Name: "Roses", Slug: "roses"}}

	t.Run("Success - Cache miss loads and stores", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, c := setupCategoryServiceTest(t)
		c.On("Get", mock.Anything, cache.ActiveCategoriesKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListActiveCategories", mock.Anything).Return(categories, nil).Once()
		c.On("Set", mock.Anything, cache.ActiveCategoriesKey, categories, categoryTTL).Return(nil).Once()

		// Act
		result, err := categoryService.ListCategories(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, categories, result)
	})

	t.Run("Success - Cache failure falls through to the store", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, c := setupCategoryServiceTest(t)
		c.On("Get", mock.Anything, cache.ActiveCategoriesKey, mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("ListActiveCategories", mock.Anything).Return(categories, nil).Once()
		c.On("Set", mock.Anything, cache.ActiveCategoriesKey, categories, categoryTTL).Return(errors.New("redis down")).Once()

		// Act
		result, err := categoryService.ListCategories(ctx)

		// Assert
		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, c := setupCategoryServiceTest(t)
		c.On("Get", mock.Anything, cache.ActiveCategoriesKey, mock.Anything).Return(false, nil).Once()
		repo.On("ListActiveCategories", mock.Anything).Return(nil, errors.New("connection reset")).Once()

		// Act
		result, err := categoryService.ListCategories(ctx)

		// Assert
		assert.Nil(t, result)
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, "Failed to fetch categories")
	})
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Slug derived from name", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, c := setupCategoryServiceTest(t)
		repo.On("CreateCategory", mock.Anything, mock.MatchedBy(func(cat *models.Category) bool {
			return cat.Slug == "wedding-flowers" && cat.IsActive && cat.ParentID == nil
		})).Return(nil).Once()
		c.On("Delete", mock.Anything, cache.ActiveCategoriesKey).Return(nil).Once()

		// Act
		category, err := categoryService.CreateCategory(ctx, &models.CreateCategoryRequest{Name: " Wedding Flowers "})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Wedding Flowers", category.Name)
	})

	t.Run("Failure - Unknown parent", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, _ := setupCategoryServiceTest(t)
		parentID := uuid.New()
		repo.On("GetCategoryByID", mock.Anything, parentID).Return(nil, repository.ErrNotFound).Once()

		// Act
		category, err := categoryService.CreateCategory(ctx, &models.CreateCategoryRequest{Name: "Lilies", ParentID: &parentID})

		// Assert
		assert.Nil(t, category)
		assertAppError(t, err, appErrors.ErrCodeBadRequest, "Parent category not found")
	})

	t.Run("Failure - Duplicate slug", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, _ := setupCategoryServiceTest(t)
		repo.On("CreateCategory", mock.Anything, mock.Anything).
			Return(&repository.UniqueViolation{Constraint: repository.ConstraintCategorySlug}).Once()

		// Act
		_, err := categoryService.CreateCategory(ctx, &models.CreateCategoryRequest{Name: "Roses"})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeDuplicateEntry, "Slug already exists")
	})
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Reparent", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, c := setupCategoryServiceTest(t)
		category := &models.Category{ID: uuid.New(), Name: "Tulips"}
		parent := &models.Category{ID: uuid.New(), Name: "Bulbs"}

		repo.On("GetCategoryByID", mock.Anything, category.ID).Return(category, nil).Once()
		repo.On("GetCategoryByID", mock.Anything, parent.ID).Return(parent, nil).Once()
		repo.On("UpdateCategory", mock.Anything, category).Return(nil).Once()
		c.On("Delete", mock.Anything, cache.ActiveCategoriesKey).Return(errors.New("redis down")).Once()

		// Act
		updated, err := categoryService.UpdateCategory(ctx, category.ID, &models.UpdateCategoryRequest{ParentID: &parent.ID})

		// Assert
		require.NoError(t, err)
		require.NotNil(t, updated.ParentID)
		assert.Equal(t, parent.ID, *updated.ParentID)
	})

	t.Run("Success - ClearParent wins over ParentID", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, c := setupCategoryServiceTest(t)
		oldParent := uuid.New()
		category := &models.Category{ID: uuid.New(), ParentID: &oldParent}
		other := uuid.New()

		repo.On("GetCategoryByID", mock.Anything, category.ID).Return(category, nil).Once()
		repo.On("UpdateCategory", mock.Anything, category).Return(nil).Once()
		c.On("Delete", mock.Anything, cache.ActiveCategoriesKey).Return(nil).Once()

		// Act
		updated, err := categoryService.UpdateCategory(ctx, category.ID, &models.UpdateCategoryRequest{ClearParent: true, ParentID: &other})

		// Assert
		require.NoError(t, err)
		assert.Nil(t, updated.ParentID)
	})

	t.Run("Failure - Own parent", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, _ := setupCategoryServiceTest(t)
		category := &models.Category{ID: uuid.New()}
		repo.On("GetCategoryByID", mock.Anything, category.ID).Return(category, nil).Once()

		// Act
		_, err := categoryService.UpdateCategory(ctx, category.ID, &models.UpdateCategoryRequest{ParentID: &category.ID})

		// Assert
		appErr := assertAppError(t, err, appErrors.ErrCodeBadRequest, "Invalid parent category")
		assert.Equal(t, "A category cannot be its own parent", appErr.Detail)
	})

	t.Run("Failure - Cycle through a grandchild", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, _ := setupCategoryServiceTest(t)
		root := &models.Category{ID: uuid.New()}
		child := &models.Category{ID: uuid.New(), ParentID: &root.ID}
		grandchild := &models.Category{ID: uuid.New(), ParentID: &child.ID}

		repo.On("GetCategoryByID", mock.Anything, root.ID).Return(root, nil).Once()
		repo.On("GetCategoryByID", mock.Anything, grandchild.ID).Return(grandchild, nil).Once()
		repo.On("GetCategoryByID", mock.Anything, child.ID).Return(child, nil).Once()

		// Act
		_, err := categoryService.UpdateCategory(ctx, root.ID, &models.UpdateCategoryRequest{ParentID: &grandchild.ID})

		// Assert
		appErr := assertAppError(t, err, appErrors.ErrCodeBadRequest, "Invalid parent category")
		assert.Equal(t, "This parent would create a category cycle", appErr.Detail)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		categoryService, repo, _, _ := setupCategoryServiceTest(t)
		id := uuid.New()
		repo.On("GetCategoryByID", mock.Anything, id).Return(nil, repository.ErrNotFound).Once()

		// Act
		_, err := categoryService.UpdateCategory(ctx, id, &models.UpdateCategoryRequest{})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Category not found")
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Empty category", func(t *testing.T) {
		// Arrange
		categoryService, repo, productRepo, c := setupCategoryServiceTest(t)
		id := uuid.New()
		productRepo.On("CountByCategory", mock.Anything, id).Return(0, nil).Once()
		repo.On("DeleteCategory", mock.Anything, id).Return(nil).Once()
		c.On("Delete", mock.Anything, cache.ActiveCategoriesKey).Return(nil).Once()

		// Act
		err := categoryService.DeleteCategory(ctx, id)

		// Assert
		require.NoError(t, err)
	})

	t.Run("Failure - Category has products", func(t *testing.T) {
		// Arrange
		categoryService, _, productRepo, _ := setupCategoryServiceTest(t)
		id := uuid.New()
		productRepo.On("CountByCategory", mock.Anything, id).Return(3, nil).Once()

		// Act
		err := categoryService.DeleteCategory(ctx, id)

		// Assert
		appErr := assertAppError(t, err, appErrors.ErrCodeBadRequest, "Category has products")
		assert.Contains(t, appErr.Detail, "3 products")
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		categoryService, repo, productRepo, _ := setupCategoryServiceTest(t)
		id := uuid.New()
		productRepo.On("CountByCategory", mock.Anything, id).Return(0, nil).Once()
		repo.On("DeleteCategory", mock.Anything, id).Return(repository.ErrNotFound).Once()

		// Act
		err := categoryService.DeleteCategory(ctx, id)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Category not found")
	})
}

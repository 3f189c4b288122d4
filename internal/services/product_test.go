package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chucuoi/flower-storefront/internal/catalog"
	"github.com/chucuoi/flower-storefront/internal/config"
	appErrors "github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	repository "github.com/chucuoi/flower-storefront/internal/repositories"
	"github.com/chucuoi/flower-storefront/internal/repositories/mocks"
	service "github.com/chucuoi/flower-storefront/internal/services"
	svcMocks "github.com/chucuoi/flower-storefront/internal/services/mocks"
	"github.com/chucuoi/flower-storefront/internal/tasks"
	cldMocks "github.com/chucuoi/flower-storefront/pkg/cloudinary/mocks"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productDeps struct {
	repo         *mocks.ProductRepository
	categoryRepo *mocks.CategoryRepository
	media        *cldMocks.Client
	notifier     *svcMocks.NotificationService
	runner       *tasks.Runner
}

func setupProductServiceTest(t *testing.T, policy string) (service.ProductService, *productDeps) {
	deps := &productDeps{
		repo:         mocks.NewProductRepository(t),
		categoryRepo: mocks.NewCategoryRepository(t),
		media:        cldMocks.NewClient(t),
		notifier:     svcMocks.NewNotificationService(t),
		runner:       tasks.NewRunner(time.Second),
	}

	productService := service.NewProductService(deps.repo, deps.categoryRepo, deps.media, deps.notifier, deps.runner, policy)

	return productService, deps
}

// drain waits for detached tasks so their mock calls are asserted.
func (d *productDeps) drain(t *testing.T) {
	require.NoError(t, d.runner.Shutdown(context.Background()))
}

func ptr[T any](v T) *T {
	return &v
}

func validCreateRequest(category string) *models.CreateProductRequest {
	return &models.CreateProductRequest{
		Name:             "Red Rose Bouquet",
		Description:      "<p>Twelve roses</p><script>alert(1)</script>",
		ShortDescription: "<b>Fresh</b> roses",
		BasePrice:        ptr(1000000.0),
		CurrentPrice:     ptr(1.0),
		SalePrice:        ptr(800000.0),
		SKU:              "rose-001",
		Stock:            ptr(25),
		Images:           []string{"https://res.cloudinary.com/demo/image/upload/v1/products/rose.jpg"},
		Category:         category,
	}
}

func assertAppError(t *testing.T, err error, code, message string) *appErrors.AppError {
	t.Helper()

	var appErr *appErrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)

	return appErr
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	category := &models.Category{ID: uuid.New(), Name: "Roses", Slug: "roses", IsActive: true}

	t.Run("Success - Create Product", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		req := validCreateRequest("Roses")

		deps.repo.On("ExistsBySKU", mock.Anything, "ROSE-001").Return(false, nil).Once()
		deps.categoryRepo.On("GetCategoryBySlug", mock.Anything, "roses").Return(category, nil).Once()
		deps.repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.SKU == "ROSE-001" && p.CategoryID == category.ID
		})).Return(nil).Once()

		// Act
		product, err := productService.CreateProduct(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "red-rose-bouquet", product.Slug)
		assert.Equal(t, 800000.0, product.CurrentPrice)
		assert.True(t, product.IsOnSale)
		assert.Equal(t, 20, product.DiscountPercentage)
		assert.Equal(t, req.Images[0], product.Thumbnail)
		assert.Equal(t, 10, product.LowStockThreshold)
		assert.True(t, product.IsActive)
		assert.NotContains(t, product.Description, "<script>")
		assert.Equal(t, "Fresh roses", product.ShortDescription)
		assert.Equal(t, []string{}, product.Tags)
		assert.Equal(t, category, product.Category)
	})

	t.Run("Success - Category by id and sale above base", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		req := validCreateRequest(category.ID.String())
		req.SalePrice = ptr(1200000.0)
		req.Slug = "Custom-Slug"

		deps.repo.On("ExistsBySKU", mock.Anything, "ROSE-001").Return(false, nil).Once()
		deps.categoryRepo.On("GetCategoryByID", mock.Anything, category.ID).Return(category, nil).Once()
		deps.repo.On("CreateProduct", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()

		// Act
		product, err := productService.CreateProduct(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "custom-slug", product.Slug)
		assert.Equal(t, 1000000.0, product.CurrentPrice)
		assert.False(t, product.IsOnSale)
		assert.Zero(t, product.DiscountPercentage)
	})

	t.Run("Failure - Missing required fields", func(t *testing.T) {
		// Arrange
		productService, _ := setupProductServiceTest(t, config.DeletePolicyRetain)
		req := &models.CreateProductRequest{Name: "Tulips", SKU: "TUL-1"}

		// Act
		product, err := productService.CreateProduct(ctx, req)

		// Assert
		assert.Nil(t, product)
		appErr := assertAppError(t, err, appErrors.ErrCodeBadRequest, "Missing required fields")
		assert.Equal(t, "Missing fields: basePrice, currentPrice, category, images", appErr.Detail)
		assert.Equal(t, []string{"basePrice", "currentPrice", "category", "images"}, appErr.Details)
	})

	t.Run("Failure - Duplicate SKU", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		deps.repo.On("ExistsBySKU", mock.Anything, "ROSE-001").Return(true, nil).Once()

		// Act
		product, err := productService.CreateProduct(ctx, validCreateRequest("roses"))

		// Assert
		assert.Nil(t, product)
		appErr := assertAppError(t, err, appErrors.ErrCodeDuplicateEntry, "SKU already exists")
		assert.Equal(t, `Product with SKU "ROSE-001" already exists`, appErr.Detail)
	})

	t.Run("Failure - Unknown category", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		deps.repo.On("ExistsBySKU", mock.Anything, "ROSE-001").Return(false, nil).Once()
		deps.categoryRepo.On("GetCategoryBySlug", mock.Anything, "lilies").Return(nil, repository.ErrNotFound).Once()

		// Act
		product, err := productService.CreateProduct(ctx, validCreateRequest("lilies"))

		// Assert
		assert.Nil(t, product)
		assertAppError(t, err, appErrors.ErrCodeBadRequest, "Category not found")
	})

	t.Run("Failure - SKU race caught by the constraint", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		violation := &repository.UniqueViolation{Constraint: repository.ConstraintProductSKU, Err: &pq.Error{Code: "23505"}}

		deps.repo.On("ExistsBySKU", mock.Anything, "ROSE-001").Return(false, nil).Once()
		deps.categoryRepo.On("GetCategoryBySlug", mock.Anything, "roses").Return(category, nil).Once()
		deps.repo.On("CreateProduct", mock.Anything, mock.Anything).Return(violation).Once()

		// Act
		_, err := productService.CreateProduct(ctx, validCreateRequest("roses"))

		// Assert
		assertAppError(t, err, appErrors.ErrCodeDuplicateEntry, "SKU already exists")
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		deps.repo.On("ExistsBySKU", mock.Anything, "ROSE-001").Return(false, errors.New("connection refused")).Once()

		// Act
		product, err := productService.CreateProduct(ctx, validCreateRequest("roses"))

		// Assert
		assert.Nil(t, product)
		assertAppError(t, err, appErrors.ErrCodeDatabaseError, "Failed to create product")
	})
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	admin := &models.Claims{Role: models.RoleAdmin}

	t.Run("Success - Storefront page", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		q := catalog.Query{Page: 2, Limit: 12, Sort: catalog.SortNewest}
		products := []*models.Product{{ID: uuid.New(), Name: "Peony"}}

		deps.repo.On("ListProducts", mock.Anything, q).Return(products, 30, nil).Once()

		// Act
		page, err := productService.ListProducts(ctx, q, nil)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, products, page.Products)
		assert.Equal(t, 3, page.Pagination.TotalPages)
		assert.True(t, page.Pagination.HasNextPage)
		assert.True(t, page.Pagination.HasPrevPage)
	})

	t.Run("Success - Admin view", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		q := catalog.Query{Page: 1, Limit: 12, Admin: true}

		deps.repo.On("ListProducts", mock.Anything, q).Return([]*models.Product{}, 0, nil).Once()

		// Act
		page, err := productService.ListProducts(ctx, q, admin)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, page.Products)
		assert.Equal(t, 0, page.Pagination.TotalProducts)
	})

	t.Run("Failure - Admin view without admin session", func(t *testing.T) {
		// Arrange
		productService, _ := setupProductServiceTest(t, config.DeletePolicyRetain)

		// Act
		page, err := productService.ListProducts(ctx, catalog.Query{Admin: true}, &models.Claims{Role: models.RoleUser})

		// Assert
		assert.Nil(t, page)
		assertAppError(t, err, appErrors.ErrCodeForbidden, "Admin access required")
	})

	t.Run("Failure - Store unavailable", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		deps.repo.On("ListProducts", mock.Anything, mock.Anything).Return(nil, 0, errors.New("pq: too many connections")).Once()

		// Act
		_, err := productService.ListProducts(ctx, catalog.Query{Page: 1, Limit: 12}, nil)

		// Assert
		appErr := assertAppError(t, err, appErrors.ErrCodeDatabaseError, "Failed to fetch products")
		assert.NotContains(t, appErr.Detail, "pq:")
	})
}

func TestGetProductBySlug(t *testing.T) {
	ctx := context.Background()
	product := &models.Product{ID: uuid.New(), Slug: "white-lily", CategoryID: uuid.New()}

	t.Run("Success - Detail with related and view bump", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		related := []*models.Product{{ID: uuid.New()}}

		deps.repo.On("GetProductBySlug", mock.Anything, "white-lily").Return(product, nil).Once()
		deps.repo.On("ListRelated", mock.Anything, product, 4).Return(related, nil).Once()
		deps.repo.On("IncrementViews", mock.Anything, product.ID).Return(nil).Once()

		// Act
		detail, err := productService.GetProductBySlug(ctx, "white-lily")
		deps.drain(t)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, detail.Product)
		assert.Equal(t, related, detail.RelatedProducts)
	})

	t.Run("Success - Related failure degrades to empty", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)

		deps.repo.On("GetProductBySlug", mock.Anything, "white-lily").Return(product, nil).Once()
		deps.repo.On("ListRelated", mock.Anything, product, 4).Return(nil, errors.New("timeout")).Once()
		deps.repo.On("IncrementViews", mock.Anything, product.ID).Return(errors.New("timeout")).Once()

		// Act
		detail, err := productService.GetProductBySlug(ctx, "white-lily")
		deps.drain(t)

		// Assert
		require.NoError(t, err)
		assert.NotNil(t, detail.RelatedProducts)
		assert.Empty(t, detail.RelatedProducts)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		deps.repo.On("GetProductBySlug", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

		// Act
		detail, err := productService.GetProductBySlug(ctx, "missing")

		// Assert
		assert.Nil(t, detail)
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Product not found")
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	existing := func() *models.Product {
		return &models.Product{
			ID:                uuid.New(),
			Name:              "Sunflower",
			Slug:              "sunflower",
			BasePrice:         500000,
			CurrentPrice:      400000,
			SalePrice:         ptr(400000.0),
			IsOnSale:          true,
			SKU:               "SUN-1",
			Stock:             20,
			LowStockThreshold: 10,
			Images:            []string{"https://img/a.jpg", "https://img/b.jpg"},
			Thumbnail:         "https://img/a.jpg",
		}
	}

	t.Run("Success - Clearing the sale price", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		product := existing()
		req := &models.UpdateProductRequest{SalePrice: models.NullFloat()}

		deps.repo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil).Once()
		deps.repo.On("UpdateProduct", mock.Anything, product).Return(nil).Once()

		// Act
		updated, err := productService.UpdateProduct(ctx, product.ID, req)

		// Assert
		require.NoError(t, err)
		assert.Nil(t, updated.SalePrice)
		assert.Equal(t, 500000.0, updated.CurrentPrice)
		assert.False(t, updated.IsOnSale)
		assert.Equal(t, "sunflower", updated.Slug)
	})

	t.Run("Success - Name change keeps the slug", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		product := existing()
		req := &models.UpdateProductRequest{Name: ptr("Giant Sunflower")}

		deps.repo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil).Once()
		deps.repo.On("UpdateProduct", mock.Anything, product).Return(nil).Once()

		// Act
		updated, err := productService.UpdateProduct(ctx, product.ID, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Giant Sunflower", updated.Name)
		assert.Equal(t, "sunflower", updated.Slug)
		assert.Equal(t, 400000.0, updated.CurrentPrice)
	})

	t.Run("Success - Replaced images reset a stale thumbnail", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		product := existing()
		req := &models.UpdateProductRequest{Images: &[]string{"https://img/c.jpg"}}

		deps.repo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil).Once()
		deps.repo.On("UpdateProduct", mock.Anything, product).Return(nil).Once()

		// Act
		updated, err := productService.UpdateProduct(ctx, product.ID, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "https://img/c.jpg", updated.Thumbnail)
	})

	t.Run("Success - Dropping below the threshold sends an alert", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		product := existing()
		req := &models.UpdateProductRequest{Stock: ptr(3)}

		deps.repo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil).Once()
		deps.repo.On("UpdateProduct", mock.Anything, product).Return(nil).Once()
		deps.notifier.On("SendLowStockAlert", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.ID == product.ID && p.Stock == 3
		})).Return(nil).Once()

		// Act
		_, err := productService.UpdateProduct(ctx, product.ID, req)
		deps.drain(t)

		// Assert
		require.NoError(t, err)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		id := uuid.New()
		deps.repo.On("GetProductByID", mock.Anything, id).Return(nil, repository.ErrNotFound).Once()

		// Act
		updated, err := productService.UpdateProduct(ctx, id, &models.UpdateProductRequest{Name: ptr("x")})

		// Assert
		assert.Nil(t, updated)
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Product not found")
	})

	t.Run("Failure - Duplicate slug", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		product := existing()
		violation := &repository.UniqueViolation{Constraint: repository.ConstraintProductSlug}

		deps.repo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil).Once()
		deps.repo.On("UpdateProduct", mock.Anything, product).Return(violation).Once()

		// Act
		_, err := productService.UpdateProduct(ctx, product.ID, &models.UpdateProductRequest{Slug: ptr("taken")})

		// Assert
		assertAppError(t, err, appErrors.ErrCodeDuplicateEntry, "Slug already exists")
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	product := &models.Product{
		ID: uuid.New(),
		Images: []string{
			"https://res.cloudinary.com/demo/image/upload/v1712/products/rose.jpg",
			"https://example.com/elsewhere.jpg",
		},
	}

	t.Run("Success - Retain policy keeps images", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyRetain)
		deps.repo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil).Once()
		deps.repo.On("DeleteProduct", mock.Anything, product.ID).Return(nil).Once()

		// Act
		err := productService.DeleteProduct(ctx, product.ID)
		deps.drain(t)

		// Assert
		require.NoError(t, err)
		deps.media.AssertNotCalled(t, "DeleteImage", mock.Anything, mock.Anything)
	})

	t.Run("Success - Cascade policy deletes hosted images", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyCascade)
		deps.repo.On("GetProductByID", mock.Anything, product.ID).Return(product, nil).Once()
		deps.repo.On("DeleteProduct", mock.Anything, product.ID).Return(nil).Once()
		deps.media.On("DeleteImage", mock.Anything, "products/rose").Return(nil).Once()

		// Act
		err := productService.DeleteProduct(ctx, product.ID)
		deps.drain(t)

		// Assert
		require.NoError(t, err)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		// Arrange
		productService, deps := setupProductServiceTest(t, config.DeletePolicyCascade)
		id := uuid.New()
		deps.repo.On("GetProductByID", mock.Anything, id).Return(nil, repository.ErrNotFound).Once()

		// Act
		err := productService.DeleteProduct(ctx, id)

		// Assert
		assertAppError(t, err, appErrors.ErrCodeNotFound, "Product not found")
	})
}

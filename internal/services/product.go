package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/catalog"
	"github.com/chucuoi/flower-storefront/internal/config"
	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/metrics"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/pricing"
	"github.com/chucuoi/flower-storefront/internal/productform"
	repository "github.com/chucuoi/flower-storefront/internal/repositories"
	"github.com/chucuoi/flower-storefront/internal/tasks"
	"github.com/chucuoi/flower-storefront/pkg/cloudinary"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	relatedProductsLimit     = 4
	defaultLowStockThreshold = 10
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	ListProducts(ctx context.Context, q catalog.Query, claims *models.Claims) (*models.ProductPage, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.ProductDetail, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	media        productform.Deleter
	notifier     NotificationService
	runner       *tasks.Runner
	deletePolicy string

	richText  *bluemonday.Policy
	plainText *bluemonday.Policy
}

func NewProductService(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	media productform.Deleter,
	notifier NotificationService,
	runner *tasks.Runner,
	deletePolicy string,
) ProductService {
	return &productService{
		repo:         repo,
		categoryRepo: categoryRepo,
		media:        media,
		notifier:     notifier,
		runner:       runner,
		deletePolicy: deletePolicy,
		richText:     bluemonday.UGCPolicy(),
		plainText:    bluemonday.StrictPolicy(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	logger := middleware.LoggerFromContext(ctx)

	if missing := req.MissingFields(); len(missing) > 0 {
		return nil, errors.BadRequestError("Missing required fields").
			WithDetail("Missing fields: " + strings.Join(missing, ", ")).
			WithDetails(missing...)
	}

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))

	exists, err := s.repo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	if exists {
		return nil, duplicateSKU(sku)
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:              strings.TrimSpace(req.Name),
		Slug:              strings.ToLower(strings.TrimSpace(req.Slug)),
		Description:       s.richText.Sanitize(req.Description),
		ShortDescription:  s.plainText.Sanitize(req.ShortDescription),
		BasePrice:         *req.BasePrice,
		SalePrice:         req.SalePrice,
		SKU:               sku,
		LowStockThreshold: defaultLowStockThreshold,
		Images:            slices.Clone(req.Images),
		Thumbnail:         req.Thumbnail,
		CategoryID:        category.ID,
		Tags:              nonNil(req.Tags),
		MetaTitle:         req.MetaTitle,
		MetaDescription:   req.MetaDescription,
		MetaKeywords:      nonNil(req.MetaKeywords),
		IsActive:          true,
		Weight:            req.Weight,
		Dimensions:        req.Dimensions,
	}

	if product.Slug == "" {
		product.Slug = productform.Slugify(product.Name)
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	// currentPrice from the request is overwritten here
	pricing.Apply(product)
	product.EnsureThumbnail()

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, writeError(err, "Failed to create product", product.SKU)
	}

	product.Category = category

	logger.Info("Product created", slog.String("productId", product.ID.String()), slog.String("sku", product.SKU))

	return product, nil
}

// resolveCategory accepts a category id or slug.
func (s *productService) resolveCategory(ctx context.Context, ref string) (*models.Category, error) {
	ref = strings.TrimSpace(ref)

	var (
		category *models.Category
		err      error
	)

	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		category, err = s.categoryRepo.GetCategoryByID(ctx, id)
	} else {
		category, err = s.categoryRepo.GetCategoryBySlug(ctx, strings.ToLower(ref))
	}

	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.BadRequestError("Category not found").
				WithDetail(fmt.Sprintf("No category matches %q", ref)).
				WithError(err)
		}

		return nil, errors.DatabaseError("Failed to resolve category").WithError(err)
	}

	return category, nil
}

func (s *productService) ListProducts(ctx context.Context, q catalog.Query, claims *models.Claims) (*models.ProductPage, error) {
	if q.Admin && !claims.IsAdmin() {
		return nil, errors.ForbiddenError("Admin access required").
			WithDetail("The admin product list needs an admin session")
	}

	products, total, err := s.repo.ListProducts(ctx, q)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch products").
			WithDetail("The product store is unavailable, please retry").
			WithError(err)
	}

	return &models.ProductPage{
		Products:   products,
		Pagination: catalog.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// GetProductBySlug serves the storefront detail page and bumps the view
// counter in the background.
func (s *productService) GetProductBySlug(ctx context.Context, slug string) (*models.ProductDetail, error) {
	logger := middleware.LoggerFromContext(ctx)

	product, err := s.repo.GetProductBySlug(ctx, slug)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	related, err := s.repo.ListRelated(ctx, product, relatedProductsLimit)
	if err != nil {
		logger.Warn("Failed to load related products", slog.String("productId", product.ID.String()), slog.String("error", err.Error()))
		related = []*models.Product{}
	}

	id := product.ID
	s.runner.Go(ctx, "product.increment_views", func(taskCtx context.Context) error {
		return s.repo.IncrementViews(taskCtx, id)
	})
	metrics.RecordProductView()

	return &models.ProductDetail{Product: product, RelatedProducts: related}, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to get product").WithError(err)
	}

	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	logger := middleware.LoggerFromContext(ctx)

	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasLow := product.IsLowStock()

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		product.Slug = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if req.Description != nil {
		product.Description = s.richText.Sanitize(*req.Description)
	}
	if req.ShortDescription != nil {
		product.ShortDescription = s.plainText.Sanitize(*req.ShortDescription)
	}
	if req.BasePrice != nil {
		product.BasePrice = *req.BasePrice
	}
	if req.SalePrice.Set {
		product.SalePrice = req.SalePrice.Ptr()
	}
	if req.SKU != nil {
		product.SKU = strings.ToUpper(strings.TrimSpace(*req.SKU))
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.LowStockThreshold != nil {
		product.LowStockThreshold = *req.LowStockThreshold
	}
	if req.Images != nil {
		product.Images = slices.Clone(*req.Images)
		if req.Thumbnail == nil && !slices.Contains(product.Images, product.Thumbnail) {
			product.Thumbnail = ""
		}
	}
	if req.Thumbnail != nil {
		product.Thumbnail = *req.Thumbnail
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}

		product.CategoryID = category.ID
		product.Category = category
	}
	if req.Tags != nil {
		product.Tags = nonNil(*req.Tags)
	}
	if req.MetaTitle != nil {
		product.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		product.MetaDescription = *req.MetaDescription
	}
	if req.MetaKeywords != nil {
		product.MetaKeywords = nonNil(*req.MetaKeywords)
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.Weight != nil {
		product.Weight = req.Weight
	}
	if req.Dimensions != nil {
		product.Dimensions = req.Dimensions
	}

	if req.TouchesPrice() {
		pricing.Apply(product)
	}
	product.EnsureThumbnail()

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, writeError(err, "Failed to update product", product.SKU)
	}

	if !wasLow && product.IsLowStock() {
		s.alertLowStock(ctx, product)
	}

	logger.Info("Product updated", slog.String("productId", product.ID.String()))

	return product, nil
}

func (s *productService) alertLowStock(ctx context.Context, product *models.Product) {
	if s.notifier == nil {
		return
	}

	snapshot := *product
	s.runner.Go(ctx, "product.low_stock_alert", func(taskCtx context.Context) error {
		return s.notifier.SendLowStockAlert(taskCtx, &snapshot)
	})
}

// DeleteProduct hard-deletes the record. With the cascade policy the
// product's hosted images are destroyed as detached tasks.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	logger := middleware.LoggerFromContext(ctx)

	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Product not found").WithError(err)
		}

		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	logger.Info("Product deleted", slog.String("productId", id.String()), slog.String("imagePolicy", s.deletePolicy))

	if s.deletePolicy != config.DeletePolicyCascade || s.media == nil {
		return nil
	}

	for _, imageURL := range product.Images {
		publicID := cloudinary.PublicIDFromURL(imageURL)
		if publicID == "" {
			logger.Warn("Skipping image not issued by the media host", slog.String("url", imageURL))
			continue
		}

		s.runner.Go(ctx, "product.delete_image", func(taskCtx context.Context) error {
			if err := s.media.DeleteImage(taskCtx, publicID); err != nil {
				return err
			}

			metrics.RecordOrphanImagesDeleted("product_delete", 1)

			return nil
		})
	}

	return nil
}

func duplicateSKU(sku string) *errors.AppError {
	return errors.DuplicateEntryError("SKU already exists").
		WithDetail(fmt.Sprintf("Product with SKU %q already exists", sku))
}

// writeError maps a failed product insert or update.
func writeError(err error, message, sku string) error {
	switch {
	case repository.IsUniqueViolation(err, repository.ConstraintProductSKU):
		return duplicateSKU(sku).WithError(err)
	case repository.IsUniqueViolation(err, repository.ConstraintProductSlug):
		return errors.DuplicateEntryError("Slug already exists").
			WithDetail("Another product already uses this slug").
			WithError(err)
	case repository.IsForeignKeyViolation(err, repository.ConstraintProductCategory):
		return errors.BadRequestError("Category not found").WithError(err)
	default:
		return errors.DatabaseError(message).WithError(err)
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return slices.Clone(values)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/chucuoi/flower-storefront/internal/catalog"
	"github.com/chucuoi/flower-storefront/internal/models"
	"github.com/chucuoi/flower-storefront/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListProducts(ctx context.Context, q catalog.Query) ([]*models.Product, int, error)
	ListRelated(ctx context.Context, product *models.Product, limit int) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productSelect = `
	SELECT p.id, p.name, p.slug, p.description, p.short_description,
	       p.base_price, p.sale_price, p.current_price, p.discount_percentage,
	       p.sku, p.stock, p.low_stock_threshold, p.images, p.thumbnail,
	       p.category_id, p.tags, p.meta_title, p.meta_description, p.meta_keywords,
	       p.is_active, p.is_featured, p.is_on_sale, p.weight, p.dimensions,
	       p.views_count, p.sales_count, p.created_at, p.updated_at,
	       c.id, c.name, c.slug
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

// searchVector is recomputed from the name, description and tags
// parameters on every write.
const searchVector = `to_tsvector('simple', $1 || ' ' || $3 || ' ' || array_to_string($15::text[], ' '))`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}

	var (
		categoryID   uuid.NullUUID
		categoryName sql.NullString
		categorySlug sql.NullString
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.ShortDescription,
		&p.BasePrice, &p.SalePrice, &p.CurrentPrice, &p.DiscountPercentage,
		&p.SKU, &p.Stock, &p.LowStockThreshold, pq.Array(&p.Images), &p.Thumbnail,
		&p.CategoryID, pq.Array(&p.Tags), &p.MetaTitle, &p.MetaDescription, pq.Array(&p.MetaKeywords),
		&p.IsActive, &p.IsFeatured, &p.IsOnSale, &p.Weight, &p.Dimensions,
		&p.ViewsCount, &p.SalesCount, &p.CreatedAt, &p.UpdatedAt,
		&categoryID, &categoryName, &categorySlug,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		p.Category = &models.Category{ID: categoryID.UUID, Name: categoryName.String, Slug: categorySlug.String}
	}

	return p, nil
}

func writeArgs(p *models.Product) []any {
	return []any{
		p.Name, p.Slug, p.Description, p.ShortDescription,
		p.BasePrice, p.SalePrice, p.CurrentPrice, p.DiscountPercentage,
		p.SKU, p.Stock, p.LowStockThreshold, pq.Array(p.Images), p.Thumbnail,
		p.CategoryID, pq.Array(p.Tags), p.MetaTitle, p.MetaDescription, pq.Array(p.MetaKeywords),
		p.IsActive, p.IsFeatured, p.IsOnSale, p.Weight, p.Dimensions,
	}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (name, slug, description, short_description,
			base_price, sale_price, current_price, discount_percentage,
			sku, stock, low_stock_threshold, images, thumbnail,
			category_id, tags, meta_title, meta_description, meta_keywords,
			is_active, is_featured, is_on_sale, weight, dimensions, search_vector)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, ` + searchVector + `)
		RETURNING id, views_count, sales_count, created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, writeArgs(product)...).
		Scan(&product.ID, &product.ViewsCount, &product.SalesCount, &product.CreatedAt, &product.UpdatedAt)

	return mapError("inserting product", err)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapError("querying product by id", err)
	}

	return product, nil
}

// GetProductBySlug only finds active products.
func (r *productRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := productSelect + ` WHERE p.slug = $1 AND p.is_active = TRUE`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, strings.ToLower(slug)))
	if err != nil {
		return nil, mapError("querying product by slug", err)
	}

	return product, nil
}

// productFilter builds the WHERE clause shared by the count and page
// queries.
func productFilter(q catalog.Query) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if !q.Admin {
		conditions = append(conditions, "p.is_active = TRUE")
	}

	if q.CategoryID != nil {
		conditions = append(conditions, "p.category_id = "+arg(*q.CategoryID))
	} else if q.CategorySlug != "" {
		conditions = append(conditions, "p.category_id = (SELECT id FROM categories WHERE slug = "+arg(q.CategorySlug)+")")
	}

	if q.MinPrice != nil {
		conditions = append(conditions, "p.current_price >= "+arg(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		conditions = append(conditions, "p.current_price <= "+arg(*q.MaxPrice))
	}

	if q.FeaturedOnly {
		conditions = append(conditions, "p.is_featured = TRUE")
	}
	if q.OnSaleOnly {
		conditions = append(conditions, "p.is_on_sale = TRUE")
	}

	if q.Search != "" {
		if q.Admin {
			n := arg("%" + escapeLike(q.Search) + "%")
			conditions = append(conditions, "(p.name ILIKE "+n+" OR p.sku ILIKE "+n+")")
		} else {
			conditions = append(conditions, "p.search_vector @@ plainto_tsquery('simple', "+arg(q.Search)+")")
		}
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// orderBy only ever returns one of these fixed clauses.
func orderBy(sort catalog.SortKey) string {
	switch sort {
	case catalog.SortPriceAsc:
		return " ORDER BY p.current_price ASC, p.id"
	case catalog.SortPriceDesc:
		return " ORDER BY p.current_price DESC, p.id"
	case catalog.SortNameAsc:
		return ` ORDER BY p.name COLLATE "C" ASC, p.id`
	case catalog.SortNameDesc:
		return ` ORDER BY p.name COLLATE "C" DESC, p.id`
	case catalog.SortPopular:
		return " ORDER BY p.sales_count DESC, p.views_count DESC, p.id"
	default:
		return " ORDER BY p.created_at DESC, p.id"
	}
}

func (r *productRepository) ListProducts(ctx context.Context, q catalog.Query) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	where, args := productFilter(q)

	var total int

	countQuery := `SELECT COUNT(*) FROM products p` + where

	if err := r.DB.QueryRowContext(dbCtx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, mapError("counting products", err)
	}

	pageArgs := append(args, q.Limit, q.Offset())
	query := productSelect + where + orderBy(q.Sort) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)

	products, err := r.queryProducts(dbCtx, query, pageArgs...)
	if err != nil {
		return nil, 0, mapError("listing products", err)
	}

	return products, total, nil
}

// ListRelated returns active products of the same category, newest first.
func (r *productRepository) ListRelated(ctx context.Context, product *models.Product, limit int) ([]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := productSelect + `
		WHERE p.category_id = $1 AND p.id <> $2 AND p.is_active = TRUE
		ORDER BY p.created_at DESC, p.id
		LIMIT $3`

	products, err := r.queryProducts(dbCtx, query, product.CategoryID, product.ID, limit)
	if err != nil {
		return nil, mapError("listing related products", err)
	}

	return products, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// UpdateProduct writes every mutable column of product.
func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET name = $1, slug = $2, description = $3, short_description = $4,
			base_price = $5, sale_price = $6, current_price = $7, discount_percentage = $8,
			sku = $9, stock = $10, low_stock_threshold = $11, images = $12, thumbnail = $13,
			category_id = $14, tags = $15, meta_title = $16, meta_description = $17, meta_keywords = $18,
			is_active = $19, is_featured = $20, is_on_sale = $21, weight = $22, dimensions = $23,
			search_vector = ` + searchVector + `, updated_at = NOW()
		WHERE id = $24
		RETURNING updated_at`

	args := append(writeArgs(product), product.ID)

	err := r.DB.QueryRowContext(dbCtx, query, args...).Scan(&product.UpdatedAt)

	return mapError("updating product", err)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("deleting product", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return mapError("deleting product", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// IncrementViews is not atomic with reads; concurrent bumps may race.
func (r *productRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	_, err := r.DB.ExecContext(dbCtx, `UPDATE products SET views_count = views_count + 1 WHERE id = $1`, id)

	return mapError("incrementing views", err)
}

func (r *productRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var exists bool

	err := r.DB.QueryRowContext(dbCtx, `SELECT EXISTS (SELECT 1 FROM products WHERE sku = $1)`, strings.ToUpper(sku)).Scan(&exists)
	if err != nil {
		return false, mapError("checking sku", err)
	}

	return exists, nil
}

func (r *productRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var count int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, mapError("counting category products", err)
	}

	return count, nil
}

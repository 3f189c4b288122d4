package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/catalog"
	"github.com/chucuoi/flower-storefront/internal/errors"
	"github.com/chucuoi/flower-storefront/internal/models"
	service "github.com/chucuoi/flower-storefront/internal/services"
	"github.com/chucuoi/flower-storefront/internal/utils"
	"github.com/chucuoi/flower-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: utils.NewValidator()}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Storefront catalog with filters, sorting and pagination. admin=true lists inactive products too and needs an admin session.
//	@Tags			Products
//	@Produce		json
//	@Param			category	query		string	false	"Category id or slug"
//	@Param			minPrice	query		number	false	"Lowest current price"
//	@Param			maxPrice	query		number	false	"Highest current price"
//	@Param			sort		query		string	false	"Sort order"	Enums(price-asc, price-desc, name-asc, name-desc, popular, createdAt)
//	@Param			page		query		int		false	"Page number (default: 1)"	minimum(1)
//	@Param			limit		query		int		false	"Page size (default: 12, admin: 10, max: 100)"	minimum(1)	maximum(100)
//	@Param			search		query		string	false	"Full-text search, or name/SKU match in the admin view"
//	@Param			featured	query		bool	false	"Featured products only"
//	@Param			onSale		query		bool	false	"Discounted products only"
//	@Param			admin		query		bool	false	"Admin view"
//	@Success		200			{object}	response.APIResponse{data=models.ProductPage}
//	@Failure		403			{object}	response.APIResponse	"Admin view without an admin session"
//	@Failure		500			{object}	response.APIResponse	"Product store unavailable"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		q := catalog.ParseQuery(r.URL.Query())
		claims, _ := middleware.ClaimsFromContext(r.Context())

		page, err := h.productService.ListProducts(r.Context(), q, claims)
		if err != nil {
			logger.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, page)
	}
}

// GetProductBySlug godoc
//
//	@Summary		Get a product by slug
//	@Description	Active product with its category and up to four related products.
//	@Tags			Products
//	@Produce		json
//	@Param			slug	path		string	true	"Product slug"
//	@Success		200		{object}	response.APIResponse{data=models.ProductDetail}
//	@Failure		404		{object}	response.APIResponse	"Product not found"
//	@Failure		500		{object}	response.APIResponse	"Internal server error"
//	@Router			/products/{slug} [get]
func (h *ProductHandler) GetProductBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		slug := strings.ToLower(strings.TrimSpace(r.PathValue("slug")))
		if slug == "" {
			response.Error(w, errors.BadRequestError("Product slug is required"))
			return
		}

		detail, err := h.productService.GetProductBySlug(r.Context(), slug)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("slug", slug), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, detail)
	}
}

// GetProductByID godoc
//
//	@Summary		Get a product by id (admin)
//	@Description	Any product, active or not. Used by the admin editor.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse{data=models.Product}
//	@Failure		400	{object}	response.APIResponse	"Invalid product ID format"
//	@Failure		401	{object}	response.APIResponse	"Authentication required"
//	@Failure		403	{object}	response.APIResponse	"Admin access required"
//	@Failure		404	{object}	response.APIResponse	"Product not found"
//	@Security		BearerAuth
//	@Router			/admin/products/{id} [get]
func (h *ProductHandler) GetProductByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("productId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Description	Requires name, basePrice, currentPrice, sku, category and images. Prices are normalized server-side and the thumbnail defaults to the first image.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	response.APIResponse{data=models.Product}
//	@Failure		400		{object}	response.APIResponse	"Missing fields, duplicate SKU or unknown category"
//	@Failure		401		{object}	response.APIResponse	"Authentication required"
//	@Failure		403		{object}	response.APIResponse	"Admin access required"
//	@Failure		500		{object}	response.APIResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to create product", slog.String("sku", req.SKU), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created successfully", slog.String("productId", product.ID.String()))
		response.SuccessWithMessage(w, http.StatusCreated, product, "Product created successfully")
	}
}

// UpdateProduct godoc
//
//	@Summary		Update a product
//	@Description	Partial update. salePrice null clears the sale; price changes are renormalized.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Product ID (UUID)"	Format(uuid)
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	response.APIResponse{data=models.Product}
//	@Failure		400		{object}	response.APIResponse	"Validation error or duplicate SKU/slug"
//	@Failure		401		{object}	response.APIResponse	"Authentication required"
//	@Failure		403		{object}	response.APIResponse	"Admin access required"
//	@Failure		404		{object}	response.APIResponse	"Product not found"
//	@Security		BearerAuth
//	@Router			/products/{id} [patch]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("productId", id.String()))

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Failed to update product", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.SuccessWithMessage(w, http.StatusOK, product, "Product updated successfully")
	}
}

// DeleteProduct godoc
//
//	@Summary		Delete a product
//	@Description	Hard delete. Hosted images are kept or destroyed according to media.on_product_delete.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse
//	@Failure		400	{object}	response.APIResponse	"Invalid product ID format"
//	@Failure		401	{object}	response.APIResponse	"Authentication required"
//	@Failure		403	{object}	response.APIResponse	"Admin access required"
//	@Failure		404	{object}	response.APIResponse	"Product not found"
//	@Security		BearerAuth
//	@Router			/products/{id} [delete]
func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			logger.Warn("Failed to delete product", slog.String("productId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.SuccessWithMessage(w, http.StatusOK, nil, "Product deleted successfully")
	}
}

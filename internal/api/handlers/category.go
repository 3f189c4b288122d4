package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chucuoi/flower-storefront/internal/api/middleware"
	"github.com/chucuoi/flower-storefront/internal/models"
	service "github.com/chucuoi/flower-storefront/internal/services"
	"github.com/chucuoi/flower-storefront/internal/utils"
	"github.com/chucuoi/flower-storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CategoryHandler struct {
	categoryService service.CategoryService
	validator       *validator.Validate
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, validator: utils.NewValidator()}
}

// ListCategories godoc
//
//	@Summary		List active categories
//	@Description	Ordered by display order, then name.
//	@Tags			Categories
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=[]models.Category}
//	@Failure		500	{object}	response.APIResponse	"Internal server error"
//	@Router			/categories [get]
func (h *CategoryHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		categories, err := h.categoryService.ListCategories(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list categories", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

// CreateCategory godoc
//
//	@Summary		Create a category
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			category	body		models.CreateCategoryRequest	true	"Category details"
//	@Success		201			{object}	response.APIResponse{data=models.Category}
//	@Failure		400			{object}	response.APIResponse	"Validation error, duplicate slug or unknown parent"
//	@Failure		401			{object}	response.APIResponse	"Authentication required"
//	@Failure		403			{object}	response.APIResponse	"Admin access required"
//	@Security		BearerAuth
//	@Router			/categories [post]
func (h *CategoryHandler) CreateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create category input")
			return
		}

		category, err := h.categoryService.CreateCategory(r.Context(), &req)
		if err != nil {
			logger.Warn("Failed to create category", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Category created", slog.String("categoryId", category.ID.String()))
		response.Success(w, http.StatusCreated, category)
	}
}

// UpdateCategory godoc
//
//	@Summary		Update a category
//	@Description	Partial update. A parent that would create a cycle is rejected.
//	@Tags			Categories
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string							true	"Category ID (UUID)"	Format(uuid)
//	@Param			category	body		models.UpdateCategoryRequest	true	"Fields to change"
//	@Success		200			{object}	response.APIResponse{data=models.Category}
//	@Failure		400			{object}	response.APIResponse	"Validation error or invalid parent"
//	@Failure		404			{object}	response.APIResponse	"Category not found"
//	@Security		BearerAuth
//	@Router			/categories/{id} [patch]
func (h *CategoryHandler) UpdateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateCategoryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update category input")
			return
		}

		category, err := h.categoryService.UpdateCategory(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Failed to update category", slog.String("categoryId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, category)
	}
}

// DeleteCategory godoc
//
//	@Summary		Delete a category
//	@Description	Only empty categories can be deleted.
//	@Tags			Categories
//	@Produce		json
//	@Param			id	path		string	true	"Category ID (UUID)"	Format(uuid)
//	@Success		200	{object}	response.APIResponse
//	@Failure		400	{object}	response.APIResponse	"Category has products"
//	@Failure		404	{object}	response.APIResponse	"Category not found"
//	@Security		BearerAuth
//	@Router			/categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to delete category",
				slog.String("categoryId", id.String()),
				slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.SuccessWithMessage(w, http.StatusOK, nil, "Category deleted successfully")
	}
}
